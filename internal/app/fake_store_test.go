package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"folio/site/internal/config"
	"folio/site/internal/content"
	"folio/site/internal/logger"
	"folio/site/internal/metrics"
	"folio/site/internal/session"
	"folio/site/internal/store"
)

// fakeStore is an in-memory dataStore with the same sentinel behaviour as
// the Postgres store.
type fakeStore struct {
	mu        sync.Mutex
	rows      []content.Row
	author    *store.Author
	comments  []store.Comment
	reactions []store.Reaction

	listErr   error
	listPanic bool
	insertErr error
	pingErr   error
	now       time.Time
}

func newFakeStore(rows ...content.Row) *fakeStore {
	return &fakeStore{rows: rows, now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *fakeStore) ListContent(context.Context) ([]content.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listPanic {
		panic("boom")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]content.Row{}, f.rows...), nil
}

func (f *fakeStore) GetContent(_ context.Context, id string) (content.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return content.Row{}, store.ErrNotFound
}

func (f *fakeStore) GetContentBySlug(_ context.Context, slug string) (content.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Slug == slug {
			return row, nil
		}
	}
	return content.Row{}, store.ErrNotFound
}

func (f *fakeStore) ContentIDBySlug(ctx context.Context, slug string) (string, error) {
	row, err := f.GetContentBySlug(ctx, slug)
	return row.ID, err
}

func (f *fakeStore) InsertContent(_ context.Context, row content.Row) (content.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return content.Row{}, f.insertErr
	}
	for _, existing := range f.rows {
		switch {
		case existing.ID == row.ID:
			return content.Row{}, store.ErrDuplicateID
		case existing.Slug == row.Slug:
			return content.Row{}, store.ErrConflict
		}
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeStore) UpdateContent(_ context.Context, row content.Row) (content.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := -1
	for i, existing := range f.rows {
		if existing.ID == row.ID {
			index = i
		} else if existing.Slug == row.Slug {
			return content.Row{}, store.ErrConflict
		}
	}
	if index < 0 {
		return content.Row{}, store.ErrNotFound
	}
	f.rows[index] = row
	return row, nil
}

func (f *fakeStore) DeleteContent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteAllContent(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.rows))
	f.rows = nil
	return n, nil
}

func (f *fakeStore) GetAuthor(context.Context) (store.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.author == nil {
		return store.Author{}, store.ErrNotFound
	}
	return *f.author, nil
}

func (f *fakeStore) UpsertAuthor(_ context.Context, author store.Author) (store.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	author.ID = store.AuthorID
	f.author = &author
	return author, nil
}

func (f *fakeStore) ListApprovedComments(_ context.Context, contentID string) ([]store.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.Comment{}
	for i := len(f.comments) - 1; i >= 0; i-- {
		if c := f.comments[i]; c.ContentID == contentID && c.Approved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecentComments(_ context.Context, limit int) ([]store.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.Comment{}
	for i := len(f.comments) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.comments[i])
	}
	return out, nil
}

func (f *fakeStore) InsertComment(_ context.Context, comment store.Comment) (store.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.CreatedAt = f.tick()
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) InsertReaction(_ context.Context, reaction store.Reaction) (store.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reactions {
		if r.ContentID == reaction.ContentID && r.ReactionType == reaction.ReactionType && r.UserIP == reaction.UserIP {
			return store.Reaction{}, store.ErrConflict
		}
	}
	reaction.CreatedAt = f.tick()
	f.reactions = append(f.reactions, reaction)
	return reaction, nil
}

func (f *fakeStore) CountReactions(_ context.Context, contentID string) ([]store.ReactionCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, r := range f.reactions {
		if r.ContentID == contentID {
			counts[r.ReactionType]++
		}
	}
	out := []store.ReactionCount{}
	for kind, n := range counts {
		out = append(out, store.ReactionCount{ReactionType: kind, Count: n})
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

func testConfig() config.Config {
	return config.Config{
		SiteURL:       "https://folio.test",
		AdminPassword: "letmein",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		DefaultAuthor: config.Author{
			Name:        "Default Author",
			Credentials: []string{"LL.M."},
			LinkedIn:    "https://linkedin.com/in/default",
			Email:       "default@folio.test",
		},
	}
}

// newTestService builds a service over fs. Pass nil for an unconfigured
// store.
func newTestService(t *testing.T, fs *fakeStore) *Service {
	t.Helper()
	deps := Deps{
		Config:   testConfig(),
		Sessions: session.NewMemoryStore(),
		Metrics:  metrics.New(),
		Logger:   logger.NewNop(),
	}
	if fs != nil {
		deps.Store = fs
	}
	return New(deps)
}

func sampleRow(id, slug, title string) content.Row {
	return content.Row{
		ID:            id,
		Slug:          slug,
		Title:         content.Str(title),
		AuthorName:    content.Str("Default Author"),
		PublishedDate: content.Str("2025-01-15"),
		ContentType:   content.Str("Article"),
		LawArea:       content.Str("IP Law"),
		Content:       content.Str("# Heading\n\nBody text."),
		Tags:          content.StringList{"copyright"},
	}
}
