// Package revisions keeps a git history of every content item. Each item
// gets its own repository holding a single item.json; every write is a
// commit.
package revisions

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"folio/site/internal/content"
)

const itemFile = "item.json"

var (
	ErrNoHistory        = errors.New("no revision history")
	ErrRevisionNotFound = errors.New("revision not found")
	// ErrItemDeleted is returned by At for a revision that records the
	// item's removal.
	ErrItemDeleted      = errors.New("item deleted at revision")
)

// Revision is one commit in an item's history.
type Revision struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// FieldChange describes one field that differs between two snapshots.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

type Archive struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
	now     func() time.Time
}

func New(baseDir string) *Archive {
	return &Archive{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
		now:     time.Now,
	}
}

// Record commits the current state of item. Writing an unchanged item
// returns the latest revision without a new commit.
func (a *Archive) Record(item content.Item, message, author string) (Revision, error) {
	lock := a.itemLock(item.ID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := a.openOrInit(item.ID)
	if err != nil {
		return Revision{}, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return Revision{}, fmt.Errorf("open worktree: %w", err)
	}

	payload, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return Revision{}, fmt.Errorf("marshal item: %w", err)
	}
	if err := os.WriteFile(filepath.Join(worktree.Filesystem.Root(), itemFile), append(payload, '\n'), 0o644); err != nil {
		return Revision{}, fmt.Errorf("write %s: %w", itemFile, err)
	}
	if _, err := worktree.Add(itemFile); err != nil {
		return Revision{}, fmt.Errorf("git add: %w", err)
	}
	return a.commit(repo, worktree, message, author)
}

// RecordDeletion commits the removal of the item. Items with no history
// are ignored.
func (a *Archive) RecordDeletion(id, author string) (Revision, error) {
	lock := a.itemLock(id)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(a.repoPath(id))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Revision{}, ErrNoHistory
	}
	if err != nil {
		return Revision{}, fmt.Errorf("open repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return Revision{}, fmt.Errorf("open worktree: %w", err)
	}
	if _, err := worktree.Remove(itemFile); err != nil {
		return Revision{}, fmt.Errorf("git rm: %w", err)
	}
	return a.commit(repo, worktree, "Delete content", author)
}

// History lists the most recent revisions of an item, newest first.
func (a *Archive) History(id string, limit int) ([]Revision, error) {
	lock := a.itemLock(id)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(a.repoPath(id))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return []Revision{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	revisions := make([]Revision, 0)
	errStop := errors.New("stop")
	err = iter.ForEach(func(commitObj *object.Commit) error {
		if limit > 0 && len(revisions) >= limit {
			return errStop
		}
		revisions = append(revisions, toRevision(commitObj))
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, fmt.Errorf("walk log: %w", err)
	}
	return revisions, nil
}

// At loads the snapshot stored by the given commit. Short hashes are
// accepted.
func (a *Archive) At(id, hash string) (content.Item, error) {
	lock := a.itemLock(id)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(a.repoPath(id))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return content.Item{}, ErrNoHistory
	}
	if err != nil {
		return content.Item{}, fmt.Errorf("open repo: %w", err)
	}
	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return content.Item{}, fmt.Errorf("%w: %s", ErrRevisionNotFound, hash)
	}
	commitObj, err := repo.CommitObject(*resolved)
	if err != nil {
		return content.Item{}, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return readItem(commitObj)
}

// Diff lists the fields that differ between two snapshots, in a fixed
// order.
func Diff(from, to content.Item) []FieldChange {
	pairs := []struct {
		field         string
		before, after any
	}{
		{"title", from.Title, to.Title},
		{"subtitle", from.Subtitle, to.Subtitle},
		{"slug", from.Slug, to.Slug},
		{"author", from.Author, to.Author},
		{"publishedDate", from.PublishedDate, to.PublishedDate},
		{"lawArea", from.LawArea, to.LawArea},
		{"jurisdiction", from.Jurisdiction, to.Jurisdiction},
		{"contentType", from.ContentType, to.ContentType},
		{"isPolicyRecommendation", from.IsPolicyRecommendation, to.IsPolicyRecommendation},
		{"policyTheme", from.PolicyTheme, to.PolicyTheme},
		{"content", from.Content, to.Content},
		{"excerpt", from.Excerpt, to.Excerpt},
		{"tags", from.Tags, to.Tags},
		{"featured", from.Featured, to.Featured},
		{"categoryPath", from.CategoryPath, to.CategoryPath},
	}
	changes := make([]FieldChange, 0)
	for _, p := range pairs {
		if reflect.DeepEqual(p.before, p.after) {
			continue
		}
		changes = append(changes, FieldChange{Field: p.field, Before: display(p.before), After: display(p.after)})
	}
	return changes
}

func display(v any) string {
	switch value := v.(type) {
	case *string:
		return content.Deref(value)
	case string:
		return value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	}
}

func (a *Archive) openOrInit(id string) (*git.Repository, error) {
	path := a.repoPath(id)
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create repo dir: %w", err)
	}
	repo, err = git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	return repo, nil
}

func (a *Archive) commit(repo *git.Repository, worktree *git.Worktree, message, author string) (Revision, error) {
	if author == "" {
		author = "admin"
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: "admin@folio.local",
			When:  a.now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		head, headErr := repo.Head()
		if headErr != nil {
			return Revision{}, fmt.Errorf("resolve head: %w", headErr)
		}
		hash = head.Hash()
	} else if err != nil {
		return Revision{}, fmt.Errorf("commit: %w", err)
	}
	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return Revision{}, fmt.Errorf("read commit object: %w", err)
	}
	return toRevision(commitObj), nil
}

var safeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// repoPath maps an item id to its repository. Ids that are not plain
// path segments are hashed.
func (a *Archive) repoPath(id string) string {
	if safeID.MatchString(id) {
		return filepath.Join(a.baseDir, id)
	}
	sum := sha256.Sum256([]byte(id))
	return filepath.Join(a.baseDir, "x-"+hex.EncodeToString(sum[:]))
}

func (a *Archive) itemLock(id string) *sync.Mutex {
	a.lockMu.Lock()
	defer a.lockMu.Unlock()
	lock, ok := a.locks[id]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	a.locks[id] = lock
	return lock
}

func readItem(commitObj *object.Commit) (content.Item, error) {
	file, err := commitObj.File(itemFile)
	if errors.Is(err, object.ErrFileNotFound) {
		return content.Item{}, ErrItemDeleted
	}
	if err != nil {
		return content.Item{}, fmt.Errorf("load %s from commit: %w", itemFile, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return content.Item{}, fmt.Errorf("open item reader: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return content.Item{}, fmt.Errorf("read item bytes: %w", err)
	}
	var item content.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return content.Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

func toRevision(commitObj *object.Commit) Revision {
	return Revision{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}
