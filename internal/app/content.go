package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"folio/site/internal/content"
	"folio/site/internal/export"
	"folio/site/internal/logger"
	"folio/site/internal/revisions"
	"folio/site/internal/search"
	"folio/site/internal/store"
	"folio/site/internal/validation"
)

const revisionAuthor = "admin"

// FetchAll returns every content item, newest published first. It never
// fails: a missing store, a query error or a panic all yield an empty list.
func (s *Service) FetchAll(ctx context.Context) (items []content.Item) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("Content fetch panicked, serving empty listing", logger.Any("panic", r))
			s.metrics.FailSoft("panic")
			items = []content.Item{}
		}
	}()

	if !s.configured() {
		s.log.Warn("Content store not configured, serving empty listing")
		s.metrics.FailSoft("not_configured")
		return []content.Item{}
	}
	rows, err := s.store.ListContent(ctx)
	if err != nil {
		s.log.Warn("Content fetch failed, serving empty listing", logger.Err(err))
		s.metrics.FailSoft("query_failed")
		return []content.Item{}
	}
	return s.mapper.ToDomainAll(rows)
}

// GetContent loads one item by id.
func (s *Service) GetContent(ctx context.Context, id string) (content.Item, error) {
	if !s.configured() {
		return content.Item{}, errNotConfigured()
	}
	row, err := s.store.GetContent(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return content.Item{}, errNotFound("Content")
	}
	if err != nil {
		return content.Item{}, err
	}
	return s.mapper.ToDomain(row), nil
}

// GetContentBySlug loads one item by slug. An unconfigured store reads as
// not found.
func (s *Service) GetContentBySlug(ctx context.Context, slug string) (content.Item, error) {
	if !s.configured() {
		return content.Item{}, errNotFound("Content")
	}
	row, err := s.store.GetContentBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return content.Item{}, errNotFound("Content")
	}
	if err != nil {
		return content.Item{}, err
	}
	return s.mapper.ToDomain(row), nil
}

// CreateContent validates payload, derives a slug when missing, refuses a
// slug already in use and stores the item.
func (s *Service) CreateContent(ctx context.Context, payload map[string]any) (item content.Item, err error) {
	defer func() { s.recordWrite("content", "create", err) }()

	if !s.configured() {
		return content.Item{}, errNotConfigured()
	}
	parsed, err := validation.Validate(payload)
	if err != nil {
		return content.Item{}, invalidPayload(err)
	}
	item = parsed.Item
	if item.Slug == "" {
		item.Slug = content.Slugify(content.Deref(item.Title))
	}
	if item.Slug == "" {
		item.Slug = s.mapper.FallbackSlug()
	}

	if _, err := s.store.ContentIDBySlug(ctx, item.Slug); err == nil {
		return content.Item{}, errSlugExists(item.Slug)
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log.Error("Slug lookup failed", logger.String("slug", item.Slug), logger.Err(err))
		return content.Item{}, errStore("Failed to save content")
	}

	row := s.mapper.ToRow(item, "")
	saved, err := s.store.InsertContent(ctx, row)
	switch {
	case errors.Is(err, store.ErrDuplicateID):
		return content.Item{}, errIDExists(row.ID)
	case errors.Is(err, store.ErrConflict):
		return content.Item{}, errSlugExists(item.Slug)
	case err != nil:
		s.log.Error("Insert content failed", logger.String("slug", item.Slug), logger.Err(err))
		return content.Item{}, errStore("Failed to save content")
	}

	created := s.mapper.ToDomain(saved)
	s.afterSave(created, "Create content")
	return created, nil
}

// UpdateContent replaces the item with id. A missing slug is derived from
// the title, or kept from the stored item when there is no title either.
func (s *Service) UpdateContent(ctx context.Context, id string, payload map[string]any) (item content.Item, err error) {
	defer func() { s.recordWrite("content", "update", err) }()

	if !s.configured() {
		return content.Item{}, errNotConfigured()
	}
	parsed, err := validation.Validate(payload)
	if err != nil {
		return content.Item{}, invalidPayload(err)
	}
	item = parsed.Item
	item.ID = id

	current, err := s.store.GetContent(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return content.Item{}, errNotFound("Content")
	}
	if err != nil {
		s.log.Error("Load content for update failed", logger.String("content_id", id), logger.Err(err))
		return content.Item{}, errStore("Failed to update content")
	}

	if item.Slug == "" {
		item.Slug = content.Slugify(content.Deref(item.Title))
	}
	if item.Slug == "" {
		item.Slug = current.Slug
	}
	if item.Slug != current.Slug {
		owner, err := s.store.ContentIDBySlug(ctx, item.Slug)
		switch {
		case err == nil && owner != id:
			return content.Item{}, errSlugExists(item.Slug)
		case err != nil && !errors.Is(err, store.ErrNotFound):
			s.log.Error("Slug lookup failed", logger.String("slug", item.Slug), logger.Err(err))
			return content.Item{}, errStore("Failed to update content")
		}
	}

	saved, err := s.store.UpdateContent(ctx, s.mapper.ToRow(item, id))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return content.Item{}, errNotFound("Content")
	case errors.Is(err, store.ErrConflict):
		return content.Item{}, errSlugExists(item.Slug)
	case err != nil:
		s.log.Error("Update content failed", logger.String("content_id", id), logger.Err(err))
		return content.Item{}, errStore("Failed to update content")
	}

	updated := s.mapper.ToDomain(saved)
	s.afterSave(updated, "Update content")
	return updated, nil
}

// DeleteContent removes one item. Its comments and reactions stay.
func (s *Service) DeleteContent(ctx context.Context, id string) (err error) {
	defer func() { s.recordWrite("content", "delete", err) }()

	if !s.configured() {
		return errNotConfigured()
	}
	if err := s.store.DeleteContent(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("Content")
		}
		s.log.Error("Delete content failed", logger.String("content_id", id), logger.Err(err))
		return errStore("Failed to delete content")
	}
	s.afterDelete(id)
	return nil
}

// DeleteAllContent empties the content table.
func (s *Service) DeleteAllContent(ctx context.Context) (deleted int64, err error) {
	defer func() { s.recordWrite("content", "delete_all", err) }()

	if !s.configured() {
		return 0, errNotConfigured()
	}
	existing, err := s.store.ListContent(ctx)
	if err != nil {
		s.log.Warn("List content before mass delete failed", logger.Err(err))
	}
	deleted, err = s.store.DeleteAllContent(ctx)
	if err != nil {
		s.log.Error("Delete all content failed", logger.Err(err))
		return 0, errStore("Failed to delete content")
	}
	for _, row := range existing {
		s.recordDeletion(row.ID)
	}
	s.search.RemoveAll()
	s.log.Info("Deleted all content", logger.Int("count", int(deleted)))
	return deleted, nil
}

// Revisions lists the archived history of one item, newest first.
func (s *Service) Revisions(ctx context.Context, id string, limit int) ([]revisions.Revision, error) {
	if s.revisions == nil {
		return []revisions.Revision{}, nil
	}
	history, err := s.revisions.History(id, limit)
	if err != nil {
		s.log.Error("Read revision history failed", logger.String("content_id", id), logger.Err(err))
		return nil, errStore("Failed to read revision history")
	}
	if history == nil {
		history = []revisions.Revision{}
	}
	return history, nil
}

// RevisionChange is one archived snapshot of an item and how it differs
// from the current version.
type RevisionChange struct {
	Hash    string                  `json:"hash"`
	// Deleted marks the revision that removed the item; Content is empty.
	Deleted bool                    `json:"deleted"`
	Content content.Item            `json:"content"`
	Changes []revisions.FieldChange `json:"changes"`
}

// RevisionAt loads the snapshot of id stored at hash and diffs it against
// the stored item. A deleted item diffs against an empty one.
func (s *Service) RevisionAt(ctx context.Context, id, hash string) (RevisionChange, error) {
	if s.revisions == nil {
		return RevisionChange{}, errNotFound("Revision")
	}
	old, err := s.revisions.At(id, hash)
	deleted := errors.Is(err, revisions.ErrItemDeleted)
	switch {
	case deleted:
		old = content.Item{}
	case errors.Is(err, revisions.ErrNoHistory), errors.Is(err, revisions.ErrRevisionNotFound):
		return RevisionChange{}, errNotFound("Revision")
	case err != nil:
		s.log.Error("Read revision failed", logger.String("content_id", id), logger.String("hash", hash), logger.Err(err))
		return RevisionChange{}, errStore("Failed to read revision")
	}

	var current content.Item
	if s.configured() {
		row, err := s.store.GetContent(ctx, id)
		switch {
		case err == nil:
			current = s.mapper.ToDomain(row)
		case !errors.Is(err, store.ErrNotFound):
			s.log.Error("Load content for diff failed", logger.String("content_id", id), logger.Err(err))
			return RevisionChange{}, errStore("Failed to read revision")
		}
	}
	return RevisionChange{Hash: hash, Deleted: deleted, Content: old, Changes: revisions.Diff(old, current)}, nil
}

// Search queries the index, falling back to a scan of all content.
func (s *Service) Search(ctx context.Context, text string, limit int) search.Response {
	resp := s.search.Search(ctx, search.Query{Text: text, Limit: limit})
	s.metrics.Search(resp.Source)
	return resp
}

// PDF renders the item with slug as a PDF document.
func (s *Service) PDF(ctx context.Context, slug string) (*export.Result, error) {
	item, err := s.GetContentBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	result, err := s.export.PDF(ctx, item, s.cfg.DefaultAuthor.Name)
	if errors.Is(err, export.ErrPDFDependencyMissing) {
		return nil, domainError(http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "PDF export is not available on this server", nil)
	}
	if err != nil {
		s.log.Error("PDF export failed", logger.String("slug", slug), logger.Err(err))
		return nil, errStore("Failed to export PDF")
	}
	return result, nil
}

// ImportReport summarises a bulk import.
type ImportReport struct {
	Migrated int      `json:"migrated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Import creates each payload whose slug is not already taken.
func (s *Service) Import(ctx context.Context, payloads []map[string]any) (ImportReport, error) {
	report := ImportReport{Errors: []string{}}
	if !s.configured() {
		return report, errNotConfigured()
	}
	existing := make(map[string]struct{})
	for _, item := range s.FetchAll(ctx) {
		existing[item.Slug] = struct{}{}
	}

	for i, payload := range payloads {
		if slug, _ := payload["slug"].(string); slug != "" {
			if _, ok := existing[slug]; ok {
				report.Skipped++
				continue
			}
		}
		item, err := s.CreateContent(ctx, payload)
		var domainErr *DomainError
		switch {
		case err == nil:
			existing[item.Slug] = struct{}{}
			report.Migrated++
		case errors.As(err, &domainErr) && (domainErr.Code == "SLUG_EXISTS" || domainErr.Code == "ID_EXISTS"):
			report.Skipped++
		default:
			report.Errors = append(report.Errors, fmt.Sprintf("item %d: %v", i, err))
		}
	}
	return report, nil
}

// Reindex pushes every stored item to the search index.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if !s.configured() {
		return 0, errNotConfigured()
	}
	rows, err := s.store.ListContent(ctx)
	if err != nil {
		return 0, err
	}
	return s.search.Reindex(s.mapper.ToDomainAll(rows))
}

func (s *Service) afterSave(item content.Item, message string) {
	if s.revisions != nil {
		if _, err := s.revisions.Record(item, message, revisionAuthor); err != nil {
			s.log.Warn("Record revision failed", logger.String("content_id", item.ID), logger.Err(err))
		}
	}
	s.search.IndexItem(item)
}

func (s *Service) afterDelete(id string) {
	s.recordDeletion(id)
	s.search.RemoveItem(id)
}

func (s *Service) recordDeletion(id string) {
	if s.revisions == nil {
		return
	}
	if _, err := s.revisions.RecordDeletion(id, revisionAuthor); err != nil && !errors.Is(err, revisions.ErrNoHistory) {
		s.log.Warn("Record deletion failed", logger.String("content_id", id), logger.Err(err))
	}
}

func invalidPayload(err error) error {
	if !errors.Is(err, validation.ErrInvalid) {
		return errStore("Failed to validate content")
	}
	return errInvalid("Invalid payload", validation.Issues(err))
}
