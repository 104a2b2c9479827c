package store

import (
	"context"
	"errors"
	"fmt"

	"folio/site/internal/content"
)

const contentColumns = `id, title, subtitle, slug, author_name, author_credentials, author_linkedin,
	author_email, published_date, law_area, jurisdiction, content_type, is_policy_recommendation,
	policy_theme, content, excerpt, tags, featured, category_path`

// ListContent returns every row, newest published first. Rows without a
// published date come last.
func (s *PostgresStore) ListContent(ctx context.Context) ([]content.Row, error) {
	rows := []content.Row{}
	query := `SELECT ` + contentColumns + ` FROM content ORDER BY published_date DESC NULLS LAST`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return rows, nil
}

func (s *PostgresStore) GetContent(ctx context.Context, id string) (content.Row, error) {
	var row content.Row
	err := s.db.GetContext(ctx, &row, `SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	if err != nil {
		return content.Row{}, wrap("get content", err)
	}
	return row, nil
}

func (s *PostgresStore) GetContentBySlug(ctx context.Context, slug string) (content.Row, error) {
	var row content.Row
	err := s.db.GetContext(ctx, &row, `SELECT `+contentColumns+` FROM content WHERE slug = $1`, slug)
	if err != nil {
		return content.Row{}, wrap("get content by slug", err)
	}
	return row, nil
}

// ContentIDBySlug returns the id owning slug, or ErrNotFound.
func (s *PostgresStore) ContentIDBySlug(ctx context.Context, slug string) (string, error) {
	var id string
	if err := s.db.GetContext(ctx, &id, `SELECT id FROM content WHERE slug = $1`, slug); err != nil {
		return "", wrap("lookup slug", err)
	}
	return id, nil
}

// InsertContent stores a new row. A duplicate slug yields ErrConflict and a
// duplicate id ErrDuplicateID.
func (s *PostgresStore) InsertContent(ctx context.Context, row content.Row) (content.Row, error) {
	query := `
		INSERT INTO content (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + contentColumns
	var saved content.Row
	if err := s.db.QueryRowxContext(ctx, query, contentArgs(row)...).StructScan(&saved); err != nil {
		return content.Row{}, wrap("insert content", err)
	}
	return saved, nil
}

// UpdateContent replaces every column of the row with the same id.
func (s *PostgresStore) UpdateContent(ctx context.Context, row content.Row) (content.Row, error) {
	query := `
		UPDATE content SET
			title = $2, subtitle = $3, slug = $4, author_name = $5, author_credentials = $6,
			author_linkedin = $7, author_email = $8, published_date = $9, law_area = $10,
			jurisdiction = $11, content_type = $12, is_policy_recommendation = $13,
			policy_theme = $14, content = $15, excerpt = $16, tags = $17, featured = $18,
			category_path = $19, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contentColumns
	var saved content.Row
	if err := s.db.QueryRowxContext(ctx, query, contentArgs(row)...).StructScan(&saved); err != nil {
		return content.Row{}, wrap("update content", err)
	}
	return saved, nil
}

// DeleteContent removes one row. Comments and reactions are left alone.
func (s *PostgresStore) DeleteContent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllContent empties the content table and reports how many rows went.
func (s *PostgresStore) DeleteAllContent(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM content`)
	if err != nil {
		return 0, fmt.Errorf("delete all content: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all content: %w", err)
	}
	return affected, nil
}

func contentArgs(row content.Row) []any {
	return []any{
		row.ID, row.Title, row.Subtitle, row.Slug, row.AuthorName, row.AuthorCredentials,
		row.AuthorLinkedIn, row.AuthorEmail, row.PublishedDate, row.LawArea, row.Jurisdiction,
		row.ContentType, row.IsPolicyRecommendation, row.PolicyTheme, row.Content, row.Excerpt,
		row.Tags, row.Featured, row.CategoryPath,
	}
}

// wrap classifies err and annotates anything that is not a sentinel.
func wrap(op string, err error) error {
	classified := classify(err)
	if classified == ErrNotFound || errors.Is(classified, ErrConflict) {
		return classified
	}
	return fmt.Errorf("%s: %w", op, err)
}
