package store

import (
	"context"
	"fmt"
)

const commentColumns = `id, content_id, author_name, author_email, comment, approved, created_at`

// ListApprovedComments returns the approved comments on one item, newest
// first.
func (s *PostgresStore) ListApprovedComments(ctx context.Context, contentID string) ([]Comment, error) {
	comments := []Comment{}
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE content_id = $1 AND approved = TRUE
		ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &comments, query, contentID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// ListRecentComments feeds the moderation screen.
func (s *PostgresStore) ListRecentComments(ctx context.Context, limit int) ([]Comment, error) {
	comments := []Comment{}
	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &comments, query, limit); err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}
	return comments, nil
}

func (s *PostgresStore) InsertComment(ctx context.Context, comment Comment) (Comment, error) {
	query := `
		INSERT INTO comments (id, content_id, author_name, author_email, comment, approved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + commentColumns
	var saved Comment
	err := s.db.QueryRowxContext(ctx, query,
		comment.ID, comment.ContentID, comment.AuthorName, comment.AuthorEmail, comment.Comment, comment.Approved,
	).StructScan(&saved)
	if err != nil {
		return Comment{}, wrap("insert comment", err)
	}
	return saved, nil
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
