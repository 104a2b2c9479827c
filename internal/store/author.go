package store

import (
	"context"
	"fmt"
)

const authorColumns = `id, name, credentials, linkedin, email, other_links`

// GetAuthor loads the singleton profile, or ErrNotFound when it was never
// saved.
func (s *PostgresStore) GetAuthor(ctx context.Context) (Author, error) {
	var author Author
	err := s.db.GetContext(ctx, &author, `SELECT `+authorColumns+` FROM author WHERE id = $1`, AuthorID)
	if err != nil {
		return Author{}, wrap("get author", err)
	}
	return author, nil
}

// UpsertAuthor writes the singleton profile, ignoring author.ID.
func (s *PostgresStore) UpsertAuthor(ctx context.Context, author Author) (Author, error) {
	query := `
		INSERT INTO author (` + authorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			credentials = EXCLUDED.credentials,
			linkedin = EXCLUDED.linkedin,
			email = EXCLUDED.email,
			other_links = EXCLUDED.other_links,
			updated_at = NOW()
		RETURNING ` + authorColumns
	var saved Author
	err := s.db.QueryRowxContext(ctx, query,
		AuthorID, author.Name, author.Credentials, author.LinkedIn, author.Email, author.OtherLinks,
	).StructScan(&saved)
	if err != nil {
		return Author{}, fmt.Errorf("upsert author: %w", err)
	}
	return saved, nil
}
