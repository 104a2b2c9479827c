package store

import (
	"context"
	"fmt"
)

// InsertReaction records a reaction. The same (content, type, ip) twice
// yields ErrConflict.
func (s *PostgresStore) InsertReaction(ctx context.Context, reaction Reaction) (Reaction, error) {
	query := `
		INSERT INTO reactions (id, content_id, reaction_type, user_ip)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content_id, reaction_type, user_ip, created_at`
	var saved Reaction
	err := s.db.QueryRowxContext(ctx, query,
		reaction.ID, reaction.ContentID, reaction.ReactionType, reaction.UserIP,
	).StructScan(&saved)
	if err != nil {
		return Reaction{}, wrap("insert reaction", err)
	}
	return saved, nil
}

func (s *PostgresStore) CountReactions(ctx context.Context, contentID string) ([]ReactionCount, error) {
	counts := []ReactionCount{}
	query := `
		SELECT reaction_type, COUNT(*) AS count
		FROM reactions
		WHERE content_id = $1
		GROUP BY reaction_type`
	if err := s.db.SelectContext(ctx, &counts, query, contentID); err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	return counts, nil
}
