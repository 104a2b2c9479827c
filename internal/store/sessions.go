package store

import (
	"context"
	"fmt"
	"time"
)

// Admin sessions are tracked by token id so a logout revokes the cookie
// before it expires. This table is the fallback when Redis is absent.

func (s *PostgresStore) SaveAdminSession(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO UPDATE SET expires_at = EXCLUDED.expires_at, revoked_at = NULL
	`, tokenID, expiresAt)
	if err != nil {
		return fmt.Errorf("save admin session: %w", err)
	}
	return nil
}

func (s *PostgresStore) AdminSessionActive(ctx context.Context, tokenID string) (bool, error) {
	var active bool
	err := s.db.GetContext(ctx, &active, `
		SELECT EXISTS(
			SELECT 1 FROM admin_sessions
			WHERE token_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
		)`, tokenID)
	if err != nil {
		return false, fmt.Errorf("check admin session: %w", err)
	}
	return active, nil
}

func (s *PostgresStore) RevokeAdminSession(ctx context.Context, tokenID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE admin_sessions SET revoked_at = NOW() WHERE token_id = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("revoke admin session: %w", err)
	}
	return nil
}

// PurgeExpiredAdminSessions drops sessions that can no longer authenticate.
func (s *PostgresStore) PurgeExpiredAdminSessions(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= NOW() OR revoked_at IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("purge admin sessions: %w", err)
	}
	return result.RowsAffected()
}
