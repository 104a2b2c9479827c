package session

import (
	"context"
	"time"
)

// AdminSessionTable is the subset of the Postgres store used for sessions.
type AdminSessionTable interface {
	SaveAdminSession(ctx context.Context, tokenID string, expiresAt time.Time) error
	AdminSessionActive(ctx context.Context, tokenID string) (bool, error)
	RevokeAdminSession(ctx context.Context, tokenID string) error
}

// PostgresStore adapts the admin_sessions table to Store.
type PostgresStore struct {
	table AdminSessionTable
}

func NewPostgresStore(table AdminSessionTable) *PostgresStore {
	return &PostgresStore{table: table}
}

func (s *PostgresStore) Save(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.table.SaveAdminSession(ctx, tokenID, expiresAt)
}

func (s *PostgresStore) Active(ctx context.Context, tokenID string) (bool, error) {
	return s.table.AdminSessionActive(ctx, tokenID)
}

func (s *PostgresStore) Revoke(ctx context.Context, tokenID string) error {
	return s.table.RevokeAdminSession(ctx, tokenID)
}
