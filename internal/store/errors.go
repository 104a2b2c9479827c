package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrNotConfigured = errors.New("store not configured")
	// ErrDuplicateID is the primary key flavour of ErrConflict.
	ErrDuplicateID   = fmt.Errorf("duplicate id: %w", ErrConflict)
)

const (
	uniqueViolation   = "23505"
	contentPrimaryKey = "content_pkey"
)

func uniqueViolationOn(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// classify maps driver errors onto the package sentinels.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	}
	if constraint, ok := uniqueViolationOn(err); ok {
		if constraint == contentPrimaryKey {
			return ErrDuplicateID
		}
		return ErrConflict
	}
	return err
}
