package app

import (
	"context"
	"errors"
	"time"

	"folio/site/internal/auth"
	"folio/site/internal/logger"
)

// AdminSession is an issued admin cookie token.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
}

// Login checks the admin password and issues a session token.
func (s *Service) Login(ctx context.Context, password string) (AdminSession, error) {
	ok, err := s.password.Verify(password)
	if errors.Is(err, auth.ErrPasswordNotConfigured) {
		s.log.Error("Admin login attempted without a configured password")
		return AdminSession{}, errNotConfigured()
	}
	if err != nil {
		s.log.Error("Password check failed", logger.Err(err))
		return AdminSession{}, errStore("Login failed")
	}
	if !ok {
		s.log.Warn("Admin login rejected")
		return AdminSession{}, domainError(errUnauthorized().Status, "UNAUTHORIZED", "Invalid password", nil)
	}

	token, claims, err := s.tokens.Issue()
	if err != nil {
		s.log.Error("Issue session token failed", logger.Err(err))
		return AdminSession{}, errStore("Login failed")
	}
	expiresAt := claims.ExpiresAt.Time
	if err := s.sessions.Save(ctx, claims.ID, expiresAt); err != nil {
		s.log.Error("Save admin session failed", logger.Err(err))
		return AdminSession{}, errStore("Login failed")
	}
	s.log.Info("Admin logged in", logger.String("session_id", claims.ID))
	return AdminSession{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session behind token. Unknown or expired tokens are
// ignored.
func (s *Service) Logout(ctx context.Context, token string) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		s.log.Warn("Revoke admin session failed", logger.String("session_id", claims.ID), logger.Err(err))
	}
}

// Authenticated reports whether token is a valid, unrevoked admin session.
func (s *Service) Authenticated(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return false
	}
	active, err := s.sessions.Active(ctx, claims.ID)
	if err != nil {
		s.log.Warn("Session lookup failed", logger.String("session_id", claims.ID), logger.Err(err))
		return false
	}
	return active
}

// SessionTTL is how long an issued admin cookie lives.
func (s *Service) SessionTTL() time.Duration {
	return s.tokens.TTL()
}
