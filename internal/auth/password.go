package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordNotConfigured = errors.New("admin password not configured")

// Password checks login attempts against either a bcrypt hash or a plain
// configured password. The hash wins when both are set.
type Password struct {
	plain string
	hash  []byte
}

func NewPassword(plain, hash string) Password {
	p := Password{plain: plain}
	if hash != "" {
		p.hash = []byte(hash)
	}
	return p
}

func (p Password) Configured() bool {
	return p.plain != "" || len(p.hash) > 0
}

// Verify reports whether candidate matches.
func (p Password) Verify(candidate string) (bool, error) {
	switch {
	case len(p.hash) > 0:
		err := bcrypt.CompareHashAndPassword(p.hash, []byte(candidate))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	case p.plain != "":
		return subtle.ConstantTimeCompare([]byte(p.plain), []byte(candidate)) == 1, nil
	default:
		return false, ErrPasswordNotConfigured
	}
}

// HashPassword produces a value suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
