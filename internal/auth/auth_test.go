package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, issued, err := m.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, AdminSubject, claims.Subject)
}

func TestIssueGivesUniqueIDs(t *testing.T) {
	m := NewManager("secret", time.Hour)

	_, a, err := m.Issue()
	require.NoError(t, err)
	_, b, err := m.Issue()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager("secret", time.Hour).Issue()
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).Parse(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	start := time.Now()
	m.now = func() time.Time { return start }
	token, _, err := m.Issue()
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.Parse(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsGarbageAndForeignSubject(t *testing.T) {
	m := NewManager("secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone-else",
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordPlain(t *testing.T) {
	p := NewPassword("hunter2", "")

	ok, err := p.Verify("hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Verify("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHashWins(t *testing.T) {
	hash, err := HashPassword("from-hash")
	require.NoError(t, err)
	p := NewPassword("plain", hash)

	ok, err := p.Verify("from-hash")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Verify("plain")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordNotConfigured(t *testing.T) {
	p := NewPassword("", "")

	assert.False(t, p.Configured())
	_, err := p.Verify("anything")
	assert.ErrorIs(t, err, ErrPasswordNotConfigured)
}
