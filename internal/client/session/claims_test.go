package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestDescribe_SimpleJWTShape(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"user_id": 7, "token_type": "access", "exp": exp.Unix()})

	c, err := Describe(tok)
	require.NoError(t, err)
	assert.Equal(t, "7", c.UserID)
	assert.Equal(t, "access", c.TokenType)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(time.Now()))
}

func TestDescribe_ExpiredTokenStillDecodes(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "admin@example.org", "exp": time.Now().Add(-time.Hour).Unix()})

	c, err := Describe(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.org", c.UserID)
	assert.True(t, c.Expired(time.Now()))
}

func TestDescribe_NoExpiry(t *testing.T) {
	c, err := Describe(signed(t, jwt.MapClaims{"user_id": "abc"}))
	require.NoError(t, err)
	assert.True(t, c.ExpiresAt.IsZero())
	assert.False(t, c.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestDescribe_OpaqueToken(t *testing.T) {
	_, err := Describe("not-a-jwt")
	require.ErrorIs(t, err, ErrNotJWT)
}
