package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("token is not a JWT")

// Claims is the informational view of an access token.
type Claims struct {
	UserID    string
	TokenType string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry before now. A token
// without expiry is never reported as expired.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Describe decodes the token payload WITHOUT verifying the signature. The
// result is for display only; the server decides whether a token is valid.
func Describe(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	c := &Claims{}
	switch v := mc["user_id"].(type) {
	case string:
		c.UserID = v
	case float64:
		c.UserID = fmt.Sprintf("%.0f", v)
	}
	if c.UserID == "" {
		if sub, err := mc.GetSubject(); err == nil {
			c.UserID = sub
		}
	}
	if tt, ok := mc["token_type"].(string); ok {
		c.TokenType = tt
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
