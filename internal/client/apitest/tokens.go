package apitest

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid token")

// claims mirror the access tokens of the real backend: user_id and
// token_type, plus a role the fake uses to tell admin tokens apart.
type claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	Role      string `json:"role"`
}

func generateToken(userID int64, role, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:    strconv.FormatInt(userID, 10),
		TokenType: tokenType,
		Role:      role,
	})
	return token.SignedString(secret)
}

func parseToken(tokenString string, secret []byte) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || c.TokenType != "access" {
		return nil, errInvalidToken
	}
	return c, nil
}
