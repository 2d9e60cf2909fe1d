package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socrp/internal/common"
)

// Role selects which stored token and which API surface applies.
type Role string

const (
	// RoleNone sends requests unauthenticated.
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// Roles lists the roles that own a token.
var Roles = []Role{RoleUser, RoleAdmin}

// StorageKey returns the persistent key the role's token lives under.
func (r Role) StorageKey() (string, error) {
	switch r {
	case RoleUser:
		return common.UserTokenKey, nil
	case RoleAdmin:
		return common.AdminTokenKey, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
}

// ParseRole maps user input to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, err := r.StorageKey(); err != nil {
		return RoleNone, err
	}
	return r, nil
}

// Store holds bearer tokens per role.
//
// Contract:
//   - SetToken overwrites any prior value for that role.
//   - GetToken returns (value, true) or ("", false); it never fails. Storage
//     errors are logged by the implementation and reported as absent.
//   - Clear removes the role's token; clearing an absent token is a no-op.
//   - ClearAll removes every token.
type Store interface {
	SetToken(ctx context.Context, role Role, value string) error
	GetToken(ctx context.Context, role Role) (string, bool)
	Clear(ctx context.Context, role Role) error
	ClearAll(ctx context.Context) error
}
