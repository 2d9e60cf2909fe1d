// Package services contains application services for the certification
// portal client.
// This file defines the authentication service: user and admin login,
// registration, email verification, logout and token introspection.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/dmitrijs2005/socrp/internal/common"
	"github.com/dmitrijs2005/socrp/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / AdminLogin: authenticate and store the access token under the
//     matching role. The refresh token is not kept.
//   - Register: validate the form locally, then create the account.
//   - VerifyEmail: confirm an email address with the uid from the mail.
//   - Logout: drop the role's token and return the entry point to go to.
//   - WhoAmI: decode the stored token for display.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) error
	AdminLogin(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, reg models.Registration) (string, error)
	VerifyEmail(ctx context.Context, uid string) (string, error)
	Logout(ctx context.Context, role session.Role) (string, error)
	SignedIn(ctx context.Context, role session.Role) bool
	WhoAmI(ctx context.Context, role session.Role) (*session.Claims, error)
}

type authService struct {
	client client.Client
	store  session.Store
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, store session.Store, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{client: c, store: store, logger: logger}
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	tokens, err := a.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.keep(ctx, session.RoleUser, tokens)
}

func (a *authService) AdminLogin(ctx context.Context, creds models.Credentials) error {
	tokens, err := a.client.AdminLogin(ctx, creds)
	if err != nil {
		return fmt.Errorf("admin login error: %w", err)
	}
	return a.keep(ctx, session.RoleAdmin, tokens)
}

func (a *authService) keep(ctx context.Context, role session.Role, tokens *models.Tokens) error {
	if tokens == nil || tokens.Access == "" {
		return ErrEmptyToken
	}
	if err := a.store.SetToken(ctx, role, tokens.Access); err != nil {
		return fmt.Errorf("token saving error: %w", err)
	}
	a.logger.Info(ctx, "signed in", "role", string(role))
	return nil
}

// Register checks terms, required fields and password confirmation before
// anything is sent.
func (a *authService) Register(ctx context.Context, reg models.Registration) (string, error) {
	if err := reg.Validate(); err != nil {
		return "", err
	}
	return a.client.Register(ctx, reg)
}

func (a *authService) VerifyEmail(ctx context.Context, uid string) (string, error) {
	return a.client.VerifyEmail(ctx, uid)
}

// Logout removes the role's token. It is the only operation that does.
func (a *authService) Logout(ctx context.Context, role session.Role) (string, error) {
	if err := a.store.Clear(ctx, role); err != nil {
		return "", err
	}
	a.logger.Info(ctx, "signed out", "role", string(role))
	if role == session.RoleAdmin {
		return common.AdminEntryPoint, nil
	}
	return common.UserEntryPoint, nil
}

func (a *authService) SignedIn(ctx context.Context, role session.Role) bool {
	_, ok := a.store.GetToken(ctx, role)
	return ok
}

func (a *authService) WhoAmI(ctx context.Context, role session.Role) (*session.Claims, error) {
	token, ok := a.store.GetToken(ctx, role)
	if !ok {
		return nil, ErrNotSignedIn
	}
	return session.Describe(token)
}
