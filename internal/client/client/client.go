package client

import (
	"context"

	"github.com/dmitrijs2005/socrp/internal/client/models"
)

// Client is the API contract of the certification portal backend.
type Client interface {
	// Public endpoints.
	Login(ctx context.Context, creds models.Credentials) (*models.Tokens, error)
	Register(ctx context.Context, reg models.Registration) (string, error)
	VerifyEmail(ctx context.Context, uid string) (string, error)
	FetchSharedProfile(ctx context.Context, token string) (*models.Profile, error)
	AdminLogin(ctx context.Context, creds models.Credentials) (*models.Tokens, error)

	// User endpoints.
	FetchProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, body *Multipart) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id int64, body *Multipart) (*models.Profile, error)
	GenerateShareLink(ctx context.Context, days int) (string, error)

	// Admin endpoints.
	Stats(ctx context.Context) (*models.DashboardStats, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UserDetail(ctx context.Context, id int64) (*models.User, error)
	Block(ctx context.Context, id int64) (string, error)
	Unblock(ctx context.Context, id int64) (string, error)
	EditUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
}
