package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
)

// fakeClient implements client.Client for unit tests. Each method returns
// the matching canned result; calls are recorded by name.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	LoginRet    *models.Tokens
	LoginErr    error
	AdminRet    *models.Tokens
	AdminErr    error
	RegisterRet string
	RegisterErr error
	VerifyRet   string
	VerifyErr   error

	ProfilesRet []models.Profile
	ProfilesErr error
	CreateRet   *models.Profile
	CreateErr   error
	UpdateRet   *models.Profile
	UpdateErr   error
	ShareRet    string
	ShareErr    error
	SharedRet   *models.Profile
	SharedErr   error

	StatsRet  *models.DashboardStats
	StatsErr  error
	UsersRet  []models.User
	UsersErr  error
	DetailRet *models.User
	DetailErr error
	BlockErr  error
	EditErr   error

	LastCreds      models.Credentials
	LastBody       *client.Multipart
	LastUpdateID   int64
	LastShareToken string
	LastPatch      models.UserPatch
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.Tokens, error) {
	f.record("login")
	f.LastCreds = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) AdminLogin(ctx context.Context, creds models.Credentials) (*models.Tokens, error) {
	f.record("admin-login")
	f.LastCreds = creds
	return f.AdminRet, f.AdminErr
}

func (f *fakeClient) Register(ctx context.Context, reg models.Registration) (string, error) {
	f.record("register")
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) VerifyEmail(ctx context.Context, uid string) (string, error) {
	f.record("verify")
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) FetchSharedProfile(ctx context.Context, token string) (*models.Profile, error) {
	f.record("shared")
	f.LastShareToken = token
	return f.SharedRet, f.SharedErr
}

func (f *fakeClient) FetchProfiles(ctx context.Context) ([]models.Profile, error) {
	f.record("profiles")
	return f.ProfilesRet, f.ProfilesErr
}

func (f *fakeClient) CreateProfile(ctx context.Context, body *client.Multipart) (*models.Profile, error) {
	f.record("create")
	f.LastBody = body
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, id int64, body *client.Multipart) (*models.Profile, error) {
	f.record("update")
	f.LastUpdateID = id
	f.LastBody = body
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) GenerateShareLink(ctx context.Context, days int) (string, error) {
	f.record("share")
	return f.ShareRet, f.ShareErr
}

func (f *fakeClient) Stats(ctx context.Context) (*models.DashboardStats, error) {
	f.record("stats")
	return f.StatsRet, f.StatsErr
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) {
	f.record("users")
	return f.UsersRet, f.UsersErr
}

func (f *fakeClient) UserDetail(ctx context.Context, id int64) (*models.User, error) {
	f.record("detail")
	return f.DetailRet, f.DetailErr
}

func (f *fakeClient) Block(ctx context.Context, id int64) (string, error) {
	f.record("block")
	return "User blocked", f.BlockErr
}

func (f *fakeClient) Unblock(ctx context.Context, id int64) (string, error) {
	f.record("unblock")
	return "User unblocked", f.BlockErr
}

func (f *fakeClient) EditUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	f.record("edit")
	f.LastPatch = patch
	return nil, f.EditErr
}
