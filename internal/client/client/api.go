package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
)

// APIClient implements Client over REST.
type APIClient struct {
	gw *Gateway
}

func NewAPIClient(gw *Gateway) *APIClient {
	return &APIClient{gw: gw}
}

func (c *APIClient) Login(ctx context.Context, creds models.Credentials) (*models.Tokens, error) {
	var t models.Tokens
	if err := c.gw.Request(ctx, http.MethodPost, "/token/", JSON(creds), session.RoleNone, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *APIClient) AdminLogin(ctx context.Context, creds models.Credentials) (*models.Tokens, error) {
	var t models.Tokens
	if err := c.gw.Request(ctx, http.MethodPost, "/admin/login/", JSON(creds), session.RoleNone, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Register sends the sign-up form as multipart. Files are sent only when
// selected.
func (c *APIClient) Register(ctx context.Context, reg models.Registration) (string, error) {
	body := NewMultipart().
		AddField("full_name", reg.FullName).
		AddField("email", reg.Email).
		AddField("phone", reg.Phone).
		AddField("password", reg.Password).
		AddField("confirm_password", reg.ConfirmPassword).
		AddFile(models.FieldProfilePhoto, reg.ProfilePhoto).
		AddFile(models.FieldResume, reg.Resume)

	var m models.Message
	if err := c.gw.Request(ctx, http.MethodPost, "/register/", body, session.RoleNone, &m); err != nil {
		return "", err
	}
	return m.Text(), nil
}

func (c *APIClient) VerifyEmail(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", fmt.Errorf("%w: empty uid", ErrInvalidInput)
	}
	var m models.Message
	path := "/verify/" + url.PathEscape(uid) + "/"
	if err := c.gw.Request(ctx, http.MethodGet, path, nil, session.RoleNone, &m); err != nil {
		return "", err
	}
	return m.Text(), nil
}

func (c *APIClient) FetchSharedProfile(ctx context.Context, token string) (*models.Profile, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty share token", ErrInvalidInput)
	}
	var p models.Profile
	path := "/profile/share/" + url.PathEscape(token) + "/"
	if err := c.gw.Request(ctx, http.MethodGet, path, nil, session.RoleNone, &p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (c *APIClient) FetchProfiles(ctx context.Context) ([]models.Profile, error) {
	var ps []models.Profile
	if err := c.gw.Request(ctx, http.MethodGet, "/profile/", nil, session.RoleUser, &ps); err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].Normalize()
	}
	return ps, nil
}

func (c *APIClient) CreateProfile(ctx context.Context, body *Multipart) (*models.Profile, error) {
	var p models.Profile
	if err := c.gw.Request(ctx, http.MethodPost, "/profile/", body, session.RoleUser, &p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (c *APIClient) UpdateProfile(ctx context.Context, id int64, body *Multipart) (*models.Profile, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: profile id %d", ErrInvalidInput, id)
	}
	var p models.Profile
	path := fmt.Sprintf("/profile/%d/", id)
	if err := c.gw.Request(ctx, http.MethodPatch, path, body, session.RoleUser, &p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (c *APIClient) GenerateShareLink(ctx context.Context, days int) (string, error) {
	if days < 1 {
		return "", fmt.Errorf("%w: expiry must be at least one day", ErrInvalidInput)
	}
	var link models.ShareLink
	req := map[string]int{"days": days}
	if err := c.gw.Request(ctx, http.MethodPost, "/profile/share/generate/", JSON(req), session.RoleUser, &link); err != nil {
		return "", err
	}
	return link.URL, nil
}

func (c *APIClient) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	if err := c.gw.Request(ctx, http.MethodGet, "/admin/stats/", nil, session.RoleAdmin, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := c.gw.Request(ctx, http.MethodGet, "/admin/users/", nil, session.RoleAdmin, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *APIClient) UserDetail(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := c.gw.Request(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d/", id), nil, session.RoleAdmin, &u); err != nil {
		return nil, err
	}
	if u.Profile != nil {
		u.Profile.Normalize()
	}
	return &u, nil
}

func (c *APIClient) Block(ctx context.Context, id int64) (string, error) {
	return c.moderate(ctx, id, "block")
}

func (c *APIClient) Unblock(ctx context.Context, id int64) (string, error) {
	return c.moderate(ctx, id, "unblock")
}

func (c *APIClient) moderate(ctx context.Context, id int64, action string) (string, error) {
	var m models.Message
	path := fmt.Sprintf("/admin/users/%d/%s/", id, action)
	if err := c.gw.Request(ctx, http.MethodPost, path, nil, session.RoleAdmin, &m); err != nil {
		return "", err
	}
	return m.Text(), nil
}

// EditUser sends the patch as JSON, or as multipart when it carries files.
// The returned user is nil if the server answers without a body.
func (c *APIClient) EditUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}

	var body Body = JSON(patch)
	if patch.HasFiles() {
		m, err := patchMultipart(patch)
		if err != nil {
			return nil, err
		}
		body = m
	}

	var u *models.User
	path := fmt.Sprintf("/admin/users/%d/", id)
	if err := c.gw.Request(ctx, http.MethodPatch, path, body, session.RoleAdmin, &u); err != nil {
		return nil, err
	}
	return u, nil
}

func patchMultipart(p models.UserPatch) (*Multipart, error) {
	m := NewMultipart()
	if p.FullName != nil {
		m.AddField("full_name", *p.FullName)
	}
	if p.Email != nil {
		m.AddField("email", *p.Email)
	}
	if p.Phone != nil {
		m.AddField("phone", *p.Phone)
	}
	if p.IsActive != nil {
		m.AddField("is_active", fmt.Sprintf("%t", *p.IsActive))
	}
	if p.IsBlocked != nil {
		m.AddField("is_blocked", fmt.Sprintf("%t", *p.IsBlocked))
	}
	if !p.Profile.IsEmpty() {
		if err := m.AddJSON("profile", p.Profile); err != nil {
			return nil, err
		}
	}
	m.AddFile(models.FieldProfilePhoto, p.ProfilePhoto)
	m.AddFile(models.FieldResume, p.Resume)
	return m, nil
}
