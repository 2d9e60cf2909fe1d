package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/socrp/internal/client/apitest"
	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) (*APIClient, *apitest.Server, *session.MemoryStore) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	gw, err := NewGateway(srv.URL(), store)
	require.NoError(t, err)
	return NewAPIClient(gw), srv, store
}

func activeUser(srv *apitest.Server, name, email string) int64 {
	return srv.AddUser(models.User{FullName: name, Email: email, Phone: "555", IsActive: true, IsVerified: true}, "secret")
}

func TestAPIClient_Login(t *testing.T) {
	ctx := context.Background()
	api, srv, _ := newAPI(t)
	id := activeUser(srv, "Ann", "ann@example.com")

	tokens, err := api.Login(ctx, models.Credentials{Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)

	claims, err := session.Describe(tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "1", claims.UserID)
	assert.EqualValues(t, 1, id)

	_, err = api.Login(ctx, models.Credentials{Email: "ann@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestAPIClient_RegisterSendsOnlySelectedFiles(t *testing.T) {
	ctx := context.Background()
	api, srv, _ := newAPI(t)

	reg := models.Registration{
		FullName: "Bob", Email: "bob@example.com", Phone: "123",
		Password: "pw", ConfirmPassword: "pw", AcceptedTerms: true,
		Resume: models.FileFromBytes("cv.pdf", []byte("%PDF")),
	}
	msg, err := api.Register(ctx, reg)
	require.NoError(t, err)
	assert.Contains(t, msg, "Registration successful")

	u, ok := srv.UserByEmail("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "pending", u.Status())
	assert.Equal(t, map[string]string{"resume": "cv.pdf"}, srv.Uploads(u.ID))

	_, err = api.Register(ctx, reg)
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAPIClient_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	api, srv, _ := newAPI(t)
	_, err := api.Register(ctx, models.Registration{
		FullName: "Cy", Email: "cy@example.com", Phone: "1", Password: "p", ConfirmPassword: "p", AcceptedTerms: true,
	})
	require.NoError(t, err)
	u, _ := srv.UserByEmail("cy@example.com")

	msg, err := api.VerifyEmail(ctx, srv.VerificationUID(u.ID))
	require.NoError(t, err)
	assert.Equal(t, "Email verified successfully", msg)

	_, err = api.VerifyEmail(ctx, "bogus")
	require.ErrorIs(t, err, ErrRejected)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Invalid or expired verification link", e.Message())

	_, err = api.VerifyEmail(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAPIClient_ProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	api, srv, store := newAPI(t)
	id := activeUser(srv, "Dee", "dee@example.com")
	require.NoError(t, store.SetToken(ctx, session.RoleUser, srv.UserToken(id)))

	profiles, err := api.FetchProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	body := NewMultipart().AddField("dob", "1990-05-01").AddFile("profile_photo", models.FileFromBytes("me.png", []byte("png")))
	require.NoError(t, body.AddJSON("educations", []models.Education{{Degree: "BSc", University: "MIT", YearOfCompletion: 2012}}))
	created, err := api.CreateProfile(ctx, body)
	require.NoError(t, err)
	require.True(t, created.HasID())
	assert.Equal(t, "Dee", created.FullName)
	assert.Len(t, created.Educations, 1)
	assert.NotNil(t, created.Experiences)
	url, ok := created.ProfilePhoto.URL()
	assert.True(t, ok)
	assert.Equal(t, "/media/profile_photos/me.png", url)

	updated, err := api.UpdateProfile(ctx, created.ID, NewMultipart().AddField("gender", "F"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "F", updated.Gender)
	assert.Equal(t, "1990-05-01", updated.DOB)

	_, err = api.UpdateProfile(ctx, created.ID+1, NewMultipart().AddField("gender", "M"))
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))

	_, err = api.UpdateProfile(ctx, 0, NewMultipart())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAPIClient_ProfileWithoutTokenIsRejected(t *testing.T) {
	api, _, _ := newAPI(t)
	_, err := api.FetchProfiles(context.Background())
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestAPIClient_ShareLinks(t *testing.T) {
	ctx := context.Background()
	api, srv, store := newAPI(t)
	id := activeUser(srv, "Eve", "eve@example.com")
	srv.SetProfile(id, models.Profile{Skills: "go"})
	require.NoError(t, store.SetToken(ctx, session.RoleUser, srv.UserToken(id)))

	_, err := api.GenerateShareLink(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	link, err := api.GenerateShareLink(ctx, 2)
	require.NoError(t, err)
	token := link[strings.LastIndex(link, "/")+1:]

	require.NoError(t, store.Clear(ctx, session.RoleUser))
	p, err := api.FetchSharedProfile(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "go", p.Skills)
	assert.Equal(t, "Eve", p.FullName)

	srv.Advance(3 * 24 * time.Hour)
	_, err = api.FetchSharedProfile(ctx, token)
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestAPIClient_AdminEndpoints(t *testing.T) {
	ctx := context.Background()
	api, srv, store := newAPI(t)
	a := activeUser(srv, "Alice", "alice@example.com")
	b := srv.AddUser(models.User{FullName: "Bob", Email: "bob@example.com"}, "x")
	srv.SetProfile(a, models.Profile{Address: "Main st"})

	tokens, err := api.AdminLogin(ctx, srv.AdminCredentials())
	require.NoError(t, err)
	require.NoError(t, store.SetToken(ctx, session.RoleAdmin, tokens.Access))

	stats, err := api.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{TotalUsers: 2, ActiveUsers: 1, PendingUsers: 1}, *stats)

	users, err := api.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "CERT-00001", users[0].MembershipID)

	detail, err := api.UserDetail(ctx, a)
	require.NoError(t, err)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, "Main st", detail.Profile.Address)

	msg, err := api.Block(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "User blocked", msg)
	u, _ := srv.User(b)
	assert.True(t, u.IsBlocked)

	msg, err = api.Unblock(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "User unblocked", msg)

	_, err = api.UserDetail(ctx, 999)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestAPIClient_AdminRouteWithUserTokenIsForbidden(t *testing.T) {
	ctx := context.Background()
	api, srv, store := newAPI(t)
	id := activeUser(srv, "Mallory", "m@example.com")
	// The admin slot holds a member token, e.g. after a mix-up at login.
	require.NoError(t, store.SetToken(ctx, session.RoleAdmin, srv.UserToken(id)))

	_, err := api.ListUsers(ctx)
	require.ErrorIs(t, err, ErrForbidden)

	tok, ok := store.GetToken(ctx, session.RoleAdmin)
	assert.True(t, ok)
	assert.NotEmpty(t, tok)
}

func TestAPIClient_EditUser(t *testing.T) {
	ctx := context.Background()
	api, srv, store := newAPI(t)
	id := activeUser(srv, "Finn", "finn@example.com")
	require.NoError(t, store.SetToken(ctx, session.RoleAdmin, srv.AdminToken()))

	name := "Finn Jr"
	inactive := false
	u, err := api.EditUser(ctx, id, models.UserPatch{FullName: &name, IsActive: &inactive})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Finn Jr", u.FullName)
	assert.False(t, u.IsActive)

	phone := "999"
	_, err = api.EditUser(ctx, id, models.UserPatch{Phone: &phone, Resume: models.FileFromBytes("r.pdf", []byte("x"))})
	require.NoError(t, err)
	stored, _ := srv.User(id)
	assert.Equal(t, "999", stored.Phone)
	assert.Equal(t, "r.pdf", srv.Uploads(id)["resume"])

	_, err = api.EditUser(ctx, id, models.UserPatch{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAPIClient_EditUserBlockAndProfile(t *testing.T) {
	ctx := context.Background()
	api, srv, store := newAPI(t)
	id := activeUser(srv, "Finn", "finn@example.com")
	srv.SetProfile(id, models.Profile{Gender: "M", Skills: "go"})
	require.NoError(t, store.SetToken(ctx, session.RoleAdmin, srv.AdminToken()))

	blocked := true
	pp := &models.ProfilePatch{}
	pp.Set(models.FieldAddress, "1 Main st")
	u, err := api.EditUser(ctx, id, models.UserPatch{IsBlocked: &blocked, Profile: pp})
	require.NoError(t, err)
	assert.True(t, u.IsBlocked)
	require.NotNil(t, u.Profile)
	assert.Equal(t, "1 Main st", u.Profile.Address)
	assert.Equal(t, "M", u.Profile.Gender)

	unblocked := false
	pp = &models.ProfilePatch{}
	pp.Set(models.FieldSkills, "go, sql")
	_, err = api.EditUser(ctx, id, models.UserPatch{
		IsBlocked:    &unblocked,
		Profile:      pp,
		ProfilePhoto: models.FileFromBytes("me.png", []byte("png")),
	})
	require.NoError(t, err)

	stored, _ := srv.User(id)
	assert.False(t, stored.IsBlocked)
	p, ok := srv.Profile(id)
	require.True(t, ok)
	assert.Equal(t, "go, sql", p.Skills)
	assert.Equal(t, "1 Main st", p.Address)
	assert.Equal(t, "me.png", srv.Uploads(id)[models.FieldProfilePhoto])
}
