package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/dmitrijs2005/socrp/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, fc *fakeClient) (AuthService, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	return NewAuthService(fc, store, nil), store
}

func TestAuthService_LoginStoresAccessTokenOnly(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{LoginRet: &models.Tokens{Access: "acc", Refresh: "ref"}}
	svc, store := newAuth(t, fc)

	creds := models.Credentials{Email: "a@b.c", Password: "pw"}
	require.NoError(t, svc.Login(ctx, creds))
	assert.Equal(t, creds, fc.LastCreds)

	tok, ok := store.GetToken(ctx, session.RoleUser)
	require.True(t, ok)
	assert.Equal(t, "acc", tok)
	_, ok = store.GetToken(ctx, session.RoleAdmin)
	assert.False(t, ok)
	assert.True(t, svc.SignedIn(ctx, session.RoleUser))
}

func TestAuthService_LoginErrorKeepsStore(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	fc := &fakeClient{LoginErr: boom}
	svc, store := newAuth(t, fc)
	require.NoError(t, store.SetToken(ctx, session.RoleUser, "old"))

	err := svc.Login(ctx, models.Credentials{})
	require.ErrorIs(t, err, boom)

	tok, _ := store.GetToken(ctx, session.RoleUser)
	assert.Equal(t, "old", tok)
}

func TestAuthService_LoginEmptyToken(t *testing.T) {
	svc, _ := newAuth(t, &fakeClient{LoginRet: &models.Tokens{}})
	require.ErrorIs(t, svc.Login(context.Background(), models.Credentials{}), ErrEmptyToken)
}

func TestAuthService_AdminLoginUsesAdminSlot(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{AdminRet: &models.Tokens{Access: "adm"}}
	svc, store := newAuth(t, fc)

	require.NoError(t, svc.AdminLogin(ctx, models.Credentials{Email: "root"}))
	tok, ok := store.GetToken(ctx, session.RoleAdmin)
	require.True(t, ok)
	assert.Equal(t, "adm", tok)
	assert.False(t, svc.SignedIn(ctx, session.RoleUser))
}

func TestAuthService_RegisterValidatesFirst(t *testing.T) {
	ctx := context.Background()
	valid := models.Registration{
		FullName: "A", Email: "a@b.c", Phone: "1",
		Password: "x", ConfirmPassword: "x", AcceptedTerms: true,
	}

	tests := []struct {
		name   string
		mutate func(r *models.Registration)
		want   error
	}{
		{"terms", func(r *models.Registration) { r.AcceptedTerms = false }, common.ErrTermsNotAccepted},
		{"missing", func(r *models.Registration) { r.Email = " " }, common.ErrMissingField},
		{"mismatch", func(r *models.Registration) { r.ConfirmPassword = "y" }, common.ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			svc, _ := newAuth(t, fc)
			reg := valid
			tt.mutate(&reg)
			_, err := svc.Register(ctx, reg)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, fc.Calls())
		})
	}

	fc := &fakeClient{RegisterRet: "check your mail"}
	svc, _ := newAuth(t, fc)
	msg, err := svc.Register(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "check your mail", msg)
	assert.Equal(t, []string{"register"}, fc.Calls())
}

func TestAuthService_VerifyEmail(t *testing.T) {
	svc, _ := newAuth(t, &fakeClient{VerifyRet: "verified"})
	msg, err := svc.VerifyEmail(context.Background(), "uid")
	require.NoError(t, err)
	assert.Equal(t, "verified", msg)
}

func TestAuthService_LogoutClearsOnlyThatRole(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t, &fakeClient{})
	require.NoError(t, store.SetToken(ctx, session.RoleUser, "u"))
	require.NoError(t, store.SetToken(ctx, session.RoleAdmin, "a"))

	entry, err := svc.Logout(ctx, session.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, common.AdminEntryPoint, entry)
	assert.False(t, svc.SignedIn(ctx, session.RoleAdmin))
	assert.True(t, svc.SignedIn(ctx, session.RoleUser))

	entry, err = svc.Logout(ctx, session.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, common.UserEntryPoint, entry)
	assert.False(t, svc.SignedIn(ctx, session.RoleUser))
}

func TestAuthService_WhoAmI(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t, &fakeClient{})

	_, err := svc.WhoAmI(ctx, session.RoleUser)
	require.ErrorIs(t, err, ErrNotSignedIn)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42, "token_type": "access"}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, store.SetToken(ctx, session.RoleUser, tok))

	c, err := svc.WhoAmI(ctx, session.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "42", c.UserID)

	require.NoError(t, store.SetToken(ctx, session.RoleUser, "opaque"))
	_, err = svc.WhoAmI(ctx, session.RoleUser)
	require.ErrorIs(t, err, session.ErrNotJWT)
}
