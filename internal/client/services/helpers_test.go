package services

import (
	"testing"

	"github.com/dmitrijs2005/socrp/internal/client/apitest"
	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/stretchr/testify/require"
)

// stack is a client wired to a fake backend.
type stack struct {
	srv   *apitest.Server
	store *session.MemoryStore
	api   *client.APIClient
}

func newStack(t *testing.T) *stack {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	gw, err := client.NewGateway(srv.URL(), store)
	require.NoError(t, err)
	return &stack{srv: srv, store: store, api: client.NewAPIClient(gw)}
}

func (s *stack) member(name, email string) int64 {
	return s.srv.AddUser(models.User{FullName: name, Email: email, Phone: "1", IsActive: true, IsVerified: true}, "pw")
}
