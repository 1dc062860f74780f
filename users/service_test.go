package users

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/backendtest"
	"github.com/bobinette/todonet/client"
	"github.com/bobinette/todonet/token"
)

func TestService_List(t *testing.T) {
	backend := backendtest.New("test-api-key")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	jane := backend.AddUser("Jane", "jane@example.com", "pizza")
	bob := backend.AddUser("Bob", "bob@example.com", "tacos")

	store := token.NewInMemStore()
	require.NoError(t, store.Save(backend.Token(jane.ID)))

	service := NewService(client.New(store, nil, srv.URL))
	users, err := service.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []todonet.User{jane, bob}, users)
}

func TestService_ListUnauthenticated(t *testing.T) {
	backend := backendtest.New("test-api-key")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	service := NewService(client.New(token.NewInMemStore(), nil, srv.URL))
	_, err := service.List()
	require.Error(t, err, "the call should be blocked before any request is sent")
}
