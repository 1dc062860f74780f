package memberships

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/backendtest"
	"github.com/bobinette/todonet/client"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/token"
	"github.com/bobinette/todonet/ui"
)

type fixture struct {
	backend   *backendtest.Backend
	srv       *httptest.Server
	alerter   *ui.RecordingAlerter
	confirmer *ui.StaticConfirmer

	owner todonet.User
	list  todonet.TodoList
}

func setup(t *testing.T) *fixture {
	backend := backendtest.New("test-api-key")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	owner := backend.AddUser("Jane", "jane@example.com", "pizza")
	list := backend.AddList(owner.ID, "Groceries")

	return &fixture{
		backend:   backend,
		srv:       srv,
		alerter:   &ui.RecordingAlerter{},
		confirmer: &ui.StaticConfirmer{Answer: true},
		owner:     owner,
		list:      list,
	}
}

func (f *fixture) serviceFor(t *testing.T, userID string) *Service {
	store := token.NewInMemStore()
	require.NoError(t, store.Save(f.backend.Token(userID)))
	return NewService(client.New(store, nil, f.srv.URL), f.alerter, f.confirmer)
}

func findByEmail(collaborators []todonet.Collaborator, email string) (todonet.Collaborator, bool) {
	for _, c := range collaborators {
		if c.Email == email {
			return c, true
		}
	}
	return todonet.Collaborator{}, false
}

func TestService_ListNormalization(t *testing.T) {
	f := setup(t)

	// The backend has no display name for this one: the local part of
	// the email stands in.
	anon := f.backend.AddUser("", "no-name@example.com", "pizza")
	f.backend.AddMembership(f.list.ID, anon.ID, "VIEWER")

	service := f.serviceFor(t, f.owner.ID)
	collaborators, err := service.List(f.list.ID)
	require.NoError(t, err)
	require.Len(t, collaborators, 2)

	owner, ok := findByEmail(collaborators, "jane@example.com")
	require.True(t, ok)
	assert.Equal(t, todonet.RoleOwner, owner.Role, "the wire's OWNER should normalize to lowercase")
	assert.Equal(t, "Jane", owner.Name)
	assert.Equal(t, f.owner.ID, owner.UserID)

	viewer, ok := findByEmail(collaborators, "no-name@example.com")
	require.True(t, ok)
	assert.Equal(t, todonet.RoleViewer, viewer.Role)
	assert.Equal(t, "no-name", viewer.Name, "missing display name falls back to the email's local part")
}

func TestService_Invite(t *testing.T) {
	f := setup(t)
	f.backend.AddUser("Bob", "bob@example.com", "tacos")

	service := f.serviceFor(t, f.owner.ID)
	collaborators, err := service.Invite(f.list.ID, "bob@example.com", todonet.RoleEditor)
	require.NoError(t, err)

	bob, ok := findByEmail(collaborators, "bob@example.com")
	require.True(t, ok, "refetch after invite should show the new member")
	assert.Equal(t, todonet.RoleEditor, bob.Role, "role sent as EDITOR should come back normalized to editor")
	assert.Equal(t, []string{"User invited"}, f.alerter.Successes)
}

func TestService_InviteValidation(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	_, err := service.Invite(f.list.ID, "  ", todonet.RoleEditor)
	require.Error(t, err, "missing email should block submission")
	errors.AssertCode(t, err, 400)

	_, err = service.Invite(f.list.ID, "bob@example.com", "")
	require.Error(t, err, "missing role should block submission")
	errors.AssertCode(t, err, 400)

	assert.Len(t, f.alerter.Errors, 2)
}

func TestService_InviteUnknownEmail(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	_, err := service.Invite(f.list.ID, "ghost@example.com", todonet.RoleViewer)
	require.Error(t, err)
	assert.EqualError(t, err, "no user found for email ghost@example.com", "the backend's message should be surfaced")
	require.Len(t, f.alerter.Errors, 1)
	assert.Contains(t, f.alerter.Errors[0], "no user found", "the notification should carry the backend message")
}

func TestService_InviteNotOwner(t *testing.T) {
	f := setup(t)
	bob := f.backend.AddUser("Bob", "bob@example.com", "tacos")
	f.backend.AddMembership(f.list.ID, bob.ID, "EDITOR")
	f.backend.AddUser("Carol", "carol@example.com", "sushi")

	service := f.serviceFor(t, bob.ID)
	_, err := service.Invite(f.list.ID, "carol@example.com", todonet.RoleViewer)
	require.Error(t, err, "the backend rejects invites from non-owners")
	errors.AssertCode(t, err, 403)
}

func TestService_ChangeRole(t *testing.T) {
	f := setup(t)
	bob := f.backend.AddUser("Bob", "bob@example.com", "tacos")
	membershipID := f.backend.AddMembership(f.list.ID, bob.ID, "EDITOR")

	service := f.serviceFor(t, f.owner.ID)
	collaborators, err := service.ChangeRole(f.list.ID, membershipID, todonet.RoleViewer)
	require.NoError(t, err)

	changed, ok := findByEmail(collaborators, "bob@example.com")
	require.True(t, ok)
	assert.Equal(t, todonet.RoleViewer, changed.Role, "refetch should reflect the new role")
}

func TestService_ChangeRoleToOwner(t *testing.T) {
	f := setup(t)
	bob := f.backend.AddUser("Bob", "bob@example.com", "tacos")
	membershipID := f.backend.AddMembership(f.list.ID, bob.ID, "EDITOR")

	service := f.serviceFor(t, f.owner.ID)
	_, err := service.ChangeRole(f.list.ID, membershipID, todonet.RoleOwner)
	require.Error(t, err, "the owner role is never settable through this path")
	errors.AssertCode(t, err, 400)

	collaborators, err := service.List(f.list.ID)
	require.NoError(t, err)
	bobAfter, _ := findByEmail(collaborators, "bob@example.com")
	assert.Equal(t, todonet.RoleEditor, bobAfter.Role, "local state should not have been mutated")
}

func TestCanModify(t *testing.T) {
	assert.False(t, CanModify(todonet.Collaborator{Role: todonet.RoleOwner}), "owner memberships are immutable")
	assert.True(t, CanModify(todonet.Collaborator{Role: todonet.RoleEditor}))
	assert.True(t, CanModify(todonet.Collaborator{Role: todonet.RoleViewer}))
}

func TestService_RemoveDeclined(t *testing.T) {
	f := setup(t)
	f.confirmer.Answer = false

	bob := f.backend.AddUser("Bob", "bob@example.com", "tacos")
	membershipID := f.backend.AddMembership(f.list.ID, bob.ID, "VIEWER")

	service := f.serviceFor(t, f.owner.ID)
	collaborators, err := service.Remove(f.list.ID, membershipID)
	require.NoError(t, err)
	assert.Len(t, collaborators, 2, "declining the confirmation issues no mutation")
	assert.Len(t, f.confirmer.Prompts, 1)
}

func TestService_RemoveConfirmed(t *testing.T) {
	f := setup(t)
	bob := f.backend.AddUser("Bob", "bob@example.com", "tacos")
	membershipID := f.backend.AddMembership(f.list.ID, bob.ID, "VIEWER")

	service := f.serviceFor(t, f.owner.ID)
	collaborators, err := service.Remove(f.list.ID, membershipID)
	require.NoError(t, err)
	require.Len(t, collaborators, 1, "refetch should no longer show the member")
	assert.Equal(t, "jane@example.com", collaborators[0].Email)
	assert.Equal(t, []string{"Collaborator removed"}, f.alerter.Successes)
}

func TestService_RefetchIsIdempotent(t *testing.T) {
	f := setup(t)
	bob := f.backend.AddUser("Bob", "bob@example.com", "tacos")
	f.backend.AddMembership(f.list.ID, bob.ID, "EDITOR")

	service := f.serviceFor(t, f.owner.ID)
	first, err := service.List(f.list.ID)
	require.NoError(t, err)
	second, err := service.List(f.list.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second, "fetching twice with no mutation in between yields the same members")
}
