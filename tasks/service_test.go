package tasks

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

	owner  todonet.User
	editor todonet.User
	viewer todonet.User
	list   todonet.TodoList
}

func setup(t *testing.T) *fixture {
	backend := backendtest.New("test-api-key")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	owner := backend.AddUser("Jane", "jane@example.com", "pizza")
	editor := backend.AddUser("Bob", "bob@example.com", "tacos")
	viewer := backend.AddUser("Carol", "carol@example.com", "sushi")

	list := backend.AddList(owner.ID, "Groceries")
	backend.AddMembership(list.ID, editor.ID, "EDITOR")
	backend.AddMembership(list.ID, viewer.ID, "VIEWER")

	return &fixture{
		backend:   backend,
		srv:       srv,
		alerter:   &ui.RecordingAlerter{},
		confirmer: &ui.StaticConfirmer{Answer: true},
		owner:     owner,
		editor:    editor,
		viewer:    viewer,
		list:      list,
	}
}

func (f *fixture) serviceFor(t *testing.T, userID string) *Service {
	store := token.NewInMemStore()
	require.NoError(t, store.Save(f.backend.Token(userID)))
	return NewService(client.New(store, nil, f.srv.URL), f.alerter, f.confirmer)
}

func TestService_ListReturnsRole(t *testing.T) {
	f := setup(t)

	var tts = []struct {
		userID    string
		role      todonet.Role
		canEdit   bool
		canDelete bool
	}{
		{f.owner.ID, todonet.RoleOwner, true, true},
		{f.editor.ID, todonet.RoleEditor, true, false},
		{f.viewer.ID, todonet.RoleViewer, false, false},
	}

	for _, tt := range tts {
		listing, err := f.serviceFor(t, tt.userID).List(f.list.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.role, listing.Role, "the listing carries the caller's effective role")

		controls := ControlsFor(listing.Role)
		assert.Equal(t, tt.canEdit, controls.CanEdit, "edit controls for %s", tt.role)
		assert.Equal(t, tt.canDelete, controls.CanDelete, "delete controls for %s", tt.role)
	}
}

func TestService_Create(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.editor.ID)

	listing, err := service.Create(f.list.ID, Draft{
		Title:    "Buy milk",
		Priority: 2,
		DueDate:  "2025-01-10",
	})
	require.NoError(t, err)
	require.Len(t, listing.Tasks, 1, "refetch after create should show the task")

	task := listing.Tasks[0]
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, 2, task.Priority)
	assert.Equal(t, "2025-01-10T00:00:00Z", task.DueDate, "the date input is promoted to an ISO instant")
	assert.Equal(t, todonet.StatusInProgress, task.Status, "new tasks start in progress")
	assert.False(t, task.Completed())
}

func TestService_CreateValidation(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.editor.ID)

	_, err := service.Create(f.list.ID, Draft{Title: "  "})
	require.Error(t, err, "empty titles are rejected before any network call")
	errors.AssertCode(t, err, 400)

	_, err = service.Create(f.list.ID, Draft{Title: "Buy milk", DueDate: "not-a-date"})
	require.Error(t, err)
	errors.AssertCode(t, err, 400)

	assert.Len(t, f.alerter.Errors, 2, "both failures should surface as notifications")
}

func TestService_CreateAsViewer(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.viewer.ID)

	_, err := service.Create(f.list.ID, Draft{Title: "Buy milk"})
	require.Error(t, err, "the backend is the authority, whatever the UI shows")
	errors.AssertCode(t, err, 403)
}

func TestService_ToggleComplete(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	listing, err := service.Create(f.list.ID, Draft{Title: "Buy milk", Priority: 1})
	require.NoError(t, err)
	task := listing.Tasks[0]

	listing, err = service.ToggleComplete(f.list.ID, task.ID, task.Completed())
	require.NoError(t, err)
	require.Len(t, listing.Tasks, 1)
	assert.Equal(t, todonet.StatusCompleted, listing.Tasks[0].Status, "toggling an in-progress task completes it")
	assert.True(t, listing.Tasks[0].Completed())

	listing, err = service.ToggleComplete(f.list.ID, task.ID, listing.Tasks[0].Completed())
	require.NoError(t, err)
	assert.Equal(t, todonet.StatusInProgress, listing.Tasks[0].Status, "toggling twice returns to the original status")
}

func TestService_Update(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.editor.ID)

	listing, err := service.Create(f.list.ID, Draft{Title: "Buy milk", Priority: 3, DueDate: "2025-01-10"})
	require.NoError(t, err)
	task := listing.Tasks[0]

	listing, err = service.Update(f.list.ID, task.ID, Draft{
		Title:    "Buy oat milk",
		Priority: 1,
		DueDate:  "2025-02-01",
	})
	require.NoError(t, err)
	require.Len(t, listing.Tasks, 1)

	updated := listing.Tasks[0]
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, 1, updated.Priority)
	assert.Equal(t, "2025-02-01T00:00:00Z", updated.DueDate)
}

func TestService_DeleteAsEditor(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	listing, err := service.Create(f.list.ID, Draft{Title: "Buy milk"})
	require.NoError(t, err)
	task := listing.Tasks[0]

	editorService := f.serviceFor(t, f.editor.ID)
	_, err = editorService.Delete(f.list.ID, task.ID)
	require.Error(t, err, "delete-class actions need the owner role server-side")
	errors.AssertCode(t, err, 403)
}

func TestService_DeleteDeclined(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	listing, err := service.Create(f.list.ID, Draft{Title: "Buy milk"})
	require.NoError(t, err)
	task := listing.Tasks[0]

	f.confirmer.Answer = false
	listing, err = service.Delete(f.list.ID, task.ID)
	require.NoError(t, err)
	assert.Len(t, listing.Tasks, 1, "declining the confirmation issues no mutation")
}

func TestService_DeleteConfirmed(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	listing, err := service.Create(f.list.ID, Draft{Title: "Buy milk"})
	require.NoError(t, err)
	task := listing.Tasks[0]

	listing, err = service.Delete(f.list.ID, task.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Tasks, "refetch after delete should no longer show the task")
}

func TestService_RefetchIsIdempotent(t *testing.T) {
	f := setup(t)
	service := f.serviceFor(t, f.owner.ID)

	_, err := service.Create(f.list.ID, Draft{Title: "Buy milk", Priority: 2})
	require.NoError(t, err)

	first, err := service.List(f.list.ID)
	require.NoError(t, err)
	second, err := service.List(f.list.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Role, second.Role)
	assert.ElementsMatch(t, first.Tasks, second.Tasks, "fetching twice with no mutation in between yields the same tasks")
}
