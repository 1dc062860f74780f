package realtime

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/todonet/backendtest"
	"github.com/bobinette/todonet/log"
	"github.com/bobinette/todonet/ui"
)

// syncAlerter guards a RecordingAlerter: the consume loop alerts from
// its own goroutine.
type syncAlerter struct {
	mu       sync.Mutex
	recorder ui.RecordingAlerter
}

func (a *syncAlerter) Successf(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recorder.Successf(format, args...)
}

func (a *syncAlerter) Errorf(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recorder.Errorf(format, args...)
}

func (a *syncAlerter) successes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.recorder.Successes...)
}

func setup(t *testing.T) (*backendtest.Backend, *httptest.Server) {
	backend := backendtest.New("test-api-key")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	return backend, srv
}

func TestConnect_RequiresUserID(t *testing.T) {
	_, srv := setup(t)

	_, err := Connect(srv.URL, "", &syncAlerter{}, log.New("test"))
	require.Error(t, err, "an anonymous caller has no notification stream")
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("http://127.0.0.1:1", "u1", &syncAlerter{}, log.New("test"))
	require.Error(t, err)
}

func TestNotifier_ReceivesNotifications(t *testing.T) {
	backend, srv := setup(t)
	jane := backend.AddUser("Jane", "jane@example.com", "pizza")

	alerter := &syncAlerter{}
	notifier, err := Connect(srv.URL, jane.ID, alerter, log.New("test"))
	require.NoError(t, err)
	defer notifier.Close()

	require.Eventually(t, func() bool {
		return backend.HasConnection(jane.ID)
	}, time.Second, 10*time.Millisecond, "the backend should have registered the connection")

	backend.Notify(jane.ID, "Task added")
	require.Eventually(t, func() bool {
		return len(alerter.successes()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "🔔 Task added", alerter.successes()[0])

	// An event with no text gets the generic message.
	backend.Notify(jane.ID, "")
	require.Eventually(t, func() bool {
		return len(alerter.successes()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "🔔 You have a new notification", alerter.successes()[1])
}

func TestNotifier_CloseIsIdempotent(t *testing.T) {
	backend, srv := setup(t)
	jane := backend.AddUser("Jane", "jane@example.com", "pizza")

	notifier, err := Connect(srv.URL, jane.ID, &syncAlerter{}, log.New("test"))
	require.NoError(t, err)

	require.NoError(t, notifier.Close())
	assert.NoError(t, notifier.Close(), "a second close is a no-op")
}
