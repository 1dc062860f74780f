// Package realtime maintains the notification connection: one websocket
// per active user id, inbound events drained through a bounded queue by
// a single consumer that raises transient alerts. Notifications are
// informational only; they never trigger a refetch.
package realtime

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/log"
	"github.com/bobinette/todonet/ui"
)

// queueSize bounds the inbound event queue. There are no delivery
// guarantees beyond "render what arrives": when the queue is full the
// event is dropped.
const queueSize = 64

// fallbackText is shown when an event carries no text.
const fallbackText = "You have a new notification"

type envelope struct {
	Event string `json:"event"`
	Text  string `json:"text"`
}

type Notifier struct {
	conn *websocket.Conn

	events chan todonet.Notification
	done   chan struct{}

	alerter ui.Alerter
	logger  log.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Connect dials the notification endpoint for userID and starts the
// read and consume loops. There is no reconnection: when the connection
// drops, the notifier is done.
func Connect(baseURL, userID string, alerter ui.Alerter, logger log.Logger) (*Notifier, error) {
	if userID == "" {
		return nil, errors.New("user id is required", errors.BadRequest())
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("invalid notification url", errors.WithCause(err))
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/notifications"
	u.RawQuery = url.Values{"userId": {userID}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, errors.New(fmt.Sprintf("could not connect to %s", u.String()), errors.WithCause(err))
	}

	logger = logger.WithField("userId", userID)
	logger.Print("connected to notification server")

	n := &Notifier{
		conn:    conn,
		events:  make(chan todonet.Notification, queueSize),
		done:    make(chan struct{}),
		alerter: alerter,
		logger:  logger,
	}

	n.wg.Add(2)
	go n.read()
	go n.consume()

	return n, nil
}

func (n *Notifier) read() {
	defer n.wg.Done()
	defer close(n.events)

	for {
		var msg envelope
		if err := n.conn.ReadJSON(&msg); err != nil {
			select {
			case <-n.done:
			default:
				n.logger.Error("notification connection lost:", err)
			}
			return
		}

		if msg.Event != "notification" {
			continue
		}

		select {
		case n.events <- todonet.Notification{Text: msg.Text}:
		default:
			n.logger.Print("notification queue full, dropping event")
		}
	}
}

func (n *Notifier) consume() {
	defer n.wg.Done()

	for event := range n.events {
		text := event.Text
		if text == "" {
			text = fallbackText
		}
		n.alerter.Successf("🔔 %s", text)
	}
}

// Close tears the connection down and waits for both loops to drain.
// Safe to call more than once.
func (n *Notifier) Close() error {
	var err error
	n.closeOnce.Do(func() {
		close(n.done)
		err = n.conn.Close()
		n.wg.Wait()
		n.logger.Print("disconnected from notification server")
	})
	return err
}
