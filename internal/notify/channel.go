package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/streadway/amqp"

	"github.com/sumire/leaveportal/internal/api"
	"github.com/sumire/leaveportal/internal/domain"
)

// State tracks the push-subscription lifecycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
)

// NotificationAPI is the slice of the remote API the channel needs to
// acknowledge read state.
type NotificationAPI interface {
	UpdateNotification(ctx context.Context, token, id string, patch api.NotificationPatch) error
}

// Channel consumes the per-user notification queue and feeds the session's
// ledger. It authenticates the broker handshake with the session token and
// stays subscribed until Close.
type Channel struct {
	token    string
	userID   int64
	api      NotificationAPI
	ledger   *Ledger
	validate *validator.Validate
	log      *slog.Logger

	conn      *amqp.Connection
	state     atomic.Int32
	closeOnce sync.Once
}

// Open dials the broker with the session token as handshake credential,
// declares the user's queue and starts consuming into a fresh ledger.
func Open(url, token string, userID int64, notifAPI NotificationAPI, log *slog.Logger) (*Channel, error) {
	c := &Channel{
		token:    token,
		userID:   userID,
		api:      notifAPI,
		ledger:   NewLedger(),
		validate: validator.New(),
		log:      log,
	}
	c.state.Store(int32(StateConnecting))

	conn, err := amqp.DialConfig(url, amqp.Config{
		SASL: []amqp.Authentication{&amqp.PlainAuth{
			Username: "bearer",
			Password: strings.TrimPrefix(token, "Bearer "),
		}},
	})
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("dial notification broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		c.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("open broker channel: %w", err)
	}

	queue := fmt.Sprintf("notification-%d", userID)
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		c.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	deliveries, err := ch.Consume(queue, "", true, false, false, false, nil)
	if err != nil {
		conn.Close()
		c.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("subscribe to %s: %w", queue, err)
	}

	c.conn = conn
	c.state.Store(int32(StateSubscribed))
	go c.consume(deliveries)
	return c, nil
}

// consume applies deliveries to the ledger in arrival order. Malformed or
// invalid payloads are logged and dropped instead of trusted.
func (c *Channel) consume(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		var n domain.Notification
		if err := json.Unmarshal(d.Body, &n); err != nil {
			c.log.Warn("drop malformed notification payload", "user", c.userID, "error", err)
			continue
		}
		if err := c.validate.Struct(&n); err != nil {
			c.log.Warn("drop invalid notification payload", "user", c.userID, "error", err)
			continue
		}
		c.ledger.Prepend(n)
	}
	c.state.Store(int32(StateDisconnected))
}

// Ledger exposes the session's ledger for rendering.
func (c *Channel) Ledger() *Ledger {
	return c.ledger
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// MarkAsRead asks the server to flip the read flag and applies the change
// locally only after the acknowledgement. Failures are logged and dropped
// without retry; the ledger keeps its last-known-good server state.
func (c *Channel) MarkAsRead(ctx context.Context, id string) {
	rec, ok := c.ledger.find(id)
	if !ok || rec.IsRead {
		return
	}
	isRead := true
	if err := c.api.UpdateNotification(ctx, c.token, id, api.NotificationPatch{IsRead: &isRead}); err != nil {
		c.log.Warn("mark notification read failed", "id", id, "error", err)
		return
	}
	c.ledger.markRead(id)
}

// Close tears the connection down unconditionally. Safe to call more than
// once; the consume loop drains and the channel ends Disconnected.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
		c.state.Store(int32(StateDisconnected))
	})
}
