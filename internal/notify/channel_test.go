package notify

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/streadway/amqp"

	"github.com/sumire/leaveportal/internal/api"
)

type fakeUpdater struct {
	err   error
	calls []string
}

func (f *fakeUpdater) UpdateNotification(_ context.Context, _, id string, _ api.NotificationPatch) error {
	f.calls = append(f.calls, id)
	return f.err
}

func testChannel(updater NotificationAPI) *Channel {
	return &Channel{
		token:    "Bearer abc.def.ghi",
		userID:   5,
		api:      updater,
		ledger:   NewLedger(),
		validate: validator.New(),
		log:      slog.Default(),
	}
}

func TestMarkAsReadAppliesAfterAck(t *testing.T) {
	updater := &fakeUpdater{}
	c := testChannel(updater)
	base := time.Now()
	c.ledger.Prepend(record("a", base))
	c.ledger.Prepend(record("b", base.Add(time.Minute)))

	c.MarkAsRead(context.Background(), "a")

	if len(updater.calls) != 1 || updater.calls[0] != "a" {
		t.Fatalf("expected one server update for a, got %v", updater.calls)
	}
	records := c.ledger.Records()
	if !records[1].IsRead || records[1].ID != "a" {
		t.Errorf("expected a read and re-sorted below unread, got %v", ids(records))
	}
	if c.ledger.UnreadCount() != 1 {
		t.Errorf("expected unread 1, got %d", c.ledger.UnreadCount())
	}
}

func TestMarkAsReadServerFailureLeavesLedgerUntouched(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("boom")}
	c := testChannel(updater)
	base := time.Now()
	c.ledger.Prepend(record("a", base))
	c.ledger.Prepend(record("b", base.Add(time.Minute)))
	before := c.ledger.Records()

	c.MarkAsRead(context.Background(), "a")

	after := c.ledger.Records()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("ledger mutated despite server failure: %v -> %v", before, after)
	}
	if c.ledger.UnreadCount() != 2 {
		t.Errorf("unread count changed despite failure: %d", c.ledger.UnreadCount())
	}
}

func TestMarkAsReadSkipsUnknownAndAlreadyRead(t *testing.T) {
	updater := &fakeUpdater{}
	c := testChannel(updater)
	read := record("done", time.Now())
	read.IsRead = true
	c.ledger.Prepend(read)

	c.MarkAsRead(context.Background(), "missing")
	c.MarkAsRead(context.Background(), "done")

	if len(updater.calls) != 0 {
		t.Errorf("expected no server calls, got %v", updater.calls)
	}
}

func TestConsumeValidatesPayloads(t *testing.T) {
	c := testChannel(&fakeUpdater{})
	c.state.Store(int32(StateSubscribed))

	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Body: []byte(`not json`)}
	deliveries <- amqp.Delivery{Body: []byte(`{"title":"no id","createdAt":"2026-08-01T10:00:00Z"}`)}
	deliveries <- amqp.Delivery{Body: []byte(`{"id":"n1","title":"Leave approved","createdAt":"2026-08-01T10:00:00Z"}`)}
	close(deliveries)

	c.consume(deliveries)

	if c.ledger.Len() != 1 {
		t.Fatalf("expected only the valid payload in the ledger, got %d", c.ledger.Len())
	}
	if c.ledger.Records()[0].ID != "n1" {
		t.Errorf("unexpected record %v", c.ledger.Records()[0])
	}
	if c.State() != StateDisconnected {
		t.Errorf("expected Disconnected after the delivery stream closed, got %d", c.State())
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := testChannel(&fakeUpdater{})
	c.state.Store(int32(StateSubscribed))
	c.Close()
	c.Close()
	if c.State() != StateDisconnected {
		t.Errorf("expected Disconnected after close, got %d", c.State())
	}
}
