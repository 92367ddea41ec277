package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sumire/leaveportal/internal/domain"
)

func record(id string, createdAt time.Time) domain.Notification {
	return domain.Notification{
		ID:        id,
		Title:     "Leave request " + id,
		CreatedAt: createdAt,
	}
}

func TestPrependNewestFirst(t *testing.T) {
	l := NewLedger()
	base := time.Now()
	for i := 1; i <= 5; i++ {
		l.Prepend(record(fmt.Sprintf("n%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	got := l.Records()
	want := []string{"n5", "n4", "n3", "n2", "n1"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestDuplicateDeliveriesKept(t *testing.T) {
	l := NewLedger()
	n := record("dup", time.Now())
	l.Prepend(n)
	l.Prepend(n)

	if l.Len() != 2 {
		t.Fatalf("expected duplicate entries kept, got %d", l.Len())
	}
	if l.UnreadCount() != 2 {
		t.Errorf("expected unread count 2, got %d", l.UnreadCount())
	}
}

func TestUnreadCountDerived(t *testing.T) {
	l := NewLedger()
	base := time.Now()
	l.Prepend(record("a", base))
	read := record("b", base.Add(time.Minute))
	read.IsRead = true
	l.Prepend(read)

	if got := l.UnreadCount(); got != 1 {
		t.Errorf("expected unread 1, got %d", got)
	}
}

func TestMarkReadResortsLedger(t *testing.T) {
	l := NewLedger()
	base := time.Now()
	for i := 1; i <= 4; i++ {
		l.Prepend(record(fmt.Sprintf("n%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	// reading the newest entry must sink it below every unread record
	if !l.markRead("n4") {
		t.Fatal("markRead did not find n4")
	}

	got := l.Records()
	want := []string{"n3", "n2", "n1", "n4"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %v", i, id, ids(got))
		}
	}
	if !got[3].IsRead {
		t.Error("expected n4 flagged read")
	}
	if l.UnreadCount() != 3 {
		t.Errorf("expected unread 3, got %d", l.UnreadCount())
	}
}

func TestMarkReadOrdersReadByRecency(t *testing.T) {
	l := NewLedger()
	base := time.Now()
	for i := 1; i <= 4; i++ {
		l.Prepend(record(fmt.Sprintf("n%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	l.markRead("n1")
	l.markRead("n3")

	got := ids(l.Records())
	want := "n4 n2 n3 n1"
	if strings.Join(got, " ") != want {
		t.Errorf("expected order %q, got %q", want, strings.Join(got, " "))
	}
}

func TestMarkReadUnknownID(t *testing.T) {
	l := NewLedger()
	l.Prepend(record("a", time.Now()))
	if l.markRead("missing") {
		t.Error("expected markRead to report miss")
	}
	if l.UnreadCount() != 1 {
		t.Errorf("unread count changed on miss: %d", l.UnreadCount())
	}
}

func TestToggleExpandLocalOnly(t *testing.T) {
	l := NewLedger()
	long := strings.Repeat("x", 150)
	n := record("a", time.Now())
	n.Description = long
	l.Prepend(n)

	entries := l.Entries(time.Now())
	if !entries[0].Truncated {
		t.Fatal("expected long description truncated by default")
	}
	if len([]rune(entries[0].Description)) != descriptionLimit+3 {
		t.Errorf("unexpected truncated length %d", len([]rune(entries[0].Description)))
	}

	l.ToggleExpand("a")
	entries = l.Entries(time.Now())
	if entries[0].Truncated || entries[0].Description != long {
		t.Error("expected full description after expand")
	}

	l.ToggleExpand("a")
	entries = l.Entries(time.Now())
	if !entries[0].Truncated {
		t.Error("expected collapse on second toggle")
	}

	// toggling an unknown id must not create state
	l.ToggleExpand("missing")
	if len(l.expanded) != 1 {
		t.Errorf("expected no expand state for unknown id, got %v", l.expanded)
	}
}

func ids(records []domain.Notification) []string {
	out := make([]string, len(records))
	for i, n := range records {
		out[i] = n.ID
	}
	return out
}
