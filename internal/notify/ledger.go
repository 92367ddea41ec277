package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/sumire/leaveportal/internal/domain"
)

// Ledger is the in-memory, newest-first collection of notifications for
// one session. Records are never deleted, and read state only flips after
// the server has acknowledged it. Duplicate deliveries stay as duplicate
// entries: the channel is at-least-once and the ledger does not
// deduplicate by id.
type Ledger struct {
	mu       sync.Mutex
	records  []domain.Notification
	expanded map[string]bool
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{expanded: make(map[string]bool)}
}

// Prepend inserts an inbound record at the head, newest first.
func (l *Ledger) Prepend(n domain.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]domain.Notification{n}, l.records...)
}

// Len returns the number of ledger entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// UnreadCount is always derived from the records, never tracked separately.
func (l *Ledger) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, n := range l.records {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Records returns a snapshot copy of the ledger in display order.
func (l *Ledger) Records() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Notification, len(l.records))
	copy(out, l.records)
	return out
}

// Entry is a rendered ledger record: description truncated per the expand
// toggle and a relative timestamp for display.
type Entry struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Truncated     bool      `json:"truncated"`
	Expanded      bool      `json:"expanded"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt"`
	RelativeTime  string    `json:"relativeTime"`
	RouteRedirect string    `json:"routeRedirect"`
}

// Entries renders the ledger for display.
func (l *Ledger) Entries(now time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.records))
	for _, n := range l.records {
		desc, truncated := truncate(n.Description, l.expanded[n.ID])
		out = append(out, Entry{
			ID:            n.ID,
			Title:         n.Title,
			Description:   desc,
			Truncated:     truncated,
			Expanded:      l.expanded[n.ID],
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt,
			RelativeTime:  RelativeTime(n.CreatedAt, now),
			RouteRedirect: n.RouteRedirect,
		})
	}
	return out
}

// ToggleExpand flips the purely local expand state for one record. Nothing
// is persisted and nothing leaves the process.
func (l *Ledger) ToggleExpand(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].ID == id {
			l.expanded[id] = !l.expanded[id]
			return
		}
	}
}

// find returns the first record with the given id.
func (l *Ledger) find(id string) (domain.Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range l.records {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Notification{}, false
}

// markRead flips the record and re-sorts the ledger: unread entries first,
// ties broken by CreatedAt descending. Only called after a server ack.
func (l *Ledger) markRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for i := range l.records {
		if l.records[i].ID == id && !l.records[i].IsRead {
			l.records[i].IsRead = true
			found = true
			break
		}
	}
	if !found {
		return false
	}
	sort.SliceStable(l.records, func(i, j int) bool {
		if l.records[i].IsRead != l.records[j].IsRead {
			return !l.records[i].IsRead
		}
		return l.records[i].CreatedAt.After(l.records[j].CreatedAt)
	})
	return true
}
