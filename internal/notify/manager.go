package notify

import (
	"log/slog"
	"sync"

	"github.com/sumire/leaveportal/internal/domain"
)

// Manager owns at most one channel per session. Only the USER role gets a
// live subscription; other roles never open one.
type Manager struct {
	mu       sync.Mutex
	channels map[string]*Channel

	url string
	api NotificationAPI
	log *slog.Logger
}

// NewManager creates a Manager dialing the given broker URL.
func NewManager(url string, notifAPI NotificationAPI, log *slog.Logger) *Manager {
	return &Manager{
		channels: make(map[string]*Channel),
		url:      url,
		api:      notifAPI,
		log:      log,
	}
}

// Mount opens the session's channel when the protected shell first renders.
// Mounting an already-mounted session is a no-op, as is mounting a role
// that does not subscribe.
func (m *Manager) Mount(sid, token string, userID int64, role domain.Role) error {
	if role != domain.RoleUser {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[sid]; ok {
		return nil
	}
	ch, err := Open(m.url, token, userID, m.api, m.log)
	if err != nil {
		return err
	}
	m.channels[sid] = ch
	return nil
}

// Channel returns the live channel for a session, if any.
func (m *Manager) Channel(sid string) (*Channel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.channels[sid]
	return ch, ok
}

// Unmount closes and forgets the session's channel. The close is
// unconditional so no subscription outlives its session.
func (m *Manager) Unmount(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.channels[sid]; ok {
		ch.Close()
		delete(m.channels, sid)
	}
}

// CloseAll tears down every channel at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, ch := range m.channels {
		ch.Close()
		delete(m.channels, sid)
	}
}
