package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/guard"
	"github.com/sumire/leaveportal/internal/notify"
)

// NotificationManager is the slice of the channel manager the portal
// handlers drive.
type NotificationManager interface {
	Mount(sid, token string, userID int64, role domain.Role) error
	Channel(sid string) (*notify.Channel, bool)
	Unmount(sid string)
}

// NotificationHandler renders the session ledger and relays read
// acknowledgements to the remote API.
type NotificationHandler struct {
	notify NotificationManager
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(manager NotificationManager) *NotificationHandler {
	return &NotificationHandler{notify: manager}
}

type ledgerResponse struct {
	Notifications []notify.Entry `json:"notifications"`
	Unread        int            `json:"unread"`
}

// channel resolves the session's live channel, mounting it first if the
// session has none. The mount is idempotent and role-gated, so sessions
// that survived a portal restart or a broker outage at login pick their
// subscription back up on the next shell render.
func (h *NotificationHandler) channel(c echo.Context) (*notify.Channel, bool) {
	sid, ok := guard.CurrentSessionID(c)
	if !ok {
		return nil, false
	}
	claims, okClaims := guard.CurrentClaims(c)
	token, okToken := guard.CurrentToken(c)
	if okClaims && okToken {
		if err := h.notify.Mount(sid, token, claims.UserID, claims.Role); err != nil {
			slog.Warn("notification channel unavailable", "user", claims.UserID, "error", err)
		}
	}
	return h.notify.Channel(sid)
}

// List returns the rendered ledger with the unread count. Sessions without
// a channel (roles that do not subscribe, or a broker still down) get an
// empty feed.
func (h *NotificationHandler) List(c echo.Context) error {
	ch, ok := h.channel(c)
	if !ok {
		return JSON(c, http.StatusOK, ledgerResponse{Notifications: []notify.Entry{}})
	}
	return JSON(c, http.StatusOK, ledgerResponse{
		Notifications: ch.Ledger().Entries(time.Now()),
		Unread:        ch.Ledger().UnreadCount(),
	})
}

// MarkRead is fire-and-forget: the response reflects whatever state the
// ledger is left in, success or not.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return domain.ErrInvalidInput
	}
	if ch, ok := h.channel(c); ok {
		ch.MarkAsRead(c.Request().Context(), id)
		return JSON(c, http.StatusOK, map[string]int{"unread": ch.Ledger().UnreadCount()})
	}
	return JSON(c, http.StatusOK, map[string]int{"unread": 0})
}

// ToggleExpand flips the local expand state for one record.
func (h *NotificationHandler) ToggleExpand(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return domain.ErrInvalidInput
	}
	if ch, ok := h.channel(c); ok {
		ch.Ledger().ToggleExpand(id)
	}
	return JSON(c, http.StatusOK, nil)
}
