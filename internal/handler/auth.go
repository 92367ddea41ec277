package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/leaveportal/internal/api"
	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/guard"
	"github.com/sumire/leaveportal/internal/session"
)

// AuthHandler drives login, registration and logout for the portal.
type AuthHandler struct {
	api      *api.Client
	sessions *session.Store
	notify   NotificationManager
	cookie   string
	ttl      time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(apiClient *api.Client, sessions *session.Store, manager NotificationManager, cookieName string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{
		api:      apiClient,
		sessions: sessions,
		notify:   manager,
		cookie:   cookieName,
		ttl:      ttl,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials with the remote API, persists the bearer
// token and opens the notification channel for roles that subscribe. The
// notification path is non-critical: a broker failure is logged and the
// login still succeeds.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.api.Login(ctx, api.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}

	claims, err := session.Decode(token)
	if err != nil {
		return fmt.Errorf("%w: undecodable token", domain.ErrUnauthorized)
	}
	if !session.Valid(claims, time.Now()) {
		return fmt.Errorf("%w: token issued already expired", domain.ErrSessionExpired)
	}

	sid := session.NewSessionID()
	if err := h.sessions.SetToken(ctx, sid, token); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.ttl.Seconds()),
	})

	if err := h.notify.Mount(sid, "Bearer "+token, claims.UserID, claims.Role); err != nil {
		slog.Warn("notification channel unavailable", "user", claims.UserID, "error", err)
	}

	return JSON(c, http.StatusOK, map[string]any{
		"redirectTo": guard.HomePath(claims.Role),
	})
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Position  string `json:"position" validate:"required"`
}

// Register proxies account creation to the remote API.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.api.Register(c.Request().Context(), api.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, out)
}

// Logout wipes every piece of session state: the live notification
// channel, the durable token and the cookie. The redirect forces a full
// reload so nothing in memory survives either.
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(h.cookie); err == nil && ck.Value != "" {
		h.notify.Unmount(ck.Value)
		if err := h.sessions.Clear(c.Request().Context(), ck.Value); err != nil {
			slog.Error("clear session on logout", "error", err)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Me returns the claims view of the current identity. This is a snapshot
// taken at login; the settings screen fetches the live profile instead.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := guard.CurrentClaims(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	return JSON(c, http.StatusOK, claims)
}
