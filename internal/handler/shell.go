package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/guard"
)

// ShellHandler serves the protected-shell chrome.
type ShellHandler struct{}

// NewShellHandler creates a new ShellHandler.
func NewShellHandler() *ShellHandler {
	return &ShellHandler{}
}

// Menu returns the navigation entries visible to the session role.
func (h *ShellHandler) Menu(c echo.Context) error {
	claims, ok := guard.CurrentClaims(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	return JSON(c, http.StatusOK, guard.VisibleMenu(guard.DefaultMenu, claims.Role))
}
