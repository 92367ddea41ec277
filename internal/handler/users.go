package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sumire/leaveportal/internal/api"
	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/guard"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	api *api.Client
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(apiClient *api.Client) *UserHandler {
	return &UserHandler{api: apiClient}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id", domain.ErrInvalidInput)
	}
	return id, nil
}

// List returns the accounts matching the query filter.
func (h *UserHandler) List(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	filter := api.UserFilter{Query: c.QueryParam("q")}
	if v := c.QueryParam("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: invalid verified filter", domain.ErrInvalidInput)
		}
		filter.Verified = &verified
	}

	users, err := h.api.GetUsers(c.Request().Context(), token, filter)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, users)
}

type userPatchRequest struct {
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Position  *string      `json:"position"`
	Role      *domain.Role `json:"role"`
	Verified  *bool        `json:"verified"`
}

// Update patches a single account, including approval via the verified flag.
func (h *UserHandler) Update(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req userPatchRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	patch := api.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
		Role:      req.Role,
		Verified:  req.Verified,
	}
	if err := h.api.UpdateUser(c.Request().Context(), token, id, patch); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}

// Delete removes a single account.
func (h *UserHandler) Delete(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.api.DeleteUser(c.Request().Context(), token, id); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}

type deleteManyRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// DeleteMany removes a batch of accounts.
func (h *UserHandler) DeleteMany(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req deleteManyRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.api.DeleteUsers(c.Request().Context(), token, req.IDs); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}
