package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sumire/leaveportal/internal/api"
	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/guard"
	"github.com/sumire/leaveportal/internal/leave"
)

// LeaveHandler serves the leave screens: policies, balances, records and
// the printable report. Credits cross this boundary in days and are stored
// in hours; the conversion is applied in both directions here and nowhere
// else.
type LeaveHandler struct {
	api *api.Client
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(apiClient *api.Client) *LeaveHandler {
	return &LeaveHandler{api: apiClient}
}

// resolveUserID picks the subject of a per-user listing: admins may target
// any user via the query param, everyone else only themselves.
func resolveUserID(c echo.Context) (int64, error) {
	claims, ok := guard.CurrentClaims(c)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	raw := c.QueryParam("user")
	if raw == "" {
		return claims.UserID, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user filter", domain.ErrInvalidInput)
	}
	if id != claims.UserID && claims.Role != domain.RoleAdmin {
		return 0, domain.ErrForbidden
	}
	return id, nil
}

type leaveSettingView struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	CreditDays decimal.Decimal `json:"creditDays"`
}

// Settings lists the leave policies with credits shown in days.
func (h *LeaveHandler) Settings(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	settings, err := h.api.GetLeaveSetting(c.Request().Context(), token)
	if err != nil {
		return err
	}

	out := make([]leaveSettingView, 0, len(settings))
	for _, s := range settings {
		out = append(out, leaveSettingView{
			ID:         s.ID,
			Name:       s.Name,
			CreditDays: leave.DisplayDays(s.Credit),
		})
	}
	return JSON(c, http.StatusOK, out)
}

type leaveSettingRequest struct {
	Name       string          `json:"name" validate:"required"`
	CreditDays decimal.Decimal `json:"creditDays"`
}

// CreateSetting adds a policy; the entered day value is persisted in hours.
func (h *LeaveHandler) CreateSetting(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req leaveSettingRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.CreditDays.IsNegative() {
		return fmt.Errorf("%w: credit must not be negative", domain.ErrInvalidInput)
	}

	setting := domain.LeaveSetting{
		Name:   req.Name,
		Credit: leave.StoredHours(req.CreditDays),
	}
	if err := h.api.CreateLeaveSetting(c.Request().Context(), token, setting); err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, nil)
}

type leaveSettingPatchRequest struct {
	Name       *string          `json:"name"`
	CreditDays *decimal.Decimal `json:"creditDays"`
}

// UpdateSetting patches a policy, converting any entered days to hours.
func (h *LeaveHandler) UpdateSetting(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req leaveSettingPatchRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	patch := api.LeaveSettingPatch{Name: req.Name}
	if req.CreditDays != nil {
		if req.CreditDays.IsNegative() {
			return fmt.Errorf("%w: credit must not be negative", domain.ErrInvalidInput)
		}
		hours := leave.StoredHours(*req.CreditDays)
		patch.Credit = &hours
	}
	if err := h.api.UpdateLeaveSetting(c.Request().Context(), token, id, patch); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}

type userLeaveView struct {
	ID          int64           `json:"id"`
	SettingName string          `json:"settingName"`
	CreditDays  decimal.Decimal `json:"creditDays"`
	UsedDays    decimal.Decimal `json:"usedDays"`
	BalanceDays decimal.Decimal `json:"balanceDays"`
}

// UserLeaves lists a user's balances in days.
func (h *LeaveHandler) UserLeaves(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	userID, err := resolveUserID(c)
	if err != nil {
		return err
	}

	leaves, err := h.api.GetUserLeaves(c.Request().Context(), token, userID)
	if err != nil {
		return err
	}

	out := make([]userLeaveView, 0, len(leaves))
	for _, ul := range leaves {
		out = append(out, userLeaveView{
			ID:          ul.ID,
			SettingName: ul.SettingName,
			CreditDays:  leave.DisplayDays(ul.Credit),
			UsedDays:    leave.DisplayDays(ul.Used),
			BalanceDays: leave.DisplayDays(ul.Credit.Sub(ul.Used)),
		})
	}
	return JSON(c, http.StatusOK, out)
}

type userLeavePatchRequest struct {
	CreditDays *decimal.Decimal `json:"creditDays"`
	UsedDays   *decimal.Decimal `json:"usedDays"`
}

// UpdateUserLeave patches a balance, converting entered days to hours.
func (h *LeaveHandler) UpdateUserLeave(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req userLeavePatchRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	var patch api.UserLeavePatch
	if req.CreditDays != nil {
		if req.CreditDays.IsNegative() {
			return fmt.Errorf("%w: credit must not be negative", domain.ErrInvalidInput)
		}
		hours := leave.StoredHours(*req.CreditDays)
		patch.Credit = &hours
	}
	if req.UsedDays != nil {
		if req.UsedDays.IsNegative() {
			return fmt.Errorf("%w: used must not be negative", domain.ErrInvalidInput)
		}
		hours := leave.StoredHours(*req.UsedDays)
		patch.Used = &hours
	}
	if err := h.api.UpdateUserLeave(c.Request().Context(), token, id, patch); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}

// DeleteUserLeave removes a balance.
func (h *LeaveHandler) DeleteUserLeave(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.api.DeleteUserLeave(c.Request().Context(), token, id); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}

type leaveRecordView struct {
	ID         int64              `json:"id"`
	Type       string             `json:"type"`
	DateFrom   time.Time          `json:"dateFrom"`
	DateTo     time.Time          `json:"dateTo"`
	CreditDays decimal.Decimal    `json:"creditDays"`
	Status     domain.LeaveStatus `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Records lists a user's leave transactions with the derived type label
// and the credit shown in days.
func (h *LeaveHandler) Records(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	userID, err := resolveUserID(c)
	if err != nil {
		return err
	}

	filter := api.RecordFilter{Status: domain.LeaveStatus(c.QueryParam("status"))}
	if y := c.QueryParam("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return fmt.Errorf("%w: invalid year filter", domain.ErrInvalidInput)
		}
		filter.Year = year
	}

	records, err := h.api.GetLeaveRecords(c.Request().Context(), token, userID, filter)
	if err != nil {
		return err
	}

	out := make([]leaveRecordView, 0, len(records))
	for _, r := range records {
		out = append(out, leaveRecordView{
			ID:         r.ID,
			Type:       leave.LabelForLeaveType(r.Type),
			DateFrom:   r.DateFrom,
			DateTo:     r.DateTo,
			CreditDays: leave.DisplayDays(r.Credit),
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
		})
	}
	return JSON(c, http.StatusOK, out)
}

type reportRowView struct {
	SettingName string          `json:"settingName"`
	EarnedDays  decimal.Decimal `json:"earnedDays"`
	UsedDays    decimal.Decimal `json:"usedDays"`
	BalanceDays decimal.Decimal `json:"balanceDays"`
}

// Report serves the printable leave-card data in days.
func (h *LeaveHandler) Report(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	userID, err := resolveUserID(c)
	if err != nil {
		return err
	}

	report, err := h.api.GetUserLeavesReport(c.Request().Context(), token, userID)
	if err != nil {
		return err
	}

	out := make([]reportRowView, 0, len(report))
	for _, row := range report {
		out = append(out, reportRowView{
			SettingName: row.SettingName,
			EarnedDays:  leave.DisplayDays(row.Earned),
			UsedDays:    leave.DisplayDays(row.Used),
			BalanceDays: leave.DisplayDays(row.Balance),
		})
	}
	return JSON(c, http.StatusOK, out)
}

// Profile fetches the live profile for the settings screen; this is the
// authoritative record, not the claims snapshot.
func (h *LeaveHandler) Profile(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	claims, ok := guard.CurrentClaims(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	user, err := h.api.GetUserSetting(c.Request().Context(), token, claims.UserID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, user)
}

// UpdateProfile patches the caller's own profile.
func (h *LeaveHandler) UpdateProfile(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	claims, ok := guard.CurrentClaims(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req userPatchRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	patch := api.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
	}
	if err := h.api.UpdateUserSetting(c.Request().Context(), token, claims.UserID, patch); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}

type passwordChangeRequest struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=8"`
}

// UpdatePassword changes the caller's password.
func (h *LeaveHandler) UpdatePassword(c echo.Context) error {
	token, ok := guard.CurrentToken(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	claims, ok := guard.CurrentClaims(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req passwordChangeRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	change := api.PasswordChange{Current: req.Current, New: req.New}
	if err := h.api.UpdateUserPassword(c.Request().Context(), token, claims.UserID, change); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, nil)
}
