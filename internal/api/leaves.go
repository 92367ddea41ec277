package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sumire/leaveportal/internal/domain"
)

// GetLeaveSetting lists every leave policy.
func (c *Client) GetLeaveSetting(ctx context.Context, token string) ([]domain.LeaveSetting, error) {
	var out struct {
		Settings []domain.LeaveSetting `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/leave-settings", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Settings, nil
}

// CreateLeaveSetting adds a leave policy. Credit must already be in hours.
func (c *Client) CreateLeaveSetting(ctx context.Context, token string, s domain.LeaveSetting) error {
	return c.do(ctx, http.MethodPost, "/leave-settings", token, s, nil)
}

// LeaveSettingPatch is a partial policy update; Credit is in hours.
type LeaveSettingPatch struct {
	Name   *string          `json:"name,omitempty"`
	Credit *decimal.Decimal `json:"credit,omitempty"`
}

// UpdateLeaveSetting patches a leave policy.
func (c *Client) UpdateLeaveSetting(ctx context.Context, token string, id int64, patch LeaveSettingPatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/leave-settings/%d", id), token, patch, nil)
}

// GetUserLeaves lists a user's leave balances.
func (c *Client) GetUserLeaves(ctx context.Context, token string, userID int64) ([]domain.UserLeave, error) {
	var out struct {
		UserLeaves []domain.UserLeave `json:"userLeaves"`
	}
	path := fmt.Sprintf("/user-leaves?user=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.UserLeaves, nil
}

// UserLeavePatch is a partial balance update; values are in hours.
type UserLeavePatch struct {
	Credit *decimal.Decimal `json:"credit,omitempty"`
	Used   *decimal.Decimal `json:"used,omitempty"`
}

// UpdateUserLeave patches a leave balance.
func (c *Client) UpdateUserLeave(ctx context.Context, token string, id int64, patch UserLeavePatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/user-leaves/%d", id), token, patch, nil)
}

// DeleteUserLeave removes a leave balance.
func (c *Client) DeleteUserLeave(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user-leaves/%d", id), token, nil, nil)
}

// RecordFilter narrows a leave-record listing.
type RecordFilter struct {
	Status domain.LeaveStatus
	Year   int
}

// GetLeaveRecords lists a user's leave transactions.
func (c *Client) GetLeaveRecords(ctx context.Context, token string, userID int64, f RecordFilter) ([]domain.LeaveRecord, error) {
	q := url.Values{}
	q.Set("user", strconv.FormatInt(userID, 10))
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}

	var out struct {
		Records []domain.LeaveRecord `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, "/leave-records?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// GetUserLeavesReport fetches the printable per-user leave report.
func (c *Client) GetUserLeavesReport(ctx context.Context, token string, userID int64) ([]domain.LeaveReportRow, error) {
	var out struct {
		Report []domain.LeaveReportRow `json:"report"`
	}
	path := fmt.Sprintf("/user-leaves/report?user=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Report, nil
}
