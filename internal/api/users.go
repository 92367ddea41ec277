package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sumire/leaveportal/internal/domain"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Query    string
	Verified *bool
}

// GetUsers lists accounts matching the filter.
func (c *Client) GetUsers(ctx context.Context, token string, f UserFilter) ([]domain.User, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Verified != nil {
		q.Set("verified", strconv.FormatBool(*f.Verified))
	}
	path := "/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Users []domain.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// UserPatch is a partial account update; nil fields are left untouched.
type UserPatch struct {
	FirstName *string      `json:"firstName,omitempty"`
	LastName  *string      `json:"lastName,omitempty"`
	Position  *string      `json:"position,omitempty"`
	Role      *domain.Role `json:"role,omitempty"`
	Verified  *bool        `json:"verified,omitempty"`
}

// UpdateUser patches an account.
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, patch UserPatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), token, patch, nil)
}

// DeleteUser removes a single account.
func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), token, nil, nil)
}

// DeleteUsers removes a batch of accounts.
func (c *Client) DeleteUsers(ctx context.Context, token string, ids []int64) error {
	body := map[string][]int64{"ids": ids}
	return c.do(ctx, http.MethodPost, "/users/delete", token, body, nil)
}

// GetUserSetting fetches the live profile for the settings screen. This is
// the authoritative profile; token claims are only a snapshot.
func (c *Client) GetUserSetting(ctx context.Context, token string, id int64) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/settings", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserSetting patches the caller's own profile.
func (c *Client) UpdateUserSetting(ctx context.Context, token string, id int64, patch UserPatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/settings", id), token, patch, nil)
}

// PasswordChange is the password-update request body.
type PasswordChange struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// UpdateUserPassword changes the caller's password.
func (c *Client) UpdateUserPassword(ctx context.Context, token string, id int64, change PasswordChange) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/password", id), token, change, nil)
}
