// Package api is the request/response client for the remote
// leave-management API. The portal consumes the API contract as-is: no
// retries, no backoff, no timeouts beyond the caller's context. Failures
// are mapped to domain sentinels and handled wherever the call was made.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sumire/leaveportal/internal/domain"
)

// Client talks to the remote leave-management API, replaying the session's
// bearer token verbatim on every authenticated call.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: http.DefaultClient,
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		// token already carries the "Bearer " transport prefix
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func statusError(code int, method, path string) error {
	switch code {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, method, path)
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s %s", domain.ErrConflict, method, path)
	default:
		return fmt.Errorf("%s %s returned status %d", method, path, code)
	}
}
