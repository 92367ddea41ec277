package api

import (
	"context"
	"net/http"
)

// NotificationPatch flips server-side notification state. The local ledger
// only mutates after this call acknowledges.
type NotificationPatch struct {
	IsRead *bool `json:"isRead,omitempty"`
}

// UpdateNotification patches a notification record. A nil return is the
// acknowledgement the ledger waits for.
func (c *Client) UpdateNotification(ctx context.Context, token, id string, patch NotificationPatch) error {
	return c.do(ctx, http.MethodPatch, "/notifications/"+id, token, patch, nil)
}
