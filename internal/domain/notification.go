package domain

import "time"

// Notification is one entry in the in-memory notification ledger.
// Inbound payloads from the push channel are validated against this schema
// before they reach the ledger; anything that fails validation is dropped.
type Notification struct {
	ID            string    `json:"id" validate:"required"`
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt" validate:"required"`
	RouteRedirect string    `json:"routeRedirect"`
}
