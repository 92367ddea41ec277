// Package leave holds the pure display helpers for leave credits. Credits
// are stored in hour-equivalents everywhere in the backend; humans see and
// enter days. Every display edge divides by 8 and every persist edge
// multiplies by 8; skipping either direction is a silent unit bug.
package leave

import "github.com/shopspring/decimal"

var hoursPerDay = decimal.NewFromInt(8)

// DisplayDays converts a stored credit in hours to display days.
func DisplayDays(creditHours decimal.Decimal) decimal.Decimal {
	return creditHours.Div(hoursPerDay)
}

// StoredHours converts a human-entered day value to stored hours.
func StoredHours(days decimal.Decimal) decimal.Decimal {
	return days.Mul(hoursPerDay)
}
