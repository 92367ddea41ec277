package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sumire/leaveportal/internal/domain"
)

// Claims is the decoded view of the session token. The remote API signs
// the token; the portal only reads the embedded claims and never verifies
// the signature, since every outbound call is re-validated server-side.
//
// Claim fields double as a profile snapshot and can drift from the
// server-side profile until the next login. Screens that need the live
// profile must fetch it through the settings endpoint instead.
type Claims struct {
	UserID    int64       `json:"id"`
	Role      domain.Role `json:"role"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Position  string      `json:"position"`
	jwt.RegisteredClaims
}

// Expiration returns the exp claim in epoch seconds, or 0 when absent.
func (c *Claims) Expiration() int64 {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

// Decode parses the claim segment of a bearer token without verifying the
// signature. The transport prefix is tolerated so stored tokens can be
// decoded as-is. A malformed token is reported as an error and must be
// treated by callers as "unauthenticated".
func Decode(token string) (*Claims, error) {
	raw := strings.TrimPrefix(token, "Bearer ")
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// Valid reports whether the decoded claims represent a live session.
// The exp claim is in seconds and is scaled to milliseconds before the
// comparison.
func Valid(c *Claims, now time.Time) bool {
	return c != nil && c.Expiration()*1000 > now.UnixMilli()
}
