package guard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/leaveportal/internal/domain"
	"github.com/sumire/leaveportal/internal/session"
)

const (
	claimsKey    = "session_claims"
	tokenKey     = "session_token"
	sessionIDKey = "session_id"

	loginPath   = "/login"
	defaultHome = "/app"
)

var roleHome = map[domain.Role]string{
	domain.RoleAdmin: "/app/admin",
	domain.RoleUser:  "/app/dashboard",
}

// HomePath maps a role to its home route; unrecognized roles land on the
// default authenticated path.
func HomePath(role domain.Role) string {
	if p, ok := roleHome[role]; ok {
		return p
	}
	return defaultHome
}

// Guard gates routes on the state of the session store, evaluated on every
// request. The decoded claim view is read fresh each time and never cached
// across navigations.
type Guard struct {
	sessions *session.Store
	cookie   string
	now      func() time.Time
}

// New creates a Guard reading the session id from the named cookie.
func New(sessions *session.Store, cookieName string) *Guard {
	return &Guard{sessions: sessions, cookie: cookieName, now: time.Now}
}

// resolve reads the session cookie and decodes the stored token. A missing
// cookie, missing token, malformed token or unreachable store all come back
// as nil claims: the request is unauthenticated.
func (g *Guard) resolve(c echo.Context) (sid, token string, claims *session.Claims) {
	ck, err := c.Cookie(g.cookie)
	if err != nil {
		return "", "", nil
	}
	sid = ck.Value

	token, err = g.sessions.Token(c.Request().Context(), sid)
	if err != nil {
		slog.Warn("session token unreadable", "error", err)
		return sid, "", nil
	}
	if token == "" {
		return sid, "", nil
	}

	claims, err = session.Decode(token)
	if err != nil {
		slog.Warn("session token undecodable", "error", err)
		return sid, token, nil
	}
	return sid, token, claims
}

// Public renders public content unless a live session exists, in which
// case the request is redirected to the role's home route.
func (g *Guard) Public() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, _, claims := g.resolve(c)
			if session.Valid(claims, g.now()) {
				return c.Redirect(http.StatusSeeOther, HomePath(claims.Role))
			}
			return next(c)
		}
	}
}

// Private mounts the protected shell. An expired or missing session is sent
// to the login route with the expired flag set, which drives the blocking
// acknowledgement on the login screen. The stored token is left in place.
func (g *Guard) Private() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, token, claims := g.resolve(c)
			if !session.Valid(claims, g.now()) {
				return c.Redirect(http.StatusSeeOther, loginPath+"?session=expired")
			}
			c.Set(sessionIDKey, sid)
			c.Set(tokenKey, token)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// PrivatePrint guards printable views. Unlike Private it wipes the session
// before redirecting; the divergence is kept on purpose (see DESIGN.md).
func (g *Guard) PrivatePrint() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, token, claims := g.resolve(c)
			if !session.Valid(claims, g.now()) {
				if sid != "" {
					if err := g.sessions.Clear(c.Request().Context(), sid); err != nil {
						slog.Error("clear session on expired print view", "error", err)
					}
				}
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			c.Set(sessionIDKey, sid)
			c.Set(tokenKey, token)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireRole rejects shell routes whose allowed roles do not include the
// session role. It must run after Private or PrivatePrint.
func (g *Guard) RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentClaims(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}

// CurrentClaims extracts the decoded claims set by a private guard.
func CurrentClaims(c echo.Context) (*session.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*session.Claims)
	return claims, ok
}

// CurrentToken extracts the bearer token set by a private guard, in its
// transport form.
func CurrentToken(c echo.Context) (string, bool) {
	token, ok := c.Get(tokenKey).(string)
	return token, ok && token != ""
}

// CurrentSessionID extracts the session id set by a private guard.
func CurrentSessionID(c echo.Context) (string, bool) {
	sid, ok := c.Get(sessionIDKey).(string)
	return sid, ok && sid != ""
}
