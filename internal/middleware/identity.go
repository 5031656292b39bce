package middleware

import "github.com/labstack/echo/v4"

// Context keys populated by JWTAuth.
const (
	ctxSubject = "user_id"
	ctxRole    = "role"
)

// RoleAdmin is the only role issued by the login endpoint.
const RoleAdmin = "ADMIN"

// subject returns the authenticated login name, or "anon" for requests
// that carried no token.
func subject(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Subject exposes the authenticated login name to handlers.
func Subject(c echo.Context) string { return subject(c) }
