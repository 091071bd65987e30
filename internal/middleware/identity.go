package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxOwnerPhone = "owner_phone"
	ctxRole       = "role"
)

// OwnerPhone returns the authenticated owner's phone, or "" on routes
// that did not pass through JWTAuth.
func OwnerPhone(c echo.Context) string {
	s, _ := c.Get(ctxOwnerPhone).(string)
	return s
}

// callerID identifies the caller in cache and rate-limit keys.
func callerID(c echo.Context) string {
	if p := OwnerPhone(c); p != "" {
		return p
	}
	return "guest"
}
