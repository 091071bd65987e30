// Package middleware holds the echo middleware shared by the API routes:
// bearer-token authentication, role checks, the Redis response cache and
// the Redis token-bucket rate limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkospace/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the owner's phone and
// role in the context for OwnerPhone and RequireRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ctxOwnerPhone, claims.Phone)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}
