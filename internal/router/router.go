// Package router registers the HTTP routes and the middleware guarding
// each group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkospace/internal/handler"
	"github.com/iliyamo/parkospace/internal/middleware"
	"github.com/iliyamo/parkospace/internal/model"
)

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, store string) {
	e.GET("/healthz", handler.Health(store))
}

// RegisterListings exposes the public search behind the response cache
// and the owner write endpoints behind JWT auth. Writes purge the cache.
func RegisterListings(e *echo.Echo, l *handler.ListingHandler, o *handler.OwnerHandler, jwtSecret string, cache, purge echo.MiddlewareFunc) {
	e.GET("/api/listings", l.GetListings, cache)

	owner := e.Group("/api", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleOwner))
	owner.POST("/create", l.Create, purge)
	owner.POST("/listings/update", l.Update, purge)
	owner.POST("/listings/delete", l.Delete, purge)
	owner.GET("/owners/me", o.Me)
}

// RegisterUtils exposes the map-link and free-text location helpers.
func RegisterUtils(e *echo.Echo, u *handler.UtilsHandler) {
	g := e.Group("/api/utils")
	g.POST("/parse-map-url", u.ParseMapURL)
	g.POST("/search-location", u.SearchLocation)
}

// RegisterAuth exposes the OTP login flow. Both endpoints call the paid
// OTP service, so they sit behind the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limiter)
	g.POST("/send-otp", a.SendOTP)
	g.POST("/verify-owner", a.VerifyOwner)
}
