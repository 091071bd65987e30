package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness and which store the process settled on at
// startup, so a silent fallback to SQLite is visible to operators.
func Health(store string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "store": store})
	}
}
