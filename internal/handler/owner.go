package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkospace/internal/middleware"
	"github.com/iliyamo/parkospace/internal/repository"
)

// OwnerHandler serves the authenticated owner's profile.
type OwnerHandler struct {
	Owners *repository.OwnerRepo
}

func NewOwnerHandler(owners *repository.OwnerRepo) *OwnerHandler {
	return &OwnerHandler{Owners: owners}
}

// Me handles GET /api/owners/me.
func (h *OwnerHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Owners.Get(ctx, middleware.OwnerPhone(c))
	if errors.Is(err, repository.ErrOwnerNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "owner not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, o)
}
