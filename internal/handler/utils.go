package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkospace/internal/location"
)

// LocationDetected is shown when a link gave coordinates but no name.
const LocationDetected = "Location Detected"

// UtilsHandler serves the map-link and place-search helpers used by the
// listing form.
type UtilsHandler struct {
	Resolver *location.Resolver
	Searcher *location.Searcher
}

func NewUtilsHandler(r *location.Resolver, s *location.Searcher) *UtilsHandler {
	return &UtilsHandler{Resolver: r, Searcher: s}
}

// ParseMapURL handles POST /api/utils/parse-map-url. Failures are reported
// in the body with success=false, not through the status code.
func (h *UtilsHandler) ParseMapURL(c echo.Context) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "No URL provided"})
	}

	res := h.Resolver.Resolve(c.Request().Context(), strings.TrimSpace(req.URL))
	if !res.Resolved() {
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"error":   "Could not detect location. Try a standard Google Maps link.",
		})
	}
	addr := res.Address
	if addr == "" {
		addr = LocationDetected
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "lat": *res.Lat, "lng": *res.Lng, "address": addr})
}

// SearchLocation handles POST /api/utils/search-location.
func (h *UtilsHandler) SearchLocation(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "No query provided"})
	}

	res := h.Searcher.Search(c.Request().Context(), req.Query)
	switch res.Status {
	case location.SearchFound:
		return c.JSON(http.StatusOK, echo.Map{"success": true, "lat": res.Lat, "lng": res.Lng, "address": res.Address})
	case location.SearchNotFound:
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Location not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": false, "error": res.Err.Error()})
}
