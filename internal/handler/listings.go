package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkospace/internal/middleware"
	"github.com/iliyamo/parkospace/internal/model"
	"github.com/iliyamo/parkospace/internal/service"
)

// ProximityDefaults apply when a listings query omits lat, lng or radius.
type ProximityDefaults struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// ListingHandler serves the public listing search and the owner's
// create, update and delete endpoints.
type ListingHandler struct {
	Nearby   *service.NearbyService
	Listings *service.ListingService
	Defaults ProximityDefaults
}

func NewListingHandler(nearby *service.NearbyService, listings *service.ListingService, defaults ProximityDefaults) *ListingHandler {
	if nearby == nil || listings == nil {
		panic("nil service passed to NewListingHandler")
	}
	return &ListingHandler{Nearby: nearby, Listings: listings, Defaults: defaults}
}

type createListingReq struct {
	Title        string   `json:"title"`
	Desc         string   `json:"desc"`
	AreaLandmark string   `json:"area_landmark"`
	PriceHourly  float64  `json:"price_hourly"`
	PriceDaily   float64  `json:"price_daily"`
	PriceMonthly float64  `json:"price_monthly"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	AddressText  string   `json:"address_text"`
	Length       float64  `json:"length"`
	Breadth      float64  `json:"breadth"`
	Amenities    []string `json:"amenities"`
	GmapLink     string   `json:"gmap_link"`
}

type updateListingReq struct {
	ID string `json:"id"`
	model.ListingUpdate
}

type deleteListingReq struct {
	ID string `json:"id"`
}

// GetListings handles GET /api/listings. With owner_phone it returns that
// owner's listings; otherwise listings within radius km of lat,lng with
// their distance. Any failure yields an empty list.
func (h *ListingHandler) GetListings(c echo.Context) error {
	q := model.NearbyQuery{
		Lat:        h.Defaults.Lat,
		Lng:        h.Defaults.Lng,
		RadiusKm:   h.Defaults.RadiusKm,
		OwnerPhone: strings.TrimSpace(c.QueryParam("owner_phone")),
	}
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"lat", &q.Lat}, {"lng", &q.Lng}, {"radius", &q.RadiusKm}} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Printf("listings: bad %s %q: %v", p.name, raw, err)
			return degraded(c)
		}
		*p.dst = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Nearby.Nearby(ctx, q)
	if err != nil {
		log.Printf("listings: fetch failed: %v", err)
		return degraded(c)
	}
	return c.JSON(http.StatusOK, out)
}

// degraded answers with the empty fallback list and keeps it out of the
// response cache so a transient failure is not replayed.
func degraded(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, []model.NearbyListing{})
}

// Create handles POST /api/create for the authenticated owner.
func (h *ListingHandler) Create(c echo.Context) error {
	var req createListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	l := &model.Listing{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Desc),
		AreaLandmark: strings.TrimSpace(req.AreaLandmark),
		PriceHourly:  req.PriceHourly,
		PriceDaily:   req.PriceDaily,
		PriceMonthly: req.PriceMonthly,
		Lat:          req.Lat,
		Lng:          req.Lng,
		AddressText:  strings.TrimSpace(req.AddressText),
		Length:       req.Length,
		Breadth:      req.Breadth,
		Amenities:    req.Amenities,
		GmapLink:     strings.TrimSpace(req.GmapLink),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Listings.Create(ctx, middleware.OwnerPhone(c), l); err != nil {
		return writeError(c, "create", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "listing": l})
}

// Update handles POST /api/listings/update. Listings of other owners are
// refused with 403.
func (h *ListingHandler) Update(c echo.Context) error {
	var req updateListingReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Listings.Update(ctx, req.ID, middleware.OwnerPhone(c), req.ListingUpdate)
	if err != nil {
		return writeError(c, "update", err)
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete handles POST /api/listings/delete.
func (h *ListingHandler) Delete(c echo.Context) error {
	var req deleteListingReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Listings.Delete(ctx, req.ID, middleware.OwnerPhone(c))
	if err != nil {
		return writeError(c, "delete", err)
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// writeError maps validation failures to 400 and everything else to 500.
func writeError(c echo.Context, op string, err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": ve.Error()})
	}
	log.Printf("listings: %s failed: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
}
