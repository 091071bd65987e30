package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Listing represents a rentable parking space as stored in the
// `listings` table. Coordinates are nullable: a listing created
// without a resolved location is still stored and shown to its
// owner, but never appears in proximity results.
//
// Fields:
//
//	ID           – uuid string, primary key.
//	Description  – free text, stored in the legacy `desc` column.
//	Amenities    – ordered list, persisted as a JSON array.
//	OwnerPhone   – references owners.phone.
//	IsSold       – true once the owner marks the space taken.
//	CreatedAt    – set on insert, stored as unix seconds.
type Listing struct {
	ID           string    `json:"id"`            // listings.id
	Title        string    `json:"title"`         // listings.title
	Description  string    `json:"desc"`          // listings."desc"
	AreaLandmark string    `json:"area_landmark"` // listings.area_landmark
	PriceHourly  float64   `json:"price_hourly"`  // listings.price_hourly
	PriceDaily   float64   `json:"price_daily"`   // listings.price_daily
	PriceMonthly float64   `json:"price_monthly"` // listings.price_monthly
	Lat          *float64  `json:"lat"`           // listings.lat (nullable)
	Lng          *float64  `json:"lng"`           // listings.lng (nullable)
	Length       float64   `json:"length"`        // listings.length
	Breadth      float64   `json:"breadth"`       // listings.breadth
	Amenities    []string  `json:"amenities"`     // listings.amenities (JSON text)
	GmapLink     string    `json:"gmap_link"`     // listings.gmap_link
	Image        string    `json:"image"`         // listings.image
	OwnerPhone   string    `json:"owner_phone"`   // listings.owner_phone
	IsSold       bool      `json:"is_sold"`       // listings.is_sold
	CreatedAt    time.Time `json:"created_at"`    // listings.created_at
	AddressText  string    `json:"address_text"`  // listings.address_text
}

// HasLocation reports whether the listing can take part in a proximity
// query. A zero coordinate is treated as missing.
func (l *Listing) HasLocation() bool {
	return l.Lat != nil && l.Lng != nil && *l.Lat != 0 && *l.Lng != 0
}

// ErrInvalidListing is wrapped by every ValidationError.
var ErrInvalidListing = errors.New("invalid listing")

// ValidationError names the offending field of a rejected write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidListing }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks a listing before it is written. Dimensions may be zero
// because the create form leaves them optional.
func (l *Listing) Validate() error {
	switch {
	case strings.TrimSpace(l.ID) == "":
		return invalid("id", "is required")
	case strings.TrimSpace(l.Title) == "":
		return invalid("title", "is required")
	case strings.TrimSpace(l.Description) == "":
		return invalid("desc", "is required")
	case strings.TrimSpace(l.OwnerPhone) == "":
		return invalid("owner_phone", "is required")
	}
	if err := validatePrices(l.PriceHourly, l.PriceDaily, l.PriceMonthly); err != nil {
		return err
	}
	if err := validateDimensions(l.Length, l.Breadth); err != nil {
		return err
	}
	if (l.Lat == nil) != (l.Lng == nil) {
		return invalid("lat", "lat and lng must be given together")
	}
	if l.Lat != nil {
		return validateCoordinates(*l.Lat, *l.Lng)
	}
	return nil
}

// ListingUpdate is the owner-editable part of a listing. The location
// fields are applied only when Lat is set and non-zero, so an edit form
// that does not touch the map keeps the stored pin.
type ListingUpdate struct {
	Title        string   `json:"title"`
	Description  string   `json:"desc"`
	AreaLandmark string   `json:"area_landmark"`
	Length       float64  `json:"length"`
	Breadth      float64  `json:"breadth"`
	PriceHourly  float64  `json:"price_hourly"`
	PriceDaily   float64  `json:"price_daily"`
	PriceMonthly float64  `json:"price_monthly"`
	GmapLink     string   `json:"gmap_link"`
	IsSold       bool     `json:"is_sold"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	AddressText  string   `json:"address_text"`
}

// MovesLocation reports whether the update carries a new pin.
func (u *ListingUpdate) MovesLocation() bool {
	return u.Lat != nil && *u.Lat != 0
}

// Validate checks an update before it is written.
func (u *ListingUpdate) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return invalid("title", "is required")
	}
	if err := validatePrices(u.PriceHourly, u.PriceDaily, u.PriceMonthly); err != nil {
		return err
	}
	if err := validateDimensions(u.Length, u.Breadth); err != nil {
		return err
	}
	if u.MovesLocation() {
		if u.Lng == nil {
			return invalid("lng", "is required when lat is given")
		}
		return validateCoordinates(*u.Lat, *u.Lng)
	}
	return nil
}

func validatePrices(hourly, daily, monthly float64) error {
	switch {
	case hourly < 0:
		return invalid("price_hourly", "must not be negative")
	case daily < 0:
		return invalid("price_daily", "must not be negative")
	case monthly < 0:
		return invalid("price_monthly", "must not be negative")
	}
	return nil
}

func validateDimensions(length, breadth float64) error {
	if length < 0 {
		return invalid("length", "must not be negative")
	}
	if breadth < 0 {
		return invalid("breadth", "must not be negative")
	}
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return invalid("lat", "must be within [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		return invalid("lng", "must be within [-180, 180]")
	}
	return nil
}

// NearbyQuery selects listings around a point, or all of one owner's
// listings when OwnerPhone is set.
type NearbyQuery struct {
	Lat        float64
	Lng        float64
	RadiusKm   float64
	OwnerPhone string
}

// NearbyListing is a listing plus its distance from the query point in
// kilometres, rounded to two decimals. Distance is nil in owner mode.
type NearbyListing struct {
	Listing
	Distance *float64 `json:"distance,omitempty"`
}
