// Package service holds the use cases that sit between the HTTP handlers
// and the repositories: proximity search, listing writes with their
// defaults, and publication of listing events.
package service

import (
	"context"

	"github.com/iliyamo/parkospace/internal/geo"
	"github.com/iliyamo/parkospace/internal/model"
)

// ListingSource is the read side of the listing repository.
type ListingSource interface {
	List(ctx context.Context, ownerPhone string) ([]model.Listing, error)
}

// NearbyService answers proximity queries with a linear scan.
type NearbyService struct {
	listings ListingSource
}

func NewNearbyService(listings ListingSource) *NearbyService {
	return &NearbyService{listings: listings}
}

// Nearby returns the listings within q.RadiusKm of (q.Lat, q.Lng) with
// their rounded distance, in storage order. When q.OwnerPhone is set it
// returns all of that owner's listings unfiltered and without distance.
func (s *NearbyService) Nearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyListing, error) {
	if q.OwnerPhone != "" {
		rows, err := s.listings.List(ctx, q.OwnerPhone)
		if err != nil {
			return nil, err
		}
		out := make([]model.NearbyListing, 0, len(rows))
		for _, l := range rows {
			out = append(out, model.NearbyListing{Listing: l})
		}
		return out, nil
	}

	rows, err := s.listings.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]model.NearbyListing, 0)
	for _, l := range rows {
		if !l.HasLocation() {
			continue
		}
		d := geo.Haversine(q.Lat, q.Lng, *l.Lat, *l.Lng)
		if d > q.RadiusKm {
			continue
		}
		rounded := geo.Round2(d)
		out = append(out, model.NearbyListing{Listing: l, Distance: &rounded})
	}
	return out, nil
}
