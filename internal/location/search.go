package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/parkospace/internal/geocoding"
)

// SearchStatus is the outcome of a free-text search.
type SearchStatus int

const (
	SearchFound SearchStatus = iota
	SearchNotFound
	SearchFailed
)

func (s SearchStatus) String() string {
	switch s {
	case SearchFound:
		return "found"
	case SearchNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// SearchResult carries the best match when Status is SearchFound and the
// cause when it is SearchFailed.
type SearchResult struct {
	Status  SearchStatus
	Lat     float64
	Lng     float64
	Address string
	Err     error
}

// ForwardGeocoder finds the place best matching a query.
type ForwardGeocoder interface {
	Search(ctx context.Context, query string) (*geocoding.Place, error)
}

// Searcher geocodes free-text place queries.
type Searcher struct {
	geocoder ForwardGeocoder
}

func NewSearcher(geocoder ForwardGeocoder) *Searcher {
	return &Searcher{geocoder: geocoder}
}

// Search geocodes a free-text query.
func (s *Searcher) Search(ctx context.Context, query string) SearchResult {
	if strings.TrimSpace(query) == "" {
		return SearchResult{Status: SearchFailed, Err: fmt.Errorf("no query provided")}
	}
	p, err := s.geocoder.Search(ctx, query)
	switch {
	case errors.Is(err, geocoding.ErrNotFound):
		return SearchResult{Status: SearchNotFound}
	case err != nil:
		return SearchResult{Status: SearchFailed, Err: err}
	case p == nil:
		return SearchResult{Status: SearchNotFound}
	}
	return SearchResult{Status: SearchFound, Lat: p.Lat, Lng: p.Lng, Address: p.DisplayName}
}
