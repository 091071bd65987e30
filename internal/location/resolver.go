// Package location turns user input into coordinates: shared map links
// (short or long form) and free-text place searches.
package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/iliyamo/parkospace/internal/geocoding"
)

// PinnedLocation is the address given to coordinates whose reverse lookup
// failed.
const PinnedLocation = "Pinned Location"

// Map hosts serve the coordinates only to browsers.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var (
	atPattern    = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	queryPattern = regexp.MustCompile(`q=(-?\d+\.\d+),(-?\d+\.\d+)`)
	latPattern   = regexp.MustCompile(`!3d(-?\d+\.\d+)`)
	lngPattern   = regexp.MustCompile(`!4d(-?\d+\.\d+)`)
	placePattern = regexp.MustCompile(`/place/([^/]+)/`)
)

// RedirectFollower expands a link to the URL it finally lands on.
type RedirectFollower interface {
	FinalURL(ctx context.Context, rawURL string) (string, error)
}

// ReverseGeocoder names the place at a coordinate.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// HTTPRedirectFollower issues a HEAD request and follows redirects.
type HTTPRedirectFollower struct {
	client *http.Client
}

func NewHTTPRedirectFollower(timeout time.Duration) *HTTPRedirectFollower {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRedirectFollower{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPRedirectFollower) FinalURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("following %s: %w", rawURL, err)
	}
	resp.Body.Close()
	return resp.Request.URL.String(), nil
}

// Resolution is what a map link yielded. Lat and Lng are set together;
// Address may be empty when the link named no place and the reverse
// lookup had no answer.
type Resolution struct {
	Lat     *float64
	Lng     *float64
	Address string
}

// Resolved reports whether usable, non-zero coordinates were found.
func (r Resolution) Resolved() bool {
	return r.Lat != nil && r.Lng != nil && *r.Lat != 0 && *r.Lng != 0
}

// Resolver turns a shared map link into coordinates and a place name.
type Resolver struct {
	follower RedirectFollower
	geocoder ReverseGeocoder
}

func NewResolver(follower RedirectFollower, geocoder ReverseGeocoder) *Resolver {
	return &Resolver{follower: follower, geocoder: geocoder}
}

// Resolve extracts coordinates and a place name from a map link. It never
// fails: any problem yields an unresolved Resolution.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (res Resolution) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("location: resolving %q panicked: %v", rawURL, p)
			res = Resolution{}
		}
	}()

	final, err := r.follower.FinalURL(ctx, rawURL)
	if err != nil {
		log.Printf("location: map link parsing failed: %v", err)
		return Resolution{}
	}

	res.Lat, res.Lng = extractCoordinates(final)
	res.Address = extractPlace(final)

	if res.Resolved() && res.Address == "" {
		addr, err := r.geocoder.Reverse(ctx, *res.Lat, *res.Lng)
		switch {
		case err == nil:
			res.Address = addr
		case errors.Is(err, geocoding.ErrNotFound):
			// caller supplies its own default
		default:
			log.Printf("location: reverse lookup failed: %v", err)
			res.Address = PinnedLocation
		}
	}
	return res
}

// extractCoordinates tries @lat,lng then q=lat,lng then the !3d/!4d pair.
// The first pattern that matches wins.
func extractCoordinates(u string) (*float64, *float64) {
	for _, p := range []*regexp.Regexp{atPattern, queryPattern} {
		if m := p.FindStringSubmatch(u); m != nil {
			return parseFloat(m[1]), parseFloat(m[2])
		}
	}
	lat := latPattern.FindStringSubmatch(u)
	lng := lngPattern.FindStringSubmatch(u)
	if lat != nil && lng != nil {
		return parseFloat(lat[1]), parseFloat(lng[1])
	}
	return nil, nil
}

func extractPlace(u string) string {
	m := placePattern.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	name, err := url.QueryUnescape(m[1])
	if err != nil {
		return m[1]
	}
	return name
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
