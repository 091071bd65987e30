// Package geocoding talks to a Nominatim server for forward (free text to
// coordinates) and reverse (coordinates to address) lookups.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when the server has no match for the query.
var ErrNotFound = errors.New("no geocoding result")

// Place is a geocoded location.
type Place struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Geocoder is implemented by the Nominatim client and its cache.
type Geocoder interface {
	Search(ctx context.Context, query string) (*Place, error)
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// Client is a Nominatim HTTP client. Calls are spaced at least
// minInterval apart as the public server's usage policy requires.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient creates a client for the server at baseURL. Nominatim rejects
// requests without an identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		httpClient:  &http.Client{Timeout: timeout},
		minInterval: time.Second,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Search returns the best match for a free-text query.
func (c *Client) Search(ctx context.Context, query string) (*Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)

	var results []searchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}
	return &Place{Lat: lat, Lng: lng, DisplayName: r.DisplayName}, nil
}

// Reverse returns the English display address nearest to the point.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("accept-language", "en")

	var r reverseResult
	if err := c.get(ctx, "/reverse", params, &r); err != nil {
		return "", err
	}
	if r.Error != "" || r.DisplayName == "" {
		return "", ErrNotFound
	}
	return r.DisplayName, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// throttle reserves the next free call slot and waits for it outside the
// lock, giving up when ctx ends first.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	next := now
	if !c.lastCall.IsZero() {
		if slot := c.lastCall.Add(c.minInterval); slot.After(now) {
			next = slot
		}
	}
	c.lastCall = next
	c.mu.Unlock()

	wait := next.Sub(now)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for nominatim slot: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
