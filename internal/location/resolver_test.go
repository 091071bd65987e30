package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iliyamo/parkospace/internal/geocoding"
)

type staticFollower struct {
	final string
	err   error
}

func (f staticFollower) FinalURL(context.Context, string) (string, error) { return f.final, f.err }

type panickingFollower struct{}

func (panickingFollower) FinalURL(context.Context, string) (string, error) { panic("boom") }

type fakeReverse struct {
	addr  string
	err   error
	calls int
}

func (f *fakeReverse) Reverse(context.Context, float64, float64) (string, error) {
	f.calls++
	return f.addr, f.err
}

func TestResolvePatterns(t *testing.T) {
	cases := []struct {
		name     string
		final    string
		lat, lng float64
		address  string
		reverse  int
	}{
		{
			name:    "at pattern with place",
			final:   "https://www.google.com/maps/place/Cubbon+Park%2C+Bengaluru/@12.9763,77.5929,17z/data=!3d1.0!4d2.0",
			lat:     12.9763,
			lng:     77.5929,
			address: "Cubbon Park, Bengaluru",
		},
		{
			name:    "query pattern",
			final:   "https://maps.google.com/?q=12.9352,77.6245",
			lat:     12.9352,
			lng:     77.6245,
			address: "Koramangala",
			reverse: 1,
		},
		{
			name:    "3d 4d fallback",
			final:   "https://www.google.com/maps/data=!4m6!3d12.9716!4d77.5946",
			lat:     12.9716,
			lng:     77.5946,
			address: "Koramangala",
			reverse: 1,
		},
		{
			name:    "negative coordinates",
			final:   "https://www.google.com/maps/@-33.8688,151.2093,15z",
			lat:     -33.8688,
			lng:     151.2093,
			address: "Koramangala",
			reverse: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rev := &fakeReverse{addr: "Koramangala"}
			r := NewResolver(staticFollower{final: tc.final}, rev)
			res := r.Resolve(context.Background(), "https://maps.app.goo.gl/abc")
			if !res.Resolved() {
				t.Fatalf("unresolved: %+v", res)
			}
			if *res.Lat != tc.lat || *res.Lng != tc.lng {
				t.Errorf("coords = %v,%v want %v,%v", *res.Lat, *res.Lng, tc.lat, tc.lng)
			}
			if res.Address != tc.address {
				t.Errorf("address = %q, want %q", res.Address, tc.address)
			}
			if rev.calls != tc.reverse {
				t.Errorf("reverse calls = %d, want %d", rev.calls, tc.reverse)
			}
		})
	}
}

func TestResolveNeedsBothHalvesOfFallback(t *testing.T) {
	rev := &fakeReverse{addr: "x"}
	r := NewResolver(staticFollower{final: "https://www.google.com/maps/place/Somewhere/data=!3d12.9716"}, rev)
	res := r.Resolve(context.Background(), "u")
	if res.Resolved() || res.Lat != nil {
		t.Fatalf("resolved from a lone !3d: %+v", res)
	}
	if res.Address != "Somewhere" {
		t.Errorf("address = %q, want place name without coordinates", res.Address)
	}
	if rev.calls != 0 {
		t.Errorf("reverse called %d times without coordinates", rev.calls)
	}
}

func TestResolveReverseFailureUsesPlaceholder(t *testing.T) {
	rev := &fakeReverse{err: errors.New("timeout")}
	r := NewResolver(staticFollower{final: "https://www.google.com/maps/@12.9,77.6,15z"}, rev)
	res := r.Resolve(context.Background(), "u")
	if res.Address != PinnedLocation {
		t.Errorf("address = %q, want %q", res.Address, PinnedLocation)
	}
	if rev.calls != 1 {
		t.Errorf("reverse calls = %d, want exactly 1", rev.calls)
	}
}

func TestResolveReverseNotFoundLeavesAddressEmpty(t *testing.T) {
	rev := &fakeReverse{err: geocoding.ErrNotFound}
	r := NewResolver(staticFollower{final: "https://www.google.com/maps/@12.9,77.6,15z"}, rev)
	res := r.Resolve(context.Background(), "u")
	if !res.Resolved() || res.Address != "" {
		t.Errorf("res = %+v", res)
	}
}

func TestResolveUnresolved(t *testing.T) {
	cases := map[string]RedirectFollower{
		"follow error": staticFollower{err: errors.New("dns")},
		"no pattern":   staticFollower{final: "https://example.com/nothing"},
		"panic":        panickingFollower{},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			res := NewResolver(f, &fakeReverse{}).Resolve(context.Background(), "u")
			if res.Resolved() || res.Address != "" {
				t.Errorf("res = %+v, want zero", res)
			}
		})
	}
}

func TestHTTPRedirectFollower(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		http.Redirect(w, r, "/maps/@12.5,77.5,15z", http.StatusFound)
	})
	mux.HandleFunc("/maps/", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	final, err := NewHTTPRedirectFollower(time.Second).FinalURL(context.Background(), srv.URL+"/short")
	if err != nil {
		t.Fatalf("FinalURL: %v", err)
	}
	if final != srv.URL+"/maps/@12.5,77.5,15z" {
		t.Errorf("final = %q", final)
	}
}
