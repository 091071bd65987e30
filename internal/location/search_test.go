package location

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/parkospace/internal/geocoding"
)

type fakeForward struct {
	place *geocoding.Place
	err   error
}

func (f fakeForward) Search(context.Context, string) (*geocoding.Place, error) { return f.place, f.err }

func TestSearch(t *testing.T) {
	boom := errors.New("upstream 503")
	cases := []struct {
		name   string
		query  string
		geo    fakeForward
		status SearchStatus
	}{
		{"found", "Indiranagar", fakeForward{place: &geocoding.Place{Lat: 12.97, Lng: 77.64, DisplayName: "Indiranagar"}}, SearchFound},
		{"not found", "xyzzy", fakeForward{err: geocoding.ErrNotFound}, SearchNotFound},
		{"failed", "Indiranagar", fakeForward{err: boom}, SearchFailed},
		{"empty query", "  ", fakeForward{}, SearchFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := NewSearcher(tc.geo).Search(context.Background(), tc.query)
			if res.Status != tc.status {
				t.Fatalf("status = %s, want %s", res.Status, tc.status)
			}
			switch res.Status {
			case SearchFound:
				if res.Lat != 12.97 || res.Address != "Indiranagar" {
					t.Errorf("res = %+v", res)
				}
			case SearchFailed:
				if res.Err == nil {
					t.Error("failed result without error")
				}
			}
		})
	}
}
