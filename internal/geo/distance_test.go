package geo

import (
	"math"
	"testing"
)

func TestHaversine_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{12.9716, 77.5946},
		{0, 0},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		if d := Haversine(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Haversine(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"bangalore to mysore", 12.9716, 77.5946, 12.2958, 76.6394},
		{"across the equator", 1.5, 10, -1.5, 12},
		{"across the antimeridian", 10, 179.5, 10, -179.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			ba := Haversine(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("asymmetric distance: %v vs %v", ab, ba)
			}
			if ab < 0 {
				t.Errorf("negative distance %v", ab)
			}
		})
	}
}

func TestHaversine_FiveKilometresNorth(t *testing.T) {
	d := Haversine(12.9716, 77.5946, 12.9716+0.045, 77.5946)
	if math.Abs(d-5.0) > 0.1 {
		t.Errorf("Haversine() = %.4f km, want 5 ± 0.1", d)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.234, 1.23},
		{1.235001, 1.24},
		{4.0, 4.0},
		{0.004, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
