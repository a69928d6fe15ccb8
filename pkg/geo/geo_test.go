package geo

import (
	"math"
	"testing"
	"time"
)

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		from       Point
		to         Point
		expectedKm float64
		tolerance  float64
	}{
		{
			name:       "same point",
			from:       Point{Lat: 40.7128, Lng: -74.0060},
			to:         Point{Lat: 40.7128, Lng: -74.0060},
			expectedKm: 0,
			tolerance:  0.001,
		},
		{
			name:       "Times Square to Central Park",
			from:       Point{Lat: 40.7580, Lng: -73.9855},
			to:         Point{Lat: 40.7829, Lng: -73.9654},
			expectedKm: 3.2,
			tolerance:  0.3,
		},
		{
			name:       "Paris to London",
			from:       Point{Lat: 48.8566, Lng: 2.3522},
			to:         Point{Lat: 51.5074, Lng: -0.1278},
			expectedKm: 343.5,
			tolerance:  2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.from, tt.to)
			if math.Abs(got-tt.expectedKm) > tt.tolerance {
				t.Errorf("expected ~%.1f km, got %.3f km", tt.expectedKm, got)
			}
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Point{Lat: 48.8566, Lng: 2.3522}
	b := Point{Lat: 41.9028, Lng: 12.4964}

	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestEstimateTravelTime_ModeSpeeds(t *testing.T) {
	// Roughly 5 km apart along a meridian.
	from := Point{Lat: 40.0, Lng: -74.0}
	to := Point{Lat: 40.045, Lng: -74.0}

	tests := []struct {
		mode    TransportMode
		minWant time.Duration
		maxWant time.Duration
	}{
		{ModeWalking, 55 * time.Minute, 70 * time.Minute},
		{ModeTransit, 20 * time.Minute, 30 * time.Minute},
		{ModeDriving, 10 * time.Minute, 20 * time.Minute},
		{TransportMode("scooter"), 30 * time.Minute, 40 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := EstimateTravelTime(from, to, tt.mode)
			if got < tt.minWant || got > tt.maxWant {
				t.Errorf("expected between %v and %v, got %v", tt.minWant, tt.maxWant, got)
			}
		})
	}
}

func TestEstimateTravelTime_WholeMinutes(t *testing.T) {
	from := Point{Lat: 40.7580, Lng: -73.9855}
	to := Point{Lat: 40.7829, Lng: -73.9654}

	got := EstimateTravelTime(from, to, ModeWalking)
	if got%time.Minute != 0 {
		t.Errorf("expected whole-minute estimate, got %v", got)
	}
}

func TestEstimateTravelTime_SamePointIsBufferOnly(t *testing.T) {
	p := Point{Lat: 40.0, Lng: -74.0}

	if got := EstimateTravelTime(p, p, ModeDriving); got != 5*time.Minute {
		t.Errorf("expected 5m buffer for zero distance, got %v", got)
	}
}

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"valid", Point{Lat: 40.7, Lng: -74.0}, true},
		{"lat too high", Point{Lat: 90.1, Lng: 0}, false},
		{"lat too low", Point{Lat: -90.1, Lng: 0}, false},
		{"lng too high", Point{Lat: 0, Lng: 180.1}, false},
		{"lng too low", Point{Lat: 0, Lng: -180.1}, false},
		{"boundary", Point{Lat: 90, Lng: -180}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.Valid(); got != tt.want {
				t.Errorf("Valid(%+v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}
