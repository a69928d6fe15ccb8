// Package geo provides great-circle distance and travel time estimation
// utilities used for itinerary construction and proximity checks.
package geo

import (
	"math"
	"time"
)

// EarthRadiusKm is the mean radius of the Earth in kilometers.
const EarthRadiusKm = 6371.0

// Point represents a geographic point with latitude and longitude.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point holds in-range coordinates.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// IsZero reports whether the point is the zero value. Destination records
// missing a location decode to the zero point and are skipped by callers.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// TransportMode identifies how a traveler moves between stops.
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModeTransit TransportMode = "transit"
	ModeDriving TransportMode = "driving"
)

// Speeds in km/h per transport mode. Unknown modes fall back to
// defaultSpeedKmh, a mixed walking/transit estimate.
const (
	walkingSpeedKmh = 5.0
	transitSpeedKmh = 15.0
	drivingSpeedKmh = 30.0
	defaultSpeedKmh = 10.0
)

// travelBuffer is a fixed allowance for transfers, parking and wayfinding
// added to every leg.
const travelBuffer = 5 * time.Minute

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// SpeedKmh returns the assumed speed for a transport mode.
func SpeedKmh(mode TransportMode) float64 {
	switch mode {
	case ModeWalking:
		return walkingSpeedKmh
	case ModeTransit:
		return transitSpeedKmh
	case ModeDriving:
		return drivingSpeedKmh
	default:
		return defaultSpeedKmh
	}
}

// EstimateTravelTime estimates door-to-door travel time between two points for
// the given mode: great-circle distance over the mode speed plus a fixed
// buffer, rounded up to the whole minute.
func EstimateTravelTime(from, to Point, mode TransportMode) time.Duration {
	distanceKm := Haversine(from, to)
	travel := time.Duration(distanceKm/SpeedKmh(mode)*float64(time.Hour)) + travelBuffer
	if rem := travel % time.Minute; rem != 0 {
		travel += time.Minute - rem
	}
	return travel
}
