package geo

import (
	"errors"

	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusKm is Earth's mean radius.
	EarthRadiusKm = 6371.0

	// DefaultSpeedKmh is the assumed driving speed used for duration
	// estimates when no routing provider data is available.
	DefaultSpeedKmh = 30.0
)

var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// Valid reports whether the coordinate is within lat/lng range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// EstimateDuration converts a distance into minutes of travel at the
// given speed in km/h.
func EstimateDuration(distanceKm, speedKmh float64) float64 {
	return distanceKm / speedKmh * 60
}
