package latlon

import (
	"errors"
	"fmt"
	"math"
)

const π = math.Pi

// R is the mean earth radius in meters
const R = 6371e3

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// LatLon is a geographic point in degrees
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid is false for non finite values, latitudes outside ±90 and
// longitudes outside ±180
func (p LatLon) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return -90 <= p.Lat && p.Lat <= 90 && -180 <= p.Lon && p.Lon <= 180
}

// Validate returns ErrInvalidCoordinate for the first invalid point
func Validate(points []LatLon) error {
	for i, p := range points {
		if !p.Valid() {
			return fmt.Errorf("%w: waypoint %d {%v,%v}", ErrInvalidCoordinate, i, p.Lat, p.Lon)
		}
	}
	return nil
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

// ToDegrees converts an angle in radians to degrees
func ToDegrees(a float64) float64 {
	return toDegrees(a)
}
