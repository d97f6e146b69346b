package latlon

import (
	"errors"
	"math"
)

// ErrUndefinedRegion is returned when a region is requested for no points
var ErrUndefinedRegion = errors.New("undefined region")

// Bounds is the axis aligned rectangle enclosing a set of points
type Bounds struct {
	SouthWest LatLon `json:"southwest"`
	NorthEast LatLon `json:"northeast"`
}

// NewBounds computes the minimal region containing every point.
// A single point gives a zero area region.
func NewBounds(points []LatLon) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrUndefinedRegion
	}

	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, nil
}

// Extend returns the smallest region containing b and p
func (b Bounds) Extend(p LatLon) Bounds {
	b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
	b.SouthWest.Lon = math.Min(b.SouthWest.Lon, p.Lon)
	b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
	b.NorthEast.Lon = math.Max(b.NorthEast.Lon, p.Lon)
	return b
}

// Pad grows the region by deg decimal degrees on every side, within the
// valid latitude and longitude ranges
func (b Bounds) Pad(deg float64) Bounds {
	b.SouthWest.Lat = math.Max(b.SouthWest.Lat-deg, -90)
	b.SouthWest.Lon = math.Max(b.SouthWest.Lon-deg, -180)
	b.NorthEast.Lat = math.Min(b.NorthEast.Lat+deg, 90)
	b.NorthEast.Lon = math.Min(b.NorthEast.Lon+deg, 180)
	return b
}

func (b Bounds) Center() LatLon {
	return LatLon{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lon: (b.SouthWest.Lon + b.NorthEast.Lon) / 2,
	}
}
