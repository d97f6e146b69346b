package route

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"

	"github.com/a-bouts/ride-server/latlon"
	"github.com/a-bouts/ride-server/polyline"
	"github.com/a-bouts/ride-server/track"
)

// Geometry is what a map needs to draw a route or a trip: the path, the
// region to fit and the length of the path in meters
type Geometry struct {
	Waypoints []latlon.LatLon `json:"waypoints"`
	Bounds    latlon.Bounds   `json:"bounds"`
	Center    latlon.LatLon   `json:"center"`
	Distance  float64         `json:"distance"`
}

var hav = latlon.LatLonHaversine{}

// New returns latlon.ErrUndefinedRegion when there is no waypoint and
// latlon.ErrInvalidCoordinate when one is out of range
func New(waypoints []latlon.LatLon) (Geometry, error) {
	if err := latlon.Validate(waypoints); err != nil {
		return Geometry{}, err
	}
	bounds, err := latlon.NewBounds(waypoints)
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{
		Waypoints: waypoints,
		Bounds:    bounds,
		Center:    bounds.Center(),
		Distance:  hav.PathLength(waypoints),
	}, nil
}

func FromPolyline(encoded string, precision int) (Geometry, error) {
	waypoints, err := polyline.DecodePrecision(encoded, precision)
	if err != nil {
		return Geometry{}, err
	}
	return New(waypoints)
}

func FromTracks(tracks []track.Track) (Geometry, error) {
	waypoints, err := track.ParseTrackPoints(tracks)
	if err != nil {
		return Geometry{}, err
	}
	return New(waypoints)
}

// Polyline encodes the waypoints with precision decimals
func (g Geometry) Polyline(precision int) (string, error) {
	return polyline.EncodePrecision(g.Waypoints, precision)
}

// Pad leaves a margin of deg decimal degrees around the path in the region
// to fit
func (g Geometry) Pad(deg float64) Geometry {
	if deg <= 0 {
		return g
	}
	g.Bounds = g.Bounds.Pad(deg)
	return g
}

func (g Geometry) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(g.Waypoints))
	for _, w := range g.Waypoints {
		ls = append(ls, orb.Point{w.Lon, w.Lat})
	}
	return ls
}

// Simplify drops the waypoints closer than tolerance degrees to the
// simplified path. Both ends are kept.
func (g Geometry) Simplify(tolerance float64) Geometry {
	if tolerance <= 0 || len(g.Waypoints) <= 2 {
		return g
	}

	ls := simplify.DouglasPeucker(tolerance).LineString(g.LineString())

	waypoints := make([]latlon.LatLon, 0, len(ls))
	for _, p := range ls {
		waypoints = append(waypoints, latlon.LatLon{Lat: p.Lat(), Lon: p.Lon()})
	}

	s, err := New(waypoints)
	if err != nil {
		return g
	}
	return s
}

// FeatureCollection renders the path as a geojson line with its bounding box
func (g Geometry) FeatureCollection(properties map[string]interface{}) *geojson.FeatureCollection {
	f := geojson.NewFeature(g.LineString())
	for k, v := range properties {
		f.Properties[k] = v
	}
	f.Properties["distance"] = g.Distance

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	fc.BBox = geojson.NewBBox(orb.Bound{
		Min: orb.Point{g.Bounds.SouthWest.Lon, g.Bounds.SouthWest.Lat},
		Max: orb.Point{g.Bounds.NorthEast.Lon, g.Bounds.NorthEast.Lat},
	})

	return fc
}
