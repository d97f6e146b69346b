package track

import (
	"errors"
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/a-bouts/ride-server/latlon"
)

var (
	ErrNoTrackData = errors.New("no track data")
	ErrMalformed   = errors.New("malformed track file")
	ErrTooLarge    = errors.New("track file too large")
)

// MaxSize is the largest gpx file read, in bytes
var MaxSize int64 = 20 << 20

// Unit is the angular unit of a track point
type Unit uint8

const (
	Degrees Unit = iota
	Radians
)

type Point struct {
	Lat  float64
	Lon  float64
	Unit Unit
}

type Segment struct {
	Points []Point
}

type Track struct {
	Name     string
	Segments []Segment
}

func (p Point) latLon() latlon.LatLon {
	if p.Unit == Radians {
		return latlon.LatLon{Lat: latlon.ToDegrees(p.Lat), Lon: latlon.ToDegrees(p.Lon)}
	}
	return latlon.LatLon{Lat: p.Lat, Lon: p.Lon}
}

// ParseTrackPoints flattens tracks into a single waypoint sequence in
// traversal order, in degrees
func ParseTrackPoints(tracks []Track) ([]latlon.LatLon, error) {
	var points []latlon.LatLon
	for _, t := range tracks {
		for _, s := range t.Segments {
			for _, p := range s.Points {
				points = append(points, p.latLon())
			}
		}
	}

	if len(points) == 0 {
		return nil, ErrNoTrackData
	}
	return points, nil
}

// FromGPX adapts a parsed gpx document
func FromGPX(g *gpx.GPX) []Track {
	tracks := make([]Track, 0, len(g.Tracks))
	for _, t := range g.Tracks {
		track := Track{Name: t.Name, Segments: make([]Segment, 0, len(t.Segments))}
		for _, s := range t.Segments {
			segment := Segment{Points: make([]Point, 0, len(s.Points))}
			for _, p := range s.Points {
				segment.Points = append(segment.Points, Point{Lat: p.Latitude, Lon: p.Longitude, Unit: Degrees})
			}
			track.Segments = append(track.Segments, segment)
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// readAll reads r up to MaxSize bytes
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read track: %w", err)
	}
	if int64(len(data)) > MaxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxSize)
	}
	return data, nil
}

func decode(data []byte) ([]Track, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return FromGPX(g), nil
}

// Read reads the tracks of a gpx file
func Read(r io.Reader) ([]Track, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Parse reads the waypoints of a gpx file
func Parse(r io.Reader) ([]latlon.LatLon, error) {
	tracks, err := Read(r)
	if err != nil {
		return nil, err
	}
	return ParseTrackPoints(tracks)
}
