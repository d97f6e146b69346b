package track

import (
	"errors"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/a-bouts/ride-server/latlon"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="ride" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Sidoarjo loop</name>
    <trkseg>
      <trkpt lat="-7.4198" lon="112.73023"></trkpt>
      <trkpt lat="-7.41978" lon="112.73019"></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="-7.41977" lon="112.73014"></trkpt>
    </trkseg>
  </trk>
  <trk>
    <name>Back home</name>
    <trkseg>
      <trkpt lat="-7.41964" lon="112.72971"></trkpt>
    </trkseg>
  </trk>
</gpx>`

const emptyGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="ride" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><name>nothing</name><trkseg></trkseg></trk>
</gpx>`

func TestParseTrackPointsEmpty(t *testing.T) {
	for _, tracks := range [][]Track{
		nil,
		{},
		{{Name: "empty"}},
		{{Name: "empty segment", Segments: []Segment{{}}}},
	} {
		points, err := ParseTrackPoints(tracks)
		if !errors.Is(err, ErrNoTrackData) {
			t.Errorf("ParseTrackPoints(%v) error = %v; want %v", tracks, err, ErrNoTrackData)
		}
		if points != nil {
			t.Errorf("ParseTrackPoints(%v) = %v; want nil", tracks, points)
		}
	}
}

func TestParseTrackPointsOrder(t *testing.T) {
	tracks := []Track{
		{Segments: []Segment{
			{Points: []Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
			{Points: []Point{{Lat: 3, Lon: 3}}},
		}},
		{Segments: []Segment{
			{Points: []Point{{Lat: 4, Lon: 4}}},
		}},
	}

	points, err := ParseTrackPoints(tracks)
	if err != nil {
		t.Fatalf("ParseTrackPoints(%v) error = %v", tracks, err)
	}
	if len(points) != 4 {
		t.Fatalf("len(ParseTrackPoints(%v)) = %d; want 4", tracks, len(points))
	}
	for i, p := range points {
		want := float64(i + 1)
		if p.Lat != want || p.Lon != want {
			t.Errorf("ParseTrackPoints(...)[%d] = %v; want {%f %f}", i, p, want, want)
		}
	}
}

func TestParseTrackPointsRadians(t *testing.T) {
	tracks := []Track{{Segments: []Segment{{Points: []Point{
		{Lat: math.Pi / 4, Lon: -math.Pi / 2, Unit: Radians},
		{Lat: 10, Lon: 20, Unit: Degrees},
	}}}}}

	points, err := ParseTrackPoints(tracks)
	if err != nil {
		t.Fatalf("ParseTrackPoints(%v) error = %v", tracks, err)
	}
	if math.Abs(points[0].Lat-45) > 1e-9 || math.Abs(points[0].Lon+90) > 1e-9 {
		t.Errorf("ParseTrackPoints(...)[0] = %v; want {45 -90}", points[0])
	}
	if points[1] != (latlon.LatLon{Lat: 10, Lon: 20}) {
		t.Errorf("ParseTrackPoints(...)[1] = %v; want {10 20}", points[1])
	}
}

func TestParse(t *testing.T) {
	points, err := Parse(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("Parse(sample) error = %v", err)
	}

	want := []latlon.LatLon{
		{Lat: -7.4198, Lon: 112.73023},
		{Lat: -7.41978, Lon: 112.73019},
		{Lat: -7.41977, Lon: 112.73014},
		{Lat: -7.41964, Lon: 112.72971},
	}
	if len(points) != len(want) {
		t.Fatalf("Parse(sample) = %v; want %v", points, want)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("Parse(sample)[%d] = %v; want %v", i, points[i], want[i])
		}
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(emptyGPX))
	if !errors.Is(err, ErrNoTrackData) {
		t.Errorf("Parse(empty) error = %v; want %v", err, ErrNoTrackData)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("<gpx><trk>"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse(malformed) error = %v; want %v", err, ErrMalformed)
	}
}

func TestParseDataWithEOF(t *testing.T) {
	points, err := Parse(iotest.DataErrReader(strings.NewReader(sampleGPX)))
	if err != nil {
		t.Fatalf("Parse(data with EOF) error = %v", err)
	}
	if len(points) != 4 {
		t.Errorf("len(Parse(data with EOF)) = %d; want 4", len(points))
	}

	points, err = Parse(iotest.OneByteReader(strings.NewReader(sampleGPX)))
	if err != nil {
		t.Fatalf("Parse(one byte reader) error = %v", err)
	}
	if len(points) != 4 {
		t.Errorf("len(Parse(one byte reader)) = %d; want 4", len(points))
	}
}

func TestParseTooLarge(t *testing.T) {
	defer func(max int64) { MaxSize = max }(MaxSize)
	MaxSize = int64(len(sampleGPX)) - 1

	_, err := Parse(strings.NewReader(sampleGPX))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Parse(%d bytes) error = %v; want %v", len(sampleGPX), err, ErrTooLarge)
	}

	MaxSize = int64(len(sampleGPX))
	if _, err := Parse(strings.NewReader(sampleGPX)); err != nil {
		t.Errorf("Parse(%d bytes) error = %v; want nil", len(sampleGPX), err)
	}
}

func TestRead(t *testing.T) {
	tracks, err := Read(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("Read(sample) error = %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("len(Read(sample)) = %d; want 2", len(tracks))
	}
	if tracks[0].Name != "Sidoarjo loop" || len(tracks[0].Segments) != 2 {
		t.Errorf("Read(sample)[0] = %v; want 'Sidoarjo loop' with 2 segments", tracks[0])
	}
	if tracks[1].Name != "Back home" {
		t.Errorf("Read(sample)[1].Name = %q; want 'Back home'", tracks[1].Name)
	}
}
