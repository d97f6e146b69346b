package latlon

import (
	"errors"
	"testing"
)

func TestNewBoundsEmpty(t *testing.T) {
	_, err := NewBounds(nil)
	if !errors.Is(err, ErrUndefinedRegion) {
		t.Errorf("NewBounds(nil) error = %v; want %v", err, ErrUndefinedRegion)
	}

	_, err = NewBounds([]LatLon{})
	if !errors.Is(err, ErrUndefinedRegion) {
		t.Errorf("NewBounds([]) error = %v; want %v", err, ErrUndefinedRegion)
	}
}

func TestNewBoundsSinglePoint(t *testing.T) {
	p := LatLon{Lat: 1.0, Lon: 2.0}
	b, err := NewBounds([]LatLon{p})
	if err != nil {
		t.Fatalf("NewBounds([%v]) error = %v", p, err)
	}
	if b.SouthWest != p || b.NorthEast != p {
		t.Errorf("NewBounds([%v]) = %v; want southwest == northeast == %v", p, b, p)
	}
}

func TestNewBounds(t *testing.T) {
	points := []LatLon{
		{Lat: 1.0, Lon: 2.0},
		{Lat: 3.0, Lon: -4.0},
		{Lat: -5.0, Lon: 6.0},
	}
	b, err := NewBounds(points)
	if err != nil {
		t.Fatalf("NewBounds(%v) error = %v", points, err)
	}
	if want := (LatLon{Lat: -5.0, Lon: -4.0}); b.SouthWest != want {
		t.Errorf("NewBounds(%v).SouthWest = %v; want %v", points, b.SouthWest, want)
	}
	if want := (LatLon{Lat: 3.0, Lon: 6.0}); b.NorthEast != want {
		t.Errorf("NewBounds(%v).NorthEast = %v; want %v", points, b.NorthEast, want)
	}
}

func TestBoundsPadAndCenter(t *testing.T) {
	b := Bounds{SouthWest: LatLon{Lat: -1, Lon: -2}, NorthEast: LatLon{Lat: 3, Lon: 4}}

	c := b.Center()
	if c != (LatLon{Lat: 1, Lon: 1}) {
		t.Errorf("%v.Center() = %v; want {1 1}", b, c)
	}

	p := b.Pad(0.5)
	want := Bounds{SouthWest: LatLon{Lat: -1.5, Lon: -2.5}, NorthEast: LatLon{Lat: 3.5, Lon: 4.5}}
	if p != want {
		t.Errorf("%v.Pad(0.5) = %v; want %v", b, p, want)
	}

	edge := Bounds{SouthWest: LatLon{Lat: -89.9, Lon: -179.9}, NorthEast: LatLon{Lat: 89.9, Lon: 179.9}}.Pad(1)
	wantEdge := Bounds{SouthWest: LatLon{Lat: -90, Lon: -180}, NorthEast: LatLon{Lat: 90, Lon: 180}}
	if edge != wantEdge {
		t.Errorf("Pad(1) near the poles = %v; want %v", edge, wantEdge)
	}
}
