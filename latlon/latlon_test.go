package latlon

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceTo(t *testing.T) {
	p1 := LatLon{Lat: 51.127, Lon: 1.338}
	p2 := LatLon{Lat: 50.964, Lon: 1.853}
	d := LatLonHaversine{}.DistanceTo(p1, p2)
	if math.Round(d) != 40308 {
		t.Errorf("{%f,%f}.distanceTo({%f,%f}) = %f; want 40308", p1.Lat, p1.Lon, p2.Lat, p2.Lon, d)
	}
}

func TestPathLength(t *testing.T) {
	hav := LatLonHaversine{}
	if d := hav.PathLength(nil); d != 0 {
		t.Errorf("PathLength(nil) = %f; want 0", d)
	}
	if d := hav.PathLength([]LatLon{{Lat: 1, Lon: 2}}); d != 0 {
		t.Errorf("PathLength(single) = %f; want 0", d)
	}

	points := []LatLon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}
	d := hav.PathLength(points)
	if math.Round(d) != math.Round(2*111194.92664455874) {
		t.Errorf("PathLength(%v) = %f; want 222390", points, d)
	}
}

func TestToDegrees(t *testing.T) {
	if d := ToDegrees(math.Pi / 2); math.Abs(d-90) > 1e-12 {
		t.Errorf("ToDegrees(π/2) = %f; want 90", d)
	}
}

func TestValid(t *testing.T) {
	for _, p := range []LatLon{
		{Lat: 0, Lon: 0},
		{Lat: 90, Lon: 180},
		{Lat: -90, Lon: -180},
		{Lat: -7.4198, Lon: 112.73023},
	} {
		if !p.Valid() {
			t.Errorf("%v.Valid() = false; want true", p)
		}
	}

	for _, p := range []LatLon{
		{Lat: 1e308, Lon: 0},
		{Lat: 90.00001, Lon: 0},
		{Lat: 0, Lon: -180.5},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
		{Lat: math.Inf(-1), Lon: 0},
	} {
		if p.Valid() {
			t.Errorf("%v.Valid() = true; want false", p)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]LatLon{{Lat: 1, Lon: 2}}); err != nil {
		t.Errorf("Validate(valid) error = %v; want nil", err)
	}
	if err := Validate(nil); err != nil {
		t.Errorf("Validate(nil) error = %v; want nil", err)
	}

	err := Validate([]LatLon{{Lat: 1, Lon: 2}, {Lat: 1e308, Lon: 0}})
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Validate({1e308 0}) error = %v; want %v", err, ErrInvalidCoordinate)
	}
}
