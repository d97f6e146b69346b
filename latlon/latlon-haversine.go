package latlon

import "math"

type LatLonHaversine struct{}

func (LatLonHaversine) DistanceTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * δ
}

// PathLength sums the great-circle length in meters of the path drawn by points
func (hav LatLonHaversine) PathLength(points []LatLon) float64 {
	d := 0.0
	for i := 1; i < len(points); i++ {
		d += hav.DistanceTo(points[i-1], points[i])
	}
	return d
}
