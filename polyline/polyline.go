// Package polyline reads and writes encoded polylines, the compact ascii
// representation of a path used by the routes and trips backend.
//
// Each coordinate is scaled by 10^precision, delta encoded against the
// previous point, zig-zag encoded and written as 5 bit groups offset by 63,
// least significant group first, with 0x20 flagging a continuation.
package polyline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/a-bouts/ride-server/latlon"
)

// DefaultPrecision is the number of decimals kept by the standard encoding
const DefaultPrecision = 5

// MaxPrecision is the largest number of decimals a coordinate can be scaled
// by without overflowing the encoded values
const MaxPrecision = 10

// shortest possible encoding of one pair is "??"
const minLength = 2

var (
	ErrInvalidEncoding  = errors.New("invalid encoding")
	ErrInvalidPrecision = errors.New("invalid precision")
)

// ValidPrecision reports whether precision is within 1..MaxPrecision
func ValidPrecision(precision int) bool {
	return 1 <= precision && precision <= MaxPrecision
}

// Decode decodes a path encoded with DefaultPrecision
func Decode(encoded string) ([]latlon.LatLon, error) {
	return DecodePrecision(encoded, DefaultPrecision)
}

// DecodePrecision decodes a path whose coordinates were scaled by 10^precision.
// Any malformed input returns ErrInvalidEncoding and no point.
func DecodePrecision(encoded string, precision int) ([]latlon.LatLon, error) {
	if !ValidPrecision(precision) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	if len(encoded) < minLength {
		return nil, fmt.Errorf("%w: %d characters", ErrInvalidEncoding, len(encoded))
	}

	factor := math.Pow10(precision)

	var points []latlon.LatLon
	var lat, lon int64

	for i := 0; i < len(encoded); {
		Δlat, next, err := readValue(encoded, i)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, fmt.Errorf("%w: latitude without longitude at offset %d", ErrInvalidEncoding, i)
		}
		Δlon, next, err := readValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next

		lat += Δlat
		lon += Δlon

		points = append(points, latlon.LatLon{
			Lat: float64(lat) / factor,
			Lon: float64(lon) / factor,
		})
	}

	return points, nil
}

func readValue(encoded string, i int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if i >= len(encoded) {
			return 0, i, fmt.Errorf("%w: truncated value at offset %d", ErrInvalidEncoding, i)
		}
		c := encoded[i]
		if c < 63 || c > 126 {
			return 0, i, fmt.Errorf("%w: unexpected character %q at offset %d", ErrInvalidEncoding, c, i)
		}
		b := int64(c) - 63
		i++

		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
		if shift > 60 {
			return 0, i, fmt.Errorf("%w: value overflow at offset %d", ErrInvalidEncoding, i)
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// EncodePrecision encodes points rounded to precision decimals.
// Decoding the result gives back the rounded coordinates.
func EncodePrecision(points []latlon.LatLon, precision int) (string, error) {
	if !ValidPrecision(precision) {
		return "", fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	if err := latlon.Validate(points); err != nil {
		return "", err
	}
	return encode(points, precision), nil
}

func encode(points []latlon.LatLon, precision int) string {
	factor := math.Pow10(precision)

	var b strings.Builder
	var lat, lon int64

	for _, p := range points {
		plat := int64(math.Round(p.Lat * factor))
		plon := int64(math.Round(p.Lon * factor))

		writeValue(&b, plat-lat)
		writeValue(&b, plon-lon)

		lat, lon = plat, plon
	}

	return b.String()
}

func writeValue(b *strings.Builder, v int64) {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		b.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	b.WriteByte(byte(u + 63))
}
