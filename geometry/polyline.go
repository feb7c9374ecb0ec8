package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Polyline precisions used by the engine.
const (
	Precision5 = 1e5
	Precision6 = 1e6
)

// DecodePolyline decodes an encoded polyline of the given precision.
// Points are (longitude, latitude); the encoding stores latitude first.
func DecodePolyline(encoded string, precision float64) (orb.LineString, error) {
	if encoded == "" {
		return nil, nil
	}
	var (
		ls       orb.LineString
		lat, lon int
		index    int
	)
	for index < len(encoded) {
		dlat, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		dlon, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		index = next
		lat += dlat
		lon += dlon
		ls = append(ls, orb.Point{float64(lon) / precision, float64(lat) / precision})
	}
	return ls, nil
}

// decodeValue reads one zigzag varint starting at index.
func decodeValue(encoded string, index int) (int, int, error) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, fmt.Errorf("polyline truncated at byte %d", index)
		}
		b := int(encoded[index]) - 63
		if b < 0 || b > 0x3f {
			return 0, index, fmt.Errorf("polyline: invalid byte %q at %d", encoded[index], index)
		}
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
		if shift > 60 {
			return 0, index, fmt.Errorf("polyline: value overflows at byte %d", index)
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}

// EncodePolyline encodes ls with the given precision.
func EncodePolyline(ls orb.LineString, precision float64) string {
	if len(ls) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(ls)*6)
	prevLat, prevLon := 0, 0
	for _, p := range ls {
		lat := int(math.Round(p.Lat() * precision))
		lon := int(math.Round(p.Lon() * precision))
		buf = encodeValue(buf, lat-prevLat)
		buf = encodeValue(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(buf)
}

func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}
	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}
