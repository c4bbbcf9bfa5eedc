// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"github.com/alihamzakhan/bazaargo-backend/pkg/types"
)

const (
	// EarthRadiusKM is the mean Earth radius used by the haversine formula.
	EarthRadiusKM = 6371.0

	// UnknownDistance is the sentinel attached to entries whose position is
	// absent or unparsable. It is large enough to sort such entries last;
	// missing coordinates are a degraded mode, not an error.
	UnknownDistance = 9999.0
)

// Distance returns the haversine great-circle distance in kilometers.
func Distance(a, b types.Coordinate) float64 {
	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng
	return 2 * EarthRadiusKM * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceOrUnknown behaves like Distance but resolves missing or invalid
// coordinates to UnknownDistance.
func DistanceOrUnknown(a, b *types.Coordinate) float64 {
	if a == nil || b == nil || !a.IsValid() || !b.IsValid() {
		return UnknownDistance
	}
	return Distance(*a, *b)
}
