// Package geo holds great-circle helpers for nearby complaint search.
package geo

import (
	"math"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

const earthRadiusKm = 6371.0

// DefaultRadiusKm is used when a nearby search names no radius.
const DefaultRadiusKm = 5.0

// DistanceKm returns the haversine distance between two points.
func DistanceKm(a, b domain.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(math.Min(1, h)))
}

// ValidPoint reports whether coordinates are within range.
func ValidPoint(p domain.GeoPoint) bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
