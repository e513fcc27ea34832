package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

func TestDistanceKm(t *testing.T) {
	delhi := domain.GeoPoint{Latitude: 28.6139, Longitude: 77.2090}
	mumbai := domain.GeoPoint{Latitude: 19.0760, Longitude: 72.8777}

	assert.InDelta(t, 1153, DistanceKm(delhi, mumbai), 10)
	assert.InDelta(t, 0, DistanceKm(delhi, delhi), 1e-9)
	assert.InDelta(t, DistanceKm(delhi, mumbai), DistanceKm(mumbai, delhi), 1e-9)
}

func TestValidPoint(t *testing.T) {
	assert.True(t, ValidPoint(domain.GeoPoint{Latitude: -90, Longitude: 180}))
	assert.False(t, ValidPoint(domain.GeoPoint{Latitude: 91}))
	assert.False(t, ValidPoint(domain.GeoPoint{Longitude: -181}))
}
