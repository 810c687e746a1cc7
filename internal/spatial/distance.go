package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// KmPerDegreeLat is the approximate meridian arc length of one degree
	// of latitude.
	KmPerDegreeLat = 111.0
)

// DistanceKm calculates the great-circle distance between two points in
// kilometers. The s2 angle between two LatLngs is the haversine angle, so
// this is equivalent to the classic haversine formula with R = 6371 km.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// DistanceMeters calculates the great-circle distance in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKm(lat1, lon1, lat2, lon2) * 1000
}
