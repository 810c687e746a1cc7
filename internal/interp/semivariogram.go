package interp

import (
	"github.com/airgrid/surface-backend-go/internal/models"
	"github.com/airgrid/surface-backend-go/internal/spatial"
)

// SemivariancePair is one point of the experimental variogram cloud: the
// distance between two observations and half their squared value difference.
type SemivariancePair struct {
	DistanceKm   float64 `json:"distance_km"`
	Semivariance float64 `json:"semivariance"`
}

// Semivariogram computes the experimental semivariance for every observation
// pair at positive mutual distance. Diagnostic only: the kriging-lite
// estimate does not consume it.
func Semivariogram(observations []models.Observation) []SemivariancePair {
	var pairs []SemivariancePair
	for i := range observations {
		for j := i + 1; j < len(observations); j++ {
			d := spatial.DistanceKm(observations[i].Lat, observations[i].Lon,
				observations[j].Lat, observations[j].Lon)
			if d <= 0 {
				continue
			}
			diff := observations[i].Value - observations[j].Value
			pairs = append(pairs, SemivariancePair{
				DistanceKm:   d,
				Semivariance: 0.5 * diff * diff,
			})
		}
	}
	return pairs
}
