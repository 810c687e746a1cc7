package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/airgrid/surface-backend-go/internal/models"
	"github.com/airgrid/surface-backend-go/internal/spatial"
)

// ErrUnknownMethod is returned when a caller names an interpolation method
// that does not exist.
var ErrUnknownMethod = errors.New("unknown interpolation method")

// Method selects an interpolation algorithm.
type Method string

const (
	MethodIDW         Method = "idw"
	MethodRBF         Method = "rbf"
	MethodTemporalIDW Method = "temporal-idw"
	MethodKriging     Method = "kriging-lite"
)

// ParseMethod resolves a method name, defaulting the empty string to IDW.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodIDW, nil
	case MethodIDW, MethodRBF, MethodTemporalIDW, MethodKriging:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

const (
	// DefaultPower is the IDW distance exponent.
	DefaultPower = 2.0

	// DefaultMaxNeighbors caps how many nearest observations IDW uses.
	DefaultMaxNeighbors = 20

	// DefaultEpsilon is the gaussian RBF kernel width in kilometers.
	DefaultEpsilon = 1.0

	// matchRadiusKm short-circuits estimation to the observation's own
	// value: below ~100 m the inverse-distance weight blows up.
	matchRadiusKm = 0.1

	// rbfMinObservations is the minimum set size for RBF; smaller sets
	// delegate to IDW.
	rbfMinObservations = 3

	// rbfDegenerateSum marks the kernel mass below which the target is too
	// far from every observation for RBF to be meaningful.
	rbfDegenerateSum = 1e-10

	// krigingMinObservations is the minimum set size for kriging-lite.
	krigingMinObservations = 5

	// krigingPower is the modified distance exponent of kriging-lite.
	krigingPower = 1.5

	// decayHorizonHours is the age at which a reading's temporal weight
	// would reach zero without the floor.
	decayHorizonHours = 72.0

	// decayFloor keeps stale readings down-weighted but never zeroed.
	decayFloor = 0.3

	// noTimestampWeight is the temporal weight for readings without a
	// timestamp.
	noTimestampWeight = 0.7
)

// Estimator computes scalar estimates at a target coordinate from weighted,
// irregularly placed observations. All methods return (value, ok); ok is
// false when no observation was usable (empty set or zero total weight),
// which is distinct from a zero-valued estimate.
type Estimator struct {
	Power        float64
	MaxNeighbors int
	Epsilon      float64
}

// NewEstimator creates an estimator with the default parameters.
func NewEstimator() *Estimator {
	return &Estimator{
		Power:        DefaultPower,
		MaxNeighbors: DefaultMaxNeighbors,
		Epsilon:      DefaultEpsilon,
	}
}

// Estimate dispatches to the named method. now is unix seconds and only
// consulted by temporal IDW.
func (e *Estimator) Estimate(method Method, lat, lon float64, observations []models.Observation, now int64) (float64, bool, error) {
	switch method {
	case MethodIDW, "":
		v, ok := e.IDW(lat, lon, observations)
		return v, ok, nil
	case MethodRBF:
		v, ok := e.RBF(lat, lon, observations)
		return v, ok, nil
	case MethodTemporalIDW:
		v, ok := e.TemporalIDW(lat, lon, observations, now)
		return v, ok, nil
	case MethodKriging:
		v, ok := e.Kriging(lat, lon, observations)
		return v, ok, nil
	}
	return 0, false, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

// neighbor pairs an observation's value and weight with its distance from
// the target.
type neighbor struct {
	value  float64
	weight float64
	dist   float64
}

func distances(lat, lon float64, observations []models.Observation) []neighbor {
	neighbors := make([]neighbor, len(observations))
	for i, o := range observations {
		neighbors[i] = neighbor{
			value:  o.Value,
			weight: o.Weight,
			dist:   spatial.DistanceKm(lat, lon, o.Lat, o.Lon),
		}
	}
	return neighbors
}

// IDW is inverse distance weighting: a weighted average of the nearest
// observations with weights obs.weight / dist^power.
func (e *Estimator) IDW(lat, lon float64, observations []models.Observation) (float64, bool) {
	if len(observations) == 0 {
		return 0, false
	}

	neighbors := distances(lat, lon, observations)
	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].dist < neighbors[j].dist
	})
	if len(neighbors) > e.MaxNeighbors {
		neighbors = neighbors[:e.MaxNeighbors]
	}

	if neighbors[0].dist < matchRadiusKm {
		return neighbors[0].value, true
	}

	var weightedSum, totalWeight float64
	for _, n := range neighbors {
		w := n.weight / math.Pow(n.dist, e.Power)
		weightedSum += w * n.value
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0, false
	}
	return weightedSum / totalWeight, true
}

// RBF is gaussian radial basis interpolation, smoother than IDW. Sets
// smaller than three observations, a degenerate kernel mass, or a
// non-finite result all fall back to IDW.
func (e *Estimator) RBF(lat, lon float64, observations []models.Observation) (float64, bool) {
	if len(observations) < rbfMinObservations {
		return e.IDW(lat, lon, observations)
	}

	neighbors := distances(lat, lon, observations)

	nearest := neighbors[0]
	for _, n := range neighbors[1:] {
		if n.dist < nearest.dist {
			nearest = n
		}
	}
	if nearest.dist < matchRadiusKm {
		return nearest.value, true
	}

	var weightedSum, totalWeight float64
	for _, n := range neighbors {
		kernel := math.Exp(-(n.dist * n.dist) / (2 * e.Epsilon * e.Epsilon))
		combined := kernel * n.weight
		weightedSum += combined * n.value
		totalWeight += combined
	}

	if totalWeight < rbfDegenerateSum {
		return e.IDW(lat, lon, observations)
	}

	v := weightedSum / totalWeight
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return e.IDW(lat, lon, observations)
	}
	return v, true
}

// TemporalIDW down-weights stale readings before delegating to IDW. The
// multiplier decays linearly to the 0.3 floor over 72 hours; readings
// without a timestamp get a fixed 0.7.
func (e *Estimator) TemporalIDW(lat, lon float64, observations []models.Observation, now int64) (float64, bool) {
	if len(observations) == 0 {
		return 0, false
	}

	decayed := make([]models.Observation, len(observations))
	for i, o := range observations {
		o.Weight *= temporalWeight(o.Timestamp, now)
		decayed[i] = o
	}
	return e.IDW(lat, lon, decayed)
}

func temporalWeight(timestamp, now int64) float64 {
	if timestamp == 0 {
		return noTimestampWeight
	}
	ageHours := float64(now-timestamp) / 3600
	return math.Max(decayFloor, 1-ageHours/decayHorizonHours)
}

// Kriging is the simplified variogram-weighted estimate: inverse distance
// with a modified 1.5 exponent and no observation weights. It is not true
// kriging; the experimental variogram (see Semivariogram) only gates whether
// the method runs at all. Sets smaller than five observations, or sets with
// no pair of observations at positive mutual distance, delegate to IDW.
func (e *Estimator) Kriging(lat, lon float64, observations []models.Observation) (float64, bool) {
	if len(observations) < krigingMinObservations {
		return e.IDW(lat, lon, observations)
	}

	if !hasSeparatedPair(observations) {
		return e.IDW(lat, lon, observations)
	}

	var weightedSum, totalWeight float64
	for _, o := range observations {
		d := spatial.DistanceKm(lat, lon, o.Lat, o.Lon)
		if d < matchRadiusKm {
			return o.Value, true
		}
		w := 1 / math.Pow(d, krigingPower)
		weightedSum += w * o.Value
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0, false
	}
	return weightedSum / totalWeight, true
}

// hasSeparatedPair reports whether any two observations sit at positive
// mutual distance. When none do, the variogram has no support.
func hasSeparatedPair(observations []models.Observation) bool {
	for i := range observations {
		for j := i + 1; j < len(observations); j++ {
			if spatial.DistanceKm(observations[i].Lat, observations[i].Lon,
				observations[j].Lat, observations[j].Lon) > 0 {
				return true
			}
		}
	}
	return false
}
