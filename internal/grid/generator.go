package grid

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/airgrid/surface-backend-go/internal/models"
	"github.com/airgrid/surface-backend-go/internal/spatial"
)

// ErrUnknownTier is returned when a region has no step count configured for
// the requested tier.
var ErrUnknownTier = errors.New("unknown density tier")

const (
	// hotspotPointsPerWeight scales a hotspot's weight into extra samples.
	hotspotPointsPerWeight = 150

	// hotspotJitterSpanDeg is the full span of the hotspot jitter: offsets
	// are uniform in [-0.025, +0.025) degrees per axis, roughly a 3 km
	// radius.
	hotspotJitterSpanDeg = 0.05

	// clusterMinObservations marks a 0.1°x0.1° bucket as a sensor cluster.
	clusterMinObservations = 2

	// clusterPointsPerObservation scales cluster size into extra samples.
	clusterPointsPerObservation = 20

	// clusterJitterSpanDeg spreads cluster samples uniformly in
	// [-0.1, +0.1) degrees per axis around the bucket coordinate.
	clusterJitterSpanDeg = 0.2

	// boundedStepScale converts angular point density into a step count for
	// Bounded. Fitted against the original degree ranges; changing it
	// changes every bounded grid.
	boundedStepScale = 100
)

// Rand is the source of jitter randomness. *math/rand.Rand satisfies it;
// tests inject a seeded source to make grids reproducible.
type Rand interface {
	Float64() float64
}

// Generator produces the query points a prediction surface is evaluated at.
// All methods are side-effect free apart from draws on the random source.
type Generator struct {
	rng Rand
}

// NewGenerator creates a generator with the given random source, or a
// time-seeded one when rng is nil.
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// steps resolves the per-region step count for a tier.
func steps(region models.Region, tier models.Tier) (int, error) {
	n, ok := region.GridDensity[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %q for region %q", ErrUnknownTier, tier, region.Name)
	}
	return n, nil
}

// Uniform generates a steps x steps grid over the region. The construction
// is half-open: the lat_max/lon_max edges are never emitted. Downstream
// density and statistics calculations assume this.
func (g *Generator) Uniform(region models.Region, tier models.Tier) ([]models.GridPoint, error) {
	n, err := steps(region, tier)
	if err != nil {
		return nil, err
	}
	return uniformGrid(region.Bounds, n), nil
}

func uniformGrid(b models.RegionBounds, steps int) []models.GridPoint {
	latStep := (b.LatMax - b.LatMin) / float64(steps)
	lonStep := (b.LonMax - b.LonMin) / float64(steps)

	points := make([]models.GridPoint, 0, steps*steps)
	for i := 0; i < steps; i++ {
		lat := b.LatMin + float64(i)*latStep
		for j := 0; j < steps; j++ {
			lon := b.LonMin + float64(j)*lonStep
			points = append(points, models.NewGridPoint(lat, lon))
		}
	}
	return points
}

// Adaptive generates the uniform grid plus extra samples around each hotspot
// when enhance is set. Each hotspot contributes floor(150 * weight) jittered
// candidates; candidates falling outside the region bounds are discarded
// without retry.
func (g *Generator) Adaptive(region models.Region, tier models.Tier, enhance bool) ([]models.GridPoint, error) {
	points, err := g.Uniform(region, tier)
	if err != nil {
		return nil, err
	}

	if !enhance || len(region.Hotspots) == 0 {
		return points, nil
	}

	for _, h := range region.Hotspots {
		extra := int(hotspotPointsPerWeight * h.Weight)
		for k := 0; k < extra; k++ {
			lat := h.Lat + (g.rng.Float64()-0.5)*hotspotJitterSpanDeg
			lon := h.Lon + (g.rng.Float64()-0.5)*hotspotJitterSpanDeg
			if region.Bounds.Contains(lat, lon) {
				points = append(points, models.NewGridPoint(lat, lon))
			}
		}
	}
	return points, nil
}

// DensityWeighted generates the adaptive grid plus extra samples where
// observations cluster. Observations are bucketed into 0.1°x0.1° cells; each
// cell holding at least two observations contributes count * 20 jittered
// candidates around the cell coordinate. The result is deduplicated by exact
// rounded coordinate; callers must not rely on output order.
func (g *Generator) DensityWeighted(region models.Region, tier models.Tier, observations []models.Observation) ([]models.GridPoint, error) {
	points, err := g.Adaptive(region, tier, true)
	if err != nil {
		return nil, err
	}

	if len(observations) == 0 {
		return points, nil
	}

	type cell struct {
		lat, lon float64
	}
	counts := make(map[cell]int)
	for _, o := range observations {
		counts[cell{round1(o.Lat), round1(o.Lon)}]++
	}

	for c, count := range counts {
		if count < clusterMinObservations {
			continue
		}
		extra := count * clusterPointsPerObservation
		for k := 0; k < extra; k++ {
			lat := c.lat + (g.rng.Float64()-0.5)*clusterJitterSpanDeg
			lon := c.lon + (g.rng.Float64()-0.5)*clusterJitterSpanDeg
			if region.Bounds.Contains(lat, lon) {
				points = append(points, models.NewGridPoint(lat, lon))
			}
		}
	}

	return dedupe(points), nil
}

// Bounded generates a uniform grid whose step count is derived from the
// region's angular area so that steps^2 stays near maxPoints under a fixed
// compute budget.
func (g *Generator) Bounded(region models.Region, maxPoints int) []models.GridPoint {
	b := region.Bounds
	area := (b.LatMax - b.LatMin) * (b.LonMax - b.LonMin)
	n := int(math.Sqrt(float64(maxPoints)/area) * boundedStepScale)
	return uniformGrid(b, n)
}

// Statistics describes the resolution of a uniform grid for diagnostics.
// The interpolation engine must not depend on it.
type Statistics struct {
	Region     string      `json:"region"`
	Tier       models.Tier `json:"tier"`
	GridPoints int         `json:"grid_points"`
	Resolution Resolution  `json:"resolution_km"`
}

// Resolution is the linear step size of the grid in kilometers.
type Resolution struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Avg float64 `json:"avg"`
}

// Statistics reports point count and linear resolution for the region/tier
// combination. Longitude resolution accounts for meridian convergence at the
// region's mean latitude.
func (g *Generator) Statistics(region models.Region, tier models.Tier) (Statistics, error) {
	n, err := steps(region, tier)
	if err != nil {
		return Statistics{}, err
	}

	b := region.Bounds
	latStep := (b.LatMax - b.LatMin) / float64(n)
	lonStep := (b.LonMax - b.LonMin) / float64(n)

	meanLat := (b.LatMin + b.LatMax) / 2
	latKm := latStep * spatial.KmPerDegreeLat
	lonKm := lonStep * spatial.KmPerDegreeLat * math.Cos(meanLat*math.Pi/180)

	return Statistics{
		Region:     region.Name,
		Tier:       tier,
		GridPoints: n * n,
		Resolution: Resolution{
			Lat: round2(latKm),
			Lon: round2(lonKm),
			Avg: round2((latKm + lonKm) / 2),
		},
	}, nil
}

func dedupe(points []models.GridPoint) []models.GridPoint {
	seen := make(map[models.GridPoint]struct{}, len(points))
	out := make([]models.GridPoint, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
