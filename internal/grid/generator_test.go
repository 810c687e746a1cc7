package grid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/airgrid/surface-backend-go/internal/config"
	"github.com/airgrid/surface-backend-go/internal/models"
)

// testRegion is a 10x10 degree region whose hotspot jitter can never leave
// the bounds, so candidate counts are exact.
func testRegion(hotspots ...models.Hotspot) models.Region {
	return models.Region{
		Name: "test",
		Bounds: models.RegionBounds{
			LatMin: 0, LatMax: 10,
			LonMin: 0, LonMax: 10,
		},
		GridDensity: map[models.Tier]int{
			models.TierLow: 10,
		},
		Hotspots: hotspots,
	}
}

func delhi(t *testing.T) models.Region {
	t.Helper()
	regions, err := config.DefaultRegions()
	if err != nil {
		t.Fatalf("default regions: %v", err)
	}
	region, err := regions.Get("delhi")
	if err != nil {
		t.Fatalf("get delhi: %v", err)
	}
	return region
}

func TestUniformDelhiMedium(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	region := delhi(t)

	points, err := g.Uniform(region, models.TierMedium)
	if err != nil {
		t.Fatalf("uniform: %v", err)
	}

	if len(points) != 10000 {
		t.Fatalf("expected 10000 points, got %d", len(points))
	}
	if points[0].Lat != 28.4 || points[0].Lon != 76.8 {
		t.Errorf("first point = (%v, %v), want (28.4, 76.8)", points[0].Lat, points[0].Lon)
	}

	// Half-open construction: the max edges are never emitted.
	for _, p := range points {
		if p.Lat < 28.4 || p.Lat >= 28.9 {
			t.Fatalf("latitude %v outside half-open range", p.Lat)
		}
		if p.Lon < 76.8 || p.Lon >= 77.3 {
			t.Fatalf("longitude %v outside half-open range", p.Lon)
		}
	}
}

func TestUniformUnknownTier(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	_, err := g.Uniform(delhi(t), models.Tier("extreme"))
	if !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestAdaptiveAddsHotspotPoints(t *testing.T) {
	region := testRegion(
		models.Hotspot{Name: "center", Lat: 5, Lon: 5, Weight: 2.0},
		models.Hotspot{Name: "edgeish", Lat: 3, Lon: 7, Weight: 1.5},
	)
	g := NewGenerator(rand.New(rand.NewSource(42)))

	points, err := g.Adaptive(region, models.TierLow, true)
	if err != nil {
		t.Fatalf("adaptive: %v", err)
	}

	// floor(150*2.0) + floor(150*1.5) = 300 + 225 candidates, all in bounds.
	want := 100 + 300 + 225
	if len(points) != want {
		t.Fatalf("expected %d points, got %d", want, len(points))
	}
	for _, p := range points {
		if !region.Bounds.Contains(p.Lat, p.Lon) {
			t.Fatalf("point (%v, %v) outside bounds", p.Lat, p.Lon)
		}
	}
}

func TestAdaptiveWithoutEnhancement(t *testing.T) {
	region := testRegion(models.Hotspot{Name: "center", Lat: 5, Lon: 5, Weight: 2.0})
	g := NewGenerator(rand.New(rand.NewSource(42)))

	points, err := g.Adaptive(region, models.TierLow, false)
	if err != nil {
		t.Fatalf("adaptive: %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("expected plain uniform grid of 100 points, got %d", len(points))
	}
}

func TestAdaptiveDiscardsOutOfBoundsJitter(t *testing.T) {
	// Hotspot outside the region: every jittered candidate misses the
	// bounds and is silently dropped, never retried.
	region := testRegion(models.Hotspot{Name: "outside", Lat: 20, Lon: 20, Weight: 2.0})
	g := NewGenerator(rand.New(rand.NewSource(42)))

	points, err := g.Adaptive(region, models.TierLow, true)
	if err != nil {
		t.Fatalf("adaptive: %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("expected all hotspot candidates discarded, got %d points", len(points))
	}
}

func TestDensityWeightedNoClusters(t *testing.T) {
	// Scattered observations (one per 0.1 degree bucket) add nothing; with
	// no hotspots the result is exactly the uniform grid.
	region := testRegion()
	g := NewGenerator(rand.New(rand.NewSource(7)))

	observations := []models.Observation{
		{Lat: 1.01, Lon: 1.01, Value: 100, Weight: 1},
		{Lat: 3.55, Lon: 2.22, Value: 120, Weight: 1},
		{Lat: 8.88, Lon: 9.11, Value: 90, Weight: 1},
	}

	points, err := g.DensityWeighted(region, models.TierLow, observations)
	if err != nil {
		t.Fatalf("density weighted: %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(points))
	}
}

func TestDensityWeightedClusterEnhancement(t *testing.T) {
	region := testRegion()
	g := NewGenerator(rand.New(rand.NewSource(7)))

	// Three observations in the (5.0, 5.0) bucket form a cluster and add
	// 3*20 jittered candidates.
	observations := []models.Observation{
		{Lat: 5.01, Lon: 5.02, Value: 180, Weight: 1},
		{Lat: 5.02, Lon: 5.03, Value: 195, Weight: 1},
		{Lat: 5.04, Lon: 5.01, Value: 170, Weight: 1},
	}

	points, err := g.DensityWeighted(region, models.TierLow, observations)
	if err != nil {
		t.Fatalf("density weighted: %v", err)
	}

	if len(points) <= 100 {
		t.Fatalf("expected cluster to add points beyond the base 100, got %d", len(points))
	}
	if len(points) > 160 {
		t.Fatalf("expected at most 100+60 points, got %d", len(points))
	}

	seen := make(map[models.GridPoint]struct{}, len(points))
	for _, p := range points {
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate point (%v, %v) survived dedup", p.Lat, p.Lon)
		}
		seen[p] = struct{}{}
		if !region.Bounds.Contains(p.Lat, p.Lon) {
			t.Fatalf("point (%v, %v) outside bounds", p.Lat, p.Lon)
		}
	}
}

func TestBoundedStepDerivation(t *testing.T) {
	region := testRegion()
	g := NewGenerator(rand.New(rand.NewSource(1)))

	// area = 100 deg^2, maxPoints = 4: steps = floor(sqrt(4/100)*100) = 20.
	points := g.Bounded(region, 4)
	if len(points) != 400 {
		t.Fatalf("expected 20x20 = 400 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Lat < 0 || p.Lat >= 10 || p.Lon < 0 || p.Lon >= 10 {
			t.Fatalf("point (%v, %v) outside half-open range", p.Lat, p.Lon)
		}
	}
}

func TestStatisticsDelhiMedium(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	stats, err := g.Statistics(delhi(t), models.TierMedium)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if stats.GridPoints != 10000 {
		t.Errorf("grid points = %d, want 10000", stats.GridPoints)
	}
	// 0.005 deg * 111 km/deg = 0.555 -> 0.56; longitude shrinks by
	// cos(28.65 deg).
	if stats.Resolution.Lat != 0.56 {
		t.Errorf("lat resolution = %v, want 0.56", stats.Resolution.Lat)
	}
	if stats.Resolution.Lon != 0.49 {
		t.Errorf("lon resolution = %v, want 0.49", stats.Resolution.Lon)
	}
	if stats.Resolution.Avg != 0.52 {
		t.Errorf("avg resolution = %v, want 0.52", stats.Resolution.Avg)
	}
}

func TestStatisticsUnknownTier(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	_, err := g.Statistics(delhi(t), models.Tier("nope"))
	if !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}
