package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/airgrid/surface-backend-go/internal/config"
	"github.com/airgrid/surface-backend-go/internal/grid"
	"github.com/airgrid/surface-backend-go/internal/interp"
	"github.com/airgrid/surface-backend-go/internal/models"
	"github.com/airgrid/surface-backend-go/internal/surface"
)

// ErrUnknownMode is returned when a caller names a grid mode that does not
// exist.
var ErrUnknownMode = errors.New("unknown grid mode")

// Mode selects a grid generation strategy.
type Mode string

const (
	ModeUniform  Mode = "uniform"
	ModeAdaptive Mode = "adaptive"
	ModeDensity  Mode = "density"
	ModeBounded  Mode = "bounded"
)

// ParseMode resolves a mode name, defaulting the empty string to uniform.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeUniform, nil
	case ModeUniform, ModeAdaptive, ModeDensity, ModeBounded:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// DefaultMaxPoints caps bounded grids when the caller does not supply a
// budget.
const DefaultMaxPoints = 10000

// SurfaceService wires the region table, grid generator, interpolation
// engine and batch evaluator behind the public operations.
type SurfaceService struct {
	regions   *config.RegionSet
	generator *grid.Generator
	estimator *interp.Estimator
	evaluator *surface.Evaluator
}

// NewSurfaceService creates a new surface service.
func NewSurfaceService(regions *config.RegionSet, generator *grid.Generator, estimator *interp.Estimator, workers int) *SurfaceService {
	return &SurfaceService{
		regions:   regions,
		generator: generator,
		estimator: estimator,
		evaluator: surface.NewEvaluator(estimator, workers),
	}
}

// Regions returns the configured regions ordered by name.
func (s *SurfaceService) Regions() []models.Region {
	return s.regions.All()
}

// GenerateGrid produces the query points for a region under the given mode.
// observations are only consulted in density mode; maxPoints only in bounded
// mode (0 means DefaultMaxPoints).
func (s *SurfaceService) GenerateGrid(regionName string, tier models.Tier, mode Mode, observations []models.Observation, maxPoints int) ([]models.GridPoint, error) {
	region, err := s.regions.Get(regionName)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeUniform, "":
		return s.generator.Uniform(region, tier)
	case ModeAdaptive:
		return s.generator.Adaptive(region, tier, true)
	case ModeDensity:
		return s.generator.DensityWeighted(region, tier, observations)
	case ModeBounded:
		if maxPoints <= 0 {
			maxPoints = DefaultMaxPoints
		}
		return s.generator.Bounded(region, maxPoints), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// GridStatistics reports diagnostic resolution numbers for a region/tier.
func (s *SurfaceService) GridStatistics(regionName string, tier models.Tier) (grid.Statistics, error) {
	region, err := s.regions.Get(regionName)
	if err != nil {
		return grid.Statistics{}, err
	}
	return s.generator.Statistics(region, tier)
}

// Interpolate estimates a value at a single target coordinate. ok is false
// when no observation was usable.
func (s *SurfaceService) Interpolate(lat, lon float64, observations []models.Observation, method interp.Method, now int64) (float64, bool, error) {
	if now == 0 {
		now = time.Now().Unix()
	}
	return s.estimator.Estimate(method, lat, lon, observations, now)
}

// EvaluateSurface generates the grid for a region and estimates a value at
// every point, returning predictions in grid iteration order.
func (s *SurfaceService) EvaluateSurface(regionName string, tier models.Tier, mode Mode, observations []models.Observation, method interp.Method, now int64) ([]models.PredictionPoint, error) {
	points, err := s.GenerateGrid(regionName, tier, mode, observations, 0)
	if err != nil {
		return nil, err
	}
	if now == 0 {
		now = time.Now().Unix()
	}

	start := time.Now()
	predictions, err := s.evaluator.Evaluate(points, observations, method, now)
	if err != nil {
		return nil, err
	}
	log.Printf("[SurfaceService] evaluated %d points for %s/%s with %s in %v",
		len(predictions), regionName, tier, method, time.Since(start))
	return predictions, nil
}
