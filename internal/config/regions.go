package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/airgrid/surface-backend-go/internal/models"
)

// ErrUnknownRegion is returned when a caller names a region absent from the
// configured table. Lookups never substitute a default region.
var ErrUnknownRegion = errors.New("unknown region")

var validate = validator.New()

// RegionSet is the immutable table of supported regions, built once at
// process start.
type RegionSet struct {
	regions map[string]models.Region
}

// NewRegionSet validates every region and builds the lookup table.
func NewRegionSet(regions []models.Region) (*RegionSet, error) {
	set := &RegionSet{regions: make(map[string]models.Region, len(regions))}
	for _, r := range regions {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("invalid region %q: %w", r.Name, err)
		}
		if _, exists := set.regions[r.Name]; exists {
			return nil, fmt.Errorf("duplicate region %q", r.Name)
		}
		set.regions[r.Name] = r
	}
	return set, nil
}

// Get returns the named region or ErrUnknownRegion.
func (s *RegionSet) Get(name string) (models.Region, error) {
	r, ok := s.regions[name]
	if !ok {
		return models.Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
	return r, nil
}

// Names returns the configured region names sorted alphabetically.
func (s *RegionSet) Names() []string {
	names := make([]string, 0, len(s.regions))
	for name := range s.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the configured regions ordered by name.
func (s *RegionSet) All() []models.Region {
	regions := make([]models.Region, 0, len(s.regions))
	for _, name := range s.Names() {
		regions = append(regions, s.regions[name])
	}
	return regions
}

// LoadRegions reads a JSON region table from disk.
func LoadRegions(path string) (*RegionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var regions []models.Region
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("parse region table: %w", err)
	}
	return NewRegionSet(regions)
}

// DefaultRegions returns the built-in region table: Delhi NCR and
// Maharashtra, with tier step counts and city hotspots.
func DefaultRegions() (*RegionSet, error) {
	return NewRegionSet([]models.Region{
		{
			Name:        "delhi",
			DisplayName: "Delhi NCR",
			Bounds: models.RegionBounds{
				LatMin: 28.4, LatMax: 28.9,
				LonMin: 76.8, LonMax: 77.3,
			},
			CenterLat: 28.6139,
			CenterLon: 77.2090,
			AreaKm2:   5500,
			GridDensity: map[models.Tier]int{
				models.TierLow:    50,  // every ~1.1 km
				models.TierMedium: 100, // every ~550 m
				models.TierHigh:   200, // every ~275 m
				models.TierUltra:  300, // every ~180 m
			},
			Hotspots: []models.Hotspot{
				{Name: "New Delhi", Lat: 28.6139, Lon: 77.2090, Weight: 2.0, AmplificationFactor: 1.3},
				{Name: "Anand Vihar", Lat: 28.6468, Lon: 77.3164, Weight: 2.5, AmplificationFactor: 1.5},
				{Name: "ITO", Lat: 28.6298, Lon: 77.2423, Weight: 2.2, AmplificationFactor: 1.4},
				{Name: "RK Puram", Lat: 28.5633, Lon: 77.1769, Weight: 1.8, AmplificationFactor: 1.2},
				{Name: "Dwarka", Lat: 28.5704, Lon: 77.0653, Weight: 1.5, AmplificationFactor: 1.1},
				{Name: "Rohini", Lat: 28.7344, Lon: 77.0895, Weight: 1.5, AmplificationFactor: 1.1},
				{Name: "Noida", Lat: 28.5355, Lon: 77.3910, Weight: 2.0, AmplificationFactor: 1.3},
				{Name: "Gurgaon", Lat: 28.4595, Lon: 77.0266, Weight: 1.8, AmplificationFactor: 1.2},
				{Name: "Faridabad", Lat: 28.4089, Lon: 77.3178, Weight: 1.5, AmplificationFactor: 1.1},
				{Name: "Ghaziabad", Lat: 28.6692, Lon: 77.4538, Weight: 1.5, AmplificationFactor: 1.2},
			},
		},
		{
			Name:        "maharashtra",
			DisplayName: "Maharashtra",
			Bounds: models.RegionBounds{
				LatMin: 15.6, LatMax: 22.0,
				LonMin: 72.6, LonMax: 80.9,
			},
			CenterLat: 19.0760,
			CenterLon: 72.8777,
			AreaKm2:   307713,
			GridDensity: map[models.Tier]int{
				models.TierLow:    50,  // every ~14 km
				models.TierMedium: 100, // every ~7 km
				models.TierHigh:   150, // every ~4.7 km
				models.TierUltra:  200, // every ~3.5 km
			},
			Hotspots: []models.Hotspot{
				{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777, Weight: 2.5, AmplificationFactor: 1.3},
				{Name: "Pune", Lat: 18.5204, Lon: 73.8567, Weight: 2.0, AmplificationFactor: 1.2},
				{Name: "Nagpur", Lat: 21.1458, Lon: 79.0882, Weight: 1.8, AmplificationFactor: 1.1},
				{Name: "Nashik", Lat: 19.9975, Lon: 73.7898, Weight: 1.5, AmplificationFactor: 1.0},
				{Name: "Aurangabad", Lat: 19.8762, Lon: 75.3433, Weight: 1.3, AmplificationFactor: 1.0},
				{Name: "Solapur", Lat: 17.6599, Lon: 75.9064, Weight: 1.2, AmplificationFactor: 0.9},
				{Name: "Kolhapur", Lat: 16.6913, Lon: 74.2449, Weight: 1.2, AmplificationFactor: 0.9},
				{Name: "Thane", Lat: 19.2183, Lon: 72.9781, Weight: 1.5, AmplificationFactor: 1.1},
			},
		},
	})
}
