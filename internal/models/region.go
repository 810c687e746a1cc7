package models

// Tier names a grid resolution level. Step counts are region-specific:
// a tier encodes a visual resolution target, not a fixed step count, so a
// dense urban region and a large state region resolve the same tier to
// different counts.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
	TierUltra  Tier = "ultra"
)

// RegionBounds is a rectangle in degree space.
type RegionBounds struct {
	LatMin float64 `json:"lat_min" validate:"gte=-90,lte=90,ltfield=LatMax"`
	LatMax float64 `json:"lat_max" validate:"gte=-90,lte=90"`
	LonMin float64 `json:"lon_min" validate:"gte=-180,lte=180,ltfield=LonMax"`
	LonMax float64 `json:"lon_max" validate:"gte=-180,lte=180"`
}

// Contains reports whether the coordinate lies within the bounds, edges
// included.
func (b RegionBounds) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax &&
		lon >= b.LonMin && lon <= b.LonMax
}

// Hotspot is a named sub-location inside a region that receives extra
// sampling density. AmplificationFactor is metadata for downstream severity
// scaling; grid generation does not consume it.
type Hotspot struct {
	Name                string  `json:"name"`
	Lat                 float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon                 float64 `json:"lon" validate:"gte=-180,lte=180"`
	Weight              float64 `json:"weight" validate:"gte=0"`
	AmplificationFactor float64 `json:"amplification_factor" validate:"gte=0"`
}

// Region describes one supported region: its bounding box, per-tier step
// counts, and hotspot list.
type Region struct {
	Name        string       `json:"name" validate:"required"`
	DisplayName string       `json:"display_name,omitempty"`
	Bounds      RegionBounds `json:"bounds"`
	CenterLat   float64      `json:"center_lat,omitempty"`
	CenterLon   float64      `json:"center_lon,omitempty"`
	AreaKm2     float64      `json:"area_km2,omitempty"`
	GridDensity map[Tier]int `json:"grid_density" validate:"required,dive,gte=1"`
	Hotspots    []Hotspot    `json:"hotspots,omitempty" validate:"dive"`
}
