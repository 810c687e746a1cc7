package models

import "math"

// GridPoint is a query location on the prediction surface. Coordinates are
// rounded to 4 decimal digits (~11 m) at construction so that exact equality
// is meaningful for deduplication.
type GridPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// NewGridPoint rounds the coordinate to grid precision.
func NewGridPoint(lat, lon float64) GridPoint {
	return GridPoint{
		Lat: round4(lat),
		Lon: round4(lon),
	}
}

// PredictionPoint is a grid point with its estimated value. Value is nil when
// no observation was usable for this point.
type PredictionPoint struct {
	GridPoint
	Value *float64 `json:"value"`
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
