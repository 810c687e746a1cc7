package models

// Observation is a single weighted sensor reading supplied by the data
// collection layer. The engine never mutates or retains observations.
type Observation struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`

	// Weight is the source confidence, >= 0. The wire layer defaults a
	// missing weight to 1.0; an explicit zero stays zero.
	Weight float64 `json:"weight"`

	// Timestamp is unix seconds; 0 means the reading carries no timestamp.
	Timestamp int64 `json:"timestamp,omitempty"`

	// Source is an optional provenance tag ("openaq", "waqi", ...).
	Source string `json:"source,omitempty"`
}
