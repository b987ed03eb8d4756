package atlas

import "encoding/json"

// FeatureCollection is the slice of the GeoJSON contract this client
// actually consumes: feature names for styling and lookup, geometry passed
// through untouched for whatever draws it.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one administrative region boundary.
type Feature struct {
	Type       string          `json:"type"`
	Properties Properties      `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Properties carries the region name used for explored-set membership.
type Properties struct {
	Name string `json:"name"`
}
