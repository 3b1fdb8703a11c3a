// Package preset persists named parameter variations so a tuned look can be
// recalled across sessions. Variations travel as versioned JSON records; the
// backing store is either in-memory or SQLite depending on the build.
package preset

import (
	"errors"
	"time"
)

// GeometryCount is the number of selectable base geometries.
const GeometryCount = 8

var geometryNames = [GeometryCount]string{
	"tetrahedron",
	"hypercube",
	"sphere",
	"torus",
	"klein bottle",
	"fractal",
	"wave",
	"crystal",
}

// GeometryName returns the display name for a geometry index.
func GeometryName(index int) string {
	if index < 0 || index >= GeometryCount {
		return "unknown"
	}
	return geometryNames[index]
}

// Variation is a named snapshot of base parameter values plus the geometry
// they were tuned against.
type Variation struct {
	SchemaVersion int                `json:"schemaVersion"`
	CodecVersion  int                `json:"codecVersion"`
	Name          string             `json:"name"`
	Geometry      int                `json:"geometry"`
	Parameters    map[string]float64 `json:"parameters"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// NewVariation stamps the current schema versions and timestamps onto a
// fresh variation. The parameter map is copied.
func NewVariation(name string, geometry int, params map[string]float64) Variation {
	copied := make(map[string]float64, len(params))
	for id, v := range params {
		copied[id] = v
	}
	now := time.Now().UTC()
	return Variation{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
		Name:          name,
		Geometry:      geometry,
		Parameters:    copied,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func validateVariation(v Variation) error {
	if v.Name == "" {
		return errors.New("variation name is required")
	}
	if v.Geometry < 0 || v.Geometry >= GeometryCount {
		return errors.New("variation geometry index out of range")
	}
	return nil
}
