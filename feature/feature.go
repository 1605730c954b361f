// Package feature defines the map features replays draw and hit tests
// report.
package feature

import (
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/geom"
)

// Feature is a geometry with an identity and free-form properties.
// Features are compared by pointer identity throughout the renderer.
type Feature struct {
	id         string
	geometry   geom.Geometry
	properties map[string]any
}

// New returns a feature with a random UUID.
func New(g geom.Geometry) *Feature {
	return NewWithID(uuid.NewString(), g)
}

// NewWithID returns a feature with the given identifier.
func NewWithID(id string, g geom.Geometry) *Feature {
	return &Feature{id: id, geometry: g, properties: make(map[string]any)}
}

// ID returns the feature identifier.
func (f *Feature) ID() string { return f.id }

// Geometry returns the feature geometry, which may be nil.
func (f *Feature) Geometry() geom.Geometry { return f.geometry }

// SetGeometry replaces the geometry.
func (f *Feature) SetGeometry(g geom.Geometry) { f.geometry = g }

// Get returns a property value.
func (f *Feature) Get(key string) (any, bool) {
	v, ok := f.properties[key]
	return v, ok
}

// Set stores a property value.
func (f *Feature) Set(key string, value any) { f.properties[key] = value }

// Properties returns the property map. Callers must not modify it while a
// frame is being drawn.
func (f *Feature) Properties() map[string]any { return f.properties }
