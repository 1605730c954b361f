package scene

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggmap/geom"
)

// ErrGeometry is wrapped by every geometry decoding error.
var ErrGeometry = errors.New("scene: invalid geometry")

// Geometry is a GeoJSON-like geometry. The nesting depth of Coordinates
// depends on Type; Circle takes a center position and a Radius.
type Geometry struct {
	Type        string    `yaml:"type"`
	Coordinates yaml.Node `yaml:"coordinates"`
	Radius      float64   `yaml:"radius,omitempty"`
}

type (
	position  []float64
	positions []position
	rings     []positions
	polygons  []rings
)

func flattenPositions(ps positions) ([]float64, error) {
	out := make([]float64, 0, len(ps)*geom.Stride)
	for _, p := range ps {
		if len(p) != geom.Stride {
			return nil, fmt.Errorf("%w: position %v has %d values", ErrGeometry, p, len(p))
		}
		out = append(out, p...)
	}
	return out, nil
}

// flattenRings appends the rings to flat and returns it with the ring
// ends.
func flattenRings(flat []float64, rs rings) ([]float64, []int, error) {
	ends := make([]int, 0, len(rs))
	for _, r := range rs {
		coords, err := flattenPositions(r)
		if err != nil {
			return nil, nil, err
		}
		flat = append(flat, coords...)
		ends = append(ends, len(flat))
	}
	return flat, ends, nil
}

// Build converts g to a geometry.
func (g *Geometry) Build() (geom.Geometry, error) {
	decode := func(v any) error {
		if g.Coordinates.IsZero() {
			return fmt.Errorf("%w: %s without coordinates", ErrGeometry, g.Type)
		}
		if err := g.Coordinates.Decode(v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrGeometry, g.Type, err)
		}
		return nil
	}

	switch geom.Type(g.Type) {
	case geom.TypePoint, geom.TypeCircle:
		var p position
		if err := decode(&p); err != nil {
			return nil, err
		}
		if len(p) != geom.Stride {
			return nil, fmt.Errorf("%w: %s position %v", ErrGeometry, g.Type, p)
		}
		if g.Type == string(geom.TypeCircle) {
			if g.Radius <= 0 {
				return nil, fmt.Errorf("%w: circle radius %v", ErrGeometry, g.Radius)
			}
			return geom.NewCircle(p[0], p[1], g.Radius), nil
		}
		return geom.NewPoint(p[0], p[1]), nil

	case geom.TypeMultiPoint, geom.TypeLineString:
		var ps positions
		if err := decode(&ps); err != nil {
			return nil, err
		}
		flat, err := flattenPositions(ps)
		if err != nil {
			return nil, err
		}
		if g.Type == string(geom.TypeMultiPoint) {
			return geom.NewMultiPoint(flat), nil
		}
		if len(ps) < 2 {
			return nil, fmt.Errorf("%w: line with %d positions", ErrGeometry, len(ps))
		}
		return geom.NewLineString(flat), nil

	case geom.TypeMultiLineString, geom.TypePolygon:
		var rs rings
		if err := decode(&rs); err != nil {
			return nil, err
		}
		flat, ends, err := flattenRings(nil, rs)
		if err != nil {
			return nil, err
		}
		if g.Type == string(geom.TypePolygon) {
			return geom.NewPolygon(flat, ends), nil
		}
		return geom.NewMultiLineString(flat, ends), nil

	case geom.TypeMultiPolygon:
		var pss polygons
		if err := decode(&pss); err != nil {
			return nil, err
		}
		var flat []float64
		endss := make([][]int, 0, len(pss))
		for _, rs := range pss {
			var ends []int
			var err error
			flat, ends, err = flattenRings(flat, rs)
			if err != nil {
				return nil, err
			}
			endss = append(endss, ends)
		}
		return geom.NewMultiPolygon(flat, endss), nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrGeometry, g.Type)
}
