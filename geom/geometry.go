// Package geom defines the geometries a replay can encode. Every geometry
// stores its vertices as flat coordinates with a stride of 2.
package geom

import (
	"fmt"
	"math"

	"github.com/gogpu/ggmap/extent"
)

// Stride is the number of values per vertex in every geometry.
const Stride = 2

// Type names a geometry kind.
type Type string

const (
	TypePoint           Type = "Point"
	TypeMultiPoint      Type = "MultiPoint"
	TypeLineString      Type = "LineString"
	TypeMultiLineString Type = "MultiLineString"
	TypePolygon         Type = "Polygon"
	TypeMultiPolygon    Type = "MultiPolygon"
	TypeCircle          Type = "Circle"
)

// Geometry is implemented by every geometry in this package.
type Geometry interface {
	Type() Type
	FlatCoordinates() []float64
	Stride() int
	Extent() extent.Extent
}

type flat struct {
	coords []float64
}

func (f *flat) FlatCoordinates() []float64 { return f.coords }
func (f *flat) Stride() int                { return Stride }

func (f *flat) Extent() extent.Extent {
	return extent.FromFlatCoordinates(f.coords, 0, len(f.coords), Stride)
}

// Point is a single position.
type Point struct{ flat }

// NewPoint returns a point at (x, y).
func NewPoint(x, y float64) *Point {
	return &Point{flat{[]float64{x, y}}}
}

func (*Point) Type() Type { return TypePoint }

// XY returns the position.
func (p *Point) XY() (x, y float64) { return p.coords[0], p.coords[1] }

// MultiPoint is a set of positions.
type MultiPoint struct{ flat }

// NewMultiPoint returns a multi-point over the given flat coordinates.
func NewMultiPoint(coords []float64) *MultiPoint {
	return &MultiPoint{flat{coords}}
}

func (*MultiPoint) Type() Type { return TypeMultiPoint }

// LineString is a connected sequence of positions.
type LineString struct{ flat }

// NewLineString returns a line string over the given flat coordinates.
func NewLineString(coords []float64) *LineString {
	return &LineString{flat{coords}}
}

func (*LineString) Type() Type { return TypeLineString }

// FlatMidpoint returns the point halfway along the line.
func (l *LineString) FlatMidpoint() []float64 {
	return interpolate(l.coords, 0, len(l.coords), 0.5)
}

// MultiLineString is a set of line strings sharing one coordinate buffer.
// Ends holds the end offset of each line.
type MultiLineString struct {
	flat
	ends []int
}

// NewMultiLineString returns a multi-line string. ends[i] is the exclusive
// end offset of line i in coords.
func NewMultiLineString(coords []float64, ends []int) *MultiLineString {
	return &MultiLineString{flat{coords}, ends}
}

func (*MultiLineString) Type() Type { return TypeMultiLineString }

// Ends returns the end offset of every line.
func (m *MultiLineString) Ends() []int { return m.ends }

// FlatMidpoints returns the halfway point of each line, concatenated.
func (m *MultiLineString) FlatMidpoints() []float64 {
	var out []float64
	offset := 0
	for _, end := range m.ends {
		out = append(out, interpolate(m.coords, offset, end, 0.5)...)
		offset = end
	}
	return out
}

// Polygon is an exterior ring followed by zero or more holes. Rings are
// closed implicitly and are not required to repeat their first vertex.
type Polygon struct {
	flat
	ends []int
}

// NewPolygon returns a polygon. ends[i] is the exclusive end offset of ring i.
func NewPolygon(coords []float64, ends []int) *Polygon {
	return &Polygon{flat{coords}, ends}
}

func (*Polygon) Type() Type { return TypePolygon }

// Ends returns the end offset of every ring.
func (p *Polygon) Ends() []int { return p.ends }

// OrientedFlatCoordinates returns a copy of the coordinates with the
// exterior ring counter-clockwise and holes clockwise (y up).
func (p *Polygon) OrientedFlatCoordinates() []float64 {
	out := append([]float64(nil), p.coords...)
	orientRings(out, 0, p.ends)
	return out
}

// FlatInteriorPoint returns the center of the exterior ring extent.
func (p *Polygon) FlatInteriorPoint() []float64 {
	if len(p.ends) == 0 {
		return nil
	}
	x, y := extent.FromFlatCoordinates(p.coords, 0, p.ends[0], Stride).Center()
	return []float64{x, y}
}

// MultiPolygon is a set of polygons sharing one coordinate buffer.
type MultiPolygon struct {
	flat
	endss [][]int
}

// NewMultiPolygon returns a multi-polygon. endss[i] holds the ring ends of
// polygon i, as absolute offsets into coords.
func NewMultiPolygon(coords []float64, endss [][]int) *MultiPolygon {
	return &MultiPolygon{flat{coords}, endss}
}

func (*MultiPolygon) Type() Type { return TypeMultiPolygon }

// Endss returns the ring ends of every polygon.
func (m *MultiPolygon) Endss() [][]int { return m.endss }

// OrientedFlatCoordinates orients every polygon like Polygon does.
func (m *MultiPolygon) OrientedFlatCoordinates() []float64 {
	out := append([]float64(nil), m.coords...)
	offset := 0
	for _, ends := range m.endss {
		orientRings(out, offset, ends)
		if len(ends) > 0 {
			offset = ends[len(ends)-1]
		}
	}
	return out
}

// FlatInteriorPoints returns one interior point per polygon.
func (m *MultiPolygon) FlatInteriorPoints() []float64 {
	var out []float64
	offset := 0
	for _, ends := range m.endss {
		if len(ends) == 0 {
			continue
		}
		x, y := extent.FromFlatCoordinates(m.coords, offset, ends[0], Stride).Center()
		out = append(out, x, y)
		offset = ends[len(ends)-1]
	}
	return out
}

// Circle stores its center followed by a point on its circumference.
type Circle struct{ flat }

// NewCircle returns a circle around (cx, cy).
func NewCircle(cx, cy, radius float64) *Circle {
	return &Circle{flat{[]float64{cx, cy, cx + radius, cy}}}
}

func (*Circle) Type() Type { return TypeCircle }

// Center returns the circle center.
func (c *Circle) Center() (x, y float64) { return c.coords[0], c.coords[1] }

// Radius returns the circle radius.
func (c *Circle) Radius() float64 {
	return math.Hypot(c.coords[2]-c.coords[0], c.coords[3]-c.coords[1])
}

func (c *Circle) Extent() extent.Extent {
	x, y := c.Center()
	r := c.Radius()
	return extent.Extent{x - r, y - r, x + r, y + r}
}

// Validate checks that the ends of a geometry address its coordinates.
func Validate(g Geometry) error {
	n := len(g.FlatCoordinates())
	if n%Stride != 0 {
		return fmt.Errorf("geom: %s has %d coordinates, not a multiple of %d", g.Type(), n, Stride)
	}
	check := func(ends []int) error {
		prev := 0
		for _, e := range ends {
			if e < prev || e > n || e%Stride != 0 {
				return fmt.Errorf("geom: %s has invalid end offset %d", g.Type(), e)
			}
			prev = e
		}
		return nil
	}
	switch g := g.(type) {
	case *MultiLineString:
		return check(g.ends)
	case *Polygon:
		return check(g.ends)
	case *MultiPolygon:
		var all []int
		for _, ends := range g.endss {
			all = append(all, ends...)
		}
		return check(all)
	}
	return nil
}
