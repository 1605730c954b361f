// Package extent provides axis-aligned bounding boxes over flat coordinates.
package extent

import "math"

// Extent is an axis-aligned box stored as minX, minY, maxX, maxY.
type Extent [4]float64

// Relationship describes where a coordinate lies relative to an extent.
// Values other than Unknown and Intersecting combine as bit flags.
type Relationship uint8

const (
	Unknown      Relationship = 0
	Intersecting Relationship = 1
	Above        Relationship = 2
	Right        Relationship = 4
	Below        Relationship = 8
	Left         Relationship = 16
)

// CreateEmpty returns an extent that contains nothing. Extending it with any
// coordinate yields the coordinate itself.
func CreateEmpty() Extent {
	return Extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

// FromXY returns the degenerate extent of a single coordinate.
func FromXY(x, y float64) Extent {
	return Extent{x, y, x, y}
}

// FromFlatCoordinates returns the bounding box of
// flat[offset:end] read with the given stride.
func FromFlatCoordinates(flat []float64, offset, end, stride int) Extent {
	e := CreateEmpty()
	for i := offset; i < end; i += stride {
		e = e.ExtendXY(flat[i], flat[i+1])
	}
	return e
}

// IsEmpty reports whether the extent has no area and no point.
func (e Extent) IsEmpty() bool {
	return e[2] < e[0] || e[3] < e[1]
}

// Width returns maxX - minX.
func (e Extent) Width() float64 { return e[2] - e[0] }

// Height returns maxY - minY.
func (e Extent) Height() float64 { return e[3] - e[1] }

// Center returns the middle of the extent.
func (e Extent) Center() (x, y float64) {
	return (e[0] + e[2]) / 2, (e[1] + e[3]) / 2
}

// Buffer grows the extent by value on every side.
func (e Extent) Buffer(value float64) Extent {
	return Extent{e[0] - value, e[1] - value, e[2] + value, e[3] + value}
}

// Intersects reports whether the two extents overlap. Touching edges count.
func (e Extent) Intersects(o Extent) bool {
	return e[0] <= o[2] && e[2] >= o[0] && e[1] <= o[3] && e[3] >= o[1]
}

// ContainsXY reports whether the point lies inside or on the boundary.
func (e Extent) ContainsXY(x, y float64) bool {
	return e[0] <= x && x <= e[2] && e[1] <= y && y <= e[3]
}

// ContainsExtent reports whether o lies completely inside e.
func (e Extent) ContainsExtent(o Extent) bool {
	return e[0] <= o[0] && o[2] <= e[2] && e[1] <= o[1] && o[3] <= e[3]
}

// CoordinateRelationship classifies (x, y) against the extent.
func (e Extent) CoordinateRelationship(x, y float64) Relationship {
	rel := Unknown
	if x < e[0] {
		rel |= Left
	} else if x > e[2] {
		rel |= Right
	}
	if y < e[1] {
		rel |= Below
	} else if y > e[3] {
		rel |= Above
	}
	if rel == Unknown {
		rel = Intersecting
	}
	return rel
}

// ExtendXY returns the extent grown to include (x, y).
func (e Extent) ExtendXY(x, y float64) Extent {
	return Extent{
		math.Min(e[0], x),
		math.Min(e[1], y),
		math.Max(e[2], x),
		math.Max(e[3], y),
	}
}

// Extend returns the union of the two extents.
func (e Extent) Extend(o Extent) Extent {
	return Extent{
		math.Min(e[0], o[0]),
		math.Min(e[1], o[1]),
		math.Max(e[2], o[2]),
		math.Max(e[3], o[3]),
	}
}

// Corners returns the four corners as flat coordinates in the order
// bottom-left, bottom-right, top-right, top-left.
func (e Extent) Corners() []float64 {
	return []float64{
		e[0], e[1],
		e[2], e[1],
		e[2], e[3],
		e[0], e[3],
	}
}

// Equals reports whether both extents have identical bounds.
func (e Extent) Equals(o Extent) bool {
	return e == o
}
