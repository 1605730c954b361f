package vec

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/ggmap/extent"
)

// ErrShortCoordinates is returned when a coordinate slice holds fewer than
// two vertices.
var ErrShortCoordinates = errors.New("vec: coordinates must contain at least 2 vertices")

// IndexError is returned when a segment index is out of range.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("vec: segment index %d out of range [0, %d)", e.Index, e.Count)
}

// Segment is a line segment from Start to End.
type Segment struct {
	Start, End Vector2
}

// Intersection describes how two segments meet. X and Y are the
// intersection of the infinite lines; OnLine1 and OnLine2 report whether
// that point lies strictly inside each segment.
type Intersection struct {
	X, Y       float64
	OnLine1    bool
	OnLine2    bool
	Intersects bool
}

// Vector returns End - Start.
func (s Segment) Vector() Vector2 { return s.End.Sub(s.Start) }

// Length returns the segment length.
func (s Segment) Length() float64 { return s.Vector().Length() }

// Angle returns the segment direction in [0, 2*pi).
func (s Segment) Angle() float64 { return s.Vector().Angle() }

// Intersect computes the intersection of s and o. Parallel segments
// report no intersection.
func (s Segment) Intersect(o Segment) Intersection {
	var r Intersection
	v1, v2 := s.Vector(), o.Vector()
	den := v2.Y*v1.X - v2.X*v1.Y
	if den == 0 {
		return r
	}
	dy := s.Start.Y - o.Start.Y
	dx := s.Start.X - o.Start.X
	a := (v2.X*dy - v2.Y*dx) / den
	b := (v1.X*dy - v1.Y*dx) / den

	r.X = s.Start.X + a*v1.X
	r.Y = s.Start.Y + a*v1.Y
	r.OnLine1 = a > 0 && a < 1
	r.OnLine2 = b > 0 && b < 1
	r.Intersects = r.OnLine1 && r.OnLine2
	return r
}

// Clip returns the part of s inside e. The boolean is false when the
// segment does not cross the extent.
func (s Segment) Clip(e extent.Extent) (Segment, bool) {
	containsStart := e.ContainsXY(s.Start.X, s.Start.Y)
	containsEnd := e.ContainsXY(s.End.X, s.End.Y)
	if containsStart && containsEnd {
		return s, true
	}

	swapped := s.End.X < s.Start.X || s.End.Y < s.Start.Y
	seg := s
	if swapped {
		seg = Segment{Start: s.End, End: s.Start}
	}

	sides := [4]Segment{
		{New(e[0], e[1]), New(e[0], e[3])},
		{New(e[0], e[1]), New(e[2], e[1])},
		{New(e[2], e[1]), New(e[2], e[3])},
		{New(e[0], e[3]), New(e[2], e[3])},
	}
	var xs, ys []float64
	for _, side := range sides {
		if in := seg.Intersect(side); in.Intersects {
			xs = append(xs, in.X)
			ys = append(ys, in.Y)
		}
	}
	n := len(xs)
	if n == 0 || n >= 3 {
		return Segment{}, false
	}
	if n == 1 {
		if containsStart {
			xs = append(xs, s.Start.X)
			ys = append(ys, s.Start.Y)
		}
		if containsEnd {
			xs = append(xs, s.End.X)
			ys = append(ys, s.End.Y)
		}
	}

	pick := func(vals []float64, useMin bool) float64 {
		out := vals[0]
		for _, v := range vals[1:] {
			if useMin {
				out = math.Min(out, v)
			} else {
				out = math.Max(out, v)
			}
		}
		return out
	}
	start := New(pick(xs, seg.Start.X < seg.End.X), pick(ys, seg.Start.Y < seg.End.Y))
	end := New(pick(xs, seg.End.X < seg.Start.X), pick(ys, seg.End.Y < seg.Start.Y))
	if swapped {
		return Segment{Start: end, End: start}, true
	}
	return Segment{Start: start, End: end}, true
}

// SegmentsFromFlatCoordinates returns the consecutive segments of a flat
// (x, y) coordinate sequence.
func SegmentsFromFlatCoordinates(coords []float64) []Segment {
	if len(coords) < 4 {
		return nil
	}
	out := make([]Segment, 0, len(coords)/2-1)
	for i := 0; i+3 < len(coords); i += 2 {
		out = append(out, Segment{New(coords[i], coords[i+1]), New(coords[i+2], coords[i+3])})
	}
	return out
}

// SegmentFromFlatCoordinates returns segment index of a flat (x, y)
// coordinate sequence.
func SegmentFromFlatCoordinates(coords []float64, index int) (Segment, error) {
	if len(coords) < 4 {
		return Segment{}, ErrShortCoordinates
	}
	count := len(coords)/2 - 1
	if index < 0 || index >= count {
		return Segment{}, &IndexError{Index: index, Count: count}
	}
	i := index * 2
	return Segment{New(coords[i], coords[i+1]), New(coords[i+2], coords[i+3])}, nil
}
