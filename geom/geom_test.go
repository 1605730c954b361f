package geom

import (
	"math"
	"testing"

	"github.com/gogpu/ggmap/extent"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		g    Geometry
		want Type
	}{
		{NewPoint(1, 2), TypePoint},
		{NewMultiPoint([]float64{1, 2, 3, 4}), TypeMultiPoint},
		{NewLineString([]float64{0, 0, 1, 1}), TypeLineString},
		{NewMultiLineString([]float64{0, 0, 1, 1}, []int{4}), TypeMultiLineString},
		{NewPolygon([]float64{0, 0, 1, 0, 1, 1}, []int{6}), TypePolygon},
		{NewMultiPolygon([]float64{0, 0, 1, 0, 1, 1}, [][]int{{6}}), TypeMultiPolygon},
		{NewCircle(0, 0, 1), TypeCircle},
	}
	for _, tt := range tests {
		if got := tt.g.Type(); got != tt.want {
			t.Errorf("Type() = %q, want %q", got, tt.want)
		}
		if tt.g.Stride() != 2 {
			t.Errorf("%s.Stride() = %d, want 2", tt.want, tt.g.Stride())
		}
	}
}

func TestCircle(t *testing.T) {
	c := NewCircle(5, 6, 2)
	if r := c.Radius(); r != 2 {
		t.Errorf("Radius() = %v, want 2", r)
	}
	if e := c.Extent(); e != (extent.Extent{3, 4, 7, 8}) {
		t.Errorf("Extent() = %v, want [3 4 7 8]", e)
	}
}

func TestPolygonOrientation(t *testing.T) {
	// Clockwise exterior, counter-clockwise hole: both must flip.
	coords := []float64{
		0, 0, 0, 10, 10, 10, 10, 0,
		2, 2, 4, 2, 4, 4, 2, 4,
	}
	p := NewPolygon(coords, []int{8, 16})
	oriented := p.OrientedFlatCoordinates()
	if IsClockwise(oriented, 0, 8) {
		t.Error("exterior ring should be counter-clockwise")
	}
	if !IsClockwise(oriented, 8, 16) {
		t.Error("hole should be clockwise")
	}
	if coords[2] != 0 || coords[3] != 10 {
		t.Error("OrientedFlatCoordinates() must not modify the geometry")
	}
}

func TestMultiPolygonOrientation(t *testing.T) {
	coords := []float64{
		0, 0, 0, 1, 1, 1, 1, 0,
		5, 5, 6, 5, 6, 6, 5, 6,
	}
	m := NewMultiPolygon(coords, [][]int{{8}, {16}})
	oriented := m.OrientedFlatCoordinates()
	if IsClockwise(oriented, 0, 8) || IsClockwise(oriented, 8, 16) {
		t.Error("every exterior ring should be counter-clockwise")
	}
	pts := m.FlatInteriorPoints()
	if len(pts) != 4 || pts[0] != 0.5 || pts[3] != 5.5 {
		t.Errorf("FlatInteriorPoints() = %v", pts)
	}
}

func TestLineStringMidpoint(t *testing.T) {
	l := NewLineString([]float64{0, 0, 10, 0, 10, 10})
	mid := l.FlatMidpoint()
	if mid[0] != 10 || mid[1] != 0 {
		t.Errorf("FlatMidpoint() = %v, want [10 0]", mid)
	}
	m := NewMultiLineString([]float64{0, 0, 4, 0, 0, 2, 0, 6}, []int{4, 8})
	mids := m.FlatMidpoints()
	want := []float64{2, 0, 0, 4}
	for i := range want {
		if mids[i] != want[i] {
			t.Fatalf("FlatMidpoints() = %v, want %v", mids, want)
		}
	}
}

func TestSnap(t *testing.T) {
	tests := []struct{ v, tol, want float64 }{
		{1.26, 0.5, 1.5},
		{1.24, 0.5, 1},
		{-3.3, 1, -3},
	}
	for _, tt := range tests {
		if got := Snap(tt.v, tt.tol); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.tol, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(NewPolygon([]float64{0, 0, 1, 0, 1, 1}, []int{6})); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	if err := Validate(NewPolygon([]float64{0, 0, 1, 0, 1, 1}, []int{8})); err == nil {
		t.Error("Validate() should reject an end past the coordinates")
	}
	if err := Validate(NewLineString([]float64{0, 0, 1})); err == nil {
		t.Error("Validate() should reject an odd coordinate count")
	}
}
