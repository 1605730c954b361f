package vec

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/ggmap/extent"
)

const eps = 1e-9

func TestVectorArithmetic(t *testing.T) {
	a, b := New(3, 4), New(1, -2)
	if got := a.Add(b); got != New(4, 2) {
		t.Errorf("Add() = %v, want (4, 2)", got)
	}
	if got := a.Sub(b); got != New(2, 6) {
		t.Errorf("Sub() = %v, want (2, 6)", got)
	}
	if got := a.Multiply(2); got != New(6, 8) {
		t.Errorf("Multiply(2) = %v, want (6, 8)", got)
	}
	if got := a.Divide(2); got != New(1.5, 2) {
		t.Errorf("Divide(2) = %v, want (1.5, 2)", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot() = %v, want -5", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := a.LengthSq(); got != 25 {
		t.Errorf("LengthSq() = %v, want 25", got)
	}
	if n := a.Normalize(); math.Abs(n.Length()-1) > eps {
		t.Errorf("Normalize().Length() = %v, want 1", n.Length())
	}
}

func TestVectorAngle(t *testing.T) {
	tests := []struct {
		v    Vector2
		want float64
	}{
		{New(1, 0), 0},
		{New(0, 1), math.Pi / 2},
		{New(-1, 0), math.Pi},
		{New(0, -1), 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		if got := tt.v.Angle(); math.Abs(got-tt.want) > eps {
			t.Errorf("%v.Angle() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVectorRotate90(t *testing.T) {
	v := New(1, 0)
	if got := v.Rotate90Left(); got != New(0, 1) {
		t.Errorf("Rotate90Left() = %v, want (0, 1)", got)
	}
	if got := v.Rotate90Right(); got != New(0, -1) {
		t.Errorf("Rotate90Right() = %v, want (0, -1)", got)
	}
}

func TestSegmentIntersect(t *testing.T) {
	s1 := Segment{New(0, 0), New(10, 10)}
	s2 := Segment{New(0, 10), New(10, 0)}
	r := s1.Intersect(s2)
	if !r.Intersects || math.Abs(r.X-5) > eps || math.Abs(r.Y-5) > eps {
		t.Errorf("Intersect() = %+v, want intersection at (5, 5)", r)
	}

	parallel := Segment{New(0, 1), New(10, 11)}
	if r := s1.Intersect(parallel); r.Intersects || r.OnLine1 || r.OnLine2 {
		t.Errorf("parallel Intersect() = %+v, want none", r)
	}

	short := Segment{New(0, 10), New(2, 8)}
	r = s1.Intersect(short)
	if r.Intersects || !r.OnLine1 || r.OnLine2 {
		t.Errorf("Intersect() with short segment = %+v, want on line 1 only", r)
	}
}

func TestSegmentLengthAngle(t *testing.T) {
	s := Segment{New(1, 1), New(1, 4)}
	if s.Length() != 3 {
		t.Errorf("Length() = %v, want 3", s.Length())
	}
	if math.Abs(s.Angle()-math.Pi/2) > eps {
		t.Errorf("Angle() = %v, want pi/2", s.Angle())
	}
}

func TestSegmentClip(t *testing.T) {
	e := extent.Extent{0, 0, 10, 10}
	tests := []struct {
		name string
		in   Segment
		want Segment
		ok   bool
	}{
		{"inside", Segment{New(1, 1), New(2, 2)}, Segment{New(1, 1), New(2, 2)}, true},
		{"through", Segment{New(-5, 5), New(15, 5)}, Segment{New(0, 5), New(10, 5)}, true},
		{"reversed", Segment{New(15, 5), New(-5, 5)}, Segment{New(10, 5), New(0, 5)}, true},
		{"half", Segment{New(5, 5), New(15, 5)}, Segment{New(5, 5), New(10, 5)}, true},
		{"outside", Segment{New(20, 20), New(30, 30)}, Segment{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Clip(e)
			if ok != tt.ok {
				t.Fatalf("Clip() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if math.Abs(got.Start.X-tt.want.Start.X) > eps || math.Abs(got.Start.Y-tt.want.Start.Y) > eps ||
				math.Abs(got.End.X-tt.want.End.X) > eps || math.Abs(got.End.Y-tt.want.End.Y) > eps {
				t.Errorf("Clip() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsFromFlatCoordinates(t *testing.T) {
	segs := SegmentsFromFlatCoordinates([]float64{0, 0, 1, 0, 1, 1})
	if len(segs) != 2 {
		t.Fatalf("len = %d, want 2", len(segs))
	}
	if segs[1].Start != New(1, 0) || segs[1].End != New(1, 1) {
		t.Errorf("segs[1] = %v", segs[1])
	}
	if SegmentsFromFlatCoordinates([]float64{0, 0}) != nil {
		t.Error("single vertex should yield no segments")
	}
}

func TestSegmentFromFlatCoordinates(t *testing.T) {
	coords := []float64{0, 0, 1, 0, 1, 1}
	s, err := SegmentFromFlatCoordinates(coords, 1)
	if err != nil {
		t.Fatalf("SegmentFromFlatCoordinates() error = %v", err)
	}
	if s.Start != New(1, 0) || s.End != New(1, 1) {
		t.Errorf("segment = %v", s)
	}

	if _, err := SegmentFromFlatCoordinates(coords[:2], 0); !errors.Is(err, ErrShortCoordinates) {
		t.Errorf("short coordinates error = %v, want ErrShortCoordinates", err)
	}
	var ie *IndexError
	if _, err := SegmentFromFlatCoordinates(coords, 2); !errors.As(err, &ie) {
		t.Errorf("out of range error = %v, want *IndexError", err)
	} else if ie.Index != 2 || ie.Count != 2 {
		t.Errorf("IndexError = %+v", ie)
	}
	if _, err := SegmentFromFlatCoordinates(coords, -1); err == nil {
		t.Error("negative index should fail")
	}
}
