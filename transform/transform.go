// Package transform provides the affine transforms used to map map
// coordinates to device pixels.
package transform

import (
	"math"

	"github.com/gogpu/gg"
)

// Transform is a 2D affine transformation in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// which maps
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// The layout matches gg.Matrix so a Transform converts without reordering.
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translate creates a translation.
func Translate(x, y float64) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling transformation.
func Scale(sx, sy float64) Transform {
	return Transform{A: sx, E: sy}
}

// Rotate creates a rotation by angle radians.
func Rotate(angle float64) Transform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Transform{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Compose builds translate(dx1, dy1) * scale(sx, sy) * rotate(angle) *
// translate(dx2, dy2) in one step. It is the transform used both for
// coordinate-to-pixel mapping and for rotating markers and labels about
// their anchor.
func Compose(dx1, dy1, sx, sy, angle, dx2, dy2 float64) Transform {
	sin := math.Sin(angle)
	cos := math.Cos(angle)
	return Transform{
		A: sx * cos,
		B: -sx * sin,
		C: dx2*sx*cos - dy2*sx*sin + dx1,
		D: sy * sin,
		E: sy * cos,
		F: dx2*sy*sin + dy2*sy*cos + dy1,
	}
}

// Multiply returns m * other: other is applied first.
func (m Transform) Multiply(other Transform) Transform {
	return Transform{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply transforms a single point.
func (m Transform) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Apply2D transforms flat[offset:end] read with stride and writes the
// resulting (x, y) pairs to dst, growing it as needed. The returned slice
// holds exactly the transformed pairs.
func (m Transform) Apply2D(flat []float64, offset, end, stride int, dst []float64) []float64 {
	n := 0
	if end > offset {
		n = (end - offset + stride - 1) / stride * 2
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	j := 0
	for i := offset; i < end; i += stride {
		x, y := flat[i], flat[i+1]
		dst[j] = m.A*x + m.B*y + m.C
		dst[j+1] = m.D*x + m.E*y + m.F
		j += 2
	}
	return dst
}

// Invert returns the inverse transformation, or the identity when m is
// singular.
func (m Transform) Invert() Transform {
	det := m.Determinant()
	if math.Abs(det) < 1e-10 {
		return Identity()
	}
	inv := 1.0 / det
	return Transform{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}

// Determinant returns the determinant of the linear part.
func (m Transform) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// IsIdentity reports whether m is the identity transformation.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// Equals reports whether two transforms are exactly equal. Replays use it
// to decide whether cached pixel coordinates are still valid.
func (m Transform) Equals(other Transform) bool {
	return m == other
}

// Matrix converts m to a gg.Matrix.
func (m Transform) Matrix() gg.Matrix {
	return gg.Matrix{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F}
}
