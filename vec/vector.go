// Package vec provides small 2D vector and segment helpers used when
// laying out labels and decorations along geometries.
package vec

import (
	"math"

	gv "seehuhn.de/go/geom/vec"
)

// Vector2 is a 2D vector.
type Vector2 gv.Vec2

// New returns the vector (x, y).
func New(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

func (v Vector2) base() gv.Vec2 { return gv.Vec2(v) }

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 { return Vector2(v.base().Add(o.base())) }

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2(v.base().Sub(o.base())) }

// Multiply scales v by s.
func (v Vector2) Multiply(s float64) Vector2 { return Vector2(v.base().Mul(s)) }

// Divide scales v by 1/s.
func (v Vector2) Divide(s float64) Vector2 { return Vector2(v.base().Mul(1 / s)) }

// Dot returns the dot product.
func (v Vector2) Dot(o Vector2) float64 { return v.base().Dot(o.base()) }

// Length returns the Euclidean length.
func (v Vector2) Length() float64 { return v.base().Length() }

// LengthSq returns the squared length.
func (v Vector2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns v scaled to unit length. The zero vector yields NaN
// components.
func (v Vector2) Normalize() Vector2 { return v.Divide(v.Length()) }

// Angle returns the direction of v in [0, 2*pi).
func (v Vector2) Angle() float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Rotate90Left returns v rotated a quarter turn counter-clockwise.
func (v Vector2) Rotate90Left() Vector2 { return Vector2{X: -v.Y, Y: v.X} }

// Rotate90Right returns v rotated a quarter turn clockwise.
func (v Vector2) Rotate90Right() Vector2 { return Vector2{X: v.Y, Y: -v.X} }
