// Package geo provides the 2-D kinematic primitives (vectors, line
// segments, axis-aligned bounding boxes) used throughout the trajectory
// planner.
package geo

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vector is a 2-D point or direction with 32-bit components, matching the
// float precision carried by the rest of the trajectory search.
type Vector struct {
	X, Y float32
}

// Zero is the additive identity.
var Zero = Vector{}

// New returns the vector (x, y).
func New(x, y float32) Vector {
	return Vector{X: x, Y: y}
}

// FromR3 drops the Z component of a 3-D vector, for interop with geometry
// helpers that operate in r3.Vector.
func FromR3(v r3.Vector) Vector {
	return Vector{X: float32(v.X), Y: float32(v.Y)}
}

// ToR3 lifts a 2-D vector into 3-D with Z pinned to zero.
func (v Vector) ToR3() r3.Vector {
	return r3.Vector{X: float64(v.X), Y: float64(v.Y), Z: 0}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float32) Vector {
	return Vector{v.X * s, v.Y * s}
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float32 {
	return v.X*o.X + v.Y*o.Y
}

// LengthSq returns the squared length of v.
func (v Vector) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the Euclidean length of v.
func (v Vector) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vector) DistanceTo(o Vector) float32 {
	return v.Sub(o).Length()
}

// Normalized returns v scaled to unit length, or Zero if v is (near) zero.
func (v Vector) Normalized() Vector {
	l := v.Length()
	if l < 1e-9 {
		return Zero
	}
	return v.Scale(1 / l)
}

// Perpendicular returns v rotated 90 degrees counter-clockwise.
func (v Vector) Perpendicular() Vector {
	return Vector{-v.Y, v.X}
}

// Angle returns the angle of v in radians, in (-pi, pi], as from atan2(y, x).
func (v Vector) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// FromAngle returns a unit vector pointing at angle radians.
func FromAngle(angle float32) Vector {
	s, c := math.Sincos(float64(angle))
	return Vector{float32(c), float32(s)}
}

// IsZero reports whether v is exactly the zero vector.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether both components are finite, non-NaN numbers.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(float64(v.X)) && !math.IsInf(float64(v.X), 0) &&
		!math.IsNaN(float64(v.Y)) && !math.IsInf(float64(v.Y), 0)
}
