// Package geom provides the 3-component vector type used throughout parkgen.
//
// The coordinate frame is Y-up: X and Z span the ground plane and Y is height.
// [Vec3] is a value type; every operation returns a new vector.
package geom

import (
	"fmt"
	"math"
)

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X float64 `json:"x" bson:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" bson:"y" toml:"y" yaml:"y"`
	Z float64 `json:"z" bson:"z" toml:"z" yaml:"z"`
}

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Splat returns a vector with all three components set to s.
func Splat(s float64) Vec3 { return Vec3{s, s, s} }

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Neg returns -a.
func (a Vec3) Neg() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Sub is defined as a + (-b).
func (a Vec3) Sub(b Vec3) Vec3 { return a.Add(b.Neg()) }

// Mul multiplies component-wise. Use [Vec3.Dot] for the scalar product.
func (a Vec3) Mul(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

// Scale multiplies every component by s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot is the scalar product.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Norm is the Euclidean length.
func (a Vec3) Norm() float64 { return math.Sqrt(a.Dot(a)) }

// Dist is the Euclidean distance between a and b.
func (a Vec3) Dist(b Vec3) float64 { return b.Sub(a).Norm() }

// Horizontal drops the vertical component.
func (a Vec3) Horizontal() Vec3 { return Vec3{a.X, 0, a.Z} }

// WithY returns a with its height replaced by y.
func (a Vec3) WithY(y float64) Vec3 { return Vec3{a.X, y, a.Z} }

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool { return finite(a.X) && finite(a.Y) && finite(a.Z) }

func (a Vec3) String() string { return fmt.Sprintf("(%.3f, %.3f, %.3f)", a.X, a.Y, a.Z) }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// HorizontalDist is the distance between a and b projected onto the ground plane.
func (a Vec3) HorizontalDist(b Vec3) float64 {
	dx, dz := b.X-a.X, b.Z-a.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Unit returns a scaled to length one. ok is false when a has zero length,
// in which case the zero vector is returned.
func (a Vec3) Unit() (u Vec3, ok bool) {
	n := a.Norm()
	if n == 0 || !finite(n) {
		return Vec3{}, false
	}
	return a.Scale(1 / n), true
}

// RotateY rotates a about the vertical axis by deg degrees. Positive angles
// turn +Z toward +X, matching a right-handed Y-up frame.
func (a Vec3) RotateY(deg float64) Vec3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Vec3{
		X: a.X*c + a.Z*s,
		Y: a.Y,
		Z: -a.X*s + a.Z*c,
	}
}
