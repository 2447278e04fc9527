package vmath

import (
	"math"
)

// Epsilon is the distance below which two positions are treated as coincident
const Epsilon = 1e-9

// Vec2 is a float64 2D vector in world space
// Screen convention: +X right, +Y down
type Vec2 struct {
	X, Y float64
}

// V2 is a shorthand constructor
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Up is the world "up" direction (screen Y grows downward)
var Up = Vec2{X: 0, Y: -1}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns unit vector, zero-safe
func (v Vec2) Normalize() Vec2 {
	mag := v.Len()
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// Perp returns vector rotated 90° counter-clockwise
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// IsFinite reports whether both components are finite numbers
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Near reports whether v is within tol of o
func (v Vec2) Near(o Vec2, tol float64) bool {
	return v.Sub(o).LenSq() <= tol*tol
}

// Dist returns Euclidean distance between two points
func Dist(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// Lerp performs linear interpolation between a and b, t=0 returns a, t=1 returns b
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Clamp01 limits a scalar to [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Midpoint returns the point halfway between a and b
func Midpoint(a, b Vec2) Vec2 {
	return Vec2{(a.X + b.X) * 0.5, (a.Y + b.Y) * 0.5}
}

// Angle returns the direction of v in radians, measured from +X
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}
