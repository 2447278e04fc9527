package vmath

import "math"

// AABB is an axis-aligned bounding box in world space
type AABB struct {
	Min, Max Vec2
}

// BoxAround returns a square box of half-extent r centered on p
func BoxAround(p Vec2, r float64) AABB {
	return AABB{
		Min: Vec2{p.X - r, p.Y - r},
		Max: Vec2{p.X + r, p.Y + r},
	}
}

// BoundsOf returns the tight box around points, zero box if empty
func BoundsOf(points []Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Contains checks if point is within box (inclusive)
func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Expand grows box by r on every side
func (b AABB) Expand(r float64) AABB {
	return AABB{
		Min: Vec2{b.Min.X - r, b.Min.Y - r},
		Max: Vec2{b.Max.X + r, b.Max.Y + r},
	}
}

// Overlaps checks box-box intersection (inclusive)
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X && b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Center returns the center point of the box
func (b AABB) Center() Vec2 {
	return Midpoint(b.Min, b.Max)
}
