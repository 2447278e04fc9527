package physics

import (
	"github.com/lixenwraith/ropebridge/vmath"
)

// StaticBody is a non-simulated collision polyline
// Bridge fronts rebuild theirs each tick as slats deploy
type StaticBody struct {
	points    []vmath.Vec2
	thickness float64
	bounds    vmath.AABB
	released  bool
}

func newStaticBody(points []vmath.Vec2, thickness float64) *StaticBody {
	b := &StaticBody{thickness: thickness}
	b.SetPoints(points)
	return b
}

// SetPoints replaces the collision polyline, copying the input
func (b *StaticBody) SetPoints(points []vmath.Vec2) {
	if b.released {
		panic("physics: operation on released body")
	}
	b.points = append(b.points[:0], points...)
	b.bounds = vmath.BoundsOf(b.points).Expand(b.thickness * 0.5)
}

// Points returns a copy of the collision polyline
func (b *StaticBody) Points() []vmath.Vec2 {
	out := make([]vmath.Vec2, len(b.points))
	copy(out, b.points)
	return out
}

// Bounds returns the thickness-expanded bounding box
func (b *StaticBody) Bounds() vmath.AABB {
	return b.bounds
}

// Released reports whether the body was destroyed
func (b *StaticBody) Released() bool {
	return b.released
}

func (b *StaticBody) release() {
	b.released = true
	b.points = nil
}

// RayCast returns the first hit of segment a-b with the polyline and its parameter along a-b
func (b *StaticBody) RayCast(a, c vmath.Vec2) (vmath.Vec2, float64, bool) {
	if b.released || len(b.points) < 2 {
		return vmath.Vec2{}, 0, false
	}
	if !vmath.BoundsOf([]vmath.Vec2{a, c}).Overlaps(b.bounds) {
		return vmath.Vec2{}, 0, false
	}
	best := 2.0
	var bestHit vmath.Vec2
	for i := 1; i < len(b.points); i++ {
		if hit, t, ok := vmath.SegmentIntersect(a, c, b.points[i-1], b.points[i]); ok && t < best {
			best = t
			bestHit = hit
		}
	}
	return bestHit, best, best <= 1
}
