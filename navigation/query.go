package navigation

import (
	"github.com/lixenwraith/ropebridge/parameter"
	"github.com/lixenwraith/ropebridge/vmath"
)

// FindLedge snaps pos to the nearest ledge within radius
// A ledge is a walkable edge endpoint not continued by another walkable edge
// Returns nil if no ledge qualifies
func (g *Graph) FindLedge(pos vmath.Vec2, radius float64) *Hit {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var best *Hit
	bestDistSq := radius * radius
	g.index.query(vmath.BoxAround(pos, radius), func(e *Edge) bool {
		if !e.Type.Walkable() {
			return true
		}
		ends := [2]int{0, len(e.Points) - 1}
		for _, idx := range ends {
			p := e.Points[idx]
			d := p.Sub(pos).LenSq()
			if d > bestDistSq || !g.isDeadEnd(e, p) {
				continue
			}
			bestDistSq = d
			best = &Hit{
				Pos:    p,
				Normal: endNormal(e.Points, idx),
				Tag:    e.Tag,
				Type:   e.Type,
				Handle: e.Handle,
			}
		}
		return true
	})
	return best
}

// isDeadEnd reports whether no other walkable edge has an endpoint welded to p
// Caller holds the read lock
func (g *Graph) isDeadEnd(owner *Edge, p vmath.Vec2) bool {
	dead := true
	weld := parameter.NavWeldDistance
	g.index.query(vmath.BoxAround(p, weld), func(e *Edge) bool {
		if e == owner || !e.Type.Walkable() {
			return true
		}
		if e.Points[0].Near(p, weld) || e.Points[len(e.Points)-1].Near(p, weld) {
			dead = false
			return false
		}
		return true
	})
	return dead
}

func endNormal(points []vmath.Vec2, idx int) vmath.Vec2 {
	if idx == 0 {
		return vmath.SegmentNormal(points[0], points[1])
	}
	return vmath.SegmentNormal(points[idx-1], points[idx])
}

// FindPathEdge snaps pos to the nearest point on any edge selected by mask within radius
// Returns nil if nothing qualifies
func (g *Graph) FindPathEdge(pos vmath.Vec2, radius float64, mask EdgeMask) *Hit {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var best *Hit
	bestDistSq := radius * radius
	g.index.query(vmath.BoxAround(pos, radius), func(e *Edge) bool {
		if !mask.Has(e.Type) || !e.Bounds.Expand(radius).Contains(pos) {
			return true
		}
		for i := 1; i < len(e.Points); i++ {
			a, b := e.Points[i-1], e.Points[i]
			p := vmath.ClosestPointOnSegment(pos, a, b)
			d := p.Sub(pos).LenSq()
			if d > bestDistSq {
				continue
			}
			bestDistSq = d
			best = &Hit{
				Pos:    p,
				Normal: vmath.SegmentNormal(a, b),
				Tag:    e.Tag,
				Type:   e.Type,
				Handle: e.Handle,
			}
		}
		return true
	})
	return best
}

// RayCastTerrain returns the first solid terrain contact along from-to, nil if clear
func (g *Graph) RayCastTerrain(from, to vmath.Vec2) *Hit {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var best *Hit
	g.index.query(vmath.BoundsOf([]vmath.Vec2{from, to}), func(e *Edge) bool {
		if !e.Type.Solid() {
			return true
		}
		for i := 1; i < len(e.Points); i++ {
			a, b := e.Points[i-1], e.Points[i]
			hit, t, ok := vmath.SegmentIntersect(from, to, a, b)
			if !ok || (best != nil && t >= best.T) {
				continue
			}
			best = &Hit{
				Pos:    hit,
				Normal: vmath.SegmentNormal(a, b),
				Tag:    e.Tag,
				Type:   e.Type,
				Handle: e.Handle,
				T:      t,
			}
		}
		return true
	})
	return best
}
