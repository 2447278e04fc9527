package physics

import (
	"github.com/lixenwraith/ropebridge/vmath"
)

// World owns dynamic chains and static collision bodies and steps them once per frame
// Single-threaded: callers step the world before reading chain positions in the same frame
type World struct {
	chains []*Chain
	bodies []*StaticBody
}

// NewWorld creates an empty physics world
func NewWorld() *World {
	return &World{
		chains: make([]*Chain, 0, 16),
		bodies: make([]*StaticBody, 0, 16),
	}
}

// CreateChain builds a chain through points and registers it for stepping
func (w *World) CreateChain(points []vmath.Vec2, thickness float64, tuning ChainTuning) *Chain {
	c := NewChain(points, thickness, tuning)
	w.chains = append(w.chains, c)
	return c
}

// DestroyChain releases chain resources and stops stepping it, idempotent and nil-safe
func (w *World) DestroyChain(c *Chain) {
	if c == nil {
		return
	}
	for i, existing := range w.chains {
		if existing == c {
			// Preserve creation order for deterministic stepping
			copy(w.chains[i:], w.chains[i+1:])
			w.chains[len(w.chains)-1] = nil
			w.chains = w.chains[:len(w.chains)-1]
			break
		}
	}
	c.Release()
}

// CreateStaticBody registers a collision polyline
func (w *World) CreateStaticBody(points []vmath.Vec2, thickness float64) *StaticBody {
	b := newStaticBody(points, thickness)
	w.bodies = append(w.bodies, b)
	return b
}

// DestroyBody removes a collision polyline, idempotent and nil-safe
func (w *World) DestroyBody(b *StaticBody) {
	if b == nil {
		return
	}
	for i, existing := range w.bodies {
		if existing == b {
			copy(w.bodies[i:], w.bodies[i+1:])
			w.bodies[len(w.bodies)-1] = nil
			w.bodies = w.bodies[:len(w.bodies)-1]
			break
		}
	}
	b.release()
}

// Step advances every live chain by dt
func (w *World) Step(dt float64) {
	for _, c := range w.chains {
		c.Advance(dt)
	}
}

// ActiveChains returns the number of live chains
func (w *World) ActiveChains() int {
	return len(w.chains)
}

// ActiveBodies returns the number of live collision bodies
func (w *World) ActiveBodies() int {
	return len(w.bodies)
}

// RayCast returns the nearest intersection of a-b with any live collision body
func (w *World) RayCast(a, b vmath.Vec2) (vmath.Vec2, bool) {
	best := 2.0
	var bestHit vmath.Vec2
	for _, body := range w.bodies {
		if hit, t, ok := body.RayCast(a, b); ok && t < best {
			best = t
			bestHit = hit
		}
	}
	return bestHit, best <= 1
}
