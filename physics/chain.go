package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/ropebridge/parameter"
	"github.com/lixenwraith/ropebridge/vmath"
)

// ChainTuning defines integration parameters for a dynamic chain
// Tunings are typically pre-defined as package variables for zero allocation
type ChainTuning struct {
	Gravity          vmath.Vec2 // World units/sec²
	Damping          float64    // Exponential velocity damping per second
	Iterations       int        // Constraint solver passes per Advance
	StretchStiffness float64    // 1 = rigid links, <1 = elastic
	LinkMass         float64    // Mass of each free link
}

// DefaultChainTuning is the rope/bridge tuning used by instruments
var DefaultChainTuning = ChainTuning{
	Gravity:          vmath.V2(0, parameter.GravityFloat),
	Damping:          parameter.ChainDampingFloat,
	Iterations:       parameter.ChainSolverIterations,
	StretchStiffness: parameter.ChainStretchStiffnessFloat,
	LinkMass:         parameter.ChainLinkMassFloat,
}

// Chain is a position-based multi-link rope
// Link order is stable and link count never changes after construction
// Forced writes persist until overwritten by the next Advance
type Chain struct {
	ps  []vmath.Vec2 // Current positions
	p0s []vmath.Vec2 // Positions at start of step
	vs  []vmath.Vec2 // Velocities

	invMasses []float64
	pinned    []bool
	pins      []vmath.Vec2

	rest []float64 // Rest length of link i -> i+1

	thickness float64
	tuning    ChainTuning
	released  bool
}

// NewChain creates a chain through points, rest lengths are taken from the initial spacing
// Panics on fewer than two points
func NewChain(points []vmath.Vec2, thickness float64, tuning ChainTuning) *Chain {
	if len(points) < 2 {
		panic(fmt.Sprintf("physics: chain needs at least 2 links, got %d", len(points)))
	}
	n := len(points)
	c := &Chain{
		ps:        make([]vmath.Vec2, n),
		p0s:       make([]vmath.Vec2, n),
		vs:        make([]vmath.Vec2, n),
		invMasses: make([]float64, n),
		pinned:    make([]bool, n),
		pins:      make([]vmath.Vec2, n),
		rest:      make([]float64, n-1),
		thickness: thickness,
		tuning:    tuning,
	}
	if c.tuning.Iterations < 1 {
		c.tuning.Iterations = 1
	}

	invMass := 0.0
	if tuning.LinkMass > 0 {
		invMass = 1.0 / tuning.LinkMass
	}
	for i, p := range points {
		c.ps[i] = p
		c.p0s[i] = p
		c.invMasses[i] = invMass
	}
	for i := 0; i < n-1; i++ {
		c.rest[i] = vmath.Dist(points[i], points[i+1])
	}
	return c
}

func (c *Chain) mustLive() {
	if c.released {
		panic("physics: operation on released chain")
	}
}

func (c *Chain) mustIndex(i int) {
	if i < 0 || i >= len(c.ps) {
		panic(fmt.Sprintf("physics: link index %d out of range [0,%d)", i, len(c.ps)))
	}
}

// Len returns the link count
func (c *Chain) Len() int {
	return len(c.ps)
}

// Thickness returns per-link thickness
func (c *Chain) Thickness() float64 {
	return c.thickness
}

// Released reports whether the chain's resources were returned
func (c *Chain) Released() bool {
	return c.released
}

// Release drops simulation state, idempotent
func (c *Chain) Release() {
	if c.released {
		return
	}
	c.released = true
	c.ps, c.p0s, c.vs = nil, nil, nil
	c.invMasses, c.pinned, c.pins, c.rest = nil, nil, nil, nil
}

// Advance integrates gravity and damping then solves stretch constraints
func (c *Chain) Advance(dt float64) {
	c.mustLive()
	if dt <= 0 {
		return
	}

	invDt := 1.0 / dt
	d := math.Exp(-dt * c.tuning.Damping)
	g := c.tuning.Gravity.Scale(dt)

	// Apply gravity and damping, move pinned links to their anchors
	for i := range c.ps {
		c.p0s[i] = c.ps[i]
		if c.pinned[i] {
			c.ps[i] = c.pins[i]
			c.vs[i] = vmath.Vec2{}
			continue
		}
		c.vs[i] = c.vs[i].Scale(d).Add(g)
		c.ps[i] = c.ps[i].Add(c.vs[i].Scale(dt))
	}

	for it := 0; it < c.tuning.Iterations; it++ {
		c.solveStretch()
	}

	// Constrain velocity
	for i := range c.ps {
		if c.pinned[i] {
			continue
		}
		c.vs[i] = c.ps[i].Sub(c.p0s[i]).Scale(invDt)
	}
}

// solveStretch projects each link pair back toward its rest length
func (c *Chain) solveStretch() {
	k := c.tuning.StretchStiffness
	for i, rest := range c.rest {
		im1, im2 := c.invMass(i), c.invMass(i+1)
		sum := im1 + im2
		if sum == 0 {
			continue
		}
		delta := c.ps[i+1].Sub(c.ps[i])
		l := delta.Len()
		if l < vmath.Epsilon {
			continue
		}
		s := k * (l - rest) / (l * sum)
		c.ps[i] = c.ps[i].Add(delta.Scale(s * im1))
		c.ps[i+1] = c.ps[i+1].Sub(delta.Scale(s * im2))
	}
}

func (c *Chain) invMass(i int) float64 {
	if c.pinned[i] {
		return 0
	}
	return c.invMasses[i]
}

// LinkPosition returns current position of link i
func (c *Chain) LinkPosition(i int) vmath.Vec2 {
	c.mustLive()
	c.mustIndex(i)
	return c.ps[i]
}

// SetLinkPosition forces link i to pos without injecting velocity
func (c *Chain) SetLinkPosition(i int, pos vmath.Vec2) {
	c.mustLive()
	c.mustIndex(i)
	c.ps[i] = pos
	c.p0s[i] = pos
	if c.pinned[i] {
		c.pins[i] = pos
	}
}

// PinLink fixes link i at worldPos until unpinned
func (c *Chain) PinLink(i int, worldPos vmath.Vec2) {
	c.mustLive()
	c.mustIndex(i)
	c.pinned[i] = true
	c.pins[i] = worldPos
	c.ps[i] = worldPos
	c.p0s[i] = worldPos
	c.vs[i] = vmath.Vec2{}
}

// UnpinLink returns link i to free simulation
func (c *Chain) UnpinLink(i int) {
	c.mustLive()
	c.mustIndex(i)
	c.pinned[i] = false
}

// IsPinned reports whether link i is fixed
func (c *Chain) IsPinned(i int) bool {
	c.mustLive()
	c.mustIndex(i)
	return c.pinned[i]
}

// Chain returns a copy of all link positions in order
func (c *Chain) Chain() []vmath.Vec2 {
	c.mustLive()
	out := make([]vmath.Vec2, len(c.ps))
	copy(out, c.ps)
	return out
}

// LinkBounds returns the box covered by link i given the chain thickness
func (c *Chain) LinkBounds(i int) vmath.AABB {
	c.mustLive()
	c.mustIndex(i)
	return vmath.BoxAround(c.ps[i], c.thickness*0.5)
}

// Mass returns total mass of free links
func (c *Chain) Mass() float64 {
	c.mustLive()
	total := 0.0
	for i, im := range c.invMasses {
		if im > 0 && !c.pinned[i] {
			total += 1.0 / im
		}
	}
	return total
}

// ApplyImpulse adds velocity delta to link i scaled by its inverse mass
func (c *Chain) ApplyImpulse(i int, impulse vmath.Vec2) {
	c.mustLive()
	c.mustIndex(i)
	c.vs[i] = c.vs[i].Add(impulse.Scale(c.invMass(i)))
}

// Velocity returns current velocity of link i
func (c *Chain) Velocity(i int) vmath.Vec2 {
	c.mustLive()
	c.mustIndex(i)
	return c.vs[i]
}
