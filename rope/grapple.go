package rope

import (
	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

// GrappleRope is thrown from source: the hook end flies to anchor, the tail end to dest
// Endpoints returns (anchor, dest)
type GrappleRope struct {
	base
	source vmath.Vec2
	sim    *physics.Chain
	travel float64
	flight float64 // Seconds of travel elapsed, capped at travel
	hit    bool
	hook   int // Link index flying to the anchor
}

// NewGrappleRope spawns a rope in flight and enters Active
// The target curve hangs from dest (link 0) to anchor (last link)
func NewGrappleRope(env Env, source, anchor, dest vmath.Vec2) *GrappleRope {
	g := &GrappleRope{base: newBase(env, KindGrapple, anchor, dest), source: source}
	cfg := g.env.Config

	segments := cfg.Grapple.Segments
	g.target = vmath.GenerateCurve(dest, anchor, segments, cfg.Up, cfg.Grapple.Sag)
	g.travel = cfg.Grapple.TravelTime.Seconds()
	g.hook = segments

	// Rest lengths come from the target, then every link collapses onto the thrower
	g.sim = g.env.World.CreateChain(g.target, cfg.ChainThickness, cfg.Tuning)
	for i := 0; i <= segments; i++ {
		g.sim.SetLinkPosition(i, source)
	}
	g.sim.PinLink(0, source)
	g.sim.PinLink(g.hook, source)

	g.activate()
	g.pieces.sync(g.sim.Chain(), nil, TintPending)
	return g
}

// Source returns the throw origin
func (g *GrappleRope) Source() vmath.Vec2 {
	return g.source
}

// Anchor returns the hook target
func (g *GrappleRope) Anchor() vmath.Vec2 {
	return g.a
}

// Dest returns where the tail end lands
func (g *GrappleRope) Dest() vmath.Vec2 {
	return g.b
}

// AnchorHit reports whether the hook has reached its anchor, set at most once
func (g *GrappleRope) AnchorHit() bool {
	return g.hit
}

// Mass returns the free link mass of the flying rope, 0 once frozen
func (g *GrappleRope) Mass() float64 {
	if g.sim == nil {
		return 0
	}
	return g.sim.Mass()
}

// Update implements Instrument
func (g *GrappleRope) Update(totalTime, dt float64) {
	g.tick(dt)
	if g.state != StateActive {
		return
	}

	prevHook := g.sim.LinkPosition(g.hook)
	g.flight += dt
	if g.flight >= g.travel-timeEpsilon {
		g.flight = g.travel
	}
	s := g.flight / g.travel
	g.advance(s)

	cfg := g.env.Config
	g.sim.PinLink(0, vmath.ArcPoint(g.source, g.b, s, cfg.Grapple.ArcHeight, cfg.Up))
	g.sim.PinLink(g.hook, vmath.ArcPoint(g.source, g.a, s, cfg.Grapple.ArcHeight, cfg.Up))
	Settle(g.sim, g.target, g.progress, true, true)

	if !g.hit && g.sim.LinkBounds(g.hook).Expand(cfg.Grapple.HookMargin).Contains(g.a) {
		g.hit = true
		speed := 0.0
		if dt > 0 {
			speed = vmath.Dist(prevHook, g.sim.LinkPosition(g.hook)) / dt
		}
		g.emit(event.EventAnchorHit, &event.AnchorHitPayload{ID: g.ID(), Anchor: g.a, Speed: speed})
		g.log.Debug("grapple anchor hit", "anchor", g.a, "flight", g.flight)
	}

	if g.flight >= g.travel {
		final := g.sim.Chain()
		g.destroyChain(g.sim)
		g.sim = nil
		g.complete(final, vmath.Reversed(final), navigation.EdgeClimb, navigation.TagRope)
		g.pieces.sync(final, nil, TintNormal)
		g.pieces.settle(final)
		return
	}
	g.pieces.sync(g.sim.Chain(), nil, TintPending)
}

// OwnerDied freezes a rope still in flight as non-climbable geometry
// Built ropes are unaffected
func (g *GrappleRope) OwnerDied() {
	invariant(g.state != StateTerminated, "owner death on terminated grapple %s", g.id)
	if g.state != StateActive {
		return
	}
	g.final = g.sim.Chain()
	g.destroyChain(g.sim)
	g.sim = nil
	g.state = StateSevered
	g.pieces.sync(g.final, nil, TintPending)
	g.pieces.settle(g.final)
	g.env.Metrics.InstrumentSevered(g.kind.String())
	g.emit(event.EventRopeSevered, g.payload())
	g.log.Info("grapple severed before anchoring", "flight", g.flight)
}

// Shape implements Instrument
func (g *GrappleRope) Shape() []vmath.Vec2 {
	if g.sim != nil {
		return g.sim.Chain()
	}
	return copyPoints(g.final)
}

// Terminate implements Instrument
func (g *GrappleRope) Terminate() {
	g.terminate(func() {
		g.destroyChain(g.sim)
		g.sim = nil
	})
}
