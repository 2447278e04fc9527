package rope

import (
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

// TimedBridge builds itself over a fixed duration while its builder flag is held
type TimedBridge struct {
	base
	sim       *physics.Chain
	total     float64
	remaining float64
	building  bool
}

// NewTimedBridge spawns a bridge between two snapped ledge points and enters Active
// The live chain starts as a taut line and settles toward the catenary as time elapses
func NewTimedBridge(env Env, a, b vmath.Vec2) *TimedBridge {
	tb := &TimedBridge{base: newBase(env, KindTimedBridge, a, b)}
	cfg := tb.env.Config

	segments := cfg.bridgeSegments(a, b)
	tb.target = vmath.GenerateCurve(a, b, segments, cfg.Up, cfg.Bridge.Sag)
	tb.total = cfg.Bridge.BuildTime.Seconds()
	tb.remaining = tb.total

	tb.sim = tb.env.World.CreateChain(tb.target, cfg.ChainThickness, cfg.Tuning)
	tb.sim.PinLink(0, a)
	tb.sim.PinLink(segments, b)
	for i := 1; i < segments; i++ {
		tb.sim.SetLinkPosition(i, vmath.Lerp(a, b, float64(i)/float64(segments)))
	}

	tb.activate()
	tb.pieces.sync(tb.sim.Chain(), nil, TintPending)
	return tb
}

// SetBuilding gates the countdown, set by whoever is constructing the bridge
func (tb *TimedBridge) SetBuilding(building bool) {
	tb.building = building
}

// Building reports the builder flag
func (tb *TimedBridge) Building() bool {
	return tb.building
}

// Remaining returns seconds of building left
func (tb *TimedBridge) Remaining() float64 {
	if tb.remaining < 0 {
		return 0
	}
	return tb.remaining
}

// Update implements Instrument
func (tb *TimedBridge) Update(totalTime, dt float64) {
	tb.tick(dt)
	if tb.state != StateActive {
		return
	}

	if tb.building && dt > 0 {
		tb.remaining -= dt
		if tb.remaining <= timeEpsilon {
			tb.remaining = 0
		}
	}
	tb.advance(1 - tb.remaining/tb.total)
	Settle(tb.sim, tb.target, tb.progress, true, true)

	if tb.remaining <= 0 {
		final := tb.sim.Chain()
		tb.destroyChain(tb.sim)
		tb.sim = nil
		tb.complete(final, final, navigation.EdgeWalk, navigation.TagWood)
		tb.pieces.sync(final, nil, TintNormal)
		tb.pieces.settle(final)
		return
	}
	tb.pieces.sync(tb.sim.Chain(), nil, TintPending)
}

// Shape implements Instrument
func (tb *TimedBridge) Shape() []vmath.Vec2 {
	if tb.sim != nil {
		return tb.sim.Chain()
	}
	return copyPoints(tb.final)
}

// Terminate implements Instrument
func (tb *TimedBridge) Terminate() {
	tb.terminate(func() {
		tb.destroyChain(tb.sim)
		tb.sim = nil
	})
}
