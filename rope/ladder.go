package rope

import (
	"math"

	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/vmath"
)

// Ladder is built at spawn, validity only affects its tint
type Ladder struct {
	base
	valid bool
	rungs []vmath.Vec2
}

// NewLadder registers a climbable edge from top to bottom immediately
func NewLadder(env Env, top, bottom vmath.Vec2, valid bool) *Ladder {
	l := &Ladder{base: newBase(env, KindLadder, top, bottom), valid: valid}
	cfg := l.env.Config

	l.target = []vmath.Vec2{top, bottom}
	n := int(math.Ceil(vmath.Dist(top, bottom) / cfg.Ladder.RungSpacing))
	if n < 1 {
		n = 1
	}
	l.rungs = vmath.Resample(l.target, n+1)

	l.activate()
	l.complete(l.target, l.target, navigation.EdgeClimb, navigation.TagWood)
	l.pieces.sync(l.rungs, nil, l.tint())
	return l
}

func (l *Ladder) tint() Tint {
	if l.valid {
		return TintNormal
	}
	return TintInvalid
}

// Valid reports whether placement passed validation
func (l *Ladder) Valid() bool {
	return l.valid
}

// Rungs returns the drawn rung positions from top to bottom
func (l *Ladder) Rungs() []vmath.Vec2 {
	return copyPoints(l.rungs)
}

// Update implements Instrument, a ladder has nothing to advance
func (l *Ladder) Update(totalTime, dt float64) {
	l.tick(dt)
}

// Shape implements Instrument
func (l *Ladder) Shape() []vmath.Vec2 {
	return copyPoints(l.final)
}

// Terminate implements Instrument
func (l *Ladder) Terminate() {
	l.terminate(func() {
		l.rungs = nil
	})
}
