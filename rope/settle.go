package rope

import (
	"github.com/lixenwraith/ropebridge/vmath"
)

// LinkSim is the simulator surface settling writes through
type LinkSim interface {
	Len() int
	LinkPosition(i int) vmath.Vec2
	SetLinkPosition(i int, pos vmath.Vec2)
}

// Settle blends every non-pinned link toward its target by p
// At p >= 1 links are written to the target exactly
// Panics when target and live chain lengths differ
func Settle(sim LinkSim, target []vmath.Vec2, p float64, pinFirst, pinLast bool) {
	n := sim.Len()
	invariant(len(target) == n, "settle target has %d points, live chain has %d links", len(target), n)

	lo, hi := 0, n
	if pinFirst {
		lo = 1
	}
	if pinLast {
		hi = n - 1
	}
	settleRange(sim, target, p, lo, hi)
}

// settleRange blends links [lo, hi)
func settleRange(sim LinkSim, target []vmath.Vec2, p float64, lo, hi int) {
	p = vmath.Clamp01(p)
	if p == 0 {
		return
	}
	for i := lo; i < hi; i++ {
		if p == 1 {
			sim.SetLinkPosition(i, target[i])
			continue
		}
		sim.SetLinkPosition(i, vmath.Lerp(sim.LinkPosition(i), target[i], p))
	}
}
