package rope

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

// ErrInvalidCheckpoint is wrapped when a checkpoint cannot be restored against the current config
var ErrInvalidCheckpoint = errors.New("rope: invalid paid bridge checkpoint")

// Front sides
const (
	FrontA = 0 // Grows from a toward the split joint
	FrontB = 1 // Grows from b toward the split joint
)

// front is one construction half with its own chain, collision body and slats
type front struct {
	side   int
	target []vmath.Vec2 // Anchor to split joint
	cum    []float64
	length float64
	sim    *physics.Chain
	body   *physics.StaticBody
	perc   float64
	slats  int
}

func (f *front) segments() int {
	return len(f.target) - 1
}

func (f *front) deployed() float64 {
	return f.perc * f.length
}

// tip is the furthest deployed point along the target, exact at either end
func (f *front) tip() vmath.Vec2 {
	if f.perc >= 1 {
		return f.target[len(f.target)-1]
	}
	return vmath.PointAtLength(f.target, f.deployed())
}

// grow consumes up to units of segment-weighted progress and returns what was used
func (f *front) grow(units float64) float64 {
	segs := float64(f.segments())
	room := (1 - f.perc) * segs
	take := math.Min(units, room)
	if take <= 0 {
		return 0
	}
	f.perc += take / segs
	if f.perc > 1-1e-12 {
		f.perc = 1
	}
	return take
}

// shape holds undeployed links at the tip and settles deployed ones toward the target
// Returns true when a new slat deployed
func (f *front) shape() bool {
	last := len(f.target) - 1
	tip := f.tip()
	reach := f.deployed() + vmath.Epsilon

	f.sim.PinLink(last, tip)
	slats := 0
	for i := 1; i <= last; i++ {
		if f.cum[i] <= reach || f.perc >= 1 {
			slats = i
		}
	}
	settleRange(f.sim, f.target, f.perc, 1, min(slats+1, last))
	for i := slats + 1; i < last; i++ {
		f.sim.SetLinkPosition(i, tip)
	}

	// Collision covers the deployed links and the tip
	surface := f.sim.Chain()[:slats+1]
	if slats < last {
		surface = append(surface, tip)
	}
	f.body.SetPoints(surface)

	advanced := slats > f.slats
	f.slats = slats
	return advanced
}

// Checkpoint is the persisted state of a paid bridge
// Split is stored so restoration never redraws the meeting joint
type Checkpoint struct {
	A, B      vmath.Vec2
	BuildPerc float64
	Paid      float64
	Split     int
	Seed      int64
}

// PaidBridge is built by two fronts that advance as payment arrives and meet at a random joint
type PaidBridge struct {
	base
	segments  int
	split     int
	seed      int64
	fronts    [2]*front
	totalCost float64
	totalTime float64

	paid      float64 // Fraction of total cost received, never above 1
	pending   float64 // Fraction received since last Update
	speed     float64 // Last builder speed multiplier
	preferred int     // Front favored by BuildAt, -1 splits evenly
}

// NewPaidBridge spawns a bridge at buildPerc with the split joint drawn from seed
func NewPaidBridge(env Env, a, b vmath.Vec2, buildPerc float64, seed int64) *PaidBridge {
	segments := env.Config.bridgeSegments(a, b)
	split := chooseSplit(rand.New(rand.NewSource(seed)), segments, env.Config.Paid)
	return newPaidBridge(env, a, b, vmath.Clamp01(buildPerc), 0, split, seed)
}

// RestorePaidBridge rebuilds a bridge from a checkpoint, keeping its stored split joint
func RestorePaidBridge(env Env, cp Checkpoint) (*PaidBridge, error) {
	if math.IsNaN(cp.BuildPerc) || cp.BuildPerc < 0 || cp.BuildPerc > 1 {
		return nil, fmt.Errorf("%w: build percentage %v outside [0, 1]", ErrInvalidCheckpoint, cp.BuildPerc)
	}
	if math.IsNaN(cp.Paid) || cp.Paid > 1 {
		return nil, fmt.Errorf("%w: paid fraction %v above 1", ErrInvalidCheckpoint, cp.Paid)
	}
	if !cp.A.IsFinite() || !cp.B.IsFinite() || cp.A.Near(cp.B, vmath.Epsilon) {
		return nil, fmt.Errorf("%w: endpoints %v %v", ErrInvalidCheckpoint, cp.A, cp.B)
	}
	segments := env.Config.bridgeSegments(cp.A, cp.B)
	if cp.Split < 1 || cp.Split > segments-1 {
		return nil, fmt.Errorf("%w: split %d outside [1, %d]", ErrInvalidCheckpoint, cp.Split, segments-1)
	}
	return newPaidBridge(env, cp.A, cp.B, cp.BuildPerc, cp.Paid, cp.Split, cp.Seed), nil
}

func newPaidBridge(env Env, a, b vmath.Vec2, buildPerc, paid float64, split int, seed int64) *PaidBridge {
	pb := &PaidBridge{
		base:      newBase(env, KindPaidBridge, a, b),
		split:     split,
		seed:      seed,
		preferred: -1,
	}
	cfg := pb.env.Config

	pb.segments = cfg.bridgeSegments(a, b)
	pb.target = vmath.GenerateCurve(a, b, pb.segments, cfg.Up, cfg.Bridge.Sag)
	pb.totalCost = math.Max(cfg.Paid.MinCost, cfg.Paid.CostPerUnit*vmath.Dist(a, b))
	pb.totalTime = cfg.Paid.TotalBuildTime.Seconds()
	pb.progress = buildPerc
	pb.paid = math.Max(paid, buildPerc)

	halves := [2][]vmath.Vec2{
		copyPoints(pb.target[:split+1]),
		vmath.Reversed(pb.target[split:]),
	}
	for side, target := range halves {
		f := &front{
			side:   side,
			target: target,
			cum:    vmath.CumulativeLengths(target),
			perc:   buildPerc,
		}
		f.length = f.cum[len(f.cum)-1]
		f.sim = pb.env.World.CreateChain(target, cfg.ChainThickness, cfg.Tuning)
		f.sim.PinLink(0, target[0])
		f.body = pb.env.World.CreateStaticBody([]vmath.Vec2{target[0]}, cfg.ChainThickness)
		f.shape()
		pb.fronts[side] = f
	}

	pb.activate()
	pb.log.Debug("paid bridge fronts ready", "split", split, "segments", pb.segments, "cost", pb.totalCost, "build_perc", buildPerc)
	pb.syncPieces()
	return pb
}

// chooseSplit draws the meeting joint inside the configured middle band
func chooseSplit(rng *rand.Rand, segments int, cfg PaidConfig) int {
	lo := int(math.Ceil(cfg.SplitBandMin * float64(segments)))
	hi := int(math.Floor(cfg.SplitBandMax * float64(segments)))
	lo = clampInt(lo, 1, segments-1)
	hi = clampInt(hi, lo, segments-1)
	return lo + rng.Intn(hi-lo+1)
}

// Build credits payment toward the bridge, splitting progress evenly between fronts
// Negative payment or multiplier count as zero, payment beyond the total cost is discarded
func (pb *PaidBridge) Build(payment, speedMultiplier float64) {
	invariant(pb.state != StateTerminated, "build on terminated paid bridge %s", pb.id)
	if pb.state != StateActive {
		return
	}
	pb.credit(payment, speedMultiplier)
	pb.preferred = -1
}

// BuildAt credits payment from a builder standing at pos, favoring the nearer front
// Returns false and credits nothing when pos is beyond the build radius of both front tips
func (pb *PaidBridge) BuildAt(pos vmath.Vec2, payment, speedMultiplier float64) bool {
	invariant(pb.state != StateTerminated, "build on terminated paid bridge %s", pb.id)
	if pb.state != StateActive {
		return false
	}
	nearest, best := -1, pb.env.Config.Paid.BuildRadius
	for side, f := range pb.fronts {
		if d := vmath.Dist(pos, f.tip()); d <= best {
			nearest, best = side, d
		}
	}
	if nearest < 0 {
		return false
	}
	pb.credit(payment, speedMultiplier)
	pb.preferred = nearest
	return true
}

func (pb *PaidBridge) credit(payment, speedMultiplier float64) {
	if math.IsNaN(speedMultiplier) || speedMultiplier < 0 {
		speedMultiplier = 0
	}
	pb.speed = speedMultiplier
	if math.IsNaN(payment) || payment <= 0 {
		return
	}
	frac := math.Min(payment/pb.totalCost, 1-pb.paid)
	pb.paid += frac
	pb.pending += frac
}

// Update implements Instrument
func (pb *PaidBridge) Update(totalTime, dt float64) {
	pb.tick(dt)
	if pb.state != StateActive {
		return
	}

	if dt > 0 {
		// Lump payments may exceed the time-based rate and finish in one tick
		step := math.Max(dt/pb.totalTime*pb.speed, pb.pending)
		step = math.Min(step, pb.paid-pb.progress)
		pb.pending = 0
		if step > 0 {
			pb.distribute(step)
		}
	}

	for _, f := range pb.fronts {
		if f.shape() {
			pb.emit(event.EventFrontAdvanced, &event.FrontAdvancedPayload{
				ID:       pb.ID(),
				Front:    f.side,
				Slats:    f.slats,
				Tip:      f.tip(),
				Progress: pb.progress,
			})
		}
	}

	if pb.progress >= 1 {
		pb.finish()
		return
	}
	pb.syncPieces()
}

// distribute converts a combined step into per-front growth
func (pb *PaidBridge) distribute(step float64) {
	units := step * float64(pb.segments)
	order := [2]int{FrontA, FrontB}
	switch pb.preferred {
	case FrontB:
		order = [2]int{FrontB, FrontA}
	case -1:
		half := units / 2
		units -= pb.fronts[FrontA].grow(half)
		units -= pb.fronts[FrontB].grow(half)
	}
	// Overflow from a finished front goes to the other
	for _, side := range order {
		units -= pb.fronts[side].grow(units)
	}

	a, b := pb.fronts[FrontA], pb.fronts[FrontB]
	combined := (a.perc*float64(a.segments()) + b.perc*float64(b.segments())) / float64(pb.segments)
	pb.advance(combined)
}

func (pb *PaidBridge) finish() {
	a, b := pb.fronts[FrontA], pb.fronts[FrontB]
	a.perc, b.perc = 1, 1
	a.shape()
	b.shape()

	jointsA, jointsB := a.sim.Chain(), b.sim.Chain()
	pb.release()

	final := append(copyPoints(jointsA), vmath.Reversed(jointsB)[1:]...)
	pb.complete(final, bridgeWalk(jointsA, jointsB), navigation.EdgeWalk, navigation.TagWood)
	pb.pieces.sync(final, nil, TintNormal)
	pb.pieces.settle(final)
}

// release destroys both fronts' chains and collision bodies, idempotent
func (pb *PaidBridge) release() {
	for _, f := range pb.fronts {
		if f == nil {
			continue
		}
		pb.destroyChain(f.sim)
		pb.env.World.DestroyBody(f.body)
		f.sim, f.body = nil, nil
	}
}

// syncPieces shows only deployed slats, front B pieces are indexed from the a side
func (pb *PaidBridge) syncPieces() {
	a, b := pb.fronts[FrontA], pb.fronts[FrontB]
	visible := func(i int) bool {
		if i < pb.split {
			return i < a.slats
		}
		return pb.segments-1-i < b.slats
	}
	pb.pieces.sync(pb.liveShape(), visible, TintPending)
}

func (pb *PaidBridge) liveShape() []vmath.Vec2 {
	a, b := pb.fronts[FrontA], pb.fronts[FrontB]
	chainA, chainB := a.sim.Chain(), b.sim.Chain()
	return append(chainA, vmath.Reversed(chainB)[1:]...)
}

// Shape implements Instrument, a to b across both fronts
func (pb *PaidBridge) Shape() []vmath.Vec2 {
	if pb.state == StateActive {
		return pb.liveShape()
	}
	return copyPoints(pb.final)
}

// Terminate implements Instrument
func (pb *PaidBridge) Terminate() {
	pb.terminate(pb.release)
}

// Checkpoint captures the state needed to restore this bridge
func (pb *PaidBridge) Checkpoint() Checkpoint {
	return Checkpoint{
		A:         pb.a,
		B:         pb.b,
		BuildPerc: pb.progress,
		Paid:      pb.paid,
		Split:     pb.split,
		Seed:      pb.seed,
	}
}

// TotalCost is the payment that covers the whole bridge
func (pb *PaidBridge) TotalCost() float64 {
	return pb.totalCost
}

// Paid returns the fraction of TotalCost received
func (pb *PaidBridge) Paid() float64 {
	return pb.paid
}

// Split returns the joint index where the fronts meet
func (pb *PaidBridge) Split() int {
	return pb.split
}

// FrontProgress returns a front's own completion in [0, 1]
func (pb *PaidBridge) FrontProgress(side int) float64 {
	return pb.fronts[side].perc
}

// FrontTip returns a front's furthest deployed point
func (pb *PaidBridge) FrontTip(side int) vmath.Vec2 {
	return pb.fronts[side].tip()
}

// FrontSlats returns a front's fully deployed segment count
func (pb *PaidBridge) FrontSlats(side int) int {
	return pb.fronts[side].slats
}

// FrontBody returns a front's collision body, nil once released
func (pb *PaidBridge) FrontBody(side int) *physics.StaticBody {
	return pb.fronts[side].body
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
