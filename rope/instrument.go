package rope

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

// Kind identifies an instrument variant
type Kind uint8

const (
	KindGrapple Kind = iota
	KindTimedBridge
	KindPaidBridge
	KindLadder
	kindCount
)

var kindNames = [kindCount]string{"grapple", "timed_bridge", "paid_bridge", "ladder"}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// State is the shared instrument lifecycle
// Spawned -> Active -> Built -> Terminated, Active -> Severed for a grapple whose owner died
type State uint8

const (
	StateSpawned State = iota
	StateActive
	StateBuilt
	StateSevered
	StateTerminated
	stateCount
)

var stateNames = [stateCount]string{"spawned", "active", "built", "severed", "terminated"}

func (s State) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Instrument is the per-frame contract shared by all variants
type Instrument interface {
	ID() string
	Kind() Kind
	State() State

	// Update advances progress by dt seconds, the physics world must already be stepped
	// Panics on a terminated instrument
	Update(totalTime, dt float64)

	IsBuilt() bool
	Progress() float64
	Endpoints() (a, b vmath.Vec2)

	// Shape returns the current geometry for rendering, nil once terminated
	Shape() []vmath.Vec2

	// Pieces returns visual pieces by value
	Pieces() []Piece

	PathHandle() navigation.Handle

	// Terminate releases every resource and removes the path edge, idempotent
	Terminate()
}

// Env carries the collaborators injected into every instrument
type Env struct {
	World   *physics.World
	Graph   PathGraph
	Queue   *event.EventQueue // Optional
	Logger  *slog.Logger      // Optional, slog.Default when nil
	Metrics MetricsRecorder   // Optional
	Config  Config
}

func (e Env) withDefaults() Env {
	invariant(e.World != nil, "env needs a physics world")
	invariant(e.Graph != nil, "env needs a path graph")
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.Metrics == nil {
		e.Metrics = noopMetrics{}
	}
	return e
}

// base is the core every variant composes: identity, lifecycle, target geometry, path registration
type base struct {
	id     uuid.UUID
	kind   Kind
	state  State
	a, b   vmath.Vec2
	target []vmath.Vec2
	final  []vmath.Vec2 // Frozen geometry once built or severed

	progress float64
	elapsed  float64 // Simulated seconds since spawn
	frame    int64   // Update count

	env    Env
	log    *slog.Logger
	path   *PathIntegrator
	pieces *pieceArena
}

func newBase(env Env, kind Kind, a, b vmath.Vec2) base {
	env = env.withDefaults()
	id := uuid.New()
	return base{
		id:     id,
		kind:   kind,
		state:  StateSpawned,
		a:      a,
		b:      b,
		env:    env,
		log:    env.Logger.With("instrument", id.String(), "kind", kind.String()),
		path:   NewPathIntegrator(env.Graph, env.Metrics),
		pieces: newPieceArena(env.Config.Visual),
	}
}

// activate records the spawn and enters Active
func (b *base) activate() {
	invariant(b.state == StateSpawned, "activate from %s", b.state)
	b.state = StateActive
	b.env.Metrics.InstrumentSpawned(b.kind.String())
	b.emit(event.EventInstrumentSpawned, b.payload())
	b.log.Debug("instrument spawned", "a", b.a, "b", b.b, "links", len(b.target))
}

func (b *base) ID() string {
	return b.id.String()
}

func (b *base) Kind() Kind {
	return b.kind
}

func (b *base) State() State {
	return b.state
}

func (b *base) IsBuilt() bool {
	return b.state == StateBuilt
}

func (b *base) Progress() float64 {
	return b.progress
}

func (b *base) Endpoints() (vmath.Vec2, vmath.Vec2) {
	return b.a, b.b
}

func (b *base) PathHandle() navigation.Handle {
	return b.path.Handle()
}

func (b *base) Pieces() []Piece {
	return b.pieces.snapshot()
}

// Target returns a copy of the precomputed resting shape
func (b *base) Target() []vmath.Vec2 {
	return append([]vmath.Vec2(nil), b.target...)
}

// tick advances per-frame bookkeeping, panics on a terminated instrument
func (b *base) tick(dt float64) {
	invariant(b.state != StateTerminated, "update on terminated %s %s", b.kind, b.id)
	b.frame++
	if b.state == StateActive {
		b.elapsed += dt
	}
}

// advance raises progress, never lowers it
func (b *base) advance(p float64) {
	p = vmath.Clamp01(p)
	if p > b.progress {
		b.progress = p
	}
}

// complete registers the final geometry and enters Built, exactly once
func (b *base) complete(final, path []vmath.Vec2, edgeType navigation.EdgeType, tag navigation.TerrainTag) {
	invariant(b.state == StateActive || b.state == StateSpawned, "complete from %s", b.state)
	b.final = append([]vmath.Vec2(nil), final...)
	h := b.path.Register(path, edgeType, tag)
	b.progress = 1
	b.state = StateBuilt
	b.env.Metrics.InstrumentBuilt(b.kind.String(), b.elapsed)
	b.emit(event.EventInstrumentBuilt, b.payload())
	b.log.Info("instrument built", "edge", uint32(h), "edge_type", edgeType.String(), "points", len(path), "elapsed", b.elapsed)
}

// terminate releases via release, deregisters and enters Terminated, idempotent
func (b *base) terminate(release func()) {
	if b.state == StateTerminated {
		return
	}
	if release != nil {
		release()
	}
	payload := b.payload()
	b.path.Deregister()
	b.state = StateTerminated
	b.final = nil
	b.pieces.clear()
	b.env.Metrics.InstrumentTerminated(b.kind.String())
	b.emit(event.EventInstrumentTerminated, payload)
	b.log.Debug("instrument terminated")
}

func (b *base) emit(et event.EventType, payload any) {
	event.Emit(b.env.Queue, et, payload, b.frame)
}

func (b *base) payload() *event.InstrumentPayload {
	return &event.InstrumentPayload{
		ID:   b.id.String(),
		Kind: b.kind.String(),
		A:    b.a,
		B:    b.b,
		Path: uint32(b.path.Handle()),
	}
}

// destroyChain releases a chain through the world, nil-safe
func (b *base) destroyChain(c *physics.Chain) {
	b.env.World.DestroyChain(c)
}

func copyPoints(points []vmath.Vec2) []vmath.Vec2 {
	if points == nil {
		return nil
	}
	return append([]vmath.Vec2(nil), points...)
}
