package rope

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

// Option configures a System
type Option func(*System)

// WithLogger sets the structured logger, slog.Default when unset
func WithLogger(l *slog.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics injects a lifecycle recorder such as *observability.RopeCollector
func WithMetrics(m MetricsRecorder) Option {
	return func(s *System) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSeed fixes the generator paid bridge split joints are drawn from
func WithSeed(seed int64) Option {
	return func(s *System) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWorld shares an existing physics world instead of creating one
func WithWorld(w *physics.World) Option {
	return func(s *System) {
		if w != nil {
			s.world = w
		}
	}
}

// System owns every live instrument, the physics world they simulate in and the event router
// Single-threaded: all methods are called from the frame loop
type System struct {
	cfg       Config
	nav       Navigator
	world     *physics.World
	validator *Validator
	queue     *event.EventQueue
	router    *event.Router[*System]
	log       *slog.Logger
	metrics   MetricsRecorder
	rng       *rand.Rand

	instruments []Instrument
	byID        map[string]Instrument
	cancels     []string

	totalTime float64
	frame     int64
}

// NewSystem validates cfg and creates an empty system over nav
func NewSystem(cfg Config, nav Navigator, opts ...Option) (*System, error) {
	invariant(nav != nil, "system needs a navigator")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rope: new system: %w", err)
	}

	queue := event.NewEventQueue()
	s := &System{
		cfg:     cfg,
		nav:     nav,
		queue:   queue,
		router:  event.NewRouter[*System](queue),
		log:     slog.Default(),
		metrics: noopMetrics{},
		byID:    make(map[string]Instrument),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.world == nil {
		s.world = physics.NewWorld()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(1))
	}
	s.validator = NewValidator(nav, cfg)
	return s, nil
}

func (s *System) env() Env {
	return Env{
		World:   s.world,
		Graph:   s.nav,
		Queue:   s.queue,
		Logger:  s.log,
		Metrics: s.metrics,
		Config:  s.cfg,
	}
}

// Register routes events emitted by instruments to h during Update
func (s *System) Register(h event.Handler[*System]) {
	s.router.Register(h)
}

// --- Placement queries, no side effects ---

// CanPlaceBridge reports whether a bridge from a to b would pass validation
func (s *System) CanPlaceBridge(a, b vmath.Vec2) bool {
	_, rej := s.validator.ValidateBridge(a, b)
	return rej == RejectNone
}

// CanPlaceGrapple reports whether a grapple thrown from source would pass validation
func (s *System) CanPlaceGrapple(source, anchor, dest vmath.Vec2) bool {
	_, rej := s.validator.ValidateGrapple(source, anchor, dest)
	return rej == RejectNone
}

// CanPlaceLadder reports whether a ladder would be drawn valid
func (s *System) CanPlaceLadder(top, bottom vmath.Vec2) bool {
	_, rej := s.validator.ValidateLadder(top, bottom)
	return rej == RejectNone
}

// --- Spawning ---

// SpawnTimedBridge validates and spawns a bridge between the ledges nearest a and b
func (s *System) SpawnTimedBridge(a, b vmath.Vec2) (*TimedBridge, Rejection) {
	pl, rej := s.validator.ValidateBridge(a, b)
	if rej != RejectNone {
		s.reject(KindTimedBridge, a, b, rej)
		return nil, rej
	}
	tb := NewTimedBridge(s.env(), pl.A, pl.B)
	s.add(tb)
	return tb, RejectNone
}

// SpawnPaidBridge validates and spawns a dual-front bridge already built to buildPerc
func (s *System) SpawnPaidBridge(a, b vmath.Vec2, buildPerc float64) (*PaidBridge, Rejection) {
	pl, rej := s.validator.ValidateBridge(a, b)
	if rej != RejectNone {
		s.reject(KindPaidBridge, a, b, rej)
		return nil, rej
	}
	pb := NewPaidBridge(s.env(), pl.A, pl.B, buildPerc, s.rng.Int63())
	s.add(pb)
	return pb, RejectNone
}

// RestorePaidBridge respawns a checkpointed bridge without revalidating its placement
func (s *System) RestorePaidBridge(cp Checkpoint) (*PaidBridge, error) {
	pb, err := RestorePaidBridge(s.env(), cp)
	if err != nil {
		return nil, err
	}
	s.add(pb)
	return pb, nil
}

// SpawnGrapple validates and throws a rope from source
func (s *System) SpawnGrapple(source, anchor, dest vmath.Vec2) (*GrappleRope, Rejection) {
	pl, rej := s.validator.ValidateGrapple(source, anchor, dest)
	if rej != RejectNone {
		s.reject(KindGrapple, anchor, dest, rej)
		return nil, rej
	}
	g := NewGrappleRope(s.env(), source, pl.A, pl.B)
	s.add(g)
	return g, RejectNone
}

// SpawnLadder always spawns, a failed validation only tints the ladder
func (s *System) SpawnLadder(top, bottom vmath.Vec2) *Ladder {
	pl, rej := s.validator.ValidateLadder(top, bottom)
	if rej != RejectNone {
		s.metrics.PlacementRejected(KindLadder.String(), rej.String())
		s.log.Debug("ladder placed invalid", "top", top, "bottom", bottom, "reason", rej.String())
	}
	l := NewLadder(s.env(), pl.A, pl.B, pl.Valid)
	s.add(l)
	return l
}

func (s *System) reject(kind Kind, a, b vmath.Vec2, rej Rejection) {
	s.metrics.PlacementRejected(kind.String(), rej.String())
	event.Emit(s.queue, event.EventPlacementRejected, &event.PlacementRejectedPayload{
		Kind:   kind.String(),
		A:      a,
		B:      b,
		Reason: rej.String(),
	}, s.frame)
	s.log.Debug("placement rejected", "kind", kind.String(), "a", a, "b", b, "reason", rej.String())
}

func (s *System) add(inst Instrument) {
	s.instruments = append(s.instruments, inst)
	s.byID[inst.ID()] = inst
}

// --- Frame ---

// Cancel queues id for termination at the end of the next Update
// An instrument completing in that same Update still registers its edge before removal
func (s *System) Cancel(id string) bool {
	inst, ok := s.byID[id]
	if !ok || inst.State() == StateTerminated {
		return false
	}
	s.cancels = append(s.cancels, id)
	return true
}

// Update steps the physics world, advances every instrument, applies cancellations,
// then dispatches the frame's events
func (s *System) Update(dt float64) {
	s.frame++
	s.totalTime += dt

	s.world.Step(dt)
	for _, inst := range s.instruments {
		if inst.State() == StateTerminated {
			continue
		}
		inst.Update(s.totalTime, dt)
	}

	for _, id := range s.cancels {
		if inst, ok := s.byID[id]; ok {
			inst.Terminate()
		}
	}
	s.cancels = s.cancels[:0]
	s.sweep()

	s.metrics.SetWorldCounts(len(s.instruments), s.world.ActiveChains(), s.world.ActiveBodies())
	s.router.DispatchAll(s)
}

// sweep drops terminated instruments, preserving spawn order
func (s *System) sweep() {
	live := s.instruments[:0]
	for _, inst := range s.instruments {
		if inst.State() == StateTerminated {
			delete(s.byID, inst.ID())
			continue
		}
		live = append(live, inst)
	}
	for i := len(live); i < len(s.instruments); i++ {
		s.instruments[i] = nil
	}
	s.instruments = live
}

// Teardown terminates every instrument and flushes pending events
func (s *System) Teardown() {
	for _, inst := range s.instruments {
		inst.Terminate()
	}
	s.cancels = s.cancels[:0]
	s.sweep()
	s.metrics.SetWorldCounts(0, s.world.ActiveChains(), s.world.ActiveBodies())
	s.router.DispatchAll(s)
	s.log.Info("rope system torn down", "frames", s.frame)
}

// --- Queries ---

// Instruments returns live instruments in spawn order
func (s *System) Instruments() []Instrument {
	out := make([]Instrument, len(s.instruments))
	copy(out, s.instruments)
	return out
}

// Instrument looks up a live instrument by id
func (s *System) Instrument(id string) (Instrument, bool) {
	inst, ok := s.byID[id]
	return inst, ok
}

// Len returns the live instrument count
func (s *System) Len() int {
	return len(s.instruments)
}

// World returns the physics world instruments simulate in
func (s *System) World() *physics.World {
	return s.world
}

// Validator returns the placement validator
func (s *System) Validator() *Validator {
	return s.validator
}

// Config returns the system configuration
func (s *System) Config() Config {
	return s.cfg
}

// TotalTime returns accumulated simulated seconds
func (s *System) TotalTime() float64 {
	return s.totalTime
}
