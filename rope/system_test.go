package rope

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/observability"
	"github.com/lixenwraith/ropebridge/vmath"
)

var _ MetricsRecorder = (*observability.RopeCollector)(nil)

type recordedEvents struct {
	events []event.GameEvent
}

func (r *recordedEvents) handler(types ...event.EventType) event.Handler[*System] {
	return event.HandlerFunc[*System]{
		Types: types,
		Fn: func(_ *System, ev event.GameEvent) {
			r.events = append(r.events, ev)
		},
	}
}

func (r *recordedEvents) types() []event.EventType {
	out := make([]event.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func newTestSystem(t *testing.T, cfg Config) (*System, *navigation.Graph, *recordingMetrics) {
	t.Helper()
	g := navigation.NewGraph()
	gapTerrain(g)
	m := newRecordingMetrics()
	s, err := NewSystem(cfg, g, WithMetrics(m), WithSeed(1))
	require.NoError(t, err)
	return s, g, m
}

func TestNewSystemRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bridge.SlatSpacing = 0
	_, err := NewSystem(cfg, navigation.NewGraph())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSystemRejectedSpawnEmitsEvent(t *testing.T) {
	s, g, m := newTestSystem(t, DefaultConfig())
	rec := &recordedEvents{}
	s.Register(rec.handler(event.EventPlacementRejected))

	tb, rej := s.SpawnTimedBridge(vmath.V2(300, -300), vmath.V2(1000, 0))
	assert.Nil(t, tb)
	assert.Equal(t, RejectNoLedgeA, rej)
	assert.Equal(t, 1, m.rejected["timed_bridge/no_ledge_a"])
	assert.Zero(t, s.Len())
	assert.Equal(t, 4, g.EdgeCount())

	s.Update(frameDt)
	require.Len(t, rec.events, 1)
	payload, ok := rec.events[0].Payload.(*event.PlacementRejectedPayload)
	require.True(t, ok)
	assert.Equal(t, "no_ledge_a", payload.Reason)
	assert.Equal(t, "timed_bridge", payload.Kind)
}

func TestSystemCanPlaceHasNoSideEffects(t *testing.T) {
	s, g, m := newTestSystem(t, DefaultConfig())

	assert.True(t, s.CanPlaceBridge(vmath.V2(0, 0), vmath.V2(1000, 0)))
	assert.False(t, s.CanPlaceBridge(vmath.V2(0, 0), vmath.V2(500, -500)))
	assert.True(t, s.CanPlaceGrapple(vmath.V2(-200, -50), vmath.V2(1000, 0), vmath.V2(1200, 0)))
	assert.False(t, s.CanPlaceLadder(vmath.V2(500, -500), vmath.V2(0, 300)))

	assert.Empty(t, m.rejected)
	assert.Zero(t, s.Len())
	assert.Equal(t, 4, g.EdgeCount())
}

func TestSystemPaidBridgeConnectsLedges(t *testing.T) {
	s, g, _ := newTestSystem(t, DefaultConfig())
	left, right := vmath.V2(-400, 0), vmath.V2(1400, 0)
	require.False(t, g.Connected(left, right, 8))

	pb, rej := s.SpawnPaidBridge(vmath.V2(-5, -5), vmath.V2(1003, -2), 0)
	require.Equal(t, RejectNone, rej)
	a, b := pb.Endpoints()
	assert.Equal(t, vmath.V2(0, 0), a)
	assert.Equal(t, vmath.V2(1000, 0), b)

	pb.Build(pb.TotalCost(), 1)
	s.Update(frameDt)
	require.True(t, pb.IsBuilt())
	assert.Equal(t, 1, g.CountType(navigation.EdgeWalk))
	assert.True(t, g.Connected(left, right, 8))

	pb.Terminate()
	s.Update(frameDt)
	assert.Zero(t, s.Len())
	assert.False(t, g.Connected(left, right, 8))
}

func TestSystemCancelAppliesAfterCompletion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bridge.BuildTime = 10 * time.Millisecond
	s, g, m := newTestSystem(t, cfg)
	rec := &recordedEvents{}
	s.Register(rec.handler(event.EventInstrumentSpawned, event.EventInstrumentBuilt, event.EventInstrumentTerminated))

	tb, rej := s.SpawnTimedBridge(vmath.V2(0, 0), vmath.V2(1000, 0))
	require.Equal(t, RejectNone, rej)
	tb.SetBuilding(true)
	require.True(t, s.Cancel(tb.ID()))

	s.Update(frameDt)
	assert.Equal(t, []event.EventType{
		event.EventInstrumentSpawned,
		event.EventInstrumentBuilt,
		event.EventInstrumentTerminated,
	}, rec.types())
	assert.Equal(t, StateTerminated, tb.State())
	assert.Zero(t, s.Len())
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, 1, m.registered)
	assert.Equal(t, 1, m.removed)

	assert.False(t, s.Cancel(tb.ID()))
	assert.False(t, s.Cancel("missing"))
}

func TestSystemGrappleAndLadder(t *testing.T) {
	s, g, m := newTestSystem(t, DefaultConfig())

	rope, rej := s.SpawnGrapple(vmath.V2(-200, -50), vmath.V2(1010, -10), vmath.V2(1200, -20))
	require.Equal(t, RejectNone, rej)
	for i := 0; i < 60 && !rope.IsBuilt(); i++ {
		s.Update(frameDt)
	}
	require.True(t, rope.IsBuilt())
	assert.Equal(t, 1, g.CountType(navigation.EdgeClimb))
	assert.Equal(t, [3]int{1, 0, 0}, m.lastCounts)

	ladder := s.SpawnLadder(vmath.V2(500, -500), vmath.V2(0, 300))
	require.NotNil(t, ladder)
	assert.False(t, ladder.Valid())
	assert.True(t, ladder.IsBuilt())
	assert.Equal(t, 1, m.rejected["ladder/no_ledge_a"])
	assert.Equal(t, 2, g.CountType(navigation.EdgeClimb))

	got, ok := s.Instrument(ladder.ID())
	require.True(t, ok)
	assert.Equal(t, KindLadder, got.Kind())
	insts := s.Instruments()
	require.Len(t, insts, 2)
	assert.Equal(t, rope.ID(), insts[0].ID())
}

func TestSystemTeardownReleasesEverything(t *testing.T) {
	s, g, _ := newTestSystem(t, DefaultConfig())
	_, rej := s.SpawnTimedBridge(vmath.V2(0, 0), vmath.V2(1000, 0))
	require.Equal(t, RejectNone, rej)
	_, rej = s.SpawnPaidBridge(vmath.V2(0, 0), vmath.V2(1000, 0), 0.25)
	require.Equal(t, RejectNone, rej)
	s.SpawnLadder(vmath.V2(0, 0), vmath.V2(0, 300))
	s.Update(frameDt)
	require.Equal(t, 3, s.Len())

	s.Teardown()
	assert.Zero(t, s.Len())
	assert.Equal(t, 4, g.EdgeCount())
	assert.Zero(t, s.World().ActiveChains())
	assert.Zero(t, s.World().ActiveBodies())
}

func TestSystemRecordsPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := observability.NewRopeCollector(reg)
	require.NoError(t, err)

	g := navigation.NewGraph()
	gapTerrain(g)
	s, err := NewSystem(DefaultConfig(), g, WithMetrics(collector))
	require.NoError(t, err)

	pb, _ := s.SpawnPaidBridge(vmath.V2(0, 0), vmath.V2(1000, 0), 0)
	pb.Build(pb.TotalCost(), 1)
	s.Update(frameDt)
	s.SpawnGrapple(vmath.V2(0, 0), vmath.V2(500, -500), vmath.V2(0, 0))

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Spawned.WithLabelValues("paid_bridge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Built.WithLabelValues("paid_bridge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Rejections.WithLabelValues("grapple", "no_anchor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.PathEdges))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Instruments))
	assert.Zero(t, testutil.ToFloat64(collector.LiveChains))
}
