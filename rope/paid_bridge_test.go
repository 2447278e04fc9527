package rope

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/vmath"
)

var (
	paidA = vmath.V2(0, 0)
	paidB = vmath.V2(1000, 0)
)

func TestPaidBridgeEndToEnd(t *testing.T) {
	env, g := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 42)
	require.Equal(t, StateActive, pb.State())
	assert.InDelta(t, 100, pb.TotalCost(), 1e-9)
	assert.Equal(t, 2, env.World.ActiveChains())
	assert.Equal(t, 2, env.World.ActiveBodies())

	pb.Build(pb.TotalCost(), 1)
	frames := run(env, pb, 10)

	require.True(t, pb.IsBuilt())
	assert.Equal(t, 1, frames, "a full lump payment finishes in one tick")
	assert.Equal(t, 1.0, pb.Progress())

	edges := g.Edges(navigation.MaskAll)
	require.Len(t, edges, 1)
	assert.Equal(t, navigation.EdgeWalk, edges[0].Type)
	assert.Equal(t, paidA, edges[0].Points[0])
	assert.Equal(t, paidB, edges[0].Points[len(edges[0].Points)-1])

	assert.Zero(t, env.World.ActiveChains())
	assert.Zero(t, env.World.ActiveBodies())
	assert.Nil(t, pb.FrontBody(FrontA))

	shape := pb.Shape()
	assert.Equal(t, pb.Target(), shape)
	assert.Contains(t, eventTypes(env.Queue), event.EventFrontAdvanced)
}

func TestPaidBridgeProgressMonotonicAndBounded(t *testing.T) {
	env, _ := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 7)
	rng := rand.New(rand.NewSource(99))

	prev := pb.Progress()
	prevFront := [2]float64{}
	total := 0.0
	for i := 0; i < 2000 && pb.State() == StateActive; i++ {
		payment := rng.Float64() * pb.TotalCost() * 0.05
		speed := rng.Float64() * 3
		switch rng.Intn(3) {
		case 0:
			pb.Build(payment, speed)
		case 1:
			pb.BuildAt(vmath.V2(rng.Float64()*1000, rng.Float64()*100), payment, speed)
		}

		total += frameDt
		env.World.Step(frameDt)
		pb.Update(total, frameDt)

		require.GreaterOrEqual(t, pb.Progress(), prev)
		require.LessOrEqual(t, pb.Progress(), 1.0)
		require.LessOrEqual(t, pb.Paid(), 1.0)
		if pb.State() == StateActive {
			require.LessOrEqual(t, pb.Progress(), pb.Paid()+1e-12)
			for side := FrontA; side <= FrontB; side++ {
				require.GreaterOrEqual(t, pb.FrontProgress(side), prevFront[side])
				prevFront[side] = pb.FrontProgress(side)
			}
		}
		prev = pb.Progress()
	}
	assert.True(t, pb.IsBuilt())
}

func TestPaidBridgeOverpaymentCapped(t *testing.T) {
	env, _ := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 1)
	pb.Build(pb.TotalCost()*10, 5)
	assert.Equal(t, 1.0, pb.Paid())

	run(env, pb, 1)
	assert.True(t, pb.IsBuilt())
	assert.Equal(t, 1.0, pb.Progress())
}

func TestPaidBridgeNeedsPayment(t *testing.T) {
	env, g := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 1)

	pb.Build(0, 1)
	pb.Build(-50, 1)
	run(env, pb, 120)
	assert.Zero(t, pb.Progress())
	assert.Zero(t, g.EdgeCount())

	pb.Build(pb.TotalCost()/2, 1)
	run(env, pb, 120)
	assert.InDelta(t, 0.5, pb.Progress(), 1e-9)
	assert.Equal(t, StateActive, pb.State())
}

func TestPaidBridgeBuildAtPrefersNearFront(t *testing.T) {
	env, _ := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 3)

	assert.False(t, pb.BuildAt(vmath.V2(500, 0), pb.TotalCost(), 1), "midspan is beyond both tips")
	assert.Zero(t, pb.Paid())

	require.True(t, pb.BuildAt(vmath.V2(10, -5), pb.TotalCost()*0.2, 1))
	run(env, pb, 1)
	assert.Greater(t, pb.FrontProgress(FrontA), 0.0)
	assert.Zero(t, pb.FrontProgress(FrontB))
	assert.InDelta(t, 0.2, pb.Progress(), 1e-9)

	require.True(t, pb.BuildAt(vmath.V2(990, 0), pb.TotalCost()*0.1, 1))
	run(env, pb, 1)
	assert.Greater(t, pb.FrontProgress(FrontB), 0.0)
}

func TestPaidBridgeFrontBodyFollowsTip(t *testing.T) {
	env, _ := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 5)
	pb.Build(pb.TotalCost()*0.4, 1)
	run(env, pb, 1)

	for side := FrontA; side <= FrontB; side++ {
		pts := pb.FrontBody(side).Points()
		require.GreaterOrEqual(t, len(pts), 2)
		assert.Equal(t, pb.FrontTip(side), pts[len(pts)-1])
		assert.Greater(t, pb.FrontSlats(side), 0)
	}
	a, b := pb.Endpoints()
	assert.Equal(t, a, pb.FrontBody(FrontA).Points()[0])
	assert.Equal(t, b, pb.FrontBody(FrontB).Points()[0])

	visible := 0
	for _, pc := range pb.Pieces() {
		if pc.Visible {
			visible++
		}
		assert.Equal(t, TintPending, pc.Tint)
	}
	assert.Equal(t, pb.FrontSlats(FrontA)+pb.FrontSlats(FrontB), visible)
}

func TestPaidBridgeSplitDeterministicWithinBand(t *testing.T) {
	env, _ := newTestEnv(t)
	segments := env.Config.bridgeSegments(paidA, paidB)
	lo := int(0.35*float64(segments) + 0.999)
	hi := int(0.65 * float64(segments))

	for seed := int64(0); seed < 40; seed++ {
		pb := NewPaidBridge(env, paidA, paidB, 0, seed)
		again := NewPaidBridge(env, paidA, paidB, 0, seed)
		assert.Equal(t, pb.Split(), again.Split())
		assert.GreaterOrEqual(t, pb.Split(), lo)
		assert.LessOrEqual(t, pb.Split(), hi)
		pb.Terminate()
		again.Terminate()
	}
	assert.Zero(t, env.World.ActiveChains())
}

func TestPaidBridgeCheckpointRestoreKeepsSplit(t *testing.T) {
	env, _ := newTestEnv(t)
	pb := NewPaidBridge(env, paidA, paidB, 0, 11)
	pb.Build(pb.TotalCost()*0.3, 1)
	run(env, pb, 1)

	cp := pb.Checkpoint()
	assert.Equal(t, pb.Split(), cp.Split)
	assert.InDelta(t, 0.3, cp.BuildPerc, 1e-9)
	pb.Terminate()

	restored, err := RestorePaidBridge(env, cp)
	require.NoError(t, err)
	assert.Equal(t, cp.Split, restored.Split())
	assert.Equal(t, cp.BuildPerc, restored.Progress())
	assert.Equal(t, cp.BuildPerc, restored.FrontProgress(FrontA))
	assert.Equal(t, cp.BuildPerc, restored.FrontProgress(FrontB))
	again := restored.Checkpoint()
	assert.Equal(t, cp.Split, again.Split)
	assert.Equal(t, cp.Seed, again.Seed)
	assert.Equal(t, cp.BuildPerc, again.BuildPerc)
	assert.InDelta(t, cp.Paid, again.Paid, 1e-12)
}

func TestPaidBridgeRestoreRejectsBadCheckpoint(t *testing.T) {
	env, _ := newTestEnv(t)
	segments := env.Config.bridgeSegments(paidA, paidB)
	valid := Checkpoint{A: paidA, B: paidB, BuildPerc: 0.5, Split: segments / 2}

	cases := map[string]func(cp *Checkpoint){
		"split zero":      func(cp *Checkpoint) { cp.Split = 0 },
		"split at end":    func(cp *Checkpoint) { cp.Split = segments },
		"perc above one":  func(cp *Checkpoint) { cp.BuildPerc = 1.5 },
		"perc negative":   func(cp *Checkpoint) { cp.BuildPerc = -0.1 },
		"paid above one":  func(cp *Checkpoint) { cp.Paid = 2 },
		"coincident ends": func(cp *Checkpoint) { cp.B = cp.A },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cp := valid
			mutate(&cp)
			_, err := RestorePaidBridge(env, cp)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCheckpoint))
		})
	}

	_, err := RestorePaidBridge(env, valid)
	assert.NoError(t, err)
}

func TestPaidBridgeRestoredPaymentBuildsAtRate(t *testing.T) {
	env, _ := newTestEnv(t)
	segments := env.Config.bridgeSegments(paidA, paidB)
	pb, err := RestorePaidBridge(env, Checkpoint{A: paidA, B: paidB, BuildPerc: 0.2, Paid: 1, Split: segments / 2})
	require.NoError(t, err)

	// Paid ahead of built, so progress follows the time rate
	pb.Build(0, 1)
	run(env, pb, 60)
	assert.InDelta(t, 0.2+1.0/6.0, pb.Progress(), 1e-9)

	run(env, pb, 600)
	assert.True(t, pb.IsBuilt())
}

func TestInstrumentCyclesReturnGraphToBaseline(t *testing.T) {
	env, g := newTestEnv(t)
	env.Queue = nil
	gapTerrain(g)
	baseline := g.EdgeCount()

	for i := 0; i < 1000; i++ {
		pb := NewPaidBridge(env, paidA, paidB, 0, int64(i))
		pb.Build(pb.TotalCost(), 1)
		run(env, pb, 2)
		require.True(t, pb.IsBuilt())
		require.Equal(t, baseline+1, g.EdgeCount())
		pb.Terminate()

		tb := NewTimedBridge(env, paidA, paidB)
		tb.SetBuilding(i%2 == 0)
		run(env, tb, 3)
		tb.Terminate()

		l := NewLadder(env, vmath.V2(0, 0), vmath.V2(0, 300), true)
		l.Terminate()
	}

	assert.Equal(t, baseline, g.EdgeCount())
	assert.Zero(t, g.CountType(navigation.EdgeWalk))
	assert.Zero(t, g.CountType(navigation.EdgeClimb))
	assert.Zero(t, env.World.ActiveChains())
	assert.Zero(t, env.World.ActiveBodies())
}
