package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/vmath"
)

func TestTimedBridgeWaitsForBuilder(t *testing.T) {
	env, g := newTestEnv(t)
	tb := NewTimedBridge(env, vmath.V2(0, 0), vmath.V2(400, 0))
	require.Equal(t, StateActive, tb.State())

	run(env, tb, 300)
	assert.Equal(t, StateActive, tb.State())
	assert.Zero(t, tb.Progress())
	assert.InDelta(t, 2.0, tb.Remaining(), 1e-12)
	assert.Zero(t, g.EdgeCount())
}

func TestTimedBridgeBuildsOverBuildTime(t *testing.T) {
	env, g := newTestEnv(t)
	a, b := vmath.V2(0, 0), vmath.V2(400, 0)
	tb := NewTimedBridge(env, a, b)
	tb.SetBuilding(true)

	prev := 0.0
	total := 0.0
	frames := 0
	for tb.State() == StateActive && frames < 200 {
		frames++
		total += frameDt
		env.World.Step(frameDt)
		tb.Update(total, frameDt)
		require.GreaterOrEqual(t, tb.Progress(), prev)
		prev = tb.Progress()
	}
	require.True(t, tb.IsBuilt())
	assert.InDelta(t, 120, frames, 1)
	assert.Equal(t, 1.0, tb.Progress())

	edges := g.Edges(navigation.MaskWalk)
	require.Len(t, edges, 1)
	assert.Equal(t, tb.PathHandle(), edges[0].Handle)
	assert.Equal(t, navigation.TagWood, edges[0].Tag)
	assert.Equal(t, a, edges[0].Points[0])
	assert.Equal(t, b, edges[0].Points[len(edges[0].Points)-1])

	// Final geometry is the target curve
	assert.Equal(t, tb.Target(), tb.Shape())
	assert.Zero(t, env.World.ActiveChains())

	types := eventTypes(env.Queue)
	assert.Equal(t, []event.EventType{event.EventInstrumentSpawned, event.EventInstrumentBuilt}, types)
}

func TestTimedBridgePausedCountdownResumes(t *testing.T) {
	env, _ := newTestEnv(t)
	tb := NewTimedBridge(env, vmath.V2(0, 0), vmath.V2(400, 0))

	tb.SetBuilding(true)
	run(env, tb, 30)
	mid := tb.Progress()
	assert.InDelta(t, 0.25, mid, 1e-9)

	tb.SetBuilding(false)
	run(env, tb, 30)
	assert.Equal(t, mid, tb.Progress())

	tb.SetBuilding(true)
	run(env, tb, 200)
	assert.True(t, tb.IsBuilt())
}

func TestTimedBridgeTerminate(t *testing.T) {
	env, g := newTestEnv(t)
	tb := NewTimedBridge(env, vmath.V2(0, 0), vmath.V2(400, 0))
	tb.SetBuilding(true)
	run(env, tb, 200)
	require.Equal(t, 1, g.EdgeCount())

	tb.Terminate()
	tb.Terminate()
	assert.Equal(t, StateTerminated, tb.State())
	assert.Zero(t, g.EdgeCount())
	assert.Nil(t, tb.Shape())
	assert.Nil(t, tb.Pieces())
	assert.Panics(t, func() { tb.Update(0, frameDt) })
}

func TestTimedBridgeTerminateWhileBuilding(t *testing.T) {
	env, g := newTestEnv(t)
	tb := NewTimedBridge(env, vmath.V2(0, 0), vmath.V2(400, 0))
	require.Equal(t, 1, env.World.ActiveChains())

	tb.Terminate()
	assert.Zero(t, env.World.ActiveChains())
	assert.Zero(t, g.EdgeCount())
}
