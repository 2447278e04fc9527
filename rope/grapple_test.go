package rope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/vmath"
)

func TestGrappleEndToEnd(t *testing.T) {
	env, g := newTestEnv(t)
	env.Config.Grapple.TravelTime = 3 * time.Second

	anchor, source, dest := vmath.V2(0, -1000), vmath.V2(0, 0), vmath.V2(500, -900)
	rope := NewGrappleRope(env, source, anchor, dest)
	a, b := rope.Endpoints()
	assert.Equal(t, anchor, a)
	assert.Equal(t, dest, b)

	total := 0.0
	for i := 0; i < 180; i++ {
		total += frameDt
		env.World.Step(frameDt)
		rope.Update(total, frameDt)
	}

	require.True(t, rope.IsBuilt())
	shape := rope.Shape()
	assert.Equal(t, dest, shape[0])
	assert.Equal(t, anchor, shape[len(shape)-1])
	assert.True(t, rope.AnchorHit())
	assert.Zero(t, env.World.ActiveChains())

	require.Equal(t, 1, g.CountType(navigation.EdgeClimb))
	edge, ok := g.Edge(rope.PathHandle())
	require.True(t, ok)
	assert.Equal(t, navigation.TagRope, edge.Tag)
	assert.Equal(t, anchor, edge.Points[0])
	assert.Equal(t, dest, edge.Points[len(edge.Points)-1])

	types := eventTypes(env.Queue)
	assert.Contains(t, types, event.EventAnchorHit)
	assert.Equal(t, event.EventInstrumentBuilt, types[len(types)-1])
}

func TestGrappleProgressTracksFlight(t *testing.T) {
	env, _ := newTestEnv(t)
	env.Config.Grapple.TravelTime = time.Second
	rope := NewGrappleRope(env, vmath.V2(0, 0), vmath.V2(0, -300), vmath.V2(200, -250))

	run(env, rope, 30)
	assert.InDelta(t, 0.5, rope.Progress(), 1e-9)
	assert.False(t, rope.AnchorHit())
	assert.Greater(t, rope.Mass(), 0.0)

	run(env, rope, 60)
	assert.True(t, rope.IsBuilt())
	assert.Zero(t, rope.Mass())
}

func TestGrappleAnchorHitFiresOnce(t *testing.T) {
	env, _ := newTestEnv(t)
	env.Config.Grapple.TravelTime = time.Second
	rope := NewGrappleRope(env, vmath.V2(0, 0), vmath.V2(0, -300), vmath.V2(200, -250))
	run(env, rope, 120)

	hits := 0
	for _, et := range eventTypes(env.Queue) {
		if et == event.EventAnchorHit {
			hits++
		}
	}
	assert.Equal(t, 1, hits)
}

func TestGrappleOwnerDiedSevers(t *testing.T) {
	env, g := newTestEnv(t)
	env.Config.Grapple.TravelTime = time.Second
	rope := NewGrappleRope(env, vmath.V2(0, 0), vmath.V2(0, -300), vmath.V2(200, -250))
	run(env, rope, 20)

	rope.OwnerDied()
	assert.Equal(t, StateSevered, rope.State())
	assert.False(t, rope.IsBuilt())
	assert.Zero(t, env.World.ActiveChains())
	assert.Zero(t, g.EdgeCount())
	assert.NotEmpty(t, rope.Shape())

	// Severed ropes stay frozen
	frozen := rope.Shape()
	run(env, rope, 60)
	assert.Equal(t, frozen, rope.Shape())
	assert.Zero(t, g.EdgeCount())
	assert.Contains(t, eventTypes(env.Queue), event.EventRopeSevered)

	rope.Terminate()
	assert.Equal(t, StateTerminated, rope.State())
	assert.Panics(t, rope.OwnerDied)
}

func TestGrappleOwnerDiedAfterBuiltIsIgnored(t *testing.T) {
	env, g := newTestEnv(t)
	env.Config.Grapple.TravelTime = 500 * time.Millisecond
	rope := NewGrappleRope(env, vmath.V2(0, 0), vmath.V2(0, -300), vmath.V2(200, -250))
	run(env, rope, 60)
	require.True(t, rope.IsBuilt())

	rope.OwnerDied()
	assert.Equal(t, StateBuilt, rope.State())
	assert.Equal(t, 1, g.CountType(navigation.EdgeClimb))
}
