package rope

import (
	"testing"

	"github.com/lixenwraith/ropebridge/event"
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

const frameDt = 1.0 / 60.0

// gapTerrain lays ground at y=0 on both sides of a 1000 wide gap, walls dropping from each ledge
func gapTerrain(g *navigation.Graph) {
	g.AddTerrain([]vmath.Vec2{vmath.V2(-500, 0), vmath.V2(0, 0)}, true, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{vmath.V2(0, 0), vmath.V2(0, 800)}, false, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{vmath.V2(1000, 0), vmath.V2(1500, 0)}, true, navigation.TagStone)
	g.AddTerrain([]vmath.Vec2{vmath.V2(1000, 0), vmath.V2(1000, 800)}, false, navigation.TagStone)
}

func newTestEnv(t *testing.T) (Env, *navigation.Graph) {
	t.Helper()
	g := navigation.NewGraph()
	return Env{
		World:  physics.NewWorld(),
		Graph:  g,
		Queue:  event.NewEventQueue(),
		Config: DefaultConfig(),
	}, g
}

// run steps the world then the instrument, returns frames run before built or the limit
func run(env Env, inst Instrument, maxFrames int) int {
	total := 0.0
	for i := 1; i <= maxFrames; i++ {
		total += frameDt
		env.World.Step(frameDt)
		inst.Update(total, frameDt)
		if inst.State() != StateActive {
			return i
		}
	}
	return maxFrames
}

func eventTypes(q *event.EventQueue) []event.EventType {
	var out []event.EventType
	for _, ev := range q.Consume() {
		out = append(out, ev.Type)
	}
	return out
}

// sliceSim is a LinkSim over a plain slice
type sliceSim []vmath.Vec2

func (s sliceSim) Len() int {
	return len(s)
}

func (s sliceSim) LinkPosition(i int) vmath.Vec2 {
	return s[i]
}

func (s sliceSim) SetLinkPosition(i int, pos vmath.Vec2) {
	s[i] = pos
}

// recordingMetrics counts calls by method and label
type recordingMetrics struct {
	spawned    map[string]int
	built      map[string]int
	severed    map[string]int
	terminated map[string]int
	rejected   map[string]int
	registered int
	removed    int
	lastCounts [3]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		spawned:    make(map[string]int),
		built:      make(map[string]int),
		severed:    make(map[string]int),
		terminated: make(map[string]int),
		rejected:   make(map[string]int),
	}
}

func (m *recordingMetrics) InstrumentSpawned(kind string) {
	m.spawned[kind]++
}

func (m *recordingMetrics) InstrumentBuilt(kind string, _ float64) {
	m.built[kind]++
}

func (m *recordingMetrics) InstrumentSevered(kind string) {
	m.severed[kind]++
}

func (m *recordingMetrics) InstrumentTerminated(kind string) {
	m.terminated[kind]++
}

func (m *recordingMetrics) PlacementRejected(kind, reason string) {
	m.rejected[kind+"/"+reason]++
}

func (m *recordingMetrics) PathRegistered(string) {
	m.registered++
}

func (m *recordingMetrics) PathRemoved(string) {
	m.removed++
}

func (m *recordingMetrics) SetWorldCounts(instruments, chains, bodies int) {
	m.lastCounts = [3]int{instruments, chains, bodies}
}
