package rope

import (
	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/vmath"
)

// PathGraph is the navigation surface instruments register their final geometry with
// *navigation.Graph satisfies it
type PathGraph interface {
	AddChain(points []vmath.Vec2, edgeType navigation.EdgeType, tag navigation.TerrainTag) navigation.Handle
	RemoveObject(h navigation.Handle) bool
}

// TerrainQuery is the navigation surface placement validation reads
type TerrainQuery interface {
	FindLedge(pos vmath.Vec2, radius float64) *navigation.Hit
	FindPathEdge(pos vmath.Vec2, radius float64, mask navigation.EdgeMask) *navigation.Hit
	RayCastTerrain(from, to vmath.Vec2) *navigation.Hit
}

// Navigator is the full navigation service a System needs
type Navigator interface {
	PathGraph
	TerrainQuery
}

// PathIntegrator owns at most one path edge registration for an instrument
type PathIntegrator struct {
	graph    PathGraph
	metrics  MetricsRecorder
	handle   navigation.Handle
	edgeType navigation.EdgeType
}

// NewPathIntegrator binds an integrator to graph, metrics may be nil
func NewPathIntegrator(graph PathGraph, metrics MetricsRecorder) *PathIntegrator {
	invariant(graph != nil, "path integrator needs a graph")
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PathIntegrator{graph: graph, metrics: metrics}
}

// Register adds points as one edge and holds its handle
// Panics if a handle is already held or fewer than two points are given
func (pi *PathIntegrator) Register(points []vmath.Vec2, edgeType navigation.EdgeType, tag navigation.TerrainTag) navigation.Handle {
	invariant(!pi.handle.Valid(), "path edge %d already registered", pi.handle)
	invariant(len(points) >= 2, "path edge needs at least 2 points, got %d", len(points))

	pi.handle = pi.graph.AddChain(points, edgeType, tag)
	pi.edgeType = edgeType
	pi.metrics.PathRegistered(edgeType.String())
	return pi.handle
}

// Deregister removes the held edge, idempotent
func (pi *PathIntegrator) Deregister() {
	if !pi.handle.Valid() {
		return
	}
	pi.graph.RemoveObject(pi.handle)
	pi.metrics.PathRemoved(pi.edgeType.String())
	pi.handle = navigation.InvalidHandle
}

// Handle returns the held edge, InvalidHandle when none
func (pi *PathIntegrator) Handle() navigation.Handle {
	return pi.handle
}

// Registered reports whether an edge is held
func (pi *PathIntegrator) Registered() bool {
	return pi.handle.Valid()
}

// bridgeWalk assembles a walkable surface from two fronts' joints
// jointsA runs a to the split joint, jointsB runs b to the same joint
// Result is a, midpoints of every adjacent joint pair from a to b, then b
func bridgeWalk(jointsA, jointsB []vmath.Vec2) []vmath.Vec2 {
	walk := make([]vmath.Vec2, 0, len(jointsA)+len(jointsB))
	walk = append(walk, jointsA...)
	rev := vmath.Reversed(jointsB)
	walk = append(walk, rev[1:]...)

	mids := vmath.Midpoints(walk)
	out := make([]vmath.Vec2, 0, len(mids)+2)
	out = append(out, walk[0])
	out = append(out, mids...)
	out = append(out, walk[len(walk)-1])
	return out
}
