package navigation

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/ropebridge/parameter"
	"github.com/lixenwraith/ropebridge/vmath"
)

// Handle identifies a registered edge, InvalidHandle is the sentinel
type Handle uint32

const InvalidHandle Handle = 0

// Valid reports whether h refers to a registration
func (h Handle) Valid() bool {
	return h != InvalidHandle
}

// EdgeType classifies how a registered edge may be traversed
type EdgeType uint8

const (
	EdgeGround EdgeType = iota // Solid terrain surface, walkable
	EdgeWall                   // Solid terrain, not walkable
	EdgeWalk                   // Walkable, non-solid (bridges)
	EdgeClimb                  // Climbable (ropes, ladders)
	edgeTypeCount
)

var edgeTypeNames = [edgeTypeCount]string{"ground", "wall", "walk", "climb"}

func (t EdgeType) String() string {
	if t < edgeTypeCount {
		return edgeTypeNames[t]
	}
	return fmt.Sprintf("edge(%d)", uint8(t))
}

// Solid edges block ray casts
func (t EdgeType) Solid() bool {
	return t == EdgeGround || t == EdgeWall
}

// Walkable edges can be stood on
func (t EdgeType) Walkable() bool {
	return t == EdgeGround || t == EdgeWalk
}

// EdgeMask selects edge types in queries
type EdgeMask uint8

const (
	MaskGround EdgeMask = 1 << EdgeGround
	MaskWall   EdgeMask = 1 << EdgeWall
	MaskWalk   EdgeMask = 1 << EdgeWalk
	MaskClimb  EdgeMask = 1 << EdgeClimb

	MaskSolid    = MaskGround | MaskWall
	MaskWalkable = MaskGround | MaskWalk
	MaskPath     = MaskGround | MaskWalk | MaskClimb
	MaskAll      = MaskGround | MaskWall | MaskWalk | MaskClimb
)

// Has reports whether t is selected
func (m EdgeMask) Has(t EdgeType) bool {
	return m&(1<<t) != 0
}

// TerrainTag is the surface material of an edge
type TerrainTag uint8

const (
	TagNone TerrainTag = iota
	TagStone
	TagDirt
	TagWood
	TagRope
	terrainTagCount
)

var terrainTagNames = [terrainTagCount]string{"none", "stone", "dirt", "wood", "rope"}

func (t TerrainTag) String() string {
	if t < terrainTagCount {
		return terrainTagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Edge is a registered polyline
type Edge struct {
	Handle Handle
	Type   EdgeType
	Tag    TerrainTag
	Points []vmath.Vec2
	Bounds vmath.AABB
	Length float64
}

// Hit is the result of a ledge, path edge, or terrain query
type Hit struct {
	Pos    vmath.Vec2
	Normal vmath.Vec2
	Tag    TerrainTag
	Type   EdgeType
	Handle Handle
	T      float64 // Ray parameter for RayCastTerrain, 0 otherwise
}

// Graph is the process-wide navigation structure holding terrain and traversal edges
// Safe for concurrent readers, writes serialize on the graph lock
type Graph struct {
	mu     sync.RWMutex
	edges  map[Handle]*Edge
	index  *bucketIndex
	nextID Handle
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		edges:  make(map[Handle]*Edge),
		index:  newBucketIndex(parameter.NavBucketSize),
		nextID: InvalidHandle,
	}
}

// AddChain registers a polyline edge and returns its handle
// Panics on fewer than two points
func (g *Graph) AddChain(points []vmath.Vec2, edgeType EdgeType, tag TerrainTag) Handle {
	if len(points) < 2 {
		panic(fmt.Sprintf("navigation: edge needs at least 2 points, got %d", len(points)))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	e := &Edge{
		Handle: g.nextID,
		Type:   edgeType,
		Tag:    tag,
		Points: append([]vmath.Vec2(nil), points...),
		Bounds: vmath.BoundsOf(points),
		Length: vmath.PolylineLength(points),
	}
	g.edges[e.Handle] = e
	g.index.insert(e)
	return e.Handle
}

// AddTerrain registers a solid terrain polyline, walkable or wall by type
func (g *Graph) AddTerrain(points []vmath.Vec2, walkable bool, tag TerrainTag) Handle {
	t := EdgeWall
	if walkable {
		t = EdgeGround
	}
	return g.AddChain(points, t, tag)
}

// RemoveObject deregisters an edge, returns false if the handle was not registered
func (g *Graph) RemoveObject(h Handle) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.edges[h]
	if !ok {
		return false
	}
	g.index.remove(e)
	delete(g.edges, h)
	return true
}

// EdgeCount returns the number of registered edges
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// CountType returns the number of registered edges of type t
func (g *Graph) CountType(t EdgeType) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, e := range g.edges {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Edge returns a copy of a registered edge
func (g *Graph) Edge(h Handle) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[h]
	if !ok {
		return Edge{}, false
	}
	out := *e
	out.Points = append([]vmath.Vec2(nil), e.Points...)
	return out, true
}

// Edges returns copies of every edge matching mask, ordered by handle
func (g *Graph) Edges(mask EdgeMask) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, 0, len(g.edges))
	for h := InvalidHandle + 1; h <= g.nextID; h++ {
		e, ok := g.edges[h]
		if !ok || !mask.Has(e.Type) {
			continue
		}
		cp := *e
		cp.Points = append([]vmath.Vec2(nil), e.Points...)
		out = append(out, cp)
	}
	return out
}
