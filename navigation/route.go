package navigation

import (
	"math"

	"github.com/lixenwraith/ropebridge/parameter"
	"github.com/lixenwraith/ropebridge/vmath"
)

// --- Min-heap for Dijkstra ---

type heapEntry struct {
	h    Handle
	dist float64
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	// Sift up
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// RouteCost returns the summed edge length of the cheapest edge sequence joining
// the path edges near from and to, walking only edges selected by mask
// Edges are adjacent when an endpoint of one lies on the other within the weld distance
func (g *Graph) RouteCost(from, to vmath.Vec2, radius float64, mask EdgeMask) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	sources := g.edgesNear(from, radius, mask)
	targets := g.edgesNear(to, radius, mask)
	if len(sources) == 0 || len(targets) == 0 {
		return 0, false
	}
	isTarget := make(map[Handle]bool, len(targets))
	for _, e := range targets {
		isTarget[e.Handle] = true
	}

	dist := make(map[Handle]float64, len(g.edges))
	h := make(minHeap, 0, 16)
	for _, e := range sources {
		dist[e.Handle] = e.Length
		h.push(heapEntry{h: e.Handle, dist: e.Length})
	}

	for len(h) > 0 {
		cur := h.pop()
		if d, ok := dist[cur.h]; ok && cur.dist > d {
			continue
		}
		if isTarget[cur.h] {
			return cur.dist, true
		}
		e := g.edges[cur.h]
		for _, n := range g.neighbors(e, mask) {
			nd := cur.dist + n.Length
			if d, ok := dist[n.Handle]; ok && d <= nd {
				continue
			}
			dist[n.Handle] = nd
			h.push(heapEntry{h: n.Handle, dist: nd})
		}
	}
	return 0, false
}

// Connected reports whether a route joins from and to
func (g *Graph) Connected(from, to vmath.Vec2, radius float64) bool {
	_, ok := g.RouteCost(from, to, radius, MaskPath)
	return ok
}

// edgesNear collects edges within radius of p, caller holds the read lock
func (g *Graph) edgesNear(p vmath.Vec2, radius float64, mask EdgeMask) []*Edge {
	var out []*Edge
	g.index.query(vmath.BoxAround(p, radius), func(e *Edge) bool {
		if mask.Has(e.Type) && polylineDist(p, e.Points) <= radius {
			out = append(out, e)
		}
		return true
	})
	return out
}

// neighbors returns edges touching e at either side's endpoints, caller holds the read lock
func (g *Graph) neighbors(e *Edge, mask EdgeMask) []*Edge {
	weld := parameter.NavWeldDistance
	var out []*Edge
	g.index.query(e.Bounds.Expand(weld), func(f *Edge) bool {
		if f == e || !mask.Has(f.Type) {
			return true
		}
		if touches(e, f, weld) || touches(f, e, weld) {
			out = append(out, f)
		}
		return true
	})
	return out
}

// touches reports whether an endpoint of a lies on b
func touches(a, b *Edge, weld float64) bool {
	return polylineDist(a.Points[0], b.Points) <= weld ||
		polylineDist(a.Points[len(a.Points)-1], b.Points) <= weld
}

func polylineDist(p vmath.Vec2, points []vmath.Vec2) float64 {
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		d := vmath.Dist(p, vmath.ClosestPointOnSegment(p, points[i-1], points[i]))
		if d < best {
			best = d
		}
	}
	return best
}
