package navigation

import (
	"math"

	"github.com/lixenwraith/ropebridge/vmath"
)

type bucketKey struct {
	x, y int32
}

// bucketIndex is a sparse uniform grid mapping buckets to edges overlapping them
// Edges are inserted into every bucket their bounds cover
type bucketIndex struct {
	size    float64
	inv     float64
	buckets map[bucketKey][]*Edge
}

func newBucketIndex(size float64) *bucketIndex {
	return &bucketIndex{
		size:    size,
		inv:     1.0 / size,
		buckets: make(map[bucketKey][]*Edge),
	}
}

func (b *bucketIndex) keyRange(box vmath.AABB) (minX, minY, maxX, maxY int32) {
	minX = int32(math.Floor(box.Min.X * b.inv))
	minY = int32(math.Floor(box.Min.Y * b.inv))
	maxX = int32(math.Floor(box.Max.X * b.inv))
	maxY = int32(math.Floor(box.Max.Y * b.inv))
	return
}

func (b *bucketIndex) insert(e *Edge) {
	minX, minY, maxX, maxY := b.keyRange(e.Bounds)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			k := bucketKey{x, y}
			b.buckets[k] = append(b.buckets[k], e)
		}
	}
}

func (b *bucketIndex) remove(e *Edge) {
	minX, minY, maxX, maxY := b.keyRange(e.Bounds)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			k := bucketKey{x, y}
			list := b.buckets[k]
			for i, existing := range list {
				if existing == e {
					// Swap-remove, bucket order is not significant
					last := len(list) - 1
					list[i] = list[last]
					list[last] = nil
					list = list[:last]
					break
				}
			}
			if len(list) == 0 {
				delete(b.buckets, k)
			} else {
				b.buckets[k] = list
			}
		}
	}
}

// query calls fn once per edge whose bucket overlaps box, stops when fn returns false
func (b *bucketIndex) query(box vmath.AABB, fn func(e *Edge) bool) {
	minX, minY, maxX, maxY := b.keyRange(box)
	seen := make(map[Handle]struct{}, 8)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for _, e := range b.buckets[bucketKey{x, y}] {
				if _, dup := seen[e.Handle]; dup {
					continue
				}
				seen[e.Handle] = struct{}{}
				if !fn(e) {
					return
				}
			}
		}
	}
}
