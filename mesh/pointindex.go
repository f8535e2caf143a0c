package mesh

import "math"

// gridCell identifies a bucket of a uniform spatial grid. Unlike the
// spherical S2 cell hierarchy this is ported from (akhenakh-geo/s2's
// PointIndex keys points by CellID), a planar domain has no natural cell
// covering to reuse, so buckets are plain integer grid coordinates sized
// off the domain's expected element spacing.
type gridCell struct {
	cx, cy int32
}

type indexedPoint struct {
	v  VertexHandle
	xy Vector2
}

// PointIndex stores a set of vertex/position pairs and supports efficient
// radius queries, backing MeshStore.VerticesWithin (spec.md §6).
type PointIndex struct {
	cellSize float64
	buckets  map[gridCell][]indexedPoint
	cellOf   map[VertexHandle]gridCell
}

// NewPointIndex creates an index bucketed at the given cell size. cellSize
// should be on the order of the local size function's typical value; radius
// queries scan ceil(r/cellSize) rings of buckets around the query point.
func NewPointIndex(cellSize float64) *PointIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &PointIndex{
		cellSize: cellSize,
		buckets:  make(map[gridCell][]indexedPoint),
		cellOf:   make(map[VertexHandle]gridCell),
	}
}

// NumPoints returns the number of points currently indexed.
func (p *PointIndex) NumPoints() int { return len(p.cellOf) }

func (p *PointIndex) cellAt(xy Vector2) gridCell {
	return gridCell{
		cx: int32(math.Floor(xy.X / p.cellSize)),
		cy: int32(math.Floor(xy.Y / p.cellSize)),
	}
}

// Add inserts v at position xy.
func (p *PointIndex) Add(v VertexHandle, xy Vector2) {
	c := p.cellAt(xy)
	p.buckets[c] = append(p.buckets[c], indexedPoint{v, xy})
	p.cellOf[v] = c
}

// Remove drops v from the index, if present.
func (p *PointIndex) Remove(v VertexHandle) {
	c, ok := p.cellOf[v]
	if !ok {
		return
	}
	bucket := p.buckets[c]
	for i := range bucket {
		if bucket[i].v == v {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(p.buckets, c)
	} else {
		p.buckets[c] = bucket
	}
	delete(p.cellOf, v)
}

// forEachInRing invokes fn for every indexed point whose bucket lies within
// ring cells of center's bucket (a square neighborhood, not a circle —
// callers filter by exact distance themselves).
func (p *PointIndex) forEachInRing(center Vector2, ring int32, fn func(indexedPoint)) {
	c := p.cellAt(center)
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			bucket, ok := p.buckets[gridCell{c.cx + dx, c.cy + dy}]
			if !ok {
				continue
			}
			for _, ip := range bucket {
				fn(ip)
			}
		}
	}
}
