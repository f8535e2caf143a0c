package mesh

import "sort"

// Front is the advancing front: the boundary of the as-yet-unmeshed region
// of the domain (spec.md §3, §4.1). It is an EdgeList with orientation
// NONE, plus a rotating base cursor the triangulation driver and the
// quad-layer generator advance as they consume the front.
type Front struct {
	edges *EdgeList
	store Store
	base  EdgeHandle
}

// NewFront creates an empty Front backed by store.
func NewFront(store Store) *Front {
	el := NewEdgeList(OrientationNone, store.(edgeStore))
	el.SetHooks(
		func(v1, v2 *Vertex) { v1.OnFront = true; v2.OnFront = true },
		func(v1, v2 *Vertex) {},
	)
	return &Front{edges: el, store: store, base: NilEdge}
}

// Edges exposes the underlying EdgeList for callers that need ring
// traversal (GetNext/GetPrev/IsTraversable) or endpoint lookup.
func (f *Front) Edges() *EdgeList { return f.edges }

// Base returns the edge the base cursor currently points to. The second
// return is false if the front is empty.
func (f *Front) Base() (EdgeHandle, bool) {
	if f.base.IsNil() {
		return NilEdge, false
	}
	return f.base, true
}

// SetBase points the base cursor at b directly.
func (f *Front) SetBase(b EdgeHandle) { f.base = b }

// SetBaseFirst resets the base cursor to the first edge in ring order
// (spec.md §4.5, used after SortEdges).
func (f *Front) SetBaseFirst() {
	if h, ok := f.edges.First(); ok {
		f.base = h
	} else {
		f.base = NilEdge
	}
}

// SetBaseNext advances the base cursor to the next edge in ring order,
// wrapping around (spec.md §4.1).
func (f *Front) SetBaseNext() {
	if f.base.IsNil() {
		return
	}
	if next, ok := f.edges.GetNext(f.base); ok {
		f.base = next
	}
}

// SortEdges reorders the front's ring by ascending (ascending=true) or
// descending edge length, then resets the base cursor to the new first
// edge (spec.md §4.5's stagnation handling: re-attempt from the shortest
// remaining edge first).
func (f *Front) SortEdges(ascending bool) {
	handles := f.edges.Edges()
	if len(handles) < 2 {
		return
	}
	lengths := make(map[EdgeHandle]float64, len(handles))
	for _, h := range handles {
		lengths[h] = f.store.(edgeStore).edge(h).Length()
	}
	sort.Slice(handles, func(i, j int) bool {
		if ascending {
			return lengths[handles[i]] < lengths[handles[j]]
		}
		return lengths[handles[i]] > lengths[handles[j]]
	})
	f.relink(handles)
	f.SetBaseFirst()
}

// relink rebuilds the ring's next/prev pointers to match the given order,
// without detaching and reattaching each edge (which would invalidate
// byEndpoints bookkeeping). Used only by SortEdges.
func (f *Front) relink(order []EdgeHandle) {
	f.edges.relinkRing(order)
}

// InitFront seeds the front from domain's boundary loops, creating fresh
// mesh vertices and front edges for every loop, cross-linking twin edges,
// then refining every non-twin front edge to match the size function
// (spec.md §4.2).
func InitFront(store Store, domain *PolylineDomain) (*Front, error) {
	front := NewFront(store)

	for _, loop := range domain.Loops() {
		n := len(loop.Edges)
		if n == 0 {
			continue
		}
		newVerts := make([]VertexHandle, n)
		for i, e := range loop.Edges {
			// step 1: one new vertex per edge, at v1 unless this edge is a
			// twin — the existing neighbor edge's own v1/v2 labeling runs
			// opposite to the new front's traversal direction, so the
			// matching coordinate is its v2.
			coord := e.V1
			if e.IsTwin {
				coord = e.V2
			}
			v := store.AddVertex(coord)
			if vtx, ok := store.Vertex(v); ok {
				vtx.OnFront = true
				vtx.OnBoundary = true
				vtx.IsFixed = true
			}
			newVerts[i] = v
		}

		newEdges := make([]EdgeHandle, n)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			newEdges[i] = front.edges.AddEdge(newVerts[i], newVerts[j], loop.Edges[i].Marker)
		}

		// step 3: cross-link every twin edge with the new front edge at the
		// same position, symmetrically.
		for i, e := range loop.Edges {
			if !e.IsTwin || e.Twin.IsNil() {
				continue
			}
			if newEdge, ok := store.Edge(newEdges[i]); ok {
				newEdge.Twin = e.Twin
			}
			if oldEdge, ok := store.Edge(e.Twin); ok {
				oldEdge.Twin = newEdges[i]
			}
		}

		for i := 0; i < n; i++ {
			if loop.Edges[i].Marker == 0 {
				continue
			}
			store.AddBoundaryEdge(newVerts[i], newVerts[(i+1)%n], loop.Edges[i].Marker)
		}
	}

	if err := front.refineFrontEdges(store, domain); err != nil {
		return nil, err
	}
	front.SetBaseFirst()
	return front, nil
}

// SplitEdge splits front edge e at parametric position sf along V1->V2
// (0 < sf < 1), replacing it with two new edges sharing a freshly created
// vertex. Both new edges keep e's marker. Returns the two new edge handles
// in V1->new, new->V2 order. Ported from the original's front.split_edge,
// used by quad-layer endpoint placement (spec.md §4.6 step 6; SPEC_FULL.md
// §10.1).
func (f *Front) SplitEdge(e EdgeHandle, store Store, sf float64, fixed bool) (EdgeHandle, EdgeHandle, bool) {
	edge, ok := store.Edge(e)
	if !ok || edge.pos == nil || edge.pos.owner != f.edges {
		return NilEdge, NilEdge, false
	}
	v1, _ := store.Vertex(edge.V1)
	v2, _ := store.Vertex(edge.V2)
	if v1 == nil || v2 == nil {
		return NilEdge, NilEdge, false
	}

	mid := v1.XY.Add(v2.XY.Sub(v1.XY).Scale(sf))
	vNew := store.AddVertex(mid)
	if vtx, ok := store.Vertex(vNew); ok {
		vtx.OnFront = true
		vtx.OnBoundary = v1.OnBoundary && v2.OnBoundary
		vtx.IsFixed = fixed
	}

	pos, ok := f.edges.Pos(e)
	if !ok {
		return NilEdge, NilEdge, false
	}
	wasBase := f.base == e

	e1 := f.edges.InsertEdge(pos, edge.V1, vNew, edge.Marker)
	e2 := f.edges.InsertEdge(pos, vNew, edge.V2, edge.Marker)
	f.edges.Remove(e)
	store.RemoveEdge(e)

	if wasBase {
		f.base = e1
	}
	return e1, e2, true
}

func (f *Front) refineFrontEdges(store Store, domain *PolylineDomain) error {
	return refineFrontEdges(f, store, domain)
}
