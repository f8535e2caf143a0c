package mesh

import "math"

// QuadLayer is the transient per-layer bookkeeping used while growing one
// quad layer along a run of base edges (spec.md §4.6). For each base edge
// it carries the base's own two vertices, the local layer height, the
// initial projected coordinates of both projected vertices, and — once
// create_quad_layer_elements has run — the actual projected vertex
// handles. Ported from QuadLayer.
type QuadLayer struct {
	front    *Front
	isClosed bool
	height   float64

	baseEdges []EdgeHandle
	baseV1    []VertexHandle
	baseV2    []VertexHandle

	heights []float64

	p1, p2     []VertexHandle
	p1XY, p2XY []Vector2
}

// NewQuadLayer collects every base edge from eStart to eEnd inclusive,
// walking the front's ring order, and seeds each base's initial projected
// coordinates at height above its own normal, toward the unmeshed side
// (spec.md §4.6 step 1; ported from QuadLayer::QuadLayer /
// add_quadlayer_edge).
func NewQuadLayer(front *Front, store Store, eStart, eEnd EdgeHandle, isClosed bool, height float64) (*QuadLayer, error) {
	ql := &QuadLayer{front: front, isClosed: isClosed, height: height}

	h := eStart
	limit := front.edges.Len() + 1
	for steps := 0; ; steps++ {
		if steps > limit {
			return nil, &MeshError{Kind: FrontCorruption, Msg: "quad layer base run did not reach its end edge"}
		}
		ql.addBaseEdge(store, h)
		if h == eEnd {
			break
		}
		next, ok := front.edges.GetNext(h)
		if !ok {
			return nil, &MeshError{Kind: FrontCorruption, Msg: "quad layer base run left the front"}
		}
		h = next
	}
	return ql, nil
}

func (ql *QuadLayer) addBaseEdge(store Store, h EdgeHandle) {
	e, _ := store.Edge(h)
	ql.baseEdges = append(ql.baseEdges, h)
	ql.baseV1 = append(ql.baseV1, e.V1)
	ql.baseV2 = append(ql.baseV2, e.V2)

	height := math.Min(ql.height, e.Length())
	ql.heights = append(ql.heights, height)

	v1, _ := store.Vertex(e.V1)
	v2, _ := store.Vertex(e.V2)
	ql.p1XY = append(ql.p1XY, v1.XY.Add(e.Normal().Scale(height)))
	ql.p2XY = append(ql.p2XY, v2.XY.Add(e.Normal().Scale(height)))

	ql.p1 = append(ql.p1, NilVertex)
	ql.p2 = append(ql.p2, NilVertex)
}

// NBases returns the number of base edges collected.
func (ql *QuadLayer) NBases() int { return len(ql.baseEdges) }

// BaseEdges, BaseV1, BaseV2, Heights, P1, P2, P1XY and P2XY expose the
// layer's per-base slices for quadlayering.go's element-creation pass.
func (ql *QuadLayer) BaseEdges() []EdgeHandle   { return ql.baseEdges }
func (ql *QuadLayer) BaseV1() []VertexHandle    { return ql.baseV1 }
func (ql *QuadLayer) BaseV2() []VertexHandle    { return ql.baseV2 }
func (ql *QuadLayer) Heights() []float64        { return ql.heights }
func (ql *QuadLayer) P1() []VertexHandle        { return ql.p1 }
func (ql *QuadLayer) P2() []VertexHandle        { return ql.p2 }
func (ql *QuadLayer) P1XY() []Vector2           { return ql.p1XY }
func (ql *QuadLayer) P2XY() []Vector2           { return ql.p2XY }
func (ql *QuadLayer) SetP1(i int, v VertexHandle) { ql.p1[i] = v }
func (ql *QuadLayer) SetP2(i int, v VertexHandle) { ql.p2[i] = v }

// SmoothHeights averages each interior base's height with its two ring
// neighbors, capped by the local size function at the base edge's
// midpoint, so the layer grows uniformly rather than tracking every kink
// in the base run (spec.md §4.6 step 2; ported from
// QuadLayer::smooth_heights).
func (ql *QuadLayer) SmoothHeights(store Store, domain *PolylineDomain) {
	for i := 1; i < len(ql.heights)-1; i++ {
		h1, h2, h3 := ql.heights[i-1], ql.heights[i], ql.heights[i+1]

		e, _ := store.Edge(ql.baseEdges[i])
		v1, _ := store.Vertex(e.V1)
		v2, _ := store.Vertex(e.V2)
		rho := domain.Size(Midpoint(v1.XY, v2.XY))

		ql.heights[i] = math.Min(rho, (h1+h2+h3)/3.0)
	}
}

// SetupVertexProjection reconciles adjacent bases' projected coordinates
// (spec.md §4.6 step 3), then either wraps the last base's projection back
// onto the first (closed layer) or hands the two open ends to
// placeStartVertex/placeEndVertex, which may split the front edges
// adjacent to the layer.
func (ql *QuadLayer) SetupVertexProjection(store Store, front *Front, quadLayerAngle float64) {
	for i := 1; i < len(ql.baseEdges); i++ {
		ql.adjustProjectedVertexCoordinates(store, quadLayerAngle, i-1, i)
	}

	if ql.isClosed {
		ql.adjustProjectedVertexCoordinates(store, quadLayerAngle, ql.NBases()-1, 0)
	} else {
		ql.placeStartVertex(store, front)
		ql.placeEndVertex(store, front)
	}
}

// adjustProjectedVertexCoordinates tries to merge the projected vertex
// shared by base i and base j (its successor) into a single coordinate,
// so the two quads meet cleanly at a shared vertex instead of leaving a
// gap. If the bases turn too sharply for a clean merge, it leaves the
// wedge gap in place — create_quad_layer_elements will later close it
// with an extra triangle (spec.md §4.6 step 3; ported from
// QuadLayer::adjust_projected_vertex_coordinates).
func (ql *QuadLayer) adjustProjectedVertexCoordinates(store Store, quadLayerAngle float64, i, j int) {
	v1i, _ := store.Vertex(ql.baseV1[i])
	v1j, _ := store.Vertex(ql.baseV1[j])
	v2j, _ := store.Vertex(ql.baseV2[j])

	p := v1i.XY
	q := v1j.XY
	r := v2j.XY

	alpha := angle(p.Sub(q), r.Sub(q))

	if isLeft(p, r, q) && alpha <= quadLayerAngle {
		return
	}

	e1, _ := store.Edge(ql.baseEdges[i])
	e2, _ := store.Edge(ql.baseEdges[j])

	n1 := e1.Normal()
	l1 := ql.heights[i]

	n2 := e2.Normal()
	l2 := ql.heights[j]

	normal := n1.Add(n2).Scale(0.5)
	l := 0.5 * (l1 + l2)
	nn := normal.Normalize()

	xyProj := q.Add(nn.Scale(l / math.Sin(0.5*alpha)))

	ql.p1XY[j] = xyProj
	ql.p2XY[i] = xyProj
}

// placeStartVertex reconciles the layer's first projected vertex with
// whatever lies across the front edge that precedes e_start, merging onto
// an existing vertex, splitting that adjacent edge, or falling back to
// the adjacent vertex itself (spec.md §4.6 step 4; ported from
// QuadLayer::place_start_vertex).
func (ql *QuadLayer) placeStartVertex(store Store, front *Front) {
	ePrev, ok := front.edges.GetPrev(ql.baseEdges[0])
	if !ok {
		return
	}
	prev, _ := store.Edge(ePrev)
	vStart, _ := store.Vertex(ql.baseV1[0])
	if prev.V2 != ql.baseV1[0] {
		return
	}
	vPrev, _ := store.Vertex(prev.V1)

	b1, _ := store.Vertex(ql.baseV1[0])
	b2, _ := store.Vertex(ql.baseV2[0])
	if !isLeft(b1.XY, b2.XY, vPrev.XY) {
		return
	}

	h := ql.heights[0]
	dFac := vPrev.XY.Sub(ql.p1XY[0]).Norm() / h

	if dFac < 1.0 {
		ql.p1[0] = prev.V1
		return
	}

	if h < prev.Length() {
		d1 := vPrev.XY.Sub(vStart.XY)
		d2 := ql.p1XY[0].Sub(vStart.XY)
		alpha := angle(d1, d2)
		angFac := math.Cos(alpha)

		sf := (h * angFac) / prev.Length()
		e1, e2, ok := ql.splitAdjacentBoundaryEdge(store, front, ePrev, sf)
		if !ok {
			ql.p1[0] = prev.V1
			return
		}
		newEdge, _ := store.Edge(e1)
		ql.p1[0] = newEdge.V2
		v, _ := store.Vertex(newEdge.V2)
		ql.p1XY[0] = v.XY
		_ = e2
		return
	}

	ql.p1[0] = prev.V1
	ql.p1XY[0] = vPrev.XY
}

// placeEndVertex is the mirror of placeStartVertex for the layer's last
// projected vertex, reconciling against the front edge that follows
// e_end (ported from QuadLayer::place_end_vertex).
func (ql *QuadLayer) placeEndVertex(store Store, front *Front) {
	last := ql.NBases() - 1
	eNext, ok := front.edges.GetNext(ql.baseEdges[last])
	if !ok {
		return
	}
	next, _ := store.Edge(eNext)
	vEnd, _ := store.Vertex(ql.baseV2[last])
	if next.V1 != ql.baseV2[last] {
		return
	}
	vNext, _ := store.Vertex(next.V2)

	b1, _ := store.Vertex(ql.baseV1[last])
	b2, _ := store.Vertex(ql.baseV2[last])
	if !isLeft(b1.XY, b2.XY, vNext.XY) {
		return
	}

	h := ql.heights[last]
	dFac := vNext.XY.Sub(ql.p2XY[last]).Norm() / h

	if dFac < 1.0 {
		ql.p2[last] = next.V2
		return
	}

	if h < next.Length() {
		d1 := vNext.XY.Sub(vEnd.XY)
		d2 := ql.p2XY[last].Sub(vEnd.XY)
		alpha := angle(d1, d2)
		angFac := math.Cos(alpha)

		sf := 1.0 - (h*angFac)/next.Length()
		e1, e2, ok := ql.splitAdjacentBoundaryEdge(store, front, eNext, sf)
		if !ok {
			ql.p2[last] = next.V2
			return
		}
		newEdge, _ := store.Edge(e1)
		ql.p2[last] = newEdge.V2
		v, _ := store.Vertex(newEdge.V2)
		ql.p2XY[last] = v.XY
		_ = e2
		return
	}

	ql.p2[last] = next.V2
	ql.p2XY[last] = vNext.XY
}

// splitAdjacentBoundaryEdge splits front edge e at parametric position sf,
// keeping store.BoundaryEdges() synchronized if e was itself a registered
// boundary edge: the old boundary-registry entry is removed and two fresh
// ones are inserted in its place, mirroring the front split (spec.md
// §4.6 step 4's boundary-edge-list bookkeeping; ported from the
// bdry_edges.get_edge/.remove/.insert_edge calls straddling
// front.split_edge in place_start_vertex/place_end_vertex).
func (ql *QuadLayer) splitAdjacentBoundaryEdge(store Store, front *Front, e EdgeHandle, sf float64) (EdgeHandle, EdgeHandle, bool) {
	edge, ok := store.Edge(e)
	if !ok {
		return NilEdge, NilEdge, false
	}

	bdry := store.BoundaryEdges()
	bdryMatch, hasBdry := bdry.GetEdge(edge.V1, edge.V2)
	var bdryPos EdgeListPos
	var bdryMarker int
	var havePos bool
	if hasBdry {
		// Capture the position to re-insert at via the successor edge,
		// which survives the removal below — the removed edge's own
		// node leaves the ring and its Pos becomes unusable as an
		// insertion anchor.
		successor, hasSucc := bdry.GetNext(bdryMatch)
		m, _ := store.Edge(bdryMatch)
		bdryMarker = m.Marker
		store.RemoveEdge(bdryMatch)
		if hasSucc && successor != bdryMatch {
			bdryPos, havePos = bdry.Pos(successor)
		}
	}

	e1, e2, ok := front.SplitEdge(e, store, sf, false)
	if !ok {
		return NilEdge, NilEdge, false
	}

	if hasBdry && havePos {
		ne1, _ := store.Edge(e1)
		ne2, _ := store.Edge(e2)
		bdry.InsertEdge(bdryPos, ne1.V1, ne1.V2, bdryMarker)
		bdry.InsertEdge(bdryPos, ne2.V1, ne2.V2, bdryMarker)
	}

	return e1, e2, true
}
