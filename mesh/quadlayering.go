package mesh

import "math"

// FrontQuadLayering grows N quad layers along a run of front edges between
// two given coordinates before handing whatever front remains to Driver
// for ordinary triangulation (spec.md §4.6). Ported from
// FrontQuadLayering, minus its standalone tool's finish_mesh_for_output
// and front_.clear_edges() calls: per spec.md §4.6's closing paragraph,
// layer generation leaves the remaining front intact for §4.5 to consume.
type FrontQuadLayering struct {
	store  Store
	domain *PolylineDomain
	front  *Front
	config Config

	nLayers     int
	firstHeight float64
	growthRate  float64

	xyStart, xyEnd Vector2

	// minQuadQuality tracks the worst quadQuality observed across every
	// quad createQuadLayerElements has merged so far. Starts at 1 (vacuously
	// perfect) so a run that builds no quads reports no degradation.
	minQuadQuality float64
}

// NewFrontQuadLayering prepares a quad-layer run from xyStart to xyEnd
// along front, with nLayers layers starting at firstHeight and scaling by
// growthRate each layer.
func NewFrontQuadLayering(store Store, domain *PolylineDomain, front *Front, config Config, xyStart, xyEnd Vector2, nLayers int, firstHeight, growthRate float64) *FrontQuadLayering {
	return &FrontQuadLayering{
		store: store, domain: domain, front: front, config: config,
		nLayers: nLayers, firstHeight: firstHeight, growthRate: growthRate,
		xyStart: xyStart, xyEnd: xyEnd,
		minQuadQuality: 1,
	}
}

// MinQuadQuality returns the worst quadQuality observed across every quad
// Run has merged so far, for diagnostic reporting alongside Driver.Report.
func (q *FrontQuadLayering) MinQuadQuality() float64 { return q.minQuadQuality }

// Run grows each layer in turn, stopping early (without error) the first
// time a layer cannot be placed — the original's semantics for aborted
// quad-layer runs, which still leave the mesh built so far intact (spec.md
// §4.6). Only a FrontCorruption-level failure is returned as an error; an
// aborted layer ends the run with a nil error, and the returned count is
// the number of layers completed before it.
func (q *FrontQuadLayering) Run() (int, error) {
	q.store.SetupFacetConnectivity()
	q.removeInvalidMeshEdges()

	height := q.firstHeight
	layersBuilt := 0
	for i := 0; i < q.nLayers; i++ {
		ok, err := q.generateQuadLayer(height)
		if err != nil {
			return layersBuilt, err
		}
		if !ok {
			break
		}
		layersBuilt++
		height *= q.growthRate
	}
	return layersBuilt, nil
}

// removeInvalidMeshEdges drops any interior-edge-registry entry that
// duplicates a current front edge by endpoints, in either direction — a
// leftover from a prior triangulation pass that would otherwise make the
// same pair of vertices ambiguous between "on the front" and "already
// interior" once quad-layer generation starts probing the front by
// endpoints (spec.md §10 supplement 3; ported from
// FrontQuadLayering::generate_elements's call to remove_invalid_mesh_edges
// before its layer loop).
func (q *FrontQuadLayering) removeInvalidMeshEdges() {
	interior := q.store.InteriorEdges()
	var stale []EdgeHandle
	for _, h := range interior.Edges() {
		e, ok := q.store.Edge(h)
		if !ok {
			continue
		}
		if _, dup := q.front.edges.GetEdge(e.V1, e.V2); dup {
			stale = append(stale, h)
			continue
		}
		if _, dup := q.front.edges.GetEdge(e.V2, e.V1); dup {
			stale = append(stale, h)
		}
	}
	for _, h := range stale {
		q.store.RemoveEdge(h)
	}
}

// generateQuadLayer builds and places a single layer at the given height,
// returning ok=false (no error) if the layer cannot be located or
// traversed — the caller stops the run but keeps the mesh built so far
// (spec.md §4.6 steps 1-9; ported from generate_quad_layer).
func (q *FrontQuadLayering) generateQuadLayer(height float64) (bool, error) {
	vStart, vEnd, ok := q.nearestFrontVertices()
	if !ok {
		return false, nil
	}

	eStart, ok := q.front.edges.GetEdgeRank(vStart, 1)
	if !ok {
		return false, nil
	}
	eEnd, ok := q.front.edges.GetEdgeRank(vEnd, 2)
	if !ok {
		return false, nil
	}

	if !q.front.edges.IsTraversable(eStart, eEnd) {
		return false, nil
	}

	isClosed := vStart == vEnd
	if isClosed {
		eStart, eEnd = q.rotateClosedLayer(eStart, eEnd)
	}

	ql, err := NewQuadLayer(q.front, q.store, eStart, eEnd, isClosed, height)
	if err != nil {
		return false, err
	}

	ql.SmoothHeights(q.store, q.domain)
	ql.SetupVertexProjection(q.store, q.front, q.config.QuadLayerAngle)

	q.createQuadLayerElements(ql)
	q.finishQuadLayer(ql)

	q.setNextLayerCoordinates(ql)
	return true, nil
}

// nearestFrontVertices scans every vertex currently on the front (a plain
// linear scan, matching the original's own choice not to consult the
// spatial index here — quad-layer endpoint counts are small relative to
// the mesh) and returns the ones nearest q.xyStart and q.xyEnd.
func (q *FrontQuadLayering) nearestFrontVertices() (VertexHandle, VertexHandle, bool) {
	vStart, vEnd := NilVertex, NilVertex
	bestStart, bestEnd := math.Inf(1), math.Inf(1)
	seen := make(map[VertexHandle]bool)

	for _, h := range q.front.edges.Edges() {
		e, ok := q.store.Edge(h)
		if !ok {
			continue
		}
		for _, v := range [2]VertexHandle{e.V1, e.V2} {
			if seen[v] {
				continue
			}
			seen[v] = true
			vtx, ok := q.store.Vertex(v)
			if !ok {
				continue
			}
			if d := vtx.XY.Sub(q.xyStart).NormSqr(); d < bestStart {
				bestStart, vStart = d, v
			}
			if d := vtx.XY.Sub(q.xyEnd).NormSqr(); d < bestEnd {
				bestEnd, vEnd = d, v
			}
		}
	}
	if vStart.IsNil() || vEnd.IsNil() {
		return NilVertex, NilVertex, false
	}
	return vStart, vEnd, true
}

// rotateClosedLayer implements spec.md §4.6 step 2: for a closed layer,
// rotate the start/end forward by one edge if the angle at e_end's shared
// vertex is too sharp, so the layer does not begin (and end) right at a
// corner. Only e_end's apex is tested, per spec.md's Open Question
// resolution preserving the original's single-sided check.
func (q *FrontQuadLayering) rotateClosedLayer(eStart, eEnd EdgeHandle) (EdgeHandle, EdgeHandle) {
	next, ok := q.front.edges.GetNext(eEnd)
	if !ok {
		return eStart, eEnd
	}
	e2, _ := q.store.Edge(eEnd)
	eNext, _ := q.store.Edge(next)

	v1, _ := q.store.Vertex(e2.V1)
	v2, _ := q.store.Vertex(e2.V2)
	v3, _ := q.store.Vertex(eNext.V2)

	ang := angle(v1.XY.Sub(v2.XY), v3.XY.Sub(v2.XY))
	if ang > q.config.QuadLayerAngle {
		return eStart, eEnd
	}

	newStart, ok := q.front.edges.GetNext(eStart)
	if !ok {
		return eStart, eEnd
	}
	return newStart, next
}

// createQuadLayerElements builds, for each base edge, a triangle toward
// p1 then a second toward p2 using the first triangle's far edge as its
// base, merging both into a quad when they succeed (spec.md §4.6 step 7;
// ported from FrontQuadLayering::create_quad_layer_elements).
func (q *FrontQuadLayering) createQuadLayerElements(ql *QuadLayer) {
	baseEdges := ql.BaseEdges()
	b1s, b2s := ql.BaseV1(), ql.BaseV2()
	p1XY, p2XY := ql.P1XY(), ql.P2XY()
	heights := ql.Heights()

	for i := 0; i < ql.NBases(); i++ {
		r := q.config.QuadLayerRange * heights[i]

		base := baseEdges[i]
		if be, ok := q.store.Edge(base); !ok || be.pos == nil {
			continue
		}

		t1, err := UpdateFront(q.store, q.front, base, p1XY[i], r)
		if err != nil || t1 == nil {
			continue
		}
		ql.SetP1(i, t1.Apex)

		base2, ok := q.front.edges.GetEdge(t1.Apex, b2s[i])
		if !ok {
			continue
		}

		t2, err := UpdateFront(q.store, q.front, base2, p2XY[i], r)
		if err != nil || t2 == nil {
			continue
		}
		ql.SetP2(i, t2.Apex)

		// base2's own direction (t1.Apex -> b2) is preserved when
		// commitFrontSides adopts it into the interior registry, so the
		// lookup must match that direction rather than the reverse.
		eRem, ok := q.store.InteriorEdges().GetEdge(t1.Apex, b2s[i])
		if !ok {
			continue
		}
		q.store.RemoveEdge(eRem)
		q.store.RemoveFacet(t1.Triangle)
		q.store.RemoveFacet(t2.Triangle)

		qh := q.store.AddQuad(b1s[i], b2s[i], t2.Apex, t1.Apex)
		if quad, ok := q.store.Quad(qh); ok {
			quad.IsActive = true
			if quad.Quality < q.minQuadQuality {
				q.minQuadQuality = quad.Quality
			}
		}
	}
}

// finishQuadLayer closes gaps left by adjust_projected_vertex_coordinates'
// wedge cases: where consecutive bases' projected vertices differ, either
// bridge them with one triangle or introduce a Steiner vertex and two
// (spec.md §4.6 step 8; ported from
// FrontQuadLayering::finish_quad_layer).
func (q *FrontQuadLayering) finishQuadLayer(ql *QuadLayer) {
	b1s := ql.BaseV1()
	p1s, p2s := ql.P1(), ql.P2()

	for i := 1; i < ql.NBases(); i++ {
		a, b, c := p2s[i-1], b1s[i], p1s[i]
		if a.IsNil() || c.IsNil() || a == c {
			continue
		}

		av, _ := q.store.Vertex(a)
		bv, _ := q.store.Vertex(b)
		cv, _ := q.store.Vertex(c)
		if av == nil || bv == nil || cv == nil {
			continue
		}

		l1 := av.XY.Sub(bv.XY)
		l2 := cv.XY.Sub(bv.XY)
		alpha := angle(l1, l2)

		if alpha <= q.config.QuadLayerAngle {
			if !q.triangleIsDegenerate(bv.XY, cv.XY, av.XY) {
				if base, ok := q.front.edges.GetEdge(b, c); ok {
					advanceFront(q.store, q.front, base, a)
				}
			}
			continue
		}

		vNewXY := bv.XY.Add(l1).Add(l2)
		if q.triangleIsDegenerate(av.XY, bv.XY, vNewXY) || q.triangleIsDegenerate(bv.XY, cv.XY, vNewXY) {
			continue
		}

		vNew := q.store.AddVertex(vNewXY)
		if nv, ok := q.store.Vertex(vNew); ok {
			nv.IsFixed = true
		}

		if base, ok := q.front.edges.GetEdge(a, b); ok {
			advanceFront(q.store, q.front, base, vNew)
		}
		if base, ok := q.front.edges.GetEdge(b, c); ok {
			advanceFront(q.store, q.front, base, vNew)
		}
	}
}

// triangleIsDegenerate rejects a would-be gap-closing triangle whose
// signed area is too small to be a sane element — the fallback this
// module uses in place of the original's remove_from_mesh_if_invalid,
// whose exact quality threshold was not recoverable from the retrieved
// source (see DESIGN.md).
func (q *FrontQuadLayering) triangleIsDegenerate(a, b, c Vector2) bool {
	area2 := math.Abs(signedArea2(a, b, c))
	tol := orientTolerance(math.Max(a.Sub(b).Norm(), 1e-12))
	return area2 <= tol
}

// onFront reports whether v names a live vertex currently on the front;
// nil handles (a base whose p1/p2 was never placed) are never on-front.
func (q *FrontQuadLayering) onFront(v VertexHandle) bool {
	if v.IsNil() {
		return false
	}
	vtx, ok := q.store.Vertex(v)
	return ok && vtx.OnFront
}

// setNextLayerCoordinates implements spec.md §4.6 step 9: walk p1[]/p2[]
// from the start of the layer until either the candidate start or end
// vertex is on-front, and use their positions as next layer's starting/
// ending coordinates (ported from the "Set new start and ending vertex
// coordinates" do/while loop in generate_quad_layer, whose stop condition
// is `!start->on_front() && !end->on_front()` — i.e. stop at the first
// index where *either* side is on-front, not only the start side).
func (q *FrontQuadLayering) setNextLayerCoordinates(ql *QuadLayer) {
	n := ql.NBases()
	p1s, p2s := ql.P1(), ql.P2()

	startV, endV := NilVertex, NilVertex
	for i := 0; i < n; i++ {
		startCandidate := p1s[i]
		var endCandidate VertexHandle
		if ql.isClosed {
			endCandidate = startCandidate
		} else {
			endCandidate = p2s[(i-1+n)%n]
		}
		if q.onFront(startCandidate) || q.onFront(endCandidate) {
			startV, endV = startCandidate, endCandidate
			break
		}
	}
	if startV.IsNil() || endV.IsNil() {
		return
	}
	if sv, ok := q.store.Vertex(startV); ok {
		q.xyStart = sv.XY
	}
	if ev, ok := q.store.Vertex(endV); ok {
		q.xyEnd = ev.XY
	}
}
