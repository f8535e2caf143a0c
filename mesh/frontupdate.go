package mesh

import "math"

// UpdateResult describes a committed front-update: the new triangle plus
// which vertex served as its apex (either an existing mesh vertex or a
// freshly created one).
type UpdateResult struct {
	Triangle FacetHandle
	Apex     VertexHandle
	ApexXY   Vector2
}

type candidateApex struct {
	vertex      VertexHandle // NilVertex means "create new at xy"
	xy          Vector2
	distSqr     float64
	signedArea2 float64
}

// UpdateFront is the front-update primitive (spec.md §4.4): given base edge
// b and an ideal apex position with search radius r, it tries every nearby
// vertex plus the ideal position itself as a candidate third vertex,
// validates each, and commits the best-quality valid one. Returns nil, nil
// if no candidate is valid — a silent, expected outcome, not an error.
func UpdateFront(store Store, front *Front, b EdgeHandle, apex Vector2, r float64) (*UpdateResult, error) {
	base, ok := store.Edge(b)
	if !ok {
		return nil, &MeshError{Kind: FrontCorruption, Msg: "base edge handle is stale"}
	}
	if base.pos == nil || base.pos.owner != front.edges {
		return nil, &MeshError{Kind: FrontCorruption, Msg: "base edge is not a member of the front"}
	}

	v1, _ := store.Vertex(base.V1)
	v2, _ := store.Vertex(base.V2)

	near := store.VerticesWithin(apex, r)
	candidates := make([]candidateApex, 0, len(near)+1)
	for _, v := range near {
		if v == base.V1 || v == base.V2 {
			continue
		}
		vtx, ok := store.Vertex(v)
		if !ok {
			continue
		}
		candidates = append(candidates, candidateApex{vertex: v, xy: vtx.XY, distSqr: vtx.XY.Sub(apex).NormSqr()})
	}
	candidates = append(candidates, candidateApex{vertex: NilVertex, xy: apex, distSqr: 0})

	// Batch the CCW-orientation and proximity-to-apex tests across every
	// candidate at once (vector_ops_hwy.go), instead of a scalar
	// signedArea2/NormSqr call per candidate.
	batchOrientAndRank(v1.XY, v2.XY, apex, candidates)

	var best *candidateApex
	bestQuality := math.Inf(-1)
	for i := range candidates {
		c := &candidates[i]
		if !validCandidate(store, front, b, base, v1.XY, v2.XY, c.xy, c.signedArea2) {
			continue
		}
		q := triangleQuality(v1.XY, v2.XY, c.xy)
		if q > bestQuality || (q == bestQuality && (best == nil || c.distSqr < best.distSqr)) {
			bestQuality = q
			best = c
		}
	}
	if best == nil {
		return nil, nil
	}

	apexHandle := best.vertex
	if apexHandle.IsNil() {
		apexHandle = store.AddVertex(best.xy)
	}

	return commitTriangle(store, front, b, base, apexHandle, best.xy), nil
}

// commitTriangle performs the actual triangle insertion and front-side
// update shared by UpdateFront's search-then-commit path and
// quadlayering.go's explicit gap-closing advances (spec.md §4.6 step 8,
// which calls "advance the front" directly against an already-known
// triangle rather than running the candidate search again).
func commitTriangle(store Store, front *Front, b EdgeHandle, base *Edge, apex VertexHandle, apexXY Vector2) *UpdateResult {
	tri := store.AddTriangle(base.V1, base.V2, apex)
	commitFrontSides(store, front, b, base.V1, base.V2, apex)

	if vtx, ok := store.Vertex(base.V1); ok {
		vtx.refreshOnFront(front.isFrontEdge)
	}
	if vtx, ok := store.Vertex(base.V2); ok {
		vtx.refreshOnFront(front.isFrontEdge)
	}
	if vtx, ok := store.Vertex(apex); ok {
		vtx.refreshOnFront(front.isFrontEdge)
	}

	return &UpdateResult{Triangle: tri, Apex: apex, ApexXY: apexXY}
}

// advanceFront commits a triangle whose base edge and apex are already
// known — e.g. a gap-closing triangle in quadlayering.go — performing the
// same insertion and front-side bookkeeping UpdateFront does after
// selecting a candidate, without re-running the candidate search. Returns
// false if b is not a front member.
func advanceFront(store Store, front *Front, b EdgeHandle, apex VertexHandle) (*UpdateResult, bool) {
	base, ok := store.Edge(b)
	if !ok || base.pos == nil || base.pos.owner != front.edges {
		return nil, false
	}
	apexVtx, ok := store.Vertex(apex)
	if !ok {
		return nil, false
	}
	return commitTriangle(store, front, b, base, apex, apexVtx.XY), true
}

// isFrontEdge reports whether h is currently a member of f's edge list,
// matching the Vertex.refreshOnFront callback signature.
func (f *Front) isFrontEdge(h EdgeHandle) bool {
	e, ok := f.store.Edge(h)
	if !ok {
		return false
	}
	return e.pos != nil && e.pos.owner == f.edges
}

func vertexXY(store Store, h VertexHandle) Vector2 {
	v, _ := store.Vertex(h)
	if v == nil {
		return Vector2{}
	}
	return v.XY
}

// validCandidate tests the three acceptance criteria of spec.md §4.4 step 2
// for the candidate triangle (v1, v2, apex), where v1, v2 are the base
// edge's endpoint positions and b is the base edge's own handle (excluded
// from the crossing test).
func validCandidate(store Store, front *Front, b EdgeHandle, base *Edge, v1, v2, apexXY Vector2, area2 float64) bool {
	tol := math.Max(orientTolerance(math.Max(v1.Sub(v2).Norm(), 1e-12)), 1e-12)
	if area2 <= tol {
		return false
	}

	// The triangle's own CCW edges, used for direction-agnostic crossing
	// tests.
	sideA1, sideA2 := v2, apexXY
	sideB1, sideB2 := apexXY, v1

	// The front edges commitFrontSides would actually insert for this
	// candidate run opposite to the triangle's own edges (see its doc
	// comment). A genuine duplicate is another front edge already running
	// in one of THESE directions — not the triangle-edge direction, which
	// legitimately coincides with an existing front edge whenever the
	// candidate closes the last gap against it (commitOneSide then adopts
	// that edge into the interior registry instead of inserting a new one).
	fwdA1, fwdA2 := apexXY, v2
	fwdB1, fwdB2 := v1, apexXY

	for _, h := range front.edges.Edges() {
		if h == b {
			continue
		}
		e, ok := store.Edge(h)
		if !ok {
			continue
		}
		p1, p2 := vertexXY(store, e.V1), vertexXY(store, e.V2)

		if !sharesEndpoint(sideA1, sideA2, p1, p2) && segmentsIntersect(sideA1, sideA2, p1, p2) {
			return false
		}
		if !sharesEndpoint(sideB1, sideB2, p1, p2) && segmentsIntersect(sideB1, sideB2, p1, p2) {
			return false
		}

		if samePoint(p1, fwdA1) && samePoint(p2, fwdA2) {
			return false
		}
		if samePoint(p1, fwdB1) && samePoint(p2, fwdB2) {
			return false
		}
	}
	return true
}

func sharesEndpoint(a1, a2, b1, b2 Vector2) bool {
	return samePoint(a1, b1) || samePoint(a1, b2) || samePoint(a2, b1) || samePoint(a2, b2)
}

func samePoint(a, b Vector2) bool {
	return a.Sub(b).NormSqr() < 1e-20
}

// commitFrontSides performs the step-3 commit of spec.md §4.4: for each of
// the triangle's two new sides it either removes the matching front edge
// already present in reverse orientation (both adjacent triangles now
// exist) or inserts a new front edge, then removes base from the front
// (registering it as an interior edge if it was not itself a boundary edge).
//
// The new sides run opposite to the triangle's own CCW edge direction: the
// triangle (base.V1, base.V2, apex) is CCW, so its interior lies to the
// left of (base.V2, apex) and (apex, base.V1); the still-unmeshed region
// therefore lies to the left of the reverse edges (apex, base.V2) and
// (base.V1, apex), which is the orientation front edges must carry.
func commitFrontSides(store Store, front *Front, b EdgeHandle, bV1, bV2, apex VertexHandle) {
	// pos must still name a live ring member when InsertEdge runs, so both
	// sides are spliced in before b is removed (mirrors Front.SplitEdge,
	// which inserts its two replacement edges before detaching the
	// original — removing first would leave pos anchored on an orphaned
	// node and corrupt the ring on the second insert).
	pos, _ := front.edges.Pos(b)
	wasBase := front.base == b
	var successor EdgeHandle
	if wasBase {
		successor, _ = front.edges.GetNext(b)
	}

	// Mirrors Front.SplitEdge's own insertion order: the replacement chain
	// runs bV1 -> apex -> bV2, so its first segment (bV1, apex) must be
	// inserted before its second (apex, bV2) — InsertEdge always splices
	// immediately before pos, so whichever side is inserted second ends
	// up adjacent to pos and first ends up one step further back.
	// Inserting in the opposite order, as a prior revision of this
	// function did, leaves the ring's next/prev links desynchronized from
	// edge endpoints (V2 of one edge no longer equal to V1 of the next),
	// which NewQuadLayer's base-run walk and
	// placeStartVertex/placeEndVertex's chain checks both depend on.
	commitOneSide(store, front, pos, bV1, apex)
	commitOneSide(store, front, pos, apex, bV2)

	base, _ := store.Edge(b)
	front.edges.Remove(b)
	if base.Marker == 0 {
		store.InteriorEdges().Adopt(b)
	} else {
		store.RemoveEdge(b)
	}

	// spec.md §7: a broken "GetNext" chain is a fatal structural invariant
	// violation; check it here in debug builds, since this is exactly the
	// ring-desynchronization bug the insertion order above was fixed to
	// avoid (see DESIGN.md). The check runs after b is detached: until then
	// b still sits between (apex, bV2) and b's old successor.
	if e1, ok := front.edges.GetEdge(bV1, apex); ok {
		assertRingChaining(store, front, e1)
	}
	if e2, ok := front.edges.GetEdge(apex, bV2); ok {
		assertRingChaining(store, front, e2)
	}

	if wasBase {
		// Per DESIGN NOTES: "after any removal that invalidates it,
		// advance to the successor recorded before removal."
		if front.isFrontEdge(successor) {
			front.base = successor
		} else {
			front.SetBaseFirst()
		}
	}
}

// assertRingChaining verifies the ring invariant DESIGN NOTES requires of
// any front edge: GetNext(e)'s V1 must equal e's own V2. A no-op when e is
// not (or no longer) a front member, or when DebugAssertions is off.
func assertRingChaining(store Store, front *Front, e EdgeHandle) {
	if !DebugAssertions {
		return
	}
	edge, ok := store.Edge(e)
	if !ok || edge.pos == nil || edge.pos.owner != front.edges {
		return
	}
	next, ok := front.edges.GetNext(e)
	if !ok {
		assert(false, "front edge has no successor in its own ring")
		return
	}
	nextEdge, ok := store.Edge(next)
	assert(ok && nextEdge.V1 == edge.V2, "front ring desynchronized: GetNext(e).V1 != e.V2")
}

// commitOneSide implements the (a)/(b) branch of spec.md §4.4 step 3 for a
// single new triangle side (v1, v2). If the reverse-direction edge is
// already a front edge, both triangles adjacent to it now exist, so it is
// no longer part of the unmeshed region's boundary: move it into the
// interior-edge registry (rather than discard it) so later lookups such as
// quadlayering.go's gap-merge step can still find it by endpoints.
// Otherwise the side is a genuine new front edge, inserted at the
// consumed base's old ring position.
func commitOneSide(store Store, front *Front, pos EdgeListPos, v1, v2 VertexHandle) {
	if existing, ok := front.edges.GetEdge(v2, v1); ok {
		front.edges.Remove(existing)
		store.InteriorEdges().Adopt(existing)
		return
	}
	front.edges.InsertEdge(pos, v1, v2, 0)
}
