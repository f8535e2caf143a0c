package mesh

import "math"

// refineFrontEdges subdivides every non-twin edge of front so its segment
// length tracks the domain's size function, ported near-verbatim from the
// original's Front::refine_front_edges (spec.md §4.3). Twin edges (shared
// with a neighboring mesh) are left untouched, since their spacing is
// already fixed by whatever produced the neighbor.
func refineFrontEdges(front *Front, store Store, domain *PolylineDomain) error {
	candidates := []EdgeHandle{}
	for _, h := range front.edges.Edges() {
		e, ok := store.Edge(h)
		if ok && !e.HasTwin() {
			candidates = append(candidates, h)
		}
	}

	toRemove := make([]EdgeHandle, 0, len(candidates))
	for _, h := range candidates {
		ok, err := refineEdge(front, store, domain, h)
		if err != nil {
			return err
		}
		if ok {
			toRemove = append(toRemove, h)
		}
	}
	for _, h := range toRemove {
		front.edges.Remove(h)
		store.RemoveEdge(h)
	}
	return nil
}

// refineEdge subdivides a single front edge in place, inserting the new
// sub-edges immediately before it in ring order and leaving the caller to
// remove the original once every edge has been processed. Returns true if
// subdivision happened (the caller must then remove edge).
func refineEdge(front *Front, store Store, domain *PolylineDomain, h EdgeHandle) (bool, error) {
	e, ok := store.Edge(h)
	if !ok {
		return false, nil
	}
	v1, _ := store.Vertex(e.V1)
	v2, _ := store.Vertex(e.V2)

	rho1 := domain.Size(v1.XY)
	rho2 := domain.Size(v2.XY)

	// Walk from the endpoint with the smaller size-function value toward
	// the one with the larger, so the predictor-corrector step always
	// grows into the coarser side.
	dir := rho1 < rho2

	xyNew, err := createSubVertexCoords(e, v1.XY, v2.XY, dir, rho1, rho2, domain)
	if err != nil {
		return false, err
	}
	if len(xyNew) < 3 {
		return false, nil
	}

	pos, ok := front.edges.Pos(h)
	if !ok {
		return false, nil
	}

	vCur := e.V1
	for i := 1; i < len(xyNew)-1; i++ {
		vNew := store.AddVertex(xyNew[i])
		if vtx, ok := store.Vertex(vNew); ok {
			vtx.IsFixed = true
			vtx.OnFront = true
			vtx.OnBoundary = true
		}
		eNew := front.edges.InsertEdge(pos, vCur, vNew, e.Marker)
		if ne, ok := store.Edge(eNew); ok {
			if a, ok := store.Vertex(ne.V1); ok {
				a.OnBoundary = true
			}
			if b, ok := store.Vertex(ne.V2); ok {
				b.OnBoundary = true
			}
		}
		vCur = vNew
	}
	eLast := front.edges.InsertEdge(pos, vCur, e.V2, e.Marker)
	if ne, ok := store.Edge(eLast); ok {
		if a, ok := store.Vertex(ne.V1); ok {
			a.OnBoundary = true
		}
		if b, ok := store.Vertex(ne.V2); ok {
			b.OnBoundary = true
		}
	}
	return true, nil
}

// createSubVertexCoords distributes new vertex positions along edge e
// according to domain's size function, using a predictor-corrector
// marching scheme, then redistributes the crop at the end proportionally
// to local size, weighted by rho (spec.md §4.3, §9 Open Question 1 —
// ρ-weighted distribution kept). The march runs from v_a to v_b; when dir
// is false the result is reversed here, so xyNew always runs from xy1 to xy2.
func createSubVertexCoords(e *Edge, xy1, xy2 Vector2, dir bool, rho1, rho2 float64, domain *PolylineDomain) ([]Vector2, error) {
	var vA, vB Vector2
	var tang Vector2
	var rhoB float64
	if dir {
		vA, vB = xy1, xy2
		tang = e.Tangent()
		rhoB = rho2
	} else {
		vA, vB = xy2, xy1
		tang = e.Tangent().Scale(-1)
		rhoB = rho1
	}

	length := e.Length()
	if length == 0 {
		return nil, &MeshError{Kind: RefinementDegenerate, Msg: "zero-length front edge"}
	}

	sEnd := 1.0 - 0.5*rhoB/length
	xyNew := []Vector2{vA}
	xy := vA
	sLast := 0.0

	maxSteps := 100000
	for step := 0; ; step++ {
		if step > maxSteps {
			return nil, &MeshError{Kind: RefinementDegenerate, Msg: "refinement marching did not converge"}
		}
		rho := domain.Size(xy)
		if rho <= 0 {
			return nil, &MeshError{Kind: RefinementDegenerate, Msg: "size function returned non-positive value"}
		}
		xyP := xy.Add(tang.Scale(rho))

		rhoP := domain.Size(xyP)
		dxyC := tang.Scale(0.5 * (rho + rhoP))
		xyC := xy.Add(dxyC)

		l := xyC.Sub(vA).Norm()
		s := l / length

		// spec.md §4.3 invariant: "the arc parameters of successive
		// samples are strictly increasing (checked in debug builds)".
		assert(s > sLast, "refinement arc parameter must strictly increase between successive samples")

		xyNew = append(xyNew, xyC)
		sLast = s
		xy = xyC

		if s > sEnd {
			break
		}
	}

	xyNew[len(xyNew)-1] = vB

	dCr := tang.Scale((1.0 - sLast) * length)

	rhoI := make([]float64, len(xyNew))
	for i := 1; i < len(xyNew)-1; i++ {
		rhoI[i] = domain.Size(xyNew[i])
	}
	rhoTot := 0.0
	for _, r := range rhoI {
		rhoTot += r
	}
	if rhoTot > 0 {
		for i := 1; i < len(xyNew)-1; i++ {
			xyNew[i] = xyNew[i].Add(dCr.Scale(rhoI[i] / rhoTot))
		}
	}

	if math.IsNaN(xyNew[0].X) {
		return nil, &MeshError{Kind: RefinementDegenerate, Msg: "refinement produced NaN coordinates"}
	}

	if !dir {
		reverse(xyNew)
	}
	return xyNew, nil
}

func reverse(xy []Vector2) {
	for i, j := 0, len(xy)-1; i < j; i, j = i+1, j-1 {
		xy[i], xy[j] = xy[j], xy[i]
	}
}
