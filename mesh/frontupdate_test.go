package mesh

import "testing"

// TestUpdateFrontClosesFinalTriangle is a regression test for a case where
// every side of the candidate triangle coincides with an existing front
// edge: the last three-edge gap in an otherwise-finished mesh. The base's
// two new sides are each the exact reverse of one of the other two front
// edges, so both must be adopted into the interior registry and the front
// must end up empty, not rejected as a false "duplicate edge".
func TestUpdateFrontClosesFinalTriangle(t *testing.T) {
	s := NewMeshStore(1.0)
	a := s.AddVertex(Vector2{0, 0})
	b := s.AddVertex(Vector2{2, 0})
	c := s.AddVertex(Vector2{1, 1})

	front := NewFront(s)
	base := front.Edges().AddEdge(a, b, 0)
	front.Edges().AddEdge(b, c, 0)
	front.Edges().AddEdge(c, a, 0)
	front.SetBase(base)

	beforeVerts := s.NumVertices()
	res, err := UpdateFront(s, front, base, Vector2{1, 1}, 0.5)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res == nil {
		t.Fatal("UpdateFront should close the final triangular gap, not reject it as invalid")
	}
	if res.Apex != c {
		t.Errorf("Apex = %v, want existing vertex %v", res.Apex, c)
	}
	if s.NumVertices() != beforeVerts {
		t.Errorf("NumVertices() = %d, want %d (no new vertex needed to close the gap)", s.NumVertices(), beforeVerts)
	}

	tri, ok := s.Triangle(res.Triangle)
	if !ok || tri.V1 != a || tri.V2 != b || tri.V3 != c {
		t.Fatalf("triangle = (%v,%v,%v), want (%v,%v,%v)", tri.V1, tri.V2, tri.V3, a, b, c)
	}

	if front.edges.Len() != 0 {
		t.Errorf("front length = %d, want 0 (every side of the closing triangle was already a front edge)", front.edges.Len())
	}
	if s.InteriorEdges().Len() != 3 {
		t.Errorf("InteriorEdges().Len() = %d, want 3 (base plus both reused sides)", s.InteriorEdges().Len())
	}
}

// TestUpdateFrontPreservesRingChaining is a regression test for a case
// where neither new triangle side matches an existing reverse front edge,
// so both are freshly spliced into the ring rather than adopted: the
// resulting ring must still satisfy edge.V2 == nextEdge.V1 all the way
// around, since NewQuadLayer's base-run walk and
// QuadLayer.placeStartVertex/placeEndVertex both depend on it.
func TestUpdateFrontPreservesRingChaining(t *testing.T) {
	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{1, 0})
	v2 := s.AddVertex(Vector2{1, 1})
	v3 := s.AddVertex(Vector2{0, 1})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	e12 := front.Edges().AddEdge(v1, v2, 0)
	e23 := front.Edges().AddEdge(v2, v3, 0)
	e30 := front.Edges().AddEdge(v3, v0, 0)
	front.SetBase(b)

	res, err := UpdateFront(s, front, b, Vector2{0.5, 0.5}, 0.3)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res == nil {
		t.Fatal("UpdateFront should succeed")
	}
	apex := res.Apex

	e0apex, ok := front.edges.GetEdge(v0, apex)
	if !ok {
		t.Fatal("(v0, apex) should be a front edge")
	}
	eapex1, ok := front.edges.GetEdge(apex, v1)
	if !ok {
		t.Fatal("(apex, v1) should be a front edge")
	}

	checkNext := func(from, want EdgeHandle, label string) {
		got, ok := front.edges.GetNext(from)
		if !ok || got != want {
			t.Errorf("GetNext(%s) = %v, want %v", label, got, want)
		}
	}
	checkNext(e30, e0apex, "(v3,v0)")
	checkNext(e0apex, eapex1, "(v0,apex)")
	checkNext(eapex1, e12, "(apex,v1)")
	checkNext(e12, e23, "(v1,v2)")
	checkNext(e23, e30, "(v2,v3)")
}

// TestUpdateFrontRingChainingAssertionHoldsUnderDebugAssertions enables
// DebugAssertions and re-runs the same scenario as
// TestUpdateFrontPreservesRingChaining to confirm commitFrontSides' wired-in
// assertRingChaining call never fires on a correct commit — it would panic
// on any regression of the insertion-order fix that test guards.
func TestUpdateFrontRingChainingAssertionHoldsUnderDebugAssertions(t *testing.T) {
	old := DebugAssertions
	DebugAssertions = true
	defer func() { DebugAssertions = old }()

	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{1, 0})
	v2 := s.AddVertex(Vector2{1, 1})
	v3 := s.AddVertex(Vector2{0, 1})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	front.Edges().AddEdge(v1, v2, 0)
	front.Edges().AddEdge(v2, v3, 0)
	front.Edges().AddEdge(v3, v0, 0)
	front.SetBase(b)

	res, err := UpdateFront(s, front, b, Vector2{0.5, 0.5}, 0.3)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res == nil {
		t.Fatal("UpdateFront should succeed")
	}
}

func TestUpdateFrontCreatesNewApexVertex(t *testing.T) {
	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{1, 0})
	v2 := s.AddVertex(Vector2{1, 1})
	v3 := s.AddVertex(Vector2{0, 1})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	front.Edges().AddEdge(v1, v2, 0)
	front.Edges().AddEdge(v2, v3, 0)
	front.Edges().AddEdge(v3, v0, 0)
	front.SetBase(b)

	before := s.NumVertices()
	res, err := UpdateFront(s, front, b, Vector2{0.5, 0.5}, 0.3)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res == nil {
		t.Fatal("UpdateFront should find a valid candidate when the ideal apex is unobstructed")
	}
	if s.NumVertices() != before+1 {
		t.Errorf("NumVertices() = %d, want %d (a new apex vertex should be created)", s.NumVertices(), before+1)
	}
	if res.ApexXY != (Vector2{0.5, 0.5}) {
		t.Errorf("ApexXY = %v, want {0.5,0.5}", res.ApexXY)
	}

	tri, ok := s.Triangle(res.Triangle)
	if !ok {
		t.Fatal("committed triangle should resolve")
	}
	if tri.V1 != v0 || tri.V2 != v1 || tri.V3 != res.Apex {
		t.Errorf("triangle vertices = (%v,%v,%v), want (%v,%v,%v)", tri.V1, tri.V2, tri.V3, v0, v1, res.Apex)
	}

	if front.edges.Len() != 5 {
		t.Fatalf("front length after one update = %d, want 5 (4 - base + 2 new sides)", front.edges.Len())
	}
	if _, ok := front.edges.GetEdge(v0, v1); ok {
		t.Error("consumed base edge should no longer be a front member")
	}
	if _, ok := front.edges.GetEdge(v0, res.Apex); !ok {
		t.Error("new side (v0, apex) should be a front member")
	}
	if _, ok := front.edges.GetEdge(res.Apex, v1); !ok {
		t.Error("new side (apex, v1) should be a front member")
	}
}

func TestUpdateFrontSnapsToExistingNearbyVertex(t *testing.T) {
	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{1, 0})
	v2 := s.AddVertex(Vector2{1, 1})
	v3 := s.AddVertex(Vector2{0.5, 0.49})
	v4 := s.AddVertex(Vector2{0, 1})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	front.Edges().AddEdge(v1, v2, 0)
	front.Edges().AddEdge(v2, v3, 0)
	front.Edges().AddEdge(v3, v4, 0)
	front.Edges().AddEdge(v4, v0, 0)
	front.SetBase(b)

	before := s.NumVertices()
	res, err := UpdateFront(s, front, b, Vector2{0.5, 0.49}, 0.2)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res == nil {
		t.Fatal("UpdateFront should find a valid candidate")
	}
	if res.Apex != v3 {
		t.Errorf("Apex = %v, want existing vertex %v (snap, don't duplicate)", res.Apex, v3)
	}
	if s.NumVertices() != before {
		t.Errorf("NumVertices() = %d, want %d (no new vertex should be created)", s.NumVertices(), before)
	}
	if front.edges.Len() != 6 {
		t.Fatalf("front length = %d, want 6 (5 - base + 2 new sides)", front.edges.Len())
	}
}

func TestUpdateFrontRejectsCWCandidate(t *testing.T) {
	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{1, 0})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	front.SetBase(b)

	res, err := UpdateFront(s, front, b, Vector2{0.5, -0.5}, 0.3)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res != nil {
		t.Error("UpdateFront should reject a candidate on the wrong (CW) side of the base edge")
	}
}

func TestUpdateFrontRejectsCrossingCandidate(t *testing.T) {
	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{2, 0})
	vA := s.AddVertex(Vector2{0.5, -0.5})
	vB := s.AddVertex(Vector2{0.5, 1.5})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	front.Edges().AddEdge(vA, vB, 0)
	front.SetBase(b)

	beforeLen := front.edges.Len()
	beforeVerts := s.NumVertices()

	res, err := UpdateFront(s, front, b, Vector2{1, 1}, 0.3)
	if err != nil {
		t.Fatalf("UpdateFront: %v", err)
	}
	if res != nil {
		t.Error("UpdateFront should reject a candidate whose side would cross another front edge")
	}
	if front.edges.Len() != beforeLen {
		t.Errorf("front length changed to %d, want unchanged %d", front.edges.Len(), beforeLen)
	}
	if s.NumVertices() != beforeVerts {
		t.Errorf("NumVertices() changed to %d, want unchanged %d", s.NumVertices(), beforeVerts)
	}
}

func TestAdvanceFrontCommitsKnownApex(t *testing.T) {
	s := NewMeshStore(1.0)
	v0 := s.AddVertex(Vector2{0, 0})
	v1 := s.AddVertex(Vector2{1, 0})
	v2 := s.AddVertex(Vector2{1, 1})
	v3 := s.AddVertex(Vector2{0, 1})
	apex := s.AddVertex(Vector2{0.5, 0.5})

	front := NewFront(s)
	b := front.Edges().AddEdge(v0, v1, 0)
	front.Edges().AddEdge(v1, v2, 0)
	front.Edges().AddEdge(v2, v3, 0)
	front.Edges().AddEdge(v3, v0, 0)
	front.SetBase(b)

	res, ok := advanceFront(s, front, b, apex)
	if !ok {
		t.Fatal("advanceFront should succeed when b is a front member and apex resolves")
	}
	if res.Apex != apex {
		t.Errorf("Apex = %v, want %v", res.Apex, apex)
	}
	if _, ok := front.edges.GetEdge(v0, v1); ok {
		t.Error("base edge should be consumed")
	}
	if _, ok := front.edges.GetEdge(v0, apex); !ok {
		t.Error("new side (v0, apex) should be a front member")
	}
	if _, ok := front.edges.GetEdge(apex, v1); !ok {
		t.Error("new side (apex, v1) should be a front member")
	}

	// A second call against the now-stale base handle must fail cleanly.
	if _, ok := advanceFront(s, front, b, apex); ok {
		t.Error("advanceFront should fail once b is no longer a front member")
	}
}
