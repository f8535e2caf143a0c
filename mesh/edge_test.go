package mesh

import "testing"

func TestEdgeNormalPointsLeftOfTangent(t *testing.T) {
	s := NewMeshStore(1.0)
	v1 := s.AddVertex(Vector2{0, 0})
	v2 := s.AddVertex(Vector2{1, 0})
	h := s.AddInteriorEdge(v1, v2, 0)
	e, _ := s.Edge(h)

	if e.Tangent() != (Vector2{1, 0}) {
		t.Fatalf("Tangent() = %v, want {1,0}", e.Tangent())
	}
	// Walking +x, "left" is +y: the unmeshed region for a CCW front edge
	// lies on that side (spec.md §3).
	if e.Normal() != (Vector2{0, 1}) {
		t.Errorf("Normal() = %v, want {0,1} (left of tangent)", e.Normal())
	}
}

func TestEdgeNormalMatchesLeftTurnOfTangent(t *testing.T) {
	s := NewMeshStore(1.0)
	v1 := s.AddVertex(Vector2{0, 0})
	v2 := s.AddVertex(Vector2{0, 1})
	h := s.AddInteriorEdge(v1, v2, 0)
	e, _ := s.Edge(h)

	// Walking +y, "left" is -x.
	if e.Normal() != (Vector2{-1, 0}) {
		t.Errorf("Normal() = %v, want {-1,0}", e.Normal())
	}
}

func TestEdgeZeroLengthHasZeroTangentAndNormal(t *testing.T) {
	s := NewMeshStore(1.0)
	v1 := s.AddVertex(Vector2{1, 1})
	v2 := s.AddVertex(Vector2{1, 1})
	h := s.AddInteriorEdge(v1, v2, 0)
	e, _ := s.Edge(h)

	if e.Length() != 0 || e.Tangent() != (Vector2{}) || e.Normal() != (Vector2{}) {
		t.Error("a zero-length edge should report zero length, tangent and normal")
	}
}
