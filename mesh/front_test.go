package mesh

import (
	"math"
	"testing"
)

func unitSquareDomain(t *testing.T, rho float64) (*MeshStore, *PolylineDomain) {
	t.Helper()
	s := NewMeshStore(rho)
	d, err := NewPolylineDomain(PolylineDomainOptions{
		Loops: [][]Vector2{unitSquareCCW()},
		Size:  constantSize(rho),
	})
	if err != nil {
		t.Fatalf("NewPolylineDomain: %v", err)
	}
	return s, d
}

func TestInitFrontUnitSquareConstantSize(t *testing.T) {
	s, d := unitSquareDomain(t, 0.25)

	front, err := InitFront(s, d)
	if err != nil {
		t.Fatalf("InitFront: %v", err)
	}

	edges := front.edges.Edges()
	if len(edges) != 16 {
		t.Fatalf("front has %d edges, want 16", len(edges))
	}

	for _, h := range edges {
		e, ok := s.Edge(h)
		if !ok {
			t.Fatal("front edge handle does not resolve")
		}
		if math.Abs(e.Length()-0.25) > 1e-6 {
			t.Errorf("front edge length = %v, want 0.25", e.Length())
		}
	}
}

func TestInitFrontMarksVertices(t *testing.T) {
	s, d := unitSquareDomain(t, 0.5)
	front, err := InitFront(s, d)
	if err != nil {
		t.Fatalf("InitFront: %v", err)
	}
	for _, h := range front.edges.Edges() {
		e, _ := s.Edge(h)
		for _, vh := range [2]VertexHandle{e.V1, e.V2} {
			v, ok := s.Vertex(vh)
			if !ok {
				t.Fatal("vertex handle does not resolve")
			}
			if !v.OnFront || !v.OnBoundary || !v.IsFixed {
				t.Errorf("boundary vertex flags = {OnFront:%v OnBoundary:%v IsFixed:%v}, want all true",
					v.OnFront, v.OnBoundary, v.IsFixed)
			}
		}
	}
}

func TestInitFrontRegistersBoundaryEdges(t *testing.T) {
	s, d := unitSquareDomain(t, 0.5)
	if _, err := InitFront(s, d); err != nil {
		t.Fatalf("InitFront: %v", err)
	}
	if s.BoundaryEdges().Len() == 0 {
		t.Error("InitFront should register every marked loop edge into Store.BoundaryEdges()")
	}
}

// TestInitFrontCrossLinksTwinEdges covers spec.md §4.2 steps 1 and 3: a loop
// edge marked as a neighbor's twin must seed its new front vertex at the
// twin's far end, which is this loop edge's own start coordinate (so the
// chain of per-edge vertices stays geometrically consistent, since the
// twin's own v1/v2 run opposite this loop's direction), cross-link
// symmetrically with the existing neighbor
// edge, and be excluded from refinement even though its length doesn't
// match the size function.
func TestInitFrontCrossLinksTwinEdges(t *testing.T) {
	s := NewMeshStore(1.0)
	nv1 := s.AddVertex(Vector2{1, 0})
	nv2 := s.AddVertex(Vector2{0, 0})
	neighbor := s.AddBoundaryEdge(nv1, nv2, 1)

	square := unitSquareCCW() // (0,0) -> (1,0) -> (1,1) -> (0,1)
	d, err := NewPolylineDomain(PolylineDomainOptions{
		Loops: [][]Vector2{square},
		Twins: [][]EdgeHandle{{neighbor, NilEdge, NilEdge, NilEdge}},
		Size:  constantSize(0.5),
	})
	if err != nil {
		t.Fatalf("NewPolylineDomain: %v", err)
	}

	front, err := InitFront(s, d)
	if err != nil {
		t.Fatalf("InitFront: %v", err)
	}

	twinVertex, ok := s.Vertex(nv1)
	if !ok {
		t.Fatal("neighbor vertex handle should resolve")
	}
	if twinVertex.XY != (Vector2{1, 0}) {
		t.Fatalf("unexpected setup: neighbor edge v1 = %v, want {1,0}", twinVertex.XY)
	}

	twinFront := NilEdge
	for _, h := range front.edges.Edges() {
		e, _ := s.Edge(h)
		if e.HasTwin() {
			twinFront = h
			break
		}
	}
	if twinFront.IsNil() {
		t.Fatal("no front edge came back with a twin set")
	}

	fe, _ := s.Edge(twinFront)
	if fe.Twin != neighbor {
		t.Errorf("front edge Twin = %v, want the neighbor edge handle %v", fe.Twin, neighbor)
	}
	ne, ok := s.Edge(neighbor)
	if !ok {
		t.Fatal("neighbor edge handle should still resolve")
	}
	if ne.Twin != twinFront {
		t.Errorf("neighbor edge Twin = %v, want the new front edge handle %v (symmetry)", ne.Twin, twinFront)
	}

	start, ok := s.Vertex(fe.V1)
	if !ok {
		t.Fatal("front edge start vertex should resolve")
	}
	if start.XY != (Vector2{0, 0}) {
		t.Errorf("twin front edge start = %v, want {0,0} (this loop edge's start, the twin's far end)", start.XY)
	}

	if math.Abs(fe.Length()-1) > 1e-9 {
		t.Errorf("twin front edge length = %v, want 1 (unrefined, since twin edges skip refinement)", fe.Length())
	}
}

func TestFrontSplitEdge(t *testing.T) {
	s := NewMeshStore(1.0)
	v1 := s.AddVertex(Vector2{0, 0})
	v2 := s.AddVertex(Vector2{2, 0})

	front := NewFront(s)
	e := front.Edges().AddEdge(v1, v2, 3)
	front.SetBase(e)

	e1, e2, ok := front.SplitEdge(e, s, 0.5, true)
	if !ok {
		t.Fatal("SplitEdge should succeed on a front member")
	}
	if front.Edges().Len() != 2 {
		t.Fatalf("front length = %d, want 2", front.Edges().Len())
	}

	edge1, _ := s.Edge(e1)
	edge2, _ := s.Edge(e2)
	if edge1.V1 != v1 || edge2.V2 != v2 {
		t.Error("split edges should preserve the original endpoints at the ends of the chain")
	}
	if edge1.V2 != edge2.V1 {
		t.Error("split edges should share the new midpoint vertex")
	}
	mid, ok := s.Vertex(edge1.V2)
	if !ok {
		t.Fatal("midpoint vertex handle should resolve")
	}
	if mid.XY != (Vector2{1, 0}) {
		t.Errorf("midpoint = %v, want {1,0}", mid.XY)
	}
	if edge1.Marker != 3 || edge2.Marker != 3 {
		t.Error("split edges should keep the original marker")
	}

	base, ok := front.Base()
	if !ok || base != e1 {
		t.Error("splitting the current base edge should re-point the base cursor at the first new edge")
	}
}

func TestFrontSortEdgesAscending(t *testing.T) {
	s := NewMeshStore(1.0)
	v := make([]VertexHandle, 4)
	v[0] = s.AddVertex(Vector2{0, 0})
	v[1] = s.AddVertex(Vector2{3, 0})
	v[2] = s.AddVertex(Vector2{3, 1})
	v[3] = s.AddVertex(Vector2{0, 1})

	front := NewFront(s)
	front.Edges().AddEdge(v[0], v[1], 0) // length 3
	front.Edges().AddEdge(v[1], v[2], 0) // length 1
	front.Edges().AddEdge(v[2], v[3], 0) // length 3
	front.Edges().AddEdge(v[3], v[0], 0) // length 1
	front.SetBaseFirst()

	front.SortEdges(true)

	base, ok := front.Base()
	if !ok {
		t.Fatal("front should have a base after sorting")
	}
	e, _ := s.Edge(base)
	if e.Length() != 1 {
		t.Errorf("base edge length after ascending sort = %v, want 1", e.Length())
	}
}
