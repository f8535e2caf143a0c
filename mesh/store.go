package mesh

// Store is the mesh-store interface the advancing-front core consumes
// (spec.md §6). MeshStore is the reference implementation; callers may
// substitute their own as long as it honors the same contract.
type Store interface {
	AddVertex(p Vector2) VertexHandle
	RemoveVertex(v VertexHandle) bool
	Vertex(v VertexHandle) (*Vertex, bool)

	AddInteriorEdge(v1, v2 VertexHandle, marker int) EdgeHandle
	AddBoundaryEdge(v1, v2 VertexHandle, marker int) EdgeHandle
	RemoveEdge(e EdgeHandle)
	Edge(e EdgeHandle) (*Edge, bool)

	AddTriangle(v1, v2, v3 VertexHandle) FacetHandle
	AddQuad(v1, v2, v3, v4 VertexHandle) FacetHandle
	RemoveFacet(f FacetHandle)
	Triangle(f FacetHandle) (*Triangle, bool)
	Quad(f FacetHandle) (*Quad, bool)

	InteriorEdges() *EdgeList
	BoundaryEdges() *EdgeList

	VerticesWithin(p Vector2, r float64) []VertexHandle

	ClearWaste()
	SetupFacetConnectivity()

	NumVertices() int
	NumTriangles() int
	NumQuads() int
}

// MeshStore is the reference Store implementation: arena-backed entity
// storage with generational handles, deferred deletion and a planar spatial
// index (spec.md §5, §6).
type MeshStore struct {
	vertices     []Vertex
	vertexFree   []int32
	vertexWaste  []int32

	edges      []Edge
	edgeFree   []int32
	edgeWaste  []int32

	triangles    []Triangle
	triangleFree []int32
	triangleWaste []int32

	quads     []Quad
	quadFree  []int32
	quadWaste []int32

	interior *EdgeList
	boundary *EdgeList

	index *PointIndex
}

// NewMeshStore creates an empty store. cellSize should be on the order of
// the typical local size-function value, and is used only to bucket the
// internal spatial index — it does not bound any query radius.
func NewMeshStore(cellSize float64) *MeshStore {
	s := &MeshStore{index: NewPointIndex(cellSize)}
	s.interior = NewEdgeList(OrientationNone, s)
	s.boundary = NewEdgeList(OrientationCCW, s)
	return s
}

// --- vertices ---------------------------------------------------------

// AddVertex inserts a new vertex at p and returns its handle.
func (s *MeshStore) AddVertex(p Vector2) VertexHandle {
	var idx int32
	if n := len(s.vertexFree); n > 0 {
		idx = s.vertexFree[n-1]
		s.vertexFree = s.vertexFree[:n-1]
		s.vertices[idx] = Vertex{XY: p, gen: s.vertices[idx].gen}
	} else {
		idx = int32(len(s.vertices))
		s.vertices = append(s.vertices, Vertex{XY: p})
	}
	h := VertexHandle{idx: idx, gen: s.vertices[idx].gen}
	s.index.Add(h, p)
	return h
}

// Vertex resolves a handle to its vertex, reporting false if the handle is
// stale (the slot has since been removed and possibly reused).
func (s *MeshStore) Vertex(v VertexHandle) (*Vertex, bool) {
	if v.idx < 0 || int(v.idx) >= len(s.vertices) {
		return nil, false
	}
	vx := &s.vertices[v.idx]
	if vx.gen != v.gen || vx.free {
		return nil, false
	}
	return vx, true
}

func (s *MeshStore) vertex(v VertexHandle) *Vertex {
	vx, ok := s.Vertex(v)
	if !ok {
		panic("mesh: stale vertex handle")
	}
	return vx
}

// RemoveVertex detaches v, which must have no incident edges. Returns false
// if the handle is stale or the vertex is still referenced.
func (s *MeshStore) RemoveVertex(v VertexHandle) bool {
	vx, ok := s.Vertex(v)
	if !ok || len(vx.incident) > 0 {
		return false
	}
	vx.free = true
	vx.gen++
	s.index.Remove(v)
	s.vertexWaste = append(s.vertexWaste, v.idx)
	return true
}

// NumVertices returns the number of live (non-removed) vertices.
func (s *MeshStore) NumVertices() int {
	return len(s.vertices) - len(s.vertexFree) - len(s.vertexWaste)
}

// --- edges --------------------------------------------------------------

// newEdge allocates a new Edge entity referencing v1, v2, caching its
// geometry from their current positions. It does not attach the edge to
// any EdgeList; callers do that via EdgeList.AddEdge/InsertEdge/Adopt.
func (s *MeshStore) newEdge(v1, v2 VertexHandle, marker int) EdgeHandle {
	var idx int32
	if n := len(s.edgeFree); n > 0 {
		idx = s.edgeFree[n-1]
		s.edgeFree = s.edgeFree[:n-1]
		s.edges[idx] = Edge{gen: s.edges[idx].gen}
	} else {
		idx = int32(len(s.edges))
		s.edges = append(s.edges, Edge{})
	}
	e := &s.edges[idx]
	e.V1, e.V2, e.Marker = v1, v2, marker
	e.Twin = NilEdge
	e.recacheGeometry(s.vertex(v1).XY, s.vertex(v2).XY)

	h := EdgeHandle{idx: idx, gen: e.gen}
	s.vertex(v1).addIncident(h)
	s.vertex(v2).addIncident(h)
	return h
}

func (s *MeshStore) freeEdge(h EdgeHandle) {
	e, ok := s.Edge(h)
	if !ok {
		return
	}
	s.vertex(e.V1).removeIncident(h)
	s.vertex(e.V2).removeIncident(h)
	if e.HasTwin() {
		if twin, ok := s.Edge(e.Twin); ok {
			twin.Twin = NilEdge
		}
	}
	e.free = true
	e.gen++
	s.edgeWaste = append(s.edgeWaste, h.idx)
}

// Edge resolves a handle to its edge, reporting false if stale.
func (s *MeshStore) Edge(h EdgeHandle) (*Edge, bool) {
	if h.idx < 0 || int(h.idx) >= len(s.edges) {
		return nil, false
	}
	e := &s.edges[h.idx]
	if e.gen != h.gen || e.free {
		return nil, false
	}
	return e, true
}

func (s *MeshStore) edge(h EdgeHandle) *Edge {
	e, ok := s.Edge(h)
	if !ok {
		panic("mesh: stale edge handle")
	}
	return e
}

// AddInteriorEdge creates and registers an edge with no boundary marker
// semantics, tracked by InteriorEdges for get_edge(v1,v2) lookups (spec.md
// §6).
func (s *MeshStore) AddInteriorEdge(v1, v2 VertexHandle, marker int) EdgeHandle {
	return s.interior.AddEdge(v1, v2, marker)
}

// AddBoundaryEdge creates and registers a domain boundary edge, tracked by
// BoundaryEdges separately from the Front (spec.md DESIGN NOTES; see
// DESIGN.md for why boundary edges are a parallel registry rather than the
// Front itself).
func (s *MeshStore) AddBoundaryEdge(v1, v2 VertexHandle, marker int) EdgeHandle {
	return s.boundary.AddEdge(v1, v2, marker)
}

// RemoveEdge detaches e from whichever EdgeList currently holds it and
// frees the underlying entity.
func (s *MeshStore) RemoveEdge(e EdgeHandle) {
	edge, ok := s.Edge(e)
	if !ok {
		return
	}
	if edge.pos != nil {
		edge.pos.owner.Remove(e)
	}
	s.freeEdge(e)
}

// InteriorEdges returns the store's interior-edge registry.
func (s *MeshStore) InteriorEdges() *EdgeList { return s.interior }

// BoundaryEdges returns the store's boundary-edge registry.
func (s *MeshStore) BoundaryEdges() *EdgeList { return s.boundary }

// --- facets ---------------------------------------------------------

// AddTriangle inserts a CCW triangle (v1,v2,v3).
func (s *MeshStore) AddTriangle(v1, v2, v3 VertexHandle) FacetHandle {
	var idx int32
	if n := len(s.triangleFree); n > 0 {
		idx = s.triangleFree[n-1]
		s.triangleFree = s.triangleFree[:n-1]
		s.triangles[idx] = Triangle{gen: s.triangles[idx].gen}
	} else {
		idx = int32(len(s.triangles))
		s.triangles = append(s.triangles, Triangle{})
	}
	t := &s.triangles[idx]
	t.V1, t.V2, t.V3 = v1, v2, v3
	t.Quality = triangleQuality(s.vertex(v1).XY, s.vertex(v2).XY, s.vertex(v3).XY)
	return FacetHandle{idx: idx, gen: t.gen, kind: facetTriangle}
}

// AddQuad inserts a CCW quad (v1,v2,v3,v4).
func (s *MeshStore) AddQuad(v1, v2, v3, v4 VertexHandle) FacetHandle {
	var idx int32
	if n := len(s.quadFree); n > 0 {
		idx = s.quadFree[n-1]
		s.quadFree = s.quadFree[:n-1]
		s.quads[idx] = Quad{gen: s.quads[idx].gen}
	} else {
		idx = int32(len(s.quads))
		s.quads = append(s.quads, Quad{})
	}
	q := &s.quads[idx]
	q.V1, q.V2, q.V3, q.V4 = v1, v2, v3, v4
	q.Quality = quadQuality(s.vertex(v1).XY, s.vertex(v2).XY, s.vertex(v3).XY, s.vertex(v4).XY)
	return FacetHandle{idx: idx, gen: q.gen, kind: facetQuad}
}

// Triangle resolves a handle to a triangle, reporting false if stale or if
// the handle names a quad.
func (s *MeshStore) Triangle(f FacetHandle) (*Triangle, bool) {
	if f.kind != facetTriangle || f.idx < 0 || int(f.idx) >= len(s.triangles) {
		return nil, false
	}
	t := &s.triangles[f.idx]
	if t.gen != f.gen || t.free {
		return nil, false
	}
	return t, true
}

// Quad resolves a handle to a quad, reporting false if stale or if the
// handle names a triangle.
func (s *MeshStore) Quad(f FacetHandle) (*Quad, bool) {
	if f.kind != facetQuad || f.idx < 0 || int(f.idx) >= len(s.quads) {
		return nil, false
	}
	q := &s.quads[f.idx]
	if q.gen != f.gen || q.free {
		return nil, false
	}
	return q, true
}

// RemoveFacet detaches the triangle or quad named by f.
func (s *MeshStore) RemoveFacet(f FacetHandle) {
	switch f.kind {
	case facetTriangle:
		if t, ok := s.Triangle(f); ok {
			t.free = true
			t.gen++
			s.triangleWaste = append(s.triangleWaste, f.idx)
		}
	case facetQuad:
		if q, ok := s.Quad(f); ok {
			q.free = true
			q.gen++
			s.quadWaste = append(s.quadWaste, f.idx)
		}
	}
}

// NumTriangles returns the number of live triangles.
func (s *MeshStore) NumTriangles() int {
	return len(s.triangles) - len(s.triangleFree) - len(s.triangleWaste)
}

// NumQuads returns the number of live quads.
func (s *MeshStore) NumQuads() int {
	return len(s.quads) - len(s.quadFree) - len(s.quadWaste)
}

// --- spatial query -----------------------------------------------------

// VerticesWithin returns every live vertex within radius r of p, sorted by
// ascending distance, backing the front-update primitive's candidate search
// (spec.md §4.4 step 1, §5 ordering requirement). A non-positive r sets no
// distance bound, so every live vertex is returned.
func (s *MeshStore) VerticesWithin(p Vector2, r float64) []VertexHandle {
	results := s.index.FindClosestPoints(p, ClosestPointQueryOptions{
		MaxDistance: r,
	})
	out := make([]VertexHandle, len(results))
	for i, res := range results {
		out[i] = res.Vertex
	}
	return out
}

// --- cleanup -------------------------------------------------------

// ClearWaste reclaims entities detached by Remove* calls since the last
// ClearWaste, returning their arena slots to the respective free lists
// (spec.md §5: "remove detaches but does not free").
func (s *MeshStore) ClearWaste() {
	s.vertexFree = append(s.vertexFree, s.vertexWaste...)
	s.vertexWaste = s.vertexWaste[:0]

	s.edgeFree = append(s.edgeFree, s.edgeWaste...)
	s.edgeWaste = s.edgeWaste[:0]

	s.triangleFree = append(s.triangleFree, s.triangleWaste...)
	s.triangleWaste = s.triangleWaste[:0]

	s.quadFree = append(s.quadFree, s.quadWaste...)
	s.quadWaste = s.quadWaste[:0]
}

// facetEdgeKey is an unordered vertex-pair key used to find the facet (if
// any) sharing a given edge, mirroring builder_graph.go's computeAdjacency
// pattern (src-vertex -> edge indices) generalized to an undirected pair
// since a shared mesh edge is walked in opposite directions by its two
// adjacent facets.
type facetEdgeKey struct{ lo, hi VertexHandle }

func makeFacetEdgeKey(a, b VertexHandle) facetEdgeKey {
	if a.idx > b.idx || (a.idx == b.idx && a.gen > b.gen) {
		a, b = b, a
	}
	return facetEdgeKey{lo: a, hi: b}
}

// SetupFacetConnectivity primes triangle/quad Neighbors pointers from the
// current facet topology, so later consumers (e.g. quality-based
// retriangulation, not implemented by this core) can walk facet adjacency
// without recomputing it from scratch. Called once before generation begins
// (spec.md §6), mirroring the original's Cleanup::setup_facet_connectivity.
//
// Two passes over the live triangle/quad arenas: the first buckets every
// facet under each of its edges' undirected vertex-pair key (a shared mesh
// edge has exactly two such facets once the mesh is closed, one while a
// boundary edge or a not-yet-filled front edge is on the other side); the
// second walks the same edges again and assigns each facet's Neighbors slot
// to whichever other facet (if any) shares that key, leaving NilFacet across
// a boundary or unmeshed side.
func (s *MeshStore) SetupFacetConnectivity() {
	edgeFacets := make(map[facetEdgeKey][]FacetHandle)

	for i := range s.triangles {
		t := &s.triangles[i]
		if t.free {
			continue
		}
		fh := FacetHandle{idx: int32(i), gen: t.gen, kind: facetTriangle}
		for _, k := range [3]facetEdgeKey{
			makeFacetEdgeKey(t.V1, t.V2),
			makeFacetEdgeKey(t.V2, t.V3),
			makeFacetEdgeKey(t.V3, t.V1),
		} {
			edgeFacets[k] = append(edgeFacets[k], fh)
		}
	}
	for i := range s.quads {
		q := &s.quads[i]
		if q.free {
			continue
		}
		fh := FacetHandle{idx: int32(i), gen: q.gen, kind: facetQuad}
		for _, k := range [4]facetEdgeKey{
			makeFacetEdgeKey(q.V1, q.V2),
			makeFacetEdgeKey(q.V2, q.V3),
			makeFacetEdgeKey(q.V3, q.V4),
			makeFacetEdgeKey(q.V4, q.V1),
		} {
			edgeFacets[k] = append(edgeFacets[k], fh)
		}
	}

	otherFacet := func(k facetEdgeKey, self FacetHandle) FacetHandle {
		for _, fh := range edgeFacets[k] {
			if fh != self {
				return fh
			}
		}
		return NilFacet
	}

	for i := range s.triangles {
		t := &s.triangles[i]
		if t.free {
			continue
		}
		fh := FacetHandle{idx: int32(i), gen: t.gen, kind: facetTriangle}
		t.Neighbors[0] = otherFacet(makeFacetEdgeKey(t.V1, t.V2), fh)
		t.Neighbors[1] = otherFacet(makeFacetEdgeKey(t.V2, t.V3), fh)
		t.Neighbors[2] = otherFacet(makeFacetEdgeKey(t.V3, t.V1), fh)
	}
	for i := range s.quads {
		q := &s.quads[i]
		if q.free {
			continue
		}
		fh := FacetHandle{idx: int32(i), gen: q.gen, kind: facetQuad}
		q.Neighbors[0] = otherFacet(makeFacetEdgeKey(q.V1, q.V2), fh)
		q.Neighbors[1] = otherFacet(makeFacetEdgeKey(q.V2, q.V3), fh)
		q.Neighbors[2] = otherFacet(makeFacetEdgeKey(q.V3, q.V4), fh)
		q.Neighbors[3] = otherFacet(makeFacetEdgeKey(q.V4, q.V1), fh)
	}
}
