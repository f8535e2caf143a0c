package mesh

// facetKind distinguishes the two arenas a FacetHandle can name: triangles
// and quads are stored separately, since spec.md §3 gives them distinct
// shapes (3 vertices vs. 4).
type facetKind uint8

const (
	facetTriangle facetKind = iota
	facetQuad
)

// Triangle is a CCW-ordered triple of vertices (spec.md §3). Neighbors and
// Quality are caches: Neighbors is primed by MeshStore.SetupFacetConnectivity
// from the current interior-edge topology (NilFacet across a boundary edge
// or a still-missing neighbor); Quality is set once, at AddTriangle time,
// from the same min-angle/aspect-ratio metric frontupdate.go ranks candidate
// apexes with.
type Triangle struct {
	V1, V2, V3 VertexHandle
	Neighbors  [3]FacetHandle
	Quality    float64
	IsActive   bool

	gen  int32
	free bool
}

// Quad is a CCW-ordered quadruple of vertices, produced by merging two
// triangles during quad-layer generation (spec.md §4.6 step 7). Neighbors
// and Quality mirror Triangle's: primed by SetupFacetConnectivity and
// AddQuad respectively.
type Quad struct {
	V1, V2, V3, V4 VertexHandle
	Neighbors      [4]FacetHandle
	Quality        float64
	IsActive       bool

	gen  int32
	free bool
}
