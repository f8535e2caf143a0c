package mesh

// VertexHandle, EdgeHandle and FacetHandle are generational indices into the
// arenas owned by MeshStore. Carrying a generation alongside the slot index
// lets callers hold a handle across Remove/ClearWaste cycles without risking
// a stale reference silently resolving to a different, reused entity —
// per spec.md DESIGN NOTES: "Vertex handles must remain stable across mesh
// mutations... use indirect handles... not raw positions in a reallocating
// buffer."
type VertexHandle struct {
	idx, gen int32
}

// EdgeHandle identifies an Edge stored in a MeshStore.
type EdgeHandle struct {
	idx, gen int32
}

// FacetHandle identifies a Triangle or a Quad stored in a MeshStore. kind
// distinguishes which of the store's two facet arenas idx refers into,
// since triangles and quads are stored separately (spec.md §3 keeps their
// field shapes distinct: 3 vertices vs. 4).
type FacetHandle struct {
	idx, gen int32
	kind     facetKind
}

// NilVertex is the nil VertexHandle (slot index -1), never returned by
// AddVertex. It is not the zero value: a zero VertexHandle names slot 0.
var NilVertex = VertexHandle{idx: -1}

// NilEdge is the nil EdgeHandle (slot index -1), never returned by
// AddInteriorEdge / AddBoundaryEdge. It is not the zero value.
var NilEdge = EdgeHandle{idx: -1}

// NilFacet is the nil FacetHandle (slot index -1), never returned by
// AddTriangle / AddQuad. It is not the zero value.
var NilFacet = FacetHandle{idx: -1}

// IsNil reports whether h is the nil handle.
func (h VertexHandle) IsNil() bool { return h.idx < 0 }

// IsNil reports whether h is the nil handle.
func (h EdgeHandle) IsNil() bool { return h.idx < 0 }

// IsNil reports whether h is the nil handle.
func (h FacetHandle) IsNil() bool { return h.idx < 0 }
