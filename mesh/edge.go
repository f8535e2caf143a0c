package mesh

// Edge is a directed pair of vertices, traversed counter-clockwise around
// the region it bounds (spec.md §3). Edges are owned by exactly one
// EdgeList at a time (recorded in pos); an edge with pos == nil has been
// removed from its list but not yet reclaimed by ClearWaste.
type Edge struct {
	V1, V2 VertexHandle
	Marker int
	Twin   EdgeHandle

	length float64
	tang   Vector2
	nrml   Vector2

	inContainer bool
	pos         *edgeNode

	gen  int32
	free bool
}

// Length returns the cached Euclidean length of the edge.
func (e *Edge) Length() float64 { return e.length }

// Tangent returns the cached unit vector from V1 to V2.
func (e *Edge) Tangent() Vector2 { return e.tang }

// Normal returns the cached inward normal, i.e. the tangent rotated +90
// degrees so that it points into the region to the left of V1->V2, the
// unmeshed side for a front edge. Driver.tryAdvance and quadlayer.go's
// projection step both use it to place new geometry on that side.
func (e *Edge) Normal() Vector2 { return e.nrml }

// InContainer reports whether the edge is currently a member of an
// EdgeList.
func (e *Edge) InContainer() bool { return e.inContainer }

// HasTwin reports whether the edge has a linked twin on a neighboring mesh.
func (e *Edge) HasTwin() bool { return !e.Twin.IsNil() }

// recacheGeometry recomputes length, tangent and normal from the current
// positions of v1 and v2. Called by MeshStore whenever an edge's endpoints
// are assigned, never by callers directly.
func (e *Edge) recacheGeometry(p1, p2 Vector2) {
	d := p2.Sub(p1)
	e.length = d.Norm()
	if e.length == 0 {
		e.tang = Vector2{}
		e.nrml = Vector2{}
		return
	}
	e.tang = d.Scale(1 / e.length)
	// The unmeshed region lies to the left of every front edge (spec.md
	// §3); rotate the tangent +90 degrees to point that way:
	// (tx,ty) -> (-ty,tx).
	e.nrml = Vector2{-e.tang.Y, e.tang.X}
}

// Midpoint returns the midpoint of the edge given its endpoints' positions.
func Midpoint(p1, p2 Vector2) Vector2 {
	return Vector2{(p1.X + p2.X) / 2, (p1.Y + p2.Y) / 2}
}
