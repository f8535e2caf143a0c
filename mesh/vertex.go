package mesh

// Vertex is a point in the mesh. Position is immutable once IsFixed is set
// (spec.md §3).
type Vertex struct {
	XY Vector2

	OnFront    bool
	OnBoundary bool
	IsFixed    bool

	incident []EdgeHandle

	gen  int32
	free bool
}

// NumIncidentEdges returns the number of edges currently referencing this
// vertex.
func (v *Vertex) NumIncidentEdges() int { return len(v.incident) }

// addIncident records that edge e references this vertex.
func (v *Vertex) addIncident(e EdgeHandle) {
	v.incident = append(v.incident, e)
}

// removeIncident drops edge e from this vertex's incidence list, if present.
func (v *Vertex) removeIncident(e EdgeHandle) {
	for i, h := range v.incident {
		if h == e {
			v.incident = append(v.incident[:i], v.incident[i+1:]...)
			return
		}
	}
}

// refreshOnFront recomputes OnFront from the incidence list against the
// given front membership test. OnFront is a derived invariant per spec.md
// DESIGN NOTES ("true iff incident_front_edges > 0"); callers refresh it
// explicitly after any front mutation rather than caching it implicitly.
func (v *Vertex) refreshOnFront(isFront func(EdgeHandle) bool) {
	for _, h := range v.incident {
		if isFront(h) {
			v.OnFront = true
			return
		}
	}
	v.OnFront = false
}
