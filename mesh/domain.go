package mesh

// SizeFunc returns the desired local element size at p. Implementations are
// expected to be smooth relative to the element size itself; the front
// edge refinement step (refine.go) assumes evaluating it twice within a
// distance of a few element sizes gives comparable results (spec.md §4.3).
type SizeFunc func(p Vector2) float64

// BoundaryEdgeRef names one directed edge of a domain boundary loop by
// vertex position, carrying an optional marker used to tag it as a
// physical boundary (non-zero) versus an internal seam shared with another
// loop (zero means "no marker", i.e. a plain interior edge).
//
// IsTwin marks this edge as shared with an already-meshed neighbor: Twin
// then names that neighbor's existing boundary edge in the store.
// InitFront cross-links it to the freshly created front edge at the same
// position (spec.md §4.2 step 3) and skips it during refinement, since its
// spacing is already fixed by whatever produced the neighbor. When IsTwin
// is true, the new front vertex at this position is placed at V2 rather
// than V1 — the existing edge's own v1/v2 labeling runs opposite to the new
// front's traversal direction.
type BoundaryEdgeRef struct {
	V1, V2 Vector2
	Marker int
	IsTwin bool
	Twin   EdgeHandle
}

// InitLoop is one closed chain of boundary edges, in traversal order.
// Winding matters: FrontInitializer implementations must present the
// exterior shell CCW and holes CW, so that walking every loop in order
// keeps the unmeshed domain interior to the left of each edge (spec.md
// §4.2).
type InitLoop struct {
	Edges []BoundaryEdgeRef
}

// FrontInitializer supplies the closed boundary loops InitFront consumes
// to seed a Front (spec.md §6). PolylineDomain is the reference
// implementation; callers may supply their own, e.g. reading loops from a
// file format this module has no opinion on.
type FrontInitializer interface {
	Loops() []InitLoop
}

// DatumStrategy picks which loop of a Domain's input chains is the
// exterior shell; every other loop is treated as a hole. Mirrors
// akhenakh-geo/s2's ShapeNestingQuery DatumStrategy, simplified to the
// planar case where nesting is unambiguous and the caller, not a
// geometric test, decides the datum.
type DatumStrategy func(loops [][]Vector2) int

// FirstLoopIsShell is the default DatumStrategy: the first supplied loop is
// always the exterior shell.
func FirstLoopIsShell(loops [][]Vector2) int { return 0 }

// PolylineDomain is the reference Domain/FrontInitializer implementation: a
// shell loop plus zero or more hole loops, each a closed polyline, together
// with a SizeFunc.
type PolylineDomain struct {
	loops   [][]Vector2
	markers [][]int
	twins   [][]EdgeHandle
	shell   int
	size    SizeFunc
}

// PolylineDomainOptions configures NewPolylineDomain.
type PolylineDomainOptions struct {
	// Loops holds one or more closed polylines: Loops[i][j] is the j-th
	// vertex of the i-th loop, implicitly closed back to Loops[i][0].
	Loops [][]Vector2
	// Markers optionally assigns a per-edge marker to each loop, parallel
	// to Loops; a nil or short entry defaults to marker 1 for every edge
	// of that loop (meaning "on the physical boundary").
	Markers [][]int
	// Twins optionally assigns a per-edge twin handle to each loop,
	// parallel to Loops: a non-nil handle at Twins[i][j] names an edge
	// already present in the store (typically a front or boundary edge
	// left over from meshing a neighboring domain) that shares this edge's
	// position, so InitFront cross-links the two instead of seeding a
	// fresh, independently-spaced vertex (spec.md §3/§4.2). A nil or short
	// entry defaults to NilEdge (no twin) for every edge of that loop.
	Twins [][]EdgeHandle
	// Datum picks the shell among Loops; defaults to FirstLoopIsShell.
	Datum DatumStrategy
	// Size is sampled along every front edge that refinement subdivides,
	// and evaluated at the midpoint of each base edge the driver advances.
	Size SizeFunc
}

// NewPolylineDomain validates opts and builds a PolylineDomain, or returns
// an InvalidDomain error (spec.md §7) if any loop is degenerate or the
// loops' windings are inconsistent with the chosen shell/hole convention.
func NewPolylineDomain(opts PolylineDomainOptions) (*PolylineDomain, error) {
	if len(opts.Loops) == 0 {
		return nil, &MeshError{Kind: InvalidDomain, Msg: "domain has no loops"}
	}
	if opts.Size == nil {
		return nil, &MeshError{Kind: InvalidDomain, Msg: "domain has no size function"}
	}
	datum := opts.Datum
	if datum == nil {
		datum = FirstLoopIsShell
	}
	shell := datum(opts.Loops)
	if shell < 0 || shell >= len(opts.Loops) {
		return nil, &MeshError{Kind: InvalidDomain, Msg: "datum strategy picked an out-of-range shell"}
	}

	d := &PolylineDomain{loops: opts.Loops, shell: shell, size: opts.Size}
	d.markers = make([][]int, len(opts.Loops))
	d.twins = make([][]EdgeHandle, len(opts.Loops))

	for i, loop := range opts.Loops {
		if len(loop) < 3 {
			return nil, &MeshError{Kind: InvalidDomain, Msg: "loop has fewer than 3 vertices"}
		}
		for j := range loop {
			next := loop[(j+1)%len(loop)]
			if loop[j].Sub(next).NormSqr() == 0 {
				return nil, &MeshError{Kind: InvalidDomain, Msg: "loop has a zero-length edge"}
			}
		}
		wantCCW := i == shell
		area := signedLoopArea(loop)
		if wantCCW && area <= 0 {
			return nil, &MeshError{Kind: InvalidDomain, Msg: "shell loop is not wound CCW"}
		}
		if !wantCCW && area >= 0 {
			return nil, &MeshError{Kind: InvalidDomain, Msg: "hole loop is not wound CW"}
		}

		m := opts.Markers
		if i < len(m) && len(m[i]) == len(loop) {
			d.markers[i] = m[i]
		} else {
			defaults := make([]int, len(loop))
			for j := range defaults {
				defaults[j] = 1
			}
			d.markers[i] = defaults
		}

		t := opts.Twins
		if i < len(t) && len(t[i]) == len(loop) {
			d.twins[i] = t[i]
		} else {
			defaults := make([]EdgeHandle, len(loop))
			for j := range defaults {
				defaults[j] = NilEdge
			}
			d.twins[i] = defaults
		}
	}
	return d, nil
}

func signedLoopArea(loop []Vector2) float64 {
	sum := 0.0
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Loops implements FrontInitializer.
func (d *PolylineDomain) Loops() []InitLoop {
	out := make([]InitLoop, len(d.loops))
	for i, loop := range d.loops {
		edges := make([]BoundaryEdgeRef, len(loop))
		for j, p := range loop {
			q := loop[(j+1)%len(loop)]
			twin := d.twins[i][j]
			if twin.IsNil() {
				edges[j] = BoundaryEdgeRef{V1: p, V2: q, Marker: d.markers[i][j]}
				continue
			}
			// A twin edge's v1/v2 are reported in the neighbor's own
			// traversal order, which runs opposite to this loop's (spec.md
			// §4.2 step 1); swap p/q so InitFront's "v1 unless twin, else
			// v2" rule still lands on this loop's own consistent coordinate.
			edges[j] = BoundaryEdgeRef{V1: q, V2: p, Marker: d.markers[i][j], IsTwin: true, Twin: twin}
		}
		out[i] = InitLoop{Edges: edges}
	}
	return out
}

// Size evaluates the domain's size function at p.
func (d *PolylineDomain) Size(p Vector2) float64 { return d.size(p) }

// ShellIndex returns the index into Loops() the domain resolved as the
// exterior shell.
func (d *PolylineDomain) ShellIndex() int { return d.shell }
