package mesh

// Orientation tags the winding an EdgeList is expected to maintain. Boundary
// loops carry CCW (exterior) or CW (holes); the Front itself carries NONE,
// since it is not a boundary of a fixed shape but the evolving edge of the
// unmeshed region (spec.md §3).
type Orientation int

const (
	OrientationNone Orientation = iota
	OrientationCCW
	OrientationCW
)

// edgeNode is one element of the intrusive doubly linked ring backing an
// EdgeList. Edge.pos points at the node holding that edge, giving O(1)
// removal without a linear search — the "stable positional handle" called
// for by spec.md §3 and DESIGN NOTES' "intrusive back-pointers" note.
type edgeNode struct {
	handle     EdgeHandle
	prev, next *edgeNode
	owner      *EdgeList
}

// edgeStore is the subset of MeshStore that an EdgeList needs in order to
// create, resolve and free the edges and vertices it manages. Kept as an
// interface (rather than a direct *MeshStore field) so EdgeList can be
// exercised in tests against a minimal fake.
type edgeStore interface {
	newEdge(v1, v2 VertexHandle, marker int) EdgeHandle
	freeEdge(h EdgeHandle)
	edge(h EdgeHandle) *Edge
	vertex(h VertexHandle) *Vertex
}

// EdgeList is an ordered cyclic sequence of directed edges (spec.md §4.1).
// It is the basis for both the Front and each boundary loop held by a
// MeshStore.
type EdgeList struct {
	orientation Orientation
	store       edgeStore

	head *edgeNode
	size int

	byEndpoints map[[2]VertexHandle]*edgeNode

	areaValid bool
	area      float64

	onAdd    func(v1, v2 *Vertex)
	onRemove func(v1, v2 *Vertex)
}

// NewEdgeList creates an empty EdgeList with the given orientation, backed
// by store for vertex/edge resolution.
func NewEdgeList(orientation Orientation, store edgeStore) *EdgeList {
	return &EdgeList{
		orientation: orientation,
		store:       store,
		byEndpoints: make(map[[2]VertexHandle]*edgeNode),
	}
}

// SetHooks installs callbacks invoked after an edge is added to, or before
// an edge is removed from, the list. Front uses these to maintain the
// on_front derived invariant on vertices (spec.md §4.2's mark_objects).
func (l *EdgeList) SetHooks(onAdd, onRemove func(v1, v2 *Vertex)) {
	l.onAdd, l.onRemove = onAdd, onRemove
}

// Len returns the number of edges currently in the list.
func (l *EdgeList) Len() int { return l.size }

// Orientation returns the list's winding tag.
func (l *EdgeList) Orientation() Orientation { return l.orientation }

// AddEdge appends a new edge (v1, v2) with the given marker to the list.
func (l *EdgeList) AddEdge(v1, v2 VertexHandle, marker int) EdgeHandle {
	h := l.store.newEdge(v1, v2, marker)
	n := &edgeNode{handle: h, owner: l}
	if l.head == nil {
		n.next, n.prev = n, n
		l.head = n
	} else {
		last := l.head.prev
		last.next, n.prev = n, last
		n.next, l.head.prev = l.head, n
	}
	l.size++
	l.attach(h, n)
	return h
}

// InsertEdge creates a new edge (v1, v2) and inserts it immediately before
// the edge at position pos, returning the new edge's handle. pos must be a
// position previously returned by Pos for an edge still in this list.
func (l *EdgeList) InsertEdge(pos EdgeListPos, v1, v2 VertexHandle, marker int) EdgeHandle {
	h := l.store.newEdge(v1, v2, marker)
	n := &edgeNode{handle: h, owner: l}
	if l.head == nil {
		n.next, n.prev = n, n
		l.head = n
	} else {
		target := pos.node
		prev := target.prev
		prev.next, n.prev = n, prev
		n.next, target.prev = target, n
	}
	l.size++
	l.attach(h, n)
	return h
}

// Adopt attaches an already-allocated edge handle (not currently a member
// of any EdgeList) to the end of this list, reusing the existing Edge
// entity rather than creating a new one. Front-update uses this to move a
// consumed base edge, or a side edge whose twin now exists, from the Front
// into the store's interior-edge registry without reallocating it (spec.md
// §4.4 step 3).
func (l *EdgeList) Adopt(h EdgeHandle) bool {
	e := l.store.edge(h)
	if e.pos != nil {
		return false
	}
	n := &edgeNode{handle: h, owner: l}
	if l.head == nil {
		n.next, n.prev = n, n
		l.head = n
	} else {
		last := l.head.prev
		last.next, n.prev = n, last
		n.next, l.head.prev = l.head, n
	}
	l.size++
	l.attach(h, n)
	return true
}

func (l *EdgeList) attach(h EdgeHandle, n *edgeNode) {
	e := l.store.edge(h)
	e.pos = n
	e.inContainer = true
	l.byEndpoints[[2]VertexHandle{e.V1, e.V2}] = n
	l.areaValid = false
	if l.onAdd != nil {
		l.onAdd(l.store.vertex(e.V1), l.store.vertex(e.V2))
	}
}

// Remove removes edge h from the list in O(1) using its stored position.
// It is a no-op if h is not currently a member of this list.
func (l *EdgeList) Remove(h EdgeHandle) {
	e := l.store.edge(h)
	n := e.pos
	if n == nil || n.owner != l {
		return
	}

	v1, v2 := l.store.vertex(e.V1), l.store.vertex(e.V2)
	if l.onRemove != nil {
		l.onRemove(v1, v2)
	}

	delete(l.byEndpoints, [2]VertexHandle{e.V1, e.V2})
	if n.next == n {
		l.head = nil
	} else {
		n.prev.next = n.next
		n.next.prev = n.prev
		if l.head == n {
			l.head = n.next
		}
	}
	l.size--
	e.pos = nil
	e.inContainer = false
	l.areaValid = false
}

// EdgeListPos is a stable handle to a position within an EdgeList, usable
// with InsertEdge. It is invalidated once the edge at that position is
// removed from the list.
type EdgeListPos struct{ node *edgeNode }

// Pos returns the current position of edge h within this list. The second
// return value is false if h is not a member of this list.
func (l *EdgeList) Pos(h EdgeHandle) (EdgeListPos, bool) {
	e := l.store.edge(h)
	if e.pos == nil || e.pos.owner != l {
		return EdgeListPos{}, false
	}
	return EdgeListPos{e.pos}, true
}

// GetEdge returns the unique edge whose ordered endpoints are (va, vb), if
// present in the list.
func (l *EdgeList) GetEdge(va, vb VertexHandle) (EdgeHandle, bool) {
	n, ok := l.byEndpoints[[2]VertexHandle{va, vb}]
	if !ok {
		return NilEdge, false
	}
	return n.handle, true
}

// GetEdgeRank returns the rank-th (1-indexed) edge in this list incident to
// v, walking v's incidence list in insertion order.
func (l *EdgeList) GetEdgeRank(v VertexHandle, rank int) (EdgeHandle, bool) {
	vtx := l.store.vertex(v)
	count := 0
	for _, h := range vtx.incident {
		e := l.store.edge(h)
		if e.pos != nil && e.pos.owner == l {
			count++
			if count == rank {
				return h, true
			}
		}
	}
	return NilEdge, false
}

// GetNext returns the edge following h in ring order, i.e. the edge whose
// v1 equals h's v2 (assuming the list maintains endpoint-chained order, as
// boundary loops and the Front do).
func (l *EdgeList) GetNext(h EdgeHandle) (EdgeHandle, bool) {
	e := l.store.edge(h)
	if e.pos == nil || e.pos.owner != l {
		return NilEdge, false
	}
	return e.pos.next.handle, true
}

// GetPrev returns the edge preceding h in ring order.
func (l *EdgeList) GetPrev(h EdgeHandle) (EdgeHandle, bool) {
	e := l.store.edge(h)
	if e.pos == nil || e.pos.owner != l {
		return NilEdge, false
	}
	return e.pos.prev.handle, true
}

// IsTraversable reports whether walking GetNext from a reaches b without
// leaving the list, i.e. without completing a full revolution back to a
// first.
func (l *EdgeList) IsTraversable(a, b EdgeHandle) bool {
	ea := l.store.edge(a)
	if ea.pos == nil || ea.pos.owner != l {
		return false
	}
	if a == b {
		return true
	}
	for n := ea.pos.next; n != ea.pos; n = n.next {
		if n.handle == b {
			return true
		}
	}
	return false
}

// First returns the first edge in the list in ring order, i.e. the edge the
// base cursor resets to on SetBaseFirst.
func (l *EdgeList) First() (EdgeHandle, bool) {
	if l.head == nil {
		return NilEdge, false
	}
	return l.head.handle, true
}

// Edges returns every edge currently in the list, in ring order.
func (l *EdgeList) Edges() []EdgeHandle {
	out := make([]EdgeHandle, 0, l.size)
	if l.head == nil {
		return out
	}
	for n := l.head; ; n = n.next {
		out = append(out, n.handle)
		if n.next == l.head {
			break
		}
	}
	return out
}

// relinkRing rewires next/prev pointers so the ring visits order (a
// permutation of the list's current members), without detaching and
// reattaching any edge. Used by Front.SortEdges, which must reorder the
// ring but keep byEndpoints and every edge's pos pointer intact.
func (l *EdgeList) relinkRing(order []EdgeHandle) {
	if len(order) != l.size {
		return
	}
	nodes := make([]*edgeNode, len(order))
	for i, h := range order {
		nodes[i] = l.store.edge(h).pos
	}
	for i, n := range nodes {
		next := nodes[(i+1)%len(nodes)]
		n.next = next
		next.prev = n
	}
	l.head = nodes[0]
	l.areaValid = false
}

// ComputeArea evaluates the signed polygon area enclosed by the list,
// recomputing lazily if the list changed since the last call (spec.md
// §4.1). A positive area indicates the region to the left of each edge
// (walking v1->v2) has not yet been fully consumed.
func (l *EdgeList) ComputeArea() float64 {
	if l.areaValid {
		return l.area
	}
	if l.head == nil {
		l.area = 0
		l.areaValid = true
		return 0
	}
	sum := 0.0
	for n := l.head; ; n = n.next {
		e := l.store.edge(n.handle)
		p1 := l.store.vertex(e.V1).XY
		p2 := l.store.vertex(e.V2).XY
		sum += p1.X*p2.Y - p2.X*p1.Y
		if n.next == l.head {
			break
		}
	}
	l.area = sum / 2
	l.areaValid = true
	return l.area
}
