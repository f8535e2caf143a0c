package mesh

import (
	"fmt"
	"math"
)

// Driver runs the advancing-front triangulation loop of spec.md §4.5 to
// completion. It builds triangles only; quad layers are grown separately by
// FrontQuadLayering, whose remaining front a Driver can then triangulate.
type Driver struct {
	store  Store
	domain *PolylineDomain
	front  *Front
	config Config

	stats Stats
}

// Stats reports outcome metrics after Run, used both by tests (spec.md §8)
// and by diagnostic reporting (units.go). Not present in spec.md; added
// per SPEC_FULL.md §10.5.
type Stats struct {
	Iterations int
	Triangles  int
	Quads      int
	MinEdgeLen float64
	MaxEdgeLen float64
}

// NewDriver creates a Driver over store's front, seeded by domain. Callers
// must call InitFront themselves (or pass an already-initialized front)
// since domain validation can fail independently of driver construction.
func NewDriver(store Store, domain *PolylineDomain, front *Front, config Config) *Driver {
	if config.MaxDriverIterations <= 0 {
		config.MaxDriverIterations = 20 * front.edges.Len()
		if config.MaxDriverIterations == 0 {
			config.MaxDriverIterations = 1
		}
	}
	return &Driver{store: store, domain: domain, front: front, config: config}
}

// Front exposes the driver's front, e.g. for a caller that wants to run
// quad-layer generation before triangulating the remainder.
func (d *Driver) Front() *Front { return d.front }

// Stats returns the outcome of the most recent Run call.
func (d *Driver) Stats() Stats { return d.stats }

// Report renders the most recent Run's outcome as a diagnostics line,
// converting the accumulated edge-length extents into Config.ReportUnits
// (units.go) when set; purely cosmetic, never affects geometry.
func (d *Driver) Report() string {
	s := d.stats
	return fmt.Sprintf(
		"iterations=%d triangles=%d quads=%d min_edge=%s max_edge=%s",
		s.Iterations, s.Triangles, s.Quads,
		formatExtent(s.MinEdgeLen, d.config.ReportUnits),
		formatExtent(s.MaxEdgeLen, d.config.ReportUnits),
	)
}

// Run advances the front to empty, or returns a NoProgress error once the
// iteration bound is exhausted (spec.md §4.5).
func (d *Driver) Run() error {
	d.store.SetupFacetConnectivity()

	iterations := 0
	sinceProgress := 0
	revolutionLen := d.front.edges.Len()

	for d.front.edges.Len() > 0 {
		if iterations >= d.config.MaxDriverIterations {
			return &MeshError{Kind: NoProgress, Msg: "exceeded max_driver_iterations"}
		}
		iterations++

		base, ok := d.front.Base()
		if !ok {
			break
		}

		result, err := d.tryAdvance(base)
		if err != nil {
			return err
		}
		if result != nil {
			d.stats.Triangles++
			sinceProgress = 0
			revolutionLen = d.front.edges.Len()
			if revolutionLen == 0 {
				break
			}
			continue
		}

		sinceProgress++
		d.front.SetBaseNext()

		if sinceProgress >= revolutionLen {
			// A full revolution produced no progress: sort by ascending
			// length and retry, preferring short edges which tend to
			// close easily (spec.md §4.5).
			d.front.SortEdges(true)
			revolutionLen = d.front.edges.Len()
			sinceProgress = 0
			if revolutionLen == 0 {
				break
			}
		}
	}

	d.store.ClearWaste()
	d.collectEdgeStats()
	d.stats.Iterations = iterations
	d.stats.Quads = d.store.NumQuads()
	return nil
}

// tryAdvance computes the ideal apex for base and invokes the front-update
// primitive once.
func (d *Driver) tryAdvance(base EdgeHandle) (*UpdateResult, error) {
	e, ok := d.store.Edge(base)
	if !ok {
		return nil, &MeshError{Kind: FrontCorruption, Msg: "base edge is stale"}
	}
	v1, _ := d.store.Vertex(e.V1)
	v2, _ := d.store.Vertex(e.V2)
	mid := Midpoint(v1.XY, v2.XY)

	rho := d.domain.Size(mid)
	if rho <= 0 {
		return nil, &MeshError{Kind: RefinementDegenerate, Msg: "size function non-positive at front midpoint"}
	}
	h := math.Sqrt(3) / 2 * rho
	apex := mid.Add(e.Normal().Scale(h))

	return UpdateFront(d.store, d.front, base, apex, searchRadius(d.config, h))
}

// searchRadius derives the front-update candidate search radius from the
// ideal apex distance h, matching spec.md §6's quad_layer_range knob
// ("fraction of per-edge height used as search radius in front-update");
// quadlayering.go's createQuadLayerElements applies the identical ratio to
// the same per-edge height, so both call sites must read the same knob
// rather than one of them hardcoding its default.
func searchRadius(config Config, h float64) float64 { return config.QuadLayerRange * h }

func (d *Driver) collectEdgeStats() {
	d.stats.MinEdgeLen = math.Inf(1)
	d.stats.MaxEdgeLen = 0
	for _, h := range d.store.InteriorEdges().Edges() {
		e, ok := d.store.Edge(h)
		if !ok {
			continue
		}
		if e.Length() < d.stats.MinEdgeLen {
			d.stats.MinEdgeLen = e.Length()
		}
		if e.Length() > d.stats.MaxEdgeLen {
			d.stats.MaxEdgeLen = e.Length()
		}
	}
	if math.IsInf(d.stats.MinEdgeLen, 1) {
		d.stats.MinEdgeLen = 0
	}
}
