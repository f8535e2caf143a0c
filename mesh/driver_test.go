package mesh

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newUnitSquareDriver(t *testing.T, rho float64, cfg Config) (*Driver, *MeshStore) {
	t.Helper()
	s := NewMeshStore(rho)
	d, err := NewPolylineDomain(PolylineDomainOptions{
		Loops: [][]Vector2{unitSquareCCW()},
		Size:  constantSize(rho),
	})
	if err != nil {
		t.Fatalf("NewPolylineDomain: %v", err)
	}
	front, err := InitFront(s, d)
	if err != nil {
		t.Fatalf("InitFront: %v", err)
	}
	return NewDriver(s, d, front, cfg), s
}

// TestDriverRunTriangulatesUnitSquare covers spec.md §8 scenario 1: a unit
// square with constant size 0.25 should triangulate fully, using only
// triangles (no quad layer was requested), with at least the 16 boundary
// vertices front-seeding produced plus some interior ones.
func TestDriverRunTriangulatesUnitSquare(t *testing.T) {
	driver, s := newUnitSquareDriver(t, 0.25, Config{})

	if err := driver.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if driver.Front().Edges().Len() != 0 {
		t.Errorf("front length after Run = %d, want 0 (fully consumed)", driver.Front().Edges().Len())
	}
	stats := driver.Stats()
	if stats.Triangles == 0 {
		t.Error("Stats().Triangles should be nonzero after triangulating a nonempty domain")
	}
	if stats.Quads != 0 {
		t.Errorf("Stats().Quads = %d, want 0 (no quad layer was requested)", stats.Quads)
	}
	if s.NumVertices() < 16 {
		t.Errorf("NumVertices() = %d, want at least 16 (the refined boundary alone)", s.NumVertices())
	}
	if s.NumTriangles() != stats.Triangles {
		t.Errorf("NumTriangles() = %d, want to match Stats().Triangles = %d", s.NumTriangles(), stats.Triangles)
	}
}

// TestDriverRunReportsNoProgress covers spec.md §8 scenario 6: an iteration
// bound too small to finish must fail with NoProgress rather than loop
// forever or silently return a partial mesh as success.
func TestDriverRunReportsNoProgress(t *testing.T) {
	driver, _ := newUnitSquareDriver(t, 0.25, Config{MaxDriverIterations: 1})

	err := driver.Run()
	me, ok := err.(*MeshError)
	if !ok || me.Kind != NoProgress {
		t.Fatalf("err = %v, want *MeshError{Kind: NoProgress}", err)
	}
}

// TestDriverReportFormatsExtentsInReportUnits covers units.go's formatExtent
// wiring through Driver.Report: a dimensionless report renders the bare
// edge-length numbers, and setting ReportUnits must not change Stats or
// break Report, whatever go-units makes of the unit name.
func TestDriverReportFormatsExtentsInReportUnits(t *testing.T) {
	driver, _ := newUnitSquareDriver(t, 0.25, Config{})
	if err := driver.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	stats := driver.Stats()
	report := driver.Report()
	if report == "" {
		t.Error("Report() should not be empty after a successful Run")
	}

	driverM, _ := newUnitSquareDriver(t, 0.25, Config{ReportUnits: "meter"})
	if err := driverM.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(stats, driverM.Stats()); diff != "" {
		t.Errorf("setting ReportUnits changed Stats (-plain +meter):\n%s", diff)
	}
	if driverM.Report() == "" {
		t.Error("Report() should not be empty once ReportUnits is set")
	}
}

// TestDriverRunRejectsNonPositiveSizeAtMidpoint checks Driver.tryAdvance's
// own guard independent of refine.go's (which TestRefineEdgeRejectsNonPositiveSize
// already covers). InitFront runs against a domain with a positive constant
// size so seeding succeeds; Run is then given a second domain whose size
// function is always zero, so its first ideal-apex computation must fail
// deterministically rather than depend on where the marching algorithm
// happens to land.
func TestDriverRunRejectsNonPositiveSizeAtMidpoint(t *testing.T) {
	s := NewMeshStore(1.0)
	seedDomain, err := NewPolylineDomain(PolylineDomainOptions{
		Loops: [][]Vector2{unitSquareCCW()},
		Size:  constantSize(0.25),
	})
	if err != nil {
		t.Fatalf("NewPolylineDomain(seed): %v", err)
	}
	front, err := InitFront(s, seedDomain)
	if err != nil {
		t.Fatalf("InitFront: %v", err)
	}

	zeroDomain, err := NewPolylineDomain(PolylineDomainOptions{
		Loops: [][]Vector2{unitSquareCCW()},
		Size:  func(Vector2) float64 { return 0 },
	})
	if err != nil {
		t.Fatalf("NewPolylineDomain(zero): %v", err)
	}

	driver := NewDriver(s, zeroDomain, front, Config{})
	err = driver.Run()
	me, ok := err.(*MeshError)
	if !ok || me.Kind != RefinementDegenerate {
		t.Fatalf("err = %v, want *MeshError{Kind: RefinementDegenerate}", err)
	}
}
