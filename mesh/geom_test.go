package mesh

import (
	"math"
	"testing"
)

func TestSignedArea2Orientation(t *testing.T) {
	a := Vector2{0, 0}
	b := Vector2{1, 0}
	c := Vector2{0, 1}

	if got := signedArea2(a, b, c); got <= 0 {
		t.Errorf("signedArea2(a,b,c) = %v, want positive (CCW)", got)
	}
	if got := signedArea2(a, c, b); got >= 0 {
		t.Errorf("signedArea2(a,c,b) = %v, want negative (CW)", got)
	}
}

func TestIsLeft(t *testing.T) {
	a, b := Vector2{0, 0}, Vector2{1, 0}
	if !isLeft(a, b, Vector2{0.5, 1}) {
		t.Error("point above a->b should be left")
	}
	if isLeft(a, b, Vector2{0.5, -1}) {
		t.Error("point below a->b should not be left")
	}
}

func TestAngleRightAngle(t *testing.T) {
	u := Vector2{1, 0}
	v := Vector2{0, 1}
	got := angle(u, v)
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("angle = %v, want pi/2", got)
	}
}

func TestAngleZeroVector(t *testing.T) {
	if got := angle(Vector2{}, Vector2{1, 0}); got != 0 {
		t.Errorf("angle with zero vector = %v, want 0", got)
	}
}

func TestSegmentsIntersectCrossing(t *testing.T) {
	p1, p2 := Vector2{0, 0}, Vector2{1, 1}
	p3, p4 := Vector2{0, 1}, Vector2{1, 0}
	if !segmentsIntersect(p1, p2, p3, p4) {
		t.Error("diagonals of unit square should intersect")
	}
}

func TestSegmentsIntersectParallelNonCrossing(t *testing.T) {
	p1, p2 := Vector2{0, 0}, Vector2{1, 0}
	p3, p4 := Vector2{0, 1}, Vector2{1, 1}
	if segmentsIntersect(p1, p2, p3, p4) {
		t.Error("parallel non-overlapping segments should not intersect")
	}
}

func TestSegmentsIntersectSharedEndpointDoesNotCount(t *testing.T) {
	p1, p2 := Vector2{0, 0}, Vector2{1, 0}
	p3, p4 := Vector2{1, 0}, Vector2{1, 1}
	if segmentsIntersect(p1, p2, p3, p4) {
		t.Error("segments touching only at a shared endpoint should not count as intersecting")
	}
}

func TestTriangleQualityEquilateralIsMax(t *testing.T) {
	a := Vector2{0, 0}
	b := Vector2{1, 0}
	c := Vector2{0.5, math.Sqrt(3) / 2}
	q := triangleQuality(a, b, c)
	if q < 0.99 {
		t.Errorf("equilateral triangle quality = %v, want close to 1", q)
	}
}

func TestTriangleQualitySliverIsLow(t *testing.T) {
	a := Vector2{0, 0}
	b := Vector2{1, 0}
	c := Vector2{0.5, 0.001}
	q := triangleQuality(a, b, c)
	if q > 0.1 {
		t.Errorf("sliver triangle quality = %v, want close to 0", q)
	}
}

func TestTriangleQualityDegenerateIsZero(t *testing.T) {
	a := Vector2{0, 0}
	b := Vector2{1, 0}
	c := Vector2{2, 0}
	if q := triangleQuality(a, b, c); q != 0 {
		t.Errorf("collinear triangle quality = %v, want 0", q)
	}
}

func TestQuadQualitySquareIsMax(t *testing.T) {
	a := Vector2{0, 0}
	b := Vector2{1, 0}
	c := Vector2{1, 1}
	d := Vector2{0, 1}
	q := quadQuality(a, b, c, d)
	if q < 0.5 {
		t.Errorf("unit square quad quality = %v, want reasonably high", q)
	}
}

func TestOrientToleranceScalesWithRho(t *testing.T) {
	small := orientTolerance(0.01)
	large := orientTolerance(1.0)
	if small >= large {
		t.Errorf("orientTolerance should grow with rho: small=%v large=%v", small, large)
	}
	if got := orientTolerance(0); got <= 0 {
		t.Errorf("orientTolerance(0) = %v, want a positive floor", got)
	}
}
