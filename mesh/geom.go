package mesh

import "math"

// Vector2 is a point or displacement in the plane.
type Vector2 struct {
	X, Y float64
}

// Add returns v+w.
func (v Vector2) Add(w Vector2) Vector2 { return Vector2{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vector2) Sub(w Vector2) Vector2 { return Vector2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vector2) Scale(s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and w.
func (v Vector2) Dot(w Vector2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z-component of the 3D cross product of v and w.
func (v Vector2) Cross(w Vector2) float64 { return v.X*w.Y - v.Y*w.X }

// Norm returns the Euclidean length of v.
func (v Vector2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// NormSqr returns the squared Euclidean length of v, avoiding the sqrt.
func (v Vector2) NormSqr() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector2) Normalize() Vector2 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Perp returns v rotated by +90 degrees, i.e. the left normal of a vector
// pointing along v.
func (v Vector2) Perp() Vector2 { return Vector2{-v.Y, v.X} }

// orientTolerance scales the zero-comparison tolerance used by isLeftTol,
// the front-update candidate check and triangleIsDegenerate to the local
// size function, per spec.md DESIGN NOTES: "all
// comparisons with zero on areas must use a tolerance scaled to local ρ²".
func orientTolerance(rho float64) float64 {
	if rho <= 0 {
		return 1e-12
	}
	return 1e-9 * rho * rho
}

// signedArea2 returns twice the signed area of the triangle (a, b, c). It is
// positive iff a, b, c are in counter-clockwise order.
func signedArea2(a, b, c Vector2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// isLeft reports whether point p lies strictly to the left of the directed
// segment a->b (i.e. the triangle (a, b, p) winds counter-clockwise).
func isLeft(a, b, p Vector2) bool {
	return signedArea2(a, b, p) > 0
}

// isLeftTol is isLeft with an explicit tolerance on the signed area, used
// where the local size function is known and DESIGN NOTES calls for a
// scaled tolerance rather than a bare zero comparison.
func isLeftTol(a, b, p Vector2, rho float64) bool {
	return signedArea2(a, b, p) > orientTolerance(rho)
}

// angle returns the unsigned angle in [0, pi] between vectors u and v.
func angle(u, v Vector2) float64 {
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return 0
	}
	cosA := u.Dot(v) / (nu * nv)
	if cosA > 1 {
		cosA = 1
	} else if cosA < -1 {
		cosA = -1
	}
	return math.Acos(cosA)
}

// segmentsIntersect reports whether open segments (p1,p2) and (p3,p4)
// intersect in their interiors, ignoring shared endpoints. Used by the
// front-update primitive to reject candidate triangles whose edges would
// cross an existing front edge.
func segmentsIntersect(p1, p2, p3, p4 Vector2) bool {
	d1 := signedArea2(p3, p4, p1)
	d2 := signedArea2(p3, p4, p2)
	d3 := signedArea2(p1, p2, p3)
	d4 := signedArea2(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

// triangleQuality returns a shape-quality metric for triangle (a,b,c) in
// [0, 1], combining the minimum interior angle with the aspect ratio; 1 is
// equilateral, values near 0 are slivers, and a degenerate triangle scores 0. Used by the front-update
// primitive to rank candidate apexes (spec.md §4.4 step 3).
func triangleQuality(a, b, c Vector2) float64 {
	la := b.Sub(c).Norm()
	lb := c.Sub(a).Norm()
	lc := a.Sub(b).Norm()
	if la == 0 || lb == 0 || lc == 0 {
		return 0
	}

	area2 := math.Abs(signedArea2(a, b, c))
	if area2 == 0 {
		return 0
	}

	// Minimum angle, normalized against the equilateral optimum (pi/3).
	minAngle := math.Min(angle(b.Sub(a), c.Sub(a)),
		math.Min(angle(a.Sub(b), c.Sub(b)), angle(a.Sub(c), b.Sub(c))))
	angleScore := minAngle / (math.Pi / 3)
	if angleScore > 1 {
		angleScore = 1
	}

	// Aspect ratio, normalized against the equilateral optimum.
	maxEdge := math.Max(la, math.Max(lb, lc))
	aspect := (area2 / 2) / (maxEdge * maxEdge)
	equilateralAspect := math.Sqrt(3) / 4
	aspectScore := aspect / equilateralAspect
	if aspectScore > 1 {
		aspectScore = 1
	}

	return angleScore * aspectScore
}

// quadQuality returns a shape-quality metric for quad (a,b,c,d) in [0, 1]:
// each of its two diagonal decompositions scores as its worse triangle, and
// the better of the two decompositions is returned.
func quadQuality(a, b, c, d Vector2) float64 {
	q1 := math.Min(triangleQuality(a, b, c), triangleQuality(a, c, d))
	q2 := math.Min(triangleQuality(a, b, d), triangleQuality(b, c, d))
	return math.Max(q1, q2)
}
