package mesh

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BatchSignedArea2 computes twice the signed area of (v1, v2, p_i) for every
// candidate point p_i, in Structure-of-Arrays layout. Used by the
// front-update primitive (frontupdate.go) to test CCW orientation across
// every vertex returned by Store.VerticesWithin in one pass instead of
// looping scalar signedArea2 calls, mirroring vector_ops_hwy.go's batched
// cross-product pattern.
//
// v1x, v1y, v2x, v2y are broadcast scalars (the base edge's endpoints, the
// same for every candidate); px, py are the candidate coordinates; out
// receives twice the signed area for each candidate.
func BatchSignedArea2[T hwy.Floats](v1x, v1y, v2x, v2y T, px, py []T, out []T) {
	size := min(len(px), len(py), len(out))

	ex := v2x - v1x
	ey := v2y - v1y

	vV1x := hwy.Set(v1x)
	vV1y := hwy.Set(v1y)
	vEx := hwy.Set(ex)
	vEy := hwy.Set(ey)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vPx := hwy.Load(px[offset:])
			vPy := hwy.Load(py[offset:])

			vDx := hwy.Sub(vPx, vV1x)
			vDy := hwy.Sub(vPy, vV1y)

			vOut := hwy.Sub(
				hwy.Mul(vEx, vDy),
				hwy.Mul(vEy, vDx),
			)

			hwy.Store(vOut, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)

			vPx := hwy.MaskLoad(mask, px[offset:])
			vPy := hwy.MaskLoad(mask, py[offset:])

			vDx := hwy.Sub(vPx, vV1x)
			vDy := hwy.Sub(vPy, vV1y)

			vOut := hwy.Sub(
				hwy.Mul(vEx, vDy),
				hwy.Mul(vEy, vDx),
			)

			hwy.MaskStore(mask, vOut, out[offset:])
		},
	)
}

// BatchSquaredDistance computes the squared distance from (cx, cy) to every
// point (px[i], py[i]), used to rank front-update candidates by proximity
// to the ideal apex without a per-candidate sqrt.
func BatchSquaredDistance[T hwy.Floats](cx, cy T, px, py []T, out []T) {
	size := min(len(px), len(py), len(out))

	vCx := hwy.Set(cx)
	vCy := hwy.Set(cy)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vPx := hwy.Load(px[offset:])
			vPy := hwy.Load(py[offset:])

			vDx := hwy.Sub(vPx, vCx)
			vDy := hwy.Sub(vPy, vCy)

			vOut := hwy.Add(hwy.Mul(vDx, vDx), hwy.Mul(vDy, vDy))

			hwy.Store(vOut, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)

			vPx := hwy.MaskLoad(mask, px[offset:])
			vPy := hwy.MaskLoad(mask, py[offset:])

			vDx := hwy.Sub(vPx, vCx)
			vDy := hwy.Sub(vPy, vCy)

			vOut := hwy.Add(hwy.Mul(vDx, vDx), hwy.Mul(vDy, vDy))

			hwy.MaskStore(mask, vOut, out[offset:])
		},
	)
}

// batchOrientAndRank evaluates BatchSignedArea2 and BatchSquaredDistance
// together over every candidate in cs, writing results back onto each
// candidateApex. There is no separate scalar branch for short inputs: when
// len(cs) is below the SIMD lane width, ProcessWithTail's masked tail
// covers it — the same tail-masking idiom the teacher applies per
// vector_ops_hwy.go.
func batchOrientAndRank(v1, v2, apex Vector2, cs []candidateApex) {
	n := len(cs)
	if n == 0 {
		return
	}
	px := make([]float64, n)
	py := make([]float64, n)
	for i, c := range cs {
		px[i] = c.xy.X
		py[i] = c.xy.Y
	}
	areas := make([]float64, n)
	dists := make([]float64, n)

	BatchSignedArea2(v1.X, v1.Y, v2.X, v2.Y, px, py, areas)
	BatchSquaredDistance(apex.X, apex.Y, px, py, dists)

	for i := range cs {
		cs[i].signedArea2 = areas[i]
		cs[i].distSqr = dists[i]
	}
}
