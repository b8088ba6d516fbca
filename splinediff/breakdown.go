package splinediff

import "github.com/tsanim/splinecore/spline"

// Breakdown inserts knots[1] (K2) into the segment spanned by knots[0]
// (K1) and knots[2] (K3), re-solving all three knots' tangent parameters
// from the original two-knot Bezier so the overall curve shape is
// preserved (spec §4.9). K2's value must already be set to the point on
// the original curve at its time; Breakdown only rewrites tangents.
//
// Rejects as a coding error: non-strictly-increasing knot times, or a
// value type that does not support tangents.
func Breakdown[T any](ops spline.ValueOps[T], knots [3]*spline.Knot[T], logger spline.Logger) {
	k1, k2, k3 := knots[0], knots[1], knots[2]

	if !(k1.Time() < k2.Time() && k2.Time() < k3.Time()) {
		logger.Warn(&spline.CodingError{Op: "Breakdown", Field: "knots", Reason: "knot times must be strictly increasing"})
		return
	}
	if !ops.Kind().SupportsTangents() {
		logger.Warn(&spline.CodingError{Op: "Breakdown", Field: "knots", Reason: "value type does not support tangents"})
		return
	}

	seg := spline.BuildSegment(ops, k1, k3)
	u := seg.InvertTime(k2.Time())
	leftT, rightT, leftV, rightV := seg.Subdivide(u)

	leftSlope := slopeBetween(ops, leftV[2], leftV[3], leftT[3]-leftT[2])
	rightSlope := slopeBetween(ops, rightV[0], rightV[1], rightT[1]-rightT[0])

	// Breakdown's tangents are independently solved from two different
	// sub-Beziers, so K2 generally ends up asymmetric; break symmetry
	// first so the right-slope write below doesn't mirror back onto the
	// left value we're about to set.
	k2.SetSymmetryBroken(true)
	k2.SetLeftTangentSlope(leftSlope, logger)
	k2.SetRightTangentSlope(rightSlope, logger)

	k1.SetRightTangentLength(leftT[1]-leftT[0], logger)
	k2.SetLeftTangentLength(leftT[3]-leftT[2], logger)
	k2.SetRightTangentLength(rightT[1]-rightT[0], logger)
	k3.SetLeftTangentLength(rightT[3]-rightT[2], logger)
}

func slopeBetween[T any](ops spline.ValueOps[T], a, b T, dt float64) T {
	if dt == 0 {
		return ops.Zero()
	}
	return ops.ScaleDelta(ops.Sub(b, a), 1/dt)
}
