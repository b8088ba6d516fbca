package spline

import "math"

// Sample is one emitted linear segment of an adaptive sampling pass (spec
// §4.5): a straight line from (T0, V0) to (T1, V1). IsBlur marks a sample
// synthesized by the blur-out test, where V0/V1 are the min/max of the
// underlying curve rather than literal endpoint values.
type Sample[T any] struct {
	T0, T1 float64
	V0, V1 T
	IsBlur bool
}

// foldToleranceU is the tolerance (in the Bezier parameter u) used to
// decide whether the time-derivative's two roots both genuinely lie in
// (0,1), i.e. the segment doubles back in time (spec §4.5 step 2).
const foldToleranceU = 1e-10

// extrapolationSampleSpan is how far past the knotted range an
// extrapolated sample reaches when the query range extends beyond it
// (spec §4.5, last paragraph): 100 units, or farther if the query itself
// asks for more. When the whole query lies beyond that side of the knots,
// the sample instead runs from the edge knot to the query's far end.
const extrapolationSampleSpan = 100.0

// SampleSpline walks the spline's segments overlapping [start, end] and emits
// linear samples whose deviation from the underlying curve is within tol
// after scaling time by timeScale and value by valueScale (spec §4.5).
func SampleSpline[T any](ops ValueOps[T], c *Container[T], leftMode, rightMode ExtrapMode, start, end, timeScale, valueScale, tol float64) []Sample[T] {
	var out []Sample[T]
	n := c.Len()
	if n == 0 {
		return out
	}

	first := c.At(0).time
	last := c.At(n - 1).time

	if start < first {
		reach := math.Max(first-start, extrapolationSampleSpan)
		lo := first - reach
		if end < first {
			lo = start
		}
		v0 := extrapolate(ops, c, leftMode, Left, lo)
		v1 := extrapolate(ops, c, leftMode, Left, first)
		out = append(out, Sample[T]{T0: lo, T1: first, V0: v0, V1: v1})
	}

	for i := 0; i+1 < n; i++ {
		k1, k2 := c.At(i), c.At(i+1)
		if k2.time < start || k1.time > end {
			continue
		}
		segStart := math.Max(k1.time, start)
		segEnd := math.Min(k2.time, end)
		if segStart >= segEnd {
			continue
		}
		out = append(out, sampleSegment(ops, k1, k2, segStart, segEnd, timeScale, valueScale, tol)...)
	}

	if end > last {
		reach := math.Max(end-last, extrapolationSampleSpan)
		hi := last + reach
		if start > last {
			hi = end
		}
		v0 := extrapolate(ops, c, rightMode, Right, last)
		v1 := extrapolate(ops, c, rightMode, Right, hi)
		out = append(out, Sample[T]{T0: last, T1: hi, V0: v0, V1: v1})
	}

	return out
}

// sampleSegment recursively subdivides the Bezier between k1 and k2,
// restricted to [rangeStart, rangeEnd], emitting samples per spec §4.5.
func sampleSegment[T any](ops ValueOps[T], k1, k2 *Knot[T], rangeStart, rangeEnd, timeScale, valueScale, tol float64) []Sample[T] {
	seg := BuildSegment(ops, k1, k2)

	if seg.kind != segBezier {
		// Non-interpolatable and slerp-based segments have no curved
		// shape to subdivide (spec §4.5: "sampling reduces to emitting
		// endpoint-to-endpoint segments" for non-interpolatable types;
		// slerp is treated the same way here since it isn't Bezier-
		// representable).
		return []Sample[T]{{
			T0: rangeStart, T1: rangeEnd,
			V0: seg.EvalValue(rangeStart), V1: seg.EvalValue(rangeEnd),
		}}
	}

	// Restrict the full-segment Bezier to [rangeStart, rangeEnd] by
	// subdividing at the corresponding u values, so recursion below
	// always works with a Bezier already clipped to the query range.
	uLo := seg.invertTime(rangeStart)
	uHi := seg.invertTime(rangeEnd)
	clipped := subdivideBezierRange(ops, seg, uLo, uHi)

	return subdivideAndSample(ops, clipped, timeScale, valueScale, tol, 0)
}

// bezier4 is a standalone four-control-point cubic Bezier in (time, value)
// space, used internally by the sampler for clipping and recursive
// subdivision independent of a backing Segment.
type bezier4[T any] struct {
	ops                ValueOps[T]
	t0, t1, t2, t3      float64
	v0, v1, v2, v3      T
}

func segmentToBezier4[T any](seg *Segment[T]) bezier4[T] {
	return bezier4[T]{
		ops: seg.ops,
		t0:  seg.p0t, t1: seg.p1t, t2: seg.p2t, t3: seg.p3t,
		v0: seg.p0v, v1: seg.p1v, v2: seg.p2v, v3: seg.p3v,
	}
}

// subdivideBezierRange extracts the portion of seg's Bezier between
// parameters uLo and uHi via two de Casteljau splits.
func subdivideBezierRange[T any](ops ValueOps[T], seg *Segment[T], uLo, uHi float64) bezier4[T] {
	b := segmentToBezier4(seg)
	if uLo > 0 {
		_, right := deCasteljauSplit(b, uLo)
		b = right
	}
	if uHi < 1 {
		// uHi was a parameter of the original curve; after clipping the
		// low end, re-express it relative to the remaining [uLo,1] span.
		rel := uHi
		if uLo < 1 {
			rel = (uHi - uLo) / (1 - uLo)
		}
		left, _ := deCasteljauSplit(b, clampFloat(rel, 0, 1))
		b = left
	}
	return b
}

// deCasteljauSplit splits a cubic Bezier at parameter u into its left and
// right halves (spec §4.5 step 5, §4.9 step 3).
func deCasteljauSplit[T any](b bezier4[T], u float64) (left, right bezier4[T]) {
	ops := b.ops
	lerpT := func(a, b float64) float64 { return a + u*(b-a) }
	lerpV := func(a, bb T) T { return ops.Interpolate(a, bb, u) }

	t01, t12, t23 := lerpT(b.t0, b.t1), lerpT(b.t1, b.t2), lerpT(b.t2, b.t3)
	v01, v12, v23 := lerpV(b.v0, b.v1), lerpV(b.v1, b.v2), lerpV(b.v2, b.v3)

	t012, t123 := lerpT(t01, t12), lerpT(t12, t23)
	v012, v123 := lerpV(v01, v12), lerpV(v12, v23)

	t0123 := lerpT(t012, t123)
	v0123 := lerpV(v012, v123)

	left = bezier4[T]{ops: ops, t0: b.t0, t1: t01, t2: t012, t3: t0123, v0: b.v0, v1: v01, v2: v012, v3: v0123}
	right = bezier4[T]{ops: ops, t0: t0123, t1: t123, t2: t23, t3: b.t3, v0: v0123, v1: v123, v2: v23, v3: b.v3}
	return left, right
}

const maxSubdivisionDepth = 24

// subdivideAndSample implements spec §4.5 steps 2-5 for a single
// (already range-clipped) Bezier.
func subdivideAndSample[T any](ops ValueOps[T], b bezier4[T], timeScale, valueScale, tol float64, depth int) []Sample[T] {
	timeCoef := bernsteinToPower(b.t0, b.t1, b.t2, b.t3)
	d := cubicDerivative(timeCoef)
	r0, r1, ok := solveQuadratic(d)

	if ok && r0 > foldToleranceU && r1 < 1-foldToleranceU && r0 < r1 {
		return splitAtFold(ops, b, r0, r1, timeScale, valueScale, tol, depth)
	}

	if flat := bezierFlatness(ops, b, timeScale, valueScale); flat <= tol {
		return []Sample[T]{{T0: b.t0, T1: b.t3, V0: b.v0, V1: b.v3}}
	}

	timeSpan := math.Abs(b.t3-b.t0) * timeScale
	if timeSpan <= tol {
		if lo, hi, varies := valueRangeOfBezier(ops, b); varies {
			return []Sample[T]{{T0: b.t0, T1: b.t3, V0: lo, V1: hi, IsBlur: true}}
		}
	}

	if depth >= maxSubdivisionDepth {
		return []Sample[T]{{T0: b.t0, T1: b.t3, V0: b.v0, V1: b.v3}}
	}

	left, right := deCasteljauSplit(b, 0.5)
	out := subdivideAndSample(ops, left, timeScale, valueScale, tol, depth+1)
	out = append(out, subdivideAndSample(ops, right, timeScale, valueScale, tol, depth+1)...)
	return out
}

// splitAtFold handles a time-Bezier that doubles back (spec §4.5 step 2):
// it splits into the two monotone-in-time pieces [0,r0] and [r1,1], each
// recursed on independently, bridged by a tiny gap-closing sample.
func splitAtFold[T any](ops ValueOps[T], b bezier4[T], r0, r1, timeScale, valueScale, tol float64, depth int) []Sample[T] {
	leftPiece, _ := deCasteljauSplit(b, r0)
	_, rightPiece := deCasteljauSplit(b, r1)

	out := subdivideAndSample(ops, leftPiece, timeScale, valueScale, tol, depth+1)
	out = append(out, subdivideAndSample(ops, rightPiece, timeScale, valueScale, tol, depth+1)...)

	gap := math.Min(0.001, 0.001*(b.t3-b.t0))
	bridgeT := leftPiece.t3
	out = append(out, Sample[T]{
		T0: bridgeT, T1: bridgeT + gap,
		V0: leftPiece.v3, V1: rightPiece.v0,
	})
	return out
}

// bezierFlatness projects the two interior control points onto the chord
// P0->P3 in scaled (time, value) space and returns the maximum
// perpendicular distance (spec §4.5 step 3).
func bezierFlatness[T any](ops ValueOps[T], b bezier4[T], timeScale, valueScale float64) float64 {
	dt := (b.t3 - b.t0) * timeScale
	dv := ops.Magnitude(ops.Sub(b.v3, b.v0)) * valueScale
	chordLen := math.Hypot(dt, dv)
	if chordLen == 0 {
		// Degenerate chord: distance is simply how far the interior
		// points sit from the (coincident) endpoints.
		d1 := math.Hypot((b.t1-b.t0)*timeScale, ops.Magnitude(ops.Sub(b.v1, b.v0))*valueScale)
		d2 := math.Hypot((b.t2-b.t0)*timeScale, ops.Magnitude(ops.Sub(b.v2, b.v0))*valueScale)
		return math.Max(d1, d2)
	}
	perp := func(pt, pv float64) float64 {
		// Cross product of (P-P0) and (P3-P0), normalized by chord
		// length, gives the perpendicular distance in the scaled plane.
		return math.Abs(pt*dv-pv*dt) / chordLen
	}
	p1t := (b.t1 - b.t0) * timeScale
	p1v := ops.Magnitude(ops.Sub(b.v1, b.v0)) * valueScale * sign(ops, b.v1, b.v0, b.v3)
	p2t := (b.t2 - b.t0) * timeScale
	p2v := ops.Magnitude(ops.Sub(b.v2, b.v0)) * valueScale * sign(ops, b.v2, b.v0, b.v3)
	return math.Max(perp(p1t, p1v), perp(p2t, p2v))
}

// sign picks a +1/-1 multiplier so the projected perpendicular offset of
// point p (relative to a) carries the same orientation as (b-a) would for
// a true scalar value; it returns 0 when p equals a, and for non-float T
// it always returns +1.
func sign[T any](ops ValueOps[T], p, a, b T) float64 {
	if ops.Magnitude(ops.Sub(p, a)) == 0 {
		return 0
	}
	// Use the sign of Sub(p,a) projected against Sub(b,a) when T is a
	// float; for non-float T fall back to always-positive, since the
	// flatness test only needs a conservative upper bound there (those
	// types are never curved — see BuildSegment, which forces Linear
	// control points for KindLinearOnly types).
	if pf, ok := any(p).(float64); ok {
		af := any(a).(float64)
		bf := any(b).(float64)
		d := pf - af
		ref := bf - af
		if d*ref < 0 {
			return -1
		}
		return 1
	}
	if pf, ok := any(p).(float32); ok {
		af := any(a).(float32)
		bf := any(b).(float32)
		d := pf - af
		ref := bf - af
		if d*ref < 0 {
			return -1
		}
		return 1
	}
	return 1
}

// valueRangeOfBezier returns the min/max value the Bezier attains over
// u in [0,1], and whether the value actually varies (used by the blur-out
// test, spec §4.5 step 4). Interior extrema are found only for float64
// values; for any other T it returns the two endpoint values as the range
// and reports variation whenever those endpoints differ.
func valueRangeOfBezier[T any](ops ValueOps[T], b bezier4[T]) (lo, hi T, varies bool) {
	fv0, ok0 := any(b.v0).(float64)
	fv3, ok3 := any(b.v3).(float64)
	if !ok0 || !ok3 {
		return b.v0, b.v3, !ops.Equal(b.v0, b.v3)
	}
	valueCoef := bernsteinToPowerValue(ops, b.v0, b.v1, b.v2, b.v3)
	var fCoef [4]float64
	for i, c := range valueCoef {
		fCoef[i] = any(c).(float64)
	}
	d := cubicDerivative(fCoef)
	minV, maxV := math.Min(fv0, fv3), math.Max(fv0, fv3)
	r0, r1, ok := solveQuadratic(d)
	if ok {
		for _, r := range []float64{r0, r1} {
			if r > 0 && r < 1 {
				v := evalCubic(fCoef, r)
				minV = math.Min(minV, v)
				maxV = math.Max(maxV, v)
			}
		}
	}
	return any(minV).(T), any(maxV).(T), maxV-minV > floatEqualEpsilon
}
