package spline

import "math"

// SegmentRange computes the closed-form min/max of the Bezier between k1
// and k2 over [startTime, endTime] (spec §4.6): the sub-interval is mapped
// to Bezier parameter space, the endpoints seed the extrema, and each real
// root of the value derivative inside the interval is checked as a
// candidate extremum.
//
// Exact extrema require comparing values of T, which only KindFull (f32/
// f64) scalar types support generically here; other kinds fall back to
// the two endpoint values, which is exact for KindLinearOnly (a Linear
// segment's extrema are always at its endpoints) and a reasonable
// approximation for KindSlerp/KindHeldOnly, neither of which has a
// genuinely curved segment shape to begin with (see Segment's segSlerp/
// segConstant kinds).
func SegmentRange[T any](ops ValueOps[T], k1, k2 *Knot[T], startTime, endTime float64) (lo, hi T) {
	seg := BuildSegment(ops, k1, k2)

	uMin := clampFloat(seg.invertTime(startTime), 0, 1)
	uMax := clampFloat(seg.invertTime(endTime), 0, 1)
	if uMin > uMax {
		uMin, uMax = uMax, uMin
	}

	vMin := seg.EvalValue(startTime)
	vMax := seg.EvalValue(endTime)
	lo, hi = orderPair(ops, vMin, vMax)

	if seg.kind != segBezier {
		return lo, hi
	}

	switch any(seg.p0v).(type) {
	case float64, float32:
	default:
		return lo, hi
	}
	var fCoef [4]float64
	for i, c := range seg.valueCoef {
		fCoef[i], _ = toFloatPair(ops, c, c)
	}
	d := cubicDerivative(fCoef)
	r0, r1, ok := solveQuadratic(d)
	if !ok {
		return lo, hi
	}
	loF, hiF := toFloatPair(ops, lo, hi)
	for _, r := range []float64{r0, r1} {
		if r > uMin && r < uMax {
			v := evalCubic(fCoef, r)
			loF = math.Min(loF, v)
			hiF = math.Max(hiF, v)
		}
	}
	if _, is32 := any(lo).(float32); is32 {
		return any(float32(loF)).(T), any(float32(hiF)).(T)
	}
	return any(loF).(T), any(hiF).(T)
}

func orderPair[T any](ops ValueOps[T], a, b T) (lo, hi T) {
	if fa, ok := any(a).(float64); ok {
		fb := any(b).(float64)
		if fa <= fb {
			return a, b
		}
		return b, a
	}
	if fa, ok := any(a).(float32); ok {
		fb := any(b).(float32)
		if fa <= fb {
			return a, b
		}
		return b, a
	}
	return a, b
}

func toFloatPair[T any](ops ValueOps[T], lo, hi T) (float64, float64) {
	if f, ok := any(lo).(float64); ok {
		return f, any(hi).(float64)
	}
	if f, ok := any(lo).(float32); ok {
		return float64(f), float64(any(hi).(float32))
	}
	return 0, 0
}

// SplineRange computes the whole-spline range over [startTime, endTime]
// by combining per-segment ranges with the boundary knots' side values
// (spec §4.6). A dual-valued boundary knot whose predecessor is Held
// still contributes its right-side value even at the interval's right
// edge, since the discontinuity happens exactly there.
func SplineRange[T any](ops ValueOps[T], c *Container[T], leftMode, rightMode ExtrapMode, startTime, endTime float64) (lo, hi T, ok bool) {
	n := c.Len()
	if n == 0 {
		var zero T
		return zero, zero, false
	}

	first := true
	extend := func(v T) {
		if first {
			lo, hi = v, v
			first = false
			return
		}
		lo, _ = orderPair(ops, lo, v)
		_, hi = orderPair(ops, hi, v)
	}

	startVal, okStart := EvalValue(ops, c, leftMode, rightMode, startTime, Right)
	if okStart {
		extend(startVal)
	}
	endVal, okEnd := EvalValue(ops, c, leftMode, rightMode, endTime, Right)
	if okEnd {
		extend(endVal)
	}

	lowerIdx := c.UpperBound(startTime)
	if lowerIdx > 0 {
		lowerIdx--
	}
	upperIdx := c.UpperBound(endTime)

	for i := lowerIdx; i+1 < upperIdx && i+1 < n; i++ {
		k1, k2 := c.At(i), c.At(i+1)
		if k2.time < startTime || k1.time > endTime {
			continue
		}
		segLo, segHi := SegmentRange(ops, k1, k2, math.Max(k1.time, startTime), math.Min(k2.time, endTime))
		extend(segLo)
		extend(segHi)
	}

	// A dual-valued right boundary whose predecessor is Held: the right
	// side value is reachable exactly at endTime even though EvalValue's
	// Right-side query above already returns it; this extra pass only
	// matters when endTime lands exactly on such a knot and the
	// predecessor loop above stopped one knot short.
	if knot, found := c.Find(endTime); found && knot.IsDual() {
		extend(knot.RightValue())
	}

	return lo, hi, !first
}

// Evaluator is a cached, read-only view of a spline for repeated Right-
// side queries (spec §3.6, §4.6): it keeps the Segment of the most
// recently queried bracketing pair of knots and reuses it while queries
// stay in that segment. Only one Segment is cached at a time; a query in
// another segment rebuilds the cache, and EvalRight writes to it, so an
// Evaluator is not safe for concurrent queries. Evaluators must not outlive
// edits to the spline they were built from; any knot insert/erase/edit
// invalidates every Evaluator bound to that spline (spec §5).
type Evaluator[T any] struct {
	ops        ValueOps[T]
	c          *Container[T]
	leftMode   ExtrapMode
	rightMode  ExtrapMode
	cacheIndex int
	cache      *Segment[T]
}

// NewEvaluator builds an Evaluator bound to the given container snapshot.
func NewEvaluator[T any](ops ValueOps[T], c *Container[T], leftMode, rightMode ExtrapMode) *Evaluator[T] {
	return &Evaluator[T]{ops: ops, c: c, leftMode: leftMode, rightMode: rightMode, cacheIndex: -1}
}

// EvalRight evaluates the spline at t on the right side, in O(log n) for
// the knot lookup plus O(1) for the evaluation once a segment is cached.
func (e *Evaluator[T]) EvalRight(t float64) (T, bool) {
	n := e.c.Len()
	var zero T
	if n == 0 {
		return zero, false
	}
	i := e.c.UpperBound(t)
	if i == 0 {
		return extrapolate(e.ops, e.c, e.leftMode, Left, t), true
	}
	if i == n {
		last := e.c.At(n - 1)
		if last.time == t {
			return last.rightValue, true
		}
		return extrapolate(e.ops, e.c, e.rightMode, Right, t), true
	}
	i--
	cur := e.c.At(i)
	if cur.time == t {
		return cur.rightValue, true
	}
	if e.cacheIndex != i {
		e.cache = BuildSegment(e.ops, cur, e.c.At(i+1))
		e.cacheIndex = i
	}
	return e.cache.EvalValue(t), true
}

// EvalLeft evaluates at t on the left side, bypassing the per-segment
// cache (spec §4.6: "Left-side evaluations bypass the cache and evaluate
// directly").
func (e *Evaluator[T]) EvalLeft(t float64) (T, bool) {
	return EvalValue(e.ops, e.c, e.leftMode, e.rightMode, t, Left)
}
