package spline

// segKind distinguishes how a segment cache evaluates (spec §4.3): a full
// cubic Bezier, a flat held value, or a quaternion slerp that has no
// meaningful control-point representation.
type segKind uint8

const (
	segBezier segKind = iota
	segConstant
	segSlerp
)

// Segment is the per-pair-of-knots evaluation cache (spec §4.3, the
// "segment cache / Bezier builder"). It holds a non-owning view of the
// bracketing knots' synthesized data; callers construct one per query or
// retain one via [Evaluator]'s per-segment cache (spec §3.6, §4.6).
type Segment[T any] struct {
	ops ValueOps[T]
	kind segKind

	startTime, endTime float64

	// Populated when kind == segConstant: the single held value.
	constantValue T

	// Populated when kind == segSlerp: the two endpoint values, slerped
	// directly by linear time fraction (no tangents, spec §1, §4.3).
	slerpStart, slerpEnd T

	// Populated when kind == segBezier: the four (time, value) control
	// points and their power-basis coefficients (spec §4.3).
	p0t, p1t, p2t, p3t float64
	p0v, p1v, p2v, p3v T
	timeCoef           [4]float64
	valueCoef          [4]T
}

// BuildSegment synthesizes the cubic Bezier (or degenerate) cache for the
// segment between adjacent knots k1 and k2 (spec §4.3). k1.Time() must be
// < k2.Time().
func BuildSegment[T any](ops ValueOps[T], k1, k2 *Knot[T]) *Segment[T] {
	seg := &Segment[T]{ops: ops, startTime: k1.time, endTime: k2.time}

	kind := ops.Kind()
	if !kind.Interpolatable() {
		seg.kind = segConstant
		seg.constantValue = k1.rightValue
		return seg
	}
	if kind == KindSlerp {
		seg.kind = segSlerp
		seg.slerpStart = k1.rightValue
		seg.slerpEnd = k2.LeftValue()
		return seg
	}

	seg.kind = segBezier
	t1 := k1.EffectiveType()
	t2 := k2.EffectiveType()

	p0v := k1.rightValue
	p3v := k2.LeftValue()

	var p1t, p2t float64
	var p1v, p2v T

	// P1 (spec §4.3).
	if t1 == KnotBezier {
		p1t = k1.time + k1.rightTangentLength
	} else {
		p1t = (2*k1.time + k2.time) / 3
	}
	switch t1 {
	case KnotHeld:
		p1v = k1.rightValue
	case KnotLinear:
		p1v = ops.ScaleDelta(ops.Add(ops.ScaleDelta(p0v, 2), p3v), oneThird)
	default: // KnotBezier
		p1v = ops.Add(p0v, ops.ScaleDelta(k1.rightTangentSlope, k1.rightTangentLength))
	}

	// P2 (spec §4.3). The synthesized knot type driving P2 is Held if k1
	// is Held, else k2's effective type.
	synth2 := t2
	if t1 == KnotHeld {
		synth2 = KnotHeld
	}
	if synth2 == KnotBezier {
		p2t = k2.time - k2.leftTangentLength
	} else {
		p2t = (k1.time + 2*k2.time) / 3
	}
	switch {
	case t1 == KnotHeld:
		p2v = k1.rightValue
	case synth2 == KnotHeld && t1 != KnotLinear:
		p2v = p3v
	case synth2 != KnotBezier:
		p2v = ops.ScaleDelta(ops.Add(p0v, ops.ScaleDelta(p3v, 2)), oneThird)
	default: // KnotBezier
		p2v = ops.Sub(p3v, ops.ScaleDelta(k2.leftTangentSlope, k2.leftTangentLength))
	}

	// P3 override: a Held left knot forces the whole segment flat at its
	// right value up to (but not including) k2.time.
	if t1 == KnotHeld {
		p3v = k1.rightValue
	}

	seg.p0t, seg.p0v = k1.time, p0v
	seg.p1t, seg.p1v = p1t, p1v
	seg.p2t, seg.p2v = p2t, p2v
	seg.p3t, seg.p3v = k2.time, p3v

	seg.timeCoef = bernsteinToPower(seg.p0t, seg.p1t, seg.p2t, seg.p3t)
	seg.valueCoef = bernsteinToPowerValue(ops, p0v, p1v, p2v, p3v)

	return seg
}

const oneThird = 1.0 / 3.0

// bernsteinToPower converts four scalar Bernstein control points to
// power-basis coefficients (spec §4.3).
func bernsteinToPower(p0, p1, p2, p3 float64) [4]float64 {
	return [4]float64{
		p0,
		3 * (p1 - p0),
		3*p0 - 6*p1 + 3*p2,
		-p0 + 3*p1 - 3*p2 + p3,
	}
}

// bernsteinToPowerValue is bernsteinToPower generalized to T via ValueOps.
func bernsteinToPowerValue[T any](ops ValueOps[T], p0, p1, p2, p3 T) [4]T {
	c0 := p0
	c1 := ops.ScaleDelta(ops.Sub(p1, p0), 3)
	c2 := ops.Add(ops.Add(ops.ScaleDelta(p0, 3), ops.ScaleDelta(p1, -6)), ops.ScaleDelta(p2, 3))
	c3 := ops.Add(ops.Add(ops.Add(ops.ScaleDelta(p0, -1), ops.ScaleDelta(p1, 3)), ops.ScaleDelta(p2, -3)), p3)
	return [4]T{c0, c1, c2, c3}
}

// invertTime solves for the Bezier parameter u in [0,1] at time t (spec
// §4.4.1 step 8), clamped to [0,1].
func (s *Segment[T]) invertTime(t float64) float64 {
	u := solveCubic(s.timeCoef, t)
	if u < 0 {
		// solveCubicInInterval's "no solution" sentinel: fall back to
		// whichever endpoint t is closer to.
		if t <= s.p0t {
			return 0
		}
		return 1
	}
	return clampFloat(u, 0, 1)
}

// InvertTime exposes invertTime to downstream packages that need the raw
// Bezier parameter u for a query time, notably breakdown (spec §4.9 step
// 2).
func (s *Segment[T]) InvertTime(t float64) float64 { return s.invertTime(t) }

// Subdivide splits the segment's Bezier at parameter u into left and
// right control-point sets via de Casteljau's construction (spec §4.5
// step 5, §4.9 step 3), exposing the raw (time, value) arrays for callers
// outside this package. Only meaningful when the segment is the default
// Bezier kind.
func (s *Segment[T]) Subdivide(u float64) (leftT, rightT [4]float64, leftV, rightV [4]T) {
	b := segmentToBezier4(s)
	l, r := deCasteljauSplit(b, u)
	return [4]float64{l.t0, l.t1, l.t2, l.t3}, [4]float64{r.t0, r.t1, r.t2, r.t3},
		[4]T{l.v0, l.v1, l.v2, l.v3}, [4]T{r.v0, r.v1, r.v2, r.v3}
}

// EvalValue evaluates the segment's value at time t (Bezier/Constant/Slerp
// as appropriate).
func (s *Segment[T]) EvalValue(t float64) T {
	switch s.kind {
	case segConstant:
		return s.constantValue
	case segSlerp:
		u := 0.0
		if s.endTime > s.startTime {
			u = clampFloat((t-s.startTime)/(s.endTime-s.startTime), 0, 1)
		}
		return s.ops.Interpolate(s.slerpStart, s.slerpEnd, u)
	default:
		u := s.invertTime(t)
		return evalCubicValue(s.ops, s.valueCoef, u)
	}
}

// EvalDerivative evaluates dvalue/dtime at time t. Non-interpolatable,
// slerp, and Held segments have a zero derivative (spec §4.4.2).
func (s *Segment[T]) EvalDerivative(t float64) T {
	if s.kind != segBezier {
		return s.ops.Zero()
	}
	u := s.invertTime(t)
	dv := evalCubicDerivativeValue(s.ops, s.valueCoef, u)
	dt := evalCubicDerivative(s.timeCoef, u)
	if dt == 0 {
		return s.ops.Zero()
	}
	return s.ops.ScaleDelta(dv, 1/dt)
}

// evalCubicValue evaluates a value-coefficient cubic via Horner's form,
// generalized over T through ValueOps.
func evalCubicValue[T any](ops ValueOps[T], c [4]T, u float64) T {
	acc := c[3]
	acc = ops.Add(ops.ScaleDelta(acc, u), c[2])
	acc = ops.Add(ops.ScaleDelta(acc, u), c[1])
	acc = ops.Add(ops.ScaleDelta(acc, u), c[0])
	return acc
}

// evalCubicDerivativeValue evaluates the derivative of a value-coefficient
// cubic: (3*c3*u + 2*c2)*u + c1.
func evalCubicDerivativeValue[T any](ops ValueOps[T], c [4]T, u float64) T {
	acc := ops.ScaleDelta(c[3], 3)
	acc = ops.Add(ops.ScaleDelta(acc, u), ops.ScaleDelta(c[2], 2))
	acc = ops.Add(ops.ScaleDelta(acc, u), c[1])
	return acc
}
