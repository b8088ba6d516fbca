package spline

// Side disambiguates an evaluation exactly at a knot's time (spec §4.4.4):
// Right is the value used for t and all t' > t within the segment; Left is
// the value approached from below.
type Side uint8

const (
	Right Side = iota
	Left
)

// ExtrapMode is a spline's declared extrapolation behavior for one side.
// Byte values match the frozen ExtrapMode enum in spec §6. Only Held and
// Linear are evaluated with their full defined semantics (spec §4.4.3);
// Sloped degrades to Linear behavior (this core has no separate sloped-
// knot concept) and the Loop* modes degrade to Held, since looping
// extrapolation is out of scope here (spec §4.4.3, §9).
type ExtrapMode uint8

const (
	ExtrapValueBlock    ExtrapMode = 0
	ExtrapHeld          ExtrapMode = 1
	ExtrapLinear        ExtrapMode = 2
	ExtrapSloped        ExtrapMode = 3
	ExtrapLoopRepeat    ExtrapMode = 4
	ExtrapLoopReset     ExtrapMode = 5
	ExtrapLoopOscillate ExtrapMode = 6
)

// evaluatedAs maps a declared ExtrapMode to the behavior this core
// actually implements (spec §4.4.3's "assumes Held/Linear only").
func (m ExtrapMode) evaluatedAs() ExtrapMode {
	switch m {
	case ExtrapLinear, ExtrapSloped:
		return ExtrapLinear
	default:
		return ExtrapHeld
	}
}

// effectiveExtrapolation computes the degraded extrapolation mode per
// spec §3.5: a side's declared mode degrades to Held if the mode itself is
// Held, the edge knot is Held, the edge knot is dual with differing sides
// and no tangents, or the spline has exactly one knot with no tangents.
func effectiveExtrapolation[T any](ops ValueOps[T], c *Container[T], declared ExtrapMode, side Side) ExtrapMode {
	mode := declared.evaluatedAs()
	if mode == ExtrapHeld {
		return ExtrapHeld
	}
	n := c.Len()
	if n == 0 {
		return ExtrapHeld
	}
	var edge *Knot[T]
	if side == Left {
		edge = c.At(0)
	} else {
		edge = c.At(n - 1)
	}
	if edge.EffectiveType() == KnotHeld {
		return ExtrapHeld
	}
	hasTangents := edge.EffectiveType() == KnotBezier
	if edge.IsDual() && !ops.Equal(edge.LeftValue(), edge.RightValue()) && !hasTangents {
		return ExtrapHeld
	}
	if n == 1 && !hasTangents {
		return ExtrapHeld
	}
	return mode
}

// EvalValue evaluates the spline's value at time t on the given side (spec
// §4.4.1). ok is false only for an empty spline.
func EvalValue[T any](ops ValueOps[T], c *Container[T], leftMode, rightMode ExtrapMode, t float64, side Side) (T, bool) {
	var zero T
	n := c.Len()
	if n == 0 {
		return zero, false
	}

	i := c.UpperBound(t)
	if i == 0 {
		return extrapolate(ops, c, leftMode, Left, t), true
	}
	last := i == n
	i--
	cur := c.At(i)

	if cur.time == t && side == Left {
		if i > 0 {
			if pred := c.At(i - 1); pred.EffectiveType() == KnotHeld {
				return pred.rightValue, true
			}
		}
		return cur.LeftValue(), true
	}

	if last {
		return extrapolate(ops, c, rightMode, Right, t), true
	}

	if cur.time == t {
		return cur.rightValue, true
	}

	next := c.At(i + 1)
	seg := BuildSegment(ops, cur, next)
	return seg.EvalValue(t), true
}

// EvalDerivative evaluates d(value)/d(time) at time t on the given side
// (spec §4.4.2). Non-interpolatable and slerp-based value types always
// return a zero derivative.
func EvalDerivative[T any](ops ValueOps[T], c *Container[T], leftMode, rightMode ExtrapMode, t float64, side Side) (T, bool) {
	var zero T
	n := c.Len()
	if n == 0 {
		return zero, false
	}
	kind := ops.Kind()
	if kind == KindHeldOnly || kind == KindSlerp {
		return ops.Zero(), true
	}

	i := c.UpperBound(t)
	if i == 0 {
		return extrapolateDerivative(ops, c, leftMode, Left, t), true
	}
	last := i == n
	i--
	cur := c.At(i)

	if cur.time == t {
		switch cur.EffectiveType() {
		case KnotHeld:
			return zero, true
		case KnotLinear:
			return linearKnotDerivative(ops, c, i, side), true
		default: // KnotBezier: pull the derivative from the adjacent
			// segment on the requested side, falling back to the other
			// side at a spline boundary.
			if side == Left && i > 0 {
				return BuildSegment(ops, c.At(i-1), c.At(i)).EvalDerivative(t), true
			}
			if side == Right && i < n-1 {
				return BuildSegment(ops, c.At(i), c.At(i+1)).EvalDerivative(t), true
			}
			if i > 0 {
				return BuildSegment(ops, c.At(i-1), c.At(i)).EvalDerivative(t), true
			}
			if i < n-1 {
				return BuildSegment(ops, c.At(i), c.At(i+1)).EvalDerivative(t), true
			}
			return zero, true
		}
	}

	if last {
		return extrapolateDerivative(ops, c, rightMode, Right, t), true
	}

	seg := BuildSegment(ops, cur, c.At(i+1))
	return seg.EvalDerivative(t), true
}

// linearKnotDerivative returns the slope of the segment adjacent to knot
// index i on the requested side, flipping to the only existing side at the
// first/last knot (spec §4.4.2).
func linearKnotDerivative[T any](ops ValueOps[T], c *Container[T], i int, side Side) T {
	n := c.Len()
	if n < 2 {
		return ops.Zero()
	}
	if i == 0 {
		side = Right
	}
	if i == n-1 {
		side = Left
	}
	cur := c.At(i)
	if side == Right {
		next := c.At(i + 1)
		return slope(ops, cur.rightValue, next.LeftValue(), next.time-cur.time)
	}
	prev := c.At(i - 1)
	return slope(ops, prev.rightValue, cur.LeftValue(), cur.time-prev.time)
}

// extrapolate implements spec §4.4.3's Held/Linear extrapolation for a
// point beyond the spline's authored range.
func extrapolate[T any](ops ValueOps[T], c *Container[T], declared ExtrapMode, side Side, t float64) T {
	n := c.Len()
	var edge *Knot[T]
	if side == Left {
		edge = c.At(0)
	} else {
		edge = c.At(n - 1)
	}
	mode := effectiveExtrapolation(ops, c, declared, side)
	edgeValue := edgeSideValue(edge, side)
	if mode == ExtrapHeld {
		return edgeValue
	}

	dt := t - edge.time
	var sl T
	if edge.EffectiveType() == KnotBezier {
		if side == Left {
			sl = edge.leftTangentSlope
		} else {
			sl = edge.rightTangentSlope
		}
	} else {
		sl = adjacentSegmentSlope(ops, c, side)
	}
	return ops.Add(edgeValue, ops.ScaleDelta(sl, dt))
}

// extrapolateDerivative is extrapolate's derivative counterpart: the slope
// is constant throughout the extrapolated region.
func extrapolateDerivative[T any](ops ValueOps[T], c *Container[T], declared ExtrapMode, side Side, t float64) T {
	n := c.Len()
	var edge *Knot[T]
	if side == Left {
		edge = c.At(0)
	} else {
		edge = c.At(n - 1)
	}
	mode := effectiveExtrapolation(ops, c, declared, side)
	if mode == ExtrapHeld {
		return ops.Zero()
	}
	if edge.EffectiveType() == KnotBezier {
		if side == Left {
			return edge.leftTangentSlope
		}
		return edge.rightTangentSlope
	}
	return adjacentSegmentSlope(ops, c, side)
}

func edgeSideValue[T any](edge *Knot[T], side Side) T {
	if side == Left {
		return edge.LeftValue()
	}
	return edge.rightValue
}

// adjacentSegmentSlope computes the slope of the segment between the edge
// knot and its inward neighbor, used for Linear extrapolation when the
// edge knot carries no tangents (spec §4.4.3).
func adjacentSegmentSlope[T any](ops ValueOps[T], c *Container[T], side Side) T {
	n := c.Len()
	if n < 2 {
		return ops.Zero()
	}
	if side == Left {
		k0, k1 := c.At(0), c.At(1)
		return slope(ops, k0.rightValue, k1.LeftValue(), k1.time-k0.time)
	}
	k0, k1 := c.At(n-2), c.At(n-1)
	return slope(ops, k0.rightValue, k1.LeftValue(), k1.time-k0.time)
}
