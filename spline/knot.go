package spline

import "math"

// KnotType is the per-knot interpolation behavior (spec §3.3). The byte
// values match the frozen InterpMode enum in spec §6 (ValueBlock=0 is not
// representable on a single knot and is reserved for spline-level use
// elsewhere; Curve=3 is always a Bezier curve in this core, per spec §1's
// "arbitrary curve orders beyond cubic" non-goal).
type KnotType uint8

const (
	KnotHeld   KnotType = 1
	KnotLinear KnotType = 2
	KnotBezier KnotType = 3
)

func (t KnotType) String() string {
	switch t {
	case KnotHeld:
		return "Held"
	case KnotLinear:
		return "Linear"
	case KnotBezier:
		return "Bezier"
	default:
		return "Unknown"
	}
}

// tangentLengthSnapEpsilon is how close to zero a negative tangent length
// must be to snap to zero rather than being rejected (spec §3.3).
const tangentLengthSnapEpsilon = 1e-6

// tangentSymmetryEpsilon is the slope-difference threshold past which a
// knot's tangent symmetry is considered broken (spec §3.3).
const tangentSymmetryEpsilon = 1e-4

// Knot is a single authored point on a spline: a time, left/right values,
// left/right tangent slope and length, a knot type, and the dual-value and
// symmetry-broken flags (spec §3.3).
type Knot[T any] struct {
	ops ValueOps[T]

	time     float64
	knotType KnotType
	isDual   bool

	leftValue, rightValue T

	leftTangentSlope, rightTangentSlope   T
	leftTangentLength, rightTangentLength float64

	tangentSymmetryBroken bool
}

// NewKnot builds a single-valued (non-dual) knot of the given type.
func NewKnot[T any](ops ValueOps[T], time float64, value T, knotType KnotType) *Knot[T] {
	k := &Knot[T]{ops: ops, time: time, leftValue: value, rightValue: value, knotType: knotType}
	k.normalizeType(NoopLogger)
	return k
}

// NewDualKnot builds a dual-valued knot with independent left and right
// values.
func NewDualKnot[T any](ops ValueOps[T], time float64, left, right T, knotType KnotType) *Knot[T] {
	k := &Knot[T]{ops: ops, time: time, leftValue: left, rightValue: right, isDual: true, knotType: knotType}
	k.normalizeType(NoopLogger)
	return k
}

// normalizeType enforces the knot-type invariants of spec §3.3 for
// non-interpolatable (held-only) types, forcing Held and non-dual. On a
// value type that can't support tangents an authored Bezier type is kept
// as is; EffectiveType reports it as Linear.
func (k *Knot[T]) normalizeType(logger Logger) {
	kind := k.ops.Kind()
	if !kind.Interpolatable() {
		if k.knotType != KnotHeld {
			logger.Warn(&CodingError{Op: "normalizeType", Field: "knotType", Reason: "held-only value type forces KnotHeld"})
			k.knotType = KnotHeld
		}
		if k.isDual {
			logger.Warn(&CodingError{Op: "normalizeType", Field: "isDual", Reason: "held-only value type cannot be dual-valued"})
			k.isDual = false
			k.leftValue = k.rightValue
		}
		return
	}
	if !kind.SupportsTangents() && k.knotType == KnotBezier {
		// Tangent fields may still be stored (§3.3) but evaluation treats
		// this as Linear; record the effective type separately rather
		// than silently rewriting the caller's authored type.
		return
	}
}

// Time returns the knot's time.
func (k *Knot[T]) Time() float64 { return k.time }

// SetTime moves the knot; callers must remove and reinsert it into its
// Container to preserve ordering — Knot itself does not enforce ordering.
func (k *Knot[T]) SetTime(t float64) { k.time = t }

// Type returns the authored knot type.
func (k *Knot[T]) Type() KnotType { return k.knotType }

// EffectiveType returns the knot type evaluation actually uses: a Bezier
// type on a value that doesn't support tangents behaves as Linear (spec
// §3.3), and a non-interpolatable value is always Held.
func (k *Knot[T]) EffectiveType() KnotType {
	kind := k.ops.Kind()
	if !kind.Interpolatable() {
		return KnotHeld
	}
	if !kind.SupportsTangents() && k.knotType == KnotBezier {
		return KnotLinear
	}
	return k.knotType
}

// SetType sets the authored knot type, rejecting combinations the value
// type cannot support (spec §3.3 invariants) as a coding error.
func (k *Knot[T]) SetType(t KnotType, logger Logger) {
	kind := k.ops.Kind()
	if !kind.Interpolatable() && t != KnotHeld {
		logger.Warn(&CodingError{Op: "SetType", Field: "knotType", Reason: "held-only value type must be KnotHeld"})
		return
	}
	k.knotType = t
}

// IsDual reports whether the knot has an independent left value.
func (k *Knot[T]) IsDual() bool { return k.isDual }

// SetDual sets whether the knot is dual-valued; has no effect (and logs a
// coding error) on a non-interpolatable value type.
func (k *Knot[T]) SetDual(dual bool, logger Logger) {
	if dual && !k.ops.Kind().Interpolatable() {
		logger.Warn(&CodingError{Op: "SetDual", Field: "isDual", Reason: "held-only value type cannot be dual-valued"})
		return
	}
	k.isDual = dual
	if !dual {
		k.leftValue = k.rightValue
	}
}

// LeftValue returns the knot's left-side value. Only meaningful when
// IsDual; otherwise it always equals RightValue.
func (k *Knot[T]) LeftValue() T {
	if !k.isDual {
		return k.rightValue
	}
	return k.leftValue
}

// RightValue returns the knot's right-side value.
func (k *Knot[T]) RightValue() T { return k.rightValue }

// SetLeftValue sets the left value. If the knot is not dual, this is a
// no-op coding error — flip IsDual first.
func (k *Knot[T]) SetLeftValue(v T, logger Logger) {
	if !k.isDual {
		logger.Warn(&CodingError{Op: "SetLeftValue", Field: "leftValue", Reason: "knot is not dual-valued"})
		return
	}
	k.leftValue = v
}

// SetRightValue sets the right value, forcing KnotHeld if v is not
// interpolatable for T (e.g. NaN/Inf for float types) per spec §3.3.
func (k *Knot[T]) SetRightValue(v T, logger Logger) {
	k.rightValue = v
	if !k.isDual {
		k.leftValue = v
	}
	if isNonFinite(v) {
		k.knotType = KnotHeld
	}
}

// isNonFinite reports whether v holds a NaN/Inf payload, detected via a
// best-effort type switch since ValueOps doesn't carry this query: it only
// matters for the float value types spec §3.3 calls out explicitly.
func isNonFinite[T any](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return math.IsNaN(x) || math.IsInf(x, 0)
	case float32:
		return math.IsNaN(float64(x)) || math.IsInf(float64(x), 0)
	default:
		return false
	}
}

// LeftTangentSlope returns the left tangent slope (ignored by evaluation
// if the value type doesn't support tangents).
func (k *Knot[T]) LeftTangentSlope() T { return k.leftTangentSlope }

// RightTangentSlope returns the right tangent slope.
func (k *Knot[T]) RightTangentSlope() T { return k.rightTangentSlope }

// SetRightTangentSlope sets the right slope. When tangent symmetry is
// unbroken, the left slope mirrors it (spec §3.3); the symmetry flag is
// then re-checked and set broken if the two slopes diverge beyond
// tangentSymmetryEpsilon. On a value type without tangent support the call
// is reported as a coding error, but the slope is still stored (evaluation
// ignores it).
func (k *Knot[T]) SetRightTangentSlope(v T, logger Logger) {
	if !k.ops.Kind().SupportsTangents() {
		logger.Warn(&CodingError{Op: "SetRightTangentSlope", Field: "rightTangentSlope", Reason: "value type does not support tangents"})
	}
	k.rightTangentSlope = v
	if !k.tangentSymmetryBroken {
		k.leftTangentSlope = v
	}
	k.recheckSymmetry()
}

// SetLeftTangentSlope sets the left slope directly, breaking symmetry if
// it now differs from the right slope by more than tangentSymmetryEpsilon.
// Like SetRightTangentSlope, it stores the slope even when it reports a
// coding error for a value type without tangent support.
func (k *Knot[T]) SetLeftTangentSlope(v T, logger Logger) {
	if !k.ops.Kind().SupportsTangents() {
		logger.Warn(&CodingError{Op: "SetLeftTangentSlope", Field: "leftTangentSlope", Reason: "value type does not support tangents"})
	}
	k.leftTangentSlope = v
	k.recheckSymmetry()
}

func (k *Knot[T]) recheckSymmetry() {
	diff := k.ops.Sub(k.leftTangentSlope, k.rightTangentSlope)
	if !k.ops.IsZeroSlopeWithin(diff, tangentSymmetryEpsilon) {
		k.tangentSymmetryBroken = true
	}
}

// SymmetryBroken reports whether the left/right slopes are independent.
func (k *Knot[T]) SymmetryBroken() bool { return k.tangentSymmetryBroken }

// SetSymmetryBroken sets the symmetry flag directly, e.g. to re-link the
// two slopes by clearing it (a subsequent SetRightTangentSlope call will
// then mirror to the left).
func (k *Knot[T]) SetSymmetryBroken(broken bool) { k.tangentSymmetryBroken = broken }

// LeftTangentLength and RightTangentLength return the tangent lengths in
// units of time.
func (k *Knot[T]) LeftTangentLength() float64  { return k.leftTangentLength }
func (k *Knot[T]) RightTangentLength() float64 { return k.rightTangentLength }

// SetRightTangentLength validates and stores the right tangent length per
// spec §3.3: NaN/Inf is rejected, small negatives within
// tangentLengthSnapEpsilon snap to zero, other negatives are rejected.
func (k *Knot[T]) SetRightTangentLength(v float64, logger Logger) {
	snapped, ok := snapTangentLength(v)
	if !ok {
		logger.Warn(&CodingError{Op: "SetRightTangentLength", Field: "rightTangentLength", Reason: "negative, NaN, or infinite tangent length"})
		return
	}
	k.rightTangentLength = snapped
}

// SetLeftTangentLength is the left-side counterpart of
// SetRightTangentLength.
func (k *Knot[T]) SetLeftTangentLength(v float64, logger Logger) {
	snapped, ok := snapTangentLength(v)
	if !ok {
		logger.Warn(&CodingError{Op: "SetLeftTangentLength", Field: "leftTangentLength", Reason: "negative, NaN, or infinite tangent length"})
		return
	}
	k.leftTangentLength = snapped
}

func snapTangentLength(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v >= 0 {
		return v, true
	}
	if v >= -tangentLengthSnapEpsilon {
		return 0, true
	}
	return 0, false
}

// EquivalentAtSide reports whether replacing k with other in a spline would
// have no effect on evaluation at any time on the given side of k's time
// (spec §4.7.1, §6): same time, same value on that side, same knot type,
// same dual-valued flag, and — when the knot's effective type is Bezier —
// the same tangent slope and length on that side.
func (k *Knot[T]) EquivalentAtSide(other *Knot[T], side Side) bool {
	if k.time != other.time {
		return false
	}
	if k.knotType != other.knotType {
		return false
	}
	if k.isDual != other.isDual {
		return false
	}
	var kv, ov T
	if side == Left {
		kv, ov = k.LeftValue(), other.LeftValue()
	} else {
		kv, ov = k.RightValue(), other.RightValue()
	}
	if !k.ops.Equal(kv, ov) {
		return false
	}
	if k.EffectiveType() != KnotBezier {
		return true
	}
	if side == Left {
		return k.ops.Equal(k.leftTangentSlope, other.leftTangentSlope) &&
			k.leftTangentLength == other.leftTangentLength
	}
	return k.ops.Equal(k.rightTangentSlope, other.rightTangentSlope) &&
		k.rightTangentLength == other.rightTangentLength
}

// Clone returns a deep copy of the knot (its ops reference is shared, as
// ValueOps implementations are stateless).
func (k *Knot[T]) Clone() *Knot[T] {
	c := *k
	return &c
}
