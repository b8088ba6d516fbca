package spline

import "math"

// floatEqualEpsilon is the absolute epsilon used for float value
// comparisons throughout evaluation and diffing (spec §4.7.2, §7).
const floatEqualEpsilon = 1e-6

// floatConstraint is the closed set of floating-point value types in
// group KindFull (spec §3.2: f32, f64).
type floatConstraint interface {
	~float32 | ~float64
}

// FloatOps implements ValueOps for f32/f64, the "Full" group: tangent
// authoring, interpolation, and extrapolation are all available.
type FloatOps[T floatConstraint] struct{}

func (FloatOps[T]) Zero() T { return 0 }
func (FloatOps[T]) Kind() Kind { return KindFull }

func (FloatOps[T]) Interpolate(a, b T, t float64) T {
	return T(float64(a) + t*(float64(b)-float64(a)))
}

func (FloatOps[T]) Add(a, b T) T { return a + b }
func (FloatOps[T]) Sub(a, b T) T { return a - b }

func (FloatOps[T]) ScaleDelta(v T, s float64) T { return T(float64(v) * s) }

func (FloatOps[T]) Equal(a, b T) bool {
	return math.Abs(float64(a)-float64(b)) < floatEqualEpsilon
}

func (FloatOps[T]) IsZeroSlopeWithin(v T, eps float64) bool {
	return math.Abs(float64(v)) < eps
}

func (FloatOps[T]) Magnitude(v T) float64 { return math.Abs(float64(v)) }

// Float64Ops and Float32Ops are the two concrete instantiations named in
// spec §3.2.
type Float64Ops = FloatOps[float64]
type Float32Ops = FloatOps[float32]

// Vec3 is a fixed, untangented vector value (spec §3.2's "fixed
// vector/matrix types, fixed-length array-valued slots"): interpolated
// linearly, tangents cannot be authored on it.
type Vec3 struct {
	X, Y, Z float64
}

// Vec3Ops implements ValueOps for Vec3 (KindLinearOnly).
type Vec3Ops struct{}

func (Vec3Ops) Zero() Vec3   { return Vec3{} }
func (Vec3Ops) Kind() Kind   { return KindLinearOnly }

func (Vec3Ops) Interpolate(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
}

func (Vec3Ops) Add(a, b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func (Vec3Ops) Sub(a, b Vec3) Vec3 {
	return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func (Vec3Ops) ScaleDelta(v Vec3, s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (Vec3Ops) Equal(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < floatEqualEpsilon &&
		math.Abs(a.Y-b.Y) < floatEqualEpsilon &&
		math.Abs(a.Z-b.Z) < floatEqualEpsilon
}

func (Vec3Ops) IsZeroSlopeWithin(v Vec3, eps float64) bool {
	return math.Abs(v.X) < eps &&
		math.Abs(v.Y) < eps &&
		math.Abs(v.Z) < eps
}

func (Vec3Ops) Magnitude(v Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Quat is a unit quaternion value (spec §3.2, §9: slerp-interpolated,
// zero derivative, no tangents — a degenerate case in this core).
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat is Quat's zero/identity rotation.
var IdentityQuat = Quat{W: 1}

// QuatOps implements ValueOps for Quat (KindSlerp). Interpolate performs
// spherical linear interpolation; the derivative methods used by the
// evaluator always return IdentityQuat (spec §4.4.2, §9: callers who need
// a true angular derivative must compute it themselves).
type QuatOps struct{}

func (QuatOps) Zero() Quat { return IdentityQuat }
func (QuatOps) Kind() Kind { return KindSlerp }

func (QuatOps) Interpolate(a, b Quat, t float64) Quat {
	dot := a.W*b.W + a.X*b.X + a.Y*b.Y + a.Z*b.Z
	if dot < 0 {
		b = Quat{W: -b.W, X: -b.X, Y: -b.Y, Z: -b.Z}
		dot = -dot
	}
	const closeEnough = 0.9995
	if dot > closeEnough {
		// Nearly parallel: fall back to a normalized lerp to avoid
		// divide-by-near-zero in the sin(theta) denominator below.
		q := Quat{
			W: a.W + t*(b.W-a.W),
			X: a.X + t*(b.X-a.X),
			Y: a.Y + t*(b.Y-a.Y),
			Z: a.Z + t*(b.Z-a.Z),
		}
		return normalizeQuat(q)
	}
	theta0 := math.Acos(dot)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	sinTheta := math.Sin(theta)
	s0 := math.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return Quat{
		W: s0*a.W + s1*b.W,
		X: s0*a.X + s1*b.X,
		Y: s0*a.Y + s1*b.Y,
		Z: s0*a.Z + s1*b.Z,
	}
}

func normalizeQuat(q Quat) Quat {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n == 0 {
		return IdentityQuat
	}
	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// Add, Sub, and ScaleDelta are defined component-wise so the segment
// builder's generic control-point arithmetic type-checks, but they are
// never exercised in a way that changes evaluation: quaternion knots
// carry no tangents and always resolve through Interpolate.
func (QuatOps) Add(a, b Quat) Quat {
	return Quat{W: a.W + b.W, X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func (QuatOps) Sub(a, b Quat) Quat {
	return Quat{W: a.W - b.W, X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func (QuatOps) ScaleDelta(v Quat, s float64) Quat {
	return Quat{W: v.W * s, X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (QuatOps) Equal(a, b Quat) bool {
	return math.Abs(a.W-b.W) < floatEqualEpsilon &&
		math.Abs(a.X-b.X) < floatEqualEpsilon &&
		math.Abs(a.Y-b.Y) < floatEqualEpsilon &&
		math.Abs(a.Z-b.Z) < floatEqualEpsilon
}

func (QuatOps) IsZeroSlopeWithin(Quat, float64) bool { return true }

// Magnitude is unused on the evaluation path (quaternion segments never
// go through the Bezier flatness/blur tests, see Segment's segSlerp kind)
// but is implemented for interface completeness.
func (QuatOps) Magnitude(v Quat) float64 {
	return math.Sqrt(v.W*v.W + v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Token is a held-only interned-string-like value (spec §3.2).
type Token string

// heldOps implements the shared no-op arithmetic for all held-only types
// (bool, int64, string, Token): they are never interpolated, so Add/Sub/
// ScaleDelta/Interpolate exist only to satisfy ValueOps and are never
// called on a code path that matters (knotType is always forced Held).
type heldOps[T comparable] struct{ zero T }

func (h heldOps[T]) Zero() T                       { return h.zero }
func (heldOps[T]) Kind() Kind                      { return KindHeldOnly }
func (heldOps[T]) Interpolate(a, b T, t float64) T { return a }
func (heldOps[T]) Add(a, b T) T                    { return a }
func (heldOps[T]) Sub(a, b T) T                    { return a }
func (heldOps[T]) ScaleDelta(v T, s float64) T     { return v }
func (heldOps[T]) Equal(a, b T) bool               { return a == b }
func (heldOps[T]) IsZeroSlopeWithin(T, float64) bool { return true }

// Magnitude is unused on the evaluation path (held-only segments never go
// through the Bezier flatness/blur tests) but is implemented for
// interface completeness.
func (heldOps[T]) Magnitude(T) float64 { return 0 }

// BoolOps, Int64Ops, StringOps, and TokenOps implement ValueOps for the
// held-only value types.
type BoolOps struct{ heldOps[bool] }
type Int64Ops struct{ heldOps[int64] }
type StringOps struct{ heldOps[string] }
type TokenOps struct{ heldOps[Token] }

func NewBoolOps() BoolOps     { return BoolOps{} }
func NewInt64Ops() Int64Ops   { return Int64Ops{} }
func NewStringOps() StringOps { return StringOps{} }
func NewTokenOps() TokenOps   { return TokenOps{} }
