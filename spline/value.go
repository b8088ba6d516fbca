package spline

// Kind groups value types by capability, per the closed set in spec §3.2.
type Kind uint8

const (
	// KindFull covers f32/f64: tangent authoring, interpolation, and
	// extrapolation are all available.
	KindFull Kind = iota
	// KindLinearOnly covers fixed vector/matrix and other array-valued
	// types: interpolated linearly, but Bezier tangents cannot be
	// authored on them.
	KindLinearOnly
	// KindSlerp covers unit quaternions: interpolated by spherical linear
	// interpolation, with a derivative of zero and no tangents.
	KindSlerp
	// KindHeldOnly covers bool/int/string/token: interpolation is always
	// forced to Held.
	KindHeldOnly
)

// Interpolatable reports whether a value of this kind varies between knots
// at all (false only for KindHeldOnly).
func (k Kind) Interpolatable() bool { return k != KindHeldOnly }

// SupportsTangents reports whether a knot of this kind may author Bezier
// tangent slope/length fields.
func (k Kind) SupportsTangents() bool { return k == KindFull }

// Extrapolatable reports whether this kind supports extrapolation beyond
// the authored knot range (as opposed to degrading straight to Held).
func (k Kind) Extrapolatable() bool { return k == KindFull || k == KindLinearOnly }

// Traits is the trait-query result spec §3.2 requires be exposable per
// value type.
type Traits struct {
	Interpolatable   bool
	SupportsTangents bool
	Extrapolatable   bool
}

// TraitsOf reports the traits of T via its ValueOps.
func TraitsOf[T any](ops ValueOps[T]) Traits {
	k := ops.Kind()
	return Traits{
		Interpolatable:   k.Interpolatable(),
		SupportsTangents: k.SupportsTangents(),
		Extrapolatable:   k.Extrapolatable(),
	}
}

// ValueOps is implemented once per concrete value type T. It supplies the
// arithmetic and trait queries the core needs without requiring T to
// satisfy Go's built-in numeric operators, which lets the same evaluation,
// sampling, and diffing code run over f64, fixed vectors, quaternions, and
// held-only types alike. The set of ValueOps implementations is closed by
// convention (spec §3.2, §9): third parties are not expected to add new
// ones, and the core never discovers implementations dynamically.
type ValueOps[T any] interface {
	// Zero returns the zero value of T, used as the derivative result for
	// non-interpolatable and slerp-based types.
	Zero() T
	// Kind reports this type's capability group.
	Kind() Kind
	// Interpolate returns the value at parameter t (0 at a, 1 at b). For
	// KindFull and KindLinearOnly this is linear; for KindSlerp it is
	// spherical; it is never called for KindHeldOnly.
	Interpolate(a, b T, t float64) T
	// Add returns a + b.
	Add(a, b T) T
	// Sub returns a - b.
	Sub(a, b T) T
	// ScaleDelta returns v * s.
	ScaleDelta(v T, s float64) T
	// Equal reports whether a and b are equal within this type's
	// comparison epsilon (spec §4.7.2: 1e-6 absolute for floats).
	Equal(a, b T) bool
	// IsZeroSlopeWithin reports whether v is within eps of a zero tangent
	// slope. Used both by the flat-segment test in diffing (at
	// floatEqualEpsilon) and by tangent-symmetry rechecking (at
	// tangentSymmetryEpsilon).
	IsZeroSlopeWithin(v T, eps float64) bool
	// Magnitude returns a non-negative scalar norm of v, used by the
	// adaptive sampler's flatness and blur-out tests to measure how far a
	// control point deviates from a chord in scaled (time, value) space.
	Magnitude(v T) float64
}

// isZeroSlope reports whether v is a zero tangent slope at the standard
// float comparison epsilon (spec §4.7.2).
func isZeroSlope[T any](ops ValueOps[T], v T) bool {
	return ops.IsZeroSlopeWithin(v, floatEqualEpsilon)
}

// slope computes (b-a)/dt via ops, returning ops.Zero() for dt == 0.
func slope[T any](ops ValueOps[T], a, b T, dt float64) T {
	if dt == 0 {
		return ops.Zero()
	}
	return ops.ScaleDelta(ops.Sub(b, a), 1/dt)
}
