package spline

// LoopParams holds the new-style inner-loop parameters (spec §3.4, §9):
// a prototype interval [ProtoStart, ProtoEnd) that is echoed NumPreLoops
// times before it and NumPostLoops times after, each echo offset by
// ValueOffset times the loop count. This core stores the parameters and
// validates them; it does not itself synthesize echo knots (spec §4.4.3
// treats looping extrapolation as optional and out of scope for
// evaluation).
//
// The source this is drawn from carries both an "old-style" (parameters
// directly on the spline) and a "new-style" (parameters on a separate
// object) representation; per spec §9's open question, this core
// implements new-style only and has no old-style equivalent to reject at
// runtime — there is simply no other constructor.
type LoopParams struct {
	ProtoStart   float64
	ProtoEnd     float64
	NumPreLoops  int
	NumPostLoops int
	ValueOffset  float64
}

// valid reports whether the interval is non-empty (spec §3.4: "Valid only
// when protoEnd > protoStart; otherwise ignored").
func (p LoopParams) valid() bool { return p.ProtoEnd > p.ProtoStart }

// Spline is the knot container plus extrapolation and inner-loop settings
// (spec §3.4). It is the top-level type most callers construct and
// evaluate against; [Container], [Evaluator], and the free evaluation/
// sampling functions operate one layer below and remain directly
// accessible for callers that want to hold an explicit Evaluator across
// many queries.
type Spline[T any] struct {
	ops ValueOps[T]
	c   Container[T]

	leftMode, rightMode ExtrapMode

	// slopeLeft/slopeRight only apply when the corresponding mode is
	// ExtrapSloped, which this core evaluates identically to ExtrapLinear
	// (spec §4.4.3 note). They are stored but never read: evaluation takes
	// its slope from the edge knot's tangent or the adjacent segment, and
	// splineio does not persist them.
	slopeLeft, slopeRight T
	hasSlopeLeft          bool
	hasSlopeRight         bool

	loop      LoopParams
	loopIsSet bool

	logger Logger
}

// New constructs an empty spline over value type T, defaulting both
// extrapolation sides to Held and logging coding errors via logger (pass
// [NoopLogger] to silently discard them).
func New[T any](ops ValueOps[T], logger Logger) *Spline[T] {
	if logger == nil {
		logger = NoopLogger
	}
	return &Spline[T]{ops: ops, leftMode: ExtrapHeld, rightMode: ExtrapHeld, logger: logger}
}

// Ops returns the value-type operations this spline was built with.
func (s *Spline[T]) Ops() ValueOps[T] { return s.ops }

// SetExtrapolation sets both sides' declared extrapolation modes. Slopes
// are stored for ExtrapSloped but evaluation does not use them; pass nil
// to leave a side's slope unset.
func (s *Spline[T]) SetExtrapolation(left, right ExtrapMode, slopeLeft, slopeRight *T) {
	s.leftMode, s.rightMode = left, right
	if slopeLeft != nil {
		s.slopeLeft, s.hasSlopeLeft = *slopeLeft, true
	}
	if slopeRight != nil {
		s.slopeRight, s.hasSlopeRight = *slopeRight, true
	}
}

// Extrapolation returns the declared left/right extrapolation modes.
func (s *Spline[T]) Extrapolation() (left, right ExtrapMode) { return s.leftMode, s.rightMode }

// EffectiveExtrapolation returns the degraded extrapolation mode actually
// used for evaluation on the given side (spec §3.5): the declared mode,
// unless the edge knot or spline shape forces a degrade to Held.
func (s *Spline[T]) EffectiveExtrapolation(side Side) ExtrapMode {
	declared := s.leftMode
	if side == Right {
		declared = s.rightMode
	}
	return effectiveExtrapolation(s.ops, &s.c, declared, side)
}

// SetInnerLoop sets the inner-loop parameters, rejecting an invalid
// interval as a coding error (spec §3.4: "valid only when protoEnd >
// protoStart; otherwise ignored").
func (s *Spline[T]) SetInnerLoop(p LoopParams) {
	if !p.valid() {
		s.logger.Warn(&CodingError{Op: "SetInnerLoop", Field: "ProtoEnd", Reason: "protoEnd must be greater than protoStart"})
		return
	}
	s.loop = p
	s.loopIsSet = true
}

// ClearInnerLoop removes any inner-loop parameters.
func (s *Spline[T]) ClearInnerLoop() { s.loop = LoopParams{}; s.loopIsSet = false }

// InnerLoop returns the inner-loop parameters and whether any are set.
func (s *Spline[T]) InnerLoop() (LoopParams, bool) { return s.loop, s.loopIsSet }

// InsertKnot inserts k into the spline's container, ordered and unique by
// time (spec §4.2).
func (s *Spline[T]) InsertKnot(k *Knot[T]) { s.c.Insert(k) }

// RemoveKnotAt removes the knot at time t, if any.
func (s *Spline[T]) RemoveKnotAt(t float64) { s.c.Erase(t) }

// KnotAt returns the knot at exactly time t, if any.
func (s *Spline[T]) KnotAt(t float64) (*Knot[T], bool) { return s.c.Find(t) }

// Knots returns the spline's knots in ascending time order. The returned
// slice must not be mutated by the caller.
func (s *Spline[T]) Knots() []*Knot[T] { return s.c.All() }

// IsEmpty reports whether the spline has no knots.
func (s *Spline[T]) IsEmpty() bool { return s.c.Len() == 0 }

// Len returns the number of knots.
func (s *Spline[T]) Len() int { return s.c.Len() }

// Container exposes the underlying knot container for callers that need
// direct index-based access (e.g. [splinediff]).
func (s *Spline[T]) Container() *Container[T] { return &s.c }

// EvalValue evaluates the spline's value at time t on the given side
// (spec §4.4.1).
func (s *Spline[T]) EvalValue(t float64, side Side) (T, bool) {
	return EvalValue(s.ops, &s.c, s.leftMode, s.rightMode, t, side)
}

// EvalDerivative evaluates d(value)/d(time) at time t on the given side
// (spec §4.4.2).
func (s *Spline[T]) EvalDerivative(t float64, side Side) (T, bool) {
	return EvalDerivative(s.ops, &s.c, s.leftMode, s.rightMode, t, side)
}

// Sample produces adaptive linear samples over [start, end] (spec §4.5).
func (s *Spline[T]) Sample(start, end, timeScale, valueScale, tol float64) []Sample[T] {
	return SampleSpline(s.ops, &s.c, s.leftMode, s.rightMode, start, end, timeScale, valueScale, tol)
}

// Range computes the spline's value range over [start, end] (spec §4.6).
func (s *Spline[T]) Range(start, end float64) (lo, hi T, ok bool) {
	return SplineRange(s.ops, &s.c, s.leftMode, s.rightMode, start, end)
}

// NewEvaluator builds an [Evaluator] bound to this spline's current knot
// state (spec §4.6, §5). The Evaluator must not outlive a subsequent edit
// to the spline.
func (s *Spline[T]) NewEvaluator() *Evaluator[T] {
	return NewEvaluator(s.ops, &s.c, s.leftMode, s.rightMode)
}
