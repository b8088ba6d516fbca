// Package splinediff computes the changed interval between two splines,
// single-knot redundancy, and shape-preserving breakdown (spec §4.7-4.9).
// It builds entirely on spline's public API — knot accessors, effective
// extrapolation, and the segment builder — rather than reaching into
// spline's internals. The changed-interval walk compares knots directly
// and never samples either spline's values.
package splinediff

import (
	"math"

	"github.com/tsanim/splinecore/spline"
)

// Interval is the result of [FindChangedInterval]: the smallest time
// range outside of which two splines evaluate identically and carry
// identical knots (spec §4.7). A fully-matching pair of splines reports
// Empty. An unbounded side means the splines differ arbitrarily far out
// on that side (declared extrapolation mode or edge value mismatch).
type Interval struct {
	Min, Max             float64
	MinClosed, MaxClosed bool
	MinUnbounded         bool
	MaxUnbounded         bool
	Empty                bool
}

// FindChangedInterval computes the changed interval between a and b (spec
// §4.7): the region tightened inward from both ends by walking each
// spline's own knot sequence, coalescing matching flat runs and comparing
// knot side-equivalence (§4.7.1-§4.7.5), rather than sampling either
// spline at arbitrary times. Both splines must share the same value-type
// operations.
func FindChangedInterval[T any](a, b *spline.Spline[T]) Interval {
	aK, bK := a.Knots(), b.Knots()

	if len(aK) == 0 && len(bK) == 0 {
		return Interval{Empty: true}
	}
	if len(aK) == 0 || len(bK) == 0 {
		return Interval{MinUnbounded: true, MaxUnbounded: true}
	}

	h := &changedIntervalWalk[T]{ops: a.Ops(), a: a, b: b, aK: aK, bK: bK}
	h.tightenFromRight()
	if h.collapsed {
		return Interval{Empty: true}
	}
	h.tightenFromLeft()
	if h.collapsed {
		return Interval{Empty: true}
	}

	return Interval{
		Min:          h.min,
		MinClosed:    h.minClosed,
		MinUnbounded: !h.minSet,
		Max:          h.max,
		MaxClosed:    h.maxClosed,
		MaxUnbounded: !h.maxSet,
	}
}

// changedIntervalWalk holds the two-cursor state for one call to
// FindChangedInterval: iA/iB are forward indices into aK/bK used while
// tightening from the left, jA/jB are indices used while tightening from
// the right (walked downward; -1 is the "before the first knot" sentinel,
// mirroring len(aK) as the "past the last knot" sentinel used on the
// forward side).
type changedIntervalWalk[T any] struct {
	ops  spline.ValueOps[T]
	a, b *spline.Spline[T]
	aK   []*spline.Knot[T]
	bK   []*spline.Knot[T]

	iA, iB int
	jA, jB int

	minSet, maxSet       bool
	min, max             float64
	minClosed, maxClosed bool
	collapsed            bool
}

func (h *changedIntervalWalk[T]) setMin(t float64, closed bool) {
	h.minSet, h.min, h.minClosed = true, t, closed
}

func (h *changedIntervalWalk[T]) setMax(t float64, closed bool) {
	h.maxSet, h.max, h.maxClosed = true, t, closed
}

// getLastKnot returns the sentinel len(ks) when extrapolation to the
// right is Held (meaning the spline is flat to infinity past i, the last
// knot), and i otherwise (spec §4.7.3's mirror on the right).
func getLastKnot[T any](s *spline.Spline[T], ks []*spline.Knot[T], i int) int {
	if s.EffectiveExtrapolation(spline.Right) == spline.ExtrapHeld {
		return len(ks)
	}
	return i
}

// getFirstKnot is getLastKnot's mirror for the left side.
func getFirstKnot[T any](s *spline.Spline[T], i int) int {
	if s.EffectiveExtrapolation(spline.Left) == spline.ExtrapHeld {
		return -1
	}
	return i
}

// getNextNonFlatKnot finds the first knot at or after start whose value
// is not part of a constant run beginning at start's right-side value
// (spec §4.7.2, §4.7.3). Array-valued (KindLinearOnly) knots short-circuit
// to the very next knot, matching flatSegment's own short-circuit.
func getNextNonFlatKnot[T any](ops spline.ValueOps[T], s *spline.Spline[T], ks []*spline.Knot[T], start int) int {
	if ops.Kind() == spline.KindLinearOnly {
		next := start + 1
		if next == len(ks) {
			return getLastKnot(s, ks, start)
		}
		return next
	}

	var prevHeld T
	havePrevHeld := false
	kf := start
	for kf < len(ks) {
		k := ks[kf]
		if kf != start {
			if k.IsDual() && !ops.Equal(k.LeftValue(), k.RightValue()) {
				return kf
			}
			if havePrevHeld && !ops.Equal(k.RightValue(), prevHeld) {
				return kf
			}
		}
		if k.EffectiveType() == spline.KnotHeld {
			prevHeld, havePrevHeld = k.RightValue(), true
			kf++
			continue
		}
		havePrevHeld = false

		next := kf + 1
		if next == len(ks) {
			return getLastKnot(s, ks, kf)
		}
		if !flatSegment(ops, ks[kf], ks[next]) {
			return kf
		}
		kf++
	}
	return kf
}

// getPreviousNonFlatKnot is getNextNonFlatKnot's mirror, walking backward
// from start (spec §4.7.4).
func getPreviousNonFlatKnot[T any](ops spline.ValueOps[T], s *spline.Spline[T], ks []*spline.Knot[T], start int) int {
	if ops.Kind() == spline.KindLinearOnly {
		prev := start - 1
		if prev == -1 {
			return getFirstKnot(s, start)
		}
		return prev
	}

	kf := start
	for kf >= 0 {
		if kf != start {
			k := ks[kf]
			if k.IsDual() && !ops.Equal(k.LeftValue(), k.RightValue()) {
				return kf
			}
		}
		prev := kf - 1
		if prev == -1 {
			return getFirstKnot(s, kf)
		}
		if ks[prev].EffectiveType() == spline.KnotHeld {
			if kf == start || ops.Equal(ks[kf].LeftValue(), ks[prev].RightValue()) {
				kf--
				continue
			}
		}
		if !flatSegment(ops, ks[prev], ks[kf]) {
			return kf
		}
		kf--
	}
	return kf
}

// tightenToNextKeyFrame advances the forward cursors by one knot or one
// matching flat run and reports whether tightening can continue further
// (spec §4.7.3).
func (h *changedIntervalWalk[T]) tightenToNextKeyFrame(extrapolateHeldLeft bool) bool {
	ops := h.ops
	canTightenMore := false

	aCur, bCur := h.aK[h.iA], h.bK[h.iB]
	if extrapolateHeldLeft && !ops.Equal(aCur.LeftValue(), bCur.LeftValue()) {
		return false
	}

	aNext, bNext := h.iA, h.iB
	if !extrapolateHeldLeft || !aCur.IsDual() || ops.Equal(aCur.RightValue(), aCur.LeftValue()) {
		aNext = getNextNonFlatKnot(ops, h.a, h.aK, h.iA)
	}
	if !extrapolateHeldLeft || !bCur.IsDual() || ops.Equal(bCur.RightValue(), bCur.LeftValue()) {
		bNext = getNextNonFlatKnot(ops, h.b, h.bK, h.iB)
	}

	if extrapolateHeldLeft || (aNext != h.iA && bNext != h.iB && ops.Equal(aCur.RightValue(), bCur.RightValue())) {
		aTime, bTime := math.Inf(1), math.Inf(1)
		if aNext < len(h.aK) {
			aTime = h.aK[aNext].Time()
		}
		if bNext < len(h.bK) {
			bTime = h.bK[bNext].Time()
		}

		var closed bool
		switch {
		case aTime < bTime:
			aKnot := h.aK[aNext]
			closed = !ops.Equal(aKnot.RightValue(), bCur.RightValue()) ||
				(aKnot.IsDual() && !ops.Equal(aKnot.RightValue(), aKnot.LeftValue()))
		case bTime < aTime:
			bKnot := h.bK[bNext]
			closed = !ops.Equal(bKnot.RightValue(), aCur.RightValue()) ||
				(bKnot.IsDual() && !ops.Equal(bKnot.RightValue(), bKnot.LeftValue()))
		default:
			if math.IsInf(aTime, 1) {
				h.collapsed = true
				return false
			}
			aKnot, bKnot := h.aK[aNext], h.bK[bNext]
			closed = !ops.Equal(aKnot.RightValue(), bKnot.RightValue()) ||
				!ops.Equal(aKnot.LeftValue(), bKnot.LeftValue())
			canTightenMore = !closed
		}

		h.setMin(math.Min(aTime, bTime), closed)
		h.iA, h.iB = aNext, bNext
		return canTightenMore
	}

	if aCur.EquivalentAtSide(bCur, spline.Right) {
		h.iA++
		h.iB++
		if h.iA < len(h.aK) && h.iB < len(h.bK) && h.aK[h.iA].EquivalentAtSide(h.bK[h.iB], spline.Left) {
			closed := !ops.Equal(h.aK[h.iA].RightValue(), h.bK[h.iB].RightValue())
			h.setMin(h.aK[h.iA].Time(), closed)
			canTightenMore = !closed
		}
	}
	return canTightenMore
}

// tightenFromLeft tightens the interval's left boundary inward from the
// first knot of each spline (spec §4.7.3).
func (h *changedIntervalWalk[T]) tightenFromLeft() {
	h.iA, h.iB = 0, 0
	ops := h.ops

	aExtrapLeft := h.a.EffectiveExtrapolation(spline.Left)
	bExtrapLeft := h.b.EffectiveExtrapolation(spline.Left)
	if aExtrapLeft != bExtrapLeft || !ops.Equal(h.aK[0].LeftValue(), h.bK[0].LeftValue()) {
		return
	}

	if aExtrapLeft == spline.ExtrapHeld {
		if !h.tightenToNextKeyFrame(true) {
			return
		}
	} else if h.aK[0].Time() == h.bK[0].Time() && ops.Equal(h.aK[0].LeftTangentSlope(), h.bK[0].LeftTangentSlope()) {
		closed := !ops.Equal(h.aK[0].RightValue(), h.bK[0].RightValue())
		h.setMin(h.aK[0].Time(), closed)
		if closed {
			return
		}
	} else {
		return
	}

	for h.tightenToNextKeyFrame(false) {
	}
}

// tightenToPreviousKeyFrame is tightenToNextKeyFrame's mirror, advancing
// the reverse cursors (spec §4.7.4).
func (h *changedIntervalWalk[T]) tightenToPreviousKeyFrame(extrapolateHeldRight bool) bool {
	ops := h.ops
	canTightenMore := false

	aCur, bCur := h.aK[h.jA], h.bK[h.jB]
	if extrapolateHeldRight && !ops.Equal(aCur.RightValue(), bCur.RightValue()) {
		return false
	}

	aPrev := getPreviousNonFlatKnot(ops, h.a, h.aK, h.jA)
	bPrev := getPreviousNonFlatKnot(ops, h.b, h.bK, h.jB)

	aPrevValue := h.aK[0].LeftValue()
	if aPrev != -1 {
		aPrevValue = h.aK[aPrev].RightValue()
	}
	bPrevValue := h.bK[0].LeftValue()
	if bPrev != -1 {
		bPrevValue = h.bK[bPrev].RightValue()
	}

	if extrapolateHeldRight {
		if aPrev != h.jA {
			if !ops.Equal(aPrevValue, aCur.RightValue()) ||
				(aCur.IsDual() && !ops.Equal(aCur.RightValue(), aCur.LeftValue())) {
				aPrev = h.jA
			}
		}
		if bPrev != h.jB {
			if !ops.Equal(bPrevValue, bCur.RightValue()) ||
				(bCur.IsDual() && !ops.Equal(bCur.RightValue(), bCur.LeftValue())) {
				bPrev = h.jB
			}
		}
	}

	if extrapolateHeldRight || (aPrev != h.jA && bPrev != h.jB && ops.Equal(aPrevValue, bPrevValue)) {
		aTime, bTime := math.Inf(-1), math.Inf(-1)
		if aPrev != -1 {
			aTime = h.aK[aPrev].Time()
		}
		if bPrev != -1 {
			bTime = h.bK[bPrev].Time()
		}

		var closed bool
		switch {
		case aTime > bTime:
			aKnot := h.aK[aPrev]
			closed = aKnot.IsDual() && !ops.Equal(aKnot.RightValue(), aKnot.LeftValue())
		case bTime > aTime:
			bKnot := h.bK[bPrev]
			closed = bKnot.IsDual() && !ops.Equal(bKnot.RightValue(), bKnot.LeftValue())
		default:
			if math.IsInf(aTime, -1) {
				h.collapsed = true
				return false
			}
			aKnot, bKnot := h.aK[aPrev], h.bK[bPrev]
			closed = !ops.Equal(aKnot.LeftValue(), bKnot.LeftValue())
			canTightenMore = !closed
		}

		h.setMax(math.Max(aTime, bTime), closed)
		h.jA, h.jB = aPrev, bPrev
		return canTightenMore
	}

	if aCur.EquivalentAtSide(bCur, spline.Left) {
		h.jA--
		h.jB--
		if h.jA >= 0 && h.jB >= 0 && h.aK[h.jA].EquivalentAtSide(h.bK[h.jB], spline.Right) {
			closed := !ops.Equal(h.aK[h.jA].LeftValue(), h.bK[h.jB].LeftValue())
			h.setMax(h.aK[h.jA].Time(), closed)
			canTightenMore = !closed
		}
	}
	return canTightenMore
}

// tightenFromRight tightens the interval's right boundary inward from the
// last knot of each spline (spec §4.7.4).
func (h *changedIntervalWalk[T]) tightenFromRight() {
	h.jA, h.jB = len(h.aK)-1, len(h.bK)-1
	ops := h.ops

	aExtrapRight := h.a.EffectiveExtrapolation(spline.Right)
	bExtrapRight := h.b.EffectiveExtrapolation(spline.Right)
	if aExtrapRight != bExtrapRight || !ops.Equal(h.aK[h.jA].RightValue(), h.bK[h.jB].RightValue()) {
		return
	}

	if aExtrapRight == spline.ExtrapHeld {
		if !h.tightenToPreviousKeyFrame(true) {
			return
		}
	} else if h.aK[h.jA].Time() == h.bK[h.jB].Time() &&
		ops.Equal(h.aK[h.jA].RightTangentSlope(), h.bK[h.jB].RightTangentSlope()) {
		closed := !ops.Equal(h.aK[h.jA].LeftValue(), h.bK[h.jB].LeftValue())
		h.setMax(h.aK[h.jA].Time(), closed)
		if closed {
			return
		}
	} else {
		return
	}

	for h.tightenToPreviousKeyFrame(false) {
	}
}

// flatSegment reports whether the segment from k1 to k2 is flat — value
// constant over [k1.Time(), k2.Time()) (spec §4.7.2). A Held left knot is
// always flat; otherwise both endpoints' comparison-side values must be
// equal and each endpoint whose effective knot type is Bezier must have a
// zero tangent slope on the side facing the segment. KindLinearOnly (fixed vector/array-valued)
// types short-circuit to "not flat" without an element-wise compare, per
// spec §4.7.2's array-valued carve-out.
func flatSegment[T any](ops spline.ValueOps[T], k1, k2 *spline.Knot[T]) bool {
	if k1.EffectiveType() == spline.KnotHeld {
		return true
	}
	if ops.Kind() == spline.KindLinearOnly {
		return false
	}
	if !ops.Equal(k1.RightValue(), k2.LeftValue()) {
		return false
	}
	if k1.EffectiveType() == spline.KnotBezier && !ops.IsZeroSlopeWithin(k1.RightTangentSlope(), 1e-6) {
		return false
	}
	if k2.EffectiveType() == spline.KnotBezier && !ops.IsZeroSlopeWithin(k2.LeftTangentSlope(), 1e-6) {
		return false
	}
	return true
}
