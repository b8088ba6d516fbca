package spline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanim/splinecore/spline"
)

func TestSplineHeldKnotHoldsValueUntilNext(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotHeld))
	s.InsertKnot(spline.NewKnot(ops, 10, 2.0, spline.KnotHeld))

	for _, tm := range []float64{0, 1, 5, 9.999} {
		v, ok := s.EvalValue(tm, spline.Right)
		require.True(t, ok)
		assert.Equal(t, 1.0, v, "time %v", tm)
	}
	v, _ := s.EvalValue(10, spline.Right)
	assert.Equal(t, 2.0, v)
}

func TestSplineLinearInterpolationIsExact(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 10, 100.0, spline.KnotLinear))

	for _, tc := range []struct{ t, want float64 }{
		{0, 0}, {2.5, 25}, {5, 50}, {7.5, 75}, {10, 100},
	} {
		v, ok := s.EvalValue(tc.t, spline.Right)
		require.True(t, ok)
		assert.InDelta(t, tc.want, v, 1e-9, "time %v", tc.t)
	}
}

func TestSplineRoundTripsExactlyAtKnotTimes(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotBezier))
	s.InsertKnot(spline.NewKnot(ops, 5, 4.0, spline.KnotBezier))
	s.InsertKnot(spline.NewKnot(ops, 10, 2.0, spline.KnotBezier))

	for _, k := range []float64{0, 5, 10} {
		right, ok := s.EvalValue(k, spline.Right)
		require.True(t, ok)
		left, ok := s.EvalValue(k, spline.Left)
		require.True(t, ok)
		want, _ := s.KnotAt(k)
		assert.InDelta(t, want.RightValue(), right, 1e-9, "right at %v", k)
		assert.InDelta(t, want.LeftValue(), left, 1e-9, "left at %v", k)
	}
}

func TestSplineDualKnotDisagreesAcrossSides(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
	s.InsertKnot(spline.NewDualKnot(ops, 5, 1.0, 9.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 10, 0.0, spline.KnotLinear))

	left, _ := s.EvalValue(5, spline.Left)
	right, _ := s.EvalValue(5, spline.Right)
	assert.InDelta(t, 1.0, left, 1e-9)
	assert.InDelta(t, 9.0, right, 1e-9)
}

func TestSplineBezierEndpointsMatchKnotValues(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	k0 := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
	k0.SetRightTangentSlope(1, spline.NoopLogger)
	k0.SetRightTangentLength(1, spline.NoopLogger)
	k1 := spline.NewKnot(ops, 10, 5.0, spline.KnotBezier)
	k1.SetLeftTangentSlope(1, spline.NoopLogger)
	k1.SetLeftTangentLength(1, spline.NoopLogger)
	s.InsertKnot(k0)
	s.InsertKnot(k1)

	v0, _ := s.EvalValue(0, spline.Right)
	v1, _ := s.EvalValue(10, spline.Left)
	assert.InDelta(t, 0.0, v0, 1e-9)
	assert.InDelta(t, 5.0, v1, 1e-9)
}

func TestSplineHeldExtrapolationExtendsEdgeValues(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 10, 2.0, spline.KnotLinear))
	s.SetExtrapolation(spline.ExtrapHeld, spline.ExtrapHeld, nil, nil)

	before, _ := s.EvalValue(-100, spline.Right)
	after, _ := s.EvalValue(100, spline.Right)
	assert.Equal(t, 1.0, before)
	assert.Equal(t, 2.0, after)
}

func TestSplineLinearExtrapolationContinuesEdgeSlope(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 10, 20.0, spline.KnotLinear))
	s.SetExtrapolation(spline.ExtrapLinear, spline.ExtrapLinear, nil, nil)

	before, _ := s.EvalValue(-5, spline.Right)
	after, _ := s.EvalValue(15, spline.Right)
	assert.InDelta(t, -10.0, before, 1e-9)
	assert.InDelta(t, 30.0, after, 1e-9)
}

func TestSplineExtrapolationIdentityWithinKnotRange(t *testing.T) {
	// Declared extrapolation mode must have no effect strictly between
	// the first and last knot, regardless of mode.
	ops := spline.Float64Ops{}
	held := spline.New[float64](ops, spline.NoopLogger)
	linear := spline.New[float64](ops, spline.NoopLogger)
	for _, s := range []*spline.Spline[float64]{held, linear} {
		s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
		s.InsertKnot(spline.NewKnot(ops, 10, 10.0, spline.KnotLinear))
	}
	held.SetExtrapolation(spline.ExtrapHeld, spline.ExtrapHeld, nil, nil)
	linear.SetExtrapolation(spline.ExtrapLinear, spline.ExtrapLinear, nil, nil)

	for _, tm := range []float64{0, 2.5, 5, 7.5, 10} {
		a, _ := held.EvalValue(tm, spline.Right)
		b, _ := linear.EvalValue(tm, spline.Right)
		assert.InDelta(t, a, b, 1e-9, "time %v", tm)
	}
}

func TestSplineEmptyEvalFails(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	_, ok := s.EvalValue(0, spline.Right)
	assert.False(t, ok)
}

func TestSplineRangeCoversKnotValuesAndOvershoot(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	k0 := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
	k0.SetRightTangentSlope(10, spline.NoopLogger)
	k0.SetRightTangentLength(3, spline.NoopLogger)
	k1 := spline.NewKnot(ops, 10, 0.0, spline.KnotBezier)
	k1.SetLeftTangentSlope(-10, spline.NoopLogger)
	k1.SetLeftTangentLength(3, spline.NoopLogger)
	s.InsertKnot(k0)
	s.InsertKnot(k1)

	lo, hi, ok := s.Range(0, 10)
	require.True(t, ok)
	assert.LessOrEqual(t, lo, 0.0)
	assert.GreaterOrEqual(t, hi, 0.0)
	assert.Greater(t, hi, lo, "a curve that overshoots both endpoints must have a strictly positive range")
}

func TestSplineEvaluatorMatchesDirectEvalValue(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 5, 5.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 10, 0.0, spline.KnotLinear))

	ev := s.NewEvaluator()
	for _, tm := range []float64{-1, 0, 1, 2.5, 5, 7.5, 10, 11} {
		want, _ := s.EvalValue(tm, spline.Right)
		got, ok := ev.EvalRight(tm)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9, "time %v", tm)
	}
}

func TestSplineInsertKnotReplacesAtSameTime(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 0, 2.0, spline.KnotLinear))
	assert.Equal(t, 1, s.Len())
	v, _ := s.EvalValue(0, spline.Right)
	assert.Equal(t, 2.0, v)
}

func TestSplineRemoveKnotAt(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 5, 2.0, spline.KnotLinear))
	s.RemoveKnotAt(5)
	assert.Equal(t, 1, s.Len())
	_, ok := s.KnotAt(5)
	assert.False(t, ok)
}

func TestSplineSetInnerLoopRejectsInvalidInterval(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.SetInnerLoop(spline.LoopParams{ProtoStart: 5, ProtoEnd: 5})
	_, ok := s.InnerLoop()
	assert.False(t, ok, "an empty prototype interval must be rejected, not silently stored")
}

func TestSplineSetInnerLoopAcceptsValidInterval(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	p := spline.LoopParams{ProtoStart: 0, ProtoEnd: 10, NumPreLoops: 1, NumPostLoops: 2, ValueOffset: 0.5}
	s.SetInnerLoop(p)
	got, ok := s.InnerLoop()
	require.True(t, ok)
	assert.Equal(t, p, got)
}
