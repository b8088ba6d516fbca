package splinediff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanim/splinecore/spline"
	"github.com/tsanim/splinecore/splinediff"
)

func rampSpline(points ...[2]float64) *spline.Spline[float64] {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	for _, p := range points {
		s.InsertKnot(spline.NewKnot(ops, p[0], p[1], spline.KnotLinear))
	}
	return s
}

func TestFindChangedIntervalIdenticalSplinesIsEmpty(t *testing.T) {
	a := rampSpline([2]float64{0, 0}, [2]float64{10, 10})
	b := rampSpline([2]float64{0, 0}, [2]float64{10, 10})
	iv := splinediff.FindChangedInterval(a, b)
	assert.True(t, iv.Empty)
}

func TestFindChangedIntervalIsSymmetric(t *testing.T) {
	a := rampSpline([2]float64{0, 0}, [2]float64{5, 5}, [2]float64{10, 10})
	b := rampSpline([2]float64{0, 0}, [2]float64{5, 50}, [2]float64{10, 10})

	ab := splinediff.FindChangedInterval(a, b)
	ba := splinediff.FindChangedInterval(b, a)
	assert.Equal(t, ab, ba)
	assert.False(t, ab.Empty)
}

func TestFindChangedIntervalLocalizedEditIsBoundedAndClosed(t *testing.T) {
	a := rampSpline([2]float64{0, 0}, [2]float64{5, 5}, [2]float64{10, 0})
	b := rampSpline([2]float64{0, 0}, [2]float64{5, 50}, [2]float64{10, 0})

	iv := splinediff.FindChangedInterval(a, b)
	require.False(t, iv.Empty)
	assert.False(t, iv.MinUnbounded)
	assert.False(t, iv.MaxUnbounded)
	assert.InDelta(t, 0.0, iv.Min, 1e-9)
	assert.InDelta(t, 10.0, iv.Max, 1e-9)
}

func TestFindChangedIntervalDifferingRightExtrapolationIsUnboundedOnThatSide(t *testing.T) {
	a := rampSpline([2]float64{0, 0}, [2]float64{10, 10})
	b := rampSpline([2]float64{0, 0}, [2]float64{10, 10})
	a.SetExtrapolation(spline.ExtrapHeld, spline.ExtrapHeld, nil, nil)
	b.SetExtrapolation(spline.ExtrapHeld, spline.ExtrapLinear, nil, nil)

	iv := splinediff.FindChangedInterval(a, b)
	require.False(t, iv.Empty)
	assert.True(t, iv.MaxUnbounded)
}

func TestFindChangedIntervalDetectsTangentLengthOnlyEdit(t *testing.T) {
	// Same endpoints, same tangent slopes on both sides, but the tangent
	// lengths differ: the curve's interior shape changes even though every
	// value and derivative sampled at either shared endpoint is identical.
	ops := spline.Float64Ops{}
	build := func(rightLen, leftLen float64) *spline.Spline[float64] {
		s := spline.New[float64](ops, spline.NoopLogger)
		k0 := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
		k0.SetRightTangentSlope(2, spline.NoopLogger)
		k0.SetRightTangentLength(rightLen, spline.NoopLogger)
		k1 := spline.NewKnot(ops, 10, 10.0, spline.KnotBezier)
		k1.SetLeftTangentSlope(0.5, spline.NoopLogger)
		k1.SetLeftTangentLength(leftLen, spline.NoopLogger)
		s.InsertKnot(k0)
		s.InsertKnot(k1)
		return s
	}

	a := build(3, 3)
	b := build(2.135, 5)

	iv := splinediff.FindChangedInterval(a, b)
	require.False(t, iv.Empty, "tangent-length-only edit must be detected as a changed interval")
	assert.InDelta(t, 0.0, iv.Min, 1e-9)
	assert.InDelta(t, 10.0, iv.Max, 1e-9)
}

func TestFindChangedIntervalRedundantKnotCountDoesNotMatterWhenFlat(t *testing.T) {
	// Scenario S5: both splines are flat and equal-valued throughout, but
	// b carries an extra (redundant) knot in the middle. Evaluated
	// behavior is identical, so the interval must still be empty.
	a := rampSpline([2]float64{0, 1}, [2]float64{10, 1})
	b := rampSpline([2]float64{0, 1}, [2]float64{5, 1}, [2]float64{10, 1})

	iv := splinediff.FindChangedInterval(a, b)
	assert.True(t, iv.Empty)
}
