package spline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsanim/splinecore/spline"
)

func TestKnotEffectiveTypeDegradesOnHeldOnlyValue(t *testing.T) {
	ops := spline.NewBoolOps()
	k := spline.NewKnot(ops, 0, true, spline.KnotBezier)
	assert.Equal(t, spline.KnotHeld, k.EffectiveType())
}

func TestKnotEffectiveTypeDegradesBezierToLinearOnLinearOnlyValue(t *testing.T) {
	ops := spline.Vec3Ops{}
	k := spline.NewKnot(ops, 0, spline.Vec3{X: 1}, spline.KnotBezier)
	assert.Equal(t, spline.KnotBezier, k.Type())
	assert.Equal(t, spline.KnotLinear, k.EffectiveType())
}

func TestKnotDualValueRoundTrips(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewDualKnot(ops, 0, 1.0, 2.0, spline.KnotLinear)
	assert.True(t, k.IsDual())
	assert.Equal(t, 1.0, k.LeftValue())
	assert.Equal(t, 2.0, k.RightValue())
}

func TestKnotSetDualFalseCollapsesToRightValue(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewDualKnot(ops, 0, 1.0, 2.0, spline.KnotLinear)
	k.SetDual(false, spline.NoopLogger)
	assert.False(t, k.IsDual())
	assert.Equal(t, 2.0, k.LeftValue())
	assert.Equal(t, 2.0, k.RightValue())
}

func TestKnotSetRightValueForcesHeldOnNonFinite(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewKnot(ops, 0, 1.0, spline.KnotBezier)
	k.SetRightValue(math.Inf(1), spline.NoopLogger)
	assert.Equal(t, spline.KnotHeld, k.Type())
}

func TestKnotSetRightTangentSlopeMirrorsToLeftUntilBroken(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
	k.SetRightTangentSlope(2, spline.NoopLogger)
	assert.Equal(t, 2.0, k.LeftTangentSlope())
	assert.False(t, k.SymmetryBroken())

	k.SetLeftTangentSlope(5, spline.NoopLogger)
	assert.True(t, k.SymmetryBroken())
	assert.Equal(t, 2.0, k.RightTangentSlope())

	k.SetRightTangentSlope(9, spline.NoopLogger)
	assert.Equal(t, 5.0, k.LeftTangentSlope())
	assert.Equal(t, 9.0, k.RightTangentSlope())
}

func TestKnotTangentLengthRejectsNegative(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
	k.SetRightTangentLength(3, spline.NoopLogger)
	k.SetRightTangentLength(-1, spline.NoopLogger)
	assert.Equal(t, 3.0, k.RightTangentLength(), "rejected negative length must leave the prior value in place")
}

func TestKnotTangentLengthSnapsTinyNegativeToZero(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
	k.SetRightTangentLength(-1e-9, spline.NoopLogger)
	assert.Equal(t, 0.0, k.RightTangentLength())
}

func TestKnotCloneIsIndependent(t *testing.T) {
	ops := spline.Float64Ops{}
	k := spline.NewKnot(ops, 0, 1.0, spline.KnotLinear)
	c := k.Clone()
	c.SetRightValue(2.0, spline.NoopLogger)
	assert.Equal(t, 1.0, k.RightValue())
	assert.Equal(t, 2.0, c.RightValue())
}
