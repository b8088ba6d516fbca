package splineio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanim/splinecore/spline"
	"github.com/tsanim/splinecore/splineio"
)

func buildRampSpline() *spline.Spline[float64] {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
	s.InsertKnot(spline.NewKnot(ops, 10, 10.0, spline.KnotLinear))
	return s
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := buildRampSpline()
	s.SetExtrapolation(spline.ExtrapLinear, spline.ExtrapHeld, nil, nil)

	data, err := splineio.Encode(s, splineio.ValueTypeFloat64)
	require.NoError(t, err)

	decoded, tag, err := splineio.Decode(data, spline.Float64Ops{}, spline.NoopLogger)
	require.NoError(t, err)
	assert.Equal(t, splineio.ValueTypeFloat64, tag)

	assert.Equal(t, s.Len(), decoded.Len())
	left, right := decoded.Extrapolation()
	assert.Equal(t, spline.ExtrapLinear, left)
	assert.Equal(t, spline.ExtrapHeld, right)

	for _, tm := range []float64{-5, 0, 5, 10, 15} {
		want, ok := s.EvalValue(tm, spline.Right)
		require.True(t, ok)
		got, ok := decoded.EvalValue(tm, spline.Right)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestEncodeDecodePreservesDualKnotAndTangents(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)

	k0 := spline.NewKnot(ops, 0, 0.0, spline.KnotBezier)
	k0.SetRightTangentSlope(1, spline.NoopLogger)
	k0.SetRightTangentLength(3.33, spline.NoopLogger)
	s.InsertKnot(k0)

	dual := spline.NewDualKnot(ops, 10, 5.0, 7.0, spline.KnotLinear)
	s.InsertKnot(dual)

	data, err := splineio.Encode(s, splineio.ValueTypeFloat64)
	require.NoError(t, err)

	decoded, _, err := splineio.Decode(data, ops, spline.NoopLogger)
	require.NoError(t, err)

	dk, ok := decoded.KnotAt(10)
	require.True(t, ok)
	assert.True(t, dk.IsDual())
	assert.Equal(t, 5.0, dk.LeftValue())
	assert.Equal(t, 7.0, dk.RightValue())

	zk, ok := decoded.KnotAt(0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, zk.RightTangentSlope(), 1e-9)
	assert.InDelta(t, 3.33, zk.RightTangentLength(), 1e-9)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := splineio.Decode([]byte("not cbor"), spline.Float64Ops{}, spline.NoopLogger)
	assert.Error(t, err)
}
