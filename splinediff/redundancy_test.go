package splinediff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsanim/splinecore/spline"
	"github.com/tsanim/splinecore/splinediff"
)

func TestIsKnotRedundantFlatMiddleKnotIsRedundant(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotLinear))
	mid := spline.NewKnot(ops, 5, 1.0, spline.KnotLinear)
	s.InsertKnot(mid)
	s.InsertKnot(spline.NewKnot(ops, 10, 1.0, spline.KnotLinear))

	assert.True(t, splinediff.IsKnotRedundant(s, mid, nil, nil))
}

func TestIsKnotRedundantValueChangeIsNotRedundant(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotLinear))
	mid := spline.NewKnot(ops, 5, 2.0, spline.KnotLinear)
	s.InsertKnot(mid)
	s.InsertKnot(spline.NewKnot(ops, 10, 1.0, spline.KnotLinear))

	assert.False(t, splinediff.IsKnotRedundant(s, mid, nil, nil))
}

func TestIsKnotRedundantDualKnotWithDifferingSidesIsNotRedundant(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotLinear))
	dual := spline.NewDualKnot(ops, 5, 1.0, 9.0, spline.KnotLinear)
	s.InsertKnot(dual)
	s.InsertKnot(spline.NewKnot(ops, 10, 1.0, spline.KnotLinear))

	assert.False(t, splinediff.IsKnotRedundant(s, dual, nil, nil))
}

func TestIsKnotRedundantSoleKnotComparesAgainstDefaultValue(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	only := spline.NewKnot(ops, 0, 3.0, spline.KnotLinear)
	s.InsertKnot(only)

	def := 3.0
	assert.True(t, splinediff.IsKnotRedundant(s, only, nil, &def))

	other := 4.0
	assert.False(t, splinediff.IsKnotRedundant(s, only, nil, &other))
}

func TestIsKnotRedundantProtoIntervalEdgeIsProtected(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	edge := spline.NewKnot(ops, 0, 1.0, spline.KnotLinear)
	s.InsertKnot(edge)
	s.InsertKnot(spline.NewKnot(ops, 10, 1.0, spline.KnotLinear))

	loop := spline.LoopParams{ProtoStart: 0, ProtoEnd: 10}
	assert.False(t, splinediff.IsKnotRedundant(s, edge, &loop, nil),
		"the prototype interval's first knot must never be pruned even when flat")
}

func TestIsKnotRedundantHeldRunCollapses(t *testing.T) {
	ops := spline.Float64Ops{}
	s := spline.New[float64](ops, spline.NoopLogger)
	s.InsertKnot(spline.NewKnot(ops, 0, 1.0, spline.KnotHeld))
	mid := spline.NewKnot(ops, 5, 1.0, spline.KnotHeld)
	s.InsertKnot(mid)
	s.InsertKnot(spline.NewKnot(ops, 10, 2.0, spline.KnotHeld))

	assert.True(t, splinediff.IsKnotRedundant(s, mid, nil, nil))
}
