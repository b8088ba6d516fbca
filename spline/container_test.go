package spline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanim/splinecore/spline"
)

func buildContainer(times ...float64) *spline.Container[float64] {
	var c spline.Container[float64]
	ops := spline.Float64Ops{}
	for _, t := range times {
		c.Insert(spline.NewKnot(ops, t, t, spline.KnotLinear))
	}
	return &c
}

func TestContainerInsertKeepsAscendingOrder(t *testing.T) {
	c := buildContainer(5, 1, 3, 2, 4)
	require.Equal(t, 5, c.Len())
	for i := 0; i < c.Len(); i++ {
		assert.Equal(t, float64(i+1), c.At(i).Time())
	}
}

func TestContainerInsertReplacesSameTime(t *testing.T) {
	c := buildContainer(1, 2, 3)
	ops := spline.Float64Ops{}
	c.Insert(spline.NewKnot(ops, 2, 99, spline.KnotLinear))
	require.Equal(t, 3, c.Len())
	k, ok := c.Find(2)
	require.True(t, ok)
	assert.Equal(t, 99.0, k.RightValue())
}

func TestContainerEraseRemovesByTime(t *testing.T) {
	c := buildContainer(1, 2, 3)
	c.Erase(2)
	require.Equal(t, 2, c.Len())
	_, ok := c.Find(2)
	assert.False(t, ok)
}

func TestContainerLowerAndUpperBound(t *testing.T) {
	c := buildContainer(1, 3, 5, 7, 9)
	assert.Equal(t, 2, c.LowerBound(5))
	assert.Equal(t, 3, c.UpperBound(5))
	assert.Equal(t, 0, c.LowerBound(0))
	assert.Equal(t, 5, c.LowerBound(100))
	assert.Equal(t, 0, c.UpperBound(0))
}

func TestContainerBoundsAgreeWithLinearScanAcrossSizes(t *testing.T) {
	// Regression guard for the interpolation-search fast path: it must
	// agree with a naive linear scan regardless of spacing or query
	// position, since it falls back to binary search on a sub-range.
	times := []float64{-10, -1, 0, 0.5, 1, 2, 2.5, 10, 100, 1000}
	c := buildContainer(times...)

	linearLowerBound := func(t float64) int {
		for i, tm := range times {
			if tm >= t {
				return i
			}
		}
		return len(times)
	}
	linearUpperBound := func(t float64) int {
		for i, tm := range times {
			if tm > t {
				return i
			}
		}
		return len(times)
	}

	queries := []float64{-100, -10, -5, -1, -0.5, 0, 0.25, 0.5, 1, 1.5, 2, 2.5, 5, 10, 50, 100, 500, 1000, 5000}
	for _, q := range queries {
		assert.Equal(t, linearLowerBound(q), c.LowerBound(q), "LowerBound(%v)", q)
		assert.Equal(t, linearUpperBound(q), c.UpperBound(q), "UpperBound(%v)", q)
	}
}

func TestContainerEraseKnotByIdentity(t *testing.T) {
	c := buildContainer(1, 2, 3)
	k := c.At(1)
	c.EraseKnot(k)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, 1.0, c.At(0).Time())
	assert.Equal(t, 3.0, c.At(1).Time())
}
