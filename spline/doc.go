// Package spline implements a time-varying scalar animation spline: an
// ordered set of knots keyed by time, each carrying per-side values and
// tangents, evaluated as piecewise cubic Bezier segments in (time, value)
// space with held/linear extrapolation beyond the authored range.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - [Knot]: a (time, value, tangent) record with held/linear/Bezier behavior
//   - [Container]: the ordered, unique-by-time sequence of knots a spline owns
//   - [Spline]: the knot container plus extrapolation and inner-loop settings
//   - [Evaluator]: a cached, read-only view of a Spline for repeated queries
//
// Value types are a closed, generic set (see [ValueOps] and [Kind]): f32/f64
// support full tangent authoring; fixed vector/matrix types interpolate
// linearly without tangents; unit quaternions interpolate by slerp with a
// zero derivative; bool/int/string/token values are always held.
//
// # Quick start
//
//	ops := spline.Float64Ops{}
//	s := spline.New[float64](ops, spline.NoopLogger)
//	s.InsertKnot(spline.NewKnot(ops, 0, 0.0, spline.KnotLinear))
//	s.InsertKnot(spline.NewKnot(ops, 10, 10.0, spline.KnotLinear))
//	v, ok := s.EvalValue(5, spline.Right)
//
// Downstream packages build on this core: splinediff computes changed
// intervals, redundancy, and breakdown; splineio persists splines to a
// binary record layout.
package spline
