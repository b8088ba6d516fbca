package splinediff

import "github.com/tsanim/splinecore/spline"

// IsKnotRedundant reports whether k can be removed from s without
// changing its evaluated behavior (spec §4.8). loop, if non-nil, is
// consulted to protect the first/last knot of an inner-loop prototype
// interval; defaultValue, if non-nil, is used when k has neither a
// predecessor nor a successor.
func IsKnotRedundant[T any](s *spline.Spline[T], k *spline.Knot[T], loop *spline.LoopParams, defaultValue *T) bool {
	ops := s.Ops()

	if k.IsDual() && !ops.Equal(k.LeftValue(), k.RightValue()) {
		return false
	}

	if loop != nil && loop.ProtoEnd > loop.ProtoStart {
		first, last, found := protoIntervalEdges(s, *loop)
		if found && (k.Time() == first || k.Time() == last) {
			return false
		}
	}

	pred, succ := neighbors(s, k)

	switch {
	case pred != nil && succ != nil:
		if k.Type() == spline.KnotHeld && pred.EffectiveType() == spline.KnotHeld && ops.Equal(pred.RightValue(), k.RightValue()) {
			return true
		}
		return flatSegment(ops, pred, k) && flatSegment(ops, k, succ)
	case succ != nil:
		return flatSegment(ops, k, succ)
	case pred != nil:
		return flatSegment(ops, pred, k)
	default:
		return defaultValue != nil && ops.Equal(k.RightValue(), *defaultValue)
	}
}

// neighbors returns k's immediate predecessor and successor by time
// within s, or nil if none exists on that side.
func neighbors[T any](s *spline.Spline[T], k *spline.Knot[T]) (pred, succ *spline.Knot[T]) {
	knots := s.Knots()
	for i, existing := range knots {
		if existing == k {
			if i > 0 {
				pred = knots[i-1]
			}
			if i+1 < len(knots) {
				succ = knots[i+1]
			}
			return pred, succ
		}
	}
	return nil, nil
}

// protoIntervalEdges returns the times of the first and last knot lying
// within [loop.ProtoStart, loop.ProtoEnd), and whether any such knot
// exists.
func protoIntervalEdges[T any](s *spline.Spline[T], loop spline.LoopParams) (first, last float64, found bool) {
	for _, k := range s.Knots() {
		t := k.Time()
		if t < loop.ProtoStart || t >= loop.ProtoEnd {
			continue
		}
		if !found {
			first, last = t, t
			found = true
			continue
		}
		if t < first {
			first = t
		}
		if t > last {
			last = t
		}
	}
	return first, last, found
}
