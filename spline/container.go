package spline

import "sort"

// Container is the ordered, unique-by-time sequence of knots a Spline
// owns (spec §4.2). It exclusively owns its Knot records; callers reach
// other components (segment caches, evaluators) by index or by knot
// pointer, never by mutating the container out from under them.
type Container[T any] struct {
	knots []*Knot[T]
}

// Len returns the number of knots.
func (c *Container[T]) Len() int { return len(c.knots) }

// At returns the knot at index i (0 <= i < Len).
func (c *Container[T]) At(i int) *Knot[T] { return c.knots[i] }

// All returns the knots in ascending time order. The returned slice must
// not be mutated by the caller.
func (c *Container[T]) All() []*Knot[T] { return c.knots }

// Insert adds k in time order, unique by time: if a knot already exists at
// k.Time(), it is replaced.
func (c *Container[T]) Insert(k *Knot[T]) {
	i := sort.Search(len(c.knots), func(i int) bool { return c.knots[i].time >= k.time })
	if i < len(c.knots) && c.knots[i].time == k.time {
		c.knots[i] = k
		return
	}
	c.knots = append(c.knots, nil)
	copy(c.knots[i+1:], c.knots[i:])
	c.knots[i] = k
}

// Erase removes the knot at time t, if any.
func (c *Container[T]) Erase(t float64) {
	i, ok := c.findIndex(t)
	if !ok {
		return
	}
	c.knots = append(c.knots[:i], c.knots[i+1:]...)
}

// EraseKnot removes k by identity, if it is present.
func (c *Container[T]) EraseKnot(k *Knot[T]) {
	for i, existing := range c.knots {
		if existing == k {
			c.knots = append(c.knots[:i], c.knots[i+1:]...)
			return
		}
	}
}

// Find returns the knot at exactly time t, if any.
func (c *Container[T]) Find(t float64) (*Knot[T], bool) {
	i, ok := c.findIndex(t)
	if !ok {
		return nil, false
	}
	return c.knots[i], true
}

// LowerBound returns the index of the first knot with time >= t, and
// Len() if none (the strict predecessor is index-1).
func (c *Container[T]) LowerBound(t float64) int {
	return c.interpolationSearch(t, func(knotTime float64) bool { return knotTime >= t })
}

// UpperBound returns the index of the first knot with time > t, and Len()
// if none.
func (c *Container[T]) UpperBound(t float64) int {
	return c.interpolationSearch(t, func(knotTime float64) bool { return knotTime > t })
}

func (c *Container[T]) findIndex(t float64) (int, bool) {
	i := c.LowerBound(t)
	if i < len(c.knots) && c.knots[i].time == t {
		return i, true
	}
	return 0, false
}

// maxWalkSteps bounds the linear probe around the interpolation-search
// guess before falling back to binary search (spec §4.2).
const maxWalkSteps = 3

// interpolationSearch implements spec §4.2's interpolation-guided lookup:
// it guesses an index assuming near-uniform time spacing, walks a few
// steps from the guess, and falls back to binary search on the remaining
// sub-range. predicate(knotTime) must be monotone (false*, then true*)
// across the container, matching sort.Search's contract.
func (c *Container[T]) interpolationSearch(t float64, predicate func(float64) bool) int {
	n := len(c.knots)
	if n == 0 {
		return 0
	}
	first := c.knots[0].time
	last := c.knots[n-1].time
	lo, hi := 0, n

	if last > first {
		frac := (t - first) / (last - first)
		g := int(frac * float64(n))
		if g < 0 {
			g = 0
		}
		if g > n-1 {
			g = n - 1
		}

		if predicate(c.knots[g].time) {
			// The boundary is at or before g: walk backward.
			i := g
			steps := 0
			for i > 0 && predicate(c.knots[i-1].time) && steps < maxWalkSteps {
				i--
				steps++
			}
			if i == 0 || !predicate(c.knots[i-1].time) {
				return i
			}
			hi = i
		} else {
			// The boundary is after g: walk forward.
			i := g
			steps := 0
			for i < n && !predicate(c.knots[i].time) && steps < maxWalkSteps {
				i++
				steps++
			}
			if i == n || predicate(c.knots[i].time) {
				return i
			}
			lo = i
		}
	}

	return lo + sort.Search(hi-lo, func(i int) bool { return predicate(c.knots[lo+i].time) })
}
