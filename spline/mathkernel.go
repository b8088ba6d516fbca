package spline

import "math"

// This file is the math kernel (spec §4.1): polynomial evaluation in
// power-basis form, quadratic root solving, and cubic inversion on an
// interval via Newton's method with a regula falsi fallback. All of it
// operates on plain float64 — it is used both for the time axis (always
// float64) and, via the segment builder, reused verbatim for value axes
// of KindFull types.

// newtonEpsilon and falsiEpsilon bound solveCubicInInterval's two solve
// phases (spec §4.1).
const (
	newtonEpsilon = 1e-5
	falsiEpsilon  = 1e-6
	maxIterations = 20
)

// evalCubic evaluates c0 + c1*u + c2*u^2 + c3*u^3 via Horner's form.
func evalCubic(c [4]float64, u float64) float64 {
	return ((c[3]*u+c[2])*u+c[1])*u + c[0]
}

// evalQuadratic evaluates c0 + c1*u + c2*u^2 via Horner's form.
func evalQuadratic(c [3]float64, u float64) float64 {
	return (c[2]*u+c[1])*u + c[0]
}

// evalCubicDerivative evaluates d/du of evalCubic(c, u).
func evalCubicDerivative(c [4]float64, u float64) float64 {
	return (3*c[3]*u+2*c[2])*u + c[1]
}

// cubicDerivative maps a cubic's power-basis coefficients to its
// derivative's (quadratic) coefficients.
func cubicDerivative(c [4]float64) [3]float64 {
	return [3]float64{c[1], 2 * c[2], 3 * c[3]}
}

// solveQuadratic finds the real roots of p[0] + p[1]*u + p[2]*u^2, with
// root0 <= root1. Degenerate cases: a linear equation (p[2]==0, p[1]!=0)
// returns its single root as both root0 and root1; a constant (p[2]==0 &&
// p[1]==0) has no roots.
func solveQuadratic(p [3]float64) (root0, root1 float64, ok bool) {
	a, b, c := p[2], p[1], p[0]
	if a == 0 {
		if b == 0 {
			return 0, 0, false
		}
		r := -c / b
		return r, r, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	r0 := (-b - sq) / (2 * a)
	r1 := (-b + sq) / (2 * a)
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	return r0, r1, true
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// solveCubic inverts the cubic c(u) = y on u in [0,1]. When the cubic is
// monotone over [0,1] this is a single bracketed solve. When its
// derivative has two real roots in (0,1) the cubic "doubles back": a
// bracketing sub-interval is chosen per spec §4.1 by comparing y against
// the midpoint of the (clamped) values at the two derivative roots.
//
// The comparison at the midpoint is an exact tie on y == tmid; per spec
// §9's Open Questions this tie is broken arbitrarily in favor of the
// higher interval [r1, 1], matching the reference behavior being ported.
func solveCubic(c [4]float64, y float64) float64 {
	d := cubicDerivative(c)
	r0, r1, ok := solveQuadratic(d)
	if !ok || r0 <= 0 || r1 >= 1 || r0 >= r1 {
		return solveCubicInInterval(c, y, 0, 1)
	}

	c0, c1 := evalCubic(c, 0), evalCubic(c, 1)
	cr0 := clampFloat(evalCubic(c, r0), math.Min(c0, c1), math.Max(c0, c1))
	cr1 := clampFloat(evalCubic(c, r1), math.Min(c0, c1), math.Max(c0, c1))

	if cr0 >= cr1 {
		return solveCubicInInterval(c, y, r0, r1)
	}
	tmid := (cr0 + cr1) / 2
	if y < tmid {
		return solveCubicInInterval(c, y, 0, r0)
	}
	// y >= tmid, including the exact-tie case: prefer the high interval.
	return solveCubicInInterval(c, y, r1, 1)
}

// solveCubicInInterval inverts c(u) = y on [lo, hi] via Newton's method
// started at the midpoint; if a Newton step would escape [lo, hi], it
// falls back to regula falsi bisection for up to maxIterations steps.
// Returns -1 if [lo, hi] does not bracket a root (the "no solution" signal
// callers treat as such per spec §4.1).
func solveCubicInInterval(c [4]float64, y, lo, hi float64) float64 {
	flo := evalCubic(c, lo) - y
	fhi := evalCubic(c, hi) - y
	if (flo > 0 && fhi > 0) || (flo < 0 && fhi < 0) {
		return -1
	}

	u := (lo + hi) / 2
	newtonOK := true
	for i := 0; i < maxIterations; i++ {
		fu := evalCubic(c, u) - y
		if math.Abs(fu) < newtonEpsilon {
			return u
		}
		dfu := evalCubicDerivative(c, u)
		if dfu == 0 {
			newtonOK = false
			break
		}
		next := u - fu/dfu
		if next < lo || next > hi {
			newtonOK = false
			break
		}
		u = next
	}
	if newtonOK {
		return u
	}

	a, b := lo, hi
	fa, fb := flo, fhi
	u = (a + b) / 2
	for i := 0; i < maxIterations; i++ {
		if fb-fa == 0 {
			break
		}
		u = a - fa*(b-a)/(fb-fa)
		fu := evalCubic(c, u) - y
		if math.Abs(fu) < falsiEpsilon {
			return u
		}
		if (fu > 0) == (fa > 0) {
			a, fa = u, fu
		} else {
			b, fb = u, fu
		}
	}
	return u
}
