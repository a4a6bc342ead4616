package engine

import (
	"fmt"
	"math"
)

// CubicBezier is a CSS timing function with endpoints fixed at (0,0) and
// (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// SnapEasing is the curve used when the stack snaps to a quarter turn.
var SnapEasing = CubicBezier{X1: 0.25, Y1: 0.1, X2: 0.0, Y2: 1.0}

// At returns the eased progress for linear progress x in [0, 1].
func (c CubicBezier) At(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return sampleCurve(c.Y1, c.Y2, c.solveT(x))
}

// solveT finds the curve parameter whose x coordinate is x. Newton first,
// bisection when the slope is too flat to trust.
func (c CubicBezier) solveT(x float64) float64 {
	const epsilon = 1e-7

	t := x
	for i := 0; i < 8; i++ {
		dx := sampleCurve(c.X1, c.X2, t) - x
		if math.Abs(dx) < epsilon {
			return t
		}
		d := sampleDerivative(c.X1, c.X2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= dx / d
	}

	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 64 && lo < hi; i++ {
		v := sampleCurve(c.X1, c.X2, t)
		if math.Abs(v-x) < epsilon {
			return t
		}
		if x > v {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}

// String renders the curve in CSS syntax.
func (c CubicBezier) String() string {
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", c.X1, c.Y1, c.X2, c.Y2)
}

// sampleCurve evaluates one coordinate of the bezier with control values
// p1, p2 at parameter t.
func sampleCurve(p1, p2, t float64) float64 {
	a := 1 - 3*p2 + 3*p1
	b := 3*p2 - 6*p1
	c := 3 * p1
	return ((a*t+b)*t + c) * t
}

func sampleDerivative(p1, p2, t float64) float64 {
	a := 1 - 3*p2 + 3*p1
	b := 3*p2 - 6*p1
	c := 3 * p1
	return (3*a*t+2*b)*t + c
}
