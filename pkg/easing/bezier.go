package easing

import (
	"fmt"
	"math"
)

const (
	newtonIterations = 8
	bisectIterations = 24
	solveEpsilon     = 1e-7
)

// Bezier is a CSS cubic-bezier() timing function with control points
// (X1, Y1) and (X2, Y2). The curve starts at (0,0) and ends at (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// CubicBezier returns a cubic-bezier curve. X1 and X2 are clamped to [0, 1]
// so that x(u) is monotonic and every progress value has one solution.
func CubicBezier(x1, y1, x2, y2 float64) Bezier {
	return Bezier{X1: clampUnit(x1), Y1: y1, X2: clampUnit(x2), Y2: y2}
}

// Evaluate implements Curve.
func (b Bezier) Evaluate(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return sampleCurve(b.Y1, b.Y2, b.solve(t))
}

// solve finds the curve parameter u whose x coordinate is x. Newton-Raphson
// converges in a few steps for most curves; flat regions fall back to
// bisection, which always stays in [0, 1].
func (b Bezier) solve(x float64) float64 {
	u := x
	for range newtonIterations {
		dx := sampleCurve(b.X1, b.X2, u) - x
		if math.Abs(dx) < solveEpsilon {
			return u
		}
		slope := sampleCurveDerivative(b.X1, b.X2, u)
		if math.Abs(slope) < solveEpsilon {
			break
		}
		u -= dx / slope
		if u < 0 || u > 1 {
			break
		}
	}

	lo, hi := 0.0, 1.0
	u = x
	for range bisectIterations {
		dx := sampleCurve(b.X1, b.X2, u) - x
		if math.Abs(dx) < solveEpsilon {
			break
		}
		if dx > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}
	return u
}

func (b Bezier) String() string {
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", b.X1, b.Y1, b.X2, b.Y2)
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
