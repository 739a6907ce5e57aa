package fit

import "github.com/sarat-asymmetrica/saxscore/internal/intensity"

// Vector is the outer optimizer's parameter vector, ordered per
// intensity.EnabledFitParameters.ActiveNames.
type Vector []float64

// Objective evaluates chi-squared (or a high penalty on non-finite model
// output) for a trial active-parameter vector.
type Objective func(Vector) float64

// OuterStrategy varies the active nonlinear parameters to minimize an
// Objective. Implementations: grid scan, bounded BFGS, a MINUIT-like
// minimizer, and a limited scan with early-stop-on-stall.
type OuterStrategy interface {
	Minimize(obj Objective, bounds []intensity.Bounds, x0 Vector) (best Vector, chi2 float64, evaluated int, converged bool)
	Name() string
}

// clampToBounds projects x into the box bounds componentwise, used by
// every strategy to keep trial points admissible.
func clampToBounds(x Vector, bounds []intensity.Bounds) Vector {
	out := make(Vector, len(x))
	for i, v := range x {
		b := bounds[i]
		if v < b.Min {
			v = b.Min
		}
		if v > b.Max {
			v = b.Max
		}
		out[i] = v
	}
	return out
}
