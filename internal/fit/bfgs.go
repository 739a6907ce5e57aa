package fit

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
)

// BoundedBFGS wraps gonum's quasi-Newton BFGS method with a quadratic
// penalty for points outside the parameter box, since gonum's optimize
// package has no native box-constraint support for BFGS — the penalty
// keeps the search admissible without needing a constrained solver.
type BoundedBFGS struct {
	MaxIterations int // default 200 if zero
}

func (b BoundedBFGS) Name() string { return "bounded-bfgs" }

func (b BoundedBFGS) Minimize(obj Objective, bounds []intensity.Bounds, x0 Vector) (Vector, float64, int, bool) {
	dims := len(bounds)
	if dims == 0 {
		return Vector{}, obj(Vector{}), 1, true
	}

	evaluated := 0
	penalized := func(x []float64) float64 {
		evaluated++
		v := Vector(x)
		penalty := 0.0
		for i, b := range bounds {
			if x[i] < b.Min {
				d := b.Min - x[i]
				penalty += 1e6 * d * d
			}
			if x[i] > b.Max {
				d := x[i] - b.Max
				penalty += 1e6 * d * d
			}
		}
		chi2 := obj(clampToBounds(v, bounds))
		if math.IsNaN(chi2) || math.IsInf(chi2, 0) {
			return 1e30
		}
		return chi2 + penalty
	}

	maxIter := b.MaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}

	problem := optimize.Problem{Func: penalized}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
	}
	result, err := optimize.Minimize(problem, append([]float64{}, x0...), settings, &optimize.BFGS{})
	if err != nil || result == nil {
		return clampToBounds(x0, bounds), penalized(x0), evaluated, false
	}

	best := clampToBounds(Vector(result.X), bounds)
	return best, obj(best), evaluated, result.Status == optimize.Success
}
