package fit

import (
	"math"

	"github.com/pkg/errors"

	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
)

// SmartFitter orchestrates the full fitting pipeline: an optional 1-D
// hydration-only pre-fit to get c_w close before the full nonlinear search
// starts, then an outer strategy that varies the active parameters while
// an inner closed-form least-squares layer absorbs the overall scale and
// offset at every trial point.
type SmartFitter struct {
	Composite *intensity.CompositeHistogram
	Data      Dataset
	Active    intensity.EnabledFitParameters
	Strategy  OuterStrategy
	// Fixed holds the values held for any parameter not in Active; zero
	// value uses intensity.DefaultParameters().
	Fixed intensity.Parameters
}

// Run executes the pipeline and returns the converged fit.
func (f SmartFitter) Run() (FitResult, error) {
	if err := f.Data.Validate(); err != nil {
		return FitResult{}, errors.Wrap(err, "invalid dataset")
	}
	if f.Active.RequiresExv() && !f.compositeHasExv() {
		return FitResult{}, errors.New("active parameters require exv partials but the histogram variant carries none")
	}

	fixed := f.Fixed
	if fixed == (intensity.Parameters{}) {
		fixed = intensity.DefaultParameters()
	}

	names := f.Active.ActiveNames()
	bounds := f.boundsFor(names)

	x0 := make(Vector, len(names))
	for i, n := range names {
		x0[i] = startingValue(n, fixed)
	}

	if f.Active.Cw && len(names) > 1 {
		x0 = f.hydrationPreFit(names, bounds, fixed, x0)
	}

	objective := func(x Vector) float64 {
		p := paramsFromVector(names, x, fixed)
		model := f.Composite.Evaluate(p)
		if !allFinite(model) {
			return 1e30
		}
		inner := SolveInner(model, f.Data.I, f.Data.Sigma)
		if math.IsNaN(inner.Chi2) || math.IsInf(inner.Chi2, 0) {
			return 1e30
		}
		return inner.Chi2
	}

	strategy := f.Strategy
	if strategy == nil {
		strategy = LimitedScan{}
	}

	best, chi2, evaluated, converged := strategy.Minimize(objective, bounds, x0)

	finalParams := paramsFromVector(names, best, fixed)
	model := f.Composite.Evaluate(finalParams)
	inner := SolveInner(model, f.Data.I, f.Data.Sigma)

	return FitResult{
		Strategy:     strategy.Name(),
		ActiveNames:  names,
		ActiveValues: best,
		A:            inner.A,
		B:            inner.B,
		Chi2:         chi2,
		Evaluated:    evaluated,
		Converged:    converged,
	}, nil
}

func (f SmartFitter) compositeHasExv() bool {
	// A variant with no exv partials evaluates identically regardless of
	// c_x/c_rho/B_x, so probing two distinct c_x values and checking for a
	// difference is a cheap way to detect exv support without threading a
	// variant-inspection API through CompositeHistogram.
	base := intensity.DefaultParameters()
	probe := base
	probe.Cx = 1.2
	probe.Crho = 1.05
	probe.Bx = 2
	a := f.Composite.Evaluate(base)
	b := f.Composite.Evaluate(probe)
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// hydrationPreFit runs a quick 1-D search over c_w alone (holding every
// other active parameter at its starting value) and substitutes the
// result into x0's c_w slot before the full nonlinear search begins.
func (f SmartFitter) hydrationPreFit(names []string, bounds []intensity.Bounds, fixed intensity.Parameters, x0 Vector) Vector {
	cwIdx := -1
	for i, n := range names {
		if n == "c_w" {
			cwIdx = i
			break
		}
	}
	if cwIdx < 0 {
		return x0
	}

	obj1D := func(x Vector) float64 {
		full := append(Vector{}, x0...)
		full[cwIdx] = x[0]
		p := paramsFromVector(names, full, fixed)
		model := f.Composite.Evaluate(p)
		if !allFinite(model) {
			return 1e30
		}
		inner := SolveInner(model, f.Data.I, f.Data.Sigma)
		if math.IsNaN(inner.Chi2) || math.IsInf(inner.Chi2, 0) {
			return 1e30
		}
		return inner.Chi2
	}

	best, _, _, _ := GridScan{PointsPerDim: 25}.Minimize(obj1D, []intensity.Bounds{bounds[cwIdx]}, Vector{x0[cwIdx]})
	out := append(Vector{}, x0...)
	out[cwIdx] = best[0]
	return out
}

func (f SmartFitter) boundsFor(names []string) []intensity.Bounds {
	bounds := make([]intensity.Bounds, len(names))
	for i, n := range names {
		switch n {
		case "c_w":
			bounds[i] = intensity.BoundsCw
		case "c_x":
			bounds[i] = intensity.BoundsCx
		case "c_rho":
			bounds[i] = intensity.BoundsCrho
		case "B_a":
			bounds[i] = intensity.BoundsBa
		case "B_x":
			bounds[i] = intensity.BoundsBx
		}
	}
	return bounds
}

func startingValue(name string, fixed intensity.Parameters) float64 {
	switch name {
	case "c_w":
		return fixed.Cw
	case "c_x":
		return fixed.Cx
	case "c_rho":
		return fixed.Crho
	case "B_a":
		return fixed.Ba
	case "B_x":
		return fixed.Bx
	}
	return 0
}

func paramsFromVector(names []string, x Vector, fixed intensity.Parameters) intensity.Parameters {
	p := fixed
	if p == (intensity.Parameters{}) {
		p = intensity.DefaultParameters()
	}
	for i, n := range names {
		switch n {
		case "c_w":
			p.Cw = x[i]
		case "c_x":
			p.Cx = x[i]
		case "c_rho":
			p.Crho = x[i]
		case "B_a":
			p.Ba = x[i]
		case "B_x":
			p.Bx = x[i]
		}
	}
	return p
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
