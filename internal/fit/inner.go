package fit

import "gonum.org/v1/gonum/stat"

// InnerResult is the closed-form linear layer's output: the best-fit scale
// and offset for a fixed model curve, plus the resulting chi-squared.
type InnerResult struct {
	A, B float64
	Chi2 float64
}

// SolveInner finds (a, b) minimizing sum(((a*model+b-obs)/sigma)^2) via
// gonum's weighted linear regression — the two-parameter case has an exact
// analytic solution, which is exactly what stat.LinearRegression computes,
// so there's no need for a general-purpose nonlinear optimizer here.
func SolveInner(model, obs, sigma []float64) InnerResult {
	n := len(model)
	weights := make([]float64, n)
	for i, s := range sigma {
		weights[i] = 1 / (s * s)
	}

	b, a := stat.LinearRegression(model, obs, weights, false)

	var chi2 float64
	for i := 0; i < n; i++ {
		r := (a*model[i] + b - obs[i]) / sigma[i]
		chi2 += r * r
	}

	return InnerResult{A: a, B: b, Chi2: chi2}
}
