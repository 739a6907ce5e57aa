package fit

import "github.com/sarat-asymmetrica/saxscore/internal/intensity"

// GridScan evaluates the objective on a uniform grid over every active
// parameter's bounds and returns the best point found — the simplest and
// most exhaustive (and most expensive) outer strategy, useful as a
// sanity-check baseline against the gradient-based strategies.
type GridScan struct {
	PointsPerDim int // default 10 if zero
}

func (g GridScan) Name() string { return "grid-scan" }

func (g GridScan) Minimize(obj Objective, bounds []intensity.Bounds, x0 Vector) (Vector, float64, int, bool) {
	n := g.PointsPerDim
	if n <= 0 {
		n = 10
	}
	dims := len(bounds)
	if dims == 0 {
		return Vector{}, obj(Vector{}), 1, true
	}

	idx := make([]int, dims)
	best := make(Vector, dims)
	bestChi2 := 0.0
	haveBest := false
	evaluated := 0

	var recurse func(d int)
	recurse = func(d int) {
		if d == dims {
			x := make(Vector, dims)
			for i, b := range bounds {
				if n == 1 {
					x[i] = (b.Min + b.Max) / 2
					continue
				}
				step := (b.Max - b.Min) / float64(n-1)
				x[i] = b.Min + step*float64(idx[i])
			}
			chi2 := obj(x)
			evaluated++
			if !haveBest || chi2 < bestChi2 {
				bestChi2 = chi2
				copy(best, x)
				haveBest = true
			}
			return
		}
		for i := 0; i < n; i++ {
			idx[d] = i
			recurse(d + 1)
		}
	}
	recurse(0)

	return best, bestChi2, evaluated, true
}
