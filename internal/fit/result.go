package fit

// FitResult is the outcome SmartFitter reports once the outer optimizer
// converges (or exhausts its evaluation budget).
type FitResult struct {
	Strategy       string
	ActiveNames    []string
	ActiveValues   []float64
	A, B           float64 // inner linear layer's scale and offset
	Chi2           float64
	Evaluated      int
	Converged      bool
}

// ReducedChi2 normalizes Chi2 by the degrees of freedom: point count minus
// the number of free parameters (active nonlinear params plus the inner
// layer's scale and offset).
func (r FitResult) ReducedChi2(pointCount int) float64 {
	dof := pointCount - len(r.ActiveNames) - 2
	if dof <= 0 {
		return r.Chi2
	}
	return r.Chi2 / float64(dof)
}
