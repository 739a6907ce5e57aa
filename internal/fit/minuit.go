package fit

import (
	"sort"

	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
)

// Minuit is a simplified MINUIT-style minimizer: a bounded Nelder-Mead
// simplex search (standing in for MIGRAD's simplex-then-gradient
// strategy). It returns the best simplex vertex once the simplex has
// converged or the iteration budget is spent; there is no refinement
// pass after the simplex and no error estimate.
type Minuit struct {
	MaxIterations int // default 300 if zero
}

func (m Minuit) Name() string { return "minuit" }

const (
	minuitReflect  = 1.0
	minuitExpand   = 2.0
	minuitContract = 0.5
	minuitShrink   = 0.5
)

func (m Minuit) Minimize(obj Objective, bounds []intensity.Bounds, x0 Vector) (Vector, float64, int, bool) {
	dims := len(bounds)
	if dims == 0 {
		return Vector{}, obj(Vector{}), 1, true
	}

	maxIter := m.MaxIterations
	if maxIter <= 0 {
		maxIter = 300
	}

	evaluated := 0
	eval := func(x Vector) float64 {
		evaluated++
		return obj(clampToBounds(x, bounds))
	}

	// initial simplex: x0 plus one perturbed vertex per dimension.
	simplex := make([]Vector, dims+1)
	fvals := make([]float64, dims+1)
	simplex[0] = clampToBounds(x0, bounds)
	fvals[0] = eval(simplex[0])
	for i := 0; i < dims; i++ {
		v := append(Vector{}, simplex[0]...)
		span := bounds[i].Max - bounds[i].Min
		step := span * 0.1
		if step == 0 {
			step = 0.05
		}
		v[i] += step
		v = clampToBounds(v, bounds)
		simplex[i+1] = v
		fvals[i+1] = eval(v)
	}

	order := make([]int, dims+1)
	sortSimplex := func() {
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return fvals[order[a]] < fvals[order[b]] })
		newSimplex := make([]Vector, dims+1)
		newFvals := make([]float64, dims+1)
		for i, o := range order {
			newSimplex[i] = simplex[o]
			newFvals[i] = fvals[o]
		}
		simplex, fvals = newSimplex, newFvals
	}

	centroid := func(excludeIdx int) Vector {
		c := make(Vector, dims)
		for i, v := range simplex {
			if i == excludeIdx {
				continue
			}
			for d := 0; d < dims; d++ {
				c[d] += v[d]
			}
		}
		for d := 0; d < dims; d++ {
			c[d] /= float64(dims)
		}
		return c
	}

	converged := false
	for iter := 0; iter < maxIter && evaluated < maxIter*4; iter++ {
		sortSimplex()
		worst := dims
		best := fvals[0]
		worstF := fvals[worst]

		spread := worstF - best
		if spread < 1e-10 {
			converged = true
			break
		}

		c := centroid(worst)
		reflected := make(Vector, dims)
		for d := 0; d < dims; d++ {
			reflected[d] = c[d] + minuitReflect*(c[d]-simplex[worst][d])
		}
		reflected = clampToBounds(reflected, bounds)
		fReflected := eval(reflected)

		switch {
		case fReflected < fvals[0]:
			expanded := make(Vector, dims)
			for d := 0; d < dims; d++ {
				expanded[d] = c[d] + minuitExpand*(reflected[d]-c[d])
			}
			expanded = clampToBounds(expanded, bounds)
			fExpanded := eval(expanded)
			if fExpanded < fReflected {
				simplex[worst], fvals[worst] = expanded, fExpanded
			} else {
				simplex[worst], fvals[worst] = reflected, fReflected
			}
		case fReflected < fvals[dims-1]:
			simplex[worst], fvals[worst] = reflected, fReflected
		default:
			contracted := make(Vector, dims)
			for d := 0; d < dims; d++ {
				contracted[d] = c[d] + minuitContract*(simplex[worst][d]-c[d])
			}
			contracted = clampToBounds(contracted, bounds)
			fContracted := eval(contracted)
			if fContracted < worstF {
				simplex[worst], fvals[worst] = contracted, fContracted
			} else {
				for i := 1; i <= dims; i++ {
					for d := 0; d < dims; d++ {
						simplex[i][d] = simplex[0][d] + minuitShrink*(simplex[i][d]-simplex[0][d])
					}
					simplex[i] = clampToBounds(simplex[i], bounds)
					fvals[i] = eval(simplex[i])
				}
			}
		}
	}

	sortSimplex()
	return simplex[0], fvals[0], evaluated, converged
}
