package histogram

import (
	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
	"github.com/sarat-asymmetrica/saxscore/internal/threadpool"
)

// JobSize is the default row-block tile width used to partition the outer
// loop across the thread pool.
const JobSize = 512

// accumulator is the shape every variant-specific worker implements: given
// a base atom index i and a window of candidates j..j+kernel.Lanes-1, fold
// the kernel result into whatever distribution(s) this variant tracks.
type accumulator interface {
	// accumulateWindow folds one kernel window of base atom i of `a`
	// against candidates j..j+7 of `b`; runSelfPairs passes the same set
	// twice, runCrossPairs two different sets.
	accumulateWindow(k kernel.Kernel, a, b *atoms.CompactCoordinates, i, j int, ax kernel.Axis, mult float64)
	merge(other accumulator)
}

// runSelfPairs computes all i<j pairs within a single coordinate set,
// tiling the outer loop across a thread pool and merging thread-local
// accumulators under a barrier. newAcc must return a fresh, independent
// accumulator per call.
func runSelfPairs(pool *threadpool.Pool, k kernel.Kernel, cc *atoms.CompactCoordinates, ax kernel.Axis, newAcc func() accumulator) accumulator {
	n := cc.Len
	if n == 0 {
		return newAcc()
	}
	workerAccs := make([]accumulator, pool.Workers())
	for i := range workerAccs {
		workerAccs[i] = newAcc()
	}

	pool.RunPairs(n, func(workerID, i int) {
		acc := workerAccs[workerID]
		j := i + 1
		for ; j+kernel.Lanes <= cc.PaddedLen(); j += kernel.Lanes {
			acc.accumulateWindow(k, cc, cc, i, j, ax, 1.0)
		}
		// tail handled one lane window starting at a position that may
		// dip into padding (zero-weight, harmless) or run past the end of
		// the arrays (the kernel reports those lanes as bin -1), to keep
		// the kernel's fixed 8-wide contract.
		if j < n {
			acc.accumulateWindow(k, cc, cc, i, j, ax, 1.0)
		}
	})

	merged := newAcc()
	for _, a := range workerAccs {
		merged.merge(a)
	}
	return merged
}

// addSelfCorrelation1D adds each atom's self-correlation (distance 0,
// weight w_i^2) into bin 0 — the pair-loops above only ever visit i<j or
// distinct coordinate sets, so self-correlation is always a separate,
// serial, O(n) pass.
func addSelfCorrelation1D(dist *Distribution1D, cc *atoms.CompactCoordinates) {
	for i := 0; i < cc.Len; i++ {
		dist.AddIndex(0, cc.W[i]*cc.W[i])
	}
}

func addSelfCorrelation2D(dist *Distribution2D, cc *atoms.CompactCoordinates) {
	for i := 0; i < cc.Len; i++ {
		dist.AddIndex(int(cc.Class[i]), 0, cc.W[i]*cc.W[i])
	}
}

func addSelfCorrelation3D(dist *Distribution3D, cc *atoms.CompactCoordinates) {
	for i := 0; i < cc.Len; i++ {
		c := int(cc.Class[i])
		dist.AddIndex(c, c, 0, cc.W[i]*cc.W[i])
	}
}

// runCrossPairs computes every (i from a) x (j from b) pair — used for
// cross-body and body-hydration partials, where no i<j triangular
// restriction applies.
func runCrossPairs(pool *threadpool.Pool, k kernel.Kernel, a, b *atoms.CompactCoordinates, ax kernel.Axis, newAcc func() accumulator) accumulator {
	if a.Len == 0 || b.Len == 0 {
		return newAcc()
	}
	workerAccs := make([]accumulator, pool.Workers())
	for i := range workerAccs {
		workerAccs[i] = newAcc()
	}

	pool.RunPairs(a.Len, func(workerID, i int) {
		acc := workerAccs[workerID]
		j := 0
		for ; j+kernel.Lanes <= b.PaddedLen(); j += kernel.Lanes {
			acc.accumulateWindow(k, a, b, i, j, ax, 1.0)
		}
		if j < b.Len {
			acc.accumulateWindow(k, a, b, i, j, ax, 1.0)
		}
	})

	merged := newAcc()
	for _, w := range workerAccs {
		merged.merge(w)
	}
	return merged
}
