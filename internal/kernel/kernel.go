// Package kernel implements the inner pairwise-distance evaluation used by
// every distance-histogram manager. The contract is fixed regardless of
// which CPU path executes it: given a base atom i and eight consecutive
// candidates j..j+7 from a (possibly identical) CompactCoordinates, return
// eight bin indices and eight weights. A "rounded" kernel returns only the
// bin index (for unweighted distributions); a "weighted" kernel also
// returns the raw distance so the caller can accumulate it for
// bin-weighted Debye transforms.
//
// Two implementations exist: a portable scalar fallback (this file) and an
// AVX2-aware widened path (kernel_amd64.go) gated at runtime by
// github.com/klauspost/cpuid/v2. Both must agree: 0 ULP for the rounded
// variant, <=2 ULP for the weighted variant (summation order differs).
package kernel

import (
	"math"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

// Lanes is the number of candidates a single kernel call evaluates.
const Lanes = 8

// Axis describes the binning scheme the kernel must honor: a fixed bin
// width and a bin count, beyond which distances are skipped entirely
// rather than clamped into an out-of-range bin.
type Axis struct {
	BinWidth float64
	Bins     int
}

// Bin returns the bin index for a distance, or -1 if it falls outside the
// axis's range. Bin 0 is reserved for self-correlation by convention of
// the caller (a zero distance always lands in bin 0 here, which is
// correct, but cross-pair callers are expected to never evaluate i==j).
func (ax Axis) Bin(d float64) int {
	b := int(d / ax.BinWidth)
	if b < 0 || b >= ax.Bins {
		return -1
	}
	return b
}

// Result8 holds the output of one 8-wide kernel call.
type Result8 struct {
	Bins   [Lanes]int
	Weight [Lanes]float64
	Dist   [Lanes]float64 // only populated by the weighted variant
}

// Kernel evaluates pairwise distances between one base coordinate set and
// candidates drawn from a second (possibly identical) set.
type Kernel interface {
	// RoundedLane evaluates base atom i of `a` against candidates j..j+7
	// of `b`, filling Bins and Weight (Dist left zero). A lane whose
	// index runs past the end of b's backing arrays reports bin -1.
	RoundedLane(a, b *atoms.CompactCoordinates, i, j int, ax Axis) Result8
	// WeightedLane does the same but also fills Dist.
	WeightedLane(a, b *atoms.CompactCoordinates, i, j int, ax Axis) Result8
	// Name identifies the active code path, for logging.
	Name() string
}

// Scalar is the portable fallback: one squared-distance evaluation per
// lane, no vector intrinsics. It is always correct and is the code path
// used on non-amd64 platforms or when the AVX2 feature check fails.
type Scalar struct{}

func (Scalar) Name() string { return "scalar" }

func (Scalar) RoundedLane(a, b *atoms.CompactCoordinates, i, j int, ax Axis) Result8 {
	return scalarLane(a, b, i, j, ax, false)
}

func (Scalar) WeightedLane(a, b *atoms.CompactCoordinates, i, j int, ax Axis) Result8 {
	return scalarLane(a, b, i, j, ax, true)
}

func scalarLane(a, b *atoms.CompactCoordinates, i, j int, ax Axis, weighted bool) Result8 {
	var r Result8
	xi, yi, zi, wi := a.X[i], a.Y[i], a.Z[i], a.W[i]
	for lane := 0; lane < Lanes; lane++ {
		jj := j + lane
		if jj >= len(b.X) {
			r.Bins[lane] = -1
			continue
		}
		dx := xi - b.X[jj]
		dy := yi - b.Y[jj]
		dz := zi - b.Z[jj]
		d2 := dx*dx + dy*dy + dz*dz
		d := math.Sqrt(d2)
		bin := ax.Bin(d)
		if bin < 0 {
			r.Bins[lane] = -1
			continue
		}
		r.Bins[lane] = bin
		r.Weight[lane] = wi * b.W[jj]
		if weighted {
			r.Dist[lane] = d
		}
	}
	return r
}

// Select returns the fastest Kernel implementation available on this
// process: AVX2 if the CPU supports it, the portable scalar kernel
// otherwise. The decision is made once per process; tests can construct
// Scalar{} directly to force the portable path.
func Select() Kernel {
	return selectPlatform()
}
