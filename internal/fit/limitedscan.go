package fit

import "github.com/sarat-asymmetrica/saxscore/internal/intensity"

// LimitedScan walks each active parameter from its upper bound down to its
// lower bound in fixed steps, stopping early once the scan looks like it
// has passed the minimum and is climbing back uphill: after 70% of the
// budgeted evaluations for that dimension, it stops as soon as both the
// latest value and the 7-point trailing average exceed a limit (a
// multiplier of the best value seen so far) for 3 consecutive
// evaluations. Multiple active parameters are walked one at a time
// (coordinate descent), each pass reusing the best point found by the
// previous pass as its starting point.
type LimitedScan struct {
	MaxEvaluations int // per-dimension budget, default 150 if zero
	// LimitMultiplier multiplies the best value seen so far to set the
	// stop-condition threshold; default 2.0 if zero.
	LimitMultiplier float64
}

const (
	limitedScanMinFraction    = 0.70
	limitedScanTrailingWindow = 7
	limitedScanStallLimit     = 3
)

func (l LimitedScan) Name() string { return "limited-scan" }

func (l LimitedScan) Minimize(obj Objective, bounds []intensity.Bounds, x0 Vector) (Vector, float64, int, bool) {
	dims := len(bounds)
	if dims == 0 {
		return Vector{}, obj(Vector{}), 1, true
	}

	maxEval := l.MaxEvaluations
	if maxEval <= 0 {
		maxEval = 150
	}
	multiplier := l.LimitMultiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	best := clampToBounds(append(Vector{}, x0...), bounds)
	bestChi2 := obj(best)
	totalEvaluated := 1
	converged := false

	for d := 0; d < dims; d++ {
		b := bounds[d]
		if b.Max <= b.Min {
			continue
		}
		currentMin := bestChi2
		trailing := make([]float64, 0, limitedScanTrailingWindow)
		stalls := 0
		step := (b.Max - b.Min) / float64(maxEval)

		evaluatedThisDim := 0
		for val := b.Max; val > b.Min; val -= step {
			trial := append(Vector{}, best...)
			trial[d] = val
			fval := obj(trial)
			totalEvaluated++
			evaluatedThisDim++

			if fval < currentMin {
				currentMin = fval
			}
			if fval < bestChi2 {
				bestChi2 = fval
				copy(best, trial)
			}

			trailing = append(trailing, fval)
			if len(trailing) > limitedScanTrailingWindow {
				trailing = trailing[1:]
			}
			avg := trailingAverage(trailing)

			if float64(evaluatedThisDim) > float64(maxEval)*limitedScanMinFraction {
				stopCondition := func(v float64) bool { return currentMin*multiplier < v }
				if stopCondition(avg) && stopCondition(fval) {
					stalls++
					if stalls == limitedScanStallLimit {
						converged = true
						break
					}
				} else {
					stalls = 0
				}
			}
		}
	}

	return best, bestChi2, totalEvaluated, converged
}

func trailingAverage(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
