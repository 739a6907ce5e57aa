package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/histogram"
	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
)

func plainComposite() *intensity.CompositeHistogram {
	axis := histogram.Axis{BinWidth: 0.5, Bins: 10}
	total := histogram.NewDistribution1D(axis)
	total.AddIndex(2, 4.0)
	total.AddIndex(5, 1.5)
	ps := &histogram.PartialSet{AA1D: total, Total: total}

	ff := intensity.NewFormFactorTable()
	exv := intensity.ExvModel{Kind: intensity.ExvModelDefault, R0: 1.5}
	intensity.ResetDefaultTable()
	q := intensity.QAxis{Values: []float64{0.01, 0.05, 0.1, 0.15, 0.2}}
	return intensity.NewCompositeHistogram(ps, axis, q, ff, exv)
}

func syntheticDataset(comp *intensity.CompositeHistogram, a, b float64) Dataset {
	model := comp.Evaluate(intensity.DefaultParameters())
	q := make([]float64, len(model))
	obs := make([]float64, len(model))
	sigma := make([]float64, len(model))
	for i, v := range model {
		q[i] = float64(i)
		obs[i] = a*v + b
		sigma[i] = 1.0
	}
	return Dataset{Q: q, I: obs, Sigma: sigma}
}

func TestDatasetValidateRejectsMismatchedColumns(t *testing.T) {
	d := Dataset{Q: []float64{1, 2}, I: []float64{1}, Sigma: []float64{1, 1}}
	assert.Error(t, d.Validate())
}

func TestSolveInnerRecoversExactScaleAndOffset(t *testing.T) {
	model := []float64{1, 2, 3, 4}
	sigma := []float64{1, 1, 1, 1}
	obs := make([]float64, len(model))
	for i, v := range model {
		obs[i] = 2.5*v + 0.75
	}
	res := SolveInner(model, obs, sigma)
	assert.InDelta(t, 2.5, res.A, 1e-9)
	assert.InDelta(t, 0.75, res.B, 1e-9)
	assert.InDelta(t, 0, res.Chi2, 1e-9)
}

func TestGridScanFindsMinimumOfQuadratic(t *testing.T) {
	obj := func(x Vector) float64 { return (x[0]-1.3)*(x[0]-1.3) + 4 }
	bounds := []intensity.Bounds{{Min: 0, Max: 2}}
	best, chi2, evaluated, converged := GridScan{PointsPerDim: 50}.Minimize(obj, bounds, Vector{0})
	require.True(t, converged)
	assert.InDelta(t, 1.3, best[0], 0.05)
	assert.InDelta(t, 4.0, chi2, 0.01)
	assert.Greater(t, evaluated, 0)
}

func TestBoundedBFGSFindsMinimumOfQuadratic(t *testing.T) {
	obj := func(x Vector) float64 { return (x[0]-1.1)*(x[0]-1.1) + (x[1]+0.4)*(x[1]+0.4) }
	bounds := []intensity.Bounds{{Min: -2, Max: 2}, {Min: -2, Max: 2}}
	best, chi2, evaluated, _ := BoundedBFGS{}.Minimize(obj, bounds, Vector{0, 0})
	assert.InDelta(t, 1.1, best[0], 0.05)
	assert.InDelta(t, -0.4, best[1], 0.05)
	assert.Less(t, chi2, 0.01)
	assert.Greater(t, evaluated, 0)
}

func TestMinuitFindsMinimumOfQuadratic(t *testing.T) {
	obj := func(x Vector) float64 { return (x[0]-0.7)*(x[0]-0.7) }
	bounds := []intensity.Bounds{{Min: -1, Max: 1}}
	best, _, evaluated, _ := Minuit{}.Minimize(obj, bounds, Vector{0})
	assert.InDelta(t, 0.7, best[0], 0.05)
	assert.Greater(t, evaluated, 0)
}

func TestLimitedScanRespectsMinimumFractionBeforeStopping(t *testing.T) {
	obj := func(x Vector) float64 { return (x[0] - 0.5) * (x[0] - 0.5) }
	bounds := []intensity.Bounds{{Min: 0, Max: 1}}
	ls := LimitedScan{MaxEvaluations: 100}
	_, _, evaluated, _ := ls.Minimize(obj, bounds, Vector{0})
	assert.GreaterOrEqual(t, evaluated, int(float64(100)*limitedScanMinFraction))
}

func TestLimitedScanConverges(t *testing.T) {
	obj := func(x Vector) float64 { return (x[0]-0.42)*(x[0]-0.42) }
	bounds := []intensity.Bounds{{Min: 0, Max: 1}}
	best, _, _, converged := LimitedScan{MaxEvaluations: 200}.Minimize(obj, bounds, Vector{0})
	assert.True(t, converged)
	assert.InDelta(t, 0.42, best[0], 0.05)
}

func TestSmartFitterReachesZeroChi2WithOnlyHydrationActive(t *testing.T) {
	comp := plainComposite()
	data := syntheticDataset(comp, 1.0, 0.0)

	sf := SmartFitter{
		Composite: comp,
		Data:      data,
		Active:    intensity.EnabledFitParameters{Cw: true},
		Strategy:  GridScan{PointsPerDim: 30},
	}
	result, err := sf.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"c_w"}, result.ActiveNames)
	assert.Less(t, result.Chi2, 1e-6)
}

func TestSmartFitterWithNoActiveParamsStillSolvesInnerLayer(t *testing.T) {
	comp := plainComposite()
	data := syntheticDataset(comp, 3.0, 1.5)

	sf := SmartFitter{
		Composite: comp,
		Data:      data,
		Active:    intensity.EnabledFitParameters{},
		Strategy:  GridScan{},
	}
	result, err := sf.Run()
	require.NoError(t, err)
	assert.Empty(t, result.ActiveNames)
	assert.InDelta(t, 3.0, result.A, 1e-6)
	assert.InDelta(t, 1.5, result.B, 1e-6)
}

func TestSmartFitterFailsFastWhenExvRequestedWithoutExvPartials(t *testing.T) {
	comp := plainComposite()
	data := syntheticDataset(comp, 1.0, 0.0)

	sf := SmartFitter{
		Composite: comp,
		Data:      data,
		Active:    intensity.EnabledFitParameters{Cx: true},
		Strategy:  GridScan{},
	}
	_, err := sf.Run()
	assert.Error(t, err)
}

func TestSmartFitterRejectsInvalidDataset(t *testing.T) {
	comp := plainComposite()
	sf := SmartFitter{
		Composite: comp,
		Data:      Dataset{Q: []float64{1}, I: []float64{1, 2}, Sigma: []float64{1}},
		Active:    intensity.EnabledFitParameters{Cw: true},
		Strategy:  GridScan{},
	}
	_, err := sf.Run()
	assert.Error(t, err)
}

func TestFitResultReducedChi2(t *testing.T) {
	r := FitResult{ActiveNames: []string{"c_w"}, Chi2: 20}
	got := r.ReducedChi2(12)
	assert.InDelta(t, 20.0/9.0, got, 1e-9)
}

func TestFitResultReducedChi2FallsBackWhenDoFNonPositive(t *testing.T) {
	r := FitResult{ActiveNames: []string{"c_w", "c_x", "c_rho"}, Chi2: 5}
	got := r.ReducedChi2(4)
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestAllFiniteDetectsNaNAndInf(t *testing.T) {
	assert.True(t, allFinite([]float64{1, 2, 3}))
	assert.False(t, allFinite([]float64{1, math.NaN()}))
	assert.False(t, allFinite([]float64{1, math.Inf(1)}))
}
