package intensity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/histogram"
)

func TestSincMatchesDirectEvaluationAwayFromOrigin(t *testing.T) {
	got := sinc(2.5)
	want := math.Sin(2.5) / 2.5
	assert.InDelta(t, want, got, 1e-12)
}

func TestSincHandlesZeroWithoutNaN(t *testing.T) {
	got := sinc(0)
	assert.InDelta(t, 1.0, got, 1e-9)
	assert.False(t, math.IsNaN(got))
}

func TestSincTableMemoizesDefaultAxes(t *testing.T) {
	ResetDefaultTable()
	q := QAxis{Values: []float64{0.01, 0.05, 0.1}}
	d := []float64{0.5, 1.5, 2.5}

	t1 := NewSincTable(q, d)
	t2 := NewSincTable(q, d)
	assert.Same(t, t1, t2, "identical default axes must reuse the shared table")
}

func TestSincTableLookupMatchesDirectSinc(t *testing.T) {
	ResetDefaultTable()
	q := QAxis{Values: []float64{0.0, 0.2}}
	d := []float64{1.0, 2.0}
	table := NewSincTable(q, d)
	assert.InDelta(t, sinc(0.2*2.0), table.Lookup(1, 1), 1e-12)
}

func TestDefaultExvFactorAtCxOneIsIdentity(t *testing.T) {
	m := ExvModel{Kind: ExvModelDefault, R0: 1.5}
	assert.InDelta(t, 1.0, m.Factor(0.1, 1.0), 1e-12)
}

func TestPlainCompositeEvaluatesWithoutPanicking(t *testing.T) {
	axis := histogram.Axis{BinWidth: 0.5, Bins: 10}
	total := histogram.NewDistribution1D(axis)
	total.AddIndex(2, 4.0)
	ps := &histogram.PartialSet{AA1D: total, Total: total}

	ff := NewFormFactorTable()
	exv := ExvModel{Kind: ExvModelDefault, R0: 1.5}
	ResetDefaultTable()
	comp := NewCompositeHistogram(ps, axis, QAxis{Values: []float64{0.01, 0.1, 0.2}}, ff, exv)

	out := comp.Evaluate(DefaultParameters())
	require.Len(t, out, 3)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestEnabledFitParametersCountAndNames(t *testing.T) {
	e := EnabledFitParameters{Cw: true, Bx: true}
	assert.Equal(t, 2, e.Count())
	assert.Equal(t, []string{"c_w", "B_x"}, e.ActiveNames())
	assert.True(t, e.RequiresExv())
}
