package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
	"github.com/sarat-asymmetrica/saxscore/internal/threadpool"
)

func twoAtomMolecule() *atoms.Molecule {
	body := atoms.NewBody(0, []atoms.Atom{
		{X: 0, Y: 0, Z: 0, Weight: 1, Class: atoms.ClassC},
		{X: 3, Y: 0, Z: 0, Weight: 1, Class: atoms.ClassN},
	})
	return atoms.NewMolecule([]*atoms.Body{body})
}

func testPool() *threadpool.Pool { return threadpool.New(2) }

func TestPlainManagerTotalPDDFSumsToExpectedPairs(t *testing.T) {
	mol := twoAtomMolecule()
	v := Variant{Axis: Axis{BinWidth: 0.5, Bins: 20}}
	m := NewManager(v, testPool(), kernel.Scalar{})

	total := m.Calculate(mol)
	var sum float64
	for _, w := range total.Values() {
		sum += w
	}
	// two self-correlations (bin 0, weight 1 each) + one cross pair counted
	// twice (i->j and j->i), weight 1*1 each = 2.
	assert.InDelta(t, 4.0, sum, 1e-9)
}

func TestPlainManagerCrossPairLandsInExpectedBin(t *testing.T) {
	mol := twoAtomMolecule()
	v := Variant{Axis: Axis{BinWidth: 0.5, Bins: 20}}
	m := NewManager(v, testPool(), kernel.Scalar{})

	total := m.Calculate(mol)
	// distance 3.0 with bin width 0.5 -> bin 6
	assert.InDelta(t, 2.0, total.Values()[6], 1e-9)
}

func TestFFAverageManagerAAClassRowsSumToTotal(t *testing.T) {
	mol := twoAtomMolecule()
	v := Variant{Axis: Axis{BinWidth: 0.5, Bins: 20}, Exv: ExvFFAverage}
	m := NewManager(v, testPool(), kernel.Scalar{})

	ps := m.CalculateAll(mol)
	require.NotNil(t, ps.AA2D)
	var fromRows float64
	for c := 0; c < atoms.NumFormFactorClasses; c++ {
		for _, w := range ps.AA2D.Row(c) {
			fromRows += w
		}
	}
	var fromTotal float64
	for _, w := range ps.Total.Values() {
		fromTotal += w
	}
	assert.InDelta(t, fromRows, fromTotal, 1e-9)
}

func TestFFExplicitManagerOffDiagonalDoubling(t *testing.T) {
	mol := twoAtomMolecule()
	v := Variant{Axis: Axis{BinWidth: 0.5, Bins: 20}, Exv: ExvFFExplicit}
	m := NewManager(v, testPool(), kernel.Scalar{})

	ps := m.CalculateAll(mol)
	require.NotNil(t, ps.AA3D)
	// (C,N) and (N,C) read as the same stored bin, x2'd by Get().
	cn := ps.AA3D.Get(int(atoms.ClassC), int(atoms.ClassN), 6)
	nc := ps.AA3D.Get(int(atoms.ClassN), int(atoms.ClassC), 6)
	assert.InDelta(t, cn, nc, 1e-12)
	assert.InDelta(t, 2.0, cn, 1e-9)
}

func TestWeightedDistributionDegradesToCenterWhenEmpty(t *testing.T) {
	wd := NewWeightedDistribution1D(Axis{BinWidth: 0.1, Bins: 10})
	bins := wd.WeightedBins()
	assert.InDelta(t, 0.0, bins[0], 1e-12)
	assert.InDelta(t, (float64(5)+0.5)*0.1, bins[5], 1e-12)
}

func TestWeightedDistributionUsesMeanWhenPopulated(t *testing.T) {
	wd := NewWeightedDistribution1D(Axis{BinWidth: 1.0, Bins: 10})
	wd.entries[3].add(3.1)
	wd.entries[3].add(3.3)
	bins := wd.WeightedBins()
	assert.InDelta(t, 3.2, bins[3], 1e-9)
}

func TestManagerVariantReportsExvStrategy(t *testing.T) {
	v := Variant{Axis: Axis{BinWidth: 0.5, Bins: 20}, Exv: ExvGridSurface}
	m := NewManager(v, testPool(), kernel.Scalar{})
	assert.Equal(t, "grid-surface", m.Variant().Exv.String())
}

func TestDistributionSanityPassesForOrdinaryMolecule(t *testing.T) {
	mol := twoAtomMolecule()
	v := Variant{Axis: Axis{BinWidth: 0.5, Bins: 20}}
	m := NewManager(v, testPool(), kernel.Scalar{})

	ps := m.CalculateAll(mol)
	assert.False(t, ps.Sanity.Implausible)
	assert.Equal(t, 2, ps.Sanity.AtomCount)
	assert.InDelta(t, 2.0, ps.Sanity.Bin0Content, 1e-9)
}

func TestDistributionSanityFlagsImplausibleBin0(t *testing.T) {
	d := NewDistribution1D(Axis{BinWidth: 0.5, Bins: 20})
	d.AddIndex(0, 1e9)

	report := d.Sanity(2)
	assert.True(t, report.Implausible)
	assert.Equal(t, 2, report.AtomCount)
}

func TestDistributionSanityRespectsPerAtomCeiling(t *testing.T) {
	d := NewDistribution1D(Axis{BinWidth: 0.5, Bins: 20})
	d.AddIndex(0, 10*sanityPerAtomCeiling)

	report := d.Sanity(20)
	assert.False(t, report.Implausible, "10 atoms' worth of ceiling mass spread over 20 atoms is still plausible")
}
