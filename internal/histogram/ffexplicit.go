package histogram

import (
	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
)

// pairClassAcc accumulates into a 3D (class1, class2, d) distribution,
// resolving both sides' form-factor classes explicitly.
type pairClassAcc struct {
	dist *Distribution3D
}

func newPairClassAcc(ax kernel.Axis) *pairClassAcc {
	return &pairClassAcc{dist: NewDistribution3D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins}, atoms.NumFormFactorClasses)}
}

func (a *pairClassAcc) accumulateWindow(k kernel.Kernel, ca, cb *atoms.CompactCoordinates, i, j int, ax kernel.Axis, mult float64) {
	r := k.RoundedLane(ca, cb, i, j, ax)
	c1 := int(ca.Class[i])
	for lane := 0; lane < kernel.Lanes; lane++ {
		if r.Bins[lane] < 0 || r.Weight[lane] == 0 {
			continue
		}
		c2 := int(cb.Class[j+lane])
		w := mult * r.Weight[lane]
		// A same-class pair has no complementary off-diagonal slot for
		// Distribution3D.Get's x2 read-multiplier to recover the second
		// Debye-sum ordering from, so it must be doubled here instead;
		// a cross-class pair gets that doubling for free on read.
		if c1 == c2 {
			w *= 2
		}
		a.dist.AddIndex(c1, c2, r.Bins[lane], w)
	}
}

func (a *pairClassAcc) merge(other accumulator) {
	a.dist.MergeFrom(other.(*pairClassAcc).dist)
}

// ffExplicitManager produces a full 3D (class1, class2, d) atom-atom
// PDDF, plus a 2D atom-water and 1D water-water partial. The same engine
// serves the grid-based and grid-surface variants: a caller that has
// generated excluded-volume dummy atoms (tagged atoms.ClassEXV or
// atoms.ClassEXVSurface, interior vs. surface per the grid's line-probe
// classification) and added them to the molecule's bodies gets ax/xx/wx
// partials "for free", since they are just more class
// dimensions of the same 3D distribution — no separate accumulation path
// is needed for the grid variants (see DESIGN.md).
type ffExplicitManager struct{ baseManager }

func (m *ffExplicitManager) Calculate(mol *atoms.Molecule) *Distribution1D {
	return m.CalculateAll(mol).Total
}

func (m *ffExplicitManager) CalculateAll(mol *atoms.Molecule) *PartialSet {
	solute, waters := partition(mol, true)
	ax := m.axis()

	aa := NewDistribution3D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins}, atoms.NumFormFactorClasses)
	aw := NewDistribution2D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins}, atoms.NumFormFactorClasses)
	ww := NewDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})

	newPairClass := func() accumulator { return newPairClassAcc(ax) }
	newClass := func() accumulator { return newClassAcc(ax) }
	newPlain := func() accumulator { return newPlainAcc(ax, false) }

	for p, cp := range solute {
		addSelfCorrelation3D(aa, cp)
		// pairClassAcc.accumulateWindow already applies the doubling a
		// same-class pair needs (no complementary off-diagonal slot);
		// cross-class pairs get it for free from Distribution3D.Get's
		// read-time x2, so no blanket scale(2) here.
		intra := runSelfPairs(m.pool, m.kernel, cp, ax, newPairClass).(*pairClassAcc)
		aa.MergeFrom(intra.dist)
		for q := p + 1; q < len(solute); q++ {
			r := runCrossPairs(m.pool, m.kernel, cp, solute[q], ax, newPairClass).(*pairClassAcc)
			aa.MergeFrom(r.dist)
		}
	}
	addSelfCorrelation1D(ww, waters)
	wwIntra := runSelfPairs(m.pool, m.kernel, waters, ax, newPlain).(*plainAcc)
	wwIntra.dist.scale(2)
	ww.MergeFrom(wwIntra.dist)
	for _, cp := range solute {
		r := runCrossPairs(m.pool, m.kernel, cp, waters, ax, newClass).(*classAcc)
		r.dist.scale(2)
		aw.MergeFrom(r.dist)
	}

	total := aa.Collapse()
	total.MergeFrom(aw.Collapse())
	total.MergeFrom(ww)

	return &PartialSet{AA3D: aa, AW2D: aw, WW1D: ww, Total: total, Sanity: total.Sanity(scattererCount(solute, waters))}
}

func (d *Distribution3D) scale(f float64) {
	for c1 := range d.weights {
		for c2 := range d.weights[c1] {
			for i := range d.weights[c1][c2] {
				d.weights[c1][c2][i] *= f
			}
		}
	}
}
