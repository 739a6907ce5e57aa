package histogram

import (
	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
)

// classAcc accumulates into a 2D (class, d) distribution, keyed on the
// form-factor class of the base atom (index i of ca) — the "one side
// known" resolution the FF-average variant trades for speed; the other
// side's per-class identity is folded away by the caller's effective
// (pre-averaged) form factor.
type classAcc struct {
	dist *Distribution2D
}

func newClassAcc(ax kernel.Axis) *classAcc {
	return &classAcc{dist: NewDistribution2D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins}, atoms.NumFormFactorClasses)}
}

func (a *classAcc) accumulateWindow(k kernel.Kernel, ca, cb *atoms.CompactCoordinates, i, j int, ax kernel.Axis, mult float64) {
	r := k.RoundedLane(ca, cb, i, j, ax)
	class := int(ca.Class[i])
	for lane := 0; lane < kernel.Lanes; lane++ {
		if r.Bins[lane] < 0 || r.Weight[lane] == 0 {
			continue
		}
		a.dist.AddIndex(class, r.Bins[lane], mult*r.Weight[lane])
	}
}

func (a *classAcc) merge(other accumulator) {
	a.dist.MergeFrom(other.(*classAcc).dist)
}

// ffAverageManager produces a 2D atom-atom PDDF (class x d), a 1D
// atom-water PDDF, and a 1D water-water PDDF — the "fastest physical
// model" variant, trading per-pair class resolution on one side for
// speed.
type ffAverageManager struct{ baseManager }

func (m *ffAverageManager) Calculate(mol *atoms.Molecule) *Distribution1D {
	return m.CalculateAll(mol).Total
}

func (m *ffAverageManager) CalculateAll(mol *atoms.Molecule) *PartialSet {
	solute, waters := partition(mol, true)
	ax := m.axis()

	aa := NewDistribution2D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins}, atoms.NumFormFactorClasses)
	aw := NewDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})
	ww := NewDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})

	newClass := func() accumulator { return newClassAcc(ax) }
	newPlain := func() accumulator { return newPlainAcc(ax, false) }

	for p, cp := range solute {
		addSelfCorrelation2D(aa, cp)
		intra := runSelfPairs(m.pool, m.kernel, cp, ax, newClass).(*classAcc)
		intra.dist.scale(2)
		aa.MergeFrom(intra.dist)
		for q := p + 1; q < len(solute); q++ {
			r := runCrossPairs(m.pool, m.kernel, cp, solute[q], ax, newClass).(*classAcc)
			r.dist.scale(2)
			aa.MergeFrom(r.dist)
		}
	}
	addSelfCorrelation1D(ww, waters)
	wwIntra := runSelfPairs(m.pool, m.kernel, waters, ax, newPlain).(*plainAcc)
	wwIntra.dist.scale(2)
	ww.MergeFrom(wwIntra.dist)
	for _, cp := range solute {
		r := runCrossPairs(m.pool, m.kernel, cp, waters, ax, newPlain).(*plainAcc)
		r.dist.scale(2)
		aw.MergeFrom(r.dist)
	}

	total := aa.Collapse()
	total.MergeFrom(aw)
	total.MergeFrom(ww)

	return &PartialSet{AA2D: aa, AW1D: aw, WW1D: ww, Total: total, Sanity: total.Sanity(scattererCount(solute, waters))}
}

func (d *Distribution2D) scale(f float64) {
	for c := range d.weights {
		for i := range d.weights[c] {
			d.weights[c][i] *= f
		}
	}
}
