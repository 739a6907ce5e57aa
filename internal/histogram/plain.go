package histogram

import (
	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
)

// plainAcc accumulates into a single 1D distribution, optionally tracking
// bin-weighted distances alongside it.
type plainAcc struct {
	dist     *Distribution1D
	weighted *WeightedDistribution1D
}

func newPlainAcc(ax kernel.Axis, trackWeighted bool) *plainAcc {
	d1 := NewDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})
	a := &plainAcc{dist: d1}
	if trackWeighted {
		a.weighted = NewWeightedDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})
	}
	return a
}

func (a *plainAcc) accumulateWindow(k kernel.Kernel, ca, cb *atoms.CompactCoordinates, i, j int, ax kernel.Axis, mult float64) {
	if a.weighted != nil {
		r := k.WeightedLane(ca, cb, i, j, ax)
		for lane := 0; lane < kernel.Lanes; lane++ {
			if r.Bins[lane] < 0 || r.Weight[lane] == 0 {
				continue
			}
			a.dist.AddIndex(r.Bins[lane], mult*r.Weight[lane])
			a.weighted.entries[r.Bins[lane]].add(r.Dist[lane])
		}
		return
	}
	r := k.RoundedLane(ca, cb, i, j, ax)
	for lane := 0; lane < kernel.Lanes; lane++ {
		if r.Bins[lane] < 0 || r.Weight[lane] == 0 {
			continue
		}
		a.dist.AddIndex(r.Bins[lane], mult*r.Weight[lane])
	}
}

func (a *plainAcc) merge(other accumulator) {
	o := other.(*plainAcc)
	a.dist.MergeFrom(o.dist)
	if a.weighted != nil && o.weighted != nil {
		a.weighted.MergeFrom(o.weighted)
	}
}

// plainManager produces only the total 1D PDDF, collapsing all atoms
// (solute and hydration alike) into a single distance distribution.
type plainManager struct{ baseManager }

func (m *plainManager) Calculate(mol *atoms.Molecule) *Distribution1D {
	return m.CalculateAll(mol).Total
}

func (m *plainManager) CalculateAll(mol *atoms.Molecule) *PartialSet {
	solute, waters := partition(mol, false)
	ax := m.axis()

	total := NewDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})
	var weightedAxis *WeightedDistribution1D
	if m.variant.WeightedBins {
		weightedAxis = NewWeightedDistribution1D(Axis{BinWidth: ax.BinWidth, Bins: ax.Bins})
	}

	newAcc := func() accumulator { return newPlainAcc(ax, m.variant.WeightedBins) }

	accumulateInto := func(acc *plainAcc) {
		total.MergeFrom(acc.dist)
		if weightedAxis != nil && acc.weighted != nil {
			weightedAxis.MergeFrom(acc.weighted)
		}
	}

	// self-correlation + intra-copy/cross-copy pairs within and across
	// each symmetry-expanded solute copy.
	for p, cp := range solute {
		addSelfCorrelation1D(total, cp)
		// intra-copy pairs: runSelfPairs visits each unordered i<j pair
		// once, but the full symmetric sum counts both (i,j) and (j,i).
		intra := runSelfPairs(m.pool, m.kernel, cp, ax, newAcc).(*plainAcc)
		intra.dist.scale(2)
		if intra.weighted != nil {
			intra.weighted.scaleCount(2)
		}
		accumulateInto(intra)
		for q := p + 1; q < len(solute); q++ {
			r := runCrossPairs(m.pool, m.kernel, cp, solute[q], ax, newAcc).(*plainAcc)
			// cross terms between distinct bodies/copies are counted once
			// per unordered pair but contribute to both i->j and j->i, so
			// the PDDF must double them to match a full N^2 accumulation.
			r.dist.scale(2)
			if r.weighted != nil {
				r.weighted.scaleCount(2)
			}
			accumulateInto(r)
		}
	}
	// hydration self-correlation
	addSelfCorrelation1D(total, waters)
	wwIntra := runSelfPairs(m.pool, m.kernel, waters, ax, newAcc).(*plainAcc)
	wwIntra.dist.scale(2)
	if wwIntra.weighted != nil {
		wwIntra.weighted.scaleCount(2)
	}
	accumulateInto(wwIntra)
	for _, cp := range solute {
		r := runCrossPairs(m.pool, m.kernel, cp, waters, ax, newAcc).(*plainAcc)
		r.dist.scale(2)
		if r.weighted != nil {
			r.weighted.scaleCount(2)
		}
		accumulateInto(r)
	}

	out := &PartialSet{AA1D: total, Total: total, Sanity: total.Sanity(scattererCount(solute, waters))}
	if weightedAxis != nil {
		out.WeightedAxis = weightedAxis.WeightedBins()
	}
	return out
}

func (d *Distribution1D) scale(f float64) {
	for i := range d.weights {
		d.weights[i] *= f
	}
}

// scaleCount scales both the count and the content sum, matching how the
// doubled weight should appear in a bin-weighted mean: the mean distance is
// unaffected by doubling count and content together, so scaling is a
// no-op for WeightedBins() output but kept explicit for clarity at call
// sites that assume symmetric doubling.
func (w *WeightedDistribution1D) scaleCount(f float64) {
	for i := range w.entries {
		w.entries[i].count = int(float64(w.entries[i].count) * f)
		w.entries[i].content *= f
	}
}
