// Package intensity implements the Debye transform, form-factor tables,
// excluded-volume scaling models, and the composite histogram that ties
// them together into a tunable I(q) profile for fitting.
package intensity

import (
	"math"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/histogram"
)

// CompositeHistogram holds a molecule's partial PDDFs (as produced by a
// histogram.Manager) plus the form-factor table and exv model needed to
// evaluate I(q) at a trial parameter vector. The sinc(q*d) table is
// invalidated only when the underlying PDDF changes (atoms moved); the
// per-parameter intensity values are cheap enough to recompute on every
// trial that no separate invalidation bookkeeping is kept for them.
type CompositeHistogram struct {
	partials *histogram.PartialSet
	axis     histogram.Axis
	ff       *FormFactorTable
	exv      ExvModel

	dAxis []float64 // representative distance per bin: weighted if the variant tracks it, else bin centers
	sinc  *SincTable
	qAxis QAxis
}

// NewCompositeHistogram builds a composite from a freshly computed partial
// set. partials.WeightedAxis may be nil (falls back to geometric bin centers).
func NewCompositeHistogram(partials *histogram.PartialSet, axis histogram.Axis, q QAxis, ff *FormFactorTable, exv ExvModel) *CompositeHistogram {
	d := partials.WeightedAxis
	if d == nil {
		d = make([]float64, axis.Bins)
		for i := range d {
			d[i] = (float64(i) + 0.5) * axis.BinWidth
		}
	}
	return &CompositeHistogram{
		partials: partials,
		axis:     axis,
		ff:       ff,
		exv:      exv,
		dAxis:    d,
		sinc:     NewSincTable(q, d),
		qAxis:    q,
	}
}

// Evaluate computes I(q) over the composite's q-axis for a trial parameter
// vector. Non-finite partial sums cannot occur here (they would require a
// non-finite PDDF, i.e. a corrupted histogram); callers one layer up (the
// fitter) are responsible for guarding against non-finite model values
// arising from pathological parameter choices.
func (c *CompositeHistogram) Evaluate(p Parameters) []float64 {
	out := make([]float64, len(c.qAxis.Values))
	for qi, q := range c.qAxis.Values {
		out[qi] = c.evaluateAt(qi, q, p)
	}
	return out
}

func (c *CompositeHistogram) evaluateAt(qi int, q float64, p Parameters) float64 {
	var sum float64

	sincAt := func(di int) float64 {
		if di < c.sinc.SizeD() && qi < c.sinc.SizeQ() {
			return c.sinc.Lookup(qi, di)
		}
		v, _ := c.sinc.LookupValue(q, c.dAxis[di])
		return v
	}

	ba := DebyeWaller(p.Ba, q)
	bx := DebyeWaller(p.Bx, q)

	switch {
	case c.partials.AA3D != nil:
		n := atoms.NumFormFactorClasses
		for c1 := 0; c1 < n; c1++ {
			for c2 := c1; c2 < n; c2++ {
				ff1 := c.ff.At(atoms.FormFactorClass(c1), q)
				ff2 := c.ff.At(atoms.FormFactorClass(c2), q)
				damp, scale := c.pairScale(atoms.FormFactorClass(c1), atoms.FormFactorClass(c2), q, p, ba, bx)
				for d := 0; d < c.axis.Bins; d++ {
					// Get already applies the x2 for an off-diagonal pair.
					v := c.partials.AA3D.Get(c1, c2, d)
					if v == 0 {
						continue
					}
					sum += v * sincAt(d) * ff1 * ff2 * damp * scale
				}
			}
		}
		if c.partials.AW2D != nil {
			for cl := 0; cl < n; cl++ {
				ffA := c.ff.At(atoms.FormFactorClass(cl), q)
				ffW := c.ff.At(atoms.ClassWaterO, q)
				for d := 0; d < c.axis.Bins; d++ {
					v := c.partials.AW2D.Row(cl)[d]
					if v == 0 {
						continue
					}
					// AW2D already holds both orderings (the manager doubles it).
					sum += v * sincAt(d) * ffA * ffW * p.Cw * ba
				}
			}
		}
		if c.partials.WW1D != nil {
			ffW := c.ff.At(atoms.ClassWaterO, q)
			for d, v := range c.partials.WW1D.Values() {
				if v == 0 {
					continue
				}
				sum += v * sincAt(d) * ffW * ffW * p.Cw * p.Cw
			}
		}
	case c.partials.AA2D != nil:
		ffW := c.ff.At(atoms.ClassWaterO, q)
		for cl := 0; cl < atoms.NumFormFactorClasses; cl++ {
			ffA := c.ff.At(atoms.FormFactorClass(cl), q)
			for d, v := range c.partials.AA2D.Row(cl) {
				if v == 0 {
					continue
				}
				sum += v * sincAt(d) * ffA * ffA * ba
			}
		}
		if c.partials.AW1D != nil {
			for d, v := range c.partials.AW1D.Values() {
				if v == 0 {
					continue
				}
				sum += v * sincAt(d) * ffW * p.Cw * ba
			}
		}
		if c.partials.WW1D != nil {
			for d, v := range c.partials.WW1D.Values() {
				if v == 0 {
					continue
				}
				sum += v * sincAt(d) * ffW * ffW * p.Cw * p.Cw
			}
		}
	default:
		for d, v := range c.partials.AA1D.Values() {
			if v == 0 {
				continue
			}
			sum += v * sincAt(d) * ba
		}
	}
	return sum
}

// surfaceContrast scales down a surface exv point's contribution relative
// to an interior one: a surface pseudo-atom's excluded volume is only
// partly displaced (it borders bulk solvent on one side), so it carries
// less of the solvent-density contrast than an interior point. Applied
// once per surface class involved in a pair, so an interior-surface pair
// is damped once and a surface-surface pair is damped twice.
const surfaceContrast = 0.5

// pairScale folds in the exv model's multiplicative factor and solvent
// density scale when either side of a class pair is an excluded-volume
// pseudo-class, and applies the atomic/exv Debye-Waller damping otherwise.
// Grid-surface's interior/surface split (see grid.EnumerateExvScatterers)
// only changes behavior here: a pair involving ClassEXVSurface gets an
// extra surfaceContrast factor per surface side, on top of the
// form-factor table's own interior/surface coefficient difference.
func (c *CompositeHistogram) pairScale(c1, c2 atoms.FormFactorClass, q float64, p Parameters, ba, bx float64) (damp, scale float64) {
	exv1, exv2 := c1.IsExcludedVolume(), c2.IsExcludedVolume()
	f := c.exv.Factor(q, p.Cx)
	surfaceFactor := 1.0
	if c1 == atoms.ClassEXVSurface {
		surfaceFactor *= surfaceContrast
	}
	if c2 == atoms.ClassEXVSurface {
		surfaceFactor *= surfaceContrast
	}
	switch {
	case exv1 && exv2:
		return bx, f * p.Crho * p.Crho * surfaceFactor
	case exv1 || exv2:
		return math.Sqrt(ba * bx), f * p.Crho * surfaceFactor
	default:
		return ba, 1
	}
}

// WeightedAxis exposes the bin-representative distances this composite's
// Debye transform uses (weighted means or geometric centers).
func (c *CompositeHistogram) WeightedAxis() []float64 { return c.dAxis }
