// Package histogram implements the distance-histogram managers: the
// orchestration layer that drives internal/kernel's pairwise evaluation
// into complete pair-distance distribution functions (PDDFs) at several
// fidelity levels (plain, per-class, per-class-pair, grid-augmented).
package histogram

import "github.com/sarat-asymmetrica/saxscore/internal/atoms"

// entry mirrors the AUSAXS WeightedEntry/Entry pair: a count and a
// content sum, so a sparsely populated bin can fall back to its
// representative center instead of zero.
type entry struct {
	count   int
	content float64
}

func (e *entry) add(distance float64) {
	e.count++
	e.content += distance
}

// Axis describes the distance binning shared by every distribution in a
// single histogram calculation.
type Axis struct {
	BinWidth float64
	Bins     int
}

// Center returns the representative distance of bin i (the bin's
// midpoint), used as the unweighted fallback value.
func (ax Axis) Center(i int) float64 {
	return (float64(i) + 0.5) * ax.BinWidth
}

// Bin returns the bin index for d, or -1 if d falls outside the axis.
func (ax Axis) Bin(d float64) int {
	b := int(d / ax.BinWidth)
	if b < 0 || b >= ax.Bins {
		return -1
	}
	return b
}

// Distribution1D is the total PDDF: one bin count per distance.
type Distribution1D struct {
	axis    Axis
	weights []float64
}

// NewDistribution1D allocates a zeroed distribution over axis.
func NewDistribution1D(axis Axis) *Distribution1D {
	return &Distribution1D{axis: axis, weights: make([]float64, axis.Bins)}
}

func (d *Distribution1D) Axis() Axis { return d.axis }

// Add accumulates weight into the bin containing distance, unless the
// bin falls outside the axis (silently dropped, per the cutoff contract).
func (d *Distribution1D) Add(distance, weight float64) {
	i := d.axis.Bin(distance)
	if i < 0 {
		return
	}
	d.weights[i] += weight
}

// AddIndex accumulates weight directly into bin i, skipping the bin
// lookup — used by the kernel-fed hot path, which has already computed i.
func (d *Distribution1D) AddIndex(i int, weight float64) {
	if i < 0 || i >= len(d.weights) {
		return
	}
	d.weights[i] += weight
}

// Values returns the raw per-bin weights.
func (d *Distribution1D) Values() []float64 { return d.weights }

// MergeFrom adds another distribution's bins into this one, bin for
// bin. Used to merge thread-local tile accumulators under the barrier.
func (d *Distribution1D) MergeFrom(other *Distribution1D) {
	for i, v := range other.weights {
		d.weights[i] += v
	}
}

// Distribution2D indexes by (form-factor class, distance bin).
type Distribution2D struct {
	axis    Axis
	classes int
	weights [][]float64
}

func NewDistribution2D(axis Axis, classes int) *Distribution2D {
	w := make([][]float64, classes)
	for c := range w {
		w[c] = make([]float64, axis.Bins)
	}
	return &Distribution2D{axis: axis, classes: classes, weights: w}
}

func (d *Distribution2D) Axis() Axis { return d.axis }

func (d *Distribution2D) Add(class int, distance, weight float64) {
	i := d.axis.Bin(distance)
	if i < 0 {
		return
	}
	d.weights[class][i] += weight
}

func (d *Distribution2D) AddIndex(class, i int, weight float64) {
	if i < 0 || i >= d.axis.Bins {
		return
	}
	d.weights[class][i] += weight
}

// Row returns the 1D slice for a single form-factor class.
func (d *Distribution2D) Row(class int) []float64 { return d.weights[class] }

func (d *Distribution2D) MergeFrom(other *Distribution2D) {
	for c := range d.weights {
		for i, v := range other.weights[c] {
			d.weights[c][i] += v
		}
	}
}

// Collapse sums every class row into a single 1D distribution (used when
// a lower-fidelity consumer only wants the total PDDF).
func (d *Distribution2D) Collapse() *Distribution1D {
	out := NewDistribution1D(d.axis)
	for c := range d.weights {
		for i, v := range d.weights[c] {
			out.weights[i] += v
		}
	}
	return out
}

// Distribution3D indexes by (class1, class2, distance bin). Per the
// symmetric-pair invariant, only the unordered pair (c1 <= c2) is ever
// populated. Get applies the x2 for an off-diagonal pair; code reading the
// raw weights directly must apply it itself.
type Distribution3D struct {
	axis    Axis
	classes int
	weights [][][]float64
}

func NewDistribution3D(axis Axis, classes int) *Distribution3D {
	w := make([][][]float64, classes)
	for c1 := range w {
		w[c1] = make([][]float64, classes)
		for c2 := range w[c1] {
			w[c1][c2] = make([]float64, axis.Bins)
		}
	}
	return &Distribution3D{axis: axis, classes: classes, weights: w}
}

func (d *Distribution3D) Axis() Axis { return d.axis }

// Add accumulates into the unordered pair (c1,c2): the pair is stored
// under whichever of (c1,c2)/(c2,c1) has the smaller first index.
func (d *Distribution3D) Add(c1, c2 int, distance, weight float64) {
	i := d.axis.Bin(distance)
	if i < 0 {
		return
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	d.weights[c1][c2][i] += weight
}

func (d *Distribution3D) AddIndex(c1, c2, i int, weight float64) {
	if i < 0 || i >= d.axis.Bins {
		return
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	d.weights[c1][c2][i] += weight
}

// Get reads the unordered-pair bin value, applying the x2 multiplier for
// off-diagonal class pairs since only one triangle of the class matrix is
// stored.
func (d *Distribution3D) Get(c1, c2, i int) float64 {
	mult := 1.0
	if c1 != c2 {
		mult = 2.0
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return mult * d.weights[c1][c2][i]
}

func (d *Distribution3D) MergeFrom(other *Distribution3D) {
	for c1 := range d.weights {
		for c2 := range d.weights[c1] {
			for i, v := range other.weights[c1][c2] {
				d.weights[c1][c2][i] += v
			}
		}
	}
}

// Collapse sums every (c1,c2) pair (respecting the x2 off-diagonal rule)
// into a single total PDDF.
func (d *Distribution3D) Collapse() *Distribution1D {
	out := NewDistribution1D(d.axis)
	for c1 := 0; c1 < d.classes; c1++ {
		for c2 := c1; c2 < d.classes; c2++ {
			mult := 1.0
			if c1 != c2 {
				mult = 2.0
			}
			for i, v := range d.weights[c1][c2] {
				out.weights[i] += mult * v
			}
		}
	}
	return out
}

// WeightedDistribution1D additionally tracks, per bin, the sum of raw
// distances contributing to it, so sparse bins can report a bin-weighted
// center instead of the geometric bin center.
type WeightedDistribution1D struct {
	axis    Axis
	entries []entry
}

func NewWeightedDistribution1D(axis Axis) *WeightedDistribution1D {
	return &WeightedDistribution1D{axis: axis, entries: make([]entry, axis.Bins)}
}

func (d *WeightedDistribution1D) Axis() Axis { return d.axis }

// AddWeighted records both the contributing distance (for the weighted
// axis) and the scattering weight (for the plain bin sum) in one call.
func (d *WeightedDistribution1D) AddWeighted(plain *Distribution1D, distance, weight float64) {
	i := d.axis.Bin(distance)
	if i < 0 {
		return
	}
	d.entries[i].add(distance)
	plain.weights[i] += weight
}

func (d *WeightedDistribution1D) MergeFrom(other *WeightedDistribution1D) {
	for i := range d.entries {
		d.entries[i].count += other.entries[i].count
		d.entries[i].content += other.entries[i].content
	}
}

// WeightedBins returns, for every bin, the distance value to use in the
// Debye transform: the mean of contributing distances if the bin has any
// contributions, or the unweighted bin center otherwise. Bin 0 is always
// forced to zero (self-correlation).
func (d *WeightedDistribution1D) WeightedBins() []float64 {
	out := make([]float64, d.axis.Bins)
	for i, e := range d.entries {
		if e.count == 0 {
			out[i] = d.axis.Center(i)
			continue
		}
		out[i] = e.content / float64(e.count)
	}
	if len(out) > 0 {
		out[0] = 0
	}
	return out
}

// classCount is the fixed enumeration size distributions over classes
// allocate by default, mirroring atoms.NumFormFactorClasses.
var classCount = atoms.NumFormFactorClasses

// sanityPerAtomCeiling is a generous upper bound on a single atom's
// squared scattering weight (covers sulfur's effective electron count of
// ~16, 16^2=256, with headroom for exv pseudo-atoms' own weighting). Used
// as the per-atom budget a PDDF's bin-0 content is checked against.
const sanityPerAtomCeiling = 1024.0

// SanityReport is a coherence smoke test against a PDDF's bin-0
// population, grounded on the same "implausible self-overlap" idea as a
// folded-protein clash detector: bin 0 should only ever accumulate
// self-correlation terms, one per contributing scatterer, so its content
// is bounded by atomCount*sanityPerAtomCeiling under any physically
// sensible weighting. A report that comes back Implausible usually means
// duplicated or coincident atoms rather than a real structure.
type SanityReport struct {
	Bin0Content float64
	AtomCount   int
	Implausible bool
}

// Sanity runs the bin-0 coherence check against atomCount, the number of
// scatterers (solute + hydration + exv) that fed this distribution.
func (d *Distribution1D) Sanity(atomCount int) SanityReport {
	var bin0 float64
	if len(d.weights) > 0 {
		bin0 = d.weights[0]
	}
	return SanityReport{
		Bin0Content: bin0,
		AtomCount:   atomCount,
		Implausible: bin0 > float64(atomCount)*sanityPerAtomCeiling,
	}
}
