package cache

import (
	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/histogram"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
	"github.com/sarat-asymmetrica/saxscore/internal/threadpool"
)

// pairKey identifies an unordered body pair (i<j).
type pairKey struct{ i, j int }

// PartialHistogramCache decomposes a molecule's total PDDF into B
// self-partials, B(B-1)/2 cross-partials, B hydration-body partials, and a
// single hydration-hydration partial, recomputing only the subset a
// StateManager marks dirty. The rank carried by every partial matches the
// axis passed at construction; this cache operates at the 1D (plain) level
// only and holds no 2D/3D partials.
type PartialHistogramCache struct {
	axis   kernel.Axis
	pool   *threadpool.Pool
	kernel kernel.Kernel
	state  *StateManager

	selfPartials  []*histogram.Distribution1D
	crossPartials map[pairKey]*histogram.Distribution1D
	hydBody       []*histogram.Distribution1D
	hydHyd        *histogram.Distribution1D

	bodyCoords []*atoms.CompactCoordinates // last-packed solute coordinates, expanded-symmetry-flattened per body
	hydCoords  *atoms.CompactCoordinates
}

// NewPartialHistogramCache builds an (initially fully dirty) cache for a
// molecule with the given axis. Call Bind to attach the resulting
// signallers to the molecule's bodies and hydration layer, then
// Recalculate to populate every partial for the first time.
func NewPartialHistogramCache(axis kernel.Axis, pool *threadpool.Pool, k kernel.Kernel) *PartialHistogramCache {
	if pool == nil {
		pool = threadpool.New(0)
	}
	if k == nil {
		k = kernel.Select()
	}
	return &PartialHistogramCache{axis: axis, pool: pool, kernel: k, crossPartials: map[pairKey]*histogram.Distribution1D{}}
}

// Bind registers every body and the hydration layer of mol with a fresh
// StateManager sized to mol, and binds the resulting signallers so future
// mutations mark the right partials dirty.
func (c *PartialHistogramCache) Bind(mol *atoms.Molecule) {
	c.state = NewStateManager(len(mol.Bodies))
	for i, b := range mol.Bodies {
		b.Bind(c.state.SignallerFor(i))
	}
	mol.BindHydration(c.state.HydrationSignaller())
}

// State exposes the bound StateManager, primarily for tests and logging.
func (c *PartialHistogramCache) State() *StateManager { return c.state }

// Recalculate applies the invalidation rules from the dirty-flag state and
// rebuilds exactly the affected partials:
//   - body i internally modified: rebuild self(i), every cross(i,*), hyd-body(i)
//   - body i externally modified only: rebuild every cross(i,*), hyd-body(i)
//     (not self(i): rigid motion doesn't change intra-body distances)
//   - hydration modified: rebuild hyd-hyd and every hyd-body(*)
//
// After Recalculate returns, the composite total is identical (up to
// floating-point associativity) to a full recomputation from scratch.
func (c *PartialHistogramCache) Recalculate(mol *atoms.Molecule) {
	if !c.state.Modified() {
		return
	}
	c.ensureAllocated(len(mol.Bodies))

	bodyCoords := make([]*atoms.CompactCoordinates, len(mol.Bodies))
	for i, b := range mol.Bodies {
		bodyCoords[i] = atoms.Pack(b.Atoms, false)
	}
	c.bodyCoords = bodyCoords

	var waterAtoms []atoms.Atom
	for _, b := range mol.Bodies {
		waterAtoms = append(waterAtoms, b.Waters...)
	}
	waterAtoms = append(waterAtoms, mol.Hydration...)
	c.hydCoords = atoms.Pack(waterAtoms, false)

	dirtySelf := map[int]bool{}
	dirtyCross := map[int]bool{} // any body whose cross-partials with every other body need a rebuild
	dirtyHydBody := map[int]bool{}

	for i := 0; i < c.state.BodyCount(); i++ {
		if c.state.InternallyModified(i) {
			dirtySelf[i] = true
			dirtyCross[i] = true
			dirtyHydBody[i] = true
		}
		if c.state.ExternallyModified(i) {
			dirtyCross[i] = true
			dirtyHydBody[i] = true
		}
	}

	for i := range dirtySelf {
		c.selfPartials[i] = c.computeSelf(bodyCoords[i])
	}
	for i := range dirtyCross {
		for j := 0; j < c.state.BodyCount(); j++ {
			if j == i {
				continue
			}
			key := orderedPair(i, j)
			c.crossPartials[key] = c.computeCross(bodyCoords[key.i], bodyCoords[key.j])
		}
	}
	if c.state.HydrationModified() {
		c.hydHyd = c.computeSelf(c.hydCoords)
		for i := 0; i < c.state.BodyCount(); i++ {
			dirtyHydBody[i] = true
		}
	}
	for i := range dirtyHydBody {
		c.hydBody[i] = c.computeCross(bodyCoords[i], c.hydCoords)
	}

	c.state.clearFlags()
}

func orderedPair(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{i, j}
}

func (c *PartialHistogramCache) ensureAllocated(bodyCount int) {
	if len(c.selfPartials) == bodyCount && len(c.hydBody) == bodyCount {
		return
	}
	c.selfPartials = make([]*histogram.Distribution1D, bodyCount)
	c.hydBody = make([]*histogram.Distribution1D, bodyCount)
	c.crossPartials = map[pairKey]*histogram.Distribution1D{}
	c.hydHyd = nil
}

// computeSelf rebuilds a single body's self-partial: self-correlation plus
// every intra-body pair, doubled to represent both Debye-sum orderings.
// Row-blocks of the outer loop are tiled across the pool's workers into
// thread-local distributions, merged serially under a barrier.
func (c *PartialHistogramCache) computeSelf(cc *atoms.CompactCoordinates) *histogram.Distribution1D {
	out := histogram.NewDistribution1D(histogram.Axis{BinWidth: c.axis.BinWidth, Bins: c.axis.Bins})
	for i := 0; i < cc.Len; i++ {
		out.AddIndex(0, cc.W[i]*cc.W[i])
	}
	if cc.Len == 0 {
		return out
	}

	local := make([]*histogram.Distribution1D, c.pool.Workers())
	for w := range local {
		local[w] = histogram.NewDistribution1D(histogram.Axis{BinWidth: c.axis.BinWidth, Bins: c.axis.Bins})
	}
	c.pool.RunPairs(cc.Len, func(workerID, i int) {
		dst := local[workerID]
		j := i + 1
		for ; j+kernel.Lanes <= cc.PaddedLen(); j += kernel.Lanes {
			accumulateRounded(c.kernel, cc, cc, i, j, c.axis, dst)
		}
		if j < cc.Len {
			accumulateRounded(c.kernel, cc, cc, i, j, c.axis, dst)
		}
	})
	for _, l := range local {
		out.MergeFrom(l)
	}
	return out
}

// computeCross rebuilds a cross-body (or body-hydration) partial: every
// (i from a) x (j from b) pair, doubled for the same reason as computeSelf.
func (c *PartialHistogramCache) computeCross(a, b *atoms.CompactCoordinates) *histogram.Distribution1D {
	out := histogram.NewDistribution1D(histogram.Axis{BinWidth: c.axis.BinWidth, Bins: c.axis.Bins})
	if a.Len == 0 || b.Len == 0 {
		return out
	}

	local := make([]*histogram.Distribution1D, c.pool.Workers())
	for w := range local {
		local[w] = histogram.NewDistribution1D(histogram.Axis{BinWidth: c.axis.BinWidth, Bins: c.axis.Bins})
	}
	c.pool.RunPairs(a.Len, func(workerID, i int) {
		dst := local[workerID]
		j := 0
		for ; j+kernel.Lanes <= b.PaddedLen(); j += kernel.Lanes {
			accumulateRounded(c.kernel, a, b, i, j, c.axis, dst)
		}
		if j < b.Len {
			accumulateRounded(c.kernel, a, b, i, j, c.axis, dst)
		}
	})
	for _, l := range local {
		out.MergeFrom(l)
	}
	return out
}

// accumulateRounded evaluates one kernel window and folds it, doubled,
// into dst.
func accumulateRounded(k kernel.Kernel, a, b *atoms.CompactCoordinates, i, j int, ax kernel.Axis, dst *histogram.Distribution1D) {
	r := k.RoundedLane(a, b, i, j, ax)
	for lane := 0; lane < kernel.Lanes; lane++ {
		if r.Bins[lane] < 0 || r.Weight[lane] == 0 {
			continue
		}
		dst.AddIndex(r.Bins[lane], 2*r.Weight[lane])
	}
}

// Composite sums every partial into the total PDDF.
func (c *PartialHistogramCache) Composite() *histogram.Distribution1D {
	out := histogram.NewDistribution1D(histogram.Axis{BinWidth: c.axis.BinWidth, Bins: c.axis.Bins})
	for _, p := range c.selfPartials {
		out.MergeFrom(p)
	}
	for key := range c.crossPartials {
		out.MergeFrom(c.crossPartials[key])
	}
	for _, p := range c.hydBody {
		out.MergeFrom(p)
	}
	if c.hydHyd != nil {
		out.MergeFrom(c.hydHyd)
	}
	return out
}
