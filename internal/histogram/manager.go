package histogram

import (
	"fmt"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
	"github.com/sarat-asymmetrica/saxscore/internal/threadpool"
)

// ExvStrategy selects how a manager resolves excluded-volume contributions.
type ExvStrategy int

const (
	ExvNone ExvStrategy = iota
	ExvFFAverage
	ExvFFExplicit
	ExvGridBased
	ExvGridSurface
)

func (s ExvStrategy) String() string {
	switch s {
	case ExvNone:
		return "plain"
	case ExvFFAverage:
		return "ff-average"
	case ExvFFExplicit:
		return "ff-explicit"
	case ExvGridBased:
		return "grid-based"
	case ExvGridSurface:
		return "grid-surface"
	default:
		return fmt.Sprintf("ExvStrategy(%d)", int(s))
	}
}

// Variant configures a histogram manager: whether it tracks bin-weighted
// distances (for the Debye transform's higher-accuracy mode), whether bin
// widths are non-uniform (reserved; uniform bins are the only
// implementation here), and which excluded-volume strategy
// it embodies.
type Variant struct {
	WeightedBins      bool
	VariableBinWidths bool
	Exv               ExvStrategy
	Axis              Axis
}

// PartialSet is the full decomposition calculate_all() produces. Only the
// fields relevant to the manager's ExvStrategy are populated; the rest are
// nil. Total is always populated.
type PartialSet struct {
	AA1D *Distribution1D // Plain
	AA2D *Distribution2D // FF-average: (class x d), atom-atom only
	AA3D *Distribution3D // FF-explicit/grid: (class x class x d)

	AW1D *Distribution1D
	AW2D *Distribution2D // FF-average/explicit: (class x d), one side is always water

	WW1D *Distribution1D

	WeightedAxis []float64 // populated only when Variant.WeightedBins is set

	Total  *Distribution1D
	Sanity SanityReport
}

// Manager orchestrates kernel evaluation across a molecule's bodies into a
// complete PDDF. Implementations are selected at construction time by
// ExvStrategy; the inner kernels are the same across variants (monomorphized
// only over weighted/rounded mode, not over exv strategy).
type Manager interface {
	// Calculate returns just the total 1D PDDF.
	Calculate(mol *atoms.Molecule) *Distribution1D
	// CalculateAll returns the full partial decomposition.
	CalculateAll(mol *atoms.Molecule) *PartialSet
	Variant() Variant
}

// NewManager builds the manager implementation matching v.Exv. pool and k
// are shared across calls; passing nil for either selects defaults
// (threadpool.New(0) and kernel.Select()).
func NewManager(v Variant, pool *threadpool.Pool, k kernel.Kernel) Manager {
	if pool == nil {
		pool = threadpool.New(0)
	}
	if k == nil {
		k = kernel.Select()
	}
	base := baseManager{variant: v, pool: pool, kernel: k}
	switch v.Exv {
	case ExvFFAverage:
		return &ffAverageManager{base}
	case ExvFFExplicit, ExvGridBased, ExvGridSurface:
		return &ffExplicitManager{base}
	default:
		return &plainManager{base}
	}
}

type baseManager struct {
	variant Variant
	pool    *threadpool.Pool
	kernel  kernel.Kernel
}

func (b baseManager) Variant() Variant { return b.variant }

func (b baseManager) axis() kernel.Axis {
	return kernel.Axis{BinWidth: b.variant.Axis.BinWidth, Bins: b.variant.Axis.Bins}
}

// partition splits a molecule into per-copy solute coordinate sets
// (expanding body symmetry into N+1 repeated copies, per body.Symmetry's
// repetition count) and a single combined hydration-layer coordinate set
// (every body's own waters plus the molecule's shared hydration layer).
func partition(mol *atoms.Molecule, withClasses bool) (solute []*atoms.CompactCoordinates, waters *atoms.CompactCoordinates) {
	var waterAtoms []atoms.Atom
	for _, b := range mol.Bodies {
		for _, set := range b.ExpandedAtomSets() {
			solute = append(solute, atoms.Pack(set, withClasses))
		}
		waterAtoms = append(waterAtoms, b.Waters...)
	}
	waterAtoms = append(waterAtoms, mol.Hydration...)
	waters = atoms.Pack(waterAtoms, withClasses)
	return solute, waters
}

// scattererCount sums the real (unpadded) atom counts partition()
// produced, the denominator the sanity check's per-atom budget applies
// against.
func scattererCount(solute []*atoms.CompactCoordinates, waters *atoms.CompactCoordinates) int {
	n := waters.Len
	for _, cp := range solute {
		n += cp.Len
	}
	return n
}
