package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/config"
	"github.com/sarat-asymmetrica/saxscore/internal/fit"
	"github.com/sarat-asymmetrica/saxscore/internal/grid"
	"github.com/sarat-asymmetrica/saxscore/internal/histogram"
	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
	"github.com/sarat-asymmetrica/saxscore/internal/ioformats"
)

// gridCellSize and gridMargin are the defaults the grid-auxiliary package
// is built with when a command needs hydration or excluded-volume
// scatterers; 1.0 Å matches the distance-histogram bin width below and 3.0
// Å comfortably covers the largest van-der-Waals radius in grid.vdwRadii.
const (
	gridCellSize    = 1.0
	gridMargin      = 3.0
	defaultBinWidth = 1.0
)

// fitFlags collects the --fit-* boolean switches shared by every
// subcommand that runs the intensity-fitting pipeline.
type fitFlags struct {
	exv       bool
	hydration bool
	solvent   bool
	bfactor   bool
}

func (f fitFlags) active() intensity.EnabledFitParameters {
	return intensity.EnabledFitParameters{
		Cw:   f.hydration,
		Cx:   f.exv,
		Crho: f.solvent,
		Ba:   f.bfactor,
		Bx:   f.bfactor && f.exv,
	}
}

// loadStructure reads a PDB or mmCIF file into a flat atom list, dispatched
// by file extension.
func loadStructure(path string) ([]atoms.Atom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening structure file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cif", ".mmcif":
		return ioformats.ReadMMCIF(f)
	default:
		return ioformats.ReadPDB(f)
	}
}

func loadDataset(path string, qmin, qmax float64) (fit.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return fit.Dataset{}, errors.Wrap(err, "opening scattering dataset")
	}
	defer f.Close()

	d, err := ioformats.ReadDataset(f)
	if err != nil {
		return fit.Dataset{}, err
	}
	return clampQRange(d, qmin, qmax), nil
}

// clampQRange drops points outside [qmin, qmax]; qmin/qmax of zero means
// "unbounded on that side", matching the error-handling table's "clamp,
// never silently corrupt" policy for out-of-range q.
func clampQRange(d fit.Dataset, qmin, qmax float64) fit.Dataset {
	if qmin <= 0 && qmax <= 0 {
		return d
	}
	out := fit.Dataset{}
	for i, q := range d.Q {
		if qmin > 0 && q < qmin {
			continue
		}
		if qmax > 0 && q > qmax {
			continue
		}
		out.Q = append(out.Q, q)
		out.I = append(out.I, d.I[i])
		out.Sigma = append(out.Sigma, d.Sigma[i])
	}
	return out
}

// parseExvStrategy maps a --exv-strategy flag value onto the manager
// strategy it selects. "grid" and "grid-surface" are the only strategies
// that populate exv grid scatterers (see buildMolecule); "ff-average" and
// "ff-explicit" raise the per-pair form-factor resolution of the solute
// atoms already present without adding any exv population, and "none"
// disables exv partials entirely.
func parseExvStrategy(name string) (histogram.ExvStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return histogram.ExvNone, nil
	case "ff-average":
		return histogram.ExvFFAverage, nil
	case "ff-explicit":
		return histogram.ExvFFExplicit, nil
	case "grid":
		return histogram.ExvGridBased, nil
	case "grid-surface":
		return histogram.ExvGridSurface, nil
	default:
		return histogram.ExvNone, errors.Errorf("unknown exv strategy %q (want none, ff-average, ff-explicit, grid, or grid-surface)", name)
	}
}

// buildMolecule assembles a single-body molecule from a flat atom list and,
// when the requested active parameters need them, generates a hydration
// layer and/or (for the two grid strategies) an excluded-volume scatterer
// body via the grid package. It rejects a request to fit an exv-dependent
// parameter (c_x, c_rho, or B_x) against a strategy that carries no exv
// partials.
func buildMolecule(soluteAtoms []atoms.Atom, strategy histogram.ExvStrategy, active intensity.EnabledFitParameters) (*atoms.Molecule, error) {
	solute := atoms.NewBody(0, soluteAtoms)
	mol := atoms.NewMolecule([]*atoms.Body{solute})

	needsHydration := active.Cw
	needsExv := strategy == histogram.ExvGridBased || strategy == histogram.ExvGridSurface

	if active.RequiresExv() && !needsExv {
		return nil, errors.New("--fit-exv, --fit-solvent, and B_x require --exv-strategy grid or grid-surface")
	}
	if !needsHydration && !needsExv {
		return mol, nil
	}

	g := grid.New(mol, gridCellSize, gridMargin)
	if needsHydration {
		waters := g.PlaceHydration(mol)
		mol.SetHydration(waters)
		g.Rebuild(mol)
	}
	if needsExv {
		exvAtoms := g.EnumerateExvScatterers(strategy == histogram.ExvGridSurface)
		exvBody := atoms.NewBody(len(mol.Bodies), exvAtoms)
		mol.Bodies = append(mol.Bodies, exvBody)
	}
	return mol, nil
}

// boundingDiagonal returns the molecule's bounding-box diagonal, used to
// size the distance-histogram axis so every pairwise distance falls inside
// its range.
func boundingDiagonal(all []atoms.Atom) float64 {
	if len(all) == 0 {
		return 0
	}
	minX, minY, minZ := all[0].X, all[0].Y, all[0].Z
	maxX, maxY, maxZ := minX, minY, minZ
	for _, a := range all {
		if a.X < minX {
			minX = a.X
		}
		if a.Y < minY {
			minY = a.Y
		}
		if a.Z < minZ {
			minZ = a.Z
		}
		if a.X > maxX {
			maxX = a.X
		}
		if a.Y > maxY {
			maxY = a.Y
		}
		if a.Z > maxZ {
			maxZ = a.Z
		}
	}
	dx, dy, dz := maxX-minX, maxY-minY, maxZ-minZ
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func parseExvModelKind(name string) intensity.ExvModelKind {
	s := config.DefaultSettings()
	s.BindExvModel(name)
	return s.ExvModelKind
}

// runIntensityFit wires a parsed molecule and dataset into a
// histogram.Manager, intensity.CompositeHistogram, and fit.SmartFitter, and
// returns the converged result.
func runIntensityFit(mol *atoms.Molecule, exvStrategy histogram.ExvStrategy, dataset fit.Dataset, exvModelName string, active intensity.EnabledFitParameters) (fit.FitResult, error) {
	diag := boundingDiagonal(mol.AllAtoms())
	bins := int(diag/defaultBinWidth) + 2
	if bins < 8 {
		bins = 8
	}
	axis := histogram.Axis{BinWidth: defaultBinWidth, Bins: bins}

	variant := histogram.Variant{Axis: axis, WeightedBins: true, Exv: exvStrategy}
	mgr := histogram.NewManager(variant, nil, nil)
	partials := mgr.CalculateAll(mol)

	ff := intensity.NewFormFactorTable()
	exvModel := intensity.ExvModel{Kind: parseExvModelKind(exvModelName), R0: gridCellSize}
	composite := intensity.NewCompositeHistogram(partials, axis, intensity.QAxis{Values: dataset.Q}, ff, exvModel)

	sf := fit.SmartFitter{
		Composite: composite,
		Data:      dataset,
		Active:    active,
		Strategy:  fit.LimitedScan{},
	}
	return sf.Run()
}
