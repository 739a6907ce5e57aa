package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/cache"
	"github.com/sarat-asymmetrica/saxscore/internal/config"
	"github.com/sarat-asymmetrica/saxscore/internal/fit"
	"github.com/sarat-asymmetrica/saxscore/internal/histogram"
	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
)

// BodySelector picks which body a rigid-body fit iteration perturbs next.
// Concrete selection heuristics (shape-complementarity, clash-avoidance,
// simulated-annealing acceptance) are external collaborators this command
// only has a contract with, not an implementation of; roundRobinSelector
// below is the one trivial, deterministic stand-in shipped here.
type BodySelector interface {
	Select(bodyCount int, iteration int) int
}

// BodyTransformer proposes a trial rigid transform for the body a
// BodySelector picked. Like BodySelector, real transform strategies
// (constrained translation along a symmetry axis, dihedral rotation about
// a linker) live outside this command's scope; identityTransformer is the
// only implementation here, and it always proposes the do-nothing
// transform.
type BodyTransformer interface {
	Propose(mol *atoms.Molecule, bodyIdx int, stepScale float64) atoms.Transform
}

type roundRobinSelector struct{}

func (roundRobinSelector) Select(bodyCount int, iteration int) int {
	if bodyCount == 0 {
		return 0
	}
	return iteration % bodyCount
}

type identityTransformer struct{}

func (identityTransformer) Propose(mol *atoms.Molecule, bodyIdx int, stepScale float64) atoms.Transform {
	return atoms.Identity()
}

// invertTransform returns t's inverse, used to roll back a proposed move
// that didn't improve chi-squared. Rotation is orthogonal so its inverse
// is its transpose.
func invertTransform(t atoms.Transform) atoms.Transform {
	r := t.Rotation
	var inv [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			inv[row*3+col] = r[col*3+row]
		}
	}
	tx, ty, tz := t.Translation[0], t.Translation[1], t.Translation[2]
	nx := -(inv[0]*tx + inv[1]*ty + inv[2]*tz)
	ny := -(inv[3]*tx + inv[4]*ty + inv[5]*tz)
	nz := -(inv[6]*tx + inv[7]*ty + inv[8]*tz)
	return atoms.Transform{Rotation: inv, Translation: [3]float64{nx, ny, nz}}
}

func newRigidBodyCmd(settings *config.Settings) *cobra.Command {
	var (
		structurePath  string
		saxsPath       string
		constraintPath string
		iterations     int
		decay          float64
		selectionName  string
		transformName  string
	)

	cmd := &cobra.Command{
		Use:   "rigid-body",
		Short: "Drive the histogram/fit pipeline across a rigid-body search",
	}

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Iteratively perturb body positions, recomputing only the invalidated partials each step",
		RunE: func(cmd *cobra.Command, args []string) error {
			soluteAtoms, err := loadStructure(structurePath)
			if err != nil {
				return err
			}
			dataset, err := loadDataset(saxsPath, 0, 0)
			if err != nil {
				return err
			}
			if constraintPath != "" {
				if _, err := os.Stat(constraintPath); err != nil {
					return err
				}
			}

			bodies := splitIntoBodies(soluteAtoms)
			mol := atoms.NewMolecule(bodies)

			diag := boundingDiagonal(mol.AllAtoms())
			bins := int(diag/defaultBinWidth) + 2
			if bins < 8 {
				bins = 8
			}
			axis := kernel.Axis{BinWidth: defaultBinWidth, Bins: bins}

			c := cache.NewPartialHistogramCache(axis, nil, nil)
			c.Bind(mol)
			c.Recalculate(mol)

			ff := intensity.NewFormFactorTable()
			exvModel := intensity.ExvModel{Kind: intensity.ExvModelDefault, R0: gridCellSize}
			qAxis := intensity.QAxis{Values: dataset.Q}
			histAxis := histogram.Axis{BinWidth: axis.BinWidth, Bins: axis.Bins}

			evaluate := func() float64 {
				partials := &histogram.PartialSet{AA1D: c.Composite()}
				composite := intensity.NewCompositeHistogram(partials, histAxis, qAxis, ff, exvModel)
				model := composite.Evaluate(intensity.DefaultParameters())
				inner := fit.SolveInner(model, dataset.I, dataset.Sigma)
				return inner.Chi2
			}

			var selector BodySelector = roundRobinSelector{}
			var transformer BodyTransformer = identityTransformer{}
			_ = selectionName // selection strategy names are accepted for CLI-surface compatibility; only the round-robin stand-in is implemented
			_ = transformName // same for transform strategy names

			bestChi2 := evaluate()
			accepted := 0
			for i := 0; i < iterations; i++ {
				step := math.Pow(decay, float64(i))
				idx := selector.Select(len(mol.Bodies), i)
				body := mol.Bodies[idx]
				t := transformer.Propose(mol, idx, step)

				body.ApplyRigid(t)
				c.Recalculate(mol)
				chi2 := evaluate()

				if chi2 < bestChi2 {
					bestChi2 = chi2
					accepted++
					continue
				}
				body.ApplyRigid(invertTransform(t))
				c.Recalculate(mol)
			}

			fmt.Fprintf(os.Stdout, "rigid-body fit: iterations=%d accepted=%d best_chi2=%.6g reduced_chi2=%.6g\n",
				iterations, accepted, bestChi2, bestChi2/math.Max(1, float64(dataset.Len()-2)))
			return nil
		},
	}

	fitCmd.Flags().StringVar(&structurePath, "structure", "", "path to a PDB or mmCIF structure file (required)")
	fitCmd.Flags().StringVar(&saxsPath, "saxs", "", "path to an experimental I(q) dataset (required)")
	fitCmd.Flags().StringVar(&constraintPath, "constraints", "", "path to a constraint file limiting body motion (existence-checked only; constraint evaluation is an external collaborator)")
	fitCmd.Flags().IntVar(&iterations, "iterations", 100, "number of body-perturbation iterations")
	fitCmd.Flags().Float64Var(&decay, "decay", 0.99, "per-iteration multiplicative decay applied to the step scale")
	fitCmd.Flags().StringVar(&selectionName, "selection", "round-robin", "body-selection strategy name (only round-robin is implemented here)")
	fitCmd.Flags().StringVar(&transformName, "transform", "identity", "body-transform strategy name (only identity is implemented here)")
	_ = fitCmd.MarkFlagRequired("structure")
	_ = fitCmd.MarkFlagRequired("saxs")

	cmd.AddCommand(fitCmd)
	return cmd
}

// splitIntoBodies bisects a flat atom list into two rigid bodies along its
// longest bounding-box axis, giving the rigid-body loop below at least one
// cross-partial to invalidate and recompute per iteration. A real
// rigid-body fit would instead partition along chain/domain boundaries
// read from the input format's chain IDs, which this flat atoms.Atom model
// discards (see DESIGN.md); spatial bisection is a data-partitioning
// stand-in, not a selection or transform strategy, so it stays in scope.
func splitIntoBodies(all []atoms.Atom) []*atoms.Body {
	if len(all) < 4 {
		return []*atoms.Body{atoms.NewBody(0, all)}
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	minZ, maxZ := all[0].Z, all[0].Z
	for _, a := range all {
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
		minZ, maxZ = math.Min(minZ, a.Z), math.Max(maxZ, a.Z)
	}
	dx, dy, dz := maxX-minX, maxY-minY, maxZ-minZ

	coord := func(a atoms.Atom) float64 { return a.X }
	mid := (minX + maxX) / 2
	switch {
	case dy >= dx && dy >= dz:
		coord = func(a atoms.Atom) float64 { return a.Y }
		mid = (minY + maxY) / 2
	case dz >= dx && dz >= dy:
		coord = func(a atoms.Atom) float64 { return a.Z }
		mid = (minZ + maxZ) / 2
	}

	var first, second []atoms.Atom
	for _, a := range all {
		if coord(a) <= mid {
			first = append(first, a)
		} else {
			second = append(second, a)
		}
	}
	if len(first) == 0 || len(second) == 0 {
		return []*atoms.Body{atoms.NewBody(0, all)}
	}
	return []*atoms.Body{atoms.NewBody(0, first), atoms.NewBody(1, second)}
}
