// Package atoms implements the compact atom/body/molecule data model used
// throughout the SAXS pipeline.
//
// BIOCHEMIST: each atom carries an effective electron count (occupancy ×
// electrons) and a form-factor class rather than a raw element symbol, so
// downstream packages never need chemistry knowledge beyond this
// enumeration.
// PHYSICIST: positions are plain float64 Cartesian coordinates in
// Ångström; nothing here assumes a particular crystallographic frame.
package atoms

import "fmt"

// FormFactorClass enumerates the atom-type buckets the scattering pipeline
// distinguishes. Explicit-hydrogen variants exist because a CH3 group
// scatters differently from a bare carbon once its riding hydrogens are
// folded into one effective scatterer.
type FormFactorClass uint8

const (
	ClassC FormFactorClass = iota
	ClassN
	ClassO
	ClassS
	ClassCH
	ClassCH2
	ClassCH3
	ClassNH
	ClassNH2
	ClassOH
	ClassSH
	ClassWaterO    // oxygen of an explicit hydration-layer water
	ClassEXV       // excluded-volume pseudo-atom (grid dummy or explicit exv bead), interior
	ClassEXVSurface // excluded-volume pseudo-atom classified as surface by the grid's line-probe test

	numFormFactorClasses
)

// NumFormFactorClasses is the size of the fixed enumeration used to size
// 2D/3D distribution arrays, kept at or below 16 entries so those arrays
// stay small.
const NumFormFactorClasses = int(numFormFactorClasses)

func (c FormFactorClass) String() string {
	switch c {
	case ClassC:
		return "C"
	case ClassN:
		return "N"
	case ClassO:
		return "O"
	case ClassS:
		return "S"
	case ClassCH:
		return "CH"
	case ClassCH2:
		return "CH2"
	case ClassCH3:
		return "CH3"
	case ClassNH:
		return "NH"
	case ClassNH2:
		return "NH2"
	case ClassOH:
		return "OH"
	case ClassSH:
		return "SH"
	case ClassWaterO:
		return "water-O"
	case ClassEXV:
		return "exv"
	case ClassEXVSurface:
		return "exv-surface"
	default:
		return fmt.Sprintf("FormFactorClass(%d)", uint8(c))
	}
}

// IsWater reports whether the class belongs to the hydration layer rather
// than the solute.
func (c FormFactorClass) IsWater() bool { return c == ClassWaterO }

// IsExcludedVolume reports whether the class is an exv pseudo-atom, either
// interior or surface.
func (c FormFactorClass) IsExcludedVolume() bool { return c == ClassEXV || c == ClassEXVSurface }

// Atom is a single scatterer: a position, an effective scattering weight
// (electron count × occupancy), and a form-factor class. Atoms are
// immutable once packed into a CompactCoordinates for a histogram
// evaluation; any mutation must go through a Body, which signals the
// owning cache that a rebuild is required.
type Atom struct {
	X, Y, Z float64
	Weight  float64
	Class   FormFactorClass
}

// Translate returns a copy of a translated by (dx, dy, dz).
func (a Atom) Translate(dx, dy, dz float64) Atom {
	a.X += dx
	a.Y += dy
	a.Z += dz
	return a
}
