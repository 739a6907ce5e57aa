package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

func singleAtomMolecule() *atoms.Molecule {
	body := atoms.NewBody(0, []atoms.Atom{
		{X: 0, Y: 0, Z: 0, Weight: 6, Class: atoms.ClassC},
	})
	return atoms.NewMolecule([]*atoms.Body{body})
}

func TestNewMarksAtomCenterAtOrigin(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	ix, iy, iz := g.CellIndex(0, 0, 0)
	assert.Equal(t, AtomCenter, g.State(ix, iy, iz))
}

func TestNewMarksSurroundingCellsAtomArea(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	ix, iy, iz := g.CellIndex(1.0, 0, 0)
	assert.NotEqual(t, Empty, g.State(ix, iy, iz))
}

func TestOutOfBoundsReadsAsEmpty(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 2.0)
	assert.Equal(t, Empty, g.State(-100, -100, -100))
}

func TestPlaceHydrationMarksAdjacentEmptyCellsWaterCenter(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	waters := g.PlaceHydration(mol)
	require.NotEmpty(t, waters)
	for _, w := range waters {
		assert.Equal(t, atoms.ClassWaterO, w.Class)
		ix, iy, iz := g.CellIndex(w.X, w.Y, w.Z)
		assert.Equal(t, WaterCenter, g.State(ix, iy, iz))
	}
}

func TestPlaceHydrationNeverOverwritesAtomCells(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	before := append([]CellState{}, g.cells...)
	g.PlaceHydration(mol)
	for i, s := range before {
		if s == AtomCenter || s == AtomArea {
			assert.Equal(t, s, g.cells[i])
		}
	}
}

func TestEnumerateExvScattersersOnlyOverOccupiedCells(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	scatterers := g.EnumerateExvScatterers(true)
	for _, s := range scatterers {
		assert.True(t, s.Class == atoms.ClassEXV || s.Class == atoms.ClassEXVSurface)
	}
}

func TestIsolatedAtomAreaCellsClassifyAsSurface(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	scatterers := g.EnumerateExvScatterers(true)
	require.NotEmpty(t, scatterers)
	for _, s := range scatterers {
		assert.Equal(t, atoms.ClassEXVSurface, s.Class)
	}
}

func TestEnumerateExvScatterersWithoutSplitStaysUndifferentiated(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)

	scatterers := g.EnumerateExvScatterers(false)
	require.NotEmpty(t, scatterers)
	for _, s := range scatterers {
		assert.Equal(t, atoms.ClassEXV, s.Class)
	}
}

func TestRebuildClearsStaleMarks(t *testing.T) {
	mol := singleAtomMolecule()
	g := New(mol, 1.0, 5.0)
	ix, iy, iz := g.CellIndex(0, 0, 0)
	require.Equal(t, AtomCenter, g.State(ix, iy, iz))

	mol.Bodies[0].Translate(100, 100, 100)
	g.Rebuild(mol)
	assert.Equal(t, Empty, g.State(ix, iy, iz))
}
