package grid

import "github.com/sarat-asymmetrica/saxscore/internal/atoms"

// waterWeight is the effective scattering weight assigned to a placed
// hydration water's oxygen (same nominal electron count the intensity
// package's form-factor table uses for ClassWaterO).
const waterWeight = 10.0

// PlaceHydration scans every empty cell adjacent to an ATOM_CENTER cell
// and emits one water atom per such cell, marking it WATER_CENTER in the
// grid. "Adjacent" means within one cell of an atom center's cell — the
// grid's cell size is expected to be set close to a water's footprint, so
// a 1-cell shell approximates a contact hydration shell without needing a
// continuous-radius search.
func (g *Grid) PlaceHydration(mol *atoms.Molecule) []atoms.Atom {
	var waters []atoms.Atom

	for ix := 0; ix < g.Nx; ix++ {
		for iy := 0; iy < g.Ny; iy++ {
			for iz := 0; iz < g.Nz; iz++ {
				if g.State(ix, iy, iz) != Empty {
					continue
				}
				if !g.adjacentToAtomCenter(ix, iy, iz) {
					continue
				}
				g.set(ix, iy, iz, WaterCenter)
				wx, wy, wz := g.CellCenter(ix, iy, iz)
				waters = append(waters, atoms.Atom{X: wx, Y: wy, Z: wz, Weight: waterWeight, Class: atoms.ClassWaterO})
			}
		}
	}
	return waters
}

func (g *Grid) adjacentToAtomCenter(ix, iy, iz int) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if g.State(ix+dx, iy+dy, iz+dz) == AtomCenter {
					return true
				}
			}
		}
	}
	return false
}
