package grid

import "github.com/sarat-asymmetrica/saxscore/internal/atoms"

// exvWeight is the per-dummy-point scattering weight assigned to a grid
// excluded-volume scatterer (one displaced-solvent electron's worth per
// cell, matching the form-factor table's ClassEXV nominal electron count).
const exvWeight = 1.0

// probeDirections is the small set of axis-aligned directions the
// line-probe surface test fires along.
var probeDirections = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// probeRadii is the number of cell-steps the line probe checks at, in
// units of the grid's cell size (stand-ins for r, 2r, 3r, 4r).
var probeRadii = [4]int{1, 2, 3, 4}

// surfaceThreshold is the fraction of probe/direction combinations that
// must hit occupied (non-Empty) cells for a candidate cell to be
// classified interior rather than surface.
const surfaceThreshold = 0.5

// EnumerateExvScatterers walks every occupied non-center cell (VOLUME or
// ATOM_AREA — the space a solute displaces) and emits one excluded-volume
// pseudo-atom per such cell. When splitSurface is false (the grid-based
// strategy), every pseudo-atom is classified ClassEXV: a single
// undifferentiated population. When splitSurface is true (grid-surface),
// each cell is additionally run through the line-probe test: for each of
// the six axis directions, probe outward at radii r, 2r, 3r, 4r and count
// how many of those 24 probes land on an occupied cell. A cell scoring at
// or above surfaceThreshold is interior (ClassEXV); below it, surface
// (ClassEXVSurface). The two classes carry distinct form-factor
// coefficients and pair-scaling (see intensity.FormFactorTable and
// CompositeHistogram.pairScale), so only the surface strategy actually
// pays for the line-probe pass.
func (g *Grid) EnumerateExvScatterers(splitSurface bool) []atoms.Atom {
	var out []atoms.Atom

	for ix := 0; ix < g.Nx; ix++ {
		for iy := 0; iy < g.Ny; iy++ {
			for iz := 0; iz < g.Nz; iz++ {
				s := g.State(ix, iy, iz)
				if s != AtomArea && s != Volume {
					continue
				}
				cls := atoms.ClassEXV
				if splitSurface && g.isSurface(ix, iy, iz) {
					cls = atoms.ClassEXVSurface
				}
				x, y, z := g.CellCenter(ix, iy, iz)
				out = append(out, atoms.Atom{X: x, Y: y, Z: z, Weight: exvWeight, Class: cls})
			}
		}
	}
	return out
}

func (g *Grid) isSurface(ix, iy, iz int) bool {
	total := 0
	hits := 0
	for _, dir := range probeDirections {
		for _, r := range probeRadii {
			total++
			px, py, pz := ix+dir[0]*r, iy+dir[1]*r, iz+dir[2]*r
			if g.State(px, py, pz) != Empty {
				hits++
			}
		}
	}
	return float64(hits)/float64(total) < surfaceThreshold
}
