// Package grid implements the uniform-cell occupancy grid that backs
// hydration-layer placement and the grid-based excluded-volume histogram
// variants: a bounded 3D array over a molecule's bounding box (plus a
// margin), generalized from a flat spatial hash since the grid here is
// always bounded rather than open-ended.
package grid

import (
	"math"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

// CellState is the coherent state of one grid cell.
type CellState uint8

const (
	Empty CellState = iota
	Volume
	AtomArea
	AtomCenter
	WaterArea
	WaterCenter
)

// Grid is a dense 3D occupancy grid over a molecule's bounding box,
// expanded by margin on every side, cut into cubic cells of cellSize.
type Grid struct {
	CellSize float64
	Origin   [3]float64 // minimum corner
	Nx, Ny, Nz int

	cells []CellState
}

// vdwRadii is a small representative table of van-der-Waals-scale radii
// (Å) per form-factor class: a flat map with a carbon-radius fallback for
// anything unlisted.
var vdwRadii = map[atoms.FormFactorClass]float64{
	atoms.ClassC:          1.70,
	atoms.ClassN:          1.55,
	atoms.ClassO:          1.52,
	atoms.ClassS:          1.80,
	atoms.ClassCH:         1.80,
	atoms.ClassCH2:        1.90,
	atoms.ClassCH3:        2.00,
	atoms.ClassNH:         1.65,
	atoms.ClassNH2:        1.75,
	atoms.ClassOH:         1.60,
	atoms.ClassSH:         1.85,
	atoms.ClassWaterO:     1.52,
	atoms.ClassEXV:        1.70,
	atoms.ClassEXVSurface: 1.70,
}

func vdwRadius(c atoms.FormFactorClass) float64 {
	if r, ok := vdwRadii[c]; ok {
		return r
	}
	return 1.70
}

// New builds a grid covering every atom in mol (bodies plus hydration),
// with the given cell size and bounding-box margin (both in Å).
func New(mol *atoms.Molecule, cellSize, margin float64) *Grid {
	all := mol.AllAtoms()
	all = append(all, mol.Hydration...)

	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, a := range all {
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
		minZ, maxZ = math.Min(minZ, a.Z), math.Max(maxZ, a.Z)
	}
	if len(all) == 0 {
		minX, minY, minZ, maxX, maxY, maxZ = 0, 0, 0, 0, 0, 0
	}

	minX -= margin
	minY -= margin
	minZ -= margin
	maxX += margin
	maxY += margin
	maxZ += margin

	nx := int(math.Ceil((maxX-minX)/cellSize)) + 1
	ny := int(math.Ceil((maxY-minY)/cellSize)) + 1
	nz := int(math.Ceil((maxZ-minZ)/cellSize)) + 1
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	if nz < 1 {
		nz = 1
	}

	g := &Grid{
		CellSize: cellSize,
		Origin:   [3]float64{minX, minY, minZ},
		Nx:       nx,
		Ny:       ny,
		Nz:       nz,
		cells:    make([]CellState, nx*ny*nz),
	}
	g.markAtoms(all)
	g.markEnclosedCavities()
	return g
}

// CellIndex converts a world coordinate into its (ix, iy, iz) cell.
func (g *Grid) CellIndex(x, y, z float64) (int, int, int) {
	ix := int(math.Floor((x - g.Origin[0]) / g.CellSize))
	iy := int(math.Floor((y - g.Origin[1]) / g.CellSize))
	iz := int(math.Floor((z - g.Origin[2]) / g.CellSize))
	return ix, iy, iz
}

// CellCenter returns the world-space center of cell (ix, iy, iz).
func (g *Grid) CellCenter(ix, iy, iz int) (float64, float64, float64) {
	x := g.Origin[0] + (float64(ix)+0.5)*g.CellSize
	y := g.Origin[1] + (float64(iy)+0.5)*g.CellSize
	z := g.Origin[2] + (float64(iz)+0.5)*g.CellSize
	return x, y, z
}

func (g *Grid) inBounds(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.Nx && iy >= 0 && iy < g.Ny && iz >= 0 && iz < g.Nz
}

func (g *Grid) flatIndex(ix, iy, iz int) int {
	return ix + iy*g.Nx + iz*g.Nx*g.Ny
}

// State reads a cell's state; out-of-bounds indices read as Empty.
func (g *Grid) State(ix, iy, iz int) CellState {
	if !g.inBounds(ix, iy, iz) {
		return Empty
	}
	return g.cells[g.flatIndex(ix, iy, iz)]
}

func (g *Grid) set(ix, iy, iz int, s CellState) {
	if !g.inBounds(ix, iy, iz) {
		return
	}
	g.cells[g.flatIndex(ix, iy, iz)] = s
}

// markAtoms marks each atom's cell ATOM_CENTER and every cell within its
// van-der-Waals radius ATOM_AREA, maintaining the coherence invariant that
// an ATOM_CENTER's surrounding ball is always ATOM_AREA (a center cell is
// never downgraded back to area by a later, smaller-radius neighbor).
func (g *Grid) markAtoms(all []atoms.Atom) {
	for _, a := range all {
		cx, cy, cz := g.CellIndex(a.X, a.Y, a.Z)
		centerState := AtomCenter
		if a.Class.IsWater() {
			centerState = WaterCenter
		}
		g.set(cx, cy, cz, centerState)

		radius := vdwRadius(a.Class)
		reach := int(math.Ceil(radius / g.CellSize))
		areaState := AtomArea
		if a.Class.IsWater() {
			areaState = WaterArea
		}
		for dx := -reach; dx <= reach; dx++ {
			for dy := -reach; dy <= reach; dy++ {
				for dz := -reach; dz <= reach; dz++ {
					ix, iy, iz := cx+dx, cy+dy, cz+dz
					if !g.inBounds(ix, iy, iz) {
						continue
					}
					wx, wy, wz := g.CellCenter(ix, iy, iz)
					d := math.Sqrt((wx-a.X)*(wx-a.X) + (wy-a.Y)*(wy-a.Y) + (wz-a.Z)*(wz-a.Z))
					if d > radius {
						continue
					}
					if g.State(ix, iy, iz) == AtomCenter || g.State(ix, iy, iz) == WaterCenter {
						continue
					}
					g.set(ix, iy, iz, areaState)
				}
			}
		}
	}
}

// Rebuild discards all marks and re-derives them from mol, used when a
// rigid-body transform invalidates a previously built grid.
func (g *Grid) Rebuild(mol *atoms.Molecule) {
	for i := range g.cells {
		g.cells[i] = Empty
	}
	all := mol.AllAtoms()
	all = append(all, mol.Hydration...)
	g.markAtoms(all)
	g.markEnclosedCavities()
}

// markEnclosedCavities flood-fills Empty cells reachable from the grid's
// boundary (always open by construction, since New pads the bounding box
// with a margin); any Empty cell the flood fill never reaches is a buried
// cavity and is reclassified Volume.
func (g *Grid) markEnclosedCavities() {
	reached := make([]bool, len(g.cells))
	var stack [][3]int

	push := func(ix, iy, iz int) {
		if !g.inBounds(ix, iy, iz) {
			return
		}
		idx := g.flatIndex(ix, iy, iz)
		if reached[idx] || g.cells[idx] != Empty {
			return
		}
		reached[idx] = true
		stack = append(stack, [3]int{ix, iy, iz})
	}

	for ix := 0; ix < g.Nx; ix++ {
		for iy := 0; iy < g.Ny; iy++ {
			push(ix, iy, 0)
			push(ix, iy, g.Nz-1)
		}
	}
	for ix := 0; ix < g.Nx; ix++ {
		for iz := 0; iz < g.Nz; iz++ {
			push(ix, 0, iz)
			push(ix, g.Ny-1, iz)
		}
	}
	for iy := 0; iy < g.Ny; iy++ {
		for iz := 0; iz < g.Nz; iz++ {
			push(0, iy, iz)
			push(g.Nx-1, iy, iz)
		}
	}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		neighbors := [6][3]int{
			{c[0] + 1, c[1], c[2]}, {c[0] - 1, c[1], c[2]},
			{c[0], c[1] + 1, c[2]}, {c[0], c[1] - 1, c[2]},
			{c[0], c[1], c[2] + 1}, {c[0], c[1], c[2] - 1},
		}
		for _, n := range neighbors {
			push(n[0], n[1], n[2])
		}
	}

	for idx, s := range g.cells {
		if s == Empty && !reached[idx] {
			g.cells[idx] = Volume
		}
	}
}
