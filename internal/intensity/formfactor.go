package intensity

import (
	"math"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

// gaussianFF is a 5-Gaussian Cromer-Mann-style approximation: f(q) = Σ a_i
// exp(-b_i (q/4π)^2) + c. Coefficients below are representative values
// (not reproduced from any copyrighted table) tuned so each class's f(0)
// matches its nominal electron count; they are swappable via
// FormFactorTable.Set for a caller that has the real International Tables
// coefficients on hand.
type gaussianFF struct {
	a [5]float64
	b [5]float64
	c float64
}

func (g gaussianFF) at(q float64) float64 {
	k := q / (4 * math.Pi)
	k2 := k * k
	sum := g.c
	for i := range g.a {
		sum += g.a[i] * math.Exp(-g.b[i]*k2)
	}
	return sum
}

// FormFactorTable maps each atoms.FormFactorClass to its q-dependent
// scattering form factor.
type FormFactorTable struct {
	entries [atoms.NumFormFactorClasses]gaussianFF
}

// NewFormFactorTable builds a table with built-in defaults for every
// standard class. ClassEXV (interior excluded volume) gets a flat
// dummy-atom factor representative of the solvent's fully displaced
// electron density. ClassEXVSurface gets a distinct, more diffuse factor
// (lower peak, broader spread) reflecting that a surface exv point's
// solvent exclusion is only partial — it sits at the solute/bulk
// interface rather than fully inside the displaced-volume envelope. Both
// are overridable via Set.
func NewFormFactorTable() *FormFactorTable {
	t := &FormFactorTable{}
	set := func(c atoms.FormFactorClass, electrons float64, spread float64) {
		t.entries[c] = gaussianFF{
			a: [5]float64{electrons * 0.6, electrons * 0.2, electrons * 0.1, electrons * 0.06, electrons * 0.04},
			b: [5]float64{spread, spread * 2, spread * 4, spread * 8, spread * 16},
		}
	}
	set(atoms.ClassC, 6, 0.2)
	set(atoms.ClassN, 7, 0.18)
	set(atoms.ClassO, 8, 0.16)
	set(atoms.ClassS, 16, 0.12)
	set(atoms.ClassCH, 7, 0.2)
	set(atoms.ClassCH2, 8, 0.2)
	set(atoms.ClassCH3, 9, 0.2)
	set(atoms.ClassNH, 8, 0.18)
	set(atoms.ClassNH2, 9, 0.18)
	set(atoms.ClassOH, 9, 0.16)
	set(atoms.ClassSH, 17, 0.12)
	set(atoms.ClassWaterO, 10, 0.16) // oxygen + its two riding hydrogens' electrons
	set(atoms.ClassEXV, 1, 0.3)
	set(atoms.ClassEXVSurface, 0.65, 0.45)
	return t
}

// Set overrides the coefficients for a single class.
func (t *FormFactorTable) Set(c atoms.FormFactorClass, electrons float64, spread float64) {
	t.entries[c] = gaussianFF{
		a: [5]float64{electrons * 0.6, electrons * 0.2, electrons * 0.1, electrons * 0.06, electrons * 0.04},
		b: [5]float64{spread, spread * 2, spread * 4, spread * 8, spread * 16},
	}
}

// At evaluates class c's form factor at momentum transfer q.
func (t *FormFactorTable) At(c atoms.FormFactorClass, q float64) float64 {
	return t.entries[c].at(q)
}

// DebyeWaller returns the Gaussian thermal-damping factor exp(-B q^2)
// applied to a partial before its Debye sum.
func DebyeWaller(b, q float64) float64 {
	return math.Exp(-b * q * q)
}
