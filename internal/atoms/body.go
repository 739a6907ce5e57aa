package atoms

// Signaller is how a Body announces a mutation to whatever owns its
// partial-histogram bookkeeping. Defined here, rather than in the cache
// package, so that atoms never has to import cache — the dependency runs
// cache -> atoms, and Body only needs the narrow interface.
//
// Grounded on AUSAXS's signaller::Signaller / BoundSignaller split: a
// bound signaller carries the body's index and a back-pointer to the
// state manager; an unbound signaller is a inert placeholder used before a
// body has been attached to any cache.
type Signaller interface {
	ModifiedExternal() // position/orientation changed; intra-body distances are unaffected
	ModifiedInternal() // atom set or per-atom state changed; everything about this body is stale
}

// UnboundSignaller is the no-op Signaller every Body starts with before it
// is registered with a PartialHistogramCache.
type UnboundSignaller struct{}

func (UnboundSignaller) ModifiedExternal() {}
func (UnboundSignaller) ModifiedInternal() {}

// Symmetry describes a repeated spatial relation applied to a body's
// atoms: an initial transform relative to the body's center of mass,
// then a repeat transform applied Repetitions times.
type Symmetry struct {
	Initial     Transform
	Repeat      Transform
	Repetitions int
}

// Transform is a rigid rotation (as a 3x3 matrix, row-major) followed by a
// translation.
type Transform struct {
	Rotation    [9]float64 // row-major 3x3, identity = {1,0,0, 0,1,0, 0,0,1}
	Translation [3]float64
}

// Identity returns the do-nothing transform.
func Identity() Transform {
	return Transform{Rotation: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// Apply applies the transform to a point.
func (t Transform) Apply(x, y, z float64) (float64, float64, float64) {
	r := t.Rotation
	return r[0]*x + r[1]*y + r[2]*z + t.Translation[0],
		r[3]*x + r[4]*y + r[5]*z + t.Translation[1],
		r[6]*x + r[7]*y + r[8]*z + t.Translation[2]
}

// Compose returns the transform equivalent to applying t first, then o.
func (t Transform) Compose(o Transform) Transform {
	var r [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += o.Rotation[row*3+k] * t.Rotation[k*3+col]
			}
			r[row*3+col] = sum
		}
	}
	x, y, z := o.Apply(t.Translation[0], t.Translation[1], t.Translation[2])
	return Transform{Rotation: r, Translation: [3]float64{x, y, z}}
}

// Body is a contiguous group of atoms that move rigidly together. Bodies
// own their atoms exclusively; a Molecule owns a nonempty ordered sequence
// of Bodies.
type Body struct {
	ID        int
	Atoms     []Atom
	Waters    []Atom // optional hydration-layer atoms belonging to this body
	Symmetry  *Symmetry
	signaller Signaller
}

// NewBody constructs a body with no symmetry and an unbound signaller.
func NewBody(id int, atoms []Atom) *Body {
	return &Body{ID: id, Atoms: atoms, signaller: UnboundSignaller{}}
}

// Bind attaches the signaller a cache hands out when registering this
// body. Subsequent Translate/Rotate/SetAtoms calls report through it.
func (b *Body) Bind(s Signaller) { b.signaller = s }

// Translate moves every atom (and water) in the body by a fixed offset.
// This is an "external" modification: intra-body distances are unchanged.
func (b *Body) Translate(dx, dy, dz float64) {
	for i := range b.Atoms {
		b.Atoms[i] = b.Atoms[i].Translate(dx, dy, dz)
	}
	for i := range b.Waters {
		b.Waters[i] = b.Waters[i].Translate(dx, dy, dz)
	}
	b.signaller.ModifiedExternal()
}

// ApplyRigid applies an arbitrary rotation+translation to every atom. Also
// an external modification.
func (b *Body) ApplyRigid(t Transform) {
	for i, a := range b.Atoms {
		a.X, a.Y, a.Z = t.Apply(a.X, a.Y, a.Z)
		b.Atoms[i] = a
	}
	for i, a := range b.Waters {
		a.X, a.Y, a.Z = t.Apply(a.X, a.Y, a.Z)
		b.Waters[i] = a
	}
	b.signaller.ModifiedExternal()
}

// SetAtoms replaces the body's atom set. This is an "internal"
// modification: intra-body distances may have changed.
func (b *Body) SetAtoms(atoms []Atom) {
	b.Atoms = atoms
	b.signaller.ModifiedInternal()
}

// ExpandedAtomSets returns, for a body with symmetry, the N+1 transformed
// copies of its atom sequence (the base copy first). A body without
// symmetry returns its single atom set.
func (b *Body) ExpandedAtomSets() [][]Atom {
	if b.Symmetry == nil {
		return [][]Atom{b.Atoms}
	}
	sets := make([][]Atom, 0, b.Symmetry.Repetitions+1)
	sets = append(sets, b.Atoms)

	com := centerOfMass(b.Atoms)
	cur := Transform{Rotation: b.Symmetry.Initial.Rotation}
	cur.Translation = b.Symmetry.Initial.Translation
	for rep := 0; rep < b.Symmetry.Repetitions; rep++ {
		t := cur
		if rep > 0 {
			t = cur.Compose(b.Symmetry.Repeat)
		}
		cur = t
		sets = append(sets, transformAbout(b.Atoms, com, t))
	}
	return sets
}

func centerOfMass(atoms []Atom) [3]float64 {
	var cx, cy, cz float64
	if len(atoms) == 0 {
		return [3]float64{}
	}
	for _, a := range atoms {
		cx += a.X
		cy += a.Y
		cz += a.Z
	}
	n := float64(len(atoms))
	return [3]float64{cx / n, cy / n, cz / n}
}

func transformAbout(atoms []Atom, com [3]float64, t Transform) []Atom {
	out := make([]Atom, len(atoms))
	for i, a := range atoms {
		lx, ly, lz := a.X-com[0], a.Y-com[1], a.Z-com[2]
		tx, ty, tz := t.Apply(lx, ly, lz)
		out[i] = Atom{X: tx + com[0], Y: ty + com[1], Z: tz + com[2], Weight: a.Weight, Class: a.Class}
	}
	return out
}

// Molecule owns a nonempty ordered sequence of bodies plus an optional
// shared hydration layer that does not belong to any single body.
type Molecule struct {
	Bodies    []*Body
	Hydration []Atom

	hydrationSignaller Signaller
}

// NewMolecule constructs a molecule and assigns sequential body IDs.
func NewMolecule(bodies []*Body) *Molecule {
	for i, b := range bodies {
		b.ID = i
	}
	return &Molecule{Bodies: bodies, hydrationSignaller: UnboundSignaller{}}
}

// BindHydration attaches the signaller used to announce hydration-layer
// changes, following the same bind pattern as Body.Bind.
func (m *Molecule) BindHydration(s Signaller) { m.hydrationSignaller = s }

// SetHydration replaces the shared hydration layer and signals the cache.
func (m *Molecule) SetHydration(waters []Atom) {
	m.Hydration = waters
	m.hydrationSignaller.ModifiedInternal()
}

// AllAtoms flattens every body's atoms (not waters, not hydration layer)
// into one slice, useful for whole-molecule diagnostics.
func (m *Molecule) AllAtoms() []Atom {
	total := 0
	for _, b := range m.Bodies {
		total += len(b.Atoms)
	}
	out := make([]Atom, 0, total)
	for _, b := range m.Bodies {
		out = append(out, b.Atoms...)
	}
	return out
}
