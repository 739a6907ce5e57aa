package atoms

// CompactCoordinates is the structure-of-arrays layout the kernel package
// consumes. Positions and weights live in separate float64 slices so the
// inner kernels can stream through them without touching the form-factor
// class byte at all when it isn't needed (the "rounded, unweighted-class"
// path).
//
// The slices are padded up to a multiple of eight slots, so an eight-wide
// window that starts at a multiple of eight below Len lies wholly inside
// them; a window starting elsewhere can run past the end, and the kernels
// report such lanes as out of range. Padding atoms carry zero weight, so
// they contribute nothing to any accumulated distribution even though
// they're "read".
type CompactCoordinates struct {
	X, Y, Z []float64
	W       []float64
	Class   []FormFactorClass // nil if the caller never asked for per-atom classes

	Len int // number of real (non-padding) atoms
}

// kernelLanes is the kernel's widest SIMD-style stride; padding rounds the
// backing arrays up to a multiple of this so kernels can always read a
// full lane group.
const kernelLanes = 8

// Pack converts an ordered atom sequence into a padded SoA layout.
func Pack(atoms []Atom, withClasses bool) *CompactCoordinates {
	n := len(atoms)
	padded := n
	if r := n % kernelLanes; r != 0 {
		padded += kernelLanes - r
	}
	if padded == 0 {
		padded = kernelLanes
	}

	cc := &CompactCoordinates{
		X:   make([]float64, padded),
		Y:   make([]float64, padded),
		Z:   make([]float64, padded),
		W:   make([]float64, padded),
		Len: n,
	}
	if withClasses {
		cc.Class = make([]FormFactorClass, padded)
	}
	for i, a := range atoms {
		cc.X[i], cc.Y[i], cc.Z[i], cc.W[i] = a.X, a.Y, a.Z, a.Weight
		if withClasses {
			cc.Class[i] = a.Class
		}
	}
	// Positions for padding atoms are left at zero, but their weight is
	// already zero by construction (make zero-values a slice), which is
	// what actually makes them inert in the kernel's weight product.
	return cc
}

// PaddedLen returns the number of slots including padding.
func (cc *CompactCoordinates) PaddedLen() int { return len(cc.X) }
