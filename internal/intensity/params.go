package intensity

// Parameters bundles the five nonlinear knobs a composite histogram's
// intensity cache is tagged by.
type Parameters struct {
	Cw  float64 // hydration scale, applied to aw/ww/wx
	Cx  float64 // excluded-volume scale, applied to ax/xx/wx via the active ExvModel
	Crho float64 // solvent density scale, multiplies exv partials
	Ba  float64 // atomic Debye-Waller B factor, damps aa
	Bx  float64 // exv Debye-Waller B factor, damps xx
}

// DefaultParameters returns the neutral (no-op) parameter vector: unit
// scales, zero thermal damping.
func DefaultParameters() Parameters {
	return Parameters{Cw: 1, Cx: 1, Crho: 1, Ba: 0, Bx: 0}
}

// Bounds gives the default admissible range for each nonlinear parameter.
type Bounds struct{ Min, Max float64 }

var (
	BoundsCw   = Bounds{0.5, 1.5}
	BoundsCx   = Bounds{0.8, 1.2}
	BoundsCrho = Bounds{0.95, 1.05}
	BoundsBa   = Bounds{0, 5}
	BoundsBx   = Bounds{0, 5}
)

// EnabledFitParameters enumerates which of the five nonlinear parameters
// are active for a fit. Inactive parameters hold their default values.
type EnabledFitParameters struct {
	Cw, Cx, Crho, Ba, Bx bool
}

// Count reports how many parameters are active.
func (e EnabledFitParameters) Count() int {
	n := 0
	for _, b := range []bool{e.Cw, e.Cx, e.Crho, e.Ba, e.Bx} {
		if b {
			n++
		}
	}
	return n
}

// RequiresExv reports whether any active parameter needs exv partials to
// be meaningful — used to fail fast when the histogram variant carries no
// exv partials but the caller asked to fit c_x or c_rho or B_x.
func (e EnabledFitParameters) RequiresExv() bool { return e.Cx || e.Crho || e.Bx }

// ActiveNames returns the active parameters' symbols in the canonical
// ordering the outer optimizer exposes its parameter vector in.
func (e EnabledFitParameters) ActiveNames() []string {
	var names []string
	if e.Cw {
		names = append(names, "c_w")
	}
	if e.Cx {
		names = append(names, "c_x")
	}
	if e.Crho {
		names = append(names, "c_rho")
	}
	if e.Ba {
		names = append(names, "B_a")
	}
	if e.Bx {
		names = append(names, "B_x")
	}
	return names
}
