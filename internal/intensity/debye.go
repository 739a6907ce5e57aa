package intensity

import (
	"math"
	"sync"
)

// sincTolerance is the x-value below which sin(x)/x is replaced by its
// Taylor-series expansion to avoid the 0/0 pole, matching the original
// sinc(qd) lookup table's tolerance constant.
const sincTolerance = 1e-3

// sinc evaluates sin(x)/x, falling back to a three-term Taylor expansion
// near x=0 where direct evaluation loses precision (and would divide by
// zero exactly at x=0).
func sinc(x float64) float64 {
	if math.Abs(x) < sincTolerance {
		x2 := x * x
		return 1 - x2/6 + x2*x2/120
	}
	return math.Sin(x) / x
}

// QAxis describes the output momentum-transfer grid.
type QAxis struct {
	Values []float64
}

// SincTable is a precomputed (q-bin, d-bin) -> sinc(q*d) table. The q- and
// d-axes of the first table built become the default axes; for them a
// single shared table is built once and reused across instances, mirroring
// DebyeLookupTable's "default table" optimization — building this O(Q*D)
// table is the dominant one-time cost of a fit and there is no reason to
// repeat it per molecule.
type SincTable struct {
	qAxis []float64
	dAxis []float64
	table [][]float64
}

var (
	defaultTableMu    sync.Mutex
	defaultTable      *SincTable
	defaultQAxisCheck []float64
	defaultDAxisCheck []float64
)

// NewSincTable builds (or reuses, if q and d match the last default table
// built) a sinc(q*d) table.
func NewSincTable(q QAxis, d []float64) *SincTable {
	if usesDefault(q.Values, d) {
		defaultTableMu.Lock()
		defer defaultTableMu.Unlock()
		if defaultTable != nil {
			return defaultTable
		}
		t := buildTable(q.Values, d)
		defaultTable = t
		defaultQAxisCheck = q.Values
		defaultDAxisCheck = d
		return t
	}
	return buildTable(q.Values, d)
}

// ResetDefaultTable discards the memoized shared table, forcing the next
// NewSincTable call that matches the default axes to rebuild it. Exposed
// for tests and for callers that change the global bin-width
// configuration at runtime.
func ResetDefaultTable() {
	defaultTableMu.Lock()
	defer defaultTableMu.Unlock()
	defaultTable = nil
	defaultQAxisCheck = nil
	defaultDAxisCheck = nil
}

func usesDefault(q, d []float64) bool {
	if defaultQAxisCheck == nil {
		return true // first caller establishes what "default" means
	}
	return floatsEqual(q, defaultQAxisCheck) && floatsEqual(d, defaultDAxisCheck)
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func buildTable(q, d []float64) *SincTable {
	table := make([][]float64, len(q))
	for qi, qv := range q {
		row := make([]float64, len(d))
		for di, dv := range d {
			row[di] = sinc(qv * dv)
		}
		table[qi] = row
	}
	return &SincTable{qAxis: q, dAxis: d, table: table}
}

// Lookup returns the table's value at (qIndex, dIndex), amortized
// constant-time.
func (t *SincTable) Lookup(qIndex, dIndex int) float64 {
	return t.table[qIndex][dIndex]
}

// LookupValue evaluates sinc(q*d) directly, used when q falls outside the
// table's precomputed range: on-the-fly evaluation is preferred over
// silently extending the table, flagging the fallback so a caller can log
// it.
func (t *SincTable) LookupValue(q, d float64) (value float64, usedFallback bool) {
	return sinc(q * d), true
}

// SizeQ reports the table's q-dimension.
func (t *SincTable) SizeQ() int { return len(t.qAxis) }

// SizeD reports the table's d-dimension.
func (t *SincTable) SizeD() int { return len(t.dAxis) }
