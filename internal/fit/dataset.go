// Package fit implements the inner linear least-squares layer and the
// outer nonlinear optimizer strategies that together minimize chi-squared
// between a composite histogram's model intensity and an experimental
// scattering dataset.
package fit

import "github.com/pkg/errors"

// Dataset holds an experimental I(q) curve: momentum transfer, intensity,
// and per-point uncertainty.
type Dataset struct {
	Q      []float64
	I      []float64
	Sigma  []float64
}

// Validate checks the three columns are equal length and sigma is
// strictly positive everywhere (a zero or negative sigma would make
// chi-squared undefined).
func (d Dataset) Validate() error {
	if len(d.Q) != len(d.I) || len(d.Q) != len(d.Sigma) {
		return errors.Errorf("dataset column length mismatch: q=%d i=%d sigma=%d", len(d.Q), len(d.I), len(d.Sigma))
	}
	if len(d.Q) == 0 {
		return errors.New("dataset has no points")
	}
	for i, s := range d.Sigma {
		if s <= 0 {
			return errors.Errorf("dataset sigma at index %d is non-positive: %g", i, s)
		}
	}
	return nil
}

// Len reports the number of points.
func (d Dataset) Len() int { return len(d.Q) }
