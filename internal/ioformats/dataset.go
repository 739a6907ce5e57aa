package ioformats

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarat-asymmetrica/saxscore/internal/fit"
)

// ReadDataset parses a whitespace-separated experimental I(q) file: 2
// columns (q, I; sigma defaults to 1), 3 columns (q, I, sigma), or 4
// columns (q, I, sigma, and a resolution/extra column that is ignored).
// Lines beginning with #, @, or & are comments (gnuplot/xmgrace/NeXus
// conventions) and are skipped, as are blank lines.
func ReadDataset(r io.Reader) (fit.Dataset, error) {
	var d fit.Dataset

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") || strings.HasPrefix(line, "&") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 4 {
			return fit.Dataset{}, errors.Errorf("line %d: expected 2-4 whitespace-separated columns, got %d", lineNo, len(fields))
		}

		q, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fit.Dataset{}, errors.Wrapf(err, "line %d: parsing q", lineNo)
		}
		i, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fit.Dataset{}, errors.Wrapf(err, "line %d: parsing I", lineNo)
		}

		sigma := 1.0
		if len(fields) >= 3 {
			sigma, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return fit.Dataset{}, errors.Wrapf(err, "line %d: parsing sigma", lineNo)
			}
		}

		d.Q = append(d.Q, q)
		d.I = append(d.I, i)
		d.Sigma = append(d.Sigma, sigma)
	}
	if err := scanner.Err(); err != nil {
		return fit.Dataset{}, errors.Wrap(err, "reading dataset stream")
	}
	if err := d.Validate(); err != nil {
		return fit.Dataset{}, errors.Wrap(err, "parsed dataset failed validation")
	}
	return d, nil
}
