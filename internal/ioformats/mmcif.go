package ioformats

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

// ReadMMCIF parses the atom_site loop of an mmCIF file into a flat atom
// list. Only the loop's column-name header and its whitespace-separated
// data rows are read; every other mmCIF category is ignored, matching the
// core's "structure in, atoms out" boundary.
func ReadMMCIF(r io.Reader) ([]atoms.Atom, error) {
	scanner := bufio.NewScanner(r)

	var columns []string
	inAtomSiteLoop := false
	inHeader := false
	var result []atoms.Atom

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "loop_" {
			inHeader = false
			columns = nil
			inAtomSiteLoop = false
			continue
		}

		if strings.HasPrefix(line, "_atom_site.") {
			if !inHeader && columns == nil {
				inHeader = true
			}
			if inHeader {
				columns = append(columns, strings.TrimPrefix(line, "_atom_site."))
				inAtomSiteLoop = true
				continue
			}
		}

		if inAtomSiteLoop {
			if strings.HasPrefix(line, "_") || line == "#" {
				inAtomSiteLoop = false
				inHeader = false
				continue
			}
			inHeader = false
			fields := strings.Fields(line)
			if len(fields) < len(columns) {
				continue
			}
			a, err := parseMMCIFRow(columns, fields)
			if err != nil {
				continue
			}
			result = append(result, a)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading mmCIF stream")
	}
	if len(result) == 0 {
		return nil, errors.New("no atom_site rows found")
	}
	return result, nil
}

func parseMMCIFRow(columns, fields []string) (atoms.Atom, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}

	col := func(name string) (string, bool) {
		i, ok := idx[name]
		if !ok || i >= len(fields) {
			return "", false
		}
		return fields[i], true
	}

	xs, ok := col("Cartn_x")
	if !ok {
		return atoms.Atom{}, errors.New("missing Cartn_x column")
	}
	ys, ok := col("Cartn_y")
	if !ok {
		return atoms.Atom{}, errors.New("missing Cartn_y column")
	}
	zs, ok := col("Cartn_z")
	if !ok {
		return atoms.Atom{}, errors.New("missing Cartn_z column")
	}

	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return atoms.Atom{}, errors.Wrap(err, "parsing Cartn_x")
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return atoms.Atom{}, errors.Wrap(err, "parsing Cartn_y")
	}
	z, err := strconv.ParseFloat(zs, 64)
	if err != nil {
		return atoms.Atom{}, errors.Wrap(err, "parsing Cartn_z")
	}

	occupancy := 1.0
	if occs, ok := col("occupancy"); ok {
		if v, err := strconv.ParseFloat(occs, 64); err == nil {
			occupancy = v
		}
	}

	element := "C"
	if es, ok := col("type_symbol"); ok && es != "" && es != "." {
		element = es
	}
	electrons, ok := electronCounts[strings.ToUpper(element)]
	if !ok {
		electrons = 6
	}

	return atoms.Atom{
		X:      x,
		Y:      y,
		Z:      z,
		Weight: occupancy * electrons,
		Class:  classForElement(element),
	}, nil
}
