// Package ioformats implements the file readers the core consumes but
// never parses itself: PDB/mmCIF atomic structures, CCP4/MRC density maps,
// and whitespace-separated experimental scattering datasets.
package ioformats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

// electronCounts maps a PDB element symbol to its nominal electron count,
// used to derive each atom's scattering weight (occupancy x electrons).
var electronCounts = map[string]float64{
	"H": 1, "C": 6, "N": 7, "O": 8, "S": 16, "P": 15,
}

// classForElement buckets a bare element symbol into the nearest
// form-factor class; explicit-hydrogen grouping (CH/CH2/CH3/NH/NH2/OH/SH)
// requires residue-level chemistry this reader does not attempt, so every
// element maps to its bare class and any hydrogen-folding is left to a
// higher layer that has residue context.
func classForElement(element string) atoms.FormFactorClass {
	switch strings.ToUpper(strings.TrimSpace(element)) {
	case "N":
		return atoms.ClassN
	case "O":
		return atoms.ClassO
	case "S":
		return atoms.ClassS
	default:
		return atoms.ClassC
	}
}

// ReadPDB parses ATOM/HETATM records from r into a flat atom list, fixed
// columns per the PDB format spec: serial (7-11), name (13-16), altLoc
// (17), resName (18-20), chainID (22), resSeq (23-26), x/y/z (31-38,
// 39-46, 47-54), occupancy (55-60), tempFactor (61-66), element (77-78).
// Malformed individual lines are skipped rather than aborting the whole
// read, matching how real-world PDB files carry the occasional truncated
// or non-standard record.
func ReadPDB(r io.Reader) ([]atoms.Atom, error) {
	var result []atoms.Atom

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}
		isAtom := line[0:4] == "ATOM"
		isHetatm := len(line) >= 6 && line[0:6] == "HETATM"
		if !isAtom && !isHetatm {
			if len(line) >= 3 && line[0:3] == "END" {
				break
			}
			continue
		}

		a, err := parsePDBLine(line)
		if err != nil {
			continue
		}
		result = append(result, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading PDB stream")
	}
	if len(result) == 0 {
		return nil, errors.New("no ATOM/HETATM records found")
	}
	return result, nil
}

func parsePDBLine(line string) (atoms.Atom, error) {
	for len(line) < 80 {
		line += " "
	}
	if len(line) < 54 {
		return atoms.Atom{}, errors.Errorf("line too short: %d characters", len(line))
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	if err != nil {
		return atoms.Atom{}, errors.Wrap(err, "parsing x coordinate")
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	if err != nil {
		return atoms.Atom{}, errors.Wrap(err, "parsing y coordinate")
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	if err != nil {
		return atoms.Atom{}, errors.Wrap(err, "parsing z coordinate")
	}

	occupancy := 1.0
	if len(line) >= 60 {
		if occ, err := strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64); err == nil {
			occupancy = occ
		}
	}

	element := ""
	if len(line) >= 78 {
		element = strings.TrimSpace(line[76:78])
	}
	if element == "" {
		element = strings.TrimSpace(line[12:14])
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

// elementForClass is classForElement's rough inverse, used only to fill
// WritePDB's element column; exv pseudo-atoms and water get synthetic
// symbols ("X", "O") since they carry no real chemistry.
func elementForClass(c atoms.FormFactorClass) string {
	switch c {
	case atoms.ClassN, atoms.ClassNH, atoms.ClassNH2:
		return "N"
	case atoms.ClassO, atoms.ClassOH, atoms.ClassWaterO:
		return "O"
	case atoms.ClassS, atoms.ClassSH:
		return "S"
	case atoms.ClassEXV, atoms.ClassEXVSurface:
		return "X"
	default:
		return "C"
	}
}

// WritePDB emits atoms as HETATM records in fixed PDB columns, for a
// caller that wants to inspect a hydrated or transformed structure rather
// than just its fitted I(q). Every record uses residue name "DUM" and
// chain "A"; this writer is a diagnostic dump, not a round-trip-faithful
// structure file.
func WritePDB(w io.Writer, all []atoms.Atom) error {
	bw := bufio.NewWriter(w)
	for i, a := range all {
		serial := (i + 1) % 100000
		element := elementForClass(a.Class)
		name := element
		if len(name) < 4 {
			name = fmt.Sprintf(" %-3s", name)
		}
		_, err := fmt.Fprintf(bw, "HETATM%5d %4s %3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			serial, name, "DUM", 'A', (i+1)%10000, a.X, a.Y, a.Z, 1.0, 0.0, element)
		if err != nil {
			return errors.Wrap(err, "writing PDB record")
		}
	}
	if _, err := fmt.Fprintln(bw, "END"); err != nil {
		return errors.Wrap(err, "writing PDB terminator")
	}
	return bw.Flush()
}
