package ioformats

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

const samplePDB = `ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      12.560   6.200  -6.400  1.00  0.00           C
HETATM    3  O   HOH A   2       0.000   0.000   0.000  1.00  0.00           O
END
`

func TestReadPDBParsesAtomAndHetatm(t *testing.T) {
	result, err := ReadPDB(strings.NewReader(samplePDB))
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.InDelta(t, 11.104, result[0].X, 1e-6)
	assert.Equal(t, atoms.ClassN, result[0].Class)
	assert.Equal(t, atoms.ClassC, result[1].Class)
	assert.Equal(t, atoms.ClassO, result[2].Class)
}

func TestReadPDBRejectsEmptyInput(t *testing.T) {
	_, err := ReadPDB(strings.NewReader("REMARK nothing here\n"))
	assert.Error(t, err)
}

const sampleMMCIF = `data_test
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
ATOM 1 N 11.104 6.134 -6.504 1.00
ATOM 2 C 12.560 6.200 -6.400 1.00
#
`

func TestReadMMCIFParsesAtomSiteLoop(t *testing.T) {
	result, err := ReadMMCIF(strings.NewReader(sampleMMCIF))
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.InDelta(t, 11.104, result[0].X, 1e-6)
	assert.Equal(t, atoms.ClassN, result[0].Class)
}

func buildCCP4Header(nx, ny, nz int32, mode VoxelMode) []byte {
	buf := make([]byte, ccp4HeaderBytes)
	order := binary.LittleEndian
	order.PutUint32(buf[0:4], uint32(nx))
	order.PutUint32(buf[4:8], uint32(ny))
	order.PutUint32(buf[8:12], uint32(nz))
	order.PutUint32(buf[12:16], uint32(mode))
	order.PutUint32(buf[40:44], math.Float32bits(10))
	order.PutUint32(buf[44:48], math.Float32bits(10))
	order.PutUint32(buf[48:52], math.Float32bits(10))
	return buf
}

func TestReadCCP4HeaderParsesDimensionsAndMode(t *testing.T) {
	buf := buildCCP4Header(2, 2, 1, ModeFloat32)
	h, err := ReadCCP4Header(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, int32(2), h.Nx)
	assert.Equal(t, int32(2), h.Ny)
	assert.Equal(t, int32(1), h.Nz)
	assert.Equal(t, ModeFloat32, h.Mode)
}

func TestReadCCP4HeaderRejectsUnsupportedMode(t *testing.T) {
	buf := buildCCP4Header(1, 1, 1, VoxelMode(3))
	_, err := ReadCCP4Header(bytes.NewReader(buf))
	assert.Error(t, err)
}

func TestReadCCP4HeaderRejectsShortInput(t *testing.T) {
	_, err := ReadCCP4Header(bytes.NewReader(make([]byte, 100)))
	assert.Error(t, err)
}

func TestReadCCP4DensityReadsFloat32Voxels(t *testing.T) {
	header := buildCCP4Header(2, 1, 1, ModeFloat32)
	h, err := ReadCCP4Header(bytes.NewReader(header))
	require.NoError(t, err)

	voxels := make([]byte, 8)
	binary.LittleEndian.PutUint32(voxels[0:4], math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(voxels[4:8], math.Float32bits(-2.5))

	out, err := ReadCCP4Density(bytes.NewReader(voxels), h)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 1.5, out[0], 1e-6)
	assert.InDelta(t, -2.5, out[1], 1e-6)
}

func TestReadDatasetParsesThreeColumns(t *testing.T) {
	data := "# comment\n0.01 100.0 2.0\n0.02 90.0 1.8\n"
	d, err := ReadDataset(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, d.Q, 2)
	assert.InDelta(t, 0.01, d.Q[0], 1e-9)
	assert.InDelta(t, 100.0, d.I[0], 1e-9)
	assert.InDelta(t, 2.0, d.Sigma[0], 1e-9)
}

func TestReadDatasetDefaultsSigmaForTwoColumns(t *testing.T) {
	d, err := ReadDataset(strings.NewReader("0.01 100.0\n0.02 90.0\n"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d.Sigma[0], 1e-9)
}

func TestReadDatasetRejectsMalformedLine(t *testing.T) {
	_, err := ReadDataset(strings.NewReader("0.01 100.0 2.0 extra garbage\n"))
	assert.Error(t, err)
}

func TestReadDatasetSkipsCommentPrefixes(t *testing.T) {
	data := "@ title\n& legend\n0.01 1.0\n"
	d, err := ReadDataset(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, d.Q, 1)
}
