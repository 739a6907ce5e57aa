package ioformats

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// ccp4HeaderBytes is the CCP4/MRC header's fixed, strictly-enforced size.
const ccp4HeaderBytes = 1024

// VoxelMode identifies the on-disk bit format of a CCP4/MRC map's voxels.
type VoxelMode int32

const (
	ModeInt8    VoxelMode = 0 // stored as signed byte, widened to int16
	ModeInt16   VoxelMode = 1
	ModeFloat32 VoxelMode = 2
	ModeUint16  VoxelMode = 6
)

func (m VoxelMode) supported() bool {
	switch m {
	case ModeInt8, ModeInt16, ModeFloat32, ModeUint16:
		return true
	default:
		return false
	}
}

// CCP4Header is the bit-exact 1024-byte CCP4/MRC header, laid out at the
// fixed word offsets the format specifies: nx/ny/nz (words 1-3), mode
// (word 4), start indices (words 5-7), cell dimensions and angles (words
// 11-16), axis permutation mapc/mapr/maps (words 17-19), density extrema
// (words 20-22), space group and symmetry-table length (words 23-24), the
// MRC2014 real-space origin (words 50-52), the "MAP " magic and machine
// stamp (words 53-54), and RMS (word 55).
type CCP4Header struct {
	Nx, Ny, Nz       int32
	Mode             VoxelMode
	NCStart, NRStart, NSStart int32
	CellA, CellB, CellC       float32
	CellAlpha, CellBeta, CellGamma float32
	Mapc, Mapr, Maps int32
	Dmin, Dmax, Dmean float32
	ISpg             int32
	NSymbt           int32
	OriginX, OriginY, OriginZ float32
	MachineStamp     [4]byte
	Rms              float32
}

// ReadCCP4Header reads and validates the 1024-byte header from r. Unlike
// the atomic-structure readers, a malformed header is always fatal: there
// is no meaningful way to recover a partial density map.
func ReadCCP4Header(r io.Reader) (CCP4Header, error) {
	buf := make([]byte, ccp4HeaderBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return CCP4Header{}, errors.Wrap(err, "reading CCP4 header: expected exactly 1024 bytes")
	}

	order := binary.LittleEndian
	h := CCP4Header{
		Nx:        int32(order.Uint32(buf[0:4])),
		Ny:        int32(order.Uint32(buf[4:8])),
		Nz:        int32(order.Uint32(buf[8:12])),
		Mode:      VoxelMode(order.Uint32(buf[12:16])),
		NCStart:   int32(order.Uint32(buf[16:20])),
		NRStart:   int32(order.Uint32(buf[20:24])),
		NSStart:   int32(order.Uint32(buf[24:28])),
		CellA:     math.Float32frombits(order.Uint32(buf[40:44])),
		CellB:     math.Float32frombits(order.Uint32(buf[44:48])),
		CellC:     math.Float32frombits(order.Uint32(buf[48:52])),
		CellAlpha: math.Float32frombits(order.Uint32(buf[52:56])),
		CellBeta:  math.Float32frombits(order.Uint32(buf[56:60])),
		CellGamma: math.Float32frombits(order.Uint32(buf[60:64])),
		Mapc:      int32(order.Uint32(buf[64:68])),
		Mapr:      int32(order.Uint32(buf[68:72])),
		Maps:      int32(order.Uint32(buf[72:76])),
		Dmin:      math.Float32frombits(order.Uint32(buf[76:80])),
		Dmax:      math.Float32frombits(order.Uint32(buf[80:84])),
		Dmean:     math.Float32frombits(order.Uint32(buf[84:88])),
		ISpg:      int32(order.Uint32(buf[88:92])),
		NSymbt:    int32(order.Uint32(buf[92:96])),
		OriginX:   math.Float32frombits(order.Uint32(buf[196:200])),
		OriginY:   math.Float32frombits(order.Uint32(buf[200:204])),
		OriginZ:   math.Float32frombits(order.Uint32(buf[204:208])),
		Rms:       math.Float32frombits(order.Uint32(buf[216:220])),
	}
	copy(h.MachineStamp[:], buf[212:216])

	if !h.Mode.supported() {
		return CCP4Header{}, errors.Errorf("unsupported CCP4 voxel mode %d (only 0, 1, 2, 6 are supported)", h.Mode)
	}
	if h.Nx <= 0 || h.Ny <= 0 || h.Nz <= 0 {
		return CCP4Header{}, errors.Errorf("invalid map dimensions nx=%d ny=%d nz=%d", h.Nx, h.Ny, h.Nz)
	}
	return h, nil
}

// bytesPerVoxel reports the on-disk voxel width for a supported mode.
func (m VoxelMode) bytesPerVoxel() int {
	switch m {
	case ModeInt8:
		return 1
	case ModeInt16, ModeUint16:
		return 2
	case ModeFloat32:
		return 4
	default:
		return 0
	}
}

// ReadCCP4Density reads h.Nx*h.Ny*h.Nz voxels following the header,
// widening every supported mode to float64.
func ReadCCP4Density(r io.Reader, h CCP4Header) ([]float64, error) {
	// skip the symmetry-record block (NSymbt bytes) that may follow the
	// header before voxel data begins.
	if h.NSymbt > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(h.NSymbt)); err != nil {
			return nil, errors.Wrap(err, "skipping CCP4 symmetry records")
		}
	}

	count := int(h.Nx) * int(h.Ny) * int(h.Nz)
	width := h.Mode.bytesPerVoxel()
	raw := make([]byte, count*width)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrap(err, "reading CCP4 voxel data")
	}

	order := binary.LittleEndian
	out := make([]float64, count)
	switch h.Mode {
	case ModeInt8:
		for i := 0; i < count; i++ {
			out[i] = float64(int8(raw[i]))
		}
	case ModeInt16:
		for i := 0; i < count; i++ {
			out[i] = float64(int16(order.Uint16(raw[i*2 : i*2+2])))
		}
	case ModeUint16:
		for i := 0; i < count; i++ {
			out[i] = float64(order.Uint16(raw[i*2 : i*2+2]))
		}
	case ModeFloat32:
		for i := 0; i < count; i++ {
			out[i] = float64(math.Float32frombits(order.Uint32(raw[i*4 : i*4+4])))
		}
	}
	return out, nil
}
