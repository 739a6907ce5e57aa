package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
)

func testCoords() *atoms.CompactCoordinates {
	return atoms.Pack([]atoms.Atom{
		{X: 0, Y: 0, Z: 0, Weight: 2},
		{X: 1, Y: 0, Z: 0, Weight: 3},
		{X: 0, Y: 2, Z: 0, Weight: 4},
	}, false)
}

func TestScalarRoundedLaneBinsAndWeights(t *testing.T) {
	cc := testCoords()
	ax := Axis{BinWidth: 0.5, Bins: 10}

	r := Scalar{}.RoundedLane(cc, cc, 0, 0, ax)

	// lane 0: atom 0 vs itself, distance 0 -> bin 0, weight 2*2=4
	assert.Equal(t, 0, r.Bins[0])
	assert.InDelta(t, 4.0, r.Weight[0], 1e-12)

	// lane 1: atom 0 vs atom 1, distance 1.0 -> bin 2
	assert.Equal(t, 2, r.Bins[1])
	assert.InDelta(t, 6.0, r.Weight[1], 1e-12)

	// lane 2: atom 0 vs atom 2, distance 2.0 -> bin 4
	assert.Equal(t, 4, r.Bins[2])
	assert.InDelta(t, 8.0, r.Weight[2], 1e-12)

	// padding lanes (3..7): the base atom is at the origin, so padding atoms (also at the
	// origin, with zero weight) land in bin 0 but contribute zero weight.
	for lane := 3; lane < Lanes; lane++ {
		assert.InDelta(t, 0.0, r.Weight[lane], 1e-12, "padding lane %d must carry zero weight", lane)
	}
}

func TestScalarWeightedLanePopulatesDist(t *testing.T) {
	cc := testCoords()
	ax := Axis{BinWidth: 0.1, Bins: 100}

	r := Scalar{}.WeightedLane(cc, cc, 0, 0, ax)
	assert.InDelta(t, 0.0, r.Dist[0], 1e-12)
	assert.InDelta(t, 1.0, r.Dist[1], 1e-12)
	assert.InDelta(t, 2.0, r.Dist[2], 1e-12)
}

func TestAxisBinOutOfRangeReturnsNegativeOne(t *testing.T) {
	ax := Axis{BinWidth: 0.1, Bins: 5}
	assert.Equal(t, -1, ax.Bin(1.0))
	assert.GreaterOrEqual(t, ax.Bin(0.05), 0)
}

func TestScalarAndSelectedKernelAgree(t *testing.T) {
	k := Select()
	if k.Name() == "scalar" {
		t.Skip("no widened path available on this platform/build")
	}
	cc := testCoords()
	ax := Axis{BinWidth: 0.01, Bins: 1000}

	scalar := Scalar{}.WeightedLane(cc, cc, 1, 0, ax)
	widened := k.WeightedLane(cc, cc, 1, 0, ax)
	require.Equal(t, scalar.Bins, widened.Bins)
	for lane := range scalar.Dist {
		assert.InDelta(t, scalar.Dist[lane], widened.Dist[lane], 2*math.Nextafter(1, 2)-2)
		assert.InDelta(t, scalar.Weight[lane], widened.Weight[lane], 1e-12)
	}
}
