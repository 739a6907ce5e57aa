package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/fit"
	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
)

func TestNewRootCmdWiresEverySubcommand(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Use] = true
	}
	assert.True(t, names["intensity"])
	assert.True(t, names["em"])
	assert.True(t, names["rigid-body"])
}

func TestClampQRangeDropsOutOfRangePoints(t *testing.T) {
	d := fit.Dataset{Q: []float64{0.01, 0.05, 0.1, 0.2}, I: []float64{4, 3, 2, 1}, Sigma: []float64{1, 1, 1, 1}}
	out := clampQRange(d, 0.02, 0.15)
	require.Equal(t, []float64{0.05, 0.1}, out.Q)
	assert.Equal(t, []float64{3, 2}, out.I)
}

func TestClampQRangeNoopWhenBothZero(t *testing.T) {
	d := fit.Dataset{Q: []float64{0.01, 0.05}, I: []float64{1, 2}, Sigma: []float64{1, 1}}
	out := clampQRange(d, 0, 0)
	assert.Equal(t, d, out)
}

func TestFitFlagsActiveMapsExvAndBfactor(t *testing.T) {
	f := fitFlags{exv: true, bfactor: true}
	active := f.active()
	assert.True(t, active.Cx)
	assert.True(t, active.Ba)
	assert.True(t, active.Bx)
	assert.False(t, active.Cw)
}

func TestFitFlagsActiveBfactorWithoutExvLeavesBxFalse(t *testing.T) {
	f := fitFlags{bfactor: true}
	active := f.active()
	assert.True(t, active.Ba)
	assert.False(t, active.Bx)
}

func TestBoundingDiagonalOfTwoPoints(t *testing.T) {
	all := []atoms.Atom{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 4, Z: 0}}
	assert.InDelta(t, 5.0, boundingDiagonal(all), 1e-9)
}

func TestSplitIntoBodiesReturnsSingleBodyBelowThreshold(t *testing.T) {
	all := []atoms.Atom{{X: 0}, {X: 1}}
	bodies := splitIntoBodies(all)
	require.Len(t, bodies, 1)
}

func TestSplitIntoBodiesBisectsLongestAxis(t *testing.T) {
	all := []atoms.Atom{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 9, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
	}
	bodies := splitIntoBodies(all)
	require.Len(t, bodies, 2)
	assert.NotEqual(t, len(bodies[0].Atoms), 0)
	assert.NotEqual(t, len(bodies[1].Atoms), 0)
}

func TestInvertTransformUndoesTranslation(t *testing.T) {
	tr := atoms.Transform{Rotation: atoms.Identity().Rotation, Translation: [3]float64{1, 2, 3}}
	inv := invertTransform(tr)
	x, y, z := tr.Apply(5, 6, 7)
	x, y, z = inv.Apply(x, y, z)
	assert.InDelta(t, 5.0, x, 1e-9)
	assert.InDelta(t, 6.0, y, 1e-9)
	assert.InDelta(t, 7.0, z, 1e-9)
}

func TestRoundRobinSelectorCyclesThroughBodies(t *testing.T) {
	s := roundRobinSelector{}
	assert.Equal(t, 0, s.Select(3, 0))
	assert.Equal(t, 1, s.Select(3, 1))
	assert.Equal(t, 2, s.Select(3, 2))
	assert.Equal(t, 0, s.Select(3, 3))
}

func TestIdentityTransformerAlwaysReturnsIdentity(t *testing.T) {
	tr := identityTransformer{}.Propose(nil, 0, 1.0)
	assert.Equal(t, atoms.Identity(), tr)
}

func TestParseExvModelKindMapsKnownNames(t *testing.T) {
	assert.Equal(t, intensity.ExvModelFoXS, parseExvModelKind("foxs"))
	assert.Equal(t, intensity.ExvModelDefault, parseExvModelKind(""))
}
