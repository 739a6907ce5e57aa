package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxscore/internal/atoms"
	"github.com/sarat-asymmetrica/saxscore/internal/kernel"
	"github.com/sarat-asymmetrica/saxscore/internal/threadpool"
)

func twoBodyMolecule() *atoms.Molecule {
	b0 := atoms.NewBody(0, []atoms.Atom{{X: 0, Y: 0, Z: 0, Weight: 1, Class: atoms.ClassC}})
	b1 := atoms.NewBody(1, []atoms.Atom{{X: 5, Y: 0, Z: 0, Weight: 1, Class: atoms.ClassN}})
	return atoms.NewMolecule([]*atoms.Body{b0, b1})
}

func newTestCache() *PartialHistogramCache {
	return NewPartialHistogramCache(kernel.Axis{BinWidth: 0.5, Bins: 20}, threadpool.New(2), kernel.Scalar{})
}

func TestRecalculateFromFreshStateComputesAllPartials(t *testing.T) {
	mol := twoBodyMolecule()
	c := newTestCache()
	c.Bind(mol)
	c.Recalculate(mol)

	require.NotNil(t, c.selfPartials[0])
	require.NotNil(t, c.selfPartials[1])
	_, ok := c.crossPartials[pairKey{0, 1}]
	require.True(t, ok)

	var sum float64
	for _, w := range c.Composite().Values() {
		sum += w
	}
	// two self-correlations (1 each) + one cross pair at distance 5, doubled
	assert.InDelta(t, 4.0, sum, 1e-9)
}

func TestExternalModificationDoesNotRebuildSelfPartial(t *testing.T) {
	mol := twoBodyMolecule()
	c := newTestCache()
	c.Bind(mol)
	c.Recalculate(mol)

	before := c.selfPartials[0]
	mol.Bodies[0].Translate(1, 0, 0)
	c.Recalculate(mol)

	assert.Same(t, before, c.selfPartials[0], "translation must not rebuild the self-partial")
	assert.False(t, c.state.Modified(), "flags must clear after recalculate")
}

func TestInternalModificationRebuildsSelfAndCrossPartials(t *testing.T) {
	mol := twoBodyMolecule()
	c := newTestCache()
	c.Bind(mol)
	c.Recalculate(mol)

	beforeSelf := c.selfPartials[0]
	beforeCross := c.crossPartials[pairKey{0, 1}]

	mol.Bodies[0].SetAtoms([]atoms.Atom{
		{X: 0, Y: 0, Z: 0, Weight: 1, Class: atoms.ClassC},
		{X: 1, Y: 0, Z: 0, Weight: 1, Class: atoms.ClassC},
	})
	c.Recalculate(mol)

	assert.NotSame(t, beforeSelf, c.selfPartials[0])
	assert.NotSame(t, beforeCross, c.crossPartials[pairKey{0, 1}])
}

func TestHydrationModificationRebuildsHydrationPartialsOnly(t *testing.T) {
	mol := twoBodyMolecule()
	c := newTestCache()
	c.Bind(mol)
	c.Recalculate(mol)

	beforeSelf := c.selfPartials[0]
	mol.SetHydration([]atoms.Atom{{X: 2, Y: 0, Z: 0, Weight: 0.5, Class: atoms.ClassWaterO}})
	c.Recalculate(mol)

	assert.Same(t, beforeSelf, c.selfPartials[0])
	require.NotNil(t, c.hydHyd)
	require.NotNil(t, c.hydBody[0])
	require.NotNil(t, c.hydBody[1])
}

func TestRecalculateIsNoopWhenNothingModified(t *testing.T) {
	mol := twoBodyMolecule()
	c := newTestCache()
	c.Bind(mol)
	c.Recalculate(mol)

	before := c.selfPartials[0]
	c.Recalculate(mol) // state already clean
	assert.Same(t, before, c.selfPartials[0])
}
