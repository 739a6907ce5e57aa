package atoms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPadsToLaneWidth(t *testing.T) {
	as := []Atom{
		{X: 0, Y: 0, Z: 0, Weight: 6, Class: ClassC},
		{X: 1, Y: 0, Z: 0, Weight: 7, Class: ClassN},
		{X: 2, Y: 0, Z: 0, Weight: 8, Class: ClassO},
	}
	cc := Pack(as, true)
	require.Equal(t, 3, cc.Len)
	assert.Equal(t, 8, cc.PaddedLen())
	for i := 3; i < cc.PaddedLen(); i++ {
		assert.Zero(t, cc.W[i], "padding slot %d must carry zero weight", i)
	}
	assert.Equal(t, ClassO, cc.Class[2])
}

func TestPackExactMultipleOfLanes(t *testing.T) {
	as := make([]Atom, kernelLanes)
	for i := range as {
		as[i] = Atom{Weight: 1}
	}
	cc := Pack(as, false)
	assert.Equal(t, kernelLanes, cc.PaddedLen())
	assert.Nil(t, cc.Class)
}

func TestBodyTranslateIsExternalModification(t *testing.T) {
	probe := &countingSignaller{}
	b := NewBody(0, []Atom{{X: 0, Y: 0, Z: 0, Weight: 1}})
	b.Bind(probe)

	b.Translate(1, 2, 3)

	require.Len(t, b.Atoms, 1)
	assert.Equal(t, 1.0, b.Atoms[0].X)
	assert.Equal(t, 1, probe.external)
	assert.Equal(t, 0, probe.internal)
}

func TestBodySetAtomsIsInternalModification(t *testing.T) {
	probe := &countingSignaller{}
	b := NewBody(0, []Atom{{Weight: 1}})
	b.Bind(probe)

	b.SetAtoms([]Atom{{Weight: 2}, {Weight: 3}})

	assert.Equal(t, 0, probe.external)
	assert.Equal(t, 1, probe.internal)
	assert.Len(t, b.Atoms, 2)
}

func TestExpandedAtomSetsWithoutSymmetryReturnsSingleCopy(t *testing.T) {
	b := NewBody(0, []Atom{{X: 1, Weight: 1}})
	sets := b.ExpandedAtomSets()
	require.Len(t, sets, 1)
}

func TestExpandedAtomSetsWithSymmetryProducesNPlusOneCopies(t *testing.T) {
	b := NewBody(0, []Atom{{X: 1, Y: 0, Z: 0, Weight: 1}})
	b.Symmetry = &Symmetry{
		Initial:     Transform{Rotation: Identity().Rotation, Translation: [3]float64{2, 0, 0}},
		Repeat:      Transform{Rotation: Identity().Rotation, Translation: [3]float64{2, 0, 0}},
		Repetitions: 2,
	}
	sets := b.ExpandedAtomSets()
	require.Len(t, sets, 3)
	// base copy is unmodified
	assert.Equal(t, 1.0, sets[0][0].X)
}

type countingSignaller struct {
	external int
	internal int
}

func (c *countingSignaller) ModifiedExternal() { c.external++ }
func (c *countingSignaller) ModifiedInternal() { c.internal++ }
