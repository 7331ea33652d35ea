package scale_test

import (
	"testing"

	"github.com/katalvlaran/scales/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogue_InvalidPopulation(t *testing.T) {
	_, err := scale.NewCatalogue(0)
	require.ErrorIs(t, err, scale.ErrInvalidPopulation)
}

func TestNewCatalogue_Sizes(t *testing.T) {
	cases := []struct{ n, want int }{
		{1, 0},  // nothing to weigh against
		{2, 9},  // 4 single-item pans: 10 ordered pairs minus standard-vs-standard
		{3, 9},  // still one item per pan
		{4, 54}, // plus 55 pairs of two-item pans minus 10 with standard on both sides
	}
	for _, tc := range cases {
		c, err := scale.NewCatalogue(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.n, c.N())
		assert.Equal(t, tc.want, c.Len(), "n=%d", tc.n)
	}
}

func TestNewCatalogue_Invariants(t *testing.T) {
	c, err := scale.NewCatalogue(12)
	require.NoError(t, err)
	require.Positive(t, c.Len())

	prevSize := 0
	for _, e := range c.All() {
		assert.True(t, e.Balanced(), "%s", e)
		assert.LessOrEqual(t, e.Left.Compare(e.Right), 0, "left must not exceed right: %s", e)
		assert.True(t, e.Left.Standard == 0 || e.Right.Standard == 0, "standard on both pans: %s", e)
		assert.GreaterOrEqual(t, e.Size(), prevSize, "pan sizes are emitted in ascending order")
		assert.LessOrEqual(t, e.Size(), 6)
		prevSize = e.Size()
	}
}

func TestNewCatalogue_FirstExperiment(t *testing.T) {
	c, err := scale.NewCatalogue(2)
	require.NoError(t, err)
	first := c.At(0)
	assert.Equal(t, scale.Pan{Standard: 1}, first.Left)
	assert.Equal(t, scale.Pan{MaybeHeavy: 1}, first.Right)
}

func TestCatalogue_Feasible(t *testing.T) {
	c, err := scale.NewCatalogue(12)
	require.NoError(t, err)

	s := mustState(t, 12, scale.Counts{Unknown: 12})
	feasible := c.Feasible(s)
	require.NotEmpty(t, feasible)
	for _, e := range feasible {
		assert.Zero(t, e.Left.MaybeLight+e.Right.MaybeLight+e.Left.MaybeHeavy+e.Right.MaybeHeavy)
		assert.Zero(t, e.Left.Standard+e.Right.Standard, "no standard items exist yet")
	}
	// 1..6 unknown items per pan, one experiment each.
	assert.Len(t, feasible, 6)

	other := mustState(t, 13, scale.Counts{Unknown: 12})
	assert.Empty(t, c.Feasible(other), "states of another population never match")
}

func TestCatalogue_EachStops(t *testing.T) {
	c, err := scale.NewCatalogue(8)
	require.NoError(t, err)
	s := mustState(t, 8, scale.Counts{Unknown: 6})

	calls := 0
	c.Each(s, func(scale.Experiment) bool {
		calls++
		return calls < 3
	})
	assert.Equal(t, 3, calls)
}

func TestPan_CompareAndSymbols(t *testing.T) {
	a := scale.Pan{Unknown: 1, Standard: 1}
	b := scale.Pan{Unknown: 1, MaybeLight: 1}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, "? o", a.Symbols())
	assert.Equal(t, "? -  vs  ? o", scale.Experiment{Left: b, Right: a}.String())
}
