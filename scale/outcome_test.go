package scale_test

import (
	"testing"

	"github.com/katalvlaran/scales/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_Balance(t *testing.T) {
	s := mustState(t, 12, scale.Counts{Unknown: 12})
	e := scale.Experiment{Left: scale.Pan{Unknown: 4}, Right: scale.Pan{Unknown: 4}}

	got, err := scale.Apply(s, e, scale.Balance)
	require.NoError(t, err)
	assert.Equal(t, mustState(t, 12, scale.Counts{Unknown: 4}), got)
	assert.Equal(t, 8, got.Standard())
}

func TestApply_LeftLighter(t *testing.T) {
	s := mustState(t, 12, scale.Counts{Unknown: 12})
	e := scale.Experiment{Left: scale.Pan{Unknown: 4}, Right: scale.Pan{Unknown: 4}}

	got, err := scale.Apply(s, e, scale.LeftLighter)
	require.NoError(t, err)
	assert.Equal(t, mustState(t, 12, scale.Counts{MaybeLight: 4, MaybeHeavy: 4}), got)
}

func TestApply_MixedPans(t *testing.T) {
	// ? ? - vs + + o, left heavier: the left unknowns may be heavy, the
	// right maybe-heavy items are cleared, the left maybe-light is cleared.
	s := mustState(t, 10, scale.Counts{Unknown: 3, MaybeLight: 2, MaybeHeavy: 3})
	e := scale.Experiment{
		Left:  scale.Pan{Unknown: 2, MaybeLight: 1},
		Right: scale.Pan{MaybeHeavy: 2, Standard: 1},
	}
	got, err := scale.Apply(s, e, scale.LeftHeavier)
	require.NoError(t, err)
	assert.Equal(t, mustState(t, 10, scale.Counts{MaybeHeavy: 2}), got)

	bal, err := scale.Apply(s, e, scale.Balance)
	require.NoError(t, err)
	assert.Equal(t, mustState(t, 10, scale.Counts{Unknown: 1, MaybeLight: 1, MaybeHeavy: 1}), bal)
}

func TestApply_CollapseToConfirmed(t *testing.T) {
	s := mustState(t, 4, scale.Counts{MaybeLight: 2, MaybeHeavy: 1})
	e := scale.Experiment{Left: scale.Pan{MaybeLight: 1}, Right: scale.Pan{Standard: 1}}

	got, err := scale.Apply(s, e, scale.LeftLighter)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Light())
	assert.True(t, got.Terminal())

	bal, err := scale.Apply(s, e, scale.Balance)
	require.NoError(t, err)
	assert.Equal(t, mustState(t, 4, scale.Counts{MaybeLight: 1, MaybeHeavy: 1}), bal, "two open candidates remain")
}

func TestApply_ZeroSizeBalanceIsNoOp(t *testing.T) {
	states := []scale.State{
		mustState(t, 12, scale.Counts{Unknown: 12}),
		mustState(t, 9, scale.Counts{Unknown: 2, MaybeLight: 3, MaybeHeavy: 1}),
		mustState(t, 5, scale.Counts{Heavy: 1}),
		mustState(t, 5, scale.Counts{}),
	}
	for _, s := range states {
		got, err := scale.Apply(s, scale.Experiment{}, scale.Balance)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestApply_MirrorSymmetry(t *testing.T) {
	const n = 8
	c, err := scale.NewCatalogue(n)
	require.NoError(t, err)
	s := mustState(t, n, scale.Counts{Unknown: 3, MaybeLight: 2, MaybeHeavy: 2})

	for _, e := range c.Feasible(s) {
		a, err := scale.Apply(s, e, scale.LeftLighter)
		require.NoError(t, err)
		b, err := scale.Apply(s, e.Mirror(), scale.LeftHeavier)
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s", e)
	}
}

func TestApply_SumInvariant(t *testing.T) {
	const n = 9
	c, err := scale.NewCatalogue(n)
	require.NoError(t, err)

	for u := 0; u <= n; u++ {
		for ml := 0; u+ml <= n; ml++ {
			for mh := 0; u+ml+mh <= n; mh++ {
				s := mustState(t, n, scale.Counts{Unknown: u, MaybeLight: ml, MaybeHeavy: mh})
				for _, e := range c.Feasible(s) {
					children, err := scale.Children(s, e)
					require.NoError(t, err)
					for _, child := range children {
						require.Equal(t, n, child.N(), "%s after %s", s, e)
						require.GreaterOrEqual(t, child.Standard(), 0)
						require.LessOrEqual(t, child.Free(), s.Free(), "knowledge never shrinks")
					}
				}
			}
		}
	}
}

func TestApply_Rejects(t *testing.T) {
	s := mustState(t, 6, scale.Counts{Unknown: 2})

	tooMany := scale.Experiment{Left: scale.Pan{Unknown: 2}, Right: scale.Pan{Unknown: 2}}
	_, err := scale.Apply(s, tooMany, scale.Balance)
	require.ErrorIs(t, err, scale.ErrInfeasibleExperiment)

	noMaybe := scale.Experiment{Left: scale.Pan{MaybeLight: 1}, Right: scale.Pan{Standard: 1}}
	_, err = scale.Children(s, noMaybe)
	require.ErrorIs(t, err, scale.ErrInfeasibleExperiment)

	negative := scale.Experiment{Left: scale.Pan{Unknown: -1, Standard: 2}, Right: scale.Pan{Standard: 1}}
	_, err = scale.Apply(s, negative, scale.Balance)
	require.ErrorIs(t, err, scale.ErrInfeasibleExperiment)

	unbalanced := scale.Experiment{Left: scale.Pan{Unknown: 2}, Right: scale.Pan{Standard: 1}}
	_, err = scale.Apply(s, unbalanced, scale.Balance)
	require.ErrorIs(t, err, scale.ErrUnbalancedPans)

	ok := scale.Experiment{Left: scale.Pan{Unknown: 1}, Right: scale.Pan{Standard: 1}}
	_, err = scale.Apply(s, ok, scale.Outcome(9))
	require.ErrorIs(t, err, scale.ErrUnknownOutcome)
}

func TestProbabilities(t *testing.T) {
	s := mustState(t, 12, scale.Counts{Unknown: 12})
	e := scale.Experiment{Left: scale.Pan{Unknown: 4}, Right: scale.Pan{Unknown: 4}}
	p := scale.Probabilities(s, e)
	assert.InDelta(t, 8.0/24, p[0], 1e-12)
	assert.InDelta(t, 8.0/24, p[1], 1e-12)
	assert.InDelta(t, 8.0/24, p[2], 1e-12)

	// - - vs + o: "<" means a light left item or the heavy right one (3 of 5
	// hypotheses); ">" would need a heavy left or light right item (none).
	s2 := mustState(t, 6, scale.Counts{MaybeLight: 3, MaybeHeavy: 2})
	e2 := scale.Experiment{Left: scale.Pan{MaybeLight: 2}, Right: scale.Pan{MaybeHeavy: 1, Standard: 1}}
	p2 := scale.Probabilities(s2, e2)
	assert.InDelta(t, 2.0/5, p2[0], 1e-12)
	assert.InDelta(t, 3.0/5, p2[1], 1e-12)
	assert.InDelta(t, 0.0, p2[2], 1e-12)
	assert.InDelta(t, 1.0, p2[0]+p2[1]+p2[2], 1e-12)

	assert.Equal(t, [3]float64{}, scale.Probabilities(mustState(t, 3, scale.Counts{}), scale.Experiment{}))
}
