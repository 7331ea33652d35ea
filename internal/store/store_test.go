package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/store"
	"github.com/katalvlaran/scales/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Drivers(t *testing.T) {
	st, err := store.Open("none", "", nil)
	require.NoError(t, err)
	assert.IsType(t, store.Nop{}, st)

	_, err = store.Open("redis", "localhost", nil)
	require.ErrorIs(t, err, store.ErrUnknownDriver)

	for _, driver := range []string{"sqlite", "badger"} {
		st, err := store.Open(driver, filepath.Join(t.TempDir(), driver), nil)
		require.NoError(t, err, driver)
		require.NoError(t, st.Close(), driver)
	}
}

func TestWarmStart(t *testing.T) {
	for _, driver := range []string{"sqlite", "badger"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			st, err := store.Open(driver, filepath.Join(t.TempDir(), "memo"), nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = st.Close() })

			s, err := scale.Initial(12, 12)
			require.NoError(t, err)

			cold, err := analyzer.New(12)
			require.NoError(t, err)
			want, err := cold.Analyze(ctx, s)
			require.NoError(t, err)
			empty, err := analyzer.New(12)
			require.NoError(t, err)
			ws, err := store.Warm(ctx, st, empty)
			require.NoError(t, err)
			assert.Equal(t, store.WarmStart{}, ws, "nothing saved yet")

			runID := store.NewRunID()
			require.NoError(t, store.Persist(ctx, st, cold, runID))

			warm, err := analyzer.New(12)
			require.NoError(t, err)
			ws, err = store.Warm(ctx, st, warm)
			require.NoError(t, err)
			assert.Equal(t, store.WarmStart{Entries: 55, LastRun: runID}, ws)

			got, err := warm.Analyze(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Zero(t, warm.Stats().Evaluations)
		})
	}
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var st store.Store = store.Nop{}
	require.NoError(t, st.Save(ctx, 3, "x", nil))
	entries, err := st.Load(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
	last, err := st.LastRun(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, last)
	require.NoError(t, st.Close())
}

func TestNewRunID(t *testing.T) {
	id := store.NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, store.NewRunID())
}
