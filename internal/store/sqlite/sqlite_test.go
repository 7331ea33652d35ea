package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/store/sqlite"
	"github.com/katalvlaran/scales/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solvedEntries(t *testing.T, n, unknown int) []analyzer.Entry {
	t.Helper()
	a, err := analyzer.New(n)
	require.NoError(t, err)
	s, err := scale.Initial(n, unknown)
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), s)
	require.NoError(t, err)
	return a.Entries()
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "memo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	entries := solvedEntries(t, 8, 8)

	require.NoError(t, st.Save(ctx, 8, "run-1", entries))
	got, err := st.Load(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, entries, got, "Entries and Load share the same ordering")

	other, err := st.Load(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSave_Upserts(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	entries := solvedEntries(t, 6, 6)

	require.NoError(t, st.Save(ctx, 6, "run-1", entries))
	require.NoError(t, st.Save(ctx, 6, "run-2", entries))

	got, err := st.Load(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, got, len(entries))

	runs, err := st.Runs(ctx, 6)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 6, runs[0].Population)
	assert.Equal(t, len(entries), runs[1].Entries)
	assert.False(t, runs[1].CreatedAt.IsZero())

	last, err := st.LastRun(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "run-2", last)

	none, err := st.LastRun(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSave_RejectsForeignPopulation(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	require.Error(t, st.Save(ctx, 7, "run-x", solvedEntries(t, 6, 6)))
	got, err := st.Load(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, got, "failed save rolls back")

	runs, err := st.Runs(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open("")
	require.Error(t, err)
}
