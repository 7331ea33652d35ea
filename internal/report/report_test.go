package report_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/report"
	"github.com/katalvlaran/scales/scale"
	"github.com/katalvlaran/scales/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	var buf bytes.Buffer
	s, err := scale.Initial(14, 12)
	require.NoError(t, err)

	report.New(&buf).Result(s, analyzer.Result{WorstCase: 3, Expected: 3})
	out := buf.String()
	assert.Contains(t, out, "(12 0 0 2 0 0) free=24 wc=3 exp=3.00")
	assert.Contains(t, out, "? ? ? ? ? ? ? ? ? ? ? ? o o")
	assert.NotContains(t, out, "\x1b[", "no colour codes outside a terminal")
}

func TestExplain(t *testing.T) {
	ctx := context.Background()
	a, err := analyzer.New(12)
	require.NoError(t, err)
	s, err := scale.Initial(12, 12)
	require.NoError(t, err)
	res, err := a.Analyze(ctx, s)
	require.NoError(t, err)
	cands, err := a.Explain(ctx, s)
	require.NoError(t, err)

	var buf bytes.Buffer
	report.New(&buf).Explain(s, analyzer.Solved, res, cands)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "(12 0 0 0 0 0) free=24 wc=3 exp=3.00\n"))
	assert.Contains(t, out, "\n? ? ? ?  vs  ? ? ? ?\n  free=8 wc=3 exp=3.00\n")
	assert.Contains(t, out, "    '=' [P=0.33] -> (4 0 0 8 0 0): free=8 wc=2 exp=2.00\n")
	assert.Contains(t, out, "    '<' [P=0.33] -> (0 4 4 4 0 0): free=8 wc=2 exp=2.00\n")
	assert.Less(t, strings.Index(out, "? ? ? ?  vs"), strings.Index(out, "? ? ? ? ?  vs"),
		"4 vs 4 (free 8) is listed before 5 vs 5 (free 10)")
}

func TestExplain_Unsolvable(t *testing.T) {
	ctx := context.Background()
	a, err := analyzer.New(2)
	require.NoError(t, err)
	s, err := scale.Initial(2, 2)
	require.NoError(t, err)
	cands, err := a.Explain(ctx, s)
	require.NoError(t, err)

	var buf bytes.Buffer
	report.New(&buf).Explain(s, analyzer.Unsolvable, analyzer.Result{}, cands)
	out := buf.String()
	assert.Contains(t, out, "(2 0 0 0 0 0) free=4 unsolvable")
	assert.Contains(t, out, "  free=2 unsolvable")
	assert.NotContains(t, out, "'=' [P=0.00]", "impossible outcomes are hidden")
}

func TestTree(t *testing.T) {
	ctx := context.Background()
	a, err := analyzer.New(4)
	require.NoError(t, err)
	s, err := scale.Initial(4, 2)
	require.NoError(t, err)
	tree, err := strategy.Build(ctx, a, s, analyzer.WorstCase)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.New(&buf).Tree(tree))
	assert.Equal(t, strings.Join([]string{
		"strategy (worst-case) depth=2 leaves=4 expected=1.50",
		"o  vs  ?",
		"  '=' [P=0.50] o  vs  ?",
		"    '<' [P=0.50] heavy found",
		"    '>' [P=0.50] light found",
		"  '<' [P=0.25] heavy found",
		"  '>' [P=0.25] light found",
		"",
	}, "\n"), buf.String())
}

func TestSweep(t *testing.T) {
	var buf bytes.Buffer
	report.New(&buf).Sweep([]report.SweepRow{
		{Population: 12, Unknown: 12, Result: analyzer.Result{WorstCase: 3, Expected: 3}, Evaluations: 55, Elapsed: time.Millisecond},
		{Population: 2, Unknown: 2, Status: analyzer.Unsolvable},
		{Population: 30, Unknown: 30, Err: errors.New("budget exceeded")},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "evaluations")
	assert.Equal(t, "  12      12    3   3.0000          55        1ms", lines[1])
	assert.Contains(t, lines[2], "unsolvable")
	assert.Contains(t, lines[3], "budget exceeded")
}

func TestCatalogue(t *testing.T) {
	c, err := scale.NewCatalogue(4)
	require.NoError(t, err)
	s, err := scale.Initial(4, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	p := report.New(&buf)
	p.Catalogue(c, nil)
	assert.Contains(t, buf.String(), "54 of 54 experiments (N=4)")

	buf.Reset()
	p.Catalogue(c, &s)
	assert.Contains(t, buf.String(), "?  vs  ?")
	assert.Contains(t, buf.String(), "2 of 54 experiments (N=4)")
}
