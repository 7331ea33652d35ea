package analyzer_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
)

// BenchmarkAnalyze_Cold solves the twelve-coin puzzle from an empty memo table.
func BenchmarkAnalyze_Cold(b *testing.B) {
	ctx := context.Background()
	s, _ := scale.Initial(12, 12)

	b.ReportAllocs()
	for b.Loop() {
		a, err := analyzer.New(12)
		if err != nil {
			b.Fatal(err)
		}
		if _, err = a.Analyze(ctx, s); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAnalyze_Warm measures a memoized root lookup.
func BenchmarkAnalyze_Warm(b *testing.B) {
	ctx := context.Background()
	s, _ := scale.Initial(14, 12)
	a, err := analyzer.New(14)
	if err != nil {
		b.Fatal(err)
	}
	if _, err = a.Analyze(ctx, s); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err = a.Analyze(ctx, s); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExplain_n14 lists every weighing from the default starting state.
func BenchmarkExplain_n14(b *testing.B) {
	ctx := context.Background()
	s, _ := scale.Initial(14, 12)
	a, err := analyzer.New(14)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err = a.Explain(ctx, s); err != nil {
			b.Fatal(err)
		}
	}
}
