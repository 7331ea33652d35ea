// Package analyzer_test contains runnable examples for the analyzer package.
package analyzer_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
)

// ExampleAnalyzer_Analyze solves the classic twelve-coin puzzle.
func ExampleAnalyzer_Analyze() {
	a, _ := analyzer.New(12)
	s, _ := scale.Initial(12, 12)

	res, err := a.Analyze(context.Background(), s)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("worst=%d expected=%.2f\n", res.WorstCase, res.Expected)

	// Output:
	// worst=3 expected=3.00
}

// ExampleAnalyzer_Best picks the first weighing of the twelve-coin puzzle.
func ExampleAnalyzer_Best() {
	a, _ := analyzer.New(12)
	s, _ := scale.Initial(12, 12)

	c, err := a.Best(context.Background(), s, analyzer.WorstCase)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(c.Experiment)
	for _, b := range c.Branches {
		fmt.Printf("'%s' -> %s wc=%d\n", b.Outcome, b.Child.Symbols(), b.Result.WorstCase)
	}

	// Output:
	// ? ? ? ?  vs  ? ? ? ?
	// '=' -> ? ? ? ? o o o o o o o o wc=2
	// '<' -> - - - - + + + + o o o o wc=2
	// '>' -> - - - - + + + + o o o o wc=2
}

// ExampleAnalyzer_Explain lists the weighings available from a small state.
func ExampleAnalyzer_Explain() {
	a, _ := analyzer.New(4)
	s, _ := scale.Initial(4, 4)

	cands, _ := a.Explain(context.Background(), s)
	for _, c := range cands {
		fmt.Printf("%s free=%d viable=%t wc=%d\n", c.Experiment, c.MaxFree, c.Viable, c.Result.WorstCase)
	}

	// Output:
	// ?  vs  ? free=4 viable=true wc=3
	// ? ?  vs  ? ? free=4 viable=true wc=3
}
