// Package report renders analyzer results as terminal text. Colours are
// applied only when the destination is a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
	"github.com/katalvlaran/scales/strategy"
)

var (
	colorTeal  = lipgloss.Color("#20B9B4")
	colorGold  = lipgloss.Color("#F4D03F")
	colorRed   = lipgloss.Color("#E74C3C")
	colorSlate = lipgloss.Color("#2C4A54")
)

type styles struct {
	title   lipgloss.Style
	bold    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// Printer writes reports to one destination.
type Printer struct {
	w io.Writer
	s styles
}

// New returns a Printer whose colour profile follows w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		s: styles{
			title:   r.NewStyle().Bold(true).Foreground(colorTeal),
			bold:    r.NewStyle().Bold(true),
			muted:   r.NewStyle().Foreground(colorSlate),
			success: r.NewStyle().Foreground(colorTeal),
			warning: r.NewStyle().Foreground(colorGold),
			failure: r.NewStyle().Foreground(colorRed),
		},
	}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// stateLine renders "(u ml mh s l h) free=F" followed by a suffix.
func (p *Printer) stateLine(s scale.State, suffix string) string {
	return fmt.Sprintf("%s free=%d%s", p.s.title.Render(s.String()), s.Free(), suffix)
}

// Result prints the outcome of one analysis.
func (p *Printer) Result(s scale.State, res analyzer.Result) {
	p.printf("%s\n", p.stateLine(s, fmt.Sprintf(" wc=%d exp=%.2f", res.WorstCase, res.Expected)))
	p.printf("%s\n", p.s.muted.Render(s.Symbols()))
}

// Failure prints a state that could not be solved.
func (p *Printer) Failure(s scale.State, st analyzer.Status) {
	p.printf("%s %s\n", p.stateLine(s, ""), p.s.failure.Render(st.String()))
}

// Stats prints the analyzer counters on one muted line.
func (p *Printer) Stats(st analyzer.Stats, elapsed time.Duration) {
	p.printf("%s\n", p.s.muted.Render(fmt.Sprintf(
		"states=%d evaluations=%d cache_hits=%d elapsed=%s",
		st.States, st.Evaluations, st.CacheHits, elapsed.Round(time.Millisecond))))
}

// Explain prints the state header and one block per candidate:
//
//	<left>  vs  <right>
//	  free=F wc=W exp=E
//	    '<o>' [P=p] -> (child): free=F wc=W exp=E
//
// Outcomes of probability 0 are omitted.
func (p *Printer) Explain(s scale.State, st analyzer.Status, res analyzer.Result, cands []analyzer.Candidate) {
	if st == analyzer.Solved {
		p.printf("%s\n", p.stateLine(s, fmt.Sprintf(" wc=%d exp=%.2f", res.WorstCase, res.Expected)))
	} else {
		p.Failure(s, st)
	}

	for _, c := range cands {
		p.printf("\n%s\n", p.s.bold.Render(c.Experiment.String()))
		if c.Viable {
			style := p.s.success
			if c.Result.WorstCase > res.WorstCase {
				style = p.s.warning
			}
			p.printf("  %s\n", style.Render(fmt.Sprintf("free=%d wc=%d exp=%.2f",
				c.MaxFree, c.Result.WorstCase, c.Result.Expected)))
		} else {
			p.printf("  free=%d %s\n", c.MaxFree, p.s.failure.Render("unsolvable"))
		}

		for _, b := range c.Branches {
			if b.Probability == 0 {
				continue
			}
			p.printf("    '%s' [P=%.2f] -> %s: free=%d %s\n",
				b.Outcome, b.Probability, b.Child, b.Child.Free(), p.branchResult(b))
		}
	}
}

func (p *Printer) branchResult(b analyzer.Branch) string {
	switch {
	case b.Cyclic:
		return p.s.failure.Render("cycle")
	case b.Status != analyzer.Solved:
		return p.s.failure.Render(b.Status.String())
	default:
		return fmt.Sprintf("wc=%d exp=%.2f", b.Result.WorstCase, b.Result.Expected)
	}
}

// Tree prints a strategy as an indented outline, one node per line.
func (p *Printer) Tree(t *strategy.Tree) error {
	p.printf("%s\n", p.s.title.Render(fmt.Sprintf("strategy (%s) depth=%d leaves=%d expected=%.2f",
		t.Metric, t.Depth(), t.Leaves(), t.Expected())))

	labels := map[*strategy.Node]string{}
	return strategy.Walk(t, strategy.WithOnVisit(func(n *strategy.Node, depth int) error {
		for _, b := range n.Branches {
			labels[b.Node] = fmt.Sprintf("'%s' [P=%.2f] ", b.Outcome, b.Probability)
		}
		indent := strings.Repeat("  ", depth)
		if n.Leaf() {
			p.printf("%s%s%s\n", indent, labels[n], p.s.success.Render(leafText(n.State)))
			return nil
		}
		p.printf("%s%s%s\n", indent, labels[n], p.s.bold.Render(n.Experiment.String()))
		return nil
	}))
}

func leafText(s scale.State) string {
	switch {
	case s.Light() == 1:
		return "light found"
	case s.Heavy() == 1:
		return "heavy found"
	default:
		return "all standard"
	}
}

// SweepRow is one population of a sweep.
type SweepRow struct {
	Population  int
	Unknown     int
	Status      analyzer.Status
	Result      analyzer.Result
	Evaluations int64
	Elapsed     time.Duration
	Err         error
}

// Sweep prints one aligned row per population.
func (p *Printer) Sweep(rows []SweepRow) {
	p.printf("%s\n", p.s.bold.Render(fmt.Sprintf("%4s %7s %4s %8s %11s %10s", "N", "unknown", "wc", "exp", "evaluations", "elapsed")))
	for _, r := range rows {
		switch {
		case r.Err != nil:
			p.printf("%4d %7d %s\n", r.Population, r.Unknown, p.s.failure.Render(r.Err.Error()))
		case r.Status != analyzer.Solved:
			p.printf("%4d %7d %s\n", r.Population, r.Unknown, p.s.warning.Render(r.Status.String()))
		default:
			p.printf("%4d %7d %4d %8.4f %11d %10s\n", r.Population, r.Unknown,
				r.Result.WorstCase, r.Result.Expected, r.Evaluations, r.Elapsed.Round(time.Millisecond))
		}
	}
}

// Catalogue prints the experiments of c, numbered in catalogue order.
// When filter is non-nil only experiments feasible in *filter are listed.
func (p *Printer) Catalogue(c *scale.Catalogue, filter *scale.State) {
	count := 0
	for i := range c.Len() {
		e := c.At(i)
		if filter != nil && !e.Feasible(*filter) {
			continue
		}
		count++
		p.printf("%5d  %s\n", i, e)
	}
	p.printf("%s\n", p.s.muted.Render(fmt.Sprintf("%d of %d experiments (N=%d)", count, c.Len(), c.N())))
}
