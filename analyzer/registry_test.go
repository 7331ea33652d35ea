package analyzer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ConcurrentQueries(t *testing.T) {
	r := analyzer.NewRegistry()
	ctx := context.Background()

	const workers = 16
	var (
		wg      sync.WaitGroup
		results = make([]analyzer.Result, workers)
		errs    = make([]error, workers)
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := 12 + i%2
			s, err := scale.Initial(n, 12)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = r.Analyze(ctx, s)
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, analyzer.Result{WorstCase: 3, Expected: 3.0}, results[i])
	}
	assert.Equal(t, []int{12, 13}, r.Populations())

	require.NoError(t, r.Do(ctx, 12, func(a *analyzer.Analyzer) error {
		assert.Equal(t, int64(55), a.Stats().Evaluations, "each state computed once")
		return nil
	}))
}

func TestRegistry_Explain(t *testing.T) {
	r := analyzer.NewRegistry()
	cands, err := r.Explain(context.Background(), mustState(t, 12, scale.Counts{Unknown: 12}))
	require.NoError(t, err)
	require.NotEmpty(t, cands)
	assert.Equal(t, unknownPans(4), cands[0].Experiment)
}

func TestRegistry_Errors(t *testing.T) {
	r := analyzer.NewRegistry(analyzer.WithMaxStates(3))
	ctx := context.Background()

	err := r.Do(ctx, 0, func(*analyzer.Analyzer) error { return nil })
	require.ErrorIs(t, err, scale.ErrInvalidPopulation)

	_, err = r.Analyze(ctx, mustState(t, 12, scale.Counts{Unknown: 12}))
	require.ErrorIs(t, err, analyzer.ErrBudgetExceeded, "options reach every analyzer")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = r.Do(canceled, 12, func(*analyzer.Analyzer) error {
		t.Fatal("fn must not run on a canceled context")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_CancellationStaysWithItsCaller(t *testing.T) {
	r := analyzer.NewRegistry()
	s := mustState(t, 12, scale.Counts{Unknown: 12})

	// Hold the analyzer so the shared search cannot finish early.
	held, release := make(chan struct{}), make(chan struct{})
	go func() {
		_ = r.Do(context.Background(), 12, func(*analyzer.Analyzer) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Analyze(firstCtx, s)
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond) // let the first caller start the shared search

	type answer struct {
		res analyzer.Result
		err error
	}
	second := make(chan answer, 1)
	go func() {
		res, err := r.Analyze(context.Background(), s)
		second <- answer{res, err}
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled, "the canceled caller stops waiting at once")

	close(release)
	got := <-second
	require.NoError(t, got.err, "a live caller is not affected by another caller's cancellation")
	assert.Equal(t, analyzer.Result{WorstCase: 3, Expected: 3.0}, got.res)
}

func TestRegistry_ExplainCancellationStaysWithItsCaller(t *testing.T) {
	r := analyzer.NewRegistry()
	s := mustState(t, 8, scale.Counts{Unknown: 8})

	held, release := make(chan struct{}), make(chan struct{})
	go func() {
		_ = r.Do(context.Background(), 8, func(*analyzer.Analyzer) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Explain(firstCtx, s)
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	second := make(chan error, 1)
	var cands []analyzer.Candidate
	go func() {
		var err error
		cands, err = r.Explain(context.Background(), s)
		second <- err
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.NoError(t, <-second)
	assert.NotEmpty(t, cands)
}
