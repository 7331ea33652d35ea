package analyzer

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/katalvlaran/scales/scale"
	"golang.org/x/sync/singleflight"
)

// Registry hands out one Analyzer per population and makes them safe to
// share between goroutines.
//
// Thread Safety:
//   - Catalogues are built at most once per population, concurrent first
//     requests wait for the same build.
//   - Searches on one analyzer are serialized by its own mutex; searches on
//     different populations run in parallel.
//   - Identical concurrent root queries share a single search. The search
//     is detached from every caller's cancellation; a caller whose context
//     ends stops waiting, the others still receive the result. An abandoned
//     search runs to completion (or to WithMaxStates) and its memo entries
//     serve later queries.
type Registry struct {
	opts []Option

	mu    sync.RWMutex
	slots map[int]*slot

	builds  singleflight.Group
	queries singleflight.Group
}

type slot struct {
	mu sync.Mutex
	a  *Analyzer
}

// NewRegistry returns an empty registry; opts are applied to every
// analyzer it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:  opts,
		slots: make(map[int]*slot),
	}
}

// slot returns the slot for n, building its analyzer on first use.
func (r *Registry) slot(n int) (*slot, error) {
	r.mu.RLock()
	sl, ok := r.slots[n]
	r.mu.RUnlock()
	if ok {
		return sl, nil
	}

	v, err, _ := r.builds.Do(strconv.Itoa(n), func() (any, error) {
		r.mu.RLock()
		sl, ok := r.slots[n]
		r.mu.RUnlock()
		if ok {
			return sl, nil
		}

		a, err := New(n, r.opts...)
		if err != nil {
			return nil, err
		}
		sl = &slot{a: a}

		r.mu.Lock()
		r.slots[n] = sl
		r.mu.Unlock()
		return sl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*slot), nil
}

// Do runs fn with exclusive access to the analyzer for population n.
// fn must not retain the analyzer after it returns.
func (r *Registry) Do(ctx context.Context, n int, fn func(*Analyzer) error) error {
	sl, err := r.slot(n)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	return fn(sl.a)
}

// Analyze runs Analyzer.Analyze on the analyzer for s.N().
func (r *Registry) Analyze(ctx context.Context, s scale.State) (Result, error) {
	v, err := r.share(ctx, "analyze"+s.String(), func(ctx context.Context) (any, error) {
		var res Result
		err := r.Do(ctx, s.N(), func(a *Analyzer) error {
			var err error
			res, err = a.Analyze(ctx, s)
			return err
		})
		return res, err
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Explain runs Analyzer.Explain on the analyzer for s.N(). Callers that
// share a search receive the same slice and must not modify it.
func (r *Registry) Explain(ctx context.Context, s scale.State) ([]Candidate, error) {
	v, err := r.share(ctx, "explain"+s.String(), func(ctx context.Context) (any, error) {
		var out []Candidate
		err := r.Do(ctx, s.N(), func(a *Analyzer) error {
			var err error
			out, err = a.Explain(ctx, s)
			return err
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]Candidate), nil
}

// share runs fn once for every concurrent caller with the same key. fn
// gets a context carrying ctx's values but not its cancellation; each
// caller returns early with its own ctx.Err().
func (r *Registry) share(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	ch := r.queries.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Populations returns the populations with a built analyzer, ascending.
func (r *Registry) Populations() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, len(r.slots))
	for n := range r.slots {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
