// Package store persists analyzer memo tables between runs so a later run
// for the same population starts warm.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/internal/store/badgerstore"
	"github.com/katalvlaran/scales/internal/store/sqlite"
)

// ErrUnknownDriver is returned by Open for a driver other than none,
// sqlite or badger.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Store keeps memo snapshots keyed by population.
type Store interface {
	// Load returns every entry saved for population n.
	Load(ctx context.Context, n int) ([]analyzer.Entry, error)

	// Save upserts entries for population n and records the run.
	Save(ctx context.Context, n int, runID string, entries []analyzer.Entry) error

	// LastRun returns the id of the latest Save for population n, "" if none.
	LastRun(ctx context.Context, n int) (string, error)

	Close() error
}

// Open returns the store for driver:
//   - "none" or "": a Nop store
//   - "sqlite": a SQLite database file at path
//   - "badger": a Badger directory at path
func Open(driver, path string, logger *slog.Logger) (Store, error) {
	switch driver {
	case "", "none":
		return Nop{}, nil
	case "sqlite":
		return sqlite.Open(path)
	case "badger":
		cfg := badgerstore.DefaultConfig()
		cfg.Path = path
		cfg.Logger = logger
		return badgerstore.Open(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Nop stores nothing.
type Nop struct{}

func (Nop) Load(context.Context, int) ([]analyzer.Entry, error) { return nil, nil }

func (Nop) Save(context.Context, int, string, []analyzer.Entry) error { return nil }

func (Nop) LastRun(context.Context, int) (string, error) { return "", nil }

func (Nop) Close() error { return nil }

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// WarmStart describes the snapshot a Warm call loaded.
type WarmStart struct {
	// Entries is the number of memo entries loaded.
	Entries int

	// LastRun is the run that saved the snapshot last, "" for a cold start.
	LastRun string
}

// Warm preloads a with the snapshot saved for its population.
func Warm(ctx context.Context, st Store, a *analyzer.Analyzer) (WarmStart, error) {
	entries, err := st.Load(ctx, a.N())
	if err != nil {
		return WarmStart{}, fmt.Errorf("store: load population %d: %w", a.N(), err)
	}
	if err = a.Preload(entries); err != nil {
		return WarmStart{}, fmt.Errorf("store: preload population %d: %w", a.N(), err)
	}
	last, err := st.LastRun(ctx, a.N())
	if err != nil {
		return WarmStart{}, fmt.Errorf("store: last run for population %d: %w", a.N(), err)
	}
	return WarmStart{Entries: len(entries), LastRun: last}, nil
}

// Persist saves a's memo table under runID.
func Persist(ctx context.Context, st Store, a *analyzer.Analyzer, runID string) error {
	if err := st.Save(ctx, a.N(), runID, a.Entries()); err != nil {
		return fmt.Errorf("store: save population %d: %w", a.N(), err)
	}
	return nil
}
