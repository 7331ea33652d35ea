// Package badgerstore stores analyzer memo snapshots in a Badger key-value
// database.
//
// Layout:
//
//	memo/<n>/<u>/<ml>/<mh>/<l>/<h>  → JSON analyzer.Entry
//	run/<n>/<run id>                → JSON Run
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
)

// Config configures the Badger database.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	// InMemory keeps everything in memory (tests).
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Logger receives Badger's internal log lines; nil silences them.
	Logger *slog.Logger
}

// DefaultConfig returns a persistent configuration with synchronous writes.
func DefaultConfig() Config {
	return Config{SyncWrites: true}
}

// InMemoryConfig returns a configuration for an in-memory database.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store manages memo snapshots in Badger.
type Store struct {
	db *badger.DB
}

// Run is one recorded Save.
type Run struct {
	ID        string    `json:"id"`
	Entries   int       `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgerstore: path is required for a persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badgerstore: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func memoPrefix(n int) []byte {
	return fmt.Appendf(nil, "memo/%d/", n)
}

func memoKey(st scale.State) []byte {
	return fmt.Appendf(nil, "memo/%d/%d/%d/%d/%d/%d",
		st.N(), st.Unknown(), st.MaybeLight(), st.MaybeHeavy(), st.Light(), st.Heavy())
}

func runPrefix(n int) []byte {
	return fmt.Appendf(nil, "run/%d/", n)
}

// Load returns the entries saved for population n.
func (s *Store) Load(ctx context.Context, n int) ([]analyzer.Entry, error) {
	var out []analyzer.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = memoPrefix(n)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e analyzer.Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badgerstore: load population %d: %w", n, err)
	}
	return out, nil
}

// Save writes entries and the run record in one batch.
func (s *Store) Save(ctx context.Context, n int, runID string, entries []analyzer.Entry) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.State.N() != n {
			return fmt.Errorf("badgerstore: entry %s does not belong to population %d", e.State, n)
		}
		val, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("badgerstore: encode %s: %w", e.State, err)
		}
		if err = wb.Set(memoKey(e.State), val); err != nil {
			return fmt.Errorf("badgerstore: write %s: %w", e.State, err)
		}
	}

	run, err := json.Marshal(Run{ID: runID, Entries: len(entries), CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("badgerstore: encode run: %w", err)
	}
	if err = wb.Set(append(runPrefix(n), runID...), run); err != nil {
		return fmt.Errorf("badgerstore: write run: %w", err)
	}

	if err = wb.Flush(); err != nil {
		return fmt.Errorf("badgerstore: flush: %w", err)
	}
	return nil
}

// Runs lists the saves recorded for population n in key order.
func (s *Store) Runs(ctx context.Context, n int) ([]Run, error) {
	var out []Run
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = runPrefix(n)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Run
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badgerstore: runs for population %d: %w", n, err)
	}
	return out, nil
}

// LastRun returns the id of the most recent save for population n, or ""
// when there is none.
func (s *Store) LastRun(ctx context.Context, n int) (string, error) {
	runs, err := s.Runs(ctx, n)
	if err != nil {
		return "", err
	}
	var last *Run
	for i := range runs {
		if last == nil || runs[i].CreatedAt.After(last.CreatedAt) {
			last = &runs[i]
		}
	}
	if last == nil {
		return "", nil
	}
	return last.ID, nil
}
