// Package sqlite stores analyzer memo snapshots in a SQLite database
// (pure-Go driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/scales/analyzer"
	"github.com/katalvlaran/scales/scale"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	population  INTEGER NOT NULL,
	entries     INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS memo_entries (
	population  INTEGER NOT NULL,
	unknown     INTEGER NOT NULL,
	maybe_light INTEGER NOT NULL,
	maybe_heavy INTEGER NOT NULL,
	light       INTEGER NOT NULL,
	heavy       INTEGER NOT NULL,
	status      TEXT NOT NULL,
	worst_case  INTEGER NOT NULL,
	expected    REAL NOT NULL,
	run_id      TEXT NOT NULL,
	PRIMARY KEY (population, unknown, maybe_light, maybe_heavy, light, heavy)
);
`

const upsert = `
INSERT INTO memo_entries
	(population, unknown, maybe_light, maybe_heavy, light, heavy, status, worst_case, expected, run_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (population, unknown, maybe_light, maybe_heavy, light, heavy) DO UPDATE SET
	status = excluded.status,
	worst_case = excluded.worst_case,
	expected = excluded.expected,
	run_id = excluded.run_id`

// Store manages memo snapshots in SQLite.
type Store struct {
	db *sql.DB
}

// Run is one recorded Save.
type Run struct {
	ID         string
	Population int
	Entries    int
	CreatedAt  time.Time
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the entries saved for population n, ordered by state.
func (s *Store) Load(ctx context.Context, n int) ([]analyzer.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unknown, maybe_light, maybe_heavy, light, heavy, status, worst_case, expected
		 FROM memo_entries WHERE population = ?
		 ORDER BY unknown, maybe_light, maybe_heavy, light, heavy`, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query entries: %w", err)
	}
	defer rows.Close()

	var out []analyzer.Entry
	for rows.Next() {
		var (
			c      scale.Counts
			status string
			e      analyzer.Entry
		)
		if err := rows.Scan(&c.Unknown, &c.MaybeLight, &c.MaybeHeavy, &c.Light, &c.Heavy,
			&status, &e.Result.WorstCase, &e.Result.Expected); err != nil {
			return nil, fmt.Errorf("sqlite: scan entry: %w", err)
		}
		if e.State, err = scale.NewState(n, c); err != nil {
			return nil, fmt.Errorf("sqlite: stored state: %w", err)
		}
		if err := e.Status.UnmarshalText([]byte(status)); err != nil {
			return nil, fmt.Errorf("sqlite: stored status: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate entries: %w", err)
	}
	return out, nil
}

// Save upserts entries and records the run in one transaction.
func (s *Store) Save(ctx context.Context, n int, runID string, entries []analyzer.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("sqlite: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		st := e.State
		if st.N() != n {
			return fmt.Errorf("sqlite: entry %s does not belong to population %d", st, n)
		}
		_, err = stmt.ExecContext(ctx, n,
			st.Unknown(), st.MaybeLight(), st.MaybeHeavy(), st.Light(), st.Heavy(),
			e.Status.String(), e.Result.WorstCase, e.Result.Expected, runID)
		if err != nil {
			return fmt.Errorf("sqlite: upsert %s: %w", st, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, population, entries, created_at) VALUES (?, ?, ?, ?)`,
		runID, n, len(entries), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: record run: %w", err)
	}

	return tx.Commit()
}

// Runs lists the saves recorded for population n, oldest first.
func (s *Store) Runs(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, population, entries, created_at FROM runs
		 WHERE population = ? ORDER BY rowid ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Population, &r.Entries, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("sqlite: run timestamp: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastRun returns the id of the most recent save for population n, or ""
// when there is none.
func (s *Store) LastRun(ctx context.Context, n int) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id FROM runs WHERE population = ? ORDER BY rowid DESC LIMIT 1`, n).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("sqlite: last run: %w", err)
	}
	return id, nil
}
