package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/katalvlaran/percolath/experiment"
)

// ErrRunNotFound indicates an unknown run ID.
var ErrRunNotFound = errors.New("store: run not found")

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunMeta describes how a table was produced.
type RunMeta struct {
	Seed    *int64
	Trials  int
	Workers int
	Label   string
}

// Run is one stored table header.
type Run struct {
	ID        string
	Strategy  experiment.Strategy
	Meta      RunMeta
	CreatedAt time.Time
	Rows      int
}

// SQLite stores runs in a SQLite database. It is safe for concurrent use.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway store. Path may carry its own driver query,
// e.g. "runs.db?_txlock=immediate".
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single connection: one writer, and ":memory:" stays one database
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// sqliteDSN appends the foreign_keys pragma to path's query.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + "_pragma=foreign_keys(1)"
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveTable stores t and its rows in one transaction and returns the new
// run ID.
func (s *SQLite) SaveTable(ctx context.Context, t *experiment.Table, meta RunMeta) (string, error) {
	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seed sql.NullInt64
	if meta.Seed != nil {
		seed = sql.NullInt64{Int64: *meta.Seed, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, strategy, seed, trials, workers, label, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(t.Strategy), seed, meta.Trials, meta.Workers, meta.Label,
		time.Now().UTC().Format(timeLayout),
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO result_rows
		(run_id, position, snapshot, intensity, mean, stddev, initial, normalized, trials, failed, observed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		if _, err := stmt.ExecContext(ctx, id, i, r.Snapshot, r.Intensity, r.Mean, r.StdDev,
			r.Initial, r.Normalized, r.Trials, r.Failed, r.Observed); err != nil {
			return "", fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	return id, nil
}

// Runs lists stored runs, oldest first.
func (s *SQLite) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.strategy, r.seed, r.trials, r.workers, r.label, r.created_at,
		       (SELECT COUNT(*) FROM result_rows WHERE run_id = r.id)
		FROM runs r ORDER BY r.created_at, r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run      Run
			strategy string
			seed     sql.NullInt64
			label    sql.NullString
			created  string
		)
		if err := rows.Scan(&run.ID, &strategy, &seed, &run.Meta.Trials, &run.Meta.Workers,
			&label, &created, &run.Rows); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Strategy = experiment.Strategy(strategy)
		if seed.Valid {
			v := seed.Int64
			run.Meta.Seed = &v
		}
		run.Meta.Label = label.String
		if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("run %s: bad created_at: %w", run.ID, err)
		}
		out = append(out, run)
	}

	return out, rows.Err()
}

// LoadTable reads the table stored under runID.
func (s *SQLite) LoadTable(ctx context.Context, runID string) (*experiment.Table, error) {
	var strategy string
	err := s.db.QueryRowContext(ctx, `SELECT strategy FROM runs WHERE id = ?`, runID).Scan(&strategy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot, intensity, mean, stddev, initial, normalized, trials, failed, observed
		FROM result_rows WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	t := &experiment.Table{Strategy: experiment.Strategy(strategy)}
	for rows.Next() {
		var r experiment.Row
		if err := rows.Scan(&r.Snapshot, &r.Intensity, &r.Mean, &r.StdDev, &r.Initial,
			&r.Normalized, &r.Trials, &r.Failed, &r.Observed); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t.Rows = append(t.Rows, r)
	}

	return t, rows.Err()
}

// DeleteRun removes a run and its rows.
func (s *SQLite) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}

	return nil
}
