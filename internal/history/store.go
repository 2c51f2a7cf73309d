// Package history persists aggregated check passes to SQLite so past
// runs can be listed and pruned. One row per pass plus one row per
// check result; details are stored as JSON blobs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/probekit/probekit/internal/check"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	timestamp         DATETIME NOT NULL,
	status            TEXT NOT NULL,
	total_checks      INTEGER NOT NULL,
	healthy_checks    INTEGER NOT NULL,
	unhealthy_checks  INTEGER NOT NULL,
	error_checks      INTEGER NOT NULL,
	health_percentage REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS run_checks (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	name        TEXT NOT NULL,
	status      TEXT NOT NULL,
	start_time  DATETIME NOT NULL,
	end_time    DATETIME NOT NULL,
	duration_ns INTEGER NOT NULL,
	details     TEXT,
	error       TEXT,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
`

// Store is a sqlite-backed run-history store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists one aggregated pass. The report's rollup must be
// populated (Combine always fills it).
func (s *Store) RecordRun(ctx context.Context, report check.Report) error {
	if report.Rollup == nil {
		return fmt.Errorf("report %s has no rollup to record", report.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sum := report.Rollup.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, timestamp, status, total_checks, healthy_checks,
			unhealthy_checks, error_checks, health_percentage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Timestamp,
		string(report.Status),
		sum.TotalChecks,
		sum.HealthyChecks,
		sum.UnhealthyChecks,
		sum.ErrorChecks,
		sum.HealthPercentage,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", report.ID, err)
	}

	for pos, name := range report.Checks.Names() {
		res, _ := report.Checks.Get(name)

		var details sql.NullString
		if len(res.Details) > 0 {
			blob, err := json.Marshal(res.Details)
			if err != nil {
				return fmt.Errorf("marshaling details for %q: %w", name, err)
			}
			details = sql.NullString{String: string(blob), Valid: true}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_checks (
				run_id, position, name, status, start_time, end_time,
				duration_ns, details, error
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.ID, pos, name, string(res.Status),
			res.StartTime, res.EndTime, int64(res.Duration),
			details, res.Error,
		)
		if err != nil {
			return fmt.Errorf("inserting check %q for run %s: %w", name, report.ID, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID               string
	Timestamp        time.Time
	Status           check.Status
	TotalChecks      int
	HealthyChecks    int
	UnhealthyChecks  int
	ErrorChecks      int
	HealthPercentage float64
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, status, total_checks, healthy_checks,
		       unhealthy_checks, error_checks, health_percentage
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var status string
		if err := rows.Scan(&r.ID, &r.Timestamp, &status, &r.TotalChecks,
			&r.HealthyChecks, &r.UnhealthyChecks, &r.ErrorChecks,
			&r.HealthPercentage); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Status = check.Status(status)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun reloads the per-check results of one recorded pass, in their
// original order.
func (s *Store) GetRun(ctx context.Context, runID string) ([]check.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status, start_time, end_time, duration_ns, details, error
		FROM run_checks
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []check.Result
	for rows.Next() {
		var res check.Result
		var status string
		var durationNS int64
		var details sql.NullString
		if err := rows.Scan(&res.Name, &status, &res.StartTime, &res.EndTime,
			&durationNS, &details, &res.Error); err != nil {
			return nil, fmt.Errorf("scanning check row: %w", err)
		}
		res.Status = check.Status(status)
		res.Duration = time.Duration(durationNS)
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &res.Details); err != nil {
				return nil, fmt.Errorf("parsing details for %q: %w", res.Name, err)
			}
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		// Distinguish an unknown ID from a recorded pass that ran no
		// checks.
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
			return nil, fmt.Errorf("looking up run %s: %w", runID, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("run %s not found", runID)
		}
	}
	return results, nil
}

// PruneBefore deletes runs recorded before cutoff and returns how many
// were removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}
