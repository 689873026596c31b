package results

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/scachelab/shufflebench/internal/errors"
)

// RunRecord is one row of the sqlite run index. The index is additive
// bookkeeping for quick listing across results roots; the CSV summary and
// the per-run snapshots remain the authoritative artifacts.
type RunRecord struct {
	ExperimentID string // invocation UUID shared by all runs of one invocation
	Kind         string // "ablation" or "sensitivity"
	Variant      string // ablation only
	Sweep        string // sensitivity only
	Value        string // sensitivity only
	Repeat       int
	ExitCode     int
	ElapsedS     float64
	AppDuration  sql.NullInt64 // ms; null when no telemetry was extracted
	WriteBytes   sql.NullInt64
	ReadBytes    sql.NullInt64
	EventLog     string
	Notes        string
	CreatedAt    time.Time
}

// RunIndex records completed runs in a sqlite database at the results root.
type RunIndex struct {
	db *sql.DB
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  experiment_id  TEXT NOT NULL,
  kind           TEXT NOT NULL,
  variant        TEXT,
  sweep          TEXT,
  value          TEXT,
  repeat         INTEGER NOT NULL,
  exit_code      INTEGER NOT NULL,
  elapsed_s      REAL NOT NULL,
  app_duration_ms     INTEGER,
  shuffle_write_bytes INTEGER,
  shuffle_read_bytes  INTEGER,
  eventlog       TEXT,
  notes          TEXT,
  created_at     TEXT NOT NULL
);`

// OpenRunIndex opens (creating if needed) the run index at path.
func OpenRunIndex(path string) (*RunIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening run index %s", path)
	}
	if _, err := db.Exec(createRunsTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "initializing run index %s", path)
	}
	return &RunIndex{db: db}, nil
}

// Record appends one completed run.
func (ix *RunIndex) Record(ctx context.Context, rec RunRecord) error {
	if ix == nil || ix.db == nil {
		return errors.ErrRunIndexClosed
	}
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO runs (experiment_id, kind, variant, sweep, value, repeat, exit_code, elapsed_s,
		                   app_duration_ms, shuffle_write_bytes, shuffle_read_bytes, eventlog, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ExperimentID, rec.Kind, rec.Variant, rec.Sweep, rec.Value, rec.Repeat, rec.ExitCode, rec.ElapsedS,
		rec.AppDuration, rec.WriteBytes, rec.ReadBytes, rec.EventLog, rec.Notes,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	return errors.Wrap(err, "recording run")
}

// List returns all recorded runs in insertion order.
func (ix *RunIndex) List(ctx context.Context) ([]RunRecord, error) {
	if ix == nil || ix.db == nil {
		return nil, errors.ErrRunIndexClosed
	}
	rows, err := ix.db.QueryContext(ctx,
		`SELECT experiment_id, kind, variant, sweep, value, repeat, exit_code, elapsed_s,
		        app_duration_ms, shuffle_write_bytes, shuffle_read_bytes, eventlog, notes, created_at
		 FROM runs ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(
			&rec.ExperimentID, &rec.Kind, &rec.Variant, &rec.Sweep, &rec.Value,
			&rec.Repeat, &rec.ExitCode, &rec.ElapsedS,
			&rec.AppDuration, &rec.WriteBytes, &rec.ReadBytes,
			&rec.EventLog, &rec.Notes, &created,
		); err != nil {
			return nil, errors.Wrap(err, "scanning run row")
		}
		if ts, perr := time.Parse(time.RFC3339, created); perr == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "iterating runs")
}

// Close releases the underlying database handle.
func (ix *RunIndex) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return errors.Wrap(err, "closing run index")
}
