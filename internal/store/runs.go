package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobscout-engine/internal/domain"
)

// BeginRun records the start of a refresh cycle.
func BeginRun(ctx context.Context, db *sql.DB, id string, startedAt time.Time) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO refresh_runs(id, started_at) VALUES(?, ?);`,
		id, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinalizeRun writes the outcome. A finalized run is never updated
// again.
func FinalizeRun(ctx context.Context, db *sql.DB, run domain.RefreshRun) error {
	srcB, _ := json.Marshal(run.Sources)
	_, err := db.ExecContext(ctx, `
UPDATE refresh_runs
SET finished_at = ?, status = ?, sources = ?, deleted_stale = ?, error_summary = ?
WHERE id = ? AND finished_at IS NULL;`,
		run.FinishedAt.UTC().Format(time.RFC3339), string(run.Status),
		string(srcB), run.DeletedStale, run.ErrorSummary, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finalize run: %w", err)
	}
	return nil
}

// LastSuccessfulRun returns the most recent run that finished with
// status success or partial. ok is false when no such run exists —
// meaning the freshness gate should let a cycle through.
func LastSuccessfulRun(ctx context.Context, db *sql.DB) (run domain.RefreshRun, ok bool, err error) {
	row := db.QueryRowContext(ctx, `
SELECT id, started_at, finished_at, status, sources, deleted_stale, error_summary
FROM refresh_runs
WHERE finished_at IS NOT NULL AND status IN ('success', 'partial')
ORDER BY finished_at DESC
LIMIT 1;`)

	run, err = scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RefreshRun{}, false, nil
	}
	if err != nil {
		return domain.RefreshRun{}, false, err
	}
	return run, true, nil
}

// ListRuns returns recent runs, newest first, for the status surface.
func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]domain.RefreshRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, started_at, finished_at, status, sources, deleted_stale, error_summary
FROM refresh_runs
WHERE finished_at IS NOT NULL
ORDER BY finished_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RefreshRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(r rowScanner) (domain.RefreshRun, error) {
	var run domain.RefreshRun
	var started string
	var finished sql.NullString
	var status, srcJSON string

	err := r.Scan(&run.ID, &started, &finished, &status, &srcJSON,
		&run.DeletedStale, &run.ErrorSummary)
	if err != nil {
		return run, err
	}

	run.Status = domain.RunStatus(status)
	run.StartedAt, _ = time.Parse(time.RFC3339, started)
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339, finished.String)
	}
	_ = json.Unmarshal([]byte(srcJSON), &run.Sources)
	return run, nil
}
