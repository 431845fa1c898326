package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jobscout-engine/internal/domain"
)

// UpsertJob inserts a new job or, when the fingerprint (or the
// source/external_id pair) already exists, bumps last_seen_at and
// seen_count without touching the originally captured content.
// First write wins for content; re-observation only proves liveness.
// Returns whether a new row was created.
func UpsertJob(ctx context.Context, db *sql.DB, j domain.NormalizedJob) (added bool, err error) {
	if j.Fingerprint == "" {
		return false, fmt.Errorf("upsert job: empty fingerprint")
	}
	now := time.Now().UTC()
	if j.FirstSeenAt.IsZero() {
		j.FirstSeenAt = now
	}
	if j.LastSeenAt.IsZero() {
		j.LastSeenAt = now
	}
	if j.PostedDate.IsZero() {
		j.PostedDate = now
	}

	skillsB, _ := json.Marshal(j.Skills)
	tagsB, _ := json.Marshal(j.Tags)

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs(
  title, company, description, location, location_type,
  salary_min, salary_max, salary_currency, experience_level, job_type,
  skills, posted_date, source, external_id, url, fingerprint,
  score, tags, first_seen_at, last_seen_at, seen_count
) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,1);`,
		j.Title, j.Company, j.Description, j.Location, string(j.LocationType),
		j.SalaryMin, j.SalaryMax, j.SalaryCurrency, string(j.ExperienceLevel), string(j.JobType),
		string(skillsB), j.PostedDate.Format(time.RFC3339), j.Source, j.ExternalID, j.URL, j.Fingerprint,
		j.Score, string(tagsB), j.FirstSeenAt.Format(time.RFC3339), j.LastSeenAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}

	// already known (same fingerprint, or same posting id on the same
	// source); record that the posting is still live
	_, err = db.ExecContext(ctx, `
UPDATE jobs
SET last_seen_at = ?, seen_count = seen_count + 1
WHERE fingerprint = ? OR (source = ? AND external_id != '' AND external_id = ?);`,
		now.Format(time.RFC3339), j.Fingerprint, j.Source, j.ExternalID,
	)
	if err != nil {
		return false, fmt.Errorf("bump last_seen: %w", err)
	}
	return false, nil
}

// DeleteStale removes jobs not re-observed since the cutoff. The count
// is taken before deletion so callers can log what is about to go.
func DeleteStale(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	cut := cutoff.UTC().Format(time.RFC3339)

	var n int64
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE last_seen_at < ?;`, cut).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stale jobs: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	if _, err := db.ExecContext(ctx,
		`DELETE FROM jobs WHERE last_seen_at < ?;`, cut); err != nil {
		return 0, fmt.Errorf("delete stale jobs: %w", err)
	}
	return n, nil
}

func CountJobs(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}

type ListJobsOpts struct {
	Sort   string // score | posted | company | title
	Window string // 24h | 7d | all
	Limit  int
}

// ListJobs returns jobs for the read-side consumers (dashboard, digest).
func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]domain.NormalizedJob, error) {
	if opts.Sort == "" {
		opts.Sort = "score"
	}
	if opts.Window == "" {
		opts.Window = "7d"
	}
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	// whitelist sort columns
	sortCol, order := "score", "DESC"
	switch opts.Sort {
	case "posted":
		sortCol = "posted_date"
	case "company":
		sortCol, order = "company", "ASC"
	case "title":
		sortCol, order = "title", "ASC"
	}

	where := ""
	switch opts.Window {
	case "24h":
		where = "WHERE last_seen_at >= datetime('now','-24 hours')"
	case "all":
	default:
		where = "WHERE last_seen_at >= datetime('now','-7 days')"
	}

	query := fmt.Sprintf(`
SELECT id, title, company, description, location, location_type,
       salary_min, salary_max, salary_currency, experience_level, job_type,
       skills, posted_date, source, external_id, url, fingerprint,
       score, tags, first_seen_at, last_seen_at, seen_count
FROM jobs
%s
ORDER BY %s %s
LIMIT ?;`, where, sortCol, order)

	rows, err := db.QueryContext(ctx, query, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.NormalizedJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// GetJobByFingerprint is mostly a test and debugging convenience.
func GetJobByFingerprint(ctx context.Context, db *sql.DB, fp string) (domain.NormalizedJob, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, title, company, description, location, location_type,
       salary_min, salary_max, salary_currency, experience_level, job_type,
       skills, posted_date, source, external_id, url, fingerprint,
       score, tags, first_seen_at, last_seen_at, seen_count
FROM jobs WHERE fingerprint = ?;`, fp)
	return scanJob(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (domain.NormalizedJob, error) {
	var j domain.NormalizedJob
	var locType, expLevel, jobType string
	var skillsJSON, tagsJSON string
	var posted, firstSeen, lastSeen string

	err := r.Scan(
		&j.ID, &j.Title, &j.Company, &j.Description, &j.Location, &locType,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency, &expLevel, &jobType,
		&skillsJSON, &posted, &j.Source, &j.ExternalID, &j.URL, &j.Fingerprint,
		&j.Score, &tagsJSON, &firstSeen, &lastSeen, &j.SeenCount,
	)
	if err != nil {
		return j, err
	}

	j.LocationType = domain.LocationType(locType)
	j.ExperienceLevel = domain.ExperienceLevel(expLevel)
	j.JobType = domain.JobType(jobType)
	_ = json.Unmarshal([]byte(skillsJSON), &j.Skills)
	_ = json.Unmarshal([]byte(tagsJSON), &j.Tags)
	j.PostedDate, _ = time.Parse(time.RFC3339, posted)
	j.FirstSeenAt, _ = time.Parse(time.RFC3339, firstSeen)
	j.LastSeenAt, _ = time.Parse(time.RFC3339, lastSeen)
	return j, nil
}
