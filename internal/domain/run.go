package domain

import "time"

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailure RunStatus = "failure"
)

// SourceCounts tracks what one driver contributed to a cycle.
type SourceCounts struct {
	Fetched    int `json:"fetched"`
	New        int `json:"new"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// RefreshRun records one full refresh cycle, scheduled or manual.
// Immutable once FinishedAt is set.
type RefreshRun struct {
	ID           string                  `json:"id"`
	StartedAt    time.Time               `json:"started_at"`
	FinishedAt   time.Time               `json:"finished_at"`
	Status       RunStatus               `json:"status"`
	Sources      map[string]SourceCounts `json:"sources"`
	DeletedStale int                     `json:"deleted_stale"`
	ErrorSummary string                  `json:"error_summary,omitempty"`
}

// RefreshResult is the contract surfaced to callers of a refresh
// cycle (HTTP trigger, cron). On failure DeletedOldJobs still reflects
// whatever retention work committed before the error.
type RefreshResult struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message,omitempty"`
	Error          string    `json:"error,omitempty"`
	DeletedOldJobs int       `json:"deleted_old_jobs"`
	AddedNewJobs   int       `json:"added_new_jobs"`
	TotalJobs      int       `json:"total_jobs"`
	LastRefresh    time.Time `json:"last_refresh"`
}
