// Package scheduler owns the refresh lifecycle: the freshness gate,
// the retention sweep, the discovery cycle, and the run record that
// ties them together.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/store"
)

type Refresher struct {
	DB *sql.DB

	// Cfg is read at the top of every cycle, so a config swap (PUT
	// /config) takes effect on the next run without a restart.
	Cfg func() config.Config

	Hub *events.Hub

	// injectable for tests; defaults to scrape.BuildDrivers
	BuildDrivers func(config.Config) []types.Driver

	mu sync.Mutex // one cycle at a time in-process
}

func NewRefresher(db *sql.DB, cfg func() config.Config, hub *events.Hub) *Refresher {
	return &Refresher{DB: db, Cfg: cfg, Hub: hub, BuildDrivers: scrape.BuildDrivers}
}

// Refresh runs one full cycle. With force=false a recent successful
// run short-circuits the whole thing before any driver is built.
func (r *Refresher) Refresh(ctx context.Context, force bool) domain.RefreshResult {
	if !r.mu.TryLock() {
		return domain.RefreshResult{
			Success: false,
			Error:   "refresh already in progress",
		}
	}
	defer r.mu.Unlock()

	cfg := r.Cfg()
	now := time.Now().UTC()

	if !force {
		if res, fresh := r.freshnessGate(ctx, now, cfg.FreshnessWindow()); fresh {
			return res
		}
	}

	run := domain.RefreshRun{
		ID:        uuid.NewString(),
		StartedAt: now,
		Sources:   map[string]domain.SourceCounts{},
	}
	if err := store.BeginRun(ctx, r.DB, run.ID, run.StartedAt); err != nil {
		log.Printf("[refresh] begin run: %v", err)
		return domain.RefreshResult{Success: false, Error: err.Error()}
	}
	r.publish(events.TypeRefreshStarted, map[string]string{"run_id": run.ID})

	// retention first so a later discovery failure still reports the
	// sweep it committed
	cutoff := now.Add(-cfg.StalenessWindow())
	log.Printf("[refresh] sweeping jobs not seen since %s", cutoff.Format(time.RFC3339))
	deleted, err := store.DeleteStale(ctx, r.DB, cutoff)
	if err != nil {
		log.Printf("[refresh] retention sweep: %v", err)
	}
	run.DeletedStale = int(deleted)

	outcome, cycleErr := scrape.RunCycle(ctx, r.DB, cfg, r.BuildDrivers(cfg), r.notifyNewJob)
	run.Sources = outcome.Sources
	run.FinishedAt = time.Now().UTC()

	switch {
	case cycleErr != nil:
		run.Status = domain.RunFailure
		run.ErrorSummary = cycleErr.Error()
	case len(outcome.Failed) > 0:
		run.Status = domain.RunPartial
		run.ErrorSummary = "failed sources: " + strings.Join(outcome.Failed, ", ")
	default:
		run.Status = domain.RunSuccess
	}

	if err := store.FinalizeRun(ctx, r.DB, run); err != nil {
		log.Printf("[refresh] finalize run %s: %v", run.ID, err)
	}

	total, err := store.CountJobs(ctx, r.DB)
	if err != nil {
		log.Printf("[refresh] count jobs: %v", err)
	}

	res := domain.RefreshResult{
		Success:        run.Status != domain.RunFailure,
		DeletedOldJobs: run.DeletedStale,
		AddedNewJobs:   outcome.Added,
		TotalJobs:      total,
		LastRefresh:    run.FinishedAt,
	}
	switch run.Status {
	case domain.RunFailure:
		res.Error = run.ErrorSummary
	case domain.RunPartial:
		res.Message = fmt.Sprintf("refresh finished with degraded sources (%s)", run.ErrorSummary)
	default:
		res.Message = fmt.Sprintf("refresh complete: %d new jobs, %d stale removed", res.AddedNewJobs, res.DeletedOldJobs)
	}

	log.Printf("[refresh] run=%s status=%s added=%d deleted=%d total=%d",
		run.ID, run.Status, res.AddedNewJobs, res.DeletedOldJobs, res.TotalJobs)
	r.publish(events.TypeRefreshCompleted, res)
	return res
}

// freshnessGate reports whether the last good run is recent enough to
// skip this cycle entirely.
func (r *Refresher) freshnessGate(ctx context.Context, now time.Time, window time.Duration) (domain.RefreshResult, bool) {
	last, ok, err := store.LastSuccessfulRun(ctx, r.DB)
	if err != nil {
		log.Printf("[refresh] freshness check: %v", err)
		return domain.RefreshResult{}, false
	}
	if !ok || now.Sub(last.FinishedAt) >= window {
		return domain.RefreshResult{}, false
	}

	total, err := store.CountJobs(ctx, r.DB)
	if err != nil {
		log.Printf("[refresh] count jobs: %v", err)
	}
	log.Printf("[refresh] skipped: last run %s finished %s ago",
		last.ID, now.Sub(last.FinishedAt).Round(time.Second))
	return domain.RefreshResult{
		Success:     true,
		Message:     "job data is fresh; refresh skipped",
		TotalJobs:   total,
		LastRefresh: last.FinishedAt,
	}, true
}

// Status summarizes the last finished run for the status endpoint.
func (r *Refresher) Status(ctx context.Context) (domain.RefreshRun, bool, error) {
	runs, err := store.ListRuns(ctx, r.DB, 1)
	if err != nil {
		return domain.RefreshRun{}, false, err
	}
	if len(runs) == 0 {
		return domain.RefreshRun{}, false, nil
	}
	return runs[0], true, nil
}

func (r *Refresher) notifyNewJob() {
	r.publish(events.TypeJobCreated, nil)
}

func (r *Refresher) publish(typ string, data any) {
	if r.Hub == nil {
		return
	}
	r.Hub.Broadcast("", typ, data)
}
