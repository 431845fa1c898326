package scrape

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/ingest"
	"jobscout-engine/internal/scrape/adzuna"
	"jobscout-engine/internal/scrape/greenhouse"
	"jobscout-engine/internal/scrape/indeed"
	"jobscout-engine/internal/scrape/types"
)

// BuildDrivers assembles the enabled sources for one cycle. Disabled
// sources never get constructed, so a cycle with everything off is a
// cheap no-op.
func BuildDrivers(cfg config.Config) []types.Driver {
	var drivers []types.Driver
	if cfg.Sources.Greenhouse.Enabled {
		drivers = append(drivers, greenhouse.New(cfg))
	}
	if cfg.Sources.Adzuna.Enabled {
		drivers = append(drivers, adzuna.New(cfg))
	}
	if cfg.Sources.Indeed.Enabled {
		drivers = append(drivers, indeed.New(cfg))
	}
	return drivers
}

// CycleOutcome is what one full discovery pass produced, per source.
type CycleOutcome struct {
	Sources map[string]domain.SourceCounts
	Added   int
	Failed  []string // names of sources whose whole discovery errored
}

// RunCycle fans the drivers out concurrently, then ingests their
// candidates sequentially so the upsert path stays single-writer. One
// failing source is recorded and skipped, never fatal for its peers.
func RunCycle(ctx context.Context, db *sql.DB, cfg config.Config, drivers []types.Driver, onNewJob func()) (CycleOutcome, error) {
	out := CycleOutcome{Sources: map[string]domain.SourceCounts{}}
	if len(drivers) == 0 {
		log.Printf("[cycle] no sources enabled")
		return out, nil
	}

	agg := ingest.New(db, cfg)

	var g errgroup.Group
	results := make(chan types.DriverResult, len(drivers))

	for _, d := range drivers {
		d := d
		g.Go(func() error {
			dctx, cancel := context.WithTimeout(ctx, cfg.DriverTimeout())
			defer cancel()

			log.Printf("[%s] discovering...", d.Name())
			cands, err := d.Discover(dctx, cfg.SearchTerms(), cfg.SearchLocations())
			results <- types.DriverResult{Source: d.Name(), Candidates: cands, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	for res := range results {
		if res.Err != nil {
			log.Printf("[cycle] source=%s failed: %v", res.Source, res.Err)
			out.Failed = append(out.Failed, res.Source)
			out.Sources[res.Source] = domain.SourceCounts{}
			continue
		}

		sum := agg.Ingest(ctx, res.Candidates, onNewJob)
		out.Sources[res.Source] = domain.SourceCounts{
			Fetched:    sum.Fetched,
			New:        sum.New,
			Duplicates: sum.Duplicates,
			Failed:     sum.Failed,
		}
		out.Added += sum.New
		log.Printf("[cycle] source=%s fetched=%d new=%d duplicates=%d failed=%d",
			res.Source, sum.Fetched, sum.New, sum.Duplicates, sum.Failed)
	}

	if len(out.Failed) == len(drivers) {
		return out, fmt.Errorf("all sources failed: %s", strings.Join(out.Failed, ", "))
	}
	return out, nil
}
