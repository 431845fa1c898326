// Package ingest merges the raw candidates every driver produced for a
// cycle into the job store: normalize, fingerprint, score, upsert.
package ingest

import (
	"context"
	"database/sql"
	"log"
	"time"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/normalize"
	"jobscout-engine/internal/rank"
	"jobscout-engine/internal/scrape/util"
	"jobscout-engine/internal/store"
)

// Summary is what one batch of candidates amounted to.
type Summary struct {
	Fetched    int
	New        int
	Duplicates int
	Failed     int
}

// Aggregator is the sole writer to the jobs table during a cycle.
type Aggregator struct {
	DB     *sql.DB
	Cfg    config.Config
	Scorer rank.Scorer
}

func New(db *sql.DB, cfg config.Config) *Aggregator {
	return &Aggregator{
		DB:     db,
		Cfg:    cfg,
		Scorer: rank.ProfileScorer{Profile: cfg.Profile},
	}
}

// Ingest normalizes and upserts one driver's candidates. A candidate
// that fails to persist is logged and counted, never fatal to the
// batch; running the same batch twice adds nothing the second time.
func (a *Aggregator) Ingest(ctx context.Context, cands []domain.RawCandidate, onNewJob func()) Summary {
	var sum Summary
	sum.Fetched = len(cands)

	for _, c := range cands {
		job := a.Normalize(c)

		added, err := store.UpsertJob(ctx, a.DB, job)
		if err != nil {
			log.Printf("[ingest:%s] upsert error: %v title=%q external_id=%q",
				c.Source, err, c.Title, c.ExternalID)
			sum.Failed++
			continue
		}
		if !added {
			sum.Duplicates++
			continue
		}

		sum.New++
		if onNewJob != nil {
			onNewJob()
		}
	}

	return sum
}

// Normalize turns a raw candidate into the canonical record, running
// every field heuristic and scoring the result against the profile.
func (a *Aggregator) Normalize(c domain.RawCandidate) domain.NormalizedJob {
	title := normalize.CleanText(c.Title)
	desc := normalize.CleanText(c.Description)

	company := ""
	if c.Company != nil {
		company = normalize.CleanText(*c.Company)
	}
	location := ""
	if c.Location != nil {
		location = util.NormalizeLocation(*c.Location)
	}

	min, max := normalize.ParseSalary(c.SalaryText, a.Cfg.Normalize.SalaryThousandsFloor)

	discovered := c.DiscoveredAt
	if discovered.IsZero() {
		discovered = time.Now().UTC()
	}

	job := domain.NormalizedJob{
		Title:           title,
		Company:         company,
		Description:     desc,
		Location:        location,
		LocationType:    normalize.ClassifyLocationType(location, desc),
		SalaryMin:       min,
		SalaryMax:       max,
		SalaryCurrency:  a.Cfg.Normalize.SalaryCurrency,
		ExperienceLevel: normalize.ClassifyExperience(title, desc),
		JobType:         domain.JobFullTime,
		Skills:          normalize.ExtractSkills(title+" "+desc, a.Cfg.Normalize.SkillsVocab),
		PostedDate:      discovered,
		Source:          c.Source,
		ExternalID:      c.ExternalID,
		URL:             util.CanonicalizeURL(c.URL),
		Fingerprint:     Fingerprint(title, desc, a.Cfg.Dedup.DescriptionPrefixLen),
	}

	job.Score, job.Tags = a.Scorer.Score(job)
	return job
}
