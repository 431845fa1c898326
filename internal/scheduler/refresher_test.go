package scheduler

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/store"
)

type spyDriver struct {
	name  string
	cands []domain.RawCandidate
	calls int
}

func (s *spyDriver) Name() string { return s.name }

func (s *spyDriver) Discover(_ context.Context, _ []string, _ []string) ([]domain.RawCandidate, error) {
	s.calls++
	return s.cands, nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Refresh.FreshnessHours = 6
	cfg.Refresh.StalenessDays = 30
	cfg.Refresh.DriverTimeoutSeconds = 30
	cfg.Search.Terms = []string{"python"}
	cfg.Dedup.DescriptionPrefixLen = 200
	cfg.Normalize.SalaryThousandsFloor = 1000
	return cfg
}

func newTestRefresher(db *sql.DB, cfg config.Config, drivers ...types.Driver) *Refresher {
	r := NewRefresher(db, func() config.Config { return cfg }, nil)
	r.BuildDrivers = func(config.Config) []types.Driver { return drivers }
	return r
}

func finishedRun(t *testing.T, db *sql.DB, finishedAt time.Time, status domain.RunStatus) {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, store.BeginRun(context.Background(), db, id, finishedAt.Add(-time.Minute)))
	require.NoError(t, store.FinalizeRun(context.Background(), db, domain.RefreshRun{
		ID:         id,
		FinishedAt: finishedAt,
		Status:     status,
		Sources:    map[string]domain.SourceCounts{},
	}))
}

func TestRefreshSkipsWhenFresh(t *testing.T) {
	db := openTestDB(t)
	finishedRun(t, db, time.Now().UTC().Add(-time.Hour), domain.RunSuccess)

	spy := &spyDriver{name: "greenhouse"}
	r := newTestRefresher(db, testConfig(), spy)

	res := r.Refresh(context.Background(), false)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "fresh")
	assert.Equal(t, 0, res.AddedNewJobs)
	assert.Equal(t, 0, spy.calls, "fresh data means zero driver calls")
}

func TestRefreshForceBypassesGate(t *testing.T) {
	db := openTestDB(t)
	finishedRun(t, db, time.Now().UTC().Add(-time.Hour), domain.RunSuccess)

	spy := &spyDriver{name: "greenhouse", cands: []domain.RawCandidate{{
		Title:        "Python Engineer",
		Description:  "Backend work",
		Source:       "greenhouse",
		ExternalID:   "g1",
		URL:          "https://example.com/g1",
		DiscoveredAt: time.Now().UTC(),
	}}}
	r := newTestRefresher(db, testConfig(), spy)

	res := r.Refresh(context.Background(), true)
	assert.True(t, res.Success)
	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, 1, res.AddedNewJobs)
	assert.Equal(t, 1, res.TotalJobs)
	assert.False(t, res.LastRefresh.IsZero())
}

func TestRefreshRunsWhenStale(t *testing.T) {
	db := openTestDB(t)
	finishedRun(t, db, time.Now().UTC().Add(-7*time.Hour), domain.RunSuccess)

	spy := &spyDriver{name: "greenhouse"}
	r := newTestRefresher(db, testConfig(), spy)

	res := r.Refresh(context.Background(), false)
	assert.True(t, res.Success)
	assert.Equal(t, 1, spy.calls, "stale data must trigger a real cycle")
}

func TestRefreshIgnoresFailedRunsForFreshness(t *testing.T) {
	db := openTestDB(t)
	finishedRun(t, db, time.Now().UTC().Add(-time.Hour), domain.RunFailure)

	spy := &spyDriver{name: "greenhouse"}
	r := newTestRefresher(db, testConfig(), spy)

	r.Refresh(context.Background(), false)
	assert.Equal(t, 1, spy.calls, "a failed run is not a freshness reference")
}

func TestRefreshSweepsStaleJobs(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()

	// seed one job, then age it past the retention window
	spy := &spyDriver{name: "greenhouse", cands: []domain.RawCandidate{{
		Title:        "Python Engineer",
		Description:  "Backend work",
		Source:       "greenhouse",
		ExternalID:   "g1",
		URL:          "https://example.com/g1",
		DiscoveredAt: time.Now().UTC(),
	}}}
	r := newTestRefresher(db, cfg, spy)
	res := r.Refresh(context.Background(), true)
	require.Equal(t, 1, res.AddedNewJobs)

	old := time.Now().UTC().Add(-40 * 24 * time.Hour).Format(time.RFC3339)
	_, err := db.Exec(`UPDATE jobs SET last_seen_at = ?;`, old)
	require.NoError(t, err)

	empty := newTestRefresher(db, cfg, &spyDriver{name: "greenhouse"})
	res = empty.Refresh(context.Background(), true)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.DeletedOldJobs)
	assert.Equal(t, 0, res.TotalJobs)
}

func TestRefreshReadsLiveConfig(t *testing.T) {
	db := openTestDB(t)

	var cfgVal atomic.Value
	cfgVal.Store(testConfig())

	var gotTerms [][]string
	spy := &spyDriver{name: "greenhouse"}
	r := NewRefresher(db, func() config.Config {
		return cfgVal.Load().(config.Config)
	}, nil)
	r.BuildDrivers = func(cfg config.Config) []types.Driver {
		gotTerms = append(gotTerms, cfg.SearchTerms())
		return []types.Driver{spy}
	}

	r.Refresh(context.Background(), true)

	// swap the config between cycles, as PUT /config does
	next := testConfig()
	next.Search.Terms = []string{"golang"}
	cfgVal.Store(next)

	r.Refresh(context.Background(), true)

	require.Len(t, gotTerms, 2)
	assert.Equal(t, []string{"python"}, gotTerms[0])
	assert.Equal(t, []string{"golang"}, gotTerms[1], "config swap must reach the next cycle")
}

func TestRefreshRecordsRun(t *testing.T) {
	db := openTestDB(t)
	r := newTestRefresher(db, testConfig(), &spyDriver{name: "greenhouse"})

	res := r.Refresh(context.Background(), true)
	require.True(t, res.Success)

	run, ok, err := r.Status(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RunSuccess, run.Status)
	assert.False(t, run.FinishedAt.IsZero())
	assert.Contains(t, run.Sources, "greenhouse")
}
