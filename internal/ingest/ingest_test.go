package ingest

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.Normalize.SalaryCurrency = "USD"
	cfg.Normalize.SalaryThousandsFloor = 1000
	cfg.Normalize.SkillsVocab = []string{"Python", "Django", "React"}
	cfg.Dedup.DescriptionPrefixLen = 200
	cfg.Profile = domain.UserPreferenceProfile{
		Skills: []domain.SkillWeight{{Name: "Python", Weight: 3}},
	}
	return cfg
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func strp(s string) *string { return &s }

func candidate(source, extID string) domain.RawCandidate {
	return domain.RawCandidate{
		Title:        "Backend Engineer",
		Company:      strp("Acme"),
		Description:  "Build Python services with Django. Remote friendly team.",
		Location:     strp("New York, NY"),
		SalaryText:   "70k-120k",
		Source:       source,
		ExternalID:   extID,
		URL:          "https://example.com/jobs/" + extID + "?utm_source=feed",
		DiscoveredAt: time.Now().UTC(),
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Backend Engineer", "Build Python services", 200)
	b := Fingerprint("  backend   ENGINEER ", "Build  Python services", 200)
	assert.Equal(t, a, b, "case and whitespace must not matter")

	c := Fingerprint("Backend Engineer", "Totally different text", 200)
	assert.NotEqual(t, a, c)
}

func TestFingerprintPrefixTolerance(t *testing.T) {
	base := "Build Python services with Django."
	pad := ""
	for len(pad) < 200 {
		pad += base + " "
	}
	// drift beyond the prefix is invisible to the fingerprint
	a := Fingerprint("Backend Engineer", pad+" apply before friday", 200)
	b := Fingerprint("Backend Engineer", pad+" apply before monday", 200)
	assert.Equal(t, a, b)
}

func TestFingerprintPrefixCountsRunes(t *testing.T) {
	// 200 identical multi-byte runes, then divergence: invisible
	pad := strings.Repeat("ü", 200)
	a := Fingerprint("Entwickler", pad+"x", 200)
	b := Fingerprint("Entwickler", pad+"y", 200)
	assert.Equal(t, a, b)

	// divergence inside the rune window is visible
	c := Fingerprint("Entwickler", strings.Repeat("ü", 198)+"aüx", 200)
	assert.NotEqual(t, a, c)
}

func TestIngestCrossSourceDedup(t *testing.T) {
	db := openTestDB(t)
	agg := New(db, testConfig())
	ctx := context.Background()

	// identical posting syndicated on two boards under different ids
	sum := agg.Ingest(ctx, []domain.RawCandidate{
		candidate("greenhouse", "gh-1"),
		candidate("adzuna", "az-9"),
	}, nil)

	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 1, sum.New)
	assert.Equal(t, 1, sum.Duplicates)

	n, err := store.CountJobs(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	job := agg.Normalize(candidate("greenhouse", "gh-1"))
	got, err := store.GetJobByFingerprint(ctx, db, job.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "greenhouse", got.Source, "first write wins")
	assert.Equal(t, 2, got.SeenCount)
}

func TestIngestIdempotentAcrossCycles(t *testing.T) {
	db := openTestDB(t)
	agg := New(db, testConfig())
	ctx := context.Background()

	batch := []domain.RawCandidate{
		candidate("greenhouse", "gh-1"),
		candidate("greenhouse", "gh-2"),
	}
	batch[1].Title = "Senior Platform Engineer"
	batch[1].Description = "Kubernetes platform work, python tooling"

	first := agg.Ingest(ctx, batch, nil)
	assert.Equal(t, 2, first.New)

	second := agg.Ingest(ctx, batch, nil)
	assert.Equal(t, 0, second.New, "re-running an unchanged cycle adds nothing")
	assert.Equal(t, 2, second.Duplicates)

	n, err := store.CountJobs(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNormalizeFields(t *testing.T) {
	agg := New(openTestDB(t), testConfig())

	job := agg.Normalize(candidate("greenhouse", "gh-1"))

	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, domain.LocationRemote, job.LocationType)
	require.NotNil(t, job.SalaryMin)
	assert.Equal(t, 70000, *job.SalaryMin)
	require.NotNil(t, job.SalaryMax)
	assert.Equal(t, 120000, *job.SalaryMax)
	assert.Equal(t, []string{"Python", "Django"}, job.Skills)
	assert.NotContains(t, job.URL, "utm_source")
	assert.Equal(t, 3, job.Score)
	assert.Equal(t, []string{"Python"}, job.Tags)
}

func TestNormalizeMissingOptionalFields(t *testing.T) {
	agg := New(openTestDB(t), testConfig())

	job := agg.Normalize(domain.RawCandidate{
		Title:       "Backend Engineer",
		Description: "python work",
		Source:      "indeed",
		ExternalID:  "jk-1",
	})

	assert.Empty(t, job.Company, "absent company stays empty, no sentinel")
	assert.Empty(t, job.Location)
	assert.Nil(t, job.SalaryMin)
	assert.Nil(t, job.SalaryMax)
}

func TestIngestNewJobCallback(t *testing.T) {
	db := openTestDB(t)
	agg := New(db, testConfig())

	calls := 0
	agg.Ingest(context.Background(), []domain.RawCandidate{
		candidate("greenhouse", "gh-1"),
		candidate("adzuna", "az-9"), // dup by fingerprint
	}, func() { calls++ })

	assert.Equal(t, 1, calls)
}
