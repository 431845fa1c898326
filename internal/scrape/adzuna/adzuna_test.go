package adzuna

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/scrape/util"
)

const searchPage1 = `{
  "count": 2,
  "results": [
    {
      "id": 4001,
      "title": "Python Backend Engineer",
      "description": "Django services on AWS.",
      "company": {"display_name": "Acme Corp"},
      "location": {"display_name": "Remote"},
      "salary_min": 90000,
      "salary_max": 130000,
      "redirect_url": "https://www.adzuna.com/land/ad/4001",
      "created": "2026-08-20T10:00:00Z"
    },
    {
      "id": 4002,
      "title": "Forklift Operator",
      "description": "Warehouse shifts.",
      "company": {"display_name": "Haulage Ltd"},
      "location": {"display_name": "Dallas, TX"},
      "redirect_url": "https://www.adzuna.com/land/ad/4002",
      "created": "2026-08-21T09:00:00Z"
    },
    {
      "id": 0,
      "title": "",
      "description": "partial record"
    }
  ]
}`

func testDriver(t *testing.T, handler http.Handler) *Driver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{}
	cfg.Sources.Adzuna.Enabled = true
	cfg.Sources.Adzuna.Country = "us"
	cfg.Sources.Adzuna.AppID = "test-app"
	cfg.Search.RelevanceKeywords = []string{"python", "backend"}

	return &Driver{
		cfg:     cfg,
		appKey:  "test-key",
		hc:      srv.Client(),
		limiter: util.NewHostLimiter(1000, 1000),
		baseURL: srv.URL,
	}
}

func TestDiscoverParsesAndFilters(t *testing.T) {
	var gotQuery url.Values
	d := testDriver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/us/search/1", r.URL.Path)
		fmt.Fprint(w, searchPage1)
	}))

	cands, err := d.Discover(context.Background(), []string{"python"}, []string{"Remote"})
	require.NoError(t, err)

	assert.Equal(t, "test-app", gotQuery.Get("app_id"))
	assert.Equal(t, "test-key", gotQuery.Get("app_key"))
	assert.Equal(t, "python", gotQuery.Get("what"))
	assert.Equal(t, "Remote", gotQuery.Get("where"))
	assert.Equal(t, "date", gotQuery.Get("sort_by"))
	assert.Equal(t, "14", gotQuery.Get("max_days_old"))

	// forklift job fails relevance, partial record is dropped
	require.Len(t, cands, 1)
	c := cands[0]
	assert.Equal(t, "Python Backend Engineer", c.Title)
	assert.Equal(t, "adzuna", c.Source)
	assert.Equal(t, "4001", c.ExternalID)
	require.NotNil(t, c.Company)
	assert.Equal(t, "Acme Corp", *c.Company)
	require.NotNil(t, c.Location)
	assert.Equal(t, "Remote", *c.Location)
	assert.Equal(t, "90000 - 130000", c.SalaryText)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), c.DiscoveredAt)
}

func TestDiscoverMissingCredentials(t *testing.T) {
	cfg := config.Config{}
	cfg.Sources.Adzuna.Enabled = true
	cfg.Sources.Adzuna.Country = "us"
	d := &Driver{cfg: cfg, limiter: util.NewHostLimiter(1000, 1000)}

	cands, err := d.Discover(context.Background(), []string{"python"}, nil)
	require.NoError(t, err, "missing credentials disable, not fail")
	assert.Empty(t, cands)
}

func TestDiscoverAllSearchesFailed(t *testing.T) {
	d := testDriver(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	_, err := d.Discover(context.Background(), []string{"python"}, []string{""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 searches failed")
}

func TestSalaryText(t *testing.T) {
	assert.Equal(t, "90000 - 130000", salaryText(90000, 130000))
	assert.Equal(t, "90000", salaryText(90000, 0))
	assert.Equal(t, "130000", salaryText(0, 130000))
	assert.Equal(t, "90000", salaryText(90000, 90000))
	assert.Equal(t, "", salaryText(0, 0))
}
