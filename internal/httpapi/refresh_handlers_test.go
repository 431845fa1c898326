package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func TestRunSyncReturnsResult(t *testing.T) {
	var gotForce bool
	h := RefreshHandler{
		Refresh: func(_ context.Context, force bool) domain.RefreshResult {
			gotForce = force
			return domain.RefreshResult{
				Success:        true,
				Message:        "refresh complete: 3 new jobs, 1 stale removed",
				AddedNewJobs:   3,
				DeletedOldJobs: 1,
				TotalJobs:      42,
				LastRefresh:    time.Now().UTC(),
			}
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/refresh/run-sync?force=true", nil)
	rec := httptest.NewRecorder()
	h.RunSync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotForce)

	var res domain.RefreshResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.AddedNewJobs)
	assert.Equal(t, 1, res.DeletedOldJobs)
	assert.Equal(t, 42, res.TotalJobs)
}

func TestRunSyncFailureStatus(t *testing.T) {
	h := RefreshHandler{
		Refresh: func(_ context.Context, _ bool) domain.RefreshResult {
			return domain.RefreshResult{Success: false, Error: "all sources failed", DeletedOldJobs: 2}
		},
	}

	rec := httptest.NewRecorder()
	h.RunSync(rec, httptest.NewRequest(http.MethodPost, "/refresh/run-sync", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var res domain.RefreshResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "all sources failed", res.Error)
	assert.Equal(t, 2, res.DeletedOldJobs, "failed cycles still report their sweep")
}

func TestRunAsyncAccepted(t *testing.T) {
	done := make(chan bool, 1)
	h := RefreshHandler{
		Refresh: func(_ context.Context, force bool) domain.RefreshResult {
			done <- force
			return domain.RefreshResult{Success: true}
		},
	}

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/refresh/run", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	select {
	case force := <-done:
		assert.False(t, force)
	case <-time.After(2 * time.Second):
		t.Fatal("background refresh never started")
	}
}

func TestLastRunNoHistory(t *testing.T) {
	h := RefreshHandler{
		Status: func(context.Context) (domain.RefreshRun, bool, error) {
			return domain.RefreshRun{}, false, nil
		},
	}

	rec := httptest.NewRecorder()
	h.LastRun(rec, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ran"])
}

func TestLastRunWithHistory(t *testing.T) {
	h := RefreshHandler{
		Status: func(context.Context) (domain.RefreshRun, bool, error) {
			return domain.RefreshRun{
				ID:     "run-1",
				Status: domain.RunPartial,
				Sources: map[string]domain.SourceCounts{
					"greenhouse": {Fetched: 10, New: 4, Duplicates: 6},
				},
			}, true, nil
		},
	}

	rec := httptest.NewRecorder()
	h.LastRun(rec, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Ran bool              `json:"ran"`
		Run domain.RefreshRun `json:"run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Ran)
	assert.Equal(t, domain.RunPartial, body.Run.Status)
	assert.Equal(t, 4, body.Run.Sources["greenhouse"].New)
}
