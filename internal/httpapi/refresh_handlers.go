package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"jobscout-engine/internal/domain"
)

type RefreshHandler struct {
	Refresh func(ctx context.Context, force bool) domain.RefreshResult
	Status  func(ctx context.Context) (domain.RefreshRun, bool, error)
}

func forceParam(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	return v
}

// Run fires a cycle in the background and returns immediately. The
// Refresher serializes cycles itself, so a double trigger just makes
// the second caller's cycle report "already in progress".
func (h RefreshHandler) Run(w http.ResponseWriter, r *http.Request) {
	force := forceParam(r)
	go func() {
		// detached from the request; cycles outlive their trigger
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		h.Refresh(ctx, force)
	}()
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "forced": force})
}

// RunSync blocks until the cycle finishes and returns the full result.
func (h RefreshHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	res := h.Refresh(r.Context(), forceParam(r))
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	WriteJSON(w, status, res)
}

func (h RefreshHandler) LastRun(w http.ResponseWriter, r *http.Request) {
	run, ok, err := h.Status(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeStatusFailed, err.Error())
		return
	}
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"ran": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ran": true, "run": run})
}
