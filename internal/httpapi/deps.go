package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic store for the live config; PUT /config swaps it
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Refresh entrypoints (inject for testability)
	Refresh       func(ctx context.Context, force bool) domain.RefreshResult
	RefreshStatus func(ctx context.Context) (domain.RefreshRun, bool, error)
}
