package types

import (
	"context"

	"jobscout-engine/internal/domain"
)

// Driver is the capability every source exposes, whatever the
// mechanism behind it (plain HTTP, JSON API, or a browser session).
//
// Contract:
//   - empty terms/locations mean "use your configured defaults"
//   - candidates are pre-filtered for relevance before being returned
//   - a single malformed result is logged and skipped, never fatal
//   - a whole-source failure returns an error; the cycle runner logs
//     it and the other sources carry on
//   - (term, location) pairs are walked in input order, so identical
//     inputs against identical external data give identical output
type Driver interface {
	Name() string
	Discover(ctx context.Context, terms []string, locations []string) ([]domain.RawCandidate, error)
}

// DriverResult pairs a driver's output with its name for the cycle
// runner's per-source bookkeeping.
type DriverResult struct {
	Source     string
	Candidates []domain.RawCandidate
	Err        error
}
