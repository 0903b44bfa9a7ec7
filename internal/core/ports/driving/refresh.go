package driving

import (
	"context"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// RefreshCoordinator runs domain fetches concurrently and merges their
// outcomes into the snapshot store as they complete.
type RefreshCoordinator interface {
	// Refresh dispatches one fetch per requested kind that is not already
	// in flight. At most one fetch per kind is ever active: kinds already
	// refreshing are recorded as skipped on the returned job. Outcomes are
	// merged and persisted per kind as each fetch completes, in completion
	// order; the returned job completes when every dispatched kind has an
	// outcome. Per-kind failure never fails the job.
	Refresh(ctx context.Context, kinds []domain.Kind) *domain.RefreshJob

	// InFlight reports whether a fetch for the kind is currently running.
	InFlight(kind domain.Kind) bool
}
