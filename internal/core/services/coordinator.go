package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/core/ports/driving"
	"github.com/dlaporte/trailcache/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.RefreshCoordinator = (*Coordinator)(nil)

// Coordinator schedules domain fetches, enforces at-most-one-in-flight per
// kind, and merges each outcome into the snapshot store the moment it
// completes. Persisting per completion rather than batching bounds loss on
// interruption to the kinds still in flight.
type Coordinator struct {
	store   *SnapshotStore
	remote  driven.RemoteClient
	archive driven.SnapshotArchive

	// persistMu keeps durable writes single-writer. It covers only the
	// archive save, never the read or merge path.
	persistMu sync.Mutex

	// notify delivers one update per completed merge. Optional.
	notify func(driving.Update)
}

// NewCoordinator creates a refresh coordinator. The archive may be nil for
// an ephemeral cache; notify may be nil when nobody listens.
func NewCoordinator(
	store *SnapshotStore,
	remote driven.RemoteClient,
	archive driven.SnapshotArchive,
	notify func(driving.Update),
) *Coordinator {
	return &Coordinator{
		store:   store,
		remote:  remote,
		archive: archive,
		notify:  notify,
	}
}

// Refresh dispatches one background fetch per requested kind. Kinds with a
// fetch already in flight are skipped; the existing fetch is what the
// caller observes for them. The returned job completes when every
// dispatched kind has merged an outcome. A failed kind is not retried here:
// it stays Failed or Stale until the next explicit refresh.
func (c *Coordinator) Refresh(ctx context.Context, kinds []domain.Kind) *domain.RefreshJob {
	var dispatched, skipped []domain.Kind
	for _, kind := range dedupeKinds(kinds) {
		if c.store.TryMarkRefreshing(kind) {
			dispatched = append(dispatched, kind)
		} else {
			skipped = append(skipped, kind)
		}
	}

	job := domain.NewRefreshJob(uuid.NewString(), dispatched, skipped)
	if len(dispatched) == 0 {
		logger.Debug("refresh %s: nothing to dispatch (%d in flight)", job.ID(), len(skipped))
		return job
	}

	logger.Info("refresh %s: dispatching %d kinds, %d already in flight",
		job.ID(), len(dispatched), len(skipped))

	// Cancelling the requesting context must not cancel in-flight fetches;
	// the fetch deadline lives inside the remote client.
	fetchCtx := context.WithoutCancel(ctx)
	for _, kind := range dispatched {
		go c.fetchAndMerge(fetchCtx, kind, job)
	}
	return job
}

// InFlight reports whether a fetch for the kind is currently running.
func (c *Coordinator) InFlight(kind domain.Kind) bool {
	return c.store.Read(kind).State == domain.StateRefreshing
}

// fetchAndMerge runs one domain fetch to completion, merges the outcome,
// persists the merged snapshot and records the result on the job. Outcomes
// land in completion order; the store reflects the most recently completed
// attempt.
func (c *Coordinator) fetchAndMerge(ctx context.Context, kind domain.Kind, job *domain.RefreshJob) {
	outcome := runFetch(ctx, kind, c.remote)
	attemptedAt := time.Now().UTC()

	snap := c.store.Merge(kind, outcome, attemptedAt)
	if outcome.OK() {
		logger.Debug("refresh %s: %s fetched %d records", job.ID(), kind, outcome.Payload.Len())
	} else {
		logger.Debug("refresh %s: %s failed: %s", job.ID(), kind, outcome.Failure)
	}

	persistErr := c.persist(ctx, snap)
	if persistErr != nil {
		// The in-memory cache keeps serving; the durable copy may now
		// diverge across a restart, so say so loudly.
		logger.Error("persist %s snapshot: %v", kind, persistErr)
	}

	if c.notify != nil {
		c.notify(driving.Update{Kind: kind, State: snap.State, PersistErr: persistErr})
	}
	job.Record(domain.DomainOutcome{Kind: kind, Outcome: outcome, AttemptedAt: attemptedAt})
}

func (c *Coordinator) persist(ctx context.Context, snap domain.Snapshot) error {
	if c.archive == nil {
		return nil
	}
	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	return c.archive.Save(ctx, snap)
}

// dedupeKinds drops duplicates and unknown kinds, preserving order.
// An empty request means every kind.
func dedupeKinds(kinds []domain.Kind) []domain.Kind {
	if len(kinds) == 0 {
		return domain.Kinds()
	}

	seen := make(map[domain.Kind]struct{}, len(kinds))
	out := make([]domain.Kind, 0, len(kinds))
	for _, k := range kinds {
		if !k.Valid() {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
