package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/core/ports/driving"
	"github.com/dlaporte/trailcache/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.Cache = (*CacheService)(nil)

// updateBuffer sizes each subscriber channel. Slow subscribers drop
// updates rather than block the merge path.
const updateBuffer = 32

// CacheService is the cache facade: the single entry point the rest of the
// system talks to. Reads are served instantly from the in-memory snapshot
// store; refreshes are delegated to the coordinator and run in the
// background.
type CacheService struct {
	store   *SnapshotStore
	archive driven.SnapshotArchive
	coord   *Coordinator

	subMu   sync.Mutex
	subs    map[int]chan driving.Update
	nextSub int
}

// NewCacheService creates the facade and its coordinator. The archive may
// be nil for an ephemeral, memory-only cache.
func NewCacheService(remote driven.RemoteClient, archive driven.SnapshotArchive) *CacheService {
	c := &CacheService{
		store:   NewSnapshotStore(),
		archive: archive,
		subs:    make(map[int]chan driving.Update),
	}
	c.coord = NewCoordinator(c.store, remote, archive, c.broadcast)
	return c
}

// Load reconstructs the store from durable storage. A missing or corrupt
// archive is never fatal: unreadable kinds start Empty and a warning is
// logged.
func (c *CacheService) Load(ctx context.Context) {
	if c.archive == nil {
		return
	}

	snaps, err := c.archive.LoadAll(ctx)
	if err != nil {
		logger.Warn("loading snapshot archive: %v; starting with an empty cache", err)
		return
	}
	c.store.Seed(snaps)
	logger.Debug("loaded %d snapshots from archive", len(snaps))
}

// Get returns the current snapshot for a kind. Instant; never triggers
// network activity.
func (c *CacheService) Get(kind domain.Kind) domain.Snapshot {
	return c.store.Read(kind)
}

// Freshness reports a kind's state and timestamps for display, e.g.
// "updated 3 minutes ago" or "offline - showing cached data".
func (c *CacheService) Freshness(kind domain.Kind) driving.Freshness {
	snap := c.store.Read(kind)
	return driving.Freshness{
		Kind:          kind,
		State:         snap.State,
		FetchedAt:     snap.FetchedAt,
		LastAttemptAt: snap.LastAttemptAt,
		Age:           snap.AgeDisplay(time.Now().UTC()),
		LastError:     snap.LastError.String(),
	}
}

// RequestRefresh dispatches background fetches for the requested kinds (all
// kinds when none are given). Safe to call while a prior refresh for
// overlapping kinds is running; overlapping kinds are not re-dispatched.
func (c *CacheService) RequestRefresh(ctx context.Context, kinds ...domain.Kind) *domain.RefreshJob {
	return c.coord.Refresh(ctx, kinds)
}

// AnyOlderThan reports whether any kind's data is missing or older than
// maxAge.
func (c *CacheService) AnyOlderThan(maxAge time.Duration) bool {
	now := time.Now().UTC()
	for _, kind := range domain.Kinds() {
		snap := c.store.Read(kind)
		if snap.OlderThan(now, maxAge) {
			return true
		}
	}
	return false
}

// Clear resets the given kinds (all kinds when none are given) to Empty and
// removes their durable copies. Used for credential rotation or a forced
// resync.
func (c *CacheService) Clear(ctx context.Context, kinds ...domain.Kind) error {
	targets := dedupeKinds(kinds)

	var errs []error
	for _, kind := range targets {
		c.store.Clear(kind)
		if c.archive != nil {
			if err := c.archive.Delete(ctx, kind); err != nil {
				errs = append(errs, fmt.Errorf("delete %s from archive: %w", kind, err))
			}
		}
		c.broadcast(driving.Update{Kind: kind, State: domain.StateEmpty})
	}
	return errors.Join(errs...)
}

// Subscribe registers a change-notification channel. The cancel function
// releases the subscription and closes the channel.
func (c *CacheService) Subscribe() (<-chan driving.Update, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan driving.Update, updateBuffer)
	c.subs[id] = ch

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// broadcast fans an update out to every subscriber without blocking the
// merge path. A subscriber with a full buffer misses the update.
func (c *CacheService) broadcast(u driving.Update) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
