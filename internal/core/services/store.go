package services

import (
	"sync"
	"time"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// SnapshotStore holds the in-memory snapshot for every domain kind. It is
// the only mutable shared state in the cache engine.
//
// Reads never block on fetches: each kind has its own lock, held only for
// the brief critical section of a read, merge or clear. Merges to different
// kinds never serialise against each other. The refresh coordinator
// guarantees at most one in-flight fetch per kind, but the store serialises
// same-kind merges anyway and does not depend on that guarantee for
// correctness.
type SnapshotStore struct {
	slots map[domain.Kind]*slot
}

// slot is one kind's snapshot plus its in-flight exclusivity flag.
type slot struct {
	mu         sync.RWMutex
	snap       domain.Snapshot
	refreshing bool
}

// NewSnapshotStore creates a store with every kind initialised Empty.
func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{slots: make(map[domain.Kind]*slot, len(domain.Kinds()))}
	for _, k := range domain.Kinds() {
		s.slots[k] = &slot{snap: domain.EmptySnapshot(k)}
	}
	return s
}

// Read returns the current snapshot for a kind. Never blocks on fetch
// activity, never fails. Unknown kinds read as Empty.
func (s *SnapshotStore) Read(kind domain.Kind) domain.Snapshot {
	sl, ok := s.slots[kind]
	if !ok {
		return domain.EmptySnapshot(kind)
	}

	sl.mu.RLock()
	defer sl.mu.RUnlock()
	snap := sl.snap
	if sl.refreshing {
		snap.State = domain.StateRefreshing
	}
	return snap
}

// TryMarkRefreshing atomically checks and sets the kind's in-flight flag.
// Returns false when a fetch is already in flight; the caller must not
// dispatch a second one.
func (s *SnapshotStore) TryMarkRefreshing(kind domain.Kind) bool {
	sl, ok := s.slots[kind]
	if !ok {
		return false
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.refreshing {
		return false
	}
	sl.refreshing = true
	return true
}

// Merge applies one fetch outcome and clears the in-flight flag.
//
// On success the payload is replaced, FetchedAt advances to attemptedAt and
// the prior error is cleared. On failure the payload and FetchedAt are left
// untouched; the snapshot becomes Stale when a prior payload exists, Failed
// otherwise. LastAttemptAt always advances. Returns the snapshot after the
// merge.
func (s *SnapshotStore) Merge(kind domain.Kind, outcome domain.Outcome, attemptedAt time.Time) domain.Snapshot {
	sl, ok := s.slots[kind]
	if !ok {
		return domain.EmptySnapshot(kind)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.refreshing = false
	sl.snap.LastAttemptAt = attemptedAt

	if outcome.OK() {
		sl.snap.Payload = outcome.Payload
		sl.snap.FetchedAt = attemptedAt
		sl.snap.State = domain.StateFresh
		sl.snap.LastError = nil
		return sl.snap
	}

	sl.snap.LastError = outcome.Failure
	if sl.snap.HasPayload() {
		// Stale-but-usable beats surfacing an error when data exists.
		sl.snap.State = domain.StateStale
	} else {
		sl.snap.State = domain.StateFailed
	}
	return sl.snap
}

// Clear resets a kind to Empty. An in-flight fetch for the kind keeps
// running and will merge over the cleared state when it completes.
func (s *SnapshotStore) Clear(kind domain.Kind) {
	sl, ok := s.slots[kind]
	if !ok {
		return
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.snap = domain.EmptySnapshot(kind)
}

// Seed installs snapshots loaded from durable storage. Only kinds present
// in the map are touched, and only when no fetch is in flight for them.
// Loaded snapshots never start in a transient state: Refreshing becomes
// Stale so an interrupted fetch from a prior run is not reported as running.
func (s *SnapshotStore) Seed(snaps map[domain.Kind]domain.Snapshot) {
	for kind, snap := range snaps {
		sl, ok := s.slots[kind]
		if !ok {
			continue
		}

		sl.mu.Lock()
		if !sl.refreshing {
			snap.Kind = kind
			if snap.State == domain.StateRefreshing {
				if snap.HasPayload() {
					snap.State = domain.StateStale
				} else {
					snap.State = domain.StateEmpty
				}
			}
			sl.snap = snap
		}
		sl.mu.Unlock()
	}
}

// All returns a copy of every kind's current snapshot.
func (s *SnapshotStore) All() map[domain.Kind]domain.Snapshot {
	out := make(map[domain.Kind]domain.Snapshot, len(s.slots))
	for kind := range s.slots {
		out[kind] = s.Read(kind)
	}
	return out
}
