package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

func scoutsPayload(n int) domain.ScoutsPayload {
	p := make(domain.ScoutsPayload, n)
	for i := range p {
		p[i] = domain.Scout{UserID: int64(i + 1), FirstName: "Scout", LastName: "Test"}
	}
	return p
}

func TestSnapshotStore_StartsEmpty(t *testing.T) {
	store := NewSnapshotStore()
	for _, kind := range domain.Kinds() {
		snap := store.Read(kind)
		assert.Equal(t, domain.StateEmpty, snap.State)
		assert.False(t, snap.HasPayload())
	}
}

func TestSnapshotStore_MergeSuccess(t *testing.T) {
	store := NewSnapshotStore()
	attemptedAt := time.Now().UTC()
	payload := scoutsPayload(42)

	snap := store.Merge(domain.KindScouts, domain.Succeeded(payload), attemptedAt)

	assert.Equal(t, domain.StateFresh, snap.State)
	assert.Equal(t, 42, snap.Payload.Len())
	assert.Equal(t, attemptedAt, snap.FetchedAt)
	assert.Equal(t, attemptedAt, snap.LastAttemptAt)
	assert.Nil(t, snap.LastError)
}

func TestSnapshotStore_MergeFailureWithoutPriorPayload(t *testing.T) {
	store := NewSnapshotStore()
	attemptedAt := time.Now().UTC()

	snap := store.Merge(domain.KindEvents,
		domain.Failed(domain.FailureUnreachable, "connection refused"), attemptedAt)

	assert.Equal(t, domain.StateFailed, snap.State)
	assert.False(t, snap.HasPayload())
	assert.True(t, snap.FetchedAt.IsZero())
	assert.Equal(t, attemptedAt, snap.LastAttemptAt)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, domain.FailureUnreachable, snap.LastError.Reason)
}

func TestSnapshotStore_MergeFailureKeepsPriorPayload(t *testing.T) {
	store := NewSnapshotStore()
	t0 := time.Now().UTC().Add(-time.Hour)
	t1 := time.Now().UTC()

	store.Merge(domain.KindScouts, domain.Succeeded(scoutsPayload(10)), t0)
	snap := store.Merge(domain.KindScouts,
		domain.Failed(domain.FailureTimeout, "deadline exceeded"), t1)

	assert.Equal(t, domain.StateStale, snap.State)
	assert.Equal(t, 10, snap.Payload.Len(), "failed fetch must not touch the payload")
	assert.Equal(t, t0, snap.FetchedAt, "fetched time only advances on success")
	assert.Equal(t, t1, snap.LastAttemptAt)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, domain.FailureTimeout, snap.LastError.Reason)
}

func TestSnapshotStore_SuccessClearsError(t *testing.T) {
	store := NewSnapshotStore()
	now := time.Now().UTC()

	store.Merge(domain.KindUnit, domain.Failed(domain.FailureAuthRejected, "401"), now)
	snap := store.Merge(domain.KindUnit, domain.Succeeded(domain.UnitPayload{}), now.Add(time.Minute))

	assert.Equal(t, domain.StateFresh, snap.State)
	assert.Nil(t, snap.LastError)
}

func TestSnapshotStore_TryMarkRefreshing(t *testing.T) {
	store := NewSnapshotStore()

	assert.True(t, store.TryMarkRefreshing(domain.KindScouts))
	assert.False(t, store.TryMarkRefreshing(domain.KindScouts), "second mark must fail while in flight")
	assert.True(t, store.TryMarkRefreshing(domain.KindEvents), "other kinds are independent")

	assert.Equal(t, domain.StateRefreshing, store.Read(domain.KindScouts).State)

	store.Merge(domain.KindScouts, domain.Succeeded(scoutsPayload(1)), time.Now().UTC())
	assert.True(t, store.TryMarkRefreshing(domain.KindScouts), "merge clears the flag")
}

func TestSnapshotStore_ReadDuringRefreshKeepsPayload(t *testing.T) {
	store := NewSnapshotStore()
	now := time.Now().UTC()
	store.Merge(domain.KindScouts, domain.Succeeded(scoutsPayload(5)), now)

	require.True(t, store.TryMarkRefreshing(domain.KindScouts))

	snap := store.Read(domain.KindScouts)
	assert.Equal(t, domain.StateRefreshing, snap.State)
	assert.Equal(t, 5, snap.Payload.Len(), "prior payload stays readable during refresh")
}

func TestSnapshotStore_Clear(t *testing.T) {
	store := NewSnapshotStore()
	store.Merge(domain.KindScouts, domain.Succeeded(scoutsPayload(3)), time.Now().UTC())

	store.Clear(domain.KindScouts)

	snap := store.Read(domain.KindScouts)
	assert.Equal(t, domain.StateEmpty, snap.State)
	assert.False(t, snap.HasPayload())
	assert.True(t, snap.FetchedAt.IsZero())
}

func TestSnapshotStore_Seed(t *testing.T) {
	store := NewSnapshotStore()
	now := time.Now().UTC()

	store.Seed(map[domain.Kind]domain.Snapshot{
		domain.KindScouts: {
			Kind:      domain.KindScouts,
			State:     domain.StateFresh,
			Payload:   scoutsPayload(7),
			FetchedAt: now,
		},
	})

	snap := store.Read(domain.KindScouts)
	assert.Equal(t, domain.StateFresh, snap.State)
	assert.Equal(t, 7, snap.Payload.Len())
	assert.Equal(t, domain.StateEmpty, store.Read(domain.KindEvents).State)
}

func TestSnapshotStore_SeedDemotesRefreshing(t *testing.T) {
	store := NewSnapshotStore()

	store.Seed(map[domain.Kind]domain.Snapshot{
		domain.KindScouts: {
			Kind:    domain.KindScouts,
			State:   domain.StateRefreshing,
			Payload: scoutsPayload(2),
		},
		domain.KindEvents: {
			Kind:  domain.KindEvents,
			State: domain.StateRefreshing,
		},
	})

	assert.Equal(t, domain.StateStale, store.Read(domain.KindScouts).State,
		"interrupted fetch with data loads as stale")
	assert.Equal(t, domain.StateEmpty, store.Read(domain.KindEvents).State,
		"interrupted fetch without data loads as empty")
}

func TestSnapshotStore_SeedSkipsInFlightKind(t *testing.T) {
	store := NewSnapshotStore()
	require.True(t, store.TryMarkRefreshing(domain.KindScouts))

	store.Seed(map[domain.Kind]domain.Snapshot{
		domain.KindScouts: {
			Kind:    domain.KindScouts,
			State:   domain.StateFresh,
			Payload: scoutsPayload(9),
		},
	})

	snap := store.Read(domain.KindScouts)
	assert.False(t, snap.HasPayload(), "seed must not race an in-flight fetch")
}
