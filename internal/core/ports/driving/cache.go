package driving

import (
	"context"
	"time"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// Cache is the single entry point consumers use to read troop data and
// drive refreshes. Reads are always instant and served from memory; only
// RequestRefresh touches the network, and only in the background.
type Cache interface {
	// Get returns the current snapshot for a kind. Never blocks, never
	// fails, never triggers network activity. The snapshot is Empty if
	// the kind was never populated.
	Get(kind domain.Kind) domain.Snapshot

	// Freshness reports a kind's state and timestamps for display.
	Freshness(kind domain.Kind) Freshness

	// RequestRefresh dispatches background fetches for the requested kinds
	// and returns a job the caller may poll or await. Kinds already
	// refreshing are skipped, not re-dispatched. An empty kind set means
	// all kinds.
	RequestRefresh(ctx context.Context, kinds ...domain.Kind) *domain.RefreshJob

	// AnyOlderThan reports whether any kind's data is missing or older
	// than maxAge. Used to decide whether a background refresh is due.
	AnyOlderThan(maxAge time.Duration) bool

	// Clear resets the given kinds to Empty and removes their durable
	// copies. An empty kind set means all kinds.
	Clear(ctx context.Context, kinds ...domain.Kind) error

	// Subscribe registers for change notifications. Every completed merge,
	// clear and persist failure produces one Update. The returned cancel
	// function releases the subscription.
	Subscribe() (<-chan Update, func())
}

// Freshness is a kind's displayable freshness state.
type Freshness struct {
	// Kind identifies the domain.
	Kind domain.Kind

	// State is the snapshot state (empty, fresh, stale, refreshing, failed).
	State domain.SnapshotState

	// FetchedAt is the last successful fetch time, zero if never.
	FetchedAt time.Time

	// LastAttemptAt is the most recent attempt time, success or failure.
	LastAttemptAt time.Time

	// Age renders FetchedAt relative to now ("5m ago", "never").
	Age string

	// LastError describes the most recent failure, empty after a success.
	LastError string
}

// Update is one change notification from the cache.
type Update struct {
	// Kind identifies the domain that changed.
	Kind domain.Kind

	// State is the snapshot state after the change.
	State domain.SnapshotState

	// PersistErr is set when the in-memory merge succeeded but the durable
	// write failed. The cache keeps serving from memory; the consumer
	// should surface the divergence loudly.
	PersistErr error
}
