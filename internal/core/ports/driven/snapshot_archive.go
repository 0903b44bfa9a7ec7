package driven

import (
	"context"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// SnapshotArchive persists snapshots across restarts.
//
// Save must replace one domain's durable snapshot atomically: a failed save
// leaves the prior durable copy intact, never a partial or corrupt one.
type SnapshotArchive interface {
	// Save durably stores one snapshot, replacing any prior copy for its kind.
	Save(ctx context.Context, snap domain.Snapshot) error

	// LoadAll reconstructs all stored snapshots. Kinds with no stored copy
	// are absent from the result. A snapshot that cannot be decoded is
	// skipped, not an error; the caller starts that kind Empty.
	LoadAll(ctx context.Context) (map[domain.Kind]domain.Snapshot, error)

	// Delete removes one kind's durable snapshot. Deleting a kind that was
	// never stored is not an error.
	Delete(ctx context.Context, kind domain.Kind) error

	// DeleteAll removes every durable snapshot.
	DeleteAll(ctx context.Context) error
}
