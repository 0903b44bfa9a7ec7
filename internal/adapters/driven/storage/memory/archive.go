// Package memory provides in-memory implementations of the storage ports.
// Used in tests and for ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
)

// Ensure SnapshotArchive implements the interface.
var _ driven.SnapshotArchive = (*SnapshotArchive)(nil)

// SnapshotArchive is an in-memory implementation of driven.SnapshotArchive.
// Snapshots survive as long as the process does.
type SnapshotArchive struct {
	mu    sync.RWMutex
	snaps map[domain.Kind]domain.Snapshot
}

// NewSnapshotArchive creates an empty in-memory archive.
func NewSnapshotArchive() *SnapshotArchive {
	return &SnapshotArchive{snaps: make(map[domain.Kind]domain.Snapshot)}
}

// Save stores one snapshot, replacing any prior copy for its kind.
func (a *SnapshotArchive) Save(_ context.Context, snap domain.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snaps[snap.Kind] = snap
	return nil
}

// LoadAll returns a copy of every stored snapshot.
func (a *SnapshotArchive) LoadAll(_ context.Context) (map[domain.Kind]domain.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[domain.Kind]domain.Snapshot, len(a.snaps))
	for k, v := range a.snaps {
		out[k] = v
	}
	return out, nil
}

// Delete removes one kind's snapshot.
func (a *SnapshotArchive) Delete(_ context.Context, kind domain.Kind) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.snaps, kind)
	return nil
}

// DeleteAll removes every snapshot.
func (a *SnapshotArchive) DeleteAll(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snaps = make(map[domain.Kind]domain.Snapshot)
	return nil
}
