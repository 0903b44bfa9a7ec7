package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

func TestSnapshotArchive_SaveLoadDelete(t *testing.T) {
	archive := NewSnapshotArchive()
	ctx := context.Background()

	require.NoError(t, archive.Save(ctx, domain.Snapshot{
		Kind:    domain.KindScouts,
		State:   domain.StateFresh,
		Payload: domain.ScoutsPayload{{UserID: 1, FirstName: "Ada", LastName: "Lovelace"}},
	}))

	loaded, err := archive.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded, domain.KindScouts)
	assert.Equal(t, 1, loaded[domain.KindScouts].Payload.Len())

	require.NoError(t, archive.Delete(ctx, domain.KindScouts))
	loaded, err = archive.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSnapshotArchive_DeleteAll(t *testing.T) {
	archive := NewSnapshotArchive()
	ctx := context.Background()

	require.NoError(t, archive.Save(ctx, domain.Snapshot{Kind: domain.KindScouts, State: domain.StateFailed}))
	require.NoError(t, archive.Save(ctx, domain.Snapshot{Kind: domain.KindEvents, State: domain.StateFailed}))
	require.NoError(t, archive.DeleteAll(ctx))

	loaded, err := archive.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCredentialVault_RoundTrip(t *testing.T) {
	vault := NewCredentialVault()
	ctx := context.Background()

	_, err := vault.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)

	require.NoError(t, vault.Save(ctx, domain.Credentials{Username: "u", Password: "p"}))

	creds, err := vault.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u", creds.Username)

	require.NoError(t, vault.Delete(ctx))
	_, err = vault.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}
