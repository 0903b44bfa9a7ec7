package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlaporte/trailcache/internal/adapters/driven/storage/memory"
	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/core/services"
)

// fakeRemote serves fixed payloads so commands run without a network.
type fakeRemote struct {
	scouts domain.ScoutsPayload
	adults domain.AdultsPayload
	events domain.EventsPayload
	err    error
}

var _ driven.RemoteClient = (*fakeRemote)(nil)

func (f *fakeRemote) FetchScouts(context.Context) (domain.ScoutsPayload, error) {
	return f.scouts, f.err
}
func (f *fakeRemote) FetchAdults(context.Context) (domain.AdultsPayload, error) {
	return f.adults, f.err
}
func (f *fakeRemote) FetchEvents(context.Context) (domain.EventsPayload, error) {
	return f.events, f.err
}
func (f *fakeRemote) FetchRanks(context.Context) (domain.RanksPayload, error) {
	return domain.RanksPayload{}, f.err
}
func (f *fakeRemote) FetchBadges(context.Context) (domain.BadgesPayload, error) {
	return domain.BadgesPayload{}, f.err
}
func (f *fakeRemote) FetchUnit(context.Context) (domain.UnitPayload, error) {
	return domain.UnitPayload{}, f.err
}

// setupCLI injects in-memory services so initServices is skipped.
func setupCLI(t *testing.T, remote driven.RemoteClient) {
	t.Helper()
	cache = services.NewCacheService(remote, memory.NewSnapshotArchive())
	vault = memory.NewCredentialVault()
	configStore = nil
	t.Cleanup(func() {
		cache = nil
		vault = nil
		configStore = nil
		closeStore = nil
	})
}

// runCommand executes the CLI with the given args and captures its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t, &fakeRemote{})

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trailcache dev")
}

func TestStatusCommand_EmptyCache(t *testing.T) {
	setupCLI(t, &fakeRemote{})

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "scouts")
	assert.Contains(t, out, "empty")
	assert.Contains(t, out, "never")
}

func TestRefreshThenStatus(t *testing.T) {
	setupCLI(t, &fakeRemote{scouts: domain.ScoutsPayload{
		{UserID: 1, FirstName: "Jack", LastName: "Park"},
	}})

	out, err := runCommand(t, "refresh", "scouts")
	require.NoError(t, err)
	assert.Contains(t, out, "1 records")

	out, err = runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")
}

func TestRefreshCommand_UnknownDomain(t *testing.T) {
	setupCLI(t, &fakeRemote{})

	_, err := runCommand(t, "refresh", "dragons")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestRefreshCommand_ReportsFailure(t *testing.T) {
	setupCLI(t, &fakeRemote{err: domain.ErrUnreachable})

	out, err := runCommand(t, "refresh", "events")
	require.NoError(t, err, "a failed domain is reported, not an error exit")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "unreachable")
}

func TestRosterCommand(t *testing.T) {
	setupCLI(t, &fakeRemote{scouts: domain.ScoutsPayload{
		{UserID: 1, FirstName: "Jonathan", NickName: "Jack", LastName: "Park", Rank: "Star", Patrol: "Hawks"},
		{UserID: 2, FirstName: "Sam", LastName: "Carter"},
	}})

	out, err := runCommand(t, "roster")
	require.NoError(t, err)
	assert.Contains(t, out, "refresh", "empty cache points at the refresh command")

	_, err = runCommand(t, "refresh", "scouts")
	require.NoError(t, err)

	out, err = runCommand(t, "roster")
	require.NoError(t, err)
	assert.Contains(t, out, "Jack Park")
	assert.Contains(t, out, "Hawks")
	assert.Contains(t, out, "2 scouts")
}

func TestClearCommand(t *testing.T) {
	setupCLI(t, &fakeRemote{scouts: domain.ScoutsPayload{{UserID: 1, FirstName: "A", LastName: "B"}}})

	_, err := runCommand(t, "refresh", "scouts")
	require.NoError(t, err)

	out, err := runCommand(t, "clear", "scouts")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared scouts")

	assert.Equal(t, domain.StateEmpty, cache.Get(domain.KindScouts).State)
}

func TestLoginCommand_WithFlags(t *testing.T) {
	setupCLI(t, &fakeRemote{})

	out, err := runCommand(t, "login", "--username", "scoutmaster42", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "scoutmaster42")

	creds, err := vault.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scoutmaster42", creds.Username)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestLogoutCommand(t *testing.T) {
	setupCLI(t, &fakeRemote{})
	require.NoError(t, vault.Save(context.Background(), domain.Credentials{
		Username: "u", Password: "p",
	}))

	out, err := runCommand(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	_, err = vault.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}
