package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, time.Hour, cfg.StaleAfter)
}

func TestNewRefreshScheduler_FillsZeroConfig(t *testing.T) {
	s := NewRefreshScheduler(SchedulerConfig{}, NewCacheService(newStubRemote(), nil))
	assert.Equal(t, DefaultSchedulerConfig(), s.config)
}

func TestRefreshScheduler_RefreshesStaleCacheOnStart(t *testing.T) {
	remote := newStubRemote()
	svc := NewCacheService(remote, nil)
	sched := NewRefreshScheduler(SchedulerConfig{
		CheckInterval: time.Hour,
		StaleAfter:    time.Minute,
	}, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sched.Start(ctx)
	}()

	// Empty cache counts as stale, so the startup check dispatches a
	// refresh before the first tick.
	require.Eventually(t, func() bool {
		return remote.callCount(domain.KindScouts) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	sched.Stop()
}

func TestRefreshScheduler_SkipsFreshCache(t *testing.T) {
	remote := newStubRemote()
	svc := NewCacheService(remote, nil)
	waitForJob(t, svc.RequestRefresh(context.Background()))
	baseline := remote.callCount(domain.KindScouts)

	sched := NewRefreshScheduler(SchedulerConfig{
		CheckInterval: 10 * time.Millisecond,
		StaleAfter:    time.Hour,
	}, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sched.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done
	sched.Stop()

	assert.Equal(t, baseline, remote.callCount(domain.KindScouts),
		"fresh cache must not trigger fetches")
}

func TestRefreshScheduler_RestartsAfterContextCancel(t *testing.T) {
	remote := newStubRemote()
	svc := NewCacheService(remote, nil)
	sched := NewRefreshScheduler(SchedulerConfig{
		CheckInterval: time.Hour,
		StaleAfter:    time.Hour,
	}, svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sched.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)

	sched.mu.Lock()
	running := sched.running
	sched.mu.Unlock()
	assert.False(t, running, "a cancelled run must reset the running flag")

	// The next Start has to actually enter its loop again rather than
	// bailing out as "already running".
	ctx2, cancel2 := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sched.Start(ctx2)
	}()

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		return sched.running
	}, 2*time.Second, 5*time.Millisecond)

	cancel2()
	<-done
	sched.Stop()
}

func TestRefreshScheduler_StopIsIdempotent(t *testing.T) {
	sched := NewRefreshScheduler(SchedulerConfig{}, NewCacheService(newStubRemote(), nil))
	sched.Stop()
	sched.Stop()
}

func TestRefreshScheduler_StartTwiceReturnsImmediately(t *testing.T) {
	svc := NewCacheService(newStubRemote(), nil)
	sched := NewRefreshScheduler(SchedulerConfig{
		CheckInterval: time.Hour,
		StaleAfter:    time.Hour,
	}, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Start(ctx) }()

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		return sched.running
	}, time.Second, 5*time.Millisecond)

	err := sched.Start(ctx)
	assert.NoError(t, err, "second start is a no-op")

	cancel()
	sched.Stop()
}
