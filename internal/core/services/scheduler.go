package services

import (
	"context"
	"sync"
	"time"

	"github.com/dlaporte/trailcache/internal/core/ports/driving"
	"github.com/dlaporte/trailcache/internal/logger"
)

// SchedulerConfig controls the background refresh cadence.
type SchedulerConfig struct {
	// CheckInterval is how often the scheduler looks for stale data.
	CheckInterval time.Duration

	// StaleAfter is the age past which cached data is considered due for
	// a refresh.
	StaleAfter time.Duration
}

// DefaultSchedulerConfig matches the cadence the cache was designed around:
// data older than an hour is due, checked every five minutes.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CheckInterval: 5 * time.Minute,
		StaleAfter:    time.Hour,
	}
}

// RefreshScheduler periodically requests a refresh when cached data grows
// old. It is an optional wrapper over the cache facade: retry cadence
// stays under its control and the core refresh contract is unchanged.
// Failed kinds are simply attempted again on the next due cycle.
type RefreshScheduler struct {
	config SchedulerConfig
	cache  driving.Cache

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRefreshScheduler creates a scheduler over the cache facade.
func NewRefreshScheduler(config SchedulerConfig, cache driving.Cache) *RefreshScheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = DefaultSchedulerConfig().CheckInterval
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = DefaultSchedulerConfig().StaleAfter
	}
	return &RefreshScheduler{config: config, cache: cache}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	// Whatever ends the loop, leave the scheduler restartable. The stopCh
	// comparison keeps a late exit from clobbering a newer Start.
	defer func() {
		s.mu.Lock()
		if s.stopCh == stopCh {
			s.running = false
		}
		s.mu.Unlock()
	}()

	// Check immediately on startup so a cold or long-idle cache refreshes
	// without waiting a full interval.
	s.refreshIfDue(ctx)

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.refreshIfDue(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for a dispatched
// refresh wait-loop to finish. In-flight fetches keep running to
// completion and still merge.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.stopCh)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// refreshIfDue dispatches a full refresh when any kind's data is older
// than the configured threshold.
func (s *RefreshScheduler) refreshIfDue(ctx context.Context) {
	if !s.cache.AnyOlderThan(s.config.StaleAfter) {
		logger.Debug("scheduler: cache fresh, skipping refresh")
		return
	}

	logger.Info("scheduler: cache older than %s, refreshing", s.config.StaleAfter)
	job := s.cache.RequestRefresh(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := job.Wait(ctx); err != nil {
			logger.Debug("scheduler: wait for refresh %s: %v", job.ID(), err)
			return
		}
		for kind, res := range job.Outcomes() {
			if !res.Outcome.OK() {
				logger.Warn("scheduler: %s refresh failed: %s", kind, res.Outcome.Failure)
			}
		}
	}()
}
