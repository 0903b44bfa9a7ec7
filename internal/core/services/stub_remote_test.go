package services

import (
	"context"
	"sync"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
)

// stubRemote is a configurable RemoteClient for tests. Each kind returns
// its configured payload or error; unconfigured kinds return an empty
// payload. A kind listed in blocked waits on release before returning,
// which lets tests hold a fetch in flight.
type stubRemote struct {
	mu       sync.Mutex
	payloads map[domain.Kind]domain.Payload
	errs     map[domain.Kind]error
	blocked  map[domain.Kind]chan struct{}
	calls    map[domain.Kind]int
}

var _ driven.RemoteClient = (*stubRemote)(nil)

func newStubRemote() *stubRemote {
	return &stubRemote{
		payloads: make(map[domain.Kind]domain.Payload),
		errs:     make(map[domain.Kind]error),
		blocked:  make(map[domain.Kind]chan struct{}),
		calls:    make(map[domain.Kind]int),
	}
}

func (s *stubRemote) setPayload(kind domain.Kind, p domain.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[kind] = p
}

func (s *stubRemote) setErr(kind domain.Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[kind] = err
}

// hold makes fetches for the kind block until the returned release
// function is called.
func (s *stubRemote) hold(kind domain.Kind) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.blocked[kind] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (s *stubRemote) callCount(kind domain.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[kind]
}

func (s *stubRemote) fetch(ctx context.Context, kind domain.Kind) (domain.Payload, error) {
	s.mu.Lock()
	s.calls[kind]++
	gate := s.blocked[kind]
	p, err := s.payloads[kind], s.errs[kind]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *stubRemote) FetchScouts(ctx context.Context) (domain.ScoutsPayload, error) {
	p, err := s.fetch(ctx, domain.KindScouts)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return domain.ScoutsPayload{}, nil
	}
	return p.(domain.ScoutsPayload), nil
}

func (s *stubRemote) FetchAdults(ctx context.Context) (domain.AdultsPayload, error) {
	p, err := s.fetch(ctx, domain.KindAdults)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return domain.AdultsPayload{}, nil
	}
	return p.(domain.AdultsPayload), nil
}

func (s *stubRemote) FetchEvents(ctx context.Context) (domain.EventsPayload, error) {
	p, err := s.fetch(ctx, domain.KindEvents)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return domain.EventsPayload{}, nil
	}
	return p.(domain.EventsPayload), nil
}

func (s *stubRemote) FetchRanks(ctx context.Context) (domain.RanksPayload, error) {
	p, err := s.fetch(ctx, domain.KindRanks)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return domain.RanksPayload{}, nil
	}
	return p.(domain.RanksPayload), nil
}

func (s *stubRemote) FetchBadges(ctx context.Context) (domain.BadgesPayload, error) {
	p, err := s.fetch(ctx, domain.KindBadges)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return domain.BadgesPayload{}, nil
	}
	return p.(domain.BadgesPayload), nil
}

func (s *stubRemote) FetchUnit(ctx context.Context) (domain.UnitPayload, error) {
	p, err := s.fetch(ctx, domain.KindUnit)
	if err != nil {
		return domain.UnitPayload{}, err
	}
	if p == nil {
		return domain.UnitPayload{}, nil
	}
	return p.(domain.UnitPayload), nil
}
