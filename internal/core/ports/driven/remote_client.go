package driven

import (
	"context"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// RemoteClient fetches troop data from the remote source of truth, one
// operation per domain kind. Each operation returns the domain's normalised
// payload or an error wrapping one of the domain sentinels
// (ErrCredentialsNotFound, ErrAuthRejected, ErrUnreachable, ErrRemoteTimeout,
// ErrMalformed, ErrRateLimited) so fetchers can classify it.
//
// Implementations handle authentication and session management internally
// and must be safe for concurrent use: the refresh coordinator calls several
// operations at once.
type RemoteClient interface {
	FetchScouts(ctx context.Context) (domain.ScoutsPayload, error)
	FetchAdults(ctx context.Context) (domain.AdultsPayload, error)
	FetchEvents(ctx context.Context) (domain.EventsPayload, error)
	FetchRanks(ctx context.Context) (domain.RanksPayload, error)
	FetchBadges(ctx context.Context) (domain.BadgesPayload, error)
	FetchUnit(ctx context.Context) (domain.UnitPayload, error)
}
