package services

import (
	"context"
	"errors"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/logger"
)

// fetchFunc retrieves one domain's payload from the remote client.
// Fetchers are side-effect-free on failure: an error leaves no partial
// local state behind.
type fetchFunc func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error)

// fetcherFor dispatches over the closed kind set. The per-kind remote
// translation lives behind the RemoteClient port; this table is the only
// place the engine knows one kind from another.
func fetcherFor(kind domain.Kind) (fetchFunc, bool) {
	switch kind {
	case domain.KindScouts:
		return func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error) {
			return rc.FetchScouts(ctx)
		}, true
	case domain.KindAdults:
		return func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error) {
			return rc.FetchAdults(ctx)
		}, true
	case domain.KindEvents:
		return func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error) {
			return rc.FetchEvents(ctx)
		}, true
	case domain.KindRanks:
		return func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error) {
			return rc.FetchRanks(ctx)
		}, true
	case domain.KindBadges:
		return func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error) {
			return rc.FetchBadges(ctx)
		}, true
	case domain.KindUnit:
		return func(ctx context.Context, rc driven.RemoteClient) (domain.Payload, error) {
			return rc.FetchUnit(ctx)
		}, true
	default:
		return nil, false
	}
}

// runFetch executes one domain fetch and converts the result into a typed
// outcome. Errors never escape as faults; every failure lands in the
// closed taxonomy.
func runFetch(ctx context.Context, kind domain.Kind, rc driven.RemoteClient) domain.Outcome {
	fetch, ok := fetcherFor(kind)
	if !ok {
		return domain.Failed(domain.FailureUnknown, "no fetcher for kind "+string(kind))
	}

	payload, err := fetch(ctx, rc)
	if err != nil {
		reason := classifyFetchErr(err)
		if reason == domain.FailureUnknown {
			logger.Warn("unclassified %s fetch failure: %v", kind, err)
		}
		return domain.Failed(reason, err.Error())
	}
	return domain.Succeeded(payload)
}

// classifyFetchErr maps an error onto the failure taxonomy via the domain
// sentinels the remote client wraps. Rate-limit exhaustion has no bucket of
// its own and is reported as unknown, with the detail preserved.
func classifyFetchErr(err error) domain.FailureReason {
	switch {
	case errors.Is(err, domain.ErrCredentialsNotFound):
		return domain.FailureAuthMissing
	case errors.Is(err, domain.ErrAuthRejected):
		return domain.FailureAuthRejected
	case errors.Is(err, domain.ErrRemoteTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.FailureTimeout
	case errors.Is(err, domain.ErrUnreachable):
		return domain.FailureUnreachable
	case errors.Is(err, domain.ErrMalformed):
		return domain.FailureMalformed
	default:
		return domain.FailureUnknown
	}
}
