package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnknownKind indicates a domain kind outside the closed set.
	ErrUnknownKind = errors.New("unknown domain kind")

	// Remote client errors. Fetchers classify these into the failure taxonomy.

	// ErrCredentialsNotFound indicates no credentials are stored in the vault.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrAuthRejected indicates the remote refused the stored credentials.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrUnreachable indicates a network or transport failure reaching the remote.
	ErrUnreachable = errors.New("remote unreachable")

	// ErrRemoteTimeout indicates the remote did not respond within the deadline.
	ErrRemoteTimeout = errors.New("remote request timed out")

	// ErrMalformed indicates a remote response that could not be normalised
	// into the domain's payload shape.
	ErrMalformed = errors.New("malformed remote response")

	// ErrRateLimited indicates the remote rate limit was exhausted after retries.
	ErrRateLimited = errors.New("rate limited")
)
