package domain

import (
	"fmt"
	"time"
)

// SnapshotState describes the freshness of one domain's cached data.
type SnapshotState string

const (
	// StateEmpty means no payload has ever been fetched.
	StateEmpty SnapshotState = "empty"
	// StateFresh means the payload reflects the most recent attempt, which succeeded.
	StateFresh SnapshotState = "fresh"
	// StateStale means a usable payload exists but the most recent attempt failed.
	StateStale SnapshotState = "stale"
	// StateRefreshing means a fetch for the domain is in flight.
	StateRefreshing SnapshotState = "refreshing"
	// StateFailed means the most recent attempt failed and no payload exists.
	StateFailed SnapshotState = "failed"
)

// FailureReason is the closed taxonomy every fetch failure maps into.
type FailureReason string

const (
	// FailureAuthMissing means no usable credentials are stored.
	FailureAuthMissing FailureReason = "auth_missing"
	// FailureAuthRejected means the remote refused the credentials.
	FailureAuthRejected FailureReason = "auth_rejected"
	// FailureUnreachable means a network or transport failure.
	FailureUnreachable FailureReason = "unreachable"
	// FailureTimeout means the remote did not respond in time.
	FailureTimeout FailureReason = "timeout"
	// FailureMalformed means the response could not be normalised.
	FailureMalformed FailureReason = "malformed"
	// FailureUnknown is the catch-all. It should be rare and logged with detail.
	FailureUnknown FailureReason = "unknown"
)

// FetchFailure is a classified fetch failure: the taxonomy bucket plus
// the underlying detail for display and logs.
type FetchFailure struct {
	Reason FailureReason `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

// String renders the failure for status displays.
func (f *FetchFailure) String() string {
	if f == nil {
		return ""
	}
	if f.Detail == "" {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Detail)
}

// Snapshot is the cached state for one domain: payload plus freshness metadata.
//
// Payload is only ever replaced atomically. A failed or in-flight fetch never
// partially overwrites a previously successful payload, and FetchedAt only
// advances on success.
type Snapshot struct {
	Kind  Kind
	State SnapshotState

	// Payload is nil while the snapshot is Empty (or Failed with no prior success).
	Payload Payload

	// FetchedAt is when the payload was last successfully fetched.
	FetchedAt time.Time

	// LastAttemptAt is when a fetch was last attempted, success or failure.
	LastAttemptAt time.Time

	// LastError is the classified failure from the most recent attempt,
	// nil after a success.
	LastError *FetchFailure
}

// EmptySnapshot returns the initial snapshot for a kind.
func EmptySnapshot(kind Kind) Snapshot {
	return Snapshot{Kind: kind, State: StateEmpty}
}

// HasPayload reports whether a successfully fetched payload is present.
func (s Snapshot) HasPayload() bool {
	return s.Payload != nil
}

// Age returns how long ago the payload was fetched, or false if never.
func (s Snapshot) Age(now time.Time) (time.Duration, bool) {
	if s.FetchedAt.IsZero() {
		return 0, false
	}
	return now.Sub(s.FetchedAt), true
}

// OlderThan reports whether the payload is absent or older than d.
// Missing data counts as stale so callers can treat "never fetched"
// and "fetched long ago" uniformly when deciding to refresh.
func (s Snapshot) OlderThan(now time.Time, d time.Duration) bool {
	age, ok := s.Age(now)
	if !ok {
		return true
	}
	return age > d
}

// AgeDisplay renders the payload age for status lines: "just now",
// "Nm ago", "Nh ago", "Nd ago" (hours and days round up past the half
// mark), or "never" when no payload was ever fetched. Negative ages
// from clock skew render as "just now".
func (s Snapshot) AgeDisplay(now time.Time) string {
	age, ok := s.Age(now)
	if !ok {
		return "never"
	}

	minutes := int64(age.Minutes())
	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		hours := minutes / 60
		if minutes%60 >= 30 {
			hours++
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		days := minutes / (24 * 60)
		if (minutes%(24*60))/60 >= 12 {
			days++
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
