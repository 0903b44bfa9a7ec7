package domain

import (
	"context"
	"sync"
	"time"
)

// Outcome is the result of one domain fetch: a payload on success, or a
// classified failure. Exactly one of the two is set.
type Outcome struct {
	Payload Payload
	Failure *FetchFailure
}

// Succeeded builds a successful outcome.
func Succeeded(p Payload) Outcome {
	return Outcome{Payload: p}
}

// Failed builds a failed outcome.
func Failed(reason FailureReason, detail string) Outcome {
	return Outcome{Failure: &FetchFailure{Reason: reason, Detail: detail}}
}

// OK reports whether the outcome carries a payload.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// JobState is the overall completion state of a refresh job.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
)

// DomainOutcome pairs a kind with its fetch outcome and attempt time.
type DomainOutcome struct {
	Kind        Kind
	Outcome     Outcome
	AttemptedAt time.Time
}

// RefreshJob tracks one refresh request across its dispatched domains.
// It is ephemeral: created when a refresh is requested and of no further
// use once every dispatched domain has produced an outcome.
//
// Per-domain failure is normal and reported through each domain's outcome;
// a job with any mix of successes and failures still completes.
type RefreshJob struct {
	id         string
	dispatched []Kind
	skipped    []Kind

	mu       sync.Mutex
	state    JobState
	outcomes map[Kind]DomainOutcome
	done     chan struct{}
}

// NewRefreshJob creates a job for the dispatched kinds. Kinds that were
// already refreshing when the request arrived are recorded as skipped;
// their in-flight job is what the caller observes for them.
// A job with nothing to dispatch is complete immediately.
func NewRefreshJob(id string, dispatched, skipped []Kind) *RefreshJob {
	j := &RefreshJob{
		id:         id,
		dispatched: dispatched,
		skipped:    skipped,
		state:      JobPending,
		outcomes:   make(map[Kind]DomainOutcome, len(dispatched)),
		done:       make(chan struct{}),
	}
	if len(dispatched) == 0 {
		j.state = JobCompleted
		close(j.done)
	}
	return j
}

// ID returns the job identifier.
func (j *RefreshJob) ID() string { return j.id }

// Dispatched returns the kinds this job fetches.
func (j *RefreshJob) Dispatched() []Kind { return j.dispatched }

// Skipped returns the requested kinds that already had a fetch in flight.
func (j *RefreshJob) Skipped() []Kind { return j.skipped }

// State returns the job's completion state.
func (j *RefreshJob) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Record stores one domain's outcome. The job completes once every
// dispatched kind has recorded. Outcomes for kinds the job did not
// dispatch are ignored.
func (j *RefreshJob) Record(res DomainOutcome) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.isDispatched(res.Kind) {
		return
	}
	if _, dup := j.outcomes[res.Kind]; dup {
		return
	}
	j.outcomes[res.Kind] = res
	j.state = JobRunning
	if len(j.outcomes) == len(j.dispatched) {
		j.state = JobCompleted
		close(j.done)
	}
}

// Done returns a channel closed when the job completes.
func (j *RefreshJob) Done() <-chan struct{} { return j.done }

// Wait blocks until the job completes or the context is cancelled.
// Cancellation does not cancel in-flight fetches; they keep running
// and merge when they finish.
func (j *RefreshJob) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcome returns the recorded outcome for a kind, if any.
func (j *RefreshJob) Outcome(kind Kind) (DomainOutcome, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	res, ok := j.outcomes[kind]
	return res, ok
}

// Outcomes returns a copy of all recorded outcomes.
func (j *RefreshJob) Outcomes() map[Kind]DomainOutcome {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make(map[Kind]DomainOutcome, len(j.outcomes))
	for k, v := range j.outcomes {
		out[k] = v
	}
	return out
}

func (j *RefreshJob) isDispatched(kind Kind) bool {
	for _, k := range j.dispatched {
		if k == kind {
			return true
		}
	}
	return false
}
