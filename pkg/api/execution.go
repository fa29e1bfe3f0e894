package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal classification of one case execution.
type Outcome string

const (
	OutcomePending       Outcome = "PENDING"
	OutcomeSucceeded     Outcome = "SUCCEEDED"
	OutcomeAbsent        Outcome = "ABSENT"
	OutcomeInvalidParams Outcome = "INVALID_PARAMS"
	OutcomeFailed        Outcome = "FAILED"
	OutcomeFault         Outcome = "FAULT"
)

// Execution describes a single call of a case. It lives only for the
// duration of that call.
type Execution struct {
	ID        string
	Case      string
	StartedAt time.Time

	mu       sync.Mutex
	outcome  Outcome
	observer Observer
}

// NewExecution starts the record of one call of the named case. A nil
// observer is replaced by NoopObserver.
func NewExecution(caseName string, obs Observer) *Execution {
	if obs == nil {
		obs = NoopObserver{}
	}
	return &Execution{
		ID:        uuid.NewString(),
		Case:      caseName,
		StartedAt: time.Now(),
		outcome:   OutcomePending,
		observer:  obs,
	}
}

// Outcome returns the current classification.
func (e *Execution) Outcome() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome
}

// SetOutcome records the classification of the call.
func (e *Execution) SetOutcome(o Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outcome = o
}

// setOutcomeIfPending keeps a more specific outcome recorded by a flow.
func (e *Execution) setOutcomeIfPending(o Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == OutcomePending {
		e.outcome = o
	}
}

// Observer returns the observer that receives this execution's events.
func (e *Execution) Observer() Observer {
	return e.observer
}

// Elapsed is the time since the call started.
func (e *Execution) Elapsed() time.Duration {
	return time.Since(e.StartedAt)
}

type executionContextKey struct{}

// ContextWithExecution attaches exec to ctx so nested flows report their
// steps to the same observer.
func ContextWithExecution(ctx context.Context, exec *Execution) context.Context {
	return context.WithValue(ctx, executionContextKey{}, exec)
}

// ExecutionFromContext returns the execution attached to ctx, if any.
func ExecutionFromContext(ctx context.Context) (*Execution, bool) {
	exec, ok := ctx.Value(executionContextKey{}).(*Execution)
	return exec, ok && exec != nil
}
