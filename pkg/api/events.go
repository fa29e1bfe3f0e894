package api

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// EventType identifies a case history event.
type EventType string

const (
	EventCaseStarted   EventType = "case.started"
	EventCaseSucceeded EventType = "case.succeeded"
	EventCaseFailed    EventType = "case.failed"

	EventStepStarted   EventType = "step.started"
	EventStepCompleted EventType = "step.completed"
	EventStepFailed    EventType = "step.failed"
)

// CaseEvent is a minimal history record for audit/debugging.
type CaseEvent struct {
	ExecutionID string
	At          time.Time
	Type        EventType

	Case    string
	Step    string
	Outcome Outcome

	// Small, human-oriented details (e.g. failure or error string).
	// Keep this low-volume: do NOT dump large payloads here.
	Detail string
}

// HistoryObserver records every event it sees, in order. It is mostly
// useful in tests and local debugging.
type HistoryObserver struct {
	mu     sync.Mutex
	events []CaseEvent
}

var _ Observer = (*HistoryObserver)(nil)

func (h *HistoryObserver) record(ev CaseEvent) {
	ev.At = time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

// Events returns a copy of the recorded history.
func (h *HistoryObserver) Events() []CaseEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]CaseEvent, len(h.events))
	copy(out, h.events)
	return out
}

// Types returns the recorded event types, in order.
func (h *HistoryObserver) Types() []EventType {
	events := h.Events()
	out := make([]EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func (h *HistoryObserver) OnCaseStart(ctx context.Context, exec *Execution) {
	h.record(CaseEvent{ExecutionID: exec.ID, Type: EventCaseStarted, Case: exec.Case})
}

func (h *HistoryObserver) OnCaseSucceeded(ctx context.Context, exec *Execution) {
	h.record(CaseEvent{ExecutionID: exec.ID, Type: EventCaseSucceeded, Case: exec.Case, Outcome: exec.Outcome()})
}

func (h *HistoryObserver) OnCaseFailed(ctx context.Context, exec *Execution, failure any) {
	h.record(CaseEvent{
		ExecutionID: exec.ID,
		Type:        EventCaseFailed,
		Case:        exec.Case,
		Outcome:     exec.Outcome(),
		Detail:      fmt.Sprint(failure),
	})
}

func (h *HistoryObserver) OnStepStart(ctx context.Context, exec *Execution, step string, idx int) {
	h.record(CaseEvent{ExecutionID: exec.ID, Type: EventStepStarted, Case: exec.Case, Step: step})
}

func (h *HistoryObserver) OnStepCompleted(ctx context.Context, exec *Execution, step string, idx int, err error, d time.Duration) {
	ev := CaseEvent{ExecutionID: exec.ID, Type: EventStepCompleted, Case: exec.Case, Step: step}
	if err != nil {
		ev.Type = EventStepFailed
		ev.Detail = err.Error()
	}
	h.record(ev)
}
