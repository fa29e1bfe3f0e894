package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from cases and flows for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay the call being observed.
type Observer interface {
	// OnCaseStart is called once per Call, before params are validated.
	OnCaseStart(ctx context.Context, exec *Execution)

	// OnCaseSucceeded is called when a call ends in a success or, for
	// one-way cases, in absence.
	OnCaseSucceeded(ctx context.Context, exec *Execution)

	// OnCaseFailed is called when a call ends in a classified failure.
	OnCaseFailed(ctx context.Context, exec *Execution, failure any)

	// OnStepStart is called before a flow resolves a task.
	// stepIndex is the 0-based position of the task within the gather phase.
	OnStepStart(ctx context.Context, exec *Execution, stepName string, stepIndex int)

	// OnStepCompleted is called after a task resolves, for both successes
	// and failures (err != nil).
	OnStepCompleted(ctx context.Context, exec *Execution, stepName string, stepIndex int, err error, duration time.Duration)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnCaseStart(ctx context.Context, exec *Execution)                  {}
func (NoopObserver) OnCaseSucceeded(ctx context.Context, exec *Execution)              {}
func (NoopObserver) OnCaseFailed(ctx context.Context, exec *Execution, failure any)    {}
func (NoopObserver) OnStepStart(ctx context.Context, exec *Execution, step string, idx int) {}
func (NoopObserver) OnStepCompleted(ctx context.Context, exec *Execution, step string, idx int, err error, d time.Duration) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnCaseStart(ctx context.Context, exec *Execution) {
	for _, o := range c.observers {
		o.OnCaseStart(ctx, exec)
	}
}

func (c *CompositeObserver) OnCaseSucceeded(ctx context.Context, exec *Execution) {
	for _, o := range c.observers {
		o.OnCaseSucceeded(ctx, exec)
	}
}

func (c *CompositeObserver) OnCaseFailed(ctx context.Context, exec *Execution, failure any) {
	for _, o := range c.observers {
		o.OnCaseFailed(ctx, exec, failure)
	}
}

func (c *CompositeObserver) OnStepStart(ctx context.Context, exec *Execution, step string, idx int) {
	for _, o := range c.observers {
		o.OnStepStart(ctx, exec, step, idx)
	}
}

func (c *CompositeObserver) OnStepCompleted(ctx context.Context, exec *Execution, step string, idx int, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnStepCompleted(ctx, exec, step, idx, err, d)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs case / step lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnCaseStart(ctx context.Context, exec *Execution) {
	o.Logger.DebugContext(ctx, "case_start",
		slog.String("case", exec.Case),
		slog.String("execution_id", exec.ID),
	)
}

func (o *LoggingObserver) OnCaseSucceeded(ctx context.Context, exec *Execution) {
	o.Logger.InfoContext(ctx, "case_succeeded",
		slog.String("case", exec.Case),
		slog.String("execution_id", exec.ID),
		slog.String("outcome", string(exec.Outcome())),
		slog.Duration("duration", exec.Elapsed()),
	)
}

func (o *LoggingObserver) OnCaseFailed(ctx context.Context, exec *Execution, failure any) {
	level := slog.LevelWarn
	if exec.Outcome() == OutcomeFault {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "case_failed",
		slog.String("case", exec.Case),
		slog.String("execution_id", exec.ID),
		slog.String("outcome", string(exec.Outcome())),
		slog.Duration("duration", exec.Elapsed()),
		slog.Any("failure", failure),
	)
}

func (o *LoggingObserver) OnStepStart(ctx context.Context, exec *Execution, step string, idx int) {
	o.Logger.DebugContext(ctx, "step_start",
		slog.String("case", exec.Case),
		slog.String("execution_id", exec.ID),
		slog.String("step", step),
		slog.Int("step_index", idx),
	)
}

func (o *LoggingObserver) OnStepCompleted(ctx context.Context, exec *Execution, step string, idx int, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}
	o.Logger.Log(ctx, level, "step_completed",
		slog.String("case", exec.Case),
		slog.String("execution_id", exec.ID),
		slog.String("step", step),
		slog.Int("step_index", idx),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters and aggregate step durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	casesStarted      atomic.Int64
	casesSucceeded    atomic.Int64
	casesFailed       atomic.Int64
	casesFaulted      atomic.Int64
	stepsCompleted    atomic.Int64
	stepsFailed       atomic.Int64
	totalStepDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	CasesStarted   int64
	CasesSucceeded int64
	CasesFailed    int64
	CasesFaulted   int64
	InFlightCases  int64

	StepsCompleted  int64
	StepsFailed     int64
	AvgStepDuration time.Duration
}

func (m *BasicMetrics) OnCaseStart(ctx context.Context, exec *Execution) {
	m.casesStarted.Add(1)
}

func (m *BasicMetrics) OnCaseSucceeded(ctx context.Context, exec *Execution) {
	m.casesSucceeded.Add(1)
}

// OnCaseFailed counts faults (failures produced by a catch-all classifier)
// separately from explicit failures; both count as failed.
func (m *BasicMetrics) OnCaseFailed(ctx context.Context, exec *Execution, failure any) {
	m.casesFailed.Add(1)
	if exec.Outcome() == OutcomeFault {
		m.casesFaulted.Add(1)
	}
}

func (m *BasicMetrics) OnStepCompleted(ctx context.Context, exec *Execution, step string, idx int, err error, d time.Duration) {
	if err != nil {
		m.stepsFailed.Add(1)
		return
	}
	// Only successful steps count towards the average duration.
	m.stepsCompleted.Add(1)
	m.totalStepDuration.Add(d.Nanoseconds())
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.casesStarted.Load()
	succeeded := m.casesSucceeded.Load()
	failed := m.casesFailed.Load()
	steps := m.stepsCompleted.Load()
	totalNs := m.totalStepDuration.Load()

	var avg time.Duration
	if steps > 0 {
		avg = time.Duration(totalNs / steps)
	}

	return BasicMetricsSnapshot{
		CasesStarted:    started,
		CasesSucceeded:  succeeded,
		CasesFailed:     failed,
		CasesFaulted:    m.casesFaulted.Load(),
		InFlightCases:   started - succeeded - failed,
		StepsCompleted:  steps,
		StepsFailed:     m.stepsFailed.Load(),
		AvgStepDuration: avg,
	}
}
