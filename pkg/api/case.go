package api

import (
	"context"
)

// Case is the plain operation shape. The result type is owned by the
// concrete operation.
type Case[P, R any] interface {
	Call(ctx context.Context, params P) R
}

// CaseFunc adapts a function to Case.
type CaseFunc[P, R any] func(ctx context.Context, params P) R

// Call implements Case.
func (f CaseFunc[P, R]) Call(ctx context.Context, params P) R {
	return f(ctx, params)
}

// Executor supplies the body of a validated two-result case.
//
// Execute is only invoked with valid params. Hand-written executors are
// responsible for converting their own faults; flow.Flow does that for you.
type Executor[T any, P Params, L any] interface {
	Execute(ctx context.Context, params P) Result[L, T]
	OnInvalidParams() L
}

// CaseOption configures a case.
type CaseOption func(*caseConfig)

type caseConfig struct {
	observer Observer
}

// WithObserver sets the observer notified about every call of the case.
func WithObserver(obs Observer) CaseOption {
	return func(c *caseConfig) {
		c.observer = obs
	}
}

func newCaseConfig(opts []CaseOption) caseConfig {
	cfg := caseConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.observer == nil {
		cfg.observer = NoopObserver{}
	}
	return cfg
}

// UseCase is a validated two-result case: invalid params short-circuit to
// OnInvalidParams, everything else is delegated to the Executor.
type UseCase[T any, P Params, L any] struct {
	name     string
	exec     Executor[T, P, L]
	observer Observer
}

var _ Case[NoParams, Result[Failure, struct{}]] = (*UseCase[struct{}, NoParams, Failure])(nil)

// NewUseCase wraps exec into a UseCase.
func NewUseCase[T any, P Params, L any](name string, exec Executor[T, P, L], opts ...CaseOption) *UseCase[T, P, L] {
	if name == "" {
		panic("caseflow: case name must not be empty")
	}
	if exec == nil {
		panic("caseflow: case " + name + " has nil executor")
	}
	cfg := newCaseConfig(opts)
	return &UseCase[T, P, L]{
		name:     name,
		exec:     exec,
		observer: cfg.observer,
	}
}

// Name returns the case name.
func (u *UseCase[T, P, L]) Name() string { return u.name }

// Call validates params and runs the executor.
func (u *UseCase[T, P, L]) Call(ctx context.Context, params P) Result[L, T] {
	exec := NewExecution(u.name, u.observer)
	ctx = ContextWithExecution(ctx, exec)
	u.observer.OnCaseStart(ctx, exec)

	if !params.IsValid() {
		exec.SetOutcome(OutcomeInvalidParams)
		failure := u.exec.OnInvalidParams()
		u.observer.OnCaseFailed(ctx, exec, failure)
		return Left[L, T](failure)
	}

	res := u.exec.Execute(ctx, params)
	if failure, ok := res.Left(); ok {
		exec.setOutcomeIfPending(OutcomeFailed)
		u.observer.OnCaseFailed(ctx, exec, failure)
		return res
	}
	exec.SetOutcome(OutcomeSucceeded)
	u.observer.OnCaseSucceeded(ctx, exec)
	return res
}

// OneWay is a case that reports an optional value. Depending on the
// constructor the value is either a success (absence means nothing to
// report) or a failure (absence means the check passed).
type OneWay[P, X any] struct {
	name      string
	fn        func(ctx context.Context, params P) Option[X]
	observer  Observer
	isFailure bool
}

// NewSuccessCase builds a one-way success-or-absent case.
func NewSuccessCase[P, T any](name string, fn func(ctx context.Context, params P) Option[T], opts ...CaseOption) *OneWay[P, T] {
	return newOneWay(name, fn, false, opts)
}

// NewFailureCase builds a one-way failure-or-absent case.
func NewFailureCase[P, L any](name string, fn func(ctx context.Context, params P) Option[L], opts ...CaseOption) *OneWay[P, L] {
	return newOneWay(name, fn, true, opts)
}

func newOneWay[P, X any](name string, fn func(context.Context, P) Option[X], isFailure bool, opts []CaseOption) *OneWay[P, X] {
	if name == "" {
		panic("caseflow: case name must not be empty")
	}
	if fn == nil {
		panic("caseflow: case " + name + " has nil function")
	}
	cfg := newCaseConfig(opts)
	return &OneWay[P, X]{
		name:      name,
		fn:        fn,
		observer:  cfg.observer,
		isFailure: isFailure,
	}
}

// Name returns the case name.
func (o *OneWay[P, X]) Name() string { return o.name }

// Call runs the case.
func (o *OneWay[P, X]) Call(ctx context.Context, params P) Option[X] {
	exec := NewExecution(o.name, o.observer)
	ctx = ContextWithExecution(ctx, exec)
	o.observer.OnCaseStart(ctx, exec)

	out := o.fn(ctx, params)
	v, present := out.Get()
	switch {
	case !present:
		exec.SetOutcome(OutcomeAbsent)
		o.observer.OnCaseSucceeded(ctx, exec)
	case o.isFailure:
		exec.SetOutcome(OutcomeFailed)
		o.observer.OnCaseFailed(ctx, exec, v)
	default:
		exec.SetOutcome(OutcomeSucceeded)
		o.observer.OnCaseSucceeded(ctx, exec)
	}
	return out
}

// SuccessOnly derives a success-or-absent case from a two-result case; any
// failure is reported as absence.
func SuccessOnly[T any, P Params, L any](name string, uc Case[P, Result[L, T]], opts ...CaseOption) *OneWay[P, T] {
	return NewSuccessCase(name, func(ctx context.Context, params P) Option[T] {
		return uc.Call(ctx, params).ToOption()
	}, opts...)
}

// FailureOnly derives a failure-or-absent case from a two-result case; a
// success is reported as absence.
func FailureOnly[T any, P Params, L any](name string, uc Case[P, Result[L, T]], opts ...CaseOption) *OneWay[P, L] {
	return NewFailureCase(name, func(ctx context.Context, params P) Option[L] {
		return uc.Call(ctx, params).LeftOption()
	}, opts...)
}
