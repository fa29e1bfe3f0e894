package caseflow

import (
	"context"

	"github.com/petrijr/caseflow/pkg/api"
	"github.com/petrijr/caseflow/pkg/flow"
)

// Re-export key types so users don't need to dig into pkg/api and pkg/flow.

type (
	Params              = api.Params
	NoParams            = api.NoParams
	Issue               = api.Issue
	Failure             = api.Failure
	RepositoryError     = api.RepositoryError
	DataSourceException = api.DataSourceException
	RequestInfo         = api.RequestInfo

	FailureBase          = api.FailureBase
	RepositoryErrorBase  = api.RepositoryErrorBase
	DataSourceErrorBase  = api.DataSourceErrorBase
	InvalidParamsFailure = api.InvalidParamsFailure
	UnexpectedFailure    = api.UnexpectedFailure

	Execution            = api.Execution
	Outcome              = api.Outcome
	CaseOption           = api.CaseOption
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	HistoryObserver      = api.HistoryObserver
	NoopObserver         = api.NoopObserver

	FaultContext = flow.FaultContext
	Phase        = flow.Phase
	PanicError   = flow.PanicError
)

// Generic re-exports.

type (
	Result[L, R any]                        = api.Result[L, R]
	Option[T any]                           = api.Option[T]
	UseCase[T any, P api.Params, L any]     = api.UseCase[T, P, L]
	OneWay[P, X any]                        = api.OneWay[P, X]
	Flow[T any, P api.Params, V any, L any] = flow.Flow[T, P, V, L]
	Resolver[L any]                         = flow.Resolver[L]
	Task[L, A any]                          = flow.Task[L, A]
	WrapErrorFunc[L any]                    = flow.WrapErrorFunc[L]
	ValueOption[L any]                      = flow.ValueOption[L]
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	WithObserver         = api.WithObserver
)

// Re-export outcome values for convenience.

const (
	OutcomeSucceeded     = api.OutcomeSucceeded
	OutcomeAbsent        = api.OutcomeAbsent
	OutcomeInvalidParams = api.OutcomeInvalidParams
	OutcomeFailed        = api.OutcomeFailed
	OutcomeFault         = api.OutcomeFault
)

// Result constructors.

// Left returns a failed Result.
func Left[L, R any](l L) Result[L, R] { return api.Left[L, R](l) }

// Right returns a successful Result.
func Right[L, R any](r R) Result[L, R] { return api.Right[L](r) }

// Some wraps v.
func Some[T any](v T) Option[T] { return api.Some(v) }

// None returns an empty Option.
func None[T any]() Option[T] { return api.None[T]() }

// Case constructors
// These wrap pkg/api so callers only need to import caseflow.

// NewUseCase wraps an executor into a validated two-result case.
func NewUseCase[T any, P Params, L any](name string, exec api.Executor[T, P, L], opts ...CaseOption) *UseCase[T, P, L] {
	return api.NewUseCase(name, exec, opts...)
}

// NewSuccessCase builds a one-way success-or-absent case.
func NewSuccessCase[P, T any](name string, fn func(context.Context, P) Option[T], opts ...CaseOption) *OneWay[P, T] {
	return api.NewSuccessCase(name, fn, opts...)
}

// NewFailureCase builds a one-way failure-or-absent case.
func NewFailureCase[P, L any](name string, fn func(context.Context, P) Option[L], opts ...CaseOption) *OneWay[P, L] {
	return api.NewFailureCase(name, fn, opts...)
}

// Flow helpers
// These forward to pkg/flow.

// Resolve runs task inside Obtain; see flow.Resolve.
func Resolve[L, A any](ctx context.Context, r *Resolver[L], task Task[L, A]) (A, error) {
	return flow.Resolve(ctx, r, task)
}

// Value resolves a plain Go call inside Obtain; see flow.Value.
func Value[L, V any](ctx context.Context, r *Resolver[L], call func(context.Context) (V, error), opts ...ValueOption[L]) (V, error) {
	return flow.Value(ctx, r, call, opts...)
}

// GetValue adapts a foreign call into a Task; see flow.GetValue.
func GetValue[L, V any](call func(context.Context) (V, error), wrap WrapErrorFunc[L], opts ...ValueOption[L]) Task[L, V] {
	return flow.GetValue(call, wrap, opts...)
}

// Mapper classifies the outcome of fn; see flow.Mapper.
func Mapper[L, T any](fn func() (T, error), wrap WrapErrorFunc[L]) Result[L, T] {
	return flow.Mapper(fn, wrap)
}

// Fail ends the surrounding flow with exactly failure.
func Fail[L any](failure L) error {
	return flow.Fail(failure)
}

// OnLeft maps an Issue returned by a call; see flow.OnLeft.
func OnLeft[L any](fn func(Issue) L) ValueOption[L] {
	return flow.OnLeft(fn)
}

// OnError classifies faults of a single call; see flow.OnError.
func OnError[L any](fn WrapErrorFunc[L]) ValueOption[L] {
	return flow.OnError(fn)
}

// Unexpected is a ready-made WrapError that classifies every fault as an
// UnexpectedFailure.
func Unexpected(err error, fc FaultContext) Failure {
	return api.NewUnexpectedFailure(err)
}

// Named sets the step name reported to observers; see flow.Named.
func Named[L any](name string) ValueOption[L] {
	return flow.Named[L](name)
}

// StructIsValid reports whether p passes its `validate` struct tags.
func StructIsValid(p any) bool {
	return api.StructIsValid(p)
}
