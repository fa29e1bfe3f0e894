// Package caseflow provides a small use-case execution engine for Go.
//
// A use case is the unit of application logic: it takes params, checks
// them, and ends in exactly one classified result. Caseflow makes the
// "ends in exactly one result" part hold no matter what the code inside
// does: return a domain failure, return a plain error, or panic.
//
// # Core Concepts
//
//  1. Result and Option
//  2. Issue taxonomy
//  3. Cases
//  4. Flow
//  5. Observer
//
// # Result and Option
//
// Result[L, R] holds either a failure (left) or a success (right).
// Option[T] holds a value or nothing. Both are plain values and safe to
// copy.
//
// # Issue taxonomy
//
// Issue is the root of the error hierarchy. It has three families:
//
//   - Failure: an expected domain outcome (not found, frozen, ...)
//   - RepositoryError: a persistence layer problem
//   - DataSourceException: a remote call problem with request metadata
//
// The hierarchy is sealed: embed FailureBase, RepositoryErrorBase or
// DataSourceErrorBase to define a leaf. MatchIssue dispatches on the family.
//
// # Cases
//
// UseCase checks params with IsValid and returns OnInvalidParams without
// executing when they are invalid. NewSuccessCase and NewFailureCase build
// one-way cases that return Some or None.
//
// # Flow
//
// A Flow runs in two phases:
//
//	Obtain(ctx, resolver, params) -> values
//	Transform(ctx, values)        -> entity
//
// Every fallible call in Obtain goes through the resolver. The first
// failure aborts the flow: no later steps run and Transform is skipped,
// even if Obtain ignores the returned error. Anything unexpected is handed
// to WrapError together with a FaultContext.
//
//	flow := caseflow.Define[Summary, Params, values, caseflow.Failure]("GetSummary").
//	    Obtain(func(ctx context.Context, r *caseflow.Resolver[caseflow.Failure], p Params) (values, error) {
//	        acct, err := caseflow.Value(ctx, r, func(ctx context.Context) (Account, error) {
//	            return store.Get(ctx, p.ID)
//	        }, caseflow.OnLeft(notFound))
//	        if err != nil {
//	            return values{}, err
//	        }
//	        return values{acct: acct}, nil
//	    }).
//	    Transform(buildSummary).
//	    WrapError(caseflow.Unexpected).
//	    Build()
//
// GetValue classifies a failed call with the precedence onLeft, then
// onError, then the flow's WrapError. Mapper classifies a standalone
// transformation the same way.
//
// # Observer
//
// Observers are notified when a case starts, succeeds or fails, and around
// every resolver step. LoggingObserver writes slog records, BasicMetrics
// keeps in-memory counters and HistoryObserver records an event list.
// pkg/telemetry adds zerolog, Prometheus and OpenTelemetry observers.
package caseflow
