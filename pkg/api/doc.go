// Package api contains the core building blocks used by the caseflow
// execution engine: the Result and Option values, the Issue taxonomy, the
// Params contract and the Case family.
//
// Most users interact with the higher-level caseflow package, which
// re-exports selected types and helpers from this package. The api package
// is intended for advanced use cases, custom executors, or contributors
// extending the engine itself.
//
// # Concepts
//
//   - Result[L, R] and Option[T]
//   - Issue, Failure, RepositoryError and DataSourceException
//   - Params and struct-tag validation
//   - Case, UseCase and OneWay
//   - Execution and Observer
//
// # Issues
//
// The Issue hierarchy is closed: every Issue embeds one of IssueBase,
// FailureBase, RepositoryErrorBase or DataSourceErrorBase. Define a leaf by
// embedding the base for its family:
//
//	type UserNotFound struct {
//	    api.FailureBase
//	    ID string
//	}
//
// MatchIssue dispatches on the family without a type switch per call site.
//
// # Cases
//
// UseCase is the validated two-result case. It calls IsValid on the params
// and, when they are invalid, returns the executor's OnInvalidParams without
// executing anything. OneWay cases report an Option: a success case returns
// None when there is nothing to report, a failure case returns None when the
// check passed.
//
// # Observability
//
// Every call creates an Execution with a unique ID. The Execution travels in
// the context, so flows nested inside a case report their steps to the same
// Observer. LoggingObserver, BasicMetrics, HistoryObserver and
// CompositeObserver cover the common needs.
package api
