package api

import (
	"errors"
	"net/http"
)

// IssueKind identifies which refinement of Issue a value belongs to.
type IssueKind string

const (
	KindOther      IssueKind = "issue"
	KindFailure    IssueKind = "failure"
	KindRepository IssueKind = "repository"
	KindDataSource IssueKind = "data_source"
)

// Issue is the root of everything that can go wrong inside a case.
//
// The family is closed: concrete issues embed one of IssueBase, FailureBase,
// RepositoryErrorBase or DataSourceErrorBase, which supply the unexported
// marker method.
type Issue interface {
	error
	Message() string
	Kind() IssueKind
	issue()
}

// Failure is an expected business outcome. It is the only refinement that
// crosses an operation boundary.
type Failure interface {
	Issue
	failure()
}

// RepositoryError is a fault raised while aggregating data (orchestration,
// caching) below the operation boundary.
type RepositoryError interface {
	Issue
	Cause() error
	repositoryError()
}

// DataSourceException is a technical fault raised by an external call. It
// carries the originating request for diagnostics.
type DataSourceException interface {
	Issue
	Cause() error
	Request() RequestInfo
	dataSource()
}

// RequestInfo describes the request that produced a DataSourceException.
type RequestInfo struct {
	Method     string
	URL        string
	Headers    http.Header
	Body       []byte
	StatusCode int
}

// IssueBase is embedded by issues that belong to no refinement.
type IssueBase struct {
	Msg string
}

func (b IssueBase) Error() string {
	if b.Msg == "" {
		return "issue"
	}
	return b.Msg
}

func (b IssueBase) Message() string { return b.Msg }
func (IssueBase) Kind() IssueKind   { return KindOther }
func (IssueBase) issue()            {}

// FailureBase is embedded by concrete Failure types.
type FailureBase struct {
	Msg string
}

func (b FailureBase) Error() string {
	if b.Msg == "" {
		return "failure"
	}
	return "failure: " + b.Msg
}

func (b FailureBase) Message() string { return b.Msg }
func (FailureBase) Kind() IssueKind   { return KindFailure }
func (FailureBase) issue()            {}
func (FailureBase) failure()          {}

// RepositoryErrorBase is embedded by concrete RepositoryError types.
type RepositoryErrorBase struct {
	Msg string
	Err error
}

func (b RepositoryErrorBase) Error() string {
	msg := "repository error"
	if b.Msg != "" {
		msg += ": " + b.Msg
	}
	if b.Err != nil {
		msg += ": " + b.Err.Error()
	}
	return msg
}

func (b RepositoryErrorBase) Message() string { return b.Msg }
func (b RepositoryErrorBase) Cause() error    { return b.Err }
func (b RepositoryErrorBase) Unwrap() error   { return b.Err }
func (RepositoryErrorBase) Kind() IssueKind   { return KindRepository }
func (RepositoryErrorBase) issue()            {}
func (RepositoryErrorBase) repositoryError()  {}

// DataSourceErrorBase is embedded by concrete DataSourceException types.
type DataSourceErrorBase struct {
	Msg string
	Req RequestInfo
	Err error
}

func (b DataSourceErrorBase) Error() string {
	msg := "data source error"
	if b.Req.Method != "" || b.Req.URL != "" {
		msg += " (" + b.Req.Method + " " + b.Req.URL + ")"
	}
	if b.Msg != "" {
		msg += ": " + b.Msg
	}
	if b.Err != nil {
		msg += ": " + b.Err.Error()
	}
	return msg
}

func (b DataSourceErrorBase) Message() string      { return b.Msg }
func (b DataSourceErrorBase) Cause() error         { return b.Err }
func (b DataSourceErrorBase) Unwrap() error        { return b.Err }
func (b DataSourceErrorBase) Request() RequestInfo { return b.Req }
func (DataSourceErrorBase) Kind() IssueKind        { return KindDataSource }
func (DataSourceErrorBase) issue()                 {}
func (DataSourceErrorBase) dataSource()            {}

// InvalidParamsFailure is the failure returned when a case is called with
// parameters whose IsValid reports false.
type InvalidParamsFailure struct {
	FailureBase
	Problems []string
}

// NewInvalidParamsFailure builds an InvalidParamsFailure.
func NewInvalidParamsFailure(problems ...string) InvalidParamsFailure {
	return InvalidParamsFailure{
		FailureBase: FailureBase{Msg: "invalid params"},
		Problems:    problems,
	}
}

// UnexpectedFailure classifies a fault nobody anticipated. It is the usual
// result of a flow's catch-all WrapError.
type UnexpectedFailure struct {
	FailureBase
	Err error
}

// NewUnexpectedFailure wraps err.
func NewUnexpectedFailure(err error) UnexpectedFailure {
	msg := "unexpected error"
	if err != nil {
		msg = err.Error()
	}
	return UnexpectedFailure{FailureBase: FailureBase{Msg: msg}, Err: err}
}

func (f UnexpectedFailure) Unwrap() error { return f.Err }

// Compile-time checks.
var (
	_ Issue               = IssueBase{}
	_ Failure             = FailureBase{}
	_ RepositoryError     = RepositoryErrorBase{}
	_ DataSourceException = DataSourceErrorBase{}
	_ Failure             = InvalidParamsFailure{}
	_ Failure             = UnexpectedFailure{}
)

// AsIssue extracts the first Issue in err's chain.
func AsIssue(err error) (Issue, bool) {
	var issue Issue
	if errors.As(err, &issue) {
		return issue, true
	}
	return nil, false
}

// AsFailure extracts the first Failure in err's chain.
func AsFailure(err error) (Failure, bool) {
	var f Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IssueMatcher holds one branch per refinement for MatchIssue.
type IssueMatcher[T any] struct {
	Failure    func(Failure) T
	Repository func(RepositoryError) T
	DataSource func(DataSourceException) T
	Other      func(Issue) T
}

// MatchIssue dispatches issue to the branch for its refinement. A nil branch
// falls through to Other; a nil Other yields the zero T.
func MatchIssue[T any](issue Issue, m IssueMatcher[T]) T {
	switch v := issue.(type) {
	case Failure:
		if m.Failure != nil {
			return m.Failure(v)
		}
	case RepositoryError:
		if m.Repository != nil {
			return m.Repository(v)
		}
	case DataSourceException:
		if m.DataSource != nil {
			return m.DataSource(v)
		}
	}
	if m.Other != nil {
		return m.Other(issue)
	}
	var zero T
	return zero
}
