package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/petrijr/caseflow/pkg/api"
)

// ErrInvalidParams is handed to WrapError when a flow without an
// InvalidParams constructor is called with invalid params.
var ErrInvalidParams = errors.New("invalid params")

// ObtainFunc gathers the values a flow needs. Every fallible step should go
// through the resolver so the first failure aborts the flow.
type ObtainFunc[P, V, L any] func(ctx context.Context, r *Resolver[L], params P) (V, error)

// TransformFunc maps gathered values to the success entity. Returning (or
// panicking with) Fail(l) ends the flow with exactly l.
type TransformFunc[V, T any] func(ctx context.Context, values V) (T, error)

// Flow is a two-phase executor: Obtain gathers values, Transform maps them
// to the success entity. Execute always ends in one classified result.
//
// A Flow holds no per-call state and is safe for concurrent use once
// constructed.
type Flow[T any, P api.Params, V any, L any] struct {
	Name          string
	Obtain        ObtainFunc[P, V, L]
	Transform     TransformFunc[V, T]
	WrapError     WrapErrorFunc[L]
	InvalidParams func() L
}

var _ api.Executor[struct{}, api.NoParams, api.Failure] = (*Flow[struct{}, api.NoParams, struct{}, api.Failure])(nil)

// New builds a Flow and checks that all required parts are present.
func New[T any, P api.Params, V any, L any](
	name string,
	obtain ObtainFunc[P, V, L],
	transform TransformFunc[V, T],
	wrap WrapErrorFunc[L],
) *Flow[T, P, V, L] {
	f := &Flow[T, P, V, L]{
		Name:      name,
		Obtain:    obtain,
		Transform: transform,
		WrapError: wrap,
	}
	if err := f.Validate(); err != nil {
		panic("caseflow: " + err.Error())
	}
	return f
}

// Validate reports a missing required part.
func (f *Flow[T, P, V, L]) Validate() error {
	switch {
	case f.Name == "":
		return errors.New("flow name must not be empty")
	case f.Obtain == nil:
		return fmt.Errorf("flow %q has nil Obtain", f.Name)
	case f.Transform == nil:
		return fmt.Errorf("flow %q has nil Transform", f.Name)
	case f.WrapError == nil:
		return fmt.Errorf("flow %q has nil WrapError", f.Name)
	}
	return nil
}

// OnInvalidParams implements api.Executor.
func (f *Flow[T, P, V, L]) OnInvalidParams() L {
	if f.InvalidParams != nil {
		return f.InvalidParams()
	}
	return f.WrapError(ErrInvalidParams, FaultContext{Case: f.Name})
}

// UseCase wraps the flow into a validated case.
func (f *Flow[T, P, V, L]) UseCase(opts ...api.CaseOption) *api.UseCase[T, P, L] {
	return api.NewUseCase[T, P, L](f.Name, f, opts...)
}

// Execute runs Obtain then Transform:
//
//   - a failure surfaced through the resolver ends the flow with that
//     failure, even if Obtain swallowed the error, and Transform never runs;
//   - Fail(l) returned or panicked from either phase ends the flow with l;
//   - any other error or panic is classified by WrapError.
//
// WrapError must not panic; everything else is recovered.
func (f *Flow[T, P, V, L]) Execute(ctx context.Context, params P) api.Result[L, T] {
	exec, ok := api.ExecutionFromContext(ctx)
	if !ok {
		exec = api.NewExecution(f.Name, nil)
		ctx = api.ContextWithExecution(ctx, exec)
	}
	r := newResolver(f.Name, f.WrapError, exec)

	var values V
	g := guard(func() error {
		var err error
		values, err = f.Obtain(ctx, r, params)
		return err
	})
	if failure, aborted := r.failure(); aborted {
		exec.SetOutcome(api.OutcomeFailed)
		return api.Left[L, T](failure)
	}
	if g.err != nil {
		return f.classify(exec, r, g.err, g.context(f.Name, PhaseObtain))
	}

	var out T
	g = guard(func() error {
		var err error
		out, err = f.Transform(ctx, values)
		return err
	})
	if g.err != nil {
		return f.classify(exec, r, g.err, g.context(f.Name, PhaseTransform))
	}
	return api.Right[L](out)
}

func (f *Flow[T, P, V, L]) classify(exec *api.Execution, r *Resolver[L], err error, fc FaultContext) api.Result[L, T] {
	if failure, ok := explicitFailure(err, r); ok {
		exec.SetOutcome(api.OutcomeFailed)
		return api.Left[L, T](failure)
	}
	exec.SetOutcome(api.OutcomeFault)
	return api.Left[L, T](f.WrapError(err, fc))
}
