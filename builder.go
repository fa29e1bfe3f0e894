package caseflow

import (
	"fmt"

	"github.com/petrijr/caseflow/pkg/api"
	"github.com/petrijr/caseflow/pkg/flow"
)

// FlowBuilder provides a fluent API for defining flows:
//
//	uc := caseflow.Define[Summary, SummaryParams, summaryValues, caseflow.Failure]("GetSummary").
//	    Obtain(obtainSummary).
//	    Transform(buildSummary).
//	    WrapError(caseflow.Unexpected).
//	    OnInvalidParams(func() caseflow.Failure { return caseflow.InvalidParamsFailure{} }).
//	    Observe(obs).
//	    Build()
//
//	res := uc.Call(ctx, params)
type FlowBuilder[T any, P api.Params, V any, L any] struct {
	f         flow.Flow[T, P, V, L]
	observers []api.Observer
}

// Define creates a new flow builder with the given name.
func Define[T any, P api.Params, V any, L any](name string) *FlowBuilder[T, P, V, L] {
	if name == "" {
		panic("caseflow: flow name must not be empty")
	}
	return &FlowBuilder[T, P, V, L]{f: flow.Flow[T, P, V, L]{Name: name}}
}

// Name returns the flow name.
func (b *FlowBuilder[T, P, V, L]) Name() string {
	return b.f.Name
}

// Obtain sets the value-gathering phase.
func (b *FlowBuilder[T, P, V, L]) Obtain(fn flow.ObtainFunc[P, V, L]) *FlowBuilder[T, P, V, L] {
	if fn == nil {
		panic(fmt.Sprintf("caseflow: flow %q has nil Obtain", b.f.Name))
	}
	b.f.Obtain = fn
	return b
}

// Transform sets the mapping phase.
func (b *FlowBuilder[T, P, V, L]) Transform(fn flow.TransformFunc[V, T]) *FlowBuilder[T, P, V, L] {
	if fn == nil {
		panic(fmt.Sprintf("caseflow: flow %q has nil Transform", b.f.Name))
	}
	b.f.Transform = fn
	return b
}

// WrapError sets the flow-level fault classifier.
func (b *FlowBuilder[T, P, V, L]) WrapError(fn flow.WrapErrorFunc[L]) *FlowBuilder[T, P, V, L] {
	if fn == nil {
		panic(fmt.Sprintf("caseflow: flow %q has nil WrapError", b.f.Name))
	}
	b.f.WrapError = fn
	return b
}

// OnInvalidParams sets the failure returned for invalid params. Without it
// WrapError receives flow.ErrInvalidParams.
func (b *FlowBuilder[T, P, V, L]) OnInvalidParams(fn func() L) *FlowBuilder[T, P, V, L] {
	b.f.InvalidParams = fn
	return b
}

// Observe attaches an observer to the built use case. Multiple observers
// are combined in registration order.
func (b *FlowBuilder[T, P, V, L]) Observe(obs api.Observer) *FlowBuilder[T, P, V, L] {
	if obs != nil {
		b.observers = append(b.observers, obs)
	}
	return b
}

// Flow returns a copy of the underlying flow.
// Panics if a required part is missing.
func (b *FlowBuilder[T, P, V, L]) Flow() *flow.Flow[T, P, V, L] {
	f := b.f
	if err := f.Validate(); err != nil {
		panic("caseflow: " + err.Error())
	}
	return &f
}

// Build returns the flow wrapped into a validated use case.
func (b *FlowBuilder[T, P, V, L]) Build() *api.UseCase[T, P, L] {
	return b.Flow().UseCase(api.WithObserver(api.NewCompositeObserver(b.observers...)))
}
