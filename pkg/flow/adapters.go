package flow

import (
	"context"
	"errors"

	"github.com/petrijr/caseflow/pkg/api"
)

var errNilIssue = errors.New("call failed with a nil issue")

// ValueOption configures how GetValue classifies a failed call.
type ValueOption[L any] func(*valueConfig[L])

type valueConfig[L any] struct {
	onLeft   func(api.Issue) L
	onError  WrapErrorFunc[L]
	step     string
	caseName string
}

// OnLeft maps an Issue returned by the call. It takes priority over OnError
// and the flow's WrapError, and is never used for non-Issue faults.
func OnLeft[L any](fn func(api.Issue) L) ValueOption[L] {
	return func(c *valueConfig[L]) {
		c.onLeft = fn
	}
}

// OnError classifies faults of this call instead of the flow's WrapError.
// It receives the Issue itself when the call failed with one, and the raw
// error otherwise.
func OnError[L any](fn WrapErrorFunc[L]) ValueOption[L] {
	return func(c *valueConfig[L]) {
		c.onError = fn
	}
}

// Named sets the step name reported to observers and in FaultContext.
func Named[L any](name string) ValueOption[L] {
	return func(c *valueConfig[L]) {
		c.step = name
	}
}

func inCase[L any](name string) ValueOption[L] {
	return func(c *valueConfig[L]) {
		c.caseName = name
	}
}

func newValueConfig[L any](opts []ValueOption[L]) valueConfig[L] {
	var cfg valueConfig[L]
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c valueConfig[L]) classify(err error, fc FaultContext, wrap WrapErrorFunc[L]) L {
	if !fc.Panicked {
		if issue, ok := api.AsIssue(err); ok {
			switch {
			case c.onLeft != nil:
				return c.onLeft(issue)
			case c.onError != nil:
				return c.onError(issue, fc)
			default:
				return wrap(issue, fc)
			}
		}
	}
	if c.onError != nil {
		return c.onError(err, fc)
	}
	return wrap(err, fc)
}

// GetValue adapts a foreign call into a Task. A call that fails with an
// api.Issue is classified by OnLeft, then OnError, then wrap, in that order
// of preference. Any other error, or a panic, skips OnLeft.
//
// A call that fails with Fail(l) yields l unchanged.
func GetValue[L, V any](call func(ctx context.Context) (V, error), wrap WrapErrorFunc[L], opts ...ValueOption[L]) Task[L, V] {
	cfg := newValueConfig(opts)
	return func(ctx context.Context) api.Result[L, V] {
		var v V
		g := guard(func() error {
			var err error
			v, err = call(ctx)
			return err
		})
		if g.err == nil {
			return api.Right[L](v)
		}
		if failure, ok := explicitFailure[L](g.err, nil); ok {
			return api.Left[L, V](failure)
		}
		fc := g.context(cfg.caseName, PhaseCall)
		fc.Step = cfg.step
		return api.Left[L, V](cfg.classify(g.err, fc, wrap))
	}
}

// GetResult is GetValue for calls that already report a Result.
func GetResult[L, V any](call func(ctx context.Context) api.Result[api.Issue, V], wrap WrapErrorFunc[L], opts ...ValueOption[L]) Task[L, V] {
	return GetValue(func(ctx context.Context) (V, error) {
		res := call(ctx)
		if issue, failed := res.Left(); failed {
			var zero V
			if issue == nil {
				return zero, errNilIssue
			}
			return zero, issue
		}
		v, _ := res.Right()
		return v, nil
	}, wrap, opts...)
}

// Value resolves call inside Obtain, using the flow's WrapError as the
// fallback classifier:
//
//	account, err := flow.Value(ctx, r, repo.FindAccount(id), flow.OnLeft(notFound))
func Value[L, V any](ctx context.Context, r *Resolver[L], call func(ctx context.Context) (V, error), opts ...ValueOption[L]) (V, error) {
	cfg := newValueConfig(opts)
	opts = append(opts[:len(opts):len(opts)], inCase[L](r.caseName))
	return resolve(ctx, r, cfg.step, GetValue(call, r.wrap, opts...))
}

// Mapper runs fn and classifies its outcome: Fail(l), returned or
// panicked, yields l unchanged; any other error or panic goes through wrap.
func Mapper[L, T any](fn func() (T, error), wrap WrapErrorFunc[L]) api.Result[L, T] {
	var out T
	g := guard(func() error {
		var err error
		out, err = fn()
		return err
	})
	if g.err == nil {
		return api.Right[L](out)
	}
	if failure, ok := explicitFailure[L](g.err, nil); ok {
		return api.Left[L, T](failure)
	}
	return api.Left[L, T](wrap(g.err, g.context("", PhaseMap)))
}
