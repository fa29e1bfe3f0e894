package flow

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/petrijr/caseflow/pkg/api"
)

// Task is a lazily evaluated fallible computation resolved inside Obtain.
type Task[L, A any] func(ctx context.Context) api.Result[L, A]

// Resolver is handed to Obtain. It runs tasks and turns the first Left it
// sees into an abort of the whole flow.
//
// A Resolver belongs to exactly one execution and must not be retained
// after Obtain returns.
type Resolver[L any] struct {
	caseName string
	wrap     WrapErrorFunc[L]
	exec     *api.Execution

	mu      sync.Mutex
	steps   int
	aborted *abort[L]
}

func newResolver[L any](caseName string, wrap WrapErrorFunc[L], exec *api.Execution) *Resolver[L] {
	return &Resolver[L]{
		caseName: caseName,
		wrap:     wrap,
		exec:     exec,
	}
}

// WrapError is the flow's catch-all classifier.
func (r *Resolver[L]) WrapError() WrapErrorFunc[L] {
	return r.wrap
}

// Aborted reports whether a task has already failed.
func (r *Resolver[L]) Aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted != nil
}

func (r *Resolver[L]) failure() (L, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted == nil {
		var zero L
		return zero, false
	}
	return r.aborted.failure, true
}

// begin reserves the next step index, or returns the recorded abort.
func (r *Resolver[L]) begin() (int, *abort[L]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted != nil {
		return 0, r.aborted
	}
	idx := r.steps
	r.steps++
	return idx, nil
}

// fail records the first failure; later ones are dropped.
func (r *Resolver[L]) fail(l L) *abort[L] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted == nil {
		r.aborted = &abort[L]{failure: l, owner: r}
	}
	return r.aborted
}

// Resolve runs task. On success it returns the value; on failure it records
// the failure as the result of the whole flow and returns an error that
// Obtain must pass straight back:
//
//	user, err := flow.Resolve(ctx, r, loadUser)
//	if err != nil {
//	    return Values{}, err
//	}
//
// Once the resolver has aborted, Resolve no longer runs tasks.
func Resolve[L, A any](ctx context.Context, r *Resolver[L], task Task[L, A]) (A, error) {
	return resolve(ctx, r, "", task)
}

// ResolveStep is Resolve with a step name reported to observers.
func ResolveStep[L, A any](ctx context.Context, r *Resolver[L], name string, task Task[L, A]) (A, error) {
	return resolve(ctx, r, name, task)
}

// MustResolve returns the task's value directly. On failure it panics with
// the abort; Execute recovers it, so MustResolve may only be called from
// within Obtain.
func MustResolve[L, A any](ctx context.Context, r *Resolver[L], task Task[L, A]) A {
	v, err := resolve(ctx, r, "", task)
	if err != nil {
		panic(err)
	}
	return v
}

func resolve[L, A any](ctx context.Context, r *Resolver[L], name string, task Task[L, A]) (A, error) {
	var zero A
	idx, ab := r.begin()
	if ab != nil {
		return zero, ab
	}
	if name == "" {
		name = fmt.Sprintf("step-%d", idx)
	}

	obs := r.exec.Observer()
	obs.OnStepStart(ctx, r.exec, name, idx)
	start := time.Now()
	res := callTask(ctx, task, func(err error) {
		obs.OnStepCompleted(ctx, r.exec, name, idx, err, time.Since(start))
	})
	if failure, ok := res.Left(); ok {
		aborted := r.fail(failure)
		obs.OnStepCompleted(ctx, r.exec, name, idx, aborted, time.Since(start))
		return zero, aborted
	}
	obs.OnStepCompleted(ctx, r.exec, name, idx, nil, time.Since(start))
	v, _ := res.Right()
	return v, nil
}

// callTask calls task. If it panics, onPanic sees the fault before the panic
// continues, so every OnStepStart is paired with an OnStepCompleted.
func callTask[L, A any](ctx context.Context, task Task[L, A], onPanic func(error)) api.Result[L, A] {
	done := false
	defer func() {
		if done {
			return
		}
		rec := recover()
		if rec == nil {
			// runtime.Goexit
			return
		}
		err, ok := rec.(error)
		if !ok || !isAbort(err) {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
		onPanic(err)
		panic(rec)
	}()
	res := task(ctx)
	done = true
	return res
}
