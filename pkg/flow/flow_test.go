package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/petrijr/caseflow/pkg/api"
	"github.com/stretchr/testify/require"
)

type testParams struct {
	Valid bool
}

func (p testParams) IsValid() bool { return p.Valid }

type specificFailure struct {
	api.FailureBase
	Code int
}

type wrappedFailure struct {
	api.FailureBase
	Err   error
	Phase Phase
}

func wrapForTest(err error, fc FaultContext) api.Failure {
	return wrappedFailure{FailureBase: api.FailureBase{Msg: "wrapped"}, Err: err, Phase: fc.Phase}
}

func right[A any](v A) Task[api.Failure, A] {
	return func(ctx context.Context) api.Result[api.Failure, A] {
		return api.Right[api.Failure](v)
	}
}

func left[A any](f api.Failure) Task[api.Failure, A] {
	return func(ctx context.Context) api.Result[api.Failure, A] {
		return api.Left[api.Failure, A](f)
	}
}

func TestExecute_AllStepsSucceed(t *testing.T) {
	t.Parallel()

	f := New("sum",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) ([]int, error) {
			a, err := Resolve(ctx, r, right(1))
			if err != nil {
				return nil, err
			}
			b, err := Resolve(ctx, r, right(2))
			if err != nil {
				return nil, err
			}
			return []int{a, b}, nil
		},
		func(ctx context.Context, values []int) (int, error) {
			return values[0] + values[1], nil
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	require.True(t, res.IsRight())
	v, _ := res.Right()
	require.Equal(t, 3, v)
}

func TestExecute_TransformSeesExactlyObtainedValues(t *testing.T) {
	t.Parallel()

	type values struct {
		Name string
		N    int
	}
	want := values{Name: "x", N: 7}

	var seen values
	f := New("identity",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (values, error) {
			return want, nil
		},
		func(ctx context.Context, v values) (values, error) {
			seen = v
			return v, nil
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	got, ok := res.Right()
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, want, seen)
}

func TestExecute_ShortCircuitsOnFirstFailure(t *testing.T) {
	t.Parallel()

	expected := specificFailure{FailureBase: api.FailureBase{Msg: "second step"}, Code: 2}
	var afterFailure, thirdTaskRan, transformed atomic.Bool

	f := New("short-circuit",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			if _, err := Resolve(ctx, r, right(1)); err != nil {
				return 0, err
			}
			if _, err := Resolve(ctx, r, left[int](expected)); err != nil {
				return 0, err
			}
			afterFailure.Store(true)
			_, err := Resolve(ctx, r, func(ctx context.Context) api.Result[api.Failure, int] {
				thirdTaskRan.Store(true)
				return api.Right[api.Failure](3)
			})
			return 0, err
		},
		func(ctx context.Context, v int) (int, error) {
			transformed.Store(true)
			return v, nil
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, expected, failure)
	require.False(t, afterFailure.Load(), "code after the failing resolve must not run")
	require.False(t, thirdTaskRan.Load())
	require.False(t, transformed.Load(), "transform must not run after an abort")
}

func TestExecute_SwallowedAbortStillWins(t *testing.T) {
	t.Parallel()

	expected := specificFailure{FailureBase: api.FailureBase{Msg: "ignored by obtain"}}
	var laterTaskRan bool

	f := New("swallow",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			_, _ = Resolve(ctx, r, left[int](expected))
			require.True(t, r.Aborted())

			// An aborted resolver refuses to run further tasks.
			_, err := Resolve(ctx, r, func(ctx context.Context) api.Result[api.Failure, int] {
				laterTaskRan = true
				return api.Right[api.Failure](1)
			})
			require.Error(t, err)
			return 42, nil
		},
		func(ctx context.Context, v int) (int, error) {
			t.Fatal("transform must not run")
			return v, nil
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, expected, failure)
	require.False(t, laterTaskRan)
}

func TestExecute_MustResolveAborts(t *testing.T) {
	t.Parallel()

	expected := specificFailure{FailureBase: api.FailureBase{Msg: "must"}}
	var reached bool

	f := New("must",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			a := MustResolve(ctx, r, right(1))
			b := MustResolve(ctx, r, left[int](expected))
			reached = true
			return a + b, nil
		},
		func(ctx context.Context, v int) (int, error) { return v, nil },
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, expected, failure)
	require.False(t, reached)
}

func TestExecute_ObtainErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	f := New("obtain-error",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return 0, boom
		},
		func(ctx context.Context, v int) (int, error) {
			t.Fatal("transform must not run")
			return v, nil
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	wf, ok := failure.(wrappedFailure)
	require.True(t, ok, "unexpected failure type %T", failure)
	require.ErrorIs(t, wf.Err, boom)
	require.Equal(t, PhaseObtain, wf.Phase)
}

func TestExecute_ObtainPanicIsWrapped(t *testing.T) {
	t.Parallel()

	var fc FaultContext
	f := New("obtain-panic",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			panic("kaboom")
		},
		func(ctx context.Context, v int) (int, error) { return v, nil },
		func(err error, c FaultContext) api.Failure {
			fc = c
			return api.NewUnexpectedFailure(err)
		},
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)

	uf, ok := failure.(api.UnexpectedFailure)
	require.True(t, ok)
	var pe *PanicError
	require.ErrorAs(t, uf.Err, &pe)
	require.Equal(t, "kaboom", pe.Value)
	require.True(t, fc.Panicked)
	require.NotEmpty(t, fc.Stack)
	require.Equal(t, "obtain-panic", fc.Case)
}

func TestExecute_TransformFailIsReturnedVerbatim(t *testing.T) {
	t.Parallel()

	expected := specificFailure{FailureBase: api.FailureBase{Msg: "late"}, Code: 9}
	wrapCalled := false

	f := New("late-failure",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return Resolve(ctx, r, right(5))
		},
		func(ctx context.Context, v int) (int, error) {
			return 0, Fail[api.Failure](expected)
		},
		func(err error, fc FaultContext) api.Failure {
			wrapCalled = true
			return wrapForTest(err, fc)
		},
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, expected, failure)
	require.False(t, wrapCalled, "WrapError must be bypassed for explicit failures")
}

func TestExecute_TransformPanickedFailIsReturnedVerbatim(t *testing.T) {
	t.Parallel()

	expected := specificFailure{FailureBase: api.FailureBase{Msg: "panicked late"}}
	f := New("late-panic",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return 1, nil
		},
		func(ctx context.Context, v int) (int, error) {
			panic(Fail[api.Failure](expected))
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, expected, failure)
}

func TestExecute_TransformErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("transform exploded")
	f := New("transform-error",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return 1, nil
		},
		func(ctx context.Context, v int) (int, error) {
			return 0, boom
		},
		wrapForTest,
	)

	res := f.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, wrapForTest(boom, FaultContext{Phase: PhaseTransform}), failure)
}

func TestExecute_ForeignAbortIsTreatedAsFault(t *testing.T) {
	t.Parallel()

	// Capture an abort raised by the resolver of one execution and leak it
	// into another one.
	var leaked error
	first := New("first",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			_, err := Resolve(ctx, r, left[int](specificFailure{FailureBase: api.FailureBase{Msg: "first"}}))
			leaked = err
			return 0, err
		},
		func(ctx context.Context, v int) (int, error) { return v, nil },
		wrapForTest,
	)
	first.Execute(context.Background(), testParams{Valid: true})
	require.Error(t, leaked)

	second := New("second",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return 0, leaked
		},
		func(ctx context.Context, v int) (int, error) { return v, nil },
		wrapForTest,
	)

	res := second.Execute(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)
	_, wrapped := failure.(wrappedFailure)
	require.True(t, wrapped, "an abort from another execution must be classified by WrapError")
}

func TestUseCase_InvalidParamsSkipEverything(t *testing.T) {
	t.Parallel()

	var obtained, transformed bool
	f := New("invalid",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			obtained = true
			return 1, nil
		},
		func(ctx context.Context, v int) (int, error) {
			transformed = true
			return v, nil
		},
		wrapForTest,
	)
	f.InvalidParams = func() api.Failure { return api.NewInvalidParamsFailure("valid: false") }

	res := f.UseCase().Call(context.Background(), testParams{Valid: false})
	failure, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, api.NewInvalidParamsFailure("valid: false"), failure)
	require.False(t, obtained)
	require.False(t, transformed)
}

func TestOnInvalidParams_FallsBackToWrapError(t *testing.T) {
	t.Parallel()

	f := New("fallback",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) { return 1, nil },
		func(ctx context.Context, v int) (int, error) { return v, nil },
		wrapForTest,
	)

	failure := f.OnInvalidParams()
	wf, ok := failure.(wrappedFailure)
	require.True(t, ok)
	require.ErrorIs(t, wf.Err, ErrInvalidParams)
}

func TestNew_PanicsOnMissingParts(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		New[int, testParams, int, api.Failure]("", nil, nil, nil)
	})
	require.Panics(t, func() {
		New[int, testParams, int, api.Failure]("x", nil,
			func(ctx context.Context, v int) (int, error) { return v, nil }, wrapForTest)
	})
}

func TestExecute_OutcomesAreRecorded(t *testing.T) {
	t.Parallel()

	history := &api.HistoryObserver{}
	f := New("outcomes",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return ResolveStep(ctx, r, "load", right(1))
		},
		func(ctx context.Context, v int) (int, error) {
			return 0, errors.New("nope")
		},
		wrapForTest,
	)

	res := f.UseCase(api.WithObserver(history)).Call(context.Background(), testParams{Valid: true})
	require.True(t, res.IsLeft())

	require.Equal(t, []api.EventType{
		api.EventCaseStarted,
		api.EventStepStarted,
		api.EventStepCompleted,
		api.EventCaseFailed,
	}, history.Types())

	events := history.Events()
	require.Equal(t, "load", events[1].Step)
	require.Equal(t, api.OutcomeFault, events[3].Outcome)
}

func TestExecute_ConcurrentCallsAreIndependent(t *testing.T) {
	t.Parallel()

	f := New("concurrent",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			if !p.Valid {
				return Resolve(ctx, r, left[int](specificFailure{FailureBase: api.FailureBase{Msg: "odd"}}))
			}
			return Resolve(ctx, r, right(1))
		},
		func(ctx context.Context, v int) (int, error) { return v * 10, nil },
		wrapForTest,
	)

	var wg sync.WaitGroup
	var rights, lefts atomic.Int64
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := f.Execute(context.Background(), testParams{Valid: i%2 == 0})
			if res.IsRight() {
				rights.Add(1)
			} else {
				lefts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(32), rights.Load())
	require.Equal(t, int64(32), lefts.Load())
}

func TestExecute_FailWithConcreteFailureType(t *testing.T) {
	t.Parallel()

	expected := specificFailure{FailureBase: api.FailureBase{Msg: "frozen"}, Code: 423}
	obtain := func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
		return 1, nil
	}

	t.Run("returned from transform", func(t *testing.T) {
		f := New("concrete-return", obtain,
			func(ctx context.Context, v int) (int, error) { return 0, Fail(expected) },
			wrapForTest)

		failure, ok := f.Execute(context.Background(), testParams{Valid: true}).Left()
		require.True(t, ok)
		require.Equal(t, expected, failure)
	})

	t.Run("panicked from transform", func(t *testing.T) {
		f := New("concrete-panic", obtain,
			func(ctx context.Context, v int) (int, error) { panic(Fail(expected)) },
			wrapForTest)

		failure, ok := f.Execute(context.Background(), testParams{Valid: true}).Left()
		require.True(t, ok)
		require.Equal(t, expected, failure)
	})

	t.Run("returned from obtain", func(t *testing.T) {
		f := New("concrete-obtain",
			func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
				return 0, Fail(expected)
			},
			func(ctx context.Context, v int) (int, error) { return v, nil },
			wrapForTest)

		failure, ok := f.Execute(context.Background(), testParams{Valid: true}).Left()
		require.True(t, ok)
		require.Equal(t, expected, failure)
	})

	t.Run("value not assignable to the failure type is wrapped", func(t *testing.T) {
		f := New("not-a-failure", obtain,
			func(ctx context.Context, v int) (int, error) { return 0, Fail("just a string") },
			wrapForTest)

		failure, ok := f.Execute(context.Background(), testParams{Valid: true}).Left()
		require.True(t, ok)
		require.IsType(t, wrappedFailure{}, failure)
	})
}

func TestExecute_PanickingTaskStillCompletesStep(t *testing.T) {
	t.Parallel()

	history := &api.HistoryObserver{}
	f := New("task-panic",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return ResolveStep(ctx, r, "explode", Task[api.Failure, int](func(ctx context.Context) api.Result[api.Failure, int] {
				panic("boom")
			}))
		},
		func(ctx context.Context, v int) (int, error) { return v, nil },
		wrapForTest,
	)

	res := f.UseCase(api.WithObserver(history)).Call(context.Background(), testParams{Valid: true})
	failure, ok := res.Left()
	require.True(t, ok)

	wf, ok := failure.(wrappedFailure)
	require.True(t, ok, "unexpected failure type %T", failure)
	require.Equal(t, PhaseObtain, wf.Phase)
	var pe *PanicError
	require.ErrorAs(t, wf.Err, &pe)
	require.Equal(t, "boom", pe.Value)

	require.Equal(t, []api.EventType{
		api.EventCaseStarted,
		api.EventStepStarted,
		api.EventStepFailed,
		api.EventCaseFailed,
	}, history.Types())
	require.Equal(t, "explode", history.Events()[2].Step)
	require.Equal(t, "panic: boom", history.Events()[2].Detail)
}

func TestMustResolve_PanickingTaskStillCompletesStep(t *testing.T) {
	t.Parallel()

	history := &api.HistoryObserver{}
	f := New("must-panic",
		func(ctx context.Context, r *Resolver[api.Failure], p testParams) (int, error) {
			return MustResolve(ctx, r, Task[api.Failure, int](func(ctx context.Context) api.Result[api.Failure, int] {
				panic(errors.New("kaput"))
			})), nil
		},
		func(ctx context.Context, v int) (int, error) { return v, nil },
		wrapForTest,
	)

	res := f.UseCase(api.WithObserver(history)).Call(context.Background(), testParams{Valid: true})
	require.True(t, res.IsLeft())

	types := history.Types()
	require.Contains(t, types, api.EventStepStarted)
	require.Contains(t, types, api.EventStepFailed)
}
