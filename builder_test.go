package caseflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type greetParams struct {
	Name string
}

func (p greetParams) IsValid() bool { return p.Name != "" }

type unknownGuest struct {
	FailureBase
}

func greetFlow(lookup func(ctx context.Context, name string) (string, error)) *FlowBuilder[string, greetParams, string, Failure] {
	return Define[string, greetParams, string, Failure]("greet").
		Obtain(func(ctx context.Context, r *Resolver[Failure], p greetParams) (string, error) {
			return Value(ctx, r, func(ctx context.Context) (string, error) {
				return lookup(ctx, p.Name)
			}, OnLeft(func(Issue) Failure {
				return unknownGuest{FailureBase{Msg: p.Name}}
			}))
		}).
		Transform(func(ctx context.Context, title string) (string, error) {
			return "hello, " + title, nil
		}).
		WrapError(Unexpected).
		OnInvalidParams(func() Failure { return InvalidParamsFailure{FailureBase: FailureBase{Msg: "invalid params"}} })
}

func TestFlowBuilder_BuildAndCall(t *testing.T) {
	t.Parallel()

	history := &HistoryObserver{}
	metrics := &BasicMetrics{}

	uc := greetFlow(func(ctx context.Context, name string) (string, error) {
		return "dr. " + name, nil
	}).Observe(history).Observe(metrics).Build()

	require.Equal(t, "greet", uc.Name())

	res := uc.Call(context.Background(), greetParams{Name: "gopher"})
	got, ok := res.Right()
	require.True(t, ok)
	require.Equal(t, "hello, dr. gopher", got)

	require.NotEmpty(t, history.Events())
	snap := metrics.Snapshot()
	require.EqualValues(t, 1, snap.CasesStarted)
	require.EqualValues(t, 1, snap.CasesSucceeded)
}

func TestFlowBuilder_InvalidParams(t *testing.T) {
	t.Parallel()

	called := false
	uc := greetFlow(func(ctx context.Context, name string) (string, error) {
		called = true
		return name, nil
	}).Build()

	res := uc.Call(context.Background(), greetParams{})
	l, ok := res.Left()
	require.True(t, ok)
	require.IsType(t, InvalidParamsFailure{}, l)
	require.False(t, called)
}

func TestFlowBuilder_IssueMappedByOnLeft(t *testing.T) {
	t.Parallel()

	uc := greetFlow(func(ctx context.Context, name string) (string, error) {
		return "", RepositoryErrorBase{Msg: "no such guest"}
	}).Build()

	res := uc.Call(context.Background(), greetParams{Name: "ghost"})
	l, ok := res.Left()
	require.True(t, ok)
	require.Equal(t, unknownGuest{FailureBase{Msg: "ghost"}}, l)
}

func TestFlowBuilder_PlainErrorWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	uc := greetFlow(func(ctx context.Context, name string) (string, error) {
		return "", boom
	}).Build()

	res := uc.Call(context.Background(), greetParams{Name: "gopher"})
	l, ok := res.Left()
	require.True(t, ok)

	var unexpected UnexpectedFailure
	require.ErrorAs(t, l, &unexpected)
	require.ErrorIs(t, unexpected, boom)
}

func TestFlowBuilder_Panics(t *testing.T) {
	t.Parallel()

	require.PanicsWithValue(t, "caseflow: flow name must not be empty", func() {
		Define[string, greetParams, string, Failure]("")
	})
	require.PanicsWithValue(t, `caseflow: flow "x" has nil Obtain`, func() {
		Define[string, greetParams, string, Failure]("x").Obtain(nil)
	})
	require.PanicsWithValue(t, `caseflow: flow "x" has nil Obtain`, func() {
		Define[string, greetParams, string, Failure]("x").Build()
	})
}

func TestFlowBuilder_FlowReturnsCopy(t *testing.T) {
	t.Parallel()

	b := greetFlow(func(ctx context.Context, name string) (string, error) {
		return name, nil
	})
	f := b.Flow()
	f.Name = "renamed"
	require.Equal(t, "greet", b.Name())
}
