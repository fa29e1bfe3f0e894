package caseflow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petrijr/caseflow"
)

type shoutParams struct {
	Text string
}

func (p shoutParams) IsValid() bool { return p.Text != "" }

type tooQuiet struct {
	caseflow.FailureBase
}

// Example_flowBuilder demonstrates defining and calling a flow with the
// fluent builder.
func Example_flowBuilder() {
	ctx := context.Background()

	shout := caseflow.Define[string, shoutParams, string, caseflow.Failure]("Shout").
		Obtain(func(ctx context.Context, r *caseflow.Resolver[caseflow.Failure], p shoutParams) (string, error) {
			return caseflow.Value(ctx, r, func(ctx context.Context) (string, error) {
				return strings.TrimSpace(p.Text), nil
			})
		}).
		Transform(func(ctx context.Context, text string) (string, error) {
			if len(text) < 3 {
				return "", caseflow.Fail(tooQuiet{caseflow.FailureBase{Msg: "too quiet"}})
			}
			return strings.ToUpper(text) + "!", nil
		}).
		WrapError(caseflow.Unexpected).
		OnInvalidParams(func() caseflow.Failure {
			return caseflow.InvalidParamsFailure{FailureBase: caseflow.FailureBase{Msg: "invalid params"}}
		}).
		Build()

	for _, text := range []string{"hello", "hi", ""} {
		res := shout.Call(ctx, shoutParams{Text: text})
		if v, ok := res.Right(); ok {
			fmt.Println("ok:", v)
			continue
		}
		l, _ := res.Left()
		fmt.Println("failed:", l)
	}

	// Output:
	// ok: HELLO!
	// failed: failure: too quiet
	// failed: failure: invalid params
}

// Example_getValuePrecedence shows how a failing call is classified:
// OnLeft for issues, then OnError, then the flow's WrapError.
func Example_getValuePrecedence() {
	ctx := context.Background()
	wrap := func(err error, fc caseflow.FaultContext) string { return "wrapped" }

	issue := caseflow.GetValue(func(ctx context.Context) (int, error) {
		return 0, caseflow.RepositoryErrorBase{Msg: "gone"}
	}, wrap,
		caseflow.OnLeft(func(caseflow.Issue) string { return "on-left" }),
		caseflow.OnError(func(error, caseflow.FaultContext) string { return "on-error" }),
	)
	plain := caseflow.GetValue(func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	}, wrap,
		caseflow.OnLeft(func(caseflow.Issue) string { return "on-left" }),
	)

	for _, task := range []caseflow.Task[string, int]{issue, plain} {
		l, _ := task(ctx).Left()
		fmt.Println(l)
	}

	// Output:
	// on-left
	// wrapped
}
