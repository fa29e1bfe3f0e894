package accounts

import (
	"context"
	"errors"
	"net/http"

	"github.com/petrijr/caseflow"
	"github.com/petrijr/caseflow/pkg/api"
	"github.com/petrijr/caseflow/pkg/flow"
)

// SummaryParams selects the account to summarize.
type SummaryParams struct {
	AccountID string `validate:"required,alphanum,max=32"`
}

func (p SummaryParams) IsValid() bool { return api.StructIsValid(p) }

// NoticeParams selects the account whose latest notice is wanted.
type NoticeParams struct {
	AccountID string `validate:"required,alphanum,max=32"`
}

func (p NoticeParams) IsValid() bool { return api.StructIsValid(p) }

type summaryValues struct {
	account Account
	balance Balance
}

// NewGetSummary builds the use case that combines an account with its
// ledger balance.
//
// A missing account ends the case with AccountNotFound and the ledger is
// never asked. Ledger faults end it with LedgerUnavailable. Frozen accounts
// and currency mismatches are rejected after both values are gathered.
func NewGetSummary(repo Repository, ledger Ledger, obs ...api.Observer) *api.UseCase[Summary, SummaryParams, api.Failure] {
	b := caseflow.Define[Summary, SummaryParams, summaryValues, api.Failure]("GetSummary").
		Obtain(func(ctx context.Context, r *flow.Resolver[api.Failure], p SummaryParams) (summaryValues, error) {
			acct, err := flow.Value(ctx, r, func(ctx context.Context) (Account, error) {
				return repo.Account(ctx, p.AccountID)
			}, flow.Named[api.Failure]("load-account"), flow.OnLeft(accountIssue(p.AccountID)))
			if err != nil {
				return summaryValues{}, err
			}

			bal, err := flow.Value(ctx, r, func(ctx context.Context) (Balance, error) {
				return ledger.Balance(ctx, p.AccountID)
			}, flow.Named[api.Failure]("load-balance"), flow.OnError(ledgerFault(p.AccountID)))
			if err != nil {
				return summaryValues{}, err
			}
			return summaryValues{account: acct, balance: bal}, nil
		}).
		Transform(buildSummary).
		WrapError(caseflow.Unexpected).
		OnInvalidParams(func() api.Failure { return api.NewInvalidParamsFailure("AccountID must be 1-32 alphanumeric characters") })
	for _, o := range obs {
		b.Observe(o)
	}
	return b.Build()
}

func accountIssue(id string) func(api.Issue) api.Failure {
	return func(issue api.Issue) api.Failure {
		return api.MatchIssue(issue, api.IssueMatcher[api.Failure]{
			Failure: func(f api.Failure) api.Failure { return f },
			Repository: func(re api.RepositoryError) api.Failure {
				if errors.Is(re, ErrNoSuchAccount) {
					return newAccountNotFound(id)
				}
				return api.NewUnexpectedFailure(re)
			},
			Other: func(i api.Issue) api.Failure { return api.NewUnexpectedFailure(i) },
		})
	}
}

// ledgerFault receives the extracted issue for issue errors and the raw
// error otherwise.
func ledgerFault(id string) flow.WrapErrorFunc[api.Failure] {
	return func(err error, fc flow.FaultContext) api.Failure {
		var ds api.DataSourceException
		if !errors.As(err, &ds) {
			return api.NewUnexpectedFailure(err)
		}
		if ds.Request().StatusCode == http.StatusNotFound {
			return newAccountNotFound(id)
		}
		return newLedgerUnavailable(ds)
	}
}

func buildSummary(ctx context.Context, v summaryValues) (Summary, error) {
	if v.account.Frozen {
		return Summary{}, flow.Fail(newAccountFrozen(v.account.ID))
	}
	if v.balance.Currency != v.account.Currency {
		return Summary{}, flow.Fail(newCurrencyMismatch(v.account.Currency, v.balance.Currency))
	}
	return Summary{
		AccountID: v.account.ID,
		Owner:     v.account.Owner,
		Amount:    v.balance.Amount,
		Currency:  v.account.Currency,
	}, nil
}

// NewCheckActive reports why an account cannot be summarized, or nothing
// when it can.
func NewCheckActive(summary api.Case[SummaryParams, api.Result[api.Failure, Summary]], obs ...api.Observer) *api.OneWay[SummaryParams, api.Failure] {
	return api.FailureOnly[Summary, SummaryParams, api.Failure]("CheckActive", summary, observe(obs))
}

// NewLatestNotice returns the newest notice posted to an account. Invalid
// params, missing notices and repository errors all yield nothing.
func NewLatestNotice(repo Repository, obs ...api.Observer) *api.OneWay[NoticeParams, Notice] {
	return api.NewSuccessCase("LatestNotice", func(ctx context.Context, p NoticeParams) api.Option[Notice] {
		if !p.IsValid() {
			return api.None[Notice]()
		}
		n, err := repo.LatestNotice(ctx, p.AccountID)
		if err != nil {
			return api.None[Notice]()
		}
		return api.Some(n)
	}, observe(obs))
}

func observe(obs []api.Observer) api.CaseOption {
	return api.WithObserver(api.NewCompositeObserver(obs...))
}
