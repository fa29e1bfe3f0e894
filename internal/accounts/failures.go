package accounts

import (
	"fmt"

	"github.com/petrijr/caseflow/pkg/api"
)

// AccountNotFound is returned when the repository has no such account.
type AccountNotFound struct {
	api.FailureBase
	AccountID string
}

func newAccountNotFound(id string) AccountNotFound {
	return AccountNotFound{FailureBase: api.FailureBase{Msg: fmt.Sprintf("account %s not found", id)}, AccountID: id}
}

// AccountFrozen is returned for accounts that must not be reported on.
type AccountFrozen struct {
	api.FailureBase
	AccountID string
}

func newAccountFrozen(id string) AccountFrozen {
	return AccountFrozen{FailureBase: api.FailureBase{Msg: fmt.Sprintf("account %s is frozen", id)}, AccountID: id}
}

// LedgerUnavailable is returned when the ledger cannot be reached or
// answers with an error.
type LedgerUnavailable struct {
	api.FailureBase
	Request api.RequestInfo
}

func newLedgerUnavailable(ds api.DataSourceException) LedgerUnavailable {
	return LedgerUnavailable{FailureBase: api.FailureBase{Msg: "ledger unavailable: " + ds.Message()}, Request: ds.Request()}
}

// CurrencyMismatch is returned when the ledger and the account disagree
// on the currency.
type CurrencyMismatch struct {
	api.FailureBase
	Account string
	Ledger  string
}

func newCurrencyMismatch(account, ledger string) CurrencyMismatch {
	return CurrencyMismatch{
		FailureBase: api.FailureBase{Msg: fmt.Sprintf("currency mismatch: account %s, ledger %s", account, ledger)},
		Account:     account,
		Ledger:      ledger,
	}
}

// Describe renders a failure for humans.
func Describe(f api.Failure) string {
	switch v := f.(type) {
	case AccountNotFound:
		return "no account with id " + v.AccountID
	case AccountFrozen:
		return "account " + v.AccountID + " is frozen"
	case LedgerUnavailable:
		if v.Request.URL != "" {
			return "ledger unavailable (" + v.Request.URL + ")"
		}
		return "ledger unavailable"
	case CurrencyMismatch:
		return "currency mismatch: " + v.Account + " vs " + v.Ledger
	case api.InvalidParamsFailure:
		if len(v.Problems) > 0 {
			return fmt.Sprintf("invalid params: %v", v.Problems)
		}
		return "invalid params"
	default:
		return f.Error()
	}
}
