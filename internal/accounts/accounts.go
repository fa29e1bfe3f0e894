// Package accounts is a small banking domain built on caseflow: it reads
// accounts from a repository, balances from a ledger, and exposes them
// through validated use cases.
package accounts

import (
	"context"
	"errors"
	"time"
)

// ErrNoSuchAccount is wrapped by repository errors that report a missing
// account or notice.
var ErrNoSuchAccount = errors.New("no such account")

// Account is a customer account.
type Account struct {
	ID       string
	Owner    string
	Currency string
	Frozen   bool
	OpenedAt time.Time
}

// Balance is the ledger view of an account, in minor units.
type Balance struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// Summary is the entity returned by GetSummary.
type Summary struct {
	AccountID string
	Owner     string
	Amount    int64
	Currency  string
}

// Notice is a message posted to an account.
type Notice struct {
	AccountID string
	Text      string
	PostedAt  time.Time
}

// Repository reads accounts and notices. Errors crossing it are expected to
// be api.RepositoryError values.
type Repository interface {
	Account(ctx context.Context, id string) (Account, error)
	LatestNotice(ctx context.Context, accountID string) (Notice, error)
}

// Ledger reads balances. Errors crossing it are expected to be
// api.DataSourceException values.
type Ledger interface {
	Balance(ctx context.Context, accountID string) (Balance, error)
}
