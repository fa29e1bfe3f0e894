package persistence

import (
	"context"

	"github.com/petrijr/caseflow/internal/accounts"
)

// AccountStore is the writable side of accounts.Repository.
type AccountStore interface {
	accounts.Repository
	SaveAccount(ctx context.Context, acct accounts.Account) error
	AddNotice(ctx context.Context, n accounts.Notice) error
}
