package persistence

import (
	"fmt"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/pkg/api"
)

// NotFoundError is returned when a record does not exist. It wraps
// accounts.ErrNoSuchAccount.
type NotFoundError struct {
	api.RepositoryErrorBase
	Entity string
	ID     string
}

func notFound(entity, id string) NotFoundError {
	return NotFoundError{
		RepositoryErrorBase: api.RepositoryErrorBase{
			Msg: fmt.Sprintf("%s %s not found", entity, id),
			Err: accounts.ErrNoSuchAccount,
		},
		Entity: entity,
		ID:     id,
	}
}

// StoreError is returned when the backing store fails.
type StoreError struct {
	api.RepositoryErrorBase
	Op string
}

func storeError(op string, err error) StoreError {
	return StoreError{
		RepositoryErrorBase: api.RepositoryErrorBase{Msg: op + " failed", Err: err},
		Op:                  op,
	}
}

var (
	_ api.RepositoryError = NotFoundError{}
	_ api.RepositoryError = StoreError{}
)
