package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/pkg/api"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behavior every AccountStore shares.
func runStoreContract(t *testing.T, store AccountStore) {
	t.Helper()
	ctx := context.Background()
	opened := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("missing account", func(t *testing.T) {
		_, err := store.Account(ctx, "missing")
		require.Error(t, err)

		var nf NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, "account", nf.Entity)
		require.Equal(t, "missing", nf.ID)
		require.ErrorIs(t, err, accounts.ErrNoSuchAccount)

		issue, ok := api.AsIssue(err)
		require.True(t, ok)
		require.Equal(t, api.KindRepository, issue.Kind())
	})

	t.Run("save and load", func(t *testing.T) {
		acct := accounts.Account{ID: "a1", Owner: "ada", Currency: "EUR", OpenedAt: opened}
		require.NoError(t, store.SaveAccount(ctx, acct))

		got, err := store.Account(ctx, "a1")
		require.NoError(t, err)
		require.Equal(t, acct.ID, got.ID)
		require.Equal(t, acct.Owner, got.Owner)
		require.Equal(t, acct.Currency, got.Currency)
		require.False(t, got.Frozen)
		require.True(t, acct.OpenedAt.Equal(got.OpenedAt))
	})

	t.Run("save overwrites", func(t *testing.T) {
		acct := accounts.Account{ID: "a2", Owner: "bob", Currency: "USD", OpenedAt: opened}
		require.NoError(t, store.SaveAccount(ctx, acct))
		_, err := store.Account(ctx, "a2")
		require.NoError(t, err)

		acct.Frozen = true
		require.NoError(t, store.SaveAccount(ctx, acct))

		got, err := store.Account(ctx, "a2")
		require.NoError(t, err)
		require.True(t, got.Frozen)
	})

	t.Run("latest notice", func(t *testing.T) {
		_, err := store.LatestNotice(ctx, "a1")
		require.True(t, errors.Is(err, accounts.ErrNoSuchAccount))

		require.NoError(t, store.AddNotice(ctx, accounts.Notice{AccountID: "a1", Text: "old", PostedAt: opened}))
		require.NoError(t, store.AddNotice(ctx, accounts.Notice{AccountID: "a1", Text: "new", PostedAt: opened.Add(time.Hour)}))
		require.NoError(t, store.AddNotice(ctx, accounts.Notice{AccountID: "a1", Text: "older", PostedAt: opened.Add(-time.Hour)}))

		n, err := store.LatestNotice(ctx, "a1")
		require.NoError(t, err)
		require.Equal(t, "new", n.Text)
		require.True(t, n.PostedAt.Equal(opened.Add(time.Hour)))
	})
}
