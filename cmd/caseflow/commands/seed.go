package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/pkg/api"
)

func newSeedCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store accounts and notices",
	}
	cmd.AddCommand(newSeedAccountCommand(opts))
	cmd.AddCommand(newSeedNoticeCommand(opts))
	return cmd
}

type seedAccountParams struct {
	ID       string `validate:"required,alphanum,max=32"`
	Owner    string `validate:"required"`
	Currency string `validate:"required,iso4217"`
}

func newSeedAccountCommand(opts *options) *cobra.Command {
	var (
		p      seedAccountParams
		frozen bool
	)

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create or replace an account",
		Args:  cobra.NoArgs,
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			if problems := api.ValidationProblems(p); len(problems) > 0 {
				return fmt.Errorf("invalid account: %v", problems)
			}
			acct := accounts.Account{
				ID:       p.ID,
				Owner:    p.Owner,
				Currency: p.Currency,
				Frozen:   frozen,
				OpenedAt: time.Now().UTC(),
			}
			if err := e.store.SaveAccount(ctx, acct); err != nil {
				return err
			}
			e.log.Info().Str("account", acct.ID).Msg("account stored")
			return nil
		}),
	}

	cmd.Flags().StringVar(&p.ID, "id", "", "account id")
	cmd.Flags().StringVar(&p.Owner, "owner", "", "account owner")
	cmd.Flags().StringVar(&p.Currency, "currency", "EUR", "ISO 4217 currency code")
	cmd.Flags().BoolVar(&frozen, "frozen", false, "mark the account as frozen")
	return cmd
}

func newSeedNoticeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notice <account-id> <text>",
		Short: "Post a notice to an account",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			if _, err := e.store.Account(ctx, args[0]); err != nil {
				if errors.Is(err, accounts.ErrNoSuchAccount) {
					return fmt.Errorf("cannot post notice: account %s does not exist", args[0])
				}
				return err
			}
			n := accounts.Notice{AccountID: args[0], Text: args[1], PostedAt: time.Now().UTC()}
			return e.store.AddNotice(ctx, n)
		}),
	}
	return cmd
}
