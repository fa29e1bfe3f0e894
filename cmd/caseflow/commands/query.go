package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/pkg/api"
)

// failureOutput is the JSON rendering of a failure.
type failureOutput struct {
	Failure string `json:"failure"`
	Detail  string `json:"detail"`
}

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <account-id>",
		Short: "Summarize an account and its ledger balance",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			uc := accounts.NewGetSummary(e.store, e.ledger, e.observer())
			res := uc.Call(ctx, accounts.SummaryParams{AccountID: args[0]})

			return api.Fold(res,
				func(f api.Failure) error { return printFailure(cmd.OutOrStdout(), opts, f) },
				func(s accounts.Summary) error {
					if opts.jsonOutput {
						return writeJSON(cmd.OutOrStdout(), s)
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", s.AccountID, s.Owner, formatAmount(s.Amount, s.Currency))
					return err
				},
			)
		}),
	}
}

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <account-id>",
		Short: "Report why an account cannot be summarized, if it cannot",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			summary := accounts.NewGetSummary(e.store, e.ledger, e.observer())
			check := accounts.NewCheckActive(summary, e.observer())

			return api.FoldOption(check.Call(ctx, accounts.SummaryParams{AccountID: args[0]}),
				func() error {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "ok")
					return err
				},
				func(f api.Failure) error { return printFailure(cmd.OutOrStdout(), opts, f) },
			)
		}),
	}
}

func newNoticeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "notice <account-id>",
		Short: "Show the latest notice of an account",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			ctx := cmd.Context()
			latest := accounts.NewLatestNotice(e.store, e.observer())

			return api.FoldOption(latest.Call(ctx, accounts.NoticeParams{AccountID: args[0]}),
				func() error {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "no notices")
					return err
				},
				func(n accounts.Notice) error {
					if opts.jsonOutput {
						return writeJSON(cmd.OutOrStdout(), n)
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", n.PostedAt.Format("2006-01-02 15:04"), n.Text)
					return err
				},
			)
		}),
	}
}

func printFailure(w io.Writer, opts *options, f api.Failure) error {
	if opts.jsonOutput {
		return writeJSON(w, failureOutput{Failure: fmt.Sprintf("%T", f), Detail: accounts.Describe(f)})
	}
	_, err := fmt.Fprintln(w, "failed:", accounts.Describe(f))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}
