// Package commands implements the caseflow CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath   string
	dbPath       string
	redisAddr    string
	ledgerURL    string
	balancesPath string
	jsonOutput   bool
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit string) error {
	return newRootCommand(version, commit).ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "caseflow",
		Short: "Run the sample account use cases",
		Long: `caseflow runs the sample account use cases against a SQLite store,
optionally cached in Redis, and a ledger that is either remote (--ledger-url)
or loaded from a YAML balances file (--balances).

Every call ends in a success or a classified failure; failures are printed,
faults are logged.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "telemetry config file (YAML)")
	flags.StringVar(&opts.dbPath, "db", "caseflow.db", "SQLite database path")
	flags.StringVar(&opts.redisAddr, "redis", "", "Redis address for the account cache (disabled when empty)")
	flags.StringVar(&opts.ledgerURL, "ledger-url", "", "base URL of a remote ledger")
	flags.StringVar(&opts.balancesPath, "balances", "", "YAML balances file used when no ledger URL is given")
	flags.BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newSeedCommand(opts))
	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newNoticeCommand(opts))
	rootCmd.AddCommand(newLedgerCommand(opts))

	return rootCmd
}
