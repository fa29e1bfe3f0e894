package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/petrijr/caseflow/internal/accounts"
	"github.com/petrijr/caseflow/internal/ledger"
	"github.com/petrijr/caseflow/internal/persistence"
	"github.com/petrijr/caseflow/pkg/api"
	"github.com/petrijr/caseflow/pkg/telemetry"
)

const cacheTTL = 30 * time.Second

// env holds everything a command needs to call the use cases.
type env struct {
	cfg       *telemetry.Config
	log       zerolog.Logger
	store     persistence.AccountStore
	ledger    accounts.Ledger
	observers []api.Observer
	metrics   *telemetry.MetricsObserver

	closers []func(context.Context) error
}

func newEnv(ctx context.Context, opts *options) (_ *env, err error) {
	cfg, err := telemetry.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	e := &env{cfg: cfg, log: logger}
	defer func() {
		if err != nil {
			e.Close(context.Background())
		}
	}()

	e.observers = append(e.observers, telemetry.NewZerologObserver(logger))

	if cfg.Metrics.Enabled {
		e.metrics, err = telemetry.NewMetricsObserver(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		e.observers = append(e.observers, e.metrics)
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, tp.Shutdown)
		e.observers = append(e.observers, telemetry.NewTracingObserver(tp))
	}

	if err := e.openStore(opts); err != nil {
		return nil, err
	}
	if err := e.openLedger(opts); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *env) openStore(opts *options) error {
	db, err := sql.Open("sqlite", opts.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	e.closers = append(e.closers, func(context.Context) error { return db.Close() })

	store, err := persistence.NewSQLiteStore(db)
	if err != nil {
		return err
	}
	e.store = store

	if opts.redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: opts.redisAddr})
		e.closers = append(e.closers, func(context.Context) error { return client.Close() })
		e.store = persistence.NewCachedStore(store, client, "caseflow:", cacheTTL).WithLogger(e.log)
		e.log.Debug().Str("redis", opts.redisAddr).Msg("account cache enabled")
	}
	return nil
}

func (e *env) openLedger(opts *options) error {
	if opts.ledgerURL != "" {
		e.ledger = ledger.NewClient(opts.ledgerURL, nil)
		return nil
	}
	static, err := loadBalances(opts.balancesPath)
	if err != nil {
		return err
	}
	e.ledger = static
	return nil
}

type balancesFile struct {
	Balances []struct {
		AccountID string `yaml:"account_id"`
		Amount    int64  `yaml:"amount"`
		Currency  string `yaml:"currency"`
	} `yaml:"balances"`
}

// loadBalances reads a YAML balances file into a static ledger. An empty
// path yields an empty ledger.
func loadBalances(path string) (*ledger.Static, error) {
	static := ledger.NewStatic()
	if path == "" {
		return static, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balances: %w", err)
	}
	var f balancesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse balances %s: %w", path, err)
	}
	for _, b := range f.Balances {
		if b.AccountID == "" {
			return nil, fmt.Errorf("parse balances %s: entry without account_id", path)
		}
		static.Set(accounts.Balance{AccountID: b.AccountID, Amount: b.Amount, Currency: b.Currency})
	}
	return static, nil
}

// observer combines all configured observers.
func (e *env) observer() api.Observer {
	return api.NewCompositeObserver(e.observers...)
}

// serveMetrics exposes the metrics registry until Close. It is a no-op when
// metrics are disabled.
func (e *env) serveMetrics() {
	if e.metrics == nil {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(e.cfg.Metrics.Path, e.metrics.Handler())
	srv := &http.Server{Addr: e.cfg.Metrics.ListenAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	e.closers = append(e.closers, srv.Shutdown)
	e.log.Info().Str("addr", srv.Addr).Str("path", e.cfg.Metrics.Path).Msg("serving metrics")
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close(ctx context.Context) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			e.log.Warn().Err(err).Msg("close failed")
		}
	}
	e.closers = nil
}

// withEnv wraps a command body with env setup and teardown.
func withEnv(opts *options, fn func(cmd *cobra.Command, e *env, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer e.Close(context.Background())
		return fn(cmd, e, args)
	}
}
