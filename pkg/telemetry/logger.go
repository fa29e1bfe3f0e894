package telemetry

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/petrijr/caseflow/pkg/api"
	"github.com/rs/zerolog"
)

// NewLogger creates a zerolog logger with the given configuration.
func NewLogger(cfg LoggingConfig) (zerolog.Logger, error) {
	var writer io.Writer
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		// If it's not stdout/stderr, assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), err
		}
		writer = file
	}
	return NewLoggerTo(writer, cfg), nil
}

// NewLoggerTo creates a logger that writes to w, ignoring cfg.Output.
func NewLoggerTo(w io.Writer, cfg LoggingConfig) zerolog.Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(w).With().Timestamp().Logger().Level(parseLogLevel(cfg.Level))
	if cfg.EnableCaller {
		zlog = zlog.With().Caller().Logger()
	}
	return zlog
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ZerologObserver logs case and step lifecycle events with zerolog.
type ZerologObserver struct {
	Logger zerolog.Logger
}

var _ api.Observer = (*ZerologObserver)(nil)

// NewZerologObserver creates an Observer that writes to logger.
func NewZerologObserver(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{Logger: logger}
}

func (o *ZerologObserver) with(exec *api.Execution) zerolog.Context {
	return o.Logger.With().
		Str("case", exec.Case).
		Str("execution_id", exec.ID)
}

func (o *ZerologObserver) OnCaseStart(ctx context.Context, exec *api.Execution) {
	l := o.with(exec).Logger()
	l.Debug().Msg("case_start")
}

func (o *ZerologObserver) OnCaseSucceeded(ctx context.Context, exec *api.Execution) {
	l := o.with(exec).Logger()
	l.Info().
		Str("outcome", string(exec.Outcome())).
		Dur("duration", exec.Elapsed()).
		Msg("case_succeeded")
}

func (o *ZerologObserver) OnCaseFailed(ctx context.Context, exec *api.Execution, failure any) {
	l := o.with(exec).Logger()
	ev := l.Warn()
	if exec.Outcome() == api.OutcomeFault {
		ev = l.Error()
	}
	if err, ok := failure.(error); ok {
		ev = ev.Err(err)
	} else {
		ev = ev.Interface("failure", failure)
	}
	ev.Str("outcome", string(exec.Outcome())).
		Dur("duration", exec.Elapsed()).
		Msg("case_failed")
}

func (o *ZerologObserver) OnStepStart(ctx context.Context, exec *api.Execution, step string, idx int) {
	l := o.with(exec).Logger()
	l.Debug().Str("step", step).Int("step_index", idx).Msg("step_start")
}

func (o *ZerologObserver) OnStepCompleted(ctx context.Context, exec *api.Execution, step string, idx int, err error, d time.Duration) {
	l := o.with(exec).Logger()
	ev := l.Debug()
	if err != nil {
		ev = l.Warn().Err(err)
	}
	ev.Str("step", step).
		Int("step_index", idx).
		Dur("duration", d).
		Msg("step_completed")
}
