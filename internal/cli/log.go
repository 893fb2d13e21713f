package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/PlateMap/internal/config"
)

// newLogger creates a logger that writes to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 plates (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the loaded configuration, or the defaults.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	cfg := config.Default()
	return &cfg
}
