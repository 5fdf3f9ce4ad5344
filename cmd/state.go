package deckcmd

import (
	"context"
	"errors"
	"fmt"

	"gfx.cafe/util/go/gotel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gfx.cafe/gfx/deck/lib/deck"
	"gfx.cafe/gfx/deck/lib/instrumentation/prom"
	"gfx.cafe/gfx/deck/lib/tracing"
)

// state is what every subcommand shares once the root command has been set up.
type state struct {
	conf     deck.Config
	log      *zap.Logger
	shutdown gotel.ShutdownFunc
}

func (T *state) setup(cmd *cobra.Command, flags *flagValues) error {
	conf, err := deck.Load()
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("format") {
		conf.Format = flags.format
	}
	if fs.Changed("fail-fast") {
		conf.FailFast = flags.failFast
	}
	if fs.Changed("log-level") {
		conf.LogLevel = flags.logLevel
	}
	if fs.Changed("dev") {
		conf.LogDev = flags.dev
	}
	if fs.Changed("metrics") {
		conf.Metrics = flags.metrics
	}
	if fs.Changed("max-capacity") {
		conf.MaxCapacity = flags.maxCap
	}
	if err = conf.Validate(); err != nil {
		return err
	}
	T.conf = conf

	T.log, err = newLogger(conf.LogLevel, conf.LogDev)
	if err != nil {
		return err
	}

	T.shutdown, err = tracing.Init(cmd.Context(), tracing.Load())
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

func (T *state) teardown(cmd *cobra.Command) error {
	var err error
	if T.shutdown != nil {
		err = T.shutdown(context.Background())
	}
	if T.log != nil {
		_ = T.log.Sync()
	}
	if T.conf.Metrics {
		err = errors.Join(err, prom.Dump(cmd.ErrOrStderr(), prometheus.DefaultGatherer, "deck_"))
	}
	return err
}

func newLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
