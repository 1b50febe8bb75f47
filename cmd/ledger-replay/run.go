package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/LerianStudio/ledger-replay/replay"
	"github.com/LerianStudio/ledger-replay/replay/engine"
	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/LerianStudio/ledger-replay/replay/opentelemetry/metrics"
	"github.com/LerianStudio/ledger-replay/replay/record"
	"github.com/LerianStudio/ledger-replay/replay/runtime"
	libZap "github.com/LerianStudio/ledger-replay/replay/zap"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const serviceName = "ledger-replay"

var errMissingArgument = errors.New("expected 1 argument, but got none")

// run executes one replay and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, errMissingArgument)
		return 1
	}

	cfg, err := replay.LoadConfig(replay.GetenvOrDefault(replay.ConfigFileEnv, ""))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	zapLogger, _, err := libZap.New(libZap.Config{
		Environment:     libZap.Environment(cfg.EnvName),
		Level:           cfg.LogLevel,
		OTelLibraryName: serviceName,
		OutputPaths:     []string{cfg.LogOutput},
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var logger log.Logger = zapLogger

	defer func() { _ = logger.Sync(ctx) }()
	defer runtime.RecoverWithPolicy(ctx, logger, serviceName, runtime.CrashProcess)

	runID := uuid.NewString()

	factory, err := metrics.NewMetricsFactory(otel.Meter(serviceName), logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	r := &replayer{
		cfg:     cfg,
		logger:  logger,
		metrics: factory,
		runID:   runID,
		stdout:  stdout,
		stderr:  stderr,
	}

	if err := r.replay(ctx, args[0]); err != nil {
		log.SafeError(logger.With(log.String("run_id", runID)), ctx, "replay failed", err, cfg.IsProduction())
		fmt.Fprintln(stderr, err)

		return 1
	}

	return 0
}

type replayer struct {
	cfg     replay.Config
	logger  log.Logger
	metrics *metrics.MetricsFactory
	runID   string
	stdout  io.Writer
	stderr  io.Writer
}

func (r *replayer) replay(ctx context.Context, path string) (err error) {
	defer runtime.RecoverToError(ctx, r.logger, "replay", &err)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer file.Close()

	backends, err := openBackends(ctx, r.cfg, r.logger, r.metrics)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := backends.close(); closeErr != nil {
			r.logger.Log(ctx, log.LevelWarn, "failed to close store", log.Err(closeErr))
		}
	}()

	e, err := engine.New(backends.repo, backends.tracker,
		engine.WithLogger(r.logger),
		engine.WithMetrics(r.metrics),
		engine.WithRunID(r.runID),
	)
	if err != nil {
		return err
	}

	result, err := e.Run(ctx, record.NewReader(file))
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		fmt.Fprintln(r.stderr, msg)
	}

	return record.NewWriter(r.stdout).WriteAccounts(result.Accounts)
}
