package main

import (
	"context"
	"os"

	"budget/internal/charts"
	"budget/internal/cli"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/menu"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(""))
	logger := cli.ConfigureLogger(cfg)

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)
	stop := cli.ExitOnSignal(logger, be.Cleanup)

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if be.Publisher != nil {
		opts = append(opts, ledger.WithPublisher(be.Publisher))
	}
	l := ledger.New(ctx, be.Store, opts...)

	m := menu.New(l, os.Stdin, os.Stdout,
		menu.WithLogger(logger),
		menu.WithChart(charts.NewGenerator(), cfg.ChartPath))

	logger.Info("Starting budget tracker", log.FieldBackend, cfg.DataBackend, log.FieldCount, l.Len())
	runErr := m.Run(ctx)

	stop()
	if err := be.Cleanup(); err != nil {
		logger.OperationFailed(ctx, log.OpShutdown, err)
	}
	if runErr != nil {
		logger.Error("Menu stopped unexpectedly", log.FieldError, runErr)
		os.Exit(1)
	}
}
