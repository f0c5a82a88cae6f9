package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/otelhelper"
	"github.com/dukex/betula/pkg/runner"
	"github.com/dukex/betula/pkg/web"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the background tick loop and its HTTP control surface",
		Flags: configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := loadConfig(cmd.String("config"), cmd.String("log-level"))
			if err != nil {
				return err
			}

			support, err := buildTreeSupport(cfg, logger)
			if err != nil {
				return err
			}

			repo, err := buildRepository(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close(ctx)

			tracer, err := otelhelper.NewTracer(ctx, cfg.OTLPServiceName)
			if err != nil {
				logger.WithError(err).Warn("tracing disabled: could not start OTLP exporter")
			} else {
				_ = tracer
			}

			client, server, err := control.NewInProcessPair(nil)
			if err != nil {
				return fmt.Errorf("betula: building control channel: %w", err)
			}
			defer client.Close()
			defer server.Close()

			r := runner.New(support, server, logger)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			runErrCh := make(chan error, 1)
			go func() { runErrCh <- r.Run(ctx) }()

			httpServer := web.NewServer(client, repo, logger)

			logger.WithField("address", cfg.ListenAddress).Info("listening")

			go func() {
				if err := httpServer.App().Listen(cfg.ListenAddress); err != nil {
					logger.WithError(err).Error("http server stopped")
				}
			}()

			<-ctx.Done()
			logger.Info("shutting down")

			return <-runErrCh
		},
	}
}
