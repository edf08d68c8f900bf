package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/yatagai/antenna/pkg/cli/config"
	controller "github.com/yatagai/antenna/pkg/controller/http"
	"github.com/yatagai/antenna/pkg/controller/scheduler"
)

func cmdServe() *cli.Command {
	var (
		cfg       runtimeConfig
		serverCfg config.Server
	)

	flags := append(cfg.flags(), serverCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the scheduler daemon with the HTTP API",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting antenna server",
				slog.String("addr", serverCfg.Addr),
				slog.Duration("interval", cfg.runnerCfg.Interval),
			)

			runner, runRepo, err := cfg.buildRunner(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to build runner")
			}

			server, err := controller.NewServer(
				ctx,
				runner,
				runRepo,
				controller.WithAddr(serverCfg.Addr),
				controller.WithAPIToken(serverCfg.APIToken),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			schedCtx, stopSched := context.WithCancel(ctx)
			defer stopSched()

			sched := scheduler.New(runner,
				scheduler.WithInterval(cfg.runnerCfg.Interval),
				scheduler.WithRunOnStart(cfg.runnerCfg.RunOnStart),
			)
			go func() {
				if err := sched.Start(schedCtx); err != nil && schedCtx.Err() == nil {
					logger.Error("Scheduler stopped", slog.Any("error", err))
					captureError(err)
				}
			}()

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
					captureError(err)
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			stopSched()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
