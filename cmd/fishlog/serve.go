package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/claussann/FishingWebApp/internal/adapter/http"
	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/scheduler"
)

func serveCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API on a local address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, observability.NewMetrics(), observability.NewLogger)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; default from HTTP_ADDR")
	return cmd
}

func serve(parent context.Context, a *app) error {
	logger := a.logger
	cfg := a.cfg

	api := httpadapter.NewAPI(a.logbook, a.codec, a.settings, a.weather, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, a.logbook, logger)

	// Periodic snapshots (feature-flagged via SNAPSHOT_INTERVAL).
	var sched *scheduler.Scheduler
	if cfg.SnapshotInterval > 0 {
		sched = scheduler.New(logger)
		job := scheduler.NewSnapshotJob(a.codec, cfg.SnapshotDir, cfg.SnapshotKeep, logger)
		if _, err := sched.ScheduleInterval(cfg.SnapshotInterval, job.Run); err != nil {
			return err
		}
		sched.Start()
		logger.Info("backup snapshots enabled", "interval", cfg.SnapshotInterval, "dir", cfg.SnapshotDir, "keep", cfg.SnapshotKeep)
	} else {
		logger.Info("backup snapshots disabled")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("listening", "addr", cfg.HTTPAddr)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		logger.Error("http server error", "error", serveErr)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if sched != nil {
		sched.Stop()
	}

	logger.Info("shutdown complete")
	return serveErr
}
