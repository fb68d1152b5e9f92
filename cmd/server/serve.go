package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"salaryboard/internal/api"
	"salaryboard/internal/dashboard"
	"salaryboard/internal/engine"
	"salaryboard/internal/summarize"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := dashboard.NewRegistry(dashboard.Builtin(), cfg.Dashboards)
	if err != nil {
		return err
	}

	var backend summarize.Backend
	if cfg.Summarizer.APIKey != "" {
		gb, err := summarize.NewGenAIBackend(ctx, cfg.Summarizer.APIKey, cfg.Summarizer.Model)
		if err != nil {
			return err
		}
		backend = gb
	} else {
		logger.Info("summarizer disabled: no API key configured")
	}
	svc := summarize.NewService(backend, cfg.Summarizer.Timeout, logger.Named("summarize"))

	// 1. API is live immediately; data endpoints answer 503 until the load finishes
	h := api.NewHandler(nil, reg, svc, logger.Named("api"))
	e := api.NewServer(h, api.ServerOptions{
		CORSOrigins:  cfg.Server.CORSOrigins,
		SummarizeRPS: cfg.Summarizer.RequestsPerSec,
	})

	g, gctx := errgroup.WithContext(ctx)

	// 2. Load the dataset in the background. A bad file stops the server.
	g.Go(func() error {
		logger.Info("loading dataset", zap.String("path", cfg.Data.Path))
		t0 := time.Now()

		store, rep, err := engine.LoadCSV(cfg.Data.Path, logger.Named("engine"))
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		h.SetStore(store)

		logger.Info("dataset ready",
			zap.Int("rows", rep.Loaded),
			zap.Int("rejected", rep.Rejected),
			zap.Duration("took", time.Since(t0)),
		)
		return nil
	})

	// 3. Serve
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 4. Shut down on signal or on the first failure
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
