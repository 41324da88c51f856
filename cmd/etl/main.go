package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/mossvale/climate-risk-etl/internal/adapter/http"
	"github.com/mossvale/climate-risk-etl/internal/adapter/sink"
	"github.com/mossvale/climate-risk-etl/internal/adapter/source"
	"github.com/mossvale/climate-risk-etl/internal/config"
	"github.com/mossvale/climate-risk-etl/internal/observability"
	"github.com/mossvale/climate-risk-etl/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor := source.NewExtractor(cfg.RawDir, logger)
	transformer := pipeline.NewTransformer(cfg.BaseYear, cfg.StartYear, cfg.EndYear, cfg.Seed, logger)
	writer := sink.NewWriter(cfg.ProcessedPath, logger)

	p := pipeline.New(extractor, transformer, writer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The metrics server is optional for a one-shot job; start it only when
	// an address is configured.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	exitCode := 0
	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		exitCode = 1
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	return exitCode
}
