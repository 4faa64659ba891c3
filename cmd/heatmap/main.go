// Command heatmap fetches the monthly global temperature dataset, builds the
// heatmap and serves it over HTTP, optionally writing it to disk and
// publishing a summary to Kafka.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/file"
	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := httpadapter.NewStore(metrics)
	sinks := []pipeline.Sink{{Name: "http", Loader: store}}

	if cfg.OutputDir != "" {
		formats, err := render.ParseFormats(cfg.OutputFormats)
		if err != nil {
			logger.Error("invalid OUTPUT_FORMATS", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pipeline.Sink{
			Name:   "file",
			Loader: file.NewDirWriter(cfg.OutputDir, formats, metrics, logger),
		})
		logger.Info("file output enabled", "dir", cfg.OutputDir, "formats", cfg.OutputFormats)
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, pipeline.Sink{Name: "kafka", Loader: writer})
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	clock := clockwork.NewRealClock()
	extractor := source.NewClient(cfg.DatasetURL, cfg.DatasetTimeout, metrics, logger, clock)
	builder := pipeline.NewBuilder(domain.DefaultLayout(), metrics, logger)
	p := pipeline.New(extractor, builder, sinks, logger, metrics, clock, cfg.RefreshInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Build the chart, then keep refreshing it if configured.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
