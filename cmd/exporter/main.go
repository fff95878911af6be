package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/artfaal/tuya-exporter/internal/config"
	"github.com/artfaal/tuya-exporter/internal/exporter"
	"github.com/artfaal/tuya-exporter/internal/httpserver"
	"github.com/artfaal/tuya-exporter/internal/influx"
	"github.com/artfaal/tuya-exporter/internal/inventory"
	"github.com/artfaal/tuya-exporter/internal/logging"
	"github.com/artfaal/tuya-exporter/internal/metrics"
	"github.com/artfaal/tuya-exporter/internal/push"
	"github.com/artfaal/tuya-exporter/internal/telemetry"
	"github.com/artfaal/tuya-exporter/internal/tuya"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	if cfg.Pushgateway.URL == "" {
		logger.Fatal("PUSHGATEWAY_URL is required")
	}

	devices, err := inventory.Load(cfg.DevicesFile, inventory.Options{AssumeOnline: cfg.AssumeOnline}, logger)
	if err != nil {
		logger.Error("failed to load device inventory", zap.Error(err))
	}
	if len(devices) == 0 {
		logger.Fatal("no soil sensors in inventory, run the wizard first",
			zap.String("path", cfg.DevicesFile))
	}

	client := tuya.NewClient(cfg.Tuya.Endpoint, cfg.Tuya.AccessID, cfg.Tuya.AccessKey, logger)
	registry := metrics.New()
	publisher := push.New(cfg.Pushgateway.URL, cfg.Pushgateway.Job, cfg.Pushgateway.Instance, registry.Gatherer())

	var sink exporter.Sink
	if cfg.Influx.URL != "" {
		influxSink, err := influx.New(cfg.Influx.URL, cfg.Influx.Username, cfg.Influx.Password, cfg.Influx.Database, logger)
		if err != nil {
			logger.Fatal("failed to initialize influx sink", zap.Error(err))
		}
		defer influxSink.Close()
		sink = influxSink
		logger.Info("influx sink enabled", zap.String("url", cfg.Influx.URL))
	}

	if cfg.ListenAddr != "" {
		server := httpserver.NewServer(cfg.ListenAddr, registry.Gatherer(), logger)
		go func() {
			if err := server.Run(ctx); err != nil {
				logger.Error("scrape endpoint stopped with error", zap.Error(err))
			}
		}()
	}

	exp := exporter.New(devices, telemetry.NewFetcher(client, logger), registry, publisher, sink, exporter.Config{
		Interval:       cfg.Interval(),
		ThresholdsPath: cfg.ThresholdsFile,
	}, logger)

	if err := exp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("exporter stopped with error", zap.Error(err))
	}
}
