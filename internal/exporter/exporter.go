// Package exporter runs the polling loop: fetch every sensor, map readings
// onto gauges, push the snapshot, sleep, repeat.
package exporter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/artfaal/tuya-exporter/internal/inventory"
	"github.com/artfaal/tuya-exporter/internal/labels"
	"github.com/artfaal/tuya-exporter/internal/metrics"
	"github.com/artfaal/tuya-exporter/internal/telemetry"
	"github.com/artfaal/tuya-exporter/internal/thresholds"
)

// Publisher pushes the current registry snapshot to the intake endpoint.
type Publisher interface {
	Push(ctx context.Context) error
}

// Sink receives the cycle's per-device readings; used for the optional
// InfluxDB mirror.
type Sink interface {
	Write(readings []telemetry.Reading) error
}

// Config tunes the loop.
type Config struct {
	Interval       time.Duration
	ThresholdsPath string
}

// Exporter owns the metric registry and drives the per-cycle pipeline.
// Devices are processed sequentially; a slow fetch delays the whole round,
// which is acceptable at household scale.
type Exporter struct {
	devices   []inventory.Device
	fetcher   *telemetry.Fetcher
	mapper    *telemetry.Mapper
	registry  *metrics.Registry
	publisher Publisher
	sink      Sink
	cfg       Config
	logger    *zap.Logger

	now func() time.Time
}

// New wires the exporter. sink may be nil.
func New(
	devices []inventory.Device,
	fetcher *telemetry.Fetcher,
	registry *metrics.Registry,
	publisher Publisher,
	sink Sink,
	cfg Config,
	logger *zap.Logger,
) *Exporter {
	return &Exporter{
		devices:   devices,
		fetcher:   fetcher,
		mapper:    telemetry.NewMapper(logger),
		registry:  registry,
		publisher: publisher,
		sink:      sink,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run loops cycles until the context is cancelled. Every failure short of
// cancellation is contained inside the cycle; the loop itself never aborts.
func (e *Exporter) Run(ctx context.Context) error {
	e.logger.Info("exporter started",
		zap.Int("devices", len(e.devices)),
		zap.Duration("interval", e.cfg.Interval))

	for {
		if err := e.RunCycle(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			e.logger.Info("exporter stopping")
			return ctx.Err()
		case <-time.After(e.cfg.Interval):
		}
	}
}

// RunCycle performs one pass over all devices and pushes when anything was
// collected. The only error it returns is context cancellation.
func (e *Exporter) RunCycle(ctx context.Context) error {
	limits := thresholds.Load(e.cfg.ThresholdsPath, e.logger)

	anyData := false
	var readings []telemetry.Reading

	for _, dev := range e.devices {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !dev.Online {
			e.logger.Warn("device offline, skipping",
				zap.String("name", dev.Name), zap.String("device_id", dev.ID))
			continue
		}

		label := labels.Sanitize(dev.Name)

		min, max := limits.Resolve(dev.Name)
		e.registry.SetThresholds(dev.ID, label, min, max)

		record, err := e.fetcher.Fetch(ctx, dev.ID)
		if err != nil {
			e.logger.Error("telemetry fetch failed",
				zap.String("name", dev.Name), zap.String("device_id", dev.ID), zap.Error(err))
			continue
		}
		if record == nil {
			e.logger.Debug("device returned no data points",
				zap.String("name", dev.Name), zap.String("device_id", dev.ID))
			continue
		}

		observations, ok := e.mapper.Map(record)
		if !ok {
			continue
		}

		for _, o := range observations {
			e.registry.Observe(dev.ID, label, o)
			e.logger.Info("reading",
				zap.String("name", dev.Name),
				zap.String("metric", o.Kind.String()),
				zap.Float64("value", o.Value))
		}

		readings = append(readings, telemetry.Reading{
			DeviceID:     dev.ID,
			DeviceName:   dev.Name,
			Observations: observations,
		})
		anyData = true
	}

	if !anyData {
		e.logger.Warn("no data collected this cycle")
		return nil
	}

	e.registry.MarkSuccess(e.now())

	if err := e.publisher.Push(ctx); err != nil {
		e.logger.Error("pushgateway push failed", zap.Error(err))
	} else {
		e.logger.Info("metrics pushed", zap.Int("devices", len(readings)))
	}

	if e.sink != nil {
		if err := e.sink.Write(readings); err != nil {
			e.logger.Error("influx write failed", zap.Error(err))
		}
	}

	return nil
}
