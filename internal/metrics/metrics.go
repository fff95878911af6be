// Package metrics owns the exporter's prometheus registry and gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/artfaal/tuya-exporter/internal/telemetry"
)

var gaugeLabels = []string{"device_id", "device_name"}

// Registry bundles the gauges the exporter publishes. Gauges keep their
// last value between cycles; a device that stops answering simply goes
// stale instead of disappearing.
type Registry struct {
	registry *prometheus.Registry

	humidity     *prometheus.GaugeVec
	temperature  *prometheus.GaugeVec
	battery      *prometheus.GaugeVec
	thresholdMin *prometheus.GaugeVec
	thresholdMax *prometheus.GaugeVec
	lastSuccess  prometheus.Gauge
}

// New builds a registry with all exporter gauges registered.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuya_plant_humidity",
			Help: "Soil humidity (%)",
		}, gaugeLabels),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuya_plant_temperature",
			Help: "Soil temperature (°C)",
		}, gaugeLabels),
		battery: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuya_plant_battery",
			Help: "Battery level (%)",
		}, gaugeLabels),
		thresholdMin: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuya_plant_humidity_threshold_min",
			Help: "Configured minimum comfortable soil humidity (%)",
		}, gaugeLabels),
		thresholdMax: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuya_plant_humidity_threshold_max",
			Help: "Configured maximum comfortable soil humidity (%)",
		}, gaugeLabels),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tuya_exporter_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last cycle that produced data",
		}),
	}

	r.registry.MustRegister(
		r.humidity,
		r.temperature,
		r.battery,
		r.thresholdMin,
		r.thresholdMax,
		r.lastSuccess,
	)
	return r
}

// Gatherer exposes the underlying registry for pushing or scraping.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Observe records one telemetry observation for a device.
func (r *Registry) Observe(deviceID, deviceLabel string, o telemetry.Observation) {
	var vec *prometheus.GaugeVec
	switch o.Kind {
	case telemetry.KindHumidity:
		vec = r.humidity
	case telemetry.KindTemperature:
		vec = r.temperature
	case telemetry.KindBattery:
		vec = r.battery
	default:
		return
	}
	vec.WithLabelValues(deviceID, deviceLabel).Set(o.Value)
}

// SetThresholds records the resolved comfort range for a device.
func (r *Registry) SetThresholds(deviceID, deviceLabel string, min, max float64) {
	r.thresholdMin.WithLabelValues(deviceID, deviceLabel).Set(min)
	r.thresholdMax.WithLabelValues(deviceID, deviceLabel).Set(max)
}

// MarkSuccess updates the heartbeat timestamp.
func (r *Registry) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}
