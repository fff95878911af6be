// Package influx mirrors each cycle's readings into InfluxDB, as a second
// sink next to the Pushgateway.
package influx

import (
	"time"

	client "github.com/influxdata/influxdb/client/v2"
	"go.uber.org/zap"

	"github.com/artfaal/tuya-exporter/internal/telemetry"
)

const measurement = "soil_sensor"

// Sink writes per-device points to an InfluxDB database.
type Sink struct {
	client   client.Client
	database string
	logger   *zap.Logger
}

// New connects the sink. URL, credentials and database come straight from
// configuration; an empty URL means the caller should not construct a sink
// at all.
func New(url, username, password, database string, logger *zap.Logger) (*Sink, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     url,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return &Sink{client: c, database: database, logger: logger}, nil
}

// Write stores one point per reading, timestamped now.
func (s *Sink) Write(readings []telemetry.Reading) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return err
	}

	now := time.Now()
	for _, reading := range readings {
		pt, err := newPoint(reading, now)
		if err != nil {
			s.logger.Warn("skipping influx point",
				zap.String("device_id", reading.DeviceID), zap.Error(err))
			continue
		}
		bp.AddPoint(pt)
	}

	return s.client.Write(bp)
}

// Close releases the underlying HTTP client.
func (s *Sink) Close() error {
	return s.client.Close()
}

func newPoint(reading telemetry.Reading, ts time.Time) (*client.Point, error) {
	tags := map[string]string{
		"device_id":   reading.DeviceID,
		"device_name": reading.DeviceName,
	}

	fields := make(map[string]interface{}, len(reading.Observations))
	for _, o := range reading.Observations {
		fields[o.Kind.String()] = o.Value
	}

	return client.NewPoint(measurement, tags, fields, ts)
}
