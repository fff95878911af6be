package telemetry

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Kind identifies one of the exported telemetry metrics.
type Kind int

const (
	KindHumidity Kind = iota
	KindTemperature
	KindBattery
)

// String names the kind for logs.
func (k Kind) String() string {
	switch k {
	case KindHumidity:
		return "humidity"
	case KindTemperature:
		return "temperature"
	case KindBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// Observation is one typed metric value extracted from a record.
type Observation struct {
	Kind  Kind
	Value float64
}

// Reading groups the observations of one device within a cycle, for sinks
// that want per-device points rather than individual gauges.
type Reading struct {
	DeviceID     string
	DeviceName   string
	Observations []Observation
}

// Mapper converts raw records into observations.
type Mapper struct {
	logger *zap.Logger
}

// NewMapper builds a mapper.
func NewMapper(logger *zap.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// Map extracts the known data points from a record. The boolean reports
// whether any observation was produced. A value that does not convert to a
// number is logged and skipped without affecting the other fields.
func (m *Mapper) Map(record Record) ([]Observation, bool) {
	rules := []struct {
		code      string
		kind      Kind
		transform func(float64) float64
	}{
		{"humidity", KindHumidity, nil},
		{"temp_current", KindTemperature, func(v float64) float64 { return v / 10 }},
		{"battery_percentage", KindBattery, nil},
	}

	var observations []Observation
	for _, rule := range rules {
		raw, ok := record[rule.code]
		if !ok {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			m.logger.Error("unparseable data point value",
				zap.String("code", rule.code), zap.Any("value", raw), zap.Error(err))
			continue
		}
		if rule.transform != nil {
			v = rule.transform(v)
		}
		observations = append(observations, Observation{Kind: rule.kind, Value: v})
	}

	return observations, len(observations) > 0
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
