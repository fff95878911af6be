package telemetry

import (
	"testing"

	"go.uber.org/zap"
)

func observationByKind(obs []Observation, kind Kind) (Observation, bool) {
	for _, o := range obs {
		if o.Kind == kind {
			return o, true
		}
	}
	return Observation{}, false
}

func TestMapKnownCodes(t *testing.T) {
	m := NewMapper(zap.NewNop())

	obs, any := m.Map(Record{
		"humidity":           float64(55),
		"temp_current":       float64(235),
		"battery_percentage": float64(76),
		"unrelated_code":     "ignored",
	})
	if !any {
		t.Fatal("expected observations")
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}

	if o, _ := observationByKind(obs, KindHumidity); o.Value != 55.0 {
		t.Errorf("humidity = %v, want 55.0", o.Value)
	}
	if o, _ := observationByKind(obs, KindTemperature); o.Value != 23.5 {
		t.Errorf("temperature = %v, want 23.5 (raw value divided by 10)", o.Value)
	}
	if o, _ := observationByKind(obs, KindBattery); o.Value != 76.0 {
		t.Errorf("battery = %v, want 76.0", o.Value)
	}
}

func TestMapNoKnownCodes(t *testing.T) {
	m := NewMapper(zap.NewNop())

	obs, any := m.Map(Record{"switch_1": true, "countdown": float64(0)})
	if any || len(obs) != 0 {
		t.Errorf("expected no observations, got %v", obs)
	}
}

func TestMapBadValueSkipsOnlyThatField(t *testing.T) {
	m := NewMapper(zap.NewNop())

	obs, any := m.Map(Record{
		"humidity":           map[string]any{"oops": 1},
		"battery_percentage": float64(76),
	})
	if !any {
		t.Fatal("expected the valid field to survive")
	}
	if len(obs) != 1 || obs[0].Kind != KindBattery || obs[0].Value != 76.0 {
		t.Errorf("expected only battery=76.0, got %v", obs)
	}
}

func TestMapStringValues(t *testing.T) {
	m := NewMapper(zap.NewNop())

	obs, any := m.Map(Record{"humidity": "48"})
	if !any || obs[0].Value != 48.0 {
		t.Errorf("numeric strings should convert, got %v", obs)
	}
}
