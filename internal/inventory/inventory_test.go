package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeDevices(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadClassification(t *testing.T) {
	path := writeDevices(t, `[
		{"id": "dev-1", "name": "Фикус", "category": "zwjcy", "product_name": "Switch"},
		{"id": "dev-2", "name": "Herbs", "category": "qt", "product_name": "XYZ Soil Pro"},
		{"id": "dev-3", "name": "Balcony", "category": "qt", "product_name": "Plant Monitor"},
		{"id": "dev-4", "name": "Hallway Lamp", "category": "dj", "product_name": "Smart Bulb"}
	]`)

	devices, err := Load(path, Options{AssumeOnline: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("expected 3 soil sensors, got %d", len(devices))
	}
	for i, wantID := range []string{"dev-1", "dev-2", "dev-3"} {
		if devices[i].ID != wantID {
			t.Errorf("device %d: got %q, want %q", i, devices[i].ID, wantID)
		}
		if !devices[i].Online {
			t.Errorf("device %d: expected online with AssumeOnline", i)
		}
	}
}

func TestLoadDefaultsAndOnlineField(t *testing.T) {
	path := writeDevices(t, `[
		{"id": "dev-1", "category": "zwjcy", "online": false},
		{"id": "dev-2", "category": "zwjcy", "online": true}
	]`)

	devices, err := Load(path, Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if devices[0].Name != "Unknown" {
		t.Errorf("missing name should default to Unknown, got %q", devices[0].Name)
	}
	if devices[0].Online {
		t.Error("dev-1 should honor online=false from the file")
	}
	if !devices[1].Online {
		t.Error("dev-2 should honor online=true from the file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	devices, err := Load(filepath.Join(t.TempDir(), "nope.json"), Options{}, zap.NewNop())
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
	if len(devices) != 0 {
		t.Fatalf("expected no devices, got %d", len(devices))
	}
}

func TestLoadNotAList(t *testing.T) {
	path := writeDevices(t, `{"devices": []}`)
	if _, err := Load(path, Options{}, zap.NewNop()); !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}

func TestIsSoilSensor(t *testing.T) {
	cases := []struct {
		category, product string
		want              bool
	}{
		{"zwjcy", "Anything", true},
		{"other", "XYZ Soil Pro", true},
		{"other", "Plant Monitor", true},
		{"other", "soil pro", false}, // substring match is case-sensitive
		{"other", "Smart Bulb", false},
	}
	for _, tc := range cases {
		if got := IsSoilSensor(tc.category, tc.product); got != tc.want {
			t.Errorf("IsSoilSensor(%q, %q) = %v, want %v", tc.category, tc.product, got, tc.want)
		}
	}
}
