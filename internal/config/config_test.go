package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TUYA_ACCESS_ID", "id-1")
	t.Setenv("TUYA_ACCESS_KEY", "key-1")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Tuya.Endpoint != "https://openapi.tuyaeu.com" {
		t.Errorf("endpoint = %q", cfg.Tuya.Endpoint)
	}
	if cfg.Pushgateway.Job != "tuya_sensors" || cfg.Pushgateway.Instance != "home" {
		t.Errorf("pushgateway grouping = (%q, %q)", cfg.Pushgateway.Job, cfg.Pushgateway.Instance)
	}
	if cfg.DevicesFile != "devices.json" || cfg.ThresholdsFile != "thresholds.yaml" {
		t.Errorf("file defaults = (%q, %q)", cfg.DevicesFile, cfg.ThresholdsFile)
	}
	if cfg.Interval() != time.Minute {
		t.Errorf("interval = %v, want 1m", cfg.Interval())
	}
	if !cfg.AssumeOnline {
		t.Error("AssumeOnline should default to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TUYA_API_ENDPOINT", "https://openapi.tuyaus.com")
	t.Setenv("INTERVAL", "300")
	t.Setenv("ASSUME_ONLINE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Tuya.Endpoint != "https://openapi.tuyaus.com" {
		t.Errorf("endpoint = %q", cfg.Tuya.Endpoint)
	}
	if cfg.Interval() != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", cfg.Interval())
	}
	if cfg.AssumeOnline {
		t.Error("ASSUME_ONLINE=false should stick")
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("TUYA_ACCESS_ID", "")
	t.Setenv("TUYA_ACCESS_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without credentials")
	}
}

func TestLoadBadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("INTERVAL", "sixty")

	if _, err := Load(); err == nil {
		t.Fatal("expected a parse error for a non-numeric INTERVAL")
	}
}
