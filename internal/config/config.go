// Package config loads exporter settings from an optional YAML file, a
// .env file and environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything both binaries need.
type Config struct {
	Tuya struct {
		AccessID  string `yaml:"accessId" env:"TUYA_ACCESS_ID"`
		AccessKey string `yaml:"accessKey" env:"TUYA_ACCESS_KEY"`
		Endpoint  string `yaml:"endpoint" env:"TUYA_API_ENDPOINT"`
	} `yaml:"tuya"`

	Pushgateway struct {
		URL      string `yaml:"url" env:"PUSHGATEWAY_URL"`
		Job      string `yaml:"job" env:"PUSHGATEWAY_JOB"`
		Instance string `yaml:"instance" env:"PUSHGATEWAY_INSTANCE"`
	} `yaml:"pushgateway"`

	Influx struct {
		URL      string `yaml:"url" env:"INFLUX_URL"`
		Username string `yaml:"username" env:"INFLUX_USERNAME"`
		Password string `yaml:"password" env:"INFLUX_PASSWORD"`
		Database string `yaml:"database" env:"INFLUX_DATABASE"`
	} `yaml:"influx"`

	DevicesFile     string `yaml:"devicesFile" env:"DEVICES_FILE"`
	ThresholdsFile  string `yaml:"thresholdsFile" env:"THRESHOLDS_FILE"`
	IntervalSeconds int    `yaml:"intervalSeconds" env:"INTERVAL"`
	ListenAddr      string `yaml:"listenAddr" env:"LISTEN_ADDR"`
	LogLevel        string `yaml:"logLevel" env:"LOG_LEVEL"`
	AssumeOnline    bool   `yaml:"assumeOnline" env:"ASSUME_ONLINE"`
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present, matching how the exporter has historically been
// deployed.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional

	cfg := &Config{}
	cfg.Tuya.Endpoint = "https://openapi.tuyaeu.com"
	cfg.Pushgateway.Job = "tuya_sensors"
	cfg.Pushgateway.Instance = "home"
	cfg.DevicesFile = "devices.json"
	cfg.ThresholdsFile = "thresholds.yaml"
	cfg.IntervalSeconds = 60
	cfg.AssumeOnline = true

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Tuya.AccessID) == "" || strings.TrimSpace(cfg.Tuya.AccessKey) == "" {
		return nil, errors.New("config: TUYA_ACCESS_ID and TUYA_ACCESS_KEY are required")
	}
	return cfg, nil
}

// Interval returns the cycle cadence as a duration.
func (c *Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}
