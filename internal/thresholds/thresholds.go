// Package thresholds resolves per-plant humidity comfort ranges.
package thresholds

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Built-in comfort range, used whenever the config file or a specific bound
// is absent.
const (
	DefaultHumidityMin = 40
	DefaultHumidityMax = 60
)

// Bounds is a humidity comfort range; nil means "use the built-in default".
type Bounds struct {
	HumidityMin *float64 `yaml:"humidity_min"`
	HumidityMax *float64 `yaml:"humidity_max"`
}

// Config maps device display names to comfort-range overrides.
type Config struct {
	Defaults Bounds            `yaml:"defaults"`
	Plants   map[string]Bounds `yaml:"plants"`
}

// Load reads the thresholds file. It never fails: any read or parse problem
// is logged and the built-in defaults are used, so a broken edit can not
// take the exporter down. The file is re-read every cycle, which makes live
// tuning possible without a restart.
func Load(path string, logger *zap.Logger) *Config {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("thresholds file unavailable, using defaults", zap.String("path", path), zap.Error(err))
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.Warn("thresholds file unparseable, using defaults", zap.String("path", path), zap.Error(err))
		return &Config{}
	}
	return cfg
}

// Resolve returns the comfort range for a device display name. Each bound
// falls back independently: plant override, then the file's defaults
// section, then the built-in constants.
func (c *Config) Resolve(name string) (min, max float64) {
	min, max = DefaultHumidityMin, DefaultHumidityMax
	if c.Defaults.HumidityMin != nil {
		min = *c.Defaults.HumidityMin
	}
	if c.Defaults.HumidityMax != nil {
		max = *c.Defaults.HumidityMax
	}
	override, ok := c.Plants[name]
	if !ok {
		return min, max
	}
	if override.HumidityMin != nil {
		min = *override.HumidityMin
	}
	if override.HumidityMax != nil {
		max = *override.HumidityMax
	}
	return min, max
}
