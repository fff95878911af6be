// Package inventory loads the device list produced by the discovery wizard.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// SoilCategory is the Tuya category code for soil moisture sensors.
const SoilCategory = "zwjcy"

// ErrConfigMissing reports an absent or malformed devices file.
var ErrConfigMissing = errors.New("inventory: devices file missing or malformed")

// Device is one entry of the device inventory, immutable for the process
// lifetime.
type Device struct {
	ID          string
	Name        string
	Category    string
	ProductName string
	Online      bool
}

// Options tunes inventory loading.
type Options struct {
	// AssumeOnline marks every loaded device online regardless of the
	// recorded state. Wizard snapshots go stale quickly, so the exporter
	// defaults to polling everything and letting the fetch fail.
	AssumeOnline bool
}

type fileDevice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	Online      *bool  `json:"online"`
}

// Load reads the devices file and returns the soil sensors it contains.
// A missing file or a document that is not a JSON list yields an empty
// slice and an error wrapping ErrConfigMissing; the caller decides whether
// running without devices is terminal.
func Load(path string, opts Options, logger *zap.Logger) ([]Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read devices file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
	}

	var raw []fileDevice
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Error("devices file is not a device list", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
	}

	logger.Info("loaded devices file", zap.String("path", path), zap.Int("devices", len(raw)))

	var sensors []Device
	for _, fd := range raw {
		if !IsSoilSensor(fd.Category, fd.ProductName) {
			continue
		}
		if fd.ID == "" {
			logger.Warn("skipping device without id", zap.String("name", fd.Name))
			continue
		}
		dev := Device{
			ID:          fd.ID,
			Name:        fd.Name,
			Category:    fd.Category,
			ProductName: fd.ProductName,
			Online:      opts.AssumeOnline,
		}
		if dev.Name == "" {
			dev.Name = "Unknown"
		}
		if !opts.AssumeOnline && fd.Online != nil {
			dev.Online = *fd.Online
		}
		sensors = append(sensors, dev)
	}

	logger.Info("soil sensors selected", zap.Int("count", len(sensors)))
	for _, s := range sensors {
		logger.Info("sensor", zap.String("name", s.Name), zap.String("device_id", s.ID))
	}

	return sensors, nil
}

// IsSoilSensor classifies a device by category code or product name. The
// substring checks are intentionally loose to survive provider naming drift.
func IsSoilSensor(category, productName string) bool {
	return category == SoilCategory ||
		strings.Contains(productName, "Soil") ||
		strings.Contains(productName, "Plant")
}
