package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"

	"github.com/artfaal/tuya-exporter/internal/config"
	"github.com/artfaal/tuya-exporter/internal/inventory"
	"github.com/artfaal/tuya-exporter/internal/logging"
	"github.com/artfaal/tuya-exporter/internal/tuya"
)

// wizard discovers every device of the Tuya account and snapshots the raw
// list into the devices file the exporter consumes.

type deviceSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	Online      bool   `json:"online"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("discovering devices", zap.String("endpoint", cfg.Tuya.Endpoint))

	client := tuya.NewClient(cfg.Tuya.Endpoint, cfg.Tuya.AccessID, cfg.Tuya.AccessKey, logger)

	raw, err := discover(ctx, client, logger)
	if err != nil {
		logger.Fatal("device discovery failed", zap.Error(err))
	}
	if len(raw) == 0 {
		logger.Fatal("no devices found in the account")
	}

	summaries := summarize(raw, logger)
	report(summaries, logger)

	if err := save(cfg.DevicesFile, raw); err != nil {
		logger.Fatal("failed to write devices file", zap.String("path", cfg.DevicesFile), zap.Error(err))
	}
	logger.Info("devices saved", zap.String("path", cfg.DevicesFile), zap.Int("count", len(raw)))
}

// discover lists account devices, preferring the user-scoped endpoint and
// falling back to the cloud-project listing when no UID is available.
func discover(ctx context.Context, client *tuya.Client, logger *zap.Logger) ([]json.RawMessage, error) {
	uid, err := client.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var resp *tuya.Response
	if uid != "" {
		resp, err = client.ListUserDevices(ctx, uid)
	} else {
		logger.Warn("account reported no uid, using cloud project listing")
		resp, err = client.ListCloudThings(ctx)
	}
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &tuya.APIError{Code: resp.Code, Msg: resp.Msg}
	}

	return deviceList(resp.Result)
}

// deviceList tolerates the result being a bare list or an object wrapping
// the list under "devices" or "list".
func deviceList(result json.RawMessage) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(result, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Devices []json.RawMessage `json:"devices"`
		List    []json.RawMessage `json:"list"`
	}
	if err := json.Unmarshal(result, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Devices) > 0 {
		return wrapped.Devices, nil
	}
	return wrapped.List, nil
}

func summarize(raw []json.RawMessage, logger *zap.Logger) []deviceSummary {
	summaries := make([]deviceSummary, 0, len(raw))
	for _, entry := range raw {
		var s deviceSummary
		if err := json.Unmarshal(entry, &s); err != nil {
			logger.Warn("skipping unreadable device entry", zap.Error(err))
			continue
		}
		if s.Name == "" {
			s.Name = "Unknown"
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func report(summaries []deviceSummary, logger *zap.Logger) {
	byCategory := make(map[string][]deviceSummary)
	for _, s := range summaries {
		category := s.Category
		if category == "" {
			category = "unknown"
		}
		byCategory[category] = append(byCategory[category], s)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, s := range byCategory[category] {
			logger.Info("device",
				zap.String("category", category),
				zap.String("name", s.Name),
				zap.String("device_id", s.ID),
				zap.String("product", s.ProductName),
				zap.Bool("online", s.Online))
		}
	}

	soil := 0
	for _, s := range summaries {
		if inventory.IsSoilSensor(s.Category, s.ProductName) {
			soil++
			logger.Info("soil sensor",
				zap.String("name", s.Name),
				zap.String("device_id", s.ID),
				zap.String("product", s.ProductName),
				zap.Bool("online", s.Online))
		}
	}
	logger.Info("discovery summary", zap.Int("devices", len(summaries)), zap.Int("soil_sensors", soil))
}

func save(path string, raw []json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
