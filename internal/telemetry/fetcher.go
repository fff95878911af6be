// Package telemetry fetches device readings from the Tuya cloud and maps
// them onto the fixed soil-sensor metric schema.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/artfaal/tuya-exporter/internal/tuya"
)

// Record is a flat mapping from Tuya data-point code to its raw value.
type Record map[string]any

// DeviceAPI is the slice of the Tuya client the fetcher needs.
type DeviceAPI interface {
	GetDeviceDetail(ctx context.Context, deviceID string) (*tuya.Response, error)
	GetDeviceStatus(ctx context.Context, deviceID string) (*tuya.Response, error)
}

// Fetcher pulls one device's current status, hiding the two response shapes
// the API serves and the legacy/iot-03 endpoint split.
type Fetcher struct {
	api    DeviceAPI
	logger *zap.Logger
}

// NewFetcher builds a fetcher on top of the given API client.
func NewFetcher(api DeviceAPI, logger *zap.Logger) *Fetcher {
	return &Fetcher{api: api, logger: logger}
}

type statusEntry struct {
	Code  string `json:"code"`
	Value any    `json:"value"`
}

// Fetch returns the device's current data points. The device-info endpoint
// is tried first; when it reports failure the status endpoint is used as a
// fallback. A nil record with a nil error means the device answered but had
// no data points, which is distinct from an all-zero reading.
func (f *Fetcher) Fetch(ctx context.Context, deviceID string) (Record, error) {
	resp, err := f.api.GetDeviceDetail(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("device info: %w", err)
	}
	if !resp.Success {
		f.logger.Debug("device info failed, trying status endpoint",
			zap.String("device_id", deviceID), zap.Int("code", resp.Code))
		resp, err = f.api.GetDeviceStatus(ctx, deviceID)
		if err != nil {
			return nil, fmt.Errorf("device status: %w", err)
		}
		if !resp.Success {
			return nil, &tuya.APIError{Code: resp.Code, Msg: resp.Msg}
		}
	}

	status, err := decodeStatus(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", deviceID, err)
	}
	if len(status) == 0 {
		return nil, nil
	}

	record := make(Record, len(status))
	for _, entry := range status {
		record[entry.Code] = entry.Value
	}
	return record, nil
}

// decodeStatus accepts both result shapes: a bare status list, or an object
// holding the list under a "status" key.
func decodeStatus(result json.RawMessage) ([]statusEntry, error) {
	if len(result) == 0 {
		return nil, nil
	}

	var list []statusEntry
	if err := json.Unmarshal(result, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Status []statusEntry `json:"status"`
	}
	if err := json.Unmarshal(result, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized result shape: %w", err)
	}
	return wrapped.Status, nil
}
