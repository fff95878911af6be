package main

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func TestDeviceListShapes(t *testing.T) {
	cases := []struct {
		name   string
		result string
		want   int
	}{
		{"bare list", `[{"id":"a"},{"id":"b"}]`, 2},
		{"devices key", `{"devices":[{"id":"a"}]}`, 1},
		{"list key", `{"list":[{"id":"a"},{"id":"b"},{"id":"c"}]}`, 3},
		{"empty object", `{}`, 0},
	}

	for _, tc := range cases {
		list, err := deviceList(json.RawMessage(tc.result))
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if len(list) != tc.want {
			t.Errorf("%s: got %d entries, want %d", tc.name, len(list), tc.want)
		}
	}
}

func TestDeviceListRejectsScalar(t *testing.T) {
	if _, err := deviceList(json.RawMessage(`"oops"`)); err == nil {
		t.Fatal("expected an error for a scalar result")
	}
}

func TestSummarize(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"id":"a","category":"zwjcy","product_name":"Soil Sensor","online":true}`),
		json.RawMessage(`[1,2]`),
		json.RawMessage(`{"id":"b","name":"Lamp","category":"dj"}`),
	}

	summaries := summarize(raw, zap.NewNop())
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2 (bad entry skipped)", len(summaries))
	}
	if summaries[0].Name != "Unknown" {
		t.Errorf("missing name should default to Unknown, got %q", summaries[0].Name)
	}
	if summaries[1].Name != "Lamp" {
		t.Errorf("got %q, want Lamp", summaries[1].Name)
	}
}
