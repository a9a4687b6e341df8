// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestSerializer_Marshal(t *testing.T) {
	serializer := NewSerializer()

	t.Run("valid event", func(t *testing.T) {
		event := &DownloadEvent{
			SchemaVersion: SchemaVersion,
			EventID:       "evt-1",
			UserID:        "u-1",
			PageID:        "pg-1",
			Source:        "web",
			OccurredAt:    time.Now().UTC(),
		}

		data, err := serializer.Marshal(event)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) == 0 {
			t.Error("expected non-empty data")
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["event_id"] != "evt-1" {
			t.Errorf("expected event_id=evt-1, got %v", decoded["event_id"])
		}
		if decoded["page_id"] != "pg-1" {
			t.Errorf("expected page_id=pg-1, got %v", decoded["page_id"])
		}
	})

	t.Run("invalid event rejected before encoding", func(t *testing.T) {
		if _, err := serializer.Marshal(&DownloadEvent{}); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestSerializer_Unmarshal(t *testing.T) {
	serializer := NewSerializer()

	t.Run("valid JSON", func(t *testing.T) {
		data := []byte(`{
			"schema_version": 1,
			"event_id": "evt-1",
			"user_id": "u-1",
			"page_id": "pg-1",
			"source": "app",
			"occurred_at": "2026-03-14T09:30:00Z"
		}`)

		event, err := serializer.Unmarshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.EventID != "evt-1" {
			t.Errorf("expected event_id=evt-1, got %q", event.EventID)
		}
		if event.Source != "app" {
			t.Errorf("expected source=app, got %q", event.Source)
		}
		if event.OccurredAt.IsZero() {
			t.Error("expected parsed timestamp")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := serializer.Unmarshal([]byte("{not json")); err == nil {
			t.Error("expected unmarshal error")
		}
	})
}

func TestSerializeRoundTrip(t *testing.T) {
	original := NewDownloadEvent("u-1", "pg-1", "web")

	data, err := SerializeEvent(original)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	decoded, err := DeserializeEvent(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	if decoded.EventID != original.EventID {
		t.Errorf("event id changed: %q vs %q", decoded.EventID, original.EventID)
	}
	if decoded.UserID != original.UserID || decoded.PageID != original.PageID {
		t.Errorf("identity fields changed: %+v", decoded)
	}
	if !decoded.OccurredAt.Equal(original.OccurredAt) {
		t.Errorf("timestamp changed: %v vs %v", decoded.OccurredAt, original.OccurredAt)
	}
}
