// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Serializer handles event encoding/decoding for bus messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts an event to JSON bytes.
// Events are validated before encoding so malformed payloads never
// reach the bus.
func (s *Serializer) Marshal(event *DownloadEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	return data, nil
}

// Unmarshal converts JSON bytes to an event.
func (s *Serializer) Unmarshal(data []byte) (*DownloadEvent, error) {
	var event DownloadEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	return &event, nil
}

// SerializeEvent is a convenience function that marshals an event to JSON.
func SerializeEvent(event *DownloadEvent) ([]byte, error) {
	return NewSerializer().Marshal(event)
}

// DeserializeEvent is a convenience function that unmarshals JSON to an event.
func DeserializeEvent(data []byte) (*DownloadEvent, error) {
	return NewSerializer().Unmarshal(data)
}
