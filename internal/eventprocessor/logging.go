// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// watermillLogger bridges Watermill's LoggerAdapter to zerolog so the
// bus logs in the same format as the rest of the application.
// Watermill's own trace output maps to zerolog's trace level and is
// suppressed at the default level.
type watermillLogger struct {
	logger zerolog.Logger
}

// NewWatermillLogger wraps a zerolog logger for use by Watermill
// components.
func NewWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return &watermillLogger{
		logger: logger.With().Str("component", "eventbus").Logger(),
	}
}

// Error implements watermill.LoggerAdapter.
func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info implements watermill.LoggerAdapter.
func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Debug implements watermill.LoggerAdapter.
func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Trace implements watermill.LoggerAdapter.
func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

// With implements watermill.LoggerAdapter.
func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{
		logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}
