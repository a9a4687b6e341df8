// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import "errors"

// ErrNATSNotEnabled is returned by NATS constructors in builds
// without the nats tag.
var ErrNATSNotEnabled = errors.New("nats transport not available: build with -tags=nats")

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// PermanentError marks a failure that retrying cannot fix, such as a
// malformed payload. The retry middleware still sees it like any
// other error, but handlers and the poison queue consumer use the
// classification to decide what is worth replaying.
type PermanentError struct {
	Message string
	Cause   error
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, cause error) *PermanentError {
	return &PermanentError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// RetryableError marks a transient failure, such as a database write
// that may succeed on redelivery.
type RetryableError struct {
	Message string
	Cause   error
}

// NewRetryableError creates a new retryable error.
func NewRetryableError(message string, cause error) *RetryableError {
	return &RetryableError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *RetryableError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *RetryableError) Unwrap() error {
	return e.Cause
}

// IsPermanent reports whether err is classified as permanent.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
