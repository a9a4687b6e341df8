// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package services

import (
	"context"
)

// Runner is any component whose lifecycle is a single blocking Run
// call that honors context cancellation. Satisfied by the WebSocket
// hub, the event pipeline, the digest scheduler, and the allowance
// cleanup loop.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService adapts a Runner to suture.Service. The components
// already implement the supervision contract; this wrapper only
// contributes the service name suture logs under.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps a Runner as a supervised service.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{
		runner: runner,
		name:   name,
	}
}

// Serve implements suture.Service by delegating to the runner.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.Run(ctx)
}

// String implements fmt.Stringer; suture uses it to identify the
// service in log messages.
func (s *RunnerService) String() string {
	return s.name
}
