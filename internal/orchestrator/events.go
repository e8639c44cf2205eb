// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import "context"

// EventKind names a progress event.
type EventKind string

const (
	EventRunStarted    EventKind = "run_started"
	EventProjectStatus EventKind = "project_status"
	EventRunFinished   EventKind = "run_finished"
)

// Event is emitted while a chain runs. Run is set for run events, Step for
// project events.
type Event struct {
	Kind  EventKind   `json:"kind"`
	RunID string      `json:"run_id"`
	Run   *RunResult  `json:"run,omitempty"`
	Step  *StepResult `json:"step,omitempty"`
}

// Observer receives progress events. Observe is called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }
