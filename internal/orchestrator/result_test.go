// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := &recorder{run: &RunResult{Steps: []StepResult{{Project: "a"}, {Project: "b"}}}}
	rec.update(1, func(s *StepResult) { s.Status = StatusRunning })
	snap := rec.snapshot()
	assert.Empty(t, snap.Completed, "running is not terminal")

	rec.update(1, func(s *StepResult) { s.Status = StatusSucceeded })
	rec.update(0, func(s *StepResult) { s.Status = StatusSkipped })
	assert.Equal(t, []string{"b", "a"}, rec.snapshot().Completed)
	assert.Empty(t, snap.Completed, "snapshots are detached")

	final := rec.finish(time.Now())
	assert.Equal(t, StatusFailed, final.Status)
	assert.Equal(t, 1, final.Count(StatusSkipped))
	assert.False(t, final.Succeeded())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	r := &RunResult{
		ID:     "r1",
		Status: StatusFailed,
		Steps: []StepResult{
			{Project: "lib", Status: StatusSucceeded, Ref: "@abc1234", Duration: 1500 * time.Millisecond},
			{Project: "app", Status: StatusFailed, Reason: "command exited with code 1", Tail: []string{"[ERROR] boom"}},
			{Project: "web", Status: StatusSkipped, Reason: "parent app did not succeed"},
		},
	}
	got := r.Summary()
	assert.Contains(t, got, "Run r1 failed: 1 succeeded, 1 failed, 1 skipped of 3 projects")
	assert.Contains(t, got, "succeeded lib @abc1234 (1.5s)")
	assert.Contains(t, got, "skipped   web: parent app did not succeed")
	assert.Contains(t, got, "--- last output of app ---\n  [ERROR] boom")
	assert.Len(t, r.Failed(), 1)
}
