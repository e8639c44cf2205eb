// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/buildchain/internal/model"
)

// Status is the state of a step or a whole run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusSkipped
}

// StepResult is the Execution Result of one project.
type StepResult struct {
	Project string `json:"project"`
	URL     string `json:"url,omitempty"`
	Status  Status `json:"status"`
	// Template is the declared command, Command the one that was executed.
	Template string `json:"template,omitempty"`
	Command  string `json:"command,omitempty"`
	Family   string `json:"family,omitempty"`
	Dir      string `json:"dir,omitempty"`
	Branch   string `json:"branch,omitempty"`
	// Ref is the resolved git reference of Branch, when it was resolved.
	Ref      string        `json:"ref,omitempty"`
	ExitCode int           `json:"exit_code"`
	Started  time.Time     `json:"started,omitzero"`
	Duration time.Duration `json:"duration"`
	// Reason explains a failure or a skip.
	Reason string `json:"reason,omitempty"`
	// StartFailure is set when the command could not be launched.
	StartFailure bool `json:"start_failure,omitempty"`
	// Moot marks a step that finished after a strict run had already halted.
	Moot bool     `json:"moot,omitempty"`
	Tail []string `json:"tail,omitempty"`
}

// RunResult aggregates the step results of one run.
type RunResult struct {
	ID       string        `json:"id"`
	Trigger  model.Trigger `json:"trigger"`
	Flow     model.Flow    `json:"flow"`
	Policy   Policy        `json:"policy"`
	Status   Status        `json:"status"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished,omitzero"`
	// Steps are in chain order.
	Steps []StepResult `json:"steps"`
	// Completed lists project names in the order their steps settled.
	Completed []string `json:"completed"`
}

// Succeeded reports whether every step of the run succeeded.
func (r *RunResult) Succeeded() bool { return r.Status == StatusSucceeded }

// Count returns the number of steps with the given status.
func (r *RunResult) Count(s Status) int {
	n := 0
	for _, st := range r.Steps {
		if st.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the failed steps in chain order.
func (r *RunResult) Failed() []StepResult {
	var out []StepResult
	for _, st := range r.Steps {
		if st.Status == StatusFailed {
			out = append(out, st)
		}
	}
	return out
}

// Summary renders a human-readable account of the run naming every failed
// and skipped project.
func (r *RunResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s %s: %d succeeded, %d failed, %d skipped of %d projects\n",
		r.ID, r.Status, r.Count(StatusSucceeded), r.Count(StatusFailed), r.Count(StatusSkipped), len(r.Steps))
	for _, st := range r.Steps {
		line := fmt.Sprintf("  %-9s %s", st.Status, st.Project)
		if st.Ref != "" {
			line += " " + st.Ref
		}
		if st.Status == StatusSucceeded || st.Status == StatusFailed {
			line += fmt.Sprintf(" (%s)", st.Duration.Round(time.Millisecond))
		}
		if st.Reason != "" {
			line += ": " + st.Reason
		}
		if st.Moot {
			line += " [moot]"
		}
		b.WriteString(line + "\n")
	}
	for _, st := range r.Failed() {
		if len(st.Tail) == 0 {
			continue
		}
		fmt.Fprintf(&b, "--- last output of %s ---\n", st.Project)
		for _, l := range st.Tail {
			b.WriteString("  " + l + "\n")
		}
	}
	return b.String()
}

// clone returns a deep enough copy for concurrent readers.
func (r *RunResult) clone() *RunResult {
	c := *r
	c.Steps = slices.Clone(r.Steps)
	c.Completed = slices.Clone(r.Completed)
	return &c
}

// recorder guards the Run Result mutated by concurrent workers.
type recorder struct {
	mu  sync.Mutex
	run *RunResult
}

func (rec *recorder) update(pos int, fn func(*StepResult)) StepResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	fn(&rec.run.Steps[pos])
	if rec.run.Steps[pos].Status.Terminal() {
		rec.run.Completed = append(rec.run.Completed, rec.run.Steps[pos].Project)
	}
	return rec.run.Steps[pos]
}

func (rec *recorder) snapshot() *RunResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.run.clone()
}

func (rec *recorder) finish(now time.Time) *RunResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.run.Finished = now
	rec.run.Status = StatusSucceeded
	for _, st := range rec.run.Steps {
		if st.Status != StatusSucceeded {
			rec.run.Status = StatusFailed
			break
		}
	}
	return rec.run.clone()
}
