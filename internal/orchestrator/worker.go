// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
)

// worker is the processing loop of one pool goroutine.
func (r *run) worker(ctx context.Context, workerID int) {
	logger := ctxlog.FromContext(ctx)
	ctxlog.Trace(ctx, "Worker started.", "workerID", workerID)

	for pos := range r.ready {
		name := r.ch.Nodes[pos].Project.Name

		if ctx.Err() != nil {
			r.skip(ctx, pos, fmt.Sprintf("run cancelled: %v", ctx.Err()))
			continue
		}
		if r.halted.Load() {
			r.skip(ctx, pos, fmt.Sprintf("chain halted after %s failed", r.haltedBy))
			continue
		}
		if !r.state[pos].CompareAndSwap(statePending, stateRunning) {
			continue
		}

		logger.Debug("Worker picked up project.", "workerID", workerID, "project", name)
		res := r.o.runStep(ctxlog.With(ctx, "project", name), pos, r)
		r.state[pos].Store(stateDone)

		if res.Status == StatusFailed {
			if r.o.opts.Policy == PolicyStrict {
				r.halt(name)
			}
			r.skipDependents(ctx, pos)
			r.wg.Done()
			continue
		}

		for _, c := range r.children[pos] {
			if r.pending[c].Add(-1) == 0 {
				ctxlog.Trace(ctx, "Unlocking dependent project.", "project", r.ch.Nodes[c].Project.Name)
				r.ready <- c
			}
		}
		r.wg.Done()
	}
	ctxlog.Trace(ctx, "Worker finished.", "workerID", workerID)
}

func (r *run) halt(name string) {
	r.haltOnce.Do(func() {
		r.haltedBy = name
		r.halted.Store(true)
	})
}

// skip settles a pending node as skipped along with its descendants.
func (r *run) skip(ctx context.Context, pos int, reason string) {
	if !r.state[pos].CompareAndSwap(statePending, stateSkipped) {
		return
	}
	ctxlog.FromContext(ctx).Warn("Skipping project.", "project", r.ch.Nodes[pos].Project.Name, "reason", reason)
	st := r.rec.update(pos, func(s *StepResult) {
		s.Status = StatusSkipped
		s.Reason = reason
	})
	r.o.emit(ctx, Event{Kind: EventProjectStatus, RunID: r.o.opts.RunID, Step: &st})
	r.wg.Done()
	r.skipDependents(ctx, pos)
}

// skipDependents marks every pending descendant of pos as skipped.
func (r *run) skipDependents(ctx context.Context, pos int) {
	parent := r.ch.Nodes[pos].Project.Name
	for _, c := range r.children[pos] {
		r.skip(ctx, c, fmt.Sprintf("parent %s did not succeed", parent))
	}
}
