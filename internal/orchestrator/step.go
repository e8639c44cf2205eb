// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/buildchain/internal/cmdtemplate"
	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/executor"
	"github.com/specialistvlad/buildchain/internal/gitref"
	"github.com/specialistvlad/buildchain/internal/model"
)

// runStep builds one project and records its result.
func (o *Orchestrator) runStep(ctx context.Context, pos int, r *run) StepResult {
	logger := ctxlog.FromContext(ctx)
	node := r.ch.Nodes[pos]
	p := node.Project

	branch, mapped := o.branchFor(node.Mappings, p, node.Trigger, r)
	started := time.Now()
	st := r.rec.update(pos, func(s *StepResult) {
		s.Status = StatusRunning
		s.Branch = branch
		s.Started = started
	})
	o.emit(ctx, Event{Kind: EventProjectStatus, RunID: o.opts.RunID, Step: &st})

	var ref string
	if mapped && p.URL != "" {
		if sha, ok := o.git.ResolveRemoteSha(ctx, p.URL, branch, o.opts.HashLength); ok {
			ref = sha
		}
	}

	command := p.Command
	if cmdtemplate.IsTemplate(command) {
		rendered, err := cmdtemplate.Render(ctx, command, cmdtemplate.Vars{
			Project: p,
			Branch:  branch,
			Dir:     r.dirs[pos],
			Trigger: o.opts.Trigger,
			Ref:     ref,
			Marker:  gitref.Marker,
		})
		if err != nil {
			logger.Warn("Cannot render command template, running it untouched.", "error", err)
		} else {
			command = rendered
		}
	}

	treated, family := o.treater.Treat(command)
	if family != "" {
		logger.Debug("Command treated.", "family", family, "command", treated)
	}

	res, err := o.runner.Execute(ctx, r.dirs[pos], treated)
	duration := time.Since(started)

	st = r.rec.update(pos, func(s *StepResult) {
		s.Ref = ref
		s.Command = treated
		s.Family = family
		s.ExitCode = res.ExitCode
		s.Duration = duration
		s.Tail = res.Tail
		s.Moot = r.halted.Load()
		if err == nil {
			s.Status = StatusSucceeded
			return
		}
		s.Status = StatusFailed
		s.Reason = err.Error()
		var startErr *executor.StartError
		s.StartFailure = errors.As(err, &startErr)
	})

	if err != nil {
		logger.Error("Project build failed.", "error", err, "exit_code", res.ExitCode, "start_failure", st.StartFailure, "duration", duration)
	} else {
		logger.Info("Project build succeeded.", "duration", duration)
	}
	o.emit(ctx, Event{Kind: EventProjectStatus, RunID: o.opts.RunID, Step: &st})
	return st
}

// branchFor returns the branch a project is built from and whether it came
// from a branch mapping. The trigger project always builds the trigger
// branch, whatever mappings other projects declare on their references to
// it; other projects use the first applicable mapping or their default branch.
func (o *Orchestrator) branchFor(mappings []model.BranchMapping, p *model.Project, isTrigger bool, r *run) (string, bool) {
	if isTrigger {
		return r.branch, false
	}
	if target, ok := model.MatchBranch(mappings, r.branch, r.ch.Flow); ok {
		return target, true
	}
	return p.DefaultBranch, false
}
