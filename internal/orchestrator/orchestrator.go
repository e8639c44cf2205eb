// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/buildchain/internal/chain"
	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/specialistvlad/buildchain/internal/executor"
	"github.com/specialistvlad/buildchain/internal/model"
)

// GitResolver resolves a remote branch to a marker-prefixed short commit.
type GitResolver interface {
	ResolveRemoteSha(ctx context.Context, repoURL, branch string, hashLength int) (string, bool)
}

// Treater adapts a command to its build tool and names the family used.
type Treater interface {
	Treat(command string) (string, string)
}

// Runner executes a command in a working directory.
type Runner interface {
	Execute(ctx context.Context, dir, command string) (executor.Result, error)
}

// Options tune a run.
type Options struct {
	// Workers bounds the number of concurrently running steps.
	Workers int
	Policy  Policy
	// HashLength is passed to the GitResolver.
	HashLength int
	// WorkDir is the root the project directories are relative to.
	WorkDir string
	Trigger model.Trigger
	// RunID identifies the run in logs and events. A random one is
	// generated when empty.
	RunID string
}

// Orchestrator drives the steps of one chain.
type Orchestrator struct {
	git       GitResolver
	treater   Treater
	runner    Runner
	observers []Observer
	opts      Options

	rec atomic.Pointer[recorder]
}

// New returns an Orchestrator. Unset options fall back to four workers and
// the lenient policy.
func New(git GitResolver, treater Treater, runner Runner, opts Options, observers ...Observer) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Policy == "" {
		opts.Policy = PolicyLenient
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Orchestrator{git: git, treater: treater, runner: runner, observers: observers, opts: opts}
}

// RunID returns the identifier of the run.
func (o *Orchestrator) RunID() string { return o.opts.RunID }

// Snapshot returns a copy of the Run Result as it stands. It returns nil
// before Run has been called.
func (o *Orchestrator) Snapshot() *RunResult {
	if rec := o.rec.Load(); rec != nil {
		return rec.snapshot()
	}
	return nil
}

// node state transitions: pending -> running -> done, or pending -> skipped.
const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateSkipped
)

// run holds the scheduling state of one Run call.
type run struct {
	o        *Orchestrator
	ch       *chain.Chain
	rec      *recorder
	dirs     []string
	branch   string
	children [][]int
	pending  []atomic.Int32
	state    []atomic.Int32
	ready    chan int
	wg       sync.WaitGroup

	halted   atomic.Bool
	haltOnce sync.Once
	haltedBy string
}

// Run executes the chain and returns its Run Result. The error is non-nil
// only for problems found before any step starts; build failures are
// reported through the result.
func (o *Orchestrator) Run(ctx context.Context, ch *chain.Chain) (*RunResult, error) {
	ctx = ctxlog.With(ctx, "run_id", o.opts.RunID)
	logger := ctxlog.FromContext(ctx)

	dirs, err := o.workDirs(ch)
	if err != nil {
		return nil, err
	}

	trigger := ch.Trigger()
	defaultBranch := ""
	if trigger != nil {
		defaultBranch = trigger.DefaultBranch
	}

	r := &run{
		o:        o,
		ch:       ch,
		dirs:     dirs,
		branch:   o.opts.Trigger.Branch(defaultBranch),
		children: make([][]int, ch.Len()),
		pending:  make([]atomic.Int32, ch.Len()),
		state:    make([]atomic.Int32, ch.Len()),
		ready:    make(chan int, ch.Len()),
	}

	result := &RunResult{
		ID:      o.opts.RunID,
		Trigger: o.opts.Trigger,
		Flow:    ch.Flow,
		Policy:  o.opts.Policy,
		Status:  StatusRunning,
		Started: time.Now(),
		Steps:   make([]StepResult, ch.Len()),
	}
	for i, n := range ch.Nodes {
		result.Steps[i] = StepResult{Project: n.Project.Name, URL: n.Project.URL, Status: StatusPending, Template: n.Project.Command, Dir: dirs[i]}
		r.pending[i].Store(int32(len(n.Parents)))
		for _, p := range n.Parents {
			r.children[p] = append(r.children[p], i)
		}
	}
	r.rec = &recorder{run: result}
	o.rec.Store(r.rec)

	logger.Info("Starting chain.", "projects", ch.Len(), "flow", string(ch.Flow), "policy", string(o.opts.Policy),
		"workers", o.opts.Workers, "trigger_branch", r.branch)
	o.emit(ctx, Event{Kind: EventRunStarted, RunID: o.opts.RunID, Run: o.Snapshot()})

	r.wg.Add(ch.Len())
	for i, n := range ch.Nodes {
		if len(n.Parents) == 0 {
			r.ready <- i
		}
	}

	workers := min(o.opts.Workers, max(ch.Len(), 1))
	for id := range workers {
		go r.worker(ctx, id)
	}

	r.wg.Wait()
	close(r.ready)

	final := r.rec.finish(time.Now())
	logger.Info("Chain finished.", "status", string(final.Status),
		"succeeded", final.Count(StatusSucceeded), "failed", final.Count(StatusFailed), "skipped", final.Count(StatusSkipped))
	o.emit(ctx, Event{Kind: EventRunFinished, RunID: o.opts.RunID, Run: final})
	return final, nil
}

// workDirs maps every chain node to its working directory and rejects
// chains in which two projects would share one.
func (o *Orchestrator) workDirs(ch *chain.Chain) ([]string, error) {
	root := o.opts.WorkDir
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving work directory: %w", err)
	}

	dirs := make([]string, ch.Len())
	owner := make(map[string]string, ch.Len())
	for i, n := range ch.Nodes {
		d := n.Project.Dir
		if d == "" {
			d = filepath.FromSlash(n.Project.Name)
		}
		if !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		d = filepath.Clean(d)
		if other, ok := owner[d]; ok {
			return nil, fmt.Errorf("%w: projects %s and %s share working directory %s",
				dag.ErrConfiguration, other, n.Project.Name, d)
		}
		owner[d] = n.Project.Name
		dirs[i] = d
	}
	return dirs, nil
}

func (o *Orchestrator) emit(ctx context.Context, ev Event) {
	for _, obs := range o.observers {
		obs.Observe(ctx, ev)
	}
}
