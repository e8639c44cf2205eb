// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildchain/internal/chain"
	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/specialistvlad/buildchain/internal/executor"
	"github.com/specialistvlad/buildchain/internal/gitref"
	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/specialistvlad/buildchain/internal/notify"
	"github.com/specialistvlad/buildchain/internal/orchestrator"
	"github.com/specialistvlad/buildchain/internal/treatment"
	"github.com/specialistvlad/buildchain/internal/trigger"
)

// build runs the chain of the configured trigger.
func (a *App) build(ctx context.Context) error {
	cfg := a.config

	t, err := a.trigger()
	if err != nil {
		return err
	}
	a.logger.Info("Trigger resolved.", "project", t.Project, "event", string(t.Event), "ref", t.Ref)

	catalog, err := a.load(ctx)
	if err != nil {
		return err
	}

	graph, err := dag.Build(ctx, catalog, t.Identity())
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	ch, err := chain.Resolve(ctx, graph, t.Identity(), cfg.Flow)
	if err != nil {
		return fmt.Errorf("failed to resolve chain: %w", err)
	}
	a.logger.Info("Chain resolved.", "flow", string(cfg.Flow), "projects", ch.Names())

	var observers []orchestrator.Observer
	if cfg.NotifyURL != "" {
		n, err := notify.DialSocketIO(ctx, notify.SocketIOOptions{URL: cfg.NotifyURL, Namespace: cfg.NotifyNamespace})
		if err != nil {
			a.logger.Warn("Progress notifications disabled.", "url", cfg.NotifyURL, "error", err)
		} else {
			defer n.Close()
			observers = append(observers, n)
		}
	}

	treatments := treatment.Default()
	a.logger.Debug("Command treatments registered.", "families", treatments.Families())

	orch := orchestrator.New(
		gitref.NewResolver(gitref.WithToken(cfg.Token)),
		treatments,
		executor.New(),
		orchestrator.Options{
			Workers:    cfg.Workers,
			Policy:     cfg.Policy,
			HashLength: cfg.HashLength,
			WorkDir:    cfg.WorkDir,
			Trigger:    t,
		},
		observers...,
	)

	if cfg.StatusPort > 0 {
		a.startStatusServer(ctx, cfg.StatusPort, orch)
		defer a.closeStatusServer(ctx)
	}

	res, err := orch.Run(ctx, ch)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(a.outW, res.Summary()); err != nil {
		return err
	}
	if !res.Succeeded() {
		failed := make([]string, 0, len(res.Steps))
		for _, st := range res.Failed() {
			failed = append(failed, st.Project)
		}
		return &BuildFailedError{RunID: res.ID, Failed: failed}
	}
	return nil
}

// trigger builds the trigger record from the URL or the hosted environment.
func (a *App) trigger() (model.Trigger, error) {
	var (
		t   model.Trigger
		err error
	)
	if a.config.Hosted {
		t, err = trigger.FromEnv(a.getenv)
	} else {
		t, err = trigger.ParseURL(a.config.TriggerURL)
	}
	if err != nil {
		return model.Trigger{}, err
	}
	if a.config.BaseBranch != "" && t.Event == model.EventPullRequest {
		t.BaseBranch = a.config.BaseBranch
	}
	return t, nil
}
