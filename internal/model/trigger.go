// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Trigger record. Both entry modes (a local URL and the
// hosted GitHub Action environment) converge on it before the orchestrator
// runs.
package model

// EventKind is the kind of event that started a run.
type EventKind string

const (
	EventPullRequest EventKind = "pull_request"
	EventPush        EventKind = "push"
)

// Trigger identifies the project and event that start a chain run.
type Trigger struct {
	// Project is the name of the triggering project as declared in the
	// definition files. It defaults to "<owner>/<repo>".
	Project string
	Event   EventKind
	// Ref is the pushed branch, or the pull request number.
	Ref   string
	Owner string
	Repo  string
	// BaseBranch is the branch a pull request targets, when known.
	BaseBranch string
}

// Identity returns the identity used to look the trigger project up.
func (t Trigger) Identity() Identity {
	return Identity{Name: t.Project}
}

// Branch returns the branch the run is about: the pushed branch, or the
// pull request base branch. fallback is used when neither is known.
func (t Trigger) Branch(fallback string) string {
	switch t.Event {
	case EventPush:
		if t.Ref != "" {
			return t.Ref
		}
	case EventPullRequest:
		if t.BaseBranch != "" {
			return t.BaseBranch
		}
	}
	return fallback
}
