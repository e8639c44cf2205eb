// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the format-agnostic representation of a build chain:
// the projects taking part in it, the dependency references between them, the
// flow mode that selects which part of the graph is built, and the trigger
// that starts a run.
//
// # Core Concepts
//
//   - Project: a buildable source repository, addressed by its Identity
//     (name + repository URL). Projects are created by the definition loader and
//     are read-only for the rest of a run.
//
//   - DependencyRef: a directed declaration from one project to another. Parent
//     references point at projects that must be built first, child references at
//     projects that must be built after. A reference may carry BranchMapping
//     rules that pick the branch of the referenced project.
//
//   - Flow: which direction(s) of the graph a run includes.
//
//   - Trigger: the normalized event (pull request or push) that starts a run.
//
// Every other package consumes these types; none of them know about HCL, YAML
// or the GitHub event payloads they were decoded from.
package model
