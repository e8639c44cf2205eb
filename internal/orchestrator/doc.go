// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package orchestrator executes a resolved chain.
//
// Steps run on a bounded worker pool. A project becomes ready once every
// parent in the chain has succeeded, so independent branches of the chain
// build in parallel while every dependency edge keeps a strict
// happens-before. Each step resolves the git reference of its mapped branch,
// renders and treats the command and hands it to the Runner.
//
// Under the lenient policy a failed step skips its descendants and the rest
// of the chain carries on. Under the strict policy the first failure stops
// new steps from starting; steps already running finish and are marked moot.
//
// The Run Result is kept behind a mutex and can be read while the run is in
// progress through Snapshot.
package orchestrator
