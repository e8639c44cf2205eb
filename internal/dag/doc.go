// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package dag builds the dependency graph of a build chain. Starting from the
// trigger project it asks a definition.Source for every referenced project,
// following parent and child references transitively, and assembles an
// arena of projects indexed by a stable identity with edges stored as index
// pairs.
//
// The graph is built once per run and is read-only afterwards, so it is safe
// for concurrent readers.
//
// Edges always point from predecessor to successor: a parent reference
// declared by A on B and a child reference declared by B on A both yield the
// edge B -> A.
package dag
