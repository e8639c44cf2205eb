// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package chain extracts the ordered list of projects a run builds.
//
// Resolve selects the subset of the dependency graph named by the flow mode
// and linearizes it with a depth-first topological sort in which parents are
// always emitted before their children. Independent projects keep their
// declaration order, so identical inputs always produce the same chain.
//
// Precedence groups every project of a graph by its longest-path distance
// from a root, for the standalone listing.
package chain
