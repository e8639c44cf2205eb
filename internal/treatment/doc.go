// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package treatment adapts raw build commands to the tool that runs them.
//
// A Registry holds an ordered list of families. Each family pairs a matcher
// with a transform; Treat applies the transform of the first family whose
// matcher accepts the command and returns the command unchanged when none
// does. Transforms only add auxiliary flags: the tool, goals and arguments of
// the original command are kept verbatim, and a flag that is already present
// is never added twice.
package treatment
