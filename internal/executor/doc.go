// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package executor runs a project's build command as a child process.
//
// The command is handed to a shell rooted at the project's working directory.
// Standard output and standard error are streamed line by line to the logger
// carried by the context while the process runs, and the last lines are kept
// for the failure summary. A non-zero exit status yields an *ExitError; a
// process that cannot be started at all yields a *StartError.
package executor
