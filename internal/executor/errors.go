// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package executor

import (
	"fmt"
)

// ExitError reports a build command that ran and exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// StartError reports a build command that could not be launched: a missing
// working directory, a missing shell, or a command the shell could not find
// or execute.
type StartError struct {
	Dir string
	Err error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("cannot start command in %s: %v", e.Dir, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }
