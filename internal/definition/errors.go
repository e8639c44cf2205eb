// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Source when no project matches a reference.
	ErrNotFound = errors.New("project not found")
	// ErrAmbiguous is returned when a name-only reference matches several projects.
	ErrAmbiguous = errors.New("ambiguous project reference")
	// ErrMalformed marks a definition that cannot be decoded or validated.
	ErrMalformed = errors.New("malformed definition")
)

// LoadError reports a definition file that failed to load.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading definition %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrMalformed, e.Err} }

func malformedf(source, format string, args ...any) error {
	return &LoadError{Source: source, Err: fmt.Errorf(format, args...)}
}
