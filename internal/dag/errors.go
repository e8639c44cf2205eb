// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/buildchain/internal/model"
)

var (
	// ErrConfiguration marks a fatal problem with the dependency declarations.
	ErrConfiguration = errors.New("invalid dependency configuration")
	// ErrCycle marks a dependency cycle. It is always also an ErrConfiguration.
	ErrCycle = errors.New("dependency cycle detected")
)

// GraphError wraps graph validation failures.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Unwrap exposes the kind and, for cycles, ErrConfiguration.
func (e *GraphError) Unwrap() []error {
	if e.Kind == ErrConfiguration {
		return []error{e.Kind}
	}
	return []error{e.Kind, ErrConfiguration}
}

func configf(format string, args ...any) error {
	return &GraphError{Kind: ErrConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// CycleError builds the error reported for a cycle through the given project names.
func CycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &GraphError{Kind: ErrCycle, Msg: msg}
}

// Relation is the direction a reference was declared in.
type Relation string

const (
	RelationParent Relation = "parent"
	RelationChild  Relation = "child"
)

// UnresolvedReferenceError describes a declared reference whose project could
// not be retrieved. Inside the graph it is recorded per edge; for the trigger
// project it is returned by Build and is fatal.
type UnresolvedReferenceError struct {
	From     model.Identity
	Ref      model.DependencyRef
	Relation Relation
	Err      error
}

func (e *UnresolvedReferenceError) Error() string {
	if e.From.Name == "" {
		return fmt.Sprintf("unresolved project %s: %v", e.Ref.Identity(), e.Err)
	}
	return fmt.Sprintf("unresolved %s reference %s -> %s: %v", e.Relation, e.From.Name, e.Ref.Identity(), e.Err)
}

func (e *UnresolvedReferenceError) Unwrap() error { return e.Err }
