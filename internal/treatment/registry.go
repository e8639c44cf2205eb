// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package treatment

import (
	"fmt"
	"strings"
)

// Family is a build tool family.
type Family struct {
	Name string
	// Match reports whether the command is run by this family's tool.
	Match func(command string) bool
	// Treat rewrites a matched command. It must be idempotent.
	Treat func(command string) string
}

// Registry dispatches commands to families in registration order.
type Registry struct {
	families []Family
}

// New returns a registry holding the given families in order.
func New(families ...Family) *Registry {
	r := &Registry{}
	for _, f := range families {
		r.Register(f)
	}
	return r
}

// Default returns a registry with the Maven and Gradle families.
func Default() *Registry {
	return New(Maven(), Gradle())
}

// Register appends a family. Registering a second family under an existing
// name is a programming error and panics.
func (r *Registry) Register(f Family) {
	if f.Match == nil || f.Treat == nil {
		panic(fmt.Sprintf("treatment family '%s' needs both a matcher and a transform", f.Name))
	}
	for _, existing := range r.families {
		if existing.Name == f.Name {
			panic(fmt.Sprintf("treatment family with name '%s' already registered", f.Name))
		}
	}
	r.families = append(r.families, f)
}

// Families returns the registered family names in dispatch order.
func (r *Registry) Families() []string {
	out := make([]string, len(r.families))
	for i, f := range r.families {
		out[i] = f.Name
	}
	return out
}

// Treat returns the adapted command and the name of the family that treated
// it. The name is empty when no family matched and the command is returned
// as is.
func (r *Registry) Treat(command string) (string, string) {
	for _, f := range r.families {
		if f.Match(command) {
			return f.Treat(command), f.Name
		}
	}
	return command, ""
}

// shellOperators are the tokens that turn a command line into a compound
// command. Such commands are left alone since appended flags would only
// reach the last command.
var shellOperators = []string{"&&", "||", ";", "|", "\n"}

// toolMatcher matches simple commands whose first word is one of tools.
func toolMatcher(tools ...string) func(string) bool {
	return func(command string) bool {
		for _, op := range shellOperators {
			if strings.Contains(command, op) {
				return false
			}
		}
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return false
		}
		for _, t := range tools {
			if fields[0] == t {
				return true
			}
		}
		return false
	}
}

// appendFlags adds every flag not already present as a separate word.
func appendFlags(flags ...string) func(string) string {
	return func(command string) string {
		present := make(map[string]bool)
		for _, f := range strings.Fields(command) {
			present[f] = true
		}
		out := strings.TrimRight(command, " \t")
		for _, f := range flags {
			if !present[f] {
				out += " " + f
			}
		}
		return out
	}
}
