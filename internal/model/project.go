// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Project and DependencyRef, the two records a definition
// file declares for every repository in the chain.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Identity is the stable key of a project. Two declarations with the same
// Identity describe the same repository and are merged.
type Identity struct {
	Name string
	URL  string
}

// Key returns the map key used by graph arenas and catalogs.
func (id Identity) Key() string {
	return strings.ToLower(id.Name) + "|" + strings.ToLower(strings.TrimSuffix(id.URL, ".git"))
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	if id.URL == "" {
		return id.Name
	}
	return fmt.Sprintf("%s (%s)", id.Name, id.URL)
}

// BranchMapping selects the branch of a referenced project. Source is the
// trigger branch the rule applies to (empty matches any branch), Target the
// branch used for the referenced project, and Flows restricts the rule to the
// listed flow modes (empty means every flow).
type BranchMapping struct {
	Source string
	Target string
	Flows  []Flow
}

// Applies reports whether the mapping is active for the given trigger branch and flow.
func (m BranchMapping) Applies(triggerBranch string, flow Flow) bool {
	if m.Target == "" {
		return false
	}
	if m.Source != "" && m.Source != triggerBranch {
		return false
	}
	return len(m.Flows) == 0 || slices.Contains(m.Flows, flow)
}

// DependencyRef is a declared edge to another project. URL is optional; a
// reference without one is resolved by project name.
type DependencyRef struct {
	Project  string
	URL      string
	Mappings []BranchMapping
}

// Identity returns the (possibly partial) identity the reference points at.
func (r DependencyRef) Identity() Identity {
	return Identity{Name: r.Project, URL: r.URL}
}

// MatchBranch returns the target branch of the first mapping that applies.
func (r DependencyRef) MatchBranch(triggerBranch string, flow Flow) (string, bool) {
	return MatchBranch(r.Mappings, triggerBranch, flow)
}

// MatchBranch returns the target of the first mapping in ms that applies.
func MatchBranch(ms []BranchMapping, triggerBranch string, flow Flow) (string, bool) {
	for _, m := range ms {
		if m.Applies(triggerBranch, flow) {
			return m.Target, true
		}
	}
	return "", false
}

// Project is a repository taking part in the build chain.
type Project struct {
	Name          string
	URL           string
	DefaultBranch string
	// Command is the build command template, rendered and treated before execution.
	Command string
	// Dir is the working directory relative to the workspace root. Empty means
	// the project name is used.
	Dir      string
	Parents  []DependencyRef
	Children []DependencyRef

	// Order is the load-order ordinal of the declaration. It breaks ties
	// between independent projects so chains are reproducible.
	Order int
	// Source names the file or URL the declaration came from.
	Source string
}

// Identity returns the project's stable identity.
func (p *Project) Identity() Identity {
	return Identity{Name: p.Name, URL: p.URL}
}

// Matches reports whether a (possibly partial) identity refers to this project.
// Names compare case-insensitively; the URL only participates when set.
func (p *Project) Matches(id Identity) bool {
	if !strings.EqualFold(p.Name, id.Name) {
		return false
	}
	if id.URL == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSuffix(p.URL, ".git"), strings.TrimSuffix(id.URL, ".git"))
}
