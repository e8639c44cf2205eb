// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package chain

import (
	"cmp"
	"slices"

	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/specialistvlad/buildchain/internal/model"
)

// Group is a set of projects sharing a precedence level.
type Group struct {
	Precedence int
	Projects   []*model.Project
}

// Names returns the project names of the group.
func (gr Group) Names() []string {
	out := make([]string, len(gr.Projects))
	for i, p := range gr.Projects {
		out[i] = p.Name
	}
	return out
}

// Precedence lists every project of g grouped by its 0-based precedence, the
// length of the longest path from any root. Groups come in ascending
// precedence and projects within a group in declaration order. With
// skipGroup all projects are flattened, in the same order, into a single
// group of precedence 0.
func Precedence(g *dag.Graph, skipGroup bool) ([]Group, error) {
	ordered := g.Ordered()
	all := func(int) bool { return true }
	if err := dag.DetectCycles(g, ordered, all); err != nil {
		return nil, err
	}

	depth := make([]int, g.Len())
	for _, n := range topoSort(g, ordered, all) {
		for _, p := range g.Parents(n) {
			depth[n] = max(depth[n], depth[p]+1)
		}
	}

	nodes := slices.Clone(ordered)
	slices.SortStableFunc(nodes, func(a, b int) int { return cmp.Compare(depth[a], depth[b]) })

	var groups []Group
	for _, n := range nodes {
		if len(groups) == 0 || (!skipGroup && groups[len(groups)-1].Precedence != depth[n]) {
			level := depth[n]
			if skipGroup {
				level = 0
			}
			groups = append(groups, Group{Precedence: level})
		}
		last := &groups[len(groups)-1]
		last.Projects = append(last.Projects, g.Project(n))
	}
	return groups, nil
}
