// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package chain

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/specialistvlad/buildchain/internal/model"
)

// Node is one project of a chain.
type Node struct {
	Project *model.Project
	// Parents holds the chain positions of the project's parents that are
	// part of the chain. Each is strictly smaller than the node's position.
	Parents []int
	// Mappings are the effective branch mappings declared for the project.
	Mappings []model.BranchMapping
	// Trigger is set on the node of the triggering project.
	Trigger bool
}

// Chain is the ordered subset of projects built by one run.
type Chain struct {
	Flow  model.Flow
	Nodes []Node
}

// Len returns the number of projects in the chain.
func (c *Chain) Len() int { return len(c.Nodes) }

// Names returns the project names in chain order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = n.Project.Name
	}
	return out
}

// Trigger returns the triggering project.
func (c *Chain) Trigger() *model.Project {
	for _, n := range c.Nodes {
		if n.Trigger {
			return n.Project
		}
	}
	return nil
}

// Resolve computes the chain for the trigger project under the given flow.
func Resolve(ctx context.Context, g *dag.Graph, trigger model.Identity, flow model.Flow) (*Chain, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := model.ParseFlow(string(flow)); err != nil {
		return nil, err
	}
	t, err := g.Index(trigger)
	if err != nil {
		return nil, err
	}

	in := map[int]bool{t: true}
	if flow.IncludesUpstream() {
		walk(t, g.Parents, in)
	}
	if flow.IncludesDownstream() {
		walk(t, g.Children, in)
	}

	ordered := g.Ordered()
	member := func(i int) bool { return in[i] }
	if err := dag.DetectCycles(g, ordered, member); err != nil {
		return nil, err
	}

	order := topoSort(g, ordered, member)
	position := make(map[int]int, len(order))
	for pos, i := range order {
		position[i] = pos
	}

	c := &Chain{Flow: flow, Nodes: make([]Node, 0, len(order))}
	for pos, i := range order {
		n := Node{Project: g.Project(i), Mappings: g.Mappings(i), Trigger: i == t}
		for _, p := range g.Parents(i) {
			pp, ok := position[p]
			if !ok {
				continue
			}
			if pp >= pos {
				return nil, fmt.Errorf("internal ordering error: %s placed before its parent %s",
					g.Project(i).Name, g.Project(p).Name)
			}
			n.Parents = append(n.Parents, pp)
		}
		c.Nodes = append(c.Nodes, n)
	}

	logger.Debug("Chain resolved.", "flow", string(flow), "trigger", g.Project(t).Name, "chain", c.Names())
	return c, nil
}

// walk marks every node reachable from start through next.
func walk(start int, next func(int) []int, seen map[int]bool) {
	stack := []int{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range next(n) {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
}

// topoSort emits the accepted nodes so that each appears after all of its
// accepted parents. Roots are taken in the given order and parents are
// visited in declaration order, which makes the result deterministic.
// The input must be acyclic.
func topoSort(g *dag.Graph, roots []int, in func(int) bool) []int {
	done := make(map[int]bool)
	var out []int

	var visit func(n int)
	visit = func(n int) {
		done[n] = true
		for _, p := range g.Parents(n) {
			if in(p) && !done[p] {
				visit(p)
			}
		}
		out = append(out, n)
	}

	for _, r := range roots {
		if in(r) && !done[r] {
			visit(r)
		}
	}
	return out
}
