// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dag

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/specialistvlad/buildchain/internal/model"
)

// Graph is an arena of projects. Nodes are addressed by their index; edges
// are stored as index lists in both directions.
type Graph struct {
	projects []*model.Project
	index    map[string]int
	parents  [][]int
	children [][]int

	mappings     [][]model.BranchMapping
	mappingOrder []int

	unresolved []*UnresolvedReferenceError
	edges      map[[2]int]edgeOrigin
}

// edgeOrigin records which side(s) declared an edge.
type edgeOrigin uint8

const (
	declaredAsParent edgeOrigin = 1 << iota
	declaredAsChild
)

func newGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[[2]int]edgeOrigin),
	}
}

// add inserts p unless a project with the same identity is present and
// returns its index.
func (g *Graph) add(p *model.Project) int {
	key := p.Identity().Key()
	if i, ok := g.index[key]; ok {
		return i
	}
	i := len(g.projects)
	g.projects = append(g.projects, p)
	g.index[key] = i
	g.parents = append(g.parents, nil)
	g.children = append(g.children, nil)
	g.mappings = append(g.mappings, nil)
	g.mappingOrder = append(g.mappingOrder, -1)
	return i
}

// link records the edge from -> to. Duplicate declarations collapse into one edge.
func (g *Graph) link(from, to int, origin edgeOrigin) {
	e := [2]int{from, to}
	seen, ok := g.edges[e]
	g.edges[e] = seen | origin
	if ok {
		return
	}
	g.children[from] = append(g.children[from], to)
	g.parents[to] = append(g.parents[to], from)
}

// applyMapping keeps the mappings declared by the latest-loaded declaration.
func (g *Graph) applyMapping(target int, ms []model.BranchMapping, order int) {
	if len(ms) == 0 || order < g.mappingOrder[target] {
		return
	}
	g.mappings[target] = ms
	g.mappingOrder[target] = order
}

// less orders nodes by declaration order, then arena index.
func (g *Graph) less(a, b int) int {
	return cmp.Or(cmp.Compare(g.projects[a].Order, g.projects[b].Order), cmp.Compare(a, b))
}

func (g *Graph) sortAdjacency() {
	for i := range g.projects {
		slices.SortFunc(g.parents[i], g.less)
		slices.SortFunc(g.children[i], g.less)
	}
}

// Len returns the number of projects in the graph.
func (g *Graph) Len() int { return len(g.projects) }

// Project returns the project stored at index i.
func (g *Graph) Project(i int) *model.Project { return g.projects[i] }

// Index returns the index of the project matching id. A partial identity
// (no URL) matches by name and must be unambiguous.
func (g *Graph) Index(id model.Identity) (int, error) {
	if id.URL != "" {
		if i, ok := g.index[id.Key()]; ok {
			return i, nil
		}
	}
	found := -1
	for i, p := range g.projects {
		if !p.Matches(id) {
			continue
		}
		if found >= 0 {
			return -1, configf("project %s is ambiguous", id)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("project %s is not part of the graph", id)
	}
	return found, nil
}

// Parents returns the direct predecessors of node i in declaration order.
func (g *Graph) Parents(i int) []int { return g.parents[i] }

// Children returns the direct successors of node i in declaration order.
func (g *Graph) Children(i int) []int { return g.children[i] }

// Mappings returns the effective branch mappings of node i: those carried by
// the latest-loaded reference pointing at it.
func (g *Graph) Mappings(i int) []model.BranchMapping { return g.mappings[i] }

// Unresolved returns the references that could not be retrieved while
// building the graph. Their edges are not part of the graph.
func (g *Graph) Unresolved() []*UnresolvedReferenceError { return g.unresolved }

// Ordered returns every node index sorted by declaration order.
func (g *Graph) Ordered() []int {
	out := make([]int, len(g.projects))
	for i := range out {
		out[i] = i
	}
	slices.SortFunc(out, g.less)
	return out
}

// DetectCycles reports the first cycle found by a depth-first walk over the
// child edges, visiting roots in declaration order.
func (g *Graph) DetectCycles() error {
	return DetectCycles(g, g.Ordered(), func(int) bool { return true })
}

// Adjacency is the read-only view cycle detection needs.
type Adjacency interface {
	Project(i int) *model.Project
	Children(i int) []int
}

const (
	white = iota
	gray
	black
)

// DetectCycles walks the nodes accepted by in, starting from roots in the
// given order, and returns a cycle error naming the path of the first back
// edge it meets.
func DetectCycles(g Adjacency, roots []int, in func(int) bool) error {
	color := make(map[int]int, len(roots))
	var stack []int

	var visit func(n int) error
	visit = func(n int) error {
		color[n] = gray
		stack = append(stack, n)
		for _, c := range g.Children(n) {
			if !in(c) {
				continue
			}
			switch color[c] {
			case gray:
				start := slices.Index(stack, c)
				path := make([]string, 0, len(stack)-start+1)
				for _, s := range stack[start:] {
					path = append(path, g.Project(s).Name)
				}
				path = append(path, g.Project(c).Name)
				return CycleError(path)
			case white:
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, r := range roots {
		if !in(r) || color[r] != white {
			continue
		}
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}
