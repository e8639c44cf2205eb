// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dag

import (
	"context"
	"errors"
	"slices"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
	"github.com/specialistvlad/buildchain/internal/definition"
	"github.com/specialistvlad/buildchain/internal/model"
)

// Build assembles the graph reachable from start by following parent and
// child references transitively.
//
// When src also implements Lister, projects that reference a visited node
// without being referenced back are discovered too, so a chain can reach
// dependents that only declare their parents.
//
// A reference whose project cannot be found is recorded as unresolved and
// skipped with a warning. A missing start project, an ambiguous reference and
// a self reference are fatal. Other cycles are left to the chain resolver, which rejects them only
// inside the projects a flow actually traverses.
func Build(ctx context.Context, src definition.Source, start model.Identity) (*Graph, error) {
	ctxlog.FromContext(ctx).Debug("Building dependency graph.", "start", start.String())

	root, err := src.Lookup(ctx, start)
	if err != nil {
		if errors.Is(err, definition.ErrNotFound) {
			return nil, &UnresolvedReferenceError{Ref: model.DependencyRef{Project: start.Name, URL: start.URL}, Err: err}
		}
		return nil, configf("resolving %s: %v", start, err)
	}

	var all []*model.Project
	if l, ok := src.(Lister); ok {
		all = l.Projects()
	}

	g := newGraph()
	if err := g.grow(ctx, src, all, []int{g.add(root)}); err != nil {
		return nil, err
	}
	if err := g.finish(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// Catalog is a Source that can enumerate its declarations.
type Catalog interface {
	definition.Source
	Lister
}

// BuildAll assembles the graph of every project known to src, independent of
// any trigger. It is used by the precedence listing and rejects any cycle.
func BuildAll(ctx context.Context, src Catalog) (*Graph, error) {
	all := src.Projects()
	g := newGraph()
	queue := make([]int, 0, len(all))
	for _, p := range all {
		queue = append(queue, g.add(p))
	}
	if err := g.grow(ctx, src, all, queue); err != nil {
		return nil, err
	}
	if err := g.finish(ctx); err != nil {
		return nil, err
	}
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}
	return g, nil
}

// grow walks references breadth first from the queued nodes.
func (g *Graph) grow(ctx context.Context, src definition.Source, all []*model.Project, queue []int) error {
	logger := ctxlog.FromContext(ctx)
	visited := map[int]bool{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		p := g.projects[cur]

		for _, rel := range []struct {
			refs     []model.DependencyRef
			relation Relation
		}{
			{p.Parents, RelationParent},
			{p.Children, RelationChild},
		} {
			for _, ref := range rel.refs {
				target, err := src.Lookup(ctx, ref.Identity())
				if err != nil {
					if !errors.Is(err, definition.ErrNotFound) {
						return configf("resolving %s reference %s -> %s: %v", rel.relation, p.Name, ref.Identity(), err)
					}
					u := &UnresolvedReferenceError{From: p.Identity(), Ref: ref, Relation: rel.relation, Err: err}
					g.unresolved = append(g.unresolved, u)
					logger.Warn("Dependency reference cannot be resolved, edge dropped.",
						"project", p.Name, "relation", string(rel.relation), "reference", ref.Identity().String())
					continue
				}

				t := g.add(target)
				if t == cur {
					return CycleError([]string{p.Name, p.Name})
				}
				if rel.relation == RelationParent {
					g.link(t, cur, declaredAsParent)
				} else {
					g.link(cur, t, declaredAsChild)
				}
				g.applyMapping(t, ref.Mappings, p.Order)
				if !visited[t] {
					queue = append(queue, t)
				}
			}
		}

		for _, q := range referrers(all, p) {
			if i := g.add(q); !visited[i] {
				queue = append(queue, i)
			}
		}
	}

	return nil
}

// finish sorts adjacency and reports one-sided edges.
func (g *Graph) finish(ctx context.Context) error {
	g.sortAdjacency()
	for from, succ := range g.children {
		for _, to := range succ {
			if g.edges[[2]int{from, to}] == declaredAsParent|declaredAsChild {
				continue
			}
			ctxlog.Trace(ctx, "Edge is declared on one side only.",
				"from", g.projects[from].Name, "to", g.projects[to].Name)
		}
	}

	ctxlog.FromContext(ctx).Debug("Dependency graph built.", "projects", g.Len(), "unresolved", len(g.unresolved))
	return nil
}

// Lister is implemented by sources that can enumerate every declaration.
type Lister interface {
	Projects() []*model.Project
}

// referrers returns the projects in all that declare a reference matching p.
func referrers(all []*model.Project, p *model.Project) []*model.Project {
	var out []*model.Project
	for _, q := range all {
		if q == p {
			continue
		}
		for _, ref := range slices.Concat(q.Parents, q.Children) {
			if p.Matches(ref.Identity()) {
				out = append(out, q)
				break
			}
		}
	}
	return out
}
