// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package chain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/specialistvlad/buildchain/internal/definition"
	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/specialistvlad/buildchain/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(names ...string) []model.DependencyRef {
	out := make([]model.DependencyRef, 0, len(names))
	for _, n := range names {
		out = append(out, model.DependencyRef{Project: n})
	}
	return out
}

func catalog(projects ...*model.Project) *definition.Catalog {
	c := definition.NewCatalog()
	for _, p := range projects {
		p.URL = "https://example.com/" + p.Name
		c.Add(p)
	}
	return c
}

// linear declares A -> B -> C: B depends on A, C depends on B.
func linear() *definition.Catalog {
	return catalog(
		&model.Project{Name: "A"},
		&model.Project{Name: "B", Parents: refs("A")},
		&model.Project{Name: "C", Parents: refs("B")},
	)
}

// diamond declares core -> (api, util) -> app plus an unrelated docs project
// that depends on util. Declaration order deliberately differs from the
// dependency order.
func diamond() *definition.Catalog {
	return catalog(
		&model.Project{Name: "app", Parents: refs("api", "util")},
		&model.Project{Name: "util", Parents: refs("core")},
		&model.Project{Name: "api", Parents: refs("core")},
		&model.Project{Name: "core"},
		&model.Project{Name: "docs", Parents: refs("util")},
	)
}

func resolve(t *testing.T, c *definition.Catalog, trigger string, flow model.Flow) *Chain {
	t.Helper()
	ctx, _ := testutil.Context(t)
	g, err := dag.Build(ctx, c, model.Identity{Name: trigger})
	require.NoError(t, err)
	ch, err := Resolve(ctx, g, model.Identity{Name: trigger}, flow)
	require.NoError(t, err)
	return ch
}

func TestResolve_Flows(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		catalog func() *definition.Catalog
		trigger string
		flow    model.Flow
		want    []string
	}{
		{"linear single", linear, "B", model.FlowSingle, []string{"B"}},
		{"linear upstream", linear, "B", model.FlowUpstream, []string{"A", "B"}},
		{"linear downstream", linear, "B", model.FlowDownstream, []string{"B", "C"}},
		{"linear full", linear, "B", model.FlowFull, []string{"A", "B", "C"}},
		{"linear downstream from root", linear, "A", model.FlowDownstream, []string{"A", "B", "C"}},
		{"linear upstream from leaf", linear, "C", model.FlowUpstream, []string{"A", "B", "C"}},
		{"diamond upstream", diamond, "app", model.FlowUpstream, []string{"core", "util", "api", "app"}},
		{"diamond downstream", diamond, "core", model.FlowDownstream, []string{"core", "util", "api", "app", "docs"}},
		{"diamond full from util", diamond, "util", model.FlowFull, []string{"core", "util", "app", "docs"}},
		{"diamond single", diamond, "api", model.FlowSingle, []string{"api"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ch := resolve(t, tc.catalog(), tc.trigger, tc.flow)
			if diff := cmp.Diff(tc.want, ch.Names()); diff != "" {
				t.Errorf("chain mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.trigger, ch.Trigger().Name)
			assert.Equal(t, tc.flow, ch.Flow)
		})
	}
}

func TestResolve_ParentsPrecedeChildren(t *testing.T) {
	t.Parallel()

	for _, flow := range model.Flows {
		for _, trigger := range []string{"app", "util", "api", "core", "docs"} {
			ch := resolve(t, diamond(), trigger, flow)
			for pos, n := range ch.Nodes {
				for _, p := range n.Parents {
					assert.Less(t, p, pos, "%s/%s: %s must follow %s", flow, trigger, n.Project.Name, ch.Nodes[p].Project.Name)
				}
			}
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	first := resolve(t, diamond(), "util", model.FlowFull).Names()
	for range 10 {
		assert.Equal(t, first, resolve(t, diamond(), "util", model.FlowFull).Names())
	}
}

func TestResolve_NodeParentsAndMappings(t *testing.T) {
	t.Parallel()

	c := catalog(
		&model.Project{Name: "lib"},
		&model.Project{Name: "app", Parents: []model.DependencyRef{
			{Project: "lib", Mappings: []model.BranchMapping{{Source: "main", Target: "develop"}}},
		}},
	)
	ch := resolve(t, c, "app", model.FlowUpstream)
	require.Equal(t, []string{"lib", "app"}, ch.Names())
	assert.Equal(t, []int{0}, ch.Nodes[1].Parents)
	assert.Equal(t, "develop", ch.Nodes[0].Mappings[0].Target)
	assert.True(t, ch.Nodes[1].Trigger)
	assert.False(t, ch.Nodes[0].Trigger)
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	g, err := dag.Build(ctx, linear(), model.Identity{Name: "B"})
	require.NoError(t, err)

	_, err = Resolve(ctx, g, model.Identity{Name: "B"}, model.Flow("sideways"))
	assert.ErrorContains(t, err, "unknown flow")

	_, err = Resolve(ctx, g, model.Identity{Name: "Z"}, model.FlowFull)
	assert.ErrorContains(t, err, "not part of the graph")
}

func TestResolve_CyclesOnlyInTraversedProjects(t *testing.T) {
	t.Parallel()

	// A -> B -> C -> A, with entry feeding the loop and leaf hanging off entry.
	cyclic := func() *definition.Catalog {
		return catalog(
			&model.Project{Name: "A", Parents: refs("C", "entry")},
			&model.Project{Name: "B", Parents: refs("A")},
			&model.Project{Name: "C", Parents: refs("B")},
			&model.Project{Name: "entry"},
			&model.Project{Name: "leaf", Parents: refs("entry")},
		)
	}

	testCases := []struct {
		trigger string
		flow    model.Flow
		want    []string
	}{
		{"entry", model.FlowUpstream, []string{"entry"}},
		{"leaf", model.FlowUpstream, []string{"entry", "leaf"}},
		{"A", model.FlowSingle, []string{"A"}},
		{"entry", model.FlowDownstream, nil},
		{"B", model.FlowUpstream, nil},
		{"leaf", model.FlowFull, []string{"entry", "leaf"}},
		{"entry", model.FlowFull, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.trigger+"/"+string(tc.flow), func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)
			g, err := dag.Build(ctx, cyclic(), model.Identity{Name: tc.trigger})
			require.NoError(t, err)

			ch, err := Resolve(ctx, g, model.Identity{Name: tc.trigger}, tc.flow)
			if tc.want == nil {
				require.Error(t, err)
				assert.Nil(t, ch)
				assert.ErrorIs(t, err, dag.ErrCycle)
				assert.ErrorIs(t, err, dag.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ch.Names())
		})
	}
}
