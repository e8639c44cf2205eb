// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlow(t *testing.T) {
	t.Parallel()

	for _, f := range Flows {
		got, err := ParseFlow(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFlow("sideways")
	assert.ErrorContains(t, err, "unknown flow")
}

func TestFlowDirections(t *testing.T) {
	t.Parallel()

	assert.False(t, FlowSingle.IncludesUpstream())
	assert.False(t, FlowSingle.IncludesDownstream())
	assert.True(t, FlowUpstream.IncludesUpstream())
	assert.False(t, FlowUpstream.IncludesDownstream())
	assert.True(t, FlowDownstream.IncludesDownstream())
	assert.True(t, FlowFull.IncludesUpstream())
	assert.True(t, FlowFull.IncludesDownstream())
}

func TestIdentityKey(t *testing.T) {
	t.Parallel()

	a := Identity{Name: "kiegroup/drools", URL: "https://github.com/kiegroup/drools.git"}
	b := Identity{Name: "KieGroup/Drools", URL: "https://github.com/kiegroup/drools"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Identity{Name: "kiegroup/drools"}.Key())
}

func TestProjectMatches(t *testing.T) {
	t.Parallel()

	p := &Project{Name: "kiegroup/drools", URL: "https://github.com/kiegroup/drools"}
	assert.True(t, p.Matches(Identity{Name: "kiegroup/drools"}))
	assert.True(t, p.Matches(Identity{Name: "kiegroup/drools", URL: "https://github.com/kiegroup/drools.git"}))
	assert.False(t, p.Matches(Identity{Name: "kiegroup/drools", URL: "https://example.com/fork/drools"}))
	assert.False(t, p.Matches(Identity{Name: "kiegroup/jbpm"}))
}

func TestBranchMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mapping BranchMapping
		branch  string
		flow    Flow
		applies bool
	}{
		{name: "any source any flow", mapping: BranchMapping{Target: "dev"}, branch: "main", flow: FlowFull, applies: true},
		{name: "source matches", mapping: BranchMapping{Source: "main", Target: "dev"}, branch: "main", flow: FlowFull, applies: true},
		{name: "source differs", mapping: BranchMapping{Source: "7.x", Target: "dev"}, branch: "main", flow: FlowFull, applies: false},
		{name: "flow listed", mapping: BranchMapping{Target: "dev", Flows: []Flow{FlowUpstream}}, branch: "main", flow: FlowUpstream, applies: true},
		{name: "flow not listed", mapping: BranchMapping{Target: "dev", Flows: []Flow{FlowUpstream}}, branch: "main", flow: FlowDownstream, applies: false},
		{name: "empty target never applies", mapping: BranchMapping{}, branch: "main", flow: FlowFull, applies: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.applies, tc.mapping.Applies(tc.branch, tc.flow))
		})
	}
}

func TestMatchBranch_FirstWins(t *testing.T) {
	t.Parallel()

	ref := DependencyRef{Project: "a", Mappings: []BranchMapping{
		{Source: "7.x", Target: "7.x-dev"},
		{Target: "development"},
		{Target: "never"},
	}}

	got, ok := ref.MatchBranch("main", FlowFull)
	require.True(t, ok)
	assert.Equal(t, "development", got)

	got, ok = ref.MatchBranch("7.x", FlowFull)
	require.True(t, ok)
	assert.Equal(t, "7.x-dev", got)

	_, ok = DependencyRef{Project: "b"}.MatchBranch("main", FlowFull)
	assert.False(t, ok)
}

func TestTriggerBranch(t *testing.T) {
	t.Parallel()

	push := Trigger{Event: EventPush, Ref: "feature/x"}
	assert.Equal(t, "feature/x", push.Branch("main"))

	pr := Trigger{Event: EventPullRequest, Ref: "42", BaseBranch: "7.x"}
	assert.Equal(t, "7.x", pr.Branch("main"))

	prNoBase := Trigger{Event: EventPullRequest, Ref: "42"}
	assert.Equal(t, "main", prNoBase.Branch("main"))
}
