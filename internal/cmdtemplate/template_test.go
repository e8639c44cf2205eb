// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cmdtemplate

import (
	"testing"

	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/specialistvlad/buildchain/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	vars := Vars{
		Project: &model.Project{Name: "kie/drools", URL: "https://github.com/kie/drools"},
		Branch:  "develop",
		Dir:     "/work/drools",
		Trigger: model.Trigger{Project: "kie/app", Event: model.EventPullRequest, Ref: "42", Owner: "kie", Repo: "app"},
		Ref:     "@1a2b3c4",
		Marker:  "@",
	}

	testCases := []struct {
		name    string
		tmpl    string
		vars    Vars
		want    string
		wantErr string
	}{
		{name: "plain", tmpl: "mvn clean install", vars: vars, want: "mvn clean install"},
		{name: "plain with shell dollar", tmpl: "echo $HOME", vars: vars, want: "echo $HOME"},
		{name: "git sha", tmpl: "mvn install -Dsha=${git.sha}", vars: vars, want: "mvn install -Dsha=1a2b3c4"},
		{name: "git ref keeps marker", tmpl: "echo ${git.ref} ${git.branch}", vars: vars, want: "echo @1a2b3c4 develop"},
		{name: "project and trigger", tmpl: "build ${project.name}@${project.branch} for ${trigger.event} #${trigger.ref}", vars: vars,
			want: "build kie/drools@develop for pull_request #42"},
		{name: "directive", tmpl: `%{ if trigger.event == "push" }deploy%{ else }verify%{ endif }`, vars: vars, want: "verify"},
		{name: "unresolved git", tmpl: "mvn -Dsha=${git.sha}", vars: Vars{Project: vars.Project}, wantErr: "failed to evaluate"},
		{name: "shell variable", tmpl: "echo ${HOME}", vars: vars, wantErr: "failed to evaluate"},
		{name: "syntax error", tmpl: "echo ${", vars: vars, wantErr: "failed to parse"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)

			got, err := Render(ctx, tc.tmpl, tc.vars)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsTemplate(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTemplate("a ${b}"))
	assert.True(t, IsTemplate("%{ if true }x%{ endif }"))
	assert.False(t, IsTemplate("mvn $FLAGS install"))
}
