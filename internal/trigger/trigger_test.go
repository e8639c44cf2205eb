// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trigger

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raw     string
		want    model.Trigger
		wantErr string
	}{
		{
			name: "pull request",
			raw:  "https://github.com/kiegroup/drools/pull/1234",
			want: model.Trigger{Project: "kiegroup/drools", Event: model.EventPullRequest, Ref: "1234", Owner: "kiegroup", Repo: "drools"},
		},
		{
			name: "branch with slashes",
			raw:  "https://git.example.com/acme/app/tree/release/1.x",
			want: model.Trigger{Project: "acme/app", Event: model.EventPush, Ref: "release/1.x", Owner: "acme", Repo: "app"},
		},
		{
			name: "escaped branch and trailing slash",
			raw:  "https://github.com/acme/app/tree/feat%2Bx/",
			want: model.Trigger{Project: "acme/app", Event: model.EventPush, Ref: "feat+x", Owner: "acme", Repo: "app"},
		},
		{name: "not a url", raw: "::", wantErr: "invalid trigger"},
		{name: "ssh", raw: "git@github.com:acme/app.git", wantErr: "invalid trigger"},
		{name: "no ref", raw: "https://github.com/acme/app", wantErr: "expected /<owner>/<repo>"},
		{name: "bad kind", raw: "https://github.com/acme/app/issues/3", wantErr: "unsupported path segment"},
		{name: "bad pr number", raw: "https://github.com/acme/app/pull/abc", wantErr: "not a positive integer"},
		{name: "pr extra path", raw: "https://github.com/acme/app/pull/3/files", wantErr: "unexpected path"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseURL(tc.raw)
			if tc.wantErr != "" {
				require.Error(t, err)
				var ce *ClientError
				assert.True(t, errors.As(err, &ce))
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("trigger mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Parallel()

	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	got, err := FromEnv(env(map[string]string{
		"GITHUB_REPOSITORY": "acme/app",
		"GITHUB_EVENT_NAME": "pull_request",
		"GITHUB_HEAD_REF":   "feature/x",
		"GITHUB_BASE_REF":   "main",
	}))
	require.NoError(t, err)
	assert.Equal(t, model.Trigger{Project: "acme/app", Event: model.EventPullRequest, Ref: "feature/x", Owner: "acme", Repo: "app", BaseBranch: "main"}, got)
	assert.Equal(t, "main", got.Branch("develop"))

	got, err = FromEnv(env(map[string]string{
		"GITHUB_REPOSITORY": "acme/app",
		"GITHUB_EVENT_NAME": "push",
		"GITHUB_REF_NAME":   "release/2",
	}))
	require.NoError(t, err)
	assert.Equal(t, model.EventPush, got.Event)
	assert.Equal(t, "release/2", got.Branch("main"))

	for _, bad := range []map[string]string{
		{"GITHUB_EVENT_NAME": "push", "GITHUB_REF_NAME": "main"},
		{"GITHUB_REPOSITORY": "acme/app", "GITHUB_EVENT_NAME": "schedule"},
		{"GITHUB_REPOSITORY": "acme/app", "GITHUB_EVENT_NAME": "push"},
	} {
		_, err := FromEnv(env(bad))
		var ce *ClientError
		assert.True(t, errors.As(err, &ce), "%v", bad)
	}
}
