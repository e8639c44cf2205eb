// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/buildchain/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const listHCL = `
version = "2.0"

project "acme/core" {}

project "acme/util" {
  depends_on "acme/core" {}
}

project "acme/app" {
  depends_on "acme/util" {}
}

project "acme/tool" {}
`

func runList(t *testing.T, format string, skipGroup bool) string {
	t.Helper()
	root := testutil.WriteFiles(t, map[string]string{"defs/all.hcl": listHCL})

	a, out, _ := newTestApp(t, Config{
		Command:     CommandList,
		Definitions: []string{filepath.Join(root, "defs")},
		ListFormat:  format,
		SkipGroup:   skipGroup,
	})
	require.NoError(t, a.Run(context.Background()))
	return out.String()
}

func TestList_Formats(t *testing.T) {
	t.Parallel()

	want := []listGroup{
		{Precedence: 0, Projects: []string{"acme/core", "acme/tool"}},
		{Precedence: 1, Projects: []string{"acme/util"}},
		{Precedence: 2, Projects: []string{"acme/app"}},
	}

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "0\tacme/core\n0\tacme/tool\n1\tacme/util\n2\tacme/app\n", runList(t, FormatText, false))
	})

	t.Run("text skip group", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "acme/core\nacme/tool\nacme/util\nacme/app\n", runList(t, FormatText, true))
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var got []listGroup
		require.NoError(t, json.Unmarshal([]byte(runList(t, FormatJSON, false)), &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("listing mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("yaml skip group", func(t *testing.T) {
		t.Parallel()
		var got []listGroup
		require.NoError(t, yaml.Unmarshal([]byte(runList(t, FormatYAML, true)), &got))
		flat := []listGroup{{Precedence: 0, Projects: []string{"acme/core", "acme/tool", "acme/util", "acme/app"}}}
		if diff := cmp.Diff(flat, got); diff != "" {
			t.Errorf("listing mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("hcl", func(t *testing.T) {
		t.Parallel()
		out := runList(t, FormatHCL, false)
		assert.Contains(t, out, `group "0" {`)
		assert.Contains(t, out, `"acme/core", "acme/tool"`)
		assert.Contains(t, out, `group "2" {`)
	})
}

func TestList_Empty(t *testing.T) {
	t.Parallel()
	root := testutil.WriteFiles(t, map[string]string{"defs/empty.yaml": "version: \"2.0\"\nprojects: []\n"})

	a, out, _ := newTestApp(t, Config{Command: CommandList, Definitions: []string{filepath.Join(root, "defs")}})
	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())
}
