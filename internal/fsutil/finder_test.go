// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"b.yaml", "a.hcl", "nested/c.yml", "notes.txt", ".hidden/d.hcl"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	files, err := FindFilesByExtension(root, ".hcl", ".yaml", ".yml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.yaml"),
		filepath.Join(root, "nested", "c.yml"),
	}, files)
}

func TestFindFilesByExtension_SingleFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := filepath.Join(root, "chain.hcl")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	files, err := FindFilesByExtension(p, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{p}, files)

	files, err = FindFilesByExtension(p, ".yaml")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFilesByExtension_Missing(t *testing.T) {
	t.Parallel()

	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	assert.True(t, os.IsNotExist(err))
}
