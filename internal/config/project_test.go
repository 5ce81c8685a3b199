package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectRoot(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ProjectDirName), 0o750))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = FindProjectRoot(t.TempDir())
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestResolveProjectDir(t *testing.T) {
	ctx := context.Background()
	t.Setenv(EnvHome, t.TempDir())

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvProjectDir, "/env/project")
		dir := t.TempDir()
		assert.Equal(t, filepath.Join(dir, ProjectDirName), ResolveProjectDir(ctx, dir, "."))
	})

	t.Run("env when no flag", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvProjectDir, filepath.Join(dir, ProjectDirName))
		assert.Equal(t, filepath.Join(dir, ProjectDirName), ResolveProjectDir(ctx, "", "."))
	})

	t.Run("walk up", func(t *testing.T) {
		t.Setenv(EnvProjectDir, "")
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ProjectDirName), 0o750))
		assert.Equal(t, filepath.Join(root, ProjectDirName), ResolveProjectDir(ctx, "", root))
	})

	t.Run("none", func(t *testing.T) {
		t.Setenv(EnvProjectDir, "")
		assert.Empty(t, ResolveProjectDir(ctx, "", t.TempDir()))
	})
}

func TestNewWithProjectDir(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	projectDir := filepath.Join(t.TempDir(), ProjectDirName)
	require.NoError(t, os.MkdirAll(projectDir, 0o750))

	assert.Equal(t, FormatTable, NewWithProjectDir(context.Background(), projectDir).Output.DefaultFormat,
		"missing overlay keeps global config")

	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
output:
  default_format: ndjson
tariffs:
  flat_discount: 0.15
`), 0o600))

	cfg := NewWithProjectDir(context.Background(), projectDir)
	assert.Equal(t, FormatNDJSON, cfg.Output.DefaultFormat)
	assert.InDelta(t, 0.15, cfg.Tariffs.FlatDiscount, 1e-9)

	t.Setenv(EnvOutputFormat, FormatPDF)
	cfg = NewWithProjectDir(context.Background(), projectDir)
	assert.Equal(t, FormatPDF, cfg.Output.DefaultFormat, "env beats project overlay")
}

func TestEnsureGitignore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ProjectDirName)

	created, err := EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, GitignoreContent(), string(data))

	created, err = EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)
}
