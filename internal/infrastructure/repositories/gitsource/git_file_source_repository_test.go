//go:build unit

package gitsource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/gitsource"
)

func commitFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	for name, content := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte(content), 0o600))
	}

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, worktree.AddWithOptions(&git.AddOptions{All: true}))
	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestFileSourceRepository_DependencyFiles(t *testing.T) {
	t.Parallel()

	t.Run("should collect dependency files from HEAD", func(t *testing.T) {
		t.Parallel()

		// given
		dir := commitFiles(t, map[string]string{
			"go.mod":                "module example.com/app\n",
			"main.go":               "package main\n",
			"infra/main.tf":         "module \"vpc\" {}\n",
			"web/package.json":      "{}\n",
			"web/src/index.js":      "\n",
			"docs/README.md":        "docs\n",
			"jl/A/Project.toml":     "name = \"A\"\n",
			"jl/JuliaManifest.toml": "\n",
		})
		repo := gitRepo.NewFileSourceRepository()

		// when
		files, err := repo.DependencyFiles(context.Background(), dir)

		// then
		require.NoError(t, err)
		paths := make([]string, 0, len(files))
		for _, file := range files {
			paths = append(paths, file.Path())
		}
		assert.ElementsMatch(t, []string{
			"/go.mod",
			"/infra/main.tf",
			"/web/package.json",
			"/jl/A/Project.toml",
			"/jl/JuliaManifest.toml",
		}, paths)
	})

	t.Run("should ignore uncommitted changes", func(t *testing.T) {
		t.Parallel()

		// given
		dir := commitFiles(t, map[string]string{"go.mod": "module committed\n"})
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module dirty\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "poetry.lock"), []byte("\n"), 0o600))
		repo := gitRepo.NewFileSourceRepository()

		// when
		files, err := repo.DependencyFiles(context.Background(), dir)

		// then
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "module committed\n", files[0].Content)
	})

	t.Run("should return error outside a repository", func(t *testing.T) {
		t.Parallel()

		// given
		repo := gitRepo.NewFileSourceRepository()

		// when
		files, err := repo.DependencyFiles(context.Background(), t.TempDir())

		// then
		require.Error(t, err)
		assert.Nil(t, files)
	})
}
