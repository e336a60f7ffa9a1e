//go:build unit

package replay_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	replayRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/replay"
)

const recordingYAML = `ecosystem: bundler
files:
  - name: Gemfile
    content: "gem 'rails'"
  - name: Gemfile.lock
    content: "rails (7.0.0)"
dependencies:
  - name: rails
    version: 7.0.0
    requirements:
      - file: Gemfile
        requirement: "~> 7.0"
  - name: rack
    version: 2.2.0
  - name: puma
    version: 6.0.0
    directory: /api
    requirements:
      - file: Gemfile
updates:
  - name: rails
    latest_version: 7.1.0
    updated_dependencies:
      - name: rails
        version: 7.1.0
      - name: actionpack
        version: 7.1.0
        previous_version: 7.0.0
    updated_files:
      - name: Gemfile.lock
        content: "rails (7.1.0)"
  - name: actionpack
    updated_files:
      - name: Gemfile.lock
        content: "rails (7.1.0)"
  - name: rack
    all_versions_ignored: true
  - name: puma
    directory: /api
    error: registry unavailable
`

func writeRecording(t *testing.T) string {
	t.Helper()
	location := filepath.Join(t.TempDir(), "recording.yaml")
	require.NoError(t, os.WriteFile(location, []byte(recordingYAML), 0o600))
	return location
}

func TestNewEcosystemRepository(t *testing.T) {
	t.Parallel()

	t.Run("should load a recording from disk", func(t *testing.T) {
		t.Parallel()

		// given
		location := writeRecording(t)

		// when
		ecosystem, err := replayRepo.NewEcosystemRepository(location)

		// then
		require.NoError(t, err)
		assert.Equal(t, "bundler", ecosystem.Name())
		files, err := ecosystem.FetchFiles(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "/Gemfile", files[0].Path())
		assert.Equal(t, "/Gemfile.lock", files[1].Path())
	})

	t.Run("should return error when the file is missing", func(t *testing.T) {
		t.Parallel()

		// given
		location := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := replayRepo.NewEcosystemRepository(location)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read replay file")
	})

	t.Run("should return error for malformed YAML", func(t *testing.T) {
		t.Parallel()

		// given
		location := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(location, []byte("updates: [unclosed"), 0o600))

		// when
		_, err := replayRepo.NewEcosystemRepository(location)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse replay file")
	})

	t.Run("should default the name when no ecosystem is recorded", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := replayRepo.NewEcosystemRepositoryFromRecording(&replayRepo.Recording{})

		// when
		name := ecosystem.Name()

		// then
		assert.Equal(t, "replay", name)
	})
}

func TestEcosystemRepository_Parse(t *testing.T) {
	t.Parallel()

	t.Run("should return dependencies of the directory declared by the files", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		gemfile := &entities.DependencyFile{Name: "Gemfile", Directory: "/"}

		// when
		dependencies, err := ecosystem.Parse(context.Background(), []*entities.DependencyFile{gemfile}, ".")

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 2)
		assert.Equal(t, "rails", dependencies[0].Name)
		assert.Equal(t, "/", dependencies[0].Directory)
		assert.Equal(t, "rack", dependencies[1].Name)
	})

	t.Run("should skip dependencies not declared by the given files", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		lockfile := &entities.DependencyFile{Name: "Gemfile.lock", Directory: "/"}

		// when
		dependencies, err := ecosystem.Parse(context.Background(), []*entities.DependencyFile{lockfile}, "/")

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 1)
		assert.Equal(t, "rack", dependencies[0].Name)
	})
}

func TestEcosystemRepository_CheckForUpdate(t *testing.T) {
	t.Parallel()

	t.Run("should report dependencies without a record as up to date", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		dependency := &entities.Dependency{Name: "nokogiri", Version: "1.15.0", Directory: "/"}

		// when
		check, err := ecosystem.CheckForUpdate(context.Background(), dependency, nil, &entities.Job{})

		// then
		require.NoError(t, err)
		assert.True(t, check.UpToDate)
		assert.Equal(t, "1.15.0", check.LatestVersion)
		assert.False(t, check.CanUpdate())
	})

	t.Run("should fill the previous version of the checked dependency", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		dependency := &entities.Dependency{Name: "Rails", Version: "7.0.0", Directory: "/"}

		// when
		check, err := ecosystem.CheckForUpdate(context.Background(), dependency, nil, &entities.Job{})

		// then
		require.NoError(t, err)
		assert.True(t, check.CanUpdate())
		assert.Equal(t, "7.1.0", check.LatestVersion)
		require.Len(t, check.UpdatedDependencies, 2)
		assert.Equal(t, "7.0.0", check.UpdatedDependencies[0].PreviousVersion)
		assert.Equal(t, "/", check.UpdatedDependencies[0].Directory)
		assert.Equal(t, "7.0.0", check.UpdatedDependencies[1].PreviousVersion)
	})

	t.Run("should return the ignored sentinel when every version is ignored", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		dependency := &entities.Dependency{Name: "rack", Version: "2.2.0", Directory: "/"}

		// when
		check, err := ecosystem.CheckForUpdate(context.Background(), dependency, nil, &entities.Job{})

		// then
		require.ErrorIs(t, err, entities.ErrAllVersionsIgnored)
		assert.Nil(t, check)
	})

	t.Run("should replay recorded errors only in the recorded directory", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		inAPI := &entities.Dependency{Name: "puma", Version: "6.0.0", Directory: "/api"}
		inRoot := &entities.Dependency{Name: "puma", Version: "6.0.0", Directory: "/"}

		// when
		_, apiErr := ecosystem.CheckForUpdate(context.Background(), inAPI, nil, &entities.Job{})
		rootCheck, rootErr := ecosystem.CheckForUpdate(context.Background(), inRoot, nil, &entities.Job{})

		// then
		require.EqualError(t, apiErr, "puma: registry unavailable")
		require.NoError(t, rootErr)
		assert.True(t, rootCheck.UpToDate)
	})
}

func TestEcosystemRepository_UpdateFiles(t *testing.T) {
	t.Parallel()

	t.Run("should deduplicate files recorded for several dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem, err := replayRepo.NewEcosystemRepository(writeRecording(t))
		require.NoError(t, err)
		dependencies := []*entities.Dependency{
			{Name: "rails", Version: "7.1.0", Directory: "/"},
			{Name: "actionpack", Version: "7.1.0", Directory: "/"},
			{Name: "unrecorded", Version: "1.0.0", Directory: "/"},
		}

		// when
		files, err := ecosystem.UpdateFiles(context.Background(), dependencies, nil, &entities.Job{})

		// then
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "/Gemfile.lock", files[0].Path())
		assert.Equal(t, "rails (7.1.0)", files[0].Content)
	})
}
