//go:build unit

package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autogroup/internal/domain/commands"
	"github.com/rios0rios0/autogroup/internal/domain/entities"
	infraRepos "github.com/rios0rios0/autogroup/internal/infrastructure/repositories"
	replayRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/replay"
	semverRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/semver"
	doubles "github.com/rios0rios0/autogroup/test/infrastructure/repositorydoubles"
)

func updated(name, previous, version string) *entities.Dependency {
	return &entities.Dependency{Name: name, PreviousVersion: previous, Version: version}
}

func dockerChangeSet() *replayRepo.ChangeSet {
	return &replayRepo.ChangeSet{
		Changes: []replayRepo.RecordedChange{
			{
				Directory: "/api",
				UpdatedDependencies: []*entities.Dependency{
					updated("docker-compose", "1.0.0", "1.1.0"),
					updated("rails", "7.0.0", "7.1.0"),
				},
			},
			{
				Directory:           "/web",
				UpdatedDependencies: []*entities.Dependency{updated("docker-compose", "1.0.0", "1.1.0")},
			},
		},
	}
}

func dockerSettings() *entities.Settings {
	return &entities.Settings{
		Ecosystem: "docker",
		Features:  entities.FeatureFlags{EnforceGroupMembership: true},
		Groups: []entities.GroupSettings{
			{Name: "all", Patterns: []string{"*"}},
			{Name: "docker", Patterns: []string{"docker*"}},
			{Name: "empty", Patterns: []string{"kafka*"}},
		},
	}
}

func TestSelectCommand_Run(t *testing.T) {
	t.Parallel()

	t.Run("should split the change set between groups", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewSelectCommand(
			infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), &doubles.SpyMetricsRepository{},
		)

		// when
		results, err := command.Run(context.Background(), dockerSettings(), dockerChangeSet(), "")

		// then
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "all", results[0].Group)
		assert.Equal(t, []string{"/api:rails"}, names(results[0].Change.UpdatedDependencies))
		assert.Equal(t, []string{"/api:docker-compose", "/web:docker-compose"}, names(results[0].Filtered))

		assert.Equal(t, "docker", results[1].Group)
		assert.Equal(t,
			[]string{"/api:docker-compose", "/web:docker-compose"},
			names(results[1].Change.UpdatedDependencies),
		)
		assert.Equal(t, []string{"/api:rails"}, names(results[1].Filtered))

		deferred, ok := results[0].Attributions.GetAttribution(results[0].Filtered[0])
		require.True(t, ok)
		assert.Equal(t, entities.SelectionReasonBelongsToMoreSpecificGroup, deferred.SelectionReason)
		assert.Equal(t, "all", deferred.SourceGroup)
		outside, ok := results[1].Attributions.GetAttribution(results[1].Filtered[0])
		require.True(t, ok)
		assert.Equal(t, entities.SelectionReasonNotInGroup, outside.SelectionReason)

		assert.Equal(t, "empty", results[2].Group)
		assert.Empty(t, results[2].Change.UpdatedDependencies)
	})

	t.Run("should give every group its own copy of the changes", func(t *testing.T) {
		t.Parallel()

		// given
		changeSet := dockerChangeSet()
		command := commands.NewSelectCommand(infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), nil)

		// when
		_, err := command.Run(context.Background(), dockerSettings(), changeSet, "")

		// then
		require.NoError(t, err)
		assert.Len(t, changeSet.Changes[0].UpdatedDependencies, 2)
		assert.Empty(t, changeSet.Changes[0].UpdatedDependencies[0].Directory)
	})

	t.Run("should only process the requested group", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewSelectCommand(infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), nil)

		// when
		results, err := command.Run(context.Background(), dockerSettings(), dockerChangeSet(), "docker")

		// then
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "docker", results[0].Group)
	})

	t.Run("should keep everything when enforcement is disabled", func(t *testing.T) {
		t.Parallel()

		// given
		settings := dockerSettings()
		settings.Features.EnforceGroupMembership = false
		command := commands.NewSelectCommand(infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), nil)

		// when
		results, err := command.Run(context.Background(), settings, dockerChangeSet(), "all")

		// then
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Len(t, results[0].Change.UpdatedDependencies, 3)
		assert.Empty(t, results[0].Filtered)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		command := commands.NewSelectCommand(infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), nil)

		// when
		results, err := command.Run(ctx, dockerSettings(), dockerChangeSet(), "")

		// then
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, results)
	})
}

func TestSelectCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should require a change set", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewSelectCommand(infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), nil)

		// when
		results, err := command.Execute(context.Background(), dockerSettings(), commands.SelectOptions{})

		// then
		require.ErrorIs(t, err, commands.ErrNoChangeSet)
		assert.Nil(t, results)
	})

	t.Run("should load the change set from disk", func(t *testing.T) {
		t.Parallel()

		// given
		location := filepath.Join(t.TempDir(), "changes.yaml")
		content := `changes:
  - directory: /api
    updated_dependencies:
      - name: docker-compose
        previous_version: 1.0.0
        version: 1.1.0
`
		require.NoError(t, os.WriteFile(location, []byte(content), 0o600))
		command := commands.NewSelectCommand(infraRepos.NewLockfileRegistry(), semverRepo.NewVersionRepository(), nil)

		// when
		results, err := command.Execute(context.Background(), dockerSettings(), commands.SelectOptions{
			ChangesPath: location,
			Group:       "docker",
		})

		// then
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, []string{"/api:docker-compose"}, names(results[0].Change.UpdatedDependencies))
	})
}
