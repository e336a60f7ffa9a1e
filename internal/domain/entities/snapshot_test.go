//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	builders "github.com/rios0rios0/autogroup/test/domain/entitybuilders"
)

func TestDependencySnapshot(t *testing.T) {
	t.Parallel()

	t.Run("should list group members of a directory", func(t *testing.T) {
		t.Parallel()

		// given
		group := builders.NewDependencyGroupBuilder().WithName("aws").WithPatterns("aws-*").BuildGroup()
		snapshot := entities.NewDependencySnapshot("npm_and_yarn", []*entities.DependencyGroup{group}, nil, []*entities.Dependency{
			builders.NewDependencyBuilder().WithName("aws-sdk").WithDirectory("/api").BuildDependency(),
			builders.NewDependencyBuilder().WithName("aws-cdk").WithDirectory("/infra").BuildDependency(),
			builders.NewDependencyBuilder().WithName("express").WithDirectory("api").BuildDependency(),
		})

		// when
		members := snapshot.GroupMembers(snapshot.Group("aws"), "/api")

		// then
		require.Len(t, members, 1)
		assert.Equal(t, "aws-sdk", members[0].Name)
		assert.Len(t, snapshot.DependenciesIn("/api"), 2)
		assert.Nil(t, snapshot.Group("missing"))
	})

	t.Run("should track handled dependencies case insensitively", func(t *testing.T) {
		t.Parallel()

		// given
		snapshot := entities.NewDependencySnapshot("bundler", nil, nil, nil)
		rails := builders.NewDependencyBuilder().WithName("Rails").WithDirectory("/api").BuildDependency()
		rack := builders.NewDependencyBuilder().WithName("rack").WithDirectory("/api").BuildDependency()

		// when
		snapshot.AddHandledDependencies(rails, rack)

		// then
		assert.True(t, snapshot.Handled("rails", "/api"))
		assert.True(t, snapshot.Handled("RACK", "api/"))
		assert.False(t, snapshot.Handled("puma", "/api"))
		assert.Equal(t, []string{"/api:rack", "/api:rails"}, snapshot.HandledDependencies())
	})

	t.Run("should track handled dependencies per directory", func(t *testing.T) {
		t.Parallel()

		// given
		snapshot := entities.NewDependencySnapshot("bundler", nil, nil, nil)
		rails := builders.NewDependencyBuilder().WithName("rails").WithDirectory("/api").BuildDependency()

		// when
		snapshot.AddHandledDependencies(rails)

		// then
		assert.True(t, snapshot.Handled("rails", "/api"))
		assert.False(t, snapshot.Handled("rails", "/web"))
	})

	t.Run("should find original files by directory and name", func(t *testing.T) {
		t.Parallel()

		// given
		lockfile := builders.NewDependencyFileBuilder().WithName("Gemfile.lock").WithDirectory("/api").BuildFile()
		snapshot := entities.NewDependencySnapshot("bundler", nil, []*entities.DependencyFile{lockfile}, nil)

		// when
		found := snapshot.OriginalFile(entities.FileKey{Directory: "/api", Name: "Gemfile.lock"})
		missing := snapshot.OriginalFile(entities.FileKey{Directory: "/", Name: "Gemfile.lock"})

		// then
		assert.Same(t, lockfile, found)
		assert.Nil(t, missing)
	})
}

func TestAttributionStore(t *testing.T) {
	t.Parallel()

	t.Run("should key attributions by directory so same named updates stay apart", func(t *testing.T) {
		t.Parallel()

		// given
		store := entities.NewAttributionStore()
		api := builders.NewDependencyBuilder().WithName("rails").WithDirectory("/api").BuildDependency()
		web := builders.NewDependencyBuilder().WithName("rails").WithDirectory("/web").BuildDependency()

		// when
		store.AnnotateDependency(api, entities.Attribution{SelectionReason: entities.SelectionReasonDirect})
		store.AnnotateDependency(web, entities.Attribution{SelectionReason: entities.SelectionReasonNotInGroup})

		// then
		apiAttribution, ok := store.GetAttribution(api)
		require.True(t, ok)
		assert.Equal(t, entities.SelectionReasonDirect, apiAttribution.SelectionReason)
		webAttribution, ok := store.GetAttribution(web)
		require.True(t, ok)
		assert.Equal(t, entities.SelectionReasonNotInGroup, webAttribution.SelectionReason)
		assert.Equal(t, 2, store.Len())
	})
}
