//go:build unit

package grouping_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/grouping"
	builders "github.com/rios0rios0/autogroup/test/domain/entitybuilders"
)

func jobIn(directory string) *entities.Job {
	return &entities.Job{Source: entities.Source{Directory: directory}}
}

func paths(files []*entities.DependencyFile) []string {
	result := make([]string, 0, len(files))
	for _, file := range files {
		result = append(result, file.Path())
	}
	return result
}

// workspace returns a shared manifest at /W with two member projects pointing back at it.
func workspace() []*entities.DependencyFile {
	return []*entities.DependencyFile{
		builders.NewDependencyFileBuilder().
			WithName("Manifest.toml").
			WithDirectory("/W").
			WithAssociatedManifestPaths("/W/A/Project.toml", "/W/B/Project.toml").
			BuildFile(),
		builders.NewDependencyFileBuilder().
			WithName("Project.toml").
			WithDirectory("/W/A").
			WithAssociatedLockfilePath("../Manifest.toml").
			BuildFile(),
		builders.NewDependencyFileBuilder().
			WithName("Project.toml").
			WithDirectory("/W/B").
			WithAssociatedLockfilePath("/W/Manifest.toml").
			BuildFile(),
		builders.NewDependencyFileBuilder().
			WithName("go.mod").
			WithDirectory("/tools").
			BuildFile(),
	}
}

func TestDependencyGroupChangeBatch_CurrentDependencyFiles(t *testing.T) {
	t.Parallel()

	t.Run("should expand a workspace member to the shared lockfile and its siblings", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(workspace())

		// when
		fromA := batch.CurrentDependencyFiles(jobIn("/W/A"))
		fromB := batch.CurrentDependencyFiles(jobIn("/W/B"))

		// then
		expected := []string{"/W/Manifest.toml", "/W/A/Project.toml", "/W/B/Project.toml"}
		assert.Equal(t, expected, paths(fromA))
		assert.Equal(t, expected, paths(fromB))
	})

	t.Run("should return only the directory files when nothing is linked", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(workspace())

		// when
		files := batch.CurrentDependencyFiles(jobIn("tools"))

		// then
		assert.Equal(t, []string{"/tools/go.mod"}, paths(files))
	})

	t.Run("should stop on cyclic links", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch([]*entities.DependencyFile{
			builders.NewDependencyFileBuilder().WithName("a.lock").WithDirectory("/x").
				WithAssociatedManifestPaths("/y/b.lock").BuildFile(),
			builders.NewDependencyFileBuilder().WithName("b.lock").WithDirectory("/y").
				WithAssociatedManifestPaths("/x/a.lock").BuildFile(),
		})

		// when
		files := batch.CurrentDependencyFiles(jobIn("/x"))

		// then
		assert.Equal(t, []string{"/x/a.lock", "/y/b.lock"}, paths(files))
	})

	t.Run("should serve the updated version of a file", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(workspace())
		updated := builders.NewDependencyFileBuilder().
			WithName("Manifest.toml").
			WithDirectory("/W").
			WithContent("updated").
			WithAssociatedManifestPaths("/W/A/Project.toml", "/W/B/Project.toml").
			BuildFile()

		// when
		batch.MergeChange(entities.NewDependencyChange(jobIn("/W/A"), nil, []*entities.DependencyFile{updated}))
		files := batch.CurrentDependencyFiles(jobIn("/W/B"))

		// then
		require.Len(t, files, 3)
		assert.Equal(t, "updated", files[0].Content)
	})
}

func TestDependencyGroupChangeBatch_AddUpdatedDependency(t *testing.T) {
	t.Parallel()

	t.Run("should replace a dependency updated twice in the same directory", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(nil)
		batch.AddUpdatedDependency(builders.NewDependencyBuilder().
			WithName("rack").WithPreviousVersion("2.0.0").WithVersion("2.1.0").BuildDependency())

		// when
		batch.AddUpdatedDependency(builders.NewDependencyBuilder().
			WithName("rack").WithPreviousVersion("2.1.0").WithVersion("2.2.0").BuildDependency())

		// then
		dependencies := batch.UpdatedDependencies()
		require.Len(t, dependencies, 1)
		assert.Equal(t, "2.0.0", dependencies[0].PreviousVersion)
		assert.Equal(t, "2.2.0", dependencies[0].Version)
	})

	t.Run("should keep the same dependency from two directories", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(nil)

		// when
		batch.AddUpdatedDependency(builders.NewDependencyBuilder().WithName("rack").WithDirectory("/a").BuildDependency())
		batch.AddUpdatedDependency(builders.NewDependencyBuilder().WithName("rack").WithDirectory("/b").BuildDependency())

		// then
		assert.Len(t, batch.UpdatedDependencies(), 2)
	})

	t.Run("should accept concurrent writers", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(nil)
		directories := []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g", "/h"}

		// when
		var wg sync.WaitGroup
		for _, directory := range directories {
			wg.Add(1)
			go func() {
				defer wg.Done()
				batch.AddUpdatedDependency(
					builders.NewDependencyBuilder().WithName("rack").WithDirectory(directory).BuildDependency(),
				)
			}()
		}
		wg.Wait()

		// then
		assert.Len(t, batch.UpdatedDependencies(), len(directories))
	})
}

func TestDependencyGroupChangeBatch_Merge(t *testing.T) {
	t.Parallel()

	t.Run("should concatenate dependencies and deduplicate files", func(t *testing.T) {
		t.Parallel()

		// given
		original := builders.NewDependencyFileBuilder().WithName("Gemfile.lock").WithContent("old").BuildFile()
		updated := builders.NewDependencyFileBuilder().WithName("Gemfile.lock").WithContent("new").BuildFile()

		left := grouping.NewDependencyGroupChangeBatch([]*entities.DependencyFile{original})
		left.MergeChange(entities.NewDependencyChange(jobIn("/"),
			[]*entities.Dependency{builders.NewDependencyBuilder().WithName("rails").BuildDependency()},
			[]*entities.DependencyFile{updated},
		))

		right := grouping.NewDependencyGroupChangeBatch([]*entities.DependencyFile{original})
		right.AddUpdatedDependency(builders.NewDependencyBuilder().WithName("rails").BuildDependency())

		// when
		left.Merge(right)

		// then
		assert.Len(t, left.UpdatedDependencies(), 2)
		files := left.DependencyFiles()
		require.Len(t, files, 1)
		assert.Equal(t, "new", files[0].Content)
		assert.Len(t, left.UpdatedDependencyFiles(), 1)
	})

	t.Run("should never drop a file from the batch", func(t *testing.T) {
		t.Parallel()

		// given
		batch := grouping.NewDependencyGroupChangeBatch(workspace())
		other := grouping.NewDependencyGroupChangeBatch([]*entities.DependencyFile{
			builders.NewDependencyFileBuilder().WithName("package.json").WithDirectory("/web").BuildFile(),
		})

		// when
		batch.Merge(other)
		batch.Merge(nil)
		batch.Merge(batch)

		// then
		assert.Len(t, batch.DependencyFiles(), len(workspace())+1)
		assert.Empty(t, batch.UpdatedDependencyFiles())
	})
}
