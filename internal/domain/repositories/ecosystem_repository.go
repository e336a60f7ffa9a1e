package repositories

import (
	"context"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// EcosystemRepository abstracts a package ecosystem (bundler, npm, go modules, etc.).
// It owns parsing, update checks and file rewriting; the grouping engine only
// consumes its results.
type EcosystemRepository interface {
	// Name returns the ecosystem identifier (e.g. "npm_and_yarn", "terraform").
	Name() string

	// FetchFiles returns the dependency files of the repository the ecosystem
	// was opened on.
	FetchFiles(ctx context.Context) ([]*entities.DependencyFile, error)

	// Parse returns the dependencies declared by the files of one directory.
	Parse(ctx context.Context, files []*entities.DependencyFile, directory string) ([]*entities.Dependency, error)

	// CheckForUpdate looks for a newer version of the dependency. It returns
	// entities.ErrAllVersionsIgnored when the job's ignore conditions rule out every
	// candidate version.
	CheckForUpdate(
		ctx context.Context,
		dependency *entities.Dependency,
		files []*entities.DependencyFile,
		job *entities.Job,
	) (*entities.UpdateCheck, error)

	// UpdateFiles rewrites the files for the given updated dependencies and returns
	// only the files that changed.
	UpdateFiles(
		ctx context.Context,
		dependencies []*entities.Dependency,
		files []*entities.DependencyFile,
		job *entities.Job,
	) ([]*entities.DependencyFile, error)
}
