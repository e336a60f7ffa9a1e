package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
	"github.com/rios0rios0/autogroup/internal/grouping"
	infraRepos "github.com/rios0rios0/autogroup/internal/infrastructure/repositories"
)

// Files is the interface for the files command.
type Files interface {
	Execute(ctx context.Context, opts FilesOptions) ([]*entities.DependencyFile, error)
}

// FilesOptions holds runtime options for the files mode.
type FilesOptions struct {
	Location  string
	Directory string
}

// FilesCommand lists the dependency files an update in one directory would
// read, following workspace links between manifests and shared lockfiles.
type FilesCommand struct {
	source    repositories.FileSourceRepository
	lockfiles *infraRepos.LockfileRegistry
}

// NewFilesCommand creates a new FilesCommand.
func NewFilesCommand(
	source repositories.FileSourceRepository,
	lockfiles *infraRepos.LockfileRegistry,
) *FilesCommand {
	return &FilesCommand{
		source:    source,
		lockfiles: lockfiles,
	}
}

// Execute reads the repository at HEAD and resolves the files for the directory.
func (it *FilesCommand) Execute(ctx context.Context, opts FilesOptions) ([]*entities.DependencyFile, error) {
	location := opts.Location
	if location == "" {
		location = "."
	}

	files, err := it.source.DependencyFiles(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency files from %s: %w", location, err)
	}
	logger.Debugf("Found %d dependency files in %s", len(files), location)

	for _, linker := range it.lockfiles.Linkers() {
		if linkErr := linker.Link(files); linkErr != nil {
			return nil, fmt.Errorf("failed to link %s workspace: %w", linker.Name(), linkErr)
		}
	}

	job := &entities.Job{Source: entities.Source{Directory: entities.NormalizeDirectory(opts.Directory)}}
	return grouping.NewDependencyGroupChangeBatch(files).CurrentDependencyFiles(job), nil
}
