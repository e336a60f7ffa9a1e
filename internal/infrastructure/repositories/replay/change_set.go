package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// RecordedChange is one per-directory change as written in a change set file.
type RecordedChange struct {
	Directory              string                     `yaml:"directory"`
	UpdatedDependencies    []*entities.Dependency     `yaml:"updated_dependencies"`
	UpdatedDependencyFiles []*entities.DependencyFile `yaml:"updated_dependency_files"`
}

// ChangeSet holds precomputed per-directory changes and the files they started from.
type ChangeSet struct {
	Files   []*entities.DependencyFile `yaml:"files"`
	Changes []RecordedChange           `yaml:"changes"`
}

// LoadChangeSet reads a change set file.
func LoadChangeSet(location string) (*ChangeSet, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read change set %q: %w", location, err)
	}
	var changeSet ChangeSet
	if err = yaml.Unmarshal(data, &changeSet); err != nil {
		return nil, fmt.Errorf("failed to parse change set: %w", err)
	}
	return &changeSet, nil
}

// DependencyChanges builds fresh changes bound to copies of the job, so each
// call can be filtered independently.
func (c *ChangeSet) DependencyChanges(job *entities.Job) []*entities.DependencyChange {
	changes := make([]*entities.DependencyChange, 0, len(c.Changes))
	for _, recorded := range c.Changes {
		directory := entities.NormalizeDirectory(recorded.Directory)

		dependencies := make([]*entities.Dependency, 0, len(recorded.UpdatedDependencies))
		for _, dependency := range recorded.UpdatedDependencies {
			clone := *dependency
			if clone.Directory == "" {
				clone.Directory = directory
			}
			dependencies = append(dependencies, &clone)
		}

		files := make([]*entities.DependencyFile, 0, len(recorded.UpdatedDependencyFiles))
		for _, file := range recorded.UpdatedDependencyFiles {
			files = append(files, copyFile(file, directory))
		}

		changes = append(changes, entities.NewDependencyChange(job.ForDirectory(directory), dependencies, files))
	}
	return changes
}

// OriginalFiles returns copies of the files the changes started from.
func (c *ChangeSet) OriginalFiles() []*entities.DependencyFile {
	files := make([]*entities.DependencyFile, 0, len(c.Files))
	for _, file := range c.Files {
		files = append(files, copyFile(file, "/"))
	}
	return files
}
