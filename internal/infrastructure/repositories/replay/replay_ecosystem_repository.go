package replay

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// UpdateRecord is the recorded outcome of checking one dependency.
type UpdateRecord struct {
	Name                string                     `yaml:"name"`
	Directory           string                     `yaml:"directory"`
	LatestVersion       string                     `yaml:"latest_version"`
	UpToDate            bool                       `yaml:"up_to_date"`
	UpdateNotPossible   bool                       `yaml:"update_not_possible"`
	AllVersionsIgnored  bool                       `yaml:"all_versions_ignored"`
	Error               string                     `yaml:"error"`
	UpdatedDependencies []*entities.Dependency     `yaml:"updated_dependencies"`
	UpdatedFiles        []*entities.DependencyFile `yaml:"updated_files"`
}

// Recording is the content of a replay file.
type Recording struct {
	Ecosystem    string                     `yaml:"ecosystem"`
	Files        []*entities.DependencyFile `yaml:"files"`
	Dependencies []*entities.Dependency     `yaml:"dependencies"`
	Updates      []UpdateRecord             `yaml:"updates"`
}

// EcosystemRepository answers ecosystem calls from a recording, so grouping can
// run without registries or package managers. It is safe for concurrent use
// because it never mutates the recording.
type EcosystemRepository struct {
	recording *Recording
}

var _ repositories.EcosystemRepository = (*EcosystemRepository)(nil)

// NewEcosystemRepository loads a replay file.
func NewEcosystemRepository(location string) (repositories.EcosystemRepository, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file %q: %w", location, err)
	}
	var recording Recording
	if err = yaml.Unmarshal(data, &recording); err != nil {
		return nil, fmt.Errorf("failed to parse replay file: %w", err)
	}
	return NewEcosystemRepositoryFromRecording(&recording), nil
}

// NewEcosystemRepositoryFromRecording wraps an in-memory recording.
func NewEcosystemRepositoryFromRecording(recording *Recording) *EcosystemRepository {
	return &EcosystemRepository{recording: recording}
}

func (r *EcosystemRepository) Name() string {
	if r.recording.Ecosystem == "" {
		return "replay"
	}
	return r.recording.Ecosystem
}

// FetchFiles returns copies of the recorded files.
func (r *EcosystemRepository) FetchFiles(_ context.Context) ([]*entities.DependencyFile, error) {
	files := make([]*entities.DependencyFile, 0, len(r.recording.Files))
	for _, file := range r.recording.Files {
		files = append(files, copyFile(file, "/"))
	}
	return files, nil
}

// Parse returns the recorded dependencies of the directory that are still
// declared by one of the given files.
func (r *EcosystemRepository) Parse(
	_ context.Context,
	files []*entities.DependencyFile,
	directory string,
) ([]*entities.Dependency, error) {
	target := entities.NormalizeDirectory(directory)

	var result []*entities.Dependency
	for _, dependency := range r.recording.Dependencies {
		if entities.NormalizeDirectory(dependency.Directory) != target {
			continue
		}
		if !declaredBy(dependency, files) {
			continue
		}
		clone := *dependency
		clone.Directory = target
		result = append(result, &clone)
	}
	return result, nil
}

// CheckForUpdate replays the recorded check for the dependency. Dependencies
// without a record are up to date.
func (r *EcosystemRepository) CheckForUpdate(
	_ context.Context,
	dependency *entities.Dependency,
	_ []*entities.DependencyFile,
	_ *entities.Job,
) (*entities.UpdateCheck, error) {
	record := r.find(dependency)
	if record == nil {
		return &entities.UpdateCheck{LatestVersion: dependency.Version, UpToDate: true}, nil
	}
	if record.AllVersionsIgnored {
		return nil, entities.ErrAllVersionsIgnored
	}
	if record.Error != "" {
		return nil, fmt.Errorf("%s: %s", dependency.Name, record.Error)
	}

	updated := make([]*entities.Dependency, 0, len(record.UpdatedDependencies))
	for _, recorded := range record.UpdatedDependencies {
		clone := *recorded
		if clone.Directory == "" {
			clone.Directory = dependency.Directory
		}
		if clone.PreviousVersion == "" && strings.EqualFold(clone.Name, dependency.Name) {
			clone.PreviousVersion = dependency.Version
		}
		updated = append(updated, &clone)
	}

	return &entities.UpdateCheck{
		LatestVersion:       record.LatestVersion,
		UpToDate:            record.UpToDate,
		UpdatePossible:      !record.UpdateNotPossible,
		UpdatedDependencies: updated,
	}, nil
}

// UpdateFiles returns the files recorded for the updated dependencies.
func (r *EcosystemRepository) UpdateFiles(
	_ context.Context,
	dependencies []*entities.Dependency,
	_ []*entities.DependencyFile,
	_ *entities.Job,
) ([]*entities.DependencyFile, error) {
	seen := make(map[entities.FileKey]bool)
	var files []*entities.DependencyFile
	for _, dependency := range dependencies {
		record := r.find(dependency)
		if record == nil {
			continue
		}
		for _, recorded := range record.UpdatedFiles {
			file := copyFile(recorded, dependency.Directory)
			if seen[file.Key()] {
				continue
			}
			seen[file.Key()] = true
			files = append(files, file)
		}
	}
	return files, nil
}

func (r *EcosystemRepository) find(dependency *entities.Dependency) *UpdateRecord {
	directory := entities.NormalizeDirectory(dependency.Directory)
	for i := range r.recording.Updates {
		record := &r.recording.Updates[i]
		if !strings.EqualFold(record.Name, dependency.Name) {
			continue
		}
		if record.Directory != "" && entities.NormalizeDirectory(record.Directory) != directory {
			continue
		}
		return record
	}
	return nil
}

// declaredBy reports whether a requirement of the dependency names one of the
// files. Dependencies without requirements are lockfile-only and always kept.
func declaredBy(dependency *entities.Dependency, files []*entities.DependencyFile) bool {
	if len(dependency.Requirements) == 0 {
		return true
	}
	for _, requirement := range dependency.Requirements {
		for _, file := range files {
			if file.Name == requirement.File {
				return true
			}
		}
	}
	return false
}

func copyFile(file *entities.DependencyFile, fallbackDirectory string) *entities.DependencyFile {
	clone := *file
	if clone.Directory == "" {
		clone.Directory = fallbackDirectory
	}
	clone.Directory = entities.NormalizeDirectory(clone.Directory)
	clone.AssociatedManifestPaths = append([]string(nil), file.AssociatedManifestPaths...)
	return &clone
}
