package entities

import (
	"path"
	"strings"
)

// developmentGroups are requirement groups that mark a dependency as non-production.
//
//nolint:gochecknoglobals // read-only lookup table
var developmentGroups = map[string]bool{
	"dev":              true,
	"development":      true,
	"devdependencies":  true,
	"dev-dependencies": true,
	"test":             true,
}

// Requirement is a single declaration of a dependency inside a manifest file.
type Requirement struct {
	File        string   `yaml:"file"`
	Requirement string   `yaml:"requirement"`
	Groups      []string `yaml:"groups"`
	Source      string   `yaml:"source"`
}

// Dependency represents one candidate dependency update.
type Dependency struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	PreviousVersion string        `yaml:"previous_version"`
	Requirements    []Requirement `yaml:"requirements"`
	Directory       string        `yaml:"directory"`
}

// DependencyID identifies a dependency update across directories.
type DependencyID struct {
	Directory       string
	Name            string
	PreviousVersion string
	Version         string
}

// ID returns the identity key of the dependency. The directory is part of it, so
// the same package updated in two directories yields two identities.
func (d *Dependency) ID() DependencyID {
	return DependencyID{
		Directory:       NormalizeDirectory(d.Directory),
		Name:            d.Name,
		PreviousVersion: d.PreviousVersion,
		Version:         d.Version,
	}
}

// TopLevel reports whether the dependency is declared in a manifest (as opposed to
// appearing only in a lockfile).
func (d *Dependency) TopLevel() bool {
	return len(d.Requirements) > 0
}

// Production reports whether the dependency is a runtime dependency. A dependency
// with no requirements, or with at least one requirement outside the development
// groups, counts as production.
func (d *Dependency) Production() bool {
	if len(d.Requirements) == 0 {
		return true
	}
	for _, req := range d.Requirements {
		if len(req.Groups) == 0 {
			return true
		}
		for _, group := range req.Groups {
			if !developmentGroups[strings.ToLower(group)] {
				return true
			}
		}
	}
	return false
}

// DependencyFile is a manifest or lockfile at a given directory.
type DependencyFile struct {
	Name                    string   `yaml:"name"`
	Directory               string   `yaml:"directory"`
	Content                 string   `yaml:"content"`
	AssociatedLockfilePath  string   `yaml:"associated_lockfile_path"`
	AssociatedManifestPaths []string `yaml:"associated_manifest_paths"`
}

// Path returns the absolute, repository-rooted path of the file.
func (f *DependencyFile) Path() string {
	return path.Join(NormalizeDirectory(f.Directory), f.Name)
}

// FileKey is the (directory, name) pair files are deduplicated by.
type FileKey struct {
	Directory string
	Name      string
}

// Key returns the deduplication key of the file.
func (f *DependencyFile) Key() FileKey {
	return FileKey{Directory: NormalizeDirectory(f.Directory), Name: f.Name}
}

// DependencyChange is the outcome of updating one or more dependencies in one
// directory (or, once merged, across directories).
type DependencyChange struct {
	Job                    *Job
	UpdatedDependencies    []*Dependency
	UpdatedDependencyFiles []*DependencyFile
}

// NewDependencyChange creates a change bound to the given job.
func NewDependencyChange(
	job *Job,
	dependencies []*Dependency,
	files []*DependencyFile,
) *DependencyChange {
	return &DependencyChange{
		Job:                    job,
		UpdatedDependencies:    dependencies,
		UpdatedDependencyFiles: files,
	}
}

// Directory returns the source directory of the change's job, defaulting to ".".
func (c *DependencyChange) Directory() string {
	if c.Job == nil || c.Job.Source.Directory == "" {
		return "."
	}
	return c.Job.Source.Directory
}

// NormalizeDirectory cleans a directory path and roots it at "/".
func NormalizeDirectory(directory string) string {
	if directory == "" || directory == "." {
		return "/"
	}
	return path.Clean("/" + strings.TrimPrefix(directory, "./"))
}
