//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autogroup/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name            string
	version         string
	previousVersion string
	directory       string
	requirements    []entities.Requirement
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder:     testkit.NewBaseBuilder(),
		name:            "test-dependency",
		version:         "1.1.0",
		previousVersion: "1.0.0",
		directory:       "/",
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithVersion sets the updated version.
func (b *DependencyBuilder) WithVersion(version string) *DependencyBuilder {
	b.version = version
	return b
}

// WithPreviousVersion sets the version before the update.
func (b *DependencyBuilder) WithPreviousVersion(version string) *DependencyBuilder {
	b.previousVersion = version
	return b
}

// WithDirectory sets the directory the dependency is declared in.
func (b *DependencyBuilder) WithDirectory(directory string) *DependencyBuilder {
	b.directory = directory
	return b
}

// WithRequirement adds a manifest requirement tagged with the given groups.
func (b *DependencyBuilder) WithRequirement(file, requirement string, groups ...string) *DependencyBuilder {
	b.requirements = append(b.requirements, entities.Requirement{
		File:        file,
		Requirement: requirement,
		Groups:      groups,
	})
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() *entities.Dependency {
	return &entities.Dependency{
		Name:            b.name,
		Version:         b.version,
		PreviousVersion: b.previousVersion,
		Directory:       b.directory,
		Requirements:    append([]entities.Requirement(nil), b.requirements...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-dependency"
	b.version = "1.1.0"
	b.previousVersion = "1.0.0"
	b.directory = "/"
	b.requirements = nil
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder:     b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:            b.name,
		version:         b.version,
		previousVersion: b.previousVersion,
		directory:       b.directory,
		requirements:    append([]entities.Requirement(nil), b.requirements...),
	}
}
