//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autogroup/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyFileBuilder helps create test dependency files with a fluent interface.
type DependencyFileBuilder struct {
	*testkit.BaseBuilder
	name      string
	directory string
	content   string
	lockfile  string
	manifests []string
}

// NewDependencyFileBuilder creates a new file builder with sensible defaults.
func NewDependencyFileBuilder() *DependencyFileBuilder {
	return &DependencyFileBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "go.mod",
		directory:   "/",
	}
}

// WithName sets the file name.
func (b *DependencyFileBuilder) WithName(name string) *DependencyFileBuilder {
	b.name = name
	return b
}

// WithDirectory sets the directory of the file.
func (b *DependencyFileBuilder) WithDirectory(directory string) *DependencyFileBuilder {
	b.directory = directory
	return b
}

// WithContent sets the file content.
func (b *DependencyFileBuilder) WithContent(content string) *DependencyFileBuilder {
	b.content = content
	return b
}

// WithAssociatedLockfilePath links a manifest to a lockfile elsewhere.
func (b *DependencyFileBuilder) WithAssociatedLockfilePath(lockfile string) *DependencyFileBuilder {
	b.lockfile = lockfile
	return b
}

// WithAssociatedManifestPaths links a lockfile to the manifests sharing it.
func (b *DependencyFileBuilder) WithAssociatedManifestPaths(manifests ...string) *DependencyFileBuilder {
	b.manifests = manifests
	return b
}

// Build creates the file (satisfies testkit.Builder interface).
func (b *DependencyFileBuilder) Build() interface{} {
	return b.BuildFile()
}

// BuildFile creates the file with a concrete return type.
func (b *DependencyFileBuilder) BuildFile() *entities.DependencyFile {
	return &entities.DependencyFile{
		Name:                    b.name,
		Directory:               b.directory,
		Content:                 b.content,
		AssociatedLockfilePath:  b.lockfile,
		AssociatedManifestPaths: append([]string(nil), b.manifests...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyFileBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "go.mod"
	b.directory = "/"
	b.content = ""
	b.lockfile = ""
	b.manifests = nil
	return b
}

// Clone creates a deep copy of the DependencyFileBuilder.
func (b *DependencyFileBuilder) Clone() testkit.Builder {
	return &DependencyFileBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		directory:   b.directory,
		content:     b.content,
		lockfile:    b.lockfile,
		manifests:   append([]string(nil), b.manifests...),
	}
}
