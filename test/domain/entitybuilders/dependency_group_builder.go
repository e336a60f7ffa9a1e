//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autogroup/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyGroupBuilder helps create test groups with a fluent interface.
type DependencyGroupBuilder struct {
	*testkit.BaseBuilder
	name     string
	rule     entities.DependencyGroupRule
	explicit []string
}

// NewDependencyGroupBuilder creates a group builder matching every dependency.
func NewDependencyGroupBuilder() *DependencyGroupBuilder {
	return &DependencyGroupBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "all-dependencies",
		rule:        entities.DependencyGroupRule{Patterns: []string{"*"}},
	}
}

// WithName sets the group name.
func (b *DependencyGroupBuilder) WithName(name string) *DependencyGroupBuilder {
	b.name = name
	return b
}

// WithPatterns replaces the group patterns. No arguments removes them.
func (b *DependencyGroupBuilder) WithPatterns(patterns ...string) *DependencyGroupBuilder {
	b.rule.Patterns = patterns
	return b
}

// WithExcludePatterns sets the exclude patterns.
func (b *DependencyGroupBuilder) WithExcludePatterns(patterns ...string) *DependencyGroupBuilder {
	b.rule.ExcludePatterns = patterns
	return b
}

// WithUpdateTypes restricts the update types the group may claim.
func (b *DependencyGroupBuilder) WithUpdateTypes(updateTypes ...entities.UpdateType) *DependencyGroupBuilder {
	b.rule.UpdateTypes = updateTypes
	return b
}

// WithDependencyType sets the dependency-type filter.
func (b *DependencyGroupBuilder) WithDependencyType(dependencyType string) *DependencyGroupBuilder {
	b.rule.DependencyType = dependencyType
	return b
}

// WithAppliesTo sets the update scope.
func (b *DependencyGroupBuilder) WithAppliesTo(appliesTo string) *DependencyGroupBuilder {
	b.rule.AppliesTo = appliesTo
	return b
}

// WithExplicitDependencies sets the names that always belong to the group.
func (b *DependencyGroupBuilder) WithExplicitDependencies(names ...string) *DependencyGroupBuilder {
	b.explicit = names
	return b
}

// Build creates the group (satisfies testkit.Builder interface).
func (b *DependencyGroupBuilder) Build() interface{} {
	return b.BuildGroup()
}

// BuildGroup creates the group with a concrete return type.
func (b *DependencyGroupBuilder) BuildGroup() *entities.DependencyGroup {
	return entities.NewDependencyGroup(b.name, b.rule, b.explicit...)
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyGroupBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "all-dependencies"
	b.rule = entities.DependencyGroupRule{Patterns: []string{"*"}}
	b.explicit = nil
	return b
}

// Clone creates a deep copy of the DependencyGroupBuilder.
func (b *DependencyGroupBuilder) Clone() testkit.Builder {
	return &DependencyGroupBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		rule:        b.rule,
		explicit:    append([]string(nil), b.explicit...),
	}
}
