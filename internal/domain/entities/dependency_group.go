package entities

import "strings"

// UpdateType classifies a version bump. The zero value means "unknown".
type UpdateType string

const (
	UpdateTypeMajor UpdateType = "major"
	UpdateTypeMinor UpdateType = "minor"
	UpdateTypePatch UpdateType = "patch"
)

// Update scopes a group may be restricted to.
const (
	AppliesToVersionUpdates  = "version-updates"
	AppliesToSecurityUpdates = "security-updates"
)

// Dependency type filters a group may declare.
const (
	DependencyTypeProduction  = "production"
	DependencyTypeDevelopment = "development"
)

// DependencyGroupRule is the immutable membership configuration of a group.
type DependencyGroupRule struct {
	Patterns        []string
	ExcludePatterns []string
	UpdateTypes     []UpdateType
	DependencyType  string
	AppliesTo       string
}

// DependencyGroup is a named bucket of dependencies updated together in one pull request.
type DependencyGroup struct {
	Name                 string
	Rule                 DependencyGroupRule
	ExplicitDependencies []string
}

// NewDependencyGroup creates a group from its rule and explicit members.
func NewDependencyGroup(name string, rule DependencyGroupRule, explicit ...string) *DependencyGroup {
	return &DependencyGroup{
		Name:                 name,
		Rule:                 rule,
		ExplicitDependencies: explicit,
	}
}

// AppliesTo returns the update scope of the group, or "" when unrestricted.
func (g *DependencyGroup) AppliesTo() string {
	return g.Rule.AppliesTo
}

// HasPatterns reports whether the group matches by name patterns at all.
func (g *DependencyGroup) HasPatterns() bool {
	return len(g.Rule.Patterns) > 0
}

// IsExplicitMember reports whether the dependency is listed by name in the group.
func (g *DependencyGroup) IsExplicitMember(dependency *Dependency) bool {
	for _, name := range g.ExplicitDependencies {
		if strings.EqualFold(name, dependency.Name) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether the dependency name matches an exclude pattern.
func (g *DependencyGroup) IsExcluded(dependency *Dependency) bool {
	return MatchAnyPattern(g.Rule.ExcludePatterns, dependency.Name)
}

// AllowsUpdateType reports whether the group may claim an update of the given type.
// Groups without update-types, and unknown update types, are always allowed.
func (g *DependencyGroup) AllowsUpdateType(updateType UpdateType) bool {
	if len(g.Rule.UpdateTypes) == 0 || updateType == "" {
		return true
	}
	for _, allowed := range g.Rule.UpdateTypes {
		if allowed == updateType {
			return true
		}
	}
	return false
}

// Contains reports whether the dependency is a member of the group in the given
// directory. Explicit members always belong; otherwise the dependency must pass the
// dependency-type filter, must not be excluded and must match a pattern (a group
// without patterns matches every name).
func (g *DependencyGroup) Contains(dependency *Dependency, _ string) bool {
	if g.IsExplicitMember(dependency) {
		return true
	}
	if !g.matchesDependencyType(dependency) {
		return false
	}
	if g.IsExcluded(dependency) {
		return false
	}
	if !g.HasPatterns() {
		return true
	}
	return MatchAnyPattern(g.Rule.Patterns, dependency.Name)
}

func (g *DependencyGroup) matchesDependencyType(dependency *Dependency) bool {
	switch g.Rule.DependencyType {
	case DependencyTypeProduction:
		return dependency.Production()
	case DependencyTypeDevelopment:
		return !dependency.Production()
	default:
		return true
	}
}
