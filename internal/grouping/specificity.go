package grouping

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// Specificity scores. Only their ordering is meaningful.
const (
	ExplicitMembershipScore = 1000
	ExactPatternScore       = 900
	PatternlessGroupScore   = 500
	UniversalWildcardScore  = 1
	NoMatchScore            = 0

	wildcardBaseScore = 100
	wildcardPenalty   = 10
	minWildcardScore  = 2
	maxWildcardScore  = ExactPatternScore - 1

	scoreCacheSize = 4096
)

// ContainsFunc decides whether a group contains a dependency in a directory.
type ContainsFunc func(group *entities.DependencyGroup, dependency *entities.Dependency, directory string) bool

// DefaultContains delegates to the group's own membership rules.
func DefaultContains(group *entities.DependencyGroup, dependency *entities.Dependency, directory string) bool {
	return group.Contains(dependency, directory)
}

// PatternSpecificityCalculator ranks how narrowly each group targets a dependency.
// It is safe for concurrent use.
type PatternSpecificityCalculator struct {
	scores *lru.Cache[string, int]
}

// NewPatternSpecificityCalculator creates a calculator with a bounded score cache.
func NewPatternSpecificityCalculator() *PatternSpecificityCalculator {
	cache, err := lru.New[string, int](scoreCacheSize)
	if err != nil {
		// only fails on a non-positive size
		panic(err)
	}
	return &PatternSpecificityCalculator{scores: cache}
}

// DependencyBelongsToMoreSpecificGroup reports whether some group other than
// current targets the dependency strictly more narrowly. Groups are skipped when
// they cannot claim the given update type or run under another scope. Ties keep
// the dependency in the current group.
func (c *PatternSpecificityCalculator) DependencyBelongsToMoreSpecificGroup(
	current *entities.DependencyGroup,
	dependency *entities.Dependency,
	groups []*entities.DependencyGroup,
	contains ContainsFunc,
	directory string,
	updateType entities.UpdateType,
	appliesTo string,
) bool {
	if !current.HasPatterns() {
		return false
	}

	currentScore := c.SpecificityScore(current, dependency)
	if currentScore >= ExplicitMembershipScore {
		return false
	}

	best := NoMatchScore
	for _, group := range groups {
		if group == current || group.Name == current.Name {
			continue
		}
		if updateType != "" && len(group.Rule.UpdateTypes) > 0 && !group.AllowsUpdateType(updateType) {
			continue
		}
		if appliesTo != "" && group.AppliesTo() != "" && group.AppliesTo() != appliesTo {
			continue
		}
		if !contains(group, dependency, directory) {
			continue
		}
		if score := c.SpecificityScore(group, dependency); score > best {
			best = score
		}
	}

	return best > currentScore
}

// SpecificityScore returns how narrowly the group targets the dependency.
func (c *PatternSpecificityCalculator) SpecificityScore(
	group *entities.DependencyGroup,
	dependency *entities.Dependency,
) int {
	key := group.Name + "\x00" + dependency.Name
	if score, ok := c.scores.Get(key); ok {
		return score
	}
	score := groupScore(group, dependency)
	c.scores.Add(key, score)
	return score
}

func groupScore(group *entities.DependencyGroup, dependency *entities.Dependency) int {
	if group.IsExplicitMember(dependency) {
		return ExplicitMembershipScore
	}
	if group.IsExcluded(dependency) {
		return NoMatchScore
	}
	if !group.HasPatterns() {
		return PatternlessGroupScore
	}

	best := NoMatchScore
	for _, pattern := range group.Rule.Patterns {
		if score := PatternScore(pattern, dependency.Name); score > best {
			best = score
		}
	}
	return best
}

// PatternScore returns the specificity of a single pattern for a name, or
// NoMatchScore when the pattern does not match.
func PatternScore(pattern, name string) int {
	if !entities.MatchPattern(pattern, name) {
		return NoMatchScore
	}

	stars := entities.CountWildcards(pattern)
	if stars == 0 {
		return ExactPatternScore
	}

	literal := entities.LiteralLength(pattern)
	if literal == 0 {
		return UniversalWildcardScore
	}

	score := wildcardBaseScore - wildcardPenalty*stars + literal
	return min(max(score, minWildcardScore), maxWildcardScore)
}
