package semver

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// VersionRepository classifies updates of semantic versions.
type VersionRepository struct{}

var _ repositories.VersionRepository = (*VersionRepository)(nil)

// NewVersionRepository creates a new semantic version repository.
func NewVersionRepository() *VersionRepository {
	return &VersionRepository{}
}

// ClassifyUpdate determines the type of version change. Versions may omit the
// leading "v" and trailing segments; missing segments count as zero.
func (r *VersionRepository) ClassifyUpdate(previous, current string) entities.UpdateType {
	previousNorm, okPrevious := entities.CanonicalVersion(previous)
	currentNorm, okCurrent := entities.CanonicalVersion(current)
	if !okPrevious || !okCurrent {
		// Can't determine diff type for non-semver versions
		return ""
	}
	if semver.Compare(currentNorm, previousNorm) <= 0 {
		return ""
	}

	if semver.Major(previousNorm) != semver.Major(currentNorm) {
		return entities.UpdateTypeMajor
	}

	// semver has no Minor function
	previousParts := strings.Split(strings.TrimPrefix(semver.MajorMinor(previousNorm), "v"), ".")
	currentParts := strings.Split(strings.TrimPrefix(semver.MajorMinor(currentNorm), "v"), ".")
	if previousParts[1] != currentParts[1] {
		return entities.UpdateTypeMinor
	}

	return entities.UpdateTypePatch
}

// IsNewer compares two version strings and returns true if candidate is newer.
func (r *VersionRepository) IsNewer(current, candidate string) bool {
	currentNorm, okCurrent := entities.CanonicalVersion(current)
	candidateNorm, okCandidate := entities.CanonicalVersion(candidate)
	if okCurrent && okCandidate {
		return semver.Compare(candidateNorm, currentNorm) > 0
	}

	// Fall back to string comparison for non-semver versions
	return candidate > current
}
