package repositories

import "github.com/rios0rios0/autogroup/internal/domain/entities"

// VersionRepository compares versions of one versioning scheme.
type VersionRepository interface {
	// ClassifyUpdate returns the kind of bump between two versions, or "" when the
	// versions cannot be compared or are not an upgrade.
	ClassifyUpdate(previous, current string) entities.UpdateType

	// IsNewer returns true if candidate is strictly newer than current.
	IsNewer(current, candidate string) bool
}
