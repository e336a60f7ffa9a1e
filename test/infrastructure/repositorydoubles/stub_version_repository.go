//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// StubVersionRepository implements repositories.VersionRepository with fixed answers.
type StubVersionRepository struct {
	// UpdateTypes maps "previous->current" to the classification to return.
	UpdateTypes map[string]entities.UpdateType
	// Default is returned when no mapping exists.
	Default entities.UpdateType
	Newer   bool
}

var _ repositories.VersionRepository = (*StubVersionRepository)(nil)

func (s *StubVersionRepository) ClassifyUpdate(previous, current string) entities.UpdateType {
	if updateType, ok := s.UpdateTypes[previous+"->"+current]; ok {
		return updateType
	}
	return s.Default
}

func (s *StubVersionRepository) IsNewer(_, _ string) bool {
	return s.Newer
}
