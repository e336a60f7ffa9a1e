//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// StubDriftDetectorRepository implements repositories.DriftDetectorRepository by
// returning the versions configured for each file content.
type StubDriftDetectorRepository struct {
	FileName string
	// Versions maps a file content to the locked versions it declares.
	Versions map[string]map[string]string
	Err      error
}

var _ repositories.DriftDetectorRepository = (*StubDriftDetectorRepository)(nil)

func (s *StubDriftDetectorRepository) Name() string { return "stub" }

func (s *StubDriftDetectorRepository) Supports(fileName string) bool {
	return fileName == s.FileName
}

func (s *StubDriftDetectorRepository) Dependencies(file *entities.DependencyFile) (map[string]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Versions[file.Content], nil
}
