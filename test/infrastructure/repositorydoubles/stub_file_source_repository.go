//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// StubFileSourceRepository implements repositories.FileSourceRepository with fixed files.
type StubFileSourceRepository struct {
	Files    []*entities.DependencyFile
	Err      error
	Location string
}

var _ repositories.FileSourceRepository = (*StubFileSourceRepository)(nil)

func (s *StubFileSourceRepository) DependencyFiles(
	_ context.Context,
	location string,
) ([]*entities.DependencyFile, error) {
	s.Location = location
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Files, nil
}
