//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autogroup/internal/domain/commands"
	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// StubGroupUpdate implements commands.GroupUpdate with fixed results.
type StubGroupUpdate struct {
	Results  []commands.GroupResult
	Err      error
	Settings *entities.Settings
	Options  commands.GroupUpdateOptions
}

var _ commands.GroupUpdate = (*StubGroupUpdate)(nil)

func (s *StubGroupUpdate) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.GroupUpdateOptions,
) ([]commands.GroupResult, error) {
	s.Settings = settings
	s.Options = opts
	return s.Results, s.Err
}

// StubSelect implements commands.Select with fixed results.
type StubSelect struct {
	Results []commands.GroupResult
	Err     error
	Options commands.SelectOptions
}

var _ commands.Select = (*StubSelect)(nil)

func (s *StubSelect) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.SelectOptions,
) ([]commands.GroupResult, error) {
	s.Options = opts
	return s.Results, s.Err
}

// StubFiles implements commands.Files with fixed files.
type StubFiles struct {
	Files   []*entities.DependencyFile
	Err     error
	Options commands.FilesOptions
}

var _ commands.Files = (*StubFiles)(nil)

func (s *StubFiles) Execute(_ context.Context, opts commands.FilesOptions) ([]*entities.DependencyFile, error) {
	s.Options = opts
	return s.Files, s.Err
}
