package golang

import (
	"fmt"

	"golang.org/x/mod/modfile"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// GoModRepository reads required module versions from go.mod, including the
// indirect requirements the go command records there.
type GoModRepository struct{}

var _ repositories.DriftDetectorRepository = (*GoModRepository)(nil)

// NewGoModRepository creates a new go.mod reader.
func NewGoModRepository() *GoModRepository {
	return &GoModRepository{}
}

func (r *GoModRepository) Name() string              { return "gomod" }
func (r *GoModRepository) Supports(name string) bool { return name == "go.mod" }

// Dependencies returns the version of every required module. Replaced modules
// report the replacement version when it has one.
func (r *GoModRepository) Dependencies(file *entities.DependencyFile) (map[string]string, error) {
	parsed, err := modfile.Parse(file.Path(), []byte(file.Content), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}

	versions := make(map[string]string, len(parsed.Require))
	for _, require := range parsed.Require {
		versions[require.Mod.Path] = require.Mod.Version
	}
	for _, replace := range parsed.Replace {
		if _, ok := versions[replace.Old.Path]; ok && replace.New.Version != "" {
			versions[replace.Old.Path] = replace.New.Version
		}
	}
	return versions, nil
}
