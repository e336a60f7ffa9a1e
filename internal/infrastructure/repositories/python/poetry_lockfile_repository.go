package python

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

var separatorPattern = regexp.MustCompile(`[-_.]+`)

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// PoetryLockRepository reads resolved package versions from poetry.lock.
type PoetryLockRepository struct{}

var _ repositories.DriftDetectorRepository = (*PoetryLockRepository)(nil)

// NewPoetryLockRepository creates a new poetry.lock reader.
func NewPoetryLockRepository() *PoetryLockRepository {
	return &PoetryLockRepository{}
}

func (r *PoetryLockRepository) Name() string              { return "poetry" }
func (r *PoetryLockRepository) Supports(name string) bool { return name == "poetry.lock" }

// Dependencies returns the locked version of every package keyed by its
// normalized name.
func (r *PoetryLockRepository) Dependencies(file *entities.DependencyFile) (map[string]string, error) {
	var lock lockFile
	if err := toml.Unmarshal([]byte(file.Content), &lock); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}

	versions := make(map[string]string, len(lock.Packages))
	for _, pkg := range lock.Packages {
		versions[normalize(pkg.Name)] = pkg.Version
	}
	return versions, nil
}

// normalize applies PEP 503 name normalization.
func normalize(name string) string {
	return separatorPattern.ReplaceAllString(strings.ToLower(name), "-")
}
