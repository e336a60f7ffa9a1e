package javascript

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

const nodeModulesPrefix = "node_modules/"

type packageLock struct {
	LockfileVersion int                    `json:"lockfileVersion"`
	Packages        map[string]lockedEntry `json:"packages"`
	Dependencies    map[string]lockedEntry `json:"dependencies"`
}

type lockedEntry struct {
	Version string `json:"version"`
}

// PackageLockRepository reads hoisted package versions from package-lock.json.
type PackageLockRepository struct{}

var _ repositories.DriftDetectorRepository = (*PackageLockRepository)(nil)

// NewPackageLockRepository creates a new package-lock.json reader.
func NewPackageLockRepository() *PackageLockRepository {
	return &PackageLockRepository{}
}

func (r *PackageLockRepository) Name() string              { return "npm" }
func (r *PackageLockRepository) Supports(name string) bool { return name == "package-lock.json" }

// Dependencies returns the version of every top-level installed package.
// Lockfile v2 and v3 use the "packages" map; v1 only has "dependencies".
func (r *PackageLockRepository) Dependencies(file *entities.DependencyFile) (map[string]string, error) {
	var lock packageLock
	if err := json.Unmarshal([]byte(file.Content), &lock); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}

	versions := make(map[string]string)
	if len(lock.Packages) > 0 {
		for key, entry := range lock.Packages {
			name, ok := strings.CutPrefix(key, nodeModulesPrefix)
			if !ok || strings.Contains(name, "/"+nodeModulesPrefix) || entry.Version == "" {
				continue
			}
			versions[name] = entry.Version
		}
		return versions, nil
	}

	for name, entry := range lock.Dependencies {
		if entry.Version != "" {
			versions[name] = entry.Version
		}
	}
	return versions, nil
}
