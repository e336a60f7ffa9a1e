package julia

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

const (
	manifestName      = "Manifest.toml"
	juliaManifestName = "JuliaManifest.toml"
)

// ManifestRepository reads resolved package versions from Manifest.toml.
type ManifestRepository struct{}

var _ repositories.DriftDetectorRepository = (*ManifestRepository)(nil)

// NewManifestRepository creates a new Manifest.toml reader.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

func (r *ManifestRepository) Name() string { return "julia" }

func (r *ManifestRepository) Supports(name string) bool {
	return name == manifestName || name == juliaManifestName
}

// Dependencies returns the version of every package in the manifest. Format 2
// nests packages under [deps]; format 1 keeps them at the top level.
func (r *ManifestRepository) Dependencies(file *entities.DependencyFile) (map[string]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal([]byte(file.Content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}

	packages := raw
	if deps, ok := raw["deps"].(map[string]any); ok {
		packages = deps
	}

	versions := make(map[string]string)
	for name, value := range packages {
		entries, ok := value.([]map[string]any)
		if !ok || len(entries) == 0 {
			continue
		}
		// stdlib packages carry no version
		if version, isString := entries[0]["version"].(string); isString {
			versions[name] = version
		}
	}
	return versions, nil
}
