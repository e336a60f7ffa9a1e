package repositories

import "github.com/rios0rios0/autogroup/internal/domain/entities"

// DriftDetectorRepository reads the resolved versions recorded by a lockfile format.
type DriftDetectorRepository interface {
	// Name returns the lockfile format identifier.
	Name() string

	// Supports returns true if the reader understands the given file name.
	Supports(fileName string) bool

	// Dependencies returns the locked version of every dependency keyed by name.
	Dependencies(file *entities.DependencyFile) (map[string]string, error)
}
