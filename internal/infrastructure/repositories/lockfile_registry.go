package repositories

import (
	domainRepos "github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// LockfileRegistry manages the lockfile readers and workspace linkers.
type LockfileRegistry struct {
	detectors []domainRepos.DriftDetectorRepository
	linkers   []domainRepos.FileAssociationRepository
}

// NewLockfileRegistry creates an empty lockfile registry.
func NewLockfileRegistry() *LockfileRegistry {
	return &LockfileRegistry{}
}

// RegisterDetector adds a lockfile reader. Earlier readers win for files
// supported by several.
func (r *LockfileRegistry) RegisterDetector(detector domainRepos.DriftDetectorRepository) {
	r.detectors = append(r.detectors, detector)
}

// RegisterLinker adds a workspace linker.
func (r *LockfileRegistry) RegisterLinker(linker domainRepos.FileAssociationRepository) {
	r.linkers = append(r.linkers, linker)
}

// Detectors returns every registered reader in registration order.
func (r *LockfileRegistry) Detectors() []domainRepos.DriftDetectorRepository {
	return append([]domainRepos.DriftDetectorRepository(nil), r.detectors...)
}

// DetectorFor returns the reader for the file name, or nil.
func (r *LockfileRegistry) DetectorFor(fileName string) domainRepos.DriftDetectorRepository {
	for _, detector := range r.detectors {
		if detector.Supports(fileName) {
			return detector
		}
	}
	return nil
}

// Linkers returns every registered workspace linker in registration order.
func (r *LockfileRegistry) Linkers() []domainRepos.FileAssociationRepository {
	return append([]domainRepos.FileAssociationRepository(nil), r.linkers...)
}

// Names returns the names of the registered readers.
func (r *LockfileRegistry) Names() []string {
	names := make([]string, 0, len(r.detectors))
	for _, detector := range r.detectors {
		names = append(names, detector.Name())
	}
	return names
}
