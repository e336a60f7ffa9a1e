package repositories

import (
	"context"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// FileSourceRepository fetches dependency files from a repository.
type FileSourceRepository interface {
	DependencyFiles(ctx context.Context, location string) ([]*entities.DependencyFile, error)
}

// FileAssociationRepository links manifests to the lockfiles they share.
type FileAssociationRepository interface {
	// Name returns the workspace layout identifier.
	Name() string

	// Link fills AssociatedLockfilePath and AssociatedManifestPaths in place.
	Link(files []*entities.DependencyFile) error
}
