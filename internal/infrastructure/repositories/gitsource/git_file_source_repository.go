package gitsource

import (
	"context"
	"fmt"
	"path"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// dependencyFileNames are the manifests and lockfiles collected from a tree.
//
//nolint:gochecknoglobals // read-only lookup table
var dependencyFileNames = map[string]bool{
	"go.mod":              true,
	"go.sum":              true,
	"package.json":        true,
	"package-lock.json":   true,
	"pyproject.toml":      true,
	"poetry.lock":         true,
	"requirements.txt":    true,
	"Project.toml":        true,
	"JuliaProject.toml":   true,
	"Manifest.toml":       true,
	"JuliaManifest.toml":  true,
	".terraform.lock.hcl": true,
	"Gemfile":             true,
	"Gemfile.lock":        true,
}

// FileSourceRepository reads dependency files from the HEAD commit of a local
// Git repository, ignoring uncommitted changes.
type FileSourceRepository struct{}

var _ repositories.FileSourceRepository = (*FileSourceRepository)(nil)

// NewFileSourceRepository creates a new Git-backed file source.
func NewFileSourceRepository() *FileSourceRepository {
	return &FileSourceRepository{}
}

// DependencyFiles returns every known dependency file and every .tf file found
// in HEAD, rooted at the repository top level.
func (r *FileSourceRepository) DependencyFiles(
	ctx context.Context,
	location string,
) ([]*entities.DependencyFile, error) {
	//nolint:exhaustruct // Minimal PlainOpenOptions initialization with required fields only
	repo, err := git.PlainOpenWithOptions(location, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", location, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}

	logger.Debugf("Reading dependency files from %s at %s", location, head.Hash().String()[:7])

	var files []*entities.DependencyFile
	err = tree.Files().ForEach(func(file *object.File) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := path.Base(file.Name)
		if !dependencyFileNames[name] && path.Ext(name) != ".tf" {
			return nil
		}

		content, contentErr := file.Contents()
		if contentErr != nil {
			return fmt.Errorf("failed to read %s: %w", file.Name, contentErr)
		}

		files = append(files, &entities.DependencyFile{
			Name:      name,
			Directory: entities.NormalizeDirectory(path.Dir(file.Name)),
			Content:   content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
