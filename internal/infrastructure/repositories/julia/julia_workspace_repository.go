package julia

import (
	"fmt"
	"path"

	"github.com/BurntSushi/toml"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

const (
	projectName      = "Project.toml"
	juliaProjectName = "JuliaProject.toml"
)

type projectFile struct {
	Workspace struct {
		Projects []string `toml:"projects"`
	} `toml:"workspace"`
}

// WorkspaceRepository links the projects of a Julia workspace to the single
// manifest they share.
type WorkspaceRepository struct{}

var _ repositories.FileAssociationRepository = (*WorkspaceRepository)(nil)

// NewWorkspaceRepository creates a new Julia workspace linker.
func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{}
}

func (r *WorkspaceRepository) Name() string { return "julia-workspace" }

// Link finds every root project declaring [workspace] projects and points the
// sibling manifest at all of them, and each of them back at the manifest.
func (r *WorkspaceRepository) Link(files []*entities.DependencyFile) error {
	byPath := make(map[string]*entities.DependencyFile, len(files))
	for _, file := range files {
		byPath[file.Path()] = file
	}

	for _, file := range files {
		if !isProject(file.Name) {
			continue
		}

		var project projectFile
		if err := toml.Unmarshal([]byte(file.Content), &project); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file.Path(), err)
		}
		if len(project.Workspace.Projects) == 0 {
			continue
		}

		root := entities.NormalizeDirectory(file.Directory)
		manifest := findManifest(byPath, root)
		if manifest == nil {
			continue
		}

		members := []*entities.DependencyFile{file}
		for _, member := range project.Workspace.Projects {
			if memberFile := findProject(byPath, path.Join(root, member)); memberFile != nil {
				members = append(members, memberFile)
			}
		}

		manifest.AssociatedManifestPaths = nil
		for _, member := range members {
			member.AssociatedLockfilePath = manifest.Path()
			manifest.AssociatedManifestPaths = append(manifest.AssociatedManifestPaths, member.Path())
		}
	}
	return nil
}

func isProject(name string) bool {
	return name == projectName || name == juliaProjectName
}

func findManifest(byPath map[string]*entities.DependencyFile, directory string) *entities.DependencyFile {
	for _, name := range []string{juliaManifestName, manifestName} {
		if file, ok := byPath[path.Join(directory, name)]; ok {
			return file
		}
	}
	return nil
}

func findProject(byPath map[string]*entities.DependencyFile, directory string) *entities.DependencyFile {
	for _, name := range []string{juliaProjectName, projectName} {
		if file, ok := byPath[path.Join(directory, name)]; ok {
			return file
		}
	}
	return nil
}
