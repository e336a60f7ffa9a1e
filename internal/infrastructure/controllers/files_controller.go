package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autogroup/internal/domain/commands"
	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

type fileView struct {
	Path     string   `yaml:"path"`
	Lockfile string   `yaml:"lockfile,omitempty"`
	Shares   []string `yaml:"shared_by,omitempty"`
}

// FilesController handles the "files" subcommand.
type FilesController struct {
	command commands.Files
}

// NewFilesController creates a new FilesController.
func NewFilesController(command commands.Files) *FilesController {
	return &FilesController{command: command}
}

// GetBind returns the Cobra command metadata for the files controller.
func (it *FilesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "files [repo]",
		Short: "List the dependency files an update in a directory reads",
		Long: `Read the dependency files of a Git repository at HEAD and print the
ones an update in the given directory works with, including manifests
elsewhere in the repository that share its lockfile.`,
	}
}

// Execute lists the files for the directory.
func (it *FilesController) Execute(cmd *cobra.Command, args []string) {
	directory, _ := cmd.Flags().GetString("directory")
	location := "."
	if len(args) > 0 {
		location = args[0]
	}

	files, err := it.command.Execute(commandContext(cmd), commands.FilesOptions{
		Location:  location,
		Directory: directory,
	})
	if err != nil {
		logger.Errorf("Files failed: %v", err)
		return
	}

	views := make([]fileView, 0, len(files))
	for _, file := range files {
		views = append(views, fileView{
			Path:     file.Path(),
			Lockfile: file.AssociatedLockfilePath,
			Shares:   file.AssociatedManifestPaths,
		})
	}
	if err = printYAML(cmd, views); err != nil {
		logger.Error(err)
	}
}

// AddFlags adds the files-specific flags to the given Cobra command.
func (it *FilesController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("directory", "d", "/", "Directory the update runs in")
}
