package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autogroup/internal/domain/commands"
	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	command commands.GroupUpdate
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.GroupUpdate) *UpdateController {
	return &UpdateController{command: command}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update",
		Short: "Compute the change every dependency group owns",
		Long: `Check every member of each configured group for updates in every
configured directory, merge the per-directory results and print the
dependencies and files each group would change.

Update checks are answered by the selected ecosystem source. The
"replay" source reads a recording file given with --replay.`,
	}
}

// Execute runs the grouped update.
func (it *UpdateController) Execute(cmd *cobra.Command, _ []string) {
	replayPath, _ := cmd.Flags().GetString("replay")
	source, _ := cmd.Flags().GetString("source")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	results, err := it.command.Execute(commandContext(cmd), settings, commands.GroupUpdateOptions{
		Source:   source,
		Location: replayPath,
	})
	if err != nil {
		logger.Errorf("Update failed: %v", err)
		return
	}

	if err = printYAML(cmd, newGroupViews(results)); err != nil {
		logger.Error(err)
	}
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "replay", "Ecosystem source answering update checks")
	cmd.Flags().String("replay", "", "Recording file read by the replay source")
}
