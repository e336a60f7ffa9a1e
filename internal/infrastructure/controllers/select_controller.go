package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autogroup/internal/domain/commands"
	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

// SelectController handles the "select" subcommand.
type SelectController struct {
	command commands.Select
}

// NewSelectController creates a new SelectController.
func NewSelectController(command commands.Select) *SelectController {
	return &SelectController{command: command}
}

// GetBind returns the Cobra command metadata for the select controller.
func (it *SelectController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "select",
		Short: "Filter precomputed changes down to what each group owns",
		Long: `Read per-directory changes from a change set file, merge them and
print, for every group, the dependencies it keeps once explicit members,
patterns, configuration and more specific groups are taken into account.`,
	}
}

// Execute runs the selection over the change set.
func (it *SelectController) Execute(cmd *cobra.Command, _ []string) {
	changesPath, _ := cmd.Flags().GetString("changes")
	group, _ := cmd.Flags().GetString("group")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	results, err := it.command.Execute(commandContext(cmd), settings, commands.SelectOptions{
		ChangesPath: changesPath,
		Group:       group,
	})
	if err != nil {
		logger.Errorf("Select failed: %v", err)
		return
	}

	if err = printYAML(cmd, newGroupViews(results)); err != nil {
		logger.Error(err)
	}
}

// AddFlags adds the select-specific flags to the given Cobra command.
func (it *SelectController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("changes", "", "Change set file with per-directory changes")
	cmd.Flags().String("group", "", "Only process this group")
}
