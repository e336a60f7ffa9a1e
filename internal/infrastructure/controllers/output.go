package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/autogroup/internal/domain/commands"
	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

type dependencyView struct {
	Name            string `yaml:"name"`
	Version         string `yaml:"version"`
	PreviousVersion string `yaml:"previous_version,omitempty"`
	Directory       string `yaml:"directory"`
}

type filteredView struct {
	Name      string `yaml:"name"`
	Directory string `yaml:"directory"`
	Reason    string `yaml:"reason,omitempty"`
}

type groupView struct {
	Group        string           `yaml:"group"`
	Dependencies []dependencyView `yaml:"dependencies"`
	Files        []string         `yaml:"files,omitempty"`
	Filtered     []filteredView   `yaml:"filtered,omitempty"`
	Drift        []string         `yaml:"drift,omitempty"`
}

// loadSettings resolves the config file from --config or the default locations.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		var err error
		configPath, err = entities.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create .autogroup.yaml", err,
			)
		}
	}

	logger.Infof("Using config file: %s", configPath)
	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}

func newGroupViews(results []commands.GroupResult) []groupView {
	views := make([]groupView, 0, len(results))
	for _, result := range results {
		view := groupView{
			Group:        result.Group,
			Dependencies: []dependencyView{},
			Drift:        result.Drift,
		}
		var directory string
		if result.Change != nil {
			directory = result.Change.Directory()
			for _, dependency := range result.Change.UpdatedDependencies {
				view.Dependencies = append(view.Dependencies, newDependencyView(dependency, directory))
			}
			for _, file := range result.Change.UpdatedDependencyFiles {
				view.Files = append(view.Files, file.Path())
			}
		}
		for _, dependency := range result.Filtered {
			view.Filtered = append(view.Filtered, newFilteredView(dependency, directory, result.Attributions))
		}
		views = append(views, view)
	}
	return views
}

func newDependencyView(dependency *entities.Dependency, fallbackDirectory string) dependencyView {
	directory := dependency.Directory
	if directory == "" {
		directory = fallbackDirectory
	}
	return dependencyView{
		Name:            dependency.Name,
		Version:         dependency.Version,
		PreviousVersion: dependency.PreviousVersion,
		Directory:       entities.NormalizeDirectory(directory),
	}
}

func newFilteredView(
	dependency *entities.Dependency,
	fallbackDirectory string,
	attributions *entities.AttributionStore,
) filteredView {
	view := filteredView{
		Name:      dependency.Name,
		Directory: newDependencyView(dependency, fallbackDirectory).Directory,
	}
	if attributions != nil {
		if attribution, ok := attributions.GetAttribution(dependency); ok {
			view.Reason = string(attribution.SelectionReason)
		}
	}
	return view
}

func printYAML(cmd *cobra.Command, value any) error {
	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return encoder.Close()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
