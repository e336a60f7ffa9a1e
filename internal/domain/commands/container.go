package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewGroupUpdateCommand); err != nil {
		return err
	}
	if err := container.Provide(NewSelectCommand); err != nil {
		return err
	}
	if err := container.Provide(NewFilesCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *GroupUpdateCommand) GroupUpdate {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *SelectCommand) Select {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *FilesCommand) Files {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
