package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
	"github.com/rios0rios0/autogroup/internal/grouping"
	infraRepos "github.com/rios0rios0/autogroup/internal/infrastructure/repositories"
	replayRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/replay"
)

// ErrNoChangeSet is returned when the select command is run without a change set.
var ErrNoChangeSet = errors.New("a change set file is required")

// Select is the interface for the select command.
type Select interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SelectOptions) ([]GroupResult, error)
}

// SelectOptions holds runtime options for the select mode.
type SelectOptions struct {
	ChangesPath string
	// Group restricts the run to one group when set.
	Group string
}

// SelectCommand runs the selection step alone over precomputed per-directory
// changes: every group merges the recorded changes and keeps what it owns.
type SelectCommand struct {
	lockfiles *infraRepos.LockfileRegistry
	versions  repositories.VersionRepository
	metrics   repositories.MetricsRepository
}

// NewSelectCommand creates a new SelectCommand.
func NewSelectCommand(
	lockfiles *infraRepos.LockfileRegistry,
	versions repositories.VersionRepository,
	metrics repositories.MetricsRepository,
) *SelectCommand {
	return &SelectCommand{
		lockfiles: lockfiles,
		versions:  versions,
		metrics:   metrics,
	}
}

// Execute loads the change set and filters it once per group.
func (it *SelectCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SelectOptions,
) ([]GroupResult, error) {
	if opts.ChangesPath == "" {
		return nil, ErrNoChangeSet
	}
	changeSet, err := replayRepo.LoadChangeSet(opts.ChangesPath)
	if err != nil {
		return nil, err
	}
	return it.Run(ctx, settings, changeSet, opts.Group)
}

// Run filters an already loaded change set. Each group sees its own copy of
// the changes.
func (it *SelectCommand) Run(
	ctx context.Context,
	settings *entities.Settings,
	changeSet *replayRepo.ChangeSet,
	only string,
) ([]GroupResult, error) {
	snapshot := entities.NewDependencySnapshot(
		settings.Ecosystem, settings.DependencyGroups(), changeSet.OriginalFiles(), nil,
	)
	job := settings.NewJob()
	calculator := grouping.NewPatternSpecificityCalculator()

	var results []GroupResult
	for _, group := range snapshot.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if only != "" && group.Name != only {
			continue
		}

		selector := grouping.NewGroupDependencySelector(group, snapshot, grouping.SelectorOptions{
			Features:       settings.Features,
			Calculator:     calculator,
			Versions:       it.versions,
			Metrics:        it.metrics,
			DriftDetectors: it.lockfiles.Detectors(),
		})

		change := selector.MergePerDirectory(changeSet.DependencyChanges(job))
		selector.FilterToGroup(change)
		selector.AnnotateDependencyDrift(change)

		logger.Debugf("Group %q keeps %d dependencies", group.Name, len(change.UpdatedDependencies))
		results = append(results, GroupResult{
			Group:        group.Name,
			Change:       change,
			Filtered:     selector.FilteredDependencies(),
			Drift:        selector.DependencyDrift(),
			Attributions: selector.Attributions(),
		})
	}
	return results, nil
}
