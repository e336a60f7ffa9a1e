package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
	"github.com/rios0rios0/autogroup/internal/grouping"
	infraRepos "github.com/rios0rios0/autogroup/internal/infrastructure/repositories"
)

const defaultEcosystemSource = "replay"

// GroupUpdate is the interface for the grouped update command.
type GroupUpdate interface {
	Execute(ctx context.Context, settings *entities.Settings, opts GroupUpdateOptions) ([]GroupResult, error)
}

// GroupUpdateOptions holds runtime options for a grouped update run.
type GroupUpdateOptions struct {
	// Source is the registered ecosystem source name (default "replay").
	Source string
	// Location is passed to the ecosystem factory (e.g. a replay file path).
	Location string
}

// GroupResult is the change a group ends up owning.
type GroupResult struct {
	Group    string
	Change   *entities.DependencyChange
	Filtered []*entities.Dependency
	Drift    []string
	// Attributions holds the selection reason of every dependency this group saw.
	Attributions *entities.AttributionStore
}

// GroupUpdateCommand computes, for every configured group, the change set it
// owns: it checks each member dependency per directory, accumulates the results,
// merges directories and keeps only the dependencies the group owns.
type GroupUpdateCommand struct {
	ecosystems *infraRepos.EcosystemRegistry
	lockfiles  *infraRepos.LockfileRegistry
	versions   repositories.VersionRepository
	metrics    repositories.MetricsRepository
	reporter   repositories.ErrorReporterRepository
}

// NewGroupUpdateCommand creates a new GroupUpdateCommand.
func NewGroupUpdateCommand(
	ecosystems *infraRepos.EcosystemRegistry,
	lockfiles *infraRepos.LockfileRegistry,
	versions repositories.VersionRepository,
	metrics repositories.MetricsRepository,
	reporter repositories.ErrorReporterRepository,
) *GroupUpdateCommand {
	return &GroupUpdateCommand{
		ecosystems: ecosystems,
		lockfiles:  lockfiles,
		versions:   versions,
		metrics:    metrics,
		reporter:   reporter,
	}
}

// Execute opens the ecosystem, builds the snapshot and runs every group in
// configuration order.
func (it *GroupUpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts GroupUpdateOptions,
) ([]GroupResult, error) {
	source := opts.Source
	if source == "" {
		source = defaultEcosystemSource
	}
	ecosystem, err := it.ecosystems.Get(source, opts.Location)
	if err != nil {
		return nil, err
	}

	files, err := ecosystem.FetchFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dependency files: %w", err)
	}
	for _, linker := range it.lockfiles.Linkers() {
		if linkErr := linker.Link(files); linkErr != nil {
			return nil, fmt.Errorf("failed to link %s workspace: %w", linker.Name(), linkErr)
		}
	}

	snapshot, err := it.buildSnapshot(ctx, settings, ecosystem, files)
	if err != nil {
		return nil, err
	}
	return it.Run(ctx, settings, ecosystem, snapshot)
}

// Run processes every group against an existing snapshot.
func (it *GroupUpdateCommand) Run(
	ctx context.Context,
	settings *entities.Settings,
	ecosystem repositories.EcosystemRepository,
	snapshot *entities.DependencySnapshot,
) ([]GroupResult, error) {
	job := settings.NewJob()

	if len(job.Dependencies) > 0 && !job.UpdatingAPullRequest {
		if missing := job.MissingDependencies(snapshot.Dependencies); len(missing) > 0 {
			return nil, &entities.DependencyNotFoundError{Names: missing}
		}
	}

	run := &groupRun{
		GroupUpdateCommand: it,
		settings:           settings,
		ecosystem:          ecosystem,
		snapshot:           snapshot,
	}
	calculator := grouping.NewPatternSpecificityCalculator()

	var results []GroupResult
	for _, group := range snapshot.Groups {
		if group.AppliesTo() != "" && group.AppliesTo() != job.Scope() {
			logger.Debugf("Skipping group %q: applies to %s, running %s", group.Name, group.AppliesTo(), job.Scope())
			continue
		}

		changes, err := run.compileDirectories(ctx, group, job)
		if err != nil {
			return nil, err
		}

		selector := grouping.NewGroupDependencySelector(group, snapshot, grouping.SelectorOptions{
			Features:       settings.Features,
			Calculator:     calculator,
			Versions:       it.versions,
			Metrics:        it.metrics,
			DriftDetectors: it.lockfiles.Detectors(),
		})

		change := selector.MergePerDirectory(changes)
		selector.FilterToGroup(change)
		selector.AnnotateDependencyDrift(change)

		if len(change.UpdatedDependencies) == 0 {
			logger.Warnf(
				"Skipping update group for '%s' as it does not match any allowed dependencies.", group.Name,
			)
			continue
		}

		snapshot.AddHandledDependencies(change.UpdatedDependencies...)

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

func (it *GroupUpdateCommand) buildSnapshot(
	ctx context.Context,
	settings *entities.Settings,
	ecosystem repositories.EcosystemRepository,
	files []*entities.DependencyFile,
) (*entities.DependencySnapshot, error) {
	batch := grouping.NewDependencyGroupChangeBatch(files)
	job := settings.NewJob()

	var dependencies []*entities.Dependency
	for _, directory := range settings.Directories() {
		parsed, err := ecosystem.Parse(ctx, batch.CurrentDependencyFiles(job.ForDirectory(directory)), directory)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dependency files in %s: %w", directory, err)
		}
		for _, dependency := range parsed {
			if dependency.Directory == "" {
				dependency.Directory = directory
			}
		}
		dependencies = append(dependencies, parsed...)
	}

	ecosystemName := settings.Ecosystem
	if ecosystemName == "" {
		ecosystemName = ecosystem.Name()
	}
	return entities.NewDependencySnapshot(ecosystemName, settings.DependencyGroups(), files, dependencies), nil
}

// groupRun carries the per-run state of one Execute call.
type groupRun struct {
	*GroupUpdateCommand
	settings  *entities.Settings
	ecosystem repositories.EcosystemRepository
	snapshot  *entities.DependencySnapshot
}

// compileDirectories fans the group out over every directory and waits for all
// of them before returning the non-empty changes in directory order.
func (run *groupRun) compileDirectories(
	ctx context.Context,
	group *entities.DependencyGroup,
	job *entities.Job,
) ([]*entities.DependencyChange, error) {
	directories := run.settings.Directories()
	changes := make([]*entities.DependencyChange, len(directories))

	workers := run.settings.Workers
	if workers <= 0 {
		workers = len(directories)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, directory := range directories {
		g.Go(func() error {
			change, err := run.compileAllDependencyChangesFor(gctx, group, job.ForDirectory(directory))
			if err != nil {
				return err
			}
			changes[i] = change
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*entities.DependencyChange, 0, len(changes))
	for _, change := range changes {
		if change != nil && len(change.UpdatedDependencies) > 0 {
			result = append(result, change)
		}
	}
	return result, nil
}

// compileAllDependencyChangesFor updates every member of the group in one
// directory, one dependency at a time, feeding each update the files produced
// by the previous ones.
func (run *groupRun) compileAllDependencyChangesFor(
	ctx context.Context,
	group *entities.DependencyGroup,
	job *entities.Job,
) (*entities.DependencyChange, error) {
	snapshot := run.snapshot
	batch := grouping.NewDependencyGroupChangeBatch(snapshot.DependencyFiles)
	directory := job.Source.Directory

	for _, member := range snapshot.GroupMembers(group, directory) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if snapshot.Handled(member.Name, directory) {
			continue
		}

		files := batch.CurrentDependencyFiles(job)

		// the dependency may have been removed by a previous update
		reparsed, err := run.ecosystem.Parse(ctx, files, directory)
		if err != nil {
			run.handleDependencyError(member, err)
			continue
		}
		dependency := findDependency(reparsed, member.Name)
		if dependency == nil {
			continue
		}
		if dependency.Directory == "" {
			dependency.Directory = directory
		}

		updated := run.compileUpdatesFor(ctx, dependency, files, group, job)
		if len(updated) == 0 {
			continue
		}

		updatedFiles, err := run.ecosystem.UpdateFiles(ctx, updated, files, job)
		if err != nil {
			run.handleDependencyError(dependency, err)
			continue
		}

		batch.MergeChange(entities.NewDependencyChange(job, updated, updatedFiles))
	}

	return entities.NewDependencyChange(job, batch.UpdatedDependencies(), batch.UpdatedDependencyFiles()), nil
}

// compileUpdatesFor returns the dependencies that must change to update the
// given one, or nothing when it should not be updated in this group.
func (run *groupRun) compileUpdatesFor(
	ctx context.Context,
	dependency *entities.Dependency,
	files []*entities.DependencyFile,
	group *entities.DependencyGroup,
	job *entities.Job,
) []*entities.Dependency {
	logger.Infof("Checking if %s %s needs updating", dependency.Name, dependency.Version)

	vulnerable := job.Vulnerable(dependency)
	if job.SecurityUpdatesOnly && !vulnerable {
		run.recordSecurityFailure(entities.ErrorTypeSecurityUpdateNotNeeded, dependency, "")
		return nil
	}

	check, err := run.ecosystem.CheckForUpdate(ctx, dependency, files, job)
	if errors.Is(err, entities.ErrAllVersionsIgnored) {
		logger.Infof("All updates for %s were ignored", dependency.Name)
		if vulnerable {
			run.recordSecurityFailure(entities.ErrorTypeAllVersionsIgnored, dependency, "")
		}
		return nil
	}
	if err != nil {
		run.handleDependencyError(dependency, err)
		return nil
	}
	logger.Infof("Latest version is %s", check.LatestVersion)

	if !run.includeInGroup(group, dependency, check) {
		return nil
	}

	if check.UpToDate {
		logger.Infof("No update needed for %s %s", dependency.Name, dependency.Version)
		if vulnerable {
			run.recordSecurityFailure(entities.ErrorTypeSecurityUpdateNotFound, dependency, check.LatestVersion)
		}
		return nil
	}
	if !check.UpdatePossible {
		logger.Infof("No update possible for %s %s", dependency.Name, dependency.Version)
		if vulnerable {
			run.recordSecurityFailure(entities.ErrorTypeSecurityUpdateNotPossible, dependency, check.LatestVersion)
		}
		return nil
	}

	updated := check.UpdatedDependencies
	for _, candidate := range updated {
		if candidate.Directory == "" {
			candidate.Directory = dependency.Directory
		}
	}

	if vulnerable {
		lead := findDependency(updated, dependency.Name)
		if lead == nil || !job.SecurityFix(lead) {
			run.recordSecurityFailure(entities.ErrorTypeSecurityUpdateNotFound, dependency, check.LatestVersion)
			if job.SecurityUpdatesOnly {
				return nil
			}
		}
	}

	return updated
}

// includeInGroup rejects updates bigger than the update types the group lists;
// those belong in an individual pull request or another group.
func (it *GroupUpdateCommand) includeInGroup(
	group *entities.DependencyGroup,
	dependency *entities.Dependency,
	check *entities.UpdateCheck,
) bool {
	if len(group.Rule.UpdateTypes) == 0 {
		return true
	}
	if it.versions == nil {
		return false
	}
	updateType := it.versions.ClassifyUpdate(dependency.Version, check.LatestVersion)
	if updateType == "" {
		return false
	}
	return group.AllowsUpdateType(updateType)
}

func (run *groupRun) recordSecurityFailure(
	errorType string,
	dependency *entities.Dependency,
	latestVersion string,
) {
	failure := &entities.SecurityUpdateError{
		ErrorType:      errorType,
		DependencyName: dependency.Name,
		Version:        dependency.Version,
		LatestVersion:  latestVersion,
	}

	if run.reporter == nil || !run.settings.Features.EnhancedSecurityReporting {
		logger.Infof("Security update skipped: %v", failure)
		return
	}
	run.reporter.RecordUpdateJobError(errorType, dependency, failure)
}

func (it *GroupUpdateCommand) handleDependencyError(dependency *entities.Dependency, err error) {
	logger.Errorf("Error processing %s (%s)", dependency.Name, err)
	if it.reporter != nil {
		it.reporter.RecordUpdateJobError(entities.ErrorTypeUnknown, dependency, err)
	}
}

func findDependency(dependencies []*entities.Dependency, name string) *entities.Dependency {
	for _, dependency := range dependencies {
		if strings.EqualFold(dependency.Name, name) {
			return dependency
		}
	}
	return nil
}
