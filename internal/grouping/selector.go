package grouping

import (
	"fmt"
	"sort"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// Metric names emitted by the selector.
const (
	MetricFilteredOutCount     = "dependabot.group.filtered_out_count"
	MetricDependencyDriftCount = "dependabot.group.dependency_drift_count"

	maxLoggedNames = 10
)

// SelectorOptions carries the collaborators of a GroupDependencySelector. Every
// field is optional.
type SelectorOptions struct {
	Features       entities.FeatureFlags
	Calculator     *PatternSpecificityCalculator
	Contains       ContainsFunc
	Versions       repositories.VersionRepository
	Metrics        repositories.MetricsRepository
	Attributions   *entities.AttributionStore
	DriftDetectors []repositories.DriftDetectorRepository
	Logger         logger.FieldLogger
	Clock          func() time.Time
}

// GroupDependencySelector narrows the changes computed for one group down to the
// dependencies that group owns.
type GroupDependencySelector struct {
	group    *entities.DependencyGroup
	snapshot *entities.DependencySnapshot
	options  SelectorOptions

	filtered []*entities.Dependency
	drift    []string
}

// NewGroupDependencySelector creates a selector for the group.
func NewGroupDependencySelector(
	group *entities.DependencyGroup,
	snapshot *entities.DependencySnapshot,
	options SelectorOptions,
) *GroupDependencySelector {
	if options.Calculator == nil {
		options.Calculator = NewPatternSpecificityCalculator()
	}
	if options.Contains == nil {
		options.Contains = DefaultContains
	}
	if options.Attributions == nil {
		options.Attributions = entities.NewAttributionStore()
	}
	if options.Logger == nil {
		options.Logger = logger.StandardLogger()
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	return &GroupDependencySelector{
		group:    group,
		snapshot: snapshot,
		options:  options,
	}
}

// MergePerDirectory combines per-directory changes into one. Dependencies are
// kept once per (directory, name) and files once per (directory, name), so the
// same package updated in two directories survives twice. A single change is
// returned untouched.
func (it *GroupDependencySelector) MergePerDirectory(changes []*entities.DependencyChange) *entities.DependencyChange {
	if len(changes) == 0 {
		return entities.NewDependencyChange(nil, nil, nil)
	}
	if len(changes) == 1 {
		return changes[0]
	}

	type updateKey struct{ directory, name string }
	seenUpdates := make(map[updateKey]bool)
	seenFiles := make(map[entities.FileKey]bool)

	var dependencies []*entities.Dependency
	var files []*entities.DependencyFile

	for _, change := range changes {
		for _, dependency := range change.UpdatedDependencies {
			key := updateKey{directory: dependencyDirectory(dependency, change), name: dependency.Name}
			if seenUpdates[key] {
				continue
			}
			seenUpdates[key] = true
			dependencies = append(dependencies, dependency)
		}

		for _, file := range change.UpdatedDependencyFiles {
			if seenFiles[file.Key()] {
				continue
			}
			seenFiles[file.Key()] = true
			files = append(files, file)
		}
	}

	it.log().Infof(
		"GroupDependencySelector merged %d directory changes into %d unique dependencies [group=%s, ecosystem=%s]",
		len(changes), len(dependencies), it.group.Name, it.snapshot.Ecosystem,
	)

	return entities.NewDependencyChange(changes[0].Job, dependencies, files)
}

// FilterToGroup keeps only the dependencies this group owns. Files are left as
// they are. It does nothing unless group membership enforcement is enabled.
func (it *GroupDependencySelector) FilterToGroup(change *entities.DependencyChange) {
	if !it.options.Features.EnforceGroupMembership {
		return
	}

	total := len(change.UpdatedDependencies)
	eligible, filtered := it.PartitionDependencies(change)

	change.UpdatedDependencies = eligible
	it.filtered = filtered

	it.emitFilteringMetrics(change.Directory(), total, len(eligible), len(filtered))
	if len(filtered) > 0 {
		it.logFilteredDependencies(filtered)
	}
}

// PartitionDependencies splits the change's dependencies into the ones this group
// owns and the ones it does not, attributing every dependency on the way.
func (it *GroupDependencySelector) PartitionDependencies(
	change *entities.DependencyChange,
) ([]*entities.Dependency, []*entities.Dependency) {
	var eligible, filtered []*entities.Dependency

	for _, dependency := range change.UpdatedDependencies {
		directory := dependencyDirectory(dependency, change)
		reason := it.selectionReason(dependency, directory, change.Job)
		it.annotate(dependency, reason, directory)

		if reason == entities.SelectionReasonDirect {
			eligible = append(eligible, dependency)
		} else {
			filtered = append(filtered, dependency)
		}
	}

	return eligible, filtered
}

// AnnotateDependencyDrift records the dependencies whose locked version changed
// as a side effect of the direct updates. It does nothing unless group
// membership enforcement is enabled.
func (it *GroupDependencySelector) AnnotateDependencyDrift(change *entities.DependencyChange) {
	if !it.options.Features.EnforceGroupMembership {
		return
	}

	direct := make(map[string]bool, len(change.UpdatedDependencies))
	for _, dependency := range change.UpdatedDependencies {
		direct[strings.ToLower(dependency.Name)] = true
	}

	var drift []string
	for _, file := range change.UpdatedDependencyFiles {
		drift = append(drift, it.detectFileDrift(file, direct)...)
	}
	if len(drift) == 0 {
		return
	}

	it.drift = drift
	it.emitDependencyDriftMetrics(change.Directory(), len(drift))
	it.logDependencyDrift(drift)
}

// FilteredDependencies returns the dependencies removed by the last FilterToGroup.
func (it *GroupDependencySelector) FilteredDependencies() []*entities.Dependency {
	return it.filtered
}

// DependencyDrift returns the drift identifiers found by the last
// AnnotateDependencyDrift: "name@old->new", or "name@->new" for added entries.
func (it *GroupDependencySelector) DependencyDrift() []string {
	return it.drift
}

// Attributions returns the store the selector writes to.
func (it *GroupDependencySelector) Attributions() *entities.AttributionStore {
	return it.options.Attributions
}

func (it *GroupDependencySelector) selectionReason(
	dependency *entities.Dependency,
	directory string,
	job *entities.Job,
) entities.SelectionReason {
	if !it.options.Contains(it.group, dependency, directory) {
		return entities.SelectionReasonNotInGroup
	}
	if !allowedByConfig(dependency, job) {
		return entities.SelectionReasonFilteredByConfig
	}

	var updateType entities.UpdateType
	if it.options.Versions != nil {
		updateType = it.options.Versions.ClassifyUpdate(dependency.PreviousVersion, dependency.Version)
	}

	// an unscoped group competes under the scope of the running job
	appliesTo := it.group.AppliesTo()
	if appliesTo == "" && job != nil {
		appliesTo = job.Scope()
	}

	if it.options.Calculator.DependencyBelongsToMoreSpecificGroup(
		it.group,
		dependency,
		it.snapshot.Groups,
		it.options.Contains,
		directory,
		updateType,
		appliesTo,
	) {
		return entities.SelectionReasonBelongsToMoreSpecificGroup
	}
	return entities.SelectionReasonDirect
}

// allowedByConfig applies the job's ignore and allow rules. A missing job
// allows everything.
func allowedByConfig(dependency *entities.Dependency, job *entities.Job) bool {
	if job == nil {
		return true
	}
	for _, condition := range job.IgnoreConditionsFor(dependency) {
		if condition.IgnoresAllVersions() {
			return false
		}
	}
	return job.AllowedUpdate(dependency)
}

func (it *GroupDependencySelector) annotate(
	dependency *entities.Dependency,
	reason entities.SelectionReason,
	directory string,
) {
	it.options.Attributions.AnnotateDependency(dependency, entities.Attribution{
		SelectionReason: reason,
		SourceGroup:     it.group.Name,
		Directory:       directory,
		Timestamp:       it.options.Clock(),
	})
}

func (it *GroupDependencySelector) detectFileDrift(file *entities.DependencyFile, direct map[string]bool) []string {
	detector := it.driftDetectorFor(file.Name)
	if detector == nil {
		return nil
	}

	original := it.snapshot.OriginalFile(file.Key())
	if original == nil {
		return nil
	}

	before, err := detector.Dependencies(original)
	if err != nil {
		it.log().Debugf("Skipping drift detection for %s: %v", original.Path(), err)
		return nil
	}
	after, err := detector.Dependencies(file)
	if err != nil {
		it.log().Debugf("Skipping drift detection for %s: %v", file.Path(), err)
		return nil
	}

	names := make([]string, 0, len(after))
	for name := range after {
		names = append(names, name)
	}
	sort.Strings(names)

	var drift []string
	for _, name := range names {
		// entries new to the lockfile have no previous version: "name@->new"
		previous, ok := before[name]
		if (ok && previous == after[name]) || direct[strings.ToLower(name)] {
			continue
		}
		drift = append(drift, fmt.Sprintf("%s@%s->%s", name, previous, after[name]))
	}
	return drift
}

func (it *GroupDependencySelector) driftDetectorFor(fileName string) repositories.DriftDetectorRepository {
	for _, detector := range it.options.DriftDetectors {
		if detector.Supports(fileName) {
			return detector
		}
	}
	return nil
}

func (it *GroupDependencySelector) emitFilteringMetrics(directory string, total, eligible, filtered int) {
	it.log().Debugf(
		"Group filtering kept %d of %d dependencies in %s [group=%s, ecosystem=%s]",
		eligible, total, directory, it.group.Name, it.snapshot.Ecosystem,
	)
	if it.options.Metrics == nil {
		return
	}
	it.options.Metrics.Increment(MetricFilteredOutCount, filtered, it.metricTags(directory))
}

func (it *GroupDependencySelector) emitDependencyDriftMetrics(directory string, count int) {
	if it.options.Metrics == nil {
		return
	}
	it.options.Metrics.Increment(MetricDependencyDriftCount, count, it.metricTags(directory))
}

func (it *GroupDependencySelector) metricTags(directory string) map[string]string {
	return map[string]string{
		"group":     it.group.Name,
		"ecosystem": it.snapshot.Ecosystem,
		"directory": directory,
	}
}

func (it *GroupDependencySelector) logFilteredDependencies(filtered []*entities.Dependency) {
	byReason := make(map[entities.SelectionReason][]string)
	for _, dependency := range filtered {
		var reason entities.SelectionReason
		if attribution, ok := it.options.Attributions.GetAttribution(dependency); ok {
			reason = attribution.SelectionReason
		}
		byReason[reason] = append(byReason[reason], dependency.Name)
	}

	messages := []struct {
		reason entities.SelectionReason
		prefix string
	}{
		{entities.SelectionReasonNotInGroup, "Filtered dependencies not in group"},
		{entities.SelectionReasonFilteredByConfig, "Filtered dependencies by configuration"},
		{entities.SelectionReasonBelongsToMoreSpecificGroup, "Deferred dependencies to a more specific group"},
	}
	for _, message := range messages {
		names := byReason[message.reason]
		if len(names) == 0 {
			continue
		}
		it.log().WithField("count", len(names)).Infof(
			"%s: %s [group=%s, ecosystem=%s, count=%d]",
			message.prefix, cappedList(names), it.group.Name, it.snapshot.Ecosystem, len(names),
		)
	}
}

func (it *GroupDependencySelector) logDependencyDrift(drift []string) {
	it.log().WithField("dependency_drift_count", len(drift)).Infof(
		"Dependency drift detected: %s [group=%s, ecosystem=%s, dependency_drift_count=%d]",
		cappedList(drift), it.group.Name, it.snapshot.Ecosystem, len(drift),
	)
}

func (it *GroupDependencySelector) log() logger.FieldLogger {
	return it.options.Logger.WithFields(logger.Fields{
		"group":     it.group.Name,
		"ecosystem": it.snapshot.Ecosystem,
	})
}

func cappedList(names []string) string {
	if len(names) <= maxLoggedNames {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:maxLoggedNames], ", ") + " (showing first 10)"
}

// dependencyDirectory returns the directory a dependency was updated in,
// falling back to the change's own directory.
func dependencyDirectory(dependency *entities.Dependency, change *entities.DependencyChange) string {
	if dependency.Directory != "" {
		return dependency.Directory
	}
	return change.Directory()
}
