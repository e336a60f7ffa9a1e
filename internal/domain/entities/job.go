package entities

import "strings"

// Allowed update dependency types, as written in configuration.
const (
	allowTypeAll         = "all"
	allowTypeDirect      = "direct"
	allowTypeIndirect    = "indirect"
	allowTypeProduction  = "production"
	allowTypeDevelopment = "development"
	allowUpdateSecurity  = "security"
)

// Source locates the directory a job is running against.
type Source struct {
	Directory string
}

// AllowedUpdate is one "allow" rule of the job configuration.
type AllowedUpdate struct {
	DependencyName string `yaml:"dependency-name"`
	DependencyType string `yaml:"dependency-type"`
	UpdateType     string `yaml:"update-type"`
}

// IgnoreCondition is one "ignore" rule of the job configuration.
type IgnoreCondition struct {
	DependencyName string       `yaml:"dependency-name"`
	Versions       []string     `yaml:"versions"`
	UpdateTypes    []UpdateType `yaml:"update-types"`
}

// IgnoresAllVersions reports whether the condition ignores every version of the dependency.
func (c IgnoreCondition) IgnoresAllVersions() bool {
	if len(c.UpdateTypes) > 0 {
		return false
	}
	if len(c.Versions) == 0 {
		return true
	}
	for _, v := range c.Versions {
		if strings.TrimSpace(v) == ">= 0" || strings.TrimSpace(v) == "*" {
			return true
		}
	}
	return false
}

// SecurityAdvisory describes known-vulnerable versions of a dependency.
type SecurityAdvisory struct {
	DependencyName     string   `yaml:"dependency-name"`
	VulnerableVersions []string `yaml:"vulnerable-versions"`
	PatchedVersions    []string `yaml:"patched-versions"`
}

// IsVulnerable reports whether the given version is affected by the advisory.
func (a SecurityAdvisory) IsVulnerable(version string) bool {
	if version == "" {
		return false
	}
	for _, constraint := range a.PatchedVersions {
		if SatisfiesConstraint(version, constraint) {
			return false
		}
	}
	for _, constraint := range a.VulnerableVersions {
		if SatisfiesConstraint(version, constraint) {
			return true
		}
	}
	return false
}

// Job is the configuration of one update run.
type Job struct {
	Source               Source
	Dependencies         []string
	AllowedUpdates       []AllowedUpdate
	IgnoreConditions     []IgnoreCondition
	SecurityAdvisories   []SecurityAdvisory
	SecurityUpdatesOnly  bool
	UpdatingAPullRequest bool
}

// ForDirectory returns a shallow copy of the job rooted at another directory.
func (j *Job) ForDirectory(directory string) *Job {
	clone := *j
	clone.Source = Source{Directory: directory}
	return &clone
}

// Scope returns the update scope this job runs under.
func (j *Job) Scope() string {
	if j.SecurityUpdatesOnly {
		return AppliesToSecurityUpdates
	}
	return AppliesToVersionUpdates
}

// IgnoreConditionsFor returns the ignore rules that apply to the dependency.
func (j *Job) IgnoreConditionsFor(dependency *Dependency) []IgnoreCondition {
	var conditions []IgnoreCondition
	for _, condition := range j.IgnoreConditions {
		if MatchPattern(condition.DependencyName, dependency.Name) {
			conditions = append(conditions, condition)
		}
	}
	return conditions
}

// AllowedUpdate reports whether the job's allow rules accept the dependency.
// A job without allow rules accepts everything.
func (j *Job) AllowedUpdate(dependency *Dependency) bool {
	if len(j.AllowedUpdates) == 0 {
		return !j.SecurityUpdatesOnly || j.Vulnerable(dependency)
	}

	for _, update := range j.AllowedUpdates {
		securityUpdate := update.UpdateType == allowUpdateSecurity || j.SecurityUpdatesOnly
		if securityUpdate && !j.Vulnerable(dependency) {
			continue
		}
		if update.DependencyName != "" && !MatchPattern(update.DependencyName, dependency.Name) {
			continue
		}
		if !j.allowsDependencyType(update.DependencyType, dependency) {
			continue
		}
		return true
	}
	return false
}

func (j *Job) allowsDependencyType(depType string, dependency *Dependency) bool {
	switch depType {
	case "", allowTypeAll:
		return true
	case allowTypeIndirect:
		return !dependency.TopLevel()
	case allowTypeDirect:
		return j.SecurityUpdatesOnly || dependency.TopLevel()
	case allowTypeProduction:
		return (j.SecurityUpdatesOnly || dependency.TopLevel()) && dependency.Production()
	case allowTypeDevelopment:
		return (j.SecurityUpdatesOnly || dependency.TopLevel()) && !dependency.Production()
	default:
		return true
	}
}

// SecurityAdvisoriesFor returns the advisories that name the dependency.
func (j *Job) SecurityAdvisoriesFor(dependency *Dependency) []SecurityAdvisory {
	var advisories []SecurityAdvisory
	for _, advisory := range j.SecurityAdvisories {
		if strings.EqualFold(advisory.DependencyName, dependency.Name) {
			advisories = append(advisories, advisory)
		}
	}
	return advisories
}

// Vulnerable reports whether the dependency's current (pre-update) version is affected
// by any advisory.
func (j *Job) Vulnerable(dependency *Dependency) bool {
	version := dependency.PreviousVersion
	if version == "" {
		version = dependency.Version
	}
	for _, advisory := range j.SecurityAdvisoriesFor(dependency) {
		if advisory.IsVulnerable(version) {
			return true
		}
	}
	return false
}

// SecurityFix reports whether the dependency's new version fixes every advisory
// affecting its previous version.
func (j *Job) SecurityFix(dependency *Dependency) bool {
	advisories := j.SecurityAdvisoriesFor(dependency)
	if len(advisories) == 0 || dependency.PreviousVersion == "" {
		return false
	}
	fixed := false
	for _, advisory := range advisories {
		if !advisory.IsVulnerable(dependency.PreviousVersion) {
			continue
		}
		if advisory.IsVulnerable(dependency.Version) {
			return false
		}
		fixed = true
	}
	return fixed
}

// MissingDependencies returns the explicitly requested dependency names that are
// absent from the given set of names.
func (j *Job) MissingDependencies(available []*Dependency) []string {
	present := make(map[string]bool, len(available))
	for _, dependency := range available {
		present[strings.ToLower(dependency.Name)] = true
	}
	var missing []string
	for _, name := range j.Dependencies {
		if !present[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing
}
