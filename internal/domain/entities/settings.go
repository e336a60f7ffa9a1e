package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultWorkers = 4

	envEnforceGroupMembership    = "AUTOGROUP_ENFORCE_GROUP_MEMBERSHIP"
	envEnhancedSecurityReporting = "AUTOGROUP_ENHANCED_SECURITY_REPORTING"
)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Settings is the top-level configuration for autogroup.
type Settings struct {
	Ecosystem string          `yaml:"ecosystem"`
	Features  FeatureFlags    `yaml:"features"`
	Workers   int             `yaml:"workers"`
	Job       JobSettings     `yaml:"job"`
	Groups    []GroupSettings `yaml:"groups"`
}

// FeatureFlags toggles optional behavior, resolved once per run.
type FeatureFlags struct {
	EnforceGroupMembership    bool `yaml:"enforce_group_membership"`
	EnhancedSecurityReporting bool `yaml:"enhanced_security_reporting"`
}

// JobSettings describes the update job applied to every configured directory.
type JobSettings struct {
	Directories          []string           `yaml:"directories"`
	Dependencies         []string           `yaml:"dependencies"`
	SecurityUpdatesOnly  bool               `yaml:"security_updates_only"`
	UpdatingAPullRequest bool               `yaml:"updating_a_pull_request"`
	Allow                []AllowedUpdate    `yaml:"allow"`
	Ignore               []IgnoreCondition  `yaml:"ignore"`
	SecurityAdvisories   []SecurityAdvisory `yaml:"security_advisories"`
}

// GroupSettings is one entry of the "groups" list.
type GroupSettings struct {
	Name            string       `yaml:"name"`
	AppliesTo       string       `yaml:"applies-to"`
	Patterns        []string     `yaml:"patterns"`
	ExcludePatterns []string     `yaml:"exclude-patterns"`
	UpdateTypes     []UpdateType `yaml:"update-types"`
	DependencyType  string       `yaml:"dependency-type"`
	Dependencies    []string     `yaml:"dependencies"`
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and applying feature flag overrides.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings parses configuration content.
func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Workers <= 0 {
		settings.Workers = defaultWorkers
	}
	settings.Features = applyFeatureOverrides(settings.Features)

	if err := validate(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".autogroup.yaml",
		".autogroup.yml",
		"autogroup.yaml",
		"autogroup.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// DependencyGroups builds the configured groups.
func (s *Settings) DependencyGroups() []*DependencyGroup {
	groups := make([]*DependencyGroup, 0, len(s.Groups))
	for _, cfg := range s.Groups {
		groups = append(groups, NewDependencyGroup(cfg.Name, DependencyGroupRule{
			Patterns:        cfg.Patterns,
			ExcludePatterns: cfg.ExcludePatterns,
			UpdateTypes:     cfg.UpdateTypes,
			DependencyType:  cfg.DependencyType,
			AppliesTo:       cfg.AppliesTo,
		}, cfg.Dependencies...))
	}
	return groups
}

// Directories returns the job directories, defaulting to the repository root.
func (s *Settings) Directories() []string {
	if len(s.Job.Directories) == 0 {
		return []string{"/"}
	}
	return s.Job.Directories
}

// NewJob builds the job for the first configured directory.
func (s *Settings) NewJob() *Job {
	return &Job{
		Source:               Source{Directory: s.Directories()[0]},
		Dependencies:         s.Job.Dependencies,
		AllowedUpdates:       s.Job.Allow,
		IgnoreConditions:     s.Job.Ignore,
		SecurityAdvisories:   s.Job.SecurityAdvisories,
		SecurityUpdatesOnly:  s.Job.SecurityUpdatesOnly,
		UpdatingAPullRequest: s.Job.UpdatingAPullRequest,
	}
}

// expandEnv replaces ${ENV_VAR} references with their values.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

func applyFeatureOverrides(flags FeatureFlags) FeatureFlags {
	flags.EnforceGroupMembership = boolFromEnv(envEnforceGroupMembership, flags.EnforceGroupMembership)
	flags.EnhancedSecurityReporting = boolFromEnv(
		envEnhancedSecurityReporting, flags.EnhancedSecurityReporting,
	)
	return flags
}

func boolFromEnv(name string, fallback bool) bool {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warnf("Ignoring invalid boolean %q in %s", raw, name)
		return fallback
	}
	return value
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if settings.Ecosystem == "" {
		return errors.New("ecosystem is required")
	}
	if len(settings.Groups) == 0 {
		return errors.New("at least one group must be configured")
	}

	seen := make(map[string]bool, len(settings.Groups))
	for i, group := range settings.Groups {
		if group.Name == "" {
			return fmt.Errorf("groups[%d].name is required", i)
		}
		if seen[group.Name] {
			return fmt.Errorf("groups[%d].name %q is duplicated", i, group.Name)
		}
		seen[group.Name] = true

		switch group.AppliesTo {
		case "", AppliesToVersionUpdates, AppliesToSecurityUpdates:
		default:
			return fmt.Errorf("groups[%d].applies-to %q is not supported", i, group.AppliesTo)
		}
		switch group.DependencyType {
		case "", DependencyTypeProduction, DependencyTypeDevelopment:
		default:
			return fmt.Errorf("groups[%d].dependency-type %q is not supported", i, group.DependencyType)
		}
		for _, updateType := range group.UpdateTypes {
			switch updateType {
			case UpdateTypeMajor, UpdateTypeMinor, UpdateTypePatch:
			default:
				return fmt.Errorf("groups[%d].update-types %q is not supported", i, updateType)
			}
		}
	}

	return nil
}
