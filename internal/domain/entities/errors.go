package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllVersionsIgnored is returned by update checkers when every candidate
// version of a dependency is excluded by ignore conditions.
var ErrAllVersionsIgnored = errors.New("all versions ignored")

// ErrUpdateNotPossible is returned when a newer version exists but cannot be
// reached without breaking other requirements.
var ErrUpdateNotPossible = errors.New("update not possible")

// Security error types reported for security-relevant failures.
const (
	ErrorTypeSecurityUpdateNotPossible = "security_update_not_possible"
	ErrorTypeSecurityUpdateNotFound    = "security_update_not_found"
	ErrorTypeAllVersionsIgnored        = "all_versions_ignored"
	ErrorTypeSecurityUpdateNotNeeded   = "security_update_not_needed"
	ErrorTypeDependencyNotFound        = "dependency_not_found"
	ErrorTypeUnknown                   = "unknown_error"
)

// DependencyNotFoundError is raised when a job names dependencies the snapshot lacks.
type DependencyNotFoundError struct {
	Names []string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("dependencies not found: %s", strings.Join(e.Names, ", "))
}

// SecurityUpdateError is a security-relevant failure for one dependency.
type SecurityUpdateError struct {
	ErrorType      string
	DependencyName string
	Version        string
	LatestVersion  string
}

func (e *SecurityUpdateError) Error() string {
	if e.LatestVersion != "" {
		return fmt.Sprintf(
			"%s: %s %s (latest %s)", e.ErrorType, e.DependencyName, e.Version, e.LatestVersion,
		)
	}
	return fmt.Sprintf("%s: %s %s", e.ErrorType, e.DependencyName, e.Version)
}
