package entities

import (
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// CanonicalVersion normalizes a version into the "vMAJOR.MINOR.PATCH" form
// understood by semver, filling missing segments with zero. The boolean is false
// when the input is not a semantic version.
func CanonicalVersion(version string) (string, bool) {
	version = strings.TrimSpace(version)
	if version == "" {
		return "", false
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return "", false
	}
	return semver.Canonical(version), true
}

// CompareVersions compares two versions, returning -1, 0 or +1. Non-semantic
// versions fall back to plain string ordering.
func CompareVersions(a, b string) int {
	ca, okA := CanonicalVersion(a)
	cb, okB := CanonicalVersion(b)
	if okA && okB {
		return semver.Compare(ca, cb)
	}
	return strings.Compare(a, b)
}

// SatisfiesConstraint reports whether version satisfies a comma-separated list of
// comparator clauses such as ">= 1.0, < 1.2.3". An empty constraint matches all.
// Inputs the semver constraint grammar rejects are compared clause by clause.
func SatisfiesConstraint(version, constraint string) bool {
	if strings.TrimSpace(constraint) == "" {
		return true
	}
	if c, err := mmsemver.NewConstraint(constraint); err == nil {
		if v, versionErr := mmsemver.NewVersion(version); versionErr == nil {
			return c.Check(v)
		}
	}

	for _, clause := range strings.Split(constraint, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if !satisfiesClause(version, clause) {
			return false
		}
	}
	return true
}

func satisfiesClause(version, clause string) bool {
	for _, op := range []string{">=", "<=", "!=", "==", ">", "<", "="} {
		if !strings.HasPrefix(clause, op) {
			continue
		}
		cmp := CompareVersions(version, strings.TrimSpace(strings.TrimPrefix(clause, op)))
		switch op {
		case ">=":
			return cmp >= 0
		case "<=":
			return cmp <= 0
		case "!=":
			return cmp != 0
		case ">":
			return cmp > 0
		case "<":
			return cmp < 0
		default:
			return cmp == 0
		}
	}
	return CompareVersions(version, clause) == 0
}
