package corpus

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CanonicalVersion normalizes a license list version ("3.24", "v3.24.0") to semver form ("v3.24.0").
// Versions that are not semantic versions are returned trimmed.
func CanonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	candidate := version
	if !strings.HasPrefix(candidate, "v") {
		candidate = "v" + candidate
	}
	if canonical := semver.Canonical(candidate); canonical != "" {
		return canonical
	}
	return version
}

// IsValidVersion returns true for semantic license list versions
func IsValidVersion(version string) bool {
	return semver.IsValid(CanonicalVersion(version))
}

