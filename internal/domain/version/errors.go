// Package version provides domain types for semantic versioning.
package version

import "errors"

// Domain errors for version operations.
var (
	// ErrInvalidVersion indicates an invalid version string.
	ErrInvalidVersion = errors.New("invalid semantic version")

	// ErrInvalidTagFormat indicates a tag format without a {version} placeholder.
	ErrInvalidTagFormat = errors.New("tag format must contain {version}")

	// ErrNotAVersionTag indicates a tag name that does not translate to a version.
	ErrNotAVersionTag = errors.New("tag is not a version tag")
)
