package version

// LevelBump is a totally ordered enumeration of version-bump magnitudes.
// NO_RELEASE < PATCH < MINOR < MAJOR.
type LevelBump int

const (
	// NoRelease means nothing in the walked history warrants a new version.
	NoRelease LevelBump = iota
	Patch
	Minor
	Major
)

// String returns the canonical lowercase name of the bump level.
func (l LevelBump) String() string {
	switch l {
	case NoRelease:
		return "no-release"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "unknown"
	}
}

// Max returns the larger of two level bumps.
func (l LevelBump) Max(other LevelBump) LevelBump {
	if other > l {
		return other
	}
	return l
}

// Bump returns a new version with level applied: major/minor/patch are
// incremented and all lower-order fields reset to zero; the prerelease and
// build metadata are cleared. NoRelease returns an identical clone.
func (v SemanticVersion) Bump(level LevelBump) SemanticVersion {
	switch level {
	case Major:
		return SemanticVersion{major: v.major + 1}
	case Minor:
		return SemanticVersion{major: v.major, minor: v.minor + 1}
	case Patch:
		return SemanticVersion{major: v.major, minor: v.minor, patch: v.patch + 1}
	default:
		return v
	}
}

// Sub returns the coarsest LevelBump that differs between v's core triple
// and other's, used to measure how far a prerelease has progressed past its
// last full-release baseline.
func (v SemanticVersion) Sub(other SemanticVersion) LevelBump {
	if v.major != other.major {
		return Major
	}
	if v.minor != other.minor {
		return Minor
	}
	if v.patch != other.patch {
		return Patch
	}
	return NoRelease
}
