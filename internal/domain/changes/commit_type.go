// Package changes provides domain types for analyzing commit changes.
package changes

import "strings"

// CommitType is the canonicalized classification of a parsed commit, e.g.
// "feature" for feat commits and "unknown" for parse failures. It is the
// key under which results are bucketed in a release history.
type CommitType string

// Canonical commit types produced by the built-in parsers.
const (
	CommitTypeFeature       CommitType = "feature"
	CommitTypeFix           CommitType = "fix"
	CommitTypeDocumentation CommitType = "documentation"
	CommitTypeStyle         CommitType = "style"
	CommitTypeRefactor      CommitType = "refactor"
	CommitTypePerformance   CommitType = "performance"
	CommitTypeTest          CommitType = "test"
	CommitTypeBuild         CommitType = "build"
	CommitTypeCI            CommitType = "ci"
	CommitTypeChore         CommitType = "chore"
	CommitTypeRevert        CommitType = "revert"
	CommitTypeEmoji         CommitType = "emoji"
	// CommitTypeUnknown buckets commits whose message did not parse.
	CommitTypeUnknown CommitType = "unknown"
)

// String returns the string representation of the commit type.
func (t CommitType) String() string {
	return string(t)
}

// DisplayOrder returns the canonical ordering of commit types in rendered
// changelogs. Types not listed here sort after listed ones, alphabetically.
func DisplayOrder() []CommitType {
	return []CommitType{
		CommitTypeFeature,
		CommitTypeFix,
		CommitTypePerformance,
		CommitTypeDocumentation,
		CommitTypeRefactor,
		CommitTypeBuild,
		CommitTypeCI,
		CommitTypeTest,
		CommitTypeStyle,
		CommitTypeChore,
		CommitTypeRevert,
		CommitTypeUnknown,
	}
}

// DisplayRank returns the position of t in the display order, or the length
// of the order when t is not a known type.
func (t CommitType) DisplayRank() int {
	for i, known := range DisplayOrder() {
		if t == known {
			return i
		}
	}
	return len(DisplayOrder())
}

// SectionTitle returns the changelog section heading for this commit type.
func (t CommitType) SectionTitle() string {
	switch t {
	case CommitTypeFeature:
		return "Features"
	case CommitTypeFix:
		return "Bug Fixes"
	case CommitTypePerformance:
		return "Performance Improvements"
	case CommitTypeDocumentation:
		return "Documentation"
	case CommitTypeRefactor:
		return "Code Refactoring"
	case CommitTypeTest:
		return "Tests"
	case CommitTypeBuild:
		return "Build System"
	case CommitTypeCI:
		return "Continuous Integration"
	case CommitTypeChore:
		return "Chores"
	case CommitTypeRevert:
		return "Reverts"
	case CommitTypeStyle:
		return "Styles"
	case CommitTypeEmoji:
		return "Changes"
	case CommitTypeUnknown:
		return "Other"
	default:
		// Custom parser types render with a capitalized heading.
		s := string(t)
		if s == "" {
			return "Other"
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// AffectsChangelog returns true if this commit type should appear in the
// default changelog template.
func (t CommitType) AffectsChangelog() bool {
	switch t {
	case CommitTypeChore, CommitTypeCI, CommitTypeStyle, CommitTypeTest:
		return false
	default:
		return true
	}
}
