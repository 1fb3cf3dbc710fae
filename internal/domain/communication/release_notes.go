// Package communication provides domain types for release communication.
package communication

import (
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/version"
)

// ReleaseNotes is a value object holding the rendered notes for a single
// release, used as the body of a hosting-service release.
type ReleaseNotes struct {
	version version.SemanticVersion
	body    string
}

// Version returns the version the notes describe.
func (n *ReleaseNotes) Version() version.SemanticVersion {
	return n.version
}

// Body returns the rendered markdown body.
func (n *ReleaseNotes) Body() string {
	return n.body
}

// IsEmpty returns true when the release carried no visible changes.
func (n *ReleaseNotes) IsEmpty() bool {
	return strings.TrimSpace(n.body) == ""
}

// NotesForRelease renders the markdown notes for one release out of the
// history. The sections mirror the changelog entry for that version; the
// heading is omitted because hosting services title releases themselves.
func NotesForRelease(release *Release, ctx *ChangelogContext) *ReleaseNotes {
	sections := sectionsFromElements(release.Elements, ctx)

	var sb strings.Builder
	for _, section := range sections {
		sb.WriteString("### ")
		sb.WriteString(section.Title)
		sb.WriteString("\n\n")
		for _, item := range section.Items {
			sb.WriteString("- ")
			if item.Scope != "" {
				sb.WriteString("**")
				sb.WriteString(item.Scope)
				sb.WriteString(":** ")
			}
			sb.WriteString(item.Description)
			if item.CommitHash != "" {
				sb.WriteString(" (")
				if item.CommitURL != "" {
					sb.WriteString("[")
					sb.WriteString(item.CommitHash)
					sb.WriteString("](")
					sb.WriteString(item.CommitURL)
					sb.WriteString(")")
				} else {
					sb.WriteString(item.CommitHash)
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return &ReleaseNotes{
		version: release.Version,
		body:    strings.TrimRight(sb.String(), "\n") + "\n",
	}
}
