// Package communication provides domain types for release communication.
package communication

import (
	"sort"
	"strings"
	"time"

	"github.com/relicta-tech/semrel/internal/domain/changes"
	"github.com/relicta-tech/semrel/internal/domain/version"
)

// ChangelogFormat represents the format of a changelog.
type ChangelogFormat string

const (
	// FormatKeepAChangelog follows the Keep a Changelog format.
	FormatKeepAChangelog ChangelogFormat = "keep-a-changelog"
	// FormatConventional follows the Conventional Changelog format.
	FormatConventional ChangelogFormat = "conventional"
	// FormatSimple uses a simple markdown format.
	FormatSimple ChangelogFormat = "simple"
)

// IsValid returns true if the format is valid.
func (f ChangelogFormat) IsValid() bool {
	switch f {
	case FormatKeepAChangelog, FormatConventional, FormatSimple:
		return true
	default:
		return false
	}
}

// ChangelogEntry represents a single entry in the changelog: one released
// version, or the unreleased bucket.
type ChangelogEntry struct {
	Version      version.SemanticVersion
	Date         time.Time
	Sections     []ChangelogSection
	CompareURL   string
	IsUnreleased bool
}

// ChangelogSection represents a section within a changelog entry.
type ChangelogSection struct {
	Title string
	Items []ChangelogItem
}

// ChangelogItem represents a single item in a changelog section.
type ChangelogItem struct {
	Description string
	Scope       string
	CommitHash  string
	CommitURL   string
	Breaking    bool
}

// Changelog is a value object representing a complete changelog.
type Changelog struct {
	title   string
	entries []ChangelogEntry
	format  ChangelogFormat
}

// NewChangelog creates a new Changelog.
func NewChangelog(title string, format ChangelogFormat) *Changelog {
	return &Changelog{
		title:   title,
		format:  format,
		entries: make([]ChangelogEntry, 0),
	}
}

// Title returns the changelog title.
func (c *Changelog) Title() string {
	return c.title
}

// Format returns the changelog format.
func (c *Changelog) Format() ChangelogFormat {
	return c.format
}

// Entries returns all changelog entries.
func (c *Changelog) Entries() []ChangelogEntry {
	return c.entries
}

// AddEntry appends an entry to the changelog.
func (c *Changelog) AddEntry(entry ChangelogEntry) {
	c.entries = append(c.entries, entry)
}

// FromReleaseHistory builds a Changelog from a grouped release history. The
// unreleased bucket becomes the first entry when non-empty; released
// versions follow in discovery order (newest first). The context, when
// given, contributes commit and comparison links.
func FromReleaseHistory(title string, format ChangelogFormat, history *ReleaseHistory, ctx *ChangelogContext) *Changelog {
	cl := NewChangelog(title, format)

	if history.UnreleasedCount() > 0 {
		cl.AddEntry(ChangelogEntry{
			IsUnreleased: true,
			Sections:     sectionsFromElements(history.Unreleased, ctx),
		})
	}

	for i, release := range history.Released {
		entry := ChangelogEntry{
			Version:  release.Version,
			Date:     release.TaggedDate,
			Sections: sectionsFromElements(release.Elements, ctx),
		}
		if ctx != nil && i+1 < len(history.Released) {
			prev := history.Released[i+1]
			entry.CompareURL = ctx.CompareURL(prev.Version.TagString(), release.Version.TagString())
		}
		cl.AddEntry(entry)
	}

	return cl
}

// sectionsFromElements converts a type-to-results bucket into ordered
// changelog sections. Types render in display order; commit types that are
// filtered out of changelogs (chores, ci, style, test) are skipped.
func sectionsFromElements(elements map[string][]changes.ParseResult, ctx *ChangelogContext) []ChangelogSection {
	types := make([]changes.CommitType, 0, len(elements))
	for t := range elements {
		types = append(types, changes.CommitType(t))
	}
	sort.Slice(types, func(i, j int) bool {
		ri, rj := types[i].DisplayRank(), types[j].DisplayRank()
		if ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})

	var sections []ChangelogSection
	for _, t := range types {
		if !t.AffectsChangelog() {
			continue
		}

		section := ChangelogSection{Title: t.SectionTitle()}
		for _, result := range elements[t.String()] {
			section.Items = append(section.Items, itemFromResult(result, ctx))
		}
		if len(section.Items) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}

func itemFromResult(result changes.ParseResult, ctx *ChangelogContext) ChangelogItem {
	ref := result.CommitRefValue()
	item := ChangelogItem{
		Description: ref.Subject,
		CommitHash:  shortHash(ref.Hash),
	}
	if ctx != nil && ref.Hash != "" {
		item.CommitURL = ctx.CommitHashURL(ref.Hash)
	}

	if result.IsError() {
		return item
	}

	commit := result.Commit
	item.Scope = commit.Scope
	if len(commit.Descriptions) > 0 {
		item.Description = commit.Descriptions[0]
	}
	if commit.IsBreaking() {
		item.Breaking = true
		item.Description = commit.BreakingDescriptions[0]
	}
	return item
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Render renders the changelog to markdown.
func (c *Changelog) Render() string {
	var sb strings.Builder
	estimatedSize := len(c.title) + 100
	for _, entry := range c.entries {
		estimatedSize += 100 + len(entry.Version.String())
		for _, section := range entry.Sections {
			estimatedSize += 50 + len(section.Title)
			for _, item := range section.Items {
				estimatedSize += len(item.Description) + len(item.CommitURL) + 10
			}
		}
	}
	sb.Grow(estimatedSize)

	sb.WriteString("# ")
	sb.WriteString(c.title)
	sb.WriteString("\n\n")

	for _, entry := range c.entries {
		c.renderEntry(&sb, entry)
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderEntry renders a single changelog entry.
func (c *Changelog) renderEntry(sb *strings.Builder, entry ChangelogEntry) {
	if entry.IsUnreleased {
		sb.WriteString("## [Unreleased]")
	} else {
		sb.WriteString("## [")
		sb.WriteString(entry.Version.String())
		sb.WriteString("]")
		if entry.CompareURL != "" {
			sb.WriteString("(")
			sb.WriteString(entry.CompareURL)
			sb.WriteString(")")
		}
		if !entry.Date.IsZero() {
			sb.WriteString(" - ")
			sb.WriteString(entry.Date.Format("2006-01-02"))
		}
	}
	sb.WriteString("\n\n")

	for _, section := range entry.Sections {
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
}
