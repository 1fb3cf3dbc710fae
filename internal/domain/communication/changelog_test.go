// Package communication provides domain types for release communication.
package communication

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicta-tech/semrel/internal/domain/changes"
	"github.com/relicta-tech/semrel/internal/domain/version"
)

func TestChangelogFormat_IsValid(t *testing.T) {
	valid := []ChangelogFormat{FormatKeepAChangelog, FormatConventional, FormatSimple}
	for _, f := range valid {
		assert.True(t, f.IsValid(), "%q should be valid", f)
	}
	assert.False(t, ChangelogFormat("bogus").IsValid())
	assert.False(t, ChangelogFormat("").IsValid())
}

func TestNewChangelog(t *testing.T) {
	cl := NewChangelog("Changelog", FormatConventional)
	assert.Equal(t, "Changelog", cl.Title())
	assert.Equal(t, FormatConventional, cl.Format())
	assert.Empty(t, cl.Entries())
}

func TestFromReleaseHistoryGrouping(t *testing.T) {
	history := historyFromScenario(t)

	cl := FromReleaseHistory("Changelog", FormatConventional, history, nil)
	entries := cl.Entries()
	require.Len(t, entries, 2)

	unreleased := entries[0]
	assert.True(t, unreleased.IsUnreleased)
	require.Len(t, unreleased.Sections, 1)
	assert.Equal(t, "Features", unreleased.Sections[0].Title)
	require.Len(t, unreleased.Sections[0].Items, 1)
	assert.Equal(t, "d", unreleased.Sections[0].Items[0].Description)

	released := entries[1]
	assert.Equal(t, "1.1.0", released.Version.String())
	require.Len(t, released.Sections, 3)
	assert.Equal(t, "Features", released.Sections[0].Title)
	assert.Equal(t, "Bug Fixes", released.Sections[1].Title)
	assert.Equal(t, "Documentation", released.Sections[2].Title)
	assert.Equal(t, "a", released.Sections[0].Items[0].Description)
	assert.Equal(t, "b", released.Sections[1].Items[0].Description)
	assert.Equal(t, "c", released.Sections[2].Items[0].Description)
}

func TestFromReleaseHistoryWithContext(t *testing.T) {
	history := historyFromScenario(t)
	ctx := NewChangelogContext(stubURLs{}, history)

	cl := FromReleaseHistory("Changelog", FormatConventional, history, ctx)
	released := cl.Entries()[1]

	require.NotEmpty(t, released.Sections)
	item := released.Sections[0].Items[0]
	assert.True(t, strings.HasPrefix(item.CommitURL, "https://example.test/commit/"))
}

func TestChangelogRender(t *testing.T) {
	history := historyFromScenario(t)
	out := FromReleaseHistory("Changelog", FormatConventional, history, nil).Render()

	assert.True(t, strings.HasPrefix(out, "# Changelog\n"))
	assert.Contains(t, out, "## [Unreleased]")
	assert.Contains(t, out, "## [1.1.0] - 2024-02-01")
	assert.Contains(t, out, "### Features")
	assert.Contains(t, out, "### Bug Fixes")
	assert.Contains(t, out, "- a (")
	assert.Less(t, strings.Index(out, "## [Unreleased]"), strings.Index(out, "## [1.1.0]"),
		"unreleased renders before released versions")
}

func TestChangelogRenderScopesAndBreaking(t *testing.T) {
	parser := changes.NewAngularParser(changes.CommitParserOptions{})
	commits := []*testCommit{
		{hash: "c3", msg: "feat(core)!: drop legacy mode\n\nBREAKING CHANGE: legacy mode removed"},
		{hash: "c2", msg: "fix(cli): handle empty args"},
		{hash: "c1", msg: "feat: first", tag: "v1.0.0"},
	}
	history := buildTestHistory(t, commits, parser)

	out := FromReleaseHistory("Changelog", FormatConventional, history, nil).Render()
	assert.Contains(t, out, "**cli:** handle empty args")
	assert.Contains(t, out, "legacy mode removed")
}

func TestChangelogRenderEmptyHistory(t *testing.T) {
	history := &ReleaseHistory{Unreleased: map[string][]changes.ParseResult{}}
	out := FromReleaseHistory("Changelog", FormatSimple, history, nil).Render()
	assert.Equal(t, "# Changelog\n\n", out)
}

func TestChangelogExcludesHiddenTypes(t *testing.T) {
	parser := changes.NewAngularParser(changes.CommitParserOptions{})
	commits := []*testCommit{
		{hash: "c3", msg: "chore: tidy up"},
		{hash: "c2", msg: "test: more cases"},
		{hash: "c1", msg: "feat: visible"},
	}
	history := buildTestHistory(t, commits, parser)

	out := FromReleaseHistory("Changelog", FormatConventional, history, nil).Render()
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "tidy up")
	assert.NotContains(t, out, "more cases")
}

// stubURLs is a minimal URLBuilder for tests.
type stubURLs struct{}

func (stubURLs) Owner() string    { return "acme" }
func (stubURLs) RepoName() string { return "widget" }
func (stubURLs) CommitHashURL(sha string) string {
	return "https://example.test/commit/" + sha
}
func (stubURLs) PullRequestURL(number int) string {
	return fmt.Sprintf("https://example.test/pull/%d", number)
}
func (stubURLs) CompareURL(fromRev, toRev string) (string, error) {
	return "https://example.test/compare/" + fromRev + "..." + toRev, nil
}

// testCommit describes one commit in a synthetic history, newest first.
type testCommit struct {
	hash string
	msg  string
	tag  string
}

func buildTestHistory(t *testing.T, testCommits []*testCommit, parser changes.Parser) *ReleaseHistory {
	t.Helper()

	translator := version.NewVersionTranslator("v{version}", "rc")
	when := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	scCommits, tags := materialize(testCommits, when)
	return BuildReleaseHistory(scCommits, tags, translator, parser)
}

func historyFromScenario(t *testing.T) *ReleaseHistory {
	t.Helper()
	parser := changes.NewAngularParser(changes.CommitParserOptions{})
	// Newest first: one unreleased feat on top of v1.1.0, which groups
	// three commits above v1.0.0.
	commits := []*testCommit{
		{hash: "c5", msg: "feat: d"},
		{hash: "c4", msg: "docs: c", tag: "v1.1.0"},
		{hash: "c3", msg: "fix: b"},
		{hash: "c2", msg: "feat: a"},
		{hash: "c1", msg: "feat: first", tag: "v1.0.0"},
	}
	return buildTestHistory(t, commits, parser)
}
