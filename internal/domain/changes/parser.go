// Package changes implements conventional-commit parsing and the other
// change-classification domain types used to drive version calculation and
// changelog generation.
package changes

import (
	"regexp"
	"strings"
	"time"

	"github.com/relicta-tech/semrel/internal/domain/version"
)

// CommitRef is the minimal commit identity a parser needs: enough to label
// a ParseResult and build changelog links without depending on the git
// infrastructure layer.
type CommitRef struct {
	Hash        string
	Subject     string
	Body        string
	AuthorName  string
	AuthorEmail string
	Date        time.Time
}

// ParsedCommit is the structured result of successfully parsing a
// conventional commit message.
type ParsedCommit struct {
	Bump                 version.LevelBump
	Type                 string
	Scope                string
	Descriptions         []string
	BreakingDescriptions []string
	CommitRef            CommitRef
}

// IsBreaking reports whether this commit carries any breaking-change
// description.
func (p ParsedCommit) IsBreaking() bool {
	return len(p.BreakingDescriptions) > 0
}

// ParseError is returned for a commit message that the parser could not
// interpret as a conventional commit.
type ParseError struct {
	CommitRef CommitRef
	Err       string
}

func (e ParseError) Error() string { return e.Err }

// ParseResult is the tagged union `ParsedCommit | ParseError`. Exactly one
// of Commit/Error is non-nil.
type ParseResult struct {
	Commit *ParsedCommit
	Error  *ParseError
}

// IsError reports whether this result is a ParseError.
func (r ParseResult) IsError() bool { return r.Error != nil }

// TypeLabel returns the canonicalized type string used to bucket this
// result in a ReleaseHistory: "unknown" for parse errors, the
// parser-canonicalized type string otherwise.
func (r ParseResult) TypeLabel() string {
	if r.IsError() {
		return "unknown"
	}
	return r.Commit.Type
}

// CommitRef returns the underlying commit reference regardless of variant.
func (r ParseResult) CommitRefValue() CommitRef {
	if r.IsError() {
		return r.Error.CommitRef
	}
	return r.Commit.CommitRef
}

// RaiseError returns the wrapped error when this result is a ParseError,
// nil otherwise. Callers that want parse failures to be fatal call this
// explicitly; by default a ParseError is carried inline and the run
// continues (see CommitParseError in the error taxonomy).
func (r ParseResult) RaiseError() error {
	if r.IsError() {
		return *r.Error
	}
	return nil
}

// CommitParserOptions configures a Parser variant: which type tags are
// accepted, which induce a minor/patch bump, and the default bump applied
// to a recognized-but-unlisted type.
type CommitParserOptions struct {
	AllowedTags      []string
	MinorTags        []string
	PatchTags        []string
	DefaultBumpLevel version.LevelBump
}

// DefaultAngularOptions returns the CommitParserOptions matching the
// Angular convention's default tag set.
func DefaultAngularOptions() CommitParserOptions {
	return CommitParserOptions{
		AllowedTags:      []string{"build", "chore", "ci", "docs", "feat", "fix", "perf", "style", "refactor", "test", "revert"},
		MinorTags:        []string{"feat"},
		PatchTags:        []string{"fix", "perf"},
		DefaultBumpLevel: version.NoRelease,
	}
}

func (o CommitParserOptions) isAllowed(tag string) bool {
	if len(o.AllowedTags) == 0 {
		return true
	}
	return contains(o.AllowedTags, tag)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// angularTypeAliases canonicalizes Angular type tags for display.
var angularTypeAliases = map[string]string{
	"feat": "feature",
	"docs": "documentation",
	"perf": "performance",
}

func canonicalizeType(tag string) string {
	if alias, ok := angularTypeAliases[tag]; ok {
		return alias
	}
	return tag
}

// Parser is the capability `{Parse(commit) -> ParseResult}` implemented by
// each commit-message convention (Angular, Emoji, Tag, Scipy).
type Parser interface {
	Parse(ref CommitRef) ParseResult
}

// breakingChangeTrailer matches a BREAKING CHANGE (or BREAKING-CHANGE)
// footer paragraph, case-insensitively.
var breakingChangeTrailer = regexp.MustCompile(`(?i)^BREAKING[ -]CHANGE:\s*(.+)$`)

// splitParagraphs splits a commit body into paragraphs on blank lines.
func splitParagraphs(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	raw := strings.Split(body, "\n\n")
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// breakingDescriptionsIn scans paragraphs for a BREAKING CHANGE trailer and
// returns the captured descriptions.
func breakingDescriptionsIn(paragraphs []string) []string {
	var out []string
	for _, p := range paragraphs {
		if m := breakingChangeTrailer.FindStringSubmatch(p); m != nil {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}
