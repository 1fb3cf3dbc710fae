package changes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/version"
)

// scipyCommitRegex matches "TAG: subject" or "TAG(scope): subject" where TAG
// is an uppercase acronym, as used by the scientific-Python projects.
var scipyCommitRegex = regexp.MustCompile(
	`(?s)^(?P<tag>[A-Z]+)(?:\((?P<scope>[^)]+)\))?:\s+(?P<subject>[^\n]+)(?:\n\n(?P<body>.+))?$`,
)

// ScipyParserOptions configures the scipy parser: which acronyms induce
// which bump and how each acronym is labelled in the changelog.
type ScipyParserOptions struct {
	MajorTags []string
	MinorTags []string
	PatchTags []string
	NoOpTags  []string
}

// DefaultScipyParserOptions returns the acronym sets used by the scipy
// development workflow.
func DefaultScipyParserOptions() ScipyParserOptions {
	return ScipyParserOptions{
		MajorTags: []string{"API"},
		MinorTags: []string{"DEP", "ENH", "REV", "FEAT"},
		PatchTags: []string{"BLD", "BUG", "MAINT"},
		NoOpTags:  []string{"BENCH", "DOC", "STY", "TST", "REL", "TEST"},
	}
}

// scipyTypeLabels maps acronyms to the changelog type they are displayed
// under.
var scipyTypeLabels = map[string]string{
	"API":   "breaking",
	"DEP":   "deprecation",
	"ENH":   "feature",
	"FEAT":  "feature",
	"REV":   "feature",
	"BLD":   "fix",
	"BUG":   "fix",
	"MAINT": "fix",
	"BENCH": "none",
	"DOC":   "documentation",
	"STY":   "none",
	"TST":   "none",
	"REL":   "none",
	"TEST":  "none",
}

// ScipyParser implements the scipy acronym convention.
type ScipyParser struct {
	Options ScipyParserOptions
}

// NewScipyParser creates a ScipyParser. Zero-value options fall back to
// DefaultScipyParserOptions.
func NewScipyParser(opts ScipyParserOptions) *ScipyParser {
	if len(opts.MajorTags) == 0 && len(opts.MinorTags) == 0 && len(opts.PatchTags) == 0 {
		opts = DefaultScipyParserOptions()
	}
	return &ScipyParser{Options: opts}
}

// Parse implements Parser.
func (p *ScipyParser) Parse(ref CommitRef) ParseResult {
	message := ref.Subject
	if ref.Body != "" {
		message = ref.Subject + "\n\n" + ref.Body
	}

	m := scipyCommitRegex.FindStringSubmatch(message)
	if m == nil {
		return ParseResult{Error: &ParseError{
			CommitRef: ref,
			Err:       fmt.Sprintf("commit %s does not match the scipy commit format", ref.Hash),
		}}
	}

	groups := namedGroups(scipyCommitRegex, m)
	tag := groups["tag"]

	var bump version.LevelBump
	switch {
	case contains(p.Options.MajorTags, tag):
		bump = version.Major
	case contains(p.Options.MinorTags, tag):
		bump = version.Minor
	case contains(p.Options.PatchTags, tag):
		bump = version.Patch
	case contains(p.Options.NoOpTags, tag):
		bump = version.NoRelease
	default:
		return ParseResult{Error: &ParseError{
			CommitRef: ref,
			Err:       fmt.Sprintf("commit %s has unrecognized tag %q", ref.Hash, tag),
		}}
	}

	paragraphs := splitParagraphs(groups["body"])
	breaking := breakingDescriptionsIn(paragraphs)
	if len(breaking) > 0 {
		bump = version.Major
	}

	descriptions := []string{strings.TrimSpace(groups["subject"])}
	descriptions = append(descriptions, paragraphs...)

	typeLabel, ok := scipyTypeLabels[tag]
	if !ok {
		typeLabel = strings.ToLower(tag)
	}

	return ParseResult{Commit: &ParsedCommit{
		Bump:                 bump,
		Type:                 typeLabel,
		Scope:                groups["scope"],
		Descriptions:         descriptions,
		BreakingDescriptions: breaking,
		CommitRef:            ref,
	}}
}
