package changes

import (
	"fmt"
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/version"
)

// TagParserOptions configures the legacy tag parser: which gitmoji-style
// token marks a feature and which marks a fix.
type TagParserOptions struct {
	MinorTag string
	PatchTag string
}

// DefaultTagParserOptions returns the classic token pair.
func DefaultTagParserOptions() TagParserOptions {
	return TagParserOptions{
		MinorTag: ":sparkles:",
		PatchTag: ":nut_and_bolt:",
	}
}

// TagParser implements the legacy tag convention: a known token anywhere in
// the message selects the bump, the rest of the first line becomes the
// changelog description, and BREAKING CHANGE trailers upgrade to a major.
type TagParser struct {
	Options TagParserOptions
}

// NewTagParser creates a TagParser. Empty options fall back to
// DefaultTagParserOptions.
func NewTagParser(opts TagParserOptions) *TagParser {
	if opts.MinorTag == "" && opts.PatchTag == "" {
		opts = DefaultTagParserOptions()
	}
	return &TagParser{Options: opts}
}

// Parse implements Parser.
func (p *TagParser) Parse(ref CommitRef) ParseResult {
	message := ref.Subject
	if ref.Body != "" {
		message = ref.Subject + "\n\n" + ref.Body
	}

	subject := ref.Subject
	var (
		bump       version.LevelBump
		commitType CommitType
	)
	switch {
	case p.Options.MinorTag != "" && strings.Contains(message, p.Options.MinorTag):
		bump = version.Minor
		commitType = CommitTypeFeature
		subject = strings.Replace(subject, p.Options.MinorTag, "", 1)
	case p.Options.PatchTag != "" && strings.Contains(message, p.Options.PatchTag):
		bump = version.Patch
		commitType = CommitTypeFix
		subject = strings.Replace(subject, p.Options.PatchTag, "", 1)
	default:
		return ParseResult{Error: &ParseError{
			CommitRef: ref,
			Err:       fmt.Sprintf("unable to parse the given commit message: %q", message),
		}}
	}

	paragraphs := splitParagraphs(ref.Body)
	descriptions := []string{strings.TrimSpace(subject)}
	descriptions = append(descriptions, paragraphs...)

	breaking := breakingDescriptionsIn(paragraphs)
	if len(breaking) > 0 {
		bump = version.Major
		commitType = "breaking"
	}

	return ParseResult{Commit: &ParsedCommit{
		Bump:                 bump,
		Type:                 string(commitType),
		Descriptions:         descriptions,
		BreakingDescriptions: breaking,
		CommitRef:            ref,
	}}
}
