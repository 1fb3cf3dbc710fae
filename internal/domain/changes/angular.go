package changes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/version"
)

// angularCommitRegex matches "<type>(<scope>)?!?: <subject>" anchored at
// the start of the message, with an optional blank-line-separated body.
var angularCommitRegex = regexp.MustCompile(
	`(?s)^(?P<type>[a-zA-Z]+)(?:\((?P<scope>[^)]+)\))?(?P<breaking>!)?:\s+(?P<subject>[^\n]+)(?:\n\n(?P<body>.+))?$`,
)

// AngularParser implements the Angular conventional-commit convention.
type AngularParser struct {
	Options CommitParserOptions
}

// NewAngularParser creates an AngularParser with the given options. Zero
// value Options falls back to DefaultAngularOptions.
func NewAngularParser(opts CommitParserOptions) *AngularParser {
	if len(opts.AllowedTags) == 0 {
		opts = DefaultAngularOptions()
	}
	return &AngularParser{Options: opts}
}

// Parse implements Parser.
func (p *AngularParser) Parse(ref CommitRef) ParseResult {
	message := ref.Subject
	if ref.Body != "" {
		message = ref.Subject + "\n\n" + ref.Body
	}

	m := angularCommitRegex.FindStringSubmatch(message)
	if m == nil {
		return ParseResult{Error: &ParseError{CommitRef: ref, Err: fmt.Sprintf("commit %s does not match the conventional commit format", ref.Hash)}}
	}

	groups := namedGroups(angularCommitRegex, m)
	typeTag := groups["type"]
	if !p.Options.isAllowed(typeTag) {
		return ParseResult{Error: &ParseError{CommitRef: ref, Err: fmt.Sprintf("commit %s has unrecognized type %q", ref.Hash, typeTag)}}
	}

	paragraphs := splitParagraphs(groups["body"])
	breaking := breakingDescriptionsIn(paragraphs)
	isBreaking := groups["breaking"] == "!" || len(breaking) > 0

	bump := p.bumpFor(typeTag, isBreaking)

	descriptions := []string{strings.TrimSpace(groups["subject"])}
	descriptions = append(descriptions, paragraphs...)

	return ParseResult{Commit: &ParsedCommit{
		Bump:                 bump,
		Type:                 canonicalizeType(typeTag),
		Scope:                groups["scope"],
		Descriptions:         descriptions,
		BreakingDescriptions: breaking,
		CommitRef:            ref,
	}}
}

func (p *AngularParser) bumpFor(typeTag string, breaking bool) version.LevelBump {
	if breaking {
		return version.Major
	}
	if contains(p.Options.MinorTags, typeTag) {
		return version.Minor
	}
	if contains(p.Options.PatchTags, typeTag) {
		return version.Patch
	}
	return p.Options.DefaultBumpLevel
}

// namedGroups maps a regex's named capture groups to their matched values.
func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	result := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		result[name] = match[i]
	}
	return result
}
