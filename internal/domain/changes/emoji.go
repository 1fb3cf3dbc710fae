package changes

import (
	"fmt"
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/version"
)

// EmojiLevelMap maps a configured emoji token to the bump level it signals.
type EmojiLevelMap map[string]version.LevelBump

// DefaultEmojiLevelMap mirrors the common gitmoji convention used by
// changelog-automation tools: sparkles for features, bug/ambulance for
// fixes, boom for breaking changes.
func DefaultEmojiLevelMap() EmojiLevelMap {
	return EmojiLevelMap{
		"\U0001F4A5": version.Major, // :boom:
		"✨":     version.Minor, // :sparkles:
		"\U0001F41B": version.Patch, // :bug:
		"\U0001F691": version.Patch, // :ambulance:
	}
}

// EmojiParser implements the Emoji conventional-commit convention: the
// presence of a configured emoji token anywhere in the subject determines
// the bump; the first paragraph becomes the description.
type EmojiParser struct {
	Levels EmojiLevelMap
}

// NewEmojiParser creates an EmojiParser. A nil/empty map falls back to
// DefaultEmojiLevelMap.
func NewEmojiParser(levels EmojiLevelMap) *EmojiParser {
	if len(levels) == 0 {
		levels = DefaultEmojiLevelMap()
	}
	return &EmojiParser{Levels: levels}
}

// Parse implements Parser.
func (p *EmojiParser) Parse(ref CommitRef) ParseResult {
	var (
		bump  = version.NoRelease
		found bool
	)
	for token, level := range p.Levels {
		if strings.Contains(ref.Subject, token) {
			found = true
			bump = bump.Max(level)
		}
	}
	if !found {
		return ParseResult{Error: &ParseError{CommitRef: ref, Err: fmt.Sprintf("commit %s carries no recognized emoji token", ref.Hash)}}
	}

	paragraphs := splitParagraphs(ref.Body)
	breaking := breakingDescriptionsIn(paragraphs)
	if len(breaking) > 0 {
		bump = version.Major
	}

	descriptions := []string{strings.TrimSpace(ref.Subject)}
	descriptions = append(descriptions, paragraphs...)

	return ParseResult{Commit: &ParsedCommit{
		Bump:                 bump,
		Type:                 "emoji",
		Descriptions:         descriptions,
		BreakingDescriptions: breaking,
		CommitRef:            ref,
	}}
}
