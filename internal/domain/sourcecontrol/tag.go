// Package sourcecontrol provides domain types for source control operations.
package sourcecontrol

import (
	"strings"
	"time"
)

// Tag represents a git tag entity. Annotated tags carry their own tagger,
// message and date; lightweight tags only point at a commit, and callers
// fall back to that commit's author metadata.
type Tag struct {
	name        string
	hash        CommitHash
	message     string
	tagger      Author
	date        time.Time
	isAnnotated bool
}

// NewTag creates a lightweight Tag pointing at the given commit.
func NewTag(name string, hash CommitHash) *Tag {
	return &Tag{
		name: name,
		hash: hash,
	}
}

// NewAnnotatedTag creates an annotated Tag entity carrying its own tagger
// and tag date.
func NewAnnotatedTag(name string, hash CommitHash, message string, tagger Author, date time.Time) *Tag {
	return &Tag{
		name:        name,
		hash:        hash,
		message:     message,
		tagger:      tagger,
		date:        date,
		isAnnotated: true,
	}
}

// Name returns the tag name.
func (t *Tag) Name() string {
	return t.name
}

// Hash returns the commit hash the tag points to. For annotated tags this
// is the peeled target commit, not the tag object itself.
func (t *Tag) Hash() CommitHash {
	return t.hash
}

// Message returns the tag message (for annotated tags).
func (t *Tag) Message() string {
	return t.message
}

// Tagger returns the tagger (for annotated tags).
func (t *Tag) Tagger() Author {
	return t.tagger
}

// Date returns the tag date. Zero for lightweight tags; callers should use
// the target commit's date instead.
func (t *Tag) Date() time.Time {
	return t.date
}

// IsAnnotated returns true if this is an annotated tag.
func (t *Tag) IsAnnotated() bool {
	return t.isAnnotated
}

// IsLightweight returns true if this is a lightweight tag.
func (t *Tag) IsLightweight() bool {
	return !t.isAnnotated
}

// HasPrefix returns true if the tag has the specified prefix.
func (t *Tag) HasPrefix(prefix string) bool {
	return strings.HasPrefix(t.name, prefix)
}

// WithoutPrefix returns the tag name without the specified prefix.
func (t *Tag) WithoutPrefix(prefix string) string {
	return strings.TrimPrefix(t.name, prefix)
}

// TagList represents a list of tags.
type TagList []*Tag

// Names returns the tag names in list order.
func (tl TagList) Names() []string {
	names := make([]string, len(tl))
	for i, t := range tl {
		names[i] = t.name
	}
	return names
}

// ByName returns the tag with the given name, or nil.
func (tl TagList) ByName(name string) *Tag {
	for _, t := range tl {
		if t.name == name {
			return t
		}
	}
	return nil
}

// PointingAt returns the tags whose target commit is the given hash.
func (tl TagList) PointingAt(hash CommitHash) TagList {
	var result TagList
	for _, t := range tl {
		if t.hash == hash {
			result = append(result, t)
		}
	}
	return result
}

// FilterByPrefix returns tags with the specified prefix.
func (tl TagList) FilterByPrefix(prefix string) TagList {
	result := make(TagList, 0, len(tl))
	for _, t := range tl {
		if t.HasPrefix(prefix) {
			result = append(result, t)
		}
	}
	return result
}
