package communication

import (
	"fmt"
	"time"

	"github.com/relicta-tech/semrel/internal/domain/changes"
	"github.com/relicta-tech/semrel/internal/domain/sourcecontrol"
	"github.com/relicta-tech/semrel/internal/domain/version"
)

// Release groups the parse results introduced by one released version,
// bucketed by commit type, together with the metadata of the tag that cut
// the release. For lightweight tags the tagger and date fall back to the
// target commit's author.
type Release struct {
	Version    version.SemanticVersion
	Tagger     sourcecontrol.Author
	Committer  sourcecontrol.Author
	TaggedDate time.Time
	Elements   map[string][]changes.ParseResult
}

// ReleaseHistory is the grouping of every walked commit into an unreleased
// bucket plus one Release per discovered version. Released versions keep
// the order in which their tags were encountered walking from the branch
// tip backward (newest first).
type ReleaseHistory struct {
	Unreleased map[string][]changes.ParseResult
	Released   []*Release
}

// Release returns the Release for the given version, or nil.
func (h *ReleaseHistory) Release(v version.SemanticVersion) *Release {
	for _, r := range h.Released {
		if r.Version.Equals(v) {
			return r
		}
	}
	return nil
}

// UnreleasedCount returns the number of unreleased parse results.
func (h *ReleaseHistory) UnreleasedCount() int {
	n := 0
	for _, results := range h.Unreleased {
		n += len(results)
	}
	return n
}

func (h *ReleaseHistory) String() string {
	return fmt.Sprintf("<ReleaseHistory: %d commits unreleased, %d versions released>",
		h.UnreleasedCount(), len(h.Released))
}

// BuildReleaseHistory walks the given commits (which must be ordered newest
// first, from the branch tip) and groups each parse result into the
// unreleased bucket or the release introduced by the nearest younger tag.
//
// Strategy: parse commits as we go, adding results to `unreleased` until a
// commit matches a version tag. That tag opens a new Release, and following
// commits land in its elements until the next tag is encountered. Every
// commit ends up in exactly one bucket.
func BuildReleaseHistory(
	commits []*sourcecontrol.Commit,
	tags sourcecontrol.TagList,
	translator *version.VersionTranslator,
	parser changes.Parser,
) *ReleaseHistory {
	tagVersions := version.TagsAndVersions(tags.Names(), translator)

	history := &ReleaseHistory{
		Unreleased: make(map[string][]changes.ParseResult),
	}

	var current *Release
	for _, commit := range commits {
		result := parser.Parse(commitRef(commit))
		commitType := result.TypeLabel()

		for _, tv := range tagVersions {
			tag := tags.ByName(tv.Tag)
			if tag == nil || tag.Hash() != commit.Hash() {
				continue
			}

			release := &Release{
				Version:  tv.Version,
				Elements: make(map[string][]changes.ParseResult),
			}
			if tag.IsAnnotated() {
				release.Tagger = tag.Tagger()
				release.Committer = tag.Tagger()
				release.TaggedDate = tag.Date()
			} else {
				release.Tagger = commit.Author()
				release.Committer = commit.Author()
				release.TaggedDate = commit.Date()
			}

			// A commit may carry several tags; the highest version wins
			// because tagVersions is sorted descending.
			if existing := history.Release(tv.Version); existing != nil {
				current = existing
			} else {
				history.Released = append(history.Released, release)
				current = release
			}
			break
		}

		if current == nil {
			history.Unreleased[commitType] = append(history.Unreleased[commitType], result)
			continue
		}
		current.Elements[commitType] = append(current.Elements[commitType], result)
	}

	return history
}

// commitRef converts a domain commit into the identity handed to parsers.
func commitRef(c *sourcecontrol.Commit) changes.CommitRef {
	return changes.CommitRef{
		Hash:        c.Hash().String(),
		Subject:     c.Subject(),
		Body:        c.Body(),
		AuthorName:  c.Author().Name,
		AuthorEmail: c.Author().Email,
		Date:        c.Date(),
	}
}
