package version

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTagFormat is used when a project does not configure one. It must
// contain exactly one "{version}" placeholder.
const DefaultTagFormat = "v{version}"

// AsTag renders v as a tag name using tagFormat, a string containing
// exactly one "{version}" placeholder (e.g. "v{version}").
func (v SemanticVersion) AsTag(tagFormat string) string {
	if tagFormat == "" {
		tagFormat = DefaultTagFormat
	}
	return strings.Replace(tagFormat, "{version}", v.String(), 1)
}

// FromTag parses a tag name produced by the given tagFormat back into a
// SemanticVersion. It returns an error if the tag does not match the
// format or the extracted substring is not a valid version.
func FromTag(tagFormat, tag string) (SemanticVersion, error) {
	if tagFormat == "" {
		tagFormat = DefaultTagFormat
	}
	idx := strings.Index(tagFormat, "{version}")
	if idx < 0 {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidTagFormat, tagFormat)
	}
	prefix := tagFormat[:idx]
	suffix := tagFormat[idx+len("{version}"):]

	if !strings.HasPrefix(tag, prefix) || !strings.HasSuffix(tag, suffix) {
		return Zero, fmt.Errorf("%w: %q does not match format %q", ErrNotAVersionTag, tag, tagFormat)
	}

	versionStr := tag[len(prefix) : len(tag)-len(suffix)]
	if versionStr == "" {
		return Zero, fmt.Errorf("%w: %q has no version component", ErrNotAVersionTag, tag)
	}

	return Parse(versionStr)
}

// VersionTranslator maps between tag strings and Version values using a
// configured tag_format and the default prerelease token for the active
// branch.
type VersionTranslator struct {
	tagFormat       string
	prereleaseToken string
}

// NewVersionTranslator creates a VersionTranslator. An empty tagFormat
// falls back to DefaultTagFormat.
func NewVersionTranslator(tagFormat, prereleaseToken string) *VersionTranslator {
	if tagFormat == "" {
		tagFormat = DefaultTagFormat
	}
	return &VersionTranslator{tagFormat: tagFormat, prereleaseToken: prereleaseToken}
}

// TagFormat returns the configured tag format.
func (t *VersionTranslator) TagFormat() string {
	return t.tagFormat
}

// PrereleaseToken returns the configured prerelease token.
func (t *VersionTranslator) PrereleaseToken() string {
	return t.prereleaseToken
}

// FromTag strips the tag format and parses the remainder as a version.
// It returns ok=false (no error) when the tag simply isn't a version tag;
// unmatched tags are silently dropped by callers.
func (t *VersionTranslator) FromTag(tag string) (SemanticVersion, bool) {
	v, err := FromTag(t.tagFormat, tag)
	if err != nil {
		return Zero, false
	}
	return v, true
}

// FromString parses a raw version string (no tag formatting).
func (t *VersionTranslator) FromString(s string) (SemanticVersion, error) {
	return Parse(s)
}

// StrToTag renders a version as a tag using the configured format.
func (t *VersionTranslator) StrToTag(v SemanticVersion) string {
	return v.AsTag(t.tagFormat)
}

// TagVersion pairs a tag name with the version it translates to.
type TagVersion struct {
	Tag     string
	Version SemanticVersion
}

// TagsAndVersions translates tag names through translator, keeping only
// tags that successfully parse, and returns them sorted descending by
// version precedence (highest first).
func TagsAndVersions(tags []string, translator *VersionTranslator) []TagVersion {
	result := make([]TagVersion, 0, len(tags))
	for _, tag := range tags {
		if v, ok := translator.FromTag(tag); ok {
			result = append(result, TagVersion{Tag: tag, Version: v})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Version.GreaterThan(result[j].Version)
	})

	return result
}
