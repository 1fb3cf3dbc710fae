package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsTagFromTagRoundTrip(t *testing.T) {
	formats := []string{"v{version}", "{version}", "release-{version}", "v{version}-final"}
	versions := []string{"0.0.1", "1.2.3", "1.3.0-rc.1", "2.0.0-beta.4+build.9"}

	for _, format := range formats {
		for _, vs := range versions {
			v := MustParse(vs)
			tag := v.AsTag(format)
			parsed, err := FromTag(format, tag)
			require.NoError(t, err, "format %q version %q", format, vs)
			assert.True(t, parsed.Equals(v), "round trip through %q: %v != %v", format, parsed, v)
		}
	}
}

func TestFromTagRejectsForeignTags(t *testing.T) {
	_, err := FromTag("v{version}", "nightly-2024-01-01")
	assert.ErrorIs(t, err, ErrNotAVersionTag)

	_, err = FromTag("v{version}", "v")
	assert.ErrorIs(t, err, ErrNotAVersionTag)

	_, err = FromTag("no-placeholder", "v1.0.0")
	assert.ErrorIs(t, err, ErrInvalidTagFormat)
}

func TestTranslatorFromTag(t *testing.T) {
	tr := NewVersionTranslator("v{version}", "rc")

	v, ok := tr.FromTag("v1.2.3")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", v.String())

	_, ok = tr.FromTag("not-a-tag")
	assert.False(t, ok)
}

func TestTranslatorDefaults(t *testing.T) {
	tr := NewVersionTranslator("", "rc")
	assert.Equal(t, DefaultTagFormat, tr.TagFormat())
	assert.Equal(t, "rc", tr.PrereleaseToken())
	assert.Equal(t, "v1.0.0", tr.StrToTag(MustParse("1.0.0")))
}

func TestTranslatorFromString(t *testing.T) {
	tr := NewVersionTranslator("v{version}", "rc")

	v, err := tr.FromString("1.2.3-rc.4")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-rc.4", v.String())

	_, err = tr.FromString("bogus")
	assert.Error(t, err)
}

func TestTagsAndVersionsSortsDescending(t *testing.T) {
	tr := NewVersionTranslator("v{version}", "rc")
	tags := []string{
		"v0.1.0",
		"nightly",
		"v1.0.0-rc.1",
		"v1.0.0",
		"v0.9.3",
		"checkpoint-2024",
		"v1.0.0-rc.2",
	}

	pairs := TagsAndVersions(tags, tr)

	got := make([]string, len(pairs))
	for i, p := range pairs {
		got[i] = p.Tag
	}
	// Full release outranks its prereleases, rc.2 outranks rc.1,
	// non-version tags are dropped.
	assert.Equal(t, []string{"v1.0.0", "v1.0.0-rc.2", "v1.0.0-rc.1", "v0.9.3", "v0.1.0"}, got)

	for i := 1; i < len(pairs); i++ {
		assert.True(t, pairs[i-1].Version.GreaterThanOrEqual(pairs[i].Version))
	}
}

func TestTagsAndVersionsEmpty(t *testing.T) {
	tr := NewVersionTranslator("v{version}", "rc")
	assert.Empty(t, TagsAndVersions(nil, tr))
	assert.Empty(t, TagsAndVersions([]string{"main", "wip"}, tr))
}
