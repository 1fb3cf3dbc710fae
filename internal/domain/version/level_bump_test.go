package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelBumpOrdering(t *testing.T) {
	assert.True(t, NoRelease < Patch)
	assert.True(t, Patch < Minor)
	assert.True(t, Minor < Major)
}

func TestLevelBumpString(t *testing.T) {
	tests := []struct {
		level LevelBump
		want  string
	}{
		{NoRelease, "no-release"},
		{Patch, "patch"},
		{Minor, "minor"},
		{Major, "major"},
		{LevelBump(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestLevelBumpMax(t *testing.T) {
	assert.Equal(t, Major, Patch.Max(Major))
	assert.Equal(t, Major, Major.Max(Patch))
	assert.Equal(t, Minor, Minor.Max(Minor))
	assert.Equal(t, Patch, NoRelease.Max(Patch))
}

func TestBump(t *testing.T) {
	tests := []struct {
		name  string
		start string
		level LevelBump
		want  string
	}{
		{"major zeroes lower fields", "1.2.3", Major, "2.0.0"},
		{"minor zeroes patch", "1.2.3", Minor, "1.3.0"},
		{"patch increments", "1.2.3", Patch, "1.2.4"},
		{"no release clones", "1.2.3", NoRelease, "1.2.3"},
		{"major drops prerelease", "1.2.3-rc.1", Major, "2.0.0"},
		{"minor drops prerelease", "1.2.3-rc.1", Minor, "1.3.0"},
		{"patch drops prerelease", "1.2.3-rc.1", Patch, "1.2.4"},
		{"from zero", "0.0.0", Minor, "0.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MustParse(tt.start)
			assert.Equal(t, tt.want, v.Bump(tt.level).String())
		})
	}
}

func TestBumpStrictlyIncreases(t *testing.T) {
	v := MustParse("1.2.3")
	for _, level := range []LevelBump{Patch, Minor, Major} {
		assert.True(t, v.Bump(level).GreaterThan(v), "bump %s must increase", level)
	}
	assert.True(t, v.Bump(NoRelease).Equal(v))
}

func TestSub(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want LevelBump
	}{
		{"identical", "1.2.3", "1.2.3", NoRelease},
		{"patch differs", "1.2.4", "1.2.3", Patch},
		{"minor differs", "1.3.0", "1.2.9", Minor},
		{"major differs", "2.0.0", "1.9.9", Major},
		{"major dominates minor", "2.1.0", "1.0.0", Major},
		{"prerelease ignored", "1.2.4-rc.1", "1.2.4", NoRelease},
		{"prerelease core differs", "1.3.0-rc.2", "1.2.4", Minor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, a.Sub(b))
		})
	}
}

func TestToPrereleaseAndFinalize(t *testing.T) {
	v := MustParse("1.3.0")

	pre := v.ToPrerelease("rc", 1)
	assert.Equal(t, "1.3.0-rc.1", pre.String())
	assert.True(t, pre.IsPrerelease())
	assert.Equal(t, "rc", pre.PrereleaseToken())

	rev, ok := pre.PrereleaseRevision()
	assert.True(t, ok)
	assert.Equal(t, 1, rev)

	// Finalize preserves the core triple
	assert.Equal(t, "1.3.0", pre.FinalizeVersion().String())

	// Replacing the suffix keeps the core
	next := pre.ToPrerelease("beta", 4)
	assert.Equal(t, "1.3.0-beta.4", next.String())
}

func TestToPrereleaseWithoutRevision(t *testing.T) {
	v := MustParse("2.0.0").ToPrerelease("alpha", 0)
	assert.Equal(t, "2.0.0-alpha", v.String())
	assert.Equal(t, "alpha", v.PrereleaseToken())

	_, ok := v.PrereleaseRevision()
	assert.False(t, ok)
}

func TestPrereleaseTokenSplitting(t *testing.T) {
	tests := []struct {
		pre      Prerelease
		token    string
		revision int
		hasRev   bool
	}{
		{"rc.3", "rc", 3, true},
		{"alpha.12", "alpha", 12, true},
		{"alpha", "alpha", 0, false},
		{"alpha.beta", "alpha.beta", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.token, tt.pre.Token())
		rev, ok := tt.pre.Revision()
		assert.Equal(t, tt.hasRev, ok)
		if ok {
			assert.Equal(t, tt.revision, rev)
		}
	}
}
