package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "v{version}", cfg.Versioning.TagFormat)
	assert.Equal(t, "angular", cfg.Versioning.CommitParser)
	assert.True(t, cfg.Versioning.AllowMajorOnZero())
	assert.Equal(t, "CHANGELOG.md", cfg.Changelog.File)
	assert.Equal(t, "github", cfg.HVCS.Type)
	assert.Equal(t, "origin", cfg.Git.Remote)
	assert.True(t, cfg.Git.Push)
	require.NotEmpty(t, cfg.Branches)
	assert.Equal(t, "main", cfg.Branches[0].Name)

	require.NoError(t, Validate(cfg), "the default config must validate")
}

func TestAllowMajorOnZero(t *testing.T) {
	var cfg VersioningConfig
	assert.True(t, cfg.AllowMajorOnZero(), "unset means true")

	f := false
	cfg.MajorOnZero = &f
	assert.False(t, cfg.AllowMajorOnZero())
}

func TestSelectBranch(t *testing.T) {
	cfg := &Config{
		Branches: []BranchConfig{
			{Name: "main", Match: `^(main|master)$`},
			{Name: "rc", Match: `^rc/.+$`, Prerelease: true, PrereleaseToken: "rc"},
			{Name: "catch-all", Match: `^rc/special$`, Prerelease: true, PrereleaseToken: "special"},
		},
	}

	t.Run("first match wins in declaration order", func(t *testing.T) {
		group, err := cfg.SelectBranch("rc/special")
		require.NoError(t, err)
		assert.Equal(t, "rc", group.Name, "earlier groups shadow later ones")
	})

	t.Run("exact group", func(t *testing.T) {
		group, err := cfg.SelectBranch("main")
		require.NoError(t, err)
		assert.Equal(t, "main", group.Name)
		assert.False(t, group.Prerelease)
	})

	t.Run("no match is not a release branch", func(t *testing.T) {
		_, err := cfg.SelectBranch("feature/anything")
		require.Error(t, err)
		assert.Equal(t, semrelerrors.KindNotAReleaseBranch, semrelerrors.GetKind(err))
		assert.True(t, semrelerrors.IsRecoverable(err))
	})

	t.Run("invalid pattern is fatal", func(t *testing.T) {
		broken := &Config{Branches: []BranchConfig{{Name: "bad", Match: `([`}}}
		_, err := broken.SelectBranch("main")
		require.Error(t, err)
		assert.Equal(t, semrelerrors.KindInvalidConfiguration, semrelerrors.GetKind(err))
	})
}

func TestEnvValueResolve(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		v := EnvValue{Literal: "plain-token"}
		assert.Equal(t, "plain-token", v.Resolve())
	})

	t.Run("literal with expansion", func(t *testing.T) {
		t.Setenv("SEMREL_TEST_TOKEN", "expanded")
		v := EnvValue{Literal: "${SEMREL_TEST_TOKEN}"}
		assert.Equal(t, "expanded", v.Resolve())
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv("SEMREL_TEST_PRIMARY", "primary")
		t.Setenv("SEMREL_TEST_FALLBACK", "fallback")
		v := EnvValue{Env: "SEMREL_TEST_PRIMARY", DefaultEnv: "SEMREL_TEST_FALLBACK", Default: "literal"}
		assert.Equal(t, "primary", v.Resolve())
	})

	t.Run("default_env when env unset", func(t *testing.T) {
		t.Setenv("SEMREL_TEST_FALLBACK", "fallback")
		v := EnvValue{Env: "SEMREL_TEST_ABSENT", DefaultEnv: "SEMREL_TEST_FALLBACK", Default: "literal"}
		assert.Equal(t, "fallback", v.Resolve())
	})

	t.Run("default when both unset", func(t *testing.T) {
		v := EnvValue{Env: "SEMREL_TEST_ABSENT", DefaultEnv: "SEMREL_TEST_ALSO_ABSENT", Default: "literal"}
		assert.Equal(t, "literal", v.Resolve())
	})

	t.Run("zero value", func(t *testing.T) {
		var v EnvValue
		assert.True(t, v.IsZero())
		assert.Equal(t, "", v.Resolve())
	})
}
