package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

func validConfig() *Config {
	return DefaultConfig()
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateTagFormat(t *testing.T) {
	tests := []struct {
		name      string
		tagFormat string
		ok        bool
	}{
		{"default", "v{version}", true},
		{"bare", "{version}", true},
		{"prefixed", "release-{version}", true},
		{"missing placeholder", "v1.0.0", false},
		{"double placeholder", "{version}-{version}", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Versioning.TagFormat = tt.tagFormat
			err := Validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateParserName(t *testing.T) {
	cfg := validConfig()
	cfg.Versioning.CommitParser = "nonexistent"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, semrelerrors.KindInvalidConfiguration, semrelerrors.GetKind(err))
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestValidateDefaultBumpLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Versioning.Parser.DefaultBumpLevel = "gigantic"
	assert.Error(t, Validate(cfg))

	cfg.Versioning.Parser.DefaultBumpLevel = "patch"
	assert.NoError(t, Validate(cfg))
}

func TestValidateBranches(t *testing.T) {
	t.Run("empty branch list", func(t *testing.T) {
		cfg := validConfig()
		cfg.Branches = nil
		assert.Error(t, Validate(cfg))
	})

	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Branches = []BranchConfig{{Match: "^main$"}}
		assert.Error(t, Validate(cfg))
	})

	t.Run("duplicate name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Branches = []BranchConfig{
			{Name: "main", Match: "^main$"},
			{Name: "main", Match: "^master$"},
		}
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declared twice")
	})

	t.Run("invalid regex", func(t *testing.T) {
		cfg := validConfig()
		cfg.Branches = []BranchConfig{{Name: "bad", Match: "(["}}
		assert.Error(t, Validate(cfg))
	})

	t.Run("prerelease without token", func(t *testing.T) {
		cfg := validConfig()
		cfg.Branches = []BranchConfig{{Name: "rc", Match: "^rc$", Prerelease: true}}
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prerelease_token")
	})
}

func TestValidateDeclarations(t *testing.T) {
	t.Run("pattern needs placeholder", func(t *testing.T) {
		cfg := validConfig()
		cfg.Declarations = []DeclarationConfig{{Type: "pattern", Path: "v.py", Pattern: `v = "1.0.0"`}}
		assert.Error(t, Validate(cfg))
	})

	t.Run("toml needs key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Declarations = []DeclarationConfig{{Type: "toml", Path: "Cargo.toml"}}
		assert.Error(t, Validate(cfg))
	})

	t.Run("unknown type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Declarations = []DeclarationConfig{{Type: "xml", Path: "pom.xml"}}
		assert.Error(t, Validate(cfg))
	})

	t.Run("valid declarations", func(t *testing.T) {
		cfg := validConfig()
		cfg.Declarations = []DeclarationConfig{
			{Type: "pattern", Path: "v.py", Pattern: `__version__ = "{version}"`},
			{Type: "toml", Path: "Cargo.toml", Key: "package.version"},
		}
		assert.NoError(t, Validate(cfg))
	})
}

func TestValidateHvcsType(t *testing.T) {
	cfg := validConfig()
	cfg.HVCS.Type = "sourcehut"
	assert.Error(t, Validate(cfg))
}

func TestValidateOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Output.LogLevel = "loud"
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Output.Format = "xml"
	assert.Error(t, Validate(cfg))
}

func TestValidationErrorAggregates(t *testing.T) {
	cfg := validConfig()
	cfg.Versioning.TagFormat = "nope"
	cfg.HVCS.Type = "sourcehut"
	cfg.Changelog.File = ""

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "tag_format"))
	assert.True(t, strings.Contains(msg, "hvcs.type"))
	assert.True(t, strings.Contains(msg, "changelog.file"))
}
