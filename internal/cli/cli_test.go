package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicta-tech/semrel/internal/config"
	"github.com/relicta-tech/semrel/internal/domain/version"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, expected := range []string{"init", "version", "print-version", "changelog", "publish"} {
		assert.True(t, names[expected], "missing subcommand %q", expected)
	}
}

func TestReportOutcome(t *testing.T) {
	t.Run("nil is nil", func(t *testing.T) {
		assert.NoError(t, reportOutcome(nil))
	})

	t.Run("not a release branch succeeds", func(t *testing.T) {
		err := semrelerrors.NotAReleaseBranch("x", "feature branch")
		assert.NoError(t, reportOutcome(err))
	})

	t.Run("hvcs failures succeed with a warning", func(t *testing.T) {
		err := semrelerrors.Hvcs("x", "api down")
		assert.NoError(t, reportOutcome(err))
	})

	t.Run("upload failures succeed with a warning", func(t *testing.T) {
		err := semrelerrors.Upload("x", "asset rejected")
		assert.NoError(t, reportOutcome(err))
	})

	t.Run("fatal errors propagate", func(t *testing.T) {
		err := semrelerrors.MergeBase("x", "two bases")
		assert.Error(t, reportOutcome(err))

		plain := errors.New("boom")
		assert.Error(t, reportOutcome(plain))
	})
}

func TestTagPrefix(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"v{version}", "v"},
		{"{version}", ""},
		{"release-{version}", "release-"},
	}

	for _, tt := range tests {
		rt := &runtime{translator: version.NewVersionTranslator(tt.format, "rc")}
		assert.Equal(t, tt.want, tagPrefix(rt), tt.format)
	}
}

func TestProjectNameFromDir(t *testing.T) {
	assert.Equal(t, "widget", projectNameFromDir("/home/dev/widget"))
	assert.Equal(t, "widget", projectNameFromDir(`C:\code\widget`))
	assert.Equal(t, "", projectNameFromDir(""))
}

func TestBuildDeclaration(t *testing.T) {
	pattern, err := buildDeclaration("pattern", "v.py", `__version__ = "{version}"`, "")
	require.NoError(t, err)
	assert.Equal(t, "v.py", pattern.Path())

	tomlDecl, err := buildDeclaration("toml", "Cargo.toml", "", "package.version")
	require.NoError(t, err)
	assert.Equal(t, "Cargo.toml", tomlDecl.Path())

	_, err = buildDeclaration("pattern", "v.py", "no placeholder", "")
	assert.Error(t, err)
}

func TestInitCommandWritesConfig(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\nname = \"w\"\nversion = \"0.1.0\"\n"), 0o644))

	initTemplate = ""
	initHvcsType = "gitea"
	initForce = false
	t.Cleanup(func() { initHvcsType = "" })

	require.NoError(t, runInit(initCmd, nil))

	data, err := os.ReadFile(filepath.Join(dir, ".semrel.toml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `type = "gitea"`)
	assert.Contains(t, content, `key = "package.version"`)

	// The generated file must load and validate.
	cfg, err := config.LoadFromDirectory(dir)
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".semrel.toml"), []byte("# existing\n"), 0o644))

	initForce = false
	require.NoError(t, runInit(initCmd, nil))

	data, err := os.ReadFile(filepath.Join(dir, ".semrel.toml"))
	require.NoError(t, err)
	assert.Equal(t, "# existing\n", string(data), "existing config must not be overwritten")
}
