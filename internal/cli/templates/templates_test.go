package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadsEmbeddedTemplates(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	names := registry.Names()
	assert.Equal(t, []string{"generic", "go", "node", "python", "rust"}, names)

	for _, name := range names {
		tmpl, err := registry.Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, tmpl.Content)
		assert.NotEmpty(t, tmpl.Description)
	}

	_, err = registry.Get("fortran")
	assert.Error(t, err)
}

func TestDetector(t *testing.T) {
	tests := []struct {
		name         string
		files        []string
		wantLanguage Language
		wantTemplate string
		wantVersion  string
	}{
		{"go project", []string{"go.mod"}, LanguageGo, "go", ""},
		{"python project", []string{"pyproject.toml"}, LanguagePython, "python", "pyproject.toml"},
		{"rust project", []string{"Cargo.toml"}, LanguageRust, "rust", "Cargo.toml"},
		{"node project", []string{"package.json"}, LanguageNode, "node", "package.json"},
		{"empty dir", nil, LanguageUnknown, "generic", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
			}

			detection := NewDetector(dir).Detect()
			assert.Equal(t, tt.wantLanguage, detection.Language)
			assert.Equal(t, tt.wantTemplate, detection.SuggestedTemplate)
			assert.Equal(t, tt.wantVersion, detection.VersionFile)
		})
	}
}

func TestDetectorPrefersGoOverNode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	detection := NewDetector(dir).Detect()
	assert.Equal(t, LanguageGo, detection.Language)
}

func TestBuilderRendersValidTOML(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			builder := NewBuilder(registry, nil).
				SetProjectName("widget").
				SetHvcsType("gitlab")

			content, err := builder.Build(name)
			require.NoError(t, err)
			assert.Contains(t, content, `type = "gitlab"`)
			assert.Contains(t, content, "tag_format")
		})
	}
}

func TestBuilderUsesDetection(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	detection := &Detection{
		Language:          LanguageRust,
		SuggestedTemplate: "rust",
		VersionFile:       "crates/widget/Cargo.toml",
	}

	content, err := NewBuilder(registry, detection).BuildSuggested()
	require.NoError(t, err)
	assert.Contains(t, content, `path = "crates/widget/Cargo.toml"`)
	assert.Contains(t, content, `key = "package.version"`)
}

func TestBuilderDefaultsToGeneric(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	content, err := NewBuilder(registry, nil).BuildSuggested()
	require.NoError(t, err)
	assert.Contains(t, content, `type = "github"`, "hvcs defaults to github")
}
