package templates

import (
	"os"
	"path/filepath"
)

// Language is the primary language detected in a project.
type Language string

const (
	LanguageGo      Language = "go"
	LanguagePython  Language = "python"
	LanguageRust    Language = "rust"
	LanguageNode    Language = "node"
	LanguageUnknown Language = "unknown"
)

// Detection is the result of probing a project directory.
type Detection struct {
	// Language is the detected primary language.
	Language Language
	// SuggestedTemplate names the config template that fits the project.
	SuggestedTemplate string
	// VersionFile is the version-bearing file found, if any.
	VersionFile string
}

// Detector probes a directory for the project shape.
type Detector struct {
	basePath string
}

// NewDetector creates a detector rooted at basePath.
func NewDetector(basePath string) *Detector {
	if basePath == "" {
		basePath = "."
	}
	return &Detector{basePath: basePath}
}

// Detect probes the project. Detection never fails: unknown projects get
// the generic template.
func (d *Detector) Detect() *Detection {
	detection := &Detection{
		Language:          LanguageUnknown,
		SuggestedTemplate: "generic",
	}

	switch {
	case d.fileExists("go.mod"):
		detection.Language = LanguageGo
		detection.SuggestedTemplate = "go"
	case d.fileExists("pyproject.toml"):
		detection.Language = LanguagePython
		detection.SuggestedTemplate = "python"
		detection.VersionFile = "pyproject.toml"
	case d.fileExists("Cargo.toml"):
		detection.Language = LanguageRust
		detection.SuggestedTemplate = "rust"
		detection.VersionFile = "Cargo.toml"
	case d.fileExists("package.json"):
		detection.Language = LanguageNode
		detection.SuggestedTemplate = "node"
		detection.VersionFile = "package.json"
	}

	return detection
}

func (d *Detector) fileExists(name string) bool {
	info, err := os.Stat(filepath.Join(d.basePath, name))
	return err == nil && !info.IsDir()
}
