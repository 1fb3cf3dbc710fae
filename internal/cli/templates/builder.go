package templates

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// TemplateData is the data bound into a configuration template.
type TemplateData struct {
	// ProjectName is the repository name.
	ProjectName string
	// HvcsType is the hosting service (github, gitlab, gitea).
	HvcsType string
	// VersionFile is the version-bearing file, when one was detected.
	VersionFile string
}

// Builder renders a configuration file from a template and detection data.
type Builder struct {
	registry  *Registry
	detection *Detection
	data      TemplateData
}

// NewBuilder creates a Builder.
func NewBuilder(registry *Registry, detection *Detection) *Builder {
	data := TemplateData{HvcsType: "github"}
	if detection != nil {
		data.VersionFile = detection.VersionFile
	}
	return &Builder{
		registry:  registry,
		detection: detection,
		data:      data,
	}
}

// SetProjectName sets the project name bound into the template.
func (b *Builder) SetProjectName(name string) *Builder {
	b.data.ProjectName = name
	return b
}

// SetHvcsType sets the hosting service bound into the template.
func (b *Builder) SetHvcsType(hvcsType string) *Builder {
	if hvcsType != "" {
		b.data.HvcsType = hvcsType
	}
	return b
}

// Data returns the current template data.
func (b *Builder) Data() TemplateData {
	return b.data
}

// Build renders the named template and validates the result parses as
// TOML before returning it.
func (b *Builder) Build(templateName string) (string, error) {
	tmpl, err := b.registry.Get(templateName)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Template.Execute(&buf, b.data); err != nil {
		return "", fmt.Errorf("rendering template %q: %w", templateName, err)
	}

	var check map[string]any
	if err := toml.Unmarshal(buf.Bytes(), &check); err != nil {
		return "", fmt.Errorf("template %q rendered invalid TOML: %w", templateName, err)
	}

	return buf.String(), nil
}

// BuildSuggested renders the template suggested by detection.
func (b *Builder) BuildSuggested() (string, error) {
	name := "generic"
	if b.detection != nil && b.detection.SuggestedTemplate != "" {
		name = b.detection.SuggestedTemplate
	}
	return b.Build(name)
}
