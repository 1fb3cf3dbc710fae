// Package templates provides project detection and config scaffolding for
// the init command.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"
)

//go:embed data/*.toml.tmpl
var templateFiles embed.FS

// Template is one embedded configuration template.
type Template struct {
	// Name is the unique identifier for this template.
	Name string
	// Description explains which projects this template targets.
	Description string
	// Content is the raw template content.
	Content string
	// Template is the parsed Go template.
	Template *template.Template
}

// Registry manages the available configuration templates.
type Registry struct {
	templates map[string]*Template
}

// templateDescriptions maps template names to their one-line description.
var templateDescriptions = map[string]string{
	"generic": "Tag-only versioning for any project",
	"go":      "Go module released through git tags",
	"python":  "Python project with a pyproject.toml version",
	"rust":    "Rust crate with a Cargo.toml version",
	"node":    "Node package with a package.json version pattern",
}

// NewRegistry creates a new template registry and loads all embedded
// templates.
func NewRegistry() (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template)}

	err := fs.WalkDir(templateFiles, "data", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml.tmpl") {
			return nil
		}

		content, err := templateFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading embedded template %s: %w", path, err)
		}

		name := strings.TrimSuffix(strings.TrimPrefix(path, "data/"), ".toml.tmpl")
		parsed, err := template.New(name).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing embedded template %s: %w", name, err)
		}

		r.templates[name] = &Template{
			Name:        name,
			Description: templateDescriptions[name],
			Content:     string(content),
			Template:    parsed,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return r, nil
}

// Get returns the template with the given name.
func (r *Registry) Get(name string) (*Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Names returns the available template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
