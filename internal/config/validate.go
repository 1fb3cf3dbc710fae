// Package config provides configuration management for semrel.
package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/changes"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

// ValidationError contains all validation errors.
type ValidationError struct {
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Validator validates configuration.
type Validator struct {
	errors *ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: &ValidationError{},
	}
}

// Validate validates the configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateVersioning(cfg.Versioning)
	v.validateBranches(cfg.Branches)
	v.validateDeclarations(cfg.Declarations)
	v.validateChangelog(cfg.Changelog)
	v.validateHvcs(cfg.HVCS)
	v.validateOutput(cfg.Output)

	if v.errors.HasErrors() {
		return semrelerrors.InvalidConfiguration("config.Validate", v.errors.Error())
	}

	return nil
}

// validateVersioning validates the versioning section.
func (v *Validator) validateVersioning(cfg VersioningConfig) {
	if count := strings.Count(cfg.TagFormat, "{version}"); count != 1 {
		v.errors.Addf("versioning.tag_format must contain exactly one {version} placeholder, found %d in %q", count, cfg.TagFormat)
	}

	if cfg.CommitParser != "" && !slices.Contains(changes.ParserNames(), cfg.CommitParser) {
		v.errors.Addf("versioning.commit_parser %q is not a known parser (known: %s)",
			cfg.CommitParser, strings.Join(changes.ParserNames(), ", "))
	}

	validLevels := []string{"", "no-release", "patch", "minor", "major"}
	if !slices.Contains(validLevels, cfg.Parser.DefaultBumpLevel) {
		v.errors.Addf("versioning.parser.default_bump_level %q is invalid (use no-release, patch, minor or major)",
			cfg.Parser.DefaultBumpLevel)
	}
}

// validateBranches validates the branch groups.
func (v *Validator) validateBranches(branches []BranchConfig) {
	if len(branches) == 0 {
		v.errors.Addf("at least one branch group must be configured")
		return
	}

	seen := make(map[string]bool, len(branches))
	for i, group := range branches {
		if group.Name == "" {
			v.errors.Addf("branches[%d] is missing a name", i)
		} else if seen[group.Name] {
			v.errors.Addf("branch group %q is declared twice", group.Name)
		}
		seen[group.Name] = true

		if group.Match == "" {
			v.errors.Addf("branch group %q is missing a match pattern", group.Name)
		} else if _, err := regexp.Compile(group.Match); err != nil {
			v.errors.Addf("branch group %q has an invalid match pattern: %v", group.Name, err)
		}

		if group.Prerelease && group.PrereleaseToken == "" {
			v.errors.Addf("branch group %q is a prerelease group but has no prerelease_token", group.Name)
		}
	}
}

// validateDeclarations validates the version declarations.
func (v *Validator) validateDeclarations(declarations []DeclarationConfig) {
	for i, decl := range declarations {
		if decl.Path == "" {
			v.errors.Addf("version_declarations[%d] is missing a path", i)
		}

		switch decl.Type {
		case "pattern":
			if !strings.Contains(decl.Pattern, "{version}") {
				v.errors.Addf("version_declarations[%d] pattern must contain {version}", i)
			}
		case "toml":
			if strings.TrimSpace(decl.Key) == "" {
				v.errors.Addf("version_declarations[%d] is missing a TOML key", i)
			}
		default:
			v.errors.Addf("version_declarations[%d] has unknown type %q (use pattern or toml)", i, decl.Type)
		}
	}
}

// validateChangelog validates the changelog section.
func (v *Validator) validateChangelog(cfg ChangelogConfig) {
	if cfg.File == "" {
		v.errors.Addf("changelog.file must not be empty")
	}
	if cfg.Title == "" {
		v.errors.Addf("changelog.title must not be empty")
	}
}

// validateHvcs validates the hosting service section.
func (v *Validator) validateHvcs(cfg HvcsConfig) {
	validTypes := []string{"github", "gitlab", "gitea"}
	if !slices.Contains(validTypes, cfg.Type) {
		v.errors.Addf("hvcs.type %q is invalid (use github, gitlab or gitea)", cfg.Type)
	}
}

// validateOutput validates the output section.
func (v *Validator) validateOutput(cfg OutputConfig) {
	validFormats := []string{"", "text", "json"}
	if !slices.Contains(validFormats, cfg.Format) {
		v.errors.Addf("output.format %q is invalid (use text or json)", cfg.Format)
	}

	validLevels := []string{"", "debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.LogLevel) {
		v.errors.Addf("output.log_level %q is invalid (use debug, info, warn or error)", cfg.LogLevel)
	}
}

// Validate validates a configuration using a fresh validator.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateAndLoad loads and validates configuration in one step.
func ValidateAndLoad() (*Config, error) {
	cfg, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
