// Package config provides configuration management for semrel.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/relicta-tech/semrel/internal/domain/changes"
	"github.com/relicta-tech/semrel/internal/domain/version"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

// Config is the root configuration for semrel.
type Config struct {
	// Versioning configures version computation and tagging.
	Versioning VersioningConfig `mapstructure:"versioning" json:"versioning"`
	// Branches is the ordered list of release branch groups. The first
	// group whose pattern matches the active branch wins.
	Branches []BranchConfig `mapstructure:"branches" json:"branches"`
	// Declarations lists the version-bearing files updated on release.
	Declarations []DeclarationConfig `mapstructure:"version_declarations" json:"version_declarations,omitempty"`
	// Changelog configures changelog generation.
	Changelog ChangelogConfig `mapstructure:"changelog" json:"changelog"`
	// HVCS configures the hosting service used for links and publishing.
	HVCS HvcsConfig `mapstructure:"hvcs" json:"hvcs"`
	// Git configures git operations.
	Git GitConfig `mapstructure:"git" json:"git"`
	// Output configures logging and output settings.
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// VersioningConfig configures version computation.
type VersioningConfig struct {
	// TagFormat is the template binding a version to its tag name. It must
	// contain exactly one "{version}" placeholder.
	TagFormat string `mapstructure:"tag_format" json:"tag_format"`
	// MajorOnZero allows breaking changes to bump the major component while
	// the version is still 0.x.y. Defaults to true.
	MajorOnZero *bool `mapstructure:"major_on_zero" json:"major_on_zero,omitempty"`
	// CommitParser selects the commit-message convention: angular, emoji,
	// tag, scipy, or the name of a registered extension parser.
	CommitParser string `mapstructure:"commit_parser" json:"commit_parser"`
	// Parser carries the options handed to the selected parser.
	Parser ParserConfig `mapstructure:"parser" json:"parser,omitempty"`
}

// AllowMajorOnZero returns the effective major_on_zero value.
func (v *VersioningConfig) AllowMajorOnZero() bool {
	if v.MajorOnZero == nil {
		return true
	}
	return *v.MajorOnZero
}

// ParserConfig carries per-convention parser options.
type ParserConfig struct {
	// AllowedTags lists the type tags the parser accepts.
	AllowedTags []string `mapstructure:"allowed_tags" json:"allowed_tags,omitempty"`
	// MinorTags lists the type tags inducing a minor bump.
	MinorTags []string `mapstructure:"minor_tags" json:"minor_tags,omitempty"`
	// PatchTags lists the type tags inducing a patch bump.
	PatchTags []string `mapstructure:"patch_tags" json:"patch_tags,omitempty"`
	// DefaultBumpLevel is applied to allowed types not listed above:
	// "no-release", "patch", "minor" or "major".
	DefaultBumpLevel string `mapstructure:"default_bump_level" json:"default_bump_level,omitempty"`
}

// Options converts the parser section into the option set handed to a
// commit parser. An empty section yields zero-value options, letting each
// parser fall back to its convention's defaults.
func (p ParserConfig) Options() changes.CommitParserOptions {
	return changes.CommitParserOptions{
		AllowedTags:      p.AllowedTags,
		MinorTags:        p.MinorTags,
		PatchTags:        p.PatchTags,
		DefaultBumpLevel: parseBumpLevel(p.DefaultBumpLevel),
	}
}

func parseBumpLevel(s string) version.LevelBump {
	switch s {
	case "patch":
		return version.Patch
	case "minor":
		return version.Minor
	case "major":
		return version.Major
	default:
		return version.NoRelease
	}
}

// BranchConfig describes one release branch group.
type BranchConfig struct {
	// Name identifies the group.
	Name string `mapstructure:"name" json:"name"`
	// Match is the regular expression the active branch must match.
	Match string `mapstructure:"match" json:"match"`
	// PrereleaseToken is the token used for prereleases cut from this
	// group (e.g. "rc", "beta").
	PrereleaseToken string `mapstructure:"prerelease_token" json:"prerelease_token,omitempty"`
	// Prerelease marks the group as producing prerelease versions.
	Prerelease bool `mapstructure:"prerelease" json:"prerelease"`
}

// DeclarationConfig describes one version-bearing file.
type DeclarationConfig struct {
	// Type selects the writer: "pattern" or "toml".
	Type string `mapstructure:"type" json:"type"`
	// Path is the file to rewrite.
	Path string `mapstructure:"path" json:"path"`
	// Pattern is the assignment pattern containing "{version}" (pattern
	// declarations only).
	Pattern string `mapstructure:"pattern" json:"pattern,omitempty"`
	// Key is the dotted TOML key (toml declarations only).
	Key string `mapstructure:"key" json:"key,omitempty"`
}

// ChangelogConfig configures changelog generation.
type ChangelogConfig struct {
	// File is the changelog file path.
	File string `mapstructure:"file" json:"file"`
	// Title is the changelog heading.
	Title string `mapstructure:"title" json:"title"`
	// Template is a custom template file path; empty selects the built-in.
	Template string `mapstructure:"template" json:"template,omitempty"`
}

// HvcsConfig configures the hosting service.
type HvcsConfig struct {
	// Type selects the service: github, gitlab or gitea.
	Type string `mapstructure:"type" json:"type"`
	// APIURL overrides the service API endpoint for self-hosted
	// installations.
	APIURL string `mapstructure:"api_url" json:"api_url,omitempty"`
	// Token authenticates publishing operations. Accepts a literal value,
	// a "${VAR}" expansion, or an env descriptor.
	Token EnvValue `mapstructure:"token" json:"token,omitempty"`
}

// GitConfig configures git operations.
type GitConfig struct {
	// Remote is the remote used for pushes and link building.
	Remote string `mapstructure:"remote" json:"remote,omitempty"`
	// CommitMessage is the message template for release commits; the
	// literal "{version}" is replaced with the new version.
	CommitMessage string `mapstructure:"commit_message" json:"commit_message,omitempty"`
	// CommitterName is the identity used for release commits and tags.
	CommitterName string `mapstructure:"committer_name" json:"committer_name,omitempty"`
	// CommitterEmail is the email used for release commits and tags.
	CommitterEmail string `mapstructure:"committer_email" json:"committer_email,omitempty"`
	// TagAnnotated creates annotated instead of lightweight tags.
	TagAnnotated bool `mapstructure:"tag_annotated" json:"tag_annotated"`
	// Push pushes the release commit and tag to the remote.
	Push bool `mapstructure:"push" json:"push"`
}

// OutputConfig configures output settings.
type OutputConfig struct {
	// Format is the output format (text, json).
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored output.
	Color bool `mapstructure:"color" json:"color"`
	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	// LogFile is the path to a log file.
	LogFile string `mapstructure:"log_file" json:"log_file,omitempty"`
	// MaskSecrets redacts configured secrets from all output.
	MaskSecrets bool `mapstructure:"mask_secrets" json:"mask_secrets"`
}

// EnvValue is a config value that may be a literal string or an env
// descriptor {env, default_env, default}. Resolution precedence is
// env, then default_env, then default.
type EnvValue struct {
	// Literal is the value as written, when the config carried a plain
	// string. "${VAR}" expansions are applied at resolution time.
	Literal string `mapstructure:"-" json:"-"`
	// Env names the environment variable to read.
	Env string `mapstructure:"env" json:"env,omitempty"`
	// DefaultEnv names a fallback environment variable.
	DefaultEnv string `mapstructure:"default_env" json:"default_env,omitempty"`
	// Default is the fallback literal.
	Default string `mapstructure:"default" json:"default,omitempty"`
}

// Resolve returns the effective value.
func (e EnvValue) Resolve() string {
	if e.Env != "" || e.DefaultEnv != "" || e.Default != "" {
		if e.Env != "" {
			if v, ok := os.LookupEnv(e.Env); ok {
				return v
			}
		}
		if e.DefaultEnv != "" {
			if v, ok := os.LookupEnv(e.DefaultEnv); ok {
				return v
			}
		}
		return e.Default
	}
	return expandEnvVar(e.Literal)
}

// IsZero reports whether no value was configured.
func (e EnvValue) IsZero() bool {
	return e.Literal == "" && e.Env == "" && e.DefaultEnv == "" && e.Default == ""
}

// SelectBranch picks the first branch group whose pattern matches the
// active branch. Declaration order is preserved; no match is the
// non-fatal NotAReleaseBranch condition.
func (c *Config) SelectBranch(activeBranch string) (*BranchConfig, error) {
	const op = "config.SelectBranch"

	for i := range c.Branches {
		group := &c.Branches[i]
		re, err := regexp.Compile(group.Match)
		if err != nil {
			return nil, semrelerrors.InvalidConfigurationWrap(err, op,
				fmt.Sprintf("branch group %q has an invalid pattern", group.Name))
		}
		if re.MatchString(activeBranch) {
			return group, nil
		}
	}

	return nil, semrelerrors.NotAReleaseBranch(op,
		fmt.Sprintf("branch %q matches no configured release group", activeBranch))
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Versioning: VersioningConfig{
			TagFormat:    "v{version}",
			CommitParser: "angular",
		},
		Branches: []BranchConfig{
			{Name: "main", Match: `^(main|master)$`},
			{Name: "rc", Match: `^rc/.+$`, Prerelease: true, PrereleaseToken: "rc"},
			{Name: "beta", Match: `^beta/.+$`, Prerelease: true, PrereleaseToken: "beta"},
		},
		Changelog: ChangelogConfig{
			File:  "CHANGELOG.md",
			Title: "Changelog",
		},
		HVCS: HvcsConfig{
			Type:  "github",
			Token: EnvValue{Env: "GITHUB_TOKEN"},
		},
		Git: GitConfig{
			Remote:        "origin",
			CommitMessage: "chore(release): {version}",
			TagAnnotated:  true,
			Push:          true,
		},
		Output: OutputConfig{
			Format:      "text",
			Color:       true,
			LogLevel:    "info",
			MaskSecrets: true,
		},
	}
}

// ConfigFileNames to search for.
// Only .semrel.{yaml,yml,json,toml} is supported for consistency with Go
// ecosystem conventions (.goreleaser.yaml, .golangci.yml, etc.).
var ConfigFileNames = []string{
	".semrel",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"json",
	"toml",
}
