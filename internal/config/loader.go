// Package config provides configuration management for semrel.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

// Pre-compiled regex patterns for environment variable expansion.
// These are compiled once at package initialization to avoid repeated compilation.
var (
	// envVarPattern matches ${VAR} or ${VAR:-default} syntax
	envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)
	// simpleEnvVarPattern matches $VAR syntax
	simpleEnvVarPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// Loader handles configuration loading and merging.
type Loader struct {
	v           *viper.Viper
	configPath  string
	searchPaths []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("SEMREL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:           v,
		searchPaths: []string{"."},
	}
}

// WithConfigPath sets an explicit config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithSearchPaths adds directories to search for config files.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = append(l.searchPaths, paths...)
	return l
}

// Load loads the configuration.
func (l *Loader) Load() (*Config, error) {
	const op = "config.Load"

	l.setDefaults()

	if err := l.loadConfigFile(); err != nil {
		return nil, semrelerrors.InvalidConfigurationWrap(err, op, "failed to load config file")
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		envValueHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, semrelerrors.InvalidConfigurationWrap(err, op, "failed to unmarshal config")
	}

	l.expandEnvVars(cfg)

	return cfg, nil
}

// envValueHookFunc decodes an EnvValue from either a plain string or an
// {env, default_env, default} descriptor map.
func envValueHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(EnvValue{}) {
			return data, nil
		}
		if from.Kind() == reflect.String {
			return EnvValue{Literal: data.(string)}, nil
		}
		return data, nil
	}
}

// setDefaults sets default values using Viper.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Versioning defaults
	l.v.SetDefault("versioning.tag_format", defaults.Versioning.TagFormat)
	l.v.SetDefault("versioning.commit_parser", defaults.Versioning.CommitParser)

	// Changelog defaults
	l.v.SetDefault("changelog.file", defaults.Changelog.File)
	l.v.SetDefault("changelog.title", defaults.Changelog.Title)

	// Hosting service defaults
	l.v.SetDefault("hvcs.type", defaults.HVCS.Type)

	// Git defaults
	l.v.SetDefault("git.remote", defaults.Git.Remote)
	l.v.SetDefault("git.commit_message", defaults.Git.CommitMessage)
	l.v.SetDefault("git.tag_annotated", defaults.Git.TagAnnotated)
	l.v.SetDefault("git.push", defaults.Git.Push)

	// Output defaults
	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.color", defaults.Output.Color)
	l.v.SetDefault("output.log_level", defaults.Output.LogLevel)
	l.v.SetDefault("output.mask_secrets", defaults.Output.MaskSecrets)
}

// applyBranchDefaults fills in defaults viper cannot express for list
// values: an absent branches section falls back to the default groups.
func applyBranchDefaults(cfg *Config) {
	if len(cfg.Branches) == 0 {
		cfg.Branches = DefaultConfig().Branches
	}
	if cfg.HVCS.Token.IsZero() {
		cfg.HVCS.Token = DefaultConfig().HVCS.Token
	}
}

// loadConfigFile loads the configuration file.
func (l *Loader) loadConfigFile() error {
	// If explicit path provided, use it
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", l.configPath, err)
		}
		return nil
	}

	// Search for config file in paths
	for _, searchPath := range l.searchPaths {
		for _, name := range ConfigFileNames {
			for _, ext := range ConfigFileExtensions {
				configFile := filepath.Join(searchPath, name+"."+ext)
				if _, err := os.Stat(configFile); err == nil {
					l.v.SetConfigFile(configFile)
					if err := l.v.ReadInConfig(); err != nil {
						return fmt.Errorf("reading config file %s: %w", configFile, err)
					}
					return nil
				}
			}
		}
	}

	// No config file found - this is OK, we use defaults
	return nil
}

// expandEnvVars expands environment variables in string-valued fields and
// applies the list-value defaults.
func (l *Loader) expandEnvVars(cfg *Config) {
	applyBranchDefaults(cfg)

	cfg.HVCS.APIURL = expandEnvVar(cfg.HVCS.APIURL)
	cfg.Output.LogFile = expandEnvVar(cfg.Output.LogFile)
}

// expandEnvVar expands environment variables in a string.
// Supports both ${VAR} and $VAR syntax.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Use pre-compiled pattern for ${VAR} or ${VAR:-default}
	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		varName := submatch[1]
		defaultValue := ""
		if len(submatch) > 2 {
			defaultValue = submatch[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})

	// Also expand simple $VAR syntax (but not $$) using pre-compiled pattern
	result = simpleEnvVarPattern.ReplaceAllStringFunc(result, func(match string) string {
		varName := match[1:] // Remove leading $
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})

	return result
}

// GetConfigPath returns the path to the loaded config file, if any.
func (l *Loader) GetConfigPath() string {
	return l.v.ConfigFileUsed()
}

// MergeConfig merges additional configuration values.
func (l *Loader) MergeConfig(values map[string]any) error {
	for key, value := range values {
		l.v.Set(key, value)
	}
	return nil
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader().WithConfigPath(path).Load()
}

// LoadFromDirectory loads configuration from a directory.
func LoadFromDirectory(dir string) (*Config, error) {
	return NewLoader().WithSearchPaths(dir).Load()
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// FindConfigFile searches for a config file and returns its path.
func FindConfigFile(searchPaths ...string) (string, error) {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}

	for _, searchPath := range searchPaths {
		for _, name := range ConfigFileNames {
			for _, ext := range ConfigFileExtensions {
				configFile := filepath.Join(searchPath, name+"."+ext)
				if _, err := os.Stat(configFile); err == nil {
					return configFile, nil
				}
			}
		}
	}

	return "", semrelerrors.NotFound("config.FindConfigFile", "no config file found")
}

// ConfigExists returns true if a config file exists in the given directory.
func ConfigExists(dir string) bool {
	_, err := FindConfigFile(dir)
	return err == nil
}
