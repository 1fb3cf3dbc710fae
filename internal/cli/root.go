// Package cli provides the command-line interface for semrel.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relicta-tech/semrel/internal/config"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
	"github.com/relicta-tech/semrel/internal/security"
)

var (
	// Version information set by main.
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Global flags
	cfgFile    string
	verbose    bool
	dryRun     bool
	outputJSON bool
	noColor    bool
	logLevel   string

	// Global config
	cfg *config.Config

	// Logger
	logger *log.Logger

	// logFile holds the log file handle for cleanup
	logFile *os.File

	// Styles
	styles = struct {
		Title   lipgloss.Style
		Success lipgloss.Style
		Error   lipgloss.Style
		Warning lipgloss.Style
		Info    lipgloss.Style
		Subtle  lipgloss.Style
		Bold    lipgloss.Style
	}{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
)

// SetVersionInfo sets the version information from main.
func SetVersionInfo(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
	rootCmd.Version = version
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "semrel",
	Short: "Automated semantic versioning from conventional commits",
	Long: `semrel derives the next semantic version of a project from its git
history. It parses conventional commits, reconciles them with the existing
tags and the active branch's release policy, and produces the version,
changelog and hosting-service release that follow.

Key features:
  • Conventional commit parsing (angular, emoji, tag and scipy conventions)
  • Prerelease channels driven by branch patterns
  • Changelog generation grouped per released version
  • Version file rewriting, tagging and pushing in one step
  • GitHub, GitLab and Gitea link building

Get started with 'semrel init' to set up your project.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and help commands
		if cmd.Name() == "init" || cmd.Name() == "help" {
			return nil
		}
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context for graceful shutdown.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize logger with default settings
	// JSON format and log level are configured in initConfig based on flags
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: .semrel.{toml,yaml,json})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "simulate actions without making changes")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output.color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("output.log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(printVersionCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(publishCmd)
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig() error {
	loader := config.NewLoader()

	if cfgFile != "" {
		loader.WithConfigPath(cfgFile)
	}

	var err error
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// applyGlobalFlags applies global CLI flags to the configuration.
func applyGlobalFlags() {
	if verbose {
		cfg.Output.Verbose = true
	}

	if noColor {
		cfg.Output.Color = false
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// configureLoggerFormat configures the logger format based on settings.
func configureLoggerFormat() {
	if outputJSON || cfg.Output.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
		logger.SetReportTimestamp(true)
		logger.SetReportCaller(true)
	} else if !cfg.Output.Color || noColor {
		logger.SetFormatter(log.TextFormatter)
	}
}

// configureLogLevel sets the logger level based on configuration.
func configureLogLevel() {
	level := cfg.Output.LogLevel
	if logLevel != "" && logLevel != "info" {
		level = logLevel
	}

	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if cfg.Output.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// configureLogFile sets up log file output if specified.
func configureLogFile() error {
	if cfg.Output.LogFile == "" {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(cfg.Output.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(security.NewMaskedWriter(logFile))
	return nil
}

// configureMasking wires configured secrets into the output masker.
func configureMasking() {
	if !cfg.Output.MaskSecrets {
		return
	}

	security.Enable()
	security.EnableInCI()

	if token := cfg.HVCS.Token.Resolve(); token != "" {
		security.AddSecret(token)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Load and validate configuration
	if err := loadAndValidateConfig(); err != nil {
		return err
	}

	// Apply CLI flags to configuration
	applyGlobalFlags()

	// Configure logger
	configureLoggerFormat()
	configureLogLevel()
	configureMasking()

	// One correlation id per invocation, carried on every log line.
	logger = logger.With("run_id", uuid.NewString())

	// Configure log file
	return configureLogFile()
}

// Cleanup closes any open resources. Should be called before program exit.
func Cleanup() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// reportOutcome translates an error into the exit behavior of the run:
// recoverable "no release" conditions log at INFO and succeed, recoverable
// hosting-service failures log at WARN and succeed, everything else logs at
// ERROR and fails the command.
func reportOutcome(err error) error {
	if err == nil {
		return nil
	}

	var semrelErr *semrelerrors.Error
	if errors.As(err, &semrelErr) {
		switch semrelErr.Kind {
		case semrelerrors.KindNotAReleaseBranch:
			logger.Info("no release", "reason", semrelErr.Message)
			return nil
		case semrelerrors.KindHvcs, semrelerrors.KindUpload:
			logger.Warn(security.Mask(semrelErr.Error()))
			return nil
		}
	}

	logger.Error(security.Mask(err.Error()))
	return err
}

// Helper functions for output

func printSuccess(msg string) {
	fmt.Println(styles.Success.Render("✓ " + msg))
}

func printError(msg string) {
	fmt.Println(styles.Error.Render("✗ " + msg))
}

func printWarning(msg string) {
	fmt.Println(styles.Warning.Render("⚠ " + msg))
}

func printInfo(msg string) {
	fmt.Println(styles.Info.Render("ℹ " + msg))
}

func printTitle(msg string) {
	fmt.Println(styles.Title.Render(msg))
}

func printSubtle(msg string) {
	fmt.Println(styles.Subtle.Render(msg))
}

// IsJSONOutput returns true if JSON output is enabled.
func IsJSONOutput() bool {
	return outputJSON
}
