package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/semrel/internal/cli/templates"
	"github.com/relicta-tech/semrel/internal/config"
	"github.com/relicta-tech/semrel/internal/fileutil"
)

var (
	initTemplate string
	initHvcsType string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a semrel configuration",
	Long: `Create a .semrel.toml in the current directory.

The project type is detected (Go, Python, Rust, Node) and the matching
template pre-wires the right version declaration; --template overrides
the detection.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initTemplate, "template", "", "config template to use (default: detected)")
	initCmd.Flags().StringVar(&initHvcsType, "hvcs", "", "hosting service (github, gitlab, gitea)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	const configPath = ".semrel.toml"

	if config.ConfigExists(".") && !initForce {
		existing, _ := config.FindConfigFile(".")
		printWarning(fmt.Sprintf("Configuration already exists at %s (use --force to overwrite)", existing))
		return nil
	}

	registry, err := templates.NewRegistry()
	if err != nil {
		return err
	}

	detection := templates.NewDetector(".").Detect()
	logger.Debug("project detected", "language", detection.Language, "template", detection.SuggestedTemplate)

	cwd, _ := os.Getwd()
	builder := templates.NewBuilder(registry, detection).
		SetProjectName(projectNameFromDir(cwd)).
		SetHvcsType(initHvcsType)

	var content string
	if initTemplate != "" {
		content, err = builder.Build(initTemplate)
	} else {
		content, err = builder.BuildSuggested()
	}
	if err != nil {
		return err
	}

	if err := fileutil.AtomicWriteFile(configPath, []byte(content), 0o644); err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Created %s (%s template)", configPath, templateNameUsed(initTemplate, detection)))
	printSubtle("Review the branch groups and hosting service, then run 'semrel print-version'.")
	return nil
}

func templateNameUsed(override string, detection *templates.Detection) string {
	if override != "" {
		return override
	}
	return detection.SuggestedTemplate
}

func projectNameFromDir(dir string) string {
	if dir == "" {
		return ""
	}
	base := dir
	for i := len(dir) - 1; i >= 0; i-- {
		if dir[i] == '/' || dir[i] == '\\' {
			base = dir[i+1:]
			break
		}
	}
	return base
}
