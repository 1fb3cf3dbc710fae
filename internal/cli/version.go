package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/semrel/internal/application/versioning"
	"github.com/relicta-tech/semrel/internal/domain/version"
	"github.com/relicta-tech/semrel/internal/infrastructure/declarations"
	"github.com/relicta-tech/semrel/internal/infrastructure/git"
)

var (
	versionNoCommit bool
	versionNoTag    bool
	versionNoPush   bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Compute the next version and apply it",
	Long: `Compute the next version from the commits since the last release and
apply it: rewrite the configured version files, commit them, tag the
commit and push.

Use --dry-run to see the computed version without touching the
repository, or 'semrel print-version' for a plain one-line answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportOutcome(runVersion(cmd.Context()))
	},
}

var printVersionCmd = &cobra.Command{
	Use:   "print-version",
	Short: "Print the next version without applying it",
	Long: `Compute the next version and print it on a single line, for use in
scripts and CI pipelines. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportOutcome(runPrintVersion(cmd.Context()))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionNoCommit, "no-commit", false, "do not commit rewritten version files")
	versionCmd.Flags().BoolVar(&versionNoTag, "no-tag", false, "do not create the release tag")
	versionCmd.Flags().BoolVar(&versionNoPush, "no-push", false, "do not push the commit and tag")
}

// computeNextVersion runs the version algorithm for the active branch.
func computeNextVersion(ctx context.Context, rt *runtime) (*versioning.NextVersionOutput, error) {
	uc := versioning.NewNextVersionUseCase(rt.repo, rt.translator, rt.parser)
	return uc.Execute(ctx, versioning.NextVersionInput{
		Prerelease:  rt.group.Prerelease,
		MajorOnZero: cfg.Versioning.AllowMajorOnZero(),
	})
}

func runPrintVersion(ctx context.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	out, err := computeNextVersion(ctx, rt)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"current_version": out.CurrentVersion.String(),
			"next_version":    out.NextVersion.String(),
			"level_bump":      out.LevelBump.String(),
			"has_release":     out.HasRelease(),
		})
	}

	fmt.Println(out.NextVersion.String())
	return nil
}

func runVersion(ctx context.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	out, err := computeNextVersion(ctx, rt)
	if err != nil {
		return err
	}

	if !out.HasRelease() {
		logger.Info("no release will be made", "current", out.CurrentVersion.String())
		printInfo(fmt.Sprintf("No release: staying on %s", out.CurrentVersion))
		return nil
	}

	next := out.NextVersion
	tagName := rt.translator.StrToTag(next)
	logger.Info("next version computed",
		"current", out.CurrentVersion.String(),
		"next", next.String(),
		"bump", out.LevelBump.String(),
		"tag", tagName,
	)

	if dryRun {
		printTitle(fmt.Sprintf("Would release %s (tag %s)", next, tagName))
		return nil
	}

	// Writes are ordered: version files, commit, tag, push. A failing step
	// skips everything after it.
	written, err := applyDeclarations(next)
	if err != nil {
		return err
	}

	if len(written) > 0 && !versionNoCommit {
		if err := commitVersionFiles(ctx, rt, next, written); err != nil {
			return err
		}
	}

	if !versionNoTag {
		if err := createTag(ctx, rt, tagName, next); err != nil {
			return err
		}
	}

	if cfg.Git.Push && !versionNoPush {
		if err := pushRelease(ctx, rt, tagName); err != nil {
			return err
		}
	}

	printSuccess(fmt.Sprintf("Released %s", next))
	return nil
}

// applyDeclarations rewrites every configured version file and returns the
// paths touched.
func applyDeclarations(next version.SemanticVersion) ([]string, error) {
	written := make([]string, 0, len(cfg.Declarations))
	for _, declCfg := range cfg.Declarations {
		decl, err := buildDeclaration(declCfg.Type, declCfg.Path, declCfg.Pattern, declCfg.Key)
		if err != nil {
			return nil, err
		}
		if err := decl.Replace(next); err != nil {
			return nil, err
		}
		logger.Debug("version declaration updated", "path", decl.Path())
		written = append(written, decl.Path())
	}
	return written, nil
}

func buildDeclaration(declType, path, pattern, key string) (declarations.Declaration, error) {
	switch declType {
	case "toml":
		return declarations.NewTOMLDeclaration(path, key)
	default:
		return declarations.NewPatternDeclaration(path, pattern)
	}
}

func commitVersionFiles(ctx context.Context, rt *runtime, next version.SemanticVersion, paths []string) error {
	if err := rt.repo.StageFiles(ctx, paths); err != nil {
		return err
	}

	message := strings.Replace(cfg.Git.CommitMessage, "{version}", next.String(), 1)
	commit, err := rt.repo.Commit(ctx, message)
	if err != nil {
		return err
	}
	logger.Info("release commit created", "commit", commit.ShortHash(), "files", len(paths))
	return nil
}

func createTag(ctx context.Context, rt *runtime, tagName string, next version.SemanticVersion) error {
	message := ""
	if cfg.Git.TagAnnotated {
		message = fmt.Sprintf("Release %s", next)
	}

	if err := rt.service.CreateTag(ctx, tagName, message, git.TagOptions{
		Annotated: cfg.Git.TagAnnotated,
	}); err != nil {
		return err
	}
	logger.Info("tag created", "tag", tagName)
	return nil
}

func pushRelease(ctx context.Context, rt *runtime, tagName string) error {
	if err := rt.repo.Push(ctx, cfg.Git.Remote, rt.branch); err != nil {
		return err
	}
	if err := rt.repo.PushTag(ctx, tagName, cfg.Git.Remote); err != nil {
		return err
	}
	logger.Info("pushed to remote", "remote", cfg.Git.Remote, "tag", tagName)
	return nil
}
