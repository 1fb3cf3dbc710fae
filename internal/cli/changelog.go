package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/semrel/internal/domain/communication"
	"github.com/relicta-tech/semrel/internal/fileutil"
	"github.com/relicta-tech/semrel/internal/infrastructure/git"
	"github.com/relicta-tech/semrel/internal/infrastructure/template"
)

var (
	changelogWrite bool
	changelogRef   string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Render the changelog from the release history",
	Long: `Walk the repository's history, group every commit under the release
that shipped it (or the unreleased bucket), and render the changelog.

By default the changelog is printed to stdout; --write replaces the
configured changelog file instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportOutcome(runChangelog(cmd.Context()))
	},
}

func init() {
	changelogCmd.Flags().BoolVar(&changelogWrite, "write", false, "write the changelog to the configured file")
	changelogCmd.Flags().StringVar(&changelogRef, "ref", "", "render history reachable from this ref instead of the active branch")
}

// buildHistory walks the branch and groups commits per release.
func buildHistory(ctx context.Context, rt *runtime) (*communication.ReleaseHistory, error) {
	ref := rt.branch
	if changelogRef != "" {
		if err := git.ValidateGitRef(changelogRef); err != nil {
			return nil, err
		}
		ref = changelogRef
	}

	commits, err := rt.repo.GetCommits(ctx, ref)
	if err != nil {
		return nil, err
	}
	tags, err := rt.repo.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	return communication.BuildReleaseHistory(commits, tags, rt.translator, rt.parser), nil
}

func runChangelog(ctx context.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	history, err := buildHistory(ctx, rt)
	if err != nil {
		return err
	}

	rendered, err := renderChangelog(rt, history)
	if err != nil {
		return err
	}

	if !changelogWrite {
		fmt.Fprint(os.Stdout, rendered)
		return nil
	}

	if dryRun {
		printInfo(fmt.Sprintf("Would write changelog to %s", cfg.Changelog.File))
		return nil
	}

	if err := fileutil.AtomicWriteFile(cfg.Changelog.File, []byte(rendered), 0o644); err != nil {
		return err
	}
	logger.Info("changelog written", "file", cfg.Changelog.File, "releases", len(history.Released))
	printSuccess(fmt.Sprintf("Wrote %s", cfg.Changelog.File))
	return nil
}

// renderChangelog renders the history through the template engine when a
// custom template is configured, or through the built-in renderer.
func renderChangelog(rt *runtime, history *communication.ReleaseHistory) (string, error) {
	var chCtx *communication.ChangelogContext
	if rt.hvcs != nil {
		chCtx = communication.NewChangelogContext(rt.hvcs, history)
	}

	if cfg.Changelog.Template != "" {
		svc, err := template.NewService()
		if err != nil {
			return "", err
		}
		if chCtx != nil {
			if err := svc.BindContext(chCtx); err != nil {
				return "", err
			}
		}
		return svc.RenderFile(cfg.Changelog.Template, template.ChangelogData{
			Title:   cfg.Changelog.Title,
			History: history,
		})
	}

	changelog := communication.FromReleaseHistory(
		cfg.Changelog.Title,
		communication.FormatConventional,
		history,
		chCtx,
	)
	return changelog.Render(), nil
}
