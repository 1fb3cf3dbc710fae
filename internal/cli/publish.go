package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/semrel/internal/domain/communication"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
	"github.com/relicta-tech/semrel/internal/infrastructure/hvcs"
)

var (
	publishTag    string
	publishAssets []string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a release on the hosting service",
	Long: `Create a release on the configured hosting service for the latest
version tag (or the tag given with --tag), using the grouped commit
history as the release notes, and upload any assets.

Hosting services without release support are reported as a warning, not
a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportOutcome(runPublish(cmd.Context()))
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishTag, "tag", "", "tag to publish (default: the latest version tag)")
	publishCmd.Flags().StringSliceVar(&publishAssets, "asset", nil, "file to upload as a release asset (repeatable)")
}

func runPublish(ctx context.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	if rt.hvcs == nil {
		return semrelerrors.Hvcs("cli.publish", "no hosting service available; check the remote and hvcs configuration")
	}

	tagName := publishTag
	if tagName == "" {
		latest, err := rt.service.GetLatestVersionTag(ctx, tagPrefix(rt))
		if err != nil {
			return semrelerrors.HvcsWrap(err, "cli.publish", "no version tag found to publish")
		}
		tagName = latest.Name
	}

	ver, ok := rt.translator.FromTag(tagName)
	if !ok {
		return semrelerrors.InvalidConfiguration("cli.publish",
			fmt.Sprintf("tag %q does not match the configured tag format", tagName))
	}

	history, err := buildHistory(ctx, rt)
	if err != nil {
		return err
	}

	release := history.Release(ver)
	if release == nil {
		return semrelerrors.Hvcs("cli.publish",
			fmt.Sprintf("version %s has no release in the walked history", ver))
	}

	chCtx := communication.NewChangelogContext(rt.hvcs, history)
	notes := communication.NotesForRelease(release, chCtx)

	if dryRun {
		printTitle(fmt.Sprintf("Would publish %s to %s", tagName, rt.hvcs.Name()))
		printSubtle(notes.Body())
		return nil
	}

	releaseID, err := rt.hvcs.CreateRelease(ctx, tagName, ver.String(), notes.Body(), ver.IsPrerelease())
	if err != nil {
		if errors.Is(err, hvcs.ErrNotSupported) {
			return semrelerrors.Hvcs("cli.publish",
				fmt.Sprintf("%s does not support publishing releases", rt.hvcs.Name()))
		}
		return err
	}
	logger.Info("release published", "tag", tagName, "service", rt.hvcs.Name(), "release_id", releaseID)

	for _, asset := range publishAssets {
		if err := rt.hvcs.UploadAsset(ctx, releaseID, asset); err != nil {
			// Failed uploads warn but do not unwind the published release.
			logger.Warn("asset upload failed", "asset", asset, "error", err)
			continue
		}
		logger.Info("asset uploaded", "asset", asset)
	}

	printSuccess(fmt.Sprintf("Published %s", tagName))
	return nil
}

// tagPrefix derives the fixed prefix of the configured tag format, used to
// narrow tag listings.
func tagPrefix(rt *runtime) string {
	format := rt.translator.TagFormat()
	for i := 0; i+1 < len(format); i++ {
		if format[i] == '{' {
			return format[:i]
		}
	}
	return format
}
