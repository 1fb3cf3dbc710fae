// Package versioning provides application use cases for version management.
package versioning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relicta-tech/semrel/internal/domain/changes"
	"github.com/relicta-tech/semrel/internal/domain/sourcecontrol"
	"github.com/relicta-tech/semrel/internal/domain/version"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

// HistoryReader is the slice of the git repository the version algorithm
// needs: tags, reverse-chronological commit walks, ancestry queries and the
// active branch.
type HistoryReader interface {
	GetTags(ctx context.Context) (sourcecontrol.TagList, error)
	GetCommit(ctx context.Context, hash sourcecontrol.CommitHash) (*sourcecontrol.Commit, error)
	// GetCommits returns every commit reachable from the ref, newest first.
	GetCommits(ctx context.Context, ref string) ([]*sourcecontrol.Commit, error)
	MergeBase(ctx context.Context, a, b string) ([]string, error)
	GetCurrentBranch(ctx context.Context) (string, error)
}

// NextVersionInput represents input for the NextVersion use case.
type NextVersionInput struct {
	// Prerelease selects prerelease mode for the active branch.
	Prerelease bool
	// MajorOnZero allows breaking changes to bump the major component while
	// the current version is still 0.x.y. When false, the bump is clamped
	// to at most a minor increment.
	MajorOnZero bool
}

// NextVersionOutput represents output of the NextVersion use case.
type NextVersionOutput struct {
	// CurrentVersion is the latest version released from the branch's
	// history (0.0.0 when the repository has never been released).
	CurrentVersion version.SemanticVersion
	// NextVersion is the computed next version. Equal to CurrentVersion
	// when no qualifying commits were found.
	NextVersion version.SemanticVersion
	// LevelBump is the highest bump parsed from the walked commits.
	LevelBump version.LevelBump
}

// HasRelease reports whether the walked commits warrant a new release.
func (o *NextVersionOutput) HasRelease() bool {
	return o.LevelBump != version.NoRelease
}

// NextVersionUseCase derives the next version from the repository's commit
// history, its tags and the active branch's release state.
type NextVersionUseCase struct {
	repo       HistoryReader
	translator *version.VersionTranslator
	parser     changes.Parser
	logger     *slog.Logger
}

// NewNextVersionUseCase creates a new NextVersionUseCase.
func NewNextVersionUseCase(
	repo HistoryReader,
	translator *version.VersionTranslator,
	parser changes.Parser,
) *NextVersionUseCase {
	return &NextVersionUseCase{
		repo:       repo,
		translator: translator,
		parser:     parser,
		logger:     slog.Default().With("usecase", "next_version"),
	}
}

// Execute computes the next version.
//
// The walk proceeds in five steps: enumerate tags and split full releases
// from prereleases; locate the merge base of the latest full release with
// the active branch; search the merge base's ancestry for the latest full
// release actually in this branch's history; walk the commits above it,
// parsing each and stopping at the first qualifying tag; then increment
// according to the branch's prerelease policy.
func (uc *NextVersionUseCase) Execute(ctx context.Context, input NextVersionInput) (*NextVersionOutput, error) {
	const op = "versioning.NextVersion"

	tags, err := uc.repo.GetTags(ctx)
	if err != nil {
		return nil, semrelerrors.GitWrap(err, op, "failed to enumerate tags")
	}

	allTagVersions := version.TagsAndVersions(tags.Names(), uc.translator)
	fullReleases := make([]version.TagVersion, 0, len(allTagVersions))
	for _, tv := range allTagVersions {
		if !tv.Version.IsPrerelease() {
			fullReleases = append(fullReleases, tv)
		}
	}
	uc.logger.Debug("enumerated tags", "total", len(allTagVersions), "full_releases", len(fullReleases))

	branch, err := uc.repo.GetCurrentBranch(ctx)
	if err != nil {
		return nil, semrelerrors.GitWrap(err, op, "failed to resolve the active branch")
	}

	// The highest full release anywhere in the repository, or 0.0.0.
	latestFullVersion := version.Zero
	mergeBaseFrom := branch
	if len(fullReleases) > 0 {
		latestFullVersion = fullReleases[0].Version
		mergeBaseFrom = fullReleases[0].Tag
		uc.logger.Info("last full release", "version", latestFullVersion.String(), "tag", mergeBaseFrom)
	} else {
		// Never released: the merge base of the branch with itself is its
		// tip, which bounds the ancestry search without any tag to anchor
		// it.
		uc.logger.Info("no full releases have been made yet")
	}

	mergeBases, err := uc.repo.MergeBase(ctx, mergeBaseFrom, branch)
	if err != nil {
		return nil, semrelerrors.GitWrap(err, op, fmt.Sprintf("failed to compute merge base of %s and %s", mergeBaseFrom, branch))
	}
	if len(mergeBases) > 1 {
		return nil, semrelerrors.MergeBase(op, fmt.Sprintf(
			"branch %s has %d merge bases with %s; refusing to guess", branch, len(mergeBases), mergeBaseFrom))
	}
	if len(mergeBases) == 0 {
		return nil, semrelerrors.MergeBase(op, fmt.Sprintf(
			"no merge base found between %s and %s", mergeBaseFrom, branch))
	}

	latestFullInHistory, found, err := uc.latestFullVersionInHistory(ctx, mergeBases[0], fullReleases, tags)
	if err != nil {
		return nil, err
	}
	if found {
		uc.logger.Info("last full version in branch history", "version", latestFullInHistory.String())
	} else {
		uc.logger.Info("no full version in branch history")
	}

	walkFrom := branch
	levelBump, latestVersion, err := uc.walkCommits(ctx, walkFrom, latestFullInHistory, found, allTagVersions, tags, input.Prerelease)
	if err != nil {
		return nil, err
	}

	output := &NextVersionOutput{
		CurrentVersion: latestVersion,
		NextVersion:    latestVersion,
		LevelBump:      levelBump,
	}

	uc.logger.Info("release type triggered", "level", levelBump.String())
	if levelBump == version.NoRelease {
		return output, nil
	}

	output.NextVersion = incrementVersion(
		latestVersion,
		latestFullVersion,
		latestFullInHistory,
		levelBump,
		input.Prerelease,
		uc.translator.PrereleaseToken(),
		input.MajorOnZero,
	)
	return output, nil
}

// latestFullVersionInHistory breadth-first searches the merge base's
// ancestry for a commit carrying a full-release tag, returning the highest
// such version. An explicit queue with a visited set keeps long histories
// off the call stack.
func (uc *NextVersionUseCase) latestFullVersionInHistory(
	ctx context.Context,
	mergeBase string,
	fullReleases []version.TagVersion,
	tags sourcecontrol.TagList,
) (version.SemanticVersion, bool, error) {
	const op = "versioning.latestFullVersionInHistory"

	// Map target hashes to the highest full-release version tagging them.
	versionsByHash := make(map[sourcecontrol.CommitHash]version.SemanticVersion, len(fullReleases))
	for i := len(fullReleases) - 1; i >= 0; i-- {
		tv := fullReleases[i]
		if tag := tags.ByName(tv.Tag); tag != nil {
			versionsByHash[tag.Hash()] = tv.Version
		}
	}

	queue := []sourcecontrol.CommitHash{sourcecontrol.CommitHash(mergeBase)}
	visited := make(map[sourcecontrol.CommitHash]struct{})

	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if _, seen := visited[hash]; seen {
			continue
		}
		visited[hash] = struct{}{}

		if v, ok := versionsByHash[hash]; ok {
			return v, true, nil
		}

		commit, err := uc.repo.GetCommit(ctx, hash)
		if err != nil {
			return version.Zero, false, semrelerrors.GitWrap(err, op, fmt.Sprintf("failed to load commit %s", hash))
		}
		queue = append(queue, commit.Parents()...)
	}

	return version.Zero, false, nil
}

// walkCommits walks the branch's commits newest first, collecting the parse
// level of each, until it reaches a commit carrying a qualifying tag. In
// prerelease mode any version tag qualifies; otherwise only full releases
// do. The version of the first qualifying tag becomes latestVersion.
func (uc *NextVersionUseCase) walkCommits(
	ctx context.Context,
	branch string,
	latestFullInHistory version.SemanticVersion,
	haveFullInHistory bool,
	allTagVersions []version.TagVersion,
	tags sourcecontrol.TagList,
	prerelease bool,
) (version.LevelBump, version.SemanticVersion, error) {
	const op = "versioning.walkCommits"

	var (
		commits []*sourcecontrol.Commit
		err     error
	)
	if haveFullInHistory {
		commits, err = uc.commitsSinceVersion(ctx, branch, latestFullInHistory, tags)
	} else {
		commits, err = uc.repo.GetCommits(ctx, branch)
	}
	if err != nil {
		return version.NoRelease, version.Zero, semrelerrors.GitWrap(err, op, "failed to walk commits")
	}

	qualifying := make(map[sourcecontrol.CommitHash]version.SemanticVersion)
	for i := len(allTagVersions) - 1; i >= 0; i-- {
		tv := allTagVersions[i]
		if !prerelease && tv.Version.IsPrerelease() {
			continue
		}
		if tag := tags.ByName(tv.Tag); tag != nil {
			qualifying[tag.Hash()] = tv.Version
		}
	}

	levelBump := version.NoRelease
	latestVersion := latestFullInHistory

	for _, commit := range commits {
		result := uc.parser.Parse(changes.CommitRef{
			Hash:        commit.Hash().String(),
			Subject:     commit.Subject(),
			Body:        commit.Body(),
			AuthorName:  commit.Author().Name,
			AuthorEmail: commit.Author().Email,
			Date:        commit.Date(),
		})
		if !result.IsError() {
			levelBump = levelBump.Max(result.Commit.Bump)
		}

		if v, ok := qualifying[commit.Hash()]; ok {
			latestVersion = v
			uc.logger.Debug("tag terminates the walk", "version", v.String(), "commit", commit.ShortHash())
			break
		}
	}

	return levelBump, latestVersion, nil
}

// commitsSinceVersion returns the branch's commits outside the given
// version's history, newest first: every commit reachable from the branch
// tip that is neither the tagged commit nor one of its ancestors. This is
// the `git rev-list tag..branch` set. Membership in the tag's ancestry
// decides, not position in the time-ordered walk: with merge topologies
// the flat walk interleaves released and unreleased commits, so a
// positional cut at the tagged commit would drop side-branch work with
// older committer timestamps and re-count released commits with newer
// ones.
func (uc *NextVersionUseCase) commitsSinceVersion(
	ctx context.Context,
	branch string,
	v version.SemanticVersion,
	tags sourcecontrol.TagList,
) ([]*sourcecontrol.Commit, error) {
	tagName := uc.translator.StrToTag(v)
	boundary := sourcecontrol.CommitHash("")
	if tag := tags.ByName(tagName); tag != nil {
		boundary = tag.Hash()
	}

	all, err := uc.repo.GetCommits(ctx, branch)
	if err != nil {
		return nil, err
	}
	if boundary == "" {
		return all, nil
	}

	// The boundary is an ancestor of the branch tip (established by the
	// merge-base search), so its whole ancestry is present in the walk and
	// the exclusion set can be built from the walked commits alone.
	byHash := make(map[sourcecontrol.CommitHash]*sourcecontrol.Commit, len(all))
	for _, commit := range all {
		byHash[commit.Hash()] = commit
	}

	released := make(map[sourcecontrol.CommitHash]struct{})
	queue := []sourcecontrol.CommitHash{boundary}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if _, seen := released[hash]; seen {
			continue
		}
		released[hash] = struct{}{}

		if commit, ok := byHash[hash]; ok {
			queue = append(queue, commit.Parents()...)
		}
	}

	since := make([]*sourcecontrol.Commit, 0, len(all))
	for _, commit := range all {
		if _, ok := released[commit.Hash()]; !ok {
			since = append(since, commit)
		}
	}
	return since, nil
}

// incrementVersion applies the level bump according to the branch's
// prerelease policy. When the current major is zero and majorOnZero is
// false, breaking changes only increment the minor component.
func incrementVersion(
	latestVersion version.SemanticVersion,
	latestFullVersion version.SemanticVersion,
	latestFullInHistory version.SemanticVersion,
	levelBump version.LevelBump,
	prerelease bool,
	prereleaseToken string,
	majorOnZero bool,
) version.SemanticVersion {
	if !majorOnZero && latestVersion.Major() == 0 {
		if levelBump > version.Minor {
			levelBump = version.Minor
		}
	}

	if prerelease {
		targetFinal := latestFullVersion.FinalizeVersion()
		diff := latestVersion.Sub(latestFullInHistory)

		if levelBump > diff {
			// e.g. 1.2.4-rc.3 with a feat lands on 1.3.0-rc.1
			return targetFinal.Bump(levelBump).ToPrerelease(prereleaseToken, 1)
		}

		// The core already advanced past the baseline: bump only the
		// revision. A token change restarts the revision at 1.
		revision := 1
		if latestVersion.PrereleaseToken() == prereleaseToken {
			if prev, ok := latestVersion.PrereleaseRevision(); ok {
				revision = prev + 1
			} else {
				revision = 1
			}
		}
		return latestVersion.ToPrerelease(prereleaseToken, revision)
	}

	if latestVersion.IsPrerelease() {
		diff := latestVersion.Sub(latestFullInHistory)
		if levelBump > diff {
			return latestVersion.Bump(levelBump).FinalizeVersion()
		}
		return latestVersion.FinalizeVersion()
	}

	return latestVersion.Bump(levelBump)
}
