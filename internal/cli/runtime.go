package cli

import (
	"context"

	"github.com/relicta-tech/semrel/internal/config"
	"github.com/relicta-tech/semrel/internal/domain/changes"
	"github.com/relicta-tech/semrel/internal/domain/version"
	"github.com/relicta-tech/semrel/internal/infrastructure/git"
	"github.com/relicta-tech/semrel/internal/infrastructure/hvcs"
)

// runtime bundles the collaborators a release command needs: the repo
// adapter, the branch group the active branch selected, the translator and
// parser for that group, and the hosting-service client.
type runtime struct {
	repo       *git.Adapter
	service    *git.ServiceImpl
	branch     string
	group      *config.BranchConfig
	translator *version.VersionTranslator
	parser     changes.Parser
	hvcs       hvcs.Client
}

// newRuntime opens the repository and resolves the active branch against
// the configured groups. A branch outside every group returns the
// non-fatal NotAReleaseBranch condition.
func newRuntime(ctx context.Context) (*runtime, error) {
	svc, err := git.NewService(
		git.WithDefaultRemote(cfg.Git.Remote),
		git.WithCommitter(cfg.Git.CommitterName, cfg.Git.CommitterEmail),
	)
	if err != nil {
		return nil, err
	}
	repo := git.NewAdapter(svc)

	branch, err := repo.GetCurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	group, err := cfg.SelectBranch(branch)
	if err != nil {
		return nil, err
	}

	parser, err := changes.NewParserByName(cfg.Versioning.CommitParser, cfg.Versioning.Parser.Options())
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		repo:       repo,
		service:    svc,
		branch:     branch,
		group:      group,
		translator: version.NewVersionTranslator(cfg.Versioning.TagFormat, group.PrereleaseToken),
		parser:     parser,
	}

	if remoteURL, err := repo.GetRemoteURL(ctx, cfg.Git.Remote); err == nil {
		client, hvcsErr := hvcs.New(cfg.HVCS.Type, remoteURL, cfg.HVCS.APIURL, cfg.HVCS.Token.Resolve())
		if hvcsErr == nil {
			rt.hvcs = client
		} else {
			logger.Debug("hosting service unavailable", "error", hvcsErr)
		}
	} else {
		logger.Debug("no remote configured; links disabled", "remote", cfg.Git.Remote)
	}

	return rt, nil
}
