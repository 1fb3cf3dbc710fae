package hvcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

// DefaultGitHubDomain is the browse domain for github.com repositories.
const DefaultGitHubDomain = "https://github.com"

// GitHub is the GitHub hosting-service client. URL building works without
// credentials; publishing operations need a token.
type GitHub struct {
	ref    RemoteRef
	domain string
	client *github.Client
	token  string
}

// NewGitHub creates a GitHub client from the remote URL. An empty apiURL
// targets github.com; a non-empty one targets a GitHub Enterprise
// installation. An empty token leaves the client in URL-building-only mode.
func NewGitHub(remoteURL, apiURL, token string) (*GitHub, error) {
	ref, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	gh := &GitHub{
		ref:    ref,
		domain: DefaultGitHubDomain,
		token:  token,
	}

	httpClient := oauth2.NewClient(context.Background(), nil)
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}

	client := github.NewClient(httpClient)
	if apiURL != "" {
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, semrelerrors.HvcsWrap(err, "hvcs.NewGitHub", "invalid enterprise API URL")
		}
		gh.domain = strings.TrimSuffix(apiURL, "/api/v3")
	}
	gh.client = client

	return gh, nil
}

// Name implements Client.
func (g *GitHub) Name() string { return "github" }

// Owner implements Client.
func (g *GitHub) Owner() string { return g.ref.Owner }

// RepoName implements Client.
func (g *GitHub) RepoName() string { return g.ref.Name }

func (g *GitHub) repoURL() string {
	return fmt.Sprintf("%s/%s/%s", g.domain, g.ref.Owner, g.ref.Name)
}

// CommitHashURL implements Client.
func (g *GitHub) CommitHashURL(sha string) string {
	return fmt.Sprintf("%s/commit/%s", g.repoURL(), sha)
}

// PullRequestURL implements Client.
func (g *GitHub) PullRequestURL(number int) string {
	return fmt.Sprintf("%s/pull/%d", g.repoURL(), number)
}

// CompareURL implements Client.
func (g *GitHub) CompareURL(fromRev, toRev string) (string, error) {
	return fmt.Sprintf("%s/compare/%s...%s", g.repoURL(), fromRev, toRev), nil
}

// CreateRelease implements Client.
func (g *GitHub) CreateRelease(ctx context.Context, tag, title, body string, prerelease bool) (int64, error) {
	const op = "hvcs.github.CreateRelease"

	if g.token == "" {
		return 0, semrelerrors.Hvcs(op, "no token configured").WithDetail("hint", "set the GitHub token to publish releases")
	}

	release := &github.RepositoryRelease{
		TagName:    &tag,
		Name:       &title,
		Body:       &body,
		Prerelease: &prerelease,
	}

	created, _, err := g.client.Repositories.CreateRelease(ctx, g.ref.Owner, g.ref.Name, release)
	if err != nil {
		return 0, semrelerrors.HvcsWrap(err, op, fmt.Sprintf("failed to create release for %s", tag))
	}
	return created.GetID(), nil
}

// UploadAsset implements Client.
func (g *GitHub) UploadAsset(ctx context.Context, releaseID int64, path string) error {
	const op = "hvcs.github.UploadAsset"

	if g.token == "" {
		return semrelerrors.Upload(op, "no token configured")
	}

	info, err := os.Lstat(path)
	if err != nil {
		return semrelerrors.UploadWrap(err, op, fmt.Sprintf("cannot stat asset %s", path))
	}
	if !info.Mode().IsRegular() {
		return semrelerrors.Upload(op, fmt.Sprintf("asset %s is not a regular file", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return semrelerrors.UploadWrap(err, op, fmt.Sprintf("cannot open asset %s", path))
	}
	defer f.Close()

	opts := &github.UploadOptions{Name: filepath.Base(path)}
	_, _, err = g.client.Repositories.UploadReleaseAsset(ctx, g.ref.Owner, g.ref.Name, releaseID, opts, f)
	if err != nil {
		return semrelerrors.UploadWrap(err, op, fmt.Sprintf("failed to upload %s", path))
	}
	return nil
}

// CheckBuildStatus implements Client. It consults the combined status and
// check runs for the ref; both must have succeeded (or be absent).
func (g *GitHub) CheckBuildStatus(ctx context.Context, ref string) (bool, error) {
	const op = "hvcs.github.CheckBuildStatus"

	status, _, err := g.client.Repositories.GetCombinedStatus(ctx, g.ref.Owner, g.ref.Name, ref, nil)
	if err != nil {
		return false, semrelerrors.HvcsWrap(err, op, fmt.Sprintf("failed to read combined status for %s", ref))
	}
	if status.GetState() == "failure" || status.GetState() == "error" {
		return false, nil
	}

	checks, _, err := g.client.Checks.ListCheckRunsForRef(ctx, g.ref.Owner, g.ref.Name, ref, nil)
	if err != nil {
		return false, semrelerrors.HvcsWrap(err, op, fmt.Sprintf("failed to list check runs for %s", ref))
	}
	for _, run := range checks.CheckRuns {
		if run.GetStatus() == "completed" && run.GetConclusion() != "success" && run.GetConclusion() != "skipped" {
			return false, nil
		}
	}
	return true, nil
}
