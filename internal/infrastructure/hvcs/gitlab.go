package hvcs

import (
	"context"
	"fmt"
	"strings"
)

// DefaultGitLabDomain is the browse domain for gitlab.com repositories.
const DefaultGitLabDomain = "https://gitlab.com"

// GitLab is the GitLab hosting-service client. It builds browse URLs,
// including nested group namespaces; publishing operations report
// ErrNotSupported.
type GitLab struct {
	ref    RemoteRef
	domain string
}

// NewGitLab creates a GitLab client from the remote URL. A non-empty
// apiURL selects a self-hosted installation's domain.
func NewGitLab(remoteURL, apiURL string) (*GitLab, error) {
	ref, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	domain := DefaultGitLabDomain
	if apiURL != "" {
		domain = strings.TrimSuffix(strings.TrimSuffix(apiURL, "/"), "/api/v4")
	}

	return &GitLab{ref: ref, domain: domain}, nil
}

// Name implements Client.
func (g *GitLab) Name() string { return "gitlab" }

// Owner implements Client.
func (g *GitLab) Owner() string { return g.ref.Owner }

// RepoName implements Client.
func (g *GitLab) RepoName() string { return g.ref.Name }

func (g *GitLab) repoURL() string {
	return fmt.Sprintf("%s/%s/%s", g.domain, g.ref.Owner, g.ref.Name)
}

// CommitHashURL implements Client.
func (g *GitLab) CommitHashURL(sha string) string {
	return fmt.Sprintf("%s/-/commit/%s", g.repoURL(), sha)
}

// PullRequestURL implements Client. GitLab calls these merge requests.
func (g *GitLab) PullRequestURL(number int) string {
	return fmt.Sprintf("%s/-/merge_requests/%d", g.repoURL(), number)
}

// CompareURL implements Client.
func (g *GitLab) CompareURL(fromRev, toRev string) (string, error) {
	return fmt.Sprintf("%s/-/compare/%s...%s", g.repoURL(), fromRev, toRev), nil
}

// CreateRelease implements Client.
func (g *GitLab) CreateRelease(context.Context, string, string, string, bool) (int64, error) {
	return 0, ErrNotSupported
}

// UploadAsset implements Client.
func (g *GitLab) UploadAsset(context.Context, int64, string) error {
	return ErrNotSupported
}

// CheckBuildStatus implements Client.
func (g *GitLab) CheckBuildStatus(context.Context, string) (bool, error) {
	return false, ErrNotSupported
}
