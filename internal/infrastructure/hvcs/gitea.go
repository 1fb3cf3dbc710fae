package hvcs

import (
	"context"
	"fmt"
	"strings"
)

// Gitea is the Gitea hosting-service client. Gitea is always self-hosted,
// so the domain comes from the configured API URL or falls back to the
// remote's host. Publishing operations report ErrNotSupported.
type Gitea struct {
	ref    RemoteRef
	domain string
}

// NewGitea creates a Gitea client from the remote URL.
func NewGitea(remoteURL, apiURL string) (*Gitea, error) {
	ref, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	domain := domainFromRemote(remoteURL)
	if apiURL != "" {
		domain = strings.TrimSuffix(strings.TrimSuffix(apiURL, "/"), "/api/v1")
	}

	return &Gitea{ref: ref, domain: domain}, nil
}

// domainFromRemote extracts "https://host" from an https remote, falling
// back to https for scp-like remotes.
func domainFromRemote(remoteURL string) string {
	cleaned := strings.TrimSpace(remoteURL)
	if idx := strings.Index(cleaned, "://"); idx >= 0 {
		rest := cleaned[idx+3:]
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		if slash := strings.Index(rest, "/"); slash >= 0 {
			rest = rest[:slash]
		}
		return "https://" + rest
	}
	if at := strings.Index(cleaned, "@"); at >= 0 {
		rest := cleaned[at+1:]
		if colon := strings.Index(rest, ":"); colon >= 0 {
			rest = rest[:colon]
		}
		return "https://" + rest
	}
	return "https://" + cleaned
}

// Name implements Client.
func (g *Gitea) Name() string { return "gitea" }

// Owner implements Client.
func (g *Gitea) Owner() string { return g.ref.Owner }

// RepoName implements Client.
func (g *Gitea) RepoName() string { return g.ref.Name }

func (g *Gitea) repoURL() string {
	return fmt.Sprintf("%s/%s/%s", g.domain, g.ref.Owner, g.ref.Name)
}

// CommitHashURL implements Client.
func (g *Gitea) CommitHashURL(sha string) string {
	return fmt.Sprintf("%s/commit/%s", g.repoURL(), sha)
}

// PullRequestURL implements Client.
func (g *Gitea) PullRequestURL(number int) string {
	return fmt.Sprintf("%s/pulls/%d", g.repoURL(), number)
}

// CompareURL implements Client.
func (g *Gitea) CompareURL(fromRev, toRev string) (string, error) {
	return fmt.Sprintf("%s/compare/%s...%s", g.repoURL(), fromRev, toRev), nil
}

// CreateRelease implements Client.
func (g *Gitea) CreateRelease(context.Context, string, string, string, bool) (int64, error) {
	return 0, ErrNotSupported
}

// UploadAsset implements Client.
func (g *Gitea) UploadAsset(context.Context, int64, string) error {
	return ErrNotSupported
}

// CheckBuildStatus implements Client.
func (g *Gitea) CheckBuildStatus(context.Context, string) (bool, error) {
	return false, ErrNotSupported
}
