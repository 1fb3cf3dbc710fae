// Package hvcs provides clients for hosted version control services
// (GitHub, GitLab, Gitea). Every client can build browse URLs from its
// remote; richer operations like publishing releases are supported per
// service and report ErrNotSupported otherwise.
package hvcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
)

// ErrNotSupported is returned by operations a hosting service does not
// implement. Callers degrade gracefully instead of aborting.
var ErrNotSupported = errors.New("operation not supported by this hosting service")

// Client is the hosting-service capability. URL building always works;
// the remaining operations return ErrNotSupported when the service (or
// the client's configuration, e.g. a missing token) cannot perform them.
type Client interface {
	// Name identifies the service ("github", "gitlab", "gitea").
	Name() string
	Owner() string
	RepoName() string

	CommitHashURL(sha string) string
	PullRequestURL(number int) string
	CompareURL(fromRev, toRev string) (string, error)

	// CreateRelease publishes a release for the tag and returns its id.
	CreateRelease(ctx context.Context, tag, title, body string, prerelease bool) (int64, error)
	// UploadAsset attaches a file to a previously created release.
	UploadAsset(ctx context.Context, releaseID int64, path string) error
	// CheckBuildStatus reports whether the builds at ref succeeded.
	CheckBuildStatus(ctx context.Context, ref string) (bool, error)
}

// RemoteRef is the owner/name pair parsed from a git remote URL.
type RemoteRef struct {
	Owner string
	Name  string
}

// ParseRemoteURL extracts the repository owner and name from a remote URL.
// Supported shapes:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.com/owner/repo.git
func ParseRemoteURL(remoteURL string) (RemoteRef, error) {
	const op = "hvcs.ParseRemoteURL"

	cleaned := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")
	if cleaned == "" {
		return RemoteRef{}, semrelerrors.Hvcs(op, "remote URL is empty")
	}

	// scp-like syntax: git@host:owner/repo
	if at := strings.Index(cleaned, "@"); at >= 0 && !strings.Contains(cleaned, "://") {
		if colon := strings.Index(cleaned[at:], ":"); colon >= 0 {
			cleaned = cleaned[at+colon+1:]
			return splitOwnerRepo(op, cleaned)
		}
	}

	// URL syntax: strip scheme and host
	if idx := strings.Index(cleaned, "://"); idx >= 0 {
		cleaned = cleaned[idx+3:]
	}
	if slash := strings.Index(cleaned, "/"); slash >= 0 {
		cleaned = cleaned[slash+1:]
	}
	return splitOwnerRepo(op, cleaned)
}

func splitOwnerRepo(op, path string) (RemoteRef, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return RemoteRef{}, semrelerrors.Hvcs(op, fmt.Sprintf("cannot derive owner and name from %q", path))
	}
	// Nested namespaces (GitLab groups) keep everything before the final
	// element as the owner.
	return RemoteRef{
		Owner: strings.Join(parts[:len(parts)-1], "/"),
		Name:  parts[len(parts)-1],
	}, nil
}

// New constructs a Client by service name. The token may be empty for
// URL-building-only use.
func New(service, remoteURL, apiURL, token string) (Client, error) {
	const op = "hvcs.New"

	switch service {
	case "github":
		return NewGitHub(remoteURL, apiURL, token)
	case "gitlab":
		return NewGitLab(remoteURL, apiURL)
	case "gitea":
		return NewGitea(remoteURL, apiURL)
	default:
		return nil, semrelerrors.InvalidConfiguration(op, fmt.Sprintf("unknown hosting service %q", service))
	}
}
