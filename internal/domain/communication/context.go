package communication

// URLBuilder is the slice of the hosting-service capability the changelog
// needs: turning commit hashes, pull request numbers and version pairs into
// browsable links.
type URLBuilder interface {
	Owner() string
	RepoName() string
	CommitHashURL(sha string) string
	PullRequestURL(number int) string
	CompareURL(fromRev, toRev string) (string, error)
}

// ChangelogContext binds a release history and the repository's identity to
// a template environment. The URL helpers are exposed as template functions
// named after the operations they delegate to.
type ChangelogContext struct {
	RepoName  string
	RepoOwner string
	History   *ReleaseHistory

	urls URLBuilder
}

// NewChangelogContext builds a ChangelogContext from the hosting-service
// client and a release history.
func NewChangelogContext(urls URLBuilder, history *ReleaseHistory) *ChangelogContext {
	return &ChangelogContext{
		RepoName:  urls.RepoName(),
		RepoOwner: urls.Owner(),
		History:   history,
		urls:      urls,
	}
}

// CommitHashURL returns the browsable URL for a commit.
func (c *ChangelogContext) CommitHashURL(sha string) string {
	return c.urls.CommitHashURL(sha)
}

// PullRequestURL returns the browsable URL for a pull request number.
func (c *ChangelogContext) PullRequestURL(number int) string {
	return c.urls.PullRequestURL(number)
}

// CompareURL returns the comparison URL between two revisions, or "" when
// the hosting service does not support comparisons.
func (c *ChangelogContext) CompareURL(fromRev, toRev string) string {
	url, err := c.urls.CompareURL(fromRev, toRev)
	if err != nil {
		return ""
	}
	return url
}

// Functions returns the template function map entries contributed by this
// context. The keys are stable names used by changelog templates.
func (c *ChangelogContext) Functions() map[string]any {
	return map[string]any{
		"commit_hash_url":  c.CommitHashURL,
		"pull_request_url": c.PullRequestURL,
		"compare_url":      c.CompareURL,
	}
}
