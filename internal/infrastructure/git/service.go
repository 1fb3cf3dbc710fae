package git

import "context"

// Service is the low-level git operations contract backing Adapter. It
// mirrors the shape of a local checkout: commits, tags, branches and
// remote plumbing.
type Service interface {
	GetRepositoryRoot(ctx context.Context) (string, error)
	GetRepositoryInfo(ctx context.Context) (*RepositoryInfo, error)
	IsClean(ctx context.Context) (bool, error)

	GetCommit(ctx context.Context, hash string) (*Commit, error)
	// GetCommits returns every commit reachable from the ref, newest first.
	GetCommits(ctx context.Context, ref string) ([]Commit, error)
	GetCommitsSince(ctx context.Context, ref string) ([]Commit, error)
	GetCommitsBetween(ctx context.Context, from, to string) ([]Commit, error)
	GetHeadCommit(ctx context.Context) (*Commit, error)
	GetBranchCommit(ctx context.Context, branch string) (*Commit, error)

	// MergeBase returns the hashes of the best common ancestors of a and b.
	// More than one element means the histories have multiple merge bases.
	MergeBase(ctx context.Context, a, b string) ([]string, error)

	GetLatestTag(ctx context.Context) (*Tag, error)
	GetLatestVersionTag(ctx context.Context, prefix string) (*Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListVersionTags(ctx context.Context, prefix string) ([]Tag, error)
	GetTag(ctx context.Context, name string) (*Tag, error)
	CreateTag(ctx context.Context, name, message string, opts TagOptions) error
	DeleteTag(ctx context.Context, name string) error
	PushTag(ctx context.Context, name string, opts PushOptions) error

	GetCurrentBranch(ctx context.Context) (string, error)
	GetDefaultBranch(ctx context.Context) (string, error)
	ListBranches(ctx context.Context) ([]Branch, error)

	GetRemoteURL(ctx context.Context, name string) (string, error)
	Push(ctx context.Context, opts PushOptions) error
	Fetch(ctx context.Context, opts FetchOptions) error
	Pull(ctx context.Context, opts PullOptions) error

	StageFiles(ctx context.Context, paths []string) error
	Commit(ctx context.Context, opts CommitOptions) (*Commit, error)
}

// TagOptions configures tag creation.
type TagOptions struct {
	Annotated bool
	Sign      bool
	Force     bool
	Ref       string
}

// DefaultTagOptions returns the default tag creation options.
func DefaultTagOptions() TagOptions {
	return TagOptions{Annotated: true}
}

// PushOptions configures push operations.
type PushOptions struct {
	Remote  string
	Force   bool
	Tags    bool
	DryRun  bool
	RefSpec string
}

// DefaultPushOptions returns the default push options.
func DefaultPushOptions() PushOptions {
	return PushOptions{Remote: "origin"}
}

// FetchOptions configures fetch operations.
type FetchOptions struct {
	Remote string
	Tags   bool
	Prune  bool
	Depth  int
}

// DefaultFetchOptions returns the default fetch options.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{Remote: "origin"}
}

// PullOptions configures pull operations.
type PullOptions struct {
	Remote string
	Branch string
	Rebase bool
	Depth  int
}

// DefaultPullOptions returns the default pull options.
func DefaultPullOptions() PullOptions {
	return PullOptions{Remote: "origin"}
}

// CommitOptions configures commit creation.
type CommitOptions struct {
	Message    string
	Author     Author
	AllowEmpty bool
	Sign       bool
	Amend      bool
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	RepoPath       string
	DefaultRemote  string
	CommitterName  string
	CommitterEmail string
	GPGSign        bool
	GPGKeyID       string
}

// DefaultServiceConfig returns the default service configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		RepoPath:       ".",
		DefaultRemote:  "origin",
		CommitterName:  "semrel",
		CommitterEmail: "semrel@localhost",
	}
}

// ServiceOption configures a ServiceConfig.
type ServiceOption func(*ServiceConfig)

// WithRepoPath sets the repository path to open.
func WithRepoPath(path string) ServiceOption {
	return func(c *ServiceConfig) { c.RepoPath = path }
}

// WithDefaultRemote sets the default remote name.
func WithDefaultRemote(remote string) ServiceOption {
	return func(c *ServiceConfig) { c.DefaultRemote = remote }
}

// WithCommitter sets the identity used for commits and annotated tags.
// Empty values keep the defaults.
func WithCommitter(name, email string) ServiceOption {
	return func(c *ServiceConfig) {
		if name != "" {
			c.CommitterName = name
		}
		if email != "" {
			c.CommitterEmail = email
		}
	}
}

// WithGPGSign enables GPG signing of tags and commits.
func WithGPGSign(keyID string) ServiceOption {
	return func(c *ServiceConfig) {
		c.GPGSign = true
		c.GPGKeyID = keyID
	}
}
