// Package git provides the go-git backed repository infrastructure.
package git

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Commit represents a git commit.
type Commit struct {
	// Hash is the commit SHA.
	Hash string `json:"hash"`
	// ShortHash is the abbreviated commit SHA (7 characters).
	ShortHash string `json:"short_hash"`
	// Message is the full commit message.
	Message string `json:"message"`
	// Subject is the first line of the commit message.
	Subject string `json:"subject"`
	// Body is the commit message body (everything after the first line).
	Body string `json:"body"`
	// Author is the commit author.
	Author Author `json:"author"`
	// Committer is the person who made the commit.
	Committer Author `json:"committer"`
	// Date is the author date, carrying the author's timezone offset.
	Date time.Time `json:"date"`
	// CommitterDate is the committer date.
	CommitterDate time.Time `json:"committer_date"`
	// Parents are the parent commit hashes.
	Parents []string `json:"parents"`
}

// Author represents a git author or committer.
type Author struct {
	// Name is the author's name.
	Name string `json:"name"`
	// Email is the author's email.
	Email string `json:"email"`
}

// Tag represents a git tag.
type Tag struct {
	// Name is the tag name.
	Name string `json:"name"`
	// Hash is the commit hash the tag points to.
	Hash string `json:"hash"`
	// Message is the tag message (for annotated tags).
	Message string `json:"message,omitempty"`
	// Tagger is the person who created the tag (for annotated tags).
	Tagger *Author `json:"tagger,omitempty"`
	// Date is the tag date.
	Date time.Time `json:"date"`
	// IsAnnotated indicates if this is an annotated tag.
	IsAnnotated bool `json:"is_annotated"`
}

// Branch represents a git branch.
type Branch struct {
	// Name is the branch name.
	Name string `json:"name"`
	// Hash is the commit hash the branch points to.
	Hash string `json:"hash"`
	// IsRemote indicates if this is a remote branch.
	IsRemote bool `json:"is_remote"`
	// Remote is the remote name (for remote branches).
	Remote string `json:"remote,omitempty"`
	// Upstream is the upstream branch name.
	Upstream string `json:"upstream,omitempty"`
}

// RepositoryInfo contains information about the git repository.
type RepositoryInfo struct {
	// Root is the repository root directory.
	Root string `json:"root"`
	// CurrentBranch is the current checked out branch.
	CurrentBranch string `json:"current_branch"`
	// DefaultBranch is the default branch (main/master).
	DefaultBranch string `json:"default_branch"`
	// Remotes is the list of configured remotes.
	Remotes []RemoteInfo `json:"remotes"`
	// IsDirty indicates if the working tree has uncommitted changes.
	IsDirty bool `json:"is_dirty"`
	// HeadCommit is the current HEAD commit hash.
	HeadCommit string `json:"head_commit"`
}

// RemoteInfo contains information about a git remote.
type RemoteInfo struct {
	// Name is the remote name.
	Name string `json:"name"`
	// URL is the remote URL.
	URL string `json:"url"`
	// PushURL is the push URL (if different from fetch URL).
	PushURL string `json:"push_url,omitempty"`
}

// gitRefPattern validates safe git reference names.
// Allows: alphanumeric, ., -, _, /, ^, ~, and numbers for relative refs.
// This follows git-check-ref-format rules with additional security restrictions.
var gitRefPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/~^-]*$`)

// dangerousGitRefPatterns contains patterns that could be used for command injection.
var dangerousGitRefPatterns = []string{
	"--",  // Option prefix
	";",   // Command separator
	"|",   // Pipe
	"&",   // Background/AND
	"`",   // Command substitution
	"$(",  // Command substitution
	"${",  // Variable expansion
	"\n",  // Newline
	"\r",  // Carriage return
	"$()", // Command substitution
	"..",  // Path traversal at start (.. alone is ok in refs like HEAD^^)
}

// ErrInvalidGitRef is returned when a git reference contains invalid characters.
var ErrInvalidGitRef = errors.New("invalid git reference")

// ValidateGitRef validates that a git reference is safe to use.
// It returns an error if the reference contains potentially dangerous
// characters that could be used for command injection.
//
// Valid references include:
// - Branch names: main, feature/my-branch, release-1.0
// - Tag names: v1.0.0, release/v2.0
// - Commit SHAs: abc1234, full 40-char SHA
// - Relative refs: HEAD, HEAD~1, HEAD^2, main~5
// - Remote refs: origin/main, upstream/feature
func ValidateGitRef(ref string) error {
	if ref == "" {
		return nil // Empty ref is allowed (will use defaults)
	}

	// Check for dangerous patterns
	for _, pattern := range dangerousGitRefPatterns {
		if strings.Contains(ref, pattern) {
			return fmt.Errorf("%w: reference %q contains dangerous pattern %q", ErrInvalidGitRef, ref, pattern)
		}
	}

	// Allow HEAD as a special case
	if ref == "HEAD" {
		return nil
	}

	// Check length (git refs have max length of ~250 chars typically)
	if len(ref) > 250 {
		return fmt.Errorf("%w: reference %q exceeds maximum length", ErrInvalidGitRef, ref)
	}

	// Validate against safe pattern
	if !gitRefPattern.MatchString(ref) {
		return fmt.Errorf("%w: reference %q contains invalid characters", ErrInvalidGitRef, ref)
	}

	return nil
}

// MustValidateGitRef validates a git reference and panics if invalid.
// Use this only in contexts where invalid refs indicate a programming error.
func MustValidateGitRef(ref string) string {
	if err := ValidateGitRef(ref); err != nil {
		panic(err)
	}
	return ref
}
