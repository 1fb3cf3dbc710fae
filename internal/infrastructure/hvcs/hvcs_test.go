package hvcs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https", "https://github.com/acme/widget.git", "acme", "widget", false},
		{"https no suffix", "https://github.com/acme/widget", "acme", "widget", false},
		{"scp-like", "git@github.com:acme/widget.git", "acme", "widget", false},
		{"ssh url", "ssh://git@github.com/acme/widget.git", "acme", "widget", false},
		{"gitlab nested group", "https://gitlab.com/group/subgroup/widget.git", "group/subgroup", "widget", false},
		{"empty", "", "", "", true},
		{"no path", "https://github.com", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRemoteURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, ref.Owner)
			assert.Equal(t, tt.wantRepo, ref.Name)
		})
	}
}

func TestNewByServiceName(t *testing.T) {
	remote := "https://github.com/acme/widget.git"

	for _, service := range []string{"github", "gitlab", "gitea"} {
		client, err := New(service, remote, "", "")
		require.NoError(t, err, service)
		assert.Equal(t, service, client.Name())
		assert.Equal(t, "acme", client.Owner())
		assert.Equal(t, "widget", client.RepoName())
	}

	_, err := New("sourcehut", remote, "", "")
	assert.Error(t, err)
}

func TestGitHubURLs(t *testing.T) {
	gh, err := NewGitHub("git@github.com:acme/widget.git", "", "")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/acme/widget/commit/abc123", gh.CommitHashURL("abc123"))
	assert.Equal(t, "https://github.com/acme/widget/pull/42", gh.PullRequestURL(42))

	compare, err := gh.CompareURL("v1.0.0", "v1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widget/compare/v1.0.0...v1.1.0", compare)
}

func TestGitHubEnterpriseDomain(t *testing.T) {
	gh, err := NewGitHub("https://github.example.com/acme/widget.git", "https://github.example.com/api/v3", "")
	require.NoError(t, err)

	assert.Equal(t, "https://github.example.com/acme/widget/commit/abc", gh.CommitHashURL("abc"))
}

func TestGitHubCreateReleaseWithoutToken(t *testing.T) {
	gh, err := NewGitHub("https://github.com/acme/widget.git", "", "")
	require.NoError(t, err)

	_, err = gh.CreateRelease(context.Background(), "v1.0.0", "1.0.0", "notes", false)
	assert.Error(t, err, "publishing without a token must fail cleanly")

	err = gh.UploadAsset(context.Background(), 1, "dist/widget.tar.gz")
	assert.Error(t, err)
}

func TestGitLabURLs(t *testing.T) {
	gl, err := NewGitLab("https://gitlab.com/group/sub/widget.git", "")
	require.NoError(t, err)

	assert.Equal(t, "group/sub", gl.Owner())
	assert.Equal(t, "https://gitlab.com/group/sub/widget/-/commit/abc", gl.CommitHashURL("abc"))
	assert.Equal(t, "https://gitlab.com/group/sub/widget/-/merge_requests/7", gl.PullRequestURL(7))

	compare, err := gl.CompareURL("v1.0.0", "v2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.com/group/sub/widget/-/compare/v1.0.0...v2.0.0", compare)
}

func TestGitLabSelfHostedDomain(t *testing.T) {
	gl, err := NewGitLab("git@git.example.com:team/widget.git", "https://git.example.com/api/v4")
	require.NoError(t, err)

	assert.Equal(t, "https://git.example.com/team/widget/-/commit/abc", gl.CommitHashURL("abc"))
}

func TestGiteaURLs(t *testing.T) {
	gt, err := NewGitea("https://gitea.example.com/acme/widget.git", "")
	require.NoError(t, err)

	assert.Equal(t, "https://gitea.example.com/acme/widget/commit/abc", gt.CommitHashURL("abc"))
	assert.Equal(t, "https://gitea.example.com/acme/widget/pulls/3", gt.PullRequestURL(3))
}

func TestGiteaScpRemoteDomain(t *testing.T) {
	gt, err := NewGitea("git@gitea.example.com:acme/widget.git", "")
	require.NoError(t, err)

	assert.Equal(t, "https://gitea.example.com/acme/widget/commit/abc", gt.CommitHashURL("abc"))
}

func TestUnsupportedOperationsSignalNotSupported(t *testing.T) {
	clients := []Client{}

	gl, err := NewGitLab("https://gitlab.com/acme/widget.git", "")
	require.NoError(t, err)
	clients = append(clients, gl)

	gt, err := NewGitea("https://gitea.example.com/acme/widget.git", "")
	require.NoError(t, err)
	clients = append(clients, gt)

	for _, client := range clients {
		_, err := client.CreateRelease(context.Background(), "v1.0.0", "1.0.0", "", false)
		assert.True(t, errors.Is(err, ErrNotSupported), "%s CreateRelease", client.Name())

		err = client.UploadAsset(context.Background(), 1, "x")
		assert.True(t, errors.Is(err, ErrNotSupported), "%s UploadAsset", client.Name())

		_, err = client.CheckBuildStatus(context.Background(), "main")
		assert.True(t, errors.Is(err, ErrNotSupported), "%s CheckBuildStatus", client.Name())
	}
}
