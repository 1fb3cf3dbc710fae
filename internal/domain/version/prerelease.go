package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Token returns the prerelease token (the part before the revision), e.g.
// "rc" for prerelease "rc.3". If the prerelease carries no numeric
// revision, the whole prerelease string is the token.
func (p Prerelease) Token() string {
	token, _, _ := splitPrerelease(string(p))
	return token
}

// Revision returns the numeric revision of the prerelease, e.g. 3 for
// "rc.3". The second return value is false when there is no revision.
func (p Prerelease) Revision() (int, bool) {
	_, revision, ok := splitPrerelease(string(p))
	return revision, ok
}

// splitPrerelease splits a prerelease string into its token and, if the
// final dot-separated identifier is numeric, its revision.
func splitPrerelease(s string) (token string, revision int, ok bool) {
	if s == "" {
		return "", 0, false
	}
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return s, 0, false
	}
	return s[:idx], n, true
}

// PrereleaseToken returns the prerelease token of the version, or "" if the
// version is not a prerelease.
func (v SemanticVersion) PrereleaseToken() string {
	return v.prerelease.Token()
}

// PrereleaseRevision returns the prerelease revision of the version. The
// second return value is false when the version has no numeric revision
// (including when it is not a prerelease at all).
func (v SemanticVersion) PrereleaseRevision() (int, bool) {
	return v.prerelease.Revision()
}

// ToPrerelease attaches or replaces the version's prerelease suffix with
// the given token and revision, e.g. ToPrerelease("rc", 1) -> "-rc.1". If
// revision is 0, only the token is used (no numeric suffix).
func (v SemanticVersion) ToPrerelease(token string, revision int) SemanticVersion {
	pre := token
	if revision > 0 {
		pre = fmt.Sprintf("%s.%d", token, revision)
	}
	return v.WithPrerelease(Prerelease(pre))
}

// FinalizeVersion drops the prerelease suffix, promoting the version to a
// full release. Build metadata is preserved.
func (v SemanticVersion) FinalizeVersion() SemanticVersion {
	return v.WithoutPrerelease()
}
