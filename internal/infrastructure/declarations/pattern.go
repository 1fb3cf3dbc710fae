package declarations

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relicta-tech/semrel/internal/domain/version"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
	"github.com/relicta-tech/semrel/internal/fileutil"
)

// semverCapture matches the version portion inside a declaration pattern.
const semverCapture = `(?P<version>\d+\.\d+\.\d+(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?)`

// PatternDeclaration substitutes the version inside the first line of a
// file matching an assignment-style pattern, e.g.
//
//	__version__ = "1.2.3"
//
// The configured pattern must contain the "{version}" placeholder marking
// where the version sits; the rest of the pattern is treated as a regular
// expression.
type PatternDeclaration struct {
	path    string
	pattern *regexp.Regexp
}

// NewPatternDeclaration compiles the pattern. Patterns without a {version}
// placeholder are invalid configuration.
func NewPatternDeclaration(path, pattern string) (*PatternDeclaration, error) {
	const op = "declarations.NewPatternDeclaration"

	if !strings.Contains(pattern, "{version}") {
		return nil, semrelerrors.InvalidConfiguration(op,
			fmt.Sprintf("pattern %q for %s does not contain {version}", pattern, path))
	}

	compiled, err := regexp.Compile(strings.Replace(pattern, "{version}", semverCapture, 1))
	if err != nil {
		return nil, semrelerrors.InvalidConfigurationWrap(err, op,
			fmt.Sprintf("pattern %q for %s does not compile", pattern, path))
	}

	return &PatternDeclaration{path: path, pattern: compiled}, nil
}

// Path implements Declaration.
func (d *PatternDeclaration) Path() string { return d.path }

// Replace implements Declaration. Only the first match is substituted; a
// missing file or a file without a match is invalid configuration.
func (d *PatternDeclaration) Replace(v version.SemanticVersion) error {
	const op = "declarations.Pattern.Replace"

	data, err := fileutil.ReadFileLimited(d.path, maxDeclarationFileSize)
	if err != nil {
		return semrelerrors.InvalidConfigurationWrap(err, op,
			fmt.Sprintf("cannot read version declaration %s", d.path))
	}

	content := string(data)
	loc := d.pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return semrelerrors.InvalidConfiguration(op,
			fmt.Sprintf("no version assignment matching the pattern in %s", d.path))
	}

	groupIdx := d.pattern.SubexpIndex("version")
	start, end := loc[2*groupIdx], loc[2*groupIdx+1]
	if start < 0 {
		return semrelerrors.InvalidConfiguration(op,
			fmt.Sprintf("pattern for %s matched without capturing a version", d.path))
	}

	updated := content[:start] + v.String() + content[end:]
	if err := fileutil.AtomicWriteFile(d.path, []byte(updated), 0o644); err != nil {
		return semrelerrors.IOWrap(err, op, fmt.Sprintf("cannot write %s", d.path))
	}
	return nil
}
