// Package declarations updates version-bearing project files when a new
// version is cut. Two shapes are supported: a regex substitution over an
// assignment-style line, and a dotted key inside a TOML document.
package declarations

import (
	"github.com/relicta-tech/semrel/internal/domain/version"
)

// Declaration rewrites one file to carry the given version. Implementations
// must leave the file untouched when they fail.
type Declaration interface {
	// Path returns the file the declaration writes to.
	Path() string
	// Replace writes the new version into the file.
	Replace(v version.SemanticVersion) error
}

// maxDeclarationFileSize bounds the files a declaration will read.
const maxDeclarationFileSize = 4 << 20
