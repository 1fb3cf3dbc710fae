package declarations

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/relicta-tech/semrel/internal/domain/version"
	semrelerrors "github.com/relicta-tech/semrel/internal/errors"
	"github.com/relicta-tech/semrel/internal/fileutil"
)

// TOMLDeclaration updates a dotted key inside a TOML document, e.g.
// "tool.poetry.version" in pyproject.toml or "package.version" in
// Cargo.toml. The document's layout and comments are preserved: the value
// is rewritten in place on its own line rather than re-serializing the
// whole file.
type TOMLDeclaration struct {
	path string
	key  string
}

// NewTOMLDeclaration creates a TOMLDeclaration for a dotted key.
func NewTOMLDeclaration(path, dottedKey string) (*TOMLDeclaration, error) {
	const op = "declarations.NewTOMLDeclaration"

	if strings.TrimSpace(dottedKey) == "" {
		return nil, semrelerrors.InvalidConfiguration(op,
			fmt.Sprintf("empty TOML key for %s", path))
	}
	return &TOMLDeclaration{path: path, key: dottedKey}, nil
}

// Path implements Declaration.
func (d *TOMLDeclaration) Path() string { return d.path }

// Replace implements Declaration.
func (d *TOMLDeclaration) Replace(v version.SemanticVersion) error {
	const op = "declarations.TOML.Replace"

	data, err := fileutil.ReadFileLimited(d.path, maxDeclarationFileSize)
	if err != nil {
		return semrelerrors.InvalidConfigurationWrap(err, op,
			fmt.Sprintf("cannot read version declaration %s", d.path))
	}

	// Parse first so malformed documents and missing keys fail before any
	// textual edit.
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return semrelerrors.InvalidConfigurationWrap(err, op,
			fmt.Sprintf("%s is not valid TOML", d.path))
	}
	if !keyExists(doc, strings.Split(d.key, ".")) {
		return semrelerrors.InvalidConfiguration(op,
			fmt.Sprintf("key %q not present in %s", d.key, d.path))
	}

	updated, err := rewriteValue(string(data), strings.Split(d.key, "."), v.String())
	if err != nil {
		return semrelerrors.InvalidConfigurationWrap(err, op,
			fmt.Sprintf("cannot locate %q in %s", d.key, d.path))
	}

	if err := fileutil.AtomicWriteFile(d.path, []byte(updated), 0o644); err != nil {
		return semrelerrors.IOWrap(err, op, fmt.Sprintf("cannot write %s", d.path))
	}
	return nil
}

// keyExists walks the unmarshaled document along the dotted path.
func keyExists(doc map[string]any, path []string) bool {
	current := doc
	for i, part := range path {
		value, ok := current[part]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// tableHeaderRe matches a [table] or [[array-of-tables]] header line.
var tableHeaderRe = regexp.MustCompile(`^\s*\[\[?\s*([^\]\s]+)\s*\]?\]\s*(?:#.*)?$`)

// rewriteValue replaces the string value of the dotted key in place,
// keeping all other lines byte-identical. The leaf key may be written at
// the document root, inside its table, or dotted relative to a parent
// table.
func rewriteValue(content string, path []string, newValue string) (string, error) {
	lines := strings.Split(content, "\n")
	currentTable := ""

	for i, line := range lines {
		if m := tableHeaderRe.FindStringSubmatch(line); m != nil {
			currentTable = m[1]
			continue
		}

		key := relativeKey(path, currentTable)
		if key == "" {
			continue
		}

		re := regexp.MustCompile(`^(\s*` + regexp.QuoteMeta(key) + `\s*=\s*)(["'])(?:[^"']*)(["'])(.*)$`)
		if m := re.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + m[2] + newValue + m[3] + m[4]
			return strings.Join(lines, "\n"), nil
		}
	}

	return "", fmt.Errorf("no assignment line found for %s", strings.Join(path, "."))
}

// relativeKey returns how the dotted path would be written inside the
// current table: the remaining suffix when the table is a prefix of the
// path, the full dotted form at the root, or "" when the key cannot appear
// in this table.
func relativeKey(path []string, currentTable string) string {
	full := strings.Join(path, ".")
	if currentTable == "" {
		return full
	}
	prefix := currentTable + "."
	if strings.HasPrefix(full, prefix) {
		return strings.TrimPrefix(full, prefix)
	}
	return ""
}
