package format

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ariel-frischer/relver/internal/errors"
)

var (
	tomlTableHeader = regexp.MustCompile(`^\s*\[([^\[\]]+)\]\s*(?:#.*)?$`)
	tomlArrayHeader = regexp.MustCompile(`^\s*\[\[([^\[\]]+)\]\]\s*(?:#.*)?$`)
	// version = "..." with the value captured; trailing content preserved.
	tomlVersionKey = regexp.MustCompile(`^(\s*version\s*=\s*")([^"]*)(")`)
	tomlNameKey    = regexp.MustCompile(`^\s*name\s*=\s*"([^"]*)"`)
)

// tomlDependencyTables are the manifest sections holding dependency
// entries, in search order.
var tomlDependencyTables = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// locateTOML finds the version span in a TOML manifest. Without a
// dependency target it is the version key under [package] (or before any
// table header); with one it is the named dependency entry, either
// `name = "1.2.3"` or `name = { version = "1.2.3", ... }`.
func locateTOML(content string, t Target) (Span, error) {
	if t.Dependency == "" {
		return locateTOMLPackageVersion(content)
	}
	return locateTOMLDependency(content, t.Dependency)
}

// locateTOMLPackageVersion scans for the package's own version key,
// accepted at the top of the file or inside [package].
func locateTOMLPackageVersion(content string) (Span, error) {
	table := ""
	for _, ln := range tomlLines(content) {
		if h := tomlTableHeader.FindStringSubmatch(ln.text); h != nil {
			table = strings.TrimSpace(h[1])
			continue
		}
		if tomlArrayHeader.MatchString(ln.text) {
			table = "-"
			continue
		}
		if table != "" && table != "package" {
			continue
		}
		if m := tomlVersionKey.FindStringSubmatchIndex(ln.text); m != nil {
			return Span{Start: ln.offset + m[4], End: ln.offset + m[5]}, nil
		}
	}
	return Span{}, errors.New(errors.PatternNotFound, "manifest has no version key under [package]")
}

// locateTOMLDependency finds the version of one dependency entry.
func locateTOMLDependency(content, dep string) (Span, error) {
	// name = "1.2.3" or "name" = "1.2.3"
	bare := regexp.QuoteMeta(dep)
	entry := regexp.MustCompile(`^(\s*(?:` + bare + `|"` + bare + `")\s*=\s*")([^"]*)(")`)
	// name = { version = "1.2.3", ... }
	inline := regexp.MustCompile(`^(\s*(?:` + bare + `|"` + bare + `")\s*=\s*\{.*?version\s*=\s*")([^"]*)(")`)

	var found []Span
	var tables []string

	table := ""
	for _, ln := range tomlLines(content) {
		if h := tomlTableHeader.FindStringSubmatch(ln.text); h != nil {
			table = strings.TrimSpace(h[1])
			continue
		}
		if tomlArrayHeader.MatchString(ln.text) {
			table = "-"
			continue
		}
		if !isDependencyTable(table) {
			continue
		}
		if m := inline.FindStringSubmatchIndex(ln.text); m != nil {
			found = append(found, Span{Start: ln.offset + m[4], End: ln.offset + m[5]})
			tables = append(tables, table)
			continue
		}
		if m := entry.FindStringSubmatchIndex(ln.text); m != nil {
			found = append(found, Span{Start: ln.offset + m[4], End: ln.offset + m[5]})
			tables = append(tables, table)
		}
	}

	switch len(found) {
	case 0:
		return Span{}, errors.Newf(errors.DependencyNotFound,
			"dependency %q not present in any dependency table", dep)
	case 1:
		return found[0], nil
	default:
		return Span{}, errors.Newf(errors.AmbiguousMatch,
			"dependency %q appears in multiple tables (%s); split it into separate file references",
			dep, strings.Join(tables, ", "))
	}
}

// isDependencyTable reports whether a table name holds dependency entries,
// including target-scoped forms like target.'cfg(unix)'.dependencies.
func isDependencyTable(table string) bool {
	for _, t := range tomlDependencyTables {
		if table == t || strings.HasSuffix(table, "."+t) {
			return true
		}
	}
	return false
}

// declaredNameTOML returns the [package] name, decoded with the TOML
// parser proper since no span is needed here.
func declaredNameTOML(content string) (string, error) {
	var doc struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Name string `toml:"name"`
	}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return "", errors.Newf(errors.Parse, "invalid TOML manifest: %v", err)
	}
	if doc.Package.Name != "" {
		return doc.Package.Name, nil
	}
	if doc.Name != "" {
		return doc.Name, nil
	}
	return "", errors.New(errors.Parse, "manifest declares no package name")
}

// verifyTOML confirms the patched bytes are still valid TOML.
func verifyTOML(content string) error {
	var v map[string]any
	if err := toml.Unmarshal([]byte(content), &v); err != nil {
		return errors.Newf(errors.Parse, "patched content is no longer valid TOML: %v", err)
	}
	return nil
}

// line couples a line of text with its byte offset in the file.
type line struct {
	text   string
	offset int
}

// tomlLines splits content into lines with byte offsets, leaving line
// terminators out of the text but accounted for in offsets.
func tomlLines(content string) []line {
	var lines []line
	off := 0
	for off <= len(content) {
		idx := strings.IndexByte(content[off:], '\n')
		if idx < 0 {
			if off < len(content) {
				lines = append(lines, line{text: content[off:], offset: off})
			}
			break
		}
		lines = append(lines, line{text: content[off : off+idx], offset: off})
		off += idx + 1
	}
	return lines
}
