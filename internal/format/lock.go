package format

import (
	"strings"

	"github.com/ariel-frischer/relver/internal/errors"
)

// locateLock finds version spans in a resolved-dependency lock table of
// [[package]] blocks:
//
//	[[package]]
//	name = "widget"
//	version = "1.2.3"
//
// Every block whose name matches the target dependency is located, so a
// lock file listing the package more than once (multiple resolutions) is
// updated consistently in one patch.
func locateLock(content string, t Target) ([]Span, error) {
	if t.Dependency == "" {
		return nil, errors.New(errors.DependencyNotFound,
			"lock table references require a dependency name",
			"Set 'dependency' on the file reference, or rely on the package manifest name")
	}

	var spans []Span
	inBlock := false
	blockName := ""

	for _, ln := range tomlLines(content) {
		if h := tomlArrayHeader.FindStringSubmatch(ln.text); h != nil {
			inBlock = strings.TrimSpace(h[1]) == "package"
			blockName = ""
			continue
		}
		if tomlTableHeader.MatchString(ln.text) {
			inBlock = false
			continue
		}
		if !inBlock {
			continue
		}
		if m := tomlNameKey.FindStringSubmatch(ln.text); m != nil {
			blockName = m[1]
			continue
		}
		if blockName != t.Dependency {
			continue
		}
		if m := tomlVersionKey.FindStringSubmatchIndex(ln.text); m != nil {
			spans = append(spans, Span{Start: ln.offset + m[4], End: ln.offset + m[5]})
		}
	}

	if len(spans) == 0 {
		return nil, errors.Newf(errors.DependencyNotFound,
			"lock table has no [[package]] entry named %q", t.Dependency)
	}
	return spans, nil
}
