// Package format implements the closed set of file-format adapters that
// locate and patch version strings inside manifest-like files. Every
// adapter preserves each byte of the input that is not the version value
// itself: ordering, comments, whitespace, and unrelated keys are untouched.
//
// Adapters are tagged variants behind a format discriminant, selected from
// an explicit configuration tag or the file name. There is deliberately no
// open plugin registry.
package format

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ariel-frischer/relver/internal/errors"
)

// Format discriminates the supported adapters.
type Format int

const (
	// Unknown is the zero value; using it is always an error.
	Unknown Format = iota
	// JSONManifest is an object-style manifest with a top-level "version"
	// field (package.json shape). Dependency references live under the
	// dependency tables.
	JSONManifest
	// TOMLManifest is a TOML manifest with version under [package] or at
	// the top level (Cargo.toml shape).
	TOMLManifest
	// TOMLLock is a resolved-dependency lock table of [[package]] blocks
	// (Cargo.lock shape).
	TOMLLock
	// Markup is an XML-style format carrying the version in a <Version>
	// element or a version="" attribute (csproj/props shape).
	Markup
	// Generic applies independently configured text patterns against the
	// raw file.
	Generic
)

// String returns the config tag for the format.
func (f Format) String() string {
	switch f {
	case JSONManifest:
		return "json"
	case TOMLManifest:
		return "toml"
	case TOMLLock:
		return "lock"
	case Markup:
		return "markup"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

// Span marks the byte range of a located version value inside a file.
// End is exclusive. The range covers only the version text, never its
// surrounding quotes or delimiters.
type Span struct {
	Start int
	End   int
}

// In returns the text the span covers.
func (s Span) In(content string) string {
	return content[s.Start:s.End]
}

// Target selects which version-bearing location inside a file to operate
// on. All fields are optional.
type Target struct {
	// Dependency names the dependency entry whose version is referenced,
	// instead of the file's own top-level version.
	Dependency string
	// Patterns configures the generic adapter; ignored by structured
	// adapters.
	Patterns []string
}

// Detect resolves the format discriminant for a file. An explicit tag
// wins; otherwise the file name and extension decide. Returns an
// UnknownFormat error when neither identifies a supported adapter.
func Detect(path, explicit string) (Format, error) {
	if explicit != "" {
		switch strings.ToLower(explicit) {
		case "json":
			return JSONManifest, nil
		case "toml":
			return TOMLManifest, nil
		case "lock":
			return TOMLLock, nil
		case "markup", "xml":
			return Markup, nil
		case "generic":
			return Generic, nil
		default:
			return Unknown, errors.Newf(errors.UnknownFormat, "unknown format tag %q", explicit).WithPath(path)
		}
	}

	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)
	switch {
	case base == "cargo.lock" || ext == ".lock":
		return TOMLLock, nil
	case ext == ".json":
		return JSONManifest, nil
	case ext == ".toml":
		return TOMLManifest, nil
	case ext == ".xml" || ext == ".csproj" || ext == ".props" || ext == ".targets":
		return Markup, nil
	default:
		return Unknown, errors.Newf(errors.UnknownFormat,
			"cannot infer format from file name %q", filepath.Base(path)).WithPath(path)
	}
}

// Locate finds the version span(s) the target selects. Structured formats
// return exactly one span; the generic adapter returns one span per
// configured pattern.
func Locate(f Format, content string, t Target) ([]Span, error) {
	switch f {
	case JSONManifest:
		s, err := locateJSON(content, t)
		if err != nil {
			return nil, err
		}
		return []Span{s}, nil
	case TOMLManifest:
		s, err := locateTOML(content, t)
		if err != nil {
			return nil, err
		}
		return []Span{s}, nil
	case TOMLLock:
		return locateLock(content, t)
	case Markup:
		s, err := locateMarkup(content)
		if err != nil {
			return nil, err
		}
		return []Span{s}, nil
	case Generic:
		return locateGeneric(content, t)
	default:
		return nil, errors.New(errors.UnknownFormat, "no adapter for unknown format")
	}
}

// Patch replaces every located version span with newVersion and returns
// the new content. Patching is idempotent (content already at newVersion
// comes back byte-identical) and composable (patching v1 then v2 equals
// patching v2 directly), because spans are located fresh on every call.
func Patch(f Format, content string, t Target, newVersion string) (string, error) {
	spans, err := Locate(f, content, t)
	if err != nil {
		return "", err
	}
	patched, err := replaceSpans(content, spans, newVersion)
	if err != nil {
		return "", err
	}
	if err := verify(f, patched); err != nil {
		return "", err
	}
	return patched, nil
}

// DeclaredName returns the package name the manifest declares about
// itself. Only structured manifests carry one; it is the fallback
// dependency name for cross-package references.
func DeclaredName(f Format, content string) (string, error) {
	switch f {
	case JSONManifest:
		return declaredNameJSON(content)
	case TOMLManifest:
		return declaredNameTOML(content)
	default:
		return "", errors.Newf(errors.Parse, "%s files declare no package name", f)
	}
}

// replaceSpans substitutes newVersion into every span, working from the
// end of the file so earlier offsets stay valid. Two patterns locating
// the identical span collapse into one replacement; spans that overlap
// without being identical would splice corrupt output, so they error
// instead of replacing.
func replaceSpans(content string, spans []Span, newVersion string) (string, error) {
	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start > ordered[j].Start
		}
		return ordered[i].End > ordered[j].End
	})

	prev := Span{Start: -1, End: -1}
	for _, s := range ordered {
		if s == prev {
			continue
		}
		if prev.Start >= 0 && s.End > prev.Start {
			return "", errors.Newf(errors.AmbiguousMatch,
				"located spans %d..%d and %d..%d overlap", s.Start, s.End, prev.Start, prev.End)
		}
		content = content[:s.Start] + newVersion + content[s.End:]
		prev = s
	}
	return content, nil
}

// verify checks that patched content still parses under its format. A
// failure here means the located span was wrong, so it surfaces as a
// Parse error rather than silently writing a corrupt file.
func verify(f Format, content string) error {
	switch f {
	case JSONManifest:
		return verifyJSON(content)
	case TOMLManifest, TOMLLock:
		return verifyTOML(content)
	default:
		return nil
	}
}
