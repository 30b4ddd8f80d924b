package format

import (
	"regexp"

	"github.com/ariel-frischer/relver/internal/errors"
)

var (
	// <Version>1.2.3</Version> — element form used by csproj/props files.
	markupElement = regexp.MustCompile(`<[Vv]ersion>([^<]*)</[Vv]ersion>`)
	// version="1.2.3" — attribute form.
	markupAttribute = regexp.MustCompile(`\b[Vv]ersion\s*=\s*"([^"]*)"`)
)

// locateMarkup finds the version span in a markup-attribute format. The
// element form is preferred; the attribute form is the fallback. More
// than one candidate in the same file is ambiguous: configure the file
// with explicit patterns to disambiguate.
func locateMarkup(content string) (Span, error) {
	if spans := captureAll(markupElement, content); len(spans) > 0 {
		if len(spans) > 1 {
			return Span{}, errors.Newf(errors.AmbiguousMatch,
				"%d <Version> elements found; configure patterns to select one", len(spans))
		}
		return spans[0], nil
	}

	spans := captureAll(markupAttribute, content)
	switch len(spans) {
	case 0:
		return Span{}, errors.New(errors.PatternNotFound,
			"no <Version> element or version attribute found")
	case 1:
		return spans[0], nil
	default:
		return Span{}, errors.Newf(errors.AmbiguousMatch,
			"%d version attributes found; configure patterns to select one", len(spans))
	}
}

// captureAll returns the spans of capture group 1 for every match.
func captureAll(re *regexp.Regexp, content string) []Span {
	var spans []Span
	for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
		spans = append(spans, Span{Start: m[2], End: m[3]})
	}
	return spans
}
