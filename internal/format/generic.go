package format

import (
	"regexp"

	"github.com/ariel-frischer/relver/internal/errors"
)

// locateGeneric applies each configured text pattern against the raw file.
// A pattern is a regular expression with exactly one capture group marking
// the version text; each pattern independently produces one span (its
// first match), and all configured patterns are patched within a single
// call. A pattern that matches nothing fails the run with
// PatternNotFound.
func locateGeneric(content string, t Target) ([]Span, error) {
	if len(t.Patterns) == 0 {
		return nil, errors.New(errors.PatternNotFound,
			"generic format requires at least one pattern",
			"Add a 'patterns' list to the file reference")
	}

	spans := make([]Span, 0, len(t.Patterns))
	for _, p := range t.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Newf(errors.Parse, "invalid pattern %q: %v", p, err)
		}
		if re.NumSubexp() != 1 {
			return nil, errors.Newf(errors.Parse,
				"pattern %q must have exactly one capture group marking the version", p)
		}
		m := re.FindStringSubmatchIndex(content)
		if m == nil {
			return nil, errors.Newf(errors.PatternNotFound, "pattern %q matched nothing", p)
		}
		spans = append(spans, Span{Start: m[2], End: m[3]})
	}
	return spans, nil
}
