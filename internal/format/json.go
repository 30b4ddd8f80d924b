package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ariel-frischer/relver/internal/errors"
)

// dependencyTables are the object-manifest sections that hold dependency
// references, in the order they are searched.
var dependencyTables = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

// locateJSON finds the version span in an object-style manifest. Without a
// dependency target it is the top-level "version" string; with one it is
// the named entry inside a dependency table. The scanner walks raw bytes
// so the located span can be spliced without disturbing formatting.
func locateJSON(content string, t Target) (Span, error) {
	if t.Dependency == "" {
		spans, err := stringValuesAt(content, []string{"version"})
		if err != nil {
			return Span{}, err
		}
		if len(spans) == 0 {
			return Span{}, errors.New(errors.PatternNotFound, "manifest has no top-level \"version\" field")
		}
		if len(spans) > 1 {
			return Span{}, errors.Newf(errors.AmbiguousMatch,
				"manifest has %d top-level \"version\" fields", len(spans))
		}
		return spans[0], nil
	}

	var found []Span
	var tables []string
	for _, table := range dependencyTables {
		spans, err := stringValuesAt(content, []string{table, t.Dependency})
		if err != nil {
			return Span{}, err
		}
		if len(spans) > 1 {
			return Span{}, errors.Newf(errors.AmbiguousMatch,
				"dependency %q appears %d times under %q", t.Dependency, len(spans), table)
		}
		if len(spans) > 0 {
			found = append(found, spans[0])
			tables = append(tables, table)
		}
	}

	switch len(found) {
	case 0:
		return Span{}, errors.Newf(errors.DependencyNotFound,
			"dependency %q not present in any dependency table", t.Dependency)
	case 1:
		return found[0], nil
	default:
		return Span{}, errors.Newf(errors.AmbiguousMatch,
			"dependency %q appears in multiple tables (%s); name the table explicitly",
			t.Dependency, strings.Join(tables, ", "))
	}
}

// declaredNameJSON returns the manifest's own "name" field, used as the
// fallback dependency name for cross-package references.
func declaredNameJSON(content string) (string, error) {
	spans, err := stringValuesAt(content, []string{"name"})
	if err != nil {
		return "", err
	}
	if len(spans) == 0 {
		return "", errors.New(errors.Parse, "manifest declares no \"name\" field")
	}
	if len(spans) > 1 {
		return "", errors.Newf(errors.AmbiguousMatch,
			"manifest has %d top-level \"name\" fields", len(spans))
	}
	return spans[0].In(content), nil
}

// verifyJSON confirms the patched bytes are still valid JSON.
func verifyJSON(content string) error {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return errors.Newf(errors.Parse, "patched content is no longer valid JSON: %v", err)
	}
	return nil
}

// stringValuesAt scans a JSON document and returns the spans of every
// string value whose key path equals path. Spans exclude the surrounding
// quotes. Returns a Parse error for malformed JSON.
func stringValuesAt(content string, path []string) ([]Span, error) {
	s := &jsonScanner{src: content, want: path}
	i := s.skipSpace(0)
	end, err := s.value(i, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.Parse)
	}
	if s.skipSpace(end) != len(content) {
		return nil, errors.New(errors.Parse, "trailing data after JSON document")
	}
	return s.found, nil
}

// arrayElem is the path element recorded for array elements. Object keys
// are JSON strings and cannot contain a raw NUL, so a path through an
// array can never equal a wanted key path.
const arrayElem = "\x00"

// jsonScanner is a minimal recursive-descent walk over JSON bytes that
// records the spans of string values at one key path. It exists because
// every real JSON decoder round-trips through a DOM and loses the byte
// layout the adapters must preserve.
type jsonScanner struct {
	src   string
	want  []string
	found []Span
}

func (s *jsonScanner) skipSpace(i int) int {
	for i < len(s.src) {
		switch s.src[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// value parses the value starting at i and returns the offset just past
// it. path is the key path leading to this value.
func (s *jsonScanner) value(i int, path []string) (int, error) {
	if i >= len(s.src) {
		return 0, fmt.Errorf("unexpected end of JSON at offset %d", i)
	}
	switch s.src[i] {
	case '{':
		return s.object(i, path)
	case '[':
		return s.array(i, path)
	case '"':
		span, end, err := s.str(i)
		if err != nil {
			return 0, err
		}
		if pathEqual(path, s.want) {
			s.found = append(s.found, span)
		}
		return end, nil
	default:
		return s.literal(i)
	}
}

func (s *jsonScanner) object(i int, path []string) (int, error) {
	i = s.skipSpace(i + 1)
	if i < len(s.src) && s.src[i] == '}' {
		return i + 1, nil
	}
	for {
		if i >= len(s.src) || s.src[i] != '"' {
			return 0, fmt.Errorf("expected object key at offset %d", i)
		}
		keySpan, end, err := s.str(i)
		if err != nil {
			return 0, err
		}
		key := keySpan.In(s.src)

		i = s.skipSpace(end)
		if i >= len(s.src) || s.src[i] != ':' {
			return 0, fmt.Errorf("expected ':' after key %q at offset %d", key, i)
		}
		i = s.skipSpace(i + 1)

		i, err = s.value(i, append(path, key))
		if err != nil {
			return 0, err
		}

		i = s.skipSpace(i)
		if i >= len(s.src) {
			return 0, fmt.Errorf("unterminated object at offset %d", i)
		}
		switch s.src[i] {
		case ',':
			i = s.skipSpace(i + 1)
		case '}':
			return i + 1, nil
		default:
			return 0, fmt.Errorf("expected ',' or '}' at offset %d", i)
		}
	}
}

func (s *jsonScanner) array(i int, path []string) (int, error) {
	i = s.skipSpace(i + 1)
	if i < len(s.src) && s.src[i] == ']' {
		return i + 1, nil
	}
	for {
		var err error
		// Array elements extend the path with a marker no real key can
		// equal, so keys inside array elements never match a wanted path.
		i, err = s.value(i, append(path, arrayElem))
		if err != nil {
			return 0, err
		}
		i = s.skipSpace(i)
		if i >= len(s.src) {
			return 0, fmt.Errorf("unterminated array at offset %d", i)
		}
		switch s.src[i] {
		case ',':
			i = s.skipSpace(i + 1)
		case ']':
			return i + 1, nil
		default:
			return 0, fmt.Errorf("expected ',' or ']' at offset %d", i)
		}
	}
}

// str parses the string starting at the opening quote and returns the span
// of its inner content plus the offset past the closing quote.
func (s *jsonScanner) str(i int) (Span, int, error) {
	start := i + 1
	j := start
	for j < len(s.src) {
		switch s.src[j] {
		case '\\':
			j += 2
		case '"':
			return Span{Start: start, End: j}, j + 1, nil
		default:
			j++
		}
	}
	return Span{}, 0, fmt.Errorf("unterminated string at offset %d", i)
}

// literal skips a number, true, false, or null.
func (s *jsonScanner) literal(i int) (int, error) {
	j := i
	for j < len(s.src) && !strings.ContainsRune(" \t\r\n,}]", rune(s.src[j])) {
		j++
	}
	if j == i {
		return 0, fmt.Errorf("unexpected character %q at offset %d", s.src[i], i)
	}
	return j, nil
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
