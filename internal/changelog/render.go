package changelog

import (
	"fmt"
	"io"
	"strings"
)

// Render generates the markdown section for a release entry.
//
// The function is idempotent - given the same input, it produces identical
// output. A record without a body renders as a single bullet; a record
// with a multi-line body renders as its own sub-heading followed by the
// body text.
func Render(e Entry, w io.Writer) error {
	if err := renderHeading(e, w); err != nil {
		return fmt.Errorf("rendering heading: %w", err)
	}
	for _, g := range e.Groups {
		if err := renderSection(g, w); err != nil {
			return fmt.Errorf("rendering %s: %w", g.Title, err)
		}
	}
	return nil
}

// RenderString is a convenience function that renders to a string.
func RenderString(e Entry) (string, error) {
	var b strings.Builder
	if err := Render(e, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderHeading writes the version heading line.
func renderHeading(e Entry, w io.Writer) error {
	heading := fmt.Sprintf("## %s - %s\n", e.Version, e.Date.Format("2006-01-02"))
	_, err := w.Write([]byte(heading))
	return err
}

// renderSection writes one group heading with its records.
func renderSection(s Section, w io.Writer) error {
	if _, err := w.Write([]byte("\n### " + s.Title + "\n\n")); err != nil {
		return err
	}
	for _, r := range s.Records {
		if r.HasBody() {
			if _, err := fmt.Fprintf(w, "#### %s\n\n%s\n\n", r.Summary, strings.TrimSpace(r.Body)); err != nil {
				return err
			}
			continue
		}
		if _, err := w.Write([]byte("- " + r.Summary + "\n")); err != nil {
			return err
		}
	}
	return nil
}
