package changelog

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// groupStyle defines the color and icon for a changelog group heading.
type groupStyle struct {
	color *color.Color
	icon  string
}

var groupStyles = map[string]groupStyle{
	GroupBreaking: {color: color.New(color.FgRed, color.Bold), icon: "⚠"},
	GroupFeatures: {color: color.New(color.FgGreen), icon: "✓"},
	GroupFixes:    {color: color.New(color.FgYellow), icon: "⚡"},
	GroupNotes:    {color: color.New(color.FgBlue), icon: "~"},
}

// Preview writes a release entry to the writer with terminal styling.
// Used by the CLI to show what a release would add to the changelog
// without touching any file.
func Preview(e Entry, w io.Writer, plain bool) error {
	if e.IsEmpty() {
		_, err := fmt.Fprintln(w, "No changes to release.")
		return err
	}

	header := fmt.Sprintf("%s - %s", e.Version, e.Date.Format("2006-01-02"))
	if plain {
		fmt.Fprintln(w, header)
	} else {
		color.New(color.FgCyan, color.Bold).Fprintln(w, header)
	}

	for _, g := range e.Groups {
		style := groupStyles[g.Title]
		if plain {
			fmt.Fprintf(w, "\n%s\n", g.Title)
		} else {
			fmt.Fprintln(w)
			style.color.Fprintf(w, "%s %s\n", style.icon, g.Title)
		}
		for _, r := range g.Records {
			fmt.Fprintf(w, "  - %s\n", r.Summary)
		}
	}
	return nil
}
