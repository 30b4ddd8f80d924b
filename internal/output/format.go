// Package output provides terminal output formatting utilities for the
// relver CLI. This package is designed to have minimal dependencies to
// avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ariel-frischer/relver/internal/release"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintDryRunBanner prints a separator announcing that nothing will be
// written. Uses dim magenta styling to stand apart from the summary.
func PrintDryRunBanner(out io.Writer) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label := " dry run - no files written "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintSummaries prints one line per package: a green arrow line for
// released packages, a dim unchanged line for the rest.
func PrintSummaries(out io.Writer, summaries []release.Summary) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, s := range summaries {
		if s.Changed() {
			fmt.Fprintf(out, "%s %s %s\n", green("✓"), cyan(s.Name), fmt.Sprintf("%s → %s", s.Old, s.New))
		} else {
			fmt.Fprintf(out, "%s %s %s\n", dim("-"), dim(s.Name), dim(s.Old+" (unchanged)"))
		}
	}
}

// PrintActions lists the files a plan would write, dimmed, one per line.
func PrintActions(out io.Writer, actions []release.WriteAction) {
	dim := color.New(color.Faint).SprintFunc()
	for _, a := range actions {
		fmt.Fprintf(out, "  %s\n", dim(a.Path))
	}
}

// PrintNothingToRelease prints the empty-plan terminal state.
func PrintNothingToRelease(out io.Writer) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s\n", dim("Nothing to release: no pending changes."))
}

// PrintSuccess prints a colored success message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}
