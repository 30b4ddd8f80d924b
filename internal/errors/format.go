package errors

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg   = color.New(color.FgRed).SprintFunc()
	fixLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet     = color.New(color.FgGreen).SprintFunc()
	kindFmt    = color.New(color.FgYellow).SprintFunc()
	ctxFmt     = color.New(color.FgCyan).SprintFunc()
)

// FormatError formats a ReleaseError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *ReleaseError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a ReleaseError without colors.
func FormatErrorPlain(err *ReleaseError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *ReleaseError, useColors bool) string {
	var sb strings.Builder

	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(" [")
		sb.WriteString(kindFmt(err.Kind.String()))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(err.Message))
	} else {
		sb.WriteString("Error [")
		sb.WriteString(err.Kind.String())
		sb.WriteString("]: ")
		sb.WriteString(err.Message)
	}
	sb.WriteString("\n")

	if err.Path != "" {
		sb.WriteString("  File:    ")
		if useColors {
			sb.WriteString(ctxFmt(err.Path))
		} else {
			sb.WriteString(err.Path)
		}
		sb.WriteString("\n")
	}
	if err.Package != "" {
		sb.WriteString("  Package: ")
		if useColors {
			sb.WriteString(ctxFmt(err.Package))
		} else {
			sb.WriteString(err.Package)
		}
		sb.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(fixLabel("To fix:"))
		} else {
			sb.WriteString("To fix:")
		}
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			if useColors {
				sb.WriteString("  " + bullet("•") + " " + step)
			} else {
				sb.WriteString("  • " + step)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
