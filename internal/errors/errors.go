// Package errors provides structured error handling for the relver release
// engine. Every failure carries a kind from the release taxonomy plus the
// file path and package name needed to remediate it.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a release failure.
type Kind int

const (
	// Parse errors cover malformed version strings, commits, and change files.
	Parse Kind = iota
	// UnknownFormat means a file had no explicit format tag and its name or
	// extension was not recognized by any adapter.
	UnknownFormat
	// PatternNotFound means a configured text pattern matched nothing.
	PatternNotFound
	// AmbiguousMatch means a structured adapter found more than one
	// version-bearing location and configuration did not disambiguate.
	AmbiguousMatch
	// NonMonotonic means a resolved version was not strictly greater than
	// the current version.
	NonMonotonic
	// InvalidLabel means a pre-release label contains characters that could
	// be mistaken for version-increment syntax.
	InvalidLabel
	// DependencyNotFound means a dependency-style reference names an entry
	// absent from the target file.
	DependencyNotFound
)

// String returns a human-readable name for the error kind.
func (k Kind) String() string {
	switch k {
	case Parse:
		return "Parse Error"
	case UnknownFormat:
		return "Unknown Format"
	case PatternNotFound:
		return "Pattern Not Found"
	case AmbiguousMatch:
		return "Ambiguous Match"
	case NonMonotonic:
		return "Version Downgrade"
	case InvalidLabel:
		return "Invalid Label"
	case DependencyNotFound:
		return "Dependency Not Found"
	default:
		return "Error"
	}
}

// ReleaseError is a structured error with kind, context, and remediation
// guidance. Any ReleaseError aborts the run before the commit phase.
type ReleaseError struct {
	// Kind is the taxonomy classification.
	Kind Kind
	// Message is a human-readable description of what went wrong.
	Message string
	// Path is the file the error relates to, when known.
	Path string
	// Package is the release unit the error relates to, when known.
	Package string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
}

// Error implements the error interface.
func (e *ReleaseError) Error() string {
	switch {
	case e.Path != "" && e.Package != "":
		return fmt.Sprintf("%s (package %s): %s", e.Path, e.Package, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	case e.Package != "":
		return fmt.Sprintf("package %s: %s", e.Package, e.Message)
	default:
		return e.Message
	}
}

// WithPath returns a copy of the error annotated with a file path.
func (e *ReleaseError) WithPath(path string) *ReleaseError {
	c := *e
	c.Path = path
	return &c
}

// WithPackage returns a copy of the error annotated with a package name.
func (e *ReleaseError) WithPackage(name string) *ReleaseError {
	c := *e
	c.Package = name
	return &c
}

// New creates a ReleaseError with the given kind and message.
func New(kind Kind, message string, remediation ...string) *ReleaseError {
	return &ReleaseError{
		Kind:        kind,
		Message:     message,
		Remediation: remediation,
	}
}

// Newf creates a ReleaseError with a formatted message.
func Newf(kind Kind, format string, args ...any) *ReleaseError {
	return &ReleaseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with a ReleaseError, preserving the original
// message. Returns nil when err is nil.
func Wrap(err error, kind Kind, remediation ...string) *ReleaseError {
	if err == nil {
		return nil
	}
	return &ReleaseError{
		Kind:        kind,
		Message:     err.Error(),
		Remediation: remediation,
	}
}

// IsKind reports whether err is a ReleaseError of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *ReleaseError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// AsReleaseError attempts to convert an error to a ReleaseError.
// Returns nil if the error is not a ReleaseError.
func AsReleaseError(err error) *ReleaseError {
	var re *ReleaseError
	if errors.As(err, &re) {
		return re
	}
	return nil
}
