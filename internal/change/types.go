// Package change normalizes heterogeneous change signals (conventional
// commits, on-disk change files) into Records and reduces a record set to
// the bump severity it implies.
package change

import (
	"github.com/ariel-frischer/relver/internal/semver"
)

// Kind tags a record with its change severity class. The three canonical
// kinds drive version bumps directly; any other non-empty value is a
// custom kind that renders under Notes in the changelog.
type Kind string

const (
	Breaking Kind = "breaking"
	Feature  Kind = "feature"
	Fix      Kind = "fix"
)

// IsCanonical reports whether k is one of the built-in kinds.
func (k Kind) IsCanonical() bool {
	return k == Breaking || k == Feature || k == Fix
}

// Severity maps a kind to the version increment it demands. Custom kinds
// warrant a patch release: they document a change without an API signal.
func (k Kind) Severity() semver.Severity {
	switch k {
	case Breaking:
		return semver.MajorBump
	case Feature:
		return semver.MinorBump
	case Fix:
		return semver.PatchBump
	default:
		return semver.PatchBump
	}
}

// Provenance records where a change signal came from.
type Provenance int

const (
	CommitDerived Provenance = iota
	FileDerived
)

// String returns a short name for the provenance, used in debug output.
func (p Provenance) String() string {
	if p == CommitDerived {
		return "commit"
	}
	return "file"
}

// Record is one normalized unit of "what changed". Records are value
// types: created fresh per run, never mutated.
type Record struct {
	Kind       Kind
	Summary    string
	Body       string
	Package    string
	Provenance Provenance
	// Source is the change-file path for FileDerived records; empty for
	// commit-derived ones. Consumed files are deleted after a successful
	// commit.
	Source string
}

// HasBody reports whether the record carries a multi-line body beyond its
// summary. Records with a body render as their own changelog sub-heading.
func (r Record) HasBody() bool {
	return r.Body != ""
}

// Bump reduces a record set to the severity of the release it implies.
// The reduction is a max over per-record severities, so it is commutative
// and order-independent. While the package is pre-1.0 (major == 0) a
// breaking record yields a minor bump: the API is not yet stable, and
// promotion to 1.0.0 stays a deliberate human decision.
func Bump(records []Record, current semver.Version) semver.Severity {
	sev := semver.None
	for _, r := range records {
		sev = semver.Max(sev, r.Kind.Severity())
	}
	if sev == semver.MajorBump && current.Major == 0 {
		sev = semver.MinorBump
	}
	return sev
}
