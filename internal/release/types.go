// Package release orchestrates a workspace release: it resolves every
// package's next version from its change records, patches each declared
// versioned file through the format adapters, propagates dependency
// references across packages, and produces a transactional write plan.
//
// The pipeline is single-threaded and two-phase: all reads and
// computation complete before any write. Any resolution failure anywhere
// aborts the run before the commit phase.
package release

import (
	"github.com/ariel-frischer/relver/internal/semver"
)

// FileRef points at one file whose content must reflect the package's
// resolved version. Every optional field is enumerated explicitly.
type FileRef struct {
	// Path of the file, relative to the workspace root.
	Path string
	// Format is an explicit adapter tag; inferred from the file name when
	// absent.
	Format string
	// Dependency overrides the referenced package name for
	// dependency-style and lock-table references. Absent means the name
	// declared by the owning package's primary manifest.
	Dependency string
	// Patterns configures the generic adapter; absent means a structured
	// adapter.
	Patterns []string
}

// Package is one release unit: a single version shared by all of its
// declared files.
type Package struct {
	Name          string
	Current       semver.Version
	Files         []FileRef
	ChangelogPath string
}

// WriteAction is a planned, not-yet-applied file mutation. Actions are
// produced during planning and applied only during commit, enabling
// atomic commit and dry-run.
type WriteAction struct {
	Path    string
	Content string
}

// Summary reports one package's outcome for downstream workflow steps.
type Summary struct {
	Name string
	Old  string
	New  string
	Bump semver.Severity
}

// Changed reports whether the package actually moved to a new version.
func (s Summary) Changed() bool {
	return s.Bump != semver.None
}

// Plan is the workspace-wide outcome of the computation phase: the full
// ordered list of write actions, the per-package summaries, and the
// change files consumed by the run (deleted only after a successful
// commit).
type Plan struct {
	Actions     []WriteAction
	Summaries   []Summary
	ChangeFiles []string
}

// Empty reports whether the plan writes nothing: the "nothing to release"
// terminal state, which is a success, not a failure.
func (p *Plan) Empty() bool {
	return len(p.Actions) == 0
}
