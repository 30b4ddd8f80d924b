package change

import (
	"regexp"
	"strings"
)

// conventionalHeader matches a conventional-commit subject line:
// type, optional (scope), optional ! breaking marker, colon, description.
var conventionalHeader = regexp.MustCompile(`^([a-zA-Z]+)(\(([^)]*)\))?(!)?:\s*(.+)$`)

// breakingFooter matches the footer token that marks a breaking change
// regardless of the commit type.
var breakingFooter = regexp.MustCompile(`(?m)^BREAKING[ -]CHANGE:\s*(.*)$`)

// ParseCommits converts conventional-commit messages into Records.
// Each element of messages is one full commit message; the first line is
// the subject and the rest is the body. Messages that do not follow the
// convention are skipped silently rather than failing the run, so a noisy
// history never blocks a release. ParseCommits therefore never errors.
func ParseCommits(messages []string) []Record {
	var records []Record
	for _, msg := range messages {
		if r, ok := parseCommit(msg); ok {
			records = append(records, r)
		}
	}
	return records
}

// parseCommit parses a single commit message. The second return value is
// false when the message carries no recognizable change signal.
func parseCommit(msg string) (Record, bool) {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	subject, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")

	m := conventionalHeader.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return Record{}, false
	}

	typ := strings.ToLower(m[1])
	scope := m[3]
	bang := m[4] == "!"
	description := strings.TrimSpace(m[5])

	footer := breakingFooter.FindStringSubmatch(msg)

	var kind Kind
	switch {
	case bang || footer != nil:
		kind = Breaking
	case typ == "feat":
		kind = Feature
	case typ == "fix":
		kind = Fix
	default:
		// Other conventional types (chore, docs, refactor, ...) carry no
		// release signal.
		return Record{}, false
	}

	summary := description
	if footer != nil && strings.TrimSpace(footer[1]) != "" {
		summary = strings.TrimSpace(footer[1])
	}

	// Commit-derived records are summary-only: free-text bodies belong to
	// change files, and a commit body would drag unrelated prose into the
	// changelog.
	return Record{
		Kind:       kind,
		Summary:    summary,
		Package:    scope,
		Provenance: CommitDerived,
	}, true
}
