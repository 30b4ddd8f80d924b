package semver

// Severity is the minimum semantic-version increment implied by a set of
// change records. Values are ordered so the reduction over a record set is
// a plain max and therefore commutative and associative.
type Severity int

const (
	None Severity = iota
	PatchBump
	MinorBump
	MajorBump
)

// String returns the lowercase severity name used in summaries and config.
func (s Severity) String() string {
	switch s {
	case None:
		return "none"
	case PatchBump:
		return "patch"
	case MinorBump:
		return "minor"
	case MajorBump:
		return "major"
	default:
		return "unknown"
	}
}

// Max returns the greater of two severities.
func Max(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// Apply increments v by the given severity per standard semver rules:
// a patch bump zeroes nothing, a minor bump zeroes patch, a major bump
// zeroes minor and patch. Pre-release label and build metadata are dropped
// by any non-None bump, since the result is a release version.
//
// Pre-1.0 rule: while the major component is 0 the public API is not yet
// stable, so a Major severity increments the minor component instead of
// promoting the package to 1.0.0.
func Apply(v Version, s Severity) Version {
	switch s {
	case MajorBump:
		if v.Major == 0 {
			return Version{Major: 0, Minor: v.Minor + 1, Patch: 0}
		}
		return Version{Major: v.Major + 1, Minor: 0, Patch: 0}
	case MinorBump:
		return Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0}
	case PatchBump:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}
