package semver

import (
	"regexp"

	"github.com/ariel-frischer/relver/internal/errors"
)

// embeddedVersionPrefix matches a "v" immediately followed by a digit, the
// shape of a version tag. A pre-release label containing it (for example
// "betav2") reads as version-increment syntax and would make the patched
// version string ambiguous to downstream tag matching.
var embeddedVersionPrefix = regexp.MustCompile(`v\d`)

// CheckLabel validates a pre-release label against the label policy.
// Returns an InvalidLabel error when the label embeds a version-prefix
// sequence. The empty label is always valid. This runs before any bump
// computation so a bad label fails the run up front.
func CheckLabel(label string) error {
	if label == "" {
		return nil
	}
	if err := validatePreRelease(label); err != nil {
		return errors.Newf(errors.InvalidLabel, "pre-release label %q: %v", label, err)
	}
	if loc := embeddedVersionPrefix.FindString(label); loc != "" {
		return errors.New(errors.InvalidLabel,
			"pre-release label "+label+" embeds version-prefix sequence "+loc,
			"Remove the v<digit> sequence from the pre-release label",
			"Use dot-separated identifiers, e.g. beta.2 instead of betav2")
	}
	return nil
}

// Resolve applies a bump severity to the current version and validates the
// result. With severity None the current version is returned unchanged;
// for any other severity the resolved version must be strictly greater
// than current, otherwise a NonMonotonic error is returned.
func Resolve(current Version, s Severity) (Version, error) {
	if err := CheckLabel(current.Pre); err != nil {
		return Version{}, err
	}
	if s == None {
		return current, nil
	}

	next := Apply(current, s)
	if Compare(next, current) <= 0 {
		return Version{}, errors.Newf(errors.NonMonotonic,
			"resolved version %s is not greater than current %s", next, current)
	}
	return next, nil
}
