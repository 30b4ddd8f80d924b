// Package semver implements the semantic-version arithmetic for relver:
// parsing, total-order comparison, severity reduction, and bump resolution.
// It deliberately implements the strict dialect the file adapters rely on
// rather than the looser forms some ecosystems accept.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ariel-frischer/relver/internal/errors"
)

// Version is a parsed semantic version.
// Pre holds the pre-release label without the leading '-', Build the build
// metadata without the leading '+'. Both are empty when absent.
type Version struct {
	Major int
	Minor int
	Patch int
	Pre   string
	Build string
}

// Parse parses a semantic version string. A leading "v" is accepted and
// stripped, matching what release tags commonly carry. Returns a Parse
// error when the string is not a valid semantic version.
func Parse(s string) (Version, error) {
	raw := s
	s = strings.TrimPrefix(s, "v")

	var v Version

	// Split off build metadata first: it never participates in ordering.
	if i := strings.IndexByte(s, '+'); i >= 0 {
		v.Build = s[i+1:]
		s = s[:i]
		if v.Build == "" {
			return Version{}, errors.Newf(errors.Parse, "invalid version %q: empty build metadata", raw)
		}
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		v.Pre = s[i+1:]
		s = s[:i]
		if v.Pre == "" {
			return Version{}, errors.Newf(errors.Parse, "invalid version %q: empty pre-release label", raw)
		}
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, errors.Newf(errors.Parse, "invalid version %q: expected MAJOR.MINOR.PATCH", raw)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := parseNumericComponent(p)
		if err != nil {
			return Version{}, errors.Newf(errors.Parse, "invalid version %q: %v", raw, err)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]

	if v.Pre != "" {
		if err := validatePreRelease(v.Pre); err != nil {
			return Version{}, errors.Newf(errors.Parse, "invalid version %q: %v", raw, err)
		}
	}

	return v, nil
}

// MustParse parses a version string and panics on failure. Test helper.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// parseNumericComponent parses one of the MAJOR.MINOR.PATCH components.
// Leading zeroes are rejected per the semver grammar.
func parseNumericComponent(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric component")
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf("numeric component %q has a leading zero", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("numeric component %q is not a non-negative integer", s)
	}
	return n, nil
}

// validatePreRelease checks the pre-release label against the semver
// identifier grammar: dot-separated, non-empty, alphanumeric or hyphen,
// no leading zeroes on numeric identifiers.
func validatePreRelease(pre string) error {
	for _, id := range strings.Split(pre, ".") {
		if id == "" {
			return fmt.Errorf("pre-release label contains an empty identifier")
		}
		numeric := true
		for _, r := range id {
			switch {
			case r >= '0' && r <= '9':
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
				numeric = false
			default:
				return fmt.Errorf("pre-release identifier %q contains invalid character %q", id, r)
			}
		}
		if numeric && len(id) > 1 && id[0] == '0' {
			return fmt.Errorf("pre-release identifier %q has a leading zero", id)
		}
	}
	return nil
}

// String renders the version in canonical form, without a "v" prefix.
func (v Version) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		sb.WriteByte('-')
		sb.WriteString(v.Pre)
	}
	if v.Build != "" {
		sb.WriteByte('+')
		sb.WriteString(v.Build)
	}
	return sb.String()
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// w under semantic-version precedence. Build metadata is ignored.
func Compare(v, w Version) int {
	if c := compareInt(v.Major, w.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, w.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, w.Patch); c != 0 {
		return c
	}
	return comparePreRelease(v.Pre, w.Pre)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePreRelease implements semver precedence rule 11: a pre-release
// version sorts below the corresponding release; identifiers compare
// numerically when both numeric, lexically otherwise, and numeric
// identifiers sort below alphanumeric ones.
func comparePreRelease(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := comparePreIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(as), len(bs))
}

func comparePreIdentifier(a, b string) int {
	an, aNum := preIdentifierNumber(a)
	bn, bNum := preIdentifierNumber(b)
	switch {
	case aNum && bNum:
		return compareInt(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func preIdentifierNumber(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, false
	}
	return n, true
}
