// Package version parses and orders EKS addon and platform version strings.
//
// Addon versions follow the form vMAJOR.MINOR.PATCH-eksbuild.N. The build
// suffix is optional and defaults to build 0, so a bare version sorts below
// the same version with any published build. This ordering is intentional
// and differs from SemVer, where a hyphenated suffix would mark a
// prerelease and sort first.
//
// Platform versions are the short control-plane versions ("1.28", "1.33")
// and are handled by the helpers at the bottom of this file.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	utilversion "k8s.io/apimachinery/pkg/util/version"
)

// ErrInvalidVersion indicates a string that does not match the addon
// version grammar.
var ErrInvalidVersion = errors.New("invalid addon version")

// tokenPattern accepts vMAJOR.MINOR.PATCH with an optional -<marker>.<n>
// build suffix. AWS publishes eksbuild markers; other vendors use their own.
var tokenPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)(?:-([A-Za-z][A-Za-z0-9]*)\.(\d+))?$`)

// Token is a parsed addon version, totally ordered by
// (Major, Minor, Patch, Build) with each field compared numerically.
// Tokens are immutable once parsed.
type Token struct {
	Major int
	Minor int
	Patch int
	Build int

	// marker preserves the build suffix word ("eksbuild") for round-trips.
	// Ordering and equality never consult it.
	marker string
}

// Parse parses an addon version string into a Token. The error wraps
// ErrInvalidVersion; callers surface it as an unknown verdict rather than
// failing the run.
func Parse(raw string) (Token, error) {
	m := tokenPattern.FindStringSubmatch(raw)
	if m == nil {
		return Token{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
	}

	tok := Token{Major: major, Minor: minor, Patch: patch}
	if m[4] != "" {
		build, err := strconv.Atoi(m[5])
		if err != nil {
			return Token{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
		}
		tok.marker = m[4]
		tok.Build = build
	}

	return tok, nil
}

// MustParse parses a version string and panics on failure. For tests and
// static tables only.
func MustParse(raw string) Token {
	tok, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return tok
}

// Compare returns -1 when t orders before other, +1 when after, 0 when the
// two tokens denote the same version. Build markers are ignored; only the
// build number participates in ordering.
func (t Token) Compare(other Token) int {
	for _, d := range [4]int{
		t.Major - other.Major,
		t.Minor - other.Minor,
		t.Patch - other.Patch,
		t.Build - other.Build,
	} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

// LessThan reports whether t orders strictly before other.
func (t Token) LessThan(other Token) bool { return t.Compare(other) < 0 }

// GreaterThan reports whether t orders strictly after other.
func (t Token) GreaterThan(other Token) bool { return t.Compare(other) > 0 }

// InRange reports whether t lies in [minTok, maxTok], inclusive on both ends.
func (t Token) InRange(minTok, maxTok Token) bool {
	return !t.LessThan(minTok) && !t.GreaterThan(maxTok)
}

// String renders the canonical form. Versions parsed without a build suffix
// render bare; parsed suffixes round-trip with their original marker.
func (t Token) String() string {
	if t.marker == "" && t.Build == 0 {
		return fmt.Sprintf("v%d.%d.%d", t.Major, t.Minor, t.Patch)
	}
	marker := t.marker
	if marker == "" {
		marker = "eksbuild"
	}
	return fmt.Sprintf("v%d.%d.%d-%s.%d", t.Major, t.Minor, t.Patch, marker, t.Build)
}

// ParsePlatform validates a control-plane version string such as "1.28".
func ParsePlatform(raw string) (*utilversion.Version, error) {
	v, err := utilversion.ParseGeneric(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid platform version %q: %w", raw, err)
	}
	return v, nil
}

// MinorSkew returns the minor-version distance from current to target.
// Positive means target is newer; negative means a downgrade.
func MinorSkew(current, target string) (int, error) {
	cur, err := ParsePlatform(current)
	if err != nil {
		return 0, err
	}
	tgt, err := ParsePlatform(target)
	if err != nil {
		return 0, err
	}
	if cur.Major() != tgt.Major() {
		return 0, fmt.Errorf("platform major version change %s -> %s is not supported", current, target)
	}
	return int(tgt.Minor()) - int(cur.Minor()), nil
}
