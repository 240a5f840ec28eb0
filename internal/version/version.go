package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformedVersion is returned when a version string does not match the
// major.minor.patch or major.minor.patch+build grammar.
var ErrMalformedVersion = errors.New("malformed version")

// versionPattern matches the full version string. Partial matches are
// rejected so a trailing garbage suffix never truncates into a valid parse.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:\+(\d+))?$`)

// Version is a parsed semantic version with an optional build number.
// An absent build is not the same as build 0: "1.0.3" and "1.0.3+0" are
// distinct versions and compare as such.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	Build    int
	HasBuild bool
}

// Parse parses a version string of the form "1.0.4" or "1.0.4+5".
// Any other form fails with ErrMalformedVersion.
func Parse(text string) (Version, error) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, text)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, text)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, text)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, text)
	}

	v := Version{Major: major, Minor: minor, Patch: patch}

	if m[4] != "" {
		build, err := strconv.Atoi(m[4])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, text)
		}
		v.Build = build
		v.HasBuild = true
	}

	return v, nil
}

// MustParse parses a version string and panics on failure. Intended for
// static version literals in configuration defaults and tests.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String formats the version back into its textual form. The output
// round-trips through Parse for every valid input.
func (v Version) String() string {
	if v.HasBuild {
		return fmt.Sprintf("%d.%d.%d+%d", v.Major, v.Minor, v.Patch, v.Build)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b.
// (major, minor, patch) are compared lexicographically first. On a tie the
// build numbers decide, where an absent build sorts lower than any present
// build: "1.0.4" < "1.0.4+0" < "1.0.4+1".
func Compare(a, b Version) int {
	if c := compareInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := compareInt(a.Patch, b.Patch); c != 0 {
		return c
	}

	switch {
	case a.HasBuild && b.HasBuild:
		return compareInt(a.Build, b.Build)
	case b.HasBuild:
		return -1
	case a.HasBuild:
		return 1
	}

	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
