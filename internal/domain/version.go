package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Bump selects which component of a semantic version to increment.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"
)

// Version is a parsed MAJOR.MINOR.PATCH semantic version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a version string of the form "1.2.3". All three
// components must be non-negative integers.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, s)
	}

	var nums [3]int
	for i, p := range parts {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, s)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 ordering v against o by component.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return cmpInt(v.Major, o.Major)
	}
	if v.Minor != o.Minor {
		return cmpInt(v.Minor, o.Minor)
	}
	return cmpInt(v.Patch, o.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Bumped returns the version produced by applying the given bump kind.
// Unknown bump kinds behave as a patch bump.
func (v Version) Bumped(bump Bump) Version {
	switch bump {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// NextVersion computes the next version for a model line. An empty line
// always yields 1.0.0 regardless of the bump kind. Otherwise the latest
// record's version is parsed and bumped; an unparseable stored version
// surfaces ErrInvalidVersionFormat.
func NextVersion(line []*VersionRecord, bump Bump) (Version, error) {
	if len(line) == 0 {
		return Version{Major: 1}, nil
	}

	latest, err := ParseVersion(line[len(line)-1].Version)
	if err != nil {
		return Version{}, err
	}

	return latest.Bumped(bump), nil
}
