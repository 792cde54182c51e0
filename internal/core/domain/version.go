package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Version is a semantic version triple. It is a value type; operations
// return a fresh Version rather than modifying the receiver.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses the canonical "MAJOR.MINOR.PATCH" form.
// Prefixes, pre-release and build suffixes, leading zeros and components
// that could not be bumped without overflow are rejected.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	var nums [3]int
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
		}
		if n == math.MaxInt {
			return Version{}, fmt.Errorf("%w: %q: component too large", ErrInvalidVersion, s)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the canonical "MAJOR.MINOR.PATCH" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the release marker name for this version.
func (v Version) Tag() string {
	return "v" + v.String()
}

// Next returns the version that follows v for the given bump kind.
// It panics on an unknown bump kind; callers validate with ParseBumpKind.
func (v Version) Next(bump BumpKind) Version {
	switch bump {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		panic(fmt.Sprintf("domain: invalid bump kind %q", string(bump)))
	}
}
