package domain

import "fmt"

// BumpKind is the magnitude of a semantic version increment.
// Kinds are totally ordered: patch < minor < major.
type BumpKind string

// Available bump kinds.
const (
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

// ParseBumpKind matches s exactly against the known bump kinds.
func ParseBumpKind(s string) (BumpKind, error) {
	b := BumpKind(s)
	if !b.IsValid() {
		return "", fmt.Errorf("%w: %q (want major, minor or patch)", ErrInvalidBump, s)
	}
	return b, nil
}

// IsValid returns true if the bump kind is recognised.
func (b BumpKind) IsValid() bool {
	return b.rank() > 0
}

// String returns the string representation.
func (b BumpKind) String() string {
	return string(b)
}

// Less reports whether b is less significant than other.
func (b BumpKind) Less(other BumpKind) bool {
	return b.rank() < other.rank()
}

func (b BumpKind) rank() int {
	switch b {
	case BumpPatch:
		return 1
	case BumpMinor:
		return 2
	case BumpMajor:
		return 3
	default:
		return 0
	}
}

// MaxBump returns the more significant of a and b.
func MaxBump(a, b BumpKind) BumpKind {
	if a.Less(b) {
		return b
	}
	return a
}

// AllBumpKinds returns every bump kind in ascending order.
func AllBumpKinds() []BumpKind {
	return []BumpKind{BumpPatch, BumpMinor, BumpMajor}
}

// FragmentBump records what a single fragment declared.
// Declared is nil when the fragment carries no usable bump header.
type FragmentBump struct {
	Name     string
	Declared *BumpKind
}

// BumpDecision is the outcome of reducing a fragment set to one bump kind.
type BumpDecision struct {
	Bump          BumpKind
	FragmentCount int
	// Declarations lists each fragment in name order, for diagnostics only.
	Declarations []FragmentBump
}
