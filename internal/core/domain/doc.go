// Package domain defines the core release-management entities for shipnote.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Version: A semantic version triple and its successor function
//   - BumpKind: The ordered magnitude of a version increment
//   - Fragment: A pending change's release-note contribution
//   - ReleaseEntry: A dated block of the cumulative release note
//   - ReleaseTransition: The unit of work for one release run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
