// Package fs provides filesystem implementations of the release stores.
//
// Adapters:
//   - FragmentStore: changelog.d/*.md fragments
//   - ManifestStore: the `version = "X.Y.Z"` line of a manifest
//   - NotesStore: the cumulative CHANGELOG.md document
package fs
