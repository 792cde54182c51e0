// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FragmentStore: Pending changelog fragments
//   - ManifestStore: The version declaration
//   - NotesStore: The cumulative release-note document
//   - VCS: Tag probing, staging, commit, tag and push
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - Publisher: Hosted release creation. Only the publish command needs it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
