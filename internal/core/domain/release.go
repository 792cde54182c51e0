package domain

import "time"

// DateLayout is the date format used in release-note headings.
const DateLayout = "2006-01-02"

// ReleaseEntry is one dated block of the release-note document.
type ReleaseEntry struct {
	Version Version
	Date    time.Time
	Body    string
}

// Heading returns the Markdown heading line that opens the entry.
func (e ReleaseEntry) Heading() string {
	return "## [" + e.Version.String() + "] - " + e.Date.UTC().Format(DateLayout)
}

// ReleaseState is the position of a release run in its state machine.
type ReleaseState string

// Release states. Every state other than Pending is terminal and
// successful.
const (
	StatePending         ReleaseState = "pending"
	StateAlreadyReleased ReleaseState = "already_released"
	StateNoChanges       ReleaseState = "no_changes"
	StateCommitted       ReleaseState = "committed"
)

// IsTerminal returns true once the run has reached an outcome.
func (s ReleaseState) IsTerminal() bool {
	switch s {
	case StateAlreadyReleased, StateNoChanges, StateCommitted:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ReleaseState) String() string {
	return string(s)
}

// Description returns a human-readable description of the state.
func (s ReleaseState) Description() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateAlreadyReleased:
		return "Already released"
	case StateNoChanges:
		return "No changes to commit"
	case StateCommitted:
		return "Committed, tagged and pushed"
	default:
		return "Unknown"
	}
}

// ReleaseTransition is the unit of work for a single release run.
// It is never persisted.
type ReleaseTransition struct {
	ID                string       `json:"id" yaml:"id"`
	Current           Version      `json:"-" yaml:"-"`
	Bump              BumpKind     `json:"bump" yaml:"bump"`
	Target            Version      `json:"-" yaml:"-"`
	Fragments         []string     `json:"fragments" yaml:"fragments"`
	EntryWritten      bool         `json:"entry_written" yaml:"entry_written"`
	FragmentsConsumed bool         `json:"fragments_consumed" yaml:"fragments_consumed"`
	State             ReleaseState `json:"state" yaml:"state"`
	DryRun            bool         `json:"dry_run" yaml:"dry_run"`
}

// HostedRelease is the payload for a published release on a hosting service.
type HostedRelease struct {
	Tag   string
	Title string
	Body  string
}

// PublishResult reports the outcome of publishing a hosted release.
type PublishResult struct {
	Tag            string `json:"tag" yaml:"tag"`
	Created        bool   `json:"created" yaml:"created"`
	AlreadyExisted bool   `json:"already_existed" yaml:"already_existed"`
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ReleaseStatus is a read-only snapshot of what a release would do now.
type ReleaseStatus struct {
	Current       Version
	Decision      BumpDecision
	Target        Version
	TargetTagged  bool
	LatestTag     string
	ChangelogPath string
}
