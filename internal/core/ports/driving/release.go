package driving

import (
	"context"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// ReleaseRequest configures one release run.
type ReleaseRequest struct {
	// Bump forces the bump kind. When nil it is resolved from fragments.
	Bump *domain.BumpKind

	// DefaultBump overrides the configured default used during resolution.
	DefaultBump *domain.BumpKind

	// Description is appended to the commit and tag messages.
	Description string

	// DryRun computes everything but mutates nothing.
	DryRun bool
}

// BumpResult reports a manifest-only version bump.
type BumpResult struct {
	Previous domain.Version
	Current  domain.Version
	DryRun   bool
}

// ReleaseService drives the release state machine and its read-only views.
type ReleaseService interface {
	// DetermineBump resolves the bump kind from pending fragments.
	// A nil def uses the configured default.
	DetermineBump(ctx context.Context, def *domain.BumpKind) (*domain.BumpDecision, error)

	// BumpVersion rewrites the manifest version only.
	BumpVersion(ctx context.Context, bump domain.BumpKind, dryRun bool) (*BumpResult, error)

	// CollectChangelog folds pending fragments into the release-note
	// document under the current manifest version.
	// Returns domain.ErrNothingToRelease when there is no content.
	CollectChangelog(ctx context.Context) (*domain.ReleaseEntry, error)

	// Release runs the full transition and returns its terminal state.
	Release(ctx context.Context, req ReleaseRequest) (*domain.ReleaseTransition, error)

	// Status reports what a release would do without doing it.
	Status(ctx context.Context) (*domain.ReleaseStatus, error)
}

// PublishService creates hosted releases from the release-note document.
type PublishService interface {
	// Publish creates the hosted release for version.
	// An existing release is reported, not returned as an error.
	Publish(ctx context.Context, version domain.Version) (*domain.PublishResult, error)
}
