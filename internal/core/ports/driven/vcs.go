package driven

import (
	"context"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// VCS executes the version-control side of a release.
//
// TagExists must distinguish a missing tag from a failed probe: a missing
// tag is (false, nil), anything that prevented an answer is a non-nil error.
type VCS interface {
	// TagExists reports whether the release marker exists.
	TagExists(ctx context.Context, tag string) (bool, error)

	// ConfigureIdentity sets the author used for commits and tags.
	ConfigureIdentity(ctx context.Context, id domain.GitIdentity) error

	// Stage adds the given paths, including deletions beneath them.
	Stage(ctx context.Context, paths ...string) error

	// HasStagedChanges reports whether the index differs from HEAD.
	HasStagedChanges(ctx context.Context) (bool, error)

	// Commit records the staged changes.
	Commit(ctx context.Context, message string) error

	// CreateTag creates an annotated tag at HEAD.
	CreateTag(ctx context.Context, tag, message string) error

	// Push pushes the current branch to remote.
	Push(ctx context.Context, remote string) error

	// PushTag pushes a single tag to remote.
	PushTag(ctx context.Context, remote, tag string) error

	// LatestTag returns the highest semantic-version tag, or "" if none.
	LatestTag(ctx context.Context) (string, error)
}
