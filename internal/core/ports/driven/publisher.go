package driven

import (
	"context"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// Publisher creates hosted releases (e.g. on GitHub).
type Publisher interface {
	// CreateRelease publishes a release and returns its URL.
	// Returns an error wrapping domain.ErrAlreadyExists if the hosting
	// service already has a release for the tag.
	CreateRelease(ctx context.Context, release domain.HostedRelease) (string, error)
}
