package driven

import (
	"context"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// FragmentStore lists and removes pending changelog fragments.
type FragmentStore interface {
	// List returns every fragment ordered by name. The reserved
	// documentation file is excluded. A missing directory is an empty set.
	// Returned fragments carry only Name and Raw; parsing is the core's job.
	List(ctx context.Context) ([]domain.Fragment, error)

	// Delete removes the named fragments.
	Delete(ctx context.Context, names []string) error

	// Restore writes fragments back from their Raw content.
	Restore(ctx context.Context, fragments []domain.Fragment) error

	// Dir returns the fragment directory path.
	Dir() string
}
