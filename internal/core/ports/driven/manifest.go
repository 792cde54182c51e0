package driven

import (
	"context"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// ManifestStore reads and rewrites the version declaration of the project
// manifest. Implementations preserve every byte around the declaration.
type ManifestStore interface {
	// ReadVersion returns the declared version.
	// Returns domain.ErrVersionNotFound if no declaration is present.
	ReadVersion(ctx context.Context) (domain.Version, error)

	// WriteVersion replaces the declared version in place.
	WriteVersion(ctx context.Context, v domain.Version) error

	// ReadRaw returns the manifest bytes for snapshotting.
	ReadRaw(ctx context.Context) ([]byte, error)

	// WriteRaw overwrites the manifest with previously snapshotted bytes.
	WriteRaw(ctx context.Context, data []byte) error

	// Path returns the manifest path.
	Path() string
}
