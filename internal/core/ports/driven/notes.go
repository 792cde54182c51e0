package driven

import "context"

// NotesStore persists the cumulative release-note document.
type NotesStore interface {
	// Read returns the document, or nil if it does not exist yet.
	Read(ctx context.Context) (*string, error)

	// Write replaces the document, creating it if needed.
	Write(ctx context.Context, content string) error

	// Remove deletes the document. Removing a missing document is not an error.
	Remove(ctx context.Context) error

	// Path returns the document path.
	Path() string
}
