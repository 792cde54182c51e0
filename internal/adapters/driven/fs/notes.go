package fs

import (
	"context"
	"errors"
	"os"

	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Ensure NotesStore implements the interface.
var _ driven.NotesStore = (*NotesStore)(nil)

// NotesStore keeps the release-note document (CHANGELOG.md) on disk.
type NotesStore struct {
	path string
}

// NewNotesStore creates a notes store for the file at path.
func NewNotesStore(path string) *NotesStore {
	return &NotesStore{path: path}
}

// Path returns the document path.
func (s *NotesStore) Path() string {
	return s.path
}

// Read returns the document, or nil if the file does not exist.
func (s *NotesStore) Read(_ context.Context) (*string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	content := string(data)
	return &content, nil
}

// Write replaces the document.
func (s *NotesStore) Write(_ context.Context, content string) error {
	return writeFilePreservingMode(s.path, []byte(content))
}

// Remove deletes the document if present.
func (s *NotesStore) Remove(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
