package memory

import (
	"context"
	"os"
	"path"

	"github.com/custodia-labs/shipnote/internal/adapters/driven/fs"
	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Ensure the stores implement the interfaces.
var (
	_ driven.FragmentStore = (*FragmentStore)(nil)
	_ driven.ManifestStore = (*ManifestStore)(nil)
	_ driven.NotesStore    = (*NotesStore)(nil)
)

// FragmentStore is an in-memory fragment directory for testing.
type FragmentStore struct {
	ws  *Workspace
	dir string
}

// NewFragmentStore creates a fragment store over dir in ws.
func NewFragmentStore(ws *Workspace, dir string) *FragmentStore {
	return &FragmentStore{ws: ws, dir: dir}
}

// Dir returns the fragment directory path.
func (s *FragmentStore) Dir() string { return s.dir }

// Add writes a fragment file.
func (s *FragmentStore) Add(name, content string) {
	s.ws.WriteFile(path.Join(s.dir, name), []byte(content))
}

// List returns the fragments in name order, excluding the reserved README.
func (s *FragmentStore) List(_ context.Context) ([]domain.Fragment, error) {
	var fragments []domain.Fragment
	for _, name := range s.ws.List(s.dir) {
		if path.Ext(name) != domain.FragmentExt || name == domain.ReservedFragmentName {
			continue
		}
		raw, _ := s.ws.ReadFile(path.Join(s.dir, name))
		fragments = append(fragments, domain.Fragment{Name: name, Raw: raw})
	}
	return fragments, nil
}

// Delete removes the named fragments.
func (s *FragmentStore) Delete(_ context.Context, names []string) error {
	for _, name := range names {
		s.ws.Remove(path.Join(s.dir, name))
	}
	return nil
}

// Restore writes fragments back.
func (s *FragmentStore) Restore(_ context.Context, fragments []domain.Fragment) error {
	for _, f := range fragments {
		s.ws.WriteFile(path.Join(s.dir, f.Name), f.Raw)
	}
	return nil
}

// ManifestStore is an in-memory manifest for testing. It uses the same
// declaration rules as the filesystem adapter.
type ManifestStore struct {
	ws   *Workspace
	path string
}

// NewManifestStore creates a manifest store at p in ws.
func NewManifestStore(ws *Workspace, p string) *ManifestStore {
	return &ManifestStore{ws: ws, path: p}
}

// Path returns the manifest path.
func (s *ManifestStore) Path() string { return s.path }

// ReadVersion returns the declared version.
func (s *ManifestStore) ReadVersion(ctx context.Context) (domain.Version, error) {
	data, err := s.ReadRaw(ctx)
	if err != nil {
		return domain.Version{}, err
	}
	return fs.ParseManifestVersion(data)
}

// WriteVersion replaces the declared version.
func (s *ManifestStore) WriteVersion(ctx context.Context, v domain.Version) error {
	data, err := s.ReadRaw(ctx)
	if err != nil {
		return err
	}
	updated, err := fs.ReplaceManifestVersion(data, v)
	if err != nil {
		return err
	}
	s.ws.WriteFile(s.path, updated)
	return nil
}

// ReadRaw returns the manifest bytes.
func (s *ManifestStore) ReadRaw(_ context.Context) ([]byte, error) {
	data, ok := s.ws.ReadFile(s.path)
	if !ok {
		return nil, &os.PathError{Op: "open", Path: s.path, Err: os.ErrNotExist}
	}
	return data, nil
}

// WriteRaw overwrites the manifest.
func (s *ManifestStore) WriteRaw(_ context.Context, data []byte) error {
	s.ws.WriteFile(s.path, data)
	return nil
}

// NotesStore is an in-memory release-note document for testing.
type NotesStore struct {
	ws   *Workspace
	path string
}

// NewNotesStore creates a notes store at p in ws.
func NewNotesStore(ws *Workspace, p string) *NotesStore {
	return &NotesStore{ws: ws, path: p}
}

// Path returns the document path.
func (s *NotesStore) Path() string { return s.path }

// Read returns the document, or nil if absent.
func (s *NotesStore) Read(_ context.Context) (*string, error) {
	data, ok := s.ws.ReadFile(s.path)
	if !ok {
		return nil, nil
	}
	content := string(data)
	return &content, nil
}

// Write replaces the document.
func (s *NotesStore) Write(_ context.Context, content string) error {
	s.ws.WriteFile(s.path, []byte(content))
	return nil
}

// Remove deletes the document.
func (s *NotesStore) Remove(_ context.Context) error {
	s.ws.Remove(s.path)
	return nil
}
