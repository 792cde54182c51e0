package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Ensure FragmentStore implements the interface.
var _ driven.FragmentStore = (*FragmentStore)(nil)

// FragmentStore reads changelog fragments from a directory.
type FragmentStore struct {
	dir string
}

// NewFragmentStore creates a fragment store rooted at dir.
func NewFragmentStore(dir string) *FragmentStore {
	return &FragmentStore{dir: dir}
}

// Dir returns the fragment directory path.
func (s *FragmentStore) Dir() string {
	return s.dir
}

// List returns every *.md file except the reserved README, sorted by name.
func (s *FragmentStore) List(_ context.Context) ([]domain.Fragment, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var fragments []domain.Fragment
	for _, e := range entries {
		if !isFragment(e) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read fragment %s: %w", e.Name(), err)
		}
		fragments = append(fragments, domain.Fragment{Name: e.Name(), Raw: raw})
	}

	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Name < fragments[j].Name
	})
	return fragments, nil
}

// Delete removes the named fragments. Already-missing files are skipped.
func (s *FragmentStore) Delete(_ context.Context, names []string) error {
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Restore writes fragments back from their raw content.
func (s *FragmentStore) Restore(_ context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	for _, f := range fragments {
		if err := os.WriteFile(filepath.Join(s.dir, f.Name), f.Raw, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func isFragment(e os.DirEntry) bool {
	if e.IsDir() {
		return false
	}
	name := e.Name()
	return strings.HasSuffix(name, domain.FragmentExt) && name != domain.ReservedFragmentName
}
