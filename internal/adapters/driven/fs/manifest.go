package fs

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

var (
	// versionDecl finds the first top-level version declaration.
	versionDecl = regexp.MustCompile(`(?m)^version\s*=\s*"([^"]*)"`)

	// versionValue captures the parts kept around the replaced value.
	versionValue = regexp.MustCompile(`(?m)^(version\s*=\s*")[^"]+(")`)
)

// ManifestStore reads and rewrites `version = "X.Y.Z"` in a manifest file
// such as Cargo.toml. Everything outside the quoted value is preserved.
type ManifestStore struct {
	path string
}

// NewManifestStore creates a manifest store for the file at path.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// Path returns the manifest path.
func (s *ManifestStore) Path() string {
	return s.path
}

// ReadVersion returns the declared version.
func (s *ManifestStore) ReadVersion(_ context.Context) (domain.Version, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Version{}, err
	}
	return ParseManifestVersion(data)
}

// WriteVersion replaces the declared version in place.
func (s *ManifestStore) WriteVersion(_ context.Context, v domain.Version) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	updated, err := ReplaceManifestVersion(data, v)
	if err != nil {
		return err
	}
	return writeFilePreservingMode(s.path, updated)
}

// ReadRaw returns the manifest bytes.
func (s *ManifestStore) ReadRaw(_ context.Context) ([]byte, error) {
	return os.ReadFile(s.path)
}

// WriteRaw overwrites the manifest.
func (s *ManifestStore) WriteRaw(_ context.Context, data []byte) error {
	return writeFilePreservingMode(s.path, data)
}

// ParseManifestVersion extracts the first version declaration.
func ParseManifestVersion(data []byte) (domain.Version, error) {
	m := versionDecl.FindSubmatch(data)
	if m == nil {
		return domain.Version{}, domain.ErrVersionNotFound
	}
	return domain.ParseVersion(string(m[1]))
}

// ReplaceManifestVersion rewrites the first version declaration to v.
func ReplaceManifestVersion(data []byte, v domain.Version) ([]byte, error) {
	loc := versionValue.FindSubmatchIndex(data)
	if loc == nil {
		return nil, domain.ErrVersionNotFound
	}

	// loc[3] ends the prefix group, loc[4] starts the closing quote.
	out := make([]byte, 0, len(data)+8)
	out = append(out, data[:loc[3]]...)
	out = append(out, v.String()...)
	out = append(out, data[loc[4]:]...)
	return out, nil
}

func writeFilePreservingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
