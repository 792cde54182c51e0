package memory

import (
	"sort"
	"strings"
	"sync"
)

// Workspace is an in-memory project tree keyed by slash-separated path.
// The stores and VCS in this package share one Workspace the way the
// filesystem adapters share a working directory.
type Workspace struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{files: make(map[string][]byte)}
}

// WriteFile stores a copy of data at path.
func (w *Workspace) WriteFile(path string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = append([]byte(nil), data...)
}

// ReadFile returns a copy of the file at path.
func (w *Workspace) ReadFile(path string) ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Remove deletes the file at path.
func (w *Workspace) Remove(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// List returns the paths directly inside dir, sorted.
func (w *Workspace) List(dir string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	prefix := strings.TrimSuffix(dir, "/") + "/"
	var names []string
	for p := range w.files {
		rest, ok := strings.CutPrefix(p, prefix)
		if ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of every file under any of roots. A root matches
// itself and everything beneath it. No roots means the whole tree.
func (w *Workspace) Snapshot(roots ...string) map[string][]byte {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string][]byte)
	for p, data := range w.files {
		if len(roots) == 0 || underAny(p, roots) {
			out[p] = append([]byte(nil), data...)
		}
	}
	return out
}

func underAny(path string, roots []string) bool {
	for _, r := range roots {
		r = strings.TrimSuffix(r, "/")
		if path == r || strings.HasPrefix(path, r+"/") {
			return true
		}
	}
	return false
}
