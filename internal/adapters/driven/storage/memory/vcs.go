package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Ensure VCS implements the interface.
var _ driven.VCS = (*VCS)(nil)

// VCS operations that can be made to fail with FailOn.
const (
	OpTagExists = "tag_exists"
	OpIdentity  = "identity"
	OpStage     = "stage"
	OpDiff      = "diff"
	OpCommit    = "commit"
	OpTag       = "tag"
	OpPush      = "push"
	OpPushTag   = "push_tag"
	OpLatestTag = "latest_tag"
)

// VCS is an in-memory version control system over a Workspace, for testing.
// It tracks a HEAD tree, an index, tags and what was pushed.
type VCS struct {
	mu       sync.Mutex
	ws       *Workspace
	head     map[string][]byte
	index    map[string][]byte
	tags     map[string]string
	commits  []string
	identity domain.GitIdentity
	pushed   []string
	failures map[string]error
}

// NewVCS creates a repository whose HEAD is the current workspace content.
func NewVCS(ws *Workspace) *VCS {
	head := ws.Snapshot()
	return &VCS{
		ws:       ws,
		head:     head,
		index:    cloneTree(head),
		tags:     make(map[string]string),
		failures: make(map[string]error),
	}
}

// FailOn makes op return err until cleared with a nil err.
func (v *VCS) FailOn(op string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err == nil {
		delete(v.failures, op)
		return
	}
	v.failures[op] = err
}

// AddTag creates a tag directly, as if it had been fetched.
func (v *VCS) AddTag(tag string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tags[tag] = "Release " + tag
}

// Tags returns the tag names and their messages.
func (v *VCS) Tags() map[string]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]string, len(v.tags))
	for k, msg := range v.tags {
		out[k] = msg
	}
	return out
}

// Commits returns the commit messages in order.
func (v *VCS) Commits() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.commits...)
}

// Pushed returns what was pushed, as "remote" or "remote tag" entries.
func (v *VCS) Pushed() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.pushed...)
}

// Identity returns the configured commit identity.
func (v *VCS) Identity() domain.GitIdentity {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.identity
}

// Head returns the committed content of path.
func (v *VCS) Head(path string) ([]byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	data, ok := v.head[path]
	return data, ok
}

// TagExists reports whether tag exists.
func (v *VCS) TagExists(_ context.Context, tag string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpTagExists]; err != nil {
		return false, err
	}
	_, ok := v.tags[tag]
	return ok, nil
}

// ConfigureIdentity records the identity.
func (v *VCS) ConfigureIdentity(_ context.Context, id domain.GitIdentity) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpIdentity]; err != nil {
		return err
	}
	v.identity = id
	return nil
}

// Stage copies the workspace state of paths into the index, including
// deletions beneath them.
func (v *VCS) Stage(_ context.Context, paths ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpStage]; err != nil {
		return err
	}

	for p := range v.index {
		if underAny(p, paths) {
			delete(v.index, p)
		}
	}
	for p, data := range v.ws.Snapshot(paths...) {
		v.index[p] = data
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (v *VCS) HasStagedChanges(_ context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpDiff]; err != nil {
		return false, err
	}
	return !sameTree(v.head, v.index), nil
}

// Commit moves HEAD to the index.
func (v *VCS) Commit(_ context.Context, message string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpCommit]; err != nil {
		return err
	}
	if sameTree(v.head, v.index) {
		return errors.New("nothing to commit")
	}
	v.head = cloneTree(v.index)
	v.commits = append(v.commits, message)
	return nil
}

// CreateTag creates an annotated tag.
func (v *VCS) CreateTag(_ context.Context, tag, message string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpTag]; err != nil {
		return err
	}
	if _, ok := v.tags[tag]; ok {
		return fmt.Errorf("tag %s already exists", tag)
	}
	v.tags[tag] = message
	return nil
}

// Push records a branch push.
func (v *VCS) Push(_ context.Context, remote string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpPush]; err != nil {
		return err
	}
	v.pushed = append(v.pushed, remote)
	return nil
}

// PushTag records a tag push.
func (v *VCS) PushTag(_ context.Context, remote, tag string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpPushTag]; err != nil {
		return err
	}
	v.pushed = append(v.pushed, remote+" "+tag)
	return nil
}

// LatestTag returns the highest vMAJOR.MINOR.PATCH tag.
func (v *VCS) LatestTag(_ context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.failures[OpLatestTag]; err != nil {
		return "", err
	}

	var (
		latest string
		best   domain.Version
	)
	for tag := range v.tags {
		ver, err := domain.ParseVersion(strings.TrimPrefix(tag, "v"))
		if err != nil {
			continue
		}
		if latest == "" || versionLess(best, ver) {
			latest, best = tag, ver
		}
	}
	return latest, nil
}

func versionLess(a, b domain.Version) bool {
	if a.Major != b.Major {
		return a.Major < b.Major
	}
	if a.Minor != b.Minor {
		return a.Minor < b.Minor
	}
	return a.Patch < b.Patch
}

func cloneTree(t map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(t))
	for k, data := range t {
		out[k] = append([]byte(nil), data...)
	}
	return out
}

func sameTree(a, b map[string][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for k, data := range a {
		other, ok := b[k]
		if !ok || !bytes.Equal(data, other) {
			return false
		}
	}
	return true
}
