package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultReleaseSettings(t *testing.T) {
	s := DefaultReleaseSettings()

	assert.Equal(t, "changelog.d", s.FragmentDir)
	assert.Equal(t, "CHANGELOG.md", s.ChangelogFile)
	assert.Equal(t, "Cargo.toml", s.ManifestFile)
	assert.Equal(t, BumpPatch, s.DefaultBump)
	assert.Equal(t, "origin", s.Remote)
	assert.False(t, s.Identity.IsConfigured())
}

func TestGitIdentity_IsConfigured(t *testing.T) {
	assert.False(t, GitIdentity{Name: "bot"}.IsConfigured())
	assert.True(t, GitIdentity{Name: "bot", Email: "bot@example.com"}.IsConfigured())
}

func TestReleaseState_IsTerminal(t *testing.T) {
	assert.False(t, StatePending.IsTerminal())
	assert.True(t, StateAlreadyReleased.IsTerminal())
	assert.True(t, StateNoChanges.IsTerminal())
	assert.True(t, StateCommitted.IsTerminal())
}

func TestReleaseEntry_Heading(t *testing.T) {
	e := ReleaseEntry{
		Version: Version{Major: 2, Minor: 1, Patch: 0},
		Date:    time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC),
	}
	assert.Equal(t, "## [2.1.0] - 2025-03-09", e.Heading())
}

func TestSortFragments_LeavesInputUntouched(t *testing.T) {
	in := []Fragment{{Name: "b.md"}, {Name: "a.md"}, {Name: "c.md"}}
	sorted := SortFragments(in)

	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, FragmentNames(sorted))
	assert.Equal(t, []string{"b.md", "a.md", "c.md"}, FragmentNames(in))
}
