package domain

// ReleaseSettings holds the resolved configuration for a release run.
type ReleaseSettings struct {
	// FragmentDir is the directory holding pending fragments.
	FragmentDir string

	// ChangelogFile is the cumulative release-note document.
	ChangelogFile string

	// ManifestFile holds the version declaration.
	ManifestFile string

	// DefaultBump applies when no fragment declares a bump.
	DefaultBump BumpKind

	// Remote is the git remote pushed to.
	Remote string

	// Repository is the "owner/name" slug for hosted releases.
	Repository string

	// Identity is applied to the repository before committing when set.
	Identity GitIdentity
}

// GitIdentity is the author recorded on release commits and tags.
type GitIdentity struct {
	Name  string
	Email string
}

// IsConfigured returns true when both name and email are set.
func (i GitIdentity) IsConfigured() bool {
	return i.Name != "" && i.Email != ""
}

// DefaultReleaseSettings returns the settings used when nothing is configured.
func DefaultReleaseSettings() ReleaseSettings {
	return ReleaseSettings{
		FragmentDir:   "changelog.d",
		ChangelogFile: "CHANGELOG.md",
		ManifestFile:  "Cargo.toml",
		DefaultBump:   BumpPatch,
		Remote:        "origin",
	}
}
