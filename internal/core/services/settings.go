package services

import (
	"fmt"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Config keys for release settings.
const (
	keyFragmentDir   = "changelog.dir"
	keyChangelogFile = "changelog.file"
	keyManifestFile  = "manifest.path"
	keyDefaultBump   = "release.default_bump"
	keyRemote        = "release.remote"
	keyRepository    = "github.repository"
	keyGitUserName   = "git.user_name"
	keyGitUserEmail  = "git.user_email"
)

// LoadSettings resolves release settings from defaults overlaid with the
// config store. A nil store yields the defaults.
func LoadSettings(configStore driven.ConfigStore) (domain.ReleaseSettings, error) {
	settings := domain.DefaultReleaseSettings()
	if configStore == nil {
		return settings, nil
	}

	settings.FragmentDir = getString(configStore, keyFragmentDir, settings.FragmentDir)
	settings.ChangelogFile = getString(configStore, keyChangelogFile, settings.ChangelogFile)
	settings.ManifestFile = getString(configStore, keyManifestFile, settings.ManifestFile)
	settings.Remote = getString(configStore, keyRemote, settings.Remote)
	settings.Repository = configStore.GetString(keyRepository)
	settings.Identity = domain.GitIdentity{
		Name:  configStore.GetString(keyGitUserName),
		Email: configStore.GetString(keyGitUserEmail),
	}

	if raw := configStore.GetString(keyDefaultBump); raw != "" {
		bump, err := domain.ParseBumpKind(raw)
		if err != nil {
			return settings, fmt.Errorf("%s in %s: %w", keyDefaultBump, configStore.Path(), err)
		}
		settings.DefaultBump = bump
	}

	return settings, nil
}

// getString returns a config value or the default if empty.
func getString(configStore driven.ConfigStore, key, def string) string {
	if v := configStore.GetString(key); v != "" {
		return v
	}
	return def
}
