// Command shipnote manages changelog fragments and semantic-version releases.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/shipnote/internal/adapters/driven/config/file"
	"github.com/custodia-labs/shipnote/internal/adapters/driven/fs"
	"github.com/custodia-labs/shipnote/internal/adapters/driven/git"
	"github.com/custodia-labs/shipnote/internal/adapters/driven/github"
	"github.com/custodia-labs/shipnote/internal/adapters/driving/cli"
	"github.com/custodia-labs/shipnote/internal/core/ports/driving"
	"github.com/custodia-labs/shipnote/internal/core/services"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultGitHubAPI = "https://api.github.com"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetWiring(wire)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// wire builds the adapters for the project rooted at g.Dir.
func wire(_ context.Context, g cli.Globals) (*cli.Services, error) {
	// git resolves relative paths against -C, so everything is made absolute.
	dir, err := filepath.Abs(g.Dir)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(dir, g.ConfigPath)
	if err != nil {
		return nil, err
	}

	settings, err := services.LoadSettings(configStore)
	if err != nil {
		return nil, err
	}

	release := services.NewReleaseService(
		fs.NewFragmentStore(resolve(dir, settings.FragmentDir)),
		fs.NewManifestStore(resolve(dir, settings.ManifestFile)),
		fs.NewNotesStore(resolve(dir, settings.ChangelogFile)),
		git.NewClient(dir),
		settings,
	)

	notesPath := resolve(dir, settings.ChangelogFile)
	publish := func(ctx context.Context, repository string) (driving.PublishService, error) {
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			token = os.Getenv("GH_TOKEN")
		}
		if token == "" {
			return nil, errors.New("GITHUB_TOKEN or GH_TOKEN must be set")
		}

		publisher, err := github.NewPublisher(ctx, token, repository)
		if err != nil {
			return nil, err
		}
		if api := os.Getenv("GITHUB_API_URL"); api != "" && api != defaultGitHubAPI {
			if err := publisher.SetBaseURL(api); err != nil {
				return nil, err
			}
		}
		return services.NewPublishService(fs.NewNotesStore(notesPath), publisher), nil
	}

	return &cli.Services{
		Settings: settings,
		Release:  release,
		Publish:  publish,
	}, nil
}

// resolve joins a configured path onto the project root unless it is
// already absolute.
func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
