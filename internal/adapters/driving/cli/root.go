package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driving"
	"github.com/custodia-labs/shipnote/internal/logger"
)

// Globals are the persistent flags shared by every command.
type Globals struct {
	Dir        string
	ConfigPath string
	Verbose    bool
	Output     string
}

// PublishServiceFactory builds a publish service for a repository
// ("owner/name"). Publishing needs credentials that only the publish
// command asks for, so the service is built on demand.
type PublishServiceFactory func(ctx context.Context, repository string) (driving.PublishService, error)

// Services are the driving ports the commands run against.
type Services struct {
	Settings domain.ReleaseSettings
	Release  driving.ReleaseService
	Publish  PublishServiceFactory
}

// WireFunc builds Services once the global flags are parsed.
type WireFunc func(ctx context.Context, g Globals) (*Services, error)

var (
	version = "dev"

	globals = Globals{Dir: ".", Output: string(formatText)}
	wiring  WireFunc

	settings        = domain.DefaultReleaseSettings()
	releaseService  driving.ReleaseService
	publishServices PublishServiceFactory
)

var rootCmd = &cobra.Command{
	Use:   "shipnote",
	Short: "Changelog fragments and semantic-version releases",
	Long: `shipnote turns changelog fragments into release-note entries and
semantic-version releases.

Contributors drop Markdown fragments into the fragment directory, optionally
declaring a bump kind in a front-matter block:

  ---
  bump: minor
  ---

  ### Added
  - Something new

A release resolves the highest declared bump, writes the new version to the
manifest, folds the fragments into the changelog, then commits, tags and
pushes. Re-running a release whose tag already exists does nothing.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globals.Verbose, "verbose", "v", false, "log each step to stderr")
	flags.StringVar(&globals.ConfigPath, "config", "", "config file (default <dir>/.shipnote.toml)")
	flags.StringVarP(&globals.Dir, "dir", "C", ".", "project root")
	flags.StringVarP(&globals.Output, "output", "o", string(formatText), "output format: text, json or yaml")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetWiring installs the function that builds services from global flags.
func SetWiring(fn WireFunc) {
	wiring = fn
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup applies the global flags and wires services.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globals.Verbose)

	if _, err := parseFormat(globals.Output); err != nil {
		return err
	}
	if wiring == nil || cmd == versionCmd {
		return nil
	}

	svc, err := wiring(cmd.Context(), globals)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	settings = svc.Settings
	releaseService = svc.Release
	publishServices = svc.Publish
	return nil
}
