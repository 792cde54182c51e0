package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

var (
	bumpKindFlag string
	bumpDryRun   bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Bump the manifest version",
	Long: `Rewrites the version declared in the manifest. Only the quoted value
changes; the rest of the file is left as it was. Nothing is committed.`,
	RunE: runBump,
}

func init() {
	bumpCmd.Flags().StringVar(&bumpKindFlag, "bump-type", "", "major, minor or patch (env BUMP_TYPE)")
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "print the new version without writing it")
	rootCmd.AddCommand(bumpCmd)
}

type bumpView struct {
	Previous string `json:"previous" yaml:"previous"`
	Version  string `json:"version" yaml:"version"`
	DryRun   bool   `json:"dry_run" yaml:"dry_run"`
}

func runBump(cmd *cobra.Command, _ []string) error {
	if releaseService == nil {
		return errors.New("release service not configured")
	}

	raw := envOr(bumpKindFlag, "BUMP_TYPE")
	if raw == "" {
		return fmt.Errorf("%w: --bump-type is required", domain.ErrInvalidInput)
	}
	bump, err := domain.ParseBumpKind(raw)
	if err != nil {
		return err
	}

	res, err := releaseService.BumpVersion(cmd.Context(), bump, bumpDryRun)
	if err != nil {
		return fmt.Errorf("bump version: %w", err)
	}

	view := bumpView{
		Previous: res.Previous.String(),
		Version:  res.Current.String(),
		DryRun:   res.DryRun,
	}
	return emit(cmd, view, func(p *printer) {
		p.line("Current version: %s", view.Previous)
		p.line("New version: %s", view.Version)
		if view.DryRun {
			p.skip("Dry run - no changes made")
		} else {
			p.ok("Updated %s", settings.ManifestFile)
		}
	})
}
