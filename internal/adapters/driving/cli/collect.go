package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fold changelog fragments into the changelog",
	Long: `Writes one changelog entry for the current manifest version from the
pending fragments, then removes them. The version is not changed.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

type collectView struct {
	Version   string `json:"version" yaml:"version"`
	Collected bool   `json:"collected" yaml:"collected"`
	Changelog string `json:"changelog" yaml:"changelog"`
	Entry     string `json:"entry,omitempty" yaml:"entry,omitempty"`
}

func runCollect(cmd *cobra.Command, _ []string) error {
	if releaseService == nil {
		return errors.New("release service not configured")
	}

	view := collectView{Changelog: settings.ChangelogFile}

	entry, err := releaseService.CollectChangelog(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrNothingToRelease):
	case err != nil:
		return fmt.Errorf("collect changelog: %w", err)
	default:
		view.Version = entry.Version.String()
		view.Collected = true
		view.Entry = entry.Body
	}

	return emit(cmd, view, func(p *printer) {
		if !view.Collected {
			p.skip("No changelog fragments found")
			return
		}
		p.ok("Updated %s with version %s", view.Changelog, view.Version)
	})
}
