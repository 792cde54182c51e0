package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the next release would do",
	Long: `Prints the current version, the pending fragments and their declared bumps,
the next version, and whether its tag already exists. Nothing is changed.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusView struct {
	Version       string            `json:"version" yaml:"version"`
	NextVersion   string            `json:"next_version" yaml:"next_version"`
	BumpType      string            `json:"bump_type" yaml:"bump_type"`
	Released      bool              `json:"released" yaml:"released"`
	LatestTag     string            `json:"latest_tag" yaml:"latest_tag"`
	Changelog     string            `json:"changelog" yaml:"changelog"`
	FragmentCount int               `json:"fragment_count" yaml:"fragment_count"`
	Fragments     []declarationView `json:"fragments" yaml:"fragments"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if releaseService == nil {
		return errors.New("release service not configured")
	}

	st, err := releaseService.Status(cmd.Context())
	if err != nil {
		return withHint("status", err)
	}

	view := statusView{
		Version:       st.Current.String(),
		NextVersion:   st.Target.String(),
		BumpType:      st.Decision.Bump.String(),
		Released:      st.TargetTagged,
		LatestTag:     st.LatestTag,
		Changelog:     st.ChangelogPath,
		FragmentCount: st.Decision.FragmentCount,
		Fragments:     []declarationView{},
	}
	for _, d := range st.Decision.Declarations {
		dv := declarationView{Fragment: d.Name}
		if d.Declared != nil {
			dv.Bump = d.Declared.String()
		}
		view.Fragments = append(view.Fragments, dv)
	}

	return emit(cmd, view, func(p *printer) {
		p.title("Release status")
		p.field("Version", view.Version)
		latest := view.LatestTag
		if latest == "" {
			latest = "(none)"
		}
		p.field("Latest tag", latest)
		p.field("Changelog", view.Changelog)
		p.field("Fragments", view.FragmentCount)
		for _, f := range view.Fragments {
			bump := f.Bump
			if bump == "" {
				bump = "default"
			}
			p.line("    %s (%s)", f.Fragment, bump)
		}
		p.field("Next", fmt.Sprintf("%s (%s)", view.NextVersion, view.BumpType))
		if view.Released {
			p.skip("v%s is already tagged; a release would do nothing", view.NextVersion)
		}
	})
}
