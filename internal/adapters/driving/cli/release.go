package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driving"
)

var (
	releaseBump        string
	releaseDefault     string
	releaseDescription string
	releaseDryRun      bool
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Version, record, commit, tag and push a release",
	Long: `Runs a full release:

  1. resolve the bump kind (--bump-type, or the highest fragment declaration)
  2. stop if the tag for the new version already exists
  3. write the new version to the manifest
  4. fold the fragments into the changelog and remove them
  5. stage, commit, tag and push

Re-running a release whose tag already exists does nothing, so a retry from
the pre-release checkout is safe. In the released checkout the manifest holds
the new version and a second run plans the next one. If a step before the
commit fails, the manifest, the changelog, the fragments and the index are
restored.

In GitHub Actions the outcome is written to $GITHUB_OUTPUT as new_version and
either already_released or version_committed.`,
	RunE: runRelease,
}

func init() {
	f := releaseCmd.Flags()
	f.StringVar(&releaseBump, "bump-type", "", "force major, minor or patch (env BUMP_TYPE)")
	f.StringVar(&releaseDefault, "default", "", "bump kind for fragments without a declaration (env DEFAULT_BUMP)")
	f.StringVar(&releaseDescription, "description", "", "text appended to the commit and tag messages (env DESCRIPTION)")
	f.BoolVar(&releaseDryRun, "dry-run", false, "compute the release without changing anything")
	rootCmd.AddCommand(releaseCmd)
}

type releaseView struct {
	ID                string   `json:"id" yaml:"id"`
	State             string   `json:"state" yaml:"state"`
	Previous          string   `json:"previous" yaml:"previous"`
	Version           string   `json:"new_version" yaml:"new_version"`
	Tag               string   `json:"tag" yaml:"tag"`
	Bump              string   `json:"bump_type" yaml:"bump_type"`
	Fragments         []string `json:"fragments" yaml:"fragments"`
	EntryWritten      bool     `json:"entry_written" yaml:"entry_written"`
	FragmentsConsumed bool     `json:"fragments_consumed" yaml:"fragments_consumed"`
	DryRun            bool     `json:"dry_run" yaml:"dry_run"`
}

func newReleaseView(t *domain.ReleaseTransition) releaseView {
	fragments := t.Fragments
	if fragments == nil {
		fragments = []string{}
	}
	return releaseView{
		ID:                t.ID,
		State:             t.State.String(),
		Previous:          t.Current.String(),
		Version:           t.Target.String(),
		Tag:               t.Target.Tag(),
		Bump:              t.Bump.String(),
		Fragments:         fragments,
		EntryWritten:      t.EntryWritten,
		FragmentsConsumed: t.FragmentsConsumed,
		DryRun:            t.DryRun,
	}
}

func runRelease(cmd *cobra.Command, _ []string) error {
	if releaseService == nil {
		return errors.New("release service not configured")
	}

	bump, err := optionalBump(envOr(releaseBump, "BUMP_TYPE"))
	if err != nil {
		return err
	}
	def, err := optionalBump(envOr(releaseDefault, "DEFAULT_BUMP"))
	if err != nil {
		return err
	}

	t, err := releaseService.Release(cmd.Context(), driving.ReleaseRequest{
		Bump:        bump,
		DefaultBump: def,
		Description: envOr(releaseDescription, "DESCRIPTION"),
		DryRun:      releaseDryRun,
	})
	if err != nil {
		return withHint("release", err)
	}

	if !t.DryRun {
		if err := setReleaseOutputs(t); err != nil {
			return err
		}
	}

	view := newReleaseView(t)
	return emit(cmd, view, func(p *printer) {
		p.title("Release " + view.Tag)
		p.field("Bump", view.Bump)
		p.field("Version", view.Previous+" -> "+view.Version)
		p.field("Fragments", len(view.Fragments))

		switch t.State {
		case domain.StateAlreadyReleased:
			p.skip("Tag %s already exists", view.Tag)
		case domain.StateNoChanges:
			p.skip("No changes to commit")
		case domain.StateCommitted:
			if view.EntryWritten {
				p.line("Updated %s", settings.ChangelogFile)
			}
			p.ok("Committed, tagged and pushed %s", view.Tag)
		default:
			p.skip("Dry run - no changes made")
		}
	})
}

func setReleaseOutputs(t *domain.ReleaseTransition) error {
	switch t.State {
	case domain.StateAlreadyReleased:
		return setOutputs("already_released", "true", "new_version", t.Target.String())
	case domain.StateNoChanges:
		return setOutputs("version_committed", "false", "new_version", t.Target.String())
	case domain.StateCommitted:
		return setOutputs("version_committed", "true", "new_version", t.Target.String())
	}
	return nil
}
