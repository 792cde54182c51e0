package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

var bumpTypeDefault string

var bumpTypeCmd = &cobra.Command{
	Use:   "bump-type",
	Short: "Determine the bump kind from changelog fragments",
	Long: `Reads every pending changelog fragment and prints the highest bump kind
declared in their front matter. Fragments without a valid declaration use the
default. With no fragments the default is printed.

In GitHub Actions the result is also written to $GITHUB_OUTPUT as bump_type,
fragment_count and has_fragments.`,
	RunE: runBumpType,
}

func init() {
	bumpTypeCmd.Flags().StringVar(&bumpTypeDefault, "default", "",
		"bump kind for fragments without a declaration (env DEFAULT_BUMP)")
	rootCmd.AddCommand(bumpTypeCmd)
}

type declarationView struct {
	Fragment string `json:"fragment" yaml:"fragment"`
	Bump     string `json:"bump,omitempty" yaml:"bump,omitempty"`
}

type bumpTypeView struct {
	BumpType      string            `json:"bump_type" yaml:"bump_type"`
	FragmentCount int               `json:"fragment_count" yaml:"fragment_count"`
	HasFragments  bool              `json:"has_fragments" yaml:"has_fragments"`
	Fragments     []declarationView `json:"fragments" yaml:"fragments"`
}

func runBumpType(cmd *cobra.Command, _ []string) error {
	if releaseService == nil {
		return errors.New("release service not configured")
	}

	def, err := optionalBump(envOr(bumpTypeDefault, "DEFAULT_BUMP"))
	if err != nil {
		return err
	}

	decision, err := releaseService.DetermineBump(cmd.Context(), def)
	if err != nil {
		return fmt.Errorf("determine bump type: %w", err)
	}

	view := bumpTypeView{
		BumpType:      decision.Bump.String(),
		FragmentCount: decision.FragmentCount,
		HasFragments:  decision.FragmentCount > 0,
		Fragments:     []declarationView{},
	}
	for _, d := range decision.Declarations {
		dv := declarationView{Fragment: d.Name}
		if d.Declared != nil {
			dv.Bump = d.Declared.String()
		}
		view.Fragments = append(view.Fragments, dv)
	}

	if err := setOutputs(
		"bump_type", view.BumpType,
		"fragment_count", strconv.Itoa(view.FragmentCount),
		"has_fragments", boolString(view.HasFragments),
	); err != nil {
		return err
	}

	return emit(cmd, view, func(p *printer) {
		if !view.HasFragments {
			p.line("No changelog fragments found")
		}
		for _, f := range view.Fragments {
			if f.Bump == "" {
				p.line("Fragment %s: no bump specified, using default", f.Fragment)
			} else {
				p.line("Fragment %s: bump=%s", f.Fragment, f.Bump)
			}
		}
		p.ok("Determined bump type: %s (from %d fragment(s))", view.BumpType, view.FragmentCount)
	})
}

// optionalBump parses a bump flag value. Empty means unset.
func optionalBump(raw string) (*domain.BumpKind, error) {
	if raw == "" {
		return nil, nil
	}
	bump, err := domain.ParseBumpKind(raw)
	if err != nil {
		return nil, err
	}
	return &bump, nil
}
