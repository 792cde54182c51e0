package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

var (
	publishVersion    string
	publishRepository string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Create a GitHub release from the changelog",
	Long: `Creates the GitHub release v<version> in the repository. The release body
is the changelog entry for that version, or "Release v<version>" when there
is none. A release that already exists is left alone.

The token is read from GITHUB_TOKEN, or GH_TOKEN.`,
	RunE: runPublish,
}

func init() {
	// --release-version, since --version is taken by the tool's own version.
	publishCmd.Flags().StringVar(&publishVersion, "release-version", "", "version to publish, e.g. 1.2.0 (env VERSION)")
	publishCmd.Flags().StringVar(&publishRepository, "repository", "", "owner/name (env REPOSITORY)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	if publishServices == nil {
		return errors.New("publish service not configured")
	}

	rawVersion := envOr(publishVersion, "VERSION")
	repository := envOr(publishRepository, "REPOSITORY")
	if repository == "" {
		repository = envOr(settings.Repository, "GITHUB_REPOSITORY")
	}
	if rawVersion == "" || repository == "" {
		return fmt.Errorf("%w: --release-version and --repository are required", domain.ErrInvalidInput)
	}

	v, err := domain.ParseVersion(strings.TrimPrefix(rawVersion, "v"))
	if err != nil {
		return err
	}

	svc, err := publishServices(cmd.Context(), repository)
	if err != nil {
		return err
	}

	res, err := svc.Publish(cmd.Context(), v)
	if err != nil {
		return withHint("publish", err)
	}

	return emit(cmd, res, func(p *printer) {
		if res.AlreadyExisted {
			p.skip("Release %s already exists, skipping", res.Tag)
			return
		}
		p.ok("Created GitHub release: %s", res.Tag)
		if res.URL != "" {
			p.field("URL", res.URL)
		}
	})
}
