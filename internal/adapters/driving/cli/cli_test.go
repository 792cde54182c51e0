package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/shipnote/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driving"
	"github.com/custodia-labs/shipnote/internal/core/services"
)

// cliEnv is an in-memory project wired into the command package vars.
type cliEnv struct {
	ws        *memory.Workspace
	vcs       *memory.VCS
	publisher *memory.Publisher
	outputs   string
}

func setupCLITest(t *testing.T, files map[string]string) *cliEnv {
	t.Helper()

	for _, key := range []string{
		"DEFAULT_BUMP", "BUMP_TYPE", "DESCRIPTION", "VERSION", "REPOSITORY", "GITHUB_REPOSITORY",
	} {
		t.Setenv(key, "")
	}
	outputs := filepath.Join(t.TempDir(), "github_output")
	t.Setenv(GitHubOutputEnv, outputs)

	s := domain.DefaultReleaseSettings()
	ws := memory.NewWorkspace()
	ws.WriteFile(s.ManifestFile, []byte("[package]\nname = \"demo\"\nversion = \"1.2.3\"\n"))
	for name, content := range files {
		ws.WriteFile(name, []byte(content))
	}
	vcs := memory.NewVCS(ws)
	pub := memory.NewPublisher()
	notes := memory.NewNotesStore(ws, s.ChangelogFile)

	svc := services.NewReleaseService(
		memory.NewFragmentStore(ws, s.FragmentDir),
		memory.NewManifestStore(ws, s.ManifestFile),
		notes,
		vcs,
		s,
	)
	svc.SetClock(func() time.Time { return time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC) })

	oldSettings, oldRelease, oldPublish, oldWiring := settings, releaseService, publishServices, wiring
	settings = s
	releaseService = svc
	publishServices = func(_ context.Context, _ string) (driving.PublishService, error) {
		return services.NewPublishService(notes, pub), nil
	}
	wiring = nil
	resetFlags()

	t.Cleanup(func() {
		settings, releaseService, publishServices, wiring = oldSettings, oldRelease, oldPublish, oldWiring
		resetFlags()
	})

	return &cliEnv{ws: ws, vcs: vcs, publisher: pub, outputs: outputs}
}

func resetFlags() {
	globals = Globals{Dir: ".", Output: string(formatText)}
	bumpTypeDefault = ""
	bumpKindFlag, bumpDryRun = "", false
	releaseBump, releaseDefault, releaseDescription, releaseDryRun = "", "", "", false
	publishVersion, publishRepository = "", ""
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func (e *cliEnv) githubOutputs(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.outputs)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestBumpTypeCmd_FromFragments(t *testing.T) {
	env := setupCLITest(t, map[string]string{
		"changelog.d/a.md": "---\nbump: minor\n---\nAdded",
		"changelog.d/b.md": "Fixed",
	})

	out, err := execute(t, "bump-type")

	require.NoError(t, err)
	assert.Contains(t, out, "Fragment a.md: bump=minor")
	assert.Contains(t, out, "Fragment b.md: no bump specified, using default")
	assert.Contains(t, out, "Determined bump type: minor (from 2 fragment(s))")
	assert.Equal(t, "bump_type=minor\nfragment_count=2\nhas_fragments=true\n", env.githubOutputs(t))
}

func TestBumpTypeCmd_NoFragmentsUsesDefault(t *testing.T) {
	env := setupCLITest(t, nil)
	t.Setenv("DEFAULT_BUMP", "major")

	out, err := execute(t, "bump-type")

	require.NoError(t, err)
	assert.Contains(t, out, "No changelog fragments found")
	assert.Contains(t, env.githubOutputs(t), "bump_type=major\n")
	assert.Contains(t, env.githubOutputs(t), "has_fragments=false\n")
}

func TestBumpTypeCmd_InvalidDefault(t *testing.T) {
	setupCLITest(t, nil)

	_, err := execute(t, "bump-type", "--default", "huge")

	assert.ErrorIs(t, err, domain.ErrInvalidBump)
}

func TestBumpTypeCmd_JSON(t *testing.T) {
	setupCLITest(t, map[string]string{"changelog.d/a.md": "---\nbump: major\n---\nBig"})

	out, err := execute(t, "bump-type", "-o", "json")

	require.NoError(t, err)
	var view bumpTypeView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "major", view.BumpType)
	assert.Equal(t, []declarationView{{Fragment: "a.md", Bump: "major"}}, view.Fragments)
}

func TestBumpCmd(t *testing.T) {
	env := setupCLITest(t, nil)

	out, err := execute(t, "bump", "--bump-type", "minor")

	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 1.2.3")
	assert.Contains(t, out, "New version: 1.3.0")
	manifest, _ := env.ws.ReadFile("Cargo.toml")
	assert.Contains(t, string(manifest), `version = "1.3.0"`)
}

func TestBumpCmd_DryRunFromEnv(t *testing.T) {
	env := setupCLITest(t, nil)
	t.Setenv("BUMP_TYPE", "major")

	out, err := execute(t, "bump", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "New version: 2.0.0")
	assert.Contains(t, out, "Dry run - no changes made")
	manifest, _ := env.ws.ReadFile("Cargo.toml")
	assert.Contains(t, string(manifest), `version = "1.2.3"`)
}

func TestBumpCmd_RequiresBumpType(t *testing.T) {
	setupCLITest(t, nil)

	_, err := execute(t, "bump")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectCmd(t *testing.T) {
	env := setupCLITest(t, map[string]string{"changelog.d/a.md": "### Added\n- Thing"})

	out, err := execute(t, "collect")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated CHANGELOG.md with version 1.2.3")
	doc, ok := env.ws.ReadFile("CHANGELOG.md")
	require.True(t, ok)
	assert.Contains(t, string(doc), "## [1.2.3] - 2025-03-04\n\n### Added\n- Thing\n")
}

func TestCollectCmd_NoFragments(t *testing.T) {
	setupCLITest(t, nil)

	out, err := execute(t, "collect")

	require.NoError(t, err)
	assert.Contains(t, out, "No changelog fragments found")
}

func TestReleaseCmd_Committed(t *testing.T) {
	env := setupCLITest(t, map[string]string{"changelog.d/a.md": "---\nbump: minor\n---\nAdded"})

	out, err := execute(t, "release", "--description", "Sprint 7")

	require.NoError(t, err)
	assert.Contains(t, out, "Release v1.3.0")
	assert.Contains(t, out, "Committed, tagged and pushed v1.3.0")
	assert.Equal(t, "version_committed=true\nnew_version=1.3.0\n", env.githubOutputs(t))
	assert.Equal(t, []string{"chore: release v1.3.0\n\nSprint 7"}, env.vcs.Commits())
}

func TestReleaseCmd_AlreadyReleasedYAML(t *testing.T) {
	env := setupCLITest(t, nil)
	env.vcs.AddTag("v1.2.4")

	out, err := execute(t, "release", "-o", "yaml")

	require.NoError(t, err)
	var view releaseView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "already_released", view.State)
	assert.Equal(t, "1.2.4", view.Version)
	assert.Equal(t, "already_released=true\nnew_version=1.2.4\n", env.githubOutputs(t))
}

func TestReleaseCmd_DryRunWritesNoOutputs(t *testing.T) {
	env := setupCLITest(t, nil)

	out, err := execute(t, "release", "--dry-run", "--bump-type", "major")

	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3 -> 2.0.0")
	assert.Contains(t, out, "Dry run - no changes made")
	assert.Empty(t, env.githubOutputs(t))
	assert.Empty(t, env.vcs.Commits())
}

func TestReleaseCmd_InvalidBump(t *testing.T) {
	setupCLITest(t, nil)

	_, err := execute(t, "release", "--bump-type", "mega")

	assert.ErrorIs(t, err, domain.ErrInvalidBump)
}

func TestPublishCmd(t *testing.T) {
	env := setupCLITest(t, map[string]string{
		"CHANGELOG.md": "# Changelog\n\n## [1.2.3] - 2025-03-04\n\n- Fixed a thing\n",
	})
	t.Setenv("REPOSITORY", "owner/repo")

	out, err := execute(t, "publish", "--release-version", "1.2.3")

	require.NoError(t, err)
	assert.Contains(t, out, "Created GitHub release: v1.2.3")
	rel, ok := env.publisher.Release("v1.2.3")
	require.True(t, ok)
	assert.Equal(t, "- Fixed a thing", rel.Body)

	out, err = execute(t, "publish", "--release-version", "v1.2.3", "--repository", "owner/repo")

	require.NoError(t, err)
	assert.Contains(t, out, "Release v1.2.3 already exists, skipping")
}

func TestPublishCmd_RequiresVersionAndRepository(t *testing.T) {
	setupCLITest(t, nil)

	_, err := execute(t, "publish", "--release-version", "1.0.0")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPublishCmd_InvalidVersion(t *testing.T) {
	setupCLITest(t, nil)

	_, err := execute(t, "publish", "--release-version", "1.0", "--repository", "o/r")

	assert.ErrorIs(t, err, domain.ErrInvalidVersion)
}

func TestPublishCmd_ExplainsFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"unauthorized", domain.ErrUnauthorized, "GITHUB_TOKEN or GH_TOKEN"},
		{"not found", domain.ErrNotFound, "check --repository"},
		{"rate limited", domain.ErrRateLimited, "rate limit resets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCLITest(t, nil)
			env.publisher.Fail(fmt.Errorf("create release v1.0.0: %w", tt.err))

			_, err := execute(t, "publish", "--release-version", "1.0.0", "--repository", "o/r")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.hint)
		})
	}
}

func TestReleaseCmd_NotARepository(t *testing.T) {
	env := setupCLITest(t, map[string]string{"changelog.d/a.md": "Fixed"})
	env.vcs.FailOn(memory.OpTagExists, fmt.Errorf("%w: /work", domain.ErrNotRepository))

	_, err := execute(t, "release")

	assert.ErrorIs(t, err, domain.ErrNotRepository)
	assert.Contains(t, err.Error(), "run inside a git work tree")

	_, err = execute(t, "status")

	assert.ErrorIs(t, err, domain.ErrNotRepository)
	assert.Contains(t, err.Error(), "run inside a git work tree")
}

func TestStatusCmd_JSON(t *testing.T) {
	env := setupCLITest(t, map[string]string{"changelog.d/a.md": "---\nbump: minor\n---\nAdded"})
	env.vcs.AddTag("v1.2.3")

	out, err := execute(t, "status", "--output", "json")

	require.NoError(t, err)
	var view statusView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "1.2.3", view.Version)
	assert.Equal(t, "1.3.0", view.NextVersion)
	assert.Equal(t, "v1.2.3", view.LatestTag)
	assert.False(t, view.Released)
	assert.Equal(t, 1, view.FragmentCount)
}

func TestStatusCmd_Text(t *testing.T) {
	setupCLITest(t, map[string]string{"changelog.d/a.md": "Fixed"})

	out, err := execute(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Release status")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "a.md (default)")
	assert.Contains(t, out, "1.2.4 (patch)")
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	setupCLITest(t, nil)

	_, err := execute(t, "status", "-o", "xml")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRootCmd_ServicesNotConfigured(t *testing.T) {
	setupCLITest(t, nil)
	releaseService = nil

	_, err := execute(t, "status")

	assert.EqualError(t, err, "release service not configured")
}

func TestRootCmd_WiringReceivesGlobals(t *testing.T) {
	setupCLITest(t, nil)
	var got Globals
	SetWiring(func(_ context.Context, g Globals) (*Services, error) {
		got = g
		return &Services{Settings: settings, Release: releaseService, Publish: publishServices}, nil
	})

	_, err := execute(t, "status", "--dir", "/tmp/project", "--config", "ci.toml", "-v")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/project", got.Dir)
	assert.Equal(t, "ci.toml", got.ConfigPath)
	assert.True(t, got.Verbose)
}

func TestSetOutputs_NoopOutsideActions(t *testing.T) {
	t.Setenv(GitHubOutputEnv, "")

	assert.NoError(t, setOutputs("a", "b"))
}

func TestEnvOr(t *testing.T) {
	t.Setenv("SHIPNOTE_TEST_A", "")
	t.Setenv("SHIPNOTE_TEST_B", "from-env")

	assert.Equal(t, "flag", envOr("flag", "SHIPNOTE_TEST_B"))
	assert.Equal(t, "from-env", envOr("", "SHIPNOTE_TEST_A", "SHIPNOTE_TEST_B"))
	assert.Equal(t, "", envOr("", "SHIPNOTE_TEST_A"))
}

func TestReleaseCmd_HelpDescribesRerun(t *testing.T) {
	assert.Contains(t, releaseCmd.Long, "Re-running a release whose tag already exists does nothing")
	assert.Contains(t, releaseCmd.Long, "a second run plans the next one")
}
