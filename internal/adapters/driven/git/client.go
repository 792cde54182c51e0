package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
	"github.com/custodia-labs/shipnote/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.VCS = (*Client)(nil)

// Client runs git commands against a working tree.
type Client struct {
	dir string
	bin string
}

// NewClient creates a client for the repository at dir.
func NewClient(dir string) *Client {
	return &Client{dir: dir, bin: "git"}
}

// TagExists reports whether refs/tags/<tag> resolves.
func (c *Client) TagExists(ctx context.Context, tag string) (bool, error) {
	_, err := c.run(ctx, "rev-parse", "--verify", "--quiet", "refs/tags/"+tag)
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.IsNotFound() {
		return false, nil
	}
	return false, err
}

// ConfigureIdentity sets user.name and user.email in the repository config.
func (c *Client) ConfigureIdentity(ctx context.Context, id domain.GitIdentity) error {
	if _, err := c.run(ctx, "config", "user.name", id.Name); err != nil {
		return err
	}
	_, err := c.run(ctx, "config", "user.email", id.Email)
	return err
}

// Stage adds paths to the index, recording deletions beneath them.
func (c *Client) Stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := c.run(ctx, append([]string{"add", "-A", "--"}, paths...)...)
	return err
}

// HasStagedChanges runs `git diff --cached --quiet`, which exits 1 when the
// index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := c.run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return true, nil
	}
	return false, err
}

// Commit records the index with message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

// CreateTag creates an annotated tag at HEAD.
func (c *Client) CreateTag(ctx context.Context, tag, message string) error {
	_, err := c.run(ctx, "tag", "-a", tag, "-m", message)
	return err
}

// Push pushes HEAD to the same-named branch on remote.
func (c *Client) Push(ctx context.Context, remote string) error {
	_, err := c.run(ctx, "push", remote, "HEAD")
	return err
}

// PushTag pushes a single tag to remote.
func (c *Client) PushTag(ctx context.Context, remote, tag string) error {
	_, err := c.run(ctx, "push", remote, "refs/tags/"+tag)
	return err
}

// LatestTag returns the highest vMAJOR.MINOR.PATCH tag. Pre-release and
// malformed tags are ignored.
func (c *Client) LatestTag(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "tag", "--list", "v*")
	if err != nil {
		return "", err
	}

	byVersion := make(map[*semver.Version]string)
	var versions semver.Collection
	for _, line := range strings.Split(out, "\n") {
		tag := strings.TrimSpace(line)
		v, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
		if err != nil || v.Prerelease() != "" {
			continue
		}
		byVersion[v] = tag
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return "", nil
	}

	sort.Sort(versions)
	return byVersion[versions[len(versions)-1]], nil
}

// run executes git with args in the client's directory and returns stdout.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", c.dir}, args...)
	cmd := exec.CommandContext(ctx, c.bin, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("git %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		} else {
			cmdErr.ExitCode = -1
		}
		if cmdErr.IsNotRepository() {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrNotRepository, c.dir, cmdErr)
		}
		return "", cmdErr
	}
	return stdout.String(), nil
}

// CommandError is a git invocation that did not exit cleanly.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: exit %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsNotFound reports a quiet lookup miss: exit 1 with nothing on stderr.
func (e *CommandError) IsNotFound() bool {
	return e.ExitCode == 1 && e.Stderr == ""
}

// IsNotRepository reports that the directory is not inside a work tree.
func (e *CommandError) IsNotRepository() bool {
	return e.ExitCode == 128 && strings.Contains(e.Stderr, "not a git repository")
}
