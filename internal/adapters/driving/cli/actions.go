package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/shipnote/internal/core/domain"
)

// GitHubOutputEnv names the file GitHub Actions reads step outputs from.
const GitHubOutputEnv = "GITHUB_OUTPUT"

// setOutputs appends key=value lines to $GITHUB_OUTPUT. It does nothing
// outside GitHub Actions. pairs alternate keys and values.
func setOutputs(pairs ...string) error {
	path := os.Getenv(GitHubOutputEnv)
	if path == "" {
		return nil
	}
	if len(pairs)%2 != 0 {
		return errors.New("setOutputs: odd number of arguments")
	}

	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		fmt.Fprintf(&b, "%s=%s\n", pairs[i], pairs[i+1])
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", GitHubOutputEnv, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", GitHubOutputEnv, err)
	}
	return f.Close()
}

// envOr returns value, or the first non-empty environment variable of keys.
func envOr(value string, keys ...string) string {
	if value != "" {
		return value
	}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// withHint wraps err for op and appends what the user can do about it.
func withHint(op string, err error) error {
	var hint string
	switch {
	case errors.Is(err, domain.ErrNotRepository):
		hint = "run inside a git work tree or pass --dir"
	case errors.Is(err, domain.ErrUnauthorized):
		hint = "check that GITHUB_TOKEN or GH_TOKEN holds a valid token"
	case errors.Is(err, domain.ErrNotFound):
		hint = "check --repository and that the token can see it"
	case errors.Is(err, domain.ErrRateLimited):
		hint = "retry once the rate limit resets"
	}
	if hint == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w (%s)", op, err, hint)
}
