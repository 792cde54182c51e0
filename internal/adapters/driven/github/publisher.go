package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// Publisher creates releases through the GitHub REST API.
type Publisher struct {
	gh          *gh.Client
	owner       string
	repo        string
	rateLimiter *RateLimiter
}

// NewPublisher creates a publisher for repository ("owner/name") that
// authenticates with a static token.
func NewPublisher(ctx context.Context, token, repository string) (*Publisher, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return NewPublisherWithHTTPClient(tc, repository)
}

// NewPublisherWithHTTPClient creates a publisher over a custom http.Client.
func NewPublisherWithHTTPClient(httpClient *http.Client, repository string) (*Publisher, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	return &Publisher{
		gh:          gh.NewClient(httpClient),
		owner:       owner,
		repo:        repo,
		rateLimiter: NewRateLimiter(),
	}, nil
}

// SetBaseURL points the client at another API root, such as a GitHub
// Enterprise server.
func (p *Publisher) SetBaseURL(rawURL string) error {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	p.gh.BaseURL = u
	return nil
}

// Repository returns "owner/name".
func (p *Publisher) Repository() string {
	return p.owner + "/" + p.repo
}

// CreateRelease creates a published, non-draft release. A release that
// already exists for the tag yields an error wrapping domain.ErrAlreadyExists.
func (p *Publisher) CreateRelease(ctx context.Context, release domain.HostedRelease) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", classify("create release "+release.Tag, err)
	}

	created, resp, err := p.gh.Repositories.CreateRelease(ctx, p.owner, p.repo, &gh.RepositoryRelease{
		TagName: gh.Ptr(release.Tag),
		Name:    gh.Ptr(release.Title),
		Body:    gh.Ptr(release.Body),
	})
	p.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", p.wrapError(err, "create release "+release.Tag)
	}

	return created.GetHTMLURL(), nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (p *Publisher) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	p.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (p *Publisher) wrapError(err error, operation string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		if alreadyExists(ghErr) {
			return fmt.Errorf("%s: %w: %w", operation, domain.ErrAlreadyExists, apiErr)
		}
		return classify(operation, apiErr)
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return classify(operation, &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		})
	}

	return fmt.Errorf("%s: %w", operation, err)
}

// classify tags err with the domain error callers match on.
func classify(operation string, err error) error {
	switch {
	case IsUnauthorized(err):
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrUnauthorized, err)
	case IsNotFound(err):
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrNotFound, err)
	case IsRateLimited(err):
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// alreadyExists recognises the 422 GitHub returns for a duplicate tag.
func alreadyExists(e *gh.ErrorResponse) bool {
	if e.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, detail := range e.Errors {
		if detail.Code == "already_exists" || strings.Contains(detail.Message, "already exists") {
			return true
		}
	}
	return strings.Contains(e.Message, "already exists")
}

// SplitRepository parses "owner/name".
func SplitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: repository %q, want owner/name", ErrInvalidRepository, repository)
	}
	return owner, repo, nil
}
