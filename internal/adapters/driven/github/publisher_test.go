package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/logger"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc) *Publisher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewPublisherWithHTTPClient(srv.Client(), "linksplatform/doublets-rs")
	require.NoError(t, err)
	require.NoError(t, p.SetBaseURL(srv.URL))
	return p
}

func TestPublisher_CreateRelease(t *testing.T) {
	var got map[string]any
	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/linksplatform/doublets-rs/releases", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set(HeaderRateRemaining, "4321")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"tag_name":"v1.2.0","html_url":"https://github.com/linksplatform/doublets-rs/releases/tag/v1.2.0"}`))
	})

	url, err := p.CreateRelease(context.Background(), domain.HostedRelease{
		Tag:   "v1.2.0",
		Title: "v1.2.0",
		Body:  "### Added\n- Split storage",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/linksplatform/doublets-rs/releases/tag/v1.2.0", url)
	assert.Equal(t, "v1.2.0", got["tag_name"])
	assert.Equal(t, "v1.2.0", got["name"])
	assert.Equal(t, "### Added\n- Split storage", got["body"])
	assert.Equal(t, 4321, p.rateLimiter.remaining)
}

func TestPublisher_CreateRelease_AlreadyExists(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"Release","code":"already_exists","field":"tag_name"}]}`))
	})

	_, err := p.CreateRelease(context.Background(), domain.HostedRelease{Tag: "v1.0.0"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestPublisher_CreateRelease_OtherValidationError(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"Release","code":"invalid","field":"target_commitish"}]}`))
	})

	_, err := p.CreateRelease(context.Background(), domain.HostedRelease{Tag: "v1.0.0"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrAlreadyExists))
}

func TestPublisher_CreateRelease_Unauthorized(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	_, err := p.CreateRelease(context.Background(), domain.HostedRelease{Tag: "v1.0.0"})

	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestPublisher_CreateRelease_RateLimited(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(HeaderRateLimit, "5000")
		w.Header().Set(HeaderRateRemaining, "0")
		w.Header().Set(HeaderRateReset, strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded for user."}`))
	})

	_, err := p.CreateRelease(context.Background(), domain.HostedRelease{Tag: "v1.0.0"})

	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, err.Error(), "resets at")
}

func TestPublisher_CreateRelease_RepositoryNotFound(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	_, err := p.CreateRelease(context.Background(), domain.HostedRelease{Tag: "v1.0.0"})

	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestSplitRepository(t *testing.T) {
	tests := []struct {
		input   string
		owner   string
		repo    string
		wantErr bool
	}{
		{input: "linksplatform/doublets-rs", owner: "linksplatform", repo: "doublets-rs"},
		{input: " owner/repo ", owner: "owner", repo: "repo"},
		{input: "owner", wantErr: true},
		{input: "/repo", wantErr: true},
		{input: "owner/", wantErr: true},
		{input: "a/b/c", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, repo, err := SplitRepository(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRepository)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateLimit, "60")
	resp.Header.Set(HeaderRateRemaining, "59")

	r.UpdateFromResponse(resp)
	r.UpdateFromResponse(nil)

	assert.Equal(t, 60, r.limit)
	assert.Equal(t, 59, r.remaining)
}

func TestRateLimiter_LogsQuotaWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateLimit, "5000")
	resp.Header.Set(HeaderRateRemaining, "4999")
	NewRateLimiter().UpdateFromResponse(resp)

	assert.Contains(t, buf.String(), "github quota 4999/5000 remaining")
}

func TestPublisher_SpentQuotaFailsWithoutRequest(t *testing.T) {
	calls := 0
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
	p.rateLimiter.UpdateFromResponse(resp)

	_, err := p.CreateRelease(context.Background(), domain.HostedRelease{Tag: "v1.0.0"})

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Zero(t, calls)
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, r.Wait(ctx))
}
