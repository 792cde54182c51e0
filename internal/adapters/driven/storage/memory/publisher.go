package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
)

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// Publisher is an in-memory hosted release service for testing.
type Publisher struct {
	mu       sync.Mutex
	releases map[string]domain.HostedRelease
	err      error
}

// NewPublisher creates an empty publisher.
func NewPublisher() *Publisher {
	return &Publisher{releases: make(map[string]domain.HostedRelease)}
}

// Fail makes every CreateRelease call return err. A nil err clears it.
func (p *Publisher) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Release returns the published release for tag.
func (p *Publisher) Release(tag string) (domain.HostedRelease, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.releases[tag]
	return r, ok
}

// CreateRelease stores release, or reports that the tag already has one.
func (p *Publisher) CreateRelease(_ context.Context, release domain.HostedRelease) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	if _, ok := p.releases[release.Tag]; ok {
		return "", fmt.Errorf("release %s: %w", release.Tag, domain.ErrAlreadyExists)
	}
	p.releases[release.Tag] = release
	return "memory://releases/" + release.Tag, nil
}
