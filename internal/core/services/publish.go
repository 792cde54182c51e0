package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/shipnote/internal/core/domain"
	"github.com/custodia-labs/shipnote/internal/core/ports/driven"
	"github.com/custodia-labs/shipnote/internal/core/ports/driving"
	"github.com/custodia-labs/shipnote/internal/logger"
)

// Ensure PublishService implements the interface.
var _ driving.PublishService = (*PublishService)(nil)

// PublishService creates hosted releases from release-note entries.
type PublishService struct {
	notes     driven.NotesStore
	publisher driven.Publisher
}

// NewPublishService creates a new publish service.
func NewPublishService(notes driven.NotesStore, publisher driven.Publisher) *PublishService {
	return &PublishService{
		notes:     notes,
		publisher: publisher,
	}
}

// Publish creates the hosted release for version. A release that already
// exists is a successful outcome.
func (s *PublishService) Publish(ctx context.Context, version domain.Version) (*domain.PublishResult, error) {
	if s.publisher == nil {
		return nil, errors.New("publisher not configured")
	}

	doc, err := s.notes.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.notes.Path(), err)
	}

	tag := version.Tag()
	release := domain.HostedRelease{
		Tag:   tag,
		Title: tag,
		Body:  ReleaseBody(doc, version),
	}

	logger.Info("creating release %s", tag)
	url, err := s.publisher.CreateRelease(ctx, release)
	if errors.Is(err, domain.ErrAlreadyExists) {
		logger.Info("release %s already exists, skipping", tag)
		return &domain.PublishResult{Tag: tag, AlreadyExisted: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create release %s: %w", tag, err)
	}

	return &domain.PublishResult{Tag: tag, Created: true, URL: url}, nil
}
