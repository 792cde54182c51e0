package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shipnote/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/shipnote/internal/core/domain"
)

func newPublishFixture(changelog *string) (*PublishService, *memory.Publisher) {
	ws := memory.NewWorkspace()
	if changelog != nil {
		ws.WriteFile("CHANGELOG.md", []byte(*changelog))
	}
	pub := memory.NewPublisher()
	return NewPublishService(memory.NewNotesStore(ws, "CHANGELOG.md"), pub), pub
}

func TestPublish_UsesChangelogEntry(t *testing.T) {
	doc := sampleChangelog
	svc, pub := newPublishFixture(&doc)

	res, err := svc.Publish(context.Background(), domain.Version{Minor: 2, Patch: 1})

	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.AlreadyExisted)
	assert.Equal(t, "v0.2.1", res.Tag)
	assert.Equal(t, "memory://releases/v0.2.1", res.URL)

	rel, ok := pub.Release("v0.2.1")
	require.True(t, ok)
	assert.Equal(t, "v0.2.1", rel.Title)
	assert.Equal(t, "- Patch release", rel.Body)
}

func TestPublish_FallbackBody(t *testing.T) {
	svc, pub := newPublishFixture(nil)

	_, err := svc.Publish(context.Background(), domain.Version{Major: 3})

	require.NoError(t, err)
	rel, ok := pub.Release("v3.0.0")
	require.True(t, ok)
	assert.Equal(t, "Release v3.0.0", rel.Body)
}

func TestPublish_ExistingReleaseIsSuccess(t *testing.T) {
	doc := sampleChangelog
	svc, _ := newPublishFixture(&doc)
	ctx := context.Background()

	_, err := svc.Publish(ctx, domain.Version{Minor: 3})
	require.NoError(t, err)

	res, err := svc.Publish(ctx, domain.Version{Minor: 3})

	require.NoError(t, err)
	assert.True(t, res.AlreadyExisted)
	assert.False(t, res.Created)
}

func TestPublish_PublisherFailure(t *testing.T) {
	svc, pub := newPublishFixture(nil)
	pub.Fail(errors.New("401 Bad credentials"))

	_, err := svc.Publish(context.Background(), domain.Version{Major: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create release v1.0.0")
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestPublish_NoPublisher(t *testing.T) {
	svc := NewPublishService(memory.NewNotesStore(memory.NewWorkspace(), "CHANGELOG.md"), nil)

	_, err := svc.Publish(context.Background(), domain.Version{Major: 1})

	assert.Error(t, err)
}
