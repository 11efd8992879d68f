package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storybook-server/internal/mocks"
	"storybook-server/internal/models"
	"storybook-server/internal/repository"
	"storybook-server/internal/storage"
)

func newContentService(t *testing.T) (*ContentService, *DraftService, repository.DraftRepository) {
	t.Helper()
	logger := zap.NewNop()
	store := storage.NewMemoryStore()
	draftRepo := repository.NewDraftRepository(store, logger)
	draftSvc := NewDraftService(draftRepo, time.Minute, logger)
	svc := NewContentService(repository.NewContentRepository(store, logger), draftSvc, logger)
	return svc, draftSvc, draftRepo
}

func TestContentService_SaveStory(t *testing.T) {
	svc, _, _ := newContentService(t)
	ctx := context.Background()

	saved, err := svc.SaveStory(ctx, "My Story", "a prompt", "Once upon a time.")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, models.ContentTypeStory, saved.Type)
	assert.Equal(t, "Once upon a time.", saved.Content)
	assert.Empty(t, saved.Pages)

	_, err = svc.SaveStory(ctx, "", "p", "c")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestContentService_SaveStorybookClearsDraft(t *testing.T) {
	svc, draftSvc, draftRepo := newContentService(t)
	ctx := context.Background()

	require.NoError(t, draftRepo.Save(ctx, &models.DraftSnapshot{
		Tool:      models.ToolStorybookCreator,
		Storybook: &models.StorybookDraft{Prompt: "in progress"},
	}))
	// Несброшенная staged-копия тоже должна исчезнуть при сохранении.
	require.NoError(t, draftSvc.Submit(&models.DraftSnapshot{
		Tool:      models.ToolStorybookCreator,
		Storybook: &models.StorybookDraft{Prompt: "typed later"},
	}))

	pages := []models.Page{{Text: "Cover", ImageURL: "data:x"}, {Text: "One"}}
	saved, err := svc.SaveStorybook(ctx, "My Book", "a prompt", pages)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeStorybook, saved.Type)
	assert.Equal(t, 0, saved.BookmarkPageIndex)

	draftSvc.Flush(ctx)
	left, err := draftRepo.Load(ctx, models.ToolStorybookCreator)
	assert.NoError(t, err)
	assert.Nil(t, left)
}

func TestContentService_IDsAreUnique(t *testing.T) {
	svc, _, _ := newContentService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		saved, err := svc.SaveStory(ctx, "T", "p", "c")
		require.NoError(t, err)
		assert.False(t, seen[saved.ID], "duplicate content ID %s", saved.ID)
		seen[saved.ID] = true
	}
}

func TestContentService_GetAndDelete(t *testing.T) {
	svc, _, _ := newContentService(t)
	ctx := context.Background()

	saved, err := svc.SaveStory(ctx, "T", "p", "c")
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, saved.ID))

	_, err = svc.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, saved.ID), models.ErrNotFound)
}

func TestContentService_InsertErrorPropagates(t *testing.T) {
	logger := zap.NewNop()
	contents := mocks.NewMockContentRepository(t)
	draftRepo := repository.NewDraftRepository(storage.NewMemoryStore(), logger)
	svc := NewContentService(contents, NewDraftService(draftRepo, time.Minute, logger), logger)

	contents.On("Insert", mock.Anything, mock.Anything).Return(errors.New("store unavailable"))

	_, err := svc.SaveStory(context.Background(), "T", "p", "c")
	assert.ErrorContains(t, err, "store unavailable")
}

func TestContentService_ToggleBookmark(t *testing.T) {
	svc, _, _ := newContentService(t)
	ctx := context.Background()

	saved, err := svc.SaveStorybook(ctx, "B", "p", []models.Page{{Text: "Cover"}, {Text: "One"}})
	require.NoError(t, err)

	idx, err := svc.ToggleBookmark(ctx, saved.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	// Повтор той же страницы снимает закладку.
	idx, err = svc.ToggleBookmark(ctx, saved.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = svc.ToggleBookmark(ctx, saved.ID, -1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
