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

func newDraftService(t *testing.T) (*DraftService, repository.DraftRepository) {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewDraftRepository(storage.NewMemoryStore(), logger)
	return NewDraftService(repo, 10*time.Millisecond, logger), repo
}

func TestDraftService_SubmitAndFlush(t *testing.T) {
	svc, repo := newDraftService(t)
	ctx := context.Background()

	err := svc.Submit(&models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "a dragon who bakes"},
	})
	require.NoError(t, err)

	// До сброса в хранилище пусто.
	stored, err := repo.Load(ctx, models.ToolStoryWriter)
	require.NoError(t, err)
	assert.Nil(t, stored)

	svc.Flush(ctx)

	stored, err = repo.Load(ctx, models.ToolStoryWriter)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "a dragon who bakes", stored.Story.Prompt)
}

func TestDraftService_SubmitRedactsImages(t *testing.T) {
	svc, repo := newDraftService(t)
	ctx := context.Background()

	err := svc.Submit(&models.DraftSnapshot{
		Tool: models.ToolStorybookCreator,
		Storybook: &models.StorybookDraft{
			Prompt: "fox",
			Pages: []models.Page{
				{Text: "Cover", ImageURL: "data:image/jpeg;base64,huge"},
				{Text: "One", ImageURL: "data:image/jpeg;base64,huge"},
			},
		},
	})
	require.NoError(t, err)
	svc.Flush(ctx)

	stored, err := repo.Load(ctx, models.ToolStorybookCreator)
	require.NoError(t, err)
	require.NotNil(t, stored)
	for _, p := range stored.Storybook.Pages {
		assert.Empty(t, p.ImageURL)
		assert.NotEmpty(t, p.Text)
	}
}

func TestDraftService_SubmitRejectsInvalid(t *testing.T) {
	svc, _ := newDraftService(t)

	err := svc.Submit(&models.DraftSnapshot{Tool: "unknown-tool"})
	assert.ErrorIs(t, err, models.ErrUnknownTool)

	err = svc.Submit(&models.DraftSnapshot{Tool: models.ToolStoryWriter})
	assert.ErrorIs(t, err, models.ErrDraftMismatch)
}

func TestDraftService_Load(t *testing.T) {
	svc, repo := newDraftService(t)
	ctx := context.Background()

	t.Run("Absent draft is not resumable", func(t *testing.T) {
		snap, resumable, err := svc.Load(ctx, models.ToolStoryWriter)
		require.NoError(t, err)
		assert.Nil(t, snap)
		assert.False(t, resumable)
	})

	t.Run("Draft with content is resumable", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.DraftSnapshot{
			Tool:  models.ToolStoryWriter,
			Story: &models.StoryDraft{Prompt: "x"},
		}))

		snap, resumable, err := svc.Load(ctx, models.ToolStoryWriter)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.True(t, resumable)
	})

	t.Run("Empty draft is not resumable", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.DraftSnapshot{
			Tool:  models.ToolStoryWriter,
			Story: &models.StoryDraft{},
		}))

		snap, resumable, err := svc.Load(ctx, models.ToolStoryWriter)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.False(t, resumable)
	})

	t.Run("Unknown tool", func(t *testing.T) {
		_, _, err := svc.Load(ctx, "unknown-tool")
		assert.ErrorIs(t, err, models.ErrUnknownTool)
	})
}

func TestDraftService_Clear(t *testing.T) {
	svc, repo := newDraftService(t)
	ctx := context.Background()

	require.NoError(t, svc.Submit(&models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "staged only"},
	}))
	require.NoError(t, repo.Save(ctx, &models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "stored"},
	}))

	require.NoError(t, svc.Clear(ctx, models.ToolStoryWriter))

	// И staged-копия, и запись в хранилище исчезают.
	svc.Flush(ctx)
	stored, err := repo.Load(ctx, models.ToolStoryWriter)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDraftService_FailedFlushKeepsSnapshotStaged(t *testing.T) {
	repo := mocks.NewMockDraftRepository(t)
	svc := NewDraftService(repo, time.Minute, zap.NewNop())

	require.NoError(t, svc.Submit(&models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "keep me"},
	}))

	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("store unavailable")).Once()
	svc.Flush(context.Background())

	// Снимок остается staged и уходит со следующим успешным сбросом.
	repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	svc.Flush(context.Background())
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestDraftService_RunFlushesPeriodically(t *testing.T) {
	svc, repo := newDraftService(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.NoError(t, svc.Submit(&models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "ticked"},
	}))

	assert.Eventually(t, func() bool {
		stored, err := repo.Load(context.Background(), models.ToolStoryWriter)
		return err == nil && stored != nil
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
