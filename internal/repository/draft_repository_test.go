package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/internal/storage"
)

func newDraftRepo(t *testing.T) (DraftRepository, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewDraftRepository(store, zap.NewNop()), store
}

func TestDraftRepository_RoundTrip(t *testing.T) {
	repo, _ := newDraftRepo(t)
	ctx := context.Background()

	snap := &models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "a robot in the rainforest", Length: 500},
	}
	require.NoError(t, repo.Save(ctx, snap))

	loaded, err := repo.Load(ctx, models.ToolStoryWriter)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "a robot in the rainforest", loaded.Story.Prompt)
}

func TestDraftRepository_LoadAbsentReturnsNil(t *testing.T) {
	repo, _ := newDraftRepo(t)

	loaded, err := repo.Load(context.Background(), models.ToolLessonPlanner)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftRepository_MalformedEntryTreatedAsAbsent(t *testing.T) {
	repo, store := newDraftRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, storage.NamespaceDrafts, string(models.ToolStoryWriter), []byte("???")))

	loaded, err := repo.Load(ctx, models.ToolStoryWriter)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftRepository_SaveRejectsInvalidSnapshot(t *testing.T) {
	repo, _ := newDraftRepo(t)

	// Вариант не соответствует инструменту.
	snap := &models.DraftSnapshot{
		Tool:   models.ToolStoryWriter,
		Lesson: &models.LessonDraft{Topic: "volcanoes"},
	}
	assert.ErrorIs(t, repo.Save(context.Background(), snap), models.ErrDraftMismatch)
}

func TestDraftRepository_Clear(t *testing.T) {
	repo, _ := newDraftRepo(t)
	ctx := context.Background()

	snap := &models.DraftSnapshot{
		Tool:  models.ToolStoryWriter,
		Story: &models.StoryDraft{Prompt: "x"},
	}
	require.NoError(t, repo.Save(ctx, snap))
	require.NoError(t, repo.Clear(ctx, models.ToolStoryWriter))

	loaded, err := repo.Load(ctx, models.ToolStoryWriter)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
