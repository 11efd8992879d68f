package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/internal/repository"
)

// IContentService управляет библиотекой сохраненных материалов.
type IContentService interface {
	SaveStory(ctx context.Context, title, prompt, content string) (*models.SavedContent, error)
	SaveStorybook(ctx context.Context, title, prompt string, pages []models.Page) (*models.SavedContent, error)
	List(ctx context.Context) ([]models.SavedContent, error)
	Get(ctx context.Context, contentID string) (*models.SavedContent, error)
	Delete(ctx context.Context, contentID string) error
	ToggleBookmark(ctx context.Context, contentID string, pageIndex int) (int, error)
}

// ContentService wraps the repository with the invariants of the two
// content types and the draft-clearing side effects of a save.
type ContentService struct {
	contents repository.ContentRepository
	drafts   DraftClearer
	logger   *zap.Logger
	now      func() time.Time
}

// NewContentService создает сервис библиотеки.
func NewContentService(
	contents repository.ContentRepository,
	drafts DraftClearer,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		contents: contents,
		drafts:   drafts,
		logger:   logger.Named("ContentService"),
		now:      time.Now,
	}
}

// SaveStory persists a finished plain-text story.
func (s *ContentService) SaveStory(ctx context.Context, title, prompt, content string) (*models.SavedContent, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", models.ErrInvalidInput)
	}

	item := models.SavedContent{
		ID:        models.NewContentID(s.now()),
		Type:      models.ContentTypeStory,
		Title:     title,
		Prompt:    prompt,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.contents.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Story saved", zap.String("contentID", item.ID))
	return &item, nil
}

// SaveStorybook persists a finished storybook. The in-progress draft is
// cleared: сохраненная книга делает автосохранение неактуальным.
func (s *ContentService) SaveStorybook(ctx context.Context, title, prompt string, pages []models.Page) (*models.SavedContent, error) {
	if title == "" || len(pages) == 0 {
		return nil, fmt.Errorf("%w: title and at least one page are required", models.ErrInvalidInput)
	}

	item := models.SavedContent{
		ID:                models.NewContentID(s.now()),
		Type:              models.ContentTypeStorybook,
		Title:             title,
		Prompt:            prompt,
		Pages:             pages,
		CreatedAt:         s.now(),
		BookmarkPageIndex: 0,
	}
	if err := s.contents.Insert(ctx, item); err != nil {
		return nil, err
	}

	if err := s.drafts.Clear(ctx, models.ToolStorybookCreator); err != nil {
		s.logger.Warn("Failed to clear storybook draft after save", zap.Error(err))
	}

	s.logger.Info("Storybook saved",
		zap.String("contentID", item.ID), zap.Int("pages", len(pages)))
	return &item, nil
}

// List возвращает сохраненные материалы, новые впереди.
func (s *ContentService) List(ctx context.Context) ([]models.SavedContent, error) {
	return s.contents.List(ctx)
}

// Get returns a single saved item by ID.
func (s *ContentService) Get(ctx context.Context, contentID string) (*models.SavedContent, error) {
	items, err := s.contents.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == contentID {
			return &items[i], nil
		}
	}
	return nil, models.ErrNotFound
}

// Delete removes a saved item.
func (s *ContentService) Delete(ctx context.Context, contentID string) error {
	if err := s.contents.Delete(ctx, contentID); err != nil {
		return err
	}
	s.logger.Info("Content deleted", zap.String("contentID", contentID))
	return nil
}

// ToggleBookmark устанавливает или снимает закладку книжки.
func (s *ContentService) ToggleBookmark(ctx context.Context, contentID string, pageIndex int) (int, error) {
	if pageIndex < 0 {
		return 0, fmt.Errorf("%w: page index must be non-negative", models.ErrInvalidInput)
	}
	return s.contents.ToggleBookmark(ctx, contentID, pageIndex)
}
