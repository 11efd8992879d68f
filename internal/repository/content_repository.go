package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/internal/storage"
)

// Единственный ключ партиции сохраненного контента: весь список хранится
// одним значением, новые элементы впереди. Читатели обязаны терпеть
// отсутствующие/битые записи, трактуя их как пустой список.
const savedContentKey = "saved"

// ContentRepository manages the ordered list of saved creations.
type ContentRepository interface {
	List(ctx context.Context) ([]models.SavedContent, error)
	Insert(ctx context.Context, item models.SavedContent) error
	Delete(ctx context.Context, contentID string) error
	// ToggleBookmark sets the resume index, or resets it to 0 when the
	// candidate equals the stored index. Fails with models.ErrNotFound
	// when contentID does not resolve to a stored Storybook.
	ToggleBookmark(ctx context.Context, contentID string, candidateIndex int) (int, error)
}

type contentRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewContentRepository creates a Store-backed ContentRepository.
func NewContentRepository(store storage.Store, logger *zap.Logger) ContentRepository {
	return &contentRepository{
		store:  store,
		logger: logger.Named("ContentRepo"),
	}
}

func (r *contentRepository) List(ctx context.Context) ([]models.SavedContent, error) {
	raw, err := r.store.Get(ctx, storage.NamespaceContent, savedContentKey)
	if err != nil {
		if errors.Is(err, models.ErrKeyNotFound) {
			return []models.SavedContent{}, nil
		}
		return nil, fmt.Errorf("failed to read saved content: %w", err)
	}

	var items []models.SavedContent
	if err := json.Unmarshal(raw, &items); err != nil {
		// Битая запись приравнивается к отсутствующей.
		r.logger.Warn("Malformed saved content entry, treating as empty", zap.Error(err))
		return []models.SavedContent{}, nil
	}
	return items, nil
}

func (r *contentRepository) Insert(ctx context.Context, item models.SavedContent) error {
	items, err := r.List(ctx)
	if err != nil {
		return err
	}

	// Newest first.
	updated := append([]models.SavedContent{item}, items...)
	return r.write(ctx, updated)
}

func (r *contentRepository) Delete(ctx context.Context, contentID string) error {
	items, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	found := false
	for _, it := range items {
		if it.ID == contentID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return models.ErrNotFound
	}
	return r.write(ctx, kept)
}

func (r *contentRepository) ToggleBookmark(ctx context.Context, contentID string, candidateIndex int) (int, error) {
	log := r.logger.With(zap.String("contentID", contentID), zap.Int("candidateIndex", candidateIndex))

	items, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	for i := range items {
		if items[i].ID != contentID {
			continue
		}
		if items[i].Type != models.ContentTypeStorybook {
			log.Warn("Bookmark requested for non-storybook content")
			return 0, models.ErrNotFound
		}
		newIndex := candidateIndex
		if items[i].BookmarkPageIndex == candidateIndex {
			// Повторная закладка той же страницы снимает закладку.
			newIndex = 0
		}
		items[i].BookmarkPageIndex = newIndex
		if err := r.write(ctx, items); err != nil {
			return 0, err
		}
		log.Debug("Bookmark updated", zap.Int("newIndex", newIndex))
		return newIndex, nil
	}

	return 0, models.ErrNotFound
}

func (r *contentRepository) write(ctx context.Context, items []models.SavedContent) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal saved content: %w", err)
	}
	if err := r.store.Set(ctx, storage.NamespaceContent, savedContentKey, raw); err != nil {
		r.logger.Error("Failed to write saved content", zap.Error(err))
		return err
	}
	return nil
}
