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

// DraftRepository holds one in-progress snapshot slot per tool.
type DraftRepository interface {
	// Load returns nil without error when the slot is empty or the
	// stored entry is malformed.
	Load(ctx context.Context, tool models.ToolID) (*models.DraftSnapshot, error)
	Save(ctx context.Context, snapshot *models.DraftSnapshot) error
	Clear(ctx context.Context, tool models.ToolID) error
}

type draftRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewDraftRepository creates a Store-backed DraftRepository.
func NewDraftRepository(store storage.Store, logger *zap.Logger) DraftRepository {
	return &draftRepository{
		store:  store,
		logger: logger.Named("DraftRepo"),
	}
}

func (r *draftRepository) Load(ctx context.Context, tool models.ToolID) (*models.DraftSnapshot, error) {
	raw, err := r.store.Get(ctx, storage.NamespaceDrafts, string(tool))
	if err != nil {
		if errors.Is(err, models.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read draft for %s: %w", tool, err)
	}

	var snap models.DraftSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		r.logger.Warn("Malformed draft entry, treating as absent",
			zap.String("tool", string(tool)), zap.Error(err))
		return nil, nil
	}
	if err := snap.Validate(); err != nil {
		r.logger.Warn("Draft entry failed structural validation, treating as absent",
			zap.String("tool", string(tool)), zap.Error(err))
		return nil, nil
	}
	return &snap, nil
}

func (r *draftRepository) Save(ctx context.Context, snapshot *models.DraftSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal draft for %s: %w", snapshot.Tool, err)
	}
	if err := r.store.Set(ctx, storage.NamespaceDrafts, string(snapshot.Tool), raw); err != nil {
		r.logger.Error("Failed to write draft",
			zap.String("tool", string(snapshot.Tool)), zap.Error(err))
		return err
	}
	return nil
}

func (r *draftRepository) Clear(ctx context.Context, tool models.ToolID) error {
	if err := r.store.Delete(ctx, storage.NamespaceDrafts, string(tool)); err != nil {
		r.logger.Error("Failed to clear draft", zap.String("tool", string(tool)), zap.Error(err))
		return err
	}
	return nil
}
