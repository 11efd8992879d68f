package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/internal/repository"
)

// DefaultAutosaveInterval — период сброса черновиков в хранилище.
const DefaultAutosaveInterval = 60 * time.Second

// DraftClearer — узкая зависимость для сервисов, которым нужно только
// сбросить черновик. Очистка обязана пройти и через staged-слой
// автосохранения, и через хранилище, иначе ближайший Flush воскресит
// удаленный черновик.
type DraftClearer interface {
	Clear(ctx context.Context, tool models.ToolID) error
}

// IDraftService управляет автосохранением черновиков инструментов.
type IDraftService interface {
	// Submit stages a snapshot for the periodic flush. Image payloads
	// are redacted before staging.
	Submit(snapshot *models.DraftSnapshot) error
	// Load returns the stored snapshot and whether it is worth offering
	// a resume for.
	Load(ctx context.Context, tool models.ToolID) (*models.DraftSnapshot, bool, error)
	Clear(ctx context.Context, tool models.ToolID) error
	// Flush persists all staged snapshots immediately.
	Flush(ctx context.Context)
}

// DraftService stages incoming snapshots in memory and flushes them to
// the store on a timer, so a burst of keystrokes costs one write.
type DraftService struct {
	drafts   repository.DraftRepository
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	staged map[models.ToolID]*models.DraftSnapshot
}

// NewDraftService создает сервис автосохранения. Неположительный
// интервал заменяется значением по умолчанию.
func NewDraftService(drafts repository.DraftRepository, interval time.Duration, logger *zap.Logger) *DraftService {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &DraftService{
		drafts:   drafts,
		interval: interval,
		logger:   logger.Named("DraftService"),
		staged:   make(map[models.ToolID]*models.DraftSnapshot),
	}
}

// Submit validates and stages a snapshot. Пустой снимок (без единого
// заполненного поля) тоже принимается: он перезапишет прежний черновик.
func (s *DraftService) Submit(snapshot *models.DraftSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	snapshot.Redact()

	s.mu.Lock()
	s.staged[snapshot.Tool] = snapshot
	s.mu.Unlock()
	return nil
}

// Load читает сохраненный черновик. resumable=false, когда черновика нет
// или в нем нечего возобновлять.
func (s *DraftService) Load(ctx context.Context, tool models.ToolID) (*models.DraftSnapshot, bool, error) {
	if !models.KnownTool(tool) {
		return nil, false, models.ErrUnknownTool
	}
	snap, err := s.drafts.Load(ctx, tool)
	if err != nil {
		return nil, false, err
	}
	if snap == nil {
		return nil, false, nil
	}
	return snap, snap.HasContent(), nil
}

// Clear удаляет черновик инструмента и его незаписанную копию.
func (s *DraftService) Clear(ctx context.Context, tool models.ToolID) error {
	if !models.KnownTool(tool) {
		return models.ErrUnknownTool
	}

	s.mu.Lock()
	delete(s.staged, tool)
	s.mu.Unlock()

	return s.drafts.Clear(ctx, tool)
}

// Flush persists every staged snapshot. Failed writes stay staged for
// the next tick.
func (s *DraftService) Flush(ctx context.Context) {
	s.mu.Lock()
	pending := s.staged
	s.staged = make(map[models.ToolID]*models.DraftSnapshot)
	s.mu.Unlock()

	for tool, snap := range pending {
		if err := s.drafts.Save(ctx, snap); err != nil {
			s.logger.Warn("Autosave flush failed", zap.String("tool", string(tool)), zap.Error(err))
			s.mu.Lock()
			// Не затираем более свежий снимок, пришедший во время записи.
			if _, exists := s.staged[tool]; !exists {
				s.staged[tool] = snap
			}
			s.mu.Unlock()
		}
	}
}

// Run flushes staged drafts every interval until ctx is cancelled, then
// performs one final flush.
func (s *DraftService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Autosave runner started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.Flush(flushCtx)
			cancel()
			s.logger.Info("Autosave runner stopped")
			return
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}
