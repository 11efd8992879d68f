package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/models"
	"storybook-server/internal/retry"
	"storybook-server/internal/sse"
	"storybook-server/pkg/taskmanager"
)

// Имена SSE-событий запуска.
const (
	eventStatus   = "status"
	eventProgress = "progress"
	eventPage     = "page"
)

// IStorybookService управляет запусками генерации книжки с картинками.
type IStorybookService interface {
	StartRun(ctx context.Context, req models.StorybookRequest) (string, error)
	GetRun(runID string) (*models.RunSnapshot, error)
	CancelRun(runID string) error
	Cleanup(olderThan time.Duration)
	Shutdown(ctx context.Context) error
}

// StorybookService drives the full pipeline: structured text generation,
// then cover and per-page illustrations with retry, publishing every
// page to subscribers as soon as it exists.
type StorybookService struct {
	client  ai.GenerationClient
	retrier *retry.Controller
	runs    taskmanager.IRunManager
	hub     *sse.Hub
	drafts  DraftClearer
	logger  *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]*models.RunSnapshot
}

// NewStorybookService создает сервис генерации книжек.
func NewStorybookService(
	client ai.GenerationClient,
	retrier *retry.Controller,
	runs taskmanager.IRunManager,
	hub *sse.Hub,
	drafts DraftClearer,
	logger *zap.Logger,
) *StorybookService {
	return &StorybookService{
		client:    client,
		retrier:   retrier,
		runs:      runs,
		hub:       hub,
		drafts:    drafts,
		logger:    logger.Named("StorybookService"),
		snapshots: make(map[string]*models.RunSnapshot),
	}
}

// StartRun validates the request, clears the tool's autosaved draft and
// launches the pipeline in the background. Returns the run ID to poll
// or subscribe on.
func (s *StorybookService) StartRun(ctx context.Context, req models.StorybookRequest) (string, error) {
	if req.Prompt == "" || req.Audience == "" {
		return "", fmt.Errorf("%w: prompt and audience are required", models.ErrInvalidInput)
	}

	// Начало новой генерации делает прежний черновик неактуальным.
	if err := s.drafts.Clear(ctx, models.ToolStorybookCreator); err != nil {
		s.logger.Warn("Failed to clear storybook draft before run", zap.Error(err))
	}

	runID, err := s.runs.Submit(ctx, func(runCtx context.Context, id uuid.UUID, reportProgress func(string)) (any, error) {
		return nil, s.execute(runCtx, id.String(), req)
	})
	if err != nil {
		if errors.Is(err, taskmanager.ErrTooManyRuns) {
			return "", err
		}
		return "", fmt.Errorf("failed to start generation run: %w", err)
	}

	s.ensureSnapshot(runID.String())

	s.logger.Info("Generation run started",
		zap.String("runID", runID.String()),
		zap.String("audience", req.Audience))
	return runID.String(), nil
}

// execute — тело запуска; работает в горутине менеджера.
func (s *StorybookService) execute(ctx context.Context, runID string, req models.StorybookRequest) error {
	s.ensureSnapshot(runID)
	s.setStatus(runID, models.RunStatusWriting, "Writing the story...")

	var content models.StorybookContent
	prompt := buildStorybookPrompt(req)
	if err := s.client.GenerateJSON(ctx, prompt, storybookSchema, &content); err != nil {
		return s.fail(ctx, runID, err)
	}
	if err := content.Validate(); err != nil {
		return s.fail(ctx, runID, err)
	}

	s.setStatus(runID, models.RunStatusDrawing, "Designing the cover...")

	coverURL, err := s.retrier.Do(ctx, func(ctx context.Context) (string, error) {
		return s.client.GenerateImage(ctx, coverImagePrompt(&content, req.IllustrationStyle), "3:4")
	}, func(message string) {
		s.setProgress(runID, message)
	})
	if err != nil {
		return s.fail(ctx, runID, err)
	}
	s.appendPage(runID, models.Page{Text: coverPageText(&content), ImageURL: coverURL})

	total := len(content.StoryPages)
	for i, paragraph := range content.StoryPages {
		s.setProgress(runID, fmt.Sprintf("Creating illustration %d of %d...", i+1, total))

		imageURL, err := s.retrier.Do(ctx, func(ctx context.Context) (string, error) {
			return s.client.GenerateImage(ctx, sceneImagePrompt(content.IllustrationStyleGuide, paragraph, req.IllustrationStyle), "4:3")
		}, func(message string) {
			s.setProgress(runID, message)
		})
		if err != nil {
			// Уже готовые страницы остаются в снимке запуска.
			return s.fail(ctx, runID, err)
		}
		s.appendPage(runID, models.Page{Text: paragraph, ImageURL: imageURL})
	}

	s.setStatus(runID, models.RunStatusCompleted, "")
	s.hub.CloseTopic(runID)
	s.logger.Info("Generation run completed", zap.String("runID", runID), zap.Int("pages", total+1))
	return nil
}

// GetRun returns the current snapshot of a run.
func (s *StorybookService) GetRun(runID string) (*models.RunSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[runID]
	if !ok {
		return nil, models.ErrRunNotFound
	}
	out := *snap
	out.Pages = append([]models.Page(nil), snap.Pages...)
	return &out, nil
}

// CancelRun прерывает активный запуск. Снимок сохраняет уже готовые страницы.
func (s *StorybookService) CancelRun(runID string) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return models.ErrRunNotFound
	}
	if err := s.runs.Cancel(id); err != nil {
		if errors.Is(err, taskmanager.ErrRunFinished) {
			return models.ErrRunFinished
		}
		// Менеджер мог уже убрать терминальный запуск, пока его снимок
		// еще хранится и отдается по GET.
		if snap, snapErr := s.GetRun(runID); snapErr == nil && snap.Status.Terminal() {
			return models.ErrRunFinished
		}
		return models.ErrRunNotFound
	}
	s.setStatus(runID, models.RunStatusCancelled, "")
	s.hub.CloseTopic(runID)
	return nil
}

// Cleanup удаляет снимки терминальных запусков старше указанного
// возраста. Вызывается тем же фоновым воркером, что и уборка менеджера,
// иначе снимки с base64-страницами копятся без ограничения.
func (s *StorybookService) Cleanup(olderThan time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range s.snapshots {
		if snap.Status.Terminal() && now.Sub(snap.UpdatedAt) >= olderThan {
			delete(s.snapshots, id)
		}
	}
}

// Shutdown ждет завершения активных запусков.
func (s *StorybookService) Shutdown(ctx context.Context) error {
	return s.runs.Shutdown(ctx)
}

func (s *StorybookService) fail(ctx context.Context, runID string, err error) error {
	if ctx.Err() != nil {
		s.setStatus(runID, models.RunStatusCancelled, "")
		s.hub.CloseTopic(runID)
		return ctx.Err()
	}
	s.mu.Lock()
	if snap, ok := s.snapshots[runID]; ok {
		snap.Status = models.RunStatusFailed
		snap.Error = err.Error()
		snap.Progress = ""
		snap.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	s.hub.Publish(runID, sse.Event{Name: eventStatus, Data: string(models.RunStatusFailed)})
	s.hub.CloseTopic(runID)
	s.logger.Error("Generation run failed", zap.String("runID", runID), zap.Error(err))
	return err
}

// ensureSnapshot создает снимок запуска, если его еще нет. Вызывается и
// из StartRun, и из горутины запуска: порядок их старта не определен.
func (s *StorybookService) ensureSnapshot(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[runID]; ok {
		return
	}
	s.snapshots[runID] = &models.RunSnapshot{
		RunID:     runID,
		Status:    models.RunStatusPending,
		Pages:     []models.Page{},
		UpdatedAt: time.Now(),
	}
}

func (s *StorybookService) setStatus(runID string, status models.RunStatus, progress string) {
	s.mu.Lock()
	if snap, ok := s.snapshots[runID]; ok {
		snap.Status = status
		snap.Progress = progress
		snap.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	s.hub.Publish(runID, sse.Event{Name: eventStatus, Data: string(status)})
	if progress != "" {
		s.hub.Publish(runID, sse.Event{Name: eventProgress, Data: progress})
	}
}

func (s *StorybookService) setProgress(runID string, message string) {
	s.mu.Lock()
	if snap, ok := s.snapshots[runID]; ok {
		snap.Progress = message
		snap.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	s.hub.Publish(runID, sse.Event{Name: eventProgress, Data: message})
}

func (s *StorybookService) appendPage(runID string, page models.Page) {
	s.mu.Lock()
	if snap, ok := s.snapshots[runID]; ok {
		snap.Pages = append(snap.Pages, page)
		snap.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	s.hub.Publish(runID, sse.Event{Name: eventPage, Data: page})
}
