// Package taskmanager runs long generation jobs in the background and
// tracks their lifecycle. Jobs are cooperative: they receive a context
// and are expected to stop promptly when it is cancelled.
package taskmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// IRunManager определяет интерфейс для управления фоновыми запусками
type IRunManager interface {
	Submit(ctx context.Context, runFunc RunFunc) (uuid.UUID, error)
	Get(runID uuid.UUID) (*Run, error)
	Cancel(runID uuid.UUID) error
	Cleanup(age time.Duration)
	SetNotifier(notifier Notifier)
	Shutdown(ctx context.Context) error
	Close()
}

// Notifier получает обновления статуса запуска. Реализация не должна
// блокироваться: уведомление идет под внутренней блокировкой менеджера.
type Notifier interface {
	RunUpdated(run *Run)
}

// RunStatus представляет статус запуска
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether a run in this status will never change again.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// RunFunc выполняет один запуск. reportProgress можно вызывать из любой
// горутины запуска; сообщение доходит до нотификатора как есть.
type RunFunc func(ctx context.Context, runID uuid.UUID, reportProgress func(message string)) (any, error)

// Run представляет один фоновый запуск
type Run struct {
	ID        uuid.UUID
	Status    RunStatus
	Message   string
	Result    any
	Err       string
	CreatedAt time.Time
	UpdatedAt time.Time

	cancel context.CancelFunc
}

// Config содержит конфигурацию менеджера
type Config struct {
	MaxActiveRuns int
}

// RunManager управляет фоновыми запусками
type RunManager struct {
	mu       sync.RWMutex
	runs     map[uuid.UUID]*Run
	maxRuns  int
	notifier Notifier
	closing  chan struct{}
	wg       sync.WaitGroup
}

var (
	// ErrTooManyRuns возвращается, когда лимит активных запусков исчерпан.
	ErrTooManyRuns = errors.New("too many active runs")
	// ErrRunNotFound возвращается для неизвестного или уже убранного запуска.
	ErrRunNotFound = errors.New("run not found")
	// ErrRunFinished возвращается при попытке отменить терминальный запуск.
	ErrRunFinished = errors.New("run already finished")
)

// New создает новый RunManager
func New(cfg Config) *RunManager {
	maxRuns := cfg.MaxActiveRuns
	if maxRuns <= 0 {
		maxRuns = 10
	}
	return &RunManager{
		runs:    make(map[uuid.UUID]*Run),
		maxRuns: maxRuns,
		closing: make(chan struct{}),
	}
}

// SetNotifier устанавливает нотификатор обновлений
func (m *RunManager) SetNotifier(notifier Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = notifier
}

// Submit создает и запускает новый фоновый запуск
func (m *RunManager) Submit(ctx context.Context, runFunc RunFunc) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.closing:
		return uuid.UUID{}, errors.New("run manager is shutting down")
	default:
	}

	active := 0
	for _, run := range m.runs {
		if !run.Status.Terminal() {
			active++
		}
	}
	if active >= m.maxRuns {
		return uuid.UUID{}, ErrTooManyRuns
	}

	runID := uuid.New()

	// Независимый контекст: запуск переживает HTTP-запрос, который его
	// создал. Логгер переносим из входящего контекста.
	baseCtx, cancel := context.WithCancel(context.Background())
	runCtx := log.Ctx(ctx).WithContext(baseCtx)

	run := &Run{
		ID:        runID,
		Status:    RunStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		cancel:    cancel,
	}
	m.runs[runID] = run

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		m.execute(runCtx, run, runFunc)
	}()

	return runID, nil
}

func (m *RunManager) execute(ctx context.Context, run *Run, runFunc RunFunc) {
	m.update(run, RunStatusRunning, "", nil, nil)

	reportProgress := func(message string) {
		m.update(run, RunStatusRunning, message, nil, nil)
	}

	result, err := runFunc(ctx, run.ID, reportProgress)

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		log.Ctx(ctx).Info().Str("runID", run.ID.String()).Msg("Запуск отменен")
		m.update(run, RunStatusCancelled, "", nil, err)
	case err != nil:
		log.Ctx(ctx).Error().Err(err).Str("runID", run.ID.String()).Msg("Запуск завершился с ошибкой")
		m.update(run, RunStatusFailed, "", result, err)
	default:
		log.Ctx(ctx).Info().Str("runID", run.ID.String()).Msg("Запуск успешно завершен")
		m.update(run, RunStatusCompleted, "", result, nil)
	}
}

func (m *RunManager) update(run *Run, status RunStatus, message string, result any, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Терминальный статус не перезаписывается: Cancel мог сработать,
	// пока runFunc еще возвращался.
	if run.Status.Terminal() {
		return
	}

	run.Status = status
	if message != "" {
		run.Message = message
	}
	if result != nil {
		run.Result = result
	}
	if err != nil {
		run.Err = err.Error()
	}
	run.UpdatedAt = time.Now()

	if m.notifier != nil {
		m.notifier.RunUpdated(run)
	}
}

// Get возвращает запуск по ID
func (m *RunManager) Get(runID uuid.UUID) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return run, nil
}

// Cancel отменяет активный запуск
func (m *RunManager) Cancel(runID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	if run.Status.Terminal() {
		return fmt.Errorf("run %s in status %s: %w", runID, run.Status, ErrRunFinished)
	}

	run.cancel()
	run.Status = RunStatusCancelled
	run.Message = "Cancelled by user"
	run.UpdatedAt = time.Now()

	if m.notifier != nil {
		m.notifier.RunUpdated(run)
	}
	return nil
}

// Cleanup удаляет терминальные запуски старше указанного возраста
func (m *RunManager) Cleanup(age time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, run := range m.runs {
		if run.Status.Terminal() && now.Sub(run.UpdatedAt) > age {
			delete(m.runs, id)
		}
	}
}

// Shutdown ожидает завершения всех запусков с таймаутом из контекста
func (m *RunManager) Shutdown(ctx context.Context) error {
	close(m.closing)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.New("timed out waiting for runs to finish")
	}
}

// Close отменяет все активные запуски и ждет их завершения
func (m *RunManager) Close() {
	m.mu.Lock()
	select {
	case <-m.closing:
	default:
		close(m.closing)
	}
	for _, run := range m.runs {
		if !run.Status.Terminal() {
			run.cancel()
		}
	}
	m.mu.Unlock()

	m.wg.Wait()
}
