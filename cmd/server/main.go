package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/config"
	"storybook-server/internal/handler"
	"storybook-server/internal/repository"
	"storybook-server/internal/retry"
	"storybook-server/internal/service"
	"storybook-server/internal/sse"
	"storybook-server/internal/storage"
	"storybook-server/pkg/logger"
	"storybook-server/pkg/taskmanager"
)

func main() {
	// .env опционален: в контейнере конфигурация приходит из окружения.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := ai.NewGeminiClient(ctx, cfg.AI, log)
	if err != nil {
		return err
	}

	contentRepo := repository.NewContentRepository(store, log)
	draftRepo := repository.NewDraftRepository(store, log)

	hub := sse.NewHub(log)
	runs := taskmanager.New(taskmanager.Config{MaxActiveRuns: cfg.Runs.MaxActive})
	runs.SetNotifier(&runLogger{log: log})
	retrier := retry.New(cfg.Retry.MaxAttempts, cfg.Retry.Delay, log)

	// Черновики чистятся через DraftService: очистка должна снимать и
	// staged-копию автосохранения, не только запись в хранилище.
	draftSvc := service.NewDraftService(draftRepo, cfg.Autosave.Interval, log)
	storybookSvc := service.NewStorybookService(client, retrier, runs, hub, draftSvc, log)
	contentSvc := service.NewContentService(contentRepo, draftSvc, log)
	toolsSvc := service.NewToolsService(client, log)

	// Фоновые воркеры: автосохранение и уборка завершенных запусков
	// вместе с их снимками.
	go draftSvc.Run(ctx)
	go func() {
		ticker := time.NewTicker(cfg.Runs.Retention)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runs.Cleanup(cfg.Runs.Retention)
				storybookSvc.Cleanup(cfg.Runs.Retention)
			}
		}
	}()

	router := handler.NewRouter(handler.RouterDeps{
		Storybooks:  storybookSvc,
		Contents:    contentSvc,
		Drafts:      draftSvc,
		Tools:       toolsSvc,
		Client:      client,
		Hub:         hub,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		// WriteTimeout нулевой: SSE-потоки живут дольше любого разумного
		// таймаута записи.
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	if err := storybookSvc.Shutdown(shutdownCtx); err != nil {
		log.Warn("Active generation runs did not finish in time", zap.Error(err))
		runs.Close()
	}

	log.Info("Server stopped")
	return nil
}

// runLogger пишет терминальные переходы запусков в общий лог.
type runLogger struct {
	log *zap.Logger
}

func (l *runLogger) RunUpdated(run *taskmanager.Run) {
	if run.Status.Terminal() {
		l.log.Info("Generation run finished",
			zap.String("runID", run.ID.String()),
			zap.String("status", string(run.Status)))
	}
}

func newStore(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		client := redisClient(cfg)
		return storage.NewRedisStore(client, log), nil
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Store.SQLitePath, log)
	case "memory":
		log.Warn("Using in-memory store, data will not survive a restart")
		return storage.NewMemoryStore(), nil
	default:
		return nil, errors.New("unknown store backend: " + cfg.Store.Backend)
	}
}

func redisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Store.RedisAddr,
		Password: cfg.Store.RedisPass,
		DB:       cfg.Store.RedisDB,
	})
}
