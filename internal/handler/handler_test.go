package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storybook-server/internal/mocks"
	"storybook-server/internal/models"
	"storybook-server/internal/repository"
	"storybook-server/internal/service"
	"storybook-server/internal/sse"
	"storybook-server/internal/storage"
)

// stubStorybookService подменяет пайплайн в HTTP-тестах.
type stubStorybookService struct {
	snapshot *models.RunSnapshot
	startErr error
}

func (s *stubStorybookService) StartRun(ctx context.Context, req models.StorybookRequest) (string, error) {
	if s.startErr != nil {
		return "", s.startErr
	}
	return s.snapshot.RunID, nil
}

func (s *stubStorybookService) GetRun(runID string) (*models.RunSnapshot, error) {
	if s.snapshot == nil || s.snapshot.RunID != runID {
		return nil, models.ErrRunNotFound
	}
	return s.snapshot, nil
}

func (s *stubStorybookService) CancelRun(runID string) error {
	if s.snapshot == nil || s.snapshot.RunID != runID {
		return models.ErrRunNotFound
	}
	if s.snapshot.Status.Terminal() {
		return models.ErrRunFinished
	}
	s.snapshot.Status = models.RunStatusCancelled
	return nil
}

func (s *stubStorybookService) Cleanup(olderThan time.Duration) {}

func (s *stubStorybookService) Shutdown(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T, storybooks service.IStorybookService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	store := storage.NewMemoryStore()
	contentRepo := repository.NewContentRepository(store, logger)
	draftRepo := repository.NewDraftRepository(store, logger)
	draftSvc := service.NewDraftService(draftRepo, time.Minute, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	NewContentHandler(service.NewContentService(contentRepo, draftSvc, logger), logger).RegisterRoutes(api)
	NewDraftHandler(draftSvc, logger).RegisterRoutes(api)
	NewOptionsHandler().RegisterRoutes(api)
	if storybooks != nil {
		NewRunHandler(storybooks, sse.NewHub(logger), logger).RegisterRoutes(api)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestContentEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("Save storybook and read it back", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/content/storybook", saveStorybookRequest{
			Title:  "My Book",
			Prompt: "a fox",
			Pages:  []models.Page{{Text: "Cover", ImageURL: "data:x"}, {Text: "One"}},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var saved models.SavedContent
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
		assert.NotEmpty(t, saved.ID)

		w = doJSON(t, router, http.MethodGet, "/api/v1/content/"+saved.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/v1/content", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []models.SavedContent
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("Missing content returns 404 with error code", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/content/nope", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var errResp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, models.ErrCodeNotFound, errResp.Code)
	})

	t.Run("Invalid body returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/content/story", map[string]any{"title": "no content"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookmarkEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/content/storybook", saveStorybookRequest{
		Title: "B",
		Pages: []models.Page{{Text: "Cover"}, {Text: "One"}, {Text: "Two"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved models.SavedContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodPost, "/api/v1/content/"+saved.ID+"/bookmark", bookmarkRequest{PageIndex: 2})
	require.Equal(t, http.StatusOK, w.Code)
	var resp bookmarkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.BookmarkPageIndex)

	// Повтор той же страницы снимает закладку.
	w = doJSON(t, router, http.MethodPost, "/api/v1/content/"+saved.ID+"/bookmark", bookmarkRequest{PageIndex: 2})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.BookmarkPageIndex)
}

func TestViewerEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/content/storybook", saveStorybookRequest{
		Title: "V",
		Pages: []models.Page{{Text: "Cover"}, {Text: "One"}, {Text: "Two"}, {Text: "Three"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved models.SavedContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodGet, "/api/v1/content/"+saved.ID+"/view?page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view viewerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.CurrentPage)
	assert.Equal(t, 4, view.TotalPages)
	assert.False(t, view.IsCover)
	assert.Equal(t, "Pages 1-2", view.Label)
	require.Len(t, view.VisiblePages, 2)
	assert.Equal(t, "One", view.VisiblePages[0].Text)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/content/storybook", saveStorybookRequest{
		Title: "E",
		Pages: []models.Page{{Text: "Cover"}, {Text: "One"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved models.SavedContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodGet, "/api/v1/content/"+saved.ID+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "A4 landscape")
}

func TestDraftEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("Unknown tool rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/drafts/unknown-tool", models.DraftSnapshot{
			Story: &models.StoryDraft{Prompt: "x"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Load absent draft", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/drafts/story-writer", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp resumeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Draft)
		assert.False(t, resp.Resumable)
	})

	t.Run("Submit accepted", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/drafts/story-writer", models.DraftSnapshot{
			Story: &models.StoryDraft{Prompt: "a dragon"},
		})
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("Clear", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/v1/drafts/story-writer", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestOptionsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp optionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Audiences)
	assert.NotEmpty(t, resp.Voices)
	assert.Contains(t, resp.AspectRatios, "3:4")
}

func TestRunEndpoints(t *testing.T) {
	stub := &stubStorybookService{
		snapshot: &models.RunSnapshot{
			RunID:  "run-1",
			Status: models.RunStatusDrawing,
			Pages:  []models.Page{{Text: "Cover", ImageURL: "data:x"}},
		},
	}
	router := newTestRouter(t, stub)

	t.Run("Start", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/storybook/runs", startRunRequest{
			Prompt:   "a fox",
			Audience: "Preschoolers (Ages 3-5)",
		})
		require.Equal(t, http.StatusAccepted, w.Code)

		var resp startRunResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "run-1", resp.RunID)
	})

	t.Run("Get snapshot", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/storybook/runs/run-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap models.RunSnapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, models.RunStatusDrawing, snap.Status)
		assert.Len(t, snap.Pages, 1)
	})

	t.Run("Unknown run", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/storybook/runs/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Cancel", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/v1/storybook/runs/run-1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, models.RunStatusCancelled, stub.snapshot.Status)
	})

	t.Run("Cancel finished run conflicts", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/v1/storybook/runs/run-1", nil)
		require.Equal(t, http.StatusConflict, w.Code)

		var errResp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, models.ErrCodeRunFinished, errResp.Code)
	})
}

func TestTranscribeReaderStopsWhenSessionFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	client := mocks.NewMockGenerationClient(t)
	// Живая сессия падает сразу, не прочитав ни одного куска аудио.
	client.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("live session refused"))

	router := gin.New()
	api := router.Group("/api/v1")
	NewToolsHandler(service.NewToolsService(client, logger), client, logger).RegisterRoutes(api)

	before := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		body := bytes.NewReader(make([]byte, 1<<20))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/transcribe", body).WithContext(ctx)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		// Сервер отменяет контекст запроса после выхода из обработчика;
		// читатель тела обязан завершиться, не дожидаясь потребителя.
		cancel()
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+1
	}, 2*time.Second, 10*time.Millisecond, "body-reader goroutines still blocked")
}
