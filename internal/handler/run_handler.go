package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/internal/service"
	"storybook-server/internal/sse"
)

// RunHandler обслуживает запуски генерации книжек.
type RunHandler struct {
	storybooks service.IStorybookService
	hub        *sse.Hub
	logger     *zap.Logger
}

func NewRunHandler(storybooks service.IStorybookService, hub *sse.Hub, logger *zap.Logger) *RunHandler {
	return &RunHandler{
		storybooks: storybooks,
		hub:        hub,
		logger:     logger.Named("RunHandler"),
	}
}

func (h *RunHandler) RegisterRoutes(api *gin.RouterGroup) {
	runs := api.Group("/storybook/runs")
	{
		runs.POST("", h.startRun)
		runs.GET("/:run_id", h.getRun)
		runs.DELETE("/:run_id", h.cancelRun)
		runs.GET("/:run_id/events", h.streamEvents)
	}
}

func (h *RunHandler) startRun(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	runID, err := h.storybooks.StartRun(c.Request.Context(), models.StorybookRequest{
		Prompt:            req.Prompt,
		Audience:          req.Audience,
		Genre:             req.Genre,
		Tone:              req.Tone,
		IllustrationStyle: req.IllustrationStyle,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, startRunResponse{RunID: runID})
}

func (h *RunHandler) getRun(c *gin.Context) {
	snap, err := h.storybooks.GetRun(c.Param("run_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *RunHandler) cancelRun(c *gin.Context) {
	if err := h.storybooks.CancelRun(c.Param("run_id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// streamEvents пушит события запуска клиенту через Server-Sent Events.
// Сначала отдается полный снимок, затем инкрементальные события.
func (h *RunHandler) streamEvents(c *gin.Context) {
	runID := c.Param("run_id")

	snap, err := h.storybooks.GetRun(runID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	events, cancel := h.hub.Subscribe(runID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	writeSSE(c, "snapshot", snap)
	c.Writer.Flush()

	// Терминальный запуск: снимок уже финален, поток можно закрывать.
	switch snap.Status {
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCancelled:
		return
	}

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case ev, ok := <-events:
			if !ok {
				// Топик закрыт: шлем финальный снимок и завершаем поток.
				if final, err := h.storybooks.GetRun(runID); err == nil {
					writeSSE(c, "snapshot", final)
					c.Writer.Flush()
				}
				return
			}
			writeSSE(c, ev.Name, ev.Data)
			c.Writer.Flush()
		}
	}
}

func writeSSE(c *gin.Context, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
}
