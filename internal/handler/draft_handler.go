package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/internal/service"
)

// DraftHandler обслуживает автосохранение черновиков инструментов.
type DraftHandler struct {
	drafts service.IDraftService
	logger *zap.Logger
}

func NewDraftHandler(drafts service.IDraftService, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		logger: logger.Named("DraftHandler"),
	}
}

func (h *DraftHandler) RegisterRoutes(api *gin.RouterGroup) {
	drafts := api.Group("/drafts")
	{
		drafts.PUT("/:tool", h.submit)
		drafts.GET("/:tool", h.load)
		drafts.DELETE("/:tool", h.clear)
	}
}

// submit принимает снимок черновика. Запись в хранилище отложенная:
// клиент может слать снимки на каждое изменение формы.
func (h *DraftHandler) submit(c *gin.Context) {
	var snap models.DraftSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}
	snap.Tool = models.ToolID(c.Param("tool"))

	if err := h.drafts.Submit(&snap); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *DraftHandler) load(c *gin.Context) {
	snap, resumable, err := h.drafts.Load(c.Request.Context(), models.ToolID(c.Param("tool")))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumeResponse{Draft: snap, Resumable: resumable})
}

func (h *DraftHandler) clear(c *gin.Context) {
	if err := h.drafts.Clear(c.Request.Context(), models.ToolID(c.Param("tool"))); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
