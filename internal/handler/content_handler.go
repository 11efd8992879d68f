package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/book"
	"storybook-server/internal/export"
	"storybook-server/internal/models"
	"storybook-server/internal/service"
)

// ContentHandler обслуживает библиотеку сохраненных материалов и
// просмотрщик книжек.
type ContentHandler struct {
	contents service.IContentService
	logger   *zap.Logger
}

func NewContentHandler(contents service.IContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contents: contents,
		logger:   logger.Named("ContentHandler"),
	}
}

func (h *ContentHandler) RegisterRoutes(api *gin.RouterGroup) {
	content := api.Group("/content")
	{
		content.GET("", h.list)
		content.POST("/story", h.saveStory)
		content.POST("/storybook", h.saveStorybook)
		content.GET("/:content_id", h.get)
		content.DELETE("/:content_id", h.delete)
		content.POST("/:content_id/bookmark", h.toggleBookmark)
		content.GET("/:content_id/view", h.view)
		content.GET("/:content_id/export", h.exportPrint)
	}
}

func (h *ContentHandler) list(c *gin.Context) {
	items, err := h.contents.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) saveStory(c *gin.Context) {
	var req saveStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	saved, err := h.contents.SaveStory(c.Request.Context(), req.Title, req.Prompt, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *ContentHandler) saveStorybook(c *gin.Context) {
	var req saveStorybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	saved, err := h.contents.SaveStorybook(c.Request.Context(), req.Title, req.Prompt, req.Pages)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *ContentHandler) get(c *gin.Context) {
	item, err := h.contents.Get(c.Request.Context(), c.Param("content_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ContentHandler) delete(c *gin.Context) {
	if err := h.contents.Delete(c.Request.Context(), c.Param("content_id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) toggleBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	idx, err := h.contents.ToggleBookmark(c.Request.Context(), c.Param("content_id"), req.PageIndex)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookmarkResponse{BookmarkPageIndex: idx})
}

// view возвращает готовое к отрисовке состояние просмотрщика: навигация
// по разворотам плюс видимые страницы.
func (h *ContentHandler) view(c *gin.Context) {
	item, err := h.contents.Get(c.Request.Context(), c.Param("content_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if item.Type != models.ContentTypeStorybook {
		handleServiceError(c, fmt.Errorf("%w: only storybooks have a page view", models.ErrInvalidInput))
		return
	}

	nav := book.NewNavigator(len(item.Pages))
	page := item.BookmarkPageIndex
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			handleServiceError(c, fmt.Errorf("%w: page must be an integer", models.ErrInvalidInput))
			return
		}
		page = parsed
	}
	nav = nav.GoTo(page)

	visible := make([]models.Page, 0, 2)
	for _, idx := range nav.VisiblePages() {
		visible = append(visible, item.Pages[idx])
	}

	c.JSON(http.StatusOK, viewerResponse{
		ContentID:     item.ID,
		Title:         item.Title,
		CurrentPage:   nav.CurrentPage,
		TotalPages:    nav.TotalPages,
		IsCover:       nav.IsCover(),
		SingleView:    nav.IsSinglePageView(),
		CanGoNext:     nav.CanGoNext(),
		CanGoPrevious: nav.CanGoPrevious(),
		Label:         nav.Label(),
		VisiblePages:  visible,
		BookmarkIndex: item.BookmarkPageIndex,
	})
}

func (h *ContentHandler) exportPrint(c *gin.Context) {
	item, err := h.contents.Get(c.Request.Context(), c.Param("content_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	doc, err := export.PrintHTML(item)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}
