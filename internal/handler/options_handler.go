package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storybook-server/internal/models"
)

// OptionsHandler отдает статические каталоги для выпадающих списков.
type OptionsHandler struct{}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

func (h *OptionsHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/options", h.options)
}

func (h *OptionsHandler) options(c *gin.Context) {
	c.JSON(http.StatusOK, optionsResponse{
		Audiences:            models.AudienceOptions,
		Genres:               models.StoryGenreOptions,
		Tones:                models.StoryToneOptions,
		StorybookStyles:      models.StorybookIllustrationStyles,
		IllustrationStyles:   models.IllustrationStylePresets,
		ImageEditPresets:     models.ImageEditPresets,
		Voices:               models.TTSVoices,
		AssessmentDifficulty: models.AssessmentDifficultyOptions,
		AspectRatios:         models.AspectRatios,
	})
}
