package handler

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/models"
	"storybook-server/internal/service"
)

// Размер порции аудио, пересылаемой в живую сессию за раз.
const transcribeChunkSize = 8192

// ToolsHandler обслуживает одиночные операции инструментов.
type ToolsHandler struct {
	tools  service.IToolsService
	client ai.GenerationClient
	logger *zap.Logger
}

func NewToolsHandler(tools service.IToolsService, client ai.GenerationClient, logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{
		tools:  tools,
		client: client,
		logger: logger.Named("ToolsHandler"),
	}
}

func (h *ToolsHandler) RegisterRoutes(api *gin.RouterGroup) {
	tools := api.Group("/tools")
	{
		tools.POST("/story", h.writeStory)
		tools.POST("/assessment", h.generateAssessment)
		tools.POST("/illustration", h.generateIllustration)
		tools.POST("/image-edit", h.editImage)
		tools.POST("/analyze", h.analyzeMedia)
		tools.POST("/narrate", h.narrate)
		tools.POST("/fact-check", h.factCheck)
		tools.POST("/transcribe", h.transcribe)
	}
}

func (h *ToolsHandler) writeStory(c *gin.Context) {
	var req writeStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	story, err := h.tools.WriteStory(c.Request.Context(), req.Prompt, req.Audience, req.Genre, req.Tone, req.Length)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storyResponse{Story: story})
}

func (h *ToolsHandler) generateAssessment(c *gin.Context) {
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	quiz, err := h.tools.GenerateAssessment(c.Request.Context(), req.SourceText, req.NumQuestions, req.QuestionTypes, req.Difficulty)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *ToolsHandler) generateIllustration(c *gin.Context) {
	var req illustrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	url, err := h.tools.GenerateIllustration(c.Request.Context(), req.Prompt, req.StylePrompt, req.AspectRatio)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, imageResponse{ImageURL: url})
}

func (h *ToolsHandler) editImage(c *gin.Context) {
	var req imageEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	image, err := decodeInlineImage(req.Image, req.MIMEType)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	url, err := h.tools.EditImage(c.Request.Context(), req.Prompt, image)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, imageResponse{ImageURL: url})
}

func (h *ToolsHandler) analyzeMedia(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	image, err := decodeInlineImage(req.Image, req.MIMEType)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	text, err := h.tools.AnalyzeMedia(c.Request.Context(), req.Prompt, image)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, textResponse{Text: text})
}

func (h *ToolsHandler) narrate(c *gin.Context) {
	var req narrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	wav, err := h.tools.Narrate(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="narration.wav"`)
	c.Data(http.StatusOK, "audio/wav", wav)
}

func (h *ToolsHandler) factCheck(c *gin.Context) {
	var req factCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	answer, err := h.tools.FactCheck(c.Request.Context(), req.Question)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// transcribe принимает сырой PCM-поток (16 кГц, моно, 16 бит) в теле
// запроса и стримит обновления транскрипта обратно как SSE.
func (h *ToolsHandler) transcribe(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	audioChunks := make(chan []byte, 8)
	readErr := make(chan error, 1)
	go func() {
		defer close(audioChunks)
		ctx := c.Request.Context()
		for {
			buf := make([]byte, transcribeChunkSize)
			n, err := io.ReadFull(c.Request.Body, buf)
			if n > 0 {
				select {
				case audioChunks <- buf[:n]:
				case <-ctx.Done():
					// Сессия оборвалась, канал больше никто не читает.
					return
				}
			}
			if err != nil {
				if err != io.EOF && err != io.ErrUnexpectedEOF {
					readErr <- err
				}
				return
			}
		}
	}()

	type transcriptEvent struct {
		Transcript string `json:"transcript"`
		Final      bool   `json:"final"`
	}

	err := h.client.Transcribe(c.Request.Context(), audioChunks, func(transcript string, final bool) {
		writeSSE(c, "transcript", transcriptEvent{Transcript: transcript, Final: final})
		c.Writer.Flush()
	})
	if err != nil && c.Request.Context().Err() == nil {
		h.logger.Error("Transcription session failed", zap.Error(err))
		writeSSE(c, "error", models.ErrorResponse{Code: models.ErrCodeGeneration, Message: err.Error()})
		c.Writer.Flush()
	}

	select {
	case err := <-readErr:
		h.logger.Warn("Audio stream read failed", zap.Error(err))
	default:
	}
}

func decodeInlineImage(encoded, mimeType string) (models.InlineImage, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return models.InlineImage{}, fmt.Errorf("%w: image must be valid base64", models.ErrInvalidInput)
	}
	return models.InlineImage{Data: data, MIMEType: mimeType}, nil
}
