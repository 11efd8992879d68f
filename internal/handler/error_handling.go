package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/models"
	"storybook-server/pkg/taskmanager"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: err.Error()}
	case errors.Is(err, models.ErrUnknownTool), errors.Is(err, models.ErrDraftMismatch):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: err.Error()}
	case errors.Is(err, models.ErrRunNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeRunNotFound, Message: "Generation run not found"}
	case errors.Is(err, models.ErrRunFinished):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeRunFinished, Message: "Generation run already finished"}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Content not found"}
	case errors.Is(err, taskmanager.ErrTooManyRuns):
		statusCode = http.StatusTooManyRequests
		errResp = models.ErrorResponse{Code: models.ErrCodeTooManyRuns, Message: "Too many active generation runs, try again later"}
	case errors.Is(err, models.ErrGenerationFailed),
		errors.Is(err, models.ErrEmptyResult),
		errors.Is(err, models.ErrMalformedAIResponse):
		statusCode = http.StatusBadGateway
		errResp = models.ErrorResponse{Code: models.ErrCodeGeneration, Message: err.Error()}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
