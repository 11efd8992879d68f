package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/Store Errors
	ErrNotFound    = errors.New("resource not found")
	ErrKeyNotFound = errors.New("key not found in store")

	// Generation Errors
	ErrGenerationFailed    = errors.New("generation failed")
	ErrMalformedAIResponse = errors.New("the AI returned an invalid format")
	ErrEmptyResult         = errors.New("generation returned an empty result")
	ErrRunNotFound         = errors.New("generation run not found")
	ErrRunFinished         = errors.New("generation run already finished")
	ErrRunCancelled        = errors.New("generation run was cancelled")

	// Draft Errors
	ErrUnknownTool   = errors.New("unknown tool identifier")
	ErrDraftMismatch = errors.New("draft payload does not match tool identifier")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)

// Machine-readable error codes for API responses.
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeRunNotFound = "RUN_NOT_FOUND"
	ErrCodeRunFinished = "RUN_FINISHED"
	ErrCodeTooManyRuns = "TOO_MANY_RUNS"
	ErrCodeGeneration  = "GENERATION_FAILED"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// ErrorResponse — единый формат ошибки API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
