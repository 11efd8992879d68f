package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"storybook-server/internal/ai"
	"storybook-server/internal/models"
)

// MockGenerationClient is a mock type for the GenerationClient type
type MockGenerationClient struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, prompt, opts
func (_m *MockGenerationClient) GenerateText(ctx context.Context, prompt string, opts ai.TextOptions) (string, error) {
	ret := _m.Called(ctx, prompt, opts)
	return ret.String(0), ret.Error(1)
}

// GenerateJSON provides a mock function with given fields: ctx, prompt, schema, out
func (_m *MockGenerationClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	ret := _m.Called(ctx, prompt, schema, out)
	return ret.Error(0)
}

// GenerateImage provides a mock function with given fields: ctx, prompt, aspectRatio
func (_m *MockGenerationClient) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error) {
	ret := _m.Called(ctx, prompt, aspectRatio)
	return ret.String(0), ret.Error(1)
}

// EditImage provides a mock function with given fields: ctx, prompt, image
func (_m *MockGenerationClient) EditImage(ctx context.Context, prompt string, image models.InlineImage) (string, error) {
	ret := _m.Called(ctx, prompt, image)
	return ret.String(0), ret.Error(1)
}

// AnalyzeImage provides a mock function with given fields: ctx, prompt, image
func (_m *MockGenerationClient) AnalyzeImage(ctx context.Context, prompt string, image models.InlineImage) (string, error) {
	ret := _m.Called(ctx, prompt, image)
	return ret.String(0), ret.Error(1)
}

// TextToSpeech provides a mock function with given fields: ctx, text, voice
func (_m *MockGenerationClient) TextToSpeech(ctx context.Context, text string, voice string) (*ai.PCMAudio, error) {
	ret := _m.Called(ctx, text, voice)

	var r0 *ai.PCMAudio
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ai.PCMAudio)
	}
	return r0, ret.Error(1)
}

// GroundedSearch provides a mock function with given fields: ctx, prompt
func (_m *MockGenerationClient) GroundedSearch(ctx context.Context, prompt string) (*models.GroundedAnswer, error) {
	ret := _m.Called(ctx, prompt)

	var r0 *models.GroundedAnswer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.GroundedAnswer)
	}
	return r0, ret.Error(1)
}

// Transcribe provides a mock function with given fields: ctx, audio, onUpdate
func (_m *MockGenerationClient) Transcribe(ctx context.Context, audio <-chan []byte, onUpdate ai.TranscriptFunc) error {
	ret := _m.Called(ctx, audio, onUpdate)
	return ret.Error(0)
}

// NewMockGenerationClient creates a new instance of MockGenerationClient.
// The first argument is typically a *testing.T value.
func NewMockGenerationClient(t interface {
	mock.TestingT
	Helper()
}) *MockGenerationClient {
	m := &MockGenerationClient{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ ai.GenerationClient = (*MockGenerationClient)(nil)
