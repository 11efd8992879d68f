package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/audio"
	"storybook-server/internal/models"
)

// Бюджет "размышления" для длинных творческих текстов.
const storyThinkingBudget int32 = 32768

const defaultStoryLength = 500

// IToolsService объединяет одиночные операции инструментов: без
// пайплайна, один запрос — один результат.
type IToolsService interface {
	WriteStory(ctx context.Context, prompt, audience, genre, tone string, length int) (string, error)
	GenerateAssessment(ctx context.Context, sourceText string, numQuestions int, questionTypes []models.QuestionType, difficulty string) (*models.Quiz, error)
	GenerateIllustration(ctx context.Context, prompt, stylePrompt, aspectRatio string) (string, error)
	EditImage(ctx context.Context, prompt string, image models.InlineImage) (string, error)
	AnalyzeMedia(ctx context.Context, prompt string, image models.InlineImage) (string, error)
	Narrate(ctx context.Context, text, voice string) ([]byte, error)
	FactCheck(ctx context.Context, question string) (*models.GroundedAnswer, error)
}

// ToolsService is a thin orchestration layer over the generation client:
// prompt assembly, input validation and output shaping.
type ToolsService struct {
	client ai.GenerationClient
	logger *zap.Logger
}

// NewToolsService создает сервис инструментов.
func NewToolsService(client ai.GenerationClient, logger *zap.Logger) *ToolsService {
	return &ToolsService{
		client: client,
		logger: logger.Named("ToolsService"),
	}
}

// WriteStory generates a long-form story with the thinking budget turned
// on. Length is in words; non-positive falls back to the default.
func (s *ToolsService) WriteStory(ctx context.Context, prompt, audience, genre, tone string, length int) (string, error) {
	if prompt == "" || audience == "" {
		return "", fmt.Errorf("%w: prompt and audience are required", models.ErrInvalidInput)
	}
	if length <= 0 {
		length = defaultStoryLength
	}

	full := buildStoryPrompt(prompt, audience, genre, tone, length)
	story, err := s.client.GenerateText(ctx, full, ai.TextOptions{ThinkingBudget: storyThinkingBudget})
	if err != nil {
		return "", err
	}
	s.logger.Info("Story generated", zap.String("audience", audience), zap.Int("length", length))
	return story, nil
}

// GenerateAssessment builds a quiz from source material.
func (s *ToolsService) GenerateAssessment(ctx context.Context, sourceText string, numQuestions int, questionTypes []models.QuestionType, difficulty string) (*models.Quiz, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("%w: source text is required", models.ErrInvalidInput)
	}
	if numQuestions <= 0 {
		return nil, fmt.Errorf("%w: number of questions must be positive", models.ErrInvalidInput)
	}
	if len(questionTypes) == 0 {
		questionTypes = []models.QuestionType{models.QuestionMultipleChoice}
	}
	if difficulty == "" {
		difficulty = "Medium"
	}

	prompt := buildAssessmentPrompt(sourceText, numQuestions, questionTypes, difficulty)

	var quiz models.Quiz
	if err := s.client.GenerateJSON(ctx, prompt, quizSchema, &quiz); err != nil {
		return nil, err
	}
	if quiz.Title == "" || len(quiz.Questions) == 0 {
		return nil, models.ErrMalformedAIResponse
	}
	return &quiz, nil
}

// GenerateIllustration produces a standalone image as a data URL.
func (s *ToolsService) GenerateIllustration(ctx context.Context, prompt, stylePrompt, aspectRatio string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", models.ErrInvalidInput)
	}
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}
	if !models.ValidAspectRatio(aspectRatio) {
		return "", fmt.Errorf("%w: unsupported aspect ratio %q", models.ErrInvalidInput, aspectRatio)
	}

	full := prompt
	if stylePrompt != "" {
		full = fmt.Sprintf("%s, %s", prompt, stylePrompt)
	}
	return s.client.GenerateImage(ctx, full, aspectRatio)
}

// EditImage применяет текстовую инструкцию к загруженной картинке.
func (s *ToolsService) EditImage(ctx context.Context, prompt string, image models.InlineImage) (string, error) {
	if prompt == "" || len(image.Data) == 0 {
		return "", fmt.Errorf("%w: prompt and image are required", models.ErrInvalidInput)
	}
	return s.client.EditImage(ctx, prompt, image)
}

// AnalyzeMedia отвечает на вопрос о загруженной картинке.
func (s *ToolsService) AnalyzeMedia(ctx context.Context, prompt string, image models.InlineImage) (string, error) {
	if prompt == "" || len(image.Data) == 0 {
		return "", fmt.Errorf("%w: prompt and image are required", models.ErrInvalidInput)
	}
	return s.client.AnalyzeImage(ctx, prompt, image)
}

// Narrate synthesizes speech and returns a complete WAV file ready for
// download or playback.
func (s *ToolsService) Narrate(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrInvalidInput)
	}
	if voice == "" {
		voice = models.TTSVoices[0].Value
	}

	pcm, err := s.client.TextToSpeech(ctx, text, voice)
	if err != nil {
		return nil, err
	}

	wav, err := audio.EncodeWAV(pcm.Data, pcm.SampleRate, pcm.Channels)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Narration generated",
		zap.String("voice", voice), zap.Int("bytes", len(wav)))
	return wav, nil
}

// FactCheck answers a question grounded on web search results.
func (s *ToolsService) FactCheck(ctx context.Context, question string) (*models.GroundedAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", models.ErrInvalidInput)
	}
	return s.client.GroundedSearch(ctx, question)
}
