package service

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/mocks"
	"storybook-server/internal/models"
)

func newToolsService(t *testing.T) (*ToolsService, *mocks.MockGenerationClient) {
	t.Helper()
	client := mocks.NewMockGenerationClient(t)
	return NewToolsService(client, zap.NewNop()), client
}

func TestToolsService_WriteStory(t *testing.T) {
	svc, client := newToolsService(t)
	ctx := context.Background()

	client.On("GenerateText", mock.Anything,
		"For an audience of Adult Learners, a heist in a library. The story should be approximately 800 words long. The genre should be Mystery.",
		ai.TextOptions{ThinkingBudget: 32768}).
		Return("The library was silent.", nil)

	story, err := svc.WriteStory(ctx, "a heist in a library", "Adult Learners", "Mystery", "Any", 800)
	require.NoError(t, err)
	assert.Equal(t, "The library was silent.", story)

	_, err = svc.WriteStory(ctx, "", "Adult Learners", "", "", 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestToolsService_WriteStoryDefaultsLength(t *testing.T) {
	svc, client := newToolsService(t)

	client.On("GenerateText", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "approximately 500 words")
	}), mock.Anything).Return("ok", nil)

	_, err := svc.WriteStory(context.Background(), "p", "Toddlers (Ages 1-3)", "Any", "Any", 0)
	assert.NoError(t, err)
}

func TestToolsService_GenerateAssessment(t *testing.T) {
	svc, client := newToolsService(t)
	ctx := context.Background()

	client.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(3).(*models.Quiz)
			*out = models.Quiz{
				Title: "Quiz on the Material",
				Questions: []models.Question{
					{Question: "Q1", Type: models.QuestionTrueFalse, Answer: "True"},
				},
			}
		}).
		Return(nil)

	quiz, err := svc.GenerateAssessment(ctx, "Volcanoes are mountains.", 1,
		[]models.QuestionType{models.QuestionTrueFalse}, "Easy")
	require.NoError(t, err)
	assert.Equal(t, "Quiz on the Material", quiz.Title)
	require.Len(t, quiz.Questions, 1)

	_, err = svc.GenerateAssessment(ctx, "  ", 1, nil, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.GenerateAssessment(ctx, "text", 0, nil, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestToolsService_GenerateIllustration(t *testing.T) {
	svc, client := newToolsService(t)
	ctx := context.Background()

	client.On("GenerateImage", mock.Anything, "a castle, in a soft, flowing watercolor painting style", "16:9").
		Return("data:image/jpeg;base64,xyz", nil)

	url, err := svc.GenerateIllustration(ctx, "a castle", "in a soft, flowing watercolor painting style", "16:9")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,xyz", url)

	_, err = svc.GenerateIllustration(ctx, "a castle", "", "2:1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.GenerateIllustration(ctx, "", "", "1:1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestToolsService_Narrate(t *testing.T) {
	svc, client := newToolsService(t)
	ctx := context.Background()

	pcm := make([]byte, 48)
	client.On("TextToSpeech", mock.Anything, "Hello class", "Kore").
		Return(&ai.PCMAudio{Data: pcm, SampleRate: 24000, Channels: 1}, nil)

	wav, err := svc.Narrate(ctx, "Hello class", "")
	require.NoError(t, err)

	// Валидный WAV-контейнер с частотой источника.
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Len(t, wav, 44+len(pcm))

	_, err = svc.Narrate(ctx, "   ", "Kore")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestToolsService_FactCheck(t *testing.T) {
	svc, client := newToolsService(t)
	ctx := context.Background()

	client.On("GroundedSearch", mock.Anything, "Is the sky blue?").
		Return(&models.GroundedAnswer{
			Text:    "Yes.",
			Sources: []models.GroundingSource{{URI: "https://example.com", Title: "Sky"}},
		}, nil)

	answer, err := svc.FactCheck(ctx, "Is the sky blue?")
	require.NoError(t, err)
	assert.Equal(t, "Yes.", answer.Text)
	require.Len(t, answer.Sources, 1)

	_, err = svc.FactCheck(ctx, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestToolsService_EditAndAnalyzeValidation(t *testing.T) {
	svc, _ := newToolsService(t)
	ctx := context.Background()

	_, err := svc.EditImage(ctx, "make it vintage", models.InlineImage{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.AnalyzeMedia(ctx, "", models.InlineImage{Data: []byte{1}, MIMEType: "image/png"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
