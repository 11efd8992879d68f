// Package ai wraps the Gemini generative API behind a single client
// interface: text, structured JSON, images, speech, live transcription
// and grounded search. Every method is one network call; retry policy
// belongs to the caller.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"storybook-server/internal/models"
)

// Config содержит настройки клиента генеративного API.
type Config struct {
	APIKey string `env:"GEMINI_API_KEY" env-required:"true"`

	TextModel      string `env:"AI_TEXT_MODEL" env-default:"gemini-2.5-pro"`
	FastTextModel  string `env:"AI_FAST_TEXT_MODEL" env-default:"gemini-2.5-flash"`
	ImageModel     string `env:"AI_IMAGE_MODEL" env-default:"imagen-4.0-generate-001"`
	EditImageModel string `env:"AI_EDIT_IMAGE_MODEL" env-default:"gemini-2.5-flash-image"`
	TTSModel       string `env:"AI_TTS_MODEL" env-default:"gemini-2.5-flash-preview-tts"`
	LiveModel      string `env:"AI_LIVE_MODEL" env-default:"gemini-2.5-flash-native-audio-preview-09-2025"`

	RequestTimeout time.Duration `env:"AI_REQUEST_TIMEOUT" env-default:"120s"`
}

// TextOptions управляет генерацией текста. ThinkingBudget > 0 включает
// режим "размышления" основной модели; иначе используется быстрая модель.
type TextOptions struct {
	ThinkingBudget int32
}

// PCMAudio is decoded speech audio: 16-bit little-endian PCM samples.
type PCMAudio struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// TranscriptFunc receives incremental transcript text; final is set when
// the speaker's turn completes and the accumulated text is flushed.
type TranscriptFunc func(transcript string, final bool)

// GenerationClient is the single surface the tools talk to.
type GenerationClient interface {
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error)
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error
	// GenerateImage returns a data-URL encoded image.
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error)
	EditImage(ctx context.Context, prompt string, image models.InlineImage) (string, error)
	AnalyzeImage(ctx context.Context, prompt string, image models.InlineImage) (string, error)
	TextToSpeech(ctx context.Context, text string, voice string) (*PCMAudio, error)
	GroundedSearch(ctx context.Context, prompt string) (*models.GroundedAnswer, error)
	// Transcribe streams PCM chunks (16kHz mono) to a live session and
	// reports transcript updates until the audio channel closes or ctx
	// is cancelled.
	Transcribe(ctx context.Context, audio <-chan []byte, onUpdate TranscriptFunc) error
}

type geminiClient struct {
	client *genai.Client
	cfg    Config
	logger *zap.Logger
}

// NewGeminiClient creates a GenerationClient backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg Config, logger *zap.Logger) (GenerationClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiClient{
		client: client,
		cfg:    cfg,
		logger: logger.Named("GeminiClient"),
	}, nil
}

func (c *geminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

func (c *geminiClient) GenerateText(ctx context.Context, prompt string, opts TextOptions) (text string, err error) {
	defer func(start time.Time) { observe("generate_text", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	model := c.cfg.FastTextModel
	var config *genai.GenerateContentConfig
	if opts.ThinkingBudget > 0 {
		model = c.cfg.TextModel
		config = &genai.GenerateContentConfig{
			ThinkingConfig: &genai.ThinkingConfig{
				ThinkingBudget: genai.Ptr[int32](opts.ThinkingBudget),
			},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		c.logger.Error("Text generation failed", zap.String("model", model), zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	text = resp.Text()
	if text == "" {
		return "", models.ErrEmptyResult
	}
	return text, nil
}

func (c *geminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) (err error) {
	defer func(start time.Time) { observe("generate_json", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(prompt), config)
	if err != nil {
		c.logger.Error("Structured generation failed", zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	raw := resp.Text()
	if raw == "" {
		return models.ErrEmptyResult
	}
	// Невалидный JSON — фатальная ошибка запуска, без ретраев.
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.Error("Failed to parse structured generation response", zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrMalformedAIResponse, err)
	}
	return nil
}

func (c *geminiClient) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (url string, err error) {
	defer func(start time.Time) { observe("generate_image", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Models.GenerateImages(ctx, c.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    aspectRatio,
	})
	if err != nil {
		c.logger.Warn("Image generation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		// Вызов "успешен", но картинки нет — для вызывающего это отказ.
		return "", models.ErrEmptyResult
	}

	encoded := base64.StdEncoding.EncodeToString(resp.GeneratedImages[0].Image.ImageBytes)
	return "data:image/jpeg;base64," + encoded, nil
}

func (c *geminiClient) EditImage(ctx context.Context, prompt string, image models.InlineImage) (url string, err error) {
	defer func(start time.Time) { observe("edit_image", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: image.Data, MIMEType: image.MIMEType}},
			{Text: prompt},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.EditImageModel, contents, config)
	if err != nil {
		c.logger.Warn("Image edit failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return "data:image/png;base64," + encoded, nil
			}
		}
	}
	return "", models.ErrEmptyResult
}

func (c *geminiClient) AnalyzeImage(ctx context.Context, prompt string, image models.InlineImage) (text string, err error) {
	defer func(start time.Time) { observe("analyze_image", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{Data: image.Data, MIMEType: image.MIMEType}},
		},
	}}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.FastTextModel, contents, nil)
	if err != nil {
		c.logger.Error("Image analysis failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	text = resp.Text()
	if text == "" {
		return "", models.ErrEmptyResult
	}
	return text, nil
}

func (c *geminiClient) TextToSpeech(ctx context.Context, text string, voice string) (audio *PCMAudio, err error) {
	defer func(start time.Time) { observe("text_to_speech", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TTSModel, genai.Text(text), config)
	if err != nil {
		c.logger.Error("TTS generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				// Модель отдает 16-битный PCM, 24 кГц, моно.
				return &PCMAudio{
					Data:       part.InlineData.Data,
					SampleRate: 24000,
					Channels:   1,
				}, nil
			}
		}
	}
	return nil, models.ErrEmptyResult
}

func (c *geminiClient) GroundedSearch(ctx context.Context, prompt string) (answer *models.GroundedAnswer, err error) {
	defer func(start time.Time) { observe("grounded_search", start, err) }(time.Now())
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.FastTextModel, genai.Text(prompt), config)
	if err != nil {
		c.logger.Error("Grounded search failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	answer = &models.GroundedAnswer{
		Text:    resp.Text(),
		Sources: []models.GroundingSource{},
	}
	if answer.Text == "" {
		return nil, models.ErrEmptyResult
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			answer.Sources = append(answer.Sources, models.GroundingSource{
				URI:   chunk.Web.URI,
				Title: chunk.Web.Title,
			})
		}
	}
	return answer, nil
}

func (c *geminiClient) Transcribe(ctx context.Context, audio <-chan []byte, onUpdate TranscriptFunc) (err error) {
	defer func(start time.Time) { observe("transcribe", start, err) }(time.Now())

	session, err := c.client.Live.Connect(ctx, c.cfg.LiveModel, &genai.LiveConnectConfig{
		ResponseModalities:      []genai.Modality{genai.ModalityAudio},
		InputAudioTranscription: &genai.AudioTranscriptionConfig{},
	})
	if err != nil {
		c.logger.Error("Failed to open live session", zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}
	defer session.Close()

	// Отправка аудио в отдельной горутине; прием — в текущей.
	sendDone := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				sendDone <- ctx.Err()
				return
			case chunk, ok := <-audio:
				if !ok {
					sendDone <- nil
					return
				}
				sendErr := session.SendRealtimeInput(genai.LiveRealtimeInput{
					Media: &genai.Blob{Data: chunk, MIMEType: "audio/pcm;rate=16000"},
				})
				if sendErr != nil {
					sendDone <- sendErr
					return
				}
			}
		}
	}()

	type received struct {
		msg *genai.LiveServerMessage
		err error
	}
	recvCh := make(chan received)
	go func() {
		for {
			msg, recvErr := session.Receive()
			select {
			case recvCh <- received{msg: msg, err: recvErr}:
			case <-ctx.Done():
				return
			}
			if recvErr != nil {
				return
			}
		}
	}()

	// После конца входного аудио ждем хвост транскрипции не дольше
	// drainTimeout: сервер не обязан присылать TurnComplete.
	const drainTimeout = 3 * time.Second
	var drain <-chan time.Time

	current := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sendErr := <-sendDone:
			if sendErr != nil {
				return sendErr
			}
			timer := time.NewTimer(drainTimeout)
			defer timer.Stop()
			drain = timer.C
			sendDone = nil
		case <-drain:
			if current != "" {
				onUpdate(current, true)
			}
			return nil
		case rm := <-recvCh:
			if rm.err != nil {
				return rm.err
			}
			if rm.msg == nil || rm.msg.ServerContent == nil {
				continue
			}
			if rm.msg.ServerContent.InputTranscription != nil {
				current += rm.msg.ServerContent.InputTranscription.Text
				onUpdate(current, false)
			}
			if rm.msg.ServerContent.TurnComplete {
				onUpdate(current, true)
				current = ""
				if sendDone == nil {
					return nil
				}
			}
		}
	}
}
