package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType различает сохраненные материалы.
type ContentType string

const (
	ContentTypeStory     ContentType = "Story"
	ContentTypeStorybook ContentType = "Storybook"
)

// Page is one unit of book content. Index 0 is always the cover.
// ImageURL may be empty when illustration generation failed; Text is
// always present (possibly empty for image-only content).
type Page struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

// StorybookContent is the structured text-generation result that drives
// the per-page image prompts. IllustrationStyleGuide is generated once
// and reused verbatim in every image prompt of the run.
type StorybookContent struct {
	Title                  string   `json:"title"`
	AuthorName             string   `json:"authorName"`
	IllustrationStyleGuide string   `json:"illustrationStyleGuide"`
	StoryPages             []string `json:"storyPages"`
}

// Validate проверяет, что ответ AI содержит все обязательные поля.
func (c *StorybookContent) Validate() error {
	if strings.TrimSpace(c.Title) == "" ||
		strings.TrimSpace(c.AuthorName) == "" ||
		strings.TrimSpace(c.IllustrationStyleGuide) == "" ||
		len(c.StoryPages) == 0 {
		return ErrMalformedAIResponse
	}
	return nil
}

// SavedContent is a user-saved creation. Invariant: type Story carries
// Content and no Pages; type Storybook carries a non-empty ordered Pages
// sequence and no Content.
type SavedContent struct {
	ID                string      `json:"id"`
	Type              ContentType `json:"type"`
	Title             string      `json:"title"`
	Prompt            string      `json:"prompt"`
	Content           string      `json:"content,omitempty"`
	Pages             []Page      `json:"pages,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	BookmarkPageIndex int         `json:"bookmarkPageIndex,omitempty"`
}

// NewContentID выдает уникальный идентификатор сохраненного материала.
// Timestamp + случайный суффикс, чтобы два сохранения в одну миллисекунду
// не столкнулись.
func NewContentID(now time.Time) string {
	return now.UTC().Format(time.RFC3339Nano) + "-" + uuid.NewString()[:8]
}

// StorybookRequest is the user input that starts a generation run.
type StorybookRequest struct {
	Prompt            string `json:"prompt"`
	Audience          string `json:"audience"`
	Genre             string `json:"genre"`
	Tone              string `json:"tone"`
	IllustrationStyle string `json:"illustrationStyle"`
}

// RunStatus отражает жизненный цикл одного запуска пайплайна.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusWriting   RunStatus = "writing"
	RunStatusDrawing   RunStatus = "drawing"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether a run in this status will never change again.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// RunSnapshot is the externally visible state of a generation run:
// pages produced so far plus a human-readable progress line.
type RunSnapshot struct {
	RunID     string    `json:"runId"`
	Status    RunStatus `json:"status"`
	Progress  string    `json:"progress,omitempty"`
	Pages     []Page    `json:"pages"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GroundingSource is one web citation of a grounded answer.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundedAnswer is the fact-checker result: answer text plus the list
// of sources the model grounded it on.
type GroundedAnswer struct {
	Text    string            `json:"text"`
	Sources []GroundingSource `json:"sources"`
}

// QuestionType перечисляет поддерживаемые типы вопросов теста.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionFillInBlank    QuestionType = "fill-in-the-blank"
)

// Question is a single quiz question.
type Question struct {
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer"`
}

// Quiz is the assessment-generator result.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// InlineImage is a user-supplied image forwarded to the generative API.
type InlineImage struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mimeType"`
}
