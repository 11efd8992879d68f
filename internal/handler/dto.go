package handler

import "storybook-server/internal/models"

type startRunRequest struct {
	Prompt            string `json:"prompt" binding:"required"`
	Audience          string `json:"audience" binding:"required"`
	Genre             string `json:"genre"`
	Tone              string `json:"tone"`
	IllustrationStyle string `json:"illustrationStyle"`
}

type startRunResponse struct {
	RunID string `json:"runId"`
}

type saveStoryRequest struct {
	Title   string `json:"title" binding:"required"`
	Prompt  string `json:"prompt"`
	Content string `json:"content" binding:"required"`
}

type saveStorybookRequest struct {
	Title  string        `json:"title" binding:"required"`
	Prompt string        `json:"prompt"`
	Pages  []models.Page `json:"pages" binding:"required"`
}

type bookmarkRequest struct {
	PageIndex int `json:"pageIndex"`
}

type bookmarkResponse struct {
	BookmarkPageIndex int `json:"bookmarkPageIndex"`
}

type writeStoryRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	Audience string `json:"audience" binding:"required"`
	Genre    string `json:"genre"`
	Tone     string `json:"tone"`
	Length   int    `json:"length"`
}

type storyResponse struct {
	Story string `json:"story"`
}

type assessmentRequest struct {
	SourceText    string                `json:"sourceText" binding:"required"`
	NumQuestions  int                   `json:"numQuestions" binding:"required"`
	QuestionTypes []models.QuestionType `json:"questionTypes"`
	Difficulty    string                `json:"difficulty"`
}

type illustrationRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	StylePrompt string `json:"stylePrompt"`
	AspectRatio string `json:"aspectRatio"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type imageEditRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	// Base64-encoded image payload.
	Image    string `json:"image" binding:"required"`
	MIMEType string `json:"mimeType" binding:"required"`
}

type analyzeRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	Image    string `json:"image" binding:"required"`
	MIMEType string `json:"mimeType" binding:"required"`
}

type textResponse struct {
	Text string `json:"text"`
}

type narrateRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

type factCheckRequest struct {
	Question string `json:"question" binding:"required"`
}

type resumeResponse struct {
	Draft     *models.DraftSnapshot `json:"draft"`
	Resumable bool                  `json:"resumable"`
}

// viewerResponse is the render-ready view state of an opened storybook.
type viewerResponse struct {
	ContentID     string        `json:"contentId"`
	Title         string        `json:"title"`
	CurrentPage   int           `json:"currentPage"`
	TotalPages    int           `json:"totalPages"`
	IsCover       bool          `json:"isCover"`
	SingleView    bool          `json:"singleView"`
	CanGoNext     bool          `json:"canGoNext"`
	CanGoPrevious bool          `json:"canGoPrevious"`
	Label         string        `json:"label"`
	VisiblePages  []models.Page `json:"visiblePages"`
	BookmarkIndex int           `json:"bookmarkPageIndex"`
}

type optionsResponse struct {
	Audiences            []models.Option      `json:"audiences"`
	Genres               []models.Option      `json:"genres"`
	Tones                []models.Option      `json:"tones"`
	StorybookStyles      []models.StylePreset `json:"storybookStyles"`
	IllustrationStyles   []models.StylePreset `json:"illustrationStyles"`
	ImageEditPresets     []models.StylePreset `json:"imageEditPresets"`
	Voices               []models.Option      `json:"voices"`
	AssessmentDifficulty []models.Option      `json:"assessmentDifficulty"`
	AspectRatios         []string             `json:"aspectRatios"`
}
