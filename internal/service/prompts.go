package service

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"storybook-server/internal/models"
)

// buildStorybookPrompt собирает промпт для генерации текста книги.
// Формат ответа дополнительно закреплен схемой storybookSchema.
func buildStorybookPrompt(req models.StorybookRequest) string {
	genre := req.Genre
	if genre == "Any" || genre == "" {
		genre = "You have creative freedom to choose the most fitting and engaging genre."
	}
	tone := req.Tone
	if tone == "Any" || tone == "" {
		tone = "You have creative freedom to choose the most fitting and engaging tone."
	}

	return fmt.Sprintf(`
    You are a master storyteller and creative director for a children's book publishing house. Your task is to generate the complete text content and a detailed art direction guide for a new, high-quality illustrated book.

    **Core Concept:**
    - Topic: "%s"
    - Target Audience: "%s"
    - Genre: %s
    - Tone: %s

    **CRITICAL INSTRUCTIONS:**
    1.  **Age Appropriateness:** The vocabulary, themes, and complexity of the story MUST be perfectly tailored to the "%s". A story for an "Adult Learner" must feel sophisticated, while a story for a "Toddler" must be extremely simple. Do NOT use childish language for older audiences.
    2.  **Coherent Narrative:** The story must be a complete, seamless narrative from beginning to end, with a clear plot and character development appropriate for the story's length.
    3.  **Detailed Art Direction:** The "illustrationStyleGuide" is the most important part. It must be extremely detailed to ensure visual consistency across all pages. It should describe:
        - Main character(s): appearance, clothing, consistent features.
        - Color palette: specific colors, mood (e.g., warm, muted, vibrant).
        - Style: overall artistic style (e.g., whimsical, realistic, cartoonish).
        - Mood: the emotional feel of the illustrations (e.g., adventurous, serene, mysterious).

    **Output Format:**
    Your response MUST be a single JSON object with the following exact structure:
    {
      "title": "A short, magical, and catchy title for the book.",
      "authorName": "An inventive and creative-sounding author's name.",
      "illustrationStyleGuide": "The detailed art direction guide as described above.",
      "storyPages": ["A short paragraph for page 1.", "A short paragraph for page 2.", "..."]
    }
    `, req.Prompt, req.Audience, genre, tone, req.Audience)
}

var storybookSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":                  {Type: genai.TypeString},
		"authorName":             {Type: genai.TypeString},
		"illustrationStyleGuide": {Type: genai.TypeString},
		"storyPages": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"title", "authorName", "illustrationStyleGuide", "storyPages"},
}

// coverImagePrompt: обложка без текста, текст накладывается на странице.
func coverImagePrompt(content *models.StorybookContent, stylePrompt string) string {
	return fmt.Sprintf(`A beautiful book cover illustration. Style Guide: "%s". Theme: "%s". %s. Do not include any text.`,
		content.IllustrationStyleGuide, content.Title, stylePrompt)
}

func sceneImagePrompt(styleGuide, paragraph, stylePrompt string) string {
	return fmt.Sprintf(`A book illustration. Style Guide: "%s". Scene: "%s". %s.`,
		styleGuide, paragraph, stylePrompt)
}

func coverPageText(content *models.StorybookContent) string {
	return fmt.Sprintf("%s\n\nby %s",
		strings.TrimSpace(content.Title), strings.TrimSpace(content.AuthorName))
}

// buildStoryPrompt собирает промпт автора рассказов.
func buildStoryPrompt(prompt, audience, genre, tone string, length int) string {
	full := fmt.Sprintf("For an audience of %s, %s.", audience, prompt)
	full += fmt.Sprintf(" The story should be approximately %d words long.", length)
	if genre != "Any" && genre != "" {
		full += fmt.Sprintf(" The genre should be %s.", genre)
	}
	if tone != "Any" && tone != "" {
		full += fmt.Sprintf(" The tone should be %s.", tone)
	}
	return full
}

func buildAssessmentPrompt(sourceText string, numQuestions int, questionTypes []models.QuestionType, difficulty string) string {
	types := make([]string, len(questionTypes))
	for i, qt := range questionTypes {
		types[i] = string(qt)
	}

	return fmt.Sprintf(`Based on the following text, create a quiz titled "Quiz on the Material". The quiz should have exactly %d questions.
The difficulty level for the questions should be %s.
The questions should be of the following types: %s.

Source Text:
---
%s
---

Generate the quiz in the specified JSON format.`, numQuestions, difficulty, strings.Join(types, ", "), sourceText)
}

var quizSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {Type: genai.TypeString},
		"questions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"type":     {Type: genai.TypeString},
					"options": {
						Type:     genai.TypeArray,
						Items:    &genai.Schema{Type: genai.TypeString},
						Nullable: genai.Ptr(true),
					},
					"answer": {Type: genai.TypeString},
				},
				Required: []string{"question", "type", "answer"},
			},
		},
	},
	Required: []string{"title", "questions"},
}
