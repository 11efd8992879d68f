package models

// ToolID identifies a tool panel. Each tool owns exactly one in-progress
// draft slot in the persistent store.
type ToolID string

const (
	ToolStoryWriter      ToolID = "story-writer"
	ToolStorybookCreator ToolID = "storybook-creator"
	ToolLessonPlanner    ToolID = "lesson-planner"
)

// KnownTool сообщает, поддерживает ли инструмент автосохранение.
func KnownTool(id ToolID) bool {
	switch id {
	case ToolStoryWriter, ToolStorybookCreator, ToolLessonPlanner:
		return true
	}
	return false
}

// DraftSnapshot is a tagged union: exactly one variant is set, and it
// must match Tool. Keeping the shapes per tool lets the resume path
// validate structurally instead of trusting arbitrary JSON.
type DraftSnapshot struct {
	Tool      ToolID          `json:"tool"`
	Story     *StoryDraft     `json:"story,omitempty"`
	Storybook *StorybookDraft `json:"storybook,omitempty"`
	Lesson    *LessonDraft    `json:"lesson,omitempty"`
}

// StoryDraft is the story writer's unfinished input.
type StoryDraft struct {
	Prompt   string `json:"prompt"`
	Audience string `json:"audience"`
	Genre    string `json:"genre"`
	Tone     string `json:"tone"`
	Length   int    `json:"length"`
}

// StorybookDraft is the storybook creator's unfinished input. Pages are
// persisted with ImageURL zeroed to respect storage size limits.
type StorybookDraft struct {
	Prompt            string `json:"prompt"`
	Audience          string `json:"audience"`
	Genre             string `json:"genre"`
	Tone              string `json:"tone"`
	IllustrationStyle string `json:"illustrationStyle"`
	Pages             []Page `json:"pages"`
}

// LessonDraft is the lesson planner's unfinished input.
type LessonDraft struct {
	Topic      string   `json:"topic"`
	Audience   string   `json:"audience"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
	Plan       string   `json:"plan"`
}

// Validate проверяет, что заполнен ровно один вариант и он соответствует Tool.
func (d *DraftSnapshot) Validate() error {
	if !KnownTool(d.Tool) {
		return ErrUnknownTool
	}
	variants := 0
	if d.Story != nil {
		variants++
		if d.Tool != ToolStoryWriter {
			return ErrDraftMismatch
		}
	}
	if d.Storybook != nil {
		variants++
		if d.Tool != ToolStorybookCreator {
			return ErrDraftMismatch
		}
	}
	if d.Lesson != nil {
		variants++
		if d.Tool != ToolLessonPlanner {
			return ErrDraftMismatch
		}
	}
	if variants != 1 {
		return ErrDraftMismatch
	}
	return nil
}

// HasContent reports whether the snapshot carries anything worth offering
// a resume for (any non-empty field, matching the original resume check).
func (d *DraftSnapshot) HasContent() bool {
	switch {
	case d.Story != nil:
		s := d.Story
		return s.Prompt != "" || s.Audience != "" || s.Genre != "" || s.Tone != "" || s.Length > 0
	case d.Storybook != nil:
		s := d.Storybook
		return s.Prompt != "" || s.Audience != "" || s.Genre != "" || s.Tone != "" ||
			s.IllustrationStyle != "" || len(s.Pages) > 0
	case d.Lesson != nil:
		l := d.Lesson
		return l.Topic != "" || l.Audience != "" || l.Duration != "" || len(l.Activities) > 0 || l.Plan != ""
	}
	return false
}

// Redact zeroes large binary payloads (page images) before the snapshot
// is persisted. Drafts are best-effort; images are regenerated, not resumed.
func (d *DraftSnapshot) Redact() {
	if d.Storybook == nil {
		return
	}
	for i := range d.Storybook.Pages {
		d.Storybook.Pages[i].ImageURL = ""
	}
}
